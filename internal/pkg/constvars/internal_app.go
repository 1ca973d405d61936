package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_OPERATOR_ID_KEY          ContextKey = "operator_id"
)

const (
	// DefaultInvoiceBucket groups bill items that arrive without an invoice
	// number.
	DefaultInvoiceBucket = "INV-001"

	// HighValueClaimThreshold is the total-invoiced amount above which the
	// high-value-claim heuristic fires, in currency units.
	HighValueClaimThreshold = 10000.0

	// HighValueItemMultiplier flags items invoiced above this multiple of the
	// claim's average line amount.
	HighValueItemMultiplier = 3.0

	// MedicationItemLimit is the medication-line count above which the
	// excessive-medication heuristic fires.
	MedicationItemLimit = 5

	HospitalTrustHighRiskBelow   = 60.0
	HospitalTrustMediumRiskBelow = 75.0
	PatientTrustMediumRiskBelow  = 70.0
)

const (
	MongoCollectionDecisions = "adjudication_decisions"
)

const (
	RedisKeyClaimSessionFormat = "claimdesk:session:%s"
	ClaimSessionCacheTTLHours  = 12
)

const (
	QueueClaimEvents       = "claimdesk.claim.events"
	EventRerunCompleted    = "rerun.completed"
	EventDecisionFinalized = "decision.finalized"
)

const (
	URLParamClaimID    = "claim_id"
	URLParamItemID     = "item_id"
	URLParamStage      = "stage"
	URLParamDocumentID = "document_id"
	URLParamItemKey    = "item_key"
)

const (
	ItemDateLayout = "2006-01-02"
)
