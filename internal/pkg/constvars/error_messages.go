package constvars

// Validation messages for users, map it with respective tag field
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"oneof":    "must be one of %s",
	"min":      "must be at least %s",
	"max":      "maximum at %s",
	"gte":      "must be greater than or equal to %s",
}

var TagsWithParams = map[string]bool{
	"oneof": true,
	"min":   true,
	"max":   true,
	"gte":   true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientClaimNotFound                 = "claim details not found"
	ErrClientStageLocked                   = "complete the previous step before continuing"
	ErrClientOpenQuery                     = "close all open queries before continuing"
	ErrClientChecklistIncomplete           = "verify every document field before continuing"
	ErrClientDecisionAlreadySubmitted      = "the decision for this claim was already submitted"
	ErrClientRerunInProgress               = "a re-adjudication is already in progress"
	ErrClientRerunThrottled                = "too many re-adjudication requests, try again shortly"
	ErrClientUnknownStage                  = "unknown workflow step"
	ErrClientUnknownLineItem               = "bill item not found"
	ErrClientUnknownChecklistItem          = "verification field not found"
	ErrClientUnknownDocument               = "source document not found"
	ErrClientAdjudicationNotFound          = "adjudication details not found"
)

// Error messages for developers
const (
	ErrDevInvalidInput                = "invalid input"
	ErrDevValidationFailed            = "request validation failed"
	ErrDevCannotParseJSON             = "cannot parse JSON"
	ErrDevCannotMarshalJSON           = "cannot marshal JSON"
	ErrDevURLParamIDValidationFailed  = "URL param %s validation failed"
	ErrDevCreateHTTPRequest           = "failed to create HTTP request"
	ErrDevSendHTTPRequest             = "failed to send HTTP request"
	ErrDevDecodeResponse              = "failed to decode %s response"
	ErrDevServiceStatusNotOK          = "%s service returned non-OK status"
	ErrDevClaimSessionNotFound        = "no open session for claim"
	ErrDevStagePredecessorIncomplete  = "stage predecessor not completed"
	ErrDevOpenQueryBlocksNavigation   = "open query blocks forward navigation"
	ErrDevChecklistBlocksNavigation   = "incomplete checklist blocks forward navigation"
	ErrDevDecisionAlreadySubmitted    = "decision already submitted, ledger is frozen"
	ErrDevRerunAlreadyRunning         = "rerun already in running state"
	ErrDevRerunThrottled              = "rerun rate limit exceeded"
	ErrDevUnknownStage                = "stage not in traversal order"
	ErrDevUnknownLineItem             = "line item not in ledger"
	ErrDevUnknownChecklistItem        = "checklist key not in active document schema"
	ErrDevUnknownDocument             = "document ID not attached to claim"
	ErrDevMissingRequestID            = "request ID missing from context"
	ErrDevDBFailedToFindDocument      = "failed to find document in collection"
	ErrDevDBFailedToInsertDocument    = "failed to insert document to collection"
	ErrDevDBFailedToIterateDocuments  = "failed to iterate documents in collection"
	ErrDevRedisGetNoData              = "no data in redis with key: %s"
	ErrDevRedisSetData                = "failed to set data to redis"
	ErrDevRedisDeleteData             = "failed to delete data in redis"
	ErrDevRabbitMQPublish             = "failed to publish message to queue %s"
	ErrDevMinioPresignObject          = "failed to presign object in bucket %s"
	ErrDevAuthTokenMissing            = "authorization token missing"
	ErrDevAuthTokenInvalidOrExpired   = "authorization token invalid or expired"
)
