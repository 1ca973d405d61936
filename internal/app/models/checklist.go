package models

type DocumentType string

const (
	DocumentInvoice      DocumentType = "invoice"
	DocumentPrescription DocumentType = "prescription"
)

type MatchStatus string

const (
	MatchUnchecked   MatchStatus = "unchecked"
	MatchMatches     MatchStatus = "matches"
	MatchDiscrepancy MatchStatus = "discrepancy"
)

// VerificationItem is one document-vs-system field the operator must affirm
// or dispute. Items are instantiated fresh whenever the selected document
// changes.
type VerificationItem struct {
	Key         string      `json:"key"`
	Label       string      `json:"label"`
	SystemValue string      `json:"system_value"`
	MatchStatus MatchStatus `json:"match_status"`
}

type ChecklistStatus string

const (
	ChecklistVerified         ChecklistStatus = "verified"
	ChecklistHasDiscrepancies ChecklistStatus = "has_discrepancies"
)

// ChecklistStats summarizes the tri-state distribution of the active item set.
type ChecklistStats struct {
	Total         int `json:"total"`
	Matched       int `json:"matched"`
	Discrepancies int `json:"discrepancies"`
	Unchecked     int `json:"unchecked"`
}

// ChecklistCompletion is the edge-triggered signal the workflow consumes once
// every item of the active document is non-unchecked.
type ChecklistCompletion struct {
	DocumentID string          `json:"document_id"`
	Status     ChecklistStatus `json:"status"`
	Stats      ChecklistStats  `json:"stats"`
}

// SourceDocument is a digitized artifact (invoice or prescription scan) the
// operator verifies the claim against.
type SourceDocument struct {
	ID         string       `json:"id"`
	Type       DocumentType `json:"type"`
	ObjectName string       `json:"object_name,omitempty"`
}
