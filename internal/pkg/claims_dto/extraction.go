package claims_dto

// ExtractionDocument is the seed payload returned by the claim-extraction
// service: claim metadata, the digitized line items and the source-document
// list. It is converted once at the boundary into the internal models; the
// internal model stays authoritative afterwards.
type ExtractionDocument struct {
	ClaimID            string              `json:"claim_id"`
	VisitNumber        string              `json:"visit_number"`
	VisitDate          string              `json:"visit_date"`
	BeneficiaryName    string              `json:"beneficiary_name"`
	HospitalName       string              `json:"hospital_name"`
	HospitalTrustScore float64             `json:"hospital_trust_score"`
	PatientTrustScore  float64             `json:"patient_trust_score"`
	BillItems          []ExtractedItem     `json:"bill_items"`
	Documents          []ExtractedDocument `json:"documents"`
	Symptoms           []string            `json:"symptoms,omitempty"`
	Diagnoses          []string            `json:"diagnoses,omitempty"`
}

type ExtractedItem struct {
	ID              string   `json:"id"`
	InvoiceNumber   string   `json:"invoice_number"`
	Category        string   `json:"category"`
	ItemName        string   `json:"item_name"`
	Quantity        float64  `json:"quantity"`
	UnitPrice       float64  `json:"unit_price"`
	InvoicedAmount  float64  `json:"invoiced_amount"`
	RequestedAmount *float64 `json:"requested_amount,omitempty"`
	PreAuthAmount   *float64 `json:"pre_auth_amount,omitempty"`
	ItemDate        string   `json:"item_date,omitempty"`
}

type ExtractedDocument struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	ObjectName string `json:"object_name,omitempty"`
}

// PatchExtractionPayload persists digitization-stage edits back to the
// extraction service. It always carries the full line-item set plus the
// updated symptom/diagnosis selections.
type PatchExtractionPayload struct {
	BillItems             []ExtractedItem `json:"bill_items"`
	Symptoms              []string        `json:"symptoms,omitempty"`
	Diagnoses             []string        `json:"diagnoses,omitempty"`
	TriggerReadjudication bool            `json:"trigger_readjudication"`
}

// ChecklistSubmission carries the checklist tri-state map keyed by document.
type ChecklistSubmission struct {
	ChecklistData map[string]map[string]string `json:"checklist_data"`
}
