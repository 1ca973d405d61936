package claims_dto

// AdjudicationResponse is the adjudication service's view of a claim: per-line
// approved amounts and deduction reasons, either human-edited (manual) or
// system-computed (AI).
type AdjudicationResponse struct {
	ClaimID string             `json:"claim_id"`
	Source  string             `json:"source"`
	Lines   []AdjudicatedLine  `json:"lines"`
	Totals  AdjudicationTotals `json:"totals"`
}

type AdjudicatedLine struct {
	ItemID                string  `json:"item_id"`
	ApprovedQuantity      float64 `json:"approved_quantity"`
	ApprovedAmount        float64 `json:"approved_amount"`
	Savings               float64 `json:"savings"`
	EditorReason          string  `json:"editor_reason,omitempty"`
	SystemDeductionReason string  `json:"system_deduction_reason,omitempty"`
}

type AdjudicationTotals struct {
	TotalInvoiced float64 `json:"total_invoiced"`
	TotalApproved float64 `json:"total_approved"`
	TotalSavings  float64 `json:"total_savings"`
}

// UpdateManualAdjudicationPayload persists clinical-validation edits.
type UpdateManualAdjudicationPayload struct {
	Lines  []AdjudicatedLine  `json:"lines"`
	Totals AdjudicationTotals `json:"totals"`
}
