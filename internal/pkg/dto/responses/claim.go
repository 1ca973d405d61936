package responses

import "claimdesk-service/internal/app/models"

// ClaimSnapshot is the full engine surface exposed to the console UI: current
// ledger, derived totals, fraud alerts, workflow flags and checklist state.
type ClaimSnapshot struct {
	ClaimID   string                      `json:"claim_id"`
	Metadata  models.ClaimMetadata        `json:"metadata"`
	Items     []models.BillItem           `json:"items"`
	Invoices  []models.Invoice            `json:"invoices"`
	Totals    models.Totals               `json:"totals"`
	Alerts    []models.FraudAlert         `json:"alerts"`
	Workflow  models.WorkflowState        `json:"workflow"`
	Decision  models.AdjudicationDecision `json:"decision"`
	Documents []models.SourceDocument     `json:"documents"`
	Checklist []models.VerificationItem   `json:"checklist"`
}

type ChecklistUpdateResult struct {
	Items      []models.VerificationItem   `json:"items"`
	Completion *models.ChecklistCompletion `json:"completion,omitempty"`
}

type DocumentURL struct {
	DocumentID string `json:"document_id"`
	URL        string `json:"url"`
	ExpiresIn  int    `json:"expires_in_seconds"`
}

type DecisionResult struct {
	ClaimID  string                      `json:"claim_id"`
	Decision models.AdjudicationDecision `json:"decision"`
	Totals   models.Totals               `json:"totals"`
}
