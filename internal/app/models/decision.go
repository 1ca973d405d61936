package models

import "time"

// DecisionRecord is the audit row written to Mongo when an operator finalizes
// an adjudication decision.
type DecisionRecord struct {
	ID            string               `json:"id,omitempty" bson:"_id,omitempty"`
	ClaimID       string               `json:"claim_id" bson:"claim_id"`
	Decision      AdjudicationDecision `json:"decision" bson:"decision"`
	TotalInvoiced float64              `json:"total_invoiced" bson:"total_invoiced"`
	TotalApproved float64              `json:"total_approved" bson:"total_approved"`
	TotalSavings  float64              `json:"total_savings" bson:"total_savings"`
	SubmittedBy   string               `json:"submitted_by,omitempty" bson:"submitted_by,omitempty"`
	SubmittedAt   time.Time            `json:"submitted_at" bson:"submitted_at"`
}
