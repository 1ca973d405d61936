package contracts

import "context"

// ClaimEvent is published to the claim-events queue when a rerun completes or
// a decision is finalized, for downstream reporting consumers.
type ClaimEvent struct {
	Type    string      `json:"type"`
	ClaimID string      `json:"claim_id"`
	Payload interface{} `json:"payload,omitempty"`
}

type EventPublisher interface {
	PublishClaimEvent(ctx context.Context, event ClaimEvent) error
}
