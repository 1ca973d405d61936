package contracts

import (
	"claimdesk-service/internal/pkg/claims_dto"
	"context"
)

// ExtractionClient talks to the external claim-extraction service that seeds
// the ledger and holds the digitization-stage state of record.
type ExtractionClient interface {
	GetClaimExtractionData(ctx context.Context, claimID string) (*claims_dto.ExtractionDocument, error)
	PatchClaimExtractionData(ctx context.Context, claimID string, payload *claims_dto.PatchExtractionPayload) error
	SubmitChecklistData(ctx context.Context, claimID string, payload *claims_dto.ChecklistSubmission) error
}
