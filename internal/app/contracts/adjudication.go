package contracts

import (
	"claimdesk-service/internal/pkg/claims_dto"
	"context"
)

// AdjudicationClient talks to the external adjudication service. Manual
// adjudication is the preferred source; AI is the fallback when no manual
// record exists.
type AdjudicationClient interface {
	GetManualAdjudication(ctx context.Context, claimID string) (*claims_dto.AdjudicationResponse, error)
	GetAIAdjudication(ctx context.Context, claimID string) (*claims_dto.AdjudicationResponse, error)
	UpdateManualAdjudication(ctx context.Context, claimID string, payload *claims_dto.UpdateManualAdjudicationPayload) error
	ReAdjudicate(ctx context.Context, claimID string) error
	FinalizeManualAdjudication(ctx context.Context, claimID string) error
}
