package contracts

import (
	"claimdesk-service/internal/app/models"
	"context"
)

// DecisionRepository is the audit trail of finalized adjudication decisions.
type DecisionRepository interface {
	Insert(ctx context.Context, record *models.DecisionRecord) error
	FindByClaimID(ctx context.Context, claimID string) ([]models.DecisionRecord, error)
}
