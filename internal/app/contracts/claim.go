package contracts

import (
	"claimdesk-service/internal/app/models"
	"claimdesk-service/internal/pkg/dto/requests"
	"claimdesk-service/internal/pkg/dto/responses"
	"context"
)

// ClaimUsecase is the engine surface the HTTP delivery layer talks to. Every
// operation works against the per-claim session the usecase owns.
type ClaimUsecase interface {
	OpenClaim(ctx context.Context, claimID string) (*responses.ClaimSnapshot, error)
	CloseClaim(ctx context.Context, claimID string) error
	Snapshot(ctx context.Context, claimID string) (*responses.ClaimSnapshot, error)

	UpdateLineItem(ctx context.Context, claimID, itemID string, request *requests.UpdateLineItem) (*responses.ClaimSnapshot, error)
	RemoveLineItem(ctx context.Context, claimID, itemID string) (*responses.ClaimSnapshot, error)

	CompleteStage(ctx context.Context, claimID string, stage models.WorkflowStage, request *requests.CompleteStage) (*responses.ClaimSnapshot, error)
	NavigateToStage(ctx context.Context, claimID string, stage models.WorkflowStage) (*responses.ClaimSnapshot, error)
	LockDigitization(ctx context.Context, claimID string) (*responses.ClaimSnapshot, error)
	SetOpenQuery(ctx context.Context, claimID string, hasOpenQuery bool) (*responses.ClaimSnapshot, error)
	TriggerRerun(ctx context.Context, claimID string) (*responses.ClaimSnapshot, error)
	SubmitDecision(ctx context.Context, claimID string, request *requests.SubmitDecision) (*responses.DecisionResult, error)

	SelectDocument(ctx context.Context, claimID string, request *requests.SelectDocument) (*responses.ChecklistUpdateResult, error)
	MarkChecklistItem(ctx context.Context, claimID, itemKey string) (*responses.ChecklistUpdateResult, error)
	RaiseChecklistQuery(ctx context.Context, claimID, itemKey string) (*responses.ChecklistUpdateResult, error)
	SubmitChecklist(ctx context.Context, claimID string) error

	DocumentURL(ctx context.Context, claimID, documentID string) (*responses.DocumentURL, error)
}
