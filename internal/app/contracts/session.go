package contracts

import (
	"claimdesk-service/internal/pkg/dto/responses"
	"context"
)

// SessionCacheRepository mirrors open claim sessions into redis so the
// console can recover a snapshot after a reconnect. The cache is best-effort;
// the in-memory session stays authoritative.
type SessionCacheRepository interface {
	SaveSnapshot(ctx context.Context, claimID string, snapshot *responses.ClaimSnapshot) error
	GetSnapshot(ctx context.Context, claimID string) (*responses.ClaimSnapshot, error)
	DeleteSnapshot(ctx context.Context, claimID string) error
}
