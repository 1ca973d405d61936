package rerun

import (
	"claimdesk-service/internal/app/models"
	"claimdesk-service/internal/app/services/core/ledger"
	"claimdesk-service/internal/pkg/claims_dto"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type fakeAdjudicationClient struct {
	readjudicateCalls atomic.Int32
	fetchCalls        atomic.Int32
	block             chan struct{}
	readjudicateErr   error
	response          *claims_dto.AdjudicationResponse
}

func (f *fakeAdjudicationClient) GetManualAdjudication(ctx context.Context, claimID string) (*claims_dto.AdjudicationResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAdjudicationClient) GetAIAdjudication(ctx context.Context, claimID string) (*claims_dto.AdjudicationResponse, error) {
	f.fetchCalls.Add(1)
	return f.response, nil
}

func (f *fakeAdjudicationClient) UpdateManualAdjudication(ctx context.Context, claimID string, payload *claims_dto.UpdateManualAdjudicationPayload) error {
	return nil
}

func (f *fakeAdjudicationClient) ReAdjudicate(ctx context.Context, claimID string) error {
	f.readjudicateCalls.Add(1)
	if f.block != nil {
		<-f.block
	}
	return f.readjudicateErr
}

func (f *fakeAdjudicationClient) FinalizeManualAdjudication(ctx context.Context, claimID string) error {
	return nil
}

func newTestCoordinator(client *fakeAdjudicationClient) *Coordinator {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	return NewCoordinator("CLM-1", client, limiter, zap.NewNop())
}

func TestCoordinatorExclusivity(t *testing.T) {
	client := &fakeAdjudicationClient{
		block: make(chan struct{}),
		response: &claims_dto.AdjudicationResponse{
			Lines: []claims_dto.AdjudicatedLine{{ItemID: "item-1", ApprovedAmount: 50}},
		},
	}
	coordinator := newTestCoordinator(client)

	applied := make(chan []ledger.AdjudicatedLine, 1)
	apply := func(lines []ledger.AdjudicatedLine, completedAt time.Time) {
		applied <- lines
	}

	assert.NoError(t, coordinator.TriggerManual(context.Background(), apply))

	assert.Eventually(t, func() bool {
		return client.readjudicateCalls.Load() == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, models.RerunRunning, coordinator.Status())

	t.Run("Manual trigger while running is rejected", func(t *testing.T) {
		err := coordinator.TriggerManual(context.Background(), apply)
		assert.Error(t, err)
	})

	t.Run("Auto trigger while running is a silent no-op", func(t *testing.T) {
		assert.NoError(t, coordinator.TriggerAuto(context.Background(), apply))
		assert.Equal(t, int32(1), client.readjudicateCalls.Load())
	})

	close(client.block)

	select {
	case lines := <-applied:
		assert.Len(t, lines, 1)
		assert.Equal(t, "item-1", lines[0].ItemID)
	case <-time.After(time.Second):
		t.Fatal("apply was never invoked")
	}
	assert.Equal(t, models.RerunCompleted, coordinator.Status())
	assert.False(t, coordinator.LastRerunTime().IsZero())

	t.Run("Auto trigger after completion cannot refire", func(t *testing.T) {
		assert.NoError(t, coordinator.TriggerAuto(context.Background(), apply))
		assert.Equal(t, int32(1), client.readjudicateCalls.Load())
	})

	t.Run("Manual trigger after completion is throttled once the burst is spent", func(t *testing.T) {
		err := coordinator.TriggerManual(context.Background(), apply)
		assert.Error(t, err)
		assert.Equal(t, int32(1), client.readjudicateCalls.Load())
	})
}

func TestCoordinatorStaleResponseDiscarded(t *testing.T) {
	client := &fakeAdjudicationClient{
		block: make(chan struct{}),
		response: &claims_dto.AdjudicationResponse{
			Lines: []claims_dto.AdjudicatedLine{{ItemID: "item-1", ApprovedAmount: 50}},
		},
	}
	coordinator := newTestCoordinator(client)

	applyCalled := atomic.Bool{}
	apply := func(lines []ledger.AdjudicatedLine, completedAt time.Time) {
		applyCalled.Store(true)
	}

	assert.NoError(t, coordinator.TriggerManual(context.Background(), apply))
	assert.Eventually(t, func() bool {
		return client.readjudicateCalls.Load() == 1
	}, time.Second, 5*time.Millisecond)

	// Supersede the in-flight rerun while it is still blocked, as a newer
	// trigger would. Its response arrives afterward and must not commit.
	coordinator.mu.Lock()
	coordinator.latestToken = "superseding-token"
	coordinator.mu.Unlock()

	close(client.block)

	assert.Eventually(t, func() bool {
		return client.fetchCalls.Load() == 1
	}, time.Second, 5*time.Millisecond)
	assert.Never(t, func() bool {
		return applyCalled.Load()
	}, 200*time.Millisecond, 10*time.Millisecond)

	// The superseded run leaves the lifecycle untouched for its successor.
	assert.Equal(t, models.RerunRunning, coordinator.Status())
	assert.True(t, coordinator.LastRerunTime().IsZero())
}

func TestCoordinatorFailureLandsInCompleted(t *testing.T) {
	client := &fakeAdjudicationClient{readjudicateErr: errors.New("service down")}
	coordinator := newTestCoordinator(client)

	applyCalled := atomic.Bool{}
	apply := func(lines []ledger.AdjudicatedLine, completedAt time.Time) {
		applyCalled.Store(true)
	}

	assert.NoError(t, coordinator.TriggerManual(context.Background(), apply))

	assert.Eventually(t, func() bool {
		return coordinator.Status() == models.RerunCompleted
	}, time.Second, 5*time.Millisecond)

	// A failed rerun must not land in idle: idle would re-arm the
	// digitization auto-trigger.
	assert.Equal(t, models.RerunCompleted, coordinator.Status())
	assert.False(t, applyCalled.Load())
	assert.Equal(t, int32(0), client.fetchCalls.Load())
}
