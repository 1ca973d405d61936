package rerun

import (
	"claimdesk-service/internal/app/contracts"
	"claimdesk-service/internal/app/models"
	"claimdesk-service/internal/app/services/core/ledger"
	"claimdesk-service/internal/pkg/constvars"
	"claimdesk-service/internal/pkg/exceptions"
	"claimdesk-service/internal/pkg/utils"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const rerunCallTimeout = 60 * time.Second

// ApplyFunc hands the refreshed lines back to the owning claim session. It is
// invoked off the coordinator's lock and only for the latest issued token.
type ApplyFunc func(lines []ledger.AdjudicatedLine, completedAt time.Time)

// Coordinator owns the rerun lifecycle for one claim: idle until the first
// trigger, at most one rerun in flight, and completed afterwards so the
// auto-trigger tied to digitization locking cannot refire. Only a manual
// trigger re-enters running from completed.
type Coordinator struct {
	claimID string
	client  contracts.AdjudicationClient
	limiter *rate.Limiter
	log     *zap.Logger

	mu            sync.Mutex
	status        models.RerunStatus
	latestToken   string
	lastRerunTime time.Time
}

func NewCoordinator(claimID string, client contracts.AdjudicationClient, limiter *rate.Limiter, log *zap.Logger) *Coordinator {
	return &Coordinator{
		claimID: claimID,
		client:  client,
		limiter: limiter,
		log:     log,
		status:  models.RerunIdle,
	}
}

func (c *Coordinator) Status() models.RerunStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Coordinator) LastRerunTime() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRerunTime
}

// TriggerManual starts an operator-requested rerun. A rerun already in flight
// rejects the request.
func (c *Coordinator) TriggerManual(ctx context.Context, apply ApplyFunc) error {
	return c.trigger(ctx, true, apply)
}

// TriggerAuto is invoked by the workflow when digitization locks. It fires
// only from idle and silently no-ops otherwise, so locking can never start a
// second rerun or restart a completed one.
func (c *Coordinator) TriggerAuto(ctx context.Context, apply ApplyFunc) error {
	return c.trigger(ctx, false, apply)
}

func (c *Coordinator) trigger(ctx context.Context, manual bool, apply ApplyFunc) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	c.mu.Lock()
	if c.status == models.RerunRunning {
		c.mu.Unlock()
		if manual {
			return exceptions.ErrRerunAlreadyRunning(nil)
		}
		return nil
	}
	if !manual && c.status != models.RerunIdle {
		c.mu.Unlock()
		return nil
	}
	if !c.limiter.Allow() {
		c.mu.Unlock()
		return exceptions.ErrRerunThrottled(nil)
	}

	token := utils.GenerateRerunToken()
	c.latestToken = token
	c.status = models.RerunRunning
	c.mu.Unlock()

	c.log.Info("rerunCoordinator.trigger started",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, c.claimID),
		zap.String(constvars.LoggingRerunTokenKey, token),
		zap.Bool("manual", manual),
	)

	go c.run(token, apply)
	return nil
}

// run performs the rerun against the adjudication service. The triggering
// HTTP request has long since returned, so the call gets its own context.
func (c *Coordinator) run(token string, apply ApplyFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), rerunCallTimeout)
	defer cancel()

	err := c.client.ReAdjudicate(ctx, c.claimID)
	var response []ledger.AdjudicatedLine
	if err == nil {
		adjudication, fetchErr := c.client.GetAIAdjudication(ctx, c.claimID)
		if fetchErr != nil {
			err = fetchErr
		} else {
			response = make([]ledger.AdjudicatedLine, 0, len(adjudication.Lines))
			for _, line := range adjudication.Lines {
				response = append(response, ledger.AdjudicatedLine{
					ItemID:                line.ItemID,
					ApprovedAmount:        line.ApprovedAmount,
					SystemDeductionReason: line.SystemDeductionReason,
				})
			}
		}
	}

	completedAt := time.Now()

	c.mu.Lock()
	if token != c.latestToken {
		// A newer rerun superseded this one; its response is the only one
		// that may touch the ledger.
		c.mu.Unlock()
		c.log.Warn("rerunCoordinator.run discarded stale response",
			zap.String(constvars.LoggingClaimIDKey, c.claimID),
			zap.String(constvars.LoggingRerunTokenKey, token),
		)
		return
	}
	c.status = models.RerunCompleted
	c.lastRerunTime = completedAt
	c.mu.Unlock()

	if err != nil {
		// The lifecycle still lands in completed: idle would re-arm the
		// auto-trigger, and the operator can retry manually.
		c.log.Error("rerunCoordinator.run failed",
			zap.String(constvars.LoggingClaimIDKey, c.claimID),
			zap.String(constvars.LoggingRerunTokenKey, token),
			zap.Error(err),
		)
		return
	}

	c.log.Info("rerunCoordinator.run completed",
		zap.String(constvars.LoggingClaimIDKey, c.claimID),
		zap.String(constvars.LoggingRerunTokenKey, token),
		zap.Int(constvars.LoggingItemCountKey, len(response)),
	)
	apply(response, completedAt)
}
