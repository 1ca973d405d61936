package workflow

import (
	"claimdesk-service/internal/app/config"
	"claimdesk-service/internal/app/contracts"
	"claimdesk-service/internal/app/models"
	"claimdesk-service/internal/app/services/core/ledger"
	"claimdesk-service/internal/pkg/constvars"
	"claimdesk-service/internal/pkg/dto/requests"
	"claimdesk-service/internal/pkg/dto/responses"
	"claimdesk-service/internal/pkg/exceptions"
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type claimUsecase struct {
	ExtractionClient   contracts.ExtractionClient
	AdjudicationClient contracts.AdjudicationClient
	SessionCache       contracts.SessionCacheRepository
	DecisionRepository contracts.DecisionRepository
	EventPublisher     contracts.EventPublisher
	DocumentStorage    contracts.DocumentStorage
	InternalConfig     *config.InternalConfig
	Log                *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

var (
	claimUsecaseInstance     contracts.ClaimUsecase
	onceClaimUsecaseInstance sync.Once
)

func NewClaimUsecase(
	extractionClient contracts.ExtractionClient,
	adjudicationClient contracts.AdjudicationClient,
	sessionCache contracts.SessionCacheRepository,
	decisionRepository contracts.DecisionRepository,
	eventPublisher contracts.EventPublisher,
	documentStorage contracts.DocumentStorage,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.ClaimUsecase {
	onceClaimUsecaseInstance.Do(func() {
		claimUsecaseInstance = &claimUsecase{
			ExtractionClient:   extractionClient,
			AdjudicationClient: adjudicationClient,
			SessionCache:       sessionCache,
			DecisionRepository: decisionRepository,
			EventPublisher:     eventPublisher,
			DocumentStorage:    documentStorage,
			InternalConfig:     internalConfig,
			Log:                logger,
			sessions:           make(map[string]*Session),
		}
	})
	return claimUsecaseInstance
}

func (uc *claimUsecase) session(claimID string) (*Session, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	sess, ok := uc.sessions[claimID]
	if !ok {
		return nil, exceptions.ErrClaimSessionNotFound(nil, claimID)
	}
	return sess, nil
}

// cacheSnapshot mirrors the session into redis. Failures are logged and
// swallowed; the in-memory session stays authoritative.
func (uc *claimUsecase) cacheSnapshot(ctx context.Context, claimID string, snapshot *responses.ClaimSnapshot) {
	if err := uc.SessionCache.SaveSnapshot(ctx, claimID, snapshot); err != nil {
		uc.Log.Warn("claimUsecase.cacheSnapshot failed",
			zap.String(constvars.LoggingClaimIDKey, claimID),
			zap.Error(err),
		)
	}
}

func (uc *claimUsecase) snapshotAndCache(ctx context.Context, claimID string, sess *Session) *responses.ClaimSnapshot {
	snapshot := sess.Snapshot()
	uc.cacheSnapshot(ctx, claimID, snapshot)
	return snapshot
}

func (uc *claimUsecase) OpenClaim(ctx context.Context, claimID string) (*responses.ClaimSnapshot, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("claimUsecase.OpenClaim called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
	)

	uc.mu.Lock()
	if sess, ok := uc.sessions[claimID]; ok {
		uc.mu.Unlock()
		return uc.snapshotAndCache(ctx, claimID, sess), nil
	}
	uc.mu.Unlock()

	extraction, err := uc.ExtractionClient.GetClaimExtractionData(ctx, claimID)
	if err != nil {
		return nil, err
	}

	limiter := rate.NewLimiter(
		rate.Every(time.Duration(uc.InternalConfig.Services.RerunRefillSeconds)*time.Second),
		uc.InternalConfig.Services.RerunBurst,
	)
	sess := NewSession(extraction, uc.AdjudicationClient, limiter, uc.Log)

	uc.seedAdjudication(ctx, claimID, sess)

	uc.mu.Lock()
	// A concurrent open for the same claim may have won the race; reuse its
	// session so both callers work against the same state.
	if existing, ok := uc.sessions[claimID]; ok {
		sess = existing
	} else {
		uc.sessions[claimID] = sess
	}
	uc.mu.Unlock()

	return uc.snapshotAndCache(ctx, claimID, sess), nil
}

// seedAdjudication loads the approved amounts into the fresh session. Manual
// adjudication wins; a missing manual record falls back to the AI run. When
// both sources fail the session still opens, with clinical validation flagged
// as degraded.
func (uc *claimUsecase) seedAdjudication(ctx context.Context, claimID string, sess *Session) {
	manual, err := uc.AdjudicationClient.GetManualAdjudication(ctx, claimID)
	if err == nil {
		sess.ApplyAdjudication(manual)
		return
	}
	if !isNotFound(err) {
		uc.Log.Warn("claimUsecase.seedAdjudication manual fetch failed",
			zap.String(constvars.LoggingClaimIDKey, claimID),
			zap.Error(err),
		)
		sess.MarkAdjudicationUnavailable()
		return
	}

	ai, aiErr := uc.AdjudicationClient.GetAIAdjudication(ctx, claimID)
	if aiErr != nil {
		uc.Log.Warn("claimUsecase.seedAdjudication ai fallback failed",
			zap.String(constvars.LoggingClaimIDKey, claimID),
			zap.Error(aiErr),
		)
		sess.MarkAdjudicationUnavailable()
		return
	}
	sess.ApplyAdjudication(ai)
}

func isNotFound(err error) bool {
	var customErr *exceptions.CustomError
	return errors.As(err, &customErr) && customErr.StatusCode == constvars.StatusNotFound
}

func (uc *claimUsecase) CloseClaim(ctx context.Context, claimID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("claimUsecase.CloseClaim called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
	)

	uc.mu.Lock()
	_, ok := uc.sessions[claimID]
	delete(uc.sessions, claimID)
	uc.mu.Unlock()
	if !ok {
		return exceptions.ErrClaimSessionNotFound(nil, claimID)
	}

	if err := uc.SessionCache.DeleteSnapshot(ctx, claimID); err != nil {
		uc.Log.Warn("claimUsecase.CloseClaim cache delete failed",
			zap.String(constvars.LoggingClaimIDKey, claimID),
			zap.Error(err),
		)
	}
	return nil
}

func (uc *claimUsecase) Snapshot(ctx context.Context, claimID string) (*responses.ClaimSnapshot, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("claimUsecase.Snapshot called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
	)

	sess, err := uc.session(claimID)
	if err != nil {
		return nil, err
	}
	return sess.Snapshot(), nil
}

func (uc *claimUsecase) UpdateLineItem(ctx context.Context, claimID, itemID string, request *requests.UpdateLineItem) (*responses.ClaimSnapshot, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("claimUsecase.UpdateLineItem called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
		zap.String(constvars.LoggingItemIDKey, itemID),
		zap.String("changed_field", request.ChangedField),
	)

	sess, err := uc.session(claimID)
	if err != nil {
		return nil, err
	}
	if _, err := sess.UpdateLineItem(itemID, ledger.Field(request.ChangedField), request.NewValue); err != nil {
		return nil, err
	}
	return uc.snapshotAndCache(ctx, claimID, sess), nil
}

func (uc *claimUsecase) RemoveLineItem(ctx context.Context, claimID, itemID string) (*responses.ClaimSnapshot, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("claimUsecase.RemoveLineItem called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
		zap.String(constvars.LoggingItemIDKey, itemID),
	)

	sess, err := uc.session(claimID)
	if err != nil {
		return nil, err
	}
	if err := sess.RemoveLineItem(itemID); err != nil {
		return nil, err
	}
	return uc.snapshotAndCache(ctx, claimID, sess), nil
}

func (uc *claimUsecase) CompleteStage(ctx context.Context, claimID string, stage models.WorkflowStage, request *requests.CompleteStage) (*responses.ClaimSnapshot, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("claimUsecase.CompleteStage called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
		zap.String(constvars.LoggingStageKey, string(stage)),
	)

	sess, err := uc.session(claimID)
	if err != nil {
		return nil, err
	}
	if err := sess.CanCompleteStage(stage); err != nil {
		return nil, err
	}
	if err := uc.persistStage(ctx, claimID, stage, sess, request); err != nil {
		return nil, err
	}
	if err := sess.CompleteStage(stage); err != nil {
		return nil, err
	}
	return uc.snapshotAndCache(ctx, claimID, sess), nil
}

// persistStage pushes the stage's pending edits to its collaborator of
// record before the session advances. Digitization writes back to the
// extraction service, clinical validation to the adjudication service; the
// other stages have no external state.
func (uc *claimUsecase) persistStage(ctx context.Context, claimID string, stage models.WorkflowStage, sess *Session, request *requests.CompleteStage) error {
	switch stage {
	case models.StageDigitization:
		payload := sess.ExtractionPayload(request.Symptoms, request.Diagnoses, request.TriggerReadjudication)
		return uc.ExtractionClient.PatchClaimExtractionData(ctx, claimID, payload)
	case models.StageClinicalValidation:
		return uc.AdjudicationClient.UpdateManualAdjudication(ctx, claimID, sess.AdjudicationPayload())
	default:
		return nil
	}
}

func (uc *claimUsecase) NavigateToStage(ctx context.Context, claimID string, stage models.WorkflowStage) (*responses.ClaimSnapshot, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("claimUsecase.NavigateToStage called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
		zap.String(constvars.LoggingStageKey, string(stage)),
	)

	sess, err := uc.session(claimID)
	if err != nil {
		return nil, err
	}
	if err := sess.NavigateToStage(stage); err != nil {
		return nil, err
	}
	return sess.Snapshot(), nil
}

func (uc *claimUsecase) LockDigitization(ctx context.Context, claimID string) (*responses.ClaimSnapshot, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("claimUsecase.LockDigitization called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
	)

	sess, err := uc.session(claimID)
	if err != nil {
		return nil, err
	}
	sess.LockDigitization(func() {
		if triggerErr := sess.Rerun().TriggerAuto(ctx, uc.rerunApplier(claimID, sess)); triggerErr != nil {
			// The lock itself stands; the operator can rerun manually once
			// the throttle window passes.
			uc.Log.Warn("claimUsecase.LockDigitization auto rerun skipped",
				zap.String(constvars.LoggingClaimIDKey, claimID),
				zap.Error(triggerErr),
			)
		}
	})
	return uc.snapshotAndCache(ctx, claimID, sess), nil
}

func (uc *claimUsecase) SetOpenQuery(ctx context.Context, claimID string, hasOpenQuery bool) (*responses.ClaimSnapshot, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("claimUsecase.SetOpenQuery called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
		zap.Bool("has_open_query", hasOpenQuery),
	)

	sess, err := uc.session(claimID)
	if err != nil {
		return nil, err
	}
	sess.SetOpenQuery(hasOpenQuery)
	return uc.snapshotAndCache(ctx, claimID, sess), nil
}

func (uc *claimUsecase) TriggerRerun(ctx context.Context, claimID string) (*responses.ClaimSnapshot, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("claimUsecase.TriggerRerun called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
	)

	sess, err := uc.session(claimID)
	if err != nil {
		return nil, err
	}
	if err := sess.Rerun().TriggerManual(ctx, uc.rerunApplier(claimID, sess)); err != nil {
		return nil, err
	}
	return sess.Snapshot(), nil
}

// rerunApplier lands a completed rerun: refreshed lines into the ledger, a
// lifecycle event onto the queue and the new snapshot into the cache. It runs
// on the coordinator's goroutine, long after the triggering request returned.
func (uc *claimUsecase) rerunApplier(claimID string, sess *Session) func(lines []ledger.AdjudicatedLine, completedAt time.Time) {
	return func(lines []ledger.AdjudicatedLine, completedAt time.Time) {
		if !sess.ApplyRerunResult(lines) {
			uc.Log.Warn("claimUsecase.rerunApplier dropped result, decision already submitted",
				zap.String(constvars.LoggingClaimIDKey, claimID),
			)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := uc.EventPublisher.PublishClaimEvent(ctx, contracts.ClaimEvent{
			Type:    constvars.EventRerunCompleted,
			ClaimID: claimID,
			Payload: map[string]interface{}{
				"completed_at": completedAt.Format(time.RFC3339),
				"line_count":   len(lines),
			},
		}); err != nil {
			uc.Log.Warn("claimUsecase.rerunApplier event publish failed",
				zap.String(constvars.LoggingClaimIDKey, claimID),
				zap.Error(err),
			)
		}
		uc.cacheSnapshot(ctx, claimID, sess.Snapshot())
	}
}

func (uc *claimUsecase) SubmitDecision(ctx context.Context, claimID string, request *requests.SubmitDecision) (*responses.DecisionResult, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("claimUsecase.SubmitDecision called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
	)

	sess, err := uc.session(claimID)
	if err != nil {
		return nil, err
	}
	if err := sess.CanSubmitDecision(); err != nil {
		return nil, err
	}

	// Finalize with the adjudication service first: if it rejects, the
	// session stays editable and nothing was mutated.
	if err := uc.AdjudicationClient.FinalizeManualAdjudication(ctx, claimID); err != nil {
		return nil, err
	}

	decision, totals, err := sess.SubmitDecision()
	if err != nil {
		return nil, err
	}

	operatorID, _ := ctx.Value(constvars.CONTEXT_OPERATOR_ID_KEY).(string)
	record := &models.DecisionRecord{
		ClaimID:       claimID,
		Decision:      decision,
		TotalInvoiced: totals.TotalInvoiced,
		TotalApproved: totals.TotalApproved,
		TotalSavings:  totals.TotalSavings,
		SubmittedBy:   operatorID,
		SubmittedAt:   time.Now(),
	}
	if err := uc.DecisionRepository.Insert(ctx, record); err != nil {
		// The decision already stands with the adjudication service; losing
		// the audit row must not roll it back.
		uc.Log.Error("claimUsecase.SubmitDecision audit insert failed",
			zap.String(constvars.LoggingClaimIDKey, claimID),
			zap.Error(err),
		)
	}
	if err := uc.EventPublisher.PublishClaimEvent(ctx, contracts.ClaimEvent{
		Type:    constvars.EventDecisionFinalized,
		ClaimID: claimID,
		Payload: record,
	}); err != nil {
		uc.Log.Warn("claimUsecase.SubmitDecision event publish failed",
			zap.String(constvars.LoggingClaimIDKey, claimID),
			zap.Error(err),
		)
	}
	uc.cacheSnapshot(ctx, claimID, sess.Snapshot())

	uc.Log.Info("claimUsecase.SubmitDecision finalized",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
		zap.String(constvars.LoggingDecisionKey, string(decision)),
	)
	return &responses.DecisionResult{
		ClaimID:  claimID,
		Decision: decision,
		Totals:   totals,
	}, nil
}

func (uc *claimUsecase) SelectDocument(ctx context.Context, claimID string, request *requests.SelectDocument) (*responses.ChecklistUpdateResult, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("claimUsecase.SelectDocument called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
		zap.String(constvars.LoggingDocumentIDKey, request.DocumentID),
	)

	sess, err := uc.session(claimID)
	if err != nil {
		return nil, err
	}
	items := sess.SelectDocument(request.DocumentID, models.DocumentType(request.DocumentType))
	return &responses.ChecklistUpdateResult{Items: items}, nil
}

func (uc *claimUsecase) MarkChecklistItem(ctx context.Context, claimID, itemKey string) (*responses.ChecklistUpdateResult, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("claimUsecase.MarkChecklistItem called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
		zap.String("item_key", itemKey),
	)

	sess, err := uc.session(claimID)
	if err != nil {
		return nil, err
	}
	items, completion, err := sess.MarkChecklistItem(itemKey)
	if err != nil {
		return nil, err
	}
	return &responses.ChecklistUpdateResult{Items: items, Completion: completion}, nil
}

func (uc *claimUsecase) RaiseChecklistQuery(ctx context.Context, claimID, itemKey string) (*responses.ChecklistUpdateResult, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("claimUsecase.RaiseChecklistQuery called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
		zap.String("item_key", itemKey),
	)

	sess, err := uc.session(claimID)
	if err != nil {
		return nil, err
	}
	items, completion, err := sess.RaiseChecklistQuery(itemKey)
	if err != nil {
		return nil, err
	}
	return &responses.ChecklistUpdateResult{Items: items, Completion: completion}, nil
}

func (uc *claimUsecase) SubmitChecklist(ctx context.Context, claimID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("claimUsecase.SubmitChecklist called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
	)

	sess, err := uc.session(claimID)
	if err != nil {
		return err
	}
	return uc.ExtractionClient.SubmitChecklistData(ctx, claimID, sess.ChecklistSubmission())
}

func (uc *claimUsecase) DocumentURL(ctx context.Context, claimID, documentID string) (*responses.DocumentURL, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("claimUsecase.DocumentURL called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingClaimIDKey, claimID),
		zap.String(constvars.LoggingDocumentIDKey, documentID),
	)

	sess, err := uc.session(claimID)
	if err != nil {
		return nil, err
	}
	document, ok := sess.Document(documentID)
	if !ok {
		return nil, exceptions.ErrUnknownDocument(nil)
	}

	expiry := time.Duration(uc.InternalConfig.Services.DocumentURLExpirySeconds) * time.Second
	url, err := uc.DocumentStorage.PresignedDocumentURL(ctx, document.ObjectName, expiry)
	if err != nil {
		return nil, err
	}
	return &responses.DocumentURL{
		DocumentID: documentID,
		URL:        url,
		ExpiresIn:  uc.InternalConfig.Services.DocumentURLExpirySeconds,
	}, nil
}
