package workflow

import (
	"claimdesk-service/internal/app/models"
	"claimdesk-service/internal/app/services/core/ledger"
	"claimdesk-service/internal/pkg/claims_dto"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type stubAdjudicationClient struct{}

func (stubAdjudicationClient) GetManualAdjudication(ctx context.Context, claimID string) (*claims_dto.AdjudicationResponse, error) {
	return nil, errors.New("not implemented")
}

func (stubAdjudicationClient) GetAIAdjudication(ctx context.Context, claimID string) (*claims_dto.AdjudicationResponse, error) {
	return nil, errors.New("not implemented")
}

func (stubAdjudicationClient) UpdateManualAdjudication(ctx context.Context, claimID string, payload *claims_dto.UpdateManualAdjudicationPayload) error {
	return nil
}

func (stubAdjudicationClient) ReAdjudicate(ctx context.Context, claimID string) error {
	return nil
}

func (stubAdjudicationClient) FinalizeManualAdjudication(ctx context.Context, claimID string) error {
	return nil
}

func testExtraction() *claims_dto.ExtractionDocument {
	return &claims_dto.ExtractionDocument{
		ClaimID:            "CLM-1",
		VisitNumber:        "V-42",
		VisitDate:          "2026-01-10",
		BeneficiaryName:    "A. Operator",
		HospitalName:       "General Hospital",
		HospitalTrustScore: 90,
		PatientTrustScore:  90,
		BillItems: []claims_dto.ExtractedItem{
			{ID: "item-1", InvoiceNumber: "INV-7", Category: "Consultation", ItemName: "Consult", Quantity: 1, UnitPrice: 2500, InvoicedAmount: 2500, ItemDate: "2026-01-10"},
			{ID: "item-2", InvoiceNumber: "INV-7", Category: "Procedure", ItemName: "Procedure", Quantity: 1, UnitPrice: 7000, ItemDate: "2026-01-10"},
		},
		Documents: []claims_dto.ExtractedDocument{
			{ID: "doc-1", Type: "invoice", ObjectName: "claims/CLM-1/doc-1.pdf"},
		},
	}
}

func newTestSession() *Session {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	return NewSession(testExtraction(), stubAdjudicationClient{}, limiter, zap.NewNop())
}

// completeThrough marks every stage before the target as done, bypassing the
// per-stage guards, so a test can start mid-workflow.
func completeThrough(s *Session, stages ...models.WorkflowStage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, stage := range stages {
		s.state.StepsCompleted[stage] = true
	}
}

func TestNewSessionSeeding(t *testing.T) {
	sess := newTestSession()
	snapshot := sess.Snapshot()

	t.Run("Fresh lines start auto-approved in full", func(t *testing.T) {
		assert.Len(t, snapshot.Items, 2)
		for _, item := range snapshot.Items {
			assert.Equal(t, item.InvoicedAmount, item.ApprovedAmount)
			assert.Equal(t, models.BillItemRelevant, item.Status)
		}
	})

	t.Run("Missing invoiced amount falls back to quantity times price", func(t *testing.T) {
		assert.InDelta(t, 7000.0, snapshot.Items[1].InvoicedAmount, 1e-9)
	})

	t.Run("Workflow starts at digitization with an idle rerun", func(t *testing.T) {
		assert.Equal(t, models.StageDigitization, snapshot.Workflow.CurrentStage)
		assert.Equal(t, models.RerunIdle, snapshot.Workflow.RerunStatus)
		assert.False(t, snapshot.Workflow.IsDigitizationLocked)
	})

	t.Run("Fully approved claim decides approved", func(t *testing.T) {
		assert.Equal(t, models.DecisionApproved, snapshot.Decision)
	})
}

func TestApplyAdjudication(t *testing.T) {
	sess := newTestSession()
	sess.ApplyAdjudication(&claims_dto.AdjudicationResponse{
		Lines: []claims_dto.AdjudicatedLine{
			{ItemID: "item-2", ApprovedAmount: 6500, SystemDeductionReason: "tariff cap"},
		},
	})

	snapshot := sess.Snapshot()
	assert.InDelta(t, 9500.0, snapshot.Totals.TotalInvoiced, 1e-9)
	assert.InDelta(t, 9000.0, snapshot.Totals.TotalApproved, 1e-9)
	assert.InDelta(t, 500.0, snapshot.Totals.TotalSavings, 1e-9)
	assert.Equal(t, models.DecisionPartial, snapshot.Decision)
	assert.Equal(t, models.BillItemQuery, snapshot.Items[1].Status)
	assert.Equal(t, "tariff cap", snapshot.Items[1].SystemDeductionReason)
}

func TestNavigateToStage(t *testing.T) {
	t.Run("Unknown stage is rejected", func(t *testing.T) {
		sess := newTestSession()
		assert.Error(t, sess.NavigateToStage(models.WorkflowStage("bogus")))
	})

	t.Run("Locked stage is rejected", func(t *testing.T) {
		sess := newTestSession()
		assert.Error(t, sess.NavigateToStage(models.StageDiagnosis))
	})

	t.Run("Completed predecessor unlocks the stage", func(t *testing.T) {
		sess := newTestSession()
		completeThrough(sess, models.StageDigitization)
		assert.NoError(t, sess.NavigateToStage(models.StageDiagnosis))
		assert.Equal(t, models.StageDiagnosis, sess.Snapshot().Workflow.CurrentStage)
	})

	t.Run("Open query blocks forward from clinical validation", func(t *testing.T) {
		sess := newTestSession()
		completeThrough(sess, models.StageDigitization, models.StageDiagnosis, models.StageClinicalValidation)
		assert.NoError(t, sess.NavigateToStage(models.StageClinicalValidation))

		sess.SetOpenQuery(true)
		assert.Error(t, sess.NavigateToStage(models.StageReview))

		// Backward moves stay open even with the query pending.
		assert.NoError(t, sess.NavigateToStage(models.StageDigitization))

		sess.SetOpenQuery(false)
		assert.NoError(t, sess.NavigateToStage(models.StageClinicalValidation))
		assert.NoError(t, sess.NavigateToStage(models.StageReview))
	})

	t.Run("Incomplete checklist blocks forward from diagnosis", func(t *testing.T) {
		sess := newTestSession()
		completeThrough(sess, models.StageDigitization, models.StageDiagnosis)
		assert.NoError(t, sess.NavigateToStage(models.StageDiagnosis))
		assert.Error(t, sess.NavigateToStage(models.StageClinicalValidation))

		items := sess.SelectDocument("doc-1", models.DocumentInvoice)
		for _, item := range items {
			_, _, err := sess.MarkChecklistItem(item.Key)
			assert.NoError(t, err)
		}
		assert.NoError(t, sess.NavigateToStage(models.StageClinicalValidation))
	})
}

func TestCompleteStage(t *testing.T) {
	t.Run("Completing a stage advances to the next", func(t *testing.T) {
		sess := newTestSession()
		assert.NoError(t, sess.CompleteStage(models.StageDigitization))

		snapshot := sess.Snapshot()
		assert.True(t, snapshot.Workflow.StepsCompleted[models.StageDigitization])
		assert.Equal(t, models.StageDiagnosis, snapshot.Workflow.CurrentStage)
	})

	t.Run("A stage with a locked predecessor cannot complete", func(t *testing.T) {
		sess := newTestSession()
		assert.Error(t, sess.CompleteStage(models.StageClinicalValidation))
	})

	t.Run("Diagnosis cannot complete with an unchecked checklist", func(t *testing.T) {
		sess := newTestSession()
		completeThrough(sess, models.StageDigitization)
		sess.SelectDocument("doc-1", models.DocumentInvoice)
		assert.Error(t, sess.CompleteStage(models.StageDiagnosis))
	})
}

func TestLockDigitization(t *testing.T) {
	sess := newTestSession()

	calls := 0
	sess.LockDigitization(func() { calls++ })
	sess.LockDigitization(func() { calls++ })

	assert.Equal(t, 1, calls)
	assert.True(t, sess.Snapshot().Workflow.IsDigitizationLocked)
}

func TestSubmitDecision(t *testing.T) {
	t.Run("Review must be reachable", func(t *testing.T) {
		sess := newTestSession()
		_, _, err := sess.SubmitDecision()
		assert.Error(t, err)
	})

	t.Run("Open query blocks submission", func(t *testing.T) {
		sess := newTestSession()
		completeThrough(sess, models.StageDigitization, models.StageDiagnosis, models.StageClinicalValidation)
		sess.SetOpenQuery(true)
		_, _, err := sess.SubmitDecision()
		assert.Error(t, err)
	})

	t.Run("Submission freezes the session", func(t *testing.T) {
		sess := newTestSession()
		completeThrough(sess, models.StageDigitization, models.StageDiagnosis, models.StageClinicalValidation)

		decision, totals, err := sess.SubmitDecision()
		assert.NoError(t, err)
		assert.Equal(t, models.DecisionApproved, decision)
		assert.InDelta(t, 9500.0, totals.TotalApproved, 1e-9)

		_, _, err = sess.SubmitDecision()
		assert.Error(t, err)

		_, err = sess.UpdateLineItem("item-1", ledger.FieldApprovedAmount, "0")
		assert.Error(t, err)
		assert.Error(t, sess.RemoveLineItem("item-1"))

		applied := sess.ApplyRerunResult([]ledger.AdjudicatedLine{
			{ItemID: "item-1", ApprovedAmount: 0},
		})
		assert.False(t, applied)
		assert.InDelta(t, 2500.0, sess.Snapshot().Items[0].ApprovedAmount, 1e-9)
	})
}

func TestChecklistSubmission(t *testing.T) {
	sess := newTestSession()
	items := sess.SelectDocument("doc-1", models.DocumentInvoice)
	assert.Equal(t, "INV-7", items[0].SystemValue)

	_, _, err := sess.MarkChecklistItem("invoiceNumber")
	assert.NoError(t, err)
	_, _, err = sess.RaiseChecklistQuery("totalAmount")
	assert.NoError(t, err)

	submission := sess.ChecklistSubmission()
	fields := submission.ChecklistData["doc-1"]
	assert.Equal(t, "matches", fields["invoiceNumber"])
	assert.Equal(t, "discrepancy", fields["totalAmount"])
	assert.Equal(t, "unchecked", fields["visitNumber"])
}
