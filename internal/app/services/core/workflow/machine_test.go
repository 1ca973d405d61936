package workflow

import (
	"claimdesk-service/internal/app/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	t.Run("Zero approved is rejected", func(t *testing.T) {
		decision := Decide(models.Totals{TotalInvoiced: 500, TotalApproved: 0})
		assert.Equal(t, models.DecisionRejected, decision)
	})

	t.Run("Approved below invoiced is partial", func(t *testing.T) {
		decision := Decide(models.Totals{TotalInvoiced: 9500, TotalApproved: 9000})
		assert.Equal(t, models.DecisionPartial, decision)
	})

	t.Run("Full approval is approved", func(t *testing.T) {
		decision := Decide(models.Totals{TotalInvoiced: 500, TotalApproved: 500})
		assert.Equal(t, models.DecisionApproved, decision)
	})

	t.Run("Empty ledger is rejected", func(t *testing.T) {
		decision := Decide(models.Totals{})
		assert.Equal(t, models.DecisionRejected, decision)
	})
}

func TestCanEnter(t *testing.T) {
	t.Run("First stage is always enterable", func(t *testing.T) {
		state := models.NewWorkflowState()
		assert.True(t, CanEnter(state, models.StageDigitization))
	})

	t.Run("A stage requires its predecessor completed", func(t *testing.T) {
		state := models.NewWorkflowState()
		assert.False(t, CanEnter(state, models.StageDiagnosis))
		assert.False(t, CanEnter(state, models.StageReview))

		state.StepsCompleted[models.StageDigitization] = true
		assert.True(t, CanEnter(state, models.StageDiagnosis))
		assert.False(t, CanEnter(state, models.StageClinicalValidation))

		state.StepsCompleted[models.StageDiagnosis] = true
		state.StepsCompleted[models.StageClinicalValidation] = true
		assert.True(t, CanEnter(state, models.StageReview))
	})

	t.Run("Unknown stage is not enterable", func(t *testing.T) {
		state := models.NewWorkflowState()
		assert.False(t, CanEnter(state, models.WorkflowStage("bogus")))
	})
}

func TestIsForward(t *testing.T) {
	state := models.NewWorkflowState()
	state.CurrentStage = models.StageDiagnosis

	assert.True(t, IsForward(state, models.StageClinicalValidation))
	assert.True(t, IsForward(state, models.StageReview))
	assert.False(t, IsForward(state, models.StageDiagnosis))
	assert.False(t, IsForward(state, models.StageDigitization))
}
