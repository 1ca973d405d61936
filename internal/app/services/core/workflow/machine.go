package workflow

import (
	"claimdesk-service/internal/app/models"
)

// Decide derives the adjudication decision from the ledger totals. The
// decision is never operator-settable; it follows the money.
func Decide(totals models.Totals) models.AdjudicationDecision {
	switch {
	case totals.TotalApproved == 0:
		return models.DecisionRejected
	case totals.TotalApproved < totals.TotalInvoiced:
		return models.DecisionPartial
	default:
		return models.DecisionApproved
	}
}

// CanEnter reports whether a stage is enterable: the first stage always is,
// any other stage requires its predecessor in the completed set.
func CanEnter(state *models.WorkflowState, stage models.WorkflowStage) bool {
	previous, ok := models.PreviousStage(stage)
	if !ok {
		return stage == models.StageDigitization
	}
	return state.StepsCompleted[previous]
}

// IsForward reports whether moving from the current stage to the target is a
// forward move in the traversal order.
func IsForward(state *models.WorkflowState, target models.WorkflowStage) bool {
	return models.StageIndex(target) > models.StageIndex(state.CurrentStage)
}
