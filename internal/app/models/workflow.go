package models

// WorkflowStage identifies one screen of the adjudication console. Stages are
// strictly ordered; Review is terminal.
type WorkflowStage string

const (
	StageDigitization       WorkflowStage = "digitization"
	StageDiagnosis          WorkflowStage = "diagnosis"
	StageClinicalValidation WorkflowStage = "clinicalValidation"
	StageReview             WorkflowStage = "review"
)

// StageOrder lists the stages in their mandatory traversal order.
var StageOrder = []WorkflowStage{
	StageDigitization,
	StageDiagnosis,
	StageClinicalValidation,
	StageReview,
}

type RerunStatus string

const (
	RerunIdle      RerunStatus = "idle"
	RerunRunning   RerunStatus = "running"
	RerunCompleted RerunStatus = "completed"
)

type AdjudicationDecision string

const (
	DecisionApproved AdjudicationDecision = "approved"
	DecisionPartial  AdjudicationDecision = "partial"
	DecisionRejected AdjudicationDecision = "rejected"
)

// WorkflowState is the per-claim workflow singleton. It lives for one operator
// session; the redis snapshot cache is best-effort only.
type WorkflowState struct {
	CurrentStage         WorkflowStage          `json:"current_stage"`
	StepsCompleted       map[WorkflowStage]bool `json:"steps_completed"`
	IsDigitizationLocked bool                   `json:"is_digitization_locked"`
	RerunStatus          RerunStatus            `json:"rerun_status"`
	DecisionSubmitted    bool                   `json:"decision_submitted"`
	HasOpenQuery         bool                   `json:"has_open_query"`
	LastRerunTime        string                 `json:"last_rerun_time,omitempty"`
}

func NewWorkflowState() *WorkflowState {
	return &WorkflowState{
		CurrentStage:   StageDigitization,
		StepsCompleted: make(map[WorkflowStage]bool),
		RerunStatus:    RerunIdle,
	}
}

// StageIndex returns the position of a stage in the traversal order, or -1
// for an unknown stage.
func StageIndex(stage WorkflowStage) int {
	for i, s := range StageOrder {
		if s == stage {
			return i
		}
	}
	return -1
}

// PreviousStage returns the stage immediately preceding the given one. The
// first stage has no predecessor.
func PreviousStage(stage WorkflowStage) (WorkflowStage, bool) {
	idx := StageIndex(stage)
	if idx <= 0 {
		return "", false
	}
	return StageOrder[idx-1], true
}

// NextStage returns the stage immediately following the given one. Review is
// terminal.
func NextStage(stage WorkflowStage) (WorkflowStage, bool) {
	idx := StageIndex(stage)
	if idx < 0 || idx == len(StageOrder)-1 {
		return "", false
	}
	return StageOrder[idx+1], true
}
