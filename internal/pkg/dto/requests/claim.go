package requests

// UpdateLineItem carries one edited field of a bill line. Amount fields arrive
// as raw strings because the console forwards free-form operator input; the
// ledger applies its parse-or-zero policy.
type UpdateLineItem struct {
	ChangedField string `json:"changed_field" validate:"required,oneof=quantity unit_price invoiced_amount requested_amount approved_amount deduction_reason status"`
	NewValue     string `json:"new_value"`
}

// CompleteStage is the Save & Continue payload for one workflow step.
type CompleteStage struct {
	Symptoms              []string `json:"symptoms,omitempty"`
	Diagnoses             []string `json:"diagnoses,omitempty"`
	TriggerReadjudication bool     `json:"trigger_readjudication,omitempty"`
}

type NavigateStage struct {
	TargetStage string `json:"target_stage" validate:"required,oneof=digitization diagnosis clinicalValidation review"`
}

type SelectDocument struct {
	DocumentID   string `json:"document_id" validate:"required"`
	DocumentType string `json:"document_type" validate:"required,oneof=invoice prescription"`
}

type SubmitDecision struct {
	Note string `json:"note,omitempty"`
}

type SetOpenQuery struct {
	HasOpenQuery bool `json:"has_open_query"`
}
