package workflow

import (
	"claimdesk-service/internal/app/contracts"
	"claimdesk-service/internal/app/models"
	"claimdesk-service/internal/app/services/core/checklist"
	"claimdesk-service/internal/app/services/core/fraud"
	"claimdesk-service/internal/app/services/core/ledger"
	"claimdesk-service/internal/app/services/core/rerun"
	"claimdesk-service/internal/pkg/claims_dto"
	"claimdesk-service/internal/pkg/constvars"
	"claimdesk-service/internal/pkg/dto/responses"
	"claimdesk-service/internal/pkg/exceptions"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Session is the per-claim state container: the ledger, the workflow state,
// the verification checklist and the rerun coordinator, all serialized behind
// one mutex so a tick always observes a consistent snapshot. Derived values
// (totals, alerts, decision) are recomputed on read, never cached.
type Session struct {
	mu sync.Mutex

	meta      models.ClaimMetadata
	ledger    *ledger.Ledger
	tracker   *checklist.Tracker
	rerun     *rerun.Coordinator
	state     *models.WorkflowState
	documents []models.SourceDocument
	symptoms  []string
	diagnoses []string

	// adjudicationUnavailable scopes a collaborator failure to the clinical
	// validation stage; the rest of the workflow stays usable.
	adjudicationUnavailable bool
}

func NewSession(extraction *claims_dto.ExtractionDocument, adjudicationClient contracts.AdjudicationClient, limiter *rate.Limiter, log *zap.Logger) *Session {
	meta := models.ClaimMetadata{
		ClaimID:            extraction.ClaimID,
		VisitNumber:        extraction.VisitNumber,
		VisitDate:          extraction.VisitDate,
		BeneficiaryName:    extraction.BeneficiaryName,
		HospitalName:       extraction.HospitalName,
		HospitalTrustScore: extraction.HospitalTrustScore,
		PatientTrustScore:  extraction.PatientTrustScore,
	}

	items := make([]models.BillItem, 0, len(extraction.BillItems))
	for _, raw := range extraction.BillItems {
		items = append(items, seedBillItem(raw))
	}

	documents := make([]models.SourceDocument, 0, len(extraction.Documents))
	for _, raw := range extraction.Documents {
		documents = append(documents, models.SourceDocument{
			ID:         raw.ID,
			Type:       models.DocumentType(raw.Type),
			ObjectName: raw.ObjectName,
		})
	}

	return &Session{
		meta:      meta,
		ledger:    ledger.NewLedger(items),
		tracker:   checklist.NewTracker(),
		rerun:     rerun.NewCoordinator(extraction.ClaimID, adjudicationClient, limiter, log),
		state:     models.NewWorkflowState(),
		documents: documents,
		symptoms:  extraction.Symptoms,
		diagnoses: extraction.Diagnoses,
	}
}

// seedBillItem converts one extracted line into the internal model. A fresh
// digitization starts auto-approved in full; adjudication results overwrite
// the approved amounts afterwards.
func seedBillItem(raw claims_dto.ExtractedItem) models.BillItem {
	invoiced := ledger.Floor2(raw.InvoicedAmount)
	if invoiced == 0 && raw.Quantity > 0 && raw.UnitPrice > 0 {
		invoiced = ledger.Floor2(raw.Quantity * raw.UnitPrice)
	}
	return models.BillItem{
		ID:              raw.ID,
		InvoiceNumber:   raw.InvoiceNumber,
		Category:        models.BillItemCategory(raw.Category),
		ItemName:        raw.ItemName,
		Quantity:        raw.Quantity,
		UnitPrice:       raw.UnitPrice,
		InvoicedAmount:  invoiced,
		RequestedAmount: raw.RequestedAmount,
		ApprovedAmount:  invoiced,
		Savings:         0,
		Status:          models.BillItemRelevant,
		PreAuthAmount:   raw.PreAuthAmount,
		ItemDate:        raw.ItemDate,
	}
}

// ApplyAdjudication seeds the ledger from an existing adjudication record.
func (s *Session) ApplyAdjudication(response *claims_dto.AdjudicationResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.ApplyAdjudicated(toAdjudicatedLines(response.Lines))
}

func (s *Session) MarkAdjudicationUnavailable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adjudicationUnavailable = true
}

func toAdjudicatedLines(lines []claims_dto.AdjudicatedLine) []ledger.AdjudicatedLine {
	converted := make([]ledger.AdjudicatedLine, 0, len(lines))
	for _, line := range lines {
		converted = append(converted, ledger.AdjudicatedLine{
			ItemID:                line.ItemID,
			ApprovedAmount:        line.ApprovedAmount,
			SystemDeductionReason: line.SystemDeductionReason,
		})
	}
	return converted
}

// Snapshot builds the full engine surface for the UI under the session lock.
func (s *Session) Snapshot() *responses.ClaimSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() *responses.ClaimSnapshot {
	items := s.ledger.Items()
	totals := s.ledger.Totals()

	state := *s.state
	state.StepsCompleted = make(map[models.WorkflowStage]bool, len(s.state.StepsCompleted))
	for stage, done := range s.state.StepsCompleted {
		state.StepsCompleted[stage] = done
	}
	state.RerunStatus = s.rerun.Status()
	if last := s.rerun.LastRerunTime(); !last.IsZero() {
		state.LastRerunTime = last.Format(time.RFC3339)
	}

	return &responses.ClaimSnapshot{
		ClaimID:  s.meta.ClaimID,
		Metadata: s.meta,
		Items:    items,
		Invoices: s.ledger.Invoices(),
		Totals:   totals,
		Alerts: fraud.Evaluate(fraud.Input{
			Items:              items,
			VisitDate:          s.meta.VisitDate,
			HospitalTrustScore: s.meta.HospitalTrustScore,
			PatientTrustScore:  s.meta.PatientTrustScore,
		}),
		Workflow:  state,
		Decision:  Decide(totals),
		Documents: s.documents,
		Checklist: s.tracker.Items(),
	}
}

// UpdateLineItem routes one edit through the ledger. The ledger is frozen
// once the decision is submitted.
func (s *Session) UpdateLineItem(itemID string, field ledger.Field, raw string) (models.BillItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.DecisionSubmitted {
		return models.BillItem{}, exceptions.ErrDecisionAlreadySubmitted(nil)
	}
	return s.ledger.ApplyEdit(itemID, field, raw)
}

func (s *Session) RemoveLineItem(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.DecisionSubmitted {
		return exceptions.ErrDecisionAlreadySubmitted(nil)
	}
	return s.ledger.Remove(itemID)
}

// NavigateToStage changes the visible stage. Backward moves are always
// permitted for unlocked stages; forward moves are blocked by open queries
// when leaving clinical validation and by an incomplete checklist when
// leaving diagnosis.
func (s *Session) NavigateToStage(target models.WorkflowStage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if models.StageIndex(target) < 0 {
		return exceptions.ErrUnknownStage(nil)
	}
	if !CanEnter(s.state, target) {
		return exceptions.ErrStagePredecessorIncomplete(nil)
	}
	if IsForward(s.state, target) {
		if err := s.forwardBlockLocked(); err != nil {
			return err
		}
	}
	s.state.CurrentStage = target
	return nil
}

func (s *Session) forwardBlockLocked() error {
	if s.state.CurrentStage == models.StageClinicalValidation && s.state.HasOpenQuery {
		return exceptions.ErrOpenQueryBlocksNavigation(nil)
	}
	if s.state.CurrentStage == models.StageDiagnosis && !s.tracker.IsComplete() {
		return exceptions.ErrChecklistBlocksNavigation(nil)
	}
	return nil
}

// CanCompleteStage checks the Save & Continue preconditions without mutating
// anything. The usecase runs it before persisting to the collaborators so a
// blocked stage never causes a partial save.
func (s *Session) CanCompleteStage(stage models.WorkflowStage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canCompleteStageLocked(stage)
}

func (s *Session) canCompleteStageLocked(stage models.WorkflowStage) error {
	if models.StageIndex(stage) < 0 {
		return exceptions.ErrUnknownStage(nil)
	}
	if s.state.DecisionSubmitted {
		return exceptions.ErrDecisionAlreadySubmitted(nil)
	}
	if !CanEnter(s.state, stage) {
		return exceptions.ErrStagePredecessorIncomplete(nil)
	}
	if stage == models.StageClinicalValidation && s.state.HasOpenQuery {
		return exceptions.ErrOpenQueryBlocksNavigation(nil)
	}
	if stage == models.StageDiagnosis && !s.tracker.IsComplete() {
		return exceptions.ErrChecklistBlocksNavigation(nil)
	}
	return nil
}

// CompleteStage marks a stage done and advances. The caller persists pending
// edits to the collaborators before invoking this.
func (s *Session) CompleteStage(stage models.WorkflowStage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.canCompleteStageLocked(stage); err != nil {
		return err
	}

	s.state.StepsCompleted[stage] = true
	if next, ok := models.NextStage(stage); ok {
		s.state.CurrentStage = next
	}
	return nil
}

// LockDigitization is one-way for the session. The first lock while the
// rerun coordinator is idle auto-triggers a rerun.
func (s *Session) LockDigitization(apply func()) {
	s.mu.Lock()
	alreadyLocked := s.state.IsDigitizationLocked
	s.state.IsDigitizationLocked = true
	s.mu.Unlock()

	if !alreadyLocked {
		apply()
	}
}

func (s *Session) SetOpenQuery(hasOpenQuery bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.HasOpenQuery = hasOpenQuery
}

// CanSubmitDecision checks the submission preconditions without committing
// anything, so the usecase can finalize with the collaborators first.
func (s *Session) CanSubmitDecision() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canSubmitDecisionLocked()
}

func (s *Session) canSubmitDecisionLocked() error {
	if s.state.DecisionSubmitted {
		return exceptions.ErrDecisionAlreadySubmitted(nil)
	}
	if !CanEnter(s.state, models.StageReview) {
		return exceptions.ErrStagePredecessorIncomplete(nil)
	}
	if s.state.HasOpenQuery {
		return exceptions.ErrOpenQueryBlocksNavigation(nil)
	}
	return nil
}

// SubmitDecision finalizes the claim. It requires the review stage to be
// reachable, no open queries and a not-yet-submitted decision; afterwards the
// ledger is frozen for the rest of the session.
func (s *Session) SubmitDecision() (models.AdjudicationDecision, models.Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.canSubmitDecisionLocked(); err != nil {
		return "", models.Totals{}, err
	}

	totals := s.ledger.Totals()
	decision := Decide(totals)
	s.state.DecisionSubmitted = true
	s.state.StepsCompleted[models.StageReview] = true
	return decision, totals, nil
}

// Rerun exposes the session's coordinator to the usecase.
func (s *Session) Rerun() *rerun.Coordinator {
	return s.rerun
}

// ApplyRerunResult lands a completed rerun in the ledger. Results arriving
// after decision submission are dropped; the ledger is frozen.
func (s *Session) ApplyRerunResult(lines []ledger.AdjudicatedLine) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.DecisionSubmitted {
		return false
	}
	s.ledger.ApplyAdjudicated(lines)
	return true
}

// SelectDocument switches the checklist to a new source document, discarding
// the previous document's verification state.
func (s *Session) SelectDocument(documentID string, documentType models.DocumentType) []models.VerificationItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	invoiceNumber := constvars.DefaultInvoiceBucket
	if invoices := s.ledger.Invoices(); len(invoices) > 0 {
		invoiceNumber = invoices[0].InvoiceNumber
	}
	s.tracker.SelectDocument(documentID, documentType, s.meta, s.ledger.Totals(), invoiceNumber)
	return s.tracker.Items()
}

func (s *Session) MarkChecklistItem(itemKey string) ([]models.VerificationItem, *models.ChecklistCompletion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	completion, err := s.tracker.Mark(itemKey)
	if err != nil {
		return nil, nil, err
	}
	return s.tracker.Items(), completion, nil
}

func (s *Session) RaiseChecklistQuery(itemKey string) ([]models.VerificationItem, *models.ChecklistCompletion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	completion, err := s.tracker.RaiseQuery(itemKey)
	if err != nil {
		return nil, nil, err
	}
	return s.tracker.Items(), completion, nil
}

// ChecklistSubmission builds the per-document tri-state map for the
// extraction service.
func (s *Session) ChecklistSubmission() *claims_dto.ChecklistSubmission {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields := make(map[string]string)
	for _, item := range s.tracker.Items() {
		fields[item.Key] = string(item.MatchStatus)
	}
	return &claims_dto.ChecklistSubmission{
		ChecklistData: map[string]map[string]string{
			s.tracker.DocumentID(): fields,
		},
	}
}

// Document resolves a source document by ID.
func (s *Session) Document(documentID string) (models.SourceDocument, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.documents {
		if doc.ID == documentID {
			return doc, true
		}
	}
	return models.SourceDocument{}, false
}

// ExtractionPayload assembles the full-line-item patch payload for the
// extraction service.
func (s *Session) ExtractionPayload(symptoms, diagnoses []string, triggerReadjudication bool) *claims_dto.PatchExtractionPayload {
	s.mu.Lock()
	defer s.mu.Unlock()

	if symptoms != nil {
		s.symptoms = symptoms
	}
	if diagnoses != nil {
		s.diagnoses = diagnoses
	}

	items := s.ledger.Items()
	raw := make([]claims_dto.ExtractedItem, 0, len(items))
	for _, item := range items {
		raw = append(raw, claims_dto.ExtractedItem{
			ID:              item.ID,
			InvoiceNumber:   item.InvoiceNumber,
			Category:        string(item.Category),
			ItemName:        item.ItemName,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			InvoicedAmount:  item.InvoicedAmount,
			RequestedAmount: item.RequestedAmount,
			PreAuthAmount:   item.PreAuthAmount,
			ItemDate:        item.ItemDate,
		})
	}
	return &claims_dto.PatchExtractionPayload{
		BillItems:             raw,
		Symptoms:              s.symptoms,
		Diagnoses:             s.diagnoses,
		TriggerReadjudication: triggerReadjudication,
	}
}

// AdjudicationPayload assembles the clinical-validation persistence payload.
func (s *Session) AdjudicationPayload() *claims_dto.UpdateManualAdjudicationPayload {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.ledger.Items()
	totals := s.ledger.Totals()
	lines := make([]claims_dto.AdjudicatedLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, claims_dto.AdjudicatedLine{
			ItemID:         item.ID,
			ApprovedAmount: item.ApprovedAmount,
			Savings:        item.Savings,
			EditorReason:   item.DeductionReason,
		})
	}
	return &claims_dto.UpdateManualAdjudicationPayload{
		Lines: lines,
		Totals: claims_dto.AdjudicationTotals{
			TotalInvoiced: totals.TotalInvoiced,
			TotalApproved: totals.TotalApproved,
			TotalSavings:  totals.TotalSavings,
		},
	}
}
