package checklist

import (
	"claimdesk-service/internal/app/models"
	"claimdesk-service/internal/pkg/exceptions"
	"fmt"
)

// schemaField describes one verification item of a document schema and how
// its system value is derived from the claim.
type schemaField struct {
	key   string
	label string
	value func(meta models.ClaimMetadata, totals models.Totals, invoiceNumber string) string
}

var invoiceSchema = []schemaField{
	{"invoiceNumber", "Invoice number", func(_ models.ClaimMetadata, _ models.Totals, inv string) string { return inv }},
	{"beneficiaryName", "Beneficiary name", func(m models.ClaimMetadata, _ models.Totals, _ string) string { return m.BeneficiaryName }},
	{"visitNumber", "Visit number", func(m models.ClaimMetadata, _ models.Totals, _ string) string { return m.VisitNumber }},
	{"invoiceDate", "Invoice date", func(m models.ClaimMetadata, _ models.Totals, _ string) string { return m.VisitDate }},
	{"totalAmount", "Total amount", func(_ models.ClaimMetadata, t models.Totals, _ string) string { return fmt.Sprintf("%.2f", t.TotalInvoiced) }},
}

var prescriptionSchema = []schemaField{
	{"prescriptionNumber", "Prescription number", func(_ models.ClaimMetadata, _ models.Totals, inv string) string { return inv }},
	{"beneficiaryName", "Beneficiary name", func(m models.ClaimMetadata, _ models.Totals, _ string) string { return m.BeneficiaryName }},
	{"visitNumber", "Visit number", func(m models.ClaimMetadata, _ models.Totals, _ string) string { return m.VisitNumber }},
	{"prescriptionDate", "Prescription date", func(m models.ClaimMetadata, _ models.Totals, _ string) string { return m.VisitDate }},
}

// Tracker holds the tri-state verification checklist for the currently
// selected source document. Switching documents discards all state; the
// completion signal is edge-triggered and refires only when the computed
// completion state actually changes.
type Tracker struct {
	documentID   string
	documentType models.DocumentType
	items        []models.VerificationItem

	// lastEmitted remembers the completion status already signalled for the
	// current document so recomputations do not refire the edge.
	lastEmitted *models.ChecklistStatus
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// SelectDocument resets the checklist to a fresh unchecked set matching the
// new document's schema. State from the previous document is not retained.
func (t *Tracker) SelectDocument(documentID string, documentType models.DocumentType, meta models.ClaimMetadata, totals models.Totals, invoiceNumber string) {
	schema := invoiceSchema
	if documentType == models.DocumentPrescription {
		schema = prescriptionSchema
	}

	t.documentID = documentID
	t.documentType = documentType
	t.lastEmitted = nil
	t.items = make([]models.VerificationItem, 0, len(schema))
	for _, field := range schema {
		t.items = append(t.items, models.VerificationItem{
			Key:         field.key,
			Label:       field.label,
			SystemValue: field.value(meta, totals, invoiceNumber),
			MatchStatus: models.MatchUnchecked,
		})
	}
}

func (t *Tracker) DocumentID() string {
	return t.documentID
}

// Items returns a snapshot copy of the active checklist.
func (t *Tracker) Items() []models.VerificationItem {
	snapshot := make([]models.VerificationItem, len(t.items))
	copy(snapshot, t.items)
	return snapshot
}

// Mark affirms one item as matching the source document.
func (t *Tracker) Mark(key string) (*models.ChecklistCompletion, error) {
	return t.set(key, models.MatchMatches)
}

// RaiseQuery disputes one item; it stays a discrepancy until resolved by the
// external query subsystem.
func (t *Tracker) RaiseQuery(key string) (*models.ChecklistCompletion, error) {
	return t.set(key, models.MatchDiscrepancy)
}

func (t *Tracker) set(key string, status models.MatchStatus) (*models.ChecklistCompletion, error) {
	for i, item := range t.items {
		if item.Key == key {
			t.items[i].MatchStatus = status
			return t.completionEdge(), nil
		}
	}
	return nil, exceptions.ErrUnknownChecklistItem(nil)
}

// Stats summarizes the tri-state distribution of the active set.
func (t *Tracker) Stats() models.ChecklistStats {
	stats := models.ChecklistStats{Total: len(t.items)}
	for _, item := range t.items {
		switch item.MatchStatus {
		case models.MatchMatches:
			stats.Matched++
		case models.MatchDiscrepancy:
			stats.Discrepancies++
		default:
			stats.Unchecked++
		}
	}
	return stats
}

// IsComplete reports whether every item of the active set is non-unchecked.
// An empty tracker (no document selected) is never complete.
func (t *Tracker) IsComplete() bool {
	if len(t.items) == 0 {
		return false
	}
	for _, item := range t.items {
		if item.MatchStatus == models.MatchUnchecked {
			return false
		}
	}
	return true
}

// completionEdge returns the completion event exactly once per (document,
// completion-state) pair. Consumers treat it as an edge, not a level: marking
// an already-marked item must not refire it.
func (t *Tracker) completionEdge() *models.ChecklistCompletion {
	if !t.IsComplete() {
		t.lastEmitted = nil
		return nil
	}

	stats := t.Stats()
	status := models.ChecklistVerified
	if stats.Discrepancies > 0 {
		status = models.ChecklistHasDiscrepancies
	}

	if t.lastEmitted != nil && *t.lastEmitted == status {
		return nil
	}
	t.lastEmitted = &status

	return &models.ChecklistCompletion{
		DocumentID: t.documentID,
		Status:     status,
		Stats:      stats,
	}
}
