package checklist

import (
	"claimdesk-service/internal/app/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testMeta = models.ClaimMetadata{
	ClaimID:         "CLM-1",
	VisitNumber:     "V-42",
	VisitDate:       "2026-01-10",
	BeneficiaryName: "A. Operator",
}

func newInvoiceTracker() *Tracker {
	t := NewTracker()
	t.SelectDocument("doc-1", models.DocumentInvoice, testMeta, models.Totals{TotalInvoiced: 1234.5}, "INV-7")
	return t
}

func TestSelectDocument(t *testing.T) {
	t.Run("Invoice schema seeds five unchecked items", func(t *testing.T) {
		tracker := newInvoiceTracker()
		items := tracker.Items()
		assert.Len(t, items, 5)
		for _, item := range items {
			assert.Equal(t, models.MatchUnchecked, item.MatchStatus)
		}
		assert.Equal(t, "INV-7", items[0].SystemValue)
		assert.Equal(t, "1234.50", items[4].SystemValue)
	})

	t.Run("Prescription schema has four items", func(t *testing.T) {
		tracker := NewTracker()
		tracker.SelectDocument("doc-2", models.DocumentPrescription, testMeta, models.Totals{}, "RX-1")
		assert.Len(t, tracker.Items(), 4)
	})

	t.Run("Switching documents discards previous state", func(t *testing.T) {
		tracker := newInvoiceTracker()
		_, err := tracker.Mark("invoiceNumber")
		assert.NoError(t, err)

		tracker.SelectDocument("doc-2", models.DocumentInvoice, testMeta, models.Totals{}, "INV-8")
		for _, item := range tracker.Items() {
			assert.Equal(t, models.MatchUnchecked, item.MatchStatus)
		}
		assert.False(t, tracker.IsComplete())
	})
}

func TestMarkAndRaiseQuery(t *testing.T) {
	t.Run("Unknown key is rejected", func(t *testing.T) {
		tracker := newInvoiceTracker()
		_, err := tracker.Mark("nope")
		assert.Error(t, err)
	})

	t.Run("Stats follow the tri-state distribution", func(t *testing.T) {
		tracker := newInvoiceTracker()
		tracker.Mark("invoiceNumber")
		tracker.RaiseQuery("totalAmount")

		stats := tracker.Stats()
		assert.Equal(t, 5, stats.Total)
		assert.Equal(t, 1, stats.Matched)
		assert.Equal(t, 1, stats.Discrepancies)
		assert.Equal(t, 3, stats.Unchecked)
	})
}

func TestCompletionEdge(t *testing.T) {
	keys := []string{"invoiceNumber", "beneficiaryName", "visitNumber", "invoiceDate", "totalAmount"}

	t.Run("Completion fires once when the last item is set", func(t *testing.T) {
		tracker := newInvoiceTracker()

		for _, key := range keys[:4] {
			completion, err := tracker.Mark(key)
			assert.NoError(t, err)
			assert.Nil(t, completion)
		}

		completion, err := tracker.Mark(keys[4])
		assert.NoError(t, err)
		assert.NotNil(t, completion)
		assert.Equal(t, models.ChecklistVerified, completion.Status)
		assert.Equal(t, "doc-1", completion.DocumentID)
	})

	t.Run("Re-marking an already marked item does not refire", func(t *testing.T) {
		tracker := newInvoiceTracker()
		for _, key := range keys {
			tracker.Mark(key)
		}

		completion, err := tracker.Mark(keys[0])
		assert.NoError(t, err)
		assert.Nil(t, completion)
	})

	t.Run("Changing the completion status refires the edge", func(t *testing.T) {
		tracker := newInvoiceTracker()
		for _, key := range keys {
			tracker.Mark(key)
		}

		completion, err := tracker.RaiseQuery(keys[0])
		assert.NoError(t, err)
		assert.NotNil(t, completion)
		assert.Equal(t, models.ChecklistHasDiscrepancies, completion.Status)
	})

	t.Run("Any discrepancy yields hasDiscrepancies", func(t *testing.T) {
		tracker := newInvoiceTracker()
		for _, key := range keys[:4] {
			tracker.Mark(key)
		}
		completion, err := tracker.RaiseQuery(keys[4])
		assert.NoError(t, err)
		assert.NotNil(t, completion)
		assert.Equal(t, models.ChecklistHasDiscrepancies, completion.Status)
	})

	t.Run("Empty tracker is never complete", func(t *testing.T) {
		tracker := NewTracker()
		assert.False(t, tracker.IsComplete())
	})
}
