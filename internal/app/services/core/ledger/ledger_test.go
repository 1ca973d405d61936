package ledger

import (
	"claimdesk-service/internal/app/models"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func amount(v float64) *float64 {
	return &v
}

func TestFloor2(t *testing.T) {
	t.Run("Truncates instead of rounding", func(t *testing.T) {
		assert.InDelta(t, 0.43, Floor2(3*0.145), 1e-9)
		assert.InDelta(t, 12.99, Floor2(12.999), 1e-9)
	})

	t.Run("NaN and infinities collapse to zero", func(t *testing.T) {
		assert.Equal(t, 0.0, Floor2(math.NaN()))
		assert.Equal(t, 0.0, Floor2(math.Inf(1)))
		assert.Equal(t, 0.0, Floor2(math.Inf(-1)))
	})
}

func TestRecalcLineItem(t *testing.T) {
	base := models.BillItem{
		ID:             "item-1",
		Quantity:       2,
		UnitPrice:      100,
		InvoicedAmount: 200,
		ApprovedAmount: 200,
		Status:         models.BillItemRelevant,
	}

	t.Run("Quantity edit recomputes invoiced amount", func(t *testing.T) {
		item := RecalcLineItem(base, FieldQuantity, "3")
		assert.InDelta(t, 300.0, item.InvoicedAmount, 1e-9)
		assert.InDelta(t, 100.0, item.Savings, 1e-9)
		assert.Equal(t, models.BillItemQuery, item.Status)
	})

	t.Run("Malformed numeric input parses to zero", func(t *testing.T) {
		item := RecalcLineItem(base, FieldQuantity, "abc")
		assert.Equal(t, 0.0, item.Quantity)
		assert.Equal(t, 0.0, item.InvoicedAmount)
	})

	t.Run("Infinite input never reaches a stored field", func(t *testing.T) {
		// ParseFloat accepts "Inf"; an infinity stored on the item would make
		// the snapshot unencodable, so it must degrade to zero like any other
		// malformed amount.
		item := RecalcLineItem(base, FieldApprovedAmount, "Inf")
		assert.Equal(t, 0.0, item.ApprovedAmount)
		assert.Equal(t, models.BillItemIrrelevant, item.Status)
		assert.InDelta(t, 200.0, item.Savings, 1e-9)

		item = RecalcLineItem(base, FieldUnitPrice, "+Inf")
		assert.Equal(t, 0.0, item.UnitPrice)
		assert.Equal(t, 0.0, item.InvoicedAmount)
	})

	t.Run("Full approval keeps line relevant", func(t *testing.T) {
		item := RecalcLineItem(base, FieldApprovedAmount, "200")
		assert.Equal(t, models.BillItemRelevant, item.Status)
		assert.Equal(t, 0.0, item.Savings)
	})

	t.Run("Partial approval flips line to query", func(t *testing.T) {
		item := RecalcLineItem(base, FieldApprovedAmount, "150")
		assert.Equal(t, models.BillItemQuery, item.Status)
		assert.InDelta(t, 50.0, item.Savings, 1e-9)
	})

	t.Run("Zero approval rules line irrelevant", func(t *testing.T) {
		item := RecalcLineItem(base, FieldApprovedAmount, "0")
		assert.Equal(t, models.BillItemIrrelevant, item.Status)
		assert.InDelta(t, 200.0, item.Savings, 1e-9)
	})

	t.Run("Savings never go negative", func(t *testing.T) {
		item := RecalcLineItem(base, FieldApprovedAmount, "500")
		assert.Equal(t, 0.0, item.Savings)
	})

	t.Run("Empty requested amount clears the field", func(t *testing.T) {
		withRequested := base
		withRequested.RequestedAmount = amount(180)
		item := RecalcLineItem(withRequested, FieldRequestedAmount, "")
		assert.Nil(t, item.RequestedAmount)
	})

	t.Run("Unknown status value is ignored", func(t *testing.T) {
		item := RecalcLineItem(base, FieldStatus, "bogus")
		assert.Equal(t, models.BillItemRelevant, item.Status)
	})
}

func TestTotals(t *testing.T) {
	t.Run("Approved contribution is capped by invoiced and requested", func(t *testing.T) {
		items := []models.BillItem{
			{InvoicedAmount: 900, RequestedAmount: amount(800), ApprovedAmount: 500},
			{InvoicedAmount: 900, RequestedAmount: amount(800), ApprovedAmount: 1000},
		}
		totals := Totals(items)
		assert.InDelta(t, 1800.0, totals.TotalInvoiced, 1e-9)
		assert.InDelta(t, 1600.0, totals.TotalRequested, 1e-9)
		assert.InDelta(t, 1300.0, totals.TotalApproved, 1e-9)
	})

	t.Run("Corrupted amounts contribute zero", func(t *testing.T) {
		items := []models.BillItem{
			{InvoicedAmount: math.NaN(), ApprovedAmount: math.Inf(1)},
			{InvoicedAmount: 100, ApprovedAmount: 100},
		}
		totals := Totals(items)
		assert.False(t, math.IsNaN(totals.TotalInvoiced))
		assert.InDelta(t, 100.0, totals.TotalInvoiced, 1e-9)
		assert.InDelta(t, 100.0, totals.TotalApproved, 1e-9)
	})

	t.Run("Partial-approval claim adds up", func(t *testing.T) {
		items := []models.BillItem{
			{InvoicedAmount: 2500, ApprovedAmount: 2500, Status: models.BillItemRelevant},
			{InvoicedAmount: 7000, ApprovedAmount: 6500, Savings: 500, Status: models.BillItemQuery},
		}
		totals := Totals(items)
		assert.InDelta(t, 9500.0, totals.TotalInvoiced, 1e-9)
		assert.InDelta(t, 9000.0, totals.TotalApproved, 1e-9)
		assert.InDelta(t, 500.0, totals.TotalSavings, 1e-9)
	})
}

func TestGroupByInvoice(t *testing.T) {
	items := []models.BillItem{
		{ID: "a", InvoiceNumber: "INV-7", InvoicedAmount: 100},
		{ID: "b", InvoiceNumber: "", InvoicedAmount: 50},
		{ID: "c", InvoiceNumber: "INV-7", InvoicedAmount: 25},
		{ID: "d", InvoiceNumber: "INV-9", InvoicedAmount: 10},
	}

	invoices := GroupByInvoice(items)

	assert.Len(t, invoices, 3)
	assert.Equal(t, "INV-7", invoices[0].InvoiceNumber)
	assert.Equal(t, "INV-001", invoices[1].InvoiceNumber)
	assert.Equal(t, "INV-9", invoices[2].InvoiceNumber)
	assert.InDelta(t, 125.0, invoices[0].Subtotal, 1e-9)
	assert.Len(t, invoices[0].Items, 2)
}

func TestLedger(t *testing.T) {
	seed := []models.BillItem{
		{ID: "item-1", InvoicedAmount: 100, ApprovedAmount: 100, Status: models.BillItemRelevant},
		{ID: "item-2", InvoicedAmount: 200, ApprovedAmount: 200, Status: models.BillItemRelevant},
	}

	t.Run("ApplyEdit rejects unknown line", func(t *testing.T) {
		l := NewLedger(seed)
		_, err := l.ApplyEdit("missing", FieldApprovedAmount, "10")
		assert.Error(t, err)
	})

	t.Run("Remove deletes exactly one line", func(t *testing.T) {
		l := NewLedger(seed)
		assert.NoError(t, l.Remove("item-1"))
		assert.Len(t, l.Items(), 1)
		assert.Error(t, l.Remove("item-1"))
	})

	t.Run("ApplyAdjudicated leaves absent lines untouched", func(t *testing.T) {
		l := NewLedger(seed)
		l.ApplyAdjudicated([]AdjudicatedLine{
			{ItemID: "item-2", ApprovedAmount: 150, SystemDeductionReason: "tariff cap"},
		})

		items := l.Items()
		assert.Equal(t, 100.0, items[0].ApprovedAmount)
		assert.Equal(t, models.BillItemRelevant, items[0].Status)
		assert.Equal(t, 150.0, items[1].ApprovedAmount)
		assert.Equal(t, "tariff cap", items[1].SystemDeductionReason)
		assert.Equal(t, models.BillItemQuery, items[1].Status)
		assert.InDelta(t, 50.0, items[1].Savings, 1e-9)
	})

	t.Run("Items returns a copy", func(t *testing.T) {
		l := NewLedger(seed)
		snapshot := l.Items()
		snapshot[0].ApprovedAmount = 0
		assert.Equal(t, 100.0, l.Items()[0].ApprovedAmount)
	})
}
