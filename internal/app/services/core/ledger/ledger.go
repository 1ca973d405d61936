package ledger

import (
	"claimdesk-service/internal/app/models"
	"claimdesk-service/internal/pkg/constvars"
	"claimdesk-service/internal/pkg/exceptions"
	"claimdesk-service/internal/pkg/utils"
	"math"
)

// Field names the console may edit on a bill line.
type Field string

const (
	FieldQuantity        Field = "quantity"
	FieldUnitPrice       Field = "unit_price"
	FieldInvoicedAmount  Field = "invoiced_amount"
	FieldRequestedAmount Field = "requested_amount"
	FieldApprovedAmount  Field = "approved_amount"
	FieldDeductionReason Field = "deduction_reason"
	FieldStatus          Field = "status"
)

// Floor2 truncates a currency amount to 2 decimals. Truncation, not rounding,
// is the console's stated monetary policy; it can differ from rounding by one
// minor unit per line.
func Floor2(v float64) float64 {
	if v != v || math.IsInf(v, 0) {
		return 0
	}
	return math.Floor(v*100) / 100
}

// coalesce maps NaN and infinities to 0 so a missing or corrupted amount can
// never poison an aggregate.
func coalesce(v float64) float64 {
	if v != v || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// clampSavings keeps savings non-negative on every edit path. The console
// historically clamped only in clinical validation; here the policy is
// applied uniformly so reported savings cannot go below zero anywhere.
func clampSavings(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// recomputeDerived refreshes savings and status from the item's current
// amounts. Status follows the approved amount: zero means the line was ruled
// irrelevant, a full approval keeps it relevant, anything in between is a
// query.
func recomputeDerived(item models.BillItem) models.BillItem {
	item.Savings = clampSavings(coalesce(item.InvoicedAmount) - coalesce(item.ApprovedAmount))
	switch {
	case coalesce(item.ApprovedAmount) == 0:
		item.Status = models.BillItemIrrelevant
	case coalesce(item.ApprovedAmount) == coalesce(item.InvoicedAmount):
		item.Status = models.BillItemRelevant
	default:
		item.Status = models.BillItemQuery
	}
	return item
}

// RecalcLineItem applies one edited field to a bill line and re-establishes
// the line's money invariants. Numeric input uses parse-or-zero; malformed
// entry never fails the edit.
func RecalcLineItem(item models.BillItem, field Field, raw string) models.BillItem {
	switch field {
	case FieldQuantity:
		item.Quantity = utils.ParseAmountOrZero(raw)
		item.InvoicedAmount = Floor2(item.Quantity * item.UnitPrice)
		item = recomputeDerived(item)
	case FieldUnitPrice:
		item.UnitPrice = utils.ParseAmountOrZero(raw)
		item.InvoicedAmount = Floor2(item.Quantity * item.UnitPrice)
		item = recomputeDerived(item)
	case FieldInvoicedAmount:
		item.InvoicedAmount = Floor2(utils.ParseAmountOrZero(raw))
		item = recomputeDerived(item)
	case FieldRequestedAmount:
		if raw == "" {
			item.RequestedAmount = nil
		} else {
			requested := utils.ParseAmountOrZero(raw)
			item.RequestedAmount = &requested
		}
	case FieldApprovedAmount:
		item.ApprovedAmount = utils.ParseAmountOrZero(raw)
		item = recomputeDerived(item)
	case FieldDeductionReason:
		item.DeductionReason = raw
	case FieldStatus:
		switch models.BillItemStatus(raw) {
		case models.BillItemRelevant, models.BillItemIrrelevant, models.BillItemQuery:
			item.Status = models.BillItemStatus(raw)
		}
	}
	return item
}

// approvedContribution caps what a line may add to the approved total: never
// above the invoiced amount, and never above the requested amount when one
// exists, even if the stored approved amount is stale or out of range.
func approvedContribution(item models.BillItem) float64 {
	ceiling := coalesce(item.InvoicedAmount)
	if item.RequestedAmount != nil {
		requested := coalesce(*item.RequestedAmount)
		if requested < ceiling {
			ceiling = requested
		}
	}
	approved := coalesce(item.ApprovedAmount)
	if approved > ceiling {
		return ceiling
	}
	return approved
}

// Totals rolls the ledger snapshot up into the aggregate money figures. A
// missing amount contributes 0; the result is always numeric.
func Totals(items []models.BillItem) models.Totals {
	var totals models.Totals
	for _, item := range items {
		totals.TotalInvoiced += coalesce(item.InvoicedAmount)
		if item.RequestedAmount != nil {
			totals.TotalRequested += coalesce(*item.RequestedAmount)
		}
		totals.TotalApproved += approvedContribution(item)
		totals.TotalSavings += coalesce(item.Savings)
	}
	return totals
}

// GroupByInvoice partitions the items by invoice number, preserving first-seen
// order. Items without a number land in the default bucket.
func GroupByInvoice(items []models.BillItem) []models.Invoice {
	index := make(map[string]int)
	invoices := make([]models.Invoice, 0)
	for _, item := range items {
		number := item.InvoiceNumber
		if number == "" {
			number = constvars.DefaultInvoiceBucket
		}
		pos, seen := index[number]
		if !seen {
			pos = len(invoices)
			index[number] = pos
			invoices = append(invoices, models.Invoice{InvoiceNumber: number})
		}
		invoices[pos].Items = append(invoices[pos].Items, item)
		invoices[pos].Subtotal += coalesce(item.InvoicedAmount)
	}
	return invoices
}

// AdjudicatedLine is one refreshed line from a re-adjudication response.
type AdjudicatedLine struct {
	ItemID                string
	ApprovedAmount        float64
	SystemDeductionReason string
}

// Ledger is the authoritative bill-item collection for one claim session.
// All mutation goes through it so the savings/status invariants are never
// bypassed by a direct field write. It is not safe for concurrent use; the
// owning session serializes access.
type Ledger struct {
	items []models.BillItem
}

func NewLedger(items []models.BillItem) *Ledger {
	copied := make([]models.BillItem, len(items))
	copy(copied, items)
	return &Ledger{items: copied}
}

// Items returns a snapshot copy of the current lines.
func (l *Ledger) Items() []models.BillItem {
	snapshot := make([]models.BillItem, len(l.items))
	copy(snapshot, l.items)
	return snapshot
}

// ApplyEdit mutates one line through the recalculation rules and returns the
// updated line.
func (l *Ledger) ApplyEdit(itemID string, field Field, raw string) (models.BillItem, error) {
	for i, item := range l.items {
		if item.ID == itemID {
			l.items[i] = RecalcLineItem(item, field, raw)
			return l.items[i], nil
		}
	}
	return models.BillItem{}, exceptions.ErrUnknownLineItem(nil)
}

// Append adds a freshly digitized line.
func (l *Ledger) Append(item models.BillItem) {
	l.items = append(l.items, recomputeDerived(item))
}

// Remove deletes a line by ID. Explicit row deletion is the only way a line
// leaves the ledger.
func (l *Ledger) Remove(itemID string) error {
	for i, item := range l.items {
		if item.ID == itemID {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return nil
		}
	}
	return exceptions.ErrUnknownLineItem(nil)
}

// ApplyAdjudicated refreshes approved amounts and system deduction reasons
// from a re-adjudication response. Lines absent from the response are left
// untouched; derived values go through the standard recalculation.
func (l *Ledger) ApplyAdjudicated(lines []AdjudicatedLine) {
	byID := make(map[string]AdjudicatedLine, len(lines))
	for _, line := range lines {
		byID[line.ItemID] = line
	}
	for i, item := range l.items {
		line, ok := byID[item.ID]
		if !ok {
			continue
		}
		item.ApprovedAmount = coalesce(line.ApprovedAmount)
		item.SystemDeductionReason = line.SystemDeductionReason
		l.items[i] = recomputeDerived(item)
	}
}

func (l *Ledger) Totals() models.Totals {
	return Totals(l.items)
}

func (l *Ledger) Invoices() []models.Invoice {
	return GroupByInvoice(l.items)
}
