package fraud

import (
	"claimdesk-service/internal/app/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func alertTypes(alerts []models.FraudAlert) []string {
	types := make([]string, len(alerts))
	for i, alert := range alerts {
		types[i] = alert.Type
	}
	return types
}

func TestEvaluateOrdering(t *testing.T) {
	// One medium (multiple invoices, single date), two high (high-value claim,
	// low hospital trust) and one more medium (low patient trust). High
	// severity must come first, equal severities keep rule order.
	input := Input{
		Items: []models.BillItem{
			{ID: "a", InvoiceNumber: "INV-1", InvoicedAmount: 6000, ItemDate: "2026-01-10"},
			{ID: "b", InvoiceNumber: "INV-2", InvoicedAmount: 6000, ItemDate: "2026-01-10"},
		},
		VisitDate:          "2026-01-10",
		HospitalTrustScore: 40,
		PatientTrustScore:  50,
	}

	alerts := Evaluate(input)

	assert.Equal(t, []string{
		"high_value_claim",
		"hospital_trust",
		"multiple_invoices",
		"patient_trust",
	}, alertTypes(alerts))
	assert.Equal(t, models.FraudSeverityHigh, alerts[0].Severity)
	assert.Equal(t, models.FraudSeverityHigh, alerts[1].Severity)
	assert.Equal(t, models.FraudSeverityMedium, alerts[2].Severity)
	assert.Equal(t, models.FraudSeverityMedium, alerts[3].Severity)
}

func TestEvaluateDeterminism(t *testing.T) {
	input := Input{
		Items: []models.BillItem{
			{ID: "a", InvoiceNumber: "INV-1", InvoicedAmount: 12000},
		},
		VisitDate:          "2026-01-10",
		HospitalTrustScore: 90,
		PatientTrustScore:  90,
	}

	first := Evaluate(input)
	second := Evaluate(input)
	assert.Equal(t, first, second)
}

func TestMultipleInvoiceCheck(t *testing.T) {
	t.Run("Single invoice raises nothing", func(t *testing.T) {
		_, ok := multipleInvoiceCheck([]models.BillItem{
			{InvoiceNumber: "INV-1"},
			{InvoiceNumber: "INV-1"},
		})
		assert.False(t, ok)
	})

	t.Run("Multiple invoices on one date is medium", func(t *testing.T) {
		alert, ok := multipleInvoiceCheck([]models.BillItem{
			{InvoiceNumber: "INV-1", ItemDate: "2026-01-10"},
			{InvoiceNumber: "INV-2", ItemDate: "2026-01-10"},
		})
		assert.True(t, ok)
		assert.Equal(t, models.FraudSeverityMedium, alert.Severity)
	})

	t.Run("Multiple invoices across dates is high", func(t *testing.T) {
		alert, ok := multipleInvoiceCheck([]models.BillItem{
			{InvoiceNumber: "INV-1", ItemDate: "2026-01-10"},
			{InvoiceNumber: "INV-2", ItemDate: "2026-01-11"},
		})
		assert.True(t, ok)
		assert.Equal(t, models.FraudSeverityHigh, alert.Severity)
	})

	t.Run("Blank invoice numbers share the default bucket", func(t *testing.T) {
		_, ok := multipleInvoiceCheck([]models.BillItem{
			{InvoiceNumber: ""},
			{InvoiceNumber: ""},
		})
		assert.False(t, ok)
	})
}

func TestHighValueItemCheck(t *testing.T) {
	t.Run("Item above three times the average fires", func(t *testing.T) {
		alert, ok := highValueItemCheck([]models.BillItem{
			{InvoicedAmount: 100},
			{InvoicedAmount: 100},
			{InvoicedAmount: 100},
			{InvoicedAmount: 2000},
		})
		assert.True(t, ok)
		assert.Equal(t, models.FraudSeverityMedium, alert.Severity)
		assert.Contains(t, alert.Message, "1 item(s)")
	})

	t.Run("Even spread stays quiet", func(t *testing.T) {
		_, ok := highValueItemCheck([]models.BillItem{
			{InvoicedAmount: 100},
			{InvoicedAmount: 110},
		})
		assert.False(t, ok)
	})

	t.Run("Empty ledger stays quiet", func(t *testing.T) {
		_, ok := highValueItemCheck(nil)
		assert.False(t, ok)
	})
}

func TestFutureDatedItemCheck(t *testing.T) {
	t.Run("Item after the visit date is high", func(t *testing.T) {
		alert, ok := futureDatedItemCheck([]models.BillItem{
			{ItemDate: "2026-01-12"},
		}, "2026-01-10")
		assert.True(t, ok)
		assert.Equal(t, models.FraudSeverityHigh, alert.Severity)
	})

	t.Run("Unparseable visit date disables the rule", func(t *testing.T) {
		_, ok := futureDatedItemCheck([]models.BillItem{
			{ItemDate: "2026-01-12"},
		}, "not-a-date")
		assert.False(t, ok)
	})

	t.Run("Items without dates are skipped", func(t *testing.T) {
		_, ok := futureDatedItemCheck([]models.BillItem{
			{ItemDate: ""},
		}, "2026-01-10")
		assert.False(t, ok)
	})
}

func TestTrustChecks(t *testing.T) {
	t.Run("Hospital below 60 is high", func(t *testing.T) {
		alert, ok := hospitalTrustCheck(59)
		assert.True(t, ok)
		assert.Equal(t, models.FraudSeverityHigh, alert.Severity)
	})

	t.Run("Hospital below 75 is medium", func(t *testing.T) {
		alert, ok := hospitalTrustCheck(74)
		assert.True(t, ok)
		assert.Equal(t, models.FraudSeverityMedium, alert.Severity)
	})

	t.Run("Hospital at 75 stays quiet", func(t *testing.T) {
		_, ok := hospitalTrustCheck(75)
		assert.False(t, ok)
	})

	t.Run("Patient below 70 is medium", func(t *testing.T) {
		alert, ok := patientTrustCheck(69)
		assert.True(t, ok)
		assert.Equal(t, models.FraudSeverityMedium, alert.Severity)
	})

	t.Run("Patient at 70 stays quiet", func(t *testing.T) {
		_, ok := patientTrustCheck(70)
		assert.False(t, ok)
	})
}

func TestExcessiveMedicationCheck(t *testing.T) {
	medication := func(id string) models.BillItem {
		return models.BillItem{ID: id, Category: models.CategoryMedication}
	}

	t.Run("Name hints count toward the limit", func(t *testing.T) {
		items := []models.BillItem{
			medication("a"), medication("b"), medication("c"), medication("d"),
			{ID: "e", Category: models.CategoryOthers, ItemName: "Paracetamol Tablet 500mg"},
			{ID: "f", Category: models.CategoryOthers, ItemName: "Cough Syrup"},
		}
		alert, ok := excessiveMedicationCheck(items)
		assert.True(t, ok)
		assert.Contains(t, alert.Message, "6 medication items")
	})

	t.Run("Five or fewer stays quiet", func(t *testing.T) {
		items := []models.BillItem{
			medication("a"), medication("b"), medication("c"), medication("d"), medication("e"),
		}
		_, ok := excessiveMedicationCheck(items)
		assert.False(t, ok)
	})
}
