package fraud

import (
	"claimdesk-service/internal/app/models"
	"claimdesk-service/internal/pkg/constvars"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Input is the snapshot the heuristics read: the current ledger lines plus
// claim metadata and the externally supplied trust scores.
type Input struct {
	Items              []models.BillItem
	VisitDate          string
	HospitalTrustScore float64
	PatientTrustScore  float64
}

// medicationHints are matched case-insensitively against item names when the
// category is not already Medication.
var medicationHints = []string{"tablet", "syrup", "capsule"}

// Evaluate runs the fixed rule set over the snapshot and returns the alerts
// stable-sorted by severity, high first. The engine is pure: the same input
// always yields the same alerts in the same order, so callers re-run it on
// every ledger or metadata change instead of patching incrementally.
func Evaluate(input Input) []models.FraudAlert {
	alerts := make([]models.FraudAlert, 0)

	if alert, ok := multipleInvoiceCheck(input.Items); ok {
		alerts = append(alerts, alert)
	}
	if alert, ok := highValueItemCheck(input.Items); ok {
		alerts = append(alerts, alert)
	}
	if alert, ok := highValueClaimCheck(input.Items); ok {
		alerts = append(alerts, alert)
	}
	if alert, ok := futureDatedItemCheck(input.Items, input.VisitDate); ok {
		alerts = append(alerts, alert)
	}
	if alert, ok := hospitalTrustCheck(input.HospitalTrustScore); ok {
		alerts = append(alerts, alert)
	}
	if alert, ok := patientTrustCheck(input.PatientTrustScore); ok {
		alerts = append(alerts, alert)
	}
	if alert, ok := excessiveMedicationCheck(input.Items); ok {
		alerts = append(alerts, alert)
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return models.SeverityRank(alerts[i].Severity) < models.SeverityRank(alerts[j].Severity)
	})
	return alerts
}

func multipleInvoiceCheck(items []models.BillItem) (models.FraudAlert, bool) {
	invoices := make(map[string]bool)
	dates := make(map[string]bool)
	for _, item := range items {
		number := item.InvoiceNumber
		if number == "" {
			number = constvars.DefaultInvoiceBucket
		}
		invoices[number] = true
		if item.ItemDate != "" {
			dates[item.ItemDate] = true
		}
	}
	if len(invoices) <= 1 {
		return models.FraudAlert{}, false
	}

	severity := models.FraudSeverityMedium
	if len(dates) > 1 {
		severity = models.FraudSeverityHigh
	}
	return models.FraudAlert{
		Type:           "multiple_invoices",
		Severity:       severity,
		Title:          "Multiple invoices on one claim",
		Message:        fmt.Sprintf("The claim spans %d invoices across %d item dates.", len(invoices), len(dates)),
		Recommendation: "Confirm each invoice belongs to the same visit before approving.",
	}, true
}

func highValueItemCheck(items []models.BillItem) (models.FraudAlert, bool) {
	if len(items) == 0 {
		return models.FraudAlert{}, false
	}
	var total float64
	for _, item := range items {
		total += item.InvoicedAmount
	}
	avg := total / float64(len(items))

	count := 0
	for _, item := range items {
		if item.InvoicedAmount > constvars.HighValueItemMultiplier*avg {
			count++
		}
	}
	if count == 0 {
		return models.FraudAlert{}, false
	}
	return models.FraudAlert{
		Type:           "high_value_items",
		Severity:       models.FraudSeverityMedium,
		Title:          "Unusually expensive line items",
		Message:        fmt.Sprintf("%d item(s) exceed 3x the claim's average line amount.", count),
		Recommendation: "Review the flagged items against the tariff catalog.",
	}, true
}

func highValueClaimCheck(items []models.BillItem) (models.FraudAlert, bool) {
	var total float64
	for _, item := range items {
		total += item.InvoicedAmount
	}
	if total <= constvars.HighValueClaimThreshold {
		return models.FraudAlert{}, false
	}
	return models.FraudAlert{
		Type:           "high_value_claim",
		Severity:       models.FraudSeverityHigh,
		Title:          "High-value claim",
		Message:        fmt.Sprintf("Total invoiced amount %.2f exceeds the %.0f review threshold.", total, constvars.HighValueClaimThreshold),
		Recommendation: "Escalate for senior adjudicator review.",
	}, true
}

func futureDatedItemCheck(items []models.BillItem, visitDate string) (models.FraudAlert, bool) {
	visit, err := time.Parse(constvars.ItemDateLayout, visitDate)
	if err != nil {
		return models.FraudAlert{}, false
	}

	count := 0
	for _, item := range items {
		itemDate, err := time.Parse(constvars.ItemDateLayout, item.ItemDate)
		if err != nil {
			continue
		}
		if itemDate.After(visit) {
			count++
		}
	}
	if count == 0 {
		return models.FraudAlert{}, false
	}
	return models.FraudAlert{
		Type:           "future_dated_items",
		Severity:       models.FraudSeverityHigh,
		Title:          "Items dated after the visit",
		Message:        fmt.Sprintf("%d item(s) carry a date later than the visit date %s.", count, visitDate),
		Recommendation: "Verify the service dates with the provider.",
	}, true
}

func hospitalTrustCheck(score float64) (models.FraudAlert, bool) {
	var severity models.FraudSeverity
	switch {
	case score < constvars.HospitalTrustHighRiskBelow:
		severity = models.FraudSeverityHigh
	case score < constvars.HospitalTrustMediumRiskBelow:
		severity = models.FraudSeverityMedium
	default:
		return models.FraudAlert{}, false
	}
	return models.FraudAlert{
		Type:           "hospital_trust",
		Severity:       severity,
		Title:          "Low hospital trust score",
		Message:        fmt.Sprintf("The hospital's trust score is %.0f.", score),
		Recommendation: "Cross-check billed services against admission records.",
	}, true
}

func patientTrustCheck(score float64) (models.FraudAlert, bool) {
	if score >= constvars.PatientTrustMediumRiskBelow {
		return models.FraudAlert{}, false
	}
	return models.FraudAlert{
		Type:           "patient_trust",
		Severity:       models.FraudSeverityMedium,
		Title:          "Low patient trust score",
		Message:        fmt.Sprintf("The patient's trust score is %.0f.", score),
		Recommendation: "Verify the beneficiary's identity and visit history.",
	}, true
}

func excessiveMedicationCheck(items []models.BillItem) (models.FraudAlert, bool) {
	count := 0
	for _, item := range items {
		if item.Category == models.CategoryMedication {
			count++
			continue
		}
		name := strings.ToLower(item.ItemName)
		for _, hint := range medicationHints {
			if strings.Contains(name, hint) {
				count++
				break
			}
		}
	}
	if count <= constvars.MedicationItemLimit {
		return models.FraudAlert{}, false
	}
	return models.FraudAlert{
		Type:           "excessive_medication",
		Severity:       models.FraudSeverityMedium,
		Title:          "Excessive medication lines",
		Message:        fmt.Sprintf("The claim carries %d medication items.", count),
		Recommendation: "Check the prescription against the dispensed quantities.",
	}, true
}
