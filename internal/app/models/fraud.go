package models

type FraudSeverity string

const (
	FraudSeverityHigh   FraudSeverity = "high"
	FraudSeverityMedium FraudSeverity = "medium"
	FraudSeverityLow    FraudSeverity = "low"
)

// FraudAlert is produced transiently by the heuristics engine on every ledger
// or metadata change. Alerts are never persisted, always fully recomputed.
type FraudAlert struct {
	Type           string        `json:"type"`
	Severity       FraudSeverity `json:"severity"`
	Title          string        `json:"title"`
	Message        string        `json:"message"`
	Recommendation string        `json:"recommendation"`
}

// SeverityRank orders severities for the stable high > medium > low sort.
func SeverityRank(s FraudSeverity) int {
	switch s {
	case FraudSeverityHigh:
		return 0
	case FraudSeverityMedium:
		return 1
	default:
		return 2
	}
}
