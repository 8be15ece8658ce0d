package core

import "time"

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

type (
	// Severity classifies how urgent an alert is.
	Severity string

	// ProjectedOccurrence is one concrete, dated instance of an obligation
	// becoming due within a query window. Ephemeral, never persisted.
	ProjectedOccurrence struct {
		ObligationID int64
		DueDate      Date
		Amount       Money
	}

	// ScoreFactor is one deduction applied to the health score, together
	// with the ratio that produced it.
	ScoreFactor struct {
		Name      string
		Deduction int
		Ratio     float64
	}

	// HealthScoreResult is a 0-100 summary of short-term financial risk.
	// Recomputed fresh on every invocation; never authoritative state.
	HealthScoreResult struct {
		Score   int
		Factors []ScoreFactor
	}

	// Alert is a generated, severity-ranked message describing one risk or
	// positive signal in the current financial snapshot. The ID is stable
	// per alert kind so downstream layers can deduplicate or dismiss by id
	// across refresh cycles.
	Alert struct {
		ID          string
		Severity    Severity
		Title       string
		Message     string
		GeneratedAt time.Time
		Priority    int // ascending rank, 0 is most urgent
	}
)

// Rank orders severities by urgency, most urgent first. Unknown severities
// sort last.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	}
	return 4
}

// TotalAmount sums the amounts of a set of projected occurrences.
func TotalAmount(occurrences []ProjectedOccurrence) Money {
	var total Money
	for _, o := range occurrences {
		total = total.Add(o.Amount)
	}
	return total
}
