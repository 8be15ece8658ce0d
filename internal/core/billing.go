package core

// BillHistoryEntry records one real-world billing event for a recurring
// obligation. Variance fields are derived from Actual/Estimated and must be
// recomputed on any amendment, never stored independently of those two.
type BillHistoryEntry struct {
	ID              int64
	ObligationID    int64
	Actual          Money
	Estimated       Money
	BillDate        Date
	Paid            bool
	PaidDate        Date // zero when unpaid
	Notes           string
	PaymentMethod   string
	Variance        int64   // Actual − Estimated, in cents
	VariancePercent float64 // Variance / Estimated × 100, 0 when Estimated is zero
}

// RecomputeVariance refreshes the derived variance fields from the entry's
// own actual and estimated amounts. A zero estimate yields zero percent.
func (e *BillHistoryEntry) RecomputeVariance() {
	e.Variance = e.Actual.Cents - e.Estimated.Cents
	if e.Estimated.Cents == 0 {
		e.VariancePercent = 0
		return
	}
	e.VariancePercent = float64(e.Variance) / float64(e.Estimated.Cents) * 100
}

// ObligationStatistics aggregates the payment history of one obligation.
// Callers receive a nil pointer when the obligation has no history: zero is
// a valid amount and must not be confused with "no data".
type ObligationStatistics struct {
	ObligationID   int64
	Average        Money
	Min            Money
	Max            Money
	LastBillAmount Money // actual amount of the most recent entry by bill date
	Count          int
}

// StatisticsFromHistory derives statistics from a bill history. The slice
// may be in any order; the most recent entry by bill date wins for
// LastBillAmount. Returns nil for an empty history.
func StatisticsFromHistory(obligationID int64, history []BillHistoryEntry) *ObligationStatistics {
	if len(history) == 0 {
		return nil
	}

	stats := &ObligationStatistics{
		ObligationID: obligationID,
		Min:          history[0].Actual,
		Max:          history[0].Actual,
		Count:        len(history),
	}

	var sum int64
	latest := history[0]
	for _, e := range history {
		sum += e.Actual.Cents
		if e.Actual.Cents < stats.Min.Cents {
			stats.Min = e.Actual
		}
		if e.Actual.Cents > stats.Max.Cents {
			stats.Max = e.Actual
		}
		if e.BillDate.After(latest.BillDate.Time) {
			latest = e
		}
	}

	// Half-up rounding keeps the average stable across recomputations.
	n := int64(len(history))
	stats.Average = Money{Cents: (sum + n/2) / n}
	stats.LastBillAmount = latest.Actual
	return stats
}
