// Package health synthesizes a single 0-100 financial-health score from
// balance, spending trend, and obligation payment consistency.
package health

import (
	"finhealth/internal/core"
)

// Factor names reported in HealthScoreResult breakdowns.
const (
	FactorBalanceCoverage    = "balance_coverage"
	FactorSpendingTrend      = "spending_trend"
	FactorPaymentConsistency = "payment_consistency"
)

// Config holds the deduction table. The thresholds are product tuning
// constants, not hard physics; DefaultConfig carries the current values.
type Config struct {
	// Balance coverage: balance vs upcoming obligation total.
	CoverageSevereRatio     float64
	CoverageLowRatio        float64
	CoverageTightRatio      float64
	CoverageSevereDeduction int
	CoverageLowDeduction    int
	CoverageTightDeduction  int

	// Spending trend: expenses vs income over the supplied window.
	TrendDeficitMultiplier  float64
	TrendDeficitDeduction   int
	TrendOverspendDeduction int

	// Payment consistency: paid vs due obligations.
	ConsistencyPoorRatio     float64
	ConsistencyFairRatio     float64
	ConsistencyPoorDeduction int
	ConsistencyFairDeduction int
}

func DefaultConfig() Config {
	return Config{
		CoverageSevereRatio:     0.1,
		CoverageLowRatio:        0.5,
		CoverageTightRatio:      1.0,
		CoverageSevereDeduction: 40,
		CoverageLowDeduction:    20,
		CoverageTightDeduction:  10,

		TrendDeficitMultiplier:  1.2,
		TrendDeficitDeduction:   20,
		TrendOverspendDeduction: 10,

		ConsistencyPoorRatio:     0.7,
		ConsistencyFairRatio:     0.9,
		ConsistencyPoorDeduction: 15,
		ConsistencyFairDeduction: 5,
	}
}

// Input is everything the scorer looks at. Transactions are a
// caller-supplied window, canonically the trailing 30 days; BillsDue and
// BillsPaid count obligations in the trailing-and-upcoming window.
type Input struct {
	Balance       core.Money
	Transactions  []core.Transaction
	UpcomingTotal core.Money
	BillsDue      int
	BillsPaid     int
}

// Scorer computes health scores. It holds only configuration, no state;
// every Score call is an independent, fresh calculation.
type Scorer struct {
	cfg Config
}

func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score is a pure function of its input. The three deduction factors are
// independent and additive; there is no early exit. A user with no
// transactions and no obligations scores 100: absence of negative signal is
// not itself penalized.
func (s *Scorer) Score(in Input) core.HealthScoreResult {
	result := core.HealthScoreResult{Score: 100}

	factors := []core.ScoreFactor{
		s.balanceCoverage(in),
		s.spendingTrend(in),
		s.paymentConsistency(in),
	}

	deductions := 0
	for _, f := range factors {
		deductions += f.Deduction
	}
	result.Score = clamp(100-deductions, 0, 100)
	result.Factors = factors
	return result
}

// balanceCoverage compares the balance against the upcoming obligation
// total. The denominator floors at one unit so a bill-free month reads as
// full coverage instead of dividing by zero.
func (s *Scorer) balanceCoverage(in Input) core.ScoreFactor {
	upcoming := in.UpcomingTotal.Units()
	if upcoming < 1 {
		upcoming = 1
	}
	ratio := in.Balance.Units() / upcoming

	f := core.ScoreFactor{Name: FactorBalanceCoverage, Ratio: ratio}
	switch {
	case ratio < s.cfg.CoverageSevereRatio:
		f.Deduction = s.cfg.CoverageSevereDeduction
	case ratio < s.cfg.CoverageLowRatio:
		f.Deduction = s.cfg.CoverageLowDeduction
	case ratio < s.cfg.CoverageTightRatio:
		f.Deduction = s.cfg.CoverageTightDeduction
	}
	return f
}

func (s *Scorer) spendingTrend(in Input) core.ScoreFactor {
	var income, expense int64
	for _, t := range in.Transactions {
		switch t.Type {
		case core.Income:
			income += t.Amount.Cents
		case core.Expense:
			expense += t.Amount.Cents
		}
	}

	ratio := 0.0
	if income > 0 {
		ratio = float64(expense) / float64(income)
	}

	f := core.ScoreFactor{Name: FactorSpendingTrend, Ratio: ratio}
	switch {
	case float64(expense) > float64(income)*s.cfg.TrendDeficitMultiplier && expense > 0:
		f.Deduction = s.cfg.TrendDeficitDeduction
	case expense > income:
		f.Deduction = s.cfg.TrendOverspendDeduction
	}
	return f
}

func (s *Scorer) paymentConsistency(in Input) core.ScoreFactor {
	// No bills means no missed bills.
	paidRatio := 1.0
	if in.BillsDue > 0 {
		paidRatio = float64(in.BillsPaid) / float64(in.BillsDue)
	}

	f := core.ScoreFactor{Name: FactorPaymentConsistency, Ratio: paidRatio}
	switch {
	case paidRatio < s.cfg.ConsistencyPoorRatio:
		f.Deduction = s.cfg.ConsistencyPoorDeduction
	case paidRatio < s.cfg.ConsistencyFairRatio:
		f.Deduction = s.cfg.ConsistencyFairDeduction
	}
	return f
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
