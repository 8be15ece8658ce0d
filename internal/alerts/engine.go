// Package alerts derives a prioritized list of risk and positive-signal
// alerts from a financial snapshot.
//
// Each alert kind is an independent predicate over the current inputs. There
// is no persistent state between calls: every invocation starts from zero
// alerts and recomputes from scratch, so downstream layers can deduplicate
// or dismiss by the stable alert id across refresh cycles.
package alerts

import (
	"sort"
	"time"

	"finhealth/internal/core"
)

// DefaultWindowDays is the canonical trailing window the engine assumes when
// the caller does not say otherwise.
const DefaultWindowDays = 30

// weeksPerMonth converts a monthly expense total into a weekly average.
const weeksPerMonth = 4.33

// Input is one financial snapshot. Expenses and Income are the trailing
// transaction window; Upcoming holds the projected occurrences the caller
// got from the expander.
type Input struct {
	Balance    core.Money
	Expenses   []core.Transaction
	Income     []core.Transaction
	Upcoming   []core.ProjectedOccurrence
	Goals      []core.Goal
	Now        time.Time
	WindowDays int // zero means DefaultWindowDays
}

// Rule is one alert predicate. Evaluate returns the message and true when
// the rule fires; rules must not depend on evaluation order.
type Rule struct {
	ID       string
	Severity core.Severity
	Title    string
	Evaluate func(s snapshot) (string, bool)
}

// Engine evaluates a composable rule set against snapshots.
type Engine struct {
	rules []Rule
}

func NewEngine() *Engine {
	return &Engine{rules: defaultRules()}
}

// Register appends a custom rule to the set.
func (e *Engine) Register(r Rule) {
	e.rules = append(e.rules, r)
}

// Analyze evaluates every rule against the snapshot and returns the fired
// alerts sorted by severity, most urgent first. Rules with missing signal
// (no income, no spending data) stay silent rather than erroring.
func (e *Engine) Analyze(in Input) []core.Alert {
	s := buildSnapshot(in)

	var out []core.Alert
	for _, r := range e.rules {
		msg, fired := r.Evaluate(s)
		if !fired {
			continue
		}
		out = append(out, core.Alert{
			ID:          r.ID,
			Severity:    r.Severity,
			Title:       r.Title,
			Message:     msg,
			GeneratedAt: s.now,
			Priority:    r.Severity.Rank(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// snapshot carries the aggregates the rules share, precomputed once per
// Analyze call. Monetary figures are float64 units; rules only compare and
// format them.
type snapshot struct {
	now           time.Time
	windowDays    int
	balance       float64
	totalExpense  float64
	totalIncome   float64
	avgDailySpend float64
	weeklyAvg     float64
	last7Spend    float64
	upcomingTotal float64
	upcomingCount int

	topCategory      string
	topCategorySpend float64

	incomeSources int

	emergencyTarget    float64 // 3 x average monthly expense
	emergencyProgress  float64 // fraction of target, 0 when unknowable
	hasEmergencySignal bool
}

func buildSnapshot(in Input) snapshot {
	s := snapshot{
		now:        in.Now,
		windowDays: in.WindowDays,
		balance:    in.Balance.Units(),
	}
	if s.now.IsZero() {
		s.now = time.Now()
	}
	if s.windowDays <= 0 {
		s.windowDays = DefaultWindowDays
	}

	weekAgo := s.now.AddDate(0, 0, -7)
	byCategory := make(map[string]float64)
	for _, t := range in.Expenses {
		amt := t.Amount.Units()
		s.totalExpense += amt
		byCategory[t.Category] += amt
		if !t.Date.Before(weekAgo) {
			s.last7Spend += amt
		}
	}
	for name, spend := range byCategory {
		if spend > s.topCategorySpend {
			s.topCategory = name
			s.topCategorySpend = spend
		}
	}

	sources := make(map[string]struct{})
	for _, t := range in.Income {
		s.totalIncome += t.Amount.Units()
		sources[t.Source] = struct{}{}
	}
	s.incomeSources = len(sources)

	s.upcomingTotal = core.TotalAmount(in.Upcoming).Units()
	s.upcomingCount = len(in.Upcoming)

	s.avgDailySpend = s.totalExpense / float64(s.windowDays)
	s.weeklyAvg = s.totalExpense / weeksPerMonth

	s.emergencyTarget = 3 * s.totalExpense
	for _, g := range in.Goals {
		if g.Kind == "emergency_fund" && g.Target.Cents > 0 {
			s.emergencyProgress = g.Progress()
			s.hasEmergencySignal = true
			break
		}
	}
	if !s.hasEmergencySignal && s.emergencyTarget > 0 {
		s.emergencyProgress = s.balance / s.emergencyTarget
		s.hasEmergencySignal = true
	}

	return s
}
