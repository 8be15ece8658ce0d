package alerts

import (
	"strings"
	"testing"
	"time"

	"finhealth/internal/core"
)

var testNow = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

func expense(category string, cents int64, daysAgo int) core.Transaction {
	d := testNow.AddDate(0, 0, -daysAgo)
	return core.Transaction{
		Type:     core.Expense,
		Amount:   core.Money{Cents: cents},
		Date:     core.Date{Time: d},
		Category: category,
	}
}

func income(source string, cents int64, daysAgo int) core.Transaction {
	d := testNow.AddDate(0, 0, -daysAgo)
	return core.Transaction{
		Type:   core.Income,
		Amount: core.Money{Cents: cents},
		Date:   core.Date{Time: d},
		Source: source,
	}
}

// oneOfEachInput triggers exactly one alert per severity class:
// spending_deficit (critical), category_concentration (high),
// single_income_source (medium), spending_slowdown (low).
func oneOfEachInput() Input {
	return Input{
		Balance: core.Money{Cents: 500000},
		Expenses: []core.Transaction{
			expense("rent", 130000, 20),
			expense("food", 80000, 15),
			expense("leisure", 80000, 10),
			expense("misc", 30000, 3),
		},
		Income: []core.Transaction{
			income("employer", 300000, 14),
		},
		Goals: []core.Goal{
			{Name: "Emergency fund", Kind: "emergency_fund", Target: core.Money{Cents: 10000000}, Current: core.Money{Cents: 1000000}},
		},
		Now: testNow,
	}
}

func TestAnalyzePriorityOrdering(t *testing.T) {
	got := NewEngine().Analyze(oneOfEachInput())

	wantIDs := []string{KindSpendingDeficit, KindCategoryHeavy, KindSingleIncome, KindSpendingSlowdown}
	if len(got) != len(wantIDs) {
		ids := make([]string, len(got))
		for i, a := range got {
			ids[i] = a.ID
		}
		t.Fatalf("got %d alerts %v, want %v", len(got), ids, wantIDs)
	}
	wantSeverities := []core.Severity{core.SeverityCritical, core.SeverityHigh, core.SeverityMedium, core.SeverityLow}
	for i, a := range got {
		if a.ID != wantIDs[i] {
			t.Errorf("alert %d id = %s, want %s", i, a.ID, wantIDs[i])
		}
		if a.Severity != wantSeverities[i] {
			t.Errorf("alert %d severity = %s, want %s", i, a.Severity, wantSeverities[i])
		}
		if a.Priority != i {
			t.Errorf("alert %d priority = %d, want %d", i, a.Priority, i)
		}
	}
}

func TestAnalyzeMessagesCarryLiveNumbers(t *testing.T) {
	got := NewEngine().Analyze(oneOfEachInput())

	byID := make(map[string]core.Alert)
	for _, a := range got {
		byID[a.ID] = a
	}

	deficit, ok := byID[KindSpendingDeficit]
	if !ok {
		t.Fatal("expected spending_deficit alert")
	}
	for _, fragment := range []string{"3200.00", "3000.00", "200.00"} {
		if !strings.Contains(deficit.Message, fragment) {
			t.Errorf("deficit message %q missing %q", deficit.Message, fragment)
		}
	}

	category, ok := byID[KindCategoryHeavy]
	if !ok {
		t.Fatal("expected category_concentration alert")
	}
	if !strings.Contains(category.Message, "rent") {
		t.Errorf("category message %q does not name the category", category.Message)
	}
}

func TestAnalyzeStableIDsAcrossRefreshes(t *testing.T) {
	e := NewEngine()
	in := oneOfEachInput()
	first := e.Analyze(in)
	second := e.Analyze(in)
	if len(first) != len(second) {
		t.Fatalf("alert counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("alert %d id changed between passes: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}
}

func TestAnalyzeCriticalScenario(t *testing.T) {
	// Balance 11.29 against 3700 of upcoming rent, running a deficit.
	in := Input{
		Balance: core.Money{Cents: 1129},
		Expenses: []core.Transaction{
			expense("rent", 370000, 25),
			expense("food", 250000, 12),
			expense("other", 322100, 4),
		},
		Income: []core.Transaction{
			income("employer", 643192, 10),
		},
		Upcoming: []core.ProjectedOccurrence{
			{ObligationID: 1, DueDate: core.NewDate(2025, 7, 1), Amount: core.Money{Cents: 185000}},
			{ObligationID: 1, DueDate: core.NewDate(2025, 8, 1), Amount: core.Money{Cents: 185000}},
		},
		Now: testNow,
	}

	got := NewEngine().Analyze(in)
	if len(got) == 0 {
		t.Fatal("expected alerts")
	}
	if got[0].Severity != core.SeverityCritical {
		t.Fatalf("first alert severity = %s, want critical", got[0].Severity)
	}

	var crunch *core.Alert
	for i := range got {
		if got[i].ID == KindObligationCrunch {
			crunch = &got[i]
		}
	}
	if crunch == nil {
		t.Fatal("expected obligation_crunch alert for balance/obligation mismatch")
	}
	if !strings.Contains(crunch.Message, "3700.00") || !strings.Contains(crunch.Message, "11.29") {
		t.Errorf("crunch message %q missing live numbers", crunch.Message)
	}

	// Priorities never decrease down the list.
	for i := 1; i < len(got); i++ {
		if got[i].Priority < got[i-1].Priority {
			t.Errorf("alert %d priority %d sorts above %d", i, got[i].Priority, got[i-1].Priority)
		}
	}
}

func TestAnalyzeNoSignalStaysSilent(t *testing.T) {
	// A profile with no transactions, no bills, and no goals produces no
	// alerts: zero denominators are "no signal", not failures.
	got := NewEngine().Analyze(Input{Balance: core.Money{Cents: 100000}, Now: testNow})
	if len(got) != 0 {
		ids := make([]string, len(got))
		for i, a := range got {
			ids[i] = a.ID
		}
		t.Fatalf("expected no alerts, got %v", ids)
	}
}

func TestAnalyzePositiveSignals(t *testing.T) {
	in := Input{
		Balance: core.Money{Cents: 2000000},
		Expenses: []core.Transaction{
			expense("food", 100000, 20),
			expense("transport", 50000, 15),
		},
		Income: []core.Transaction{
			income("employer", 400000, 14),
			income("consulting", 100000, 7),
		},
		Goals: []core.Goal{
			{Name: "Emergency fund", Kind: "emergency_fund", Target: core.Money{Cents: 450000}, Current: core.Money{Cents: 500000}},
		},
		Now: testNow,
	}

	got := NewEngine().Analyze(in)
	byID := make(map[string]core.Alert)
	for _, a := range got {
		byID[a.ID] = a
	}

	for _, want := range []string{KindHealthySavings, KindSpendingSlowdown, KindEmergencyOnTrack, KindSurplus} {
		if _, ok := byID[want]; !ok {
			t.Errorf("expected positive alert %s", want)
		}
	}
	for _, a := range got {
		if a.Severity != core.SeverityLow {
			t.Errorf("unexpected %s alert %s in a healthy profile", a.Severity, a.ID)
		}
	}
}
