package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"finhealth/internal/alerts"
	"finhealth/internal/core"
	"finhealth/internal/store/memory"
	"finhealth/internal/variance"
)

func seededStore() *memory.Store {
	st := memory.New()
	st.SetBalance(core.Money{Cents: 400000})
	st.AddObligation(core.RecurringObligation{
		Name:      "Rent",
		Category:  "housing",
		Amount:    core.Money{Cents: 120000},
		Cadence:   core.Monthly,
		StartDate: core.NewDate(2025, 1, 1),
		Active:    true,
	})
	st.AddTransaction(core.Transaction{
		Type: core.Income, Amount: core.Money{Cents: 400000},
		Date: core.NewDate(2025, 5, 20), Source: "salary",
	})
	st.AddTransaction(core.Transaction{
		Type: core.Expense, Amount: core.Money{Cents: 100000},
		Date: core.NewDate(2025, 5, 10), Category: "food",
	})
	return st
}

func TestRunAnalysis(t *testing.T) {
	analyzer := NewAnalyzer(seededStore(), nil, Options{})
	now := core.NewDate(2025, 6, 1).Time

	result, err := analyzer.RunAnalysis(context.Background(), now)
	if err != nil {
		t.Fatalf("RunAnalysis() error = %v", err)
	}

	// Monthly rent anchored on the 1st lands on Jun 1 and Jul 1 inside a
	// 30-day horizon.
	if len(result.Upcoming) != 2 {
		t.Fatalf("len(Upcoming) = %d, want 2", len(result.Upcoming))
	}
	if got := result.Upcoming[0].DueDate.Format("2006-01-02"); got != "2025-06-01" {
		t.Errorf("first occurrence = %s, want 2025-06-01", got)
	}
	if total := core.TotalAmount(result.Upcoming); total.Cents != 240000 {
		t.Errorf("upcoming total = %d, want 240000", total.Cents)
	}

	// Balance comfortably covers upcoming bills, spending is well under
	// income and there are no unpaid bills in the window.
	if result.Score.Score != 100 {
		t.Errorf("Score = %d, want 100", result.Score.Score)
	}

	ids := make(map[string]bool)
	for i, a := range result.Alerts {
		ids[a.ID] = true
		if a.Severity == core.SeverityCritical {
			t.Errorf("unexpected critical alert %s", a.ID)
		}
		if i > 0 && result.Alerts[i].Priority < result.Alerts[i-1].Priority {
			t.Errorf("alerts out of priority order at %d", i)
		}
	}
	if !ids[alerts.KindHealthySavings] {
		t.Error("expected healthy savings alert with 75% savings rate")
	}
	if !ids[alerts.KindSingleIncome] {
		t.Error("expected single income source alert")
	}
}

func TestProjectOccurrencesMergesAndSorts(t *testing.T) {
	st := seededStore()
	st.AddObligation(core.RecurringObligation{
		Name:      "Gym",
		Amount:    core.Money{Cents: 3000},
		Cadence:   core.Weekly,
		StartDate: core.NewDate(2025, 5, 5),
		Active:    true,
	})

	analyzer := NewAnalyzer(st, nil, Options{})
	from := core.NewDate(2025, 6, 1).Time
	to := core.NewDate(2025, 6, 15).Time

	got, err := analyzer.ProjectOccurrences(context.Background(), from, to)
	if err != nil {
		t.Fatalf("ProjectOccurrences() error = %v", err)
	}
	if len(got) < 3 {
		t.Fatalf("len = %d, want at least 3 (one rent, two gym weeks)", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].DueDate.Before(got[i-1].DueDate.Time) {
			t.Errorf("occurrences out of date order at %d", i)
		}
	}
}

func TestRecordBillInstanceFlowsToStatistics(t *testing.T) {
	st := seededStore()
	analyzer := NewAnalyzer(st, nil, Options{})
	ctx := context.Background()

	_, err := analyzer.RecordBillInstance(ctx, 1,
		core.Money{Cents: 121000}, core.Money{Cents: 120000},
		core.NewDate(2025, 5, 1), variance.RecordOptions{Paid: true, PaidDate: core.NewDate(2025, 5, 1)})
	if err != nil {
		t.Fatalf("RecordBillInstance() error = %v", err)
	}
	_, err = analyzer.RecordBillInstance(ctx, 1,
		core.Money{Cents: 119000}, core.Money{Cents: 120000},
		core.NewDate(2025, 6, 1), variance.RecordOptions{})
	if err != nil {
		t.Fatalf("RecordBillInstance() error = %v", err)
	}

	stats, err := analyzer.Statistics(ctx, 1)
	if err != nil {
		t.Fatalf("Statistics() error = %v", err)
	}
	if stats == nil {
		t.Fatal("Statistics() = nil, want aggregates for two entries")
	}
	if stats.Count != 2 || stats.Average.Cents != 120000 {
		t.Errorf("stats = %+v, want count 2 average 120000", stats)
	}
	if stats.LastBillAmount.Cents != 119000 {
		t.Errorf("LastBillAmount = %d, want 119000", stats.LastBillAmount.Cents)
	}
}

func TestStatisticsUnknownObligation(t *testing.T) {
	analyzer := NewAnalyzer(memory.New(), nil, Options{})

	_, err := analyzer.Statistics(context.Background(), 42)
	if !errors.Is(err, core.ErrObligationNotFound) {
		t.Errorf("Statistics(unknown) error = %v, want ErrObligationNotFound", err)
	}
}

func TestPublishAnalysisWithoutClient(t *testing.T) {
	analyzer := NewAnalyzer(seededStore(), nil, Options{})

	result := &AnalysisResult{GeneratedAt: time.Now()}
	if err := analyzer.PublishAnalysis(context.Background(), result); err != nil {
		t.Errorf("PublishAnalysis() without AMQP client error = %v, want nil", err)
	}
}
