package memory

import (
	"context"
	"testing"

	"finhealth/internal/core"
)

func TestListBillHistory(t *testing.T) {
	s := New()
	ctx := context.Background()

	id := s.AddObligation(core.RecurringObligation{
		Name:      "Internet",
		Amount:    core.Money{Cents: 3500},
		Cadence:   core.Monthly,
		StartDate: core.NewDate(2025, 1, 5),
		Active:    true,
	})

	for _, d := range []core.Date{core.NewDate(2025, 1, 5), core.NewDate(2025, 3, 5), core.NewDate(2025, 2, 5)} {
		e := core.BillHistoryEntry{
			ObligationID: id,
			Actual:       core.Money{Cents: 3500},
			Estimated:    core.Money{Cents: 3500},
			BillDate:     d,
		}
		if _, err := s.AppendBillEntry(ctx, e); err != nil {
			t.Fatalf("AppendBillEntry() error = %v", err)
		}
	}

	history, err := s.ListBillHistory(ctx, id)
	if err != nil {
		t.Fatalf("ListBillHistory() error = %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("ListBillHistory() len = %d, want 3", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].BillDate.After(history[i-1].BillDate.Time) {
			t.Errorf("history not ordered by bill date descending: %v before %v",
				history[i-1].BillDate, history[i].BillDate)
		}
	}

	t.Run("unknown obligation yields empty history", func(t *testing.T) {
		empty, err := s.ListBillHistory(ctx, 9999)
		if err != nil {
			t.Fatalf("ListBillHistory(unknown) error = %v, want nil", err)
		}
		if len(empty) != 0 {
			t.Errorf("ListBillHistory(unknown) = %+v, want empty", empty)
		}
	})
}
