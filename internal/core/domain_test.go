package core

import (
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
}

func TestCadenceValid(t *testing.T) {
	for _, c := range []Cadence{Weekly, Biweekly, Monthly, Quarterly, Yearly} {
		if !c.Valid() {
			t.Fatalf("cadence %q should be valid", c)
		}
	}
	for _, c := range []Cadence{"", "daily", "fortnightly", "MONTHLY"} {
		if c.Valid() {
			t.Fatalf("cadence %q should be invalid", c)
		}
	}
}

func TestRecurringObligationValidate(t *testing.T) {
	good := RecurringObligation{
		Name:      "Rent",
		Category:  "Housing",
		Amount:    Money{Cents: 185000},
		Cadence:   Monthly,
		StartDate: NewDate(2025, 1, 31),
		Active:    true,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	withEnd := good
	withEnd.EndDate = NewDate(2025, 12, 31)
	if err := withEnd.Validate(); err != nil {
		t.Fatalf("expected ok with end date, got %v", err)
	}

	bads := []struct {
		name string
		ob   RecurringObligation
	}{
		{"zero start date", RecurringObligation{Name: "a", Amount: Money{Cents: 1}, Cadence: Monthly}},
		{"unknown cadence", RecurringObligation{Name: "a", Amount: Money{Cents: 1}, Cadence: "sometimes", StartDate: NewDate(2025, 1, 1)}},
		{"empty name", RecurringObligation{Name: "", Amount: Money{Cents: 1}, Cadence: Monthly, StartDate: NewDate(2025, 1, 1)}},
		{"zero amount", RecurringObligation{Name: "a", Amount: Money{Cents: 0}, Cadence: Monthly, StartDate: NewDate(2025, 1, 1)}},
		{"end before start", RecurringObligation{Name: "a", Amount: Money{Cents: 1}, Cadence: Monthly, StartDate: NewDate(2025, 6, 1), EndDate: NewDate(2025, 1, 1)}},
	}
	for _, tc := range bads {
		if err := tc.ob.Validate(); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestGoalProgress(t *testing.T) {
	g := Goal{Target: Money{Cents: 100000}, Current: Money{Cents: 50000}}
	if p := g.Progress(); p != 0.5 {
		t.Fatalf("expected 0.5, got %v", p)
	}
	zero := Goal{Target: Money{Cents: 0}, Current: Money{Cents: 50000}}
	if p := zero.Progress(); p != 0 {
		t.Fatalf("zero target should report 0 progress, got %v", p)
	}
}
