package core

import "testing"

func TestRecomputeVariance(t *testing.T) {
	tests := []struct {
		name        string
		actual      int64
		estimated   int64
		wantVar     int64
		wantPercent float64
	}{
		{"over estimate", 11000, 10000, 1000, 10},
		{"under estimate", 9000, 10000, -1000, -10},
		{"exact", 10000, 10000, 0, 0},
		{"zero estimate guards division", 5000, 0, 5000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := BillHistoryEntry{
				Actual:    Money{Cents: tt.actual},
				Estimated: Money{Cents: tt.estimated},
			}
			e.RecomputeVariance()
			if e.Variance != tt.wantVar {
				t.Errorf("Variance = %d, want %d", e.Variance, tt.wantVar)
			}
			if e.VariancePercent != tt.wantPercent {
				t.Errorf("VariancePercent = %v, want %v", e.VariancePercent, tt.wantPercent)
			}
		})
	}
}

func TestStatisticsFromHistory(t *testing.T) {
	history := []BillHistoryEntry{
		{Actual: Money{Cents: 9000}, BillDate: NewDate(2025, 1, 15)},
		{Actual: Money{Cents: 11000}, BillDate: NewDate(2025, 3, 15)},
		{Actual: Money{Cents: 10000}, BillDate: NewDate(2025, 2, 15)},
	}
	stats := StatisticsFromHistory(7, history)
	if stats == nil {
		t.Fatal("expected statistics, got nil")
	}
	if stats.ObligationID != 7 {
		t.Errorf("ObligationID = %d, want 7", stats.ObligationID)
	}
	if stats.Average.Cents != 10000 {
		t.Errorf("Average = %d, want 10000", stats.Average.Cents)
	}
	if stats.Min.Cents != 9000 || stats.Max.Cents != 11000 {
		t.Errorf("Min/Max = %d/%d, want 9000/11000", stats.Min.Cents, stats.Max.Cents)
	}
	if stats.LastBillAmount.Cents != 11000 {
		t.Errorf("LastBillAmount = %d, want 11000 (most recent by bill date)", stats.LastBillAmount.Cents)
	}
	if stats.Count != 3 {
		t.Errorf("Count = %d, want 3", stats.Count)
	}
}

func TestStatisticsFromEmptyHistory(t *testing.T) {
	// Zero is a valid amount; no data must stay nil, never a zero struct.
	if stats := StatisticsFromHistory(1, nil); stats != nil {
		t.Fatalf("expected nil statistics for empty history, got %+v", stats)
	}
}
