package worker

import (
	"context"
	"testing"
	"time"

	"finhealth/internal/core"
	"finhealth/internal/services"
	"finhealth/internal/store/memory"
)

func TestRunOnceWithoutBroker(t *testing.T) {
	st := memory.New()
	st.SetBalance(core.Money{Cents: 150000})
	st.AddObligation(core.RecurringObligation{
		Name:      "Internet",
		Amount:    core.Money{Cents: 4500},
		Cadence:   core.Monthly,
		StartDate: core.NewDate(2025, 1, 5),
		Active:    true,
	})

	w := NewAnalysisWorker(services.NewAnalyzer(st, nil, services.Options{}), time.Minute)

	if err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	w := NewAnalysisWorker(services.NewAnalyzer(memory.New(), nil, services.Options{}), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not stop after cancel")
	}
}
