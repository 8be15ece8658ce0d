// Package worker runs periodic analysis cycles and ships the resulting
// alert batches to the message broker.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	applog "finhealth/internal/log"
	"finhealth/internal/services"
)

// AnalysisWorker drives the analyzer on a fixed interval. Each cycle is
// independent; a failed cycle is logged and the next tick starts fresh.
type AnalysisWorker struct {
	analyzer *services.Analyzer
	interval time.Duration
}

func NewAnalysisWorker(analyzer *services.Analyzer, interval time.Duration) *AnalysisWorker {
	return &AnalysisWorker{
		analyzer: analyzer,
		interval: interval,
	}
}

// RunOnce executes a single analysis cycle and publishes the result.
func (w *AnalysisWorker) RunOnce(ctx context.Context) error {
	start := time.Now()

	result, err := w.analyzer.RunAnalysis(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("run analysis: %w", err)
	}

	if err := w.analyzer.PublishAnalysis(ctx, result); err != nil {
		return fmt.Errorf("publish analysis: %w", err)
	}

	fields := applog.NewFields().
		WithComponent(applog.ComponentWorker).
		WithOperation(applog.OpAnalyze).
		ToSlice()
	fields = append(fields,
		applog.FieldScore, result.Score.Score,
		applog.FieldAlertCount, len(result.Alerts),
		applog.FieldDuration, time.Since(start).Milliseconds())
	slog.InfoContext(ctx, "Analysis cycle finished", fields...)
	return nil
}

// Run performs an immediate cycle, then repeats on the configured interval
// until the context is cancelled.
func (w *AnalysisWorker) Run(ctx context.Context) error {
	if err := w.RunOnce(ctx); err != nil {
		slog.ErrorContext(ctx, "Initial analysis cycle failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.RunOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "Analysis cycle failed", "error", err)
			}
		}
	}
}
