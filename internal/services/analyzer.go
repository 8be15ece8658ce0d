// Package services orchestrates projection, variance tracking, health
// scoring and alert generation over a storage backend.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"finhealth/internal/alerts"
	"finhealth/internal/amqp"
	"finhealth/internal/core"
	"finhealth/internal/health"
	"finhealth/internal/projection"
	"finhealth/internal/store"
	"finhealth/internal/variance"
)

// Options tune the analysis windows. Zero values fall back to the defaults.
type Options struct {
	// TransactionWindowDays is the trailing window of transactions fed into
	// the scorer and the alert engine.
	TransactionWindowDays int
	// ProjectionHorizonDays is how far ahead obligations are projected.
	ProjectionHorizonDays int
	// ScoreConfig overrides the scorer thresholds; zero value means defaults.
	ScoreConfig *health.Config
}

const (
	defaultWindowDays  = 30
	defaultHorizonDays = 30
)

// AnalysisResult is one complete snapshot analysis: projected obligations,
// the health score and the prioritized alert list, all computed from the
// same point in time.
type AnalysisResult struct {
	GeneratedAt time.Time
	Upcoming    []core.ProjectedOccurrence
	Score       core.HealthScoreResult
	Alerts      []core.Alert
}

// Analyzer orchestrates analysis runs across the storage backend and the
// optional AMQP publisher.
type Analyzer struct {
	store      store.Store
	tracker    *variance.Tracker
	scorer     *health.Scorer
	engine     *alerts.Engine
	amqpClient *amqp.Client

	windowDays  int
	horizonDays int
}

func NewAnalyzer(st store.Store, amqpClient *amqp.Client, opts Options) *Analyzer {
	windowDays := opts.TransactionWindowDays
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}
	horizonDays := opts.ProjectionHorizonDays
	if horizonDays <= 0 {
		horizonDays = defaultHorizonDays
	}

	cfg := health.DefaultConfig()
	if opts.ScoreConfig != nil {
		cfg = *opts.ScoreConfig
	}

	return &Analyzer{
		store:       st,
		tracker:     variance.NewTracker(st),
		scorer:      health.NewScorer(cfg),
		engine:      alerts.NewEngine(),
		amqpClient:  amqpClient,
		windowDays:  windowDays,
		horizonDays: horizonDays,
	}
}

// ProjectOccurrences expands every active obligation across [from, to] and
// returns the merged list ordered by due date, then obligation id.
func (a *Analyzer) ProjectOccurrences(ctx context.Context, from, to time.Time) ([]core.ProjectedOccurrence, error) {
	obligations, err := a.store.ListActiveObligations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active obligations: %w", err)
	}

	var all []core.ProjectedOccurrence
	for _, ob := range obligations {
		occurrences, err := projection.Expand(ob, from, to)
		if err != nil {
			return nil, fmt.Errorf("expand obligation %d: %w", ob.ID, err)
		}
		all = append(all, occurrences...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].DueDate.Equal(all[j].DueDate.Time) {
			return all[i].DueDate.Before(all[j].DueDate.Time)
		}
		return all[i].ObligationID < all[j].ObligationID
	})
	return all, nil
}

// ObligationOccurrences expands a single obligation across [from, to].
func (a *Analyzer) ObligationOccurrences(ctx context.Context, obligationID int64, from, to time.Time) ([]core.ProjectedOccurrence, error) {
	ob, err := a.store.GetObligation(ctx, obligationID)
	if err != nil {
		return nil, err
	}
	return projection.Expand(ob, from, to)
}

// RecordBillInstance stores one real billing event and recomputes the
// obligation's statistics.
func (a *Analyzer) RecordBillInstance(ctx context.Context, obligationID int64, actual, estimated core.Money, billDate core.Date, opts variance.RecordOptions) (core.BillHistoryEntry, error) {
	return a.tracker.RecordInstance(ctx, obligationID, actual, estimated, billDate, opts)
}

// AmendBillInstance corrects an existing billing event.
func (a *Analyzer) AmendBillInstance(ctx context.Context, entryID int64, actual, estimated core.Money, paid bool, paidDate core.Date) (core.BillHistoryEntry, error) {
	return a.tracker.AmendInstance(ctx, entryID, actual, estimated, paid, paidDate)
}

// Statistics returns the aggregate payment statistics for one obligation,
// nil when it has no history.
func (a *Analyzer) Statistics(ctx context.Context, obligationID int64) (*core.ObligationStatistics, error) {
	if _, err := a.store.GetObligation(ctx, obligationID); err != nil {
		return nil, err
	}
	return a.tracker.Recompute(ctx, obligationID)
}

// RunAnalysis computes a full snapshot analysis as of now: balance,
// trailing transactions, projected obligations, health score and alerts.
func (a *Analyzer) RunAnalysis(ctx context.Context, now time.Time) (*AnalysisResult, error) {
	balance, err := a.store.GetBalance(ctx)
	if err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}

	from := now.AddDate(0, 0, -a.windowDays)
	transactions, err := a.store.ListTransactions(ctx, from, now)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	upcoming, err := a.ProjectOccurrences(ctx, now, now.AddDate(0, 0, a.horizonDays))
	if err != nil {
		return nil, fmt.Errorf("project occurrences: %w", err)
	}

	goals, err := a.store.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	billsDue, billsPaid, err := a.countTrailingBills(ctx, from, now)
	if err != nil {
		return nil, fmt.Errorf("count trailing bills: %w", err)
	}

	score := a.scorer.Score(health.Input{
		Balance:       balance,
		Transactions:  transactions,
		UpcomingTotal: core.TotalAmount(upcoming),
		BillsDue:      billsDue,
		BillsPaid:     billsPaid,
	})

	var income, expenses []core.Transaction
	for _, t := range transactions {
		switch t.Type {
		case core.Income:
			income = append(income, t)
		case core.Expense:
			expenses = append(expenses, t)
		}
	}

	generated := a.engine.Analyze(alerts.Input{
		Balance:    balance,
		Expenses:   expenses,
		Income:     income,
		Upcoming:   upcoming,
		Goals:      goals,
		Now:        now,
		WindowDays: a.windowDays,
	})

	slog.InfoContext(ctx, "Analysis complete",
		"score", score.Score,
		"alert_count", len(generated),
		"upcoming_count", len(upcoming))

	return &AnalysisResult{
		GeneratedAt: now,
		Upcoming:    upcoming,
		Score:       score,
		Alerts:      generated,
	}, nil
}

// countTrailingBills counts bill history entries inside [from, to] across
// active obligations and how many of them are marked paid.
func (a *Analyzer) countTrailingBills(ctx context.Context, from, to time.Time) (due, paid int, err error) {
	obligations, err := a.store.ListActiveObligations(ctx)
	if err != nil {
		return 0, 0, err
	}

	for _, ob := range obligations {
		history, err := a.store.ListBillHistory(ctx, ob.ID)
		if err != nil {
			return 0, 0, err
		}
		for _, e := range history {
			if e.BillDate.Before(from) || e.BillDate.After(to) {
				continue
			}
			due++
			if e.Paid {
				paid++
			}
		}
	}
	return due, paid, nil
}

// PublishAnalysis ships the result to the AMQP exchange. A missing client
// is a no-op so the analyzer keeps working without a broker.
func (a *Analyzer) PublishAnalysis(ctx context.Context, result *AnalysisResult) error {
	if a.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping alert batch publish")
		return nil
	}
	msg := amqp.NewAlertBatchMessage(result.Score.Score, result.Alerts)
	if err := a.amqpClient.PublishAlertBatch(ctx, msg); err != nil {
		return fmt.Errorf("publish alert batch: %w", err)
	}
	return nil
}

// Close releases the AMQP connection if one is attached.
func (a *Analyzer) Close() error {
	if a.amqpClient != nil {
		return a.amqpClient.Close()
	}
	return nil
}
