// Package variance tracks actual-vs-estimated payment variance over the
// lifetime of recurring obligations.
package variance

import (
	"context"
	"fmt"
	"log/slog"

	"finhealth/internal/core"
	"finhealth/internal/store"
)

// Backend is the slice of the store the tracker needs: obligation lookups
// plus bill history mutations.
type Backend interface {
	store.ObligationReader
	store.HistoryStore
}

// Tracker records bill payment instances and keeps per-obligation aggregate
// statistics derived from them. Statistics are recomputed synchronously
// after every history mutation, so they are never partially stale.
type Tracker struct {
	backend Backend
}

func NewTracker(backend Backend) *Tracker {
	return &Tracker{backend: backend}
}

// RecordOptions carries the optional fields of a bill instance.
type RecordOptions struct {
	Paid          bool
	PaidDate      core.Date
	Notes         string
	PaymentMethod string
}

// RecordInstance stores one real-world billing event for an obligation. The
// variance fields are derived from actual/estimated before persisting;
// statistics are recomputed immediately after.
func (t *Tracker) RecordInstance(ctx context.Context, obligationID int64, actual, estimated core.Money, billDate core.Date, opts RecordOptions) (core.BillHistoryEntry, error) {
	if err := billDate.Validate(); err != nil {
		return core.BillHistoryEntry{}, fmt.Errorf("invalid bill date: %w", err)
	}
	if _, err := t.backend.GetObligation(ctx, obligationID); err != nil {
		return core.BillHistoryEntry{}, fmt.Errorf("record bill instance: %w", err)
	}

	entry := core.BillHistoryEntry{
		ObligationID:  obligationID,
		Actual:        actual,
		Estimated:     estimated,
		BillDate:      billDate,
		Paid:          opts.Paid,
		PaidDate:      opts.PaidDate,
		Notes:         opts.Notes,
		PaymentMethod: opts.PaymentMethod,
	}
	entry.RecomputeVariance()

	saved, err := t.backend.AppendBillEntry(ctx, entry)
	if err != nil {
		return core.BillHistoryEntry{}, fmt.Errorf("append bill entry: %w", err)
	}

	stats, err := t.Recompute(ctx, obligationID)
	if err != nil {
		return core.BillHistoryEntry{}, fmt.Errorf("recompute statistics: %w", err)
	}

	slog.InfoContext(ctx, "Recorded bill instance",
		"obligation_id", obligationID,
		"entry_id", saved.ID,
		"actual_cents", saved.Actual.Cents,
		"variance_cents", saved.Variance,
		"history_count", stats.Count)

	return saved, nil
}

// AmendInstance corrects the amounts or paid status of an existing entry.
// Variance fields are recomputed from the amended actual/estimated, never
// carried over, and statistics are refreshed before returning.
func (t *Tracker) AmendInstance(ctx context.Context, entryID int64, actual, estimated core.Money, paid bool, paidDate core.Date) (core.BillHistoryEntry, error) {
	entry, err := t.backend.GetBillEntry(ctx, entryID)
	if err != nil {
		return core.BillHistoryEntry{}, fmt.Errorf("amend bill entry: %w", err)
	}

	entry.Actual = actual
	entry.Estimated = estimated
	entry.Paid = paid
	entry.PaidDate = paidDate
	entry.RecomputeVariance()

	if err := t.backend.UpdateBillEntry(ctx, entry); err != nil {
		return core.BillHistoryEntry{}, fmt.Errorf("update bill entry: %w", err)
	}

	if _, err := t.Recompute(ctx, entry.ObligationID); err != nil {
		return core.BillHistoryEntry{}, fmt.Errorf("recompute statistics: %w", err)
	}

	slog.InfoContext(ctx, "Amended bill instance",
		"obligation_id", entry.ObligationID,
		"entry_id", entry.ID,
		"actual_cents", entry.Actual.Cents,
		"variance_cents", entry.Variance)

	return entry, nil
}

// Recompute derives statistics from the obligation's full history. An
// unknown obligation id reports core.ErrObligationNotFound; an obligation
// with no history yields a nil result, not zeroes.
func (t *Tracker) Recompute(ctx context.Context, obligationID int64) (*core.ObligationStatistics, error) {
	if _, err := t.backend.GetObligation(ctx, obligationID); err != nil {
		return nil, fmt.Errorf("recompute statistics: %w", err)
	}
	history, err := t.backend.ListBillHistory(ctx, obligationID)
	if err != nil {
		return nil, fmt.Errorf("list bill history: %w", err)
	}
	return core.StatisticsFromHistory(obligationID, history), nil
}
