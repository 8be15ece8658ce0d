package store

import (
	"context"
	"time"

	"finhealth/internal/core"
)

// Ports for outbound persistence adapters. The analyzer core consumes plain
// in-memory values; the storage format behind these interfaces is entirely
// the adapter's concern.
type (
	ObligationReader interface {
		// GetObligation returns core.ErrObligationNotFound for unknown ids.
		GetObligation(ctx context.Context, id int64) (core.RecurringObligation, error)
		// ListActiveObligations returns every obligation with the active flag set.
		ListActiveObligations(ctx context.Context) ([]core.RecurringObligation, error)
	}

	// HistoryStore persists bill payment instances for recurring obligations.
	HistoryStore interface {
		// AppendBillEntry stores a new entry and returns it with its assigned id.
		AppendBillEntry(ctx context.Context, e core.BillHistoryEntry) (core.BillHistoryEntry, error)
		// UpdateBillEntry replaces an existing entry; core.ErrEntryNotFound
		// when the id is unknown.
		UpdateBillEntry(ctx context.Context, e core.BillHistoryEntry) error
		GetBillEntry(ctx context.Context, id int64) (core.BillHistoryEntry, error)
		// ListBillHistory returns all entries for one obligation ordered by
		// bill date descending. An obligation with no entries, including an
		// unknown id, yields an empty slice and no error; existence checks
		// belong to ObligationReader.
		ListBillHistory(ctx context.Context, obligationID int64) ([]core.BillHistoryEntry, error)
	}

	TransactionReader interface {
		// ListTransactions returns entries with a date inside [from, to], inclusive.
		ListTransactions(ctx context.Context, from, to time.Time) ([]core.Transaction, error)
	}

	GoalReader interface {
		ListGoals(ctx context.Context) ([]core.Goal, error)
	}

	BalanceReader interface {
		GetBalance(ctx context.Context) (core.Money, error)
	}
)

// Store bundles every port the analyzer needs from one backend.
type Store interface {
	ObligationReader
	HistoryStore
	TransactionReader
	GoalReader
	BalanceReader
}
