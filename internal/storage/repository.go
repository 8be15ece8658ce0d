package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"finhealth/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// GetObligation implements store.ObligationReader
func (r *SQLiteRepository) GetObligation(ctx context.Context, id int64) (core.RecurringObligation, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, category, amount_cents, cadence, start_date, end_date, active
		FROM obligations WHERE id = ?`, id)

	ob, err := scanObligation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.RecurringObligation{}, core.ErrObligationNotFound
	}
	if err != nil {
		return core.RecurringObligation{}, fmt.Errorf("get obligation %d: %w", id, err)
	}
	return ob, nil
}

// ListActiveObligations implements store.ObligationReader
func (r *SQLiteRepository) ListActiveObligations(ctx context.Context) ([]core.RecurringObligation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, category, amount_cents, cadence, start_date, end_date, active
		FROM obligations WHERE active = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list active obligations: %w", err)
	}
	defer rows.Close()

	var obligations []core.RecurringObligation
	for rows.Next() {
		ob, err := scanObligation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan obligation: %w", err)
		}
		obligations = append(obligations, ob)
	}
	return obligations, rows.Err()
}

// CreateObligation stores a new obligation definition and returns its id.
func (r *SQLiteRepository) CreateObligation(ctx context.Context, ob core.RecurringObligation) (int64, error) {
	if err := ob.Validate(); err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO obligations (name, category, amount_cents, cadence, start_date, end_date, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ob.Name, ob.Category, ob.Amount.Cents, string(ob.Cadence),
		ob.StartDate.Format(dateLayout), nullableDate(ob.EndDate), boolToInt(ob.Active))
	if err != nil {
		return 0, fmt.Errorf("create obligation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("obligation insert id: %w", err)
	}

	slog.InfoContext(ctx, "Obligation saved to SQLite",
		"obligation_id", id,
		"name", ob.Name,
		"cadence", string(ob.Cadence),
		"amount_cents", ob.Amount.Cents)

	return id, nil
}

// AppendBillEntry implements store.HistoryStore
func (r *SQLiteRepository) AppendBillEntry(ctx context.Context, e core.BillHistoryEntry) (core.BillHistoryEntry, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO bill_history (obligation_id, actual_cents, estimated_cents, bill_date,
			paid, paid_date, notes, payment_method, variance_cents, variance_percent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ObligationID, e.Actual.Cents, e.Estimated.Cents, e.BillDate.Format(dateLayout),
		boolToInt(e.Paid), nullableDate(e.PaidDate), e.Notes, e.PaymentMethod,
		e.Variance, e.VariancePercent)
	if err != nil {
		return core.BillHistoryEntry{}, fmt.Errorf("append bill entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.BillHistoryEntry{}, fmt.Errorf("bill entry insert id: %w", err)
	}
	e.ID = id

	slog.InfoContext(ctx, "Bill entry saved to SQLite",
		"entry_id", e.ID,
		"obligation_id", e.ObligationID,
		"amount_cents", e.Actual.Cents,
		"variance_cents", e.Variance)

	return e, nil
}

// UpdateBillEntry implements store.HistoryStore
func (r *SQLiteRepository) UpdateBillEntry(ctx context.Context, e core.BillHistoryEntry) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bill_history
		SET actual_cents = ?, estimated_cents = ?, bill_date = ?, paid = ?, paid_date = ?,
			notes = ?, payment_method = ?, variance_cents = ?, variance_percent = ?
		WHERE id = ?`,
		e.Actual.Cents, e.Estimated.Cents, e.BillDate.Format(dateLayout),
		boolToInt(e.Paid), nullableDate(e.PaidDate), e.Notes, e.PaymentMethod,
		e.Variance, e.VariancePercent, e.ID)
	if err != nil {
		return fmt.Errorf("update bill entry %d: %w", e.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update bill entry %d: %w", e.ID, err)
	}
	if affected == 0 {
		return core.ErrEntryNotFound
	}
	return nil
}

// GetBillEntry implements store.HistoryStore
func (r *SQLiteRepository) GetBillEntry(ctx context.Context, id int64) (core.BillHistoryEntry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, obligation_id, actual_cents, estimated_cents, bill_date,
			paid, paid_date, notes, payment_method, variance_cents, variance_percent
		FROM bill_history WHERE id = ?`, id)

	e, err := scanBillEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.BillHistoryEntry{}, core.ErrEntryNotFound
	}
	if err != nil {
		return core.BillHistoryEntry{}, fmt.Errorf("get bill entry %d: %w", id, err)
	}
	return e, nil
}

// ListBillHistory implements store.HistoryStore
func (r *SQLiteRepository) ListBillHistory(ctx context.Context, obligationID int64) ([]core.BillHistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, obligation_id, actual_cents, estimated_cents, bill_date,
			paid, paid_date, notes, payment_method, variance_cents, variance_percent
		FROM bill_history WHERE obligation_id = ? ORDER BY bill_date DESC, id DESC`, obligationID)
	if err != nil {
		return nil, fmt.Errorf("list bill history for obligation %d: %w", obligationID, err)
	}
	defer rows.Close()

	var entries []core.BillHistoryEntry
	for rows.Next() {
		e, err := scanBillEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bill entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListTransactions implements store.TransactionReader
func (r *SQLiteRepository) ListTransactions(ctx context.Context, from, to time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, amount_cents, tx_date, category, source
		FROM transactions WHERE tx_date >= ? AND tx_date <= ? ORDER BY tx_date, id`,
		from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		var (
			tx     core.Transaction
			txType string
			txDate string
		)
		if err := rows.Scan(&tx.ID, &txType, &tx.Amount.Cents, &txDate, &tx.Category, &tx.Source); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Type = core.TransactionType(txType)
		d, err := time.Parse(dateLayout, txDate)
		if err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", txDate, err)
		}
		tx.Date = core.Date{Time: d}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// AddTransaction stores a single income or expense entry.
func (r *SQLiteRepository) AddTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (type, amount_cents, tx_date, category, source)
		VALUES (?, ?, ?, ?, ?)`,
		string(tx.Type), tx.Amount.Cents, tx.Date.Format(dateLayout), tx.Category, tx.Source)
	if err != nil {
		return 0, fmt.Errorf("add transaction: %w", err)
	}
	return res.LastInsertId()
}

// ListGoals implements store.GoalReader
func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, kind, target_cents, current_cents FROM goals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		var g core.Goal
		if err := rows.Scan(&g.ID, &g.Name, &g.Kind, &g.Target.Cents, &g.Current.Cents); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// UpsertGoal creates or updates a goal by id.
func (r *SQLiteRepository) UpsertGoal(ctx context.Context, g core.Goal) (int64, error) {
	if g.ID == 0 {
		res, err := r.db.ExecContext(ctx, `
			INSERT INTO goals (name, kind, target_cents, current_cents)
			VALUES (?, ?, ?, ?)`, g.Name, g.Kind, g.Target.Cents, g.Current.Cents)
		if err != nil {
			return 0, fmt.Errorf("insert goal: %w", err)
		}
		return res.LastInsertId()
	}

	_, err := r.db.ExecContext(ctx, `
		UPDATE goals SET name = ?, kind = ?, target_cents = ?, current_cents = ?
		WHERE id = ?`, g.Name, g.Kind, g.Target.Cents, g.Current.Cents, g.ID)
	if err != nil {
		return 0, fmt.Errorf("update goal %d: %w", g.ID, err)
	}
	return g.ID, nil
}

// GetBalance implements store.BalanceReader
func (r *SQLiteRepository) GetBalance(ctx context.Context) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx, `SELECT cents FROM balance WHERE id = 1`).Scan(&cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Money{}, nil
	}
	if err != nil {
		return core.Money{}, fmt.Errorf("get balance: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// SetBalance replaces the current account balance.
func (r *SQLiteRepository) SetBalance(ctx context.Context, m core.Money) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO balance (id, cents, updated_at) VALUES (1, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET cents = excluded.cents, updated_at = excluded.updated_at`,
		m.Cents)
	if err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanObligation(row rowScanner) (core.RecurringObligation, error) {
	var (
		ob        core.RecurringObligation
		cadence   string
		startDate string
		endDate   sql.NullString
		active    int64
	)
	if err := row.Scan(&ob.ID, &ob.Name, &ob.Category, &ob.Amount.Cents,
		&cadence, &startDate, &endDate, &active); err != nil {
		return core.RecurringObligation{}, err
	}

	ob.Cadence = core.Cadence(cadence)
	ob.Active = active != 0

	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return core.RecurringObligation{}, fmt.Errorf("parse start date %q: %w", startDate, err)
	}
	ob.StartDate = core.Date{Time: start}

	if endDate.Valid && endDate.String != "" {
		end, err := time.Parse(dateLayout, endDate.String)
		if err != nil {
			return core.RecurringObligation{}, fmt.Errorf("parse end date %q: %w", endDate.String, err)
		}
		ob.EndDate = core.Date{Time: end}
	}

	return ob, nil
}

func scanBillEntry(row rowScanner) (core.BillHistoryEntry, error) {
	var (
		e        core.BillHistoryEntry
		billDate string
		paid     int64
		paidDate sql.NullString
	)
	if err := row.Scan(&e.ID, &e.ObligationID, &e.Actual.Cents, &e.Estimated.Cents,
		&billDate, &paid, &paidDate, &e.Notes, &e.PaymentMethod,
		&e.Variance, &e.VariancePercent); err != nil {
		return core.BillHistoryEntry{}, err
	}

	e.Paid = paid != 0

	bd, err := time.Parse(dateLayout, billDate)
	if err != nil {
		return core.BillHistoryEntry{}, fmt.Errorf("parse bill date %q: %w", billDate, err)
	}
	e.BillDate = core.Date{Time: bd}

	if paidDate.Valid && paidDate.String != "" {
		pd, err := time.Parse(dateLayout, paidDate.String)
		if err != nil {
			return core.BillHistoryEntry{}, fmt.Errorf("parse paid date %q: %w", paidDate.String, err)
		}
		e.PaidDate = core.Date{Time: pd}
	}

	return e, nil
}

func nullableDate(d core.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.Format(dateLayout)
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
