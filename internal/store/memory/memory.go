// Package memory is a mutex-guarded in-memory implementation of the store
// ports, used as the default backend and by tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"finhealth/internal/core"
)

type Store struct {
	mu          sync.Mutex
	balance     core.Money
	obligations map[int64]core.RecurringObligation
	history     map[int64]core.BillHistoryEntry
	txns        []core.Transaction
	goals       []core.Goal
	nextObID    int64
	nextEntryID int64
	nextTxnID   int64
}

func New() *Store {
	return &Store{
		obligations: make(map[int64]core.RecurringObligation),
		history:     make(map[int64]core.BillHistoryEntry),
		nextObID:    1,
		nextEntryID: 1,
		nextTxnID:   1,
	}
}

// SetBalance replaces the current balance snapshot.
func (s *Store) SetBalance(balance core.Money) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balance = balance
}

// AddObligation stores the obligation and returns its assigned id.
func (s *Store) AddObligation(ob core.RecurringObligation) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ob.ID == 0 {
		ob.ID = s.nextObID
		s.nextObID++
	} else if ob.ID >= s.nextObID {
		s.nextObID = ob.ID + 1
	}
	s.obligations[ob.ID] = ob
	return ob.ID
}

// AddTransaction stores the transaction and returns its assigned id.
func (s *Store) AddTransaction(t core.Transaction) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == 0 {
		t.ID = s.nextTxnID
		s.nextTxnID++
	}
	s.txns = append(s.txns, t)
	return t.ID
}

// AddGoal stores the goal.
func (s *Store) AddGoal(g core.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = append(s.goals, g)
}

func (s *Store) GetBalance(_ context.Context) (core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance, nil
}

func (s *Store) GetObligation(_ context.Context, id int64) (core.RecurringObligation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ob, ok := s.obligations[id]
	if !ok {
		return core.RecurringObligation{}, core.ErrObligationNotFound
	}
	return ob, nil
}

func (s *Store) ListActiveObligations(_ context.Context) ([]core.RecurringObligation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.RecurringObligation
	for _, ob := range s.obligations {
		if ob.Active {
			out = append(out, ob)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) AppendBillEntry(_ context.Context, e core.BillHistoryEntry) (core.BillHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.obligations[e.ObligationID]; !ok {
		return core.BillHistoryEntry{}, core.ErrObligationNotFound
	}
	e.ID = s.nextEntryID
	s.nextEntryID++
	s.history[e.ID] = e
	return e, nil
}

func (s *Store) UpdateBillEntry(_ context.Context, e core.BillHistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.history[e.ID]; !ok {
		return core.ErrEntryNotFound
	}
	s.history[e.ID] = e
	return nil
}

func (s *Store) GetBillEntry(_ context.Context, id int64) (core.BillHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.history[id]
	if !ok {
		return core.BillHistoryEntry{}, core.ErrEntryNotFound
	}
	return e, nil
}

func (s *Store) ListBillHistory(_ context.Context, obligationID int64) ([]core.BillHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.BillHistoryEntry
	for _, e := range s.history {
		if e.ObligationID == obligationID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BillDate.After(out[j].BillDate.Time) })
	return out, nil
}

func (s *Store) ListTransactions(_ context.Context, from, to time.Time) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, t := range s.txns {
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date.Time) })
	return out, nil
}

func (s *Store) ListGoals(_ context.Context) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	goals := append([]core.Goal(nil), s.goals...)
	return goals, nil
}
