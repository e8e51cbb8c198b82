package store

import (
	"context"
	"sync"
	"time"

	"github.com/arnav/paytrack/internal/domain"
)

// MemoryStore keeps the canonical transaction set in process memory behind a
// single read-write lock: exclusive for Insert/UpdateStatus, shared for
// reads. Transactions are stored by value, so everything handed out is a
// snapshot copy that later mutations cannot reach. State is lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	txns  map[string]domain.Transaction
	nowFn func() time.Time
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		txns:  make(map[string]domain.Transaction),
		nowFn: func() time.Time { return time.Now().UTC() },
	}
}

// Insert adds a transaction keyed by its id.
func (s *MemoryStore) Insert(_ context.Context, txn domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.txns[txn.ID] = txn
	return nil
}

// Get returns a snapshot of the transaction with the given id.
func (s *MemoryStore) Get(_ context.Context, id string) (domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txn, ok := s.txns[id]
	if !ok {
		return domain.Transaction{}, &NotFoundError{ID: id}
	}
	return txn, nil
}

// FindByIdempotencyKey scans for a transaction created under the given key.
// At most one exists for any key that was ever accepted.
func (s *MemoryStore) FindByIdempotencyKey(_ context.Context, key string) (domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, txn := range s.txns {
		if txn.IdempotencyKey == key {
			return txn, nil
		}
	}
	return domain.Transaction{}, ErrNotFound
}

// List returns snapshots of every transaction satisfying the filters. Map
// iteration drives the result, so order is unspecified.
func (s *MemoryStore) List(_ context.Context, filters domain.ListFilters) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.Transaction, 0, len(s.txns))
	for _, txn := range s.txns {
		if filters.Matches(txn) {
			results = append(results, txn)
		}
	}
	return results, nil
}

// UpdateStatus applies the transition guard and mutates status and UpdatedAt
// under the exclusive lock. Calls for the same id are totally ordered by the
// lock; a loser that finds the transaction already terminal gets
// *InvalidTransitionError and the stored value stays untouched.
func (s *MemoryStore) UpdateStatus(_ context.Context, id string, status domain.Status) (domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn, ok := s.txns[id]
	if !ok {
		return domain.Transaction{}, &NotFoundError{ID: id}
	}
	if !txn.Status.CanTransitionTo(status) {
		return domain.Transaction{}, &InvalidTransitionError{From: txn.Status, To: status}
	}

	txn.Status = status
	txn.UpdatedAt = s.nowFn()
	s.txns[id] = txn
	return txn, nil
}
