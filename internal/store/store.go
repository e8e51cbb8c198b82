package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/arnav/paytrack/internal/domain"
)

// Store is the storage contract for transactions: a linearizable collection
// keyed by id, with a secondary idempotency-key lookup and a guarded status
// update. The service layer depends on this interface, never on a concrete
// backend.
type Store interface {
	// Insert adds a new transaction. The caller guarantees a fresh id.
	Insert(ctx context.Context, txn domain.Transaction) error

	// Get returns a snapshot of the transaction with the given id, or an
	// error matching ErrNotFound if absent.
	Get(ctx context.Context, id string) (domain.Transaction, error)

	// FindByIdempotencyKey returns the transaction created under the given
	// key, or an error matching ErrNotFound if none exists.
	FindByIdempotencyKey(ctx context.Context, key string) (domain.Transaction, error)

	// List returns snapshots of every transaction satisfying the filters.
	// Order is unspecified.
	List(ctx context.Context, filters domain.ListFilters) ([]domain.Transaction, error)

	// UpdateStatus atomically applies the state-machine guard and, if the
	// transition is allowed, mutates status and UpdatedAt in one step,
	// returning the post-update snapshot. A disallowed transition fails with
	// *InvalidTransitionError and leaves the transaction untouched.
	UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Transaction, error)
}

// ErrNotFound is matched (via errors.Is) by every lookup miss.
var ErrNotFound = errors.New("transaction not found")

// NotFoundError is a lookup miss carrying the id that was requested.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("transaction not found: %s", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// InvalidTransitionError reports a status change the state machine forbids.
// It carries both the stored and the requested status.
type InvalidTransitionError struct {
	From domain.Status
	To   domain.Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}
