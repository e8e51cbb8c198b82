package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/arnav/paytrack/internal/domain"
	"github.com/arnav/paytrack/internal/store"
)

// TransactionService orchestrates validation, idempotent creation and
// lifecycle updates, delegating all persistence to the Store contract. It
// holds no state of its own beyond the store reference and the injected
// clock/id generators, so it adds no synchronization of its own.
type TransactionService struct {
	store store.Store
	nowFn func() time.Time
	idFn  func() string
}

// NewTransactionService builds a service on top of any Store implementation.
func NewTransactionService(st store.Store) *TransactionService {
	return &TransactionService{
		store: st,
		nowFn: func() time.Time { return time.Now().UTC() },
		idFn:  uuid.NewString,
	}
}

// Create validates the request and either replays or creates. On replay the
// stored transaction comes back unchanged with created=false; the rest of the
// request payload is not compared against it. A new transaction always starts
// PENDING with CreatedAt == UpdatedAt.
//
// The key lookup and the insert are separate store calls, so two concurrent
// creates racing on the same fresh key can both miss the lookup and both
// insert.
func (s *TransactionService) Create(ctx context.Context, req domain.CreateRequest) (domain.Transaction, bool, error) {
	if err := domain.ValidateCreate(req); err != nil {
		return domain.Transaction{}, false, err
	}

	existing, err := s.store.FindByIdempotencyKey(ctx, req.IdempotencyKey)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Transaction{}, false, err
	}

	now := s.nowFn()
	txn := domain.Transaction{
		ID:             s.idFn(),
		IdempotencyKey: req.IdempotencyKey,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Description:    req.Description,
		Status:         domain.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Insert(ctx, txn); err != nil {
		return domain.Transaction{}, false, err
	}
	return txn, true, nil
}

// Get returns the transaction with the given id.
func (s *TransactionService) Get(ctx context.Context, id string) (domain.Transaction, error) {
	return s.store.Get(ctx, id)
}

// List returns every transaction satisfying the filters.
func (s *TransactionService) List(ctx context.Context, filters domain.ListFilters) ([]domain.Transaction, error) {
	return s.store.List(ctx, filters)
}

// UpdateStatus requests a guarded status transition. Not-found and
// invalid-transition errors from the store pass through unchanged.
func (s *TransactionService) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Transaction, error) {
	return s.store.UpdateStatus(ctx, id, status)
}
