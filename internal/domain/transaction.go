package domain

import "time"

// Transaction is the central entity: a single payment moving through the
// pending → completed/failed/cancelled lifecycle. Every field except Status
// and UpdatedAt is immutable after creation.
type Transaction struct {
	ID             string
	IdempotencyKey string
	Amount         float64
	Currency       Currency
	Description    string
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreateRequest carries the caller-supplied fields for a new transaction.
type CreateRequest struct {
	IdempotencyKey string
	Amount         float64
	Currency       Currency
	Description    string
}

// ListFilters narrows a listing. A nil field places no constraint.
type ListFilters struct {
	Status   *Status
	Currency *Currency
}

// Matches reports whether txn satisfies every present filter.
func (f ListFilters) Matches(txn Transaction) bool {
	if f.Status != nil && txn.Status != *f.Status {
		return false
	}
	if f.Currency != nil && txn.Currency != *f.Currency {
		return false
	}
	return true
}
