package store

import (
	"context"
	"fmt"
	"time"

	"github.com/arnav/paytrack/internal/domain"
	"github.com/arnav/paytrack/internal/graph"
)

// GraphStore implements the Store contract on top of a graph database. Each
// operation is a single query, so the guarded status update is evaluated
// server-side and the per-id atomicity guarantee holds without a process
// lock. Used in deployments where transactions must live next to the rest of
// the payment graph.
type GraphStore struct {
	client graph.Client
	nowFn  func() time.Time
}

// NewGraphStore constructs a GraphStore backed by the supplied client.
func NewGraphStore(client graph.Client) *GraphStore {
	return &GraphStore{
		client: client,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

// Insert creates the transaction node.
func (s *GraphStore) Insert(ctx context.Context, txn domain.Transaction) error {
	_, err := s.client.ExecuteWrite(ctx, insertTransactionCypher, map[string]any{
		"id":             txn.ID,
		"idempotencyKey": txn.IdempotencyKey,
		"amount":         txn.Amount,
		"currency":       string(txn.Currency),
		"description":    txn.Description,
		"status":         string(txn.Status),
		"createdAt":      formatTime(txn.CreatedAt),
		"updatedAt":      formatTime(txn.UpdatedAt),
	})
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// Get fetches the transaction node with the given id.
func (s *GraphStore) Get(ctx context.Context, id string) (domain.Transaction, error) {
	res, err := s.client.ExecuteRead(ctx, getTransactionCypher, map[string]any{"id": id})
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	if len(res.Records) == 0 {
		return domain.Transaction{}, &NotFoundError{ID: id}
	}
	return decodeTransaction(res.Records[0]), nil
}

// FindByIdempotencyKey fetches the transaction created under the given key.
func (s *GraphStore) FindByIdempotencyKey(ctx context.Context, key string) (domain.Transaction, error) {
	res, err := s.client.ExecuteRead(ctx, findByIdempotencyKeyCypher, map[string]any{"key": key})
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("find transaction by idempotency key: %w", err)
	}
	if len(res.Records) == 0 {
		return domain.Transaction{}, ErrNotFound
	}
	return decodeTransaction(res.Records[0]), nil
}

// List fetches every transaction node satisfying the filters. The query
// leaves order to the graph engine, so it is unspecified.
func (s *GraphStore) List(ctx context.Context, filters domain.ListFilters) ([]domain.Transaction, error) {
	params := map[string]any{
		"status":   nil,
		"currency": nil,
	}
	if filters.Status != nil {
		params["status"] = string(*filters.Status)
	}
	if filters.Currency != nil {
		params["currency"] = string(*filters.Currency)
	}

	res, err := s.client.ExecuteRead(ctx, listTransactionsCypher, params)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	results := make([]domain.Transaction, 0, len(res.Records))
	for _, rec := range res.Records {
		results = append(results, decodeTransaction(rec))
	}
	return results, nil
}

// UpdateStatus runs the transition guard inside a single conditional write:
// the node only changes when the stored status is PENDING and the target is
// not. The previous status comes back with the record, so a rejected
// transition can report both sides without a second round trip.
func (s *GraphStore) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Transaction, error) {
	res, err := s.client.ExecuteWrite(ctx, updateStatusCypher, map[string]any{
		"id":        id,
		"status":    string(status),
		"updatedAt": formatTime(s.nowFn()),
	})
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("update transaction status: %w", err)
	}
	if len(res.Records) == 0 {
		return domain.Transaction{}, &NotFoundError{ID: id}
	}

	rec := res.Records[0]
	previous := domain.Status(toString(rec["previous"]))
	if !previous.CanTransitionTo(status) {
		return domain.Transaction{}, &InvalidTransitionError{From: previous, To: status}
	}
	return decodeTransaction(rec), nil
}

func decodeTransaction(rec graph.Record) domain.Transaction {
	return domain.Transaction{
		ID:             toString(rec["id"]),
		IdempotencyKey: toString(rec["idempotencyKey"]),
		Amount:         toFloat64(rec["amount"]),
		Currency:       domain.Currency(toString(rec["currency"])),
		Description:    toString(rec["description"]),
		Status:         domain.Status(toString(rec["status"])),
		CreatedAt:      toTime(rec["createdAt"]),
		UpdatedAt:      toTime(rec["updatedAt"]),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func toFloat64(val any) float64 {
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

func toTime(val any) time.Time {
	switch v := val.(type) {
	case time.Time:
		return v
	case string:
		if v == "" {
			return time.Time{}
		}
		if parsed, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

const transactionReturnClause = `
RETURN t.id AS id,
       t.idempotencyKey AS idempotencyKey,
       t.amount AS amount,
       t.currency AS currency,
       t.description AS description,
       t.status AS status,
       t.createdAt AS createdAt,
       t.updatedAt AS updatedAt`

const insertTransactionCypher = `
CREATE (t:Transaction {
  id: $id,
  idempotencyKey: $idempotencyKey,
  amount: $amount,
  currency: $currency,
  description: $description,
  status: $status,
  createdAt: $createdAt,
  updatedAt: $updatedAt
})`

const getTransactionCypher = `
MATCH (t:Transaction {id: $id})` + transactionReturnClause

const findByIdempotencyKeyCypher = `
MATCH (t:Transaction {idempotencyKey: $key})
WITH t LIMIT 1` + transactionReturnClause

const listTransactionsCypher = `
MATCH (t:Transaction)
WHERE ($status IS NULL OR t.status = $status)
  AND ($currency IS NULL OR t.currency = $currency)` + transactionReturnClause

const updateStatusCypher = `
MATCH (t:Transaction {id: $id})
WITH t, t.status AS previous
SET t.status = CASE WHEN previous = 'PENDING' AND $status <> 'PENDING' THEN $status ELSE t.status END,
    t.updatedAt = CASE WHEN previous = 'PENDING' AND $status <> 'PENDING' THEN $updatedAt ELSE t.updatedAt END
RETURN previous,
       t.id AS id,
       t.idempotencyKey AS idempotencyKey,
       t.amount AS amount,
       t.currency AS currency,
       t.description AS description,
       t.status AS status,
       t.createdAt AS createdAt,
       t.updatedAt AS updatedAt`
