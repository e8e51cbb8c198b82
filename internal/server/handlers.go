package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/arnav/paytrack/internal/domain"
	"github.com/arnav/paytrack/internal/service"
	"github.com/arnav/paytrack/internal/store"
)

// APIHandlers exposes HTTP handlers for the transaction REST API.
type APIHandlers struct {
	logger  *slog.Logger
	service *service.TransactionService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.TransactionService) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		service: svc,
	}
}

// CreateTransaction handles POST /api/v1/transactions. A fresh creation
// answers 201; an idempotent replay answers 200 with the original
// transaction.
func (h *APIHandlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var payload createTransactionRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req, err := payload.toCreateRequest()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txn, created, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(w, status, dataEnvelope{Data: toTransactionResponse(txn)})
}

// GetTransaction handles GET /api/v1/transactions/{id}.
func (h *APIHandlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "transaction id is required")
		return
	}

	txn, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, dataEnvelope{Data: toTransactionResponse(txn)})
}

// ListTransactions handles GET /api/v1/transactions with optional status and
// currency query filters.
func (h *APIHandlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var filters domain.ListFilters
	if v := query.Get("status"); v != "" {
		status, err := domain.ParseStatus(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		filters.Status = &status
	}
	if v := query.Get("currency"); v != "" {
		currency, err := domain.ParseCurrency(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		filters.Currency = &currency
	}

	txns, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	items := make([]transactionResponse, 0, len(txns))
	for _, txn := range txns {
		items = append(items, toTransactionResponse(txn))
	}
	respondJSON(w, http.StatusOK, dataEnvelope{Data: items})
}

// UpdateTransactionStatus handles PATCH /api/v1/transactions/{id}/status.
func (h *APIHandlers) UpdateTransactionStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "transaction id is required")
		return
	}

	var payload updateStatusRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	status, err := domain.ParseStatus(payload.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txn, err := h.service.UpdateStatus(r.Context(), id, status)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, dataEnvelope{Data: toTransactionResponse(txn)})
}

// writeDomainError maps a core error onto its HTTP status code. Anything
// outside the domain taxonomy answers 500 without leaking detail.
func (h *APIHandlers) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	var ite *store.InvalidTransitionError

	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &ite):
		writeError(w, http.StatusUnprocessableEntity, ite.Error())
	default:
		h.logger.Error("request failed", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// --- Request & Response DTOs ---

type createTransactionRequest struct {
	IdempotencyKey string  `json:"idempotency_key"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	Description    string  `json:"description"`
}

func (req createTransactionRequest) toCreateRequest() (domain.CreateRequest, error) {
	currency, err := domain.ParseCurrency(req.Currency)
	if err != nil {
		return domain.CreateRequest{}, err
	}
	return domain.CreateRequest{
		IdempotencyKey: req.IdempotencyKey,
		Amount:         req.Amount,
		Currency:       currency,
		Description:    req.Description,
	}, nil
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type transactionResponse struct {
	ID             string  `json:"id"`
	IdempotencyKey string  `json:"idempotency_key"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	Description    string  `json:"description"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

func toTransactionResponse(txn domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:             txn.ID,
		IdempotencyKey: txn.IdempotencyKey,
		Amount:         txn.Amount,
		Currency:       string(txn.Currency),
		Description:    txn.Description,
		Status:         string(txn.Status),
		CreatedAt:      formatTime(txn.CreatedAt),
		UpdatedAt:      formatTime(txn.UpdatedAt),
	}
}

type dataEnvelope struct {
	Data any `json:"data"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// --- Helpers ---

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorEnvelope{
		Error: errorBody{Code: status, Message: msg},
	})
}
