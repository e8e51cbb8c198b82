package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arnav/paytrack/internal/service"
	"github.com/arnav/paytrack/internal/store"
)

func newTestRouter() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewTransactionService(store.NewMemoryStore())
	return NewRouter(logger, RouterDependencies{
		Health: GraphHealthService{},
		API:    NewAPIHandlers(logger, svc),
	})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return payload
}

func createPayload(key string) map[string]any {
	return map[string]any{
		"idempotency_key": key,
		"amount":          150.75,
		"currency":        "USD",
		"description":     "Invoice payment",
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if payload := decodeBody(t, rec); payload["status"] != "ok" {
		t.Fatalf("unexpected health payload: %v", payload)
	}
}

func TestCreateAndGetTransaction(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/transactions", createPayload("txn-001"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	data := decodeBody(t, rec)["data"].(map[string]any)
	if data["status"] != "PENDING" {
		t.Fatalf("expected PENDING, got %v", data["status"])
	}
	if data["amount"] != 150.75 {
		t.Fatalf("expected amount 150.75, got %v", data["amount"])
	}
	if data["created_at"] != data["updated_at"] {
		t.Fatalf("fresh transaction must have created_at == updated_at: %v", data)
	}
	id, _ := data["id"].(string)
	if id == "" {
		t.Fatal("expected generated id")
	}

	getRec := doJSON(t, router, http.MethodGet, "/api/v1/transactions/"+id, nil)
	if getRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", getRec.Code)
	}
	got := decodeBody(t, getRec)["data"].(map[string]any)
	if got["id"] != id || got["amount"] != 150.75 {
		t.Fatalf("unexpected get payload: %v", got)
	}
}

func TestIdempotentReplayReturns200AndOriginal(t *testing.T) {
	router := newTestRouter()

	first := doJSON(t, router, http.MethodPost, "/api/v1/transactions", createPayload("idem-key"))
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", first.Code)
	}
	firstData := decodeBody(t, first)["data"].(map[string]any)

	// Same key, different description: the original wins, wholesale.
	replayPayload := createPayload("idem-key")
	replayPayload["description"] = "Entirely different"
	second := doJSON(t, router, http.MethodPost, "/api/v1/transactions", replayPayload)
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200 on replay, got %d", second.Code)
	}
	secondData := decodeBody(t, second)["data"].(map[string]any)

	if secondData["id"] != firstData["id"] {
		t.Fatalf("replay must return the original id: %v vs %v", secondData["id"], firstData["id"])
	}
	if secondData["description"] != "Invoice payment" {
		t.Fatalf("replay must keep the original description, got %v", secondData["description"])
	}
}

func TestCreateValidationFailure(t *testing.T) {
	router := newTestRouter()

	payload := createPayload("bad-amount")
	payload["amount"] = -10.0
	rec := doJSON(t, router, http.MethodPost, "/api/v1/transactions", payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	errBody := decodeBody(t, rec)["error"].(map[string]any)
	if errBody["code"] != float64(http.StatusBadRequest) {
		t.Fatalf("expected code 400 in envelope, got %v", errBody["code"])
	}

	// The rejected transaction must not be stored.
	listRec := doJSON(t, router, http.MethodGet, "/api/v1/transactions", nil)
	if listRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", listRec.Code)
	}
	if items := decodeBody(t, listRec)["data"].([]any); len(items) != 0 {
		t.Fatalf("expected empty listing after rejected create, got %v", items)
	}
}

func TestCreateUnknownCurrencyRejected(t *testing.T) {
	router := newTestRouter()

	payload := createPayload("bad-currency")
	payload["currency"] = "BTC"
	rec := doJSON(t, router, http.MethodPost, "/api/v1/transactions", payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetUnknownTransaction(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodGet, "/api/v1/transactions/no-such-id", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	errBody := decodeBody(t, rec)["error"].(map[string]any)
	if errBody["code"] != float64(http.StatusNotFound) {
		t.Fatalf("unexpected error envelope: %v", errBody)
	}
}

func TestStatusLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter()

	created := doJSON(t, router, http.MethodPost, "/api/v1/transactions", createPayload("lifecycle"))
	id := decodeBody(t, created)["data"].(map[string]any)["id"].(string)

	patch := doJSON(t, router, http.MethodPatch, "/api/v1/transactions/"+id+"/status", map[string]any{"status": "COMPLETED"})
	if patch.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", patch.Code, patch.Body.String())
	}
	if data := decodeBody(t, patch)["data"].(map[string]any); data["status"] != "COMPLETED" {
		t.Fatalf("expected COMPLETED, got %v", data["status"])
	}

	// Terminal state is frozen: moving back to PENDING answers 422 and the
	// stored status stays COMPLETED.
	back := doJSON(t, router, http.MethodPatch, "/api/v1/transactions/"+id+"/status", map[string]any{"status": "PENDING"})
	if back.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", back.Code)
	}

	got := doJSON(t, router, http.MethodGet, "/api/v1/transactions/"+id, nil)
	if data := decodeBody(t, got)["data"].(map[string]any); data["status"] != "COMPLETED" {
		t.Fatalf("stored status changed after rejected transition: %v", data["status"])
	}
}

func TestUpdateStatusUnknownToken(t *testing.T) {
	router := newTestRouter()

	created := doJSON(t, router, http.MethodPost, "/api/v1/transactions", createPayload("tok"))
	id := decodeBody(t, created)["data"].(map[string]any)["id"].(string)

	rec := doJSON(t, router, http.MethodPatch, "/api/v1/transactions/"+id+"/status", map[string]any{"status": "DONE"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status token, got %d", rec.Code)
	}
}

func TestUpdateStatusUnknownID(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPatch, "/api/v1/transactions/ghost/status", map[string]any{"status": "COMPLETED"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListWithStatusFilter(t *testing.T) {
	router := newTestRouter()

	first := doJSON(t, router, http.MethodPost, "/api/v1/transactions", createPayload("f-1"))
	firstID := decodeBody(t, first)["data"].(map[string]any)["id"].(string)
	doJSON(t, router, http.MethodPost, "/api/v1/transactions", createPayload("f-2"))
	doJSON(t, router, http.MethodPatch, "/api/v1/transactions/"+firstID+"/status", map[string]any{"status": "FAILED"})

	rec := doJSON(t, router, http.MethodGet, "/api/v1/transactions?status=FAILED", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	items := decodeBody(t, rec)["data"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected 1 failed transaction, got %d", len(items))
	}
	if item := items[0].(map[string]any); item["id"] != firstID {
		t.Fatalf("unexpected filtered item: %v", item)
	}

	all := doJSON(t, router, http.MethodGet, "/api/v1/transactions", nil)
	if items := decodeBody(t, all)["data"].([]any); len(items) != 2 {
		t.Fatalf("expected 2 transactions unfiltered, got %d", len(items))
	}

	bad := doJSON(t, router, http.MethodGet, "/api/v1/transactions?status=NOPE", nil)
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown filter token, got %d", bad.Code)
	}
}

func TestMalformedJSONRejected(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
