package domain

import (
	"math"
	"strings"
	"testing"
)

func validCreateRequest() CreateRequest {
	return CreateRequest{
		IdempotencyKey: "key-123",
		Amount:         100.0,
		Currency:       CurrencyUSD,
		Description:    "Test payment",
	}
}

func TestValidateCreate(t *testing.T) {
	cases := []struct {
		name       string
		mutate     func(*CreateRequest)
		wantReason string
	}{
		{
			name:   "valid request passes",
			mutate: func(r *CreateRequest) {},
		},
		{
			name:       "zero amount rejected",
			mutate:     func(r *CreateRequest) { r.Amount = 0 },
			wantReason: "amount must be greater than zero",
		},
		{
			name:       "negative amount rejected",
			mutate:     func(r *CreateRequest) { r.Amount = -50 },
			wantReason: "amount must be greater than zero",
		},
		{
			name:       "negative infinity rejected as non-positive",
			mutate:     func(r *CreateRequest) { r.Amount = math.Inf(-1) },
			wantReason: "amount must be greater than zero",
		},
		{
			name:       "positive infinity rejected",
			mutate:     func(r *CreateRequest) { r.Amount = math.Inf(1) },
			wantReason: "amount must be a finite number",
		},
		{
			name:       "NaN rejected",
			mutate:     func(r *CreateRequest) { r.Amount = math.NaN() },
			wantReason: "amount must be a finite number",
		},
		{
			name:       "blank description rejected",
			mutate:     func(r *CreateRequest) { r.Description = "   " },
			wantReason: "description must not be empty",
		},
		{
			name:   "description at bound accepted",
			mutate: func(r *CreateRequest) { r.Description = strings.Repeat("x", MaxDescriptionLength) },
		},
		{
			name:       "description over bound rejected",
			mutate:     func(r *CreateRequest) { r.Description = strings.Repeat("x", MaxDescriptionLength+1) },
			wantReason: "description must not exceed 500 characters",
		},
		{
			name:       "blank idempotency key rejected",
			mutate:     func(r *CreateRequest) { r.IdempotencyKey = "" },
			wantReason: "idempotency key must not be empty",
		},
		{
			name:   "idempotency key at bound accepted",
			mutate: func(r *CreateRequest) { r.IdempotencyKey = strings.Repeat("k", MaxIdempotencyKeyLength) },
		},
		{
			name:       "idempotency key over bound rejected",
			mutate:     func(r *CreateRequest) { r.IdempotencyKey = strings.Repeat("k", MaxIdempotencyKeyLength+1) },
			wantReason: "idempotency key must not exceed 128 characters",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(&req)

			err := ValidateCreate(req)
			if tc.wantReason == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
			}
			if verr.Reason != tc.wantReason {
				t.Fatalf("expected reason %q, got %q", tc.wantReason, verr.Reason)
			}
		})
	}
}

func TestValidateCreate_FirstFailureWins(t *testing.T) {
	// Both the amount and the description are invalid; the amount check runs
	// first, so its reason must win.
	req := validCreateRequest()
	req.Amount = -1
	req.Description = ""

	err := ValidateCreate(req)
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Reason != "amount must be greater than zero" {
		t.Fatalf("expected amount failure to win, got %q", verr.Reason)
	}
}
