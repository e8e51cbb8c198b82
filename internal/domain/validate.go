package domain

import (
	"fmt"
	"math"
	"strings"
)

const (
	// MaxDescriptionLength bounds the raw, untrimmed description.
	MaxDescriptionLength = 500
	// MaxIdempotencyKeyLength bounds the raw, untrimmed idempotency key.
	MaxIdempotencyKeyLength = 128
)

// ValidationError reports a structurally invalid create request.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Reason
}

// ValidateCreate checks a create request's structural validity. Checks run in
// a fixed order and stop at the first failure. The function is pure: no side
// effects, no clock, no storage.
func ValidateCreate(req CreateRequest) error {
	if req.Amount <= 0 {
		return &ValidationError{Reason: "amount must be greater than zero"}
	}
	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		return &ValidationError{Reason: "amount must be a finite number"}
	}
	if strings.TrimSpace(req.Description) == "" {
		return &ValidationError{Reason: "description must not be empty"}
	}
	if len(req.Description) > MaxDescriptionLength {
		return &ValidationError{Reason: fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength)}
	}
	if strings.TrimSpace(req.IdempotencyKey) == "" {
		return &ValidationError{Reason: "idempotency key must not be empty"}
	}
	if len(req.IdempotencyKey) > MaxIdempotencyKeyLength {
		return &ValidationError{Reason: fmt.Sprintf("idempotency key must not exceed %d characters", MaxIdempotencyKeyLength)}
	}
	return nil
}
