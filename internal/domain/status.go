package domain

import "fmt"

// Status models the lifecycle state of a transaction.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusCancelled Status = "CANCELLED"
)

// Statuses enumerates every recognised status value.
var Statuses = []Status{StatusPending, StatusCompleted, StatusFailed, StatusCancelled}

// allowedTransitions is the full transition table: a pending transaction may
// move into any terminal state, and nothing else ever moves.
var allowedTransitions = map[Status][]Status{
	StatusPending: {StatusCompleted, StatusFailed, StatusCancelled},
}

// ParseStatus maps a wire token onto a Status. Tokens are matched exactly;
// anything but the four uppercase names is rejected.
func ParseStatus(value string) (Status, error) {
	s := Status(value)
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q", value)
	}
	return s, nil
}

// Valid reports whether s is one of the recognised status values.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is permitted from s.
func (s Status) Terminal() bool {
	return s.Valid() && len(allowedTransitions[s]) == 0
}

// CanTransitionTo reports whether the state machine permits moving from s to
// target. Self-transitions are never allowed.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if target == allowed {
			return true
		}
	}
	return false
}
