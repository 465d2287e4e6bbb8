package utils

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrForbidden           = errors.New("forbidden")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrDuplicateReview     = errors.New("a review for this session has already been submitted")

	// ErrInvalidTransition matches any *InvalidTransitionError via errors.Is.
	ErrInvalidTransition = errors.New("invalid session transition")
)

// InvalidTransitionError carries the state the session was in and the
// event that was rejected, so callers can report both.
type InvalidTransitionError struct {
	From  string
	Event string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a session in status %q", e.Event, e.From)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
