// Package domain holds the error taxonomy shared by the marketplace services.
package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the referenced task, application, profile or chat does not exist.
var ErrNotFound = errors.New("not found")

// Reason classifies a ValidationError.
type Reason string

const (
	ReasonInvalidInput         Reason = "invalid_input"
	ReasonDuplicateApplication Reason = "duplicate_application"
	ReasonQuotaExceeded        Reason = "quota_exceeded"
	ReasonOwnTask              Reason = "own_task"
	ReasonNotCreator           Reason = "not_creator"
	ReasonNotParty             Reason = "not_party"
	ReasonInvalidState         Reason = "invalid_state"
	ReasonTaskClosed           Reason = "task_closed"
	ReasonRatingRequired       Reason = "rating_required"
	ReasonInvalidRating        Reason = "invalid_rating"
	ReasonNotRateable          Reason = "not_rateable"
	ReasonAlreadyRated         Reason = "already_rated"
	ReasonTooManyAttempts      Reason = "too_many_attempts"
	ReasonInvalidCredentials   Reason = "invalid_credentials"
	ReasonUsernameTaken        Reason = "username_taken"
)

// ValidationError is a user-facing refusal. It is never retried automatically.
type ValidationError struct {
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid builds a ValidationError.
func Invalid(reason Reason, format string, args ...any) error {
	return &ValidationError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// IsReason reports whether err is a ValidationError with the given reason.
func IsReason(err error, reason Reason) bool {
	var ve *ValidationError
	return errors.As(err, &ve) && ve.Reason == reason
}

// StoreError wraps a failed persistence operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Wrap classifies err for the operation op. Validation and store errors pass through,
// not-found errors keep their sentinel and anything else becomes a StoreError.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	var se *StoreError
	switch {
	case errors.As(err, &ve), errors.As(err, &se):
		return err
	case errors.Is(err, ErrNotFound):
		return fmt.Errorf("%s: %w", op, err)
	}
	return &StoreError{Op: op, Err: err}
}
