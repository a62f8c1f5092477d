/*
errors.go - Centralized error types for the workforce engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Only the compensation calculator and the boundary (store, API) return
  errors; the analytics aggregator never fails and degrades bad input to
  neutral values instead.

ERROR CATEGORIES:
  1. Validation errors - Malformed job/observation pairing (ambiguous mode,
     missing rate for the observed mode, bad job definition)
  2. Store errors - Missing or duplicate records at the persistence layer

USAGE:
  if errors.Is(err, generic.ErrAmbiguousMode) {
      // both or neither of hours/items were supplied
  }

  var vErr *generic.ValidationError
  if errors.As(err, &vErr) {
      log.Warn("rejected entry", zap.String("code", vErr.Code))
  }

SEE ALSO:
  - compensation/calculator.go: Raises validation errors
  - api/handlers.go: Maps errors to HTTP status codes
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrAmbiguousMode is returned when an observation carries both or neither
	// of hoursTaken and itemsCompleted.
	ErrAmbiguousMode = errors.New("ambiguous job mode: exactly one of hours taken or items completed is required")

	// ErrMissingRate is returned when the job has no rate for the mode the
	// observation implies.
	ErrMissingRate = errors.New("job has no rate for the observed mode")

	// ErrInvalidJobDefinition is returned for job definitions whose rate plan
	// is not exactly one of hourly or per-item.
	ErrInvalidJobDefinition = errors.New("invalid job definition")

	// ErrNegativeQuantity is returned when hours or items are negative.
	ErrNegativeQuantity = errors.New("quantity must not be negative")

	// ErrNotFound is returned when a referenced record doesn't exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEntry is returned when a record with the same ID already exists.
	ErrDuplicateEntry = errors.New("duplicate record")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// Validation codes.
const (
	CodeAmbiguousMode    = "ambiguous_mode"
	CodeMissingRate      = "missing_rate"
	CodeInvalidRatePlan  = "invalid_rate_plan"
	CodeNegativeQuantity = "negative_quantity"
	CodeInvalidField     = "invalid_field"
)

// ValidationError reports the one class of failure the calculator raises.
type ValidationError struct {
	Code    string
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (%s): %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError builds a ValidationError wrapping a sentinel.
func NewValidationError(code, field string, sentinel error, format string, args ...any) *ValidationError {
	return &ValidationError{
		Code:    code,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		Err:     sentinel,
	}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidation returns true if err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return IsValidation(err) ||
		errors.Is(err, ErrAmbiguousMode) ||
		errors.Is(err, ErrMissingRate) ||
		errors.Is(err, ErrInvalidJobDefinition) ||
		errors.Is(err, ErrNegativeQuantity) ||
		errors.Is(err, ErrInvalidPeriod)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict returns true if the error indicates a duplicate record.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateEntry)
}
