/*
errors.go - Centralized error types for the billing engine

PURPOSE:
  All engine error types in one place. Every failure here is a caller input
  error: reported synchronously, never retried, never recovered locally, and
  never accompanied by partial mutation (the engine mutates nothing).

ERROR CATEGORIES:
  1. Rate resolution errors - unknown employee/job type, missing rate
  2. Interval errors - degenerate or reversed time ranges
  3. Quantity errors - non-positive quantity on quantity-driven types

USAGE:
  Callers branch with errors.Is():

    if errors.Is(err, billing.ErrJobTypeNotAvailable) { ... }

  or pull context with errors.As() on the structured types.
*/
package billing

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUnknownEmployee is returned when the employee is not configured.
	ErrUnknownEmployee = errors.New("unknown employee")

	// ErrUnknownJobType is returned for keys outside the closed job-type table.
	ErrUnknownJobType = errors.New("unknown job type")

	// ErrJobTypeNotAvailable is returned when the employee has no configured
	// rate for a known job type and no closed-form default exists.
	ErrJobTypeNotAvailable = errors.New("job type not available for employee")

	// ErrInvalidInterval is returned for end <= start where a positive
	// duration is required.
	ErrInvalidInterval = errors.New("invalid interval: end not after start")

	// ErrInvalidQuantity is returned for non-positive quantity on
	// quantity-driven job types (expense, transport_km, cat_visit).
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// RateError reports a rate-resolution failure with its lookup context.
type RateError struct {
	Employee string
	JobType  JobType
	Reason   error // one of the sentinels above
}

func (e *RateError) Error() string {
	return fmt.Sprintf("resolve rate for %q/%s: %v", e.Employee, e.JobType, e.Reason)
}

func (e *RateError) Unwrap() error { return e.Reason }

// IntervalError reports a malformed work interval.
type IntervalError struct {
	JobType JobType
	Start   time.Time
	End     time.Time
}

func (e *IntervalError) Error() string {
	return fmt.Sprintf("invalid interval for %s: [%s, %s]",
		e.JobType, e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

func (e *IntervalError) Unwrap() error { return ErrInvalidInterval }

// QuantityError reports a missing or non-positive quantity.
type QuantityError struct {
	JobType  JobType
	Quantity float64
}

func (e *QuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %v for %s (must be positive)", e.Quantity, e.JobType)
}

func (e *QuantityError) Unwrap() error { return ErrInvalidQuantity }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is due to invalid caller input.
// Every engine error currently is; the helper exists so the API layer can
// map engine errors to 4xx without enumerating sentinels.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnknownEmployee) ||
		errors.Is(err, ErrUnknownJobType) ||
		errors.Is(err, ErrJobTypeNotAvailable) ||
		errors.Is(err, ErrInvalidInterval) ||
		errors.Is(err, ErrInvalidQuantity)
}

// IsNotFound reports whether the error indicates a missing configuration key.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUnknownEmployee) ||
		errors.Is(err, ErrUnknownJobType) ||
		errors.Is(err, ErrJobTypeNotAvailable)
}
