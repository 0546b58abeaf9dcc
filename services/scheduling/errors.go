package scheduling

import "fmt"

// ValidationError covers malformed input rejected before any transaction
// opens: missing ids, empty service lists, non-positive durations.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s", e.Message)
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError covers requests that name real entities in the wrong state:
// inactive employee, service not offered, duplicate same-day booking, cancel
// attempt on a terminal booking.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Message)
}

func NewConflictError(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError covers unknown booking/shop/employee/customer ids, and
// bookings that do not belong to the claimed owner.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Message)
}

func NewNotFoundError(format string, args ...any) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// TransientError covers store/lock contention where retrying the whole
// operation from scratch is safe (every operation re-reads current state).
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func NewTransientError(err error) error {
	return &TransientError{Err: err}
}
