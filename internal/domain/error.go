package domain

import (
	"errors"
	"fmt"
)

var (
	// Error kinds. Every error returned by a use case matches exactly one of these via errors.Is.
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("entity not found")
	ErrStorage    = errors.New("storage failure")
	ErrForbidden  = errors.New("forbidden")

	ErrInvalidExecContext = errors.New("invalid execution context")
)

// Reason refines a kind so callers can render an actionable message.
type Reason string

const (
	ReasonNone                   Reason = ""
	ReasonAlreadyActive          Reason = "already_active"
	ReasonPendingConfirmation    Reason = "pending_confirmation"
	ReasonCancellationInProgress Reason = "cancellation_in_progress"
	ReasonMembershipExpired      Reason = "membership_expired"
	ReasonInvalidState           Reason = "invalid_state"
	ReasonAlreadyReceived        Reason = "already_received"
	ReasonStaleState             Reason = "stale_state"
)

// Error is the concrete error type of the domain layer.
type Error struct {
	Kind   error
	Reason Reason
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(reason Reason, format string, args ...any) error {
	return &Error{Kind: ErrConflict, Reason: reason, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(what string) error {
	return &Error{Kind: ErrNotFound, Msg: what + " not found"}
}

func Forbidden(format string, args ...any) error {
	return &Error{Kind: ErrForbidden, Msg: fmt.Sprintf(format, args...)}
}

// Storage wraps a driver error. Retrying the whole operation is safe.
func Storage(op string, err error) error {
	return &Error{Kind: ErrStorage, Msg: op, Err: err}
}

// ReasonOf extracts the Reason carried by err, if any.
func ReasonOf(err error) Reason {
	var de *Error
	if errors.As(err, &de) {
		return de.Reason
	}
	return ReasonNone
}
