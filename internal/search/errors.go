package search

import (
	"errors"
	"fmt"
)

// Kind classifies why a search ended in the Error state.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidationFailed
	KindNotFound
	KindRateLimited
	KindServiceUnavailable
	KindUnauthorized
	KindNetworkUnreachable
	KindLocationFailed
)

var kindNames = map[Kind]string{
	KindUnknown:            "unknown",
	KindValidationFailed:   "validation_failed",
	KindNotFound:           "not_found",
	KindRateLimited:        "rate_limited",
	KindServiceUnavailable: "service_unavailable",
	KindUnauthorized:       "unauthorized",
	KindNetworkUnreachable: "network_unreachable",
	KindLocationFailed:     "location_failed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText renders the kind as its snake_case name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// AppError is the single user-visible failure attached to the Error state.
// Message is shown verbatim; Status is the HTTP status for Unknown(status)
// and zero for failures that never reached the network.
type AppError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another *AppError of the same kind, so callers can write
// errors.Is(err, &AppError{Kind: KindNotFound}).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Status == 0 || t.Status == e.Status)
}

// NewError builds an AppError without an underlying cause.
func NewError(kind Kind, msg string) *AppError {
	return &AppError{Kind: kind, Message: msg}
}

// Unknown builds the catch-all error for an unmapped HTTP status.
func Unknown(status int, msg string) *AppError {
	if msg == "" {
		msg = fmt.Sprintf("Request failed with status %d", status)
	}
	return &AppError{Kind: KindUnknown, Status: status, Message: msg}
}

// AsAppError returns err as an *AppError, wrapping anything unclassified as
// KindUnknown with the original message.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{Kind: KindUnknown, Message: err.Error(), Err: err}
}

var (
	// ErrBusy is returned when an action arrives while a request is in flight.
	ErrBusy = errors.New("a request is already in progress")
	// ErrIllegalTransition is returned for a transition the state machine forbids.
	ErrIllegalTransition = errors.New("illegal state transition")
	// ErrStale is returned when a result belongs to a request that was reset away.
	ErrStale = errors.New("result belongs to a superseded request")
	// ErrResetUnsupported is returned by Reset on a controller built without Resettable.
	ErrResetUnsupported = errors.New("reset is not supported by this controller")
)
