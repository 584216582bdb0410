package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrForbidden    = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrConflict     = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation   = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	// ErrMissingSessionTimestamp rejects a validation attempted without the
	// session first-view timestamp. No event is created.
	ErrMissingSessionTimestamp = New("MISSING_SESSION_TIMESTAMP", http.StatusBadRequest, "session first-view timestamp is required")
	// ErrAlreadyRolledBack guards the single-reversal rule on audit events.
	ErrAlreadyRolledBack = New("ALREADY_ROLLED_BACK", http.StatusConflict, "validation event already rolled back")
	// ErrDataLoad signals a failed snapshot refresh; the previous snapshot is retained.
	ErrDataLoad = New("DATA_LOAD_FAILURE", http.StatusBadGateway, "failed to load candidate data")
	// ErrQueueUnavailable is returned when no snapshot has ever been loaded.
	ErrQueueUnavailable = New("QUEUE_UNAVAILABLE", http.StatusServiceUnavailable, "candidate queue not loaded yet")
	// ErrCacheMiss is an internal sentinel for cache lookups.
	ErrCacheMiss = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
