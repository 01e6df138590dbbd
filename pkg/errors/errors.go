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
	ErrNotFound   = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrConflict   = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal   = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	// ErrNotConfigured means no remote endpoint is set up; the client should
	// route the user to connection setup rather than report a failure.
	ErrNotConfigured = New("NOT_CONFIGURED", http.StatusPreconditionFailed, "remote endpoint is not configured")
	// ErrOffline guards writes that would certainly fail while disconnected.
	ErrOffline = New("OFFLINE", http.StatusServiceUnavailable, "application is offline")
	// ErrRemote covers transient remote failures (network or rejected call).
	ErrRemote = New("REMOTE_ERROR", http.StatusBadGateway, "remote store request failed")
	// ErrDayLocked rejects attendance edits on holiday dates.
	ErrDayLocked = New("DAY_LOCKED", http.StatusConflict, "date is locked by a holiday")
	// ErrFlushInFlight rejects a second flush while one is still running.
	ErrFlushInFlight = New("FLUSH_IN_FLIGHT", http.StatusConflict, "a sync flush is already in progress")

	// ErrCacheMiss is a sentinel for absent cache entries.
	ErrCacheMiss = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	// ErrCacheCorrupt signals an unparsable local snapshot; no recovery is attempted.
	ErrCacheCorrupt = New("CACHE_CORRUPT", http.StatusInternalServerError, "local cache is corrupt")
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
