package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the typed application error carried from the services up to the
// HTTP layer. Code is a stable machine-readable identifier, Status the HTTP
// status a handler should answer with.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches two application errors by code, so
// errors.Is(err, ErrNotFound) holds for any clone or wrap of the sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e != nil && e.Code == t.Code
}

// New builds a fresh application error.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap classifies an underlying error under a code/status pair while keeping
// it reachable through Unwrap.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Clone copies a sentinel with an optional message override; the original
// sentinel is never mutated.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	out := *err
	if message != "" {
		out.Message = message
	}
	return &out
}

// Sentinels for the scheduling error taxonomy. InvalidRange covers boundary
// preconditions (inverted ranges, non-positive durations); DataSource covers
// any failed fetch from the backing store, which is never retried here.
var (
	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrConflict     = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation   = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInvalidRange = New("INVALID_RANGE", http.StatusBadRequest, "invalid date range or duration")
	ErrDataSource   = New("DATA_SOURCE_ERROR", http.StatusServiceUnavailable, "data source unavailable")
	ErrCacheMiss    = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// FromError normalises any error into an *Error; unknown errors map to the
// internal sentinel so handlers never leak raw driver messages.
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
