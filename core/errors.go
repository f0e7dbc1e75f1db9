package core

import (
	"net/http"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// APIError is a non-2xx answer from the remote fee API.
// Message is whatever the server put in its body and may be empty.
type APIError struct {
	Status  int
	Message string
}

func (err *APIError) Error() string {
	if err.Message != "" {
		return err.Message
	}
	if txt := http.StatusText(err.Status); txt != "" {
		return txt
	}
	return "unexpected response from server"
}

// NetworkError means the remote fee API could not be reached at all.
type NetworkError struct {
	Err error
}

func (err *NetworkError) Error() string {
	return "network failure: " + err.Err.Error()
}

func (err *NetworkError) Unwrap() error { return err.Err }

// AsAPIError returns the APIError at the root of err, if any.
func AsAPIError(err error) (*APIError, bool) {
	apiErr, ok := errors.Cause(err).(*APIError)
	return apiErr, ok
}

// IsUnauthorized reports an authentication failure: the server rejected our token.
func IsUnauthorized(err error) bool {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Status == http.StatusUnauthorized
	}
	return false
}

func IsNetworkFailure(err error) bool {
	_, ok := errors.Cause(err).(*NetworkError)
	return ok
}

// ErrorMessage extracts a user-facing message from err, or returns fallback.
func ErrorMessage(err error, fallback string) string {
	if apiErr, ok := AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	if vErr, ok := errors.Cause(err).(*ValidationError); ok && vErr.Error() != "" {
		return vErr.Error()
	}
	return fallback
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
