package xsched

import (
	"errors"
	"fmt"
	"strings"
)

// Machine-readable codes produced by the client itself. Codes returned in an
// API error body are passed through as-is.
const (
	CodeHTTPError    = "http_error"
	CodeTimeout      = "timeout"
	CodeNetworkError = "network_error"
	CodeUploadFailed = "upload_failed"
)

// APIError is the single error kind returned by every API call.
//
// Status is the HTTP status of the response, 408 for a timeout and 0 when no
// response was received at all. Callers should branch on Code, not Message.
type APIError struct {
	Message string
	Code    string
	Status  int
	Details any
	Err     error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("%s (%s, status %d)", e.Message, e.Code, e.Status)
}

func (e *APIError) Unwrap() error { return e.Err }

// ErrorCode returns the machine code of err if it is an *APIError, otherwise "".
func ErrorCode(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// IsTimeout reports whether err is an API call that timed out.
func IsTimeout(err error) bool {
	return ErrorCode(err) == CodeTimeout
}

// IsNotFound reports whether the server answered 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 404
}

// MissingEnvError is returned when required configuration is missing.
type MissingEnvError struct {
	Component string
	Variables []string
}

func (e MissingEnvError) Error() string {
	if len(e.Variables) == 0 {
		return fmt.Sprintf("%s not configured", e.Component)
	}
	return fmt.Sprintf("%s not configured (missing %s)", e.Component, strings.Join(e.Variables, ", "))
}

// ValidationError captures client-side input problems detected before a request is sent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
