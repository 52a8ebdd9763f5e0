package errors

import (
	"fmt"
	"net/http"
)

// StatusClientClosedRequest is reported when the caller went away before the
// outcome was known.
const StatusClientClosedRequest = 499

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindBadRequest         ErrorKind = "bad_request"
	KindPayloadTooLarge    ErrorKind = "payload_too_large"
	KindNotFound           ErrorKind = "not_found"
	KindInternal           ErrorKind = "internal"
	KindProcessSpawn       ErrorKind = "process_spawn"
	KindProcessExit        ErrorKind = "process_exit"
	KindOutputParse        ErrorKind = "output_parse"
	KindScriptFailure      ErrorKind = "script_failure"
	KindTimeout            ErrorKind = "timeout"
	KindUpstream           ErrorKind = "upstream"
	KindServiceUnavailable ErrorKind = "service_unavailable"
	KindCanceled           ErrorKind = "canceled"
)

// APIError represents a structured API error response.
// Success is always false; it keeps the shape the front-end checks for.
type APIError struct {
	Success   bool              `json:"success"`
	Kind      ErrorKind         `json:"kind"`
	Message   string            `json:"error"`
	Details   string            `json:"details,omitempty"`
	RawOutput *string           `json:"raw_output,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindNotFound:
		return http.StatusNotFound
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	case KindCanceled:
		return StatusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error with field details
func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Message: message,
		Fields:  fields,
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Kind:    KindBadRequest,
		Message: message,
	}
}

// NewPayloadTooLargeError reports a request body over the configured limit
func NewPayloadTooLargeError(limit int64) *APIError {
	return &APIError{
		Kind:    KindPayloadTooLarge,
		Message: fmt.Sprintf("Request body too large (limit %d MB).", limit>>20),
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Message: message,
	}
}

// NewProcessSpawnError reports an external process that could not be started
func NewProcessSpawnError(message, details string) *APIError {
	return &APIError{
		Kind:    KindProcessSpawn,
		Message: message,
		Details: details,
	}
}

// NewProcessExitError reports a non-zero exit; details carry captured stderr
func NewProcessExitError(message, stderr string) *APIError {
	return &APIError{
		Kind:    KindProcessExit,
		Message: message,
		Details: stderr,
	}
}

// NewOutputParseError reports unparseable process output, kept for debugging
func NewOutputParseError(message, rawOutput string) *APIError {
	return &APIError{
		Kind:      KindOutputParse,
		Message:   message,
		RawOutput: &rawOutput,
	}
}

// NewScriptFailureError reports a script that ran fine but reported failure
// in its own output
func NewScriptFailureError(message string) *APIError {
	return &APIError{
		Kind:    KindScriptFailure,
		Message: message,
	}
}

// NewTimeoutError reports a process that exceeded its time budget
func NewTimeoutError(message string) *APIError {
	return &APIError{
		Kind:    KindTimeout,
		Message: message,
	}
}

// NewUpstreamError reports an unreachable or failing upstream HTTP service
func NewUpstreamError(message string) *APIError {
	return &APIError{
		Kind:    KindUpstream,
		Message: message,
	}
}

// NewServiceUnavailableError creates a service unavailable error
func NewServiceUnavailableError(message string) *APIError {
	return &APIError{
		Kind:    KindServiceUnavailable,
		Message: message,
	}
}

// NewCanceledError reports a request abandoned by the client
func NewCanceledError(message string) *APIError {
	return &APIError{
		Kind:    KindCanceled,
		Message: message,
	}
}
