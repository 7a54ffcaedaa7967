// Package faults defines the error taxonomy shared by the interview pipeline:
// validation, not-found, audio decode, state, and external-service failures.
// The server maps these to HTTP statuses; the orchestrator uses the
// transient/fatal split to decide what may be retried.
package faults

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError indicates a malformed or missing request field.
// Never retried; returned immediately to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// Validation builds a ValidationError for a field.
func Validation(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError indicates a referenced resource (candidate, question,
// stored audio object) does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NotFound builds a NotFoundError.
func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// DecodeError indicates unreadable or corrupt input audio. The core never
// retries a decode failure; the caller may resubmit different bytes.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("audio decode error: %s", e.Reason)
}

// Decode builds a DecodeError.
func Decode(format string, args ...any) *DecodeError {
	return &DecodeError{Reason: fmt.Sprintf(format, args...)}
}

// StateError indicates a requested transition is invalid for the session's
// current state. Always surfaced, never retried automatically.
type StateError struct {
	Operation string
	Current   string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("operation %s not allowed in state %s", e.Operation, e.Current)
}

// State builds a StateError.
func State(operation, current string) *StateError {
	return &StateError{Operation: operation, Current: current}
}

// ExternalError indicates a failure from one of the external collaborators
// (document parser, synthesizer, transcriber, analyst). Transient failures
// (timeouts, rate limits, 5xx) may be retried with bounded backoff for
// idempotent calls; fatal failures (permission denied, malformed request)
// propagate immediately.
type ExternalError struct {
	Service   string
	Transient bool
	Err       error
}

func (e *ExternalError) Error() string {
	kind := "fatal"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("%s service error (%s): %v", e.Service, kind, e.Err)
}

func (e *ExternalError) Unwrap() error {
	return e.Err
}

// Transient wraps err as a retryable external-service failure.
func Transient(service string, err error) *ExternalError {
	return &ExternalError{Service: service, Transient: true, Err: err}
}

// Fatal wraps err as a non-retryable external-service failure.
func Fatal(service string, err error) *ExternalError {
	return &ExternalError{Service: service, Transient: false, Err: err}
}

// FromStatus classifies a non-2xx HTTP response from an external service.
// Rate limiting and server-side failures are transient; everything else
// means the request itself was wrong and a retry cannot help.
func FromStatus(service string, status int, detail string) *ExternalError {
	err := fmt.Errorf("HTTP status %d: %s", status, detail)
	if status == http.StatusTooManyRequests || status >= 500 {
		return Transient(service, err)
	}
	return Fatal(service, err)
}

// IsTransient reports whether err is (or wraps) a transient external-service
// failure. Every other error kind is non-retryable.
func IsTransient(err error) bool {
	var ext *ExternalError
	return errors.As(err, &ext) && ext.Transient
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsState reports whether err is (or wraps) a StateError.
func IsState(err error) bool {
	var st *StateError
	return errors.As(err, &st)
}

// IsDecode reports whether err is (or wraps) a DecodeError.
func IsDecode(err error) bool {
	var d *DecodeError
	return errors.As(err, &d)
}
