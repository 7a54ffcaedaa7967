package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/interview-screener/internal/faults"
)

// HTTPStatus maps the shared error taxonomy onto HTTP status codes.
// Malformed input (validation, undecodable audio) is the caller's fault;
// state conflicts are 409; upstream trouble distinguishes retryable
// unavailability from a broken integration.
func HTTPStatus(err error) int {
	var ext *faults.ExternalError
	switch {
	case faults.IsValidation(err), faults.IsDecode(err):
		return http.StatusBadRequest
	case faults.IsNotFound(err):
		return http.StatusNotFound
	case faults.IsState(err):
		return http.StatusConflict
	case errors.As(err, &ext):
		if ext.Transient {
			return http.StatusServiceUnavailable
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorKind labels an error for the machine-readable half of an error body.
func errorKind(err error) string {
	var ext *faults.ExternalError
	switch {
	case faults.IsDecode(err):
		return "audio_decode_error"
	case faults.IsValidation(err):
		return "validation_error"
	case faults.IsNotFound(err):
		return "not_found"
	case faults.IsState(err):
		return "state_conflict"
	case errors.As(err, &ext):
		if ext.Transient {
			return "upstream_unavailable"
		}
		return "upstream_error"
	default:
		return "internal_error"
	}
}

// requestFault converts a validator error into the shared taxonomy so it
// flows through the same response path as every other failure.
func requestFault(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		ve := verrs[0]
		return faults.Validation(ve.Field(), "failed on the %q rule", ve.Tag())
	}
	return faults.Validation("request", "invalid request")
}
