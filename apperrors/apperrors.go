// Package apperrors holds the failure kinds returned by the service layer and
// the payload they are rendered to at the HTTP boundary.
//
// Single-message failures (not found, authentication, unreadable request) are
// plain go-utils *errs.AppError values. Field validation adds the list of
// field errors on top of the same AppError.
package apperrors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/umakantv/go-utils/errs"
)

// FieldError is one field-level problem found while validating a request
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Collector accumulates field errors so that every problem in a request is
// reported together instead of stopping at the first one.
type Collector struct {
	errors []FieldError
}

// Add records a problem with field
func (c *Collector) Add(field, message string) {
	c.errors = append(c.errors, FieldError{Field: field, Message: message})
}

// Empty reports whether nothing has been recorded
func (c *Collector) Empty() bool {
	return len(c.errors) == 0
}

// Failure converts the collected errors into a *ValidationFailure with the
// given summary, or returns nil when nothing was collected.
func (c *Collector) Failure(message string) error {
	if c.Empty() {
		return nil
	}
	fields := make([]FieldError, len(c.errors))
	copy(fields, c.errors)
	return &ValidationFailure{
		AppError: errs.AppError{Code: http.StatusBadRequest, Message: message},
		Errors:   fields,
	}
}

// ValidationFailure is returned when a request is rejected before any write
type ValidationFailure struct {
	errs.AppError
	Errors []FieldError
}

func (f *ValidationFailure) Error() string {
	parts := make([]string, len(f.Errors))
	for i, e := range f.Errors {
		parts[i] = e.Field + ": " + e.Message
	}
	return f.Message + ": " + strings.Join(parts, "; ")
}

// HasField reports whether one of the errors is about field
func (f *ValidationFailure) HasField(field string) bool {
	for _, e := range f.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

// BadRequest is returned for a request that could not be read at all,
// e.g. a malformed body or a non-numeric path id.
func BadRequest(message string) *errs.AppError {
	return &errs.AppError{Code: http.StatusBadRequest, Message: message}
}

// Response is the JSON body written for every failed request
type Response struct {
	Status  int          `json:"status"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// ToResponse maps a service error to its HTTP status and payload.
// ok is false for errors that are neither a *ValidationFailure nor an
// *errs.AppError.
func ToResponse(err error) (resp Response, ok bool) {
	var vf *ValidationFailure
	if errors.As(err, &vf) {
		return Response{Status: vf.Code, Message: vf.Message, Errors: vf.Errors}, true
	}
	var ae *errs.AppError
	if errors.As(err, &ae) {
		status := ae.Code
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return Response{Status: status, Message: ae.Message}, true
	}
	return Response{}, false
}
