package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is the error shape returned to HTTP clients.
type APIError struct {
	Status   int    `json:"-"`
	Message  string `json:"error"`
	Details  any    `json:"details,omitempty"`
	Internal error  `json:"-"`
}

func (e *APIError) Error() string {
	if e.Internal != nil {
		return e.Message + ": " + e.Internal.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Internal
}

func newAPIError(status int, message string, err error) *APIError {
	return &APIError{Status: status, Message: message, Internal: err}
}

func BadRequest(message string, err error) *APIError {
	return newAPIError(http.StatusBadRequest, message, err)
}

func Unauthorized(message string, err error) *APIError {
	return newAPIError(http.StatusUnauthorized, message, err)
}

func Forbidden(message string, err error) *APIError {
	return newAPIError(http.StatusForbidden, message, err)
}

func NotFound(message string, err error) *APIError {
	return newAPIError(http.StatusNotFound, message, err)
}

func Conflict(message string, err error) *APIError {
	return newAPIError(http.StatusConflict, message, err)
}

func UnprocessableEntity(message string, err error) *APIError {
	return newAPIError(http.StatusUnprocessableEntity, message, err)
}

func Internal(err error) *APIError {
	return newAPIError(http.StatusInternalServerError, "Internal server error", err)
}

// NewValidationError wraps a binding error from gin as a 422.
func NewValidationError(err error) *APIError {
	apiErr := newAPIError(http.StatusUnprocessableEntity, "Validation failed", err)
	if err != nil {
		apiErr.Details = err.Error()
	}
	return apiErr
}

// ValidationError is malformed input to a mutation. Nothing is changed when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

func Invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError is a referenced entity that does not exist at mutation time.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func Missing(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError is a unique constraint violation the caller can act on.
// Slug collisions on create are resolved by suffixing and never produce it.
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	if e.Field == "slug" {
		return fmt.Sprintf("slug already taken: %s", e.Value)
	}
	return fmt.Sprintf("%s already taken: %s", e.Field, e.Value)
}

func Taken(field, value string) *ConflictError {
	return &ConflictError{Field: field, Value: value}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// ToAPIError maps any error onto the HTTP error shape.
func ToAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var v *ValidationError
	if errors.As(err, &v) {
		e := UnprocessableEntity(v.Reason, err)
		if v.Field != "" {
			e.Details = map[string]string{"field": v.Field}
		}
		return e
	}

	var nf *NotFoundError
	if errors.As(err, &nf) {
		return NotFound(fmt.Sprintf("%s not found", nf.Entity), err)
	}

	var c *ConflictError
	if errors.As(err, &c) {
		return Conflict(c.Error(), err)
	}

	return Internal(err)
}
