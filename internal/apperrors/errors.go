package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind discriminates engine errors so handlers and callers can react without
// string matching.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindConflict        Kind = "conflict"
	KindStateTransition Kind = "state_transition"
	KindReconciliation  Kind = "reconciliation"
	KindExternal        Kind = "external"
	KindNotFound        Kind = "not_found"
)

// Error is the engine's discriminated error: a kind, a human-readable message,
// the offending field when there is one, and an optional detail payload
// (e.g. the colliding date range on a conflict).
type Error struct {
	Kind    Kind        `json:"kind"`
	Message string      `json:"message"`
	Field   string      `json:"field,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Message: message, Field: field}
}

func Validationf(field, format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...), Field: field}
}

// ConflictDetails carries enough context for the caller to pick another range.
type ConflictDetails struct {
	VehicleID int    `json:"vehicle_id,omitempty"`
	DriverID  int    `json:"driver_id,omitempty"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func Conflict(message string, details ConflictDetails) *Error {
	return &Error{Kind: KindConflict, Message: message, Details: details}
}

func StateTransition(current, requested string) *Error {
	return &Error{
		Kind:    KindStateTransition,
		Message: fmt.Sprintf("cannot perform %q while reservation is %q", requested, current),
	}
}

func Reconciliation(message string) *Error {
	return &Error{Kind: KindReconciliation, Message: message}
}

func External(message string, err error) *Error {
	if err != nil {
		message = fmt.Sprintf("%s: %v", message, err)
	}
	return &Error{Kind: KindExternal, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// AsError unwraps err into *Error if it is (or wraps) one.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// StatusCode maps an error to the HTTP status handlers should respond with.
func StatusCode(err error) int {
	e, ok := AsError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindStateTransition, KindReconciliation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
