// Package domainerrors provides coded errors for the service.
//
// Services return these so transports can translate outcomes into stable,
// machine-readable codes without string matching. Stores return
// pkg/platform/sentinel errors; services translate them here.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a category of failure. Codes are part of the public API:
// callers dispatch on them, so existing values must not change.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeValidation         Code = "validation_failed"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeInvariantViolation Code = "invariant_violation"
	CodeUnavailable        Code = "unavailable"
	CodeRateLimited        Code = "rate_limited"
	CodeInternal           Code = "internal_error"

	// Event lifecycle codes. Each rejected precondition surfaces its own
	// code so callers can tell "not authorized" from "too early" from
	// "already settled".
	CodeDuplicateEvent       Code = "duplicate_event"
	CodeUnknownEvent         Code = "unknown_event"
	CodeInsufficientDeposit  Code = "insufficient_deposit"
	CodeEventAlreadyOccurred Code = "event_already_occurred"
	CodeEventFull            Code = "event_full"
	CodeAlreadyRsvped        Code = "already_rsvped"
	CodeNoRsvpToConfirm      Code = "no_rsvp_to_confirm"
	CodeAlreadyClaimed       Code = "already_claimed"
	CodeAlreadyPaidOut       Code = "already_paid_out"
	CodeTooEarly             Code = "too_early"
	CodeNotAuthorized        Code = "not_authorized"
	CodeTransferFailed       Code = "transfer_failed"
)

// Error is a coded domain error. The message is safe to show to callers
// except for CodeInternal, where transports substitute a generic message.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a coded error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause for errors.Is/errors.As chains.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias of HasCode kept for call-site readability.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf extracts the code from err, or CodeInternal if err is not coded.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the caller-facing message from err, or "" if uncoded.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}

// ToHTTPStatus maps a code to the HTTP status transports should return.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeInvalidInput, CodeValidation, CodeInsufficientDeposit:
		return http.StatusBadRequest
	case CodeNotFound, CodeUnknownEvent, CodeNoRsvpToConfirm:
		return http.StatusNotFound
	case CodeConflict, CodeDuplicateEvent, CodeEventFull, CodeAlreadyRsvped,
		CodeAlreadyClaimed, CodeAlreadyPaidOut, CodeEventAlreadyOccurred,
		CodeTooEarly, CodeInvariantViolation:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden, CodeNotAuthorized:
		return http.StatusForbidden
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeUnavailable, CodeTransferFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
