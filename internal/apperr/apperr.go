// Package apperr defines the error codes that cross the HTTP boundary.
package apperr

import (
	"errors"
	"net/http"
)

// Code classifies a failure for the caller.
type Code string

const (
	RateLimit Code = "RATE_LIMIT"
	Auth      Code = "AUTH"
	Timeout   Code = "TIMEOUT"
	Unknown   Code = "UNKNOWN"
)

// HTTPStatus maps a code onto the status returned to clients.
func (c Code) HTTPStatus() int {
	switch c {
	case RateLimit:
		return http.StatusTooManyRequests
	case Auth:
		return http.StatusUnauthorized
	case Timeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether a caller may retry the request after a delay.
func (c Code) Retryable() bool {
	return c == RateLimit || c == Timeout
}

// Message is the fixed user-facing text for a code.
func (c Code) Message() string {
	switch c {
	case RateLimit:
		return "Too many requests. Please try again in a minute."
	case Auth:
		return "API authorization failed. Please try again later."
	case Timeout:
		return "The analysis is taking too long. Please retry."
	default:
		return "We couldn't complete the analysis right now. Please try again."
	}
}

// Error is a classified failure with a message safe to show to users.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// New returns an Error carrying the standard message for code.
func New(code Code) *Error {
	return &Error{Code: code, Message: code.Message()}
}

// From returns the *Error in err's chain, or an UNKNOWN error when there is
// none. A nil err yields nil.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return New(Unknown)
}

// CodeOf is shorthand for From(err).Code. It returns Unknown for nil.
func CodeOf(err error) Code {
	if ae := From(err); ae != nil {
		return ae.Code
	}
	return Unknown
}

// Body is the JSON error envelope: {"error": {"code": ..., "message": ...}}.
type Body struct {
	Error *Error `json:"error"`
}
