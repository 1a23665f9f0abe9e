/*
Package errs provides custom error types and application-level error code constants.

This file defines CustomError, which carries a business code, a client-facing message and the
HTTP status used when the error ends an HTTP request. Over WebSocket only code and message are sent.
*/
package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"bingohub/internal/pkg/logx"
)

// CustomError is the error type returned to clients.
type CustomError struct {
	// Code is the business error code (see constants definition).
	Code int

	// Message is the user-friendly error description.
	Message string

	// Status is the HTTP status code used for REST responses.
	Status int

	// cause is the underlying error, kept for logs only.
	cause error
}

// Error implements the error interface.
func (e *CustomError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("error %d (HTTP %d): %s: %v", e.Code, e.Status, e.Message, e.cause)
	}
	return fmt.Sprintf("error %d (HTTP %d): %s", e.Code, e.Status, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *CustomError) Unwrap() error {
	return e.cause
}

// Is matches any CustomError carrying the same code, so errors.Is(err, errs.NewError(code)) works.
func (e *CustomError) Is(target error) bool {
	var t *CustomError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewError builds a CustomError from the template registered for code.
// details fill the printf verbs of the template message. Unknown codes yield ErrUnknown.
func NewError(code int, details ...any) *CustomError {
	tmpl, ok := errorMap[code]
	if !ok {
		logx.Error(
			fmt.Errorf("error code %d is not registered", code),
			"Unknown error code requested",
			"requested_code", code,
		)
		tmpl = errorMap[ErrUnknown]
	}

	e := tmpl
	if e.Status == 0 {
		e.Status = http.StatusOK
	}

	if len(details) > 0 {
		if strings.Contains(e.Message, "%") {
			e.Message = fmt.Sprintf(e.Message, details...)
		} else {
			logx.Warn("Details provided for an error template without placeholders. Details ignored.", "code", code)
		}
	}

	return &e
}

// Wrap builds a CustomError for code that keeps err as its cause.
func Wrap(code int, err error) *CustomError {
	e := NewError(code)
	e.cause = err
	return e
}

// From converts any error into a CustomError, mapping foreign errors to ErrUnknown.
func From(err error) *CustomError {
	if err == nil {
		return nil
	}

	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr
	}
	return Wrap(ErrUnknown, err)
}
