// Package apperror defines the coded error taxonomy shared by the domain
// packages and its mapping onto HTTP responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Error kinds. Every *Error unwraps to exactly one of these, so callers can
// test for a whole family with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrInternal        = errors.New("internal error")
)

// Code is a stable, machine-readable error identifier.
type Code string

const (
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeInvalidCount       Code = "INVALID_COUNT"
	CodeUnknownRegion      Code = "UNKNOWN_REGION"
	CodeUnknownCategory    Code = "UNKNOWN_CATEGORY"
	CodeUnknownSymptom     Code = "UNKNOWN_SYMPTOM"
	CodeUnknownSeverity    Code = "UNKNOWN_SEVERITY"
	CodeUnknownDuration    Code = "UNKNOWN_DURATION"
	CodeEmptySymptomSet    Code = "EMPTY_SYMPTOM_SET"
	CodeMalformedDirectory Code = "MALFORMED_DIRECTORY"
	CodeNotFound           Code = "NOT_FOUND"
	CodeConflict           Code = "CONFLICT"
	CodeForbidden          Code = "FORBIDDEN"
	CodeRateLimited        Code = "RATE_LIMITED"
	CodePayloadTooLarge    Code = "PAYLOAD_TOO_LARGE"
	CodeTimeout            Code = "TIMEOUT"
	CodeInternal           Code = "INTERNAL"
)

// Error is a coded application error.
type Error struct {
	Code    Code
	Message string
	Details []string
	kind    error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.kind
}

// WithDetails returns a copy of e carrying per-field detail messages.
func (e *Error) WithDetails(details ...string) *Error {
	cp := *e
	cp.Details = append([]string(nil), details...)
	return &cp
}

func newError(kind error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, kind: kind}
}

func InvalidArgument(code Code, msg string) *Error { return newError(ErrInvalidArgument, code, msg) }
func NotFound(code Code, msg string) *Error        { return newError(ErrNotFound, code, msg) }
func Conflict(code Code, msg string) *Error        { return newError(ErrConflict, code, msg) }
func Forbidden(code Code, msg string) *Error       { return newError(ErrForbidden, code, msg) }
func Internal(code Code, msg string) *Error        { return newError(ErrInternal, code, msg) }

// CodeOf returns the code of the first *Error in err's chain, or
// CodeInternal when there is none.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// StatusOf maps an error to its HTTP status code.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

// Response is the JSON body written for every failed request.
type Response struct {
	Code      Code     `json:"code"`
	Message   string   `json:"message"`
	Details   []string `json:"details,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

// Render converts err into a status code and response body. Internal errors
// are not echoed back to the client.
func Render(err error) (int, Response) {
	status := StatusOf(err)

	var appErr *Error
	if errors.As(err, &appErr) && status < http.StatusInternalServerError {
		return status, Response{Code: appErr.Code, Message: err.Error(), Details: appErr.Details}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code < http.StatusInternalServerError {
			return he.Code, Response{Code: codeForStatus(he.Code), Message: fmt.Sprint(he.Message)}
		}
		return he.Code, Response{Code: codeForStatus(he.Code), Message: strings.ToLower(http.StatusText(he.Code))}
	}

	return http.StatusInternalServerError, Response{Code: CodeInternal, Message: "internal server error"}
}

func codeForStatus(status int) Code {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return CodeInvalidArgument
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusForbidden, http.StatusUnauthorized:
		return CodeForbidden
	case http.StatusTooManyRequests:
		return CodeRateLimited
	case http.StatusRequestEntityTooLarge:
		return CodePayloadTooLarge
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return CodeTimeout
	}
	return CodeInternal
}

// HTTPErrorHandler returns an echo error handler that writes Response bodies
// and logs server-side failures.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := Render(err)
		body.RequestID, _ = c.Get("request_id").(string)

		if status >= http.StatusInternalServerError {
			logger.Error().
				Err(err).
				Str("request_id", body.RequestID).
				Str("path", c.Request().URL.Path).
				Msg("request failed")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.Error().Err(writeErr).Msg("failed to write error response")
		}
	}
}
