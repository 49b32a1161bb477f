package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeNotFound           = "not_found"
	CodePrecondition       = "precondition_failed"
	CodeUpstreamGeneration = "upstream_generation_failed"
	CodeInvalidTransition  = "invalid_transition"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf(format, args...))
}

func Precondition(format string, args ...any) *Error {
	return New(http.StatusUnprocessableEntity, CodePrecondition, fmt.Errorf(format, args...))
}

// Upstream wraps a failure from an external generator or search dependency.
func Upstream(err error) *Error {
	return New(http.StatusBadGateway, CodeUpstreamGeneration, err)
}

func InvalidTransition(format string, args ...any) *Error {
	return New(http.StatusBadRequest, CodeInvalidTransition, fmt.Errorf(format, args...))
}

// CodeOf returns the taxonomy code carried by err, or "" for plain errors.
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// StatusOf returns the HTTP status for err, defaulting to 500.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}
