package workflow

import (
	"errors"
	"fmt"
	"strings"
)

// Code standardizes workflow failure semantics across the intervention engine.
// The values are collaborator-facing: the HTTP layer maps them to result codes
// without inspecting messages.
type Code string

const (
	CodeValidation   Code = "validation_failed"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeNotFound     Code = "not_found"
	CodeInvalidState Code = "invalid_state"
	CodeConflict     Code = "conflict"
	CodeInternal     Code = "internal_error"
)

// Error is the canonical workflow error wrapper.
type Error struct {
	Code    Code
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds a workflow error with explicit code + operation.
func NewError(code Code, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap annotates an existing error with workflow error semantics.
func Wrap(code Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

// IsCode checks whether err (or a wrapped err) carries the given code.
func IsCode(err error, code Code) bool {
	var wfErr *Error
	if !errors.As(err, &wfErr) {
		return false
	}
	return wfErr.Code == code
}

// CodeOf extracts the workflow error code, CodeInternal when untyped.
func CodeOf(err error) Code {
	var wfErr *Error
	if !errors.As(err, &wfErr) {
		return CodeInternal
	}
	return wfErr.Code
}
