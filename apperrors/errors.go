// Package apperrors defines the error taxonomy shared by the engine and the HTTP layer.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeInputValidation         Code = "INPUT_VALIDATION"
	CodeStageComputation        Code = "STAGE_COMPUTATION"
	CodeCollaboratorUnavailable Code = "COLLABORATOR_UNAVAILABLE"
	CodeAggregateFailure        Code = "AGGREGATE_FAILURE"
	CodeNotFound                Code = "NOT_FOUND"
	CodeUnauthorized            Code = "UNAUTHORIZED"
	CodeConflict                Code = "CONFLICT"
	CodeInternal                Code = "INTERNAL"
)

// AppError carries a taxonomy code, a caller-safe message and the wrapped cause.
type AppError struct {
	Code       Code
	Message    string
	Field      string
	Stage      string
	StatusCode int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code Code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode(code),
	}
}

func Wrap(err error, code Code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode(code),
		Cause:      err,
	}
}

// InputValidation reports a malformed or missing product field.
func InputValidation(field, message string) *AppError {
	e := New(CodeInputValidation, message)
	e.Field = field
	return e
}

// StageComputation reports a stage that failed and was replaced by its fallback.
func StageComputation(stage string, cause error) *AppError {
	e := Wrap(cause, CodeStageComputation, "stage "+stage+" failed")
	e.Stage = stage
	return e
}

// CollaboratorUnavailable reports an external collaborator that timed out or misbehaved.
func CollaboratorUnavailable(name string, cause error) *AppError {
	e := Wrap(cause, CodeCollaboratorUnavailable, name+" unavailable")
	e.Stage = name
	return e
}

// AggregateFailure reports that neither a stage nor its fallback produced a value.
func AggregateFailure(stage string, cause error) *AppError {
	e := Wrap(cause, CodeAggregateFailure, "analysis failed")
	e.Stage = stage
	return e
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Unauthorized(message string) *AppError {
	return New(CodeUnauthorized, message)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message)
}

func Internal(err error, message string) *AppError {
	return Wrap(err, CodeInternal, message)
}

// As extracts an *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err's chain holds an AppError with the given code.
func HasCode(err error, code Code) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// IsUserVisible reports whether the error may be surfaced to API callers as-is.
func IsUserVisible(err error) bool {
	appErr, ok := As(err)
	if !ok {
		return false
	}
	switch appErr.Code {
	case CodeStageComputation, CodeCollaboratorUnavailable:
		return false
	default:
		return true
	}
}

func statusCode(code Code) int {
	switch code {
	case CodeInputValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeConflict:
		return http.StatusConflict
	case CodeCollaboratorUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
