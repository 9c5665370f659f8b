package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for Spark engine errors.
type ErrorCode string

// Tool error codes
const (
	TOOL_NOT_FOUND        ErrorCode = "TOOL_NOT_FOUND"
	TOOL_INVALID_PARAMS   ErrorCode = "TOOL_INVALID_PARAMS"
	TOOL_EXECUTION_FAILED ErrorCode = "TOOL_EXECUTION_FAILED"
	TASK_TIMEOUT          ErrorCode = "TASK_TIMEOUT"
)

// Planning error codes
const (
	PLAN_INVALID            ErrorCode = "PLAN_INVALID"
	PLAN_GENERATION_FAILED  ErrorCode = "PLAN_GENERATION_FAILED"
	DEPENDENCY_UNSATISFIED  ErrorCode = "DEPENDENCY_UNSATISFIED"
	LLM_COMPLETION_FAILED   ErrorCode = "LLM_COMPLETION_FAILED"
	LLM_RESPONSE_UNPARSABLE ErrorCode = "LLM_RESPONSE_UNPARSABLE"
)

// Approval error codes
const (
	APPROVAL_DENIED  ErrorCode = "APPROVAL_DENIED"
	APPROVAL_TIMEOUT ErrorCode = "APPROVAL_TIMEOUT"
)

// Builtin tool failure codes, used by the failure-decision policy.
const (
	SHELL_COMMAND_NOT_FOUND ErrorCode = "SHELL_COMMAND_NOT_FOUND"
	FS_PERMISSION_DENIED    ErrorCode = "FS_PERMISSION_DENIED"
)

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// SparkError is a structured error with an error code, message, and optional
// cause. The Retryable flag is the hint the executor's retry loop keys on:
// validation failures are permanent, execution and timeout faults are not.
type SparkError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface.
// Format: "[CODE] message" or "[CODE] message: cause" if a cause exists.
func (e *SparkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/errors.As chains.
func (e *SparkError) Unwrap() error {
	return e.Cause
}

// Is matches errors by code, so sentinel comparisons work across wrapping.
func (e *SparkError) Is(target error) bool {
	var sparkErr *SparkError
	if errors.As(target, &sparkErr) {
		return e.Code == sparkErr.Code
	}
	return false
}

// NewError creates a non-retryable SparkError.
func NewError(code ErrorCode, message string) *SparkError {
	return &SparkError{
		Code:    code,
		Message: message,
	}
}

// NewRetryableError creates a retryable SparkError. Use this for transient
// faults that may succeed on a later attempt.
func NewRetryableError(code ErrorCode, message string) *SparkError {
	return &SparkError{
		Code:      code,
		Message:   message,
		Retryable: true,
	}
}

// WrapError creates a non-retryable SparkError wrapping an existing error.
func WrapError(code ErrorCode, message string, cause error) *SparkError {
	return &SparkError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapRetryableError creates a retryable SparkError wrapping an existing error.
func WrapRetryableError(code ErrorCode, message string, cause error) *SparkError {
	return &SparkError{
		Code:      code,
		Message:   message,
		Retryable: true,
		Cause:     cause,
	}
}

// CodeOf extracts the ErrorCode from err if it is (or wraps) a SparkError.
// Returns an empty code for nil or untyped errors.
func CodeOf(err error) ErrorCode {
	var sparkErr *SparkError
	if errors.As(err, &sparkErr) {
		return sparkErr.Code
	}
	return ""
}

// IsRetryable reports whether err may succeed on a repeat attempt. Untyped
// errors are treated as retryable; only a SparkError can opt out.
func IsRetryable(err error) bool {
	var sparkErr *SparkError
	if errors.As(err, &sparkErr) {
		return sparkErr.Retryable
	}
	return err != nil
}
