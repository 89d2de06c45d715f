package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Rule loading errors
	ErrSchema    ErrorCode = "SCHEMA"
	ErrRuleParse ErrorCode = "RULE_PARSE"
	ErrIO        ErrorCode = "IO"

	// Strategy errors
	ErrStrategyNotFound ErrorCode = "STRATEGY_NOT_FOUND"
	ErrStrategyExecute  ErrorCode = "STRATEGY_EXECUTE"

	// Generation errors
	ErrCyclicInclude ErrorCode = "CYCLIC_INCLUDE"

	// Fix errors
	ErrApplyFailure ErrorCode = "APPLY_FAILURE"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
)

// EngineError represents a structured error with code and details
type EngineError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *EngineError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *EngineError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *EngineError) Is(target error) bool {
	var targetErr *EngineError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new EngineError with the given code and message
func New(code ErrorCode, message string) *EngineError {
	return &EngineError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new EngineError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *EngineError {
	return &EngineError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an EngineError
func Wrap(err error, code ErrorCode, message string) *EngineError {
	if err == nil {
		return nil
	}
	return &EngineError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *EngineError {
	if err == nil {
		return nil
	}
	return &EngineError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *EngineError) WithDetail(key string, value interface{}) *EngineError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return engineErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an EngineError
func GetErrorCode(err error) ErrorCode {
	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return engineErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an EngineError
func GetErrorDetails(err error) map[string]interface{} {
	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return engineErr.Details
	}
	return nil
}
