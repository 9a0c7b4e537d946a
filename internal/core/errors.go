// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by code, so a wrapped error still matches its base.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Errorf wraps base with a formatted cause.
func Errorf(base *Error, format string, args ...any) *Error {
	return WrapError(base, fmt.Errorf(format, args...))
}

// Predefined errors
var (
	// Input validation
	ErrInvalidWindow     = &Error{Code: "INVALID_WINDOW", Message: "window out of range"}
	ErrInvalidReturnType = &Error{Code: "INVALID_RETURN_TYPE", Message: "unknown return type"}
	ErrInvalidIndicator  = &Error{Code: "INVALID_INDICATOR", Message: "unknown indicator kind"}
	ErrNonFinite         = &Error{Code: "NON_FINITE", Message: "non-finite value in series"}

	// Data errors
	ErrNoData     = &Error{Code: "NO_DATA", Message: "no data available"}
	ErrLoadFailed = &Error{Code: "LOAD_FAILED", Message: "loading prices failed"}

	// Strategy errors
	ErrStrategyNotFound = &Error{Code: "STRATEGY_NOT_FOUND", Message: "strategy not registered"}

	// Archive errors
	ErrArchiveFailed = &Error{Code: "ARCHIVE_FAILED", Message: "archiving run failed"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)
