package domain

import (
	"errors"
	"net/http"
)

// Error codes shared by startup and request-time failures.
const (
	CodeConfiguration = 1
	CodeDescriptor    = 2
	CodeInvalidCall   = 3
	CodeNotFound      = 4
	CodeValidation    = 5
	CodeInternal      = 6
)

// AppError represents a classified error with a code, message, and optional wrapped error.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped error for use with errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined errors.
//
// Match categories with the IsXxx helpers rather than errors.Is: the helpers
// compare codes, so freshly constructed errors from NewAppError match too.
var (
	ErrNotFound    = &AppError{Code: CodeNotFound, Message: "not found"}
	ErrValidation  = &AppError{Code: CodeValidation, Message: "validation error"}
	ErrInvalidCall = &AppError{Code: CodeInvalidCall, Message: "invalid api call"}
	ErrInternal    = &AppError{Code: CodeInternal, Message: "internal error"}
)

// NewAppError creates a new AppError with the given code, message, and wrapped error.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewConfigurationError reports a startup configuration problem such as a bad
// services directory.
func NewConfigurationError(message string, err error) *AppError {
	return NewAppError(CodeConfiguration, message, err)
}

// IsConfiguration reports whether err is or wraps an AppError with CodeConfiguration.
func IsConfiguration(err error) bool {
	return hasCode(err, CodeConfiguration)
}

// IsDescriptor reports whether err is or wraps an AppError with CodeDescriptor.
func IsDescriptor(err error) bool {
	return hasCode(err, CodeDescriptor)
}

// IsInvalidCall reports whether err is or wraps an AppError with CodeInvalidCall.
func IsInvalidCall(err error) bool {
	return hasCode(err, CodeInvalidCall)
}

// IsNotFound reports whether err is or wraps an AppError with CodeNotFound.
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsValidation reports whether err is or wraps an AppError with CodeValidation.
func IsValidation(err error) bool {
	return hasCode(err, CodeValidation)
}

// IsInternal reports whether err is or wraps an AppError with CodeInternal.
func IsInternal(err error) bool {
	return hasCode(err, CodeInternal)
}

func hasCode(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// HTTPStatusCode maps an error to an HTTP status code.
// Anything that is not a request-level AppError maps to 500.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if err != nil && errors.As(err, &appErr) {
		switch appErr.Code {
		case CodeNotFound:
			return http.StatusNotFound
		case CodeValidation, CodeInvalidCall:
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}
