package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeConflict indicates a conflict with existing data (e.g., unique constraint violation).
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"

	// ErrCodeInvalidCredentials indicates a failed login. By design it does
	// not distinguish an unknown email from a wrong password.
	ErrCodeInvalidCredentials ErrorCode = "invalid_credentials"
	// ErrCodeSessionInvalid indicates an expired, revoked, or malformed
	// primary session token.
	ErrCodeSessionInvalid ErrorCode = "session_invalid"
	// ErrCodeAccessDenied indicates the caller is authenticated but not
	// authorized for the requested resource/action.
	ErrCodeAccessDenied ErrorCode = "access_denied"
	// ErrCodeModuleNotFound indicates the target module is not registered.
	ErrCodeModuleNotFound ErrorCode = "module_not_found"
	// ErrCodeTokenInvalid indicates an SSO token that is expired, already
	// used, or malformed. The three cases are deliberately collapsed.
	ErrCodeTokenInvalid ErrorCode = "token_invalid"
	// ErrCodeUserInactive indicates the user was deactivated between token
	// mint and redemption.
	ErrCodeUserInactive ErrorCode = "user_inactive"
	// ErrCodeStorageUnavailable indicates a transient backend failure.
	// Authorization paths must treat it as deny, never as allow.
	ErrCodeStorageUnavailable ErrorCode = "storage_unavailable"
)

// AppError represents a structured application error with a code, message,
// and optional cause. It supports error wrapping and unwrapping for use with
// errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a new Conflict error.
func Conflict(message string) *AppError {
	return &AppError{Code: ErrCodeConflict, Message: message}
}

// Conflictf creates a new Conflict error with formatted message.
func Conflictf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeConflict, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message}
}

// InvalidCredentials creates the identity-ambiguous login failure.
func InvalidCredentials() *AppError {
	return &AppError{Code: ErrCodeInvalidCredentials, Message: "invalid credentials"}
}

// SessionInvalid creates a new SessionInvalid error.
func SessionInvalid(message string) *AppError {
	return &AppError{Code: ErrCodeSessionInvalid, Message: message}
}

// AccessDenied creates a new AccessDenied error.
func AccessDenied(message string) *AppError {
	return &AppError{Code: ErrCodeAccessDenied, Message: message}
}

// ModuleNotFound creates a new ModuleNotFound error.
func ModuleNotFound(moduleID string) *AppError {
	return &AppError{Code: ErrCodeModuleNotFound, Message: fmt.Sprintf("module %s not found", moduleID)}
}

// TokenInvalid creates the collapsed SSO token failure.
func TokenInvalid() *AppError {
	return &AppError{Code: ErrCodeTokenInvalid, Message: "invalid token"}
}

// UserInactive creates a new UserInactive error.
func UserInactive(userID string) *AppError {
	return &AppError{Code: ErrCodeUserInactive, Message: fmt.Sprintf("user %s is not active", userID)}
}

// StorageUnavailable wraps a transient backend failure.
func StorageUnavailable(err error) *AppError {
	return &AppError{Code: ErrCodeStorageUnavailable, Message: "storage unavailable", Cause: err}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool { return isCode(err, ErrCodeNotFound) }

// IsConflict checks if an error is a Conflict error.
func IsConflict(err error) bool { return isCode(err, ErrCodeConflict) }

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool { return isCode(err, ErrCodeValidation) }

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool { return isCode(err, ErrCodeInternal) }

// IsInvalidCredentials checks if an error is an InvalidCredentials error.
func IsInvalidCredentials(err error) bool { return isCode(err, ErrCodeInvalidCredentials) }

// IsSessionInvalid checks if an error is a SessionInvalid error.
func IsSessionInvalid(err error) bool { return isCode(err, ErrCodeSessionInvalid) }

// IsAccessDenied checks if an error is an AccessDenied error.
func IsAccessDenied(err error) bool { return isCode(err, ErrCodeAccessDenied) }

// IsModuleNotFound checks if an error is a ModuleNotFound error.
func IsModuleNotFound(err error) bool { return isCode(err, ErrCodeModuleNotFound) }

// IsTokenInvalid checks if an error is a TokenInvalid error.
func IsTokenInvalid(err error) bool { return isCode(err, ErrCodeTokenInvalid) }

// IsUserInactive checks if an error is a UserInactive error.
func IsUserInactive(err error) bool { return isCode(err, ErrCodeUserInactive) }

// IsStorageUnavailable checks if an error is a StorageUnavailable error.
func IsStorageUnavailable(err error) bool { return isCode(err, ErrCodeStorageUnavailable) }

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
