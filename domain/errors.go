package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Invalidf is shorthand for validation failures with a formatted message.
func Invalidf(format string, args ...interface{}) *Error {
	return NewError(ErrCodeInvalid, fmt.Sprintf(format, args...))
}

// Common domain errors.
var (
	ErrUserNotFound        = NewError(ErrCodeNotFound, "user not found")
	ErrBugNotFound         = NewError(ErrCodeNotFound, "bug not found")
	ErrFeatureNotFound     = NewError(ErrCodeNotFound, "feature request not found")
	ErrRoadmapItemNotFound = NewError(ErrCodeNotFound, "roadmap item not found")
	ErrMentionNotFound     = NewError(ErrCodeNotFound, "mention not found")
	ErrAttachmentNotFound  = NewError(ErrCodeNotFound, "attachment not found")
	ErrSessionNotFound     = NewError(ErrCodeNotFound, "session not found")

	ErrUnauthorized       = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrInvalidCredentials = NewError(ErrCodeUnauthorized, "invalid email or password")
	ErrInvalidPayload     = NewError(ErrCodeInvalid, "invalid payload")
	ErrInvalidRole        = NewError(ErrCodeInvalid, "role must be one of user, developer, admin")
	ErrAttachmentTooLarge = NewError(ErrCodeInvalid, "attachment exceeds size limit")

	ErrSelfDemotion     = NewError(ErrCodeForbidden, "cannot remove your own admin role")
	ErrSelfDeactivation = NewError(ErrCodeForbidden, "cannot deactivate your own account")
	ErrForbidden        = NewError(ErrCodeForbidden, "insufficient role")

	ErrNotEditing     = NewError(ErrCodeConflict, "no row is being edited")
	ErrAlreadyEditing = NewError(ErrCodeConflict, "another row is already being edited")
	ErrEmailTaken     = NewError(ErrCodeConflict, "email already in use")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
