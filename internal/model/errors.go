package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrNotStaff     = errors.New("user is not a staff member")
	ErrNotStudent   = errors.New("user is not a student")

	// Project errors
	ErrProjectNotFound = errors.New("project not found")
	ErrProjectClosed   = errors.New("project is closed")
	ErrNotProjectOwner = errors.New("user is not the project's owner")

	// Registration errors
	ErrRegistrationNotFound   = errors.New("registration not found")
	ErrAlreadyAssigned        = errors.New("registration is already assigned")
	ErrStudentAlreadyAssigned = errors.New("student is already assigned to a project")
)

// ValidationError reports malformed input that the caller can correct
// and retry. Field names the offending input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

// NewValidationError creates a ValidationError for the given field
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
