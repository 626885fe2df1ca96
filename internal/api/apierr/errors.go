package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/projalloc/projalloc/internal/model"
	"github.com/projalloc/projalloc/internal/services/identity"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest         = "INVALID_REQUEST"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeInvalidCredentials     = "INVALID_CREDENTIALS"
	CodeUsernameExists         = "USERNAME_EXISTS"
	CodeUserNotFound           = "USER_NOT_FOUND"
	CodeProjectNotFound        = "PROJECT_NOT_FOUND"
	CodeRegistrationNotFound   = "REGISTRATION_NOT_FOUND"
	CodeNotStaff               = "NOT_STAFF"
	CodeNotStudent             = "NOT_STUDENT"
	CodeNotProjectOwner        = "NOT_PROJECT_OWNER"
	CodeProjectClosed          = "PROJECT_CLOSED"
	CodeAlreadyAssigned        = "ALREADY_ASSIGNED"
	CodeStudentAlreadyAssigned = "STUDENT_ALREADY_ASSIGNED"
	CodeInternalError          = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Describe maps an error to its stable code and message without
// writing a response. Used for per-item outcomes in batch reports.
func Describe(err error) APIError {
	return toHTTPError(err).apiError
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, ve.Error()}}
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrProjectNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeProjectNotFound, "Project not found"}}
	case errors.Is(err, model.ErrRegistrationNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRegistrationNotFound, "Registration not found"}}
	case errors.Is(err, model.ErrNotStaff):
		return &httpError{http.StatusForbidden, APIError{CodeNotStaff, "Only staff members can perform this action"}}
	case errors.Is(err, model.ErrNotStudent):
		return &httpError{http.StatusForbidden, APIError{CodeNotStudent, "Only students can perform this action"}}
	case errors.Is(err, model.ErrNotProjectOwner):
		return &httpError{http.StatusForbidden, APIError{CodeNotProjectOwner, "Only the project's owner can perform this action"}}
	case errors.Is(err, model.ErrProjectClosed):
		return &httpError{http.StatusConflict, APIError{CodeProjectClosed, "Project is closed to new registrations and assignments"}}
	case errors.Is(err, model.ErrAlreadyAssigned):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyAssigned, "Registration is already assigned"}}
	case errors.Is(err, model.ErrStudentAlreadyAssigned):
		return &httpError{http.StatusConflict, APIError{CodeStudentAlreadyAssigned, "Student is already assigned to another project"}}

	// Map identity errors
	case errors.Is(err, identity.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, identity.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, identity.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
