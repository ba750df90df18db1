package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")
	ErrCrossTenant      = errors.New("cross-tenant access denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrUnknownTenant    = errors.New("unknown tenant")
	ErrBadRequest       = errors.New("bad request")
)

// User errors
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUsernameTaken       = errors.New("username already exists")
	ErrStudentIDTaken      = errors.New("student ID already exists")
	ErrInvalidStudentID    = errors.New("invalid student ID format")
	ErrInvalidRole         = errors.New("invalid role")
	ErrUserHasDependencies = errors.New("user has associated data and cannot be deleted")
)

// Course errors
var (
	ErrCourseNotFound         = errors.New("course not found")
	ErrCourseCodeTaken        = errors.New("course with this code already exists")
	ErrAlreadyEnrolled        = errors.New("already enrolled in this course")
	ErrNotEnrolled            = errors.New("not enrolled in this course")
	ErrAlreadyAssigned        = errors.New("already assigned to this course")
	ErrNotAssigned            = errors.New("not assigned to this course")
	ErrTeacherAlreadyAssigned = errors.New("course already has a teacher assigned")
	ErrStudentNotInCourse     = errors.New("student is not enrolled in this course")
)

// Log errors
var (
	ErrLogNotFound = errors.New("log not found")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}
