package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mertkaya/courselog/internal/app/models/dto"
	"github.com/mertkaya/courselog/internal/pkg/apperrors"
)

// HandleAPIError maps service/repository errors onto the response envelope.
// Handlers call this for any error they don't translate themselves, so the
// status-code taxonomy lives in one place.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	// 400 validation failures
	case errors.Is(err, apperrors.ErrUnknownTenant):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeUnknownTenant, "Unknown tenant")
	case errors.Is(err, apperrors.ErrInvalidStudentID):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Invalid student ID format")
	case errors.Is(err, apperrors.ErrInvalidRole):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Invalid role")
	case errors.Is(err, apperrors.ErrStudentNotInCourse):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Student is not enrolled in this course")
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, err.Error())

	// 401 authentication failures
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenRevoked):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeRevokedToken, "Token revoked")
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrTokenNotFound):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")

	// 403 authorization failures
	case errors.Is(err, apperrors.ErrCrossTenant):
		respondError(c, http.StatusForbidden, dto.ErrorCodeCrossTenant, "Access denied: invalid tenant")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respondError(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied")

	// 404 not found under the scoped filter
	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrCourseNotFound),
		errors.Is(err, apperrors.ErrLogNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, err.Error())

	// 409 conflicts and membership idempotence guards
	case errors.Is(err, apperrors.ErrUsernameTaken):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Username already exists")
	case errors.Is(err, apperrors.ErrStudentIDTaken):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Student ID already exists")
	case errors.Is(err, apperrors.ErrCourseCodeTaken):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Course code already exists")
	case errors.Is(err, apperrors.ErrAlreadyEnrolled),
		errors.Is(err, apperrors.ErrAlreadyAssigned),
		errors.Is(err, apperrors.ErrTeacherAlreadyAssigned),
		errors.Is(err, apperrors.ErrNotEnrolled),
		errors.Is(err, apperrors.ErrNotAssigned),
		errors.Is(err, apperrors.ErrUserHasDependencies),
		errors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, err.Error())

	default:
		respondError(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func respondError(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}
