package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mertkaya/courselog/internal/app/models/dto"
	"github.com/mertkaya/courselog/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respondWith(t *testing.T, err error) (int, dto.APIResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	HandleAPIError(c, err)

	var resp dto.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   dto.ErrorCode
	}{
		{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{apperrors.ErrCrossTenant, http.StatusForbidden, dto.ErrorCodeCrossTenant},
		{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
		{apperrors.ErrCourseNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{apperrors.ErrUsernameTaken, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{apperrors.ErrAlreadyEnrolled, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{apperrors.ErrUserHasDependencies, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{errors.New("something unexpected"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tc := range cases {
		status, resp := respondWith(t, tc.err)
		assert.Equal(t, tc.status, status, "status for %v", tc.err)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error, "error detail for %v", tc.err)
		assert.Equal(t, tc.code, resp.Error.Code, "code for %v", tc.err)
	}
}

func TestHandleAPIErrorWrappedSentinel(t *testing.T) {
	// Services wrap sentinels with context; the mapping must survive that.
	status, resp := respondWith(t, apperrors.NewCustomError(apperrors.ErrValidationFailed, "cannot delete your own account"))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Error.Code)
	assert.Equal(t, "cannot delete your own account", resp.Error.Message)
}

func TestHandleAPIErrorDeleteReferencedUser(t *testing.T) {
	status, resp := respondWith(t, apperrors.ErrUserHasDependencies)

	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, dto.ErrorCodeResourceAlreadyExists, resp.Error.Code)
}
