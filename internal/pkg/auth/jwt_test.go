package auth

import (
	"testing"
	"time"

	"github.com/mertkaya/courselog/internal/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *models.User {
	return &models.User{
		ID:       42,
		Username: "teacher1",
		Role:     models.RoleTeacher,
		Tenant:   "uvu",
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: "secret", TokenExp: time.Hour, TokenIssuer: "test"})

	token, expiresIn, err := svc.GenerateToken(testUser())
	require.NoError(t, err)
	assert.Equal(t, 3600, expiresIn)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "teacher1", claims.Username)
	assert.Equal(t, models.RoleTeacher, claims.Role)
	assert.Equal(t, "uvu", claims.Tenant)
	assert.NotEmpty(t, claims.ID)
	assert.InDelta(t, time.Hour, claims.RemainingLife(), float64(5*time.Second))
}

func TestValidateExpiredToken(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: "secret", TokenExp: -time.Minute, TokenIssuer: "test"})

	token, _, err := svc.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWrongKey(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: "secret", TokenExp: time.Hour, TokenIssuer: "test"})
	other := NewJWTService(JWTConfig{SecretKey: "different", TokenExp: time.Hour, TokenIssuer: "test"})

	token, _, err := svc.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ExtractBearerToken("Basic abc")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}
