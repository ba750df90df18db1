package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/mertkaya/courselog/internal/app/models"
	"github.com/mertkaya/courselog/internal/pkg/auth"
	"github.com/mertkaya/courselog/internal/pkg/tokenstore"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newAuthTestServer wires the resolver, auth middleware and one protected
// route per role set, the same shape the real router uses.
func newAuthTestServer(t *testing.T, jwtService *auth.JWTService, tokens *tokenstore.Store) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := NewAuthMiddleware(jwtService, tokens)

	engine := gin.New()
	engine.Use(TenantIntoContext())

	protected := engine.Group("", m.JWTAuth(), m.RequireTenantMatch())
	protected.GET("/whoami", func(c *gin.Context) {
		p := CurrentPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"username": p.Username, "tenant": ResolvedTenant(c)})
	})

	staffOnly := protected.Group("", m.RoleRequired(models.RoleTeacher, models.RoleTA))
	staffOnly.GET("/staff", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return testResolver().Handler(engine)
}

func newTestJWTService(exp time.Duration) *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", TokenExp: exp, TokenIssuer: "test"})
}

func issueToken(t *testing.T, svc *auth.JWTService, role models.Role, tenant string) string {
	t.Helper()
	token, _, err := svc.GenerateToken(&models.User{ID: 7, Username: "someone", Role: role, Tenant: tenant})
	require.NoError(t, err)
	return token
}

func TestJWTAuthMissingToken(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	handler := newAuthTestServer(t, svc, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uvu/whoami", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	expired := newTestJWTService(-time.Minute)
	handler := newAuthTestServer(t, newTestJWTService(time.Hour), nil)

	req := httptest.NewRequest(http.MethodGet, "/uvu/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, expired, models.RoleTeacher, "uvu"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "AUTH_003")
}

func TestJWTAuthCookiePrecedence(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	handler := newAuthTestServer(t, svc, nil)

	// A valid cookie wins even when the header carries garbage.
	req := httptest.NewRequest(http.MethodGet, "/uvu/whoami", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: issueToken(t, svc, models.RoleTeacher, "uvu")})
	req.Header.Set("Authorization", "Bearer garbage")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "someone")
}

func TestJWTAuthBearerFallback(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	handler := newAuthTestServer(t, svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/uvu/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, svc, models.RoleTeacher, "uvu"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireTenantMatchCrossTenant(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	handler := newAuthTestServer(t, svc, nil)

	// Credential issued under uvu, request resolved to uofu.
	req := httptest.NewRequest(http.MethodGet, "/uofu/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, svc, models.RoleTeacher, "uvu"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "AUTHZ_002")
}

func TestRoleRequiredExactMatch(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	handler := newAuthTestServer(t, svc, nil)

	// An admin is denied on a staff-only route that doesn't list admin.
	req := httptest.NewRequest(http.MethodGet, "/uvu/staff", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, svc, models.RoleAdmin, "uvu"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// A TA passes.
	req = httptest.NewRequest(http.MethodGet, "/uvu/staff", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, svc, models.RoleTA, "uvu"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthRevokedToken(t *testing.T) {
	mr := miniredis.RunT(t)
	tokens := tokenstore.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer tokens.Close()

	svc := newTestJWTService(time.Hour)
	handler := newAuthTestServer(t, svc, tokens)

	token := issueToken(t, svc, models.RoleTeacher, "uvu")
	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/uvu/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, tokens.Revoke(context.Background(), claims.ID, time.Hour))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "AUTH_006")
}
