package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mertkaya/courselog/internal/app/models/dto"
	"github.com/mertkaya/courselog/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResolver() *TenantResolver {
	cfg := &config.Config{
		Tenants: map[string]config.TenantConfig{
			"uvu":  {Name: "Utah Valley University"},
			"uofu": {Name: "University of Utah"},
		},
	}
	return NewTenantResolver(cfg)
}

// capture records what the wrapped handler saw.
type capture struct {
	called bool
	path   string
	tenant string
}

func (c *capture) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.called = true
		c.path = r.URL.Path
		c.tenant, _ = TenantFromRequestContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestTenantResolvedFromPath(t *testing.T) {
	var got capture
	handler := testResolver().Handler(got.handler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uvu/courses/mine", nil))

	require.True(t, got.called)
	assert.Equal(t, "uvu", got.tenant)
	assert.Equal(t, "/courses/mine", got.path, "tenant segment must be stripped before routing")
}

func TestTenantBareRootBecomesSlash(t *testing.T) {
	var got capture
	handler := testResolver().Handler(got.handler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uofu", nil))

	require.True(t, got.called)
	assert.Equal(t, "uofu", got.tenant)
	assert.Equal(t, "/", got.path)
}

func TestTenantResolutionLeavesRequestUntouched(t *testing.T) {
	var got capture
	handler := testResolver().Handler(got.handler())

	req := httptest.NewRequest(http.MethodGet, "/uvu/courses/mine", nil)

	// Serving the same request twice must resolve identically both times;
	// stripping the tenant segment in place would break the second pass.
	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), req)
		require.True(t, got.called)
		assert.Equal(t, "uvu", got.tenant)
		assert.Equal(t, "/courses/mine", got.path)
	}
	assert.Equal(t, "/uvu/courses/mine", req.URL.Path)
}

func TestTenantHeaderWins(t *testing.T) {
	var got capture
	handler := testResolver().Handler(got.handler())

	req := httptest.NewRequest(http.MethodGet, "/courses/mine", nil)
	req.Header.Set(TenantHeader, "uofu")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, got.called)
	assert.Equal(t, "uofu", got.tenant)
	assert.Equal(t, "/courses/mine", got.path, "header resolution must not touch the path")
}

func TestTenantUnknownHeaderFallsBackToPath(t *testing.T) {
	var got capture
	handler := testResolver().Handler(got.handler())

	req := httptest.NewRequest(http.MethodGet, "/uvu/courses/mine", nil)
	req.Header.Set(TenantHeader, "mit")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, got.called)
	assert.Equal(t, "uvu", got.tenant)
}

func TestUnknownTenantRejected(t *testing.T) {
	var got capture
	handler := testResolver().Handler(got.handler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mit/courses", nil))

	assert.False(t, got.called)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrorCodeUnknownTenant, resp.Error.Code)
}

func TestBypassPathsSkipResolution(t *testing.T) {
	for _, path := range []string{"/healthz", "/metrics", "/favicon.ico", "/css/site.css", "/js/app.js", "/images/logo.png"} {
		var got capture
		handler := testResolver().Handler(got.handler())

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		require.True(t, got.called, "path %s should bypass tenant resolution", path)
		assert.Empty(t, got.tenant)
		assert.Equal(t, path, got.path)
	}
}
