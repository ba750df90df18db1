package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mertkaya/courselog/internal/app/models/dto"
	"github.com/mertkaya/courselog/internal/config"
)

type contextKey string

// tenantContextKey carries the resolved tenant through the request context.
const tenantContextKey contextKey = "tenant"

// TenantKey is the gin context key holding the resolved tenant id.
const TenantKey = "tenant"

// TenantHeader overrides path-based tenant resolution when it names a known
// tenant.
const TenantHeader = "X-Tenant"

// bypassPrefixes are served without tenant resolution.
var bypassPrefixes = []string{"/images/", "/js/", "/css/"}

// bypassPaths are exact paths served without tenant resolution.
var bypassPaths = []string{"/favicon.ico", "/healthz", "/metrics"}

// TenantResolver determines the active tenant before routing. It wraps the
// router rather than running as a gin middleware because it rewrites the
// request path: once the tenant segment is stripped, downstream routing is
// tenant-agnostic.
type TenantResolver struct {
	tenants map[string]struct{}
}

// NewTenantResolver creates a resolver over the configured tenant set.
func NewTenantResolver(cfg *config.Config) *TenantResolver {
	tenants := make(map[string]struct{}, len(cfg.Tenants))
	for id := range cfg.Tenants {
		tenants[id] = struct{}{}
	}
	return &TenantResolver{tenants: tenants}
}

// Handler resolves the tenant and forwards to next. Resolution order: the
// X-Tenant header wins outright when it names a known tenant; otherwise the
// first path segment is inspected and stripped. Unknown tenants get a 400.
func (t *TenantResolver) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if t.bypass(path) {
			next.ServeHTTP(w, r)
			return
		}

		if header := r.Header.Get(TenantHeader); header != "" {
			if _, ok := t.tenants[header]; ok {
				next.ServeHTTP(w, r.WithContext(withTenant(r.Context(), header)))
				return
			}
		}

		segment, rest := splitFirstSegment(path)
		if _, ok := t.tenants[segment]; !ok {
			writeUnknownTenant(w)
			return
		}

		// Strip the tenant segment so routes are registered tenant-free. The
		// bare tenant root stays as "/". The stripped path goes on a shallow
		// copy so the caller's request is left untouched.
		r2 := r.WithContext(withTenant(r.Context(), segment))
		u2 := *r.URL
		u2.Path = rest
		r2.URL = &u2
		next.ServeHTTP(w, r2)
	})
}

func (t *TenantResolver) bypass(path string) bool {
	for _, p := range bypassPaths {
		if path == p {
			return true
		}
	}
	for _, p := range bypassPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// splitFirstSegment returns the first path segment and the remaining path
// with a leading slash.
func splitFirstSegment(path string) (segment, rest string) {
	trimmed := strings.TrimPrefix(path, "/")
	if idx := strings.IndexByte(trimmed, '/'); idx >= 0 {
		return trimmed[:idx], "/" + strings.TrimPrefix(trimmed[idx:], "/")
	}
	return trimmed, "/"
}

func withTenant(ctx context.Context, tenant string) context.Context {
	return context.WithValue(ctx, tenantContextKey, tenant)
}

// TenantFromRequestContext returns the tenant resolved for this request, if any.
func TenantFromRequestContext(ctx context.Context) (string, bool) {
	tenant, ok := ctx.Value(tenantContextKey).(string)
	return tenant, ok
}

func writeUnknownTenant(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusBadRequest)

	errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnknownTenant, "Unknown tenant")
	errorDetail = errorDetail.WithDetails("Use a known tenant in the URL path or the X-Tenant header")
	_ = json.NewEncoder(w).Encode(dto.NewErrorResponse(errorDetail))
}

// TenantIntoContext copies the resolved tenant from the request context into
// the gin context. Routes behind this middleware can rely on the tenant key
// being present.
func TenantIntoContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := TenantFromRequestContext(c.Request.Context())
		if !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnknownTenant, "Tenant not specified")
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(TenantKey, tenant)
		c.Next()
	}
}

// ResolvedTenant returns the tenant attached to the gin context.
func ResolvedTenant(c *gin.Context) string {
	return c.GetString(TenantKey)
}
