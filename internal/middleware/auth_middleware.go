package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	appauth "github.com/mertkaya/courselog/internal/app/auth"
	"github.com/mertkaya/courselog/internal/app/models"
	"github.com/mertkaya/courselog/internal/app/models/dto"
	"github.com/mertkaya/courselog/internal/pkg/auth"
	"github.com/mertkaya/courselog/internal/pkg/tokenstore"
)

// Gin context keys set by JWTAuth.
const (
	PrincipalKey = "principal"
	TokenIDKey   = "tokenId"
)

// TokenCookie is the cookie carrying the session token.
const TokenCookie = "token"

// AuthMiddleware handles authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	tokens     *tokenstore.Store
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, tokens *tokenstore.Store) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		tokens:     tokens,
	}
}

// TokenFromRequest extracts the session token. The cookie takes precedence;
// the Authorization header is only consulted when the cookie is absent.
func TokenFromRequest(c *gin.Context) (string, bool) {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie, true
	}

	if header := c.GetHeader("Authorization"); header != "" {
		if token, err := auth.ExtractBearerToken(header); err == nil {
			return token, true
		}
	}

	return "", false
}

// JWTAuth validates the session token and attaches the principal to the
// context. Requests without a valid token never reach the handler.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := TokenFromRequest(c)
		if !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			if errors.Is(err, auth.ErrExpiredToken) {
				errorCode = dto.ErrorCodeExpiredToken
			}

			errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		if m.tokens != nil {
			revoked, err := m.tokens.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
				return
			}
			if revoked {
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeRevokedToken, "Token revoked")
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
				return
			}
		}

		c.Set(PrincipalKey, &appauth.Principal{
			UserID:   claims.UserID,
			Username: claims.Username,
			Role:     claims.Role,
			Tenant:   claims.Tenant,
		})
		c.Set(TokenIDKey, claims.ID)

		c.Next()
	}
}

// RequireTenantMatch rejects authenticated requests whose principal was
// issued under a different tenant than the one resolved from the request.
// This runs after JWTAuth and before any role check; a correct role never
// excuses a tenant mismatch.
func (m *AuthMiddleware) RequireTenantMatch() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := CurrentPrincipal(c)
		if principal == nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		if !appauth.SameTenant(principal, ResolvedTenant(c)) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeCrossTenant, "Access denied: invalid tenant")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// RoleRequired admits only principals whose role is in the allowed set.
// Matching is exact: an admin is denied on a teacher-only route unless the
// route lists admin too.
func (m *AuthMiddleware) RoleRequired(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := CurrentPrincipal(c)
		if principal == nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		if !appauth.Admit(principal, allowed...) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
			errorDetail = errorDetail.WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// CurrentPrincipal returns the principal attached by JWTAuth, or nil.
func CurrentPrincipal(c *gin.Context) *appauth.Principal {
	if v, exists := c.Get(PrincipalKey); exists {
		if p, ok := v.(*appauth.Principal); ok {
			return p
		}
	}
	return nil
}
