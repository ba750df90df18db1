package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mertkaya/courselog/internal/app/models/dto"
	"github.com/mertkaya/courselog/internal/app/services"
	"github.com/mertkaya/courselog/internal/middleware"
	"github.com/mertkaya/courselog/internal/pkg/auth"
)

// AuthController handles authentication endpoints
type AuthController struct {
	authService *services.AuthService
	jwtService  *auth.JWTService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, jwtService *auth.JWTService) *AuthController {
	return &AuthController{
		authService: authService,
		jwtService:  jwtService,
	}
}

// setSessionCookie mirrors the token into the session cookie so browser
// clients keep working without managing the Authorization header
func setSessionCookie(ctx *gin.Context, token string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.TokenCookie, token, maxAge, "/", "", false, true)
}

// Login authenticates a user within the resolved tenant
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Login(ctx, middleware.ResolvedTenant(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	setSessionCookie(ctx, resp.Token, resp.ExpiresIn)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Signup registers a new student account within the resolved tenant
func (c *AuthController) Signup(ctx *gin.Context) {
	var req dto.SignupRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Signup(ctx, middleware.ResolvedTenant(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	setSessionCookie(ctx, resp.Token, resp.ExpiresIn)
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// Logout revokes the current session token and clears the cookie
func (c *AuthController) Logout(ctx *gin.Context) {
	// The route runs behind JWTAuth, so the token is present and valid;
	// it is re-parsed here because revocation needs the full claims.
	tokenString, ok := middleware.TokenFromRequest(ctx)
	if ok {
		if claims, err := c.jwtService.ValidateToken(tokenString); err == nil {
			if err := c.authService.Logout(ctx, claims); err != nil {
				middleware.HandleAPIError(ctx, err)
				return
			}
		}
	}

	setSessionCookie(ctx, "", -1)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "Logged out"}))
}

// Status reports whether the request carries a valid session. It never
// fails; an absent, bad or revoked token just reports unauthenticated.
func (c *AuthController) Status(ctx *gin.Context) {
	resp := dto.StatusResponse{}

	if tokenString, ok := middleware.TokenFromRequest(ctx); ok {
		if claims, err := c.jwtService.ValidateToken(tokenString); err == nil && !c.authService.SessionRevoked(ctx, claims.ID) {
			resp.Authenticated = true
			resp.User = &dto.UserInfo{
				ID:       claims.UserID,
				Username: claims.Username,
				Role:     claims.Role,
				Tenant:   claims.Tenant,
			}
		}
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Me returns the authenticated user's current record
func (c *AuthController) Me(ctx *gin.Context) {
	principal := middleware.CurrentPrincipal(ctx)

	user, err := c.authService.Me(ctx, principal.Tenant, principal.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewUserInfo(user)))
}
