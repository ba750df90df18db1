package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mertkaya/courselog/internal/app/models/dto"
	"github.com/mertkaya/courselog/internal/config"
	"github.com/mertkaya/courselog/internal/middleware"
	"github.com/mertkaya/courselog/internal/pkg/apperrors"
)

// TenantController serves per-tenant institution configuration
type TenantController struct {
	cfg *config.Config
}

// NewTenantController creates a new TenantController
func NewTenantController(cfg *config.Config) *TenantController {
	return &TenantController{cfg: cfg}
}

// Theme returns the resolved tenant's display configuration. The tenant set
// and its themes are fixed at startup.
func (c *TenantController) Theme(ctx *gin.Context) {
	tenant := middleware.ResolvedTenant(ctx)

	tc, ok := c.cfg.Tenants[tenant]
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnknownTenant)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"tenant": tenant,
		"name":   tc.Name,
		"theme":  tc.Theme,
	}))
}
