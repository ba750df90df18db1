package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mertkaya/courselog/internal/app/models"
	"github.com/mertkaya/courselog/internal/app/models/dto"
	"github.com/mertkaya/courselog/internal/app/services"
	"github.com/mertkaya/courselog/internal/middleware"
)

// UserController handles user administration endpoints
type UserController struct {
	userService *services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// Create creates a managed account on behalf of the caller
func (c *UserController) Create(ctx *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(ctx, &req) {
		return
	}

	user, err := c.userService.CreateManaged(ctx, middleware.CurrentPrincipal(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewUserInfo(user)))
}

// List retrieves all users in the caller's tenant
func (c *UserController) List(ctx *gin.Context) {
	users, err := c.userService.List(ctx, middleware.CurrentPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(toUserInfos(users)))
}

// ListStudents retrieves the tenant's students
func (c *UserController) ListStudents(ctx *gin.Context) {
	users, err := c.userService.ListByRole(ctx, middleware.CurrentPrincipal(ctx), models.RoleStudent)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(toUserInfos(users)))
}

// Get retrieves one tenant user
func (c *UserController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	user, err := c.userService.Get(ctx, middleware.CurrentPrincipal(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewUserInfo(user)))
}

// UpdateProfile changes the caller's own username or password
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if !bindJSON(ctx, &req) {
		return
	}

	user, err := c.userService.UpdateProfile(ctx, middleware.CurrentPrincipal(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewUserInfo(user)))
}

// Update renames a tenant user or resets their password
func (c *UserController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !bindJSON(ctx, &req) {
		return
	}

	user, err := c.userService.UpdateManaged(ctx, middleware.CurrentPrincipal(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewUserInfo(user)))
}

// Delete removes a tenant user
func (c *UserController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.userService.Delete(ctx, middleware.CurrentPrincipal(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "User deleted"}))
}

// Dashboard summarizes what the caller can see
func (c *UserController) Dashboard(ctx *gin.Context) {
	summary, err := c.userService.Dashboard(ctx, middleware.CurrentPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(summary))
}

func toUserInfos(users []*models.User) []dto.UserInfo {
	infos := make([]dto.UserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, dto.NewUserInfo(u))
	}
	return infos
}
