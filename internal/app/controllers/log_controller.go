package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mertkaya/courselog/internal/app/models/dto"
	"github.com/mertkaya/courselog/internal/app/services"
	"github.com/mertkaya/courselog/internal/middleware"
	"github.com/mertkaya/courselog/internal/pkg/apperrors"
)

// LogController handles activity log endpoints
type LogController struct {
	logService *services.LogService
}

// NewLogController creates a new LogController
func NewLogController(logService *services.LogService) *LogController {
	return &LogController{
		logService: logService,
	}
}

// Create records a log entry about a student, written by staff
func (c *LogController) Create(ctx *gin.Context) {
	var req dto.CreateLogRequest
	if !bindJSON(ctx, &req) {
		return
	}

	log, err := c.logService.Create(ctx, middleware.CurrentPrincipal(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(log))
}

// CreateOwn records a log entry the student caller writes about themselves
func (c *LogController) CreateOwn(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateOwnLogRequest
	if !bindJSON(ctx, &req) {
		return
	}

	log, err := c.logService.CreateOwn(ctx, middleware.CurrentPrincipal(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(log))
}

// List retrieves log entries visible to the caller, optionally filtered by
// the course query parameter
func (c *LogController) List(ctx *gin.Context) {
	var courseID *int64
	if raw := ctx.Query("course"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("invalid course filter"))
			return
		}
		courseID = &id
	}

	logs, err := c.logService.List(ctx, middleware.CurrentPrincipal(ctx), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(logs))
}

// ListForStudent retrieves log entries about one student
func (c *LogController) ListForStudent(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "studentId")
	if !ok {
		return
	}

	logs, err := c.logService.ListForStudent(ctx, middleware.CurrentPrincipal(ctx), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(logs))
}

// ListForCourse retrieves log entries of one course the caller can see
func (c *LogController) ListForCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	logs, err := c.logService.ListForCourse(ctx, middleware.CurrentPrincipal(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(logs))
}

// Update rewrites a log entry's content
func (c *LogController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateLogRequest
	if !bindJSON(ctx, &req) {
		return
	}

	log, err := c.logService.Update(ctx, middleware.CurrentPrincipal(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(log))
}

// Delete removes a log entry
func (c *LogController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.logService.Delete(ctx, middleware.CurrentPrincipal(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "Log deleted"}))
}
