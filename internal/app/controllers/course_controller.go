package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mertkaya/courselog/internal/app/models/dto"
	"github.com/mertkaya/courselog/internal/app/services"
	"github.com/mertkaya/courselog/internal/middleware"
)

// CourseController handles course and roster endpoints
type CourseController struct {
	courseService *services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService *services.CourseService) *CourseController {
	return &CourseController{
		courseService: courseService,
	}
}

// Create handles course creation
func (c *CourseController) Create(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if !bindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.Create(ctx, middleware.CurrentPrincipal(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(course))
}

// Get retrieves a course visible to the caller
func (c *CourseController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.courseService.Get(ctx, middleware.CurrentPrincipal(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}

// Mine lists the courses visible to the caller
func (c *CourseController) Mine(ctx *gin.Context) {
	courses, err := c.courseService.ListMine(ctx, middleware.CurrentPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(courses))
}

// Available lists tenant courses the student has not joined yet
func (c *CourseController) Available(ctx *gin.Context) {
	courses, err := c.courseService.ListAvailable(ctx, middleware.CurrentPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(courses))
}

// Update rewrites a course's mutable fields
func (c *CourseController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if !bindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.Update(ctx, middleware.CurrentPrincipal(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}

// Delete removes a course
func (c *CourseController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.Delete(ctx, middleware.CurrentPrincipal(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "Course deleted"}))
}

// AssignTeacher sets the course teacher
func (c *CourseController) AssignTeacher(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AssignTeacherRequest
	if !bindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.AssignTeacher(ctx, middleware.CurrentPrincipal(ctx), id, req.TeacherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}

// RemoveTeacher clears the course teacher
func (c *CourseController) RemoveTeacher(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.RemoveTeacher(ctx, middleware.CurrentPrincipal(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "Teacher removed"}))
}

// AddTA assigns a TA to the course
func (c *CourseController) AddTA(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.MembershipRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.courseService.AddTA(ctx, middleware.CurrentPrincipal(ctx), id, req.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "TA assigned"}))
}

// RemoveTA removes a TA from the course
func (c *CourseController) RemoveTA(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}

	if err := c.courseService.RemoveTA(ctx, middleware.CurrentPrincipal(ctx), id, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "TA removed"}))
}

// AddStudent enrolls a student on behalf of staff
func (c *CourseController) AddStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.MembershipRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.courseService.AddStudent(ctx, middleware.CurrentPrincipal(ctx), id, req.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "Student added"}))
}

// RemoveStudent unenrolls a student on behalf of staff
func (c *CourseController) RemoveStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}

	if err := c.courseService.RemoveStudent(ctx, middleware.CurrentPrincipal(ctx), id, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "Student removed"}))
}

// ListTAs lists the course's TAs
func (c *CourseController) ListTAs(ctx *gin.Context) {
	c.listMembers(ctx, "ta")
}

// ListStudents lists the course's students
func (c *CourseController) ListStudents(ctx *gin.Context) {
	c.listMembers(ctx, "student")
}

func (c *CourseController) listMembers(ctx *gin.Context, kind string) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	members, err := c.courseService.Members(ctx, middleware.CurrentPrincipal(ctx), id, kind)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	infos := make([]dto.UserInfo, 0, len(members))
	for _, m := range members {
		infos = append(infos, dto.NewUserInfo(m))
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(infos))
}

// Enroll self-enrolls the student caller
func (c *CourseController) Enroll(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.Enroll(ctx, middleware.CurrentPrincipal(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "Enrolled"}))
}

// Unenroll self-unenrolls the student caller
func (c *CourseController) Unenroll(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.Unenroll(ctx, middleware.CurrentPrincipal(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "Unenrolled"}))
}
