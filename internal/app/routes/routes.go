package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mertkaya/courselog/internal/app/controllers"
	"github.com/mertkaya/courselog/internal/app/models"
	"github.com/mertkaya/courselog/internal/app/models/dto"
	"github.com/mertkaya/courselog/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter configures all application routes. Tenant resolution happens
// outside the engine, before routing; by the time a request lands here its
// tenant segment has been stripped and the tenant sits in the request
// context.
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	logController *controllers.LogController,
	userController *controllers.UserController,
	tenantController *controllers.TenantController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.Use(middleware.Metrics())

	// Public endpoints, reachable without a tenant (the resolver passes them
	// through untouched)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Everything else runs under a resolved tenant
	tenanted := router.Group("", middleware.TenantIntoContext())

	// Tenant-scoped but unauthenticated
	tenanted.GET("/theme", tenantController.Theme)

	auth := tenanted.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/signup", authController.Signup)
		auth.GET("/status", authController.Status)

		authProtected := auth.Group("")
		authProtected.Use(authMiddleware.JWTAuth(), authMiddleware.RequireTenantMatch())
		{
			authProtected.POST("/logout", authController.Logout)
			authProtected.GET("/me", authController.Me)
		}
	}

	// Everything below requires a session issued for the resolved tenant
	authenticated := tenanted.Group("")
	authenticated.Use(authMiddleware.JWTAuth(), authMiddleware.RequireTenantMatch())

	courses := authenticated.Group("/courses")
	{
		courses.GET("/mine", courseController.Mine)
		courses.GET("/:id", courseController.Get)
		courses.GET("/:id/logs", logController.ListForCourse)

		coursesStudent := courses.Group("")
		coursesStudent.Use(authMiddleware.RoleRequired(models.RoleStudent))
		{
			coursesStudent.GET("/available", courseController.Available)
			coursesStudent.POST("/:id/enroll", courseController.Enroll)
			coursesStudent.POST("/:id/unenroll", courseController.Unenroll)
			coursesStudent.POST("/:id/logs", logController.CreateOwn)
		}

		coursesStaff := courses.Group("")
		coursesStaff.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleTeacher))
		{
			coursesStaff.POST("", courseController.Create)
			coursesStaff.PUT("/:id", courseController.Update)
			coursesStaff.POST("/:id/teacher", courseController.AssignTeacher)
			coursesStaff.POST("/:id/tas", courseController.AddTA)
			coursesStaff.DELETE("/:id/tas/:userId", courseController.RemoveTA)
		}

		// TAs also manage the student roster of courses they assist
		coursesMembers := courses.Group("")
		coursesMembers.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleTeacher, models.RoleTA))
		{
			coursesMembers.GET("/:id/tas", courseController.ListTAs)
			coursesMembers.GET("/:id/students", courseController.ListStudents)
			coursesMembers.POST("/:id/students", courseController.AddStudent)
			coursesMembers.DELETE("/:id/students/:userId", courseController.RemoveStudent)
		}

		coursesAdmin := courses.Group("")
		coursesAdmin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			coursesAdmin.GET("", courseController.Mine)
			coursesAdmin.DELETE("/:id", courseController.Delete)
			coursesAdmin.DELETE("/:id/teacher", courseController.RemoveTeacher)
		}
	}

	logs := authenticated.Group("/logs")
	{
		logs.GET("", logController.List)
		logs.GET("/student/:studentId", logController.ListForStudent)

		logsStaff := logs.Group("")
		logsStaff.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleTeacher, models.RoleTA))
		{
			logsStaff.POST("", logController.Create)
			logsStaff.PUT("/:id", logController.Update)
		}

		logsSenior := logs.Group("")
		logsSenior.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleTeacher))
		{
			logsSenior.DELETE("/:id", logController.Delete)
		}
	}

	users := authenticated.Group("/users")
	{
		usersStaff := users.Group("")
		usersStaff.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleTeacher, models.RoleTA))
		{
			usersStaff.GET("/students", userController.ListStudents)
			usersStaff.POST("", userController.Create)
		}

		usersAdmin := users.Group("")
		usersAdmin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			usersAdmin.GET("", userController.List)
			usersAdmin.GET("/:id", userController.Get)
			usersAdmin.PUT("/:id", userController.Update)
			usersAdmin.DELETE("/:id", userController.Delete)
		}
	}

	authenticated.PUT("/profile", userController.UpdateProfile)
	authenticated.GET("/dashboard", userController.Dashboard)
}
