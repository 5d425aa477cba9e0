package app

import (
	"lms_backend/docs"
	"lms_backend/internal/config"
	"lms_backend/internal/middleware"
	"lms_backend/internal/model"
	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. public
	a.registerPublicRoutes(router, c)

	// 2. authenticated
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		a.registerSharedRoutes(authGroup, c)
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}

	// 3. admin
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

// registerSharedRoutes serves both roles; services decide what each caller may see.
func (a *App) registerSharedRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.Profile)

	rg.GET("/catalog/courses", c.course.Catalog)
	rg.GET("/courses", c.course.List)
	rg.GET("/courses/:id", c.course.Get)
	rg.GET("/courses/:id/assessments", c.assessment.ListByCourse)
	rg.GET("/courses/:id/assignments", c.assignment.ListByCourse)
	rg.GET("/courses/:id/live-classes", c.liveClass.ListByCourse)
	rg.GET("/courses/:id/grades", c.grade.CourseGrades)

	rg.GET("/assessments/:id", c.assessment.Get)
	rg.GET("/assessment-submissions/:id", c.submission.Get)
	rg.GET("/assignments/:id", c.assignment.Get)
	rg.POST("/live-classes/:id/token", c.liveClass.Token)
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	student := rg.Group("")
	student.Use(middleware.RoleMiddleware(model.Student))
	{
		student.POST("/courses/:id/enroll", c.course.Enroll)
		student.DELETE("/courses/:id/enroll", c.course.Drop)

		student.POST("/assessments/:id/submit", c.submission.Submit)
		student.GET("/assessments/:id/my-submissions", c.submission.Mine)

		student.POST("/assignments/:id/submit", c.assignment.Submit)
		student.GET("/assignments/:id/my-submission", c.assignment.Mine)
	}
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		// courses
		teacher.POST("/courses", c.course.Create)
		teacher.PUT("/courses/:id", c.course.Update)
		teacher.DELETE("/courses/:id", c.course.Delete)
		teacher.GET("/courses/:id/students", c.course.Students)

		// assessments
		teacher.POST("/assessments", c.assessment.Create)
		teacher.PUT("/assessments/:id", c.assessment.Update)
		teacher.DELETE("/assessments/:id", c.assessment.Delete)
		teacher.GET("/assessments/:id/submissions", c.submission.ListByAssessment)
		teacher.GET("/assessments/:id/analytics", c.assessment.Analytics)
		teacher.PUT("/assessment-submissions/:id/grade", c.submission.Grade)

		// assignments
		teacher.POST("/courses/:id/assignments", c.assignment.Create)
		teacher.PUT("/assignments/:id", c.assignment.Update)
		teacher.DELETE("/assignments/:id", c.assignment.Delete)
		teacher.GET("/assignments/:id/submissions", c.assignment.ListSubmissions)
		teacher.PUT("/assignment-submissions/:id/grade", c.assignment.Grade)

		// live classes
		teacher.POST("/courses/:id/live-classes", c.liveClass.Create)
		teacher.PUT("/live-classes/:id", c.liveClass.Update)
		teacher.DELETE("/live-classes/:id", c.liveClass.Delete)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/notifications", c.notification.Recent)
	}
}
