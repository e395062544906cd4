package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/CoursePlatform-F25/course-service/internal/config"
	"github.com/CoursePlatform-F25/course-service/internal/models"
	"github.com/CoursePlatform-F25/course-service/internal/repositories"
	"github.com/CoursePlatform-F25/course-service/internal/services"
	"github.com/CoursePlatform-F25/course-service/internal/utils"
	"github.com/CoursePlatform-F25/course-service/internal/validator"
)

type HandlerManager struct {
	courseHandler      *CourseHandler
	enrollmentHandler  *EnrollmentHandler
	applicationHandler *ApplicationHandler
	userHandler        *UserHandler
	authMiddleware     *CasdoorAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	userRepo repositories.UserRepository,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, userRepo)

	return &HandlerManager{
		courseHandler:      NewCourseHandler(serviceManager.Course(), validator, logger),
		enrollmentHandler:  NewEnrollmentHandler(serviceManager.Enrollment(), validator, logger),
		applicationHandler: NewApplicationHandler(serviceManager.Application(), serviceManager.Report(), validator, logger),
		userHandler:        NewUserHandler(userRepo, logger),
		authMiddleware:     authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		// Public catalog routes. Optional auth so enrollment state and
		// unpublished-course visibility follow the caller when a token
		// is present.
		courses := v1.Group("/courses")
		courses.Use(hm.authMiddleware.OptionalAuthMiddleware())
		{
			courses.GET("", hm.courseHandler.ListCourses)
			courses.GET("/:id", hm.courseHandler.GetCourse)
		}

		// Enrollment routes
		enrollment := v1.Group("/enrollment")
		{
			// Status works anonymously and returns a login hint
			enrollment.GET("/status/:course_id", hm.authMiddleware.OptionalAuthMiddleware(), hm.enrollmentHandler.GetStatus)

			authed := enrollment.Group("")
			authed.Use(hm.authMiddleware.AuthMiddleware())
			{
				authed.POST("/enroll/:course_id", hm.enrollmentHandler.Enroll)
				authed.DELETE("/unenroll/:course_id", hm.enrollmentHandler.Unenroll)
				authed.GET("/my-courses", hm.enrollmentHandler.ListMyCourses)
				authed.PUT("/update-progress/:course_id", hm.enrollmentHandler.RefreshProgress)
			}
		}

		// Lesson progress routes
		lessons := v1.Group("/lessons")
		lessons.Use(hm.authMiddleware.AuthMiddleware())
		{
			lessons.POST("/:id/complete", hm.enrollmentHandler.CompleteLesson)
			lessons.POST("/:id/watch-time", hm.enrollmentHandler.UpdateWatchTime)

			// Lesson management - Instructors only
			lessons.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleInstructor), hm.courseHandler.UpdateLesson)
			lessons.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleInstructor), hm.courseHandler.DeleteLesson)
		}

		// Instructor application routes
		applications := v1.Group("/instructor-applications")
		applications.Use(hm.authMiddleware.AuthMiddleware())
		{
			applications.POST("", hm.applicationHandler.SubmitApplication)
			applications.GET("/me", hm.applicationHandler.GetMyApplication)
		}

		// Course management - Instructors only
		manage := v1.Group("/courses")
		manage.Use(hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleInstructor))
		{
			manage.POST("", hm.courseHandler.CreateCourse)
			manage.PUT("/:id", hm.courseHandler.UpdateCourse)
			manage.DELETE("/:id", hm.courseHandler.DeleteCourse)
			manage.POST("/:id/publish", hm.courseHandler.PublishCourse)
			manage.POST("/:id/unpublish", hm.courseHandler.UnpublishCourse)
			manage.POST("/:id/lessons", hm.courseHandler.AddLesson)
		}

		instructor := v1.Group("/instructor")
		instructor.Use(hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleInstructor))
		{
			instructor.GET("/courses", hm.courseHandler.ListMyCoursesAsInstructor)
		}

		// Admin review routes
		admin := v1.Group("/admin")
		admin.Use(hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			admin.GET("/applications", hm.applicationHandler.ListApplications)
			admin.GET("/applications/export", hm.applicationHandler.ExportApplications)
			admin.GET("/applications/:id", hm.applicationHandler.GetApplication)
			admin.PUT("/applications/:id/review", hm.applicationHandler.ReviewApplication)
			admin.PUT("/applications/:id/approve", hm.applicationHandler.ApproveApplication)
			admin.PUT("/applications/:id/reject", hm.applicationHandler.RejectApplication)

			admin.GET("/users", hm.userHandler.ListUsers)
			admin.GET("/users/:id", hm.userHandler.GetUser)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "course-service",
		})
	})
}
