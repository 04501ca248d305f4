package api

import (
	"net/http"
	"skilllink/course-platform/internal/domain"
	"skilllink/course-platform/internal/service"

	"github.com/gin-gonic/gin"
)

// RouterConfig carries the non-service knobs the routes need.
type RouterConfig struct {
	JWTSecret       string
	MaxArchiveBytes int64
}

func SetupRoutes(
	router *gin.Engine,
	cfg RouterConfig,
	authService service.AuthService,
	courseService service.CourseService,
	importService service.ImportService,
	learnerService service.LearnerService,
) {

	authHandler := NewAuthHandler(authService)
	courseHandler := NewCourseHandler(courseService)
	importHandler := NewImportHandler(importService, cfg.MaxArchiveBytes)
	learnerHandler := NewLearnerHandler(learnerService)

	authMiddleware := AuthMiddleware(cfg.JWTSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Course Authoring Routes (instructor only) ---
		courseGroup := protected.Group("/courses")
		{
			// POST /api/v1/courses/bulk-upload
			// Registered before the :courseId routes so "bulk-upload" is not
			// swallowed by the path parameter.
			courseGroup.POST("/bulk-upload", RoleMiddleware(domain.RoleInstructor), importHandler.BulkUpload)

			courseGroup.POST("", RoleMiddleware(domain.RoleInstructor), courseHandler.CreateCourse)
			courseGroup.GET("", RoleMiddleware(domain.RoleInstructor), courseHandler.GetMyCourses)
			courseGroup.GET("/:courseId", courseHandler.GetCourse)
			courseGroup.POST("/:courseId/publish", RoleMiddleware(domain.RoleInstructor), courseHandler.PublishCourse)
			courseGroup.GET("/:courseId/content", RoleMiddleware(domain.RoleInstructor), courseHandler.GetCourseContent)
		}

		// --- Lesson Video Upload Routes (instructor only) ---
		lessonGroup := protected.Group("/lessons")
		lessonGroup.Use(RoleMiddleware(domain.RoleInstructor))
		{
			// POST /api/v1/lessons/{lessonId}/upload-url
			lessonGroup.POST("/:lessonId/upload-url", courseHandler.RequestVideoUploadURL)
			// POST /api/v1/lessons/{lessonId}/upload-confirm
			lessonGroup.POST("/:lessonId/upload-confirm", courseHandler.ConfirmVideoUpload)
		}

		// --- Learner Routes ---
		learnerGroup := protected.Group("/learner")
		learnerGroup.Use(RoleMiddleware(domain.RoleLearner))
		{
			// POST /api/v1/learner/enrollments
			learnerGroup.POST("/enrollments", learnerHandler.Enroll)
			// GET /api/v1/learner/enrollments
			learnerGroup.GET("/enrollments", learnerHandler.GetMyEnrollments)
			// GET /api/v1/learner/courses/{courseId}/content
			learnerGroup.GET("/courses/:courseId/content", learnerHandler.GetCourseContent)
			// POST /api/v1/learner/lessons/{lessonId}/complete
			learnerGroup.POST("/lessons/:lessonId/complete", learnerHandler.CompleteLesson)
		}
	}
}
