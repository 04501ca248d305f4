// internal/api/course_handler.go
package api

import (
	"errors"
	"net/http"
	"skilllink/course-platform/internal/domain"
	"skilllink/course-platform/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CourseHandler struct {
	courseService service.CourseService
}

func NewCourseHandler(courseService service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// --- DTOs ---

type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Level       string `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
}

type UploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmUploadRequest struct {
	ObjectKey   string `json:"objectKey" binding:"required"`
	FileName    string `json:"fileName" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required,gt=0"`
	ContentType string `json:"contentType" binding:"required"`
}

// --- Handler Methods ---

// CreateCourse godoc
// @Summary Create a new draft course
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param course body CreateCourseRequest true "Course details"
// @Success 201 {object} domain.Course "Course created"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	instructorID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify instructor from token.")
		return
	}

	course, err := h.courseService.CreateCourse(c.Request.Context(), instructorID, req.Title, req.Description, req.Category, req.Level)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create course.")
		}
		return
	}

	c.JSON(http.StatusCreated, course)
}

// GetMyCourses godoc
// @Summary List the authenticated instructor's courses
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Course
// @Router /courses [get]
func (h *CourseHandler) GetMyCourses(c *gin.Context) {
	instructorID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify instructor from token.")
		return
	}

	courses, err := h.courseService.GetCoursesByInstructor(c.Request.Context(), instructorID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve courses.")
		return
	}
	if courses == nil {
		c.JSON(http.StatusOK, []domain.Course{}) // Empty JSON array, not null
		return
	}
	c.JSON(http.StatusOK, courses)
}

// GetCourse godoc
// @Summary Get a single course by ID
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} domain.Course
// @Failure 404 {object} gin.H "Course not found"
// @Router /courses/{courseId} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID, err := primitive.ObjectIDFromHex(c.Param("courseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid course ID format.")
		return
	}

	course, err := h.courseService.GetCourseByID(c.Request.Context(), courseID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			abortWithError(c, http.StatusNotFound, "Course not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve course.")
		}
		return
	}
	c.JSON(http.StatusOK, course)
}

// PublishCourse godoc
// @Summary Publish a draft course
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} domain.Course
// @Failure 403 {object} gin.H "Not the course owner"
// @Failure 404 {object} gin.H "Course not found"
// @Router /courses/{courseId}/publish [post]
func (h *CourseHandler) PublishCourse(c *gin.Context) {
	courseID, err := primitive.ObjectIDFromHex(c.Param("courseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid course ID format.")
		return
	}
	instructorID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify instructor from token.")
		return
	}

	course, err := h.courseService.PublishCourse(c.Request.Context(), instructorID, courseID)
	if err != nil {
		h.mapCourseError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// GetCourseContent godoc
// @Summary Get the section and lesson structure of a course
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {array} service.SectionContent
// @Failure 404 {object} gin.H "Course not found"
// @Router /courses/{courseId}/content [get]
func (h *CourseHandler) GetCourseContent(c *gin.Context) {
	courseID, err := primitive.ObjectIDFromHex(c.Param("courseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid course ID format.")
		return
	}

	content, err := h.courseService.GetCourseContent(c.Request.Context(), courseID)
	if err != nil {
		h.mapCourseError(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}

// RequestVideoUploadURL godoc
// @Summary Request a presigned URL to upload a lesson video
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lessonId path string true "Lesson ID"
// @Param request body UploadURLRequest true "Upload details"
// @Success 200 {object} service.UploadURLResponse
// @Failure 403 {object} gin.H "Not the course owner"
// @Failure 404 {object} gin.H "Lesson not found"
// @Router /lessons/{lessonId}/upload-url [post]
func (h *CourseHandler) RequestVideoUploadURL(c *gin.Context) {
	lessonID, err := primitive.ObjectIDFromHex(c.Param("lessonId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid lesson ID format.")
		return
	}
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	instructorID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify instructor from token.")
		return
	}

	resp, err := h.courseService.RequestVideoUploadURL(c.Request.Context(), instructorID, lessonID, req.ContentType)
	if err != nil {
		h.mapCourseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmVideoUpload godoc
// @Summary Confirm a finished presigned video upload
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lessonId path string true "Lesson ID"
// @Param request body ConfirmUploadRequest true "Uploaded object details"
// @Success 200 {object} domain.Lesson
// @Failure 403 {object} gin.H "Not the course owner"
// @Failure 404 {object} gin.H "Lesson not found"
// @Router /lessons/{lessonId}/upload-confirm [post]
func (h *CourseHandler) ConfirmVideoUpload(c *gin.Context) {
	lessonID, err := primitive.ObjectIDFromHex(c.Param("lessonId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid lesson ID format.")
		return
	}
	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	instructorID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify instructor from token.")
		return
	}

	lesson, err := h.courseService.ConfirmVideoUpload(c.Request.Context(), instructorID, lessonID, req.ObjectKey, req.FileName, req.FileSize, req.ContentType)
	if err != nil {
		h.mapCourseError(c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

// mapCourseError maps shared course service errors to HTTP status codes.
func (h *CourseHandler) mapCourseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		abortWithError(c, http.StatusNotFound, "Course not found")
	case errors.Is(err, service.ErrLessonNotFound):
		abortWithError(c, http.StatusNotFound, "Lesson not found")
	case errors.Is(err, service.ErrCourseAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUploadURLError), errors.Is(err, service.ErrUploadConfirmError):
		abortWithError(c, http.StatusInternalServerError, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
