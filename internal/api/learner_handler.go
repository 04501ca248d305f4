// internal/api/learner_handler.go
package api

import (
	"errors"
	"net/http"
	"skilllink/course-platform/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LearnerHandler struct {
	learnerService service.LearnerService
}

func NewLearnerHandler(learnerService service.LearnerService) *LearnerHandler {
	return &LearnerHandler{learnerService: learnerService}
}

// --- DTOs ---

type EnrollRequest struct {
	CourseID string `json:"courseId" binding:"required"`
}

// --- Handler Methods ---

// Enroll godoc
// @Summary Enroll the authenticated learner in a published course
// @Tags Learner
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EnrollRequest true "Course to enroll in"
// @Success 201 {object} domain.Enrollment
// @Failure 400 {object} gin.H "Invalid input or course not published"
// @Failure 404 {object} gin.H "Course not found"
// @Failure 409 {object} gin.H "Already enrolled"
// @Router /learner/enrollments [post]
func (h *LearnerHandler) Enroll(c *gin.Context) {
	var req EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	courseID, err := primitive.ObjectIDFromHex(req.CourseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid course ID format.")
		return
	}
	learnerID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify learner from token.")
		return
	}

	enrollment, err := h.learnerService.Enroll(c.Request.Context(), learnerID, courseID)
	if err != nil {
		h.mapLearnerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, enrollment)
}

// GetMyEnrollments godoc
// @Summary List the learner's enrollments with course details and progress
// @Tags Learner
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.EnrollmentDetails
// @Router /learner/enrollments [get]
func (h *LearnerHandler) GetMyEnrollments(c *gin.Context) {
	learnerID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify learner from token.")
		return
	}

	details, err := h.learnerService.GetMyEnrollments(c.Request.Context(), learnerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve enrollments.")
		return
	}
	if details == nil {
		c.JSON(http.StatusOK, []service.EnrollmentDetails{})
		return
	}
	c.JSON(http.StatusOK, details)
}

// GetCourseContent godoc
// @Summary Get course content for an enrolled learner
// @Description Video lessons uploaded through the presigned flow carry a
// @Description time-limited playback URL in the response.
// @Tags Learner
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {array} service.SectionContent
// @Failure 403 {object} gin.H "Not enrolled"
// @Router /learner/courses/{courseId}/content [get]
func (h *LearnerHandler) GetCourseContent(c *gin.Context) {
	courseID, err := primitive.ObjectIDFromHex(c.Param("courseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid course ID format.")
		return
	}
	learnerID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify learner from token.")
		return
	}

	content, err := h.learnerService.GetCourseContent(c.Request.Context(), learnerID, courseID)
	if err != nil {
		h.mapLearnerError(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}

// CompleteLesson godoc
// @Summary Mark a lesson as completed
// @Tags Learner
// @Produce json
// @Security BearerAuth
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} gin.H "Lesson marked completed"
// @Failure 403 {object} gin.H "Not enrolled"
// @Failure 404 {object} gin.H "Lesson not found"
// @Router /learner/lessons/{lessonId}/complete [post]
func (h *LearnerHandler) CompleteLesson(c *gin.Context) {
	lessonID, err := primitive.ObjectIDFromHex(c.Param("lessonId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid lesson ID format.")
		return
	}
	learnerID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify learner from token.")
		return
	}

	if err := h.learnerService.CompleteLesson(c.Request.Context(), learnerID, lessonID); err != nil {
		h.mapLearnerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lesson marked completed"})
}

// mapLearnerError maps learner service errors to HTTP status codes.
func (h *LearnerHandler) mapLearnerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		abortWithError(c, http.StatusNotFound, "Course not found")
	case errors.Is(err, service.ErrLessonNotFound):
		abortWithError(c, http.StatusNotFound, "Lesson not found")
	case errors.Is(err, service.ErrCourseNotPublished):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAlreadyEnrolled):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNotEnrolled):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
