package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CoursePlatform-F25/course-service/internal/services"
	"github.com/CoursePlatform-F25/course-service/internal/utils"
	"github.com/CoursePlatform-F25/course-service/internal/validator"
)

type EnrollmentHandler struct {
	BaseHandler
	enrollmentService services.EnrollmentService
	validator         *validator.Validator
}

func NewEnrollmentHandler(
	enrollmentService services.EnrollmentService,
	validator *validator.Validator,
	logger utils.Logger,
) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		enrollmentService: enrollmentService,
		validator:         validator,
	}
}

// GetStatus returns the caller's enrollment status for a course
// @Summary Get enrollment status
// @Description Get the caller's enrollment and progress for a course. Works for anonymous callers, who get a login hint instead.
// @Tags enrollment
// @Accept json
// @Produce json
// @Param course_id path uint true "Course ID"
// @Success 200 {object} services.EnrollmentStatusResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /enrollment/status/{course_id} [get]
func (h *EnrollmentHandler) GetStatus(c *gin.Context) {
	courseID := h.parseIDParam(c, "course_id")
	if courseID == 0 {
		return
	}

	// Optional auth: an empty user ID means anonymous
	userID, _ := c.Get("user_id")
	callerID, _ := userID.(string)

	status, err := h.enrollmentService.GetStatus(c.Request.Context(), courseID, callerID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// Enroll enrolls the caller in a course
// @Summary Enroll in course
// @Description Enroll the authenticated user in a published course
// @Tags enrollment
// @Accept json
// @Produce json
// @Param course_id path uint true "Course ID"
// @Success 201 {object} services.EnrollmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /enrollment/enroll/{course_id} [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	courseID := h.parseIDParam(c, "course_id")
	if courseID == 0 {
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Enrolling in course", "course_id", courseID, "user_id", userID)

	enrollment, err := h.enrollmentService.Enroll(c.Request.Context(), courseID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

// Unenroll removes the caller's enrollment and all progress
// @Summary Unenroll from course
// @Description Unenroll the authenticated user from a course. All lesson progress is removed with the enrollment.
// @Tags enrollment
// @Accept json
// @Produce json
// @Param course_id path uint true "Course ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /enrollment/unenroll/{course_id} [delete]
func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	courseID := h.parseIDParam(c, "course_id")
	if courseID == 0 {
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Unenrolling from course", "course_id", courseID, "user_id", userID)

	if err := h.enrollmentService.Unenroll(c.Request.Context(), courseID, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Unenrolled from course"})
}

// ListMyCourses lists the caller's enrolled courses with progress
// @Summary List my courses
// @Description Get all courses the authenticated user is enrolled in, with freshly computed progress
// @Tags enrollment
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Enrolled courses"
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /enrollment/my-courses [get]
func (h *EnrollmentHandler) ListMyCourses(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Listing enrolled courses", "user_id", userID)

	courses, err := h.enrollmentService.ListMyCourses(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"courses": courses,
		"total":   len(courses),
	})
}

// RefreshProgress recomputes the caller's progress for a course
// @Summary Refresh progress
// @Description Recompute the progress snapshot for the caller's enrollment
// @Tags enrollment
// @Accept json
// @Produce json
// @Param course_id path uint true "Course ID"
// @Success 200 {object} services.ProgressResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /enrollment/update-progress/{course_id} [put]
func (h *EnrollmentHandler) RefreshProgress(c *gin.Context) {
	courseID := h.parseIDParam(c, "course_id")
	if courseID == 0 {
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	progress, err := h.enrollmentService.RefreshProgress(c.Request.Context(), courseID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// CompleteLesson marks a lesson as completed
// @Summary Complete lesson
// @Description Mark a lesson as completed for the authenticated user and refresh course progress
// @Tags enrollment
// @Accept json
// @Produce json
// @Param id path uint true "Lesson ID"
// @Success 200 {object} services.ProgressResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /lessons/{id}/complete [post]
func (h *EnrollmentHandler) CompleteLesson(c *gin.Context) {
	lessonID := h.parseIDParam(c, "id")
	if lessonID == 0 {
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Completing lesson", "lesson_id", lessonID, "user_id", userID)

	progress, err := h.enrollmentService.CompleteLesson(c.Request.Context(), lessonID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// UpdateWatchTime records video playback position for a lesson
// @Summary Update watch time
// @Description Record how many seconds of a lesson's video the authenticated user has watched. Watch time only moves forward.
// @Tags enrollment
// @Accept json
// @Produce json
// @Param id path uint true "Lesson ID"
// @Param watch_time body services.WatchTimeRequest true "Watch time data"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /lessons/{id}/watch-time [post]
func (h *EnrollmentHandler) UpdateWatchTime(c *gin.Context) {
	lessonID := h.parseIDParam(c, "id")
	if lessonID == 0 {
		return
	}

	var req services.WatchTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	if err := h.enrollmentService.UpdateWatchTime(c.Request.Context(), lessonID, userID, req.WatchedSeconds); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Watch time recorded"})
}
