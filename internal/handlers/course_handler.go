package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/CoursePlatform-F25/course-service/internal/models"
	"github.com/CoursePlatform-F25/course-service/internal/services"
	"github.com/CoursePlatform-F25/course-service/internal/utils"
	"github.com/CoursePlatform-F25/course-service/internal/validator"
)

type CourseHandler struct {
	BaseHandler
	courseService services.CourseService
	validator     *validator.Validator
}

func NewCourseHandler(
	courseService services.CourseService,
	validator *validator.Validator,
	logger utils.Logger,
) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   NewBaseHandler(logger),
		courseService: courseService,
		validator:     validator,
	}
}

// ListCourses lists the published course catalog
// @Summary List courses
// @Description Get a paginated list of published courses with optional filters
// @Tags courses
// @Accept json
// @Produce json
// @Param language query string false "Filter by language (Arabic, English, German, French, Spanish)"
// @Param level query string false "Filter by level (Beginner, Intermediate, Advanced)"
// @Param q query string false "Search in title and description"
// @Param price_max query number false "Maximum price"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} services.CourseListResponse
// @Failure 500 {object} ErrorResponse
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	h.LogRequest(c, "Listing courses")

	filters := h.parseCourseFilters(c)

	courses, err := h.courseService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// GetCourse retrieves a course with its lessons
// @Summary Get course by ID
// @Description Get course details including lessons. Unpublished courses are visible only to their instructor and admins.
// @Tags courses
// @Accept json
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} services.CourseDetailResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Getting course", "course_id", id)

	// Optional auth: anonymous callers see only published courses
	userID, _ := c.Get("user_id")
	callerID, _ := userID.(string)
	role, _ := GetUserRoleFromContext(c)

	course, err := h.courseService.GetByID(c.Request.Context(), id, callerID, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// CreateCourse creates a new course
// @Summary Create course
// @Description Create a new course owned by the authenticated instructor
// @Tags courses
// @Accept json
// @Produce json
// @Param course body services.CreateCourseRequest true "Course data"
// @Success 201 {object} services.CourseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	h.LogRequest(c, "Creating course")

	var req services.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	instructorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), &req, instructorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

// UpdateCourse updates an owned course
// @Summary Update course
// @Description Update a course owned by the authenticated instructor
// @Tags courses
// @Accept json
// @Produce json
// @Param id path uint true "Course ID"
// @Param course body services.UpdateCourseRequest true "Course data"
// @Success 200 {object} services.CourseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Updating course", "course_id", id)

	var req services.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	instructorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	course, err := h.courseService.Update(c.Request.Context(), id, &req, instructorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// DeleteCourse deletes an owned course
// @Summary Delete course
// @Description Delete a course owned by the authenticated instructor
// @Tags courses
// @Accept json
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting course", "course_id", id)

	instructorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	if err := h.courseService.Delete(c.Request.Context(), id, instructorID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Course deleted"})
}

// PublishCourse publishes a course
// @Summary Publish course
// @Description Make a course visible in the catalog. Requires at least one lesson.
// @Tags courses
// @Accept json
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /courses/{id}/publish [post]
func (h *CourseHandler) PublishCourse(c *gin.Context) {
	h.setPublished(c, true)
}

// UnpublishCourse removes a course from the catalog
// @Summary Unpublish course
// @Description Hide a course from the catalog
// @Tags courses
// @Accept json
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /courses/{id}/unpublish [post]
func (h *CourseHandler) UnpublishCourse(c *gin.Context) {
	h.setPublished(c, false)
}

func (h *CourseHandler) setPublished(c *gin.Context, published bool) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Changing course publish state", "course_id", id, "published", published)

	instructorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	if err := h.courseService.SetPublished(c.Request.Context(), id, instructorID, published); err != nil {
		h.handleServiceError(c, err)
		return
	}

	message := "Course unpublished"
	if published {
		message = "Course published"
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// ListMyCoursesAsInstructor lists the instructor's own courses
// @Summary List instructor courses
// @Description Get all courses owned by the authenticated instructor, published or not
// @Tags courses
// @Accept json
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} services.CourseListResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /instructor/courses [get]
func (h *CourseHandler) ListMyCoursesAsInstructor(c *gin.Context) {
	h.LogRequest(c, "Listing instructor courses")

	instructorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	filters := h.parseCourseFilters(c)
	courses, err := h.courseService.ListByInstructor(c.Request.Context(), instructorID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// AddLesson appends a lesson to a course
// @Summary Add lesson
// @Description Add a lesson to a course owned by the authenticated instructor
// @Tags lessons
// @Accept json
// @Produce json
// @Param id path uint true "Course ID"
// @Param lesson body services.CreateLessonRequest true "Lesson data"
// @Success 201 {object} services.LessonResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /courses/{id}/lessons [post]
func (h *CourseHandler) AddLesson(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Adding lesson", "course_id", id)

	var req services.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	instructorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	lesson, err := h.courseService.AddLesson(c.Request.Context(), id, &req, instructorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, lesson)
}

// UpdateLesson updates a lesson
// @Summary Update lesson
// @Description Update a lesson in a course owned by the authenticated instructor
// @Tags lessons
// @Accept json
// @Produce json
// @Param id path uint true "Lesson ID"
// @Param lesson body services.UpdateLessonRequest true "Lesson data"
// @Success 200 {object} services.LessonResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /lessons/{id} [put]
func (h *CourseHandler) UpdateLesson(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Updating lesson", "lesson_id", id)

	var req services.UpdateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	instructorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	lesson, err := h.courseService.UpdateLesson(c.Request.Context(), id, &req, instructorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, lesson)
}

// DeleteLesson deletes a lesson
// @Summary Delete lesson
// @Description Delete a lesson from a course owned by the authenticated instructor
// @Tags lessons
// @Accept json
// @Produce json
// @Param id path uint true "Lesson ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /lessons/{id} [delete]
func (h *CourseHandler) DeleteLesson(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting lesson", "lesson_id", id)

	instructorID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	if err := h.courseService.DeleteLesson(c.Request.Context(), id, instructorID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Lesson deleted"})
}

// ===== HELPER METHODS =====

func (h *CourseHandler) parseCourseFilters(c *gin.Context) services.CourseListFilters {
	page := 1
	size := 20

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if sizeStr := c.Query("size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
			size = s
		}
	}

	filters := services.CourseListFilters{
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if language := c.Query("language"); language != "" {
		courseLanguage := models.CourseLanguage(language)
		filters.Language = &courseLanguage
	}
	if level := c.Query("level"); level != "" {
		courseLevel := models.CourseLevel(level)
		filters.Level = &courseLevel
	}
	if query := c.Query("q"); query != "" {
		filters.Search = &query
	}
	if priceMaxStr := c.Query("price_max"); priceMaxStr != "" {
		if priceMax, err := strconv.ParseFloat(priceMaxStr, 64); err == nil && priceMax >= 0 {
			filters.PriceMax = &priceMax
		}
	}

	return filters
}
