package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CoursePlatform-F25/course-service/internal/models"
	"github.com/CoursePlatform-F25/course-service/internal/repositories"
	"github.com/CoursePlatform-F25/course-service/internal/services"
	"github.com/CoursePlatform-F25/course-service/internal/utils"
	"github.com/CoursePlatform-F25/course-service/internal/validator"
)

type ApplicationHandler struct {
	BaseHandler
	applicationService services.ApplicationService
	reportService      services.ReportService
	validator          *validator.Validator
}

func NewApplicationHandler(
	applicationService services.ApplicationService,
	reportService services.ReportService,
	validator *validator.Validator,
	logger utils.Logger,
) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        NewBaseHandler(logger),
		applicationService: applicationService,
		reportService:      reportService,
		validator:          validator,
	}
}

// SubmitApplication submits an instructor application
// @Summary Submit instructor application
// @Description Submit an application to become an instructor. One application per user, ever.
// @Tags applications
// @Accept json
// @Produce json
// @Param application body services.SubmitApplicationRequest true "Application data"
// @Success 201 {object} services.ApplicationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /instructor-applications [post]
func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	h.LogRequest(c, "Submitting instructor application")

	var req services.SubmitApplicationRequest
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

	application, err := h.applicationService.Submit(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, application)
}

// GetMyApplication returns the caller's own application
// @Summary Get my application
// @Description Get the authenticated user's instructor application
// @Tags applications
// @Accept json
// @Produce json
// @Success 200 {object} services.ApplicationResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /instructor-applications/me [get]
func (h *ApplicationHandler) GetMyApplication(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	application, err := h.applicationService.GetMyApplication(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, application)
}

// ===== ADMIN REVIEW =====

// ListApplications lists applications for admin review
// @Summary List applications
// @Description Get a paginated list of instructor applications with review queue stats
// @Tags admin
// @Accept json
// @Produce json
// @Param status query string false "Filter by status (Pending, UnderReview, Approved, Rejected)"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} services.ApplicationListResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/applications [get]
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	h.LogRequest(c, "Listing instructor applications")

	filters := h.parseApplicationFilters(c)

	applications, err := h.applicationService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, applications)
}

// GetApplication retrieves one application
// @Summary Get application by ID
// @Description Get full application details for review
// @Tags admin
// @Accept json
// @Produce json
// @Param id path uint true "Application ID"
// @Success 200 {object} services.ApplicationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/applications/{id} [get]
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	application, err := h.applicationService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, application)
}

// ReviewApplication marks an application as under review
// @Summary Mark application under review
// @Description Move a pending application into the under-review state
// @Tags admin
// @Accept json
// @Produce json
// @Param id path uint true "Application ID"
// @Param review body services.ReviewApplicationRequest false "Optional admin notes"
// @Success 200 {object} services.ApplicationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/applications/{id}/review [put]
func (h *ApplicationHandler) ReviewApplication(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	reviewerID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	// Body is optional for this transition
	var req services.ReviewApplicationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid request payload",
				Details: err.Error(),
			})
			return
		}
	}

	h.LogRequest(c, "Moving application under review", "application_id", id)

	application, err := h.applicationService.SetUnderReview(c.Request.Context(), id, reviewerID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, application)
}

// ApproveApplication approves an application
// @Summary Approve application
// @Description Approve an instructor application and promote the applicant to the Instructor role
// @Tags admin
// @Accept json
// @Produce json
// @Param id path uint true "Application ID"
// @Success 200 {object} services.ApplicationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/applications/{id}/approve [put]
func (h *ApplicationHandler) ApproveApplication(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	reviewerID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Approving application", "application_id", id)

	application, err := h.applicationService.Approve(c.Request.Context(), id, reviewerID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, application)
}

// RejectApplication rejects an application
// @Summary Reject application
// @Description Reject an instructor application with a mandatory reason
// @Tags admin
// @Accept json
// @Produce json
// @Param id path uint true "Application ID"
// @Param rejection body services.RejectApplicationRequest true "Rejection reason"
// @Success 200 {object} services.ApplicationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/applications/{id}/reject [put]
func (h *ApplicationHandler) RejectApplication(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.RejectApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	reviewerID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Rejecting application", "application_id", id)

	application, err := h.applicationService.Reject(c.Request.Context(), id, reviewerID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, application)
}

// ExportApplications streams the review queue as a spreadsheet
// @Summary Export applications
// @Description Download the instructor application queue as an xlsx file
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param status query string false "Filter by status (Pending, UnderReview, Approved, Rejected)"
// @Success 200 {file} file "Spreadsheet"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/applications/export [get]
func (h *ApplicationHandler) ExportApplications(c *gin.Context) {
	h.LogRequest(c, "Exporting instructor applications")

	filters := h.parseApplicationFilters(c)

	file, err := h.reportService.ExportApplications(c.Request.Context(), filters)
	if err != nil {
		h.LogError(c, err, "Failed to export applications")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to export applications",
		})
		return
	}

	filename := fmt.Sprintf("instructor-applications-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := file.Write(c.Writer); err != nil {
		h.LogError(c, err, "Failed to stream export")
	}
}

// ===== HELPER METHODS =====

func (h *ApplicationHandler) parseApplicationFilters(c *gin.Context) repositories.ApplicationFilters {
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

	filters := repositories.ApplicationFilters{
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if status := c.Query("status"); status != "" {
		applicationStatus := models.ApplicationStatus(status)
		filters.Status = &applicationStatus
	}
	if fromStr := c.Query("date_from"); fromStr != "" {
		if from, err := time.Parse(time.RFC3339, fromStr); err == nil {
			filters.DateFrom = &from
		}
	}
	if toStr := c.Query("date_to"); toStr != "" {
		if to, err := time.Parse(time.RFC3339, toStr); err == nil {
			filters.DateTo = &to
		}
	}

	return filters
}
