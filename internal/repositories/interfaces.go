package repositories

import (
	"time"

	"github.com/CoursePlatform-F25/course-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type CourseFilters struct {
	Language     *models.CourseLanguage `json:"language"`
	Level        *models.CourseLevel    `json:"level"`
	InstructorID *string                `json:"instructor_id"`
	IsPublished  *bool                  `json:"is_published"`
	Search       *string                `json:"search"` // matches title or description
	PriceMax     *float64               `json:"price_max"`
	Limit        int                    `json:"limit"`
	Offset       int                    `json:"offset"`
	SortBy       string                 `json:"sort_by"`    // "created_at", "title", "price"
	SortOrder    string                 `json:"sort_order"` // "asc", "desc"
}

type ApplicationFilters struct {
	Status    *models.ApplicationStatus `json:"status"`
	DateFrom  *time.Time                `json:"date_from"`
	DateTo    *time.Time                `json:"date_to"`
	Limit     int                       `json:"limit"`
	Offset    int                       `json:"offset"`
	SortBy    string                    `json:"sort_by"`
	SortOrder string                    `json:"sort_order"`
}

type UserFilters struct {
	Role   *models.UserRole `json:"role"`
	Query  string           `json:"query"` // matches name or email
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// ===== SHARED AGGREGATION STRUCTS =====

// ProgressCounts is the raw material for a progress percentage: how many
// lessons the course has and how many of them the user completed. Only
// progress rows whose lesson still belongs to the course are counted.
type ProgressCounts struct {
	TotalLessons     int `json:"total_lessons"`
	CompletedLessons int `json:"completed_lessons"`
}

// EnrollmentSummary is one row of the my-courses listing, produced by a
// single aggregated query so the listing never fans out per course.
type EnrollmentSummary struct {
	EnrollmentID       uint                  `json:"enrollment_id"`
	CourseID           uint                  `json:"course_id"`
	CourseTitle        string                `json:"course_title"`
	CourseDescription  string                `json:"course_description"`
	CourseLanguage     models.CourseLanguage `json:"course_language"`
	CourseLevel        models.CourseLevel    `json:"course_level"`
	ThumbnailURL       *string               `json:"thumbnail_url"`
	InstructorName     string                `json:"instructor_name"`
	EnrolledAt         time.Time             `json:"enrolled_at"`
	CompletedAt        *time.Time            `json:"completed_at"`
	ProgressPercentage float64               `json:"progress_percentage"`
	TotalLessons       int                   `json:"total_lessons"`
	CompletedLessons   int                   `json:"completed_lessons"`
}

// ApplicationStats feeds the admin dashboard counters.
type ApplicationStats struct {
	Total       int64 `json:"total"`
	Pending     int64 `json:"pending"`
	UnderReview int64 `json:"under_review"`
	Approved    int64 `json:"approved"`
	Rejected    int64 `json:"rejected"`
}

// CourseStats feeds the instructor dashboard.
type CourseStats struct {
	EnrollmentCount int64   `json:"enrollment_count"`
	CompletionCount int64   `json:"completion_count"`
	AverageProgress float64 `json:"average_progress"`
}
