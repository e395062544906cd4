package validator

import (
	"github.com/CoursePlatform-F25/course-service/internal/models"
	"gorm.io/datatypes"
)

// CourseCreateRequest represents the request structure for creating courses
type CourseCreateRequest struct {
	Title        string                `json:"title" validate:"required,notblank,max=200"`
	Description  string                `json:"description" validate:"max=1000"`
	Language     models.CourseLanguage `json:"language" validate:"required,course_language"`
	Level        models.CourseLevel    `json:"level" validate:"omitempty,course_level"`
	Price        float64               `json:"price" validate:"min=0,max=10000"`
	ThumbnailURL *string               `json:"thumbnail_url" validate:"omitempty,url,max=500"`
}

// CourseUpdateRequest represents the request structure for updating courses
type CourseUpdateRequest struct {
	Title        *string                `json:"title" validate:"omitempty,notblank,max=200"`
	Description  *string                `json:"description" validate:"omitempty,max=1000"`
	Language     *models.CourseLanguage `json:"language" validate:"omitempty,course_language"`
	Level        *models.CourseLevel    `json:"level" validate:"omitempty,course_level"`
	Price        *float64               `json:"price" validate:"omitempty,min=0,max=10000"`
	ThumbnailURL *string                `json:"thumbnail_url" validate:"omitempty,url,max=500"`
}

// LessonCreateRequest represents the request structure for adding lessons
type LessonCreateRequest struct {
	Title           string         `json:"title" validate:"required,notblank,max=200"`
	Description     string         `json:"description" validate:"max=1000"`
	DurationMinutes int            `json:"duration_minutes" validate:"min=0,max=600"`
	VideoURL        *string        `json:"video_url" validate:"omitempty,url,max=500"`
	Content         *string        `json:"content"`
	Attachments     datatypes.JSON `json:"attachments"`
	IsPublished     bool           `json:"is_published"`
}

// LessonUpdateRequest represents the request structure for updating lessons
type LessonUpdateRequest struct {
	Title           *string        `json:"title" validate:"omitempty,notblank,max=200"`
	Description     *string        `json:"description" validate:"omitempty,max=1000"`
	DurationMinutes *int           `json:"duration_minutes" validate:"omitempty,min=0,max=600"`
	OrderIndex      *int           `json:"order_index" validate:"omitempty,min=0"`
	VideoURL        *string        `json:"video_url" validate:"omitempty,url,max=500"`
	Content         *string        `json:"content"`
	Attachments     datatypes.JSON `json:"attachments"`
	IsPublished     *bool          `json:"is_published"`
}

// ApplicationSubmitRequest represents an instructor application submission
type ApplicationSubmitRequest struct {
	Bio                string  `json:"bio" validate:"required,notblank,max=2000"`
	Expertise          string  `json:"expertise" validate:"required,notblank,max=500"`
	TeachingExperience string  `json:"teaching_experience" validate:"required,notblank,max=2000"`
	Motivation         string  `json:"motivation" validate:"required,notblank,max=2000"`
	PhoneNumber        *string `json:"phone_number" validate:"omitempty,max=30"`
}

// ApplicationRejectRequest carries the mandatory rejection reason
type ApplicationRejectRequest struct {
	Reason     string  `json:"reason" validate:"required,notblank,max=1000"`
	AdminNotes *string `json:"admin_notes" validate:"omitempty,max=1000"`
}

// ApplicationReviewRequest marks an application as being reviewed
type ApplicationReviewRequest struct {
	AdminNotes *string `json:"admin_notes" validate:"omitempty,max=1000"`
}

// WatchTimeRequest reports playback position for a lesson
type WatchTimeRequest struct {
	WatchedSeconds int `json:"watched_seconds" validate:"min=0"`
}
