package repositories

import (
	"context"

	"github.com/CoursePlatform-F25/course-service/internal/models"
	"gorm.io/gorm"
)

// EnrollmentRepository interface for enrollment operations
type EnrollmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id uint) (*models.Enrollment, error)
	GetByUserAndCourse(ctx context.Context, userID string, courseID uint) (*models.Enrollment, error)
	Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// ListSummariesByUser produces the my-courses rows in a single
	// aggregated query, newest enrollment first.
	ListSummariesByUser(ctx context.Context, userID string) ([]*EnrollmentSummary, error)

	CountByCourse(ctx context.Context, courseID uint) (int64, error)
	ExistsByUserAndCourse(ctx context.Context, userID string, courseID uint) (bool, error)
}

// LessonProgressRepository interface for per-lesson progress rows
type LessonProgressRepository interface {
	// Upsert inserts or updates the (user, lesson) row. Completion is
	// monotonic: an existing completed row never reverts, and watched
	// seconds only grow.
	Upsert(ctx context.Context, tx *gorm.DB, progress *models.LessonProgress) error
	GetByUserAndLesson(ctx context.Context, userID string, lessonID uint) (*models.LessonProgress, error)
	ListByUserAndCourse(ctx context.Context, userID string, courseID uint) ([]*models.LessonProgress, error)

	// GetProgressCounts counts the course's lessons and the user's
	// completed rows among them in one query pass.
	GetProgressCounts(ctx context.Context, userID string, courseID uint) (*ProgressCounts, error)

	// DeleteByUserAndCourse removes every progress row the user holds
	// for lessons of the course. Runs inside the unenroll transaction.
	DeleteByUserAndCourse(ctx context.Context, tx *gorm.DB, userID string, courseID uint) error
}
