package repositories

import (
	"context"

	"github.com/CoursePlatform-F25/course-service/internal/models"
	"gorm.io/gorm"
)

// CourseRepository interface for course catalog operations
type CourseRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, course *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	GetByIDWithLessons(ctx context.Context, id uint) (*models.Course, error)
	Update(ctx context.Context, tx *gorm.DB, course *models.Course) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// List and search operations (lesson counts filled in one pass)
	List(ctx context.Context, filters CourseFilters) ([]*models.Course, int64, error)
	ListByInstructor(ctx context.Context, instructorID string, filters CourseFilters) ([]*models.Course, int64, error)

	// Publishing
	SetPublished(ctx context.Context, tx *gorm.DB, id uint, published bool) error

	// Validation and checks
	ExistsByID(ctx context.Context, id uint) (bool, error)
	IsOwnedBy(ctx context.Context, id uint, instructorID string) (bool, error)

	// Statistics
	GetStats(ctx context.Context, id uint) (*CourseStats, error)
}

// LessonRepository interface for lesson operations
type LessonRepository interface {
	Create(ctx context.Context, tx *gorm.DB, lesson *models.Lesson) error
	GetByID(ctx context.Context, id uint) (*models.Lesson, error)
	Update(ctx context.Context, tx *gorm.DB, lesson *models.Lesson) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// ListByCourse returns the course's lessons ordered by order_index.
	ListByCourse(ctx context.Context, courseID uint) ([]*models.Lesson, error)
	CountByCourse(ctx context.Context, courseID uint) (int64, error)

	// NextOrderIndex returns the order index a newly appended lesson
	// should take (max existing + 1, or 0 for an empty course).
	NextOrderIndex(ctx context.Context, courseID uint) (int, error)
}
