package repositories

import (
	"context"

	"github.com/CoursePlatform-F25/course-service/internal/models"
	"gorm.io/gorm"
)

// ApplicationRepository interface for instructor application operations
type ApplicationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, application *models.InstructorApplication) error
	GetByID(ctx context.Context, id uint) (*models.InstructorApplication, error)
	GetByUserID(ctx context.Context, userID string) (*models.InstructorApplication, error)
	Update(ctx context.Context, tx *gorm.DB, application *models.InstructorApplication) error

	// List returns applications with the applicant preloaded, filtered
	// and paginated for the admin review queue.
	List(ctx context.Context, filters ApplicationFilters) ([]*models.InstructorApplication, int64, error)

	ExistsByUserID(ctx context.Context, userID string) (bool, error)
	GetStats(ctx context.Context) (*ApplicationStats, error)
}
