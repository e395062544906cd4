package repositories

import (
	"context"

	"github.com/CoursePlatform-F25/course-service/internal/models"
	"gorm.io/gorm"
)

// UserRepository interface for user operations
type UserRepository interface {
	// Basic operations
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error

	// UpdateRole changes only the role column; used when an approved
	// application promotes the applicant to instructor.
	UpdateRole(ctx context.Context, tx *gorm.DB, id string, role models.UserRole) error

	// List and search operations
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)

	// Validation and checks
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	HasRole(ctx context.Context, id string, role models.UserRole) (bool, error)
}
