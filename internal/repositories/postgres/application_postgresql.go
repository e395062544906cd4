package postgres

import (
	"context"
	"fmt"

	"github.com/CoursePlatform-F25/course-service/internal/models"
	"github.com/CoursePlatform-F25/course-service/internal/repositories"
	"gorm.io/gorm"
)

type ApplicationPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewApplicationPostgreSQL(db *gorm.DB) repositories.ApplicationRepository {
	return &ApplicationPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (a *ApplicationPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return a.db
}

func (a *ApplicationPostgreSQL) Create(ctx context.Context, tx *gorm.DB, application *models.InstructorApplication) error {
	db := a.getDB(tx)
	if err := db.WithContext(ctx).Create(application).Error; err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (a *ApplicationPostgreSQL) GetByID(ctx context.Context, id uint) (*models.InstructorApplication, error) {
	var application models.InstructorApplication
	err := a.db.WithContext(ctx).
		Preload("User").
		First(&application, id).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (a *ApplicationPostgreSQL) GetByUserID(ctx context.Context, userID string) (*models.InstructorApplication, error) {
	var application models.InstructorApplication
	err := a.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&application).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (a *ApplicationPostgreSQL) Update(ctx context.Context, tx *gorm.DB, application *models.InstructorApplication) error {
	db := a.getDB(tx)
	if err := db.WithContext(ctx).Save(application).Error; err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	return nil
}

func (a *ApplicationPostgreSQL) List(ctx context.Context, filters repositories.ApplicationFilters) ([]*models.InstructorApplication, int64, error) {
	var applications []*models.InstructorApplication
	var total int64

	// apply filter first
	query := a.db.WithContext(ctx).Model(&models.InstructorApplication{})
	query = a.helpers.ApplyApplicationFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	if filters.SortBy == "" {
		filters.SortBy = "submitted_at"
	}
	query = a.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Preload("User").Find(&applications).Error; err != nil {
		return nil, 0, err
	}

	return applications, total, nil
}

func (a *ApplicationPostgreSQL) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := a.db.WithContext(ctx).
		Model(&models.InstructorApplication{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count > 0, err
}

func (a *ApplicationPostgreSQL) GetStats(ctx context.Context) (*repositories.ApplicationStats, error) {
	var rows []struct {
		Status models.ApplicationStatus
		Count  int64
	}
	err := a.db.WithContext(ctx).
		Model(&models.InstructorApplication{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get application stats: %w", err)
	}

	stats := &repositories.ApplicationStats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case models.ApplicationPending:
			stats.Pending = row.Count
		case models.ApplicationUnderReview:
			stats.UnderReview = row.Count
		case models.ApplicationApproved:
			stats.Approved = row.Count
		case models.ApplicationRejected:
			stats.Rejected = row.Count
		}
	}

	return stats, nil
}
