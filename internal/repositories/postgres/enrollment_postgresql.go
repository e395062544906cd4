package postgres

import (
	"context"
	"fmt"

	"github.com/CoursePlatform-F25/course-service/internal/cache"
	"github.com/CoursePlatform-F25/course-service/internal/models"
	"github.com/CoursePlatform-F25/course-service/internal/repositories"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type EnrollmentPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewEnrollmentPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (e *EnrollmentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return e.db
}

func (e *EnrollmentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	db := e.getDB(tx)
	if err := db.WithContext(ctx).Create(enrollment).Error; err != nil {
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	cache.InvalidateEnrollmentCache(ctx, e.cacheManager, enrollment.UserID, enrollment.CourseID)
	return nil
}

func (e *EnrollmentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := e.db.WithContext(ctx).First(&enrollment, id).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (e *EnrollmentPostgreSQL) GetByUserAndCourse(ctx context.Context, userID string, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := e.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (e *EnrollmentPostgreSQL) Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	db := e.getDB(tx)
	if err := db.WithContext(ctx).Save(enrollment).Error; err != nil {
		return fmt.Errorf("failed to update enrollment: %w", err)
	}
	cache.InvalidateEnrollmentCache(ctx, e.cacheManager, enrollment.UserID, enrollment.CourseID)
	return nil
}

func (e *EnrollmentPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := e.getDB(tx)

	// Load first so the cache invalidation knows user and course.
	var enrollment models.Enrollment
	if err := db.WithContext(ctx).First(&enrollment, id).Error; err != nil {
		return err
	}

	if err := db.WithContext(ctx).Unscoped().Delete(&models.Enrollment{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	cache.InvalidateEnrollmentCache(ctx, e.cacheManager, enrollment.UserID, enrollment.CourseID)
	return nil
}

// ListSummariesByUser builds the my-courses listing in one aggregated
// query: course + instructor joined in, lesson totals and completed
// counts as correlated subqueries. Newest enrollment first.
func (e *EnrollmentPostgreSQL) ListSummariesByUser(ctx context.Context, userID string) ([]*repositories.EnrollmentSummary, error) {
	var summaries []*repositories.EnrollmentSummary

	err := e.db.WithContext(ctx).
		Table("enrollments e").
		Select(`e.id as enrollment_id,
			c.id as course_id,
			c.title as course_title,
			c.description as course_description,
			c.language as course_language,
			c.level as course_level,
			c.thumbnail_url as thumbnail_url,
			u.first_name || ' ' || u.last_name as instructor_name,
			e.enrolled_at as enrolled_at,
			e.completed_at as completed_at,
			e.progress_percentage as progress_percentage,
			(SELECT COUNT(*) FROM lessons l WHERE l.course_id = c.id AND l.deleted_at IS NULL) as total_lessons,
			(SELECT COUNT(*) FROM lesson_progresses lp
				JOIN lessons l ON l.id = lp.lesson_id AND l.deleted_at IS NULL
				WHERE lp.user_id = e.user_id AND l.course_id = c.id AND lp.is_completed) as completed_lessons`).
		Joins("JOIN courses c ON c.id = e.course_id AND c.deleted_at IS NULL").
		Joins("JOIN users u ON u.id = c.instructor_id").
		Where("e.user_id = ? AND e.deleted_at IS NULL", userID).
		Order("e.enrolled_at DESC").
		Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollment summaries: %w", err)
	}

	return summaries, nil
}

func (e *EnrollmentPostgreSQL) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	return e.helpers.CountEnrollments(ctx, courseID)
}

func (e *EnrollmentPostgreSQL) ExistsByUserAndCourse(ctx context.Context, userID string, courseID uint) (bool, error) {
	var count int64
	err := e.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}
