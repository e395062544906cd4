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

type CoursePostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewCoursePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.CourseRepository {
	return &CoursePostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (c *CoursePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

func (c *CoursePostgreSQL) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := c.getDB(tx)
	if err := db.WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, course.ID, course.InstructorID)
	return nil
}

func (c *CoursePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	cacheKey := fmt.Sprintf("id:%d", id)
	var course models.Course

	err := c.cacheManager.Course.CacheOrExecute(ctx, cacheKey, &course, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		var dbCourse models.Course
		if err := c.db.WithContext(ctx).Preload("Instructor").First(&dbCourse, id).Error; err != nil {
			return nil, err
		}
		return &dbCourse, nil
	})
	if err != nil {
		return nil, err
	}

	return &course, nil
}

func (c *CoursePostgreSQL) GetByIDWithLessons(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	err := c.db.WithContext(ctx).
		Preload("Instructor").
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		First(&course, id).Error
	if err != nil {
		return nil, err
	}
	course.LessonCount = len(course.Lessons)
	return &course, nil
}

func (c *CoursePostgreSQL) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := c.getDB(tx)
	if err := db.WithContext(ctx).Save(course).Error; err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, course.ID, course.InstructorID)
	return nil
}

func (c *CoursePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := c.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.Course{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, id, "")
	return nil
}

func (c *CoursePostgreSQL) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	var courses []*models.Course
	var total int64

	// apply filter first
	query := c.db.WithContext(ctx).Model(&models.Course{})
	query = c.helpers.ApplyCourseFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = c.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Preload("Instructor").Find(&courses).Error; err != nil {
		return nil, 0, err
	}

	if err := c.helpers.FillLessonCounts(ctx, courses); err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

func (c *CoursePostgreSQL) ListByInstructor(ctx context.Context, instructorID string, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	filters.InstructorID = &instructorID
	return c.List(ctx, filters)
}

func (c *CoursePostgreSQL) SetPublished(ctx context.Context, tx *gorm.DB, id uint, published bool) error {
	db := c.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", id).
		Update("is_published", published)
	if result.Error != nil {
		return fmt.Errorf("failed to update publish state: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, id, "")
	return nil
}

func (c *CoursePostgreSQL) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (c *CoursePostgreSQL) IsOwnedBy(ctx context.Context, id uint, instructorID string) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ? AND instructor_id = ?", id, instructorID).
		Count(&count).Error
	return count > 0, err
}

// GetStats aggregates enrollment figures for the instructor dashboard.
func (c *CoursePostgreSQL) GetStats(ctx context.Context, id uint) (*repositories.CourseStats, error) {
	var stats repositories.CourseStats
	cacheKey := fmt.Sprintf("course:%d:stats", id)

	err := c.cacheManager.Stats.CacheOrExecute(ctx, cacheKey, &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		var result repositories.CourseStats
		err := c.db.WithContext(ctx).
			Model(&models.Enrollment{}).
			Select("COUNT(*) as enrollment_count, COUNT(completed_at) as completion_count, COALESCE(AVG(progress_percentage), 0) as average_progress").
			Where("course_id = ?", id).
			Scan(&result).Error
		if err != nil {
			return nil, err
		}
		return &result, nil
	})
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
