package postgres

import (
	"context"
	"fmt"

	"github.com/CoursePlatform-F25/course-service/internal/models"
	"github.com/CoursePlatform-F25/course-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LessonProgressPostgreSQL struct {
	db *gorm.DB
}

func NewLessonProgressPostgreSQL(db *gorm.DB) repositories.LessonProgressRepository {
	return &LessonProgressPostgreSQL{db: db}
}

func (p *LessonProgressPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return p.db
}

// Upsert writes the (user, lesson) row through the unique index.
// Completion never reverts and watched seconds never shrink, so a
// stale client replay cannot undo progress.
func (p *LessonProgressPostgreSQL) Upsert(ctx context.Context, tx *gorm.DB, progress *models.LessonProgress) error {
	db := p.getDB(tx)
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"is_completed":    gorm.Expr("lesson_progresses.is_completed OR excluded.is_completed"),
			"completed_at":    gorm.Expr("COALESCE(lesson_progresses.completed_at, excluded.completed_at)"),
			"watched_seconds": gorm.Expr("GREATEST(lesson_progresses.watched_seconds, excluded.watched_seconds)"),
			"updated_at":      gorm.Expr("excluded.updated_at"),
		}),
	}).Create(progress).Error
	if err != nil {
		return fmt.Errorf("failed to upsert lesson progress: %w", err)
	}
	return nil
}

func (p *LessonProgressPostgreSQL) GetByUserAndLesson(ctx context.Context, userID string, lessonID uint) (*models.LessonProgress, error) {
	var progress models.LessonProgress
	err := p.db.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (p *LessonProgressPostgreSQL) ListByUserAndCourse(ctx context.Context, userID string, courseID uint) ([]*models.LessonProgress, error) {
	var rows []*models.LessonProgress
	err := p.db.WithContext(ctx).
		Joins("JOIN lessons ON lessons.id = lesson_progresses.lesson_id").
		Where("lesson_progresses.user_id = ? AND lessons.course_id = ?", userID, courseID).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list lesson progress: %w", err)
	}
	return rows, nil
}

// GetProgressCounts counts lessons and completed progress rows in one
// pass. Progress rows are joined through the lesson table, so rows for
// lessons that were deleted or moved out of the course drop out of the
// completed side the same way the lessons drop out of the total.
func (p *LessonProgressPostgreSQL) GetProgressCounts(ctx context.Context, userID string, courseID uint) (*repositories.ProgressCounts, error) {
	var counts repositories.ProgressCounts

	err := p.db.WithContext(ctx).
		Table("lessons l").
		Select(`COUNT(*) as total_lessons,
			COUNT(*) FILTER (WHERE lp.is_completed) as completed_lessons`).
		Joins("LEFT JOIN lesson_progresses lp ON lp.lesson_id = l.id AND lp.user_id = ?", userID).
		Where("l.course_id = ? AND l.deleted_at IS NULL", courseID).
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count progress: %w", err)
	}

	return &counts, nil
}

func (p *LessonProgressPostgreSQL) DeleteByUserAndCourse(ctx context.Context, tx *gorm.DB, userID string, courseID uint) error {
	db := p.getDB(tx)
	err := db.WithContext(ctx).
		Where("user_id = ? AND lesson_id IN (?)",
			userID,
			db.Model(&models.Lesson{}).Select("id").Where("course_id = ?", courseID),
		).
		Delete(&models.LessonProgress{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete lesson progress: %w", err)
	}
	return nil
}
