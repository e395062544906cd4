package postgres

import (
	"context"

	"github.com/CoursePlatform-F25/course-service/internal/models"
	"github.com/CoursePlatform-F25/course-service/internal/repositories"
	"gorm.io/gorm"
)

// SharedHelpers contains common database operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ApplyCourseFilters applies common filters to course queries
func (h *SharedHelpers) ApplyCourseFilters(query *gorm.DB, filters repositories.CourseFilters) *gorm.DB {
	if filters.Language != nil {
		query = query.Where("language = ?", *filters.Language)
	}
	if filters.Level != nil {
		query = query.Where("level = ?", *filters.Level)
	}
	if filters.InstructorID != nil {
		query = query.Where("instructor_id = ?", *filters.InstructorID)
	}
	if filters.IsPublished != nil {
		query = query.Where("is_published = ?", *filters.IsPublished)
	}
	if filters.PriceMax != nil {
		query = query.Where("price <= ?", *filters.PriceMax)
	}
	if filters.Search != nil && *filters.Search != "" {
		pattern := "%" + *filters.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	return query
}

// ApplyApplicationFilters applies common filters to application queries
func (h *SharedHelpers) ApplyApplicationFilters(query *gorm.DB, filters repositories.ApplicationFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DateFrom != nil {
		query = query.Where("submitted_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("submitted_at <= ?", *filters.DateTo)
	}
	return query
}

// ApplyPaginationAndSort applies pagination and sorting with SQL injection protection
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	// Whitelist allowed sort columns
	allowedSortColumns := map[string]bool{
		"created_at":   true,
		"updated_at":   true,
		"id":           true,
		"title":        true,
		"price":        true,
		"level":        true,
		"language":     true,
		"status":       true,
		"submitted_at": true,
		"enrolled_at":  true,
	}

	// Validate and set sort column
	if sortBy == "" || !allowedSortColumns[sortBy] {
		sortBy = "created_at"
	}

	// Validate and set sort order
	if sortOrder != "asc" && sortOrder != "ASC" {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	query = query.Order(sortBy + " " + sortOrder)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}

// CountEnrollments counts enrollments for a course
func (h *SharedHelpers) CountEnrollments(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := h.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

// FillLessonCounts populates the computed LessonCount field for a batch
// of courses in one query instead of one count per course.
func (h *SharedHelpers) FillLessonCounts(ctx context.Context, courses []*models.Course) error {
	if len(courses) == 0 {
		return nil
	}

	ids := make([]uint, len(courses))
	byID := make(map[uint]*models.Course, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
		byID[c.ID] = c
	}

	var rows []struct {
		CourseID uint
		Count    int
	}
	err := h.db.WithContext(ctx).
		Model(&models.Lesson{}).
		Select("course_id, COUNT(*) as count").
		Where("course_id IN ?", ids).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	for _, row := range rows {
		if c, ok := byID[row.CourseID]; ok {
			c.LessonCount = row.Count
		}
	}
	return nil
}
