package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/CoursePlatform-F25/course-service/internal/models"
	"github.com/CoursePlatform-F25/course-service/internal/repositories"
	"github.com/CoursePlatform-F25/course-service/internal/validator"
)

type courseService struct {
	repo              repositories.Repository
	db                *gorm.DB
	logger            *slog.Logger
	validator         *validator.Validator
	businessValidator *validator.BusinessValidator
}

func NewCourseService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator) CourseService {
	return &courseService{
		repo:              repo,
		db:                db,
		logger:            logger,
		validator:         v,
		businessValidator: validator.NewBusinessValidator(),
	}
}

// ===== PUBLIC CATALOG =====

func (s *courseService) List(ctx context.Context, filters CourseListFilters) (*CourseListResponse, error) {
	published := true
	repoFilters := repositories.CourseFilters{
		Language:    filters.Language,
		Level:       filters.Level,
		Search:      filters.Search,
		PriceMax:    filters.PriceMax,
		IsPublished: &published,
		Limit:       normalizeLimit(filters.Limit),
		Offset:      filters.Offset,
		SortBy:      filters.SortBy,
		SortOrder:   filters.SortOrder,
	}

	courses, total, err := s.repo.Course().List(ctx, repoFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	responses := make([]*CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, s.toResponse(course))
	}

	return &CourseListResponse{
		Courses: responses,
		Total:   total,
		Limit:   repoFilters.Limit,
		Offset:  repoFilters.Offset,
	}, nil
}

// GetByID returns the course with its lessons ordered by position.
// Unpublished courses are visible only to their instructor and admins.
func (s *courseService) GetByID(ctx context.Context, courseID uint, userID string, role models.UserRole) (*CourseDetailResponse, error) {
	course, err := s.repo.Course().GetByIDWithLessons(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if !course.IsPublished {
		isOwner := userID != "" && course.InstructorID == userID
		if !isOwner && role != models.RoleAdmin {
			// Hidden courses look like missing courses to outsiders.
			return nil, ErrCourseNotFound
		}
	}

	detail := &CourseDetailResponse{
		CourseResponse: *s.toResponse(course),
		Lessons:        make([]LessonResponse, 0, len(course.Lessons)),
	}
	for _, lesson := range course.Lessons {
		detail.Lessons = append(detail.Lessons, toLessonResponse(&lesson))
	}

	return detail, nil
}

// ===== INSTRUCTOR MANAGEMENT =====

func (s *courseService) Create(ctx context.Context, req *CreateCourseRequest, instructorID string) (*CourseResponse, error) {
	s.logger.Info("Creating course", "instructor_id", instructorID, "title", req.Title)

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	level := req.Level
	if level == "" {
		level = models.LevelBeginner
	}

	course := &models.Course{
		Title:        req.Title,
		Description:  req.Description,
		Language:     req.Language,
		Level:        level,
		Price:        req.Price,
		ThumbnailURL: req.ThumbnailURL,
		InstructorID: instructorID,
	}

	if err := s.repo.Course().Create(ctx, nil, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info("Course created", "course_id", course.ID, "instructor_id", instructorID)
	return s.toResponse(course), nil
}

func (s *courseService) Update(ctx context.Context, courseID uint, req *UpdateCourseRequest, instructorID string) (*CourseResponse, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	course, err := s.getOwned(ctx, courseID, instructorID, "update")
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Language != nil {
		course.Language = *req.Language
	}
	if req.Level != nil {
		course.Level = *req.Level
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.ThumbnailURL != nil {
		course.ThumbnailURL = req.ThumbnailURL
	}

	if err := s.repo.Course().Update(ctx, nil, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	return s.toResponse(course), nil
}

func (s *courseService) Delete(ctx context.Context, courseID uint, instructorID string) error {
	course, err := s.getOwned(ctx, courseID, instructorID, "delete")
	if err != nil {
		return err
	}

	if err := s.repo.Course().Delete(ctx, nil, course.ID); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	s.logger.Info("Course deleted", "course_id", courseID, "instructor_id", instructorID)
	return nil
}

func (s *courseService) SetPublished(ctx context.Context, courseID uint, instructorID string, published bool) error {
	course, err := s.getOwned(ctx, courseID, instructorID, "publish")
	if err != nil {
		return err
	}

	if published {
		lessonCount, err := s.repo.Lesson().CountByCourse(ctx, courseID)
		if err != nil {
			return fmt.Errorf("failed to count lessons: %w", err)
		}
		if errs := s.businessValidator.ValidateCoursePublish(course, lessonCount); len(errs) > 0 {
			return errs
		}
	}

	if err := s.repo.Course().SetPublished(ctx, nil, courseID, published); err != nil {
		return fmt.Errorf("failed to set publish state: %w", err)
	}

	s.logger.Info("Course publish state changed",
		"course_id", courseID,
		"published", published)
	return nil
}

func (s *courseService) ListByInstructor(ctx context.Context, instructorID string, filters CourseListFilters) (*CourseListResponse, error) {
	repoFilters := repositories.CourseFilters{
		Language:  filters.Language,
		Level:     filters.Level,
		Search:    filters.Search,
		Limit:     normalizeLimit(filters.Limit),
		Offset:    filters.Offset,
		SortBy:    filters.SortBy,
		SortOrder: filters.SortOrder,
	}

	courses, total, err := s.repo.Course().ListByInstructor(ctx, instructorID, repoFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to list instructor courses: %w", err)
	}

	responses := make([]*CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, s.toResponse(course))
	}

	return &CourseListResponse{
		Courses: responses,
		Total:   total,
		Limit:   repoFilters.Limit,
		Offset:  repoFilters.Offset,
	}, nil
}

// ===== LESSON MANAGEMENT =====

func (s *courseService) AddLesson(ctx context.Context, courseID uint, req *CreateLessonRequest, instructorID string) (*LessonResponse, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	if _, err := s.getOwned(ctx, courseID, instructorID, "add lesson to"); err != nil {
		return nil, err
	}

	orderIndex, err := s.repo.Lesson().NextOrderIndex(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to determine lesson order: %w", err)
	}

	lesson := &models.Lesson{
		CourseID:        courseID,
		Title:           req.Title,
		Description:     req.Description,
		OrderIndex:      orderIndex,
		DurationMinutes: req.DurationMinutes,
		IsPublished:     req.IsPublished,
		VideoURL:        req.VideoURL,
		Content:         req.Content,
		Attachments:     req.Attachments,
	}

	if err := s.repo.Lesson().Create(ctx, nil, lesson); err != nil {
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}

	s.logger.Info("Lesson added", "lesson_id", lesson.ID, "course_id", courseID)
	resp := toLessonResponse(lesson)
	return &resp, nil
}

func (s *courseService) UpdateLesson(ctx context.Context, lessonID uint, req *UpdateLessonRequest, instructorID string) (*LessonResponse, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	lesson, err := s.getOwnedLesson(ctx, lessonID, instructorID, "update")
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		lesson.Title = *req.Title
	}
	if req.Description != nil {
		lesson.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		lesson.DurationMinutes = *req.DurationMinutes
	}
	if req.OrderIndex != nil {
		lesson.OrderIndex = *req.OrderIndex
	}
	if req.VideoURL != nil {
		lesson.VideoURL = req.VideoURL
	}
	if req.Content != nil {
		lesson.Content = req.Content
	}
	if req.Attachments != nil {
		lesson.Attachments = req.Attachments
	}
	if req.IsPublished != nil {
		lesson.IsPublished = *req.IsPublished
	}

	if err := s.repo.Lesson().Update(ctx, nil, lesson); err != nil {
		return nil, fmt.Errorf("failed to update lesson: %w", err)
	}

	resp := toLessonResponse(lesson)
	return &resp, nil
}

func (s *courseService) DeleteLesson(ctx context.Context, lessonID uint, instructorID string) error {
	lesson, err := s.getOwnedLesson(ctx, lessonID, instructorID, "delete")
	if err != nil {
		return err
	}

	if err := s.repo.Lesson().Delete(ctx, nil, lesson.ID); err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}

	s.logger.Info("Lesson deleted", "lesson_id", lessonID, "course_id", lesson.CourseID)
	return nil
}

// ===== HELPERS =====

func (s *courseService) getOwned(ctx context.Context, courseID uint, instructorID, action string) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if course.InstructorID != instructorID {
		return nil, NewPermissionError(instructorID, courseID, "course", action, "not owned by instructor")
	}

	return course, nil
}

func (s *courseService) getOwnedLesson(ctx context.Context, lessonID uint, instructorID, action string) (*models.Lesson, error) {
	lesson, err := s.repo.Lesson().GetByID(ctx, lessonID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}

	owned, err := s.repo.Course().IsOwnedBy(ctx, lesson.CourseID, instructorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check course ownership: %w", err)
	}
	if !owned {
		return nil, NewPermissionError(instructorID, lessonID, "lesson", action, "course not owned by instructor")
	}

	return lesson, nil
}

func (s *courseService) toResponse(course *models.Course) *CourseResponse {
	resp := &CourseResponse{
		ID:           course.ID,
		Title:        course.Title,
		Description:  course.Description,
		Language:     course.Language,
		Level:        course.Level,
		Price:        course.Price,
		ThumbnailURL: course.ThumbnailURL,
		IsPublished:  course.IsPublished,
		InstructorID: course.InstructorID,
		LessonCount:  course.LessonCount,
		CreatedAt:    course.CreatedAt,
	}
	if course.Instructor.ID != "" {
		resp.InstructorName = course.Instructor.DisplayName()
	}
	return resp
}

func toLessonResponse(lesson *models.Lesson) LessonResponse {
	return LessonResponse{
		ID:              lesson.ID,
		CourseID:        lesson.CourseID,
		Title:           lesson.Title,
		Description:     lesson.Description,
		OrderIndex:      lesson.OrderIndex,
		DurationMinutes: lesson.DurationMinutes,
		IsPublished:     lesson.IsPublished,
		VideoURL:        lesson.VideoURL,
		Content:         lesson.Content,
	}
}

func normalizeLimit(limit int) int {
	const defaultLimit, maxLimit = 20, 100
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
