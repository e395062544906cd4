package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/CoursePlatform-F25/course-service/internal/models"
	"github.com/CoursePlatform-F25/course-service/internal/repositories"
	"github.com/CoursePlatform-F25/course-service/internal/validator"
)

type enrollmentService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	notifier  NotificationService
}

func NewEnrollmentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, notifier NotificationService) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		notifier:  notifier,
	}
}

// ===== STATUS =====

func (s *enrollmentService) GetStatus(ctx context.Context, courseID uint, userID string) (*EnrollmentStatusResponse, error) {
	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	// Unpublished courses are invisible here, same as the catalog.
	if !course.IsPublished {
		return nil, ErrCourseNotFound
	}

	totalLessons, err := s.repo.Lesson().CountByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to count lessons: %w", err)
	}

	// Anonymous caller: no enrollment state, just a login hint
	if userID == "" {
		return &EnrollmentStatusResponse{
			CanEnroll:    true,
			NeedsLogin:   true,
			TotalLessons: int(totalLessons),
		}, nil
	}

	enrollment, err := s.repo.Enrollment().GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return &EnrollmentStatusResponse{
				CanEnroll:    true,
				TotalLessons: int(totalLessons),
			}, nil
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	counts, err := s.repo.LessonProgress().GetProgressCounts(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to count progress: %w", err)
	}

	pct := CalculateProgress(counts.TotalLessons, counts.CompletedLessons)

	return &EnrollmentStatusResponse{
		IsEnrolled:         true,
		EnrollmentID:       &enrollment.ID,
		EnrolledAt:         &enrollment.EnrolledAt,
		ProgressPercentage: pct,
		CompletedLessons:   counts.CompletedLessons,
		TotalLessons:       counts.TotalLessons,
		IsCompleted:        enrollment.IsCompleted(),
	}, nil
}

// ===== ENROLL / UNENROLL =====

func (s *enrollmentService) Enroll(ctx context.Context, courseID uint, userID string) (*EnrollmentResponse, error) {
	s.logger.Info("Enrolling user in course", "course_id", courseID, "user_id", userID)

	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	// A hidden course looks exactly like a missing one.
	if !course.IsPublished {
		return nil, ErrCourseNotFound
	}

	exists, err := s.repo.Enrollment().ExistsByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if exists {
		return nil, ErrAlreadyEnrolled
	}

	counts, err := s.repo.LessonProgress().GetProgressCounts(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to count progress: %w", err)
	}
	pct := CalculateProgress(counts.TotalLessons, counts.CompletedLessons)

	now := time.Now()
	enrollment := &models.Enrollment{
		UserID:             userID,
		CourseID:           courseID,
		EnrolledAt:         now,
		ProgressPercentage: pct,
	}
	if IsComplete(pct) {
		enrollment.CompletedAt = &now
	}

	if err := s.repo.Enrollment().Create(ctx, nil, enrollment); err != nil {
		// The unique index on (user, course) backstops concurrent
		// enroll requests; map the violation to the same conflict.
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	s.logger.Info("User enrolled",
		"enrollment_id", enrollment.ID,
		"course_id", courseID,
		"user_id", userID)

	return &EnrollmentResponse{
		EnrollmentID:       enrollment.ID,
		CourseID:           courseID,
		EnrolledAt:         enrollment.EnrolledAt,
		ProgressPercentage: enrollment.ProgressPercentage,
	}, nil
}

func (s *enrollmentService) Unenroll(ctx context.Context, courseID uint, userID string) error {
	s.logger.Info("Unenrolling user from course", "course_id", courseID, "user_id", userID)

	enrollment, err := s.repo.Enrollment().GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrEnrollmentNotFound
		}
		return fmt.Errorf("failed to get enrollment: %w", err)
	}

	// Progress rows and the enrollment go together or not at all.
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.LessonProgress().DeleteByUserAndCourse(ctx, nil, userID, courseID); err != nil {
			return err
		}
		return txRepo.Enrollment().Delete(ctx, nil, enrollment.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to unenroll: %w", err)
	}

	s.logger.Info("User unenrolled", "enrollment_id", enrollment.ID, "user_id", userID)
	return nil
}

// ===== LISTING =====

func (s *enrollmentService) ListMyCourses(ctx context.Context, userID string) ([]*EnrolledCourseSummary, error) {
	rows, err := s.repo.Enrollment().ListSummariesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	summaries := make([]*EnrolledCourseSummary, 0, len(rows))
	for _, row := range rows {
		pct := CalculateProgress(row.TotalLessons, row.CompletedLessons)
		summaries = append(summaries, &EnrolledCourseSummary{
			EnrollmentID:       row.EnrollmentID,
			CourseID:           row.CourseID,
			Title:              row.CourseTitle,
			Description:        row.CourseDescription,
			Language:           row.CourseLanguage,
			Level:              row.CourseLevel,
			ThumbnailURL:       row.ThumbnailURL,
			InstructorName:     row.InstructorName,
			EnrolledAt:         row.EnrolledAt,
			CompletedAt:        row.CompletedAt,
			ProgressPercentage: pct,
			CompletedLessons:   row.CompletedLessons,
			TotalLessons:       row.TotalLessons,
			IsCompleted:        row.CompletedAt != nil,
		})
	}

	return summaries, nil
}

// ===== PROGRESS =====

func (s *enrollmentService) RefreshProgress(ctx context.Context, courseID uint, userID string) (*ProgressResponse, error) {
	enrollment, err := s.repo.Enrollment().GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	return s.refresh(ctx, enrollment)
}

// refresh recomputes the progress snapshot and persists it only when
// something actually changed. CompletedAt is set the first time the
// percentage reaches 100 and kept forever after, even if the course
// gains lessons and the percentage drops back below 100.
func (s *enrollmentService) refresh(ctx context.Context, enrollment *models.Enrollment) (*ProgressResponse, error) {
	counts, err := s.repo.LessonProgress().GetProgressCounts(ctx, enrollment.UserID, enrollment.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to count progress: %w", err)
	}

	pct := CalculateProgress(counts.TotalLessons, counts.CompletedLessons)

	firstCompletion := IsComplete(pct) && enrollment.CompletedAt == nil
	changed := pct != enrollment.ProgressPercentage || firstCompletion

	if changed {
		enrollment.ProgressPercentage = pct
		if firstCompletion {
			now := time.Now()
			enrollment.CompletedAt = &now
		}

		if err := s.repo.Enrollment().Update(ctx, nil, enrollment); err != nil {
			return nil, fmt.Errorf("failed to update enrollment: %w", err)
		}

		if firstCompletion && s.notifier != nil {
			course, err := s.repo.Course().GetByID(ctx, enrollment.CourseID)
			title := ""
			if err == nil {
				title = course.Title
			}
			s.notifier.CourseCompleted(ctx, enrollment, title)
		}
	}

	return &ProgressResponse{
		EnrollmentID:       enrollment.ID,
		CourseID:           enrollment.CourseID,
		ProgressPercentage: pct,
		CompletedLessons:   counts.CompletedLessons,
		TotalLessons:       counts.TotalLessons,
		IsCompleted:        enrollment.CompletedAt != nil,
		CompletedAt:        enrollment.CompletedAt,
	}, nil
}

func (s *enrollmentService) CompleteLesson(ctx context.Context, lessonID uint, userID string) (*ProgressResponse, error) {
	lesson, err := s.repo.Lesson().GetByID(ctx, lessonID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}

	enrollment, err := s.repo.Enrollment().GetByUserAndCourse(ctx, userID, lesson.CourseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotEnrolled
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	now := time.Now()
	progress := &models.LessonProgress{
		UserID:      userID,
		LessonID:    lessonID,
		IsCompleted: true,
		CompletedAt: &now,
	}
	if err := s.repo.LessonProgress().Upsert(ctx, nil, progress); err != nil {
		return nil, fmt.Errorf("failed to record lesson completion: %w", err)
	}

	s.logger.Info("Lesson completed",
		"lesson_id", lessonID,
		"course_id", lesson.CourseID,
		"user_id", userID)

	return s.refresh(ctx, enrollment)
}

func (s *enrollmentService) UpdateWatchTime(ctx context.Context, lessonID uint, userID string, watchedSeconds int) error {
	if watchedSeconds < 0 {
		return ValidationErrors{{
			Field:   "watched_seconds",
			Message: "must be at least 0",
			Value:   watchedSeconds,
			Rule:    "min",
		}}
	}

	lesson, err := s.repo.Lesson().GetByID(ctx, lessonID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrLessonNotFound
		}
		return fmt.Errorf("failed to get lesson: %w", err)
	}

	_, err = s.repo.Enrollment().GetByUserAndCourse(ctx, userID, lesson.CourseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotEnrolled
		}
		return fmt.Errorf("failed to get enrollment: %w", err)
	}

	progress := &models.LessonProgress{
		UserID:         userID,
		LessonID:       lessonID,
		WatchedSeconds: watchedSeconds,
	}
	if err := s.repo.LessonProgress().Upsert(ctx, nil, progress); err != nil {
		return fmt.Errorf("failed to record watch time: %w", err)
	}

	return nil
}
