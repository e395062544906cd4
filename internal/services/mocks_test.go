package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gorm.io/gorm"

	"github.com/CoursePlatform-F25/course-service/internal/models"
	"github.com/CoursePlatform-F25/course-service/internal/repositories"
)

// memRepository is an in-memory repositories.Repository used across the
// service tests. It honors the same uniqueness rules as the real schema
// (one enrollment per user+course, one progress row per user+lesson,
// one application per user).
type memRepository struct {
	mu sync.Mutex

	courses      map[uint]*models.Course
	lessons      map[uint]*models.Lesson
	enrollments  map[uint]*models.Enrollment
	progresses   map[string]*models.LessonProgress
	applications map[uint]*models.InstructorApplication
	users        map[string]*models.User

	nextID uint

	// UpdateCalls counts enrollment snapshot writes so tests can assert
	// write-on-change behavior.
	EnrollmentUpdateCalls int
}

func newMemRepository() *memRepository {
	return &memRepository{
		courses:      make(map[uint]*models.Course),
		lessons:      make(map[uint]*models.Lesson),
		enrollments:  make(map[uint]*models.Enrollment),
		progresses:   make(map[string]*models.LessonProgress),
		applications: make(map[uint]*models.InstructorApplication),
		users:        make(map[string]*models.User),
	}
}

func (m *memRepository) id() uint {
	m.nextID++
	return m.nextID
}

func progressKey(userID string, lessonID uint) string {
	return fmt.Sprintf("%s:%d", userID, lessonID)
}

func (m *memRepository) Course() repositories.CourseRepository         { return &memCourseRepo{m} }
func (m *memRepository) Lesson() repositories.LessonRepository         { return &memLessonRepo{m} }
func (m *memRepository) Enrollment() repositories.EnrollmentRepository { return &memEnrollmentRepo{m} }
func (m *memRepository) LessonProgress() repositories.LessonProgressRepository {
	return &memProgressRepo{m}
}
func (m *memRepository) Application() repositories.ApplicationRepository {
	return &memApplicationRepo{m}
}
func (m *memRepository) User() repositories.UserRepository { return &memUserRepo{m} }

func (m *memRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *memRepository) Ping(ctx context.Context) error { return nil }
func (m *memRepository) Close() error                   { return nil }

// ===== COURSE =====

type memCourseRepo struct{ m *memRepository }

func (r *memCourseRepo) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	course.ID = r.m.id()
	r.m.courses[course.ID] = course
	return nil
}

func (r *memCourseRepo) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	course, ok := r.m.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *course
	return &copied, nil
}

func (r *memCourseRepo) GetByIDWithLessons(ctx context.Context, id uint) (*models.Course, error) {
	course, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, lesson := range r.m.lessons {
		if lesson.CourseID == id {
			course.Lessons = append(course.Lessons, *lesson)
		}
	}
	sort.Slice(course.Lessons, func(i, j int) bool {
		return course.Lessons[i].OrderIndex < course.Lessons[j].OrderIndex
	})
	course.LessonCount = len(course.Lessons)
	return course, nil
}

func (r *memCourseRepo) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.courses[course.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.m.courses[course.ID] = course
	return nil
}

func (r *memCourseRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.courses, id)
	return nil
}

func (r *memCourseRepo) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Course
	for _, course := range r.m.courses {
		if filters.IsPublished != nil && course.IsPublished != *filters.IsPublished {
			continue
		}
		if filters.InstructorID != nil && course.InstructorID != *filters.InstructorID {
			continue
		}
		if filters.Language != nil && course.Language != *filters.Language {
			continue
		}
		copied := *course
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *memCourseRepo) ListByInstructor(ctx context.Context, instructorID string, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	filters.InstructorID = &instructorID
	return r.List(ctx, filters)
}

func (r *memCourseRepo) SetPublished(ctx context.Context, tx *gorm.DB, id uint, published bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	course, ok := r.m.courses[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	course.IsPublished = published
	return nil
}

func (r *memCourseRepo) ExistsByID(ctx context.Context, id uint) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.courses[id]
	return ok, nil
}

func (r *memCourseRepo) IsOwnedBy(ctx context.Context, id uint, instructorID string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	course, ok := r.m.courses[id]
	return ok && course.InstructorID == instructorID, nil
}

func (r *memCourseRepo) GetStats(ctx context.Context, id uint) (*repositories.CourseStats, error) {
	return &repositories.CourseStats{}, nil
}

// ===== LESSON =====

type memLessonRepo struct{ m *memRepository }

func (r *memLessonRepo) Create(ctx context.Context, tx *gorm.DB, lesson *models.Lesson) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	lesson.ID = r.m.id()
	r.m.lessons[lesson.ID] = lesson
	return nil
}

func (r *memLessonRepo) GetByID(ctx context.Context, id uint) (*models.Lesson, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	lesson, ok := r.m.lessons[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *lesson
	return &copied, nil
}

func (r *memLessonRepo) Update(ctx context.Context, tx *gorm.DB, lesson *models.Lesson) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.lessons[lesson.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.m.lessons[lesson.ID] = lesson
	return nil
}

func (r *memLessonRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.lessons, id)
	return nil
}

func (r *memLessonRepo) ListByCourse(ctx context.Context, courseID uint) ([]*models.Lesson, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Lesson
	for _, lesson := range r.m.lessons {
		if lesson.CourseID == courseID {
			copied := *lesson
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (r *memLessonRepo) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	lessons, _ := r.ListByCourse(ctx, courseID)
	return int64(len(lessons)), nil
}

func (r *memLessonRepo) NextOrderIndex(ctx context.Context, courseID uint) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	next := 0
	for _, lesson := range r.m.lessons {
		if lesson.CourseID == courseID && lesson.OrderIndex >= next {
			next = lesson.OrderIndex + 1
		}
	}
	return next, nil
}

// ===== ENROLLMENT =====

type memEnrollmentRepo struct{ m *memRepository }

func (r *memEnrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.enrollments {
		if existing.UserID == enrollment.UserID && existing.CourseID == enrollment.CourseID {
			return gorm.ErrDuplicatedKey
		}
	}
	enrollment.ID = r.m.id()
	r.m.enrollments[enrollment.ID] = enrollment
	return nil
}

func (r *memEnrollmentRepo) GetByID(ctx context.Context, id uint) (*models.Enrollment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	enrollment, ok := r.m.enrollments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *enrollment
	return &copied, nil
}

func (r *memEnrollmentRepo) GetByUserAndCourse(ctx context.Context, userID string, courseID uint) (*models.Enrollment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, enrollment := range r.m.enrollments {
		if enrollment.UserID == userID && enrollment.CourseID == courseID {
			copied := *enrollment
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memEnrollmentRepo) Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.enrollments[enrollment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *enrollment
	r.m.enrollments[enrollment.ID] = &copied
	r.m.EnrollmentUpdateCalls++
	return nil
}

func (r *memEnrollmentRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.enrollments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.enrollments, id)
	return nil
}

func (r *memEnrollmentRepo) ListSummariesByUser(ctx context.Context, userID string) ([]*repositories.EnrollmentSummary, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*repositories.EnrollmentSummary
	for _, enrollment := range r.m.enrollments {
		if enrollment.UserID != userID {
			continue
		}
		course := r.m.courses[enrollment.CourseID]
		if course == nil {
			continue
		}
		total, completed := 0, 0
		for _, lesson := range r.m.lessons {
			if lesson.CourseID != course.ID {
				continue
			}
			total++
			if p, ok := r.m.progresses[progressKey(userID, lesson.ID)]; ok && p.IsCompleted {
				completed++
			}
		}
		out = append(out, &repositories.EnrollmentSummary{
			EnrollmentID:       enrollment.ID,
			CourseID:           course.ID,
			CourseTitle:        course.Title,
			CourseDescription:  course.Description,
			CourseLanguage:     course.Language,
			CourseLevel:        course.Level,
			EnrolledAt:         enrollment.EnrolledAt,
			CompletedAt:        enrollment.CompletedAt,
			ProgressPercentage: enrollment.ProgressPercentage,
			TotalLessons:       total,
			CompletedLessons:   completed,
		})
	}
	return out, nil
}

func (r *memEnrollmentRepo) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var count int64
	for _, enrollment := range r.m.enrollments {
		if enrollment.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

func (r *memEnrollmentRepo) ExistsByUserAndCourse(ctx context.Context, userID string, courseID uint) (bool, error) {
	_, err := r.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return false, nil
	}
	return true, nil
}

// ===== LESSON PROGRESS =====

type memProgressRepo struct{ m *memRepository }

func (r *memProgressRepo) Upsert(ctx context.Context, tx *gorm.DB, progress *models.LessonProgress) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	key := progressKey(progress.UserID, progress.LessonID)
	if existing, ok := r.m.progresses[key]; ok {
		if progress.IsCompleted && !existing.IsCompleted {
			existing.IsCompleted = true
			existing.CompletedAt = progress.CompletedAt
		}
		if progress.WatchedSeconds > existing.WatchedSeconds {
			existing.WatchedSeconds = progress.WatchedSeconds
		}
		return nil
	}
	progress.ID = r.m.id()
	copied := *progress
	r.m.progresses[key] = &copied
	return nil
}

func (r *memProgressRepo) GetByUserAndLesson(ctx context.Context, userID string, lessonID uint) (*models.LessonProgress, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	progress, ok := r.m.progresses[progressKey(userID, lessonID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *progress
	return &copied, nil
}

func (r *memProgressRepo) ListByUserAndCourse(ctx context.Context, userID string, courseID uint) ([]*models.LessonProgress, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.LessonProgress
	for _, lesson := range r.m.lessons {
		if lesson.CourseID != courseID {
			continue
		}
		if progress, ok := r.m.progresses[progressKey(userID, lesson.ID)]; ok {
			copied := *progress
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memProgressRepo) GetProgressCounts(ctx context.Context, userID string, courseID uint) (*repositories.ProgressCounts, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	counts := &repositories.ProgressCounts{}
	for _, lesson := range r.m.lessons {
		if lesson.CourseID != courseID {
			continue
		}
		counts.TotalLessons++
		if progress, ok := r.m.progresses[progressKey(userID, lesson.ID)]; ok && progress.IsCompleted {
			counts.CompletedLessons++
		}
	}
	return counts, nil
}

func (r *memProgressRepo) DeleteByUserAndCourse(ctx context.Context, tx *gorm.DB, userID string, courseID uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, lesson := range r.m.lessons {
		if lesson.CourseID == courseID {
			delete(r.m.progresses, progressKey(userID, lesson.ID))
		}
	}
	return nil
}

// ===== APPLICATION =====

type memApplicationRepo struct{ m *memRepository }

func (r *memApplicationRepo) Create(ctx context.Context, tx *gorm.DB, application *models.InstructorApplication) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.applications {
		if existing.UserID == application.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	application.ID = r.m.id()
	r.m.applications[application.ID] = application
	return nil
}

func (r *memApplicationRepo) GetByID(ctx context.Context, id uint) (*models.InstructorApplication, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	application, ok := r.m.applications[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *application
	if user, ok := r.m.users[application.UserID]; ok {
		copied.User = *user
	}
	return &copied, nil
}

func (r *memApplicationRepo) GetByUserID(ctx context.Context, userID string) (*models.InstructorApplication, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, application := range r.m.applications {
		if application.UserID == userID {
			copied := *application
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memApplicationRepo) Update(ctx context.Context, tx *gorm.DB, application *models.InstructorApplication) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.applications[application.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *application
	r.m.applications[application.ID] = &copied
	return nil
}

func (r *memApplicationRepo) List(ctx context.Context, filters repositories.ApplicationFilters) ([]*models.InstructorApplication, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.InstructorApplication
	for _, application := range r.m.applications {
		if filters.Status != nil && application.Status != *filters.Status {
			continue
		}
		copied := *application
		if user, ok := r.m.users[application.UserID]; ok {
			copied.User = *user
		}
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *memApplicationRepo) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	_, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *memApplicationRepo) GetStats(ctx context.Context) (*repositories.ApplicationStats, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stats := &repositories.ApplicationStats{}
	for _, application := range r.m.applications {
		stats.Total++
		switch application.Status {
		case models.ApplicationPending:
			stats.Pending++
		case models.ApplicationUnderReview:
			stats.UnderReview++
		case models.ApplicationApproved:
			stats.Approved++
		case models.ApplicationRejected:
			stats.Rejected++
		}
	}
	return stats, nil
}

// ===== USER =====

type memUserRepo struct{ m *memRepository }

func (r *memUserRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user, ok := r.m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, user := range r.m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	r.m.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) UpdateRole(ctx context.Context, tx *gorm.DB, id string, role models.UserRole) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user, ok := r.m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Role = role
	return nil
}

func (r *memUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.User
	for _, user := range r.m.users {
		if filters.Role != nil && user.Role != *filters.Role {
			continue
		}
		copied := *user
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *memUserRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.users[id]
	return ok, nil
}

func (r *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *memUserRepo) HasRole(ctx context.Context, id string, role models.UserRole) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user, ok := r.m.users[id]
	return ok && user.Role == role, nil
}
