package services

import (
	"context"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/CoursePlatform-F25/course-service/internal/models"
	"github.com/CoursePlatform-F25/course-service/internal/repositories"
	"github.com/CoursePlatform-F25/course-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateCourseRequest = validator.CourseCreateRequest
type UpdateCourseRequest = validator.CourseUpdateRequest
type CreateLessonRequest = validator.LessonCreateRequest
type UpdateLessonRequest = validator.LessonUpdateRequest
type SubmitApplicationRequest = validator.ApplicationSubmitRequest
type RejectApplicationRequest = validator.ApplicationRejectRequest
type ReviewApplicationRequest = validator.ApplicationReviewRequest
type WatchTimeRequest = validator.WatchTimeRequest

// ===== ENROLLMENT DTOs =====

// EnrollmentStatusResponse is the status view of one course for one
// caller. Anonymous callers get needs_login=true and zeroed progress.
type EnrollmentStatusResponse struct {
	IsEnrolled         bool       `json:"is_enrolled"`
	CanEnroll          bool       `json:"can_enroll"`
	NeedsLogin         bool       `json:"needs_login"`
	EnrollmentID       *uint      `json:"enrollment_id,omitempty"`
	EnrolledAt         *time.Time `json:"enrolled_at,omitempty"`
	ProgressPercentage float64    `json:"progress_percentage"`
	CompletedLessons   int        `json:"completed_lessons"`
	TotalLessons       int        `json:"total_lessons"`
	IsCompleted        bool       `json:"is_completed"`
}

// EnrollmentResponse is returned after a successful enroll
type EnrollmentResponse struct {
	EnrollmentID       uint      `json:"enrollment_id"`
	CourseID           uint      `json:"course_id"`
	EnrolledAt         time.Time `json:"enrolled_at"`
	ProgressPercentage float64   `json:"progress_percentage"`
}

// EnrolledCourseSummary is one row of the my-courses listing
type EnrolledCourseSummary struct {
	EnrollmentID       uint                  `json:"enrollment_id"`
	CourseID           uint                  `json:"course_id"`
	Title              string                `json:"title"`
	Description        string                `json:"description"`
	Language           models.CourseLanguage `json:"language"`
	Level              models.CourseLevel    `json:"level"`
	ThumbnailURL       *string               `json:"thumbnail_url,omitempty"`
	InstructorName     string                `json:"instructor_name"`
	EnrolledAt         time.Time             `json:"enrolled_at"`
	CompletedAt        *time.Time            `json:"completed_at,omitempty"`
	ProgressPercentage float64               `json:"progress_percentage"`
	CompletedLessons   int                   `json:"completed_lessons"`
	TotalLessons       int                   `json:"total_lessons"`
	IsCompleted        bool                  `json:"is_completed"`
}

// ProgressResponse is the result of a progress recomputation
type ProgressResponse struct {
	EnrollmentID       uint       `json:"enrollment_id"`
	CourseID           uint       `json:"course_id"`
	ProgressPercentage float64    `json:"progress_percentage"`
	CompletedLessons   int        `json:"completed_lessons"`
	TotalLessons       int        `json:"total_lessons"`
	IsCompleted        bool       `json:"is_completed"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}

// ===== COURSE DTOs =====

type CourseResponse struct {
	ID             uint                  `json:"id"`
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	Language       models.CourseLanguage `json:"language"`
	Level          models.CourseLevel    `json:"level"`
	Price          float64               `json:"price"`
	ThumbnailURL   *string               `json:"thumbnail_url,omitempty"`
	IsPublished    bool                  `json:"is_published"`
	InstructorID   string                `json:"instructor_id"`
	InstructorName string                `json:"instructor_name"`
	LessonCount    int                   `json:"lesson_count"`
	CreatedAt      time.Time             `json:"created_at"`
}

type LessonResponse struct {
	ID              uint    `json:"id"`
	CourseID        uint    `json:"course_id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	OrderIndex      int     `json:"order_index"`
	DurationMinutes int     `json:"duration_minutes"`
	IsPublished     bool    `json:"is_published"`
	VideoURL        *string `json:"video_url,omitempty"`
	Content         *string `json:"content,omitempty"`
}

type CourseDetailResponse struct {
	CourseResponse
	Lessons []LessonResponse `json:"lessons"`
}

type CourseListResponse struct {
	Courses []*CourseResponse `json:"courses"`
	Total   int64             `json:"total"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

// CourseListFilters is the service-level view of catalog filters
type CourseListFilters struct {
	Language  *models.CourseLanguage
	Level     *models.CourseLevel
	Search    *string
	PriceMax  *float64
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

// ===== APPLICATION DTOs =====

type ApplicationResponse struct {
	ID                 uint                     `json:"id"`
	UserID             string                   `json:"user_id"`
	ApplicantName      string                   `json:"applicant_name,omitempty"`
	ApplicantEmail     string                   `json:"applicant_email,omitempty"`
	Bio                string                   `json:"bio"`
	Expertise          string                   `json:"expertise"`
	TeachingExperience string                   `json:"teaching_experience"`
	Motivation         string                   `json:"motivation"`
	PhoneNumber        *string                  `json:"phone_number,omitempty"`
	Status             models.ApplicationStatus `json:"status"`
	SubmittedAt        time.Time                `json:"submitted_at"`
	ReviewedAt         *time.Time               `json:"reviewed_at,omitempty"`
	ReviewedBy         *string                  `json:"reviewed_by,omitempty"`
	RejectionReason    *string                  `json:"rejection_reason,omitempty"`
	AdminNotes         *string                  `json:"admin_notes,omitempty"`
}

type ApplicationListResponse struct {
	Applications []*ApplicationResponse         `json:"applications"`
	Total        int64                          `json:"total"`
	Stats        *repositories.ApplicationStats `json:"stats,omitempty"`
	Limit        int                            `json:"limit"`
	Offset       int                            `json:"offset"`
}

// ===== SERVICE INTERFACES =====

// EnrollmentService is the enrollment and progress-tracking core
type EnrollmentService interface {
	GetStatus(ctx context.Context, courseID uint, userID string) (*EnrollmentStatusResponse, error)
	Enroll(ctx context.Context, courseID uint, userID string) (*EnrollmentResponse, error)
	Unenroll(ctx context.Context, courseID uint, userID string) error
	ListMyCourses(ctx context.Context, userID string) ([]*EnrolledCourseSummary, error)
	RefreshProgress(ctx context.Context, courseID uint, userID string) (*ProgressResponse, error)

	// Lesson-level progress writes; both trigger a snapshot refresh
	CompleteLesson(ctx context.Context, lessonID uint, userID string) (*ProgressResponse, error)
	UpdateWatchTime(ctx context.Context, lessonID uint, userID string, watchedSeconds int) error
}

// CourseService is the catalog and instructor course management
type CourseService interface {
	List(ctx context.Context, filters CourseListFilters) (*CourseListResponse, error)
	GetByID(ctx context.Context, courseID uint, userID string, role models.UserRole) (*CourseDetailResponse, error)

	Create(ctx context.Context, req *CreateCourseRequest, instructorID string) (*CourseResponse, error)
	Update(ctx context.Context, courseID uint, req *UpdateCourseRequest, instructorID string) (*CourseResponse, error)
	Delete(ctx context.Context, courseID uint, instructorID string) error
	SetPublished(ctx context.Context, courseID uint, instructorID string, published bool) error
	ListByInstructor(ctx context.Context, instructorID string, filters CourseListFilters) (*CourseListResponse, error)

	AddLesson(ctx context.Context, courseID uint, req *CreateLessonRequest, instructorID string) (*LessonResponse, error)
	UpdateLesson(ctx context.Context, lessonID uint, req *UpdateLessonRequest, instructorID string) (*LessonResponse, error)
	DeleteLesson(ctx context.Context, lessonID uint, instructorID string) error
}

// ApplicationService is the instructor application review workflow
type ApplicationService interface {
	Submit(ctx context.Context, req *SubmitApplicationRequest, userID string) (*ApplicationResponse, error)
	GetMyApplication(ctx context.Context, userID string) (*ApplicationResponse, error)

	// Admin review operations
	List(ctx context.Context, filters repositories.ApplicationFilters) (*ApplicationListResponse, error)
	GetByID(ctx context.Context, applicationID uint) (*ApplicationResponse, error)
	SetUnderReview(ctx context.Context, applicationID uint, reviewerID string, req *ReviewApplicationRequest) (*ApplicationResponse, error)
	Approve(ctx context.Context, applicationID uint, reviewerID string) (*ApplicationResponse, error)
	Reject(ctx context.Context, applicationID uint, reviewerID string, req *RejectApplicationRequest) (*ApplicationResponse, error)
}

// NotificationService publishes applicant-facing notifications.
// Every send is best-effort: failures are logged, never returned.
type NotificationService interface {
	ApplicationSubmitted(ctx context.Context, application *models.InstructorApplication, applicant *models.User)
	ApplicationApproved(ctx context.Context, application *models.InstructorApplication, applicant *models.User)
	ApplicationRejected(ctx context.Context, application *models.InstructorApplication, applicant *models.User, reason string)
	CourseCompleted(ctx context.Context, enrollment *models.Enrollment, courseTitle string)
}

// ReportService produces admin exports
type ReportService interface {
	ExportApplications(ctx context.Context, filters repositories.ApplicationFilters) (*excelize.File, error)
}

// ServiceManager wires and owns all services
type ServiceManager interface {
	Initialize(ctx context.Context) error

	Enrollment() EnrollmentService
	Course() CourseService
	Application() ApplicationService
	Notification() NotificationService
	Report() ReportService

	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
