package events

// Topics
const (
	TopicNotifications = "course-service.notifications"
)

// Event types
const (
	TypeApplicationSubmitted = "instructor_application.submitted"
	TypeApplicationApproved  = "instructor_application.approved"
	TypeApplicationRejected  = "instructor_application.rejected"
	TypeCourseCompleted      = "enrollment.course_completed"
)

// ApplicationSubmittedEvent confirms receipt of a new application.
type ApplicationSubmittedEvent struct {
	ApplicationID uint   `json:"application_id"`
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	ApplicantName string `json:"applicant_name"`
}

// ApplicationApprovedEvent tells the applicant they are now an instructor.
type ApplicationApprovedEvent struct {
	ApplicationID uint   `json:"application_id"`
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	ApplicantName string `json:"applicant_name"`
}

// ApplicationRejectedEvent carries the rejection reason to the applicant.
type ApplicationRejectedEvent struct {
	ApplicationID uint   `json:"application_id"`
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	ApplicantName string `json:"applicant_name"`
	Reason        string `json:"reason"`
}

// CourseCompletedEvent fires when a learner first reaches 100 percent.
type CourseCompletedEvent struct {
	EnrollmentID uint   `json:"enrollment_id"`
	UserID       string `json:"user_id"`
	CourseID     uint   `json:"course_id"`
	CourseTitle  string `json:"course_title"`
}
