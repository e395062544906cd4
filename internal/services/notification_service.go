package services

import (
	"context"
	"log/slog"

	"github.com/CoursePlatform-F25/course-service/internal/events"
	"github.com/CoursePlatform-F25/course-service/internal/models"
)

// notificationService publishes applicant- and learner-facing events.
// Delivery is a downstream concern (mailer consumes the topic); here
// every publish is best-effort and failures only get logged.
type notificationService struct {
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewNotificationService(publisher events.EventPublisher, logger *slog.Logger) NotificationService {
	return &notificationService{
		publisher: publisher,
		logger:    logger,
	}
}

func (s *notificationService) ApplicationSubmitted(ctx context.Context, application *models.InstructorApplication, applicant *models.User) {
	s.publish(ctx, events.NewEvent(events.TypeApplicationSubmitted, events.ApplicationSubmittedEvent{
		ApplicationID: application.ID,
		UserID:        application.UserID,
		Email:         applicant.Email,
		ApplicantName: applicant.DisplayName(),
	}))
}

func (s *notificationService) ApplicationApproved(ctx context.Context, application *models.InstructorApplication, applicant *models.User) {
	s.publish(ctx, events.NewEvent(events.TypeApplicationApproved, events.ApplicationApprovedEvent{
		ApplicationID: application.ID,
		UserID:        application.UserID,
		Email:         applicant.Email,
		ApplicantName: applicant.DisplayName(),
	}))
}

func (s *notificationService) ApplicationRejected(ctx context.Context, application *models.InstructorApplication, applicant *models.User, reason string) {
	s.publish(ctx, events.NewEvent(events.TypeApplicationRejected, events.ApplicationRejectedEvent{
		ApplicationID: application.ID,
		UserID:        application.UserID,
		Email:         applicant.Email,
		ApplicantName: applicant.DisplayName(),
		Reason:        reason,
	}))
}

func (s *notificationService) CourseCompleted(ctx context.Context, enrollment *models.Enrollment, courseTitle string) {
	s.publish(ctx, events.NewEvent(events.TypeCourseCompleted, events.CourseCompletedEvent{
		EnrollmentID: enrollment.ID,
		UserID:       enrollment.UserID,
		CourseID:     enrollment.CourseID,
		CourseTitle:  courseTitle,
	}))
}

func (s *notificationService) publish(ctx context.Context, event *events.Event) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, events.TopicNotifications, event); err != nil {
		s.logger.Error("Failed to publish notification event",
			"event_type", event.Type,
			"event_id", event.ID,
			"error", err)
	}
}
