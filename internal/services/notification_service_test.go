package services

import (
	"context"
	"testing"
	"time"

	"github.com/CoursePlatform-F25/course-service/internal/events"
	"github.com/CoursePlatform-F25/course-service/internal/models"
)

func TestNotificationService_ApplicationEvents(t *testing.T) {
	ctx := context.Background()
	logger := testLogger()
	publisher := events.NewMockEventPublisher(logger)
	service := NewNotificationService(publisher, logger)

	applicant := &models.User{
		ID:        "student-1",
		FirstName: "Maria",
		LastName:  "Santos",
		Email:     "maria@example.com",
	}
	application := &models.InstructorApplication{
		ID:     42,
		UserID: applicant.ID,
		Status: models.ApplicationPending,
	}

	t.Run("submitted", func(t *testing.T) {
		publisher.ClearEvents()
		service.ApplicationSubmitted(ctx, application, applicant)

		published := publisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("expected 1 event, got %d", len(published))
		}
		event := published[0]
		if event.Type != events.TypeApplicationSubmitted {
			t.Errorf("expected %s, got %s", events.TypeApplicationSubmitted, event.Type)
		}
		if event.Source != "course-service" {
			t.Errorf("expected source course-service, got %s", event.Source)
		}
		if event.Version != "1.0" {
			t.Errorf("expected version 1.0, got %s", event.Version)
		}
		if event.ID == "" {
			t.Error("expected a generated event ID")
		}
		if event.Timestamp.IsZero() || time.Since(event.Timestamp) > time.Minute {
			t.Error("expected a recent timestamp")
		}

		data, ok := event.Data.(events.ApplicationSubmittedEvent)
		if !ok {
			t.Fatalf("unexpected payload type %T", event.Data)
		}
		if data.ApplicationID != 42 || data.UserID != "student-1" {
			t.Errorf("unexpected payload: %+v", data)
		}
		if data.ApplicantName != "Maria Santos" {
			t.Errorf("expected full name, got %s", data.ApplicantName)
		}
	})

	t.Run("approved", func(t *testing.T) {
		publisher.ClearEvents()
		service.ApplicationApproved(ctx, application, applicant)

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.TypeApplicationApproved {
			t.Fatalf("expected a single approval event, got %v", published)
		}
	})

	t.Run("rejected carries the reason", func(t *testing.T) {
		publisher.ClearEvents()
		service.ApplicationRejected(ctx, application, applicant, "Too little experience.")

		published := publisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("expected 1 event, got %d", len(published))
		}
		data, ok := published[0].Data.(events.ApplicationRejectedEvent)
		if !ok {
			t.Fatalf("unexpected payload type %T", published[0].Data)
		}
		if data.Reason != "Too little experience." {
			t.Errorf("expected reason to be carried, got %q", data.Reason)
		}
	})
}

func TestNotificationService_CourseCompleted(t *testing.T) {
	logger := testLogger()
	publisher := events.NewMockEventPublisher(logger)
	service := NewNotificationService(publisher, logger)

	enrollment := &models.Enrollment{
		ID:       7,
		UserID:   "student-1",
		CourseID: 3,
	}
	service.CourseCompleted(context.Background(), enrollment, "German for Beginners")

	published := publisher.GetPublishedEvents()
	if len(published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(published))
	}
	data, ok := published[0].Data.(events.CourseCompletedEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", published[0].Data)
	}
	if data.EnrollmentID != 7 || data.CourseID != 3 || data.CourseTitle != "German for Beginners" {
		t.Errorf("unexpected payload: %+v", data)
	}
}

func TestNotificationService_NilPublisher(t *testing.T) {
	service := NewNotificationService(nil, testLogger())

	// Publishing without a broker configured must be a silent no-op.
	service.CourseCompleted(context.Background(), &models.Enrollment{ID: 1}, "Title")
	service.ApplicationSubmitted(context.Background(),
		&models.InstructorApplication{ID: 1, UserID: "u"},
		&models.User{ID: "u"})
}

func BenchmarkNotificationService_CourseCompleted(b *testing.B) {
	logger := testLogger()
	publisher := events.NewMockEventPublisher(logger)
	service := NewNotificationService(publisher, logger)
	enrollment := &models.Enrollment{ID: 1, UserID: "student-1", CourseID: 1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		service.CourseCompleted(context.Background(), enrollment, "Benchmark Course")
	}
}
