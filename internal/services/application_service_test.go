package services

import (
	"context"
	"errors"
	"testing"

	"github.com/CoursePlatform-F25/course-service/internal/events"
	"github.com/CoursePlatform-F25/course-service/internal/models"
	"github.com/CoursePlatform-F25/course-service/internal/repositories"
	"github.com/CoursePlatform-F25/course-service/internal/validator"
)

type applicationFixture struct {
	repo      *memRepository
	service   ApplicationService
	publisher *events.MockEventPublisher
}

func newApplicationFixture(t *testing.T) *applicationFixture {
	t.Helper()

	repo := newMemRepository()
	logger := testLogger()
	publisher := events.NewMockEventPublisher(logger)
	notifier := NewNotificationService(publisher, logger)
	service := NewApplicationService(repo, nil, logger, validator.New(), notifier)

	return &applicationFixture{
		repo:      repo,
		service:   service,
		publisher: publisher,
	}
}

func (f *applicationFixture) seedUser(t *testing.T, id string, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		ID:        id,
		FirstName: "Lena",
		LastName:  "Hoffmann",
		Email:     id + "@example.com",
		Role:      role,
	}
	if err := f.repo.User().Create(context.Background(), nil, user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func validSubmitRequest() *SubmitApplicationRequest {
	return &SubmitApplicationRequest{
		Bio:                "Language teacher with ten years of classroom experience.",
		Expertise:          "German, Spanish",
		TeachingExperience: "Taught German at a community college.",
		Motivation:         "I want to bring my courses online.",
	}
}

func (f *applicationFixture) submit(t *testing.T, userID string) *ApplicationResponse {
	t.Helper()

	resp, err := f.service.Submit(context.Background(), validSubmitRequest(), userID)
	if err != nil {
		t.Fatalf("failed to submit application: %v", err)
	}
	return resp
}

func TestApplicationService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("successful submission", func(t *testing.T) {
		f := newApplicationFixture(t)
		f.seedUser(t, "student-1", models.RoleStudent)

		resp := f.submit(t, "student-1")
		if resp.Status != models.ApplicationPending {
			t.Errorf("expected Pending, got %s", resp.Status)
		}
		if resp.SubmittedAt.IsZero() {
			t.Error("expected SubmittedAt to be set")
		}

		published := f.publisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("expected 1 event, got %d", len(published))
		}
		event := published[0]
		if event.Type != events.TypeApplicationSubmitted {
			t.Errorf("expected %s, got %s", events.TypeApplicationSubmitted, event.Type)
		}
		if event.Source != "course-service" || event.Version != "1.0" {
			t.Errorf("unexpected envelope: source=%s version=%s", event.Source, event.Version)
		}
		if event.ID == "" || event.Timestamp.IsZero() {
			t.Error("expected event ID and timestamp to be set")
		}
	})

	t.Run("whitespace only fields rejected", func(t *testing.T) {
		f := newApplicationFixture(t)
		f.seedUser(t, "student-1", models.RoleStudent)

		req := validSubmitRequest()
		req.Bio = "   \t\n"
		_, err := f.service.Submit(ctx, req, "student-1")

		var errs ValidationErrors
		if !errors.As(err, &errs) {
			t.Fatalf("expected validation errors, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newApplicationFixture(t)

		_, err := f.service.Submit(ctx, validSubmitRequest(), "ghost")
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("second submission conflicts", func(t *testing.T) {
		f := newApplicationFixture(t)
		f.seedUser(t, "student-1", models.RoleStudent)
		f.submit(t, "student-1")

		_, err := f.service.Submit(ctx, validSubmitRequest(), "student-1")
		if !errors.Is(err, ErrApplicationExists) {
			t.Errorf("expected ErrApplicationExists, got %v", err)
		}
	})

	t.Run("rejected applicant cannot resubmit", func(t *testing.T) {
		f := newApplicationFixture(t)
		f.seedUser(t, "student-1", models.RoleStudent)
		f.seedUser(t, "admin-1", models.RoleAdmin)
		resp := f.submit(t, "student-1")

		_, err := f.service.Reject(ctx, resp.ID, "admin-1", &RejectApplicationRequest{
			Reason: "Not enough detail provided.",
		})
		if err != nil {
			t.Fatalf("failed to reject: %v", err)
		}

		_, err = f.service.Submit(ctx, validSubmitRequest(), "student-1")
		if !errors.Is(err, ErrApplicationExists) {
			t.Errorf("expected ErrApplicationExists, got %v", err)
		}
	})
}

func TestApplicationService_SetUnderReview(t *testing.T) {
	ctx := context.Background()

	t.Run("pending moves under review", func(t *testing.T) {
		f := newApplicationFixture(t)
		f.seedUser(t, "student-1", models.RoleStudent)
		resp := f.submit(t, "student-1")

		notes := "Checking references"
		updated, err := f.service.SetUnderReview(ctx, resp.ID, "admin-1", &ReviewApplicationRequest{
			AdminNotes: &notes,
		})
		if err != nil {
			t.Fatalf("failed to set under review: %v", err)
		}
		if updated.Status != models.ApplicationUnderReview {
			t.Errorf("expected UnderReview, got %s", updated.Status)
		}
		if updated.ReviewedBy == nil || *updated.ReviewedBy != "admin-1" {
			t.Error("expected reviewer to be recorded")
		}
		if updated.AdminNotes == nil || *updated.AdminNotes != notes {
			t.Error("expected admin notes to be recorded")
		}
	})

	t.Run("notes can be re-stamped while under review", func(t *testing.T) {
		f := newApplicationFixture(t)
		f.seedUser(t, "student-1", models.RoleStudent)
		resp := f.submit(t, "student-1")

		first := "Checking references"
		if _, err := f.service.SetUnderReview(ctx, resp.ID, "admin-1", &ReviewApplicationRequest{
			AdminNotes: &first,
		}); err != nil {
			t.Fatalf("failed to set under review: %v", err)
		}

		second := "References confirmed, checking portfolio"
		updated, err := f.service.SetUnderReview(ctx, resp.ID, "admin-2", &ReviewApplicationRequest{
			AdminNotes: &second,
		})
		if err != nil {
			t.Fatalf("failed to set under review again: %v", err)
		}
		if updated.Status != models.ApplicationUnderReview {
			t.Errorf("expected UnderReview, got %s", updated.Status)
		}
		if updated.AdminNotes == nil || *updated.AdminNotes != second {
			t.Error("expected admin notes to be replaced")
		}
		if updated.ReviewedBy == nil || *updated.ReviewedBy != "admin-2" {
			t.Error("expected the latest reviewer to be recorded")
		}
	})

	t.Run("unknown application", func(t *testing.T) {
		f := newApplicationFixture(t)

		_, err := f.service.SetUnderReview(ctx, 9999, "admin-1", nil)
		if !errors.Is(err, ErrApplicationNotFound) {
			t.Errorf("expected ErrApplicationNotFound, got %v", err)
		}
	})
}

func TestApplicationService_Approve(t *testing.T) {
	ctx := context.Background()

	t.Run("approval promotes the applicant", func(t *testing.T) {
		f := newApplicationFixture(t)
		f.seedUser(t, "student-1", models.RoleStudent)
		resp := f.submit(t, "student-1")
		f.publisher.ClearEvents()

		updated, err := f.service.Approve(ctx, resp.ID, "admin-1")
		if err != nil {
			t.Fatalf("failed to approve: %v", err)
		}
		if updated.Status != models.ApplicationApproved {
			t.Errorf("expected Approved, got %s", updated.Status)
		}
		if updated.ReviewedAt == nil {
			t.Error("expected ReviewedAt to be set")
		}

		user, err := f.repo.User().GetByID(ctx, "student-1")
		if err != nil {
			t.Fatalf("failed to load user: %v", err)
		}
		if user.Role != models.RoleInstructor {
			t.Errorf("expected Instructor role, got %s", user.Role)
		}

		published := f.publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.TypeApplicationApproved {
			t.Fatalf("expected a single approval event, got %v", published)
		}
	})

	t.Run("under review can be approved", func(t *testing.T) {
		f := newApplicationFixture(t)
		f.seedUser(t, "student-1", models.RoleStudent)
		resp := f.submit(t, "student-1")

		if _, err := f.service.SetUnderReview(ctx, resp.ID, "admin-1", nil); err != nil {
			t.Fatalf("failed to set under review: %v", err)
		}
		updated, err := f.service.Approve(ctx, resp.ID, "admin-1")
		if err != nil {
			t.Fatalf("failed to approve: %v", err)
		}
		if updated.Status != models.ApplicationApproved {
			t.Errorf("expected Approved, got %s", updated.Status)
		}
	})

	t.Run("terminal application cannot be approved again", func(t *testing.T) {
		f := newApplicationFixture(t)
		f.seedUser(t, "student-1", models.RoleStudent)
		resp := f.submit(t, "student-1")

		if _, err := f.service.Approve(ctx, resp.ID, "admin-1"); err != nil {
			t.Fatalf("failed to approve: %v", err)
		}
		_, err := f.service.Approve(ctx, resp.ID, "admin-1")
		if !errors.Is(err, ErrApplicationTerminal) {
			t.Errorf("expected ErrApplicationTerminal, got %v", err)
		}
	})
}

func TestApplicationService_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("rejection records the reason", func(t *testing.T) {
		f := newApplicationFixture(t)
		f.seedUser(t, "student-1", models.RoleStudent)
		resp := f.submit(t, "student-1")
		f.publisher.ClearEvents()

		updated, err := f.service.Reject(ctx, resp.ID, "admin-1", &RejectApplicationRequest{
			Reason: "Insufficient teaching experience.",
		})
		if err != nil {
			t.Fatalf("failed to reject: %v", err)
		}
		if updated.Status != models.ApplicationRejected {
			t.Errorf("expected Rejected, got %s", updated.Status)
		}
		if updated.RejectionReason == nil || *updated.RejectionReason != "Insufficient teaching experience." {
			t.Error("expected rejection reason to be recorded")
		}

		// The applicant keeps their role.
		user, err := f.repo.User().GetByID(ctx, "student-1")
		if err != nil {
			t.Fatalf("failed to load user: %v", err)
		}
		if user.Role != models.RoleStudent {
			t.Errorf("expected Student role, got %s", user.Role)
		}

		published := f.publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.TypeApplicationRejected {
			t.Fatalf("expected a single rejection event, got %v", published)
		}
	})

	t.Run("blank reason rejected", func(t *testing.T) {
		f := newApplicationFixture(t)
		f.seedUser(t, "student-1", models.RoleStudent)
		resp := f.submit(t, "student-1")

		_, err := f.service.Reject(ctx, resp.ID, "admin-1", &RejectApplicationRequest{
			Reason: "   ",
		})
		var errs ValidationErrors
		if !errors.As(err, &errs) {
			t.Fatalf("expected validation errors, got %v", err)
		}
	})

	t.Run("terminal application cannot be rejected", func(t *testing.T) {
		f := newApplicationFixture(t)
		f.seedUser(t, "student-1", models.RoleStudent)
		resp := f.submit(t, "student-1")

		if _, err := f.service.Approve(ctx, resp.ID, "admin-1"); err != nil {
			t.Fatalf("failed to approve: %v", err)
		}
		_, err := f.service.Reject(ctx, resp.ID, "admin-1", &RejectApplicationRequest{
			Reason: "Changed our minds.",
		})
		if !errors.Is(err, ErrApplicationTerminal) {
			t.Errorf("expected ErrApplicationTerminal, got %v", err)
		}
	})
}

func TestApplicationService_List(t *testing.T) {
	ctx := context.Background()

	f := newApplicationFixture(t)
	f.seedUser(t, "student-1", models.RoleStudent)
	f.seedUser(t, "student-2", models.RoleStudent)
	f.submit(t, "student-1")
	resp := f.submit(t, "student-2")
	if _, err := f.service.Approve(ctx, resp.ID, "admin-1"); err != nil {
		t.Fatalf("failed to approve: %v", err)
	}

	t.Run("all applications with stats", func(t *testing.T) {
		list, err := f.service.List(ctx, repositories.ApplicationFilters{})
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if list.Total != 2 {
			t.Errorf("expected 2 applications, got %d", list.Total)
		}
		if list.Stats == nil {
			t.Fatal("expected stats")
		}
		if list.Stats.Pending != 1 || list.Stats.Approved != 1 {
			t.Errorf("unexpected stats: %+v", list.Stats)
		}
	})

	t.Run("filtered by status", func(t *testing.T) {
		status := models.ApplicationApproved
		list, err := f.service.List(ctx, repositories.ApplicationFilters{Status: &status})
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if list.Total != 1 {
			t.Errorf("expected 1 approved application, got %d", list.Total)
		}
	})
}

func TestApplicationService_GetMyApplication(t *testing.T) {
	ctx := context.Background()

	f := newApplicationFixture(t)
	f.seedUser(t, "student-1", models.RoleStudent)
	f.submit(t, "student-1")

	resp, err := f.service.GetMyApplication(ctx, "student-1")
	if err != nil {
		t.Fatalf("failed to get own application: %v", err)
	}
	if resp.UserID != "student-1" {
		t.Errorf("expected student-1, got %s", resp.UserID)
	}

	_, err = f.service.GetMyApplication(ctx, "student-2")
	if !errors.Is(err, ErrApplicationNotFound) {
		t.Errorf("expected ErrApplicationNotFound, got %v", err)
	}
}
