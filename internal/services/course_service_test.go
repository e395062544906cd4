package services

import (
	"context"
	"errors"
	"testing"

	"github.com/CoursePlatform-F25/course-service/internal/models"
	"github.com/CoursePlatform-F25/course-service/internal/validator"
)

type courseFixture struct {
	repo    *memRepository
	service CourseService
}

func newCourseFixture(t *testing.T) *courseFixture {
	t.Helper()

	repo := newMemRepository()
	service := NewCourseService(repo, nil, testLogger(), validator.New())
	return &courseFixture{repo: repo, service: service}
}

func (f *courseFixture) createCourse(t *testing.T, instructorID string) *CourseResponse {
	t.Helper()

	resp, err := f.service.Create(context.Background(), &CreateCourseRequest{
		Title:    "Spanish Conversation Practice",
		Language: models.LanguageSpanish,
		Level:    models.LevelIntermediate,
		Price:    29.99,
	}, instructorID)
	if err != nil {
		t.Fatalf("failed to create course: %v", err)
	}
	return resp
}

func (f *courseFixture) addLesson(t *testing.T, courseID uint, instructorID string) *LessonResponse {
	t.Helper()

	lesson, err := f.service.AddLesson(context.Background(), courseID, &CreateLessonRequest{
		Title:           "Greetings",
		DurationMinutes: 15,
		IsPublished:     true,
	}, instructorID)
	if err != nil {
		t.Fatalf("failed to add lesson: %v", err)
	}
	return lesson
}

func TestCourseService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("valid course", func(t *testing.T) {
		f := newCourseFixture(t)

		resp := f.createCourse(t, "instructor-1")
		if resp.ID == 0 {
			t.Error("expected a course ID")
		}
		if resp.IsPublished {
			t.Error("new courses start unpublished")
		}
		if resp.InstructorID != "instructor-1" {
			t.Errorf("expected instructor-1, got %s", resp.InstructorID)
		}
	})

	t.Run("level defaults to beginner", func(t *testing.T) {
		f := newCourseFixture(t)

		resp, err := f.service.Create(ctx, &CreateCourseRequest{
			Title:    "French Basics",
			Language: models.LanguageFrench,
		}, "instructor-1")
		if err != nil {
			t.Fatalf("failed to create course: %v", err)
		}
		if resp.Level != models.LevelBeginner {
			t.Errorf("expected Beginner, got %s", resp.Level)
		}
	})

	t.Run("invalid language rejected", func(t *testing.T) {
		f := newCourseFixture(t)

		_, err := f.service.Create(ctx, &CreateCourseRequest{
			Title:    "Klingon 101",
			Language: "Klingon",
		}, "instructor-1")

		var errs ValidationErrors
		if !errors.As(err, &errs) {
			t.Fatalf("expected validation errors, got %v", err)
		}
	})

	t.Run("blank title rejected", func(t *testing.T) {
		f := newCourseFixture(t)

		_, err := f.service.Create(ctx, &CreateCourseRequest{
			Title:    "   ",
			Language: models.LanguageEnglish,
		}, "instructor-1")

		var errs ValidationErrors
		if !errors.As(err, &errs) {
			t.Fatalf("expected validation errors, got %v", err)
		}
	})
}

func TestCourseService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("unpublished hidden from outsiders", func(t *testing.T) {
		f := newCourseFixture(t)
		created := f.createCourse(t, "instructor-1")

		_, err := f.service.GetByID(ctx, created.ID, "student-1", models.RoleStudent)
		if !errors.Is(err, ErrCourseNotFound) {
			t.Errorf("expected ErrCourseNotFound, got %v", err)
		}
		_, err = f.service.GetByID(ctx, created.ID, "", "")
		if !errors.Is(err, ErrCourseNotFound) {
			t.Errorf("expected ErrCourseNotFound for anonymous, got %v", err)
		}
	})

	t.Run("unpublished visible to owner and admin", func(t *testing.T) {
		f := newCourseFixture(t)
		created := f.createCourse(t, "instructor-1")

		if _, err := f.service.GetByID(ctx, created.ID, "instructor-1", models.RoleInstructor); err != nil {
			t.Errorf("owner should see own unpublished course: %v", err)
		}
		if _, err := f.service.GetByID(ctx, created.ID, "admin-1", models.RoleAdmin); err != nil {
			t.Errorf("admin should see unpublished course: %v", err)
		}
	})

	t.Run("published visible with lessons ordered", func(t *testing.T) {
		f := newCourseFixture(t)
		created := f.createCourse(t, "instructor-1")
		f.addLesson(t, created.ID, "instructor-1")
		f.addLesson(t, created.ID, "instructor-1")
		if err := f.service.SetPublished(ctx, created.ID, "instructor-1", true); err != nil {
			t.Fatalf("failed to publish: %v", err)
		}

		detail, err := f.service.GetByID(ctx, created.ID, "", "")
		if err != nil {
			t.Fatalf("failed to get course: %v", err)
		}
		if len(detail.Lessons) != 2 {
			t.Errorf("expected 2 lessons, got %d", len(detail.Lessons))
		}
		if detail.Lessons[0].OrderIndex != 0 || detail.Lessons[1].OrderIndex != 1 {
			t.Error("expected lessons in order")
		}
	})
}

func TestCourseService_List(t *testing.T) {
	ctx := context.Background()

	f := newCourseFixture(t)
	published := f.createCourse(t, "instructor-1")
	f.addLesson(t, published.ID, "instructor-1")
	if err := f.service.SetPublished(ctx, published.ID, "instructor-1", true); err != nil {
		t.Fatalf("failed to publish: %v", err)
	}
	f.createCourse(t, "instructor-1") // stays unpublished

	list, err := f.service.List(ctx, CourseListFilters{})
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if list.Total != 1 {
		t.Errorf("expected only the published course, got %d", list.Total)
	}
	if list.Limit != 20 {
		t.Errorf("expected default limit 20, got %d", list.Limit)
	}
}

func TestCourseService_OwnershipChecks(t *testing.T) {
	ctx := context.Background()

	f := newCourseFixture(t)
	created := f.createCourse(t, "instructor-1")
	lesson := f.addLesson(t, created.ID, "instructor-1")

	newTitle := "Hijacked"
	var permErr *PermissionError

	_, err := f.service.Update(ctx, created.ID, &UpdateCourseRequest{Title: &newTitle}, "instructor-2")
	if !errors.As(err, &permErr) {
		t.Errorf("expected PermissionError on update, got %v", err)
	}

	if err := f.service.Delete(ctx, created.ID, "instructor-2"); !errors.As(err, &permErr) {
		t.Errorf("expected PermissionError on delete, got %v", err)
	}

	if err := f.service.SetPublished(ctx, created.ID, "instructor-2", true); !errors.As(err, &permErr) {
		t.Errorf("expected PermissionError on publish, got %v", err)
	}

	_, err = f.service.UpdateLesson(ctx, lesson.ID, &UpdateLessonRequest{Title: &newTitle}, "instructor-2")
	if !errors.As(err, &permErr) {
		t.Errorf("expected PermissionError on lesson update, got %v", err)
	}

	if err := f.service.DeleteLesson(ctx, lesson.ID, "instructor-2"); !errors.As(err, &permErr) {
		t.Errorf("expected PermissionError on lesson delete, got %v", err)
	}
}

func TestCourseService_SetPublished(t *testing.T) {
	ctx := context.Background()

	t.Run("publishing requires lessons", func(t *testing.T) {
		f := newCourseFixture(t)
		created := f.createCourse(t, "instructor-1")

		err := f.service.SetPublished(ctx, created.ID, "instructor-1", true)
		var errs ValidationErrors
		if !errors.As(err, &errs) {
			t.Fatalf("expected validation errors for a lessonless publish, got %v", err)
		}
	})

	t.Run("unpublish always allowed for owner", func(t *testing.T) {
		f := newCourseFixture(t)
		created := f.createCourse(t, "instructor-1")
		f.addLesson(t, created.ID, "instructor-1")

		if err := f.service.SetPublished(ctx, created.ID, "instructor-1", true); err != nil {
			t.Fatalf("failed to publish: %v", err)
		}
		if err := f.service.SetPublished(ctx, created.ID, "instructor-1", false); err != nil {
			t.Fatalf("failed to unpublish: %v", err)
		}
	})
}

func TestCourseService_AddLesson(t *testing.T) {
	ctx := context.Background()

	f := newCourseFixture(t)
	created := f.createCourse(t, "instructor-1")

	first := f.addLesson(t, created.ID, "instructor-1")
	second := f.addLesson(t, created.ID, "instructor-1")
	if first.OrderIndex != 0 || second.OrderIndex != 1 {
		t.Errorf("expected order indexes 0 and 1, got %d and %d",
			first.OrderIndex, second.OrderIndex)
	}

	_, err := f.service.AddLesson(ctx, created.ID, &CreateLessonRequest{
		Title: "Stolen lesson",
	}, "instructor-2")
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Errorf("expected PermissionError, got %v", err)
	}
}
