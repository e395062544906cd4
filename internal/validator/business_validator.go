package validator

import (
	"fmt"
	"strings"

	"github.com/CoursePlatform-F25/course-service/internal/models"
)

// BusinessValidator handles rule checks that go beyond struct tags
type BusinessValidator struct {
	validator *Validator
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	return &BusinessValidator{validator: New()}
}

// Validate validates struct tags for any request
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	return bv.validator.Validate(s)
}

// ValidateApplicationTransition checks whether an application may move
// from its current status to the requested one. Approved and Rejected
// are terminal.
func (bv *BusinessValidator) ValidateApplicationTransition(current, next models.ApplicationStatus) ValidationErrors {
	var errors ValidationErrors

	if current.IsTerminal() {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("application is already %s and cannot change", strings.ToLower(string(current))),
			Value:   current,
			Rule:    "business_logic",
		})
		return errors
	}

	// UnderReview → UnderReview lets an admin re-stamp review notes.
	allowedTransitions := map[models.ApplicationStatus][]models.ApplicationStatus{
		models.ApplicationPending:     {models.ApplicationUnderReview, models.ApplicationApproved, models.ApplicationRejected},
		models.ApplicationUnderReview: {models.ApplicationUnderReview, models.ApplicationApproved, models.ApplicationRejected},
	}

	for _, allowed := range allowedTransitions[current] {
		if next == allowed {
			return nil
		}
	}

	errors = append(errors, ValidationError{
		Field:   "status",
		Message: fmt.Sprintf("cannot transition from %s to %s", current, next),
		Value:   next,
		Rule:    "business_logic",
	})
	return errors
}

// ValidateCoursePublish checks a course is fit to go live
func (bv *BusinessValidator) ValidateCoursePublish(course *models.Course, lessonCount int64) ValidationErrors {
	var errors ValidationErrors

	if strings.TrimSpace(course.Title) == "" {
		errors = append(errors, ValidationError{
			Field:   "title",
			Message: "course needs a title before publishing",
			Rule:    "business_logic",
		})
	}

	if lessonCount == 0 {
		errors = append(errors, ValidationError{
			Field:   "lessons",
			Message: "course needs at least one lesson before publishing",
			Rule:    "business_logic",
		})
	}

	return errors
}
