package services

import (
	"errors"
	"fmt"

	"github.com/CoursePlatform-F25/course-service/internal/validator"
)

// ValidationErrors is re-exported so handlers can match it with errors.As
type ValidationErrors = validator.ValidationErrors

// Sentinel errors for the course domain
var (
	ErrCourseNotFound = errors.New("course not found")
	ErrLessonNotFound = errors.New("lesson not found")

	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrAlreadyEnrolled    = errors.New("already enrolled in this course")
	ErrNotEnrolled        = errors.New("not enrolled in this course")

	ErrApplicationNotFound = errors.New("application not found")
	ErrApplicationExists   = errors.New("an application has already been submitted")
	ErrApplicationTerminal = errors.New("application has already been finalized")

	ErrUserNotFound = errors.New("user not found")
	ErrUnauthorized = errors.New("authentication required")
)

// PermissionError carries who tried what on which resource
type PermissionError struct {
	UserID     string
	ResourceID interface{}
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s (%v): %s",
		e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func NewPermissionError(userID string, resourceID interface{}, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// BusinessRuleError is a domain rule violation that isn't a field error
type BusinessRuleError struct {
	Rule    string
	Message string
	Context map[string]interface{}
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", e.Rule, e.Message)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}
