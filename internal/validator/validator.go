package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/CoursePlatform-F25/course-service/internal/models"
)

// ValidationError represents a single field error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// Validator wraps go-playground/validator with domain rules registered
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with all custom rules registered
func New() *Validator {
	validate := validator.New()
	registerDomainRules(validate)
	return &Validator{validate: validate}
}

// Validate runs struct validation and converts errors to the domain shape
func (v *Validator) Validate(s interface{}) ValidationErrors {
	err := v.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// Var validates a single value against a rule string
func (v *Validator) Var(field interface{}, tag string) error {
	return v.validate.Var(field, tag)
}

// ToValidationErrors converts library errors into ValidationErrors
func ToValidationErrors(err error) ValidationErrors {
	var errors ValidationErrors

	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrors {
			errors = append(errors, ValidationError{
				Field:   fe.Field(),
				Message: errorMessage(fe),
				Value:   fe.Value(),
				Rule:    fe.Tag(),
			})
		}
		return errors
	}

	return ValidationErrors{{Field: "", Message: err.Error(), Rule: "invalid"}}
}

func registerDomainRules(validate *validator.Validate) {
	_ = validate.RegisterValidation("course_language", func(fl validator.FieldLevel) bool {
		switch models.CourseLanguage(fl.Field().String()) {
		case models.LanguageArabic, models.LanguageEnglish, models.LanguageGerman,
			models.LanguageFrench, models.LanguageSpanish:
			return true
		}
		return false
	})

	_ = validate.RegisterValidation("course_level", func(fl validator.FieldLevel) bool {
		switch models.CourseLevel(fl.Field().String()) {
		case models.LevelBeginner, models.LevelIntermediate, models.LevelAdvanced:
			return true
		}
		return false
	})

	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		for _, r := range fl.Field().String() {
			if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
				return true
			}
		}
		return false
	})
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "course_language":
		return "must be one of: Arabic, English, German, French, Spanish"
	case "course_level":
		return "must be one of: Beginner, Intermediate, Advanced"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
