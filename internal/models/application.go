package models

import (
	"time"

	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "Pending"
	ApplicationUnderReview ApplicationStatus = "UnderReview"
	ApplicationApproved    ApplicationStatus = "Approved"
	ApplicationRejected    ApplicationStatus = "Rejected"
)

// IsTerminal reports whether the status permits no further transitions.
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationApproved || s == ApplicationRejected
}

// InstructorApplication is a user's request to become an instructor.
// A user may hold at most one application, ever — resubmission after
// rejection is not supported.
type InstructorApplication struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"not null;size:255;uniqueIndex"`

	Bio                string `json:"bio" gorm:"not null;size:2000" validate:"required,max=2000"`
	Expertise          string `json:"expertise" gorm:"not null;size:500" validate:"required,max=500"`
	TeachingExperience string `json:"teaching_experience" gorm:"not null;size:2000" validate:"required,max=2000"`
	Motivation         string `json:"motivation" gorm:"not null;size:2000" validate:"required,max=2000"`
	PhoneNumber        *string `json:"phone_number" gorm:"size:30" validate:"omitempty,max=30"`

	Status ApplicationStatus `json:"status" gorm:"not null;default:Pending;size:20;index"`

	SubmittedAt     time.Time  `json:"submitted_at" gorm:"not null"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	ReviewedBy      *string    `json:"reviewed_by" gorm:"size:255"`
	RejectionReason *string    `json:"rejection_reason" gorm:"size:1000"`
	AdminNotes      *string    `json:"admin_notes" gorm:"size:1000"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (InstructorApplication) TableName() string {
	return "instructor_applications"
}
