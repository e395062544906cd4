package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent    UserRole = "Student"
	RoleInstructor UserRole = "Instructor"
	RoleAdmin      UserRole = "Admin"
)

type User struct {
	ID        string `json:"id" gorm:"primaryKey;size:255"`
	FirstName string `json:"first_name" gorm:"not null;size:100" validate:"required,max=100"`
	LastName  string `json:"last_name" gorm:"not null;size:100" validate:"required,max=100"`
	Email     string `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email"`

	Role UserRole `json:"role" gorm:"not null;default:Student;size:20;index" validate:"omitempty,oneof=Student Instructor Admin"`

	// Profile info
	ProfilePictureURL *string `json:"profile_picture_url" gorm:"size:500"`
	Location          *string `json:"location" gorm:"size:100"`
	Bio               *string `json:"bio" gorm:"size:500"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Courses     []Course               `json:"courses,omitempty" gorm:"foreignKey:InstructorID"`
	Enrollments []Enrollment           `json:"enrollments,omitempty" gorm:"foreignKey:UserID"`
	Application *InstructorApplication `json:"application,omitempty" gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName is the name shown on course cards and in admin listings.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}
