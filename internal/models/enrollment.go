package models

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment links a user to a course. One row per (user, course) —
// the composite unique index backstops concurrent enroll requests.
type Enrollment struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	UserID   string `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_user_course,priority:1"`
	CourseID uint   `json:"course_id" gorm:"not null;uniqueIndex:idx_user_course,priority:2;index"`

	EnrolledAt time.Time `json:"enrolled_at" gorm:"not null"`

	// ProgressPercentage is a denormalized snapshot, recomputed from
	// lesson progress rows on every refresh. 0..100, two decimals.
	ProgressPercentage float64 `json:"progress_percentage" gorm:"type:decimal(5,2);not null;default:0"`

	// CompletedAt is set the first time progress reaches 100 and never
	// cleared afterwards, even if the course later gains lessons.
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	User   User   `json:"-" gorm:"foreignKey:UserID"`
	Course Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

func (e *Enrollment) IsCompleted() bool {
	return e.CompletedAt != nil
}

// LessonProgress tracks one user's state on one lesson.
type LessonProgress struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	UserID   string `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_user_lesson,priority:1"`
	LessonID uint   `json:"lesson_id" gorm:"not null;uniqueIndex:idx_user_lesson,priority:2;index"`

	IsCompleted    bool       `json:"is_completed" gorm:"not null;default:false"`
	CompletedAt    *time.Time `json:"completed_at"`
	WatchedSeconds int        `json:"watched_seconds" gorm:"not null;default:0" validate:"min=0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User   User   `json:"-" gorm:"foreignKey:UserID"`
	Lesson Lesson `json:"-" gorm:"foreignKey:LessonID"`
}

func (LessonProgress) TableName() string {
	return "lesson_progresses"
}
