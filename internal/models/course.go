package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CourseLanguage string

const (
	LanguageArabic  CourseLanguage = "Arabic"
	LanguageEnglish CourseLanguage = "English"
	LanguageGerman  CourseLanguage = "German"
	LanguageFrench  CourseLanguage = "French"
	LanguageSpanish CourseLanguage = "Spanish"
)

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "Beginner"
	LevelIntermediate CourseLevel = "Intermediate"
	LevelAdvanced     CourseLevel = "Advanced"
)

type Course struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Title       string         `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description string         `json:"description" gorm:"size:1000" validate:"max=1000"`
	Language    CourseLanguage `json:"language" gorm:"not null;size:20;index" validate:"required,course_language"`
	Level       CourseLevel    `json:"level" gorm:"default:Beginner;size:20;index" validate:"omitempty,course_level"`
	Price       float64        `json:"price" gorm:"type:decimal(8,2);not null;default:0" validate:"min=0,max=10000"`

	ThumbnailURL *string `json:"thumbnail_url" gorm:"size:500"`

	// Unpublished courses are invisible to students and cannot be enrolled in.
	IsPublished bool `json:"is_published" gorm:"not null;default:false;index"`

	// Metadata
	InstructorID string         `json:"instructor_id" gorm:"not null;index;size:255"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Instructor  User         `json:"instructor" gorm:"foreignKey:InstructorID"`
	Lessons     []Lesson     `json:"lessons" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	Enrollments []Enrollment `json:"enrollments,omitempty" gorm:"foreignKey:CourseID"`

	// Computed fields (not stored)
	LessonCount int `json:"lesson_count" gorm:"-"`
}

type Lesson struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	CourseID    uint   `json:"course_id" gorm:"not null;index;uniqueIndex:idx_course_order,priority:1"`
	Title       string `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description string `json:"description" gorm:"size:1000" validate:"max=1000"`

	// OrderIndex is unique within a course.
	OrderIndex      int  `json:"order_index" gorm:"not null;uniqueIndex:idx_course_order,priority:2" validate:"min=0"`
	DurationMinutes int  `json:"duration_minutes" gorm:"not null;default:0" validate:"min=0,max=600"`
	IsPublished     bool `json:"is_published" gorm:"not null;default:false"`

	VideoURL *string `json:"video_url" gorm:"size:500"`
	Content  *string `json:"content" gorm:"type:text"`

	// Uploaded supplementary material references (pass-through only).
	Attachments datatypes.JSON `json:"attachments,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Course     Course           `json:"-" gorm:"foreignKey:CourseID"`
	Progresses []LessonProgress `json:"-" gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE"`
}

func (Course) TableName() string {
	return "courses"
}

func (Lesson) TableName() string {
	return "lessons"
}
