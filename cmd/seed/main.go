package main

import (
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/CoursePlatform-F25/course-service/internal/config"
	"github.com/CoursePlatform-F25/course-service/internal/models"
	"github.com/CoursePlatform-F25/course-service/pkg"
)

// Seeds a development database with an admin, a sample instructor and
// a small published course. Safe to run repeatedly.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := seed(db); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	log.Println("Database seeded")
}

func seed(db *gorm.DB) error {
	users := []models.User{
		{
			ID:        "seed-admin",
			FirstName: "Platform",
			LastName:  "Admin",
			Email:     "admin@courseplatform.local",
			Role:      models.RoleAdmin,
		},
		{
			ID:        "seed-instructor",
			FirstName: "Nadia",
			LastName:  "Haddad",
			Email:     "nadia@courseplatform.local",
			Role:      models.RoleInstructor,
		},
	}
	for i := range users {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&users[i]).Error; err != nil {
			return err
		}
	}

	course := models.Course{
		Title:        "Arabic for Beginners",
		Description:  "An introduction to Modern Standard Arabic.",
		Language:     models.LanguageArabic,
		Level:        models.LevelBeginner,
		Price:        19.99,
		IsPublished:  true,
		InstructorID: "seed-instructor",
	}

	var existing models.Course
	err := db.Where("title = ? AND instructor_id = ?", course.Title, course.InstructorID).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	if err := db.Create(&course).Error; err != nil {
		return err
	}

	lessons := []models.Lesson{
		{CourseID: course.ID, Title: "The Alphabet", OrderIndex: 0, DurationMinutes: 20, IsPublished: true},
		{CourseID: course.ID, Title: "Greetings", OrderIndex: 1, DurationMinutes: 15, IsPublished: true},
		{CourseID: course.ID, Title: "Numbers", OrderIndex: 2, DurationMinutes: 18, IsPublished: true},
	}
	return db.Create(&lessons).Error
}
