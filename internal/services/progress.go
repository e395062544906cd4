package services

import "math"

// CalculateProgress returns the completion percentage for a course,
// rounded to two decimal places. A course with no lessons counts as
// fully complete: there is nothing left to do.
func CalculateProgress(totalLessons, completedLessons int) float64 {
	if totalLessons <= 0 {
		return 100
	}
	if completedLessons <= 0 {
		return 0
	}
	if completedLessons > totalLessons {
		completedLessons = totalLessons
	}

	pct := float64(completedLessons) / float64(totalLessons) * 100
	return math.Round(pct*100) / 100
}

// IsComplete reports whether a progress percentage means the course is done.
func IsComplete(percentage float64) bool {
	return percentage >= 100
}
