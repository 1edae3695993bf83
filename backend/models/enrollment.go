package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

const (
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"
)

type Enrollment struct {
	gorm.Model
	UserID      uint   `gorm:"uniqueIndex:idx_user_course"`
	CourseID    uint   `gorm:"uniqueIndex:idx_user_course"`
	Status      string `gorm:"default:active"` // active, completed
	Progress    int    `gorm:"default:0"`      // derived, 0-100
	Completions []LessonCompletion
}

// LessonCompletion is one completed lesson of one enrollment. A row per
// lesson instead of a serialized map keeps per-lesson updates atomic.
type LessonCompletion struct {
	ID            uint `gorm:"primarykey"`
	EnrollmentID  uint `gorm:"uniqueIndex:idx_enrollment_lesson"`
	ContentItemID uint `gorm:"uniqueIndex:idx_enrollment_lesson"`
	CompletedAt   time.Time
}

// ProgressPercent computes the integer course progress from the number
// of completed lessons. A course with no lessons is 0 percent.
func ProgressPercent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// StatusForProgress keeps the enrollment status in sync with progress.
func StatusForProgress(percent int) string {
	if percent >= 100 {
		return EnrollmentCompleted
	}
	return EnrollmentActive
}
