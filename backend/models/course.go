package models

import "gorm.io/gorm"

const (
	CourseDraft     = "Draft"
	CoursePublished = "Published"
	CourseArchived  = "Archived"
)

type Course struct {
	gorm.Model
	Title        string
	Description  string
	Price        int    // cents
	Level        string // beginner, intermediate, advanced
	Duration     string
	Category     string
	Tags         string // comma-joined
	Status       string `gorm:"default:Draft"` // Draft, Published, Archived
	ThumbnailURL string
	TutorID      uint `gorm:"index"`
	Contents     []ContentItem
	Messages     []ChatMessage `json:"-"`
}

func ValidCourseStatus(status string) bool {
	return status == CourseDraft || status == CoursePublished || status == CourseArchived
}
