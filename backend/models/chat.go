package models

import "gorm.io/gorm"

// ChatMessage is append-only: no mutation after creation.
type ChatMessage struct {
	gorm.Model
	CourseID uint `gorm:"index"`
	UserID   uint
	UserName string
	Text     string
}
