package models

import "gorm.io/gorm"

const (
	RoleStudent = "student"
	RoleTutor   = "tutor"
)

type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null"`
	Email        string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"default:student"` // student, tutor
}

func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleTutor
}
