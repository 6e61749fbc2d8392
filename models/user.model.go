package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

type User struct {
	gorm.Model
	Name     string `json:"name" gorm:"default:''"`
	Email    string `json:"email" gorm:"unique;not null"`
	Role     string `json:"role" gorm:"default:'student'"` // student, admin
	Password string `json:"-" gorm:"not null"`

	// Informational study stats. Progress percentages never derive from these.
	StreakDays     int        `json:"streakDays" gorm:"default:0"`
	LastStudyDate  *time.Time `json:"lastStudyDate"`
	TotalStudyTime int        `json:"totalStudyTime" gorm:"default:0"` // minutes
	XP             int        `json:"xp" gorm:"default:0"`
	Level          int        `json:"level" gorm:"default:1"`

	LastLogin *time.Time `json:"lastLogin"`
	IsDeleted bool       `json:"-" gorm:"default:false"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
