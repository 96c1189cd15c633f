package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	ProfileImage        string    `gorm:"default:''"`
	Name                string    `gorm:"default:''"`
	Email               string    `gorm:"unique;not null"`
	Role                string    `gorm:"default:'USER'"` // USER, ADMIN
	Password            string    `gorm:"not null"`
	Village             string    `gorm:"default:''"`
	District            string    `gorm:"default:''"`
	State               string    `gorm:"default:''"`
	PreferredCategory   string    `gorm:"default:''"` // used by course recommendations
	PreferredLevel      string    `gorm:"default:''"` // Beginner, Intermediate, Advanced
	IsEmailVerified     bool      `gorm:"default:false"`
	LastLogin           time.Time `gorm:"default:NULL"`
	FailedLoginAttempts int       `gorm:"default:0"`
	IsBlocked           bool      `gorm:"default:false"`
	IsDeleted           bool      `gorm:"default:false"`
}
