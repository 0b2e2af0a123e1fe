package models

import (
	"time"

	"gorm.io/gorm"
)

type LoginTracking struct {
	gorm.Model
	UserID    uint      `gorm:"not null"`
	IPAddress string    `gorm:"size:45"`
	Device    string    `gorm:"size:255"`
	Timestamp time.Time `gorm:"not null"`
	IsDeleted bool      `gorm:"default:false"`
}
