package models

import (
	"time"

	"gorm.io/gorm"
)

// Promotion is a banner shown on the home page, managed by admins.
type Promotion struct {
	gorm.Model
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description,omitempty"`
	Image       string     `json:"image" gorm:"not null"`
	Link        string     `json:"link,omitempty"`
	IsActive    bool       `json:"isActive"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Priority    int        `json:"priority"` // higher number shows first
}
