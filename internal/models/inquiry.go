package models

import (
	"time"

	"gorm.io/gorm"
)

type InquiryStatus string

const (
	InquiryStatusPending InquiryStatus = "pending"
	InquiryStatusReplied InquiryStatus = "replied"
	InquiryStatusClosed  InquiryStatus = "closed"
)

type Inquiry struct {
	gorm.Model
	UserID   uint   `json:"userId" gorm:"not null;index"`
	User     User   `json:"user" gorm:"foreignKey:UserID"`
	BikeID   uint   `json:"bikeId" gorm:"not null"`
	Bike     Bike   `json:"bike" gorm:"foreignKey:BikeID"`
	DealerID uint   `json:"dealerId" gorm:"not null;index"`
	Dealer   Dealer `json:"dealer" gorm:"foreignKey:DealerID"`

	Subject string        `json:"subject" gorm:"not null"`
	Message string        `json:"message" gorm:"not null"`
	Status  InquiryStatus `json:"status" gorm:"not null;default:'pending'"`

	DealerReply string     `json:"dealerReply,omitempty"`
	RepliedAt   *time.Time `json:"repliedAt,omitempty"`
}
