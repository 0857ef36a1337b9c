package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending     BookingStatus = "pending"
	BookingStatusApproved    BookingStatus = "approved"
	BookingStatusRejected    BookingStatus = "rejected"
	BookingStatusRescheduled BookingStatus = "rescheduled"
	BookingStatusCompleted   BookingStatus = "completed"
	BookingStatusCancelled   BookingStatus = "cancelled"
)

// ErrInvalidTransition is returned when a booking is moved to a status that
// is not reachable from its current one.
var ErrInvalidTransition = errors.New("booking status transition not allowed")

// TimeSlots are the half-hour test-ride slots a booking can request.
var TimeSlots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"12:00", "12:30", "13:00", "13:30", "14:00", "14:30",
	"15:00", "15:30", "16:00", "16:30", "17:00",
}

func IsValidTimeSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

type Booking struct {
	gorm.Model
	UserID   uint   `json:"userId" gorm:"not null;index"`
	User     User   `json:"user" gorm:"foreignKey:UserID"`
	BikeID   uint   `json:"bikeId" gorm:"not null"`
	Bike     Bike   `json:"bike" gorm:"foreignKey:BikeID"`
	DealerID uint   `json:"dealerId" gorm:"not null;index"`
	Dealer   Dealer `json:"dealer" gorm:"foreignKey:DealerID"`

	BookingDate   time.Time     `json:"bookingDate" gorm:"not null"`
	PreferredTime string        `json:"preferredTime" gorm:"not null"`
	Status        BookingStatus `json:"status" gorm:"not null;default:'pending'"`

	Message        string `json:"message,omitempty"`
	DealerResponse string `json:"dealerResponse,omitempty"`

	// Set only by a reschedule; cleared again when the booking leaves the
	// rescheduled status.
	RescheduledDate *time.Time `json:"rescheduledDate,omitempty"`
	RescheduledTime string     `json:"rescheduledTime,omitempty"`
}

// Transition moves the booking to the target status. Dealer decisions are
// only legal from pending or rescheduled; re-applying the current status is
// an idempotent no-op. Anything else returns ErrInvalidTransition.
func (b *Booking) Transition(to BookingStatus) error {
	if b.Status == to {
		return nil
	}

	switch b.Status {
	case BookingStatusPending, BookingStatusRescheduled:
	default:
		return ErrInvalidTransition
	}

	switch to {
	case BookingStatusApproved, BookingStatusRejected, BookingStatusRescheduled:
	default:
		return ErrInvalidTransition
	}

	b.Status = to
	if to != BookingStatusRescheduled {
		b.RescheduledDate = nil
		b.RescheduledTime = ""
	}
	return nil
}
