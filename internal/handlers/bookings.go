package handlers

import (
	"errors"
	"io"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bikehub/bikehub-backend/internal/metrics"
	"github.com/bikehub/bikehub-backend/internal/models"
	"github.com/bikehub/bikehub-backend/internal/services"
	"github.com/bikehub/bikehub-backend/pkg/utils"
)

const bookingDateLayout = "2006-01-02"

type CreateBookingInput struct {
	BikeID        uint   `json:"bikeId" binding:"required"`
	DealerID      uint   `json:"dealerId" binding:"required"`
	BookingDate   string `json:"bookingDate" binding:"required"`
	PreferredTime string `json:"preferredTime" binding:"required"`
	Message       string `json:"message"`
}

// DecisionInput carries the optional dealer message on approve and reject.
// The request body itself is optional.
type DecisionInput struct {
	Message string `json:"message"`
}

type RescheduleInput struct {
	RescheduledDate string `json:"rescheduledDate" binding:"required"`
	RescheduledTime string `json:"rescheduledTime" binding:"required"`
	Message         string `json:"message"`
}

// resolveDealer finds the dealer entity for a dealer-role account. The
// explicit DealerID link wins; accounts created before that link existed
// fall back to an email match. Returns nil when neither resolves.
func resolveDealer(db *gorm.DB, userID uint) *models.Dealer {
	var user models.User
	if result := db.First(&user, userID); result.Error != nil {
		return nil
	}

	var dealer models.Dealer
	if user.DealerID != nil {
		if result := db.First(&dealer, *user.DealerID); result.Error == nil {
			return &dealer
		}
	}
	if result := db.Where("email = ?", user.Email).First(&dealer); result.Error == nil {
		return &dealer
	}
	return nil
}

// resolveDealerUser finds the login account behind a dealer entity, used to
// route websocket notifications.
func resolveDealerUser(db *gorm.DB, dealer *models.Dealer) *models.User {
	var user models.User
	if result := db.Where("dealer_id = ?", dealer.ID).First(&user); result.Error == nil {
		return &user
	}
	if result := db.Where("email = ?", dealer.Email).First(&user); result.Error == nil {
		return &user
	}
	return nil
}

// CreateBooking creates a test ride booking and notifies the dealer by
// email and websocket.
func CreateBooking(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateBookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		bookingDate, err := time.Parse(bookingDateLayout, input.BookingDate)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking date, expected YYYY-MM-DD"})
			return
		}
		today := time.Now().Truncate(24 * time.Hour)
		if bookingDate.Before(today) {
			c.JSON(400, gin.H{"error": "Booking date cannot be in the past"})
			return
		}
		if !models.IsValidTimeSlot(input.PreferredTime) {
			c.JSON(400, gin.H{"error": "Invalid time slot"})
			return
		}

		var bike models.Bike
		if result := db.First(&bike, input.BikeID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Bike not found"})
			return
		}
		var dealer models.Dealer
		if result := db.First(&dealer, input.DealerID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Dealer not found"})
			return
		}

		userID := c.GetUint("userId")
		booking := models.Booking{
			UserID:        userID,
			BikeID:        bike.ID,
			DealerID:      dealer.ID,
			BookingDate:   bookingDate,
			PreferredTime: input.PreferredTime,
			Status:        models.BookingStatusPending,
			Message:       input.Message,
		}

		if result := db.Create(&booking); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to create booking"})
			return
		}
		metrics.IncBookingCreated()

		var user models.User
		db.First(&user, userID)

		// Notify the dealer outside the request path.
		go func() {
			if err := utils.SendNewBookingEmailToDealer(dealer.Email, bike.Name, user.Name, input.BookingDate, input.PreferredTime); err != nil {
				log.Printf("Failed to send booking email to dealer: %v", err)
			}
			if dealerUser := resolveDealerUser(db, &dealer); dealerUser != nil {
				hub.SendBookingCreated(dealerUser.ID, services.BookingCreated{
					BookingID:   booking.ID,
					BikeName:    bike.Name,
					UserName:    user.Name,
					BookingDate: input.BookingDate,
					TimeSlot:    input.PreferredTime,
				})
			}
		}()

		db.Preload("Bike").Preload("Dealer").Preload("User").First(&booking, booking.ID)
		c.JSON(201, booking)
	}
}

// GetBookings lists bookings scoped to the caller. Dealer accounts see
// their dealership's bookings, everyone else sees their own.
func GetBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		role := c.GetString("userRole")

		query := db.Preload("Bike").Preload("Dealer").Preload("User")

		if role == string(models.RoleDealer) {
			dealer := resolveDealer(db, userID)
			if dealer == nil {
				c.JSON(200, []models.Booking{})
				return
			}
			query = query.Where("dealer_id = ?", dealer.ID)
		} else {
			query = query.Where("user_id = ?", userID)
		}

		var bookings []models.Booking
		if result := query.Order("created_at DESC").Find(&bookings); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, bookings)
	}
}

// GetBooking returns a single booking. Customers can only read their own,
// dealers and admins can read any.
func GetBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var booking models.Booking
		if result := db.Preload("Bike").Preload("Dealer").Preload("User").First(&booking, c.Param("id")); result.Error != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		role := c.GetString("userRole")
		if role != string(models.RoleAdmin) && role != string(models.RoleDealer) && booking.UserID != c.GetUint("userId") {
			c.JSON(403, gin.H{"error": "Not authorized"})
			return
		}

		c.JSON(200, booking)
	}
}

// ApproveBooking marks a booking approved. Accepts an optional JSON body
// with a dealer message.
func ApproveBooking(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return decideBooking(db, hub, models.BookingStatusApproved)
}

// RejectBooking marks a booking rejected. Accepts an optional JSON body
// with a dealer message.
func RejectBooking(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return decideBooking(db, hub, models.BookingStatusRejected)
}

func decideBooking(db *gorm.DB, hub *services.Hub, to models.BookingStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("userRole")
		if role != string(models.RoleDealer) && role != string(models.RoleAdmin) {
			c.JSON(403, gin.H{"error": "Dealer or Admin access required"})
			return
		}

		var input DecisionInput
		if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var booking models.Booking
		if result := db.First(&booking, c.Param("id")); result.Error != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if err := booking.Transition(to); err != nil {
			c.JSON(409, gin.H{"error": err.Error()})
			return
		}
		if input.Message != "" {
			booking.DealerResponse = input.Message
		}

		if result := db.Save(&booking); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update booking"})
			return
		}
		metrics.IncBookingTransition(string(to))

		db.Preload("Bike").Preload("Dealer").Preload("User").First(&booking, booking.ID)
		notifyBookingStatus(hub, &booking)

		c.JSON(200, booking)
	}
}

// RescheduleBooking proposes a new date and slot for a booking.
func RescheduleBooking(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("userRole")
		if role != string(models.RoleDealer) && role != string(models.RoleAdmin) {
			c.JSON(403, gin.H{"error": "Dealer or Admin access required"})
			return
		}

		var input RescheduleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		rescheduledDate, err := time.Parse(bookingDateLayout, input.RescheduledDate)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid rescheduled date, expected YYYY-MM-DD"})
			return
		}
		if !models.IsValidTimeSlot(input.RescheduledTime) {
			c.JSON(400, gin.H{"error": "Invalid time slot"})
			return
		}

		var booking models.Booking
		if result := db.First(&booking, c.Param("id")); result.Error != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if err := booking.Transition(models.BookingStatusRescheduled); err != nil {
			c.JSON(409, gin.H{"error": err.Error()})
			return
		}
		booking.RescheduledDate = &rescheduledDate
		booking.RescheduledTime = input.RescheduledTime
		if input.Message != "" {
			booking.DealerResponse = input.Message
		}

		if result := db.Save(&booking); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update booking"})
			return
		}
		metrics.IncBookingTransition(string(models.BookingStatusRescheduled))

		db.Preload("Bike").Preload("Dealer").Preload("User").First(&booking, booking.ID)
		notifyBookingStatus(hub, &booking)

		c.JSON(200, booking)
	}
}

func notifyBookingStatus(hub *services.Hub, booking *models.Booking) {
	b := *booking
	go func() {
		if err := utils.SendBookingStatusEmail(b.User.Email, b.Bike.Name, string(b.Status), b.DealerResponse); err != nil {
			log.Printf("Failed to send booking status email: %v", err)
		}

		changed := services.BookingStatusChanged{
			BookingID:      b.ID,
			BikeName:       b.Bike.Name,
			Status:         string(b.Status),
			DealerResponse: b.DealerResponse,
		}
		if b.RescheduledDate != nil {
			changed.RescheduledDate = b.RescheduledDate.Format(bookingDateLayout)
			changed.RescheduledTime = b.RescheduledTime
		}
		hub.SendBookingStatusChanged(b.UserID, changed)
	}()
}
