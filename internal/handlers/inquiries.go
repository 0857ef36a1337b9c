package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bikehub/bikehub-backend/internal/models"
	"github.com/bikehub/bikehub-backend/internal/services"
)

type CreateInquiryInput struct {
	BikeID   uint   `json:"bikeId" binding:"required"`
	DealerID uint   `json:"dealerId" binding:"required"`
	Subject  string `json:"subject" binding:"required"`
	Message  string `json:"message" binding:"required"`
}

type ReplyInquiryInput struct {
	Message string `json:"message" binding:"required"`
}

// CreateInquiry files a question about a bike with a dealer.
func CreateInquiry(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateInquiryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
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

		inquiry := models.Inquiry{
			UserID:   c.GetUint("userId"),
			BikeID:   bike.ID,
			DealerID: dealer.ID,
			Subject:  input.Subject,
			Message:  input.Message,
			Status:   models.InquiryStatusPending,
		}

		if result := db.Create(&inquiry); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to create inquiry"})
			return
		}

		db.Preload("Bike").Preload("Dealer").Preload("User").First(&inquiry, inquiry.ID)
		c.JSON(201, inquiry)
	}
}

// GetInquiries lists inquiries scoped to the caller. Dealers and admins
// with a dealer link see their dealership's inquiries, everyone else sees
// their own.
func GetInquiries(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		role := c.GetString("userRole")

		query := db.Preload("Bike").Preload("Dealer").Preload("User")

		if role == string(models.RoleDealer) || role == string(models.RoleAdmin) {
			if dealer := resolveDealer(db, userID); dealer != nil {
				query = query.Where("dealer_id = ?", dealer.ID)
			}
		} else {
			query = query.Where("user_id = ?", userID)
		}

		var inquiries []models.Inquiry
		if result := query.Order("created_at DESC").Find(&inquiries); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch inquiries"})
			return
		}

		c.JSON(200, inquiries)
	}
}

// ReplyInquiry records a dealer reply and notifies the customer.
func ReplyInquiry(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("userRole")
		if role != string(models.RoleDealer) && role != string(models.RoleAdmin) {
			c.JSON(403, gin.H{"error": "Dealer or Admin access required"})
			return
		}

		var input ReplyInquiryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var inquiry models.Inquiry
		if result := db.First(&inquiry, c.Param("id")); result.Error != nil {
			c.JSON(404, gin.H{"error": "Inquiry not found"})
			return
		}

		now := time.Now()
		inquiry.Status = models.InquiryStatusReplied
		inquiry.DealerReply = input.Message
		inquiry.RepliedAt = &now

		if result := db.Save(&inquiry); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update inquiry"})
			return
		}

		db.Preload("Bike").Preload("Dealer").Preload("User").First(&inquiry, inquiry.ID)

		hub.SendInquiryReplied(inquiry.UserID, services.InquiryReplied{
			InquiryID: inquiry.ID,
			BikeName:  inquiry.Bike.Name,
			Reply:     inquiry.DealerReply,
		})

		c.JSON(200, inquiry)
	}
}
