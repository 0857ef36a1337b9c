package handlers

import (
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/bikehub/bikehub-backend/internal/models"
	"github.com/bikehub/bikehub-backend/internal/services"
	"github.com/bikehub/bikehub-backend/pkg/utils"
)

// GetAdminStats returns the dashboard counters plus the most viewed and
// most compared bikes and the latest bookings.
func GetAdminStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var totalUsers, totalBikes, totalBookings, totalDealers int64
		db.Model(&models.User{}).Where("role = ?", models.RoleUser).Count(&totalUsers)
		db.Model(&models.Bike{}).Count(&totalBikes)
		db.Model(&models.Booking{}).Count(&totalBookings)
		db.Model(&models.Dealer{}).Count(&totalDealers)

		var mostViewedBikes []models.Bike
		db.Order("views DESC").Limit(5).Find(&mostViewedBikes)

		var mostComparedBikes []models.Bike
		db.Order("comparisons DESC").Limit(5).Find(&mostComparedBikes)

		var recentBookings []models.Booking
		db.Preload("Bike").Preload("User").Order("created_at DESC").Limit(10).Find(&recentBookings)

		c.JSON(200, gin.H{
			"totalUsers":        totalUsers,
			"totalBikes":        totalBikes,
			"totalBookings":     totalBookings,
			"totalDealers":      totalDealers,
			"mostViewedBikes":   mostViewedBikes,
			"mostComparedBikes": mostComparedBikes,
			"recentBookings":    recentBookings,
		})
	}
}

// bikeFromForm fills bike fields from a multipart form. Specifications and
// images arrive as JSON strings alongside the uploaded files.
func bikeFromForm(c *gin.Context, bike *models.Bike) error {
	if name := c.PostForm("name"); name != "" {
		bike.Name = name
	}
	if brand := c.PostForm("brand"); brand != "" {
		bike.Brand = brand
	}
	if category := c.PostForm("category"); category != "" {
		bike.Category = category
	}
	if price := c.PostForm("price"); price != "" {
		if v, err := strconv.ParseFloat(price, 64); err == nil {
			bike.Price = v
		}
	}
	if exShowroom := c.PostForm("exShowroomPrice"); exShowroom != "" {
		if v, err := strconv.ParseFloat(exShowroom, 64); err == nil {
			bike.ExShowroomPrice = v
		}
	}
	if description := c.PostForm("description"); description != "" {
		bike.Description = description
	}
	if featured := c.PostForm("featured"); featured != "" {
		bike.Featured = featured == "true"
	}
	if available := c.PostForm("isAvailable"); available != "" {
		bike.IsAvailable = available == "true"
	}

	if specsJSON := c.PostForm("specifications"); specsJSON != "" {
		var specs models.Specifications
		if err := json.Unmarshal([]byte(specsJSON), &specs); err != nil {
			return err
		}
		bike.Specifications = datatypes.NewJSONType(specs)
	}
	if imagesJSON := c.PostForm("images"); imagesJSON != "" {
		var images []models.BikeImage
		if err := json.Unmarshal([]byte(imagesJSON), &images); err != nil {
			return err
		}
		bike.Images = datatypes.JSONSlice[models.BikeImage](images)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	for _, file := range form.File["images"] {
		url, err := services.UploadImage(file, services.FolderBikes)
		if err != nil {
			return err
		}
		bike.Images = append(bike.Images, models.BikeImage{URL: url, Alt: bike.Name})
	}
	if files := form.File["model360"]; len(files) > 0 {
		url, err := services.UploadModel360(files[0])
		if err != nil {
			return err
		}
		bike.Model360 = url
	}
	return nil
}

// CreateBike creates a bike from a multipart form with images and an
// optional 3D model.
func CreateBike(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		bike := models.Bike{IsAvailable: true}
		if err := bikeFromForm(c, &bike); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if bike.Name == "" || bike.Brand == "" || bike.Category == "" {
			c.JSON(400, gin.H{"error": "Name, brand and category are required"})
			return
		}
		if !models.IsValidCategory(bike.Category) {
			c.JSON(400, gin.H{"error": "Invalid category"})
			return
		}

		if result := db.Create(&bike); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to create bike"})
			return
		}

		c.JSON(201, bike)
	}
}

// UpdateBike updates a bike from a multipart form. Newly uploaded images
// are appended to the existing ones.
func UpdateBike(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var bike models.Bike
		if result := db.First(&bike, c.Param("id")); result.Error != nil {
			c.JSON(404, gin.H{"error": "Bike not found"})
			return
		}

		if err := bikeFromForm(c, &bike); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if !models.IsValidCategory(bike.Category) {
			c.JSON(400, gin.H{"error": "Invalid category"})
			return
		}

		if result := db.Save(&bike); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update bike"})
			return
		}

		c.JSON(200, bike)
	}
}

// DeleteBike removes a bike from the catalog.
func DeleteBike(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var bike models.Bike
		if result := db.First(&bike, c.Param("id")); result.Error != nil {
			c.JSON(404, gin.H{"error": "Bike not found"})
			return
		}

		if result := db.Delete(&bike); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to delete bike"})
			return
		}

		c.JSON(200, gin.H{"message": "Bike deleted successfully"})
	}
}

// GetAllDealers lists every dealer, including inactive ones.
func GetAllDealers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var dealers []models.Dealer
		if result := db.Order("created_at DESC").Find(&dealers); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch dealers"})
			return
		}

		c.JSON(200, dealers)
	}
}

type CreateDealerInput struct {
	Name      string                       `json:"name" binding:"required"`
	Type      string                       `json:"type" binding:"required,oneof=showroom service_center"`
	Email     string                       `json:"email" binding:"required,email"`
	Phone     string                       `json:"phone" binding:"required"`
	Address   models.Address               `json:"address"`
	Latitude  float64                      `json:"latitude"`
	Longitude float64                      `json:"longitude"`
	MapLink   string                       `json:"mapLink"`
	Brands    []string                     `json:"brands"`
	Services  []string                     `json:"services"`
	Hours     map[string]models.WorkingDay `json:"workingHours"`
}

// CreateDealer creates a dealer entity together with its login account.
// The account gets a temporary password, delivered by email, that must be
// changed on first login.
func CreateDealer(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateDealerInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var existingUser models.User
		if result := db.Where("email = ?", input.Email).First(&existingUser); result.Error == nil {
			c.JSON(400, gin.H{"error": "User with this email already exists"})
			return
		}

		temporaryPassword, err := utils.GenerateTemporaryPassword()
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate temporary password"})
			return
		}
		passwordExpiry := time.Now().Add(utils.TemporaryPasswordValidity)

		dealer := models.Dealer{
			Name:         input.Name,
			Type:         input.Type,
			Email:        input.Email,
			Phone:        input.Phone,
			Address:      input.Address,
			Latitude:     input.Latitude,
			Longitude:    input.Longitude,
			MapLink:      input.MapLink,
			Brands:       datatypes.JSONSlice[string](input.Brands),
			Services:     datatypes.JSONSlice[string](input.Services),
			WorkingHours: datatypes.NewJSONType(input.Hours),
			IsActive:     true,
		}

		user := models.User{
			Name:                    input.Name,
			Email:                   input.Email,
			Phone:                   input.Phone,
			Password:                temporaryPassword,
			Role:                    string(models.RoleDealer),
			MustChangePassword:      true,
			TemporaryPasswordExpiry: &passwordExpiry,
			IsActive:                true,
		}
		if err := user.HashPassword(); err != nil {
			c.JSON(500, gin.H{"error": "Failed to hash password"})
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if result := tx.Create(&dealer); result.Error != nil {
				return result.Error
			}
			user.DealerID = &dealer.ID
			return tx.Create(&user).Error
		})
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to create dealer: " + err.Error()})
			return
		}

		if err := utils.SendDealerWelcomeEmail(dealer.Email, dealer.Name, temporaryPassword); err != nil {
			log.Printf("Failed to send welcome email to %s, but dealer account created: %v", dealer.Email, err)
		}

		c.JSON(201, gin.H{
			"dealer": dealer,
			"user": gin.H{
				"id":    user.ID,
				"email": user.Email,
				"role":  user.Role,
			},
			"message": "Dealer created successfully. Welcome email sent with temporary password.",
		})
	}
}

// DeleteDealer removes a dealer and deactivates its login account.
func DeleteDealer(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var dealer models.Dealer
		if result := db.First(&dealer, c.Param("id")); result.Error != nil {
			c.JSON(404, gin.H{"error": "Dealer not found"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if result := tx.Model(&models.User{}).Where("dealer_id = ?", dealer.ID).Update("is_active", false); result.Error != nil {
				return result.Error
			}
			return tx.Delete(&dealer).Error
		})
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete dealer"})
			return
		}

		c.JSON(200, gin.H{"message": "Dealer deleted successfully"})
	}
}

// GetActivePromotions returns the active promotions for the home page,
// highest priority first.
func GetActivePromotions(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()

		var promotions []models.Promotion
		if result := db.Where("is_active = ?", true).
			Where("start_date <= ?", now).
			Where("end_date IS NULL OR end_date >= ?", now).
			Order("priority DESC, created_at DESC").
			Find(&promotions); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch promotions"})
			return
		}

		c.JSON(200, promotions)
	}
}

// promotionFromForm fills promotion fields from a multipart form with an
// optional image upload.
func promotionFromForm(c *gin.Context, promotion *models.Promotion) error {
	if title := c.PostForm("title"); title != "" {
		promotion.Title = title
	}
	if description := c.PostForm("description"); description != "" {
		promotion.Description = description
	}
	if link := c.PostForm("link"); link != "" {
		promotion.Link = link
	}
	if active := c.PostForm("isActive"); active != "" {
		promotion.IsActive = active == "true"
	}
	if priority := c.PostForm("priority"); priority != "" {
		if v, err := strconv.Atoi(priority); err == nil {
			promotion.Priority = v
		}
	}
	if startDate := c.PostForm("startDate"); startDate != "" {
		if t, err := time.Parse(bookingDateLayout, startDate); err == nil {
			promotion.StartDate = t
		}
	}
	if endDate := c.PostForm("endDate"); endDate != "" {
		if t, err := time.Parse(bookingDateLayout, endDate); err == nil {
			promotion.EndDate = &t
		}
	}

	if file, err := c.FormFile("image"); err == nil {
		url, err := services.UploadImage(file, services.FolderPromotions)
		if err != nil {
			return err
		}
		promotion.Image = url
	}
	return nil
}

// CreatePromotion creates a home page promotion banner.
func CreatePromotion(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		promotion := models.Promotion{IsActive: true, StartDate: time.Now()}
		if err := promotionFromForm(c, &promotion); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if promotion.Title == "" || promotion.Image == "" {
			c.JSON(400, gin.H{"error": "Title and image are required"})
			return
		}

		if result := db.Create(&promotion); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to create promotion"})
			return
		}

		c.JSON(201, promotion)
	}
}

// UpdatePromotion updates a promotion banner.
func UpdatePromotion(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var promotion models.Promotion
		if result := db.First(&promotion, c.Param("id")); result.Error != nil {
			c.JSON(404, gin.H{"error": "Promotion not found"})
			return
		}

		if err := promotionFromForm(c, &promotion); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if result := db.Save(&promotion); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update promotion"})
			return
		}

		c.JSON(200, promotion)
	}
}

// DeletePromotion removes a promotion banner.
func DeletePromotion(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var promotion models.Promotion
		if result := db.First(&promotion, c.Param("id")); result.Error != nil {
			c.JSON(404, gin.H{"error": "Promotion not found"})
			return
		}

		if result := db.Delete(&promotion); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to delete promotion"})
			return
		}

		c.JSON(200, gin.H{"message": "Promotion deleted successfully"})
	}
}
