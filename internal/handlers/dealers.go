package handlers

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bikehub/bikehub-backend/internal/models"
	"github.com/bikehub/bikehub-backend/pkg/utils"
)

// GetDealers lists active dealers for the public dealer locator, with
// optional type, city and state filters.
func GetDealers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Dealer{}).Where("is_active = ?", true)

		if dealerType := c.Query("type"); dealerType != "" {
			query = query.Where("type = ?", dealerType)
		}
		if city := c.Query("city"); city != "" {
			query = query.Where("LOWER(address_city) LIKE ?", "%"+strings.ToLower(city)+"%")
		}
		if state := c.Query("state"); state != "" {
			query = query.Where("LOWER(address_state) LIKE ?", "%"+strings.ToLower(state)+"%")
		}

		var dealers []models.Dealer
		if result := query.Order("created_at DESC").Find(&dealers); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch dealers"})
			return
		}

		c.JSON(200, dealers)
	}
}

// GetNearbyDealers returns active dealers within radiusKm of the given
// point, closest first, each annotated with its distance.
func GetNearbyDealers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		lat, err := strconv.ParseFloat(c.Query("lat"), 64)
		if err != nil {
			c.JSON(400, gin.H{"error": "lat query parameter is required"})
			return
		}
		lng, err := strconv.ParseFloat(c.Query("lng"), 64)
		if err != nil {
			c.JSON(400, gin.H{"error": "lng query parameter is required"})
			return
		}
		radiusKm := 25.0
		if radius := c.Query("radius"); radius != "" {
			if v, err := strconv.ParseFloat(radius, 64); err == nil && v > 0 {
				radiusKm = v
			}
		}

		var dealers []models.Dealer
		if result := db.Where("is_active = ?", true).Find(&dealers); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch dealers"})
			return
		}

		type nearbyDealer struct {
			models.Dealer
			DistanceKm float64 `json:"distanceKm"`
		}

		var nearby []nearbyDealer
		for _, d := range dealers {
			if !d.HasLocation() {
				continue
			}
			distance := utils.HaversineDistance(lat, lng, d.Latitude, d.Longitude)
			if distance <= radiusKm {
				nearby = append(nearby, nearbyDealer{Dealer: d, DistanceKm: math.Round(distance*100) / 100})
			}
		}
		sort.Slice(nearby, func(i, j int) bool { return nearby[i].DistanceKm < nearby[j].DistanceKm })

		if nearby == nil {
			nearby = []nearbyDealer{}
		}
		c.JSON(200, nearby)
	}
}

// GetDealerBikes returns a dealer's active listings for its public page.
func GetDealerBikes(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var dealer models.Dealer
		if result := db.First(&dealer, c.Param("id")); result.Error != nil {
			c.JSON(404, gin.H{"error": "Dealer not found"})
			return
		}

		var listings []models.DealerBikeListing
		if result := db.Preload("Bike").
			Where("dealer_id = ? AND is_active = ?", dealer.ID, true).
			Order("created_at DESC").
			Find(&listings); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch listings"})
			return
		}

		bikes := make([]gin.H, 0, len(listings))
		for _, listing := range listings {
			if !listing.Bike.IsAvailable {
				continue
			}
			bikes = append(bikes, gin.H{
				"listingId":            listing.ID,
				"bike":                 listing.Bike,
				"availableForTestRide": listing.AvailableForTestRide,
				"availableForPurchase": listing.AvailableForPurchase,
				"onRoadPrice":          listing.OnRoadPrice,
				"stock":                listing.Stock,
				"notes":                listing.Notes,
			})
		}

		c.JSON(200, gin.H{
			"dealer": gin.H{
				"id":      dealer.ID,
				"name":    dealer.Name,
				"type":    dealer.Type,
				"address": dealer.Address,
				"phone":   dealer.Phone,
				"email":   dealer.Email,
			},
			"bikes": bikes,
		})
	}
}

// GetBikeCatalog returns the available bikes a dealer can list, with
// search, filters, sorting and pagination.
func GetBikeCatalog(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
		if limit < 1 {
			limit = 12
		}

		query := db.Model(&models.Bike{}).Where("is_available = ?", true)

		if search := c.Query("search"); search != "" {
			pattern := "%" + strings.ToLower(search) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(category) LIKE ?", pattern, pattern, pattern)
		}
		if brand := c.Query("brand"); brand != "" {
			query = query.Where("LOWER(brand) LIKE ?", "%"+strings.ToLower(brand)+"%")
		}
		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category)
		}

		var total int64
		if result := query.Count(&total); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bikes"})
			return
		}

		switch c.DefaultQuery("sortBy", "newest") {
		case "oldest":
			query = query.Order("created_at ASC")
		case "priceHigh":
			query = query.Order("price DESC")
		case "priceLow":
			query = query.Order("price ASC")
		default:
			query = query.Order("created_at DESC")
		}

		var bikes []models.Bike
		if result := query.Offset((page - 1) * limit).Limit(limit).Find(&bikes); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bikes"})
			return
		}

		var brands []string
		db.Model(&models.Bike{}).Where("is_available = ?", true).Distinct("brand").Order("brand").Pluck("brand", &brands)

		totalPages := int(math.Ceil(float64(total) / float64(limit)))
		c.JSON(200, gin.H{
			"bikes": bikes,
			"pagination": gin.H{
				"currentPage":  page,
				"totalPages":   totalPages,
				"totalItems":   total,
				"itemsPerPage": limit,
				"hasNextPage":  page < totalPages,
				"hasPrevPage":  page > 1,
			},
			"filters": gin.H{
				"brands": brands,
			},
		})
	}
}

// GetMyListings returns all listings of the calling dealer.
func GetMyListings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dealer := resolveDealer(db, c.GetUint("userId"))
		if dealer == nil {
			c.JSON(404, gin.H{"error": "Dealer not found"})
			return
		}

		var listings []models.DealerBikeListing
		if result := db.Preload("Bike").
			Where("dealer_id = ?", dealer.ID).
			Order("created_at DESC").
			Find(&listings); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch listings"})
			return
		}

		c.JSON(200, listings)
	}
}

type ListBikeInput struct {
	BikeID               uint    `json:"bikeId" binding:"required"`
	AvailableForTestRide *bool   `json:"availableForTestRide"`
	AvailableForPurchase *bool   `json:"availableForPurchase"`
	OnRoadPrice          float64 `json:"onRoadPrice"`
	Stock                *int    `json:"stock"`
	Notes                string  `json:"notes"`
}

// ListBike lists a bike under the calling dealer. Listing an already
// listed bike updates and reactivates the existing listing.
func ListBike(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ListBikeInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		dealer := resolveDealer(db, c.GetUint("userId"))
		if dealer == nil {
			c.JSON(404, gin.H{"error": "Dealer not found"})
			return
		}

		var bike models.Bike
		if result := db.First(&bike, input.BikeID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Bike not found"})
			return
		}

		var existing models.DealerBikeListing
		if result := db.Where("dealer_id = ? AND bike_id = ?", dealer.ID, bike.ID).First(&existing); result.Error == nil {
			if input.AvailableForTestRide != nil {
				existing.AvailableForTestRide = *input.AvailableForTestRide
			}
			if input.AvailableForPurchase != nil {
				existing.AvailableForPurchase = *input.AvailableForPurchase
			}
			if input.OnRoadPrice > 0 {
				existing.OnRoadPrice = input.OnRoadPrice
			}
			if input.Stock != nil {
				existing.Stock = *input.Stock
			}
			if input.Notes != "" {
				existing.Notes = input.Notes
			}
			existing.IsActive = true

			if result := db.Save(&existing); result.Error != nil {
				c.JSON(500, gin.H{"error": "Failed to update listing"})
				return
			}

			c.JSON(200, gin.H{"message": "Bike listing updated", "listing": existing})
			return
		}

		listing := models.DealerBikeListing{
			DealerID:             dealer.ID,
			BikeID:               bike.ID,
			AvailableForTestRide: true,
			AvailableForPurchase: true,
			OnRoadPrice:          input.OnRoadPrice,
			Notes:                input.Notes,
			IsActive:             true,
		}
		if input.AvailableForTestRide != nil {
			listing.AvailableForTestRide = *input.AvailableForTestRide
		}
		if input.AvailableForPurchase != nil {
			listing.AvailableForPurchase = *input.AvailableForPurchase
		}
		if input.Stock != nil {
			listing.Stock = *input.Stock
		}

		if result := db.Create(&listing); result.Error != nil {
			// Unique index violation on a concurrent insert
			c.JSON(400, gin.H{"error": "Bike is already listed"})
			return
		}

		db.Preload("Bike").First(&listing, listing.ID)
		c.JSON(201, gin.H{"message": "Bike listed successfully", "listing": listing})
	}
}

type UpdateListingInput struct {
	AvailableForTestRide *bool    `json:"availableForTestRide"`
	AvailableForPurchase *bool    `json:"availableForPurchase"`
	OnRoadPrice          *float64 `json:"onRoadPrice"`
	Stock                *int     `json:"stock"`
	Notes                *string  `json:"notes"`
	IsActive             *bool    `json:"isActive"`
}

// UpdateListing updates a listing owned by the calling dealer. Admins may
// update any listing.
func UpdateListing(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateListingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		dealer := resolveDealer(db, c.GetUint("userId"))
		if dealer == nil && c.GetString("userRole") != string(models.RoleAdmin) {
			c.JSON(404, gin.H{"error": "Dealer not found"})
			return
		}

		var listing models.DealerBikeListing
		if result := db.First(&listing, c.Param("id")); result.Error != nil {
			c.JSON(404, gin.H{"error": "Listing not found"})
			return
		}

		if c.GetString("userRole") != string(models.RoleAdmin) && (dealer == nil || listing.DealerID != dealer.ID) {
			c.JSON(403, gin.H{"error": "Not authorized"})
			return
		}

		if input.AvailableForTestRide != nil {
			listing.AvailableForTestRide = *input.AvailableForTestRide
		}
		if input.AvailableForPurchase != nil {
			listing.AvailableForPurchase = *input.AvailableForPurchase
		}
		if input.OnRoadPrice != nil {
			listing.OnRoadPrice = *input.OnRoadPrice
		}
		if input.Stock != nil {
			listing.Stock = *input.Stock
		}
		if input.Notes != nil {
			listing.Notes = *input.Notes
		}
		if input.IsActive != nil {
			listing.IsActive = *input.IsActive
		}

		if result := db.Save(&listing); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update listing"})
			return
		}

		db.Preload("Bike").First(&listing, listing.ID)
		c.JSON(200, gin.H{"message": "Listing updated", "listing": listing})
	}
}

// DeleteListing deactivates a listing. The row is kept so the listing can
// be reactivated by listing the bike again.
func DeleteListing(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dealer := resolveDealer(db, c.GetUint("userId"))
		if dealer == nil && c.GetString("userRole") != string(models.RoleAdmin) {
			c.JSON(404, gin.H{"error": "Dealer not found"})
			return
		}

		var listing models.DealerBikeListing
		if result := db.First(&listing, c.Param("id")); result.Error != nil {
			c.JSON(404, gin.H{"error": "Listing not found"})
			return
		}

		if c.GetString("userRole") != string(models.RoleAdmin) && (dealer == nil || listing.DealerID != dealer.ID) {
			c.JSON(403, gin.H{"error": "Not authorized"})
			return
		}

		listing.IsActive = false
		if result := db.Save(&listing); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update listing"})
			return
		}

		c.JSON(200, gin.H{"message": "Listing removed"})
	}
}

// GetDealerBookings returns the bookings for the calling dealer's
// dealership.
func GetDealerBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dealer := resolveDealer(db, c.GetUint("userId"))
		if dealer == nil {
			c.JSON(404, gin.H{"error": "Dealer not found"})
			return
		}

		var bookings []models.Booking
		if result := db.Preload("Bike").Preload("User").
			Where("dealer_id = ?", dealer.ID).
			Order("created_at DESC").
			Find(&bookings); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, bookings)
	}
}
