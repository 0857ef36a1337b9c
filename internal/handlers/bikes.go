package handlers

import (
	"log"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bikehub/bikehub-backend/internal/models"
	"github.com/bikehub/bikehub-backend/internal/services"
)

// GetBikes lists bikes with optional brand, category, featured, price range
// and search filters, newest first.
func GetBikes(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Bike{})

		if brand := c.Query("brand"); brand != "" {
			query = query.Where("brand = ?", brand)
		}
		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category)
		}
		if c.Query("featured") == "true" {
			query = query.Where("featured = ?", true)
		}
		if minPrice := c.Query("minPrice"); minPrice != "" {
			if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
				query = query.Where("price >= ?", v)
			}
		}
		if maxPrice := c.Query("maxPrice"); maxPrice != "" {
			if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
				query = query.Where("price <= ?", v)
			}
		}
		if search := c.Query("search"); search != "" {
			pattern := "%" + strings.ToLower(search) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern, pattern)
		}

		var bikes []models.Bike
		if result := query.Order("created_at DESC").Find(&bikes); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bikes"})
			return
		}

		c.JSON(200, bikes)
	}
}

// GetBrands returns the distinct bike brands, cached in Redis.
func GetBrands(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cached, err := services.GetCachedCatalogList(c.Request.Context(), "brands"); err == nil {
			c.JSON(200, cached)
			return
		}

		var brands []string
		if result := db.Model(&models.Bike{}).Distinct("brand").Order("brand").Pluck("brand", &brands); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch brands"})
			return
		}

		if err := services.CacheCatalogList(c.Request.Context(), "brands", brands); err != nil {
			log.Printf("Failed to cache brands: %v", err)
		}
		c.JSON(200, brands)
	}
}

// GetCategories returns the distinct bike categories, cached in Redis.
func GetCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cached, err := services.GetCachedCatalogList(c.Request.Context(), "categories"); err == nil {
			c.JSON(200, cached)
			return
		}

		var categories []string
		if result := db.Model(&models.Bike{}).Distinct("category").Order("category").Pluck("category", &categories); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch categories"})
			return
		}

		if err := services.CacheCatalogList(c.Request.Context(), "categories", categories); err != nil {
			log.Printf("Failed to cache categories: %v", err)
		}
		c.JSON(200, categories)
	}
}

// GetBike returns a single bike and increments its view counter.
func GetBike(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var bike models.Bike
		if result := db.First(&bike, c.Param("id")); result.Error != nil {
			c.JSON(404, gin.H{"error": "Bike not found"})
			return
		}

		if result := db.Model(&bike).UpdateColumn("views", gorm.Expr("views + 1")); result.Error != nil {
			log.Printf("Failed to increment views for bike %d: %v", bike.ID, result.Error)
		}
		bike.Views++

		c.JSON(200, bike)
	}
}

// TrackComparison increments a bike's comparison counter.
func TrackComparison(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var bike models.Bike
		if result := db.First(&bike, c.Param("id")); result.Error != nil {
			c.JSON(404, gin.H{"error": "Bike not found"})
			return
		}

		if result := db.Model(&bike).UpdateColumn("comparisons", gorm.Expr("comparisons + 1")); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to track comparison"})
			return
		}
		bike.Comparisons++

		c.JSON(200, gin.H{"message": "Comparison tracked", "comparisons": bike.Comparisons})
	}
}
