package chatbot

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/bikehub/bikehub-backend/internal/models"
)

// Catalog is the bike lookup surface the responder needs. Backed by GORM
// in production and by fakes in tests.
type Catalog interface {
	// FindByNameOrBrand returns the first bike whose name or brand
	// contains the query, or (nil, nil) when nothing matches.
	FindByNameOrBrand(ctx context.Context, query string) (*models.Bike, error)
	// FindSimilar returns up to limit bikes whose name or brand contains
	// the query, used for "did you mean" suggestions.
	FindSimilar(ctx context.Context, query string, limit int) ([]models.Bike, error)
	// Cheapest returns up to limit bikes ordered by ascending price.
	Cheapest(ctx context.Context, limit int) ([]models.Bike, error)
	// All returns every bike in the catalog.
	All(ctx context.Context) ([]models.Bike, error)
}

// GormCatalog implements Catalog on top of the bikes table.
type GormCatalog struct {
	DB *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{DB: db}
}

func (c *GormCatalog) FindByNameOrBrand(ctx context.Context, query string) (*models.Bike, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	var bike models.Bike
	err := c.DB.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ?", pattern, pattern).
		First(&bike).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bike, nil
}

func (c *GormCatalog) FindSimilar(ctx context.Context, query string, limit int) ([]models.Bike, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	var bikes []models.Bike
	err := c.DB.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ?", pattern, pattern).
		Limit(limit).
		Find(&bikes).Error
	return bikes, err
}

func (c *GormCatalog) Cheapest(ctx context.Context, limit int) ([]models.Bike, error) {
	var bikes []models.Bike
	err := c.DB.WithContext(ctx).
		Where("price > 0").
		Order("price ASC").
		Limit(limit).
		Find(&bikes).Error
	return bikes, err
}

func (c *GormCatalog) All(ctx context.Context) ([]models.Bike, error) {
	var bikes []models.Bike
	err := c.DB.WithContext(ctx).Find(&bikes).Error
	return bikes, err
}
