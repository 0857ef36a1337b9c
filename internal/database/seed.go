package database

import (
	"errors"
	"log"
	"os"

	"github.com/bikehub/bikehub-backend/internal/models"
	"gorm.io/gorm"
)

// EnsureAdminUser creates the bootstrap admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD when no account with that email exists yet.
func EnsureAdminUser(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	admin := models.User{
		Name:     "Administrator",
		Email:    email,
		Password: password,
		Role:     string(models.RoleAdmin),
		IsActive: true,
	}
	if err := admin.HashPassword(); err != nil {
		return err
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Created admin account %s", email)
	return nil
}
