package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser   UserRole = "user"
	RoleDealer UserRole = "dealer"
	RoleAdmin  UserRole = "admin"
)

type User struct {
	gorm.Model
	Name         string `gorm:"column:name;not null" json:"name"`
	Email        string `gorm:"column:email;unique;not null" json:"email"`
	Password     string `gorm:"-" json:"-"` // Temporary field for password handling
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	Phone        string `gorm:"column:phone" json:"phone"`
	Role         string `gorm:"column:role;not null;default:'user'" json:"role"`

	// Set when an admin provisions a dealer account; links the login
	// account to its dealer entity.
	DealerID *uint `gorm:"column:dealer_id" json:"dealerId,omitempty"`

	MustChangePassword      bool       `gorm:"column:must_change_password" json:"mustChangePassword"`
	TemporaryPasswordExpiry *time.Time `gorm:"column:temporary_password_expiry" json:"-"`
	PasswordChangedAt       *time.Time `gorm:"column:password_changed_at" json:"-"`
	IsActive                bool       `gorm:"column:is_active" json:"isActive"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// PasswordChangeRequired reports whether the account must change its
// password before normal use, either because an admin flagged it or
// because its temporary password has expired.
func (u *User) PasswordChangeRequired() bool {
	if u.MustChangePassword {
		return true
	}
	return u.TemporaryPasswordExpiry != nil && time.Now().After(*u.TemporaryPasswordExpiry)
}
