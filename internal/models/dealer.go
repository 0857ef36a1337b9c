package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DealerType string

const (
	DealerTypeShowroom      DealerType = "showroom"
	DealerTypeServiceCenter DealerType = "service_center"
)

type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

type WorkingDay struct {
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
	Closed bool   `json:"closed"`
}

type Dealer struct {
	gorm.Model
	Name  string `json:"name" gorm:"not null"`
	Type  string `json:"type" gorm:"not null"`
	Email string `json:"email" gorm:"not null;index"`
	Phone string `json:"phone" gorm:"not null"`

	// Address fields are flattened into columns so the locator can filter on them.
	Address Address `json:"address" gorm:"embedded;embeddedPrefix:address_"`

	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	MapLink   string  `json:"mapLink,omitempty"`

	WorkingHours datatypes.JSONType[map[string]WorkingDay] `json:"workingHours"`
	Brands       datatypes.JSONSlice[string]               `json:"brands"`
	Services     datatypes.JSONSlice[string]               `json:"services"`

	IsActive bool `json:"isActive"`
}

func (d *Dealer) HasLocation() bool {
	return d.Latitude != 0 || d.Longitude != 0
}
