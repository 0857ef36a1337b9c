package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Bike categories accepted by the catalog.
var BikeCategories = []string{"Sports", "Cruiser", "Touring", "Adventure", "Naked", "Scooter", "Electric"}

func IsValidCategory(category string) bool {
	for _, c := range BikeCategories {
		if c == category {
			return true
		}
	}
	return false
}

type BikeImage struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

type EngineSpecs struct {
	Displacement string `json:"displacement,omitempty"`
	MaxPower     string `json:"maxPower,omitempty"`
	MaxTorque    string `json:"maxTorque,omitempty"`
	Cooling      string `json:"cooling,omitempty"`
	Transmission string `json:"transmission,omitempty"`
}

type DimensionSpecs struct {
	Length          string `json:"length,omitempty"`
	Width           string `json:"width,omitempty"`
	Height          string `json:"height,omitempty"`
	Wheelbase       string `json:"wheelbase,omitempty"`
	GroundClearance string `json:"groundClearance,omitempty"`
	KerbWeight      string `json:"kerbWeight,omitempty"`
	SeatHeight      string `json:"seatHeight,omitempty"`
}

type PerformanceSpecs struct {
	TopSpeed     string `json:"topSpeed,omitempty"`
	Mileage      string `json:"mileage,omitempty"`
	FuelCapacity string `json:"fuelCapacity,omitempty"`
}

type BrakeSpecs struct {
	Front string `json:"front,omitempty"`
	Rear  string `json:"rear,omitempty"`
	// nil means unknown, distinct from "no ABS"
	ABS *bool `json:"abs,omitempty"`
}

type SuspensionSpecs struct {
	Front string `json:"front,omitempty"`
	Rear  string `json:"rear,omitempty"`
}

type TyreSpecs struct {
	Front string `json:"front,omitempty"`
	Rear  string `json:"rear,omitempty"`
}

// Specifications groups the nested spec sheet stored as a single JSON column.
type Specifications struct {
	Engine      EngineSpecs      `json:"engine"`
	Dimensions  DimensionSpecs   `json:"dimensions"`
	Performance PerformanceSpecs `json:"performance"`
	Brakes      BrakeSpecs       `json:"brakes"`
	Suspension  SuspensionSpecs  `json:"suspension"`
	Tyres       TyreSpecs        `json:"tyres"`
	Colors      []string         `json:"colors,omitempty"`
}

type Bike struct {
	gorm.Model
	Name            string                               `json:"name" gorm:"not null;index"`
	Brand           string                               `json:"brand" gorm:"not null;index"`
	Category        string                               `json:"category" gorm:"not null"`
	Price           float64                              `json:"price" gorm:"not null"`
	ExShowroomPrice float64                              `json:"exShowroomPrice"`
	Description     string                               `json:"description"`
	Specifications  datatypes.JSONType[Specifications]   `json:"specifications"`
	Images          datatypes.JSONSlice[BikeImage]       `json:"images"`
	Model360        string                               `json:"model360,omitempty"`
	IsAvailable     bool                                 `json:"isAvailable"`
	Views           int64                                `json:"views"`
	Comparisons     int64                                `json:"comparisons"`
	Featured        bool                                 `json:"featured"`
}

// Specs returns the decoded specification sheet.
func (b *Bike) Specs() Specifications {
	return b.Specifications.Data()
}
