package models

import "gorm.io/gorm"

// DealerBikeListing records that a dealer offers a given bike. The composite
// unique index prevents duplicate listings for the same dealer/bike pair.
type DealerBikeListing struct {
	gorm.Model
	DealerID uint   `json:"dealerId" gorm:"not null;uniqueIndex:idx_dealer_bike"`
	Dealer   Dealer `json:"-" gorm:"foreignKey:DealerID"`
	BikeID   uint   `json:"bikeId" gorm:"not null;uniqueIndex:idx_dealer_bike"`
	Bike     Bike   `json:"bike" gorm:"foreignKey:BikeID"`

	AvailableForTestRide bool    `json:"availableForTestRide"`
	AvailableForPurchase bool    `json:"availableForPurchase"`
	OnRoadPrice          float64 `json:"onRoadPrice,omitempty"`
	Stock                int     `json:"stock"`
	Notes                string  `json:"notes,omitempty"`
	IsActive             bool    `json:"isActive"`
}
