package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RoomType is the category of a room listing.
type RoomType string

const (
	RoomTypeSingleBed   RoomType = "Single Bed"
	RoomTypeDoubleBed   RoomType = "Double Bed"
	RoomTypeLuxuryRoom  RoomType = "Luxury Room"
	RoomTypeFamilySuite RoomType = "Family Suite"
)

// Valid reports whether t is a known room type.
func (t RoomType) Valid() bool {
	switch t {
	case RoomTypeSingleBed, RoomTypeDoubleBed, RoomTypeLuxuryRoom, RoomTypeFamilySuite:
		return true
	}
	return false
}

const (
	MinRoomImages = 1
	MaxRoomImages = 4
)

// Room is a bookable listing belonging to a hotel.
type Room struct {
	ID            RoomID          `json:"id" gorm:"type:varchar(36);primaryKey"`
	HotelID       HotelID         `json:"hotelId" gorm:"type:varchar(36);not null;index"`
	RoomType      RoomType        `json:"roomType" gorm:"type:varchar(32);not null"`
	PricePerNight decimal.Decimal `json:"pricePerNight" gorm:"type:decimal(12,2);not null"`
	Amenities     []string        `json:"amenities" gorm:"type:text;serializer:json"`
	Images        []string        `json:"images" gorm:"type:text;serializer:json"`
	// IsAvailable is the owner's manual listing flag, independent of bookings.
	IsAvailable bool      `json:"isAvailable" gorm:"not null;default:true;index"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Relations
	Hotel *Hotel `json:"hotel,omitempty" gorm:"foreignKey:HotelID"`
}

// BeforeCreate sets the ID before creating the record.
func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = NewRoomID()
	}
	if r.Amenities == nil {
		r.Amenities = []string{}
	}
	return nil
}
