package model

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// DefaultPaymentMethod is recorded on every new booking.
const DefaultPaymentMethod = "Pay At Hotel"

// Booking reserves a room for a date range.
type Booking struct {
	ID            BookingID       `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID        UserID          `json:"userId" gorm:"type:varchar(36);not null;index"`
	RoomID        RoomID          `json:"roomId" gorm:"type:varchar(36);not null;index:idx_booking_room_dates,priority:1"`
	HotelID       HotelID         `json:"hotelId" gorm:"type:varchar(36);not null;index"`
	CheckInDate   time.Time       `json:"checkInDate" gorm:"not null;index:idx_booking_room_dates,priority:2"`
	CheckOutDate  time.Time       `json:"checkOutDate" gorm:"not null;index:idx_booking_room_dates,priority:3"`
	Guests        int             `json:"guests" gorm:"not null"`
	TotalPrice    decimal.Decimal `json:"totalPrice" gorm:"type:decimal(12,2);not null"`
	Status        BookingStatus   `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentMethod string          `json:"paymentMethod" gorm:"size:64;not null;default:'Pay At Hotel'"`
	IsPaid        bool            `json:"isPaid" gorm:"not null;default:false"`
	CreatedAt     time.Time       `json:"createdAt" gorm:"index"`
	UpdatedAt     time.Time       `json:"updatedAt"`

	// Relations
	User  *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Room  *Room  `json:"room,omitempty" gorm:"foreignKey:RoomID"`
	Hotel *Hotel `json:"hotel,omitempty" gorm:"foreignKey:HotelID"`
}

// BeforeCreate sets the ID and defaults before creating the record.
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = NewBookingID()
	}
	if b.Status == "" {
		b.Status = BookingStatusPending
	}
	if b.PaymentMethod == "" {
		b.PaymentMethod = DefaultPaymentMethod
	}
	return nil
}

// Overlaps reports whether the booking conflicts with [checkIn, checkOut].
// Both bounds are inclusive, so a stay starting on another's check-out day
// conflicts with it.
func (b *Booking) Overlaps(checkIn, checkOut time.Time) bool {
	return !b.CheckInDate.After(checkOut) && !b.CheckOutDate.Before(checkIn)
}

// Nights returns the number of nights between check-in and check-out,
// rounding any partial day up.
func Nights(checkIn, checkOut time.Time) int64 {
	return int64(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}
