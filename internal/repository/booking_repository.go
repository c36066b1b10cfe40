package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"hotelbook/internal/model"
)

// BookingRepository defines booking persistence operations.
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	HasOverlap(ctx context.Context, roomID model.RoomID, checkIn, checkOut time.Time) (bool, error)
	ListByUser(ctx context.Context, userID model.UserID) ([]model.Booking, error)
	ListByHotel(ctx context.Context, hotelID model.HotelID) ([]model.Booking, error)
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// Create creates a new booking.
func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return conn(ctx, r.db).Create(booking).Error
}

// HasOverlap reports whether a non-cancelled booking of the room touches
// [checkIn, checkOut]. Both ends are inclusive.
func (r *bookingRepository) HasOverlap(ctx context.Context, roomID model.RoomID, checkIn, checkOut time.Time) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&model.Booking{}).
		Where("room_id = ?", roomID).
		Where("status <> ?", model.BookingStatusCancelled).
		Where("check_in_date <= ? AND check_out_date >= ?", checkOut, checkIn).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByUser lists a user's bookings, newest first, with room and hotel loaded.
func (r *bookingRepository) ListByUser(ctx context.Context, userID model.UserID) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := conn(ctx, r.db).Preload("Room").Preload("Hotel").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListByHotel lists a hotel's bookings, newest first, with guest and room loaded.
func (r *bookingRepository) ListByHotel(ctx context.Context, hotelID model.HotelID) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := conn(ctx, r.db).Preload("User").Preload("Room").
		Where("hotel_id = ?", hotelID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}
