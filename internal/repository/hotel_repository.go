package repository

import (
	"context"

	"gorm.io/gorm"

	"hotelbook/internal/model"
)

// HotelRepository defines hotel persistence operations.
type HotelRepository interface {
	Create(ctx context.Context, hotel *model.Hotel) error
	FindByID(ctx context.Context, id model.HotelID) (*model.Hotel, error)
	FindByOwnerID(ctx context.Context, ownerID model.UserID) (*model.Hotel, error)
}

type hotelRepository struct {
	db *gorm.DB
}

// NewHotelRepository creates a new hotel repository.
func NewHotelRepository(db *gorm.DB) HotelRepository {
	return &hotelRepository{db: db}
}

// Create creates a new hotel. The owner_id unique index rejects a second hotel
// for the same owner with gorm.ErrDuplicatedKey.
func (r *hotelRepository) Create(ctx context.Context, hotel *model.Hotel) error {
	return conn(ctx, r.db).Create(hotel).Error
}

// FindByID finds a hotel by ID.
func (r *hotelRepository) FindByID(ctx context.Context, id model.HotelID) (*model.Hotel, error) {
	var hotel model.Hotel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&hotel).Error; err != nil {
		return nil, err
	}
	return &hotel, nil
}

// FindByOwnerID finds the hotel registered by ownerID.
func (r *hotelRepository) FindByOwnerID(ctx context.Context, ownerID model.UserID) (*model.Hotel, error) {
	var hotel model.Hotel
	if err := conn(ctx, r.db).Where("owner_id = ?", ownerID).First(&hotel).Error; err != nil {
		return nil, err
	}
	return &hotel, nil
}
