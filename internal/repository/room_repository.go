package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotelbook/internal/model"
)

// RoomRepository defines room persistence operations.
type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	FindByID(ctx context.Context, id model.RoomID) (*model.Room, error)
	FindByIDForUpdate(ctx context.Context, id model.RoomID) (*model.Room, error)
	ListAvailable(ctx context.Context) ([]model.Room, error)
	ListByHotel(ctx context.Context, hotelID model.HotelID) ([]model.Room, error)
	UpdateAvailability(ctx context.Context, id model.RoomID, available bool) error
}

type roomRepository struct {
	db *gorm.DB
}

// NewRoomRepository creates a new room repository.
func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

// Create creates a new room.
func (r *roomRepository) Create(ctx context.Context, room *model.Room) error {
	return conn(ctx, r.db).Create(room).Error
}

// FindByID finds a room by ID.
func (r *roomRepository) FindByID(ctx context.Context, id model.RoomID) (*model.Room, error) {
	var room model.Room
	if err := conn(ctx, r.db).Where("id = ?", id).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// FindByIDForUpdate finds a room by ID with a row-level lock. Only meaningful
// inside a transaction; SQLite ignores the locking clause.
func (r *roomRepository) FindByIDForUpdate(ctx context.Context, id model.RoomID) (*model.Room, error) {
	var room model.Room
	if err := conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// ListAvailable lists rooms open for booking, newest first, with hotel and
// hotel owner loaded.
func (r *roomRepository) ListAvailable(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	if err := conn(ctx, r.db).Preload("Hotel.Owner").
		Where("is_available = ?", true).
		Order("created_at DESC").
		Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// ListByHotel lists every room of a hotel, newest first.
func (r *roomRepository) ListByHotel(ctx context.Context, hotelID model.HotelID) ([]model.Room, error) {
	var rooms []model.Room
	if err := conn(ctx, r.db).Preload("Hotel").
		Where("hotel_id = ?", hotelID).
		Order("created_at DESC").
		Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// UpdateAvailability sets the manual availability flag.
func (r *roomRepository) UpdateAvailability(ctx context.Context, id model.RoomID, available bool) error {
	return conn(ctx, r.db).Model(&model.Room{}).
		Where("id = ?", id).
		Update("is_available", available).Error
}
