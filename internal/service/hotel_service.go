package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	apperrors "hotelbook/internal/errors"
	"hotelbook/internal/model"
	"hotelbook/internal/repository"
)

// HotelInput carries the fields of a hotel registration.
type HotelInput struct {
	Name    string `validate:"required,max=128"`
	Address string `validate:"required,max=255"`
	Contact string `validate:"required,max=64"`
	City    string `validate:"required,max=64"`
}

// HotelService registers hotels.
type HotelService interface {
	RegisterHotel(ctx context.Context, ownerID model.UserID, in HotelInput) (*model.Hotel, error)
}

type hotelService struct {
	hotelRepo repository.HotelRepository
	identity  IdentityService
	tx        repository.Transactor
	validate  *validator.Validate
}

// NewHotelService creates a new hotel service.
func NewHotelService(hotelRepo repository.HotelRepository, identity IdentityService, tx repository.Transactor) HotelService {
	return &hotelService{
		hotelRepo: hotelRepo,
		identity:  identity,
		tx:        tx,
		validate:  validator.New(),
	}
}

// RegisterHotel creates the caller's only hotel and promotes the caller to
// hotel owner in the same transaction.
func (s *hotelService) RegisterHotel(ctx context.Context, ownerID model.UserID, in HotelInput) (*model.Hotel, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.Contact = strings.TrimSpace(in.Contact)
	in.City = strings.TrimSpace(in.City)
	if err := s.validate.Struct(in); err != nil {
		return nil, apperrors.FromValidator(err)
	}

	hotel := &model.Hotel{
		Name:    in.Name,
		Address: in.Address,
		Contact: in.Contact,
		City:    in.City,
		OwnerID: ownerID,
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		_, err := s.hotelRepo.FindByOwnerID(ctx, ownerID)
		if err == nil {
			return apperrors.ErrHotelAlreadyRegistered
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return storageErr(err, nil)
		}

		if err := s.hotelRepo.Create(ctx, hotel); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrHotelAlreadyRegistered
			}
			return storageErr(err, nil)
		}
		return s.identity.PromoteToOwner(ctx, ownerID)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("hotel_id", hotel.ID.String()).Str("owner_id", ownerID.String()).Msg("hotel registered")
	return hotel, nil
}
