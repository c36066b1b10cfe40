package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	apperrors "hotelbook/internal/errors"
	"hotelbook/internal/model"
	"hotelbook/internal/observability"
	"hotelbook/internal/repository"
	"hotelbook/internal/roomlock"
)

// BookingInput carries a booking request.
type BookingInput struct {
	RoomID   model.RoomID
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
}

// HotelDashboard summarises a hotel's bookings for its owner. Totals ignore
// cancelled bookings.
type HotelDashboard struct {
	TotalBookings int             `json:"totalBookings"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	Bookings      []model.Booking `json:"bookings"`
}

// BookingService checks availability and creates bookings.
type BookingService interface {
	CheckAvailability(ctx context.Context, roomID model.RoomID, checkIn, checkOut time.Time) (bool, error)
	CreateBooking(ctx context.Context, callerID model.UserID, in BookingInput) (*model.Booking, error)
	GetUserBookings(ctx context.Context, userID model.UserID) ([]model.Booking, error)
	GetHotelBookings(ctx context.Context, ownerID model.UserID) (*HotelDashboard, error)
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	roomRepo    repository.RoomRepository
	hotelRepo   repository.HotelRepository
	tx          repository.Transactor
	locker      roomlock.Locker
}

// NewBookingService creates a new booking service.
func NewBookingService(
	bookingRepo repository.BookingRepository,
	roomRepo repository.RoomRepository,
	hotelRepo repository.HotelRepository,
	tx repository.Transactor,
	locker roomlock.Locker,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		hotelRepo:   hotelRepo,
		tx:          tx,
		locker:      locker,
	}
}

func validateDates(checkIn, checkOut time.Time) error {
	if checkIn.IsZero() || checkOut.IsZero() || !checkOut.After(checkIn) {
		return apperrors.ErrInvalidDateRange
	}
	return nil
}

// CheckAvailability reports whether no active booking of the room touches
// [checkIn, checkOut].
func (s *bookingService) CheckAvailability(ctx context.Context, roomID model.RoomID, checkIn, checkOut time.Time) (bool, error) {
	if err := validateDates(checkIn, checkOut); err != nil {
		return false, err
	}
	overlap, err := s.bookingRepo.HasOverlap(ctx, roomID, checkIn.UTC(), checkOut.UTC())
	if err != nil {
		return false, storageErr(err, nil)
	}
	return !overlap, nil
}

// CreateBooking books a room for the caller. The per-room lock and the room
// row lock are both held from the overlap check until the insert commits, so
// concurrent requests for the same room are serialised.
func (s *bookingService) CreateBooking(ctx context.Context, callerID model.UserID, in BookingInput) (*model.Booking, error) {
	if err := validateDates(in.CheckIn, in.CheckOut); err != nil {
		observability.ObserveBooking("invalid")
		return nil, err
	}
	if in.Guests < 1 {
		observability.ObserveBooking("invalid")
		return nil, apperrors.ErrInvalidGuests
	}
	checkIn, checkOut := in.CheckIn.UTC(), in.CheckOut.UTC()

	unlock, err := s.locker.Lock(ctx, in.RoomID)
	if err != nil {
		observability.ObserveBooking("error")
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	defer unlock()

	var booking *model.Booking
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		room, err := s.roomRepo.FindByIDForUpdate(ctx, in.RoomID)
		if err != nil {
			return storageErr(err, apperrors.ErrRoomNotFound)
		}

		overlap, err := s.bookingRepo.HasOverlap(ctx, room.ID, checkIn, checkOut)
		if err != nil {
			return storageErr(err, nil)
		}
		if overlap {
			return apperrors.ErrRoomUnavailable
		}

		nights := model.Nights(checkIn, checkOut)
		booking = &model.Booking{
			UserID:        callerID,
			RoomID:        room.ID,
			HotelID:       room.HotelID,
			CheckInDate:   checkIn,
			CheckOutDate:  checkOut,
			Guests:        in.Guests,
			TotalPrice:    room.PricePerNight.Mul(decimal.NewFromInt(nights)),
			Status:        model.BookingStatusPending,
			PaymentMethod: model.DefaultPaymentMethod,
			IsPaid:        false,
		}
		if err := s.bookingRepo.Create(ctx, booking); err != nil {
			return storageErr(err, nil)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrRoomUnavailable):
			observability.ObserveBooking("unavailable")
			log.Warn().Str("room_id", in.RoomID.String()).
				Time("check_in", checkIn).Time("check_out", checkOut).
				Msg("booking conflict")
		case errors.Is(err, apperrors.ErrRoomNotFound):
			observability.ObserveBooking("invalid")
		default:
			observability.ObserveBooking("error")
		}
		return nil, err
	}

	observability.ObserveBooking("created")
	log.Info().Str("booking_id", booking.ID.String()).Str("room_id", booking.RoomID.String()).
		Str("total_price", booking.TotalPrice.StringFixed(2)).Msg("booking created")
	return booking, nil
}

// GetUserBookings lists the caller's bookings, newest first.
func (s *bookingService) GetUserBookings(ctx context.Context, userID model.UserID) ([]model.Booking, error) {
	bookings, err := s.bookingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageErr(err, nil)
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	return bookings, nil
}

// GetHotelBookings returns the dashboard of the caller's hotel.
func (s *bookingService) GetHotelBookings(ctx context.Context, ownerID model.UserID) (*HotelDashboard, error) {
	hotel, err := s.hotelRepo.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, storageErr(err, apperrors.ErrNoHotelForOwner)
	}

	bookings, err := s.bookingRepo.ListByHotel(ctx, hotel.ID)
	if err != nil {
		return nil, storageErr(err, nil)
	}

	dashboard := &HotelDashboard{TotalRevenue: decimal.Zero, Bookings: []model.Booking{}}
	for _, b := range bookings {
		dashboard.Bookings = append(dashboard.Bookings, b)
		if b.Status == model.BookingStatusCancelled {
			continue
		}
		dashboard.TotalBookings++
		dashboard.TotalRevenue = dashboard.TotalRevenue.Add(b.TotalPrice)
	}
	return dashboard, nil
}
