package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "hotelbook/internal/errors"
	"hotelbook/internal/model"
	"hotelbook/internal/service"
)

const dateLayout = "2006-01-02"

// BookingHandler handles availability and booking endpoints.
type BookingHandler struct {
	bookingService service.BookingService
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// AvailabilityRequest represents an availability query.
type AvailabilityRequest struct {
	Room         string `json:"room" validate:"required"`
	CheckInDate  string `json:"checkInDate" validate:"required"`
	CheckOutDate string `json:"checkOutDate" validate:"required"`
}

// BookingRequest represents a booking request.
type BookingRequest struct {
	Room         string `json:"room" validate:"required"`
	CheckInDate  string `json:"checkInDate" validate:"required"`
	CheckOutDate string `json:"checkOutDate" validate:"required"`
	Guests       int    `json:"guests" validate:"gte=1"`
}

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(field, value string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, apperrors.Validation(field + " must be a date (YYYY-MM-DD)")
}

func parseRange(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := parseDate("checkInDate", checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	out, err := parseDate("checkOutDate", checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return in, out, nil
}

// CheckAvailability godoc
// @Summary Check whether a room is free for a date range
// @Tags booking
// @Accept json
// @Produce json
// @Param request body AvailabilityRequest true "Room and dates"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Router /booking/check-availability [post]
func (h *BookingHandler) CheckAvailability(c echo.Context) error {
	var req AvailabilityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	checkIn, checkOut, err := parseRange(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return err
	}

	available, err := h.bookingService.CheckAvailability(c.Request().Context(), model.RoomID(req.Room), checkIn, checkOut)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"isAvailable": available})
}

// CreateBooking godoc
// @Summary Book a room
// @Tags booking
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body BookingRequest true "Booking data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /booking/book [post]
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	var req BookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	checkIn, checkOut, err := parseRange(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return err
	}

	booking, err := h.bookingService.CreateBooking(c.Request().Context(), caller.ID, service.BookingInput{
		RoomID:   model.RoomID(req.Room),
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   req.Guests,
	})
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, echo.Map{
		"message": "booking created",
		"booking": booking,
	})
}

// GetUserBookings godoc
// @Summary List the caller's bookings
// @Tags booking
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /booking/user [get]
func (h *BookingHandler) GetUserBookings(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	bookings, err := h.bookingService.GetUserBookings(c.Request().Context(), caller.ID)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"bookings": bookings})
}

// GetHotelBookings godoc
// @Summary Booking dashboard of the caller's hotel
// @Tags booking
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /booking/hotel [get]
func (h *BookingHandler) GetHotelBookings(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	dashboard, err := h.bookingService.GetHotelBookings(c.Request().Context(), caller.ID)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"dashboardData": dashboard})
}
