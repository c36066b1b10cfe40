package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"hotelbook/internal/service"
)

// HotelHandler handles hotel registration.
type HotelHandler struct {
	hotelService service.HotelService
}

// NewHotelHandler creates a new hotel handler.
func NewHotelHandler(hotelService service.HotelService) *HotelHandler {
	return &HotelHandler{hotelService: hotelService}
}

// RegisterHotelRequest represents a hotel registration request.
type RegisterHotelRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
	Contact string `json:"contact" validate:"required"`
	City    string `json:"city" validate:"required"`
}

// RegisterHotel godoc
// @Summary Register the caller's hotel
// @Description Registers one hotel per user and makes the caller a hotel owner.
// @Tags hotel
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body RegisterHotelRequest true "Hotel data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /hotel [post]
func (h *HotelHandler) RegisterHotel(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	var req RegisterHotelRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	hotel, err := h.hotelService.RegisterHotel(c.Request().Context(), caller.ID, service.HotelInput{
		Name:    req.Name,
		Address: req.Address,
		Contact: req.Contact,
		City:    req.City,
	})
	if err != nil {
		return err
	}

	return success(c, http.StatusCreated, echo.Map{
		"message": "hotel registered",
		"hotel":   hotel,
	})
}
