package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	apperrors "hotelbook/internal/errors"
	"hotelbook/internal/model"
	"hotelbook/internal/service"
)

// RoomHandler handles room listing endpoints.
type RoomHandler struct {
	roomService service.RoomService
}

// NewRoomHandler creates a new room handler.
func NewRoomHandler(roomService service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// ToggleAvailabilityRequest identifies the room to toggle.
type ToggleAvailabilityRequest struct {
	RoomID string `json:"roomId" validate:"required"`
}

// CreateRoom godoc
// @Summary Create a room in the caller's hotel
// @Tags room
// @Accept mpfd
// @Produce json
// @Security CookieAuth
// @Param roomType formData string true "Single Bed, Double Bed, Luxury Room or Family Suite"
// @Param pricePerNight formData number true "Price per night"
// @Param amenities formData string false "JSON array of amenities"
// @Param images formData file true "1 to 4 images"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /room [post]
func (h *RoomHandler) CreateRoom(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	price, err := decimal.NewFromString(strings.TrimSpace(c.FormValue("pricePerNight")))
	if err != nil {
		return apperrors.ErrInvalidPrice
	}

	var amenities []string
	if raw := strings.TrimSpace(c.FormValue("amenities")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &amenities); err != nil {
			return apperrors.Validation("amenities must be a JSON array of strings")
		}
	}

	in := service.RoomInput{
		RoomType:      model.RoomType(c.FormValue("roomType")),
		PricePerNight: price,
		Amenities:     amenities,
	}

	if form, err := c.MultipartForm(); err == nil {
		for _, fh := range form.File["images"] {
			f, err := fh.Open()
			if err != nil {
				return err
			}
			defer f.Close()
			in.Images = append(in.Images, service.Upload{Filename: fh.Filename, Content: f})
		}
	}

	room, err := h.roomService.CreateRoom(c.Request().Context(), caller.ID, in)
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, echo.Map{
		"message": "room created",
		"room":    room,
	})
}

// ListPublicRooms godoc
// @Summary List bookable rooms, newest first
// @Tags room
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /room [get]
func (h *RoomHandler) ListPublicRooms(c echo.Context) error {
	rooms, err := h.roomService.ListPublicRooms(c.Request().Context())
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"rooms": rooms})
}

// ListOwnerRooms godoc
// @Summary List the rooms of the caller's hotel
// @Tags room
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /room/owner [get]
func (h *RoomHandler) ListOwnerRooms(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	rooms, err := h.roomService.ListOwnerRooms(c.Request().Context(), caller.ID)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"rooms": rooms})
}

// ToggleAvailability godoc
// @Summary Flip a room's availability flag
// @Tags room
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body ToggleAvailabilityRequest true "Room"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /room/toggle-availability [post]
func (h *RoomHandler) ToggleAvailability(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	var req ToggleAvailabilityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	room, err := h.roomService.ToggleAvailability(c.Request().Context(), caller.ID, model.RoomID(req.RoomID))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{
		"message": "room availability updated",
		"room":    room,
	})
}
