package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"hotelbook/internal/service"
)

// UserHandler exposes the signed-in user's profile.
type UserHandler struct {
	service service.UserService
}

// NewUserHandler wires a user handler.
func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// RecentSearchRequest carries a searched city.
type RecentSearchRequest struct {
	RecentSearchedCity string `json:"recentSearchedCity" validate:"required,max=64"`
}

// Me godoc
// @Summary Current session's user
// @Tags user
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /user/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	user, err := h.service.GetProfile(c.Request().Context(), caller.ID)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"user": user})
}

// StoreRecentSearch godoc
// @Summary Remember a searched city
// @Tags user
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body RecentSearchRequest true "City"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /user/store-recent-search [post]
func (h *UserHandler) StoreRecentSearch(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	var req RecentSearchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cities, err := h.service.AddRecentSearch(c.Request().Context(), caller.ID, req.RecentSearchedCity)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, echo.Map{"recentSearchedCities": cities})
}
