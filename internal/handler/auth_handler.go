package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"hotelbook/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	cookie      CookieConfig
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register godoc
// @Summary Register a new user
// @Tags user
// @Accept mpfd
// @Produce json
// @Param username formData string true "Username"
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Param image formData file true "Profile image"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /user/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	in := service.RegisterInput{
		Username: c.FormValue("username"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	}

	if fh, err := c.FormFile("image"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return err
		}
		defer f.Close()
		in.Image = &service.Upload{Filename: fh.Filename, Content: f}
	}

	user, token, err := h.authService.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}

	h.cookie.set(c, token)
	return success(c, http.StatusCreated, echo.Map{
		"message": "account created",
		"user":    user,
		"token":   token,
	})
}

// Login godoc
// @Summary Login user
// @Tags user
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /user/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.cookie.set(c, token)
	return success(c, http.StatusOK, echo.Map{
		"user":  user,
		"token": token,
	})
}

// Logout godoc
// @Summary Logout user
// @Tags user
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /user/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if token := sessionToken(c); token != "" {
		if err := h.authService.Logout(c.Request().Context(), token); err != nil {
			return err
		}
	}

	h.cookie.clear(c)
	return success(c, http.StatusOK, echo.Map{"message": "logged out"})
}
