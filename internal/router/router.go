package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	echoSwagger "github.com/swaggo/echo-swagger"

	"hotelbook/docs"
	"hotelbook/internal/config"
	"hotelbook/internal/handler"
	"hotelbook/internal/model"
	"hotelbook/internal/observability"
	"hotelbook/internal/service"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Hotel   *handler.HotelHandler
	Room    *handler.RoomHandler
	Booking *handler.BookingHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	identity service.IdentityService,
	registry *prometheus.Registry,
	h Handlers,
) {
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))
	e.Use(Metrics)
	e.Use(RequestLogger(log.Logger))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if registry != nil {
		e.GET("/metrics", echo.WrapHandler(observability.MetricsHandler(registry)))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	authenticated := Authenticate(identity)
	ownerOnly := Authenticate(identity, model.RoleHotelOwner)

	user := api.Group("/user")
	user.POST("/register", h.Auth.Register)
	user.POST("/login", h.Auth.Login)
	user.POST("/logout", h.Auth.Logout)
	user.GET("/me", h.User.Me, authenticated)
	user.POST("/store-recent-search", h.User.StoreRecentSearch, authenticated)

	api.POST("/hotel", h.Hotel.RegisterHotel, authenticated)

	room := api.Group("/room")
	room.GET("", h.Room.ListPublicRooms)
	room.POST("", h.Room.CreateRoom, authenticated)
	room.GET("/owner", h.Room.ListOwnerRooms, ownerOnly)
	room.POST("/toggle-availability", h.Room.ToggleAvailability, ownerOnly)

	booking := api.Group("/booking")
	booking.POST("/check-availability", h.Booking.CheckAvailability)
	booking.POST("/book", h.Booking.CreateBooking, authenticated)
	booking.GET("/user", h.Booking.GetUserBookings, authenticated)
	booking.GET("/hotel", h.Booking.GetHotelBookings, ownerOnly)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
