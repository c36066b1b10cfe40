package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"hotelbook/internal/auth"
	"hotelbook/internal/blob"
	"hotelbook/internal/cache"
	"hotelbook/internal/config"
	"hotelbook/internal/db"
	"hotelbook/internal/handler"
	"hotelbook/internal/observability"
	"hotelbook/internal/repository"
	"hotelbook/internal/roomlock"
	"hotelbook/internal/router"
	"hotelbook/internal/service"
)

// @title Hotel Booking API
// @version 1.0
// @description Hotel booking marketplace API with session authentication, hotel and room management, and conflict-free bookings.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg := config.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}

	if cfg.ResetDB {
		log.Warn().Msg("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			log.Fatal().Err(err).Msg("reset database")
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	cacheClient := cache.NewFromClient(rdb)

	var locker roomlock.Locker = roomlock.NewLocal()
	if cfg.RoomLockBackend == "redis" {
		locker = roomlock.NewRedis(rdb, cfg.RoomLockTTL)
	}

	blobs, err := newBlobStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("blob store init")
	}

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	hotelRepo := repository.NewHotelRepository(gormDB)
	roomRepo := repository.NewRoomRepository(gormDB)
	bookingRepo := repository.NewBookingRepository(gormDB)
	tx := repository.NewTransactor(gormDB)

	// Auth
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.SessionTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, blobs)
	identity := service.NewIdentityService(authService, userRepo)
	userService := service.NewUserService(userRepo, tx)
	hotelService := service.NewHotelService(hotelRepo, identity, tx)
	roomService := service.NewRoomService(roomRepo, hotelRepo, tx, blobs, cacheClient, cfg.PublicRoomsCacheTTL)
	bookingService := service.NewBookingService(bookingRepo, roomRepo, hotelRepo, tx, locker)

	cookie := handler.CookieConfig{Secure: cfg.CookieSecure, TTL: jwtService.TTL()}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, identity, observability.InitRegistry(), router.Handlers{
		Auth:    handler.NewAuthHandler(authService, cookie),
		User:    handler.NewUserHandler(userService),
		Hotel:   handler.NewHotelHandler(hotelService),
		Room:    handler.NewRoomHandler(roomService),
		Booking: handler.NewBookingHandler(bookingService),
	})

	log.Info().Str("url", swaggerURL(cfg)).Msg("swagger documentation available")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info().Str("addr", addr).Str("lock_backend", cfg.RoomLockBackend).Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
	log.Info().Msg("server stopped")
}

// newBlobStore uses Cloudinary when configured. Dev falls back to an
// in-memory store so the API runs without credentials.
func newBlobStore(cfg *config.Config) (blob.Store, error) {
	if cfg.CloudinaryURL != "" {
		return blob.NewCloudinary(cfg.CloudinaryURL, cfg.CloudinaryFolder)
	}
	if cfg.IsDev() {
		log.Warn().Msg("CLOUDINARY_URL not set, images are kept in memory")
		return blob.NewMemory("memory://" + cfg.CloudinaryFolder), nil
	}
	return nil, errors.New("CLOUDINARY_URL is required outside dev")
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host + "/swagger/index.html"
	}
	return "http://" + host + "/swagger/index.html"
}
