package main

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"hotelbook/internal/auth"
	"hotelbook/internal/blob"
	"hotelbook/internal/cache"
	"hotelbook/internal/config"
	"hotelbook/internal/db"
	apperrors "hotelbook/internal/errors"
	"hotelbook/internal/model"
	"hotelbook/internal/observability"
	"hotelbook/internal/repository"
	"hotelbook/internal/service"
)

// seedData lists demo owners with one hotel each. Owners share the password
// below so the dataset can be used for manual testing.
const seedData = `[
  {"username": "Sea View Owner", "email": "owner.nice@example.com",
   "hotel": {"name": "Sea View", "address": "12 Promenade des Anglais", "contact": "+33 4 93 00 00 00", "city": "Nice"},
   "rooms": [
     {"roomType": "Double Bed", "pricePerNight": "120", "amenities": ["Free WiFi", "Room Service", "Pool Access"]},
     {"roomType": "Luxury Room", "pricePerNight": "260", "amenities": ["Free WiFi", "Mountain View", "Room Service"]}
   ]},
  {"username": "Old Town Owner", "email": "owner.rome@example.com",
   "hotel": {"name": "Old Town Inn", "address": "4 Via del Corso", "contact": "+39 06 0000 0000", "city": "Rome"},
   "rooms": [
     {"roomType": "Single Bed", "pricePerNight": "80", "amenities": ["Free WiFi", "Free Breakfast"]},
     {"roomType": "Family Suite", "pricePerNight": "310", "amenities": ["Free WiFi", "Free Breakfast", "Room Service"]}
   ]}
]`

const seedPassword = "password123"

// SeedOwner is one demo owner with their hotel and rooms.
type SeedOwner struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Hotel    struct {
		Name    string `json:"name"`
		Address string `json:"address"`
		Contact string `json:"contact"`
		City    string `json:"city"`
	} `json:"hotel"`
	Rooms []struct {
		RoomType      string          `json:"roomType"`
		PricePerNight decimal.Decimal `json:"pricePerNight"`
		Amenities     []string        `json:"amenities"`
	} `json:"rooms"`
}

func main() {
	cfg := config.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)
	log.Info().Msg("starting seed script")

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	var owners []SeedOwner
	if err := json.Unmarshal([]byte(seedData), &owners); err != nil {
		log.Fatal().Err(err).Msg("parse seed data")
	}

	var blobs blob.Store = blob.NewMemory("memory://seed")
	if cfg.CloudinaryURL != "" {
		if blobs, err = blob.NewCloudinary(cfg.CloudinaryURL, cfg.CloudinaryFolder); err != nil {
			log.Fatal().Err(err).Msg("blob store init")
		}
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	userRepo := repository.NewUserRepository(gormDB)
	hotelRepo := repository.NewHotelRepository(gormDB)
	tx := repository.NewTransactor(gormDB)

	authService := service.NewAuthService(userRepo, auth.NewJWTService(cfg.JWTSecret, cfg.SessionTTL), auth.NewTokenStore(cacheClient), blobs)
	identity := service.NewIdentityService(authService, userRepo)
	hotelService := service.NewHotelService(hotelRepo, identity, tx)
	roomService := service.NewRoomService(repository.NewRoomRepository(gormDB), hotelRepo, tx, blobs, cacheClient, cfg.PublicRoomsCacheTTL)

	ctx := context.Background()
	created, skipped := 0, 0
	for _, o := range owners {
		ok, err := seedOwner(ctx, o, authService, hotelService, roomService, userRepo)
		if err != nil {
			log.Fatal().Err(err).Str("email", o.Email).Msg("seed owner")
		}
		if ok {
			created++
		} else {
			skipped++
		}
	}

	log.Info().Int("created", created).Int("skipped", skipped).Msg("seed completed")
}

// seedOwner registers the owner, their hotel and rooms. Owners that already
// exist are skipped so the script can be rerun.
func seedOwner(
	ctx context.Context,
	o SeedOwner,
	authService service.AuthService,
	hotelService service.HotelService,
	roomService service.RoomService,
	userRepo repository.UserRepository,
) (bool, error) {
	if _, err := userRepo.FindByEmail(ctx, o.Email); err == nil {
		log.Info().Str("email", o.Email).Msg("owner already seeded")
		return false, nil
	}

	user, _, err := authService.Register(ctx, service.RegisterInput{
		Username: o.Username,
		Email:    o.Email,
		Password: seedPassword,
		Image:    placeholder("avatar.png"),
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEmail) {
			return false, nil
		}
		return false, err
	}

	hotel, err := hotelService.RegisterHotel(ctx, user.ID, service.HotelInput{
		Name:    o.Hotel.Name,
		Address: o.Hotel.Address,
		Contact: o.Hotel.Contact,
		City:    o.Hotel.City,
	})
	if err != nil {
		return false, err
	}

	for i, r := range o.Rooms {
		room, err := roomService.CreateRoom(ctx, user.ID, service.RoomInput{
			RoomType:      model.RoomType(r.RoomType),
			PricePerNight: r.PricePerNight,
			Amenities:     r.Amenities,
			Images:        []service.Upload{*placeholder("room.jpg")},
		})
		if err != nil {
			return false, err
		}
		log.Info().Str("hotel", hotel.Name).Int("index", i).Str("room_id", string(room.ID)).Msg("room seeded")
	}
	return true, nil
}

func placeholder(name string) *service.Upload {
	return &service.Upload{Filename: name, Content: strings.NewReader("placeholder " + name)}
}
