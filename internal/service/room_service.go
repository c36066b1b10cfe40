package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"hotelbook/internal/blob"
	"hotelbook/internal/cache"
	apperrors "hotelbook/internal/errors"
	"hotelbook/internal/model"
	"hotelbook/internal/repository"
)

// The public listing is cached under a versioned key. Writers bump the
// version instead of deleting, so a listing read before a write can only be
// stored under a version no reader asks for anymore.
const (
	publicRoomsCacheKey   = "rooms:public:v"
	publicRoomsVersionKey = "rooms:public:version"
)

// RoomInput carries the fields of a new room listing.
type RoomInput struct {
	RoomType      model.RoomType
	PricePerNight decimal.Decimal
	Amenities     []string
	Images        []Upload
}

// RoomService manages room listings.
type RoomService interface {
	CreateRoom(ctx context.Context, ownerID model.UserID, in RoomInput) (*model.Room, error)
	ListPublicRooms(ctx context.Context) ([]model.Room, error)
	ListOwnerRooms(ctx context.Context, ownerID model.UserID) ([]model.Room, error)
	ToggleAvailability(ctx context.Context, ownerID model.UserID, roomID model.RoomID) (*model.Room, error)
}

type roomService struct {
	roomRepo  repository.RoomRepository
	hotelRepo repository.HotelRepository
	tx        repository.Transactor
	blobs     blob.Store
	cache     *cache.Client
	cacheTTL  time.Duration
}

// NewRoomService creates a new room service. cacheTTL of zero disables the
// public listing cache.
func NewRoomService(
	roomRepo repository.RoomRepository,
	hotelRepo repository.HotelRepository,
	tx repository.Transactor,
	blobs blob.Store,
	cache *cache.Client,
	cacheTTL time.Duration,
) RoomService {
	return &roomService{
		roomRepo:  roomRepo,
		hotelRepo: hotelRepo,
		tx:        tx,
		blobs:     blobs,
		cache:     cache,
		cacheTTL:  cacheTTL,
	}
}

// CreateRoom lists a new room under the caller's hotel. Images are uploaded
// concurrently and stored in the order given.
func (s *roomService) CreateRoom(ctx context.Context, ownerID model.UserID, in RoomInput) (*model.Room, error) {
	if !in.RoomType.Valid() {
		return nil, apperrors.ErrInvalidRoomType
	}
	if !in.PricePerNight.IsPositive() {
		return nil, apperrors.ErrInvalidPrice
	}
	if len(in.Images) < model.MinRoomImages || len(in.Images) > model.MaxRoomImages {
		return nil, apperrors.ErrInvalidImageCount
	}

	hotel, err := s.hotelRepo.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, storageErr(err, apperrors.ErrNoHotelForOwner)
	}

	urls, err := s.uploadImages(ctx, in.Images)
	if err != nil {
		return nil, err
	}

	room := &model.Room{
		HotelID:       hotel.ID,
		RoomType:      in.RoomType,
		PricePerNight: in.PricePerNight.Round(2),
		Amenities:     cleanAmenities(in.Amenities),
		Images:        urls,
		IsAvailable:   true,
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		discardBlobs(ctx, s.blobs, urls...)
		return nil, storageErr(err, nil)
	}

	s.invalidatePublicRooms(ctx)
	log.Info().Str("room_id", room.ID.String()).Str("hotel_id", hotel.ID.String()).Msg("room created")
	return room, nil
}

func (s *roomService) uploadImages(ctx context.Context, images []Upload) ([]string, error) {
	urls := make([]string, len(images))
	g, gctx := errgroup.WithContext(ctx)
	for i, img := range images {
		i, img := i, img
		g.Go(func() error {
			url, err := s.blobs.Upload(gctx, img.Filename, img.Content)
			if err != nil {
				return fmt.Errorf("upload %q: %w", img.Filename, err)
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		discardBlobs(ctx, s.blobs, urls...)
		return nil, apperrors.Wrap(apperrors.ErrImageUploadFailed, err)
	}
	return urls, nil
}

// ListPublicRooms returns bookable listings, newest first. Served from cache
// when possible.
func (s *roomService) ListPublicRooms(ctx context.Context) ([]model.Room, error) {
	var key string
	if s.cacheTTL > 0 {
		key = s.publicRoomsKey(ctx)
		if data, _ := s.cache.Get(ctx, key); data != nil {
			var cached []model.Room
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	rooms, err := s.roomRepo.ListAvailable(ctx)
	if err != nil {
		return nil, storageErr(err, nil)
	}
	if rooms == nil {
		rooms = []model.Room{}
	}
	for i := range rooms {
		if rooms[i].Hotel != nil && rooms[i].Hotel.Owner != nil {
			rooms[i].Hotel.Owner = rooms[i].Hotel.Owner.PublicProfile()
		}
	}

	if s.cacheTTL > 0 {
		if payload, err := json.Marshal(rooms); err == nil {
			_ = s.cache.Set(ctx, key, payload, s.cacheTTL)
		}
	}
	return rooms, nil
}

// publicRoomsKey must be read before the listing query so a concurrent write
// moves readers to a newer key.
func (s *roomService) publicRoomsKey(ctx context.Context) string {
	version := "0"
	if data, _ := s.cache.Get(ctx, publicRoomsVersionKey); data != nil {
		version = string(data)
	}
	return publicRoomsCacheKey + version
}

// ListOwnerRooms returns every room of the caller's hotel.
func (s *roomService) ListOwnerRooms(ctx context.Context, ownerID model.UserID) ([]model.Room, error) {
	hotel, err := s.hotelRepo.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, storageErr(err, apperrors.ErrNoHotelForOwner)
	}
	rooms, err := s.roomRepo.ListByHotel(ctx, hotel.ID)
	if err != nil {
		return nil, storageErr(err, nil)
	}
	if rooms == nil {
		rooms = []model.Room{}
	}
	return rooms, nil
}

// ToggleAvailability flips the manual availability flag of a room owned by
// the caller.
func (s *roomService) ToggleAvailability(ctx context.Context, ownerID model.UserID, roomID model.RoomID) (*model.Room, error) {
	var room *model.Room
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		room, err = s.roomRepo.FindByIDForUpdate(ctx, roomID)
		if err != nil {
			return storageErr(err, apperrors.ErrRoomNotFound)
		}

		hotel, err := s.hotelRepo.FindByOwnerID(ctx, ownerID)
		if err != nil {
			return storageErr(err, apperrors.ErrForbidden)
		}
		if room.HotelID != hotel.ID {
			return apperrors.ErrForbidden
		}

		room.IsAvailable = !room.IsAvailable
		if err := s.roomRepo.UpdateAvailability(ctx, room.ID, room.IsAvailable); err != nil {
			return storageErr(err, nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidatePublicRooms(ctx)
	return room, nil
}

func (s *roomService) invalidatePublicRooms(ctx context.Context) {
	if s.cacheTTL > 0 {
		s.cache.Incr(ctx, publicRoomsVersionKey)
	}
}

func cleanAmenities(amenities []string) []string {
	out := make([]string, 0, len(amenities))
	seen := make(map[string]struct{}, len(amenities))
	for _, a := range amenities {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
