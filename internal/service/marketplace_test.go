package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelbook/internal/auth"
	"hotelbook/internal/blob"
	"hotelbook/internal/cache"
	"hotelbook/internal/db/dbtest"
	apperrors "hotelbook/internal/errors"
	"hotelbook/internal/model"
	"hotelbook/internal/repository"
)

// marketplace wires every service against SQLite, miniredis and an in-memory
// blob store.
type marketplace struct {
	auth     AuthService
	identity IdentityService
	users    UserService
	hotels   HotelService
	rooms    RoomService
	roomRepo repository.RoomRepository
	redis    *miniredis.Miniredis
}

func newMarketplace(t *testing.T) *marketplace {
	gdb := dbtest.New(t)
	mr := miniredis.RunT(t)
	client := cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	userRepo := repository.NewUserRepository(gdb)
	hotelRepo := repository.NewHotelRepository(gdb)
	roomRepo := repository.NewRoomRepository(gdb)
	tx := repository.NewTransactor(gdb)
	blobs := blob.NewMemory("mem://test")

	authSvc := NewAuthService(userRepo, auth.NewJWTService(testSecret, time.Hour), auth.NewTokenStore(client), blobs)
	identity := NewIdentityService(authSvc, userRepo)
	return &marketplace{
		auth:     authSvc,
		identity: identity,
		users:    NewUserService(userRepo, tx),
		hotels:   NewHotelService(hotelRepo, identity, tx),
		rooms:    NewRoomService(roomRepo, hotelRepo, tx, blobs, client, time.Minute),
		roomRepo: roomRepo,
		redis:    mr,
	}
}

func (m *marketplace) register(t *testing.T, email string) (*model.User, string) {
	t.Helper()
	img := upload("avatar.png")
	user, token, err := m.auth.Register(context.Background(), RegisterInput{
		Username: "user", Email: email, Password: "password123", Image: &img,
	})
	require.NoError(t, err)
	return user, token
}

func roomInput() RoomInput {
	return RoomInput{RoomType: model.RoomTypeLuxuryRoom, PricePerNight: decimal.NewFromInt(250), Images: []Upload{upload("a.jpg")}}
}

func TestMarketplace_RoomNeedsHotel(t *testing.T) {
	m := newMarketplace(t)
	ctx := context.Background()
	user, token := m.register(t, "guest@example.com")

	caller, err := m.identity.Authorize(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, caller.ID)

	_, err = m.rooms.CreateRoom(ctx, caller.ID, roomInput())
	assert.ErrorIs(t, err, apperrors.ErrNoHotelForOwner)

	owned, err := m.roomRepo.ListAvailable(ctx)
	require.NoError(t, err)
	assert.Empty(t, owned)

	_, err = m.identity.Authorize(ctx, token, model.RoleHotelOwner)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestMarketplace_HotelRegistrationPromotesOnce(t *testing.T) {
	m := newMarketplace(t)
	ctx := context.Background()
	user, token := m.register(t, "owner@example.com")

	hotel, err := m.hotels.RegisterHotel(ctx, user.ID, HotelInput{Name: "Sea View", Address: "1 Beach Rd", Contact: "555", City: "Nice"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, hotel.OwnerID)

	caller, err := m.identity.Authorize(ctx, token, model.RoleHotelOwner)
	require.NoError(t, err)
	assert.Equal(t, model.RoleHotelOwner, caller.Role)

	_, err = m.hotels.RegisterHotel(ctx, user.ID, HotelInput{Name: "Second", Address: "2 Beach Rd", Contact: "555", City: "Nice"})
	assert.ErrorIs(t, err, apperrors.ErrHotelAlreadyRegistered)

	caller, err = m.identity.Authorize(ctx, token, model.RoleHotelOwner)
	require.NoError(t, err)
	assert.Equal(t, model.RoleHotelOwner, caller.Role)

	room, err := m.rooms.CreateRoom(ctx, user.ID, roomInput())
	require.NoError(t, err)
	assert.Equal(t, hotel.ID, room.HotelID)

	mine, err := m.rooms.ListOwnerRooms(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, room.ID, mine[0].ID)
}

func TestMarketplace_ToggleTwiceRestoresFlag(t *testing.T) {
	m := newMarketplace(t)
	ctx := context.Background()
	owner, _ := m.register(t, "owner@example.com")
	_, err := m.hotels.RegisterHotel(ctx, owner.ID, HotelInput{Name: "Sea View", Address: "1 Beach Rd", Contact: "555", City: "Nice"})
	require.NoError(t, err)
	room, err := m.rooms.CreateRoom(ctx, owner.ID, roomInput())
	require.NoError(t, err)

	public, err := m.rooms.ListPublicRooms(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)

	toggled, err := m.rooms.ToggleAvailability(ctx, owner.ID, room.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsAvailable)

	public, err = m.rooms.ListPublicRooms(ctx)
	require.NoError(t, err)
	assert.Empty(t, public)

	toggled, err = m.rooms.ToggleAvailability(ctx, owner.ID, room.ID)
	require.NoError(t, err)
	assert.Equal(t, room.IsAvailable, toggled.IsAvailable)

	other, _ := m.register(t, "other@example.com")
	_, err = m.rooms.ToggleAvailability(ctx, other.ID, room.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestMarketplace_LogoutRevokesSession(t *testing.T) {
	m := newMarketplace(t)
	ctx := context.Background()
	_, token := m.register(t, "guest@example.com")

	_, err := m.identity.Authorize(ctx, token)
	require.NoError(t, err)

	require.NoError(t, m.auth.Logout(ctx, token))
	_, err = m.identity.Authorize(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	loginToken, _, err := m.auth.Login(ctx, "GUEST@example.com", "password123")
	require.NoError(t, err)
	_, err = m.identity.Authorize(ctx, loginToken)
	assert.NoError(t, err)
}

func TestMarketplace_LogoutFailsWhenRevocationCannotBeStored(t *testing.T) {
	m := newMarketplace(t)
	ctx := context.Background()
	_, token := m.register(t, "guest@example.com")

	m.redis.Close()
	err := m.auth.Logout(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrStorage)
	assert.Equal(t, apperrors.KindUpstream, apperrors.KindOf(err))

	require.NoError(t, m.redis.Restart())
	_, err = m.identity.Authorize(ctx, token)
	require.NoError(t, err, "session stays open until a logout succeeds")

	require.NoError(t, m.auth.Logout(ctx, token))
	_, err = m.identity.Authorize(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestMarketplace_DuplicateEmail(t *testing.T) {
	m := newMarketplace(t)
	m.register(t, "dup@example.com")

	img := upload("b.png")
	_, _, err := m.auth.Register(context.Background(), RegisterInput{Username: "again", Email: "dup@example.com", Password: "password123", Image: &img})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
}

func TestMarketplace_RecentSearches(t *testing.T) {
	m := newMarketplace(t)
	ctx := context.Background()
	user, _ := m.register(t, "guest@example.com")

	for _, city := range []string{"Paris", "Rome", "Paris", "Lisbon"} {
		_, err := m.users.AddRecentSearch(ctx, user.ID, city)
		require.NoError(t, err)
	}
	cities, err := m.users.AddRecentSearch(ctx, user.ID, "Oslo")
	require.NoError(t, err)
	assert.Equal(t, []string{"Rome", "Lisbon", "Oslo"}, cities)

	profile, err := m.users.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rome", "Lisbon", "Oslo"}, profile.RecentSearchedCities)

	_, err = m.users.AddRecentSearch(ctx, user.ID, "  ")
	assert.ErrorIs(t, err, apperrors.Validation(""))

	_, err = m.users.GetProfile(ctx, model.NewUserID())
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
