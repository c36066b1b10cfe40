package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hotelbook/internal/db/dbtest"
	apperrors "hotelbook/internal/errors"
	"hotelbook/internal/model"
	"hotelbook/internal/repository"
	"hotelbook/internal/roomlock"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// bookingStack wires the booking service to a real SQLite database.
type bookingStack struct {
	db       *gorm.DB
	users    repository.UserRepository
	hotels   repository.HotelRepository
	rooms    repository.RoomRepository
	bookings repository.BookingRepository
	svc      BookingService
}

func newBookingStack(t *testing.T, locker roomlock.Locker) *bookingStack {
	gdb := dbtest.New(t)
	s := &bookingStack{
		db:       gdb,
		users:    repository.NewUserRepository(gdb),
		hotels:   repository.NewHotelRepository(gdb),
		rooms:    repository.NewRoomRepository(gdb),
		bookings: repository.NewBookingRepository(gdb),
	}
	s.svc = NewBookingService(s.bookings, s.rooms, s.hotels, repository.NewTransactor(gdb), locker)
	return s
}

func (s *bookingStack) seed(t *testing.T, price int64) (owner, guest *model.User, room *model.Room) {
	t.Helper()
	ctx := context.Background()
	owner = &model.User{Username: "owner", Email: model.NewUserID().String() + "@example.com", PasswordHash: "x", Role: model.RoleHotelOwner}
	require.NoError(t, s.users.Create(ctx, owner))
	guest = &model.User{Username: "guest", Email: model.NewUserID().String() + "@example.com", PasswordHash: "x"}
	require.NoError(t, s.users.Create(ctx, guest))
	hotel := &model.Hotel{Name: "Sea View", Address: "1 Beach Rd", Contact: "555", City: "Nice", OwnerID: owner.ID}
	require.NoError(t, s.hotels.Create(ctx, hotel))
	room = &model.Room{HotelID: hotel.ID, RoomType: model.RoomTypeDoubleBed, PricePerNight: decimal.NewFromInt(price), Images: []string{"a"}, IsAvailable: true}
	require.NoError(t, s.rooms.Create(ctx, room))
	return owner, guest, room
}

func (s *bookingStack) countBookings(t *testing.T, roomID model.RoomID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.db.Model(&model.Booking{}).Where("room_id = ?", roomID).Count(&n).Error)
	return n
}

func TestBookingService_CreateBookingPrice(t *testing.T) {
	s := newBookingStack(t, roomlock.NewLocal())
	_, guest, room := s.seed(t, 100)

	booking, err := s.svc.CreateBooking(context.Background(), guest.ID, BookingInput{
		RoomID: room.ID, CheckIn: day("2024-01-01"), CheckOut: day("2024-01-04"), Guests: 2,
	})
	require.NoError(t, err)

	assert.True(t, booking.TotalPrice.Equal(decimal.NewFromInt(300)), "got %s", booking.TotalPrice)
	assert.Equal(t, model.BookingStatusPending, booking.Status)
	assert.Equal(t, model.DefaultPaymentMethod, booking.PaymentMethod)
	assert.False(t, booking.IsPaid)
	assert.Equal(t, room.HotelID, booking.HotelID)
	assert.Equal(t, guest.ID, booking.UserID)
}

func TestBookingService_InclusiveBoundary(t *testing.T) {
	s := newBookingStack(t, roomlock.NewLocal())
	_, guest, room := s.seed(t, 100)
	ctx := context.Background()

	_, err := s.svc.CreateBooking(ctx, guest.ID, BookingInput{RoomID: room.ID, CheckIn: day("2024-01-01"), CheckOut: day("2024-01-05"), Guests: 1})
	require.NoError(t, err)

	available, err := s.svc.CheckAvailability(ctx, room.ID, day("2024-01-05"), day("2024-01-07"))
	require.NoError(t, err)
	assert.False(t, available)

	_, err = s.svc.CreateBooking(ctx, guest.ID, BookingInput{RoomID: room.ID, CheckIn: day("2024-01-05"), CheckOut: day("2024-01-07"), Guests: 1})
	assert.ErrorIs(t, err, apperrors.ErrRoomUnavailable)

	available, err = s.svc.CheckAvailability(ctx, room.ID, day("2024-01-06"), day("2024-01-08"))
	require.NoError(t, err)
	assert.True(t, available)

	_, err = s.svc.CreateBooking(ctx, guest.ID, BookingInput{RoomID: room.ID, CheckIn: day("2024-01-06"), CheckOut: day("2024-01-08"), Guests: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.countBookings(t, room.ID))
}

func TestBookingService_ConcurrentOverlappingRequests(t *testing.T) {
	s := newBookingStack(t, roomlock.NewLocal())
	_, guest, room := s.seed(t, 100)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	start := make(chan struct{})

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = s.svc.CreateBooking(context.Background(), guest.ID, BookingInput{
				RoomID: room.ID, CheckIn: day("2024-01-01"), CheckOut: day("2024-01-05"), Guests: 1,
			})
		}(i)
	}
	close(start)
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, apperrors.ErrRoomUnavailable)
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, int64(1), s.countBookings(t, room.ID))
}

func TestBookingService_RejectsInvalidInput(t *testing.T) {
	s := newBookingStack(t, roomlock.NewLocal())
	_, guest, room := s.seed(t, 100)
	ctx := context.Background()

	_, err := s.svc.CreateBooking(ctx, guest.ID, BookingInput{RoomID: room.ID, CheckIn: day("2024-01-05"), CheckOut: day("2024-01-05"), Guests: 1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidDateRange)

	_, err = s.svc.CreateBooking(ctx, guest.ID, BookingInput{RoomID: room.ID, CheckIn: day("2024-01-05"), CheckOut: day("2024-01-01"), Guests: 1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidDateRange)

	_, err = s.svc.CreateBooking(ctx, guest.ID, BookingInput{RoomID: room.ID, CheckIn: day("2024-01-01"), CheckOut: day("2024-01-02"), Guests: 0})
	assert.ErrorIs(t, err, apperrors.ErrInvalidGuests)

	_, err = s.svc.CreateBooking(ctx, guest.ID, BookingInput{RoomID: model.NewRoomID(), CheckIn: day("2024-01-01"), CheckOut: day("2024-01-02"), Guests: 1})
	assert.ErrorIs(t, err, apperrors.ErrRoomNotFound)

	_, err = s.svc.CheckAvailability(ctx, room.ID, day("2024-01-02"), day("2024-01-01"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidDateRange)

	assert.Equal(t, int64(0), s.countBookings(t, room.ID))
}

func TestBookingService_Listings(t *testing.T) {
	s := newBookingStack(t, roomlock.NewLocal())
	owner, guest, room := s.seed(t, 100)
	ctx := context.Background()

	_, err := s.svc.CreateBooking(ctx, guest.ID, BookingInput{RoomID: room.ID, CheckIn: day("2024-01-01"), CheckOut: day("2024-01-03"), Guests: 1})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	latest, err := s.svc.CreateBooking(ctx, guest.ID, BookingInput{RoomID: room.ID, CheckIn: day("2024-02-01"), CheckOut: day("2024-02-04"), Guests: 1})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	cancelled := &model.Booking{UserID: guest.ID, RoomID: room.ID, HotelID: room.HotelID, Status: model.BookingStatusCancelled,
		CheckInDate: day("2024-03-01"), CheckOutDate: day("2024-03-02"), Guests: 1, TotalPrice: decimal.NewFromInt(100)}
	require.NoError(t, s.bookings.Create(ctx, cancelled))

	mine, err := s.svc.GetUserBookings(ctx, guest.ID)
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, cancelled.ID, mine[0].ID)
	assert.Equal(t, latest.ID, mine[1].ID)
	require.NotNil(t, mine[1].Room)
	require.NotNil(t, mine[1].Hotel)

	dashboard, err := s.svc.GetHotelBookings(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, dashboard.TotalBookings)
	assert.True(t, dashboard.TotalRevenue.Equal(decimal.NewFromInt(500)), "got %s", dashboard.TotalRevenue)
	assert.Len(t, dashboard.Bookings, 3)

	_, err = s.svc.GetHotelBookings(ctx, guest.ID)
	assert.ErrorIs(t, err, apperrors.ErrNoHotelForOwner)

	empty, err := s.svc.GetUserBookings(ctx, owner.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

// failingLocker never grants the lock.
type failingLocker struct{ err error }

func (l failingLocker) Lock(ctx context.Context, roomID model.RoomID) (func(), error) {
	return nil, l.err
}

func TestBookingService_LockFailure(t *testing.T) {
	rooms := new(MockRoomRepository)
	svc := NewBookingService(nil, rooms, nil, fakeTransactor{}, failingLocker{err: errors.New("redis down")})

	_, err := svc.CreateBooking(context.Background(), model.NewUserID(), BookingInput{
		RoomID: model.NewRoomID(), CheckIn: day("2024-01-01"), CheckOut: day("2024-01-02"), Guests: 1,
	})
	assert.ErrorIs(t, err, apperrors.ErrStorage)
	rooms.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
}

// racyBookingRepository keeps bookings in memory and pauses between the
// overlap check and the insert, so unsynchronised callers would all pass the
// check before any of them writes.
type racyBookingRepository struct {
	mu        sync.Mutex
	bookings  []model.Booking
	creates   int
	pause     time.Duration
	createErr error
}

func (r *racyBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.createErr != nil {
		return r.createErr
	}
	r.bookings = append(r.bookings, *booking)
	return nil
}

func (r *racyBookingRepository) HasOverlap(ctx context.Context, roomID model.RoomID, checkIn, checkOut time.Time) (bool, error) {
	r.mu.Lock()
	overlap := false
	for i := range r.bookings {
		if r.bookings[i].RoomID == roomID && r.bookings[i].Overlaps(checkIn, checkOut) {
			overlap = true
		}
	}
	r.mu.Unlock()
	time.Sleep(r.pause)
	return overlap, nil
}

func (r *racyBookingRepository) ListByUser(ctx context.Context, userID model.UserID) ([]model.Booking, error) {
	return nil, nil
}

func (r *racyBookingRepository) ListByHotel(ctx context.Context, hotelID model.HotelID) ([]model.Booking, error) {
	return nil, nil
}

func assertRoomLockFree(t *testing.T, locker roomlock.Locker, roomID model.RoomID) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	unlock, err := locker.Lock(ctx, roomID)
	require.NoError(t, err, "room lock still held")
	unlock()
}

func TestBookingService_RoomLockSpansCheckAndInsert(t *testing.T) {
	room := &model.Room{ID: model.NewRoomID(), HotelID: model.NewHotelID(), PricePerNight: decimal.NewFromInt(100)}
	rooms := new(MockRoomRepository)
	rooms.On("FindByIDForUpdate", mock.Anything, room.ID).Return(room, nil)
	bookings := &racyBookingRepository{pause: 10 * time.Millisecond}
	locker := roomlock.NewLocal()
	svc := NewBookingService(bookings, rooms, nil, fakeTransactor{}, locker)

	in := BookingInput{RoomID: room.ID, CheckIn: day("2024-01-01"), CheckOut: day("2024-01-05"), Guests: 1}

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.CreateBooking(context.Background(), model.NewUserID(), in)
		}(i)
	}
	close(start)
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, apperrors.ErrRoomUnavailable)
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, bookings.creates)
	assert.Len(t, bookings.bookings, 1)

	// Released after a conflict.
	_, err := svc.CreateBooking(context.Background(), model.NewUserID(), in)
	require.ErrorIs(t, err, apperrors.ErrRoomUnavailable)
	assertRoomLockFree(t, locker, room.ID)

	// Released after a storage failure.
	bookings.createErr = errors.New("disk full")
	_, err = svc.CreateBooking(context.Background(), model.NewUserID(), BookingInput{
		RoomID: room.ID, CheckIn: day("2024-02-01"), CheckOut: day("2024-02-03"), Guests: 1,
	})
	require.ErrorIs(t, err, apperrors.ErrStorage)
	assertRoomLockFree(t, locker, room.ID)
}
