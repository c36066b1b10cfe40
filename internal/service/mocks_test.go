package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"hotelbook/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id model.UserID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDForUpdate(ctx context.Context, id model.UserID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id model.UserID, role model.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRecentSearchedCities(ctx context.Context, id model.UserID, cities []string) error {
	args := m.Called(ctx, id, cities)
	return args.Error(0)
}

// MockHotelRepository is a mock implementation of HotelRepository.
type MockHotelRepository struct {
	mock.Mock
}

func (m *MockHotelRepository) Create(ctx context.Context, hotel *model.Hotel) error {
	args := m.Called(ctx, hotel)
	return args.Error(0)
}

func (m *MockHotelRepository) FindByID(ctx context.Context, id model.HotelID) (*model.Hotel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Hotel), args.Error(1)
}

func (m *MockHotelRepository) FindByOwnerID(ctx context.Context, ownerID model.UserID) (*model.Hotel, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Hotel), args.Error(1)
}

// MockRoomRepository is a mock implementation of RoomRepository.
type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) Create(ctx context.Context, room *model.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepository) FindByID(ctx context.Context, id model.RoomID) (*model.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Room), args.Error(1)
}

func (m *MockRoomRepository) FindByIDForUpdate(ctx context.Context, id model.RoomID) (*model.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Room), args.Error(1)
}

func (m *MockRoomRepository) ListAvailable(ctx context.Context) ([]model.Room, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Room), args.Error(1)
}

func (m *MockRoomRepository) ListByHotel(ctx context.Context, hotelID model.HotelID) ([]model.Room, error) {
	args := m.Called(ctx, hotelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Room), args.Error(1)
}

func (m *MockRoomRepository) UpdateAvailability(ctx context.Context, id model.RoomID, available bool) error {
	args := m.Called(ctx, id, available)
	return args.Error(0)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) BlacklistToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// fakeTransactor runs fn directly; mocks have no transaction to join.
type fakeTransactor struct{}

func (fakeTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeBlobStore records uploads and deletes and optionally fails the uploads
// named in failOn.
type fakeBlobStore struct {
	mu      sync.Mutex
	failOn  string
	delays  map[string]time.Duration
	uploads []string
	deleted []string
}

func (f *fakeBlobStore) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	if d, ok := f.delays[name]; ok {
		time.Sleep(d)
	}
	if f.failOn != "" && name == f.failOn {
		return "", errors.New("blob store rejected upload")
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	f.mu.Lock()
	f.uploads = append(f.uploads, name)
	f.mu.Unlock()
	return "https://blobs.test/" + name, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, url string) error {
	f.mu.Lock()
	f.deleted = append(f.deleted, url)
	f.mu.Unlock()
	return nil
}

func upload(name string) Upload {
	return Upload{Filename: name, Content: strings.NewReader("data-" + name)}
}
