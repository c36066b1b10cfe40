package service

import (
	"context"
	"strings"

	apperrors "hotelbook/internal/errors"
	"hotelbook/internal/model"
	"hotelbook/internal/repository"
)

// UserService exposes profile operations of the signed-in user.
type UserService interface {
	GetProfile(ctx context.Context, userID model.UserID) (*model.User, error)
	AddRecentSearch(ctx context.Context, userID model.UserID, city string) ([]string, error)
}

type userService struct {
	repo repository.UserRepository
	tx   repository.Transactor
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository, tx repository.Transactor) UserService {
	return &userService{repo: repo, tx: tx}
}

func (s *userService) GetProfile(ctx context.Context, userID model.UserID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, storageErr(err, apperrors.ErrUserNotFound)
	}
	return user, nil
}

// AddRecentSearch records a searched city, keeping the last three distinct ones.
// The user row stays locked from read to write so concurrent searches do not
// overwrite each other.
func (s *userService) AddRecentSearch(ctx context.Context, userID model.UserID, city string) ([]string, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, apperrors.Validation("recentSearchedCity is required")
	}

	var cities []string
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		user, err := s.repo.FindByIDForUpdate(ctx, userID)
		if err != nil {
			return storageErr(err, apperrors.ErrUserNotFound)
		}
		cities = user.RecentSearchedCities
		if !user.AddRecentSearchedCity(city) {
			return nil
		}
		cities = user.RecentSearchedCities
		if err := s.repo.UpdateRecentSearchedCities(ctx, userID, cities); err != nil {
			return storageErr(err, nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if cities == nil {
		cities = []string{}
	}
	return cities, nil
}
