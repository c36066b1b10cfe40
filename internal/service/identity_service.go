package service

import (
	"context"

	apperrors "hotelbook/internal/errors"
	"hotelbook/internal/model"
	"hotelbook/internal/repository"
)

// IdentityService resolves a session to a user and enforces roles.
type IdentityService interface {
	Authorize(ctx context.Context, token string, required ...model.Role) (*model.User, error)
	PromoteToOwner(ctx context.Context, userID model.UserID) error
}

type identityService struct {
	auth     AuthService
	userRepo repository.UserRepository
}

// NewIdentityService creates a new identity service.
func NewIdentityService(auth AuthService, userRepo repository.UserRepository) IdentityService {
	return &identityService{auth: auth, userRepo: userRepo}
}

// Authorize returns the session's user. With roles given, the user must hold
// one of them exactly.
func (s *identityService) Authorize(ctx context.Context, token string, required ...model.Role) (*model.User, error) {
	userID, err := s.auth.Validate(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, storageErr(err, apperrors.ErrUserNotFound)
	}

	if len(required) == 0 {
		return user, nil
	}
	for _, role := range required {
		if user.Role == role {
			return user, nil
		}
	}
	return nil, apperrors.ErrForbidden
}

// PromoteToOwner makes userID a hotel owner. Called from hotel registration
// with the registration's transaction in ctx; there is no way back.
func (s *identityService) PromoteToOwner(ctx context.Context, userID model.UserID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return storageErr(err, apperrors.ErrUserNotFound)
	}
	if user.Role == model.RoleHotelOwner {
		return nil
	}
	if err := s.userRepo.UpdateRole(ctx, userID, model.RoleHotelOwner); err != nil {
		return storageErr(err, apperrors.ErrUserNotFound)
	}
	return nil
}
