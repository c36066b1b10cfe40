package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hotelbook/internal/auth"
	"hotelbook/internal/blob"
	apperrors "hotelbook/internal/errors"
	"hotelbook/internal/model"
	"hotelbook/internal/repository"
)

const bcryptCost = 10

// dummyHash is compared against when the email is unknown so both login
// failures cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("hotelbook-dummy-password"), bcryptCost)

// RegisterInput carries the fields of a sign-up form.
type RegisterInput struct {
	Username string `validate:"required,max=64"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=72"`
	Image    *Upload
}

// AuthService handles registration, login and session lifecycle.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (string, *model.User, error)
	Validate(ctx context.Context, token string) (model.UserID, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	blobs      blob.Store
	validate   *validator.Validate
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, blobs blob.Store) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		blobs:      blobs,
		validate:   validator.New(),
	}
}

// Register creates a user with a hashed password and opens a session for it.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if err := s.validate.Struct(in); err != nil {
		return nil, "", apperrors.FromValidator(err)
	}
	if in.Image == nil {
		return nil, "", apperrors.ErrImageRequired
	}

	// Check if user already exists
	_, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err == nil {
		return nil, "", apperrors.ErrDuplicateEmail
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", storageErr(err, nil)
	}

	imageURL, err := s.blobs.Upload(ctx, in.Image.Filename, in.Image.Content)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrImageUploadFailed, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		discardBlobs(ctx, s.blobs, imageURL)
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleGuest,
		Image:        imageURL,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		discardBlobs(ctx, s.blobs, imageURL)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", apperrors.ErrDuplicateEmail
		}
		return nil, "", storageErr(err, nil)
	}

	token, _, err := s.jwtService.GenerateSessionToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate session token: %w", err)
	}

	log.Info().Str("user_id", user.ID.String()).Msg("user registered")
	return user, token, nil
}

// Login authenticates a user. Unknown email and wrong password fail the same way.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, storageErr(err, nil)
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return "", nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, _, err := s.jwtService.GenerateSessionToken(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("generate session token: %w", err)
	}
	return token, user, nil
}

// Validate checks signature, expiry and revocation of a session token.
func (s *authService) Validate(ctx context.Context, token string) (model.UserID, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return "", apperrors.ErrUnauthenticated
	}

	revoked, err := s.tokenStore.IsTokenBlacklisted(ctx, claims.ID)
	if err != nil || revoked {
		return "", apperrors.ErrUnauthenticated
	}
	return claims.UserID, nil
}

// Logout revokes the session for the rest of its lifetime. Invalid tokens are
// ignored; there is nothing to revoke. A failed revocation is reported so the
// caller does not believe the session is closed.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if err := s.tokenStore.BlacklistToken(ctx, claims.ID, remaining); err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID.String()).Msg("session revocation failed")
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
