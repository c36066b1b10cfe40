package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hotelbook/internal/auth"
	apperrors "hotelbook/internal/errors"
	"hotelbook/internal/model"
)

func TestIdentityService_Authorize(t *testing.T) {
	jwtService := auth.NewJWTService(testSecret, time.Hour)
	guest := &model.User{ID: model.NewUserID(), Role: model.RoleGuest}
	owner := &model.User{ID: model.NewUserID(), Role: model.RoleHotelOwner}
	ghostID := model.NewUserID()

	token := func(id model.UserID) string {
		tok, _, err := jwtService.GenerateSessionToken(id)
		require.NoError(t, err)
		return tok
	}

	tests := []struct {
		name          string
		token         string
		required      []model.Role
		wantUser      *model.User
		expectedError error
	}{
		{name: "no role required", token: token(guest.ID), wantUser: guest},
		{name: "role matches", token: token(owner.ID), required: []model.Role{model.RoleHotelOwner}, wantUser: owner},
		{name: "role mismatch", token: token(guest.ID), required: []model.Role{model.RoleHotelOwner}, expectedError: apperrors.ErrForbidden},
		{name: "one of several roles", token: token(owner.ID), required: []model.Role{model.RoleAdmin, model.RoleHotelOwner}, wantUser: owner},
		{name: "invalid token", token: "garbage", expectedError: apperrors.ErrUnauthenticated},
		{name: "user deleted", token: token(ghostID), expectedError: apperrors.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			repo.On("FindByID", mock.Anything, guest.ID).Return(guest, nil).Maybe()
			repo.On("FindByID", mock.Anything, owner.ID).Return(owner, nil).Maybe()
			repo.On("FindByID", mock.Anything, ghostID).Return(nil, gorm.ErrRecordNotFound).Maybe()
			store := new(MockTokenStore)
			store.On("IsTokenBlacklisted", mock.Anything, mock.Anything).Return(false, nil).Maybe()

			svc := NewIdentityService(NewAuthService(repo, jwtService, store, &fakeBlobStore{}), repo)
			user, err := svc.Authorize(context.Background(), tt.token, tt.required...)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser.ID, user.ID)
		})
	}
}

func TestIdentityService_PromoteToOwner(t *testing.T) {
	guest := &model.User{ID: model.NewUserID(), Role: model.RoleGuest}
	owner := &model.User{ID: model.NewUserID(), Role: model.RoleHotelOwner}

	repo := new(MockUserRepository)
	repo.On("FindByID", mock.Anything, guest.ID).Return(guest, nil)
	repo.On("FindByID", mock.Anything, owner.ID).Return(owner, nil)
	repo.On("UpdateRole", mock.Anything, guest.ID, model.RoleHotelOwner).Return(nil).Once()

	svc := NewIdentityService(nil, repo)
	require.NoError(t, svc.PromoteToOwner(context.Background(), guest.ID))
	require.NoError(t, svc.PromoteToOwner(context.Background(), owner.ID))

	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "UpdateRole", mock.Anything, owner.ID, mock.Anything)
}
