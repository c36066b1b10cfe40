package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotelbook/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id model.UserID) (*model.User, error)
	FindByIDForUpdate(ctx context.Context, id model.UserID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateRole(ctx context.Context, id model.UserID, role model.Role) error
	UpdateRecentSearchedCities(ctx context.Context, id model.UserID, cities []string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return conn(ctx, r.db).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id model.UserID) (*model.User, error) {
	var user model.User
	if err := conn(ctx, r.db).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDForUpdate loads a user and locks its row until the surrounding
// transaction ends.
func (r *userRepository) FindByIDForUpdate(ctx context.Context, id model.UserID) (*model.User, error) {
	var user model.User
	if err := conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := conn(ctx, r.db).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateRole sets the user's role. Returns gorm.ErrRecordNotFound for an unknown id.
func (r *userRepository) UpdateRole(ctx context.Context, id model.UserID, role model.Role) error {
	res := conn(ctx, r.db).Model(&model.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) UpdateRecentSearchedCities(ctx context.Context, id model.UserID, cities []string) error {
	return conn(ctx, r.db).Model(&model.User{ID: id}).
		Select("RecentSearchedCities").
		Updates(&model.User{RecentSearchedCities: cities}).Error
}
