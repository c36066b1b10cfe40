package model

import (
	"time"

	"gorm.io/gorm"
)

// Role is the authorization role carried by a User.
type Role string

const (
	RoleGuest      Role = "guest"
	RoleHotelOwner Role = "hotelOwner"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleHotelOwner, RoleAdmin:
		return true
	}
	return false
}

// MaxRecentSearchedCities bounds User.RecentSearchedCities.
const MaxRecentSearchedCities = 3

// User represents an authenticated user of the marketplace.
type User struct {
	ID                   UserID    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Username             string    `json:"username" gorm:"size:255;not null"`
	Email                string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash         string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role                 Role      `json:"role" gorm:"type:varchar(20);not null;default:'guest';index"`
	Image                string    `json:"image" gorm:"size:512"`
	RecentSearchedCities []string  `json:"recentSearchedCities" gorm:"type:text;serializer:json"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// BeforeCreate sets the ID and default role before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewUserID()
	}
	if u.Role == "" {
		u.Role = RoleGuest
	}
	if u.RecentSearchedCities == nil {
		u.RecentSearchedCities = []string{}
	}
	return nil
}

// AddRecentSearchedCity records city as the most recent search. Cities already
// present are left where they are; otherwise the oldest entry is evicted once
// the list is full. It reports whether the list changed.
func (u *User) AddRecentSearchedCity(city string) bool {
	for _, c := range u.RecentSearchedCities {
		if c == city {
			return false
		}
	}
	if len(u.RecentSearchedCities) >= MaxRecentSearchedCities {
		u.RecentSearchedCities = u.RecentSearchedCities[len(u.RecentSearchedCities)-MaxRecentSearchedCities+1:]
	}
	u.RecentSearchedCities = append(u.RecentSearchedCities, city)
	return true
}

// PublicProfile returns the subset of the user shown to other users.
func (u *User) PublicProfile() *User {
	return &User{ID: u.ID, Username: u.Username, Image: u.Image}
}
