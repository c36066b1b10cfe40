package model

import (
	"time"

	"gorm.io/gorm"
)

// Hotel is a property registered by exactly one owner.
type Hotel struct {
	ID        HotelID   `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Address   string    `json:"address" gorm:"size:512;not null"`
	Contact   string    `json:"contact" gorm:"size:64;not null"`
	City      string    `json:"city" gorm:"size:128;not null;index"`
	OwnerID   UserID    `json:"owner" gorm:"type:varchar(36);not null;uniqueIndex"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Owner *User `json:"ownerInfo,omitempty" gorm:"foreignKey:OwnerID"`
}

// BeforeCreate sets the ID before creating the record.
func (h *Hotel) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = NewHotelID()
	}
	return nil
}
