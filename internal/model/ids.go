package model

import "github.com/google/uuid"

// UserID identifies a User.
type UserID string

// HotelID identifies a Hotel.
type HotelID string

// RoomID identifies a Room.
type RoomID string

// BookingID identifies a Booking.
type BookingID string

// NewUserID returns a fresh random UserID.
func NewUserID() UserID { return UserID(uuid.NewString()) }

// NewHotelID returns a fresh random HotelID.
func NewHotelID() HotelID { return HotelID(uuid.NewString()) }

// NewRoomID returns a fresh random RoomID.
func NewRoomID() RoomID { return RoomID(uuid.NewString()) }

// NewBookingID returns a fresh random BookingID.
func NewBookingID() BookingID { return BookingID(uuid.NewString()) }

func (id UserID) String() string    { return string(id) }
func (id HotelID) String() string   { return string(id) }
func (id RoomID) String() string    { return string(id) }
func (id BookingID) String() string { return string(id) }
