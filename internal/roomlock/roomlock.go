// Package roomlock serialises booking attempts per room.
package roomlock

import (
	"context"

	"hotelbook/internal/model"
)

// Locker grants mutual exclusion per room. The returned unlock func must be
// called exactly once; callers defer it right after a successful Lock.
type Locker interface {
	Lock(ctx context.Context, roomID model.RoomID) (unlock func(), err error)
}
