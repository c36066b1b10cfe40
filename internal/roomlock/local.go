package roomlock

import (
	"context"
	"sync"
	"time"

	"hotelbook/internal/model"
	"hotelbook/internal/observability"
)

// Local is an in-process keyed lock. It only protects a single replica.
type Local struct {
	mu    sync.Mutex
	slots map[model.RoomID]*slot
}

// slot is a one-element semaphore shared by everyone holding or waiting for
// the room. It is dropped once refs reaches zero.
type slot struct {
	ch   chan struct{}
	refs int
}

var _ Locker = (*Local)(nil)

// NewLocal creates an in-process room locker.
func NewLocal() *Local {
	return &Local{slots: make(map[model.RoomID]*slot)}
}

func (l *Local) acquireSlot(roomID model.RoomID) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[roomID]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[roomID] = s
	}
	s.refs++
	return s
}

func (l *Local) releaseSlot(roomID model.RoomID, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, roomID)
	}
}

// Lock blocks until the room is free or ctx is done.
func (l *Local) Lock(ctx context.Context, roomID model.RoomID) (func(), error) {
	start := time.Now()
	s := l.acquireSlot(roomID)

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.releaseSlot(roomID, s)
		return nil, ctx.Err()
	}
	observability.ObserveRoomLockWait("local", time.Since(start))

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.releaseSlot(roomID, s)
		})
	}, nil
}

// size reports how many rooms currently have holders or waiters.
func (l *Local) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
