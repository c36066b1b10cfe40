package roomlock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"hotelbook/internal/model"
	"hotelbook/internal/observability"
)

const (
	lockKeyPrefix = "lock:room:"

	minRetryDelay = 5 * time.Millisecond
	maxRetryDelay = 100 * time.Millisecond
)

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a distributed room lock shared by every replica using the same
// Redis. The TTL bounds how long a crashed holder can block a room.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Locker = (*Redis)(nil)

// NewRedis creates a Redis-backed room locker.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &Redis{client: client, ttl: ttl}
}

// Lock polls SET NX with backoff until it owns the room key or ctx is done.
// Redis errors are returned; a booking never proceeds without the lock.
func (r *Redis) Lock(ctx context.Context, roomID model.RoomID) (func(), error) {
	key := lockKeyPrefix + roomID.String()
	token := uuid.NewString()
	start := time.Now()
	delay := minRetryDelay

	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("acquire room lock: %w", err)
		}
		if ok {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		if delay *= 2; delay > maxRetryDelay {
			delay = maxRetryDelay
		}
	}
	observability.ObserveRoomLockWait("redis", time.Since(start))

	var once sync.Once
	return func() {
		once.Do(func() {
			// Release even when the request context is already cancelled.
			releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, r.client, []string{key}, token).Err(); err != nil {
				log.Warn().Err(err).Str("room_id", roomID.String()).Msg("room lock release failed")
			}
		})
	}, nil
}
