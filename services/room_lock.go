package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"booking-calendar/models"
)

// RoomLocker serialises availability check + write for one room of a hotel.
// The returned func releases the lock.
type RoomLocker interface {
	Lock(ctx context.Context, hotel models.HotelID, room string) (func(), error)
}

func roomLockKey(hotel models.HotelID, room string) string {
	return fmt.Sprintf("lock:%s:%s", hotel.Key(), room)
}

// LocalRoomLocker is enough for a single store instance.
type LocalRoomLocker struct {
	mu    sync.Mutex
	rooms map[string]*sync.Mutex
}

func NewLocalRoomLocker() *LocalRoomLocker {
	return &LocalRoomLocker{rooms: make(map[string]*sync.Mutex)}
}

func (l *LocalRoomLocker) Lock(_ context.Context, hotel models.HotelID, room string) (func(), error) {
	key := roomLockKey(hotel, room)
	l.mu.Lock()
	m, ok := l.rooms[key]
	if !ok {
		m = &sync.Mutex{}
		l.rooms[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock, nil
}

const (
	redisLockTTL   = 10 * time.Second
	redisLockRetry = 50 * time.Millisecond
	redisLockWait  = 3 * time.Second
)

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisRoomLocker shares room locks between store instances.
type RedisRoomLocker struct {
	client *redis.Client
}

func NewRedisRoomLocker(client *redis.Client) *RedisRoomLocker {
	return &RedisRoomLocker{client: client}
}

// NewRedisClient accepts either a redis:// URL or a bare host:port.
func NewRedisClient(addr string) (*redis.Client, error) {
	if opts, err := redis.ParseURL(addr); err == nil {
		return redis.NewClient(opts), nil
	}
	if addr == "" {
		return nil, fmt.Errorf("empty redis address")
	}
	return redis.NewClient(&redis.Options{Addr: addr, DB: 0}), nil
}

func (l *RedisRoomLocker) Lock(ctx context.Context, hotel models.HotelID, room string) (func(), error) {
	key := roomLockKey(hotel, room)
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, redisLockWait)
	defer cancel()

	for {
		ok, err := l.client.SetNX(ctx, key, token, redisLockTTL).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ErrRoomLocked
			}
			return nil, fmt.Errorf("acquire %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ErrRoomLocked
		case <-time.After(redisLockRetry):
		}
	}

	release := func() {
		if err := releaseScript.Run(context.Background(), l.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
			log.Printf("release %s: %v", key, err)
		}
	}
	return release, nil
}
