package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nicolas1xx/psicoapp/internal/model"
)

// RedisStore keeps pending bookings in Redis with a per-key TTL, so expiry
// needs no sweeper and survives instance restarts.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func key(id string) string {
	return "pending_booking:" + id
}

func (s *RedisStore) Put(ctx context.Context, b model.PendingBooking) (string, error) {
	id := uuid.NewString()
	payload, err := json.Marshal(b)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, key(id), payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store pending booking: %w", err)
	}
	return id, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (model.PendingBooking, error) {
	raw, err := s.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.PendingBooking{}, ErrExpired
	}
	if err != nil {
		return model.PendingBooking{}, fmt.Errorf("load pending booking: %w", err)
	}
	var b model.PendingBooking
	if err := json.Unmarshal(raw, &b); err != nil {
		return model.PendingBooking{}, err
	}
	return b, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, key(id)).Err()
}

func ReadyCheck(rdb *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if rdb == nil {
			return errors.New("redis not configured")
		}
		return rdb.Ping(ctx).Err()
	}
}
