package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Redis keeps each owner's rollups in one hash so a single DEL invalidates
// all of them. Field names carry the day they were computed for.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func key(ownerID uuid.UUID) string {
	return "dashboard:" + ownerID.String()
}

func (r *Redis) Get(ctx context.Context, ownerID uuid.UUID, field string) ([]byte, bool, error) {
	raw, err := r.client.HGet(ctx, key(ownerID), field).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("reading %s: %w", field, err)
	}

	return raw, true, nil
}

func (r *Redis) Set(ctx context.Context, ownerID uuid.UUID, field string, value []byte) error {
	k := key(ownerID)

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, k, field, value)
	pipe.Expire(ctx, k, r.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("writing %s: %w", field, err)
	}

	return nil
}

func (r *Redis) Invalidate(ctx context.Context, ownerID uuid.UUID) error {
	if err := r.client.Del(ctx, key(ownerID)).Err(); err != nil {
		return fmt.Errorf("invalidating dashboard cache: %w", err)
	}

	return nil
}
