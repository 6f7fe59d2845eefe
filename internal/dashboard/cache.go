package dashboard

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=cache.go -destination=cache_mock.go -package=dashboard

// Cache stores serialized rollups per owner under a field name.
type Cache interface {
	Get(ctx context.Context, ownerID uuid.UUID, field string) ([]byte, bool, error)
	Set(ctx context.Context, ownerID uuid.UUID, field string, value []byte) error
	Invalidate(ctx context.Context, ownerID uuid.UUID) error
}

// NopCache never hits.
type NopCache struct{}

func (NopCache) Get(context.Context, uuid.UUID, string) ([]byte, bool, error) { return nil, false, nil }
func (NopCache) Set(context.Context, uuid.UUID, string, []byte) error         { return nil }
func (NopCache) Invalidate(context.Context, uuid.UUID) error                  { return nil }
