package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vansh-justcharge/Autocredits-backend/internal/core/domain"
	"github.com/vansh-justcharge/Autocredits-backend/internal/core/ports"
)

const (
	carListingTTL       = time.Minute
	carListingKeyPrefix = "cars:list:"
)

// CarListingCache caches pages of the public car listing. Any inventory
// mutation invalidates every cached page.
type CarListingCache struct {
	client *redis.Client
}

func NewCarListingCache(client *redis.Client) *CarListingCache {
	return &CarListingCache{client: client}
}

// Get returns the cached page, or (nil, nil) on a miss.
func (c *CarListingCache) Get(ctx context.Context, page, limit int64) (*ports.Page[domain.Car], error) {
	raw, err := c.client.Get(ctx, c.key(page, limit)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("car cache get: %w", err)
	}

	var cached ports.Page[domain.Car]
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, fmt.Errorf("car cache decode: %w", err)
	}
	return &cached, nil
}

func (c *CarListingCache) Set(ctx context.Context, page, limit int64, data *ports.Page[domain.Car]) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("car cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(page, limit), raw, carListingTTL).Err()
}

// Invalidate drops every cached listing page.
func (c *CarListingCache) Invalidate(ctx context.Context) error {
	keys, err := c.client.Keys(ctx, carListingKeyPrefix+"*").Result()
	if err != nil {
		return fmt.Errorf("car cache scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *CarListingCache) key(page, limit int64) string {
	return fmt.Sprintf("%s%d:%d", carListingKeyPrefix, page, limit)
}
