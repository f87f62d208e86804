package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"itinerary-route-service/internal/platform/obs"
	"itinerary-route-service/internal/ports"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "place_cache:"

// RedisPlaceCache stores place results as JSON strings with a Redis TTL.
type RedisPlaceCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisPlaceCache(client redis.UniversalClient, ttl time.Duration) *RedisPlaceCache {
	return &RedisPlaceCache{client: client, ttl: ttl}
}

func (r *RedisPlaceCache) Get(ctx context.Context, key string) (_ []ports.Place, _ bool, err error) {
	defer obs.Time(ctx, "place.cache.redis.Get")(&err)

	raw, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get place cache: %w", err)
	}

	var places []ports.Place
	if err := json.Unmarshal(raw, &places); err != nil {
		return nil, false, fmt.Errorf("get place cache: decode payload: %w", err)
	}
	return places, true, nil
}

// Put stores places under key. A zero TTL keeps the entry until evicted.
func (r *RedisPlaceCache) Put(ctx context.Context, key string, places []ports.Place) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("insert place cache: empty query key")
	}

	payload, err := json.Marshal(places)
	if err != nil {
		return fmt.Errorf("insert place cache: encode payload: %w", err)
	}

	if err := r.client.Set(ctx, redisKeyPrefix+key, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("insert place cache key=%q: %w", key, err)
	}
	return nil
}
