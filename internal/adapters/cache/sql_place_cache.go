package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"itinerary-route-service/internal/platform/obs"
	"itinerary-route-service/internal/ports"
	"strings"
	"time"
)

// SQLPlaceCache is a Postgres-backed cache mapping normalized place queries
// to results.
type SQLPlaceCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSQLPlaceCache(db *sql.DB, ttl time.Duration) *SQLPlaceCache {
	return &SQLPlaceCache{DB: db, TTL: ttl}
}

// Fetch cached places for the query key. Entries older than TTL are misses.
func (s *SQLPlaceCache) Get(ctx context.Context, key string) (_ []ports.Place, _ bool, err error) {
	defer obs.Time(ctx, "place.cache.sql.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("place cache: db is nil")
	}

	q := `
	SELECT payload
	FROM place_cache
	WHERE query_key = $1
	  AND ($2::bigint = 0 OR created_at >= now() - make_interval(secs => $2::bigint));
	`

	var payload []byte
	err = s.DB.QueryRowContext(ctx, q, key, int64(s.TTL.Seconds())).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get place cache: query place_cache table: %w", err)
	}

	var places []ports.Place
	if err := json.Unmarshal(payload, &places); err != nil {
		return nil, false, fmt.Errorf("get place cache: decode payload: %w", err)
	}
	return places, true, nil
}

// Store the places for a query key, replacing any previous entry.
func (s *SQLPlaceCache) Put(ctx context.Context, key string, places []ports.Place) error {
	if s.DB == nil {
		return errors.New("place cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("insert place cache: empty query key")
	}

	payload, err := json.Marshal(places)
	if err != nil {
		return fmt.Errorf("insert place cache: encode payload: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO place_cache (query_key, payload, created_at)
	VALUES ($1, $2::jsonb, now())
	ON CONFLICT (query_key) DO UPDATE
	SET payload = EXCLUDED.payload,
		created_at = EXCLUDED.created_at;
	`, key, string(payload))
	if err != nil {
		return fmt.Errorf("insert place cache key=%q: %w", key, err)
	}
	return nil
}
