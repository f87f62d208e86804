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

// SQLite backed cache mapping normalized place queries to results.
// Keys are expected to be normalized by the caller.
type SqlitePlaceCache struct {
	DB  *sql.DB
	TTL time.Duration
	now func() time.Time
}

func NewSqlitePlaceCache(db *sql.DB, ttl time.Duration) *SqlitePlaceCache {
	return &SqlitePlaceCache{DB: db, TTL: ttl, now: time.Now}
}

// Fetch cached places for the query key. Entries older than TTL are misses.
func (s *SqlitePlaceCache) Get(ctx context.Context, key string) (_ []ports.Place, _ bool, err error) {
	defer obs.Time(ctx, "place.cache.sqlite.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("place cache: db is nil")
	}

	q := `
	SELECT payload
	FROM place_cache
	WHERE query_key = ? AND created_at >= ?;
	`

	var oldest int64
	if s.TTL > 0 {
		oldest = s.now().Add(-s.TTL).Unix()
	}

	var payload string
	err = s.DB.QueryRowContext(ctx, q, key, oldest).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get place cache: query place_cache table: %w", err)
	}

	var places []ports.Place
	if err := json.Unmarshal([]byte(payload), &places); err != nil {
		return nil, false, fmt.Errorf("get place cache: decode payload: %w", err)
	}
	return places, true, nil
}

// Store the places for a query key, replacing any previous entry.
func (s *SqlitePlaceCache) Put(ctx context.Context, key string, places []ports.Place) error {
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
	INSERT OR REPLACE INTO place_cache (
		query_key,
		payload,
		created_at
	)
	VALUES (?, ?, ?);
	`, key, string(payload), s.now().Unix())
	if err != nil {
		return fmt.Errorf("insert place cache key=%q: %w", key, err)
	}
	return nil
}
