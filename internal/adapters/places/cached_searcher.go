package places

import (
	"context"
	"fmt"
	"itinerary-route-service/internal/ports"
	"log/slog"
	"strings"
)

// CachedSearcher consults a PlaceCache before delegating to the wrapped
// searcher. Cache failures are logged and never fail a search.
type CachedSearcher struct {
	next  ports.PlaceSearcher
	cache ports.PlaceCache
}

func NewCachedSearcher(next ports.PlaceSearcher, cache ports.PlaceCache) *CachedSearcher {
	return &CachedSearcher{next: next, cache: cache}
}

func (c *CachedSearcher) Search(ctx context.Context, q ports.PlaceQuery) ([]ports.Place, error) {
	if len([]rune(strings.TrimSpace(q.Text))) < ports.MinPlaceQueryLength {
		return nil, ports.ErrQueryTooShort
	}
	key := CacheKey(q)

	if hit, ok, err := c.cache.Get(ctx, key); err != nil {
		slog.WarnContext(ctx, "place cache read failed", "key", key, "err", err)
	} else if ok {
		return hit, nil
	}

	found, err := c.next.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Put(ctx, key, found); err != nil {
		slog.WarnContext(ctx, "place cache write failed", "key", key, "err", err)
	}
	return found, nil
}

// CacheKey normalizes a query so equivalent searches share a cache entry.
// Bias coordinates are rounded to roughly one kilometre.
func CacheKey(q ports.PlaceQuery) string {
	text := strings.Join(strings.Fields(strings.ToLower(q.Text)), " ")
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if q.Bias == nil {
		return fmt.Sprintf("%s|%d", text, limit)
	}
	return fmt.Sprintf("%s|%d|%.2f,%.2f", text, limit, q.Bias.Lat, q.Bias.Lng)
}
