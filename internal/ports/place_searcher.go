package ports

import (
	"context"
	"itinerary-route-service/internal/domain"
)

// MinPlaceQueryLength is the shortest free-text query worth sending.
const MinPlaceQueryLength = 3

type Place struct {
	Name        string             `json:"name"`
	Label       string             `json:"label,omitempty"`
	Coordinates domain.Coordinates `json:"coordinates"`
}

type PlaceQuery struct {
	Text  string
	Bias  *domain.Coordinates
	Limit int
}

// Port: a boundary for free-text place lookup.
type PlaceSearcher interface {
	Search(ctx context.Context, q PlaceQuery) ([]Place, error)
}

// Port: persistent storage for place search results keyed by normalized query.
type PlaceCache interface {
	// Return cached places and whether the key was present.
	Get(ctx context.Context, key string) ([]Place, bool, error)
	Put(ctx context.Context, key string, places []Place) error
}
