package ports

import (
	"context"
	"itinerary-route-service/internal/domain"
)

// One stop as seen by a sequencing oracle.
type Waypoint struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	OpeningHours string  `json:"hours,omitempty"`
}

// Request to order the stops of one day. Waypoints[0] is the locked start.
type SequencingRequest struct {
	LockedStartID string
	Waypoints     []Waypoint
	Mode          domain.TransportMode
	Pace          domain.Pace
}

// Port: a boundary for any solver able to order a day's stops.
type SequencingOracle interface {
	// Return stop IDs in visiting order. Callers validate the result.
	Sequence(ctx context.Context, req SequencingRequest) ([]string, error)
}
