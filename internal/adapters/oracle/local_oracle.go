package oracle

import (
	"context"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/ports"
	"itinerary-route-service/internal/sequencing"
	"log/slog"
)

// LocalOracle satisfies the oracle contract with the in-process heuristic.
type LocalOracle struct {
	opts []sequencing.Option
}

func NewLocalOracle(opts ...sequencing.Option) *LocalOracle {
	return &LocalOracle{opts: opts}
}

func (o *LocalOracle) Sequence(ctx context.Context, req ports.SequencingRequest) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrOracleTimeout, err)
	}
	if len(req.Waypoints) == 0 || req.Waypoints[0].ID != req.LockedStartID {
		return nil, fmt.Errorf("sequence day: locked start %q is not the first waypoint", req.LockedStartID)
	}

	points := make([]sequencing.Point, len(req.Waypoints))
	for i, w := range req.Waypoints {
		points[i] = sequencing.Point{
			ID:          w.ID,
			Coordinates: domain.Coordinates{Lat: w.Lat, Lng: w.Lng},
			Window:      domain.ParseWindow(w.OpeningHours),
		}
	}

	res := sequencing.NewEngine(req.Mode, req.Pace, o.opts...).Sequence(points[0], points[1:])
	if !res.Feasible() {
		slog.DebugContext(ctx, "day is over-constrained, ordered by distance only",
			"locked", req.LockedStartID, "violations", res.Violations)
	}
	return res.Order, nil
}
