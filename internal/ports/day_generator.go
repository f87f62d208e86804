package ports

import (
	"context"
	"itinerary-route-service/internal/domain"
)

type DayRequest struct {
	Day           int
	Trip          domain.TripConfig
	PreviousStops []string
}

// Port: a boundary for producing candidate stops for one day of a trip.
type DayGenerator interface {
	// Return stops in suggested visiting order. IDs may be empty.
	GenerateDay(ctx context.Context, req DayRequest) ([]domain.Stop, error)
}
