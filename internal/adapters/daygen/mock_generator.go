package daygen

import (
	"context"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/ports"
)

// MockGenerator returns a fixed downtown Los Angeles day. It is used when no
// model is configured.
type MockGenerator struct{}

func NewMockGenerator() *MockGenerator { return &MockGenerator{} }

func (MockGenerator) GenerateDay(ctx context.Context, req ports.DayRequest) ([]domain.Stop, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generate day: %w", err)
	}

	stops := mockDay()
	for i := range stops {
		stops[i].ID = fmt.Sprintf("mock-%d-%d", req.Day, i+1)
		stops[i].DayIndex = req.Day
	}
	return stops, nil
}

func mockDay() []domain.Stop {
	return []domain.Stop{
		{
			Name:         "Arrival at Union Station",
			Coordinates:  domain.Coordinates{Lat: 34.0562, Lng: -118.2365},
			OpeningHours: "04:00 - 01:00",
			Category:     domain.CategoryTransit,
			Transit:      &domain.Transit{Mode: "Amtrak Pacific Surfliner", Duration: "2h 45m"},
			ArrivalTime:  "10:30",
			CostEstimate: "$35.00",
			Rationale:    "The train drops you right in the center.",
			Rating:       4.2,
			GeoContext:   "Downtown",
		},
		{
			Name:         "The Hoxton Hotel",
			Coordinates:  domain.Coordinates{Lat: 34.0423, Lng: -118.2587},
			OpeningHours: "24 Hours",
			Category:     domain.CategoryLodge,
			Transit:      &domain.Transit{Mode: "Rideshare", Duration: "10 mins"},
			ArrivalTime:  "11:00",
			CostEstimate: "$12.00",
			Rationale:    "Drop bags off before exploring.",
			Rating:       4.6,
			GeoContext:   "Broadway",
		},
		{
			Name:         "Grand Central Market",
			Coordinates:  domain.Coordinates{Lat: 34.0506, Lng: -118.2488},
			OpeningHours: "08:00 - 21:00",
			Category:     domain.CategoryDine,
			Transit:      &domain.Transit{Mode: "Walk", Duration: "5 mins"},
			ArrivalTime:  "11:45",
			CostEstimate: "$0.00",
			Rationale:    "Lunch before the crowds peak at 12:30.",
			Rating:       4.8,
			GeoContext:   "Downtown",
			Tips:         []string{"Some stalls are cash only"},
		},
		{
			Name:         "The Last Bookstore",
			Coordinates:  domain.Coordinates{Lat: 34.0478, Lng: -118.2503},
			OpeningHours: "11:00 - 20:00",
			Category:     domain.CategoryShop,
			Transit:      &domain.Transit{Mode: "Walk", Duration: "10 mins"},
			ArrivalTime:  "13:30",
			CostEstimate: "$0.00",
			Rationale:    "Iconic spot a short walk away.",
			Rating:       4.7,
			GeoContext:   "Historic Core",
		},
	}
}
