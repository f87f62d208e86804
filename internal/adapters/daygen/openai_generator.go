package daygen

import (
	"context"
	"fmt"
	"itinerary-route-service/internal/adapters/llm"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/platform/obs"
	"itinerary-route-service/internal/ports"
	"strings"
)

const systemInstruction = `You are a travel logistician generating a single day of a larger trip.
Rules:
- Day 1 starts with the journey from the origin to the destination, then a hotel or central hub.
- Later days start from a central point in the destination and never repeat previously visited places.
- Relaxed pace means about 3-4 hours of activity, moderate 5-6 hours, power 8 hours or more.
- Prefer the requested transport mode when it is sensible and always estimate transit duration.
- Give accurate latitude and longitude for every stop.
- Give a rating from 1 to 5 and typical opening hours as "HH:MM - HH:MM" or "24 Hours".
Reply with a JSON object: {"stops": [ ... ]}.`

type generatedStop struct {
	Name            string   `json:"stop_name" validate:"required"`
	ArrivalTime     string   `json:"arrival_time"`
	TransportMethod string   `json:"transport_method"`
	TransitDuration string   `json:"transit_duration"`
	TransitSteps    []string `json:"transit_steps"`
	CostEstimate    string   `json:"cost_estimate"`
	Rationale       string   `json:"rationale"`
	Category        string   `json:"category" validate:"omitempty,oneof=LODGE DINE TOUR TRANSIT SHOP RELAX"`
	GeoContext      string   `json:"geo_context"`
	Rating          float64  `json:"rating" validate:"gte=0,lte=5"`
	OpeningHours    string   `json:"opening_hours"`
	TacticalTips    []string `json:"tactical_tips"`
	Coordinates     struct {
		Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
		Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
	} `json:"coordinates"`
}

type generatedDay struct {
	Stops []generatedStop `json:"stops" validate:"required,min=1,dive"`
}

// Completer is the part of the llm client the generator needs.
type Completer interface {
	CompleteJSON(ctx context.Context, system, user string) (string, error)
}

type OpenAIGenerator struct {
	llm Completer
}

func NewOpenAIGenerator(c Completer) *OpenAIGenerator {
	return &OpenAIGenerator{llm: c}
}

func (g *OpenAIGenerator) GenerateDay(ctx context.Context, req ports.DayRequest) (stops []domain.Stop, err error) {
	defer obs.Time(ctx, "daygen.openai.generate")(&err)

	raw, err := g.llm.CompleteJSON(ctx, systemInstruction, buildPrompt(req))
	if err != nil {
		return nil, fmt.Errorf("generate day %d: %w", req.Day, err)
	}

	day, err := llm.ExtractJSON[generatedDay](raw)
	if err != nil {
		return nil, fmt.Errorf("generate day %d: %w", req.Day, err)
	}

	for _, gs := range day.Stops {
		st := toStop(gs, req.Day)
		if st.Coordinates == (domain.Coordinates{}) || !st.Coordinates.Valid() {
			return nil, fmt.Errorf("generate day %d: %w: stop %q has no coordinates", req.Day, llm.ErrInvalidOutput, gs.Name)
		}
		stops = append(stops, st)
	}
	return stops, nil
}

func buildPrompt(req ports.DayRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Trip: %s to %s.\nPace: %s. Mode preference: %s.\n",
		req.Trip.Origin, req.Trip.Destination, req.Trip.Pace, req.Trip.Mode)

	if total := req.Trip.TotalDays(); total > 0 {
		fmt.Fprintf(&b, "Generating DAY %d of %d (%s).\n", req.Day, total, req.Trip.DateOf(req.Day).Format("Monday 2006-01-02"))
	}
	if req.Day == 1 {
		fmt.Fprintf(&b, "Start by travelling from %s to %s, then check in or drop bags.\n", req.Trip.Origin, req.Trip.Destination)
	} else {
		fmt.Fprintf(&b, "Start from the hotel or a central hub in %s and explore new areas.\n", req.Trip.Destination)
	}
	if len(req.PreviousStops) > 0 {
		fmt.Fprintf(&b, "Do not visit these places again: %s.\n", strings.Join(req.PreviousStops, ", "))
	}
	return b.String()
}

func toStop(g generatedStop, day int) domain.Stop {
	st := domain.Stop{
		Name:         strings.TrimSpace(g.Name),
		Coordinates:  domain.Coordinates{Lat: g.Coordinates.Lat, Lng: g.Coordinates.Lng},
		OpeningHours: g.OpeningHours,
		DayIndex:     day,
		Category:     domain.Category(g.Category),
		ArrivalTime:  g.ArrivalTime,
		CostEstimate: g.CostEstimate,
		Rationale:    g.Rationale,
		Rating:       g.Rating,
		GeoContext:   g.GeoContext,
		Tips:         g.TacticalTips,
	}
	if g.TransportMethod != "" || g.TransitDuration != "" || len(g.TransitSteps) > 0 {
		st.Transit = &domain.Transit{Mode: g.TransportMethod, Duration: g.TransitDuration, Steps: g.TransitSteps}
	}
	return st
}
