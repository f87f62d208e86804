package dto

import "itinerary-route-service/internal/domain"

type AddStopRequest struct {
	Name         string          `json:"name" validate:"required"`
	Lat          *float64        `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng          *float64        `json:"lng" validate:"required,gte=-180,lte=180"`
	OpeningHours string          `json:"opening_hours"`
	Category     string          `json:"category" validate:"omitempty,oneof=LODGE DINE TOUR TRANSIT SHOP RELAX"`
	Notes        string          `json:"notes"`
	Transit      *domain.Transit `json:"transit"`
	ArrivalTime  string          `json:"arrival_time"`
	CostEstimate string          `json:"cost_estimate"`
	Rating       float64         `json:"rating" validate:"gte=0,lte=5"`
	Tips         []string        `json:"tips"`
	// Day is 1-based; zero appends to the last day.
	Day int `json:"day" validate:"gte=0"`
}

func (r AddStopRequest) Stop() domain.Stop {
	return domain.Stop{
		Name:         r.Name,
		Coordinates:  domain.Coordinates{Lat: *r.Lat, Lng: *r.Lng},
		OpeningHours: r.OpeningHours,
		Category:     domain.Category(r.Category),
		Notes:        r.Notes,
		Transit:      r.Transit,
		ArrivalTime:  r.ArrivalTime,
		CostEstimate: r.CostEstimate,
		Rating:       r.Rating,
		Tips:         r.Tips,
	}
}

type AddStopResponse struct {
	StopID string        `json:"stop_id"`
	Day    int           `json:"day"`
	Stops  []domain.Stop `json:"stops"`
}

type DayOrderRequest struct {
	StopIDs []string `json:"stop_ids" validate:"required,min=1,dive,required"`
}

type DayResponse struct {
	Day   int           `json:"day"`
	Stops []domain.Stop `json:"stops"`
}
