package dto

import (
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/session"
	"time"
)

const dateLayout = "2006-01-02"

type TripRequest struct {
	Origin      string `json:"origin" validate:"required"`
	Destination string `json:"destination" validate:"required"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Mode        string `json:"mode" validate:"required,oneof=public car walk"`
	Pace        string `json:"pace" validate:"required,oneof=relaxed moderate power"`
}

// Config converts a validated request. The dates have already passed the
// datetime check, so parse errors cannot occur here.
func (r TripRequest) Config() domain.TripConfig {
	start, _ := time.Parse(dateLayout, r.StartDate)
	end, _ := time.Parse(dateLayout, r.EndDate)
	return domain.TripConfig{
		Origin:      r.Origin,
		Destination: r.Destination,
		StartDate:   start,
		EndDate:     end,
		Mode:        domain.TransportMode(r.Mode),
		Pace:        domain.Pace(r.Pace),
	}
}

type TripResponse struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Mode        string `json:"mode"`
	Pace        string `json:"pace"`
}

func NewTripResponse(c domain.TripConfig) TripResponse {
	return TripResponse{
		Origin:      c.Origin,
		Destination: c.Destination,
		StartDate:   c.StartDate.Format(dateLayout),
		EndDate:     c.EndDate.Format(dateLayout),
		Mode:        string(c.Mode),
		Pace:        string(c.Pace),
	}
}

type SessionResponse struct {
	ID         string           `json:"id"`
	Trip       TripResponse     `json:"trip"`
	TotalDays  int              `json:"total_days"`
	Days       [][]domain.Stop  `json:"days"`
	Sequencing []int            `json:"sequencing"`
	Generating bool             `json:"generating"`
	Notices    []session.Notice `json:"notices"`
	CreatedAt  time.Time        `json:"created_at"`
}

func NewSessionResponse(v session.View) SessionResponse {
	days := v.Days
	if days == nil {
		days = [][]domain.Stop{}
	}
	seq := v.Sequencing
	if seq == nil {
		seq = []int{}
	}
	return SessionResponse{
		ID:         v.ID,
		Trip:       NewTripResponse(v.Config),
		TotalDays:  v.TotalDays,
		Days:       days,
		Sequencing: seq,
		Generating: v.Generating,
		Notices:    v.Notices,
		CreatedAt:  v.CreatedAt,
	}
}

type ShareResponse struct {
	Token string `json:"token"`
}

type ImportRequest struct {
	Token string `json:"token" validate:"required"`
}
