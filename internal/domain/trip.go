package domain

import (
	"strings"
	"time"
)

type TransportMode string

const (
	ModePublic TransportMode = "public"
	ModeCar    TransportMode = "car"
	ModeWalk   TransportMode = "walk"
)

type Pace string

const (
	PaceRelaxed  Pace = "relaxed"
	PaceModerate Pace = "moderate"
	PacePower    Pace = "power"
)

// MaxTripDays bounds how many days a single session may plan.
const MaxTripDays = 30

// TripConfig is fixed for the lifetime of a planning session.
type TripConfig struct {
	Origin      string        `json:"origin"`
	Destination string        `json:"destination"`
	StartDate   time.Time     `json:"start_date"`
	EndDate     time.Time     `json:"end_date"`
	Mode        TransportMode `json:"mode"`
	Pace        Pace          `json:"pace"`
}

func (m TransportMode) Valid() bool {
	switch m {
	case ModePublic, ModeCar, ModeWalk:
		return true
	}
	return false
}

func (p Pace) Valid() bool {
	switch p {
	case PaceRelaxed, PaceModerate, PacePower:
		return true
	}
	return false
}

// Validate rejects configurations that must never reach the itinerary store.
func (c TripConfig) Validate() error {
	if strings.TrimSpace(c.Origin) == "" {
		return invalid("origin", "must not be empty")
	}
	if strings.TrimSpace(c.Destination) == "" {
		return invalid("destination", "must not be empty")
	}
	if c.StartDate.IsZero() {
		return invalid("start_date", "is required")
	}
	if c.EndDate.IsZero() {
		return invalid("end_date", "is required")
	}
	if dateOnly(c.EndDate).Before(dateOnly(c.StartDate)) {
		return invalid("end_date", "must not be before start_date")
	}
	if c.TotalDays() > MaxTripDays {
		return invalid("end_date", "trip exceeds the maximum number of days")
	}
	if !c.Mode.Valid() {
		return invalid("mode", "must be one of public, car, walk")
	}
	if !c.Pace.Valid() {
		return invalid("pace", "must be one of relaxed, moderate, power")
	}
	return nil
}

// TotalDays counts calendar days between start and end, inclusive.
func (c TripConfig) TotalDays() int {
	start, end := dateOnly(c.StartDate), dateOnly(c.EndDate)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// DateOf returns the calendar date of the given 1-based day.
func (c TripConfig) DateOf(day int) time.Time {
	return dateOnly(c.StartDate).AddDate(0, 0, day-1)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
