package domain

import "time"

// detourFactor scales straight-line distance to an approximate street distance.
const detourFactor = 1.3

// PaceProfile describes the shape of one planned day for a given pace.
// Times are minutes after midnight.
type PaceProfile struct {
	DayStart int
	DayEnd   int
	Dwell    time.Duration
}

// Profile returns the day shape for the pace. Unknown paces fall back to moderate.
func (p Pace) Profile() PaceProfile {
	switch p {
	case PaceRelaxed:
		return PaceProfile{DayStart: 9*60 + 30, DayEnd: 20 * 60, Dwell: 90 * time.Minute}
	case PacePower:
		return PaceProfile{DayStart: 8 * 60, DayEnd: 22 * 60, Dwell: 40 * time.Minute}
	default:
		return PaceProfile{DayStart: 9 * 60, DayEnd: 21 * 60, Dwell: 60 * time.Minute}
	}
}

// Cutoff is the midpoint of the day used to classify windows as early or late.
func (p PaceProfile) Cutoff() int {
	return (p.DayStart + p.DayEnd) / 2
}

// SpeedKmh is the assumed average travel speed for the transport mode.
func (m TransportMode) SpeedKmh() float64 {
	switch m {
	case ModeWalk:
		return 4.5
	case ModeCar:
		return 30
	default:
		return 18
	}
}

// TravelTime estimates travel time for a straight-line distance.
func (m TransportMode) TravelTime(meters float64) time.Duration {
	metersPerMinute := m.SpeedKmh() * 1000 / 60
	minutes := meters * detourFactor / metersPerMinute
	return time.Duration(minutes * float64(time.Minute))
}
