package domain

// Category tags a stop with the kind of activity it represents.
type Category string

const (
	CategoryLodge   Category = "LODGE"
	CategoryDine    Category = "DINE"
	CategoryTour    Category = "TOUR"
	CategoryTransit Category = "TRANSIT"
	CategoryShop    Category = "SHOP"
	CategoryRelax   Category = "RELAX"
)

// Transit describes how the traveller arrives into a stop from the previous one.
type Transit struct {
	Mode     string   `json:"mode,omitempty"`
	Duration string   `json:"duration,omitempty"`
	Steps    []string `json:"steps,omitempty"`
}

// Stop is a single point of interest within a day. Its position in the day
// is owned by the itinerary store, never by the stop itself.
type Stop struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Coordinates  Coordinates `json:"coordinates"`
	OpeningHours string      `json:"opening_hours,omitempty"`
	DayIndex     int         `json:"day_index"`
	Category     Category    `json:"category,omitempty"`
	Notes        string      `json:"notes,omitempty"`
	Transit      *Transit    `json:"transit,omitempty"`
	ArrivalTime  string      `json:"arrival_time,omitempty"`
	CostEstimate string      `json:"cost_estimate,omitempty"`
	Rationale    string      `json:"rationale,omitempty"`
	Rating       float64     `json:"rating,omitempty"`
	GeoContext   string      `json:"geo_context,omitempty"`
	Tips         []string    `json:"tips,omitempty"`
}

func (s Stop) Window() Window { return ParseWindow(s.OpeningHours) }

// Clone returns a copy that shares no slices or pointers with s.
func (s Stop) Clone() Stop {
	out := s
	if s.Transit != nil {
		t := *s.Transit
		t.Steps = append([]string(nil), s.Transit.Steps...)
		out.Transit = &t
	}
	if s.Tips != nil {
		out.Tips = append([]string(nil), s.Tips...)
	}
	return out
}

// StopPatch carries a partial update. Nil fields are left untouched; identity,
// day assignment, and position cannot be patched.
type StopPatch struct {
	Name         *string      `json:"name,omitempty"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
	OpeningHours *string      `json:"opening_hours,omitempty"`
	Category     *Category    `json:"category,omitempty"`
	Notes        *string      `json:"notes,omitempty"`
	Transit      *Transit     `json:"transit,omitempty"`
	ArrivalTime  *string      `json:"arrival_time,omitempty"`
	CostEstimate *string      `json:"cost_estimate,omitempty"`
	Rationale    *string      `json:"rationale,omitempty"`
	Rating       *float64     `json:"rating,omitempty"`
	GeoContext   *string      `json:"geo_context,omitempty"`
	Tips         []string     `json:"tips,omitempty"`
}

// Apply merges the patch into s and returns the result.
func (p StopPatch) Apply(s Stop) Stop {
	out := s.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Coordinates != nil {
		out.Coordinates = *p.Coordinates
	}
	if p.OpeningHours != nil {
		out.OpeningHours = *p.OpeningHours
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Notes != nil {
		out.Notes = *p.Notes
	}
	if p.Transit != nil {
		t := *p.Transit
		t.Steps = append([]string(nil), p.Transit.Steps...)
		out.Transit = &t
	}
	if p.ArrivalTime != nil {
		out.ArrivalTime = *p.ArrivalTime
	}
	if p.CostEstimate != nil {
		out.CostEstimate = *p.CostEstimate
	}
	if p.Rationale != nil {
		out.Rationale = *p.Rationale
	}
	if p.Rating != nil {
		out.Rating = *p.Rating
	}
	if p.GeoContext != nil {
		out.GeoContext = *p.GeoContext
	}
	if p.Tips != nil {
		out.Tips = append([]string(nil), p.Tips...)
	}
	return out
}
