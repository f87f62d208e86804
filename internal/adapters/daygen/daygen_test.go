package daygen

import (
	"context"
	"itinerary-route-service/internal/adapters/llm"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/ports"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trip() domain.TripConfig {
	return domain.TripConfig{
		Origin:      "San Diego",
		Destination: "Los Angeles",
		StartDate:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC),
		Mode:        domain.ModePublic,
		Pace:        domain.PaceRelaxed,
	}
}

func TestMockGenerator(t *testing.T) {
	stops, err := NewMockGenerator().GenerateDay(context.Background(), ports.DayRequest{Day: 2, Trip: trip()})
	require.NoError(t, err)
	require.Len(t, stops, 4)

	seen := map[string]bool{}
	for _, st := range stops {
		assert.False(t, seen[st.ID])
		seen[st.ID] = true
		assert.Equal(t, 2, st.DayIndex)
		assert.True(t, st.Coordinates.Valid())
	}
	assert.Equal(t, "Arrival at Union Station", stops[0].Name)
}

type fakeCompleter struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeCompleter) CompleteJSON(_ context.Context, _, user string) (string, error) {
	f.prompt = user
	return f.reply, f.err
}

const reply = `{"stops":[
 {"stop_name":"Griffith Observatory","arrival_time":"10:00","transport_method":"Metro + DASH",
  "transit_duration":"45 mins","transit_steps":["Red Line to Vermont/Sunset","DASH Observatory"],
  "cost_estimate":"$0","rationale":"Views over the basin.","category":"TOUR","geo_context":"Los Feliz",
  "rating":4.8,"opening_hours":"12:00 - 22:00","tactical_tips":["Closed Mondays"],
  "coordinates":{"lat":34.1184,"lng":-118.3004}},
 {"stop_name":"Musso & Frank Grill","category":"DINE","rating":4.5,
  "coordinates":{"lat":34.1017,"lng":-118.3353}}
]}`

func TestOpenAIGenerator(t *testing.T) {
	fc := &fakeCompleter{reply: reply}
	req := ports.DayRequest{Day: 2, Trip: trip(), PreviousStops: []string{"Union Station", "Grand Central Market"}}

	stops, err := NewOpenAIGenerator(fc).GenerateDay(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, stops, 2)

	first := stops[0]
	assert.Equal(t, "Griffith Observatory", first.Name)
	assert.Equal(t, domain.CategoryTour, first.Category)
	assert.Equal(t, 2, first.DayIndex)
	require.NotNil(t, first.Transit)
	assert.Equal(t, "45 mins", first.Transit.Duration)
	assert.Len(t, first.Transit.Steps, 2)
	assert.Equal(t, []string{"Closed Mondays"}, first.Tips)
	assert.Nil(t, stops[1].Transit)

	assert.Contains(t, fc.prompt, "DAY 2 of 3")
	assert.Contains(t, fc.prompt, "Do not visit these places again: Union Station, Grand Central Market.")
}

func TestOpenAIGeneratorDayOnePrompt(t *testing.T) {
	fc := &fakeCompleter{reply: reply}
	_, err := NewOpenAIGenerator(fc).GenerateDay(context.Background(), ports.DayRequest{Day: 1, Trip: trip()})
	require.NoError(t, err)

	assert.Contains(t, fc.prompt, "travelling from San Diego to Los Angeles")
	assert.NotContains(t, fc.prompt, "Do not visit")
}

func TestOpenAIGeneratorRejectsBadOutput(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{name: "no stops", reply: `{"stops":[]}`},
		{name: "unknown category", reply: `{"stops":[{"stop_name":"X","category":"PARTY","coordinates":{"lat":1,"lng":1}}]}`},
		{name: "missing coordinates", reply: `{"stops":[{"stop_name":"X"}]}`},
		{name: "not json", reply: `Here are some ideas for your day!`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOpenAIGenerator(&fakeCompleter{reply: tt.reply}).GenerateDay(context.Background(), ports.DayRequest{Day: 1, Trip: trip()})
			assert.ErrorIs(t, err, llm.ErrInvalidOutput)
		})
	}
}
