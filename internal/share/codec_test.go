package share

import (
	"encoding/base64"
	"itinerary-route-service/internal/domain"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() State {
	return State{
		Config: domain.TripConfig{
			Origin:      "San Diego",
			Destination: "Los Angeles",
			StartDate:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC),
			Mode:        domain.ModeWalk,
			Pace:        domain.PacePower,
		},
		Days: [][]domain.Stop{
			{
				{ID: "s0", Name: "Union Station", Coordinates: domain.Coordinates{Lat: 34.0562, Lng: -118.2365}, OpeningHours: "04:00 - 01:00", DayIndex: 1},
				{ID: "a", Name: "Grand Central Market", Coordinates: domain.Coordinates{Lat: 34.0506, Lng: -118.2488}, DayIndex: 1,
					Transit: &domain.Transit{Mode: "Walk", Duration: "5 mins", Steps: []string{"Exit on Alameda"}}, Tips: []string{"Cash only"}},
			},
			{
				{ID: "b", Name: "Griffith Observatory", Coordinates: domain.Coordinates{Lat: 34.1184, Lng: -118.3004}, DayIndex: 2, Rating: 4.8},
			},
		},
	}
}

func newCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec()
	require.NoError(t, err)
	return c
}

func TestRoundTrip(t *testing.T) {
	c := newCodec(t)
	in := sampleState()

	token, err := c.Encode(in)
	require.NoError(t, err)
	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")
	assert.NotContains(t, token, "=")

	out, err := c.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	c := newCodec(t)

	valid, err := c.Encode(sampleState())
	require.NoError(t, err)

	badConfig := sampleState()
	badConfig.Config.EndDate = badConfig.Config.StartDate.AddDate(0, 0, -1)
	badConfigToken, err := c.Encode(badConfig)
	require.NoError(t, err)

	badStop := sampleState()
	badStop.Days[1][0].Coordinates.Lat = 123
	badStopToken, err := c.Encode(badStop)
	require.NoError(t, err)

	dupInDay := sampleState()
	dupInDay.Days[0][1].ID = "s0"
	dupInDayToken, err := c.Encode(dupInDay)
	require.NoError(t, err)

	dupAcrossDays := sampleState()
	dupAcrossDays.Days[1][0].ID = "a"
	dupAcrossDaysToken, err := c.Encode(dupAcrossDays)
	require.NoError(t, err)

	notZstd := base64.RawURLEncoding.EncodeToString([]byte(`{"config":{}}`))

	tests := map[string]string{
		"empty":        "",
		"not base64":   "!!!not-a-token!!!",
		"not zstd":     notZstd,
		"truncated":    valid[:len(valid)/2],
		"too long":     strings.Repeat("A", MaxTokenLength+1),
		"bad config":   badConfigToken,
		"bad stop":     badStopToken,
		"repeated id":  dupInDayToken,
		"id in 2 days": dupAcrossDaysToken,
		"std encoding": base64.StdEncoding.EncodeToString([]byte("x")),
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := c.Decode(token)
			assert.ErrorIs(t, err, ErrMalformedToken)
		})
	}
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	c := newCodec(t)
	raw := []byte(`{"v":9,"config":{},"days":[]}`)
	token := base64.RawURLEncoding.EncodeToString(c.enc.EncodeAll(raw, nil))

	_, err := c.Decode(token)
	assert.ErrorIs(t, err, ErrMalformedToken)
}
