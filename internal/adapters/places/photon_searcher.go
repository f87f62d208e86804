package places

import (
	"context"
	"encoding/json"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/platform/obs"
	"itinerary-route-service/internal/ports"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPhotonURL = "https://photon.komoot.io"
	defaultLimit     = 5
)

type photonResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Name    string `json:"name"`
			Street  string `json:"street"`
			City    string `json:"city"`
			State   string `json:"state"`
			Country string `json:"country"`
		} `json:"properties"`
	} `json:"features"`
}

// PhotonSearcher queries a Photon geocoder (komoot) for free-text places.
type PhotonSearcher struct {
	baseURL     string
	userAgent   string
	session     *http.Client
	maxAttempts int
	backoff     time.Duration
}

type Option func(*PhotonSearcher)

func WithHTTPClient(c *http.Client) Option {
	return func(p *PhotonSearcher) { p.session = c }
}

// WithRetry sets the attempt count and first backoff delay.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(p *PhotonSearcher) {
		if attempts > 0 {
			p.maxAttempts = attempts
		}
		p.backoff = backoff
	}
}

func NewPhotonSearcher(baseURL string, opts ...Option) *PhotonSearcher {
	if baseURL == "" {
		baseURL = DefaultPhotonURL
	}
	p := &PhotonSearcher{
		baseURL:     strings.TrimRight(baseURL, "/"),
		userAgent:   "itinerary-route-service/1.0",
		session:     &http.Client{Timeout: 10 * time.Second},
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *PhotonSearcher) Search(ctx context.Context, q ports.PlaceQuery) (_ []ports.Place, err error) {
	defer obs.Time(ctx, "photon.search")(&err)

	text := strings.TrimSpace(q.Text)
	if len([]rune(text)) < ports.MinPlaceQueryLength {
		return nil, ports.ErrQueryTooShort
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	endpoint := p.baseURL + "/api/"
	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := p.newRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		v := req.URL.Query()
		v.Set("q", text)
		v.Set("limit", strconv.Itoa(limit))
		if q.Bias != nil {
			v.Set("lat", strconv.FormatFloat(q.Bias.Lat, 'f', 5, 64))
			v.Set("lon", strconv.FormatFloat(q.Bias.Lng, 'f', 5, 64))
		}
		req.URL.RawQuery = v.Encode()
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded photonResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode photon response: %w", err)
	}

	out := make([]ports.Place, 0, len(decoded.Features))
	for _, f := range decoded.Features {
		coords := f.Geometry.Coordinates
		if len(coords) != 2 || f.Properties.Name == "" {
			continue
		}
		out = append(out, ports.Place{
			Name:        f.Properties.Name,
			Label:       label(f.Properties.Name, f.Properties.Street, f.Properties.City, f.Properties.State, f.Properties.Country),
			Coordinates: domain.Coordinates{Lat: coords[1], Lng: coords[0]},
		})
	}
	return out, nil
}

// label joins the non-empty address parts after the name.
func label(name string, parts ...string) string {
	out := []string{name}
	for _, s := range parts {
		if s != "" && s != name {
			out = append(out, s)
		}
	}
	return strings.Join(out, ", ")
}
