package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"itinerary-route-service/internal/adapters/llm"
	"itinerary-route-service/internal/platform/obs"
	"itinerary-route-service/internal/ports"
)

// Hours sent for stops without opening hours.
const defaultHours = "09:00 - 17:00"

const systemInstruction = `You order the stops of one travel day.
Input: a JSON list of stops with id, name, lat, lng and opening hours.
Rules:
1. The first stop is the start point and must stay first.
2. Read every "hours" value. A venue that closes early must be visited early.
   A venue that opens late must be visited late. "24 Hours" is flexible.
3. Keep consecutive stops geographically close.
4. Return every id exactly once.
Reply with a JSON object: {"sorted_ids": ["<id>", ...]}`

type sequenceResponse struct {
	SortedIDs []string `json:"sorted_ids" validate:"required,min=1,dive,required"`
}

// Completer is the part of the llm client the oracle needs.
type Completer interface {
	CompleteJSON(ctx context.Context, system, user string) (string, error)
}

// OpenAIOracle asks a chat model for the visiting order. The reply is only
// checked for shape here; permutation checks belong to the caller.
type OpenAIOracle struct {
	llm Completer
}

func NewOpenAIOracle(c Completer) *OpenAIOracle {
	return &OpenAIOracle{llm: c}
}

func (o *OpenAIOracle) Sequence(ctx context.Context, req ports.SequencingRequest) (ids []string, err error) {
	defer obs.Time(ctx, "oracle.openai.sequence")(&err)

	if len(req.Waypoints) <= 2 {
		for _, w := range req.Waypoints {
			ids = append(ids, w.ID)
		}
		return ids, nil
	}

	prompt, err := buildPrompt(req)
	if err != nil {
		return nil, err
	}

	raw, err := o.llm.CompleteJSON(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, mapError(err)
	}

	resp, err := llm.ExtractJSON[sequenceResponse](raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrOracleMalformed, err)
	}
	return resp.SortedIDs, nil
}

func buildPrompt(req ports.SequencingRequest) (string, error) {
	stops := make([]ports.Waypoint, len(req.Waypoints))
	for i, w := range req.Waypoints {
		if w.OpeningHours == "" {
			w.OpeningHours = defaultHours
		}
		stops[i] = w
	}

	body, err := json.Marshal(stops)
	if err != nil {
		return "", fmt.Errorf("encode waypoints: %w", err)
	}

	start := stops[0]
	return fmt.Sprintf(
		"Optimize this route starting from %s (ID: %s).\nTravel mode: %s. Pace: %s.\nStops to visit:\n%s",
		start.Name, start.ID, req.Mode, req.Pace, body,
	), nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, llm.ErrTimeout):
		return fmt.Errorf("%w: %w", ports.ErrOracleTimeout, err)
	case errors.Is(err, llm.ErrInvalidOutput):
		return fmt.Errorf("%w: %w", ports.ErrOracleMalformed, err)
	default:
		return fmt.Errorf("%w: %w", ports.ErrOracleUnavailable, err)
	}
}
