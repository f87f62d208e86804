// Package share turns a whole planning session into a single URL-safe token
// and back.
package share

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"itinerary-route-service/internal/domain"

	"github.com/klauspost/compress/zstd"
)

const (
	formatVersion = 1

	// MaxTokenLength bounds accepted tokens before any decoding work.
	MaxTokenLength = 256 << 10
	maxDecodedSize = 8 << 20
)

var ErrMalformedToken = errors.New("malformed share token")

// State is everything a token carries.
type State struct {
	Config domain.TripConfig `json:"config"`
	Days   [][]domain.Stop   `json:"days"`
}

type envelope struct {
	Version int               `json:"v"`
	Config  domain.TripConfig `json:"config"`
	Days    [][]domain.Stop   `json:"days"`
}

// Codec is safe for concurrent use.
type Codec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func NewCodec() (*Codec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("new share codec: encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxDecodedSize), zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("new share codec: decoder: %w", err)
	}
	return &Codec{enc: enc, dec: dec}, nil
}

// Encode serializes s as compressed JSON in unpadded base64url.
func (c *Codec) Encode(s State) (string, error) {
	raw, err := json.Marshal(envelope{Version: formatVersion, Config: s.Config, Days: s.Days})
	if err != nil {
		return "", fmt.Errorf("encode share token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(c.enc.EncodeAll(raw, nil)), nil
}

// Decode reverses Encode. Any token that does not decode to a valid trip with
// well-formed stops is rejected with ErrMalformedToken.
func (c *Codec) Decode(token string) (State, error) {
	if token == "" || len(token) > MaxTokenLength {
		return State{}, fmt.Errorf("%w: bad length", ErrMalformedToken)
	}

	compressed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	raw, err := c.dec.DecodeAll(compressed, nil)
	if err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if env.Version != formatVersion {
		return State{}, fmt.Errorf("%w: unsupported version %d", ErrMalformedToken, env.Version)
	}
	if err := env.Config.Validate(); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	// Ids must be unique across the whole token; the store treats a repeat
	// as a caller bug.
	seen := make(map[string]struct{})
	for d, day := range env.Days {
		for i, st := range day {
			if st.Name == "" || !st.Coordinates.Valid() {
				return State{}, fmt.Errorf("%w: day %d stop %d is incomplete", ErrMalformedToken, d+1, i+1)
			}
			if st.ID == "" {
				continue
			}
			if _, dup := seen[st.ID]; dup {
				return State{}, fmt.Errorf("%w: duplicate stop id %q", ErrMalformedToken, st.ID)
			}
			seen[st.ID] = struct{}{}
		}
	}

	return State{Config: env.Config, Days: env.Days}, nil
}
