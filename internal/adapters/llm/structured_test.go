package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderPayload struct {
	SortedIDs []string `json:"sorted_ids" validate:"required,min=1,dive,required"`
}

func TestExtractJSON_Clean(t *testing.T) {
	got, err := ExtractJSON[orderPayload](`{"sorted_ids":["a","b"]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.SortedIDs)
}

func TestExtractJSON_Fenced(t *testing.T) {
	raw := "```json\n{\"sorted_ids\":[\"a\",\"c\",\"b\"]}\n```"
	got, err := ExtractJSON[orderPayload](raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, got.SortedIDs)
}

func TestExtractJSON_SurroundingText(t *testing.T) {
	raw := "Here is the route:\n{\"sorted_ids\":[\"x\"]}\nEnjoy {your} trip"
	got, err := ExtractJSON[orderPayload](raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, got.SortedIDs)
}

func TestExtractJSON_BracesInStrings(t *testing.T) {
	type named struct {
		Name string `json:"name" validate:"required"`
	}
	got, err := ExtractJSON[named](`{"name":"Cafe {Central} \"}\""}`)
	require.NoError(t, err)
	assert.Equal(t, `Cafe {Central} "}"`, got.Name)
}

func TestExtractJSON_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "no json", raw: "I could not optimize this route."},
		{name: "broken", raw: `{"sorted_ids": [broken}`},
		{name: "missing field", raw: `{"order":["a"]}`},
		{name: "empty list", raw: `{"sorted_ids":[]}`},
		{name: "blank id", raw: `{"sorted_ids":["a",""]}`},
		{name: "unterminated", raw: `{"sorted_ids":["a"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractJSON[orderPayload](tt.raw)
			assert.ErrorIs(t, err, ErrInvalidOutput)
		})
	}
}
