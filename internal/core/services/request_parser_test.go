package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manthysbr/tripplanner/internal/core/domain"
)

func TestRequestParser_Parse(t *testing.T) {
	llm := newScriptedLLM(textReply(`{
		"origin": "Lyon",
		"destination": "Bali",
		"dates": "du 15 au 30 decembre",
		"travelers": {"adults": "2", "children": 1.0},
		"preferences": {"style": "relaxing", "budget": "medium"}
	}`))
	parser := NewRequestParser(testLogger(), llm, nil, "Paris")

	trip, err := parser.Parse(context.Background(), "Lyon - Bali du 15 au 30 decembre, 2 adultes 1 enfant")
	require.NoError(t, err)

	assert.NotEmpty(t, trip.ID)
	assert.Equal(t, "Lyon", trip.Origin)
	assert.Equal(t, "Bali", trip.Destination)
	assert.Equal(t, "du 15 au 30 decembre", trip.Dates)
	assert.Equal(t, domain.Travelers{Adults: 2, Children: 1}, trip.Travelers)
	assert.Equal(t, "relaxing", trip.Preferences.Style)
	assert.Equal(t, "Lyon - Bali du 15 au 30 decembre, 2 adultes 1 enfant", trip.RawInput)

	req := llm.requests[0]
	assert.True(t, req.JSONOutput)
	assert.Zero(t, req.Temperature)
	assert.Contains(t, req.Messages[0].Content, `use "Paris" as origin`)
}

func TestRequestParser_DefaultsAndCodeFence(t *testing.T) {
	llm := newScriptedLLM(textReply("```json\n{\"destination\": \"Tokyo\", \"travelers\": {\"adults\": 0}}\n```"))
	parser := NewRequestParser(testLogger(), llm, nil, "Marseille")

	trip, err := parser.Parse(context.Background(), "Tokyo en avril")
	require.NoError(t, err)

	assert.Equal(t, "Marseille", trip.Origin)
	assert.Equal(t, 1, trip.Travelers.Adults)
	assert.Equal(t, 0, trip.Travelers.Children)
}

func TestRequestParser_Errors(t *testing.T) {
	t.Run("empty input skips the model", func(t *testing.T) {
		llm := newScriptedLLM()
		_, err := NewRequestParser(testLogger(), llm, nil, "").Parse(context.Background(), "  ")

		var parseErr *domain.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Zero(t, llm.calls())
	})

	t.Run("malformed json", func(t *testing.T) {
		llm := newScriptedLLM(textReply("Sure! You want to go to Bali."))
		_, err := NewRequestParser(testLogger(), llm, nil, "").Parse(context.Background(), "Bali")

		var parseErr *domain.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "Sure! You want to go to Bali.", parseErr.Raw)
	})

	t.Run("missing destination", func(t *testing.T) {
		llm := newScriptedLLM(textReply(`{"origin": "Paris"}`))
		_, err := NewRequestParser(testLogger(), llm, nil, "").Parse(context.Background(), "somewhere")

		var parseErr *domain.ParseError
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("model unreachable", func(t *testing.T) {
		llm := newScriptedLLM(errReply(errors.New("dial tcp: connection refused")))
		_, err := NewRequestParser(testLogger(), llm, nil, "").Parse(context.Background(), "Bali")

		var callErr *domain.ModelCallError
		require.ErrorAs(t, err, &callErr)
		assert.Equal(t, "parse", callErr.Stage)
		assert.Equal(t, 1, llm.calls())
	})
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`  {"a":1} `))
}
