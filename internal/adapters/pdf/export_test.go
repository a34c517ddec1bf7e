package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manthysbr/tripplanner/internal/core/domain"
)

func testTrip(t *testing.T, destination string) *domain.TripRequest {
	t.Helper()
	trip, err := domain.NewTripRequest("Paris", destination, "du 15 au 30 décembre",
		domain.Travelers{Adults: 2, Children: 1},
		domain.Preferences{Style: "détente", Budget: "medium"},
		"raw", "")
	require.NoError(t, err)
	return trip
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"euro sign", "1215.00 €", "1215.00 EUR"},
		{"euro sign attached", "Air France 1200€, KLM", "Air France 1200 EUR, KLM"},
		{"euro sign before amount", "from €90 per night", "from EUR 90 per night"},
		{"pound after no-break space", "80\u00a0£", "80 GBP"},
		{"smart quotes", "“Best” ‘deal’", `"Best" 'deal'`},
		{"dashes and ellipsis", "Paris – Bali — soon…", "Paris - Bali - soon..."},
		{"heading", "### Flights\nText", "Flights\nText"},
		{"bold and italic", "**Day 1**: *beach* and __temple__", "Day 1: beach and temple"},
		{"bullets", "* one\n  + two", "- one\n  - two"},
		{"inline code", "Use `CDG`", "Use CDG"},
		{"markdown link keeps url", "[Google Flights](https://www.google.com/travel/flights?q=x)", "Google Flights (https://www.google.com/travel/flights?q=x)"},
		{"arrow", "CDG → DPS", "CDG -> DPS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestASCIIOnly(t *testing.T) {
	assert.Equal(t, "Decembre a Sao Paulo ", ASCIIOnly("Décembre à São Paulo 東京"))
}

func TestEncodeCP1252(t *testing.T) {
	out, err := encodeCP1252("décembre")
	require.NoError(t, err)
	assert.Equal(t, "d\xe9cembre", out)

	_, err = encodeCP1252("東京")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	trip := testTrip(t, "Bali")
	data, err := Render(trip, "## Flights\n1. [BEST] Air France: 1215.00 EUR total\n- Google Flights: https://www.google.com/travel/flights?q=x")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRender_ASCIIFallback(t *testing.T) {
	trip := testTrip(t, "Tokyo")
	data, err := Render(trip, "Visit 浅草寺 temple, then enjoy ramen 🍜.")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestFileName(t *testing.T) {
	date := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "trip_plan_Bali_20261015.pdf", FileName(DefaultPrefix, "Bali", date))
	assert.Equal(t, "trip_plan_Sao_Paulo_Bresil_20261015.pdf", FileName(DefaultPrefix, "São Paulo (Brésil)", date))
	assert.Equal(t, "plan_trip_20261015.pdf", FileName("plan", "東京", date))
}

func TestExporter_Export(t *testing.T) {
	e := NewExporter("")
	e.now = func() time.Time { return time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC) }

	data, name, err := e.Export(testTrip(t, "Bali"), "Plan")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "trip_plan_Bali_20261201.pdf", name)
}
