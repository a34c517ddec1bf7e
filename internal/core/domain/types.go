package domain

import (
	"context"
)

// ToolChoice controls whether the model may call tools.
type ToolChoice string

const (
	ToolChoiceAuto ToolChoice = "auto"
	ToolChoiceNone ToolChoice = "none"
)

// CompletionRequest is what the services hand to an LLM provider.
type CompletionRequest struct {
	Messages    []ChatMessage
	Tools       []ToolSchema
	ToolChoice  ToolChoice
	Temperature float64
	// JSONOutput constrains the response to a single JSON object.
	JSONOutput bool
}

// Completion is the model answer: either text or one or more tool invocations.
type Completion struct {
	Content   string
	ToolCalls []ToolInvocation
}

// HasToolCalls reports whether the model asked for tools.
func (c Completion) HasToolCalls() bool {
	return len(c.ToolCalls) > 0
}

// LLMProvider defines the interface for chat completion services
type LLMProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}

// FlightQuery is what a flight provider is asked for.
type FlightQuery struct {
	Origin      string // IATA code
	Destination string // IATA code
	Outbound    string // YYYY-MM-DD
	Return      string // YYYY-MM-DD, empty for one-way
	Adults      int
	Children    int
}

// FlightProvider returns offers for a query. A provider without credentials
// reports Available() == false and is skipped.
type FlightProvider interface {
	Name() string
	Available() bool
	SearchFlights(ctx context.Context, q FlightQuery) ([]FlightOffer, error)
}

// Coordinates is a resolved place.
type Coordinates struct {
	Name      string  `json:"name"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Geocoder resolves a place name. found is false when nothing matches.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (coords Coordinates, found bool, err error)
}

// Forecast is the current temperature plus the next-day range.
type Forecast struct {
	CurrentTemp   float64
	ConditionCode int
	TomorrowMax   float64
	TomorrowMin   float64
	TomorrowCode  int
}

// WeatherProvider returns a forecast for coordinates.
type WeatherProvider interface {
	Forecast(ctx context.Context, lat, lon float64) (Forecast, error)
}

// SearchResult is one web search hit.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// WebSearcher runs a web query.
type WebSearcher interface {
	Available() bool
	Search(ctx context.Context, query string, count int) ([]SearchResult, error)
}

// DocumentExporter renders a final plan into a downloadable document.
type DocumentExporter interface {
	Export(trip *TripRequest, plan string) (data []byte, fileName string, err error)
}
