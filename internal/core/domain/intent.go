package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// Tool names known to the planner.
const (
	ToolSearchFlights    = "search_flights"
	ToolCheckWeather     = "check_weather"
	ToolSearchTravelInfo = "search_travel_info"
)

// Intent is the closed set of tool requests the model can make.
type Intent interface {
	ToolName() string
	validate() error
}

// SearchFlightsArgs asks for flight offers between two cities.
type SearchFlightsArgs struct {
	Origin        string  `json:"origin" jsonschema:"Departure city, e.g. Paris"`
	Destination   string  `json:"destination" jsonschema:"Arrival city, e.g. Bali"`
	DateRangeText string  `json:"date_range_text" jsonschema:"Travel dates as written by the traveler, e.g. du 15 au 30 decembre or 2026-06-01"`
	Adults        FlexInt `json:"adults" jsonschema:"Number of adults (at least 1)"`
	Children      FlexInt `json:"children,omitempty" jsonschema:"Number of children, 0 when none"`
}

func (SearchFlightsArgs) ToolName() string { return ToolSearchFlights }

func (a *SearchFlightsArgs) validate() error {
	if strings.TrimSpace(a.Origin) == "" || strings.TrimSpace(a.Destination) == "" {
		return fmt.Errorf("origin and destination are required")
	}
	if a.Adults < 1 {
		a.Adults = 1
	}
	if a.Children < 0 {
		a.Children = 0
	}
	return nil
}

// CheckWeatherArgs asks for the forecast at a destination.
type CheckWeatherArgs struct {
	Destination string `json:"destination" jsonschema:"City or region to check, e.g. Bali"`
}

func (CheckWeatherArgs) ToolName() string { return ToolCheckWeather }

func (a *CheckWeatherArgs) validate() error {
	if strings.TrimSpace(a.Destination) == "" {
		return fmt.Errorf("destination is required")
	}
	return nil
}

// SearchInfoArgs asks for web results about a destination.
type SearchInfoArgs struct {
	Query       string `json:"query" jsonschema:"What to look for, e.g. best family activities"`
	Destination string `json:"destination" jsonschema:"Destination the search is restricted to"`
}

func (SearchInfoArgs) ToolName() string { return ToolSearchTravelInfo }

func (a *SearchInfoArgs) validate() error {
	if strings.TrimSpace(a.Query) == "" {
		return fmt.Errorf("query is required")
	}
	return nil
}

var intentDecoders = map[string]func(raw json.RawMessage) (Intent, error){
	ToolSearchFlights:    decodeInto[SearchFlightsArgs],
	ToolCheckWeather:     decodeInto[CheckWeatherArgs],
	ToolSearchTravelInfo: decodeInto[SearchInfoArgs],
}

type intentPtr[T any] interface {
	*T
	Intent
}

func decodeInto[T any, P intentPtr[T]](raw json.RawMessage) (Intent, error) {
	var args T
	if len(strings.TrimSpace(string(raw))) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, fmt.Errorf("decode arguments: %w", err)
		}
	}
	p := P(&args)
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// DecodeIntent turns a named tool call with JSON arguments into its typed variant.
func DecodeIntent(name string, raw json.RawMessage) (Intent, error) {
	decode, ok := intentDecoders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return decode(raw)
}

// IsKnownIntent reports whether name has a decoder.
func IsKnownIntent(name string) bool {
	_, ok := intentDecoders[name]
	return ok
}

// SchemaFor derives the JSON schema of an argument struct from its field tags.
func SchemaFor[T any]() ToolParameters {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		panic(fmt.Sprintf("schema for %T: %v", *new(T), err))
	}
	data, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("marshal schema: %v", err))
	}
	var params ToolParameters
	if err := json.Unmarshal(data, &params); err != nil {
		panic(fmt.Sprintf("unmarshal schema: %v", err))
	}
	return params
}

// FlexInt accepts JSON numbers, integral floats and numeric strings.
// Models are not always strict about argument types.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*f = FlexInt(n)
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != float64(int(v)) {
		return fmt.Errorf("not an integer: %s", string(data))
	}
	*f = FlexInt(int(v))
	return nil
}
