package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TripID identifies a single planning request for log and trace correlation.
type TripID string

// DefaultOrigin is the home city used when the traveler does not name one.
const DefaultOrigin = "Paris"

// Travelers counts the people in the party.
type Travelers struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

// Total returns the number of people travelling.
func (t Travelers) Total() int {
	return t.Adults + t.Children
}

// String renders the party as "2 adults, 1 child".
func (t Travelers) String() string {
	return fmt.Sprintf("%s, %s", plural(t.Adults, "adult", "adults"), plural(t.Children, "child", "children"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// Preferences holds the free-text travel style and budget categories.
type Preferences struct {
	Style  string `json:"style"`
	Budget string `json:"budget"`
}

// TripRequest is the structured form of a user's free-text trip description.
// It is created once by the request parser and never mutated afterwards.
type TripRequest struct {
	ID          TripID      `json:"id"`
	Origin      string      `json:"origin"`
	Destination string      `json:"destination"`
	Dates       string      `json:"dates"`
	Travelers   Travelers   `json:"travelers"`
	Preferences Preferences `json:"preferences"`
	RawInput    string      `json:"raw_input"`
	CreatedAt   time.Time   `json:"created_at"`
}

// NewTripRequest builds a TripRequest, applying the defaulting rules:
// a blank origin becomes homeCity (or DefaultOrigin), adults below one become one,
// negative children become zero.
func NewTripRequest(origin, destination, dates string, travelers Travelers, prefs Preferences, rawInput, homeCity string) (*TripRequest, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return nil, &ParseError{Reason: "destination is missing"}
	}

	origin = strings.TrimSpace(origin)
	if origin == "" {
		origin = strings.TrimSpace(homeCity)
	}
	if origin == "" {
		origin = DefaultOrigin
	}
	if travelers.Adults < 1 {
		travelers.Adults = 1
	}
	if travelers.Children < 0 {
		travelers.Children = 0
	}

	return &TripRequest{
		ID:          TripID(uuid.New().String()),
		Origin:      origin,
		Destination: destination,
		Dates:       strings.TrimSpace(dates),
		Travelers:   travelers,
		Preferences: Preferences{
			Style:  strings.TrimSpace(prefs.Style),
			Budget: strings.TrimSpace(prefs.Budget),
		},
		RawInput:  rawInput,
		CreatedAt: time.Now(),
	}, nil
}

// Summary is a one-paragraph description used in prompts.
func (t *TripRequest) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Origin: %s\n", t.Origin)
	fmt.Fprintf(&b, "Destination: %s\n", t.Destination)
	fmt.Fprintf(&b, "Dates: %s\n", orNotSpecified(t.Dates))
	fmt.Fprintf(&b, "Travelers: %s (%d in total)\n", t.Travelers, t.Travelers.Total())
	fmt.Fprintf(&b, "Style: %s\n", orNotSpecified(t.Preferences.Style))
	fmt.Fprintf(&b, "Budget: %s\n", orNotSpecified(t.Preferences.Budget))
	return b.String()
}

func orNotSpecified(s string) string {
	if s == "" {
		return "not specified"
	}
	return s
}
