package flights

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/manthysbr/tripplanner/internal/core/domain"
)

const SerpAPIURL = "https://serpapi.com/search.json"

// GoogleFlights queries Google Flights results through SerpApi.
type GoogleFlights struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewGoogleFlights(endpoint, apiKey string, httpClient *http.Client) *GoogleFlights {
	if endpoint == "" {
		endpoint = SerpAPIURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &GoogleFlights{endpoint: endpoint, apiKey: apiKey, client: httpClient}
}

func (g *GoogleFlights) Name() string { return "google_flights" }

func (g *GoogleFlights) Available() bool { return g.apiKey != "" }

type serpFlightGroup struct {
	Flights []struct {
		Airline          string `json:"airline"`
		DepartureAirport struct {
			Time string `json:"time"`
		} `json:"departure_airport"`
		ArrivalAirport struct {
			Time string `json:"time"`
		} `json:"arrival_airport"`
	} `json:"flights"`
	Price int `json:"price"`
}

type serpResponse struct {
	Error        string            `json:"error"`
	BestFlights  []serpFlightGroup `json:"best_flights"`
	OtherFlights []serpFlightGroup `json:"other_flights"`
}

// SearchFlights runs an engine=google_flights search priced in EUR.
func (g *GoogleFlights) SearchFlights(ctx context.Context, q domain.FlightQuery) ([]domain.FlightOffer, error) {
	if !g.Available() {
		return nil, fmt.Errorf("%w: serpapi key not configured", domain.ErrToolUnavailable)
	}

	params := url.Values{}
	params.Set("engine", "google_flights")
	params.Set("departure_id", q.Origin)
	params.Set("arrival_id", q.Destination)
	params.Set("outbound_date", q.Outbound)
	if q.Return != "" {
		params.Set("return_date", q.Return)
		params.Set("type", "1")
	} else {
		params.Set("type", "2")
	}
	params.Set("adults", strconv.Itoa(max(q.Adults, 1)))
	if q.Children > 0 {
		params.Set("children", strconv.Itoa(q.Children))
	}
	params.Set("currency", "EUR")
	params.Set("hl", "en")
	params.Set("api_key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("serpapi request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: serpapi: %v", domain.ErrToolUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: serpapi returned %d: %s", domain.ErrToolUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode serpapi response: %w", err)
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("%w: serpapi: %s", domain.ErrToolUnavailable, payload.Error)
	}

	groups := lo.Flatten([][]serpFlightGroup{payload.BestFlights, payload.OtherFlights})
	offers := make([]domain.FlightOffer, 0, len(groups))
	for _, grp := range groups {
		if len(grp.Flights) == 0 || grp.Price <= 0 {
			continue
		}
		first, last := grp.Flights[0], grp.Flights[len(grp.Flights)-1]
		offers = append(offers, domain.FlightOffer{
			Source:    domain.SourceGoogleFlights,
			Carrier:   first.Airline,
			Price:     domain.Money{Minor: int64(grp.Price) * 100, Currency: "EUR"},
			Departure: first.DepartureAirport.Time,
			Arrival:   last.ArrivalAirport.Time,
			Stops:     len(grp.Flights) - 1,
			Key:       fmt.Sprintf("google_flights:%s:%s:%d", first.Airline, first.DepartureAirport.Time, grp.Price),
		})
	}
	return offers, nil
}
