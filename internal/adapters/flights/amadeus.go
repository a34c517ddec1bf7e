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

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/manthysbr/tripplanner/internal/core/domain"
)

const (
	AmadeusTestURL       = "https://test.api.amadeus.com"
	AmadeusProductionURL = "https://api.amadeus.com"
)

// Amadeus queries the Amadeus Self-Service flight offers API.
type Amadeus struct {
	baseURL string
	enabled bool
	client  *http.Client
}

// NewAmadeus creates the provider. Without credentials it reports itself unavailable.
// The OAuth2 token is fetched on first use and refreshed by the token source.
func NewAmadeus(baseURL, clientID, clientSecret string, httpClient *http.Client) *Amadeus {
	if baseURL == "" {
		baseURL = AmadeusTestURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}

	a := &Amadeus{baseURL: baseURL, enabled: clientID != "" && clientSecret != ""}
	if !a.enabled {
		return a
	}

	cc := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     baseURL + "/v1/security/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	a.client = cc.Client(tokenCtx)
	a.client.Timeout = httpClient.Timeout
	return a
}

func (a *Amadeus) Name() string { return "amadeus" }

func (a *Amadeus) Available() bool { return a.enabled }

type amadeusResponse struct {
	Data []struct {
		ID    string `json:"id"`
		Price struct {
			GrandTotal string `json:"grandTotal"`
			Currency   string `json:"currency"`
		} `json:"price"`
		ValidatingAirlineCodes []string `json:"validatingAirlineCodes"`
		Itineraries            []struct {
			Segments []struct {
				CarrierCode string `json:"carrierCode"`
				Departure   struct {
					At string `json:"at"`
				} `json:"departure"`
				Arrival struct {
					At string `json:"at"`
				} `json:"arrival"`
			} `json:"segments"`
		} `json:"itineraries"`
	} `json:"data"`
	Dictionaries struct {
		Carriers map[string]string `json:"carriers"`
	} `json:"dictionaries"`
}

// SearchFlights calls /v2/shopping/flight-offers. Prices are totals for the party in EUR.
func (a *Amadeus) SearchFlights(ctx context.Context, q domain.FlightQuery) ([]domain.FlightOffer, error) {
	if !a.enabled {
		return nil, fmt.Errorf("%w: amadeus credentials not configured", domain.ErrToolUnavailable)
	}

	params := url.Values{}
	params.Set("originLocationCode", q.Origin)
	params.Set("destinationLocationCode", q.Destination)
	params.Set("departureDate", q.Outbound)
	if q.Return != "" {
		params.Set("returnDate", q.Return)
	}
	params.Set("adults", strconv.Itoa(max(q.Adults, 1)))
	if q.Children > 0 {
		params.Set("children", strconv.Itoa(q.Children))
	}
	params.Set("currencyCode", "EUR")
	params.Set("max", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/v2/shopping/flight-offers?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("amadeus request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: amadeus: %v", domain.ErrToolUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: amadeus returned %d: %s", domain.ErrToolUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload amadeusResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode amadeus response: %w", err)
	}

	offers := make([]domain.FlightOffer, 0, len(payload.Data))
	for _, d := range payload.Data {
		total, err := strconv.ParseFloat(d.Price.GrandTotal, 64)
		if err != nil {
			continue
		}
		offer := domain.FlightOffer{
			Source: domain.SourceAmadeus,
			Price:  domain.MoneyFromFloat(total, d.Price.Currency),
			Key:    "amadeus:" + d.ID,
		}
		code := ""
		if len(d.ValidatingAirlineCodes) > 0 {
			code = d.ValidatingAirlineCodes[0]
		}
		if len(d.Itineraries) > 0 {
			segs := d.Itineraries[0].Segments
			if len(segs) > 0 {
				offer.Departure = segs[0].Departure.At
				offer.Arrival = segs[len(segs)-1].Arrival.At
				offer.Stops = len(segs) - 1
				if code == "" {
					code = segs[0].CarrierCode
				}
			}
		}
		offer.Carrier = code
		if name, ok := payload.Dictionaries.Carriers[code]; ok && name != "" {
			offer.Carrier = name
		}
		offers = append(offers, offer)
	}
	return offers, nil
}
