package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/manthysbr/tripplanner/internal/core/domain"
)

const (
	GeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	ForecastURL  = "https://api.open-meteo.com/v1/forecast"
)

// OpenMeteo implements both domain.Geocoder and domain.WeatherProvider.
// The service needs no API key.
type OpenMeteo struct {
	geocodingURL string
	forecastURL  string
	client       *http.Client
}

func NewOpenMeteo(geocodingURL, forecastURL string, httpClient *http.Client) *OpenMeteo {
	if geocodingURL == "" {
		geocodingURL = GeocodingURL
	}
	if forecastURL == "" {
		forecastURL = ForecastURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &OpenMeteo{geocodingURL: geocodingURL, forecastURL: forecastURL, client: httpClient}
}

// Geocode returns the best match for place. found is false when nothing matches.
func (o *OpenMeteo) Geocode(ctx context.Context, place string) (domain.Coordinates, bool, error) {
	params := url.Values{}
	params.Set("name", place)
	params.Set("count", "1")
	params.Set("language", "en")
	params.Set("format", "json")

	var payload struct {
		Results []struct {
			Name      string  `json:"name"`
			Country   string  `json:"country"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := o.getJSON(ctx, o.geocodingURL+"?"+params.Encode(), &payload); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("geocode %q: %w", place, err)
	}
	if len(payload.Results) == 0 {
		return domain.Coordinates{}, false, nil
	}
	r := payload.Results[0]
	return domain.Coordinates{Name: r.Name, Country: r.Country, Latitude: r.Latitude, Longitude: r.Longitude}, true, nil
}

// Forecast returns the current conditions and tomorrow's range.
func (o *OpenMeteo) Forecast(ctx context.Context, lat, lon float64) (domain.Forecast, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	params.Set("current", "temperature_2m,weather_code")
	params.Set("daily", "temperature_2m_max,temperature_2m_min,weather_code")
	params.Set("forecast_days", "2")
	params.Set("timezone", "auto")

	var payload struct {
		Current struct {
			Temperature float64 `json:"temperature_2m"`
			WeatherCode int     `json:"weather_code"`
		} `json:"current"`
		Daily struct {
			Max  []float64 `json:"temperature_2m_max"`
			Min  []float64 `json:"temperature_2m_min"`
			Code []int     `json:"weather_code"`
		} `json:"daily"`
	}
	if err := o.getJSON(ctx, o.forecastURL+"?"+params.Encode(), &payload); err != nil {
		return domain.Forecast{}, fmt.Errorf("forecast: %w", err)
	}

	d := payload.Daily
	if len(d.Max) == 0 || len(d.Min) == 0 || len(d.Code) == 0 {
		return domain.Forecast{}, fmt.Errorf("forecast: daily data missing")
	}
	// index 1 is tomorrow; a one-day answer falls back to today
	day := min(1, len(d.Max)-1, len(d.Min)-1, len(d.Code)-1)

	return domain.Forecast{
		CurrentTemp:   payload.Current.Temperature,
		ConditionCode: payload.Current.WeatherCode,
		TomorrowMax:   d.Max[day],
		TomorrowMin:   d.Min[day],
		TomorrowCode:  d.Code[day],
	}, nil
}

func (o *OpenMeteo) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrToolUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: open-meteo returned %d", domain.ErrToolUnavailable, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
