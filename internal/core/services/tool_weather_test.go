package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/manthysbr/tripplanner/internal/core/domain"
)

type stubGeocoder struct {
	coords domain.Coordinates
	found  bool
	err    error
}

func (s stubGeocoder) Geocode(context.Context, string) (domain.Coordinates, bool, error) {
	return s.coords, s.found, s.err
}

type stubWeather struct {
	forecast domain.Forecast
	err      error
}

func (s stubWeather) Forecast(context.Context, float64, float64) (domain.Forecast, error) {
	return s.forecast, s.err
}

func TestWeatherCheck(t *testing.T) {
	denpasar := domain.Coordinates{Name: "Denpasar", Country: "Indonesia", Latitude: -8.65, Longitude: 115.22}

	tests := []struct {
		name     string
		geocoder stubGeocoder
		weather  stubWeather
		want     string
	}{
		{
			name:     "forecast",
			geocoder: stubGeocoder{coords: denpasar, found: true},
			weather: stubWeather{forecast: domain.Forecast{
				CurrentTemp: 29.5, ConditionCode: 2,
				TomorrowMax: 31, TomorrowMin: 24.2, TomorrowCode: 61,
			}},
			want: "Weather in Denpasar (Indonesia): currently 29.5°C, partly cloudy. Tomorrow: max 31.0°C, min 24.2°C, light rain.",
		},
		{
			name:     "unknown place",
			geocoder: stubGeocoder{found: false},
			want:     "Location not found: Bali. No weather available.",
		},
		{
			name:     "geocoding error",
			geocoder: stubGeocoder{err: errors.New("timeout")},
			want:     "Weather service unavailable for Bali: timeout",
		},
		{
			name:     "forecast error",
			geocoder: stubGeocoder{coords: denpasar, found: true},
			weather:  stubWeather{err: errors.New("status 503")},
			want:     "Weather service unavailable for Bali: status 503",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wc := NewWeatherCheck(testLogger(), tt.geocoder, tt.weather)
			assert.Equal(t, tt.want, wc.Check(context.Background(), "Bali"))
		})
	}
}

func TestWeatherLabel(t *testing.T) {
	assert.Equal(t, "clear sky", WeatherLabel(0))
	assert.Equal(t, "thunderstorm", WeatherLabel(95))
	assert.Equal(t, "conditions code 42", WeatherLabel(42))
}
