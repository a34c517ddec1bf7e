package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/manthysbr/tripplanner/internal/core/domain"
)

// wmoLabels maps WMO weather interpretation codes to short labels.
var wmoLabels = map[int]string{
	0: "clear sky", 1: "mainly clear", 2: "partly cloudy", 3: "overcast",
	45: "fog", 48: "rime fog",
	51: "light drizzle", 53: "drizzle", 55: "dense drizzle",
	56: "freezing drizzle", 57: "dense freezing drizzle",
	61: "light rain", 63: "rain", 65: "heavy rain",
	66: "freezing rain", 67: "heavy freezing rain",
	71: "light snow", 73: "snow", 75: "heavy snow", 77: "snow grains",
	80: "light showers", 81: "showers", 82: "violent showers",
	85: "snow showers", 86: "heavy snow showers",
	95: "thunderstorm", 96: "thunderstorm with hail", 99: "thunderstorm with heavy hail",
}

// WeatherLabel returns a readable label for a WMO code.
func WeatherLabel(code int) string {
	if label, ok := wmoLabels[code]; ok {
		return label
	}
	return fmt.Sprintf("conditions code %d", code)
}

// WeatherCheck backs the check_weather tool.
type WeatherCheck struct {
	logger   *slog.Logger
	geocoder domain.Geocoder
	weather  domain.WeatherProvider
}

func NewWeatherCheck(logger *slog.Logger, geocoder domain.Geocoder, weather domain.WeatherProvider) *WeatherCheck {
	return &WeatherCheck{logger: logger, geocoder: geocoder, weather: weather}
}

// NewCheckWeatherTool creates the weather tool
func NewCheckWeatherTool(wc *WeatherCheck) *domain.Tool {
	return &domain.Tool{
		Name:        domain.ToolCheckWeather,
		Description: "Returns the current temperature and tomorrow's forecast at a destination.",
		Parameters:  domain.SchemaFor[domain.CheckWeatherArgs](),
		Execute: func(ctx context.Context, intent domain.Intent) (string, error) {
			args, ok := intent.(*domain.CheckWeatherArgs)
			if !ok {
				return "", fmt.Errorf("unexpected arguments %T", intent)
			}
			return wc.Check(ctx, args.Destination), nil
		},
	}
}

// Check geocodes the destination and summarizes the forecast. Failures are
// reported in the returned text.
func (wc *WeatherCheck) Check(ctx context.Context, destination string) string {
	place, found, err := wc.geocoder.Geocode(ctx, destination)
	if err != nil {
		wc.logger.Warn("geocoding failed", "destination", destination, "error", err)
		return fmt.Sprintf("Weather service unavailable for %s: %v", destination, err)
	}
	if !found {
		return fmt.Sprintf("Location not found: %s. No weather available.", destination)
	}

	fc, err := wc.weather.Forecast(ctx, place.Latitude, place.Longitude)
	if err != nil {
		wc.logger.Warn("forecast failed", "destination", destination, "error", err)
		return fmt.Sprintf("Weather service unavailable for %s: %v", destination, err)
	}

	name := place.Name
	if place.Country != "" {
		name = fmt.Sprintf("%s (%s)", place.Name, place.Country)
	}
	return fmt.Sprintf("Weather in %s: currently %.1f°C, %s. Tomorrow: max %.1f°C, min %.1f°C, %s.",
		name, fc.CurrentTemp, WeatherLabel(fc.ConditionCode),
		fc.TomorrowMax, fc.TomorrowMin, WeatherLabel(fc.TomorrowCode))
}
