package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/manthysbr/tripplanner/internal/core/domain"
)

// FlightSearch backs the search_flights tool.
type FlightSearch struct {
	logger    *slog.Logger
	providers []domain.FlightProvider
	timeout   time.Duration
	now       func() time.Time
}

// NewFlightSearch queries providers in the given order.
func NewFlightSearch(logger *slog.Logger, timeout time.Duration, providers ...domain.FlightProvider) *FlightSearch {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &FlightSearch{logger: logger, providers: providers, timeout: timeout, now: time.Now}
}

// NewSearchFlightsTool creates the flight search tool
func NewSearchFlightsTool(fs *FlightSearch) *domain.Tool {
	return &domain.Tool{
		Name:        domain.ToolSearchFlights,
		Description: "Searches flight offers between two cities for the whole party. Returns the cheapest offers, the best one flagged, and two booking comparison links.",
		Parameters:  domain.SchemaFor[domain.SearchFlightsArgs](),
		Execute: func(ctx context.Context, intent domain.Intent) (string, error) {
			args, ok := intent.(*domain.SearchFlightsArgs)
			if !ok {
				return "", fmt.Errorf("unexpected arguments %T", intent)
			}
			return fs.Search(ctx, *args), nil
		},
	}
}

// Search runs the whole flight lookup and always returns a model-readable string.
func (fs *FlightSearch) Search(ctx context.Context, args domain.SearchFlightsArgs) string {
	originCode, okOrigin := LookupAirport(args.Origin)
	destCode, okDest := LookupAirport(args.Destination)
	if !okOrigin || !okDest {
		fs.logger.Warn("airport codes not found", "origin", args.Origin, "destination", args.Destination)
		return fmt.Sprintf("Airport codes not found for %s -> %s. Flights cannot be searched for this route.", args.Origin, args.Destination)
	}

	dates := ParseDateRange(args.DateRangeText, fs.now())
	if dates.Defaulted {
		fs.logger.Info("date text not recognized, using default window", "text", args.DateRangeText, "start", dates.StartISO())
	}

	q := domain.FlightQuery{
		Origin:      originCode,
		Destination: destCode,
		Outbound:    dates.StartISO(),
		Return:      dates.EndISO(),
		Adults:      max(int(args.Adults), 1),
		Children:    max(int(args.Children), 0),
	}

	var groups [][]domain.FlightOffer
	for _, p := range fs.providers {
		if !p.Available() {
			fs.logger.Debug("flight provider unavailable", "provider", p.Name())
			continue
		}
		offers, err := fs.query(ctx, p, q)
		if err != nil {
			fs.logger.Warn("flight provider failed", "provider", p.Name(), "error", err)
			continue
		}
		fs.logger.Info("flight provider answered", "provider", p.Name(), "offers", len(offers))
		groups = append(groups, offers)
	}

	if countOffers(groups) == 0 {
		groups = [][]domain.FlightOffer{FallbackOffers(q)}
	}

	return FormatOffers(MergeOffers(groups...), q, BuildDeepLinks(q))
}

func (fs *FlightSearch) query(ctx context.Context, p domain.FlightProvider, q domain.FlightQuery) ([]domain.FlightOffer, error) {
	ctx, cancel := context.WithTimeout(ctx, fs.timeout)
	defer cancel()
	return p.SearchFlights(ctx, q)
}

func countOffers(groups [][]domain.FlightOffer) int {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	return n
}
