package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/manthysbr/tripplanner/internal/core/domain"
)

const maxInfoResults = 3

// TravelInfo backs the search_travel_info tool.
type TravelInfo struct {
	logger   *slog.Logger
	searcher domain.WebSearcher
}

func NewTravelInfo(logger *slog.Logger, searcher domain.WebSearcher) *TravelInfo {
	return &TravelInfo{logger: logger, searcher: searcher}
}

// NewSearchTravelInfoTool creates the travel information search tool
func NewSearchTravelInfoTool(ti *TravelInfo) *domain.Tool {
	return &domain.Tool{
		Name:        domain.ToolSearchTravelInfo,
		Description: "Searches the web for activities, hotels or practical information about the destination. Returns up to three results with titles and URLs.",
		Parameters:  domain.SchemaFor[domain.SearchInfoArgs](),
		Execute: func(ctx context.Context, intent domain.Intent) (string, error) {
			args, ok := intent.(*domain.SearchInfoArgs)
			if !ok {
				return "", fmt.Errorf("unexpected arguments %T", intent)
			}
			return ti.Search(ctx, args.Query, args.Destination), nil
		},
	}
}

// Search runs a query restricted to the destination.
func (ti *TravelInfo) Search(ctx context.Context, query, destination string) string {
	if ti.searcher == nil || !ti.searcher.Available() {
		return "Web search unavailable: no API key configured."
	}

	q := strings.TrimSpace(query)
	if d := strings.TrimSpace(destination); d != "" && !strings.Contains(strings.ToLower(q), strings.ToLower(d)) {
		q = q + " " + d
	}

	results, err := ti.searcher.Search(ctx, q, maxInfoResults)
	if err != nil {
		ti.logger.Warn("web search failed", "query", q, "error", err)
		return fmt.Sprintf("Web search failed for %q: %v", q, err)
	}
	if len(results) == 0 {
		return fmt.Sprintf("Nothing found for %q.", q)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Results for %q:\n", q)
	for i, r := range results {
		if i == maxInfoResults {
			break
		}
		fmt.Fprintf(&b, "- %s: %s\n", r.Title, r.Link)
	}
	return strings.TrimRight(b.String(), "\n")
}
