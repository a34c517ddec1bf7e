package services

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/manthysbr/tripplanner/internal/core/domain"
)

const (
	maxListedOffers   = 6
	fallbackCurrency  = "EUR"
	fallbackBaseMinor = 45000 // 450.00 per adult
	fallbackStepMinor = 8500  // +85.00 per offer rank
)

var fallbackCarriers = []string{"Air France", "KLM", "Emirates", "Qatar Airways"}

// FallbackOffers synthesizes a deterministic set of offers used when no provider
// answers. Price = (base + step*i) * (adults + 0.7*children), computed in tenths
// so amounts stay exact.
func FallbackOffers(q domain.FlightQuery) []domain.FlightOffer {
	adults := max(q.Adults, 1)
	children := max(q.Children, 0)
	tenths := int64(adults*10 + children*7)

	offers := make([]domain.FlightOffer, 0, len(fallbackCarriers))
	for i, carrier := range fallbackCarriers {
		minor := (fallbackBaseMinor + fallbackStepMinor*int64(i)) * tenths / 10
		offers = append(offers, domain.FlightOffer{
			Source:    domain.SourceEstimate,
			Carrier:   carrier,
			Price:     domain.Money{Minor: minor, Currency: fallbackCurrency},
			Departure: fmt.Sprintf("%s %02d:00", q.Outbound, 7+3*i),
			Stops:     min(i, 2),
			Key:       fmt.Sprintf("estimate:%s:%s:%s", strings.ToLower(carrier), q.Origin, q.Destination),
		})
	}
	return offers
}

// DedupOffers keeps the first offer for each key. Applying it twice is a no-op.
func DedupOffers(offers []domain.FlightOffer) []domain.FlightOffer {
	return lo.UniqBy(offers, func(o domain.FlightOffer) string { return o.Key })
}

// MergeOffers concatenates provider results, removes duplicates and sorts by
// ascending price. Equal prices keep their arrival order.
func MergeOffers(groups ...[]domain.FlightOffer) []domain.FlightOffer {
	merged := DedupOffers(lo.Flatten(groups))
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Price.Minor < merged[j].Price.Minor
	})
	return merged
}

// DeepLink is an aggregate search URL on a booking site.
type DeepLink struct {
	Label string
	URL   string
}

// BuildDeepLinks returns the Google Flights and Skyscanner search URLs.
// Passenger parameters are only added when more than one person travels.
func BuildDeepLinks(q domain.FlightQuery) []DeepLink {
	multi := q.Adults+q.Children > 1

	gq := fmt.Sprintf("Flights from %s to %s on %s", q.Origin, q.Destination, q.Outbound)
	if q.Return != "" {
		gq += " through " + q.Return
	}
	gv := url.Values{}
	gv.Set("q", gq)
	gv.Set("curr", fallbackCurrency)
	if multi {
		gv.Set("adults", fmt.Sprint(q.Adults))
		if q.Children > 0 {
			gv.Set("children", fmt.Sprint(q.Children))
		}
	}
	google := "https://www.google.com/travel/flights?" + gv.Encode()

	sky := fmt.Sprintf("https://www.skyscanner.net/transport/flights/%s/%s/%s/",
		strings.ToLower(q.Origin), strings.ToLower(q.Destination), compactDate(q.Outbound))
	if q.Return != "" {
		sky += compactDate(q.Return) + "/"
	}
	if multi {
		sv := url.Values{}
		sv.Set("adultsv2", fmt.Sprint(q.Adults))
		if q.Children > 0 {
			sv.Set("childrenv2", strings.TrimSuffix(strings.Repeat("8|", q.Children), "|"))
		}
		sky += "?" + sv.Encode()
	}

	return []DeepLink{
		{Label: "Google Flights", URL: google},
		{Label: "Skyscanner", URL: sky},
	}
}

// compactDate turns 2026-12-15 into 261215.
func compactDate(iso string) string {
	s := strings.ReplaceAll(iso, "-", "")
	if len(s) == 8 {
		return s[2:]
	}
	return s
}

// FormatOffers renders the top offers, flags the cheapest one and appends the
// aggregate deep links. No per-offer link is ever included.
func FormatOffers(offers []domain.FlightOffer, q domain.FlightQuery, links []DeepLink) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Flights %s -> %s | outbound %s", q.Origin, q.Destination, q.Outbound)
	if q.Return != "" {
		fmt.Fprintf(&b, ", return %s", q.Return)
	}
	fmt.Fprintf(&b, " | %s\n", domain.Travelers{Adults: q.Adults, Children: q.Children})

	shown := offers
	if len(shown) > maxListedOffers {
		shown = shown[:maxListedOffers]
	}
	for i, o := range shown {
		flag := ""
		if i == 0 {
			flag = "[BEST] "
		}
		fmt.Fprintf(&b, "%d. %s%s: %s total", i+1, flag, o.Carrier, o.Price)
		if o.Departure != "" {
			fmt.Fprintf(&b, ", departs %s", o.Departure)
		}
		if o.Arrival != "" {
			fmt.Fprintf(&b, ", arrives %s", o.Arrival)
		}
		fmt.Fprintf(&b, ", %s (source: %s)\n", stopsLabel(o.Stops), o.Source)
	}

	allEstimates := lo.EveryBy(shown, func(o domain.FlightOffer) bool { return o.Source == domain.SourceEstimate })
	if len(shown) > 0 && allEstimates {
		b.WriteString("Note: live providers returned no offers; prices above are estimates.\n")
	}

	b.WriteString("Compare and book:\n")
	for _, l := range links {
		fmt.Fprintf(&b, "- %s: %s\n", l.Label, l.URL)
	}
	return strings.TrimRight(b.String(), "\n")
}

func stopsLabel(stops int) string {
	switch stops {
	case 0:
		return "direct"
	case 1:
		return "1 stop"
	default:
		return fmt.Sprintf("%d stops", stops)
	}
}
