package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// airportCodes maps folded city names to their main airport.
var airportCodes = map[string]string{
	// France
	"paris": "CDG", "lyon": "LYS", "marseille": "MRS", "nice": "NCE", "toulouse": "TLS",
	"bordeaux": "BOD", "nantes": "NTE", "lille": "LIL", "strasbourg": "SXB", "montpellier": "MPL",
	// Europe
	"london": "LHR", "londres": "LHR", "madrid": "MAD", "barcelona": "BCN", "barcelone": "BCN",
	"lisbon": "LIS", "lisbonne": "LIS", "rome": "FCO", "milan": "MXP", "venice": "VCE", "venise": "VCE",
	"berlin": "BER", "munich": "MUC", "amsterdam": "AMS", "brussels": "BRU", "bruxelles": "BRU",
	"geneva": "GVA", "geneve": "GVA", "zurich": "ZRH", "vienna": "VIE", "vienne": "VIE",
	"prague": "PRG", "athens": "ATH", "athenes": "ATH", "dublin": "DUB", "copenhagen": "CPH",
	"copenhague": "CPH", "stockholm": "ARN", "oslo": "OSL", "reykjavik": "KEF", "istanbul": "IST",
	// Africa & Middle East
	"marrakech": "RAK", "casablanca": "CMN", "tunis": "TUN", "cairo": "CAI", "le caire": "CAI",
	"dubai": "DXB", "doha": "DOH", "cape town": "CPT", "le cap": "CPT", "nairobi": "NBO",
	"dakar": "DSS", "mauritius": "MRU", "ile maurice": "MRU", "maurice": "MRU", "reunion": "RUN",
	// Asia & Oceania
	"bali": "DPS", "denpasar": "DPS", "bangkok": "BKK", "phuket": "HKT", "tokyo": "HND",
	"osaka": "KIX", "kyoto": "KIX", "seoul": "ICN", "seoul incheon": "ICN", "singapore": "SIN",
	"singapour": "SIN", "hong kong": "HKG", "beijing": "PEK", "pekin": "PEK", "shanghai": "PVG",
	"hanoi": "HAN", "ho chi minh": "SGN", "kuala lumpur": "KUL", "manila": "MNL", "manille": "MNL",
	"delhi": "DEL", "new delhi": "DEL", "mumbai": "BOM", "colombo": "CMB", "male": "MLE",
	"maldives": "MLE", "sydney": "SYD", "melbourne": "MEL", "auckland": "AKL", "papeete": "PPT",
	"tahiti": "PPT",
	// Americas
	"new york": "JFK", "los angeles": "LAX", "san francisco": "SFO", "miami": "MIA",
	"chicago": "ORD", "las vegas": "LAS", "montreal": "YUL", "quebec": "YQB", "toronto": "YYZ",
	"vancouver": "YVR", "mexico": "MEX", "cancun": "CUN", "havana": "HAV", "la havane": "HAV",
	"rio de janeiro": "GIG", "sao paulo": "GRU", "buenos aires": "EZE", "lima": "LIM",
	"bogota": "BOG", "punta cana": "PUJ", "pointe-a-pitre": "PTP", "guadeloupe": "PTP",
	"fort-de-france": "FDF", "martinique": "FDF",
}

var knownCodes = func() map[string]bool {
	codes := make(map[string]bool, len(airportCodes))
	for _, code := range airportCodes {
		codes[code] = true
	}
	return codes
}()

// foldText lowercases and strips diacritics: "Décembre" -> "decembre".
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// LookupAirport resolves a city name (or an already known IATA code) to an
// airport code. Matching is case-insensitive and ignores accents.
func LookupAirport(city string) (string, bool) {
	trimmed := strings.TrimSpace(city)
	if len(trimmed) == 3 && strings.ToUpper(trimmed) == trimmed && knownCodes[trimmed] {
		return trimmed, true
	}

	key := foldText(trimmed)
	if code, ok := airportCodes[key]; ok {
		return code, true
	}
	// "Bali, Indonesie" or "Tokyo (Japon)": try the leading place name
	if i := strings.IndexAny(key, ",("); i > 0 {
		if code, ok := airportCodes[strings.TrimSpace(key[:i])]; ok {
			return code, true
		}
	}
	return "", false
}
