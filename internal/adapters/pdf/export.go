package pdf

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/manthysbr/tripplanner/internal/core/domain"
)

// DefaultPrefix starts every exported file name.
const DefaultPrefix = "trip_plan"

// substitutions replaces characters the core PDF fonts cannot show.
var substitutions = strings.NewReplacer(
	"‘", "'", "’", "'", "‚", "'",
	"“", `"`, "”", `"`, "„", `"`,
	"«", `"`, "»", `"`,
	"–", "-", "—", "-", "−", "-",
	"…", "...",
	"\u00a0", " ", "\u202f", " ", "\u2009", " ",
	"→", "->", "←", "<-", "⇒", "=>",
	"•", "-", "●", "-", "▪", "-",
	"✅", "[x]", "❌", "[ ]",
	"✈️", "", "✈", "",
	"°C", " C",
)

var currencyCodes = map[string]string{"€": "EUR", "£": "GBP"}

var (
	prefixCurrencyRe = regexp.MustCompile(`([€£])[ \x{00A0}\x{202F}]*(\d)`)
	suffixCurrencyRe = regexp.MustCompile(`[ \x{00A0}\x{202F}]*([€£])`)
)

// spellCurrency writes currency signs as codes: "1215.00 €" and "1215€"
// become "1215.00 EUR" and "1215 EUR", "€90" becomes "EUR 90".
func spellCurrency(s string) string {
	s = prefixCurrencyRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := prefixCurrencyRe.FindStringSubmatch(m)
		return currencyCodes[sub[1]] + " " + sub[2]
	})
	return suffixCurrencyRe.ReplaceAllStringFunc(s, func(m string) string {
		return " " + currencyCodes[suffixCurrencyRe.FindStringSubmatch(m)[1]]
	})
}

var (
	headingRe    = regexp.MustCompile(`(?m)^[ \t]{0,3}#{1,6}[ \t]*`)
	boldRe       = regexp.MustCompile(`\*\*([^*]+)\*\*|__([^_]+)__`)
	italicRe     = regexp.MustCompile(`(^|[^*\w])\*([^*\n]+)\*`)
	bulletRe     = regexp.MustCompile(`(?m)^([ \t]*)[*+][ \t]+`)
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^)\s]+)\)`)
	ruleRe       = regexp.MustCompile(`(?m)^[ \t]*(?:-{3,}|\*{3,}|_{3,})[ \t]*$`)
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
)

// StripMarkdown removes heading, emphasis and code markers. Links keep their URL.
func StripMarkdown(s string) string {
	s = linkRe.ReplaceAllString(s, "$1 ($2)")
	s = headingRe.ReplaceAllString(s, "")
	s = ruleRe.ReplaceAllString(s, "")
	s = boldRe.ReplaceAllString(s, "$1$2")
	s = bulletRe.ReplaceAllString(s, "$1- ")
	s = italicRe.ReplaceAllString(s, "$1$2")
	s = strings.ReplaceAll(s, "`", "")
	s = blankLinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Sanitize applies the substitution table and strips markdown.
func Sanitize(s string) string {
	return StripMarkdown(substitutions.Replace(spellCurrency(s)))
}

// encodeCP1252 encodes text for the core fonts. It fails on any rune
// outside Windows-1252.
func encodeCP1252(s string) (string, error) {
	return charmap.Windows1252.NewEncoder().String(s)
}

// ASCIIOnly strips diacritics and drops every remaining non-ASCII rune.
func ASCIIOnly(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, folded)
}

// Exporter renders plans as A4 PDF documents.
type Exporter struct {
	prefix string
	now    func() time.Time
}

func NewExporter(prefix string) *Exporter {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Exporter{prefix: prefix, now: time.Now}
}

// Export renders the document and names it after the destination.
func (e *Exporter) Export(trip *domain.TripRequest, plan string) ([]byte, string, error) {
	data, err := Render(trip, plan)
	if err != nil {
		return nil, "", err
	}
	return data, FileName(e.prefix, trip.Destination, e.now()), nil
}

// Render lays out the trip metadata and the plan. Text is encoded as
// Windows-1252; if that fails anywhere the whole document is rendered ASCII-only.
func Render(trip *domain.TripRequest, plan string) ([]byte, error) {
	data, err := render(trip, plan, encodeCP1252)
	if err == nil {
		return data, nil
	}
	data, asciiErr := render(trip, plan, func(s string) (string, error) { return ASCIIOnly(s), nil })
	if asciiErr != nil {
		return nil, fmt.Errorf("render pdf: %w (ascii fallback: %v)", err, asciiErr)
	}
	return data, nil
}

type encoder func(string) (string, error)

func render(trip *domain.TripRequest, plan string, encode encoder) ([]byte, error) {
	var encErr error
	text := func(s string) string {
		out, err := encode(Sanitize(s))
		if err != nil && encErr == nil {
			encErr = err
		}
		return out
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, 15)
	doc.AliasNbPages("")
	doc.SetHeaderFunc(func() {
		doc.SetFont("Arial", "B", 15)
		doc.SetFillColor(200, 220, 255)
		doc.CellFormat(0, 10, "Autonomous Travel Plan", "", 1, "C", true, 0, "")
		doc.Ln(5)
	})
	doc.SetFooterFunc(func() {
		doc.SetY(-15)
		doc.SetFont("Arial", "I", 8)
		doc.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", doc.PageNo()), "", 0, "C", false, 0, "")
	})
	doc.AddPage()

	doc.SetFont("Arial", "B", 16)
	doc.CellFormat(0, 10, text("Destination: "+trip.Destination), "", 1, "L", false, 0, "")
	doc.Ln(2)

	doc.SetFont("Arial", "", 12)
	doc.CellFormat(0, 7, text("From: "+trip.Origin), "", 1, "", false, 0, "")
	doc.CellFormat(0, 7, text("Dates: "+orDash(trip.Dates)), "", 1, "", false, 0, "")
	doc.CellFormat(0, 7, text("Travelers: "+trip.Travelers.String()), "", 1, "", false, 0, "")
	doc.CellFormat(0, 7, text(fmt.Sprintf("Preferences: style '%s', budget '%s'",
		orDash(trip.Preferences.Style), orDash(trip.Preferences.Budget))), "", 1, "", false, 0, "")
	doc.Ln(5)

	doc.SetFont("Arial", "B", 14)
	doc.CellFormat(0, 10, "Detailed itinerary (self-corrected)", "", 1, "", false, 0, "")
	doc.SetFont("Arial", "", 11)
	doc.MultiCell(0, 6, text(plan), "", "", false)

	if encErr != nil {
		return nil, fmt.Errorf("encode text: %w", encErr)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

var unsafeNameRe = regexp.MustCompile(`[^A-Za-z0-9]+`)

// FileName returns <prefix>_<destination>_<YYYYMMDD>.pdf.
func FileName(prefix, destination string, date time.Time) string {
	dest := strings.Trim(unsafeNameRe.ReplaceAllString(ASCIIOnly(destination), "_"), "_")
	if dest == "" {
		dest = "trip"
	}
	return fmt.Sprintf("%s_%s_%s.pdf", prefix, dest, date.Format("20060102"))
}
