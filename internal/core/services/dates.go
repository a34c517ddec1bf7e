package services

import (
	"regexp"
	"strconv"
	"time"
)

const isoDate = "2006-01-02"

// DateRange is a normalized outbound/return pair.
type DateRange struct {
	Start     time.Time
	End       time.Time // zero when no return date is known
	Defaulted bool      // true when the text could not be parsed
}

// HasReturn reports whether a return date is set.
func (d DateRange) HasReturn() bool {
	return !d.End.IsZero()
}

// StartISO formats the outbound date.
func (d DateRange) StartISO() string {
	return d.Start.Format(isoDate)
}

// EndISO formats the return date, empty for one-way.
func (d DateRange) EndISO() string {
	if d.End.IsZero() {
		return ""
	}
	return d.End.Format(isoDate)
}

var monthNames = map[string]time.Month{
	"janvier": time.January, "fevrier": time.February, "mars": time.March, "avril": time.April,
	"mai": time.May, "juin": time.June, "juillet": time.July, "aout": time.August,
	"septembre": time.September, "octobre": time.October, "novembre": time.November, "decembre": time.December,
	"january": time.January, "february": time.February, "march": time.March, "april": time.April,
	"may": time.May, "june": time.June, "july": time.July, "august": time.August,
	"september": time.September, "october": time.October, "november": time.November, "december": time.December,
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"jun": time.June, "jul": time.July, "aug": time.August, "sep": time.September,
	"sept": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

var (
	isoRangeRe  = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})\s*(?:au|to|until|->|-|–|—)\s*(\d{4}-\d{2}-\d{2})`)
	isoSingleRe = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	// "du 15 au 30 decembre", "from 15 to 30 december", "15-30 december", "du 28 fevrier au 5 mars 2027"
	dayRangeRe = regexp.MustCompile(`(?:\bdu\s+|\bfrom\s+(?:the\s+)?)?\b(\d{1,2})(?:er|st|nd|rd|th)?(?:\s+([a-z]+))?\s*(?:\bau\b|\bto\b|\buntil\b|-|–|—)\s*(\d{1,2})(?:er|st|nd|rd|th)?\s+([a-z]+)(?:\s+(\d{4}))?`)
)

// ParseDateRange normalizes a free-text date expression. Unparseable text
// falls back to a 7-day trip starting 30 days after now.
func ParseDateRange(text string, now time.Time) DateRange {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	norm := foldText(text)

	if m := isoRangeRe.FindStringSubmatch(norm); m != nil {
		start, err1 := time.Parse(isoDate, m[1])
		end, err2 := time.Parse(isoDate, m[2])
		if err1 == nil && err2 == nil && !end.Before(start) {
			return DateRange{Start: start, End: end}
		}
	}

	if m := isoSingleRe.FindStringSubmatch(norm); m != nil {
		if start, err := time.Parse(isoDate, m[1]); err == nil {
			return DateRange{Start: start}
		}
	}

	if r, ok := parseDayRange(norm, today); ok {
		return r
	}

	start := today.AddDate(0, 0, 30)
	return DateRange{Start: start, End: start.AddDate(0, 0, 7), Defaulted: true}
}

func parseDayRange(norm string, today time.Time) (DateRange, bool) {
	for _, m := range dayRangeRe.FindAllStringSubmatch(norm, -1) {
		endMonth, ok := monthNames[m[4]]
		if !ok {
			continue
		}
		startMonth := endMonth
		if m[2] != "" {
			sm, ok := monthNames[m[2]]
			if !ok {
				continue
			}
			startMonth = sm
		}
		d1, _ := strconv.Atoi(m[1])
		d2, _ := strconv.Atoi(m[3])

		year := today.Year()
		explicitYear := m[5] != ""
		if explicitYear {
			year, _ = strconv.Atoi(m[5])
		}

		start, ok := makeDate(year, startMonth, d1)
		if !ok {
			continue
		}
		if !explicitYear && start.Before(today) {
			year++
			if start, ok = makeDate(year, startMonth, d1); !ok {
				continue
			}
		}
		// a range may cross new year: "du 28 decembre au 4 janvier"
		endYear := year
		if endMonth < startMonth {
			endYear++
		}
		end, ok := makeDate(endYear, endMonth, d2)
		if !ok || end.Before(start) {
			continue
		}
		return DateRange{Start: start, End: end}, true
	}
	return DateRange{}, false
}

func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}
