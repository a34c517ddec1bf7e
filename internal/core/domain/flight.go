package domain

import (
	"fmt"
	"math"
)

// Money is an amount in minor units (cents) tagged with an ISO currency code.
// Live provider quotes and synthetic estimates share this representation.
type Money struct {
	Minor    int64  `json:"minor"`
	Currency string `json:"currency"`
}

// MoneyFromFloat converts a decimal amount, rounding to the nearest cent.
func MoneyFromFloat(amount float64, currency string) Money {
	return Money{Minor: int64(math.Round(amount * 100)), Currency: currency}
}

// Float returns the decimal amount.
func (m Money) Float() float64 {
	return float64(m.Minor) / 100
}

// String renders "1215.00 EUR".
func (m Money) String() string {
	sign := ""
	minor := m.Minor
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, minor/100, minor%100, m.Currency)
}

// OfferSource labels where an offer came from.
type OfferSource string

const (
	SourceGoogleFlights OfferSource = "google_flights"
	SourceAmadeus       OfferSource = "amadeus"
	SourceEstimate      OfferSource = "estimate"
)

// FlightOffer is a single priced itinerary for the whole party.
type FlightOffer struct {
	Source    OfferSource `json:"source"`
	Carrier   string      `json:"carrier"`
	Price     Money       `json:"price"`
	Departure string      `json:"departure"`
	Arrival   string      `json:"arrival"`
	Stops     int         `json:"stops"`
	// Key identifies an offer across sources for deduplication.
	Key string `json:"key"`
}
