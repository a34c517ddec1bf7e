package flights

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manthysbr/tripplanner/internal/core/domain"
)

var testQuery = domain.FlightQuery{
	Origin:      "CDG",
	Destination: "DPS",
	Outbound:    "2026-12-15",
	Return:      "2026-12-30",
	Adults:      2,
	Children:    1,
}

func TestAmadeus_Unavailable(t *testing.T) {
	a := NewAmadeus("", "", "", nil)
	assert.False(t, a.Available())

	_, err := a.SearchFlights(context.Background(), testQuery)
	assert.ErrorIs(t, err, domain.ErrToolUnavailable)
}

func TestAmadeus_SearchFlights(t *testing.T) {
	var tokenCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "id", r.PostForm.Get("client_id"))
		assert.Equal(t, "secret", r.PostForm.Get("client_secret"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":1799}`))
	})
	mux.HandleFunc("/v2/shopping/flight-offers", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		q := r.URL.Query()
		assert.Equal(t, "CDG", q.Get("originLocationCode"))
		assert.Equal(t, "DPS", q.Get("destinationLocationCode"))
		assert.Equal(t, "2026-12-30", q.Get("returnDate"))
		assert.Equal(t, "2", q.Get("adults"))
		assert.Equal(t, "1", q.Get("children"))
		assert.Equal(t, "EUR", q.Get("currencyCode"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [{
				"id": "1",
				"price": {"grandTotal": "2450.37", "currency": "EUR"},
				"validatingAirlineCodes": ["QR"],
				"itineraries": [{"segments": [
					{"carrierCode": "QR", "departure": {"at": "2026-12-15T10:00:00"}, "arrival": {"at": "2026-12-15T19:00:00"}},
					{"carrierCode": "QR", "departure": {"at": "2026-12-15T21:00:00"}, "arrival": {"at": "2026-12-16T12:00:00"}}
				]}]
			}],
			"dictionaries": {"carriers": {"QR": "QATAR AIRWAYS"}}
		}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := NewAmadeus(srv.URL, "id", "secret", srv.Client())
	require.True(t, a.Available())

	offers, err := a.SearchFlights(context.Background(), testQuery)
	require.NoError(t, err)
	require.Len(t, offers, 1)

	o := offers[0]
	assert.Equal(t, domain.SourceAmadeus, o.Source)
	assert.Equal(t, "QATAR AIRWAYS", o.Carrier)
	assert.Equal(t, domain.Money{Minor: 245037, Currency: "EUR"}, o.Price)
	assert.Equal(t, 1, o.Stops)
	assert.Equal(t, "2026-12-15T10:00:00", o.Departure)
	assert.Equal(t, "2026-12-16T12:00:00", o.Arrival)
	assert.Equal(t, "amadeus:1", o.Key)
	assert.Equal(t, int32(1), tokenCalls.Load())
}

func TestAmadeus_ErrorStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":1799}`))
	})
	mux.HandleFunc("/v2/shopping/flight-offers", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := NewAmadeus(srv.URL, "id", "secret", srv.Client()).SearchFlights(context.Background(), testQuery)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrToolUnavailable)
	assert.Contains(t, err.Error(), "429")
}

func TestGoogleFlights_SearchFlights(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "google_flights", q.Get("engine"))
		assert.Equal(t, "CDG", q.Get("departure_id"))
		assert.Equal(t, "DPS", q.Get("arrival_id"))
		assert.Equal(t, "1", q.Get("type"))
		assert.Equal(t, "key", q.Get("api_key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"best_flights": [{
				"flights": [
					{"airline": "Emirates", "departure_airport": {"time": "2026-12-15 14:30"}, "arrival_airport": {"time": "2026-12-15 23:55"}},
					{"airline": "Emirates", "departure_airport": {"time": "2026-12-16 03:00"}, "arrival_airport": {"time": "2026-12-16 16:40"}}
				],
				"price": 2310
			}],
			"other_flights": [{
				"flights": [{"airline": "Singapore Airlines", "departure_airport": {"time": "2026-12-15 11:00"}, "arrival_airport": {"time": "2026-12-16 09:00"}}],
				"price": 2590
			}, {
				"flights": [],
				"price": 100
			}]
		}`))
	}))
	defer srv.Close()

	g := NewGoogleFlights(srv.URL, "key", srv.Client())
	offers, err := g.SearchFlights(context.Background(), testQuery)
	require.NoError(t, err)
	require.Len(t, offers, 2)

	assert.Equal(t, "Emirates", offers[0].Carrier)
	assert.Equal(t, domain.Money{Minor: 231000, Currency: "EUR"}, offers[0].Price)
	assert.Equal(t, 1, offers[0].Stops)
	assert.Equal(t, "2026-12-16 16:40", offers[0].Arrival)
	assert.Equal(t, "google_flights:Emirates:2026-12-15 14:30:2310", offers[0].Key)
	assert.Equal(t, "Singapore Airlines", offers[1].Carrier)
	assert.Equal(t, 0, offers[1].Stops)
}

func TestGoogleFlights_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"Invalid API key"}`))
	}))
	defer srv.Close()

	_, err := NewGoogleFlights(srv.URL, "bad", srv.Client()).SearchFlights(context.Background(), testQuery)
	assert.ErrorIs(t, err, domain.ErrToolUnavailable)
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestGoogleFlights_Unavailable(t *testing.T) {
	g := NewGoogleFlights("", "", nil)
	assert.False(t, g.Available())
	_, err := g.SearchFlights(context.Background(), testQuery)
	assert.ErrorIs(t, err, domain.ErrToolUnavailable)
}
