package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/manthysbr/tripplanner/internal/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedLLM answers completions from a fixed queue and records every request.
type scriptedLLM struct {
	mu       sync.Mutex
	replies  []scriptedReply
	requests []domain.CompletionRequest
}

type scriptedReply struct {
	completion domain.Completion
	err        error
}

func newScriptedLLM(replies ...scriptedReply) *scriptedLLM {
	return &scriptedLLM{replies: replies}
}

func (s *scriptedLLM) Complete(_ context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if len(s.replies) == 0 {
		return domain.Completion{}, errors.New("no scripted reply left")
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r.completion, r.err
}

func (s *scriptedLLM) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func textReply(content string) scriptedReply {
	return scriptedReply{completion: domain.Completion{Content: content}}
}

func toolReply(calls ...domain.ToolInvocation) scriptedReply {
	return scriptedReply{completion: domain.Completion{ToolCalls: calls}}
}

func errReply(err error) scriptedReply {
	return scriptedReply{err: err}
}

type mockFlightProvider struct {
	mock.Mock
	name      string
	available bool
}

func (m *mockFlightProvider) Name() string    { return m.name }
func (m *mockFlightProvider) Available() bool { return m.available }

func (m *mockFlightProvider) SearchFlights(ctx context.Context, q domain.FlightQuery) ([]domain.FlightOffer, error) {
	args := m.Called(ctx, q)
	offers, _ := args.Get(0).([]domain.FlightOffer)
	return offers, args.Error(1)
}

type mockExporter struct {
	mock.Mock
}

func (m *mockExporter) Export(trip *domain.TripRequest, plan string) ([]byte, string, error) {
	args := m.Called(trip, plan)
	data, _ := args.Get(0).([]byte)
	return data, args.String(1), args.Error(2)
}

func testTrip(t *testing.T) *domain.TripRequest {
	t.Helper()
	trip, err := domain.NewTripRequest("Paris", "Bali", "du 15 au 30 decembre",
		domain.Travelers{Adults: 2, Children: 1},
		domain.Preferences{Style: "relaxing", Budget: "medium"},
		"Bali du 15 au 30 decembre, 2 adultes et 1 enfant", "Paris")
	require.NoError(t, err)
	return trip
}
