package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/manthysbr/tripplanner/internal/core/domain"
)

const extractionPrompt = `You are a travel data extraction expert.
Convert the user's trip request into ONE strict JSON object matching exactly this schema:

{
  "origin": "string (departure city, e.g. Lyon)",
  "destination": "string (e.g. Paris, Bali)",
  "dates": "string (e.g. du 15 au 22 mars, 15-30 December, 2026-06-01)",
  "travelers": {
    "adults": int (e.g. 2),
    "children": int (e.g. 0)
  },
  "preferences": {
    "style": "string (e.g. relaxing, adventure, cultural)",
    "budget": "string (e.g. low, medium, high)"
  }
}

RULES:
1. "dates" MUST be a plain string copied from the request, never an object.
2. Adult and child counts MUST be nested inside "travelers".
3. Style and budget MUST be nested inside "preferences".
4. When the departure city is not mentioned, use "%s" as origin.
5. When information is missing, infer it sensibly or use defaults: 1 adult, 0 children, medium budget.
6. Answer with the JSON object only.`

// RequestParser turns free text into a TripRequest with a single model call.
type RequestParser struct {
	logger   *slog.Logger
	llm      domain.LLMProvider
	tracer   *TraceCollector
	homeCity string
}

// NewRequestParser creates a parser. homeCity is the default origin.
func NewRequestParser(logger *slog.Logger, llm domain.LLMProvider, tracer *TraceCollector, homeCity string) *RequestParser {
	if strings.TrimSpace(homeCity) == "" {
		homeCity = domain.DefaultOrigin
	}
	return &RequestParser{logger: logger, llm: llm, tracer: tracer, homeCity: homeCity}
}

// extraction mirrors the JSON the model is asked to produce.
type extraction struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Dates       string `json:"dates"`
	Travelers   struct {
		Adults   domain.FlexInt `json:"adults"`
		Children domain.FlexInt `json:"children"`
	} `json:"travelers"`
	Preferences struct {
		Style  string `json:"style"`
		Budget string `json:"budget"`
	} `json:"preferences"`
}

// Parse extracts the trip. It never retries: malformed output is a ParseError,
// an endpoint failure is a ModelCallError.
func (p *RequestParser) Parse(ctx context.Context, raw string) (*domain.TripRequest, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &domain.ParseError{Reason: "empty request"}
	}

	ctx, spanID := p.tracer.StartSpan(ctx, "parse.request", domain.SpanKindParse, nil)
	p.tracer.SetSpanInput(spanID, raw)

	completion, err := p.llm.Complete(ctx, domain.CompletionRequest{
		Messages: []domain.ChatMessage{
			domain.SystemMessage(fmt.Sprintf(extractionPrompt, p.homeCity)),
			domain.UserMessage(fmt.Sprintf("Here is the request: '%s'. Produce the JSON.", raw)),
		},
		Temperature: 0,
		JSONOutput:  true,
	})
	if err != nil {
		p.tracer.EndSpan(spanID, domain.SpanStatusError, "", err.Error())
		return nil, &domain.ModelCallError{Stage: "parse", Err: err}
	}

	p.logger.Debug("extraction response", "content", completion.Content)

	trip, err := p.decode(completion.Content, raw)
	if err != nil {
		p.tracer.EndSpan(spanID, domain.SpanStatusError, completion.Content, err.Error())
		return nil, err
	}

	p.tracer.EndSpan(spanID, domain.SpanStatusOK, completion.Content, "")
	p.logger.Info("trip request parsed",
		"trip_id", string(trip.ID),
		"destination", trip.Destination,
		"adults", trip.Travelers.Adults,
		"children", trip.Travelers.Children,
	)
	return trip, nil
}

func (p *RequestParser) decode(content, raw string) (*domain.TripRequest, error) {
	body := stripCodeFence(content)
	if body == "" {
		return nil, &domain.ParseError{Reason: "empty model response", Raw: content}
	}

	var ex extraction
	if err := json.Unmarshal([]byte(body), &ex); err != nil {
		return nil, &domain.ParseError{Reason: "response is not valid trip JSON", Raw: content, Err: err}
	}

	return domain.NewTripRequest(
		ex.Origin,
		ex.Destination,
		ex.Dates,
		domain.Travelers{Adults: int(ex.Travelers.Adults), Children: int(ex.Travelers.Children)},
		domain.Preferences{Style: ex.Preferences.Style, Budget: ex.Preferences.Budget},
		raw,
		p.homeCity,
	)
}

// stripCodeFence removes a ```json fence some models wrap around JSON output.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
