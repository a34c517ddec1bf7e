package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/manthysbr/tripplanner/internal/core/domain"
)

const refinePrompt = `You are a travel plan editor. Rewrite the draft below into a clear, well structured plan.

Trip:
%s
Rules:
- Keep EVERY link exactly as written, character for character.
- Keep EVERY price exactly as written, including its currency.
- Only improve formatting, structure and tone. Do not add facts, prices or links.
- State the number of travelers explicitly (%s).
- When a section has no information, write "(not available)" instead of dropping it.

Draft:
%s`

const refineTemperature = 0.2

// Price tokens are amounts next to a currency, on either side, or bare
// two-decimal amounts. Thousands may be grouped with spaces ("1 215 EUR").
const (
	priceSpace    = `[ \x{00A0}\x{202F}]`
	priceAmount   = `\d{1,3}(?:` + priceSpace + `\d{3})+(?:[.,]\d+)?|\d+(?:[.,]\d+)*`
	priceCurrency = `(?:€|£|\$|EUR|USD|GBP)`
)

var (
	urlTokenRe   = regexp.MustCompile(`https?://[^\s)\]>"'<]+`)
	priceTokenRe = regexp.MustCompile(
		`(?:€|£|\$|\bEUR|\bUSD|\bGBP)` + priceSpace + `?(?:` + priceAmount + `)` +
			`|\b(?:` + priceAmount + `)` + priceSpace + `?` + priceCurrency +
			`|\b\d+\.\d{2}\b`)
	tokenSpaces = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "")
)

// Refiner performs the single self-correction pass over a draft plan.
type Refiner struct {
	logger *slog.Logger
	llm    domain.LLMProvider
	tracer *TraceCollector
}

func NewRefiner(logger *slog.Logger, llm domain.LLMProvider, tracer *TraceCollector) *Refiner {
	return &Refiner{logger: logger, llm: llm, tracer: tracer}
}

// Refine rewrites the draft with one model call. It returns the draft
// unchanged when the call fails, the answer is empty, or the rewrite loses
// a link or a price the draft contained.
func (r *Refiner) Refine(ctx context.Context, trip *domain.TripRequest, draft string) string {
	ctx, spanID := r.tracer.StartSpan(ctx, "refine.plan", domain.SpanKindRefine, nil)
	r.tracer.SetSpanInput(spanID, draft)

	completion, err := r.llm.Complete(ctx, domain.CompletionRequest{
		Messages: []domain.ChatMessage{
			domain.UserMessage(fmt.Sprintf(refinePrompt, trip.Summary(), trip.Travelers, draft)),
		},
		Temperature: refineTemperature,
	})
	if err != nil {
		callErr := &domain.ModelCallError{Stage: "refine", Err: err}
		r.logger.Warn("self-correction failed, keeping draft", "trip_id", string(trip.ID), "error", callErr)
		r.tracer.EndSpan(spanID, domain.SpanStatusError, "", callErr.Error())
		return draft
	}

	refined := strings.TrimSpace(completion.Content)
	if refined == "" {
		r.logger.Warn("self-correction returned nothing, keeping draft", "trip_id", string(trip.ID))
		r.tracer.EndSpan(spanID, domain.SpanStatusError, "", "empty rewrite")
		return draft
	}

	if missing := MissingTokens(draft, refined); len(missing) > 0 {
		r.logger.Warn("self-correction dropped links or prices, keeping draft",
			"trip_id", string(trip.ID),
			"missing", missing,
		)
		r.tracer.EndSpan(spanID, domain.SpanStatusError, refined, "rewrite dropped: "+strings.Join(missing, " "))
		return draft
	}

	r.tracer.EndSpan(spanID, domain.SpanStatusOK, refined, "")
	return refined
}

// PlanTokens extracts the URLs and price tokens of a text. Digits inside
// URLs are never read as prices.
func PlanTokens(text string) []string {
	var tokens []string
	for _, u := range urlTokenRe.FindAllString(text, -1) {
		tokens = append(tokens, strings.TrimRight(u, ".,;:!?*"))
	}
	rest := urlTokenRe.ReplaceAllString(text, " ")
	tokens = append(tokens, priceTokenRe.FindAllString(rest, -1)...)
	return tokens
}

// MissingTokens lists the URLs and prices of draft that refined does not
// contain. Spaces are ignored, so "1 215 EUR" survives as "1215 EUR".
func MissingTokens(draft, refined string) []string {
	var missing []string
	seen := make(map[string]bool)
	flat := tokenSpaces.Replace(refined)
	for _, tok := range PlanTokens(draft) {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		if !strings.Contains(flat, tokenSpaces.Replace(tok)) {
			missing = append(missing, tok)
		}
	}
	return missing
}
