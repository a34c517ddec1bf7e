package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/manthysbr/tripplanner/internal/core/domain"
)

// TripPlanner chains parsing, reasoning, self-correction and export.
type TripPlanner struct {
	logger   *slog.Logger
	parser   *RequestParser
	agent    *ReActAgentService
	refiner  *Refiner
	exporter domain.DocumentExporter
	tracer   *TraceCollector
}

func NewTripPlanner(
	logger *slog.Logger,
	parser *RequestParser,
	agent *ReActAgentService,
	refiner *Refiner,
	exporter domain.DocumentExporter,
	tracer *TraceCollector,
) *TripPlanner {
	return &TripPlanner{
		logger:   logger,
		parser:   parser,
		agent:    agent,
		refiner:  refiner,
		exporter: exporter,
		tracer:   tracer,
	}
}

// Plan runs the whole pipeline for a free-text request. Every failure is
// converted here, once, into an unsuccessful result.
func (p *TripPlanner) Plan(ctx context.Context, raw string) domain.PlanResult {
	ctx, traceID := p.tracer.StartTrace(ctx, traceName(raw), "")

	fail := func(message string, err error) domain.PlanResult {
		p.logger.Error("planning failed", "trace_id", string(traceID), "message", message, "error", err)
		p.tracer.EndTrace(traceID, domain.SpanStatusError, err.Error())
		return domain.PlanResult{Success: false, Message: message, Error: err.Error(), TraceID: traceID}
	}

	trip, err := p.parser.Parse(ctx, raw)
	if err != nil {
		var parseErr *domain.ParseError
		if errors.As(err, &parseErr) {
			return fail("Could not understand the trip request.", err)
		}
		return fail("The language model could not be reached while reading the request.", err)
	}
	p.tracer.SetTraceTrip(traceID, trip.ID)

	run, err := p.agent.Run(ctx, trip)
	if err != nil {
		return fail("The planning assistant failed before finishing the plan.", err)
	}

	final := run.FinalText
	if run.State == domain.StateDone {
		final = p.refiner.Refine(ctx, trip, run.FinalText)
	}

	doc, fileName, err := p.export(ctx, trip, final)
	if err != nil {
		return fail("The plan could not be exported.", err)
	}

	p.tracer.EndTrace(traceID, domain.SpanStatusOK, "")
	p.logger.Info("trip planned",
		"trip_id", string(trip.ID),
		"trace_id", string(traceID),
		"state", string(run.State),
		"iterations", run.Iterations,
	)

	return domain.PlanResult{
		Success:  true,
		Message:  "Trip planned for " + trip.Destination + ".",
		Trip:     trip,
		State:    run.State,
		Draft:    run.FinalText,
		Final:    final,
		Steps:    run.Steps,
		Document: doc,
		FileName: fileName,
		TraceID:  traceID,
	}
}

// Export renders a plan without running the pipeline.
func (p *TripPlanner) Export(ctx context.Context, trip *domain.TripRequest, plan string) ([]byte, string, error) {
	return p.export(ctx, trip, plan)
}

func (p *TripPlanner) export(ctx context.Context, trip *domain.TripRequest, plan string) ([]byte, string, error) {
	_, spanID := p.tracer.StartSpan(ctx, "export.pdf", domain.SpanKindExport, map[string]string{"trip_id": string(trip.ID)})
	doc, fileName, err := p.exporter.Export(trip, plan)
	if err != nil {
		p.tracer.EndSpan(spanID, domain.SpanStatusError, "", err.Error())
		return nil, "", err
	}
	p.tracer.EndSpan(spanID, domain.SpanStatusOK, fileName, "")
	return doc, fileName, nil
}

// traceName labels a pipeline trace with the start of the request.
func traceName(raw string) string {
	const maxRunes = 80
	name := []rune("plan: " + raw)
	if len(name) <= maxRunes {
		return string(name)
	}
	return string(name[:maxRunes]) + "..."
}
