package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/manthysbr/tripplanner/internal/core/domain"
)

const (
	defaultMaxTraces = 200  // ring buffer size
	maxInputOutput   = 2000 // truncate input/output at 2KB
)

// TraceCollector keeps the spans of recent planning requests in memory.
// Thread-safe. A nil collector is valid and records nothing.
type TraceCollector struct {
	mu     sync.RWMutex
	logger *slog.Logger
	limit  int

	traces     map[domain.TraceID]*domain.Trace
	spans      map[domain.TraceID][]*domain.Span
	index      map[domain.SpanID]*domain.Span
	traceOrder []domain.TraceID // for eviction
}

// NewTraceCollector creates a collector holding at most limit traces.
func NewTraceCollector(logger *slog.Logger, limit int) *TraceCollector {
	if limit <= 0 {
		limit = defaultMaxTraces
	}
	return &TraceCollector{
		logger: logger,
		limit:  limit,
		traces: make(map[domain.TraceID]*domain.Trace, limit),
		spans:  make(map[domain.TraceID][]*domain.Span, limit),
		index:  make(map[domain.SpanID]*domain.Span, limit*8),
	}
}

type traceCtxKey struct{}
type spanCtxKey struct{}

// ContextWithTrace stores trace and span IDs in context for propagation.
func ContextWithTrace(ctx context.Context, traceID domain.TraceID, spanID domain.SpanID) context.Context {
	ctx = context.WithValue(ctx, traceCtxKey{}, traceID)
	ctx = context.WithValue(ctx, spanCtxKey{}, spanID)
	return ctx
}

// TraceFromContext extracts trace and current span ID from context.
func TraceFromContext(ctx context.Context) (domain.TraceID, domain.SpanID, bool) {
	traceID, ok1 := ctx.Value(traceCtxKey{}).(domain.TraceID)
	spanID, ok2 := ctx.Value(spanCtxKey{}).(domain.SpanID)
	return traceID, spanID, ok1 && ok2
}

// StartTrace begins a new trace. Returns updated context with trace/span.
func (tc *TraceCollector) StartTrace(ctx context.Context, name string, tripID domain.TripID) (context.Context, domain.TraceID) {
	if tc == nil {
		return ctx, ""
	}
	traceID := domain.TraceID(uuid.New().String())
	rootID := domain.SpanID(uuid.New().String())
	now := time.Now()

	root := &domain.Span{
		ID:        rootID,
		TraceID:   traceID,
		Name:      name,
		Kind:      domain.SpanKindPipeline,
		Status:    domain.SpanStatusRunning,
		StartTime: now,
	}

	tc.mu.Lock()
	tc.evictIfNeeded()
	tc.traces[traceID] = &domain.Trace{
		ID:         traceID,
		RootSpanID: rootID,
		Name:       name,
		TripID:     tripID,
		Status:     domain.SpanStatusRunning,
		StartTime:  now,
		SpanCount:  1,
	}
	tc.spans[traceID] = []*domain.Span{root}
	tc.index[rootID] = root
	tc.traceOrder = append(tc.traceOrder, traceID)
	tc.mu.Unlock()

	tc.logger.Debug("trace started", "trace_id", string(traceID), "name", name)
	return ContextWithTrace(ctx, traceID, rootID), traceID
}

// SetTraceTrip associates a trip with the trace once it is known.
func (tc *TraceCollector) SetTraceTrip(traceID domain.TraceID, tripID domain.TripID) {
	if tc == nil {
		return
	}
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if trace, ok := tc.traces[traceID]; ok {
		trace.TripID = tripID
	}
}

// EndTrace finalizes a trace and its root span.
func (tc *TraceCollector) EndTrace(traceID domain.TraceID, status domain.SpanStatus, errMsg string) {
	if tc == nil {
		return
	}
	tc.mu.Lock()
	defer tc.mu.Unlock()

	trace, ok := tc.traces[traceID]
	if !ok {
		return
	}
	now := time.Now()
	trace.Status = status
	trace.EndTime = &now
	trace.DurationMs = now.Sub(trace.StartTime).Milliseconds()

	if root, ok := tc.index[trace.RootSpanID]; ok {
		finishSpan(root, status, "", errMsg, now)
	}
}

// StartSpan creates a child span under the current context's span.
func (tc *TraceCollector) StartSpan(ctx context.Context, name string, kind domain.SpanKind, attrs map[string]string) (context.Context, domain.SpanID) {
	if tc == nil {
		return ctx, ""
	}
	traceID, parentID, ok := TraceFromContext(ctx)
	if !ok {
		return ctx, ""
	}

	spanID := domain.SpanID(uuid.New().String())
	span := &domain.Span{
		ID:         spanID,
		ParentID:   parentID,
		TraceID:    traceID,
		Name:       name,
		Kind:       kind,
		Status:     domain.SpanStatusRunning,
		Attributes: attrs,
		StartTime:  time.Now(),
	}

	tc.mu.Lock()
	if trace, ok := tc.traces[traceID]; ok {
		tc.spans[traceID] = append(tc.spans[traceID], span)
		tc.index[spanID] = span
		trace.SpanCount++
	}
	tc.mu.Unlock()

	return ContextWithTrace(ctx, traceID, spanID), spanID
}

// SetSpanInput sets the input for a span.
func (tc *TraceCollector) SetSpanInput(spanID domain.SpanID, input string) {
	if tc == nil || spanID == "" {
		return
	}
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if span, ok := tc.index[spanID]; ok {
		span.Input = truncate(input, maxInputOutput)
	}
}

// EndSpan finalizes a span with output and status.
func (tc *TraceCollector) EndSpan(spanID domain.SpanID, status domain.SpanStatus, output string, errMsg string) {
	if tc == nil || spanID == "" {
		return
	}
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if span, ok := tc.index[spanID]; ok {
		finishSpan(span, status, output, errMsg, time.Now())
	}
}

func finishSpan(span *domain.Span, status domain.SpanStatus, output, errMsg string, now time.Time) {
	span.Status = status
	if output != "" {
		span.Output = truncate(output, maxInputOutput)
	}
	span.EndTime = &now
	span.DurationMs = now.Sub(span.StartTime).Milliseconds()
	if errMsg != "" {
		span.Error = errMsg
	}
}

// ListTraces returns summaries of recent traces (newest first).
func (tc *TraceCollector) ListTraces(limit int) []domain.TraceSummary {
	if tc == nil {
		return nil
	}
	tc.mu.RLock()
	defer tc.mu.RUnlock()

	if limit <= 0 || limit > len(tc.traceOrder) {
		limit = len(tc.traceOrder)
	}
	result := make([]domain.TraceSummary, 0, limit)
	for i := len(tc.traceOrder) - 1; i >= 0 && len(result) < limit; i-- {
		if trace, ok := tc.traces[tc.traceOrder[i]]; ok {
			result = append(result, domain.TraceSummary{
				ID:         trace.ID,
				Name:       trace.Name,
				Status:     trace.Status,
				StartTime:  trace.StartTime,
				DurationMs: trace.DurationMs,
				SpanCount:  trace.SpanCount,
			})
		}
	}
	return result
}

// GetTrace returns a full trace with all spans in start order.
func (tc *TraceCollector) GetTrace(traceID domain.TraceID) (*domain.Trace, error) {
	if tc == nil {
		return nil, fmt.Errorf("trace not found: %s", traceID)
	}
	tc.mu.RLock()
	defer tc.mu.RUnlock()

	trace, ok := tc.traces[traceID]
	if !ok {
		return nil, fmt.Errorf("trace not found: %s", traceID)
	}
	result := *trace
	result.Spans = make([]domain.Span, 0, len(tc.spans[traceID]))
	for _, span := range tc.spans[traceID] {
		result.Spans = append(result.Spans, *span)
	}
	return &result, nil
}

func (tc *TraceCollector) evictIfNeeded() {
	for len(tc.traceOrder) >= tc.limit {
		oldID := tc.traceOrder[0]
		tc.traceOrder = tc.traceOrder[1:]
		for _, span := range tc.spans[oldID] {
			delete(tc.index, span.ID)
		}
		delete(tc.spans, oldID)
		delete(tc.traces, oldID)
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "...[truncated]"
}
