package domain

import "time"

// TraceID uniquely identifies a trace (one per planning request).
type TraceID string

// SpanID uniquely identifies a span within a trace.
type SpanID string

// SpanKind classifies the type of operation a span represents.
type SpanKind string

const (
	SpanKindPipeline SpanKind = "pipeline" // whole planning request
	SpanKindParse    SpanKind = "parse"    // request extraction
	SpanKindLLM      SpanKind = "llm"      // model completion inside the loop
	SpanKindTool     SpanKind = "tool"     // tool execution
	SpanKindRefine   SpanKind = "refine"   // self-correction pass
	SpanKindExport   SpanKind = "export"   // document rendering
)

// SpanStatus indicates completion state of a span.
type SpanStatus string

const (
	SpanStatusRunning SpanStatus = "running"
	SpanStatusOK      SpanStatus = "ok"
	SpanStatusError   SpanStatus = "error"
)

// Span represents a single unit of work within a trace.
type Span struct {
	ID         SpanID            `json:"id"`
	ParentID   SpanID            `json:"parent_id,omitempty"`
	TraceID    TraceID           `json:"trace_id"`
	Name       string            `json:"name"`
	Kind       SpanKind          `json:"kind"`
	Status     SpanStatus        `json:"status"`
	Input      string            `json:"input,omitempty"`
	Output     string            `json:"output,omitempty"`
	Error      string            `json:"error,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	StartTime  time.Time         `json:"start_time"`
	EndTime    *time.Time        `json:"end_time,omitempty"`
	DurationMs int64             `json:"duration_ms,omitempty"`
}

// Trace groups all spans of a single planning request.
type Trace struct {
	ID         TraceID    `json:"id"`
	RootSpanID SpanID     `json:"root_span_id"`
	Name       string     `json:"name"`
	TripID     TripID     `json:"trip_id,omitempty"`
	Status     SpanStatus `json:"status"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    *time.Time `json:"end_time,omitempty"`
	DurationMs int64      `json:"duration_ms,omitempty"`
	SpanCount  int        `json:"span_count"`
	Spans      []Span     `json:"spans,omitempty"` // populated only on detail view
}

// TraceSummary is a lightweight view for listing traces.
type TraceSummary struct {
	ID         TraceID    `json:"id"`
	Name       string     `json:"name"`
	Status     SpanStatus `json:"status"`
	StartTime  time.Time  `json:"start_time"`
	DurationMs int64      `json:"duration_ms"`
	SpanCount  int        `json:"span_count"`
}
