package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrToolNotFound is returned when the model asks for a tool that is not registered.
	ErrToolNotFound = errors.New("tool not found")

	// ErrToolUnavailable marks a provider that is not configured or whose call failed.
	// Tools render it into their result string; it never reaches the reasoning loop.
	ErrToolUnavailable = errors.New("tool provider unavailable")

	// ErrReasoningExhausted is reported when the loop hits its iteration cap.
	ErrReasoningExhausted = errors.New("reasoning limit reached")
)

// ParseError reports model output that does not match the trip schema.
type ParseError struct {
	Reason string
	Raw    string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse trip request: %s: %v", e.Reason, e.Err)
	}
	return "parse trip request: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// ModelCallError wraps a failure of the completion endpoint.
type ModelCallError struct {
	Stage string // "parse", "reasoning", "refine"
	Err   error
}

func (e *ModelCallError) Error() string {
	return fmt.Sprintf("model call failed during %s: %v", e.Stage, e.Err)
}

func (e *ModelCallError) Unwrap() error { return e.Err }
