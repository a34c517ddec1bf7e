package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ToolParameters is the JSON schema of a tool's arguments, passed verbatim to the model.
type ToolParameters map[string]any

// ToolSchema is the declarative description the model uses to decide when to call a tool.
type ToolSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  ToolParameters `json:"parameters"`
}

// ToolExecutor runs a decoded intent. Returned errors are rendered into the
// tool result by the registry; they never abort the caller.
type ToolExecutor func(ctx context.Context, intent Intent) (string, error)

// Tool represents an executable capability available to the agent
type Tool struct {
	Name        string
	Description string
	Parameters  ToolParameters
	Execute     ToolExecutor
}

// Schema returns the model-facing description of the tool.
func (t *Tool) Schema() ToolSchema {
	return ToolSchema{Name: t.Name, Description: t.Description, Parameters: t.Parameters}
}

// ToolRegistry manages available tools. It is populated once at startup
// and read-only afterwards.
type ToolRegistry struct {
	tools map[string]*Tool
	order []string
}

// NewToolRegistry creates a new empty registry
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[string]*Tool),
	}
}

// Register adds a tool to the registry
func (r *ToolRegistry) Register(tool *Tool) error {
	if tool == nil || tool.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if !IsKnownIntent(tool.Name) {
		return fmt.Errorf("tool %q has no intent decoder", tool.Name)
	}
	if tool.Execute == nil {
		return fmt.Errorf("tool %q has no executor", tool.Name)
	}
	if _, exists := r.tools[tool.Name]; !exists {
		r.order = append(r.order, tool.Name)
	}
	r.tools[tool.Name] = tool
	return nil
}

// Invoke decodes the model-supplied arguments and runs the named tool.
// The only error is ErrToolNotFound; decoding problems, executor errors and
// panics come back as a descriptive result string.
func (r *ToolRegistry) Invoke(ctx context.Context, name string, args string) (result string, err error) {
	tool, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	defer func() {
		if p := recover(); p != nil {
			result = fmt.Sprintf("Error: tool %s failed unexpectedly: %v", name, p)
			err = nil
		}
	}()

	intent, decodeErr := DecodeIntent(name, json.RawMessage(args))
	if decodeErr != nil {
		return fmt.Sprintf("Error: invalid arguments for %s: %v", name, decodeErr), nil
	}

	out, execErr := tool.Execute(ctx, intent)
	if execErr != nil {
		if errors.Is(execErr, ErrToolUnavailable) {
			return fmt.Sprintf("Service unavailable for %s: %v", name, execErr), nil
		}
		return fmt.Sprintf("Error: %s failed: %v", name, execErr), nil
	}
	return out, nil
}

// Names lists registered tool names in registration order.
func (r *ToolRegistry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Schemas returns every tool schema in registration order.
func (r *ToolRegistry) Schemas() []ToolSchema {
	schemas := make([]ToolSchema, 0, len(r.order))
	for _, name := range r.order {
		schemas = append(schemas, r.tools[name].Schema())
	}
	return schemas
}

// FormatToolsForPrompt generates a concise description of available tools.
func (r *ToolRegistry) FormatToolsForPrompt() string {
	var b strings.Builder
	b.WriteString("Available tools:\n")
	for _, name := range r.order {
		fmt.Fprintf(&b, "- %s: %s\n", name, r.tools[name].Description)
	}
	return b.String()
}
