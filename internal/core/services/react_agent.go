package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/manthysbr/tripplanner/internal/core/domain"
)

// MaxIterations caps the number of model requests in one reasoning run.
const MaxIterations = 8

const agentTemperature = 0.3

const agentPrompt = `You are an expert travel planner. Build a complete, realistic trip plan for this request:

%s
Work in this order:
1. Call search_flights first, for the whole party (%d adults, %d children).
2. Then call check_weather for the destination.
3. Then call search_travel_info for activities and accommodation matching the style and budget.
4. When you have the information, write the final plan.

Formatting rules:
- Never invent prices. Only quote prices returned by search_flights.
- Keep every booking link exactly as returned by the tools.
- State the number of travelers explicitly (%s).
- Structure the plan with sections: Flights, Weather, Day-by-day itinerary, Practical tips.`

// ReActAgentService runs the bounded reason/act/observe loop for one trip
type ReActAgentService struct {
	logger   *slog.Logger
	llm      domain.LLMProvider
	tools    *domain.ToolRegistry
	tracer   *TraceCollector
	maxIters int
}

// NewReActAgentService creates a new ReAct-enabled agent
func NewReActAgentService(logger *slog.Logger, llm domain.LLMProvider, tools *domain.ToolRegistry, tracer *TraceCollector) *ReActAgentService {
	return &ReActAgentService{
		logger:   logger,
		llm:      llm,
		tools:    tools,
		tracer:   tracer,
		maxIters: MaxIterations,
	}
}

// SeedConversation returns the opening system and user messages for a trip.
// The system message ends with the registered tool list.
func SeedConversation(trip *domain.TripRequest, tools *domain.ToolRegistry) *domain.Conversation {
	system := fmt.Sprintf(agentPrompt, trip.Summary(), trip.Travelers.Adults, trip.Travelers.Children, trip.Travelers)
	if tools != nil {
		system += "\n\n" + tools.FormatToolsForPrompt()
	}
	user := fmt.Sprintf("Plan my trip from %s to %s. Original request: %s", trip.Origin, trip.Destination, trip.RawInput)
	return domain.NewConversation(domain.SystemMessage(system), domain.UserMessage(user))
}

// Run drives the loop until the model stops calling tools, the iteration cap
// is reached or a model call fails. Only the last case returns an error, a
// *domain.ModelCallError; the run is returned in every case.
func (s *ReActAgentService) Run(ctx context.Context, trip *domain.TripRequest) (*domain.AgentRun, error) {
	conv := SeedConversation(trip, s.tools)
	schemas := s.tools.Schemas()

	run := &domain.AgentRun{State: domain.StateAwaitingModel}
	var pending domain.Completion
	var runErr error

	s.logger.Info("starting ReAct loop", "trip_id", string(trip.ID), "max_iterations", s.maxIters)

	for !run.State.Terminal() {
		switch run.State {
		case domain.StateAwaitingModel:
			if run.Iterations >= s.maxIters {
				s.logger.Warn("reasoning loop exhausted", "trip_id", string(trip.ID), "error", domain.ErrReasoningExhausted)
				run.FinalText = domain.ExhaustedMessage
				run.State = domain.StateExhausted
				continue
			}
			run.Iterations++

			completion, err := s.complete(ctx, run.Iterations, conv, schemas)
			if err != nil {
				runErr = &domain.ModelCallError{Stage: "reasoning", Err: err}
				s.logger.Error("model call failed", "trip_id", string(trip.ID), "iteration", run.Iterations, "error", err)
				run.FinalText = "Error: " + runErr.Error()
				run.State = domain.StateFailed
				continue
			}

			if !completion.HasToolCalls() {
				run.Steps = append(run.Steps, domain.ReActStep{Iteration: run.Iterations, IsFinal: true})
				run.FinalText = strings.TrimSpace(completion.Content)
				run.State = domain.StateDone
				continue
			}

			pending = withCallIDs(completion, run.Iterations)
			conv.Append(domain.ChatMessage{
				Role:      domain.RoleAssistant,
				Content:   pending.Content,
				ToolCalls: pending.ToolCalls,
			})
			run.State = domain.StateDispatchingTools

		case domain.StateDispatchingTools:
			step := domain.ReActStep{Iteration: run.Iterations, Thought: pending.Content}
			for _, call := range pending.ToolCalls {
				result := s.dispatch(ctx, call)
				conv.Append(domain.ToolResultMessage(call.ID, result))
				step.Observations = append(step.Observations, domain.ToolObservation{Call: call, Result: result})
			}
			run.Steps = append(run.Steps, step)
			run.State = domain.StateAwaitingModel
		}
	}

	s.logger.Info("ReAct loop finished",
		"trip_id", string(trip.ID),
		"state", string(run.State),
		"iterations", run.Iterations,
	)
	return run, runErr
}

func (s *ReActAgentService) complete(ctx context.Context, iteration int, conv *domain.Conversation, schemas []domain.ToolSchema) (domain.Completion, error) {
	ctx, spanID := s.tracer.StartSpan(ctx, fmt.Sprintf("llm.complete (iter %d)", iteration), domain.SpanKindLLM, map[string]string{
		"iteration": fmt.Sprintf("%d", iteration),
		"messages":  fmt.Sprintf("%d", conv.Len()),
	})

	completion, err := s.llm.Complete(ctx, domain.CompletionRequest{
		Messages:    conv.Messages(),
		Tools:       schemas,
		ToolChoice:  domain.ToolChoiceAuto,
		Temperature: agentTemperature,
	})
	if err != nil {
		s.tracer.EndSpan(spanID, domain.SpanStatusError, "", err.Error())
		return domain.Completion{}, err
	}

	output := completion.Content
	if completion.HasToolCalls() {
		names := make([]string, 0, len(completion.ToolCalls))
		for _, c := range completion.ToolCalls {
			names = append(names, c.Name)
		}
		output = "tool calls: " + strings.Join(names, ", ")
	}
	s.tracer.EndSpan(spanID, domain.SpanStatusOK, output, "")
	return completion, nil
}

// dispatch runs one tool call. Every failure becomes the result text.
func (s *ReActAgentService) dispatch(ctx context.Context, call domain.ToolInvocation) string {
	ctx, spanID := s.tracer.StartSpan(ctx, "tool."+call.Name, domain.SpanKindTool, map[string]string{"call_id": call.ID})
	s.tracer.SetSpanInput(spanID, call.Arguments)

	s.logger.Info("executing tool", "tool", call.Name, "call_id", call.ID)
	result, err := s.tools.Invoke(ctx, call.Name, call.Arguments)
	if err != nil {
		if errors.Is(err, domain.ErrToolNotFound) {
			result = fmt.Sprintf("Error: unknown tool %q. Available tools: %s", call.Name, strings.Join(s.tools.Names(), ", "))
		} else {
			result = fmt.Sprintf("Error: %s failed: %v", call.Name, err)
		}
		s.logger.Warn("tool call failed", "tool", call.Name, "error", err)
		s.tracer.EndSpan(spanID, domain.SpanStatusError, result, err.Error())
		return result
	}

	s.tracer.EndSpan(spanID, domain.SpanStatusOK, result, "")
	return result
}

// withCallIDs assigns IDs to invocations the model left unnamed so every
// tool message can reference its call.
func withCallIDs(c domain.Completion, iteration int) domain.Completion {
	calls := make([]domain.ToolInvocation, len(c.ToolCalls))
	for i, call := range c.ToolCalls {
		if call.ID == "" {
			call.ID = fmt.Sprintf("call_%d_%d", iteration, i)
		}
		calls[i] = call
	}
	c.ToolCalls = calls
	return c
}
