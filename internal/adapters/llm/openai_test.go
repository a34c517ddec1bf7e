package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manthysbr/tripplanner/internal/core/domain"
)

func newCompletionServer(t *testing.T, status int, response string, captured *map[string]any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		if captured != nil {
			require.NoError(t, json.Unmarshal(body, captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIProvider_ToolCalls(t *testing.T) {
	var req map[string]any
	srv := newCompletionServer(t, http.StatusOK, `{
		"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-4o-mini",
		"choices": [{
			"index": 0, "finish_reason": "tool_calls",
			"message": {"role": "assistant", "content": null, "tool_calls": [{
				"id": "call_1", "type": "function",
				"function": {"name": "search_flights", "arguments": "{\"origin\":\"Paris\",\"destination\":\"Bali\"}"}
			}]}
		}]
	}`, &req)

	p := NewOpenAIProvider(srv.URL, "test-key", "", time.Second)
	out, err := p.Complete(context.Background(), domain.CompletionRequest{
		Messages: []domain.ChatMessage{
			domain.SystemMessage("plan"),
			domain.UserMessage("Bali in December"),
		},
		Tools: []domain.ToolSchema{{
			Name:        domain.ToolSearchFlights,
			Description: "flights",
			Parameters:  domain.ToolParameters{"type": "object"},
		}},
		Temperature: 0.3,
	})
	require.NoError(t, err)

	require.Len(t, out.ToolCalls, 1)
	assert.Equal(t, "call_1", out.ToolCalls[0].ID)
	assert.Equal(t, domain.ToolSearchFlights, out.ToolCalls[0].Name)
	assert.JSONEq(t, `{"origin":"Paris","destination":"Bali"}`, out.ToolCalls[0].Arguments)

	assert.Equal(t, DefaultModel, req["model"])
	assert.Equal(t, "auto", req["tool_choice"])
	tools, ok := req["tools"].([]any)
	require.True(t, ok)
	assert.Len(t, tools, 1)
	assert.Len(t, req["messages"], 2)
}

func TestOpenAIProvider_JSONOutputAndText(t *testing.T) {
	var req map[string]any
	srv := newCompletionServer(t, http.StatusOK, `{
		"id": "chatcmpl-2", "object": "chat.completion", "created": 1, "model": "m",
		"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "{\"destination\":\"Bali\"}"}}]
	}`, &req)

	p := NewOpenAIProvider(srv.URL, "", "m", time.Second)
	out, err := p.Complete(context.Background(), domain.CompletionRequest{
		Messages:   []domain.ChatMessage{domain.UserMessage("x")},
		JSONOutput: true,
	})
	require.NoError(t, err)
	assert.False(t, out.HasToolCalls())
	assert.Equal(t, `{"destination":"Bali"}`, out.Content)

	format, ok := req["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_object", format["type"])
	assert.NotContains(t, req, "tools")
}

func TestOpenAIProvider_ReplaysToolConversation(t *testing.T) {
	var req map[string]any
	srv := newCompletionServer(t, http.StatusOK, `{
		"id": "chatcmpl-3", "object": "chat.completion", "created": 1, "model": "m",
		"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "done"}}]
	}`, &req)

	p := NewOpenAIProvider(srv.URL, "k", "m", time.Second)
	_, err := p.Complete(context.Background(), domain.CompletionRequest{
		Messages: []domain.ChatMessage{
			domain.UserMessage("go"),
			{Role: domain.RoleAssistant, ToolCalls: []domain.ToolInvocation{{ID: "call_9", Name: "check_weather", Arguments: `{"destination":"Bali"}`}}},
			domain.ToolResultMessage("call_9", "sunny"),
		},
	})
	require.NoError(t, err)

	msgs := req["messages"].([]any)
	require.Len(t, msgs, 3)
	assistant := msgs[1].(map[string]any)
	assert.Equal(t, "assistant", assistant["role"])
	calls := assistant["tool_calls"].([]any)
	require.Len(t, calls, 1)
	assert.Equal(t, "call_9", calls[0].(map[string]any)["id"])

	tool := msgs[2].(map[string]any)
	assert.Equal(t, "tool", tool["role"])
	assert.Equal(t, "call_9", tool["tool_call_id"])
}

func TestOpenAIProvider_ServerError(t *testing.T) {
	srv := newCompletionServer(t, http.StatusInternalServerError, `{"error":{"message":"boom"}}`, nil)

	p := NewOpenAIProvider(srv.URL, "k", "m", time.Second)
	_, err := p.Complete(context.Background(), domain.CompletionRequest{
		Messages: []domain.ChatMessage{domain.UserMessage("x")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat completion")
}
