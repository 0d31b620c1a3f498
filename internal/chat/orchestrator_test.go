package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Sumanth-CBRE/Weatherbot/internal/llm"
	"github.com/Sumanth-CBRE/Weatherbot/internal/tools"
)

// scriptedClient returns canned results in order and records what it was sent.
type scriptedClient struct {
	results []*llm.Result
	errs    []error
	calls   int
	sent    [][]llm.Message
}

func (c *scriptedClient) Chat(_ context.Context, messages []llm.Message, _ []tools.Tool) (*llm.Result, error) {
	idx := c.calls
	c.calls++
	c.sent = append(c.sent, messages)
	if idx < len(c.errs) && c.errs[idx] != nil {
		return nil, c.errs[idx]
	}
	if idx >= len(c.results) {
		return nil, fmt.Errorf("unexpected chat call %d", idx)
	}
	return c.results[idx], nil
}

// echoTool reports its arguments back, prefixed with its name.
type echoTool struct {
	name string
}

func (t *echoTool) Definition() tools.Tool {
	return tools.NewFunctionTool(t.name, "echo tool", tools.JSONSchema{Type: "object"})
}

func (t *echoTool) Execute(_ context.Context, arguments string) (string, error) {
	return t.name + ":" + arguments, nil
}

// failingTool always rejects its arguments.
type failingTool struct{}

func (t *failingTool) Definition() tools.Tool {
	return tools.NewFunctionTool("get_broken", "always fails", tools.JSONSchema{Type: "object"})
}

func (t *failingTool) Execute(context.Context, string) (string, error) {
	return "", fmt.Errorf("%w: boom", tools.ErrInvalidArguments)
}

func newTestOrchestrator(t *testing.T, client llm.ChatClient, opts Options) (*Orchestrator, *tools.Manager) {
	t.Helper()
	manager := tools.NewManager()
	manager.Register(&echoTool{name: "get_forecast"})
	manager.Register(&echoTool{name: "get_alerts"})
	manager.Register(&failingTool{})
	o, err := NewOrchestrator(client, manager, opts)
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	return o, manager
}

func TestAskToolRoundThenAnswer(t *testing.T) {
	client := &scriptedClient{results: []*llm.Result{
		{ToolCalls: []tools.ToolCall{call("c1", "get_forecast", `{"location":"Texas"}`)}},
		{Content: "Sunny in Texas."},
	}}
	o, _ := newTestOrchestrator(t, client, Options{})

	sess := NewSession()
	answer, err := o.Ask(context.Background(), sess, "Weather forecast for Texas")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer != "Sunny in Texas." {
		t.Fatalf("answer = %q", answer)
	}
	if client.calls != 2 {
		t.Fatalf("chat calls = %d, want 2", client.calls)
	}

	// The second call must carry the tool round: user, assistant(tool_calls),
	// tool, in that order.
	second := client.sent[1]
	if len(second) != 3 {
		t.Fatalf("second call history len = %d, want 3", len(second))
	}
	if second[1].Role != llm.RoleAssistant || len(second[1].ToolCalls) != 1 || second[1].Content != "" {
		t.Fatalf("assistant tool turn malformed: %+v", second[1])
	}
	if second[2].Role != llm.RoleTool || second[2].ToolCallID != "c1" {
		t.Fatalf("tool turn malformed: %+v", second[2])
	}
}

func TestAskFallbackOnEmptyContent(t *testing.T) {
	client := &scriptedClient{results: []*llm.Result{
		{ToolCalls: []tools.ToolCall{call("c1", "get_forecast", `{"location":"40.7 -74.0"}`)}},
		{Content: "   "},
	}}
	o, _ := newTestOrchestrator(t, client, Options{})

	answer, err := o.Ask(context.Background(), NewSession(), "forecast please")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	want := `get_forecast:{"location":"40.7 -74.0"}`
	if answer != want {
		t.Fatalf("answer = %q, want latest tool result %q", answer, want)
	}
}

func TestAskFallbackOnPlaceholder(t *testing.T) {
	client := &scriptedClient{results: []*llm.Result{
		{ToolCalls: []tools.ToolCall{call("c1", "get_alerts", `{"state":"TX"}`)}},
		{Content: "<tool-use></tool-use>"},
	}}
	o, _ := newTestOrchestrator(t, client, Options{})

	answer, err := o.Ask(context.Background(), NewSession(), "alerts in TX")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if want := `get_alerts:{"state":"TX"}`; answer != want {
		t.Fatalf("answer = %q, want %q", answer, want)
	}
}

func TestAskToolFailureBecomesTextualResult(t *testing.T) {
	client := &scriptedClient{results: []*llm.Result{
		{ToolCalls: []tools.ToolCall{call("c1", "get_broken", `{}`)}},
		{Content: "I could not fetch that."},
	}}
	o, _ := newTestOrchestrator(t, client, Options{})

	sess := NewSession()
	if _, err := o.Ask(context.Background(), sess, "break it"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	second := client.sent[1]
	toolTurn := second[len(second)-1]
	if toolTurn.Role != llm.RoleTool {
		t.Fatalf("last turn role = %s", toolTurn.Role)
	}
	if !strings.Contains(toolTurn.Content, "rejected its arguments") {
		t.Fatalf("tool turn content = %q, want textual failure", toolTurn.Content)
	}
}

func TestAskUnknownToolContinuesConversation(t *testing.T) {
	client := &scriptedClient{results: []*llm.Result{
		{ToolCalls: []tools.ToolCall{call("c1", "get_stock_price", `{}`)}},
		{Content: "done"},
	}}
	o, _ := newTestOrchestrator(t, client, Options{})

	if _, err := o.Ask(context.Background(), NewSession(), "stocks?"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	toolTurn := client.sent[1][2]
	if !strings.Contains(toolTurn.Content, "not available") {
		t.Fatalf("tool turn content = %q, want unknown-tool text", toolTurn.Content)
	}
}

func TestAskDuplicateToolInOneRound(t *testing.T) {
	client := &scriptedClient{results: []*llm.Result{
		{ToolCalls: []tools.ToolCall{
			call("c1", "get_alerts", `{"state":"TX"}`),
			call("c2", "get_alerts", `{"state":"CA"}`),
		}},
		{Content: "two states covered"},
	}}
	o, _ := newTestOrchestrator(t, client, Options{})

	if _, err := o.Ask(context.Background(), NewSession(), "alerts for TX and CA"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	second := client.sent[1]
	if len(second) != 4 {
		t.Fatalf("history len = %d, want user + assistant + 2 tool turns", len(second))
	}
	if second[2].ToolCallID != "c1" || second[3].ToolCallID != "c2" {
		t.Fatalf("tool turns out of order: %q then %q", second[2].ToolCallID, second[3].ToolCallID)
	}
	if second[2].Content == second[3].Content {
		t.Fatalf("duplicate tool calls produced identical results: %q", second[2].Content)
	}
}

func TestAskRoundLimitFallsBack(t *testing.T) {
	loop := &llm.Result{ToolCalls: []tools.ToolCall{call("c1", "get_forecast", `{"location":"NY"}`)}}
	client := &scriptedClient{results: []*llm.Result{loop, loop, loop}}
	o, _ := newTestOrchestrator(t, client, Options{MaxToolRounds: 2})

	answer, err := o.Ask(context.Background(), NewSession(), "forecast")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if want := `get_forecast:{"location":"NY"}`; answer != want {
		t.Fatalf("answer = %q, want fallback to tool result %q", answer, want)
	}
	if client.calls != 3 {
		t.Fatalf("chat calls = %d, want 3 (2 tool rounds + final)", client.calls)
	}
}

func TestAskTransportErrorAbortsButKeepsHistory(t *testing.T) {
	apiErr := &llm.APIError{StatusCode: 500, Body: "upstream exploded"}
	client := &scriptedClient{
		results: []*llm.Result{{ToolCalls: []tools.ToolCall{call("c1", "get_forecast", `{"location":"NY"}`)}}, nil},
		errs:    []error{nil, apiErr},
	}
	o, _ := newTestOrchestrator(t, client, Options{})

	sess := NewSession()
	_, err := o.Ask(context.Background(), sess, "forecast")
	var got *llm.APIError
	if !errors.As(err, &got) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if got.StatusCode != 500 || !strings.Contains(got.Error(), "upstream exploded") {
		t.Fatalf("diagnostics missing from %v", got)
	}
	// The completed tool round stays in the session for a retry.
	if sess.Len() != 3 {
		t.Fatalf("session len = %d, want user + assistant + tool", sess.Len())
	}
}

func TestAskNoUsableContentAndNoToolResult(t *testing.T) {
	client := &scriptedClient{results: []*llm.Result{{Content: ""}}}
	o, _ := newTestOrchestrator(t, client, Options{})

	if _, err := o.Ask(context.Background(), NewSession(), "hello"); err == nil {
		t.Fatal("expected error when model stalls with no tool result")
	}
}

func TestAskCancelledContextBetweenRounds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := &scriptedClient{}
	o, _ := newTestOrchestrator(t, client, Options{})

	if _, err := o.Ask(ctx, NewSession(), "anything"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if client.calls != 0 {
		t.Fatalf("chat calls = %d, want 0 after cancellation", client.calls)
	}
}
