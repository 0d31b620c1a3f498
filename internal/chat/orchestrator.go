package chat

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/Sumanth-CBRE/Weatherbot/internal/llm"
	"github.com/Sumanth-CBRE/Weatherbot/internal/tools"
	"github.com/Sumanth-CBRE/Weatherbot/pkg/logx"
)

// DefaultPlaceholderPatterns matches the empty tool-use markers some models
// emit instead of an answer after a tool round.
var DefaultPlaceholderPatterns = []string{`(?is)^<tool-use\b.*>$`}

// ToolResult is the normalized outcome of one tool invocation. Content is
// always plain text, whatever shape the underlying provider returned.
type ToolResult struct {
	ToolCallID string
	Content    string
}

// Options tunes the orchestration loop. Zero values pick sane defaults.
type Options struct {
	// MaxToolRounds bounds the number of tool-dispatch rounds per query so a
	// model that keeps requesting tools cannot loop forever.
	MaxToolRounds int
	// ToolTimeout bounds each individual tool invocation.
	ToolTimeout time.Duration
	// PlaceholderPatterns are regular expressions recognized as non-answers
	// for the fallback policy. Nil selects DefaultPlaceholderPatterns.
	PlaceholderPatterns []string
}

// Orchestrator drives the multi-turn exchange with the model: it sends the
// sanitized history, dispatches requested tool calls, reconciles their
// results into the conversation, and applies the fallback policy when the
// model produces no usable answer.
type Orchestrator struct {
	client       llm.ChatClient
	tools        *tools.Manager
	maxRounds    int
	toolTimeout  time.Duration
	placeholders []*regexp.Regexp
}

func NewOrchestrator(client llm.ChatClient, manager *tools.Manager, opts Options) (*Orchestrator, error) {
	if opts.MaxToolRounds <= 0 {
		opts.MaxToolRounds = 5
	}
	if opts.ToolTimeout <= 0 {
		opts.ToolTimeout = 30 * time.Second
	}
	patterns := opts.PlaceholderPatterns
	if patterns == nil {
		patterns = DefaultPlaceholderPatterns
	}
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid placeholder pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return &Orchestrator{
		client:       client,
		tools:        manager,
		maxRounds:    opts.MaxToolRounds,
		toolTimeout:  opts.ToolTimeout,
		placeholders: compiled,
	}, nil
}

// Ask runs one user query through the conversation loop and returns the
// answer. The session keeps every completed round, so a transport failure
// aborts only the current query and the caller may re-ask.
func (o *Orchestrator) Ask(ctx context.Context, sess *Session, query string) (string, error) {
	sess.Append(llm.Message{Role: llm.RoleUser, Content: query})

	var lastToolResult string
	var haveToolResult bool

	for round := 0; round <= o.maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		result, err := o.client.Chat(ctx, Sanitize(sess.Messages()), o.tools.Definitions())
		if err != nil {
			return "", fmt.Errorf("chat completion failed: %w", err)
		}

		if len(result.ToolCalls) > 0 {
			if round == o.maxRounds {
				break
			}
			logx.Debug().Int("round", round).Int("calls", len(result.ToolCalls)).Msg("dispatching tool calls")
			sess.Append(llm.Message{Role: llm.RoleAssistant, ToolCalls: result.ToolCalls})
			results := o.dispatch(ctx, result.ToolCalls)
			if err := ctx.Err(); err != nil {
				// Session abandoned mid-round: the in-flight calls finished
				// but their results are discarded.
				return "", err
			}
			for _, tr := range results {
				sess.Append(llm.Message{Role: llm.RoleTool, Content: tr.Content, ToolCallID: tr.ToolCallID})
				lastToolResult = tr.Content
				haveToolResult = true
			}
			continue
		}

		content := strings.TrimSpace(result.Content)
		if content != "" && !o.isPlaceholder(content) {
			sess.Append(llm.Message{Role: llm.RoleAssistant, Content: result.Content})
			return content, nil
		}

		// The model stalled. Synthesize the answer from the most recent
		// tool result so the user still gets a substantive response.
		if haveToolResult {
			logx.Debug().Msg("model returned placeholder or empty content, falling back to tool result")
			sess.Append(llm.Message{Role: llm.RoleAssistant, Content: lastToolResult})
			return lastToolResult, nil
		}
		return "", errors.New("model returned no usable content and no tool result is available")
	}

	if haveToolResult {
		logx.Warn().Int("max_rounds", o.maxRounds).Msg("tool round limit reached, falling back to tool result")
		sess.Append(llm.Message{Role: llm.RoleAssistant, Content: lastToolResult})
		return lastToolResult, nil
	}
	return "", fmt.Errorf("exceeded maximum of %d tool rounds without an answer", o.maxRounds)
}

// dispatch runs every tool call of a round concurrently and returns the
// results in request order, one per tool call id. Duplicate tools with
// different arguments are legitimate and dispatched independently.
func (o *Orchestrator) dispatch(ctx context.Context, calls []tools.ToolCall) []ToolResult {
	results := make([]ToolResult, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call tools.ToolCall) {
			defer wg.Done()
			results[i] = ToolResult{ToolCallID: call.ID, Content: o.invoke(ctx, call)}
		}(i, call)
	}
	wg.Wait()
	return results
}

// invoke executes one tool call and converts every failure into plain text
// so the conversation continues instead of aborting.
func (o *Orchestrator) invoke(ctx context.Context, call tools.ToolCall) string {
	name := call.Function.Name
	logx.Debug().Str("tool", name).Str("id", call.ID).Msg("executing tool")

	tctx, cancel := context.WithTimeout(ctx, o.toolTimeout)
	defer cancel()

	out, err := o.tools.Execute(tctx, name, call.Function.Arguments)
	if err != nil {
		logx.Warn().Err(err).Str("tool", name).Msg("tool execution failed")
		switch {
		case errors.Is(err, tools.ErrUnknownTool):
			return fmt.Sprintf("Tool %q is not available.", name)
		case errors.Is(err, tools.ErrInvalidArguments):
			return fmt.Sprintf("Tool %q rejected its arguments: %v", name, err)
		default:
			return fmt.Sprintf("Tool %q failed: %v", name, err)
		}
	}
	return Stringify(out)
}

func (o *Orchestrator) isPlaceholder(content string) bool {
	for _, re := range o.placeholders {
		if re.MatchString(content) {
			return true
		}
	}
	return false
}
