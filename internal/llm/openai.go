package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/Sumanth-CBRE/Weatherbot/internal/tools"
)

const defaultChatCompletionsURL = "https://api.openai.com/v1/chat/completions"

// APIError carries the full diagnostic detail of a failed chat completion
// call: status, headers, and body. The caller decides whether to retry the
// whole query; the client never retries on its own.
type APIError struct {
	StatusCode int
	Headers    http.Header
	Body       string
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "chat API returned status %d", e.StatusCode)
	keys := make([]string, 0, len(e.Headers))
	for k := range e.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "\n%s: %s", k, strings.Join(e.Headers[k], ", "))
	}
	if strings.TrimSpace(e.Body) == "" {
		b.WriteString("\nbody: (empty)")
	} else {
		fmt.Fprintf(&b, "\nbody: %s", e.Body)
	}
	return b.String()
}

// chatRequest is the wire shape of an OpenAI-compatible completion call.
type chatRequest struct {
	Model      string        `json:"model"`
	Messages   []wireMessage `json:"messages"`
	Tools      []tools.Tool  `json:"tools,omitempty"`
	ToolChoice string        `json:"tool_choice,omitempty"`
	MaxTokens  int           `json:"max_tokens,omitempty"`
}

// wireMessage mirrors Message but with Content typed loosely so assistant
// turns carrying tool calls serialize as content: null, which the protocol
// requires.
type wireMessage struct {
	Role       string           `json:"role"`
	Content    any              `json:"content"`
	ToolCalls  []tools.ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string           `json:"tool_call_id,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string           `json:"content"`
			ToolCalls []tools.ToolCall `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

// OpenAIClient speaks the OpenAI-compatible chat completions protocol. The
// base URL is configurable, so the same client covers OpenAI, Groq, Together,
// and any other compatible endpoint.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

var _ ChatClient = (*OpenAIClient)(nil)

func NewOpenAIClient(apiKey, baseURL, model string, timeout time.Duration) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("chat API key cannot be empty")
	}
	if model == "" {
		return nil, errors.New("chat model cannot be empty")
	}
	if baseURL == "" {
		baseURL = defaultChatCompletionsURL
	}
	return &OpenAIClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		maxTokens:  1000,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Chat performs one blocking completion call with the given history and
// tool schemas.
func (c *OpenAIClient) Chat(ctx context.Context, messages []Message, availableTools []tools.Tool) (*Result, error) {
	req := chatRequest{
		Model:     c.model,
		Messages:  toWireMessages(messages),
		MaxTokens: c.maxTokens,
	}
	if len(availableTools) > 0 {
		req.Tools = availableTools
		req.ToolChoice = "auto"
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	var body bytes.Buffer
	if _, err := body.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read chat response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Headers: resp.Header, Body: body.String()}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body.Bytes(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, errors.New("chat response contained no choices")
	}

	choice := parsed.Choices[0].Message
	return &Result{Content: choice.Content, ToolCalls: choice.ToolCalls}, nil
}

func toWireMessages(messages []Message) []wireMessage {
	wire := make([]wireMessage, 0, len(messages))
	for _, msg := range messages {
		m := wireMessage{Role: string(msg.Role), Content: msg.Content}
		switch msg.Role {
		case RoleAssistant:
			if len(msg.ToolCalls) > 0 {
				m.Content = nil
				m.ToolCalls = msg.ToolCalls
			}
		case RoleTool:
			m.ToolCallID = msg.ToolCallID
		}
		wire = append(wire, m)
	}
	return wire
}
