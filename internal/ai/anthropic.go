package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	pwerrors "github.com/planwise/planwise/internal/errors"
)

const (
	anthropicDefaultBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
	anthropicMaxTokens      = 4096
)

// AnthropicClient speaks the system/user-splitting wire shape: the leading
// system message is lifted into a top-level field and the remaining turns are
// sent as a user/assistant message array.
type AnthropicClient struct {
	baseURL string
	creds   Credentials
	http    httpDoer
}

// NewAnthropic creates a client for the message-splitting backend.
func NewAnthropic(creds Credentials) *AnthropicClient {
	base := anthropicDefaultBaseURL
	if creds.Endpoint != "" {
		base = creds.Endpoint
	}
	return &AnthropicClient{
		baseURL: base,
		creds:   creds,
		http:    newHTTPClient(),
	}
}

// Provider returns the backend name.
func (c *AnthropicClient) Provider() string {
	return "anthropic"
}

type anthropicRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
}

type anthropicResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage *struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// splitSystem separates leading system messages from the conversational
// turns, concatenating multiple system messages in order.
func splitSystem(messages []Message) (string, []Message) {
	var system []string
	rest := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(system, "\n\n"), rest
}

// Complete implements Client.
func (c *AnthropicClient) Complete(ctx context.Context, messages []Message) (*Completion, error) {
	system, rest := splitSystem(messages)

	body, err := json.Marshal(anthropicRequest{
		Model:     c.creds.Model,
		MaxTokens: anthropicMaxTokens,
		System:    system,
		Messages:  rest,
	})
	if err != nil {
		return nil, pwerrors.Wrap(err, "marshaling request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, pwerrors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.creds.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, WrapTransportError("anthropic", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, WrapTransportError("anthropic", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, NewProviderError("anthropic", resp.StatusCode, string(raw))
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, pwerrors.Wrap(pwerrors.ErrInvalidResponse, "anthropic: malformed completion body")
	}

	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, pwerrors.Wrap(pwerrors.ErrInvalidResponse, "anthropic: empty completion")
	}

	completion := &Completion{Content: text.String(), Model: parsed.Model}
	if parsed.Usage != nil {
		completion.Usage = &Usage{
			PromptTokens:     parsed.Usage.InputTokens,
			CompletionTokens: parsed.Usage.OutputTokens,
			TotalTokens:      parsed.Usage.InputTokens + parsed.Usage.OutputTokens,
		}
	}
	return completion, nil
}

var _ Client = (*AnthropicClient)(nil)
