package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	pwerrors "github.com/planwise/planwise/internal/errors"
)

const openAIDefaultBaseURL = "https://api.openai.com"

// OpenAIClient speaks the JSON-native chat-completion wire shape: a flat
// message array with a json_object response format. The same shape serves the
// custom provider, pointed at a caller-supplied endpoint.
type OpenAIClient struct {
	name    string
	baseURL string
	creds   Credentials
	http    httpDoer
}

// NewOpenAI creates a client for the JSON-native backend.
func NewOpenAI(creds Credentials) *OpenAIClient {
	base := openAIDefaultBaseURL
	if creds.Endpoint != "" {
		base = creds.Endpoint
	}
	return &OpenAIClient{
		name:    "openai",
		baseURL: base,
		creds:   creds,
		http:    newHTTPClient(),
	}
}

// NewCustom creates a client for a user-configured JSON-native compatible
// endpoint. The wire shape is identical to NewOpenAI; only the base URL and
// error attribution differ.
func NewCustom(creds Credentials) *OpenAIClient {
	c := NewOpenAI(creds)
	c.name = "custom"
	c.baseURL = creds.Endpoint
	return c
}

// Provider returns the backend name.
func (c *OpenAIClient) Provider() string {
	return c.name
}

type openAIRequest struct {
	Model          string               `json:"model"`
	Messages       []Message            `json:"messages"`
	ResponseFormat openAIResponseFormat `json:"response_format"`
}

type openAIResponseFormat struct {
	Type string `json:"type"`
}

type openAIResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *Usage `json:"usage"`
}

// Complete implements Client.
func (c *OpenAIClient) Complete(ctx context.Context, messages []Message) (*Completion, error) {
	body, err := json.Marshal(openAIRequest{
		Model:          c.creds.Model,
		Messages:       messages,
		ResponseFormat: openAIResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, pwerrors.Wrap(err, "marshaling request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, pwerrors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.creds.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, WrapTransportError(c.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, WrapTransportError(c.name, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, NewProviderError(c.name, resp.StatusCode, string(raw))
	}

	var parsed openAIResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, pwerrors.Wrapf(pwerrors.ErrInvalidResponse, "%s: malformed completion body", c.name)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return nil, pwerrors.Wrapf(pwerrors.ErrInvalidResponse, "%s: empty completion", c.name)
	}

	return &Completion{
		Content: parsed.Choices[0].Message.Content,
		Model:   parsed.Model,
		Usage:   parsed.Usage,
	}, nil
}

// Compile-time interface checks.
var _ Client = (*OpenAIClient)(nil)
