// Package ai provides the provider-facing half of the Planwise assist
// pipeline: uniform chat-completion clients over heterogeneous backends, the
// retry orchestrator, response validation, and sanitization of untrusted
// model output.
//
// IMPORTANT: This package may import internal/constants, internal/errors,
// internal/domain, internal/intent, and internal/scope. It MUST NOT import
// internal/engine, internal/history, or internal/cli.
package ai

import (
	"context"
	"net/http"
	"time"

	"github.com/planwise/planwise/internal/constants"
)

// Role labels for chat messages, as sent on the wire.
const (
	// RoleSystem is the instruction-bearing leading message.
	RoleSystem = "system"

	// RoleUser carries the user utterance and workspace context.
	RoleUser = "user"

	// RoleAssistant carries prior model turns.
	RoleAssistant = "assistant"
)

// Message is one chat turn in a provider request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage reports token consumption when the backend provides it.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the uniform result of a provider call, independent of the
// backend's wire shape.
type Completion struct {
	// Content is the raw text of the model's reply.
	Content string

	// Model is the model identifier the backend reports having used.
	Model string

	// Usage is token accounting, nil when the backend omits it.
	Usage *Usage
}

// Client is the uniform request/response contract over chat-completion
// backends. Implementations differ only in wire shape.
type Client interface {
	// Complete sends the messages and returns the model's reply.
	// Non-2xx HTTP responses yield a *ProviderError carrying the raw
	// status and body.
	Complete(ctx context.Context, messages []Message) (*Completion, error)

	// Provider returns the backend's name for error attribution.
	Provider() string
}

// Credentials carries everything a client needs for one call site. It is an
// explicit value handed to constructors; clients hold no ambient or
// process-wide state.
type Credentials struct {
	// APIKey authenticates against the backend.
	APIKey string

	// Model is the model identifier to request.
	Model string

	// Endpoint overrides the backend's default base URL. Required for the
	// custom provider, optional elsewhere.
	Endpoint string
}

// httpDoer is the subset of *http.Client the clients need. Tests substitute
// an httptest-backed client.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// newHTTPClient builds the default transport used when none is injected.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: constants.DefaultRequestTimeout}
}

// ensure the default client satisfies the seam.
var _ httpDoer = &http.Client{Timeout: 1 * time.Second}
