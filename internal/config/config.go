// Package config provides configuration management for Planwise with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (PLANWISE_* prefix)
//  3. Global config (~/.planwise/config.yaml)
//  4. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import (
	"os"
	"time"
)

// Provider names accepted by the assist pipeline.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderCustom    = "custom"
)

// Assist modes.
const (
	// ModePreview holds validated changes for explicit user confirmation.
	ModePreview = "preview"

	// ModeAutomatic applies validated changes immediately, relying on the
	// undo window for recovery.
	ModeAutomatic = "automatic"
)

// Config is the root configuration structure for Planwise.
type Config struct {
	// Assist contains settings for the AI assist pipeline.
	Assist AssistConfig `yaml:"assist" mapstructure:"assist"`

	// History contains settings for the encrypted action history.
	History HistoryConfig `yaml:"history" mapstructure:"history"`
}

// AssistConfig contains settings for the AI assist pipeline.
// These settings select the provider backend and control how validated
// change sets reach the workspace.
type AssistConfig struct {
	// Enabled toggles the assist pipeline. When false, the assist command
	// refuses to run without touching any provider.
	// Default: true
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Provider selects the chat-completion backend.
	// Valid values: "openai", "anthropic", "custom".
	// Default: "openai"
	Provider string `yaml:"provider" mapstructure:"provider"`

	// APIKeyEnvVar names the environment variable holding the provider API key.
	// Keys never live in the config file.
	// Default: "PLANWISE_API_KEY"
	APIKeyEnvVar string `yaml:"api_key_env_var" mapstructure:"api_key_env_var"`

	// Model is the provider model identifier sent with every request.
	Model string `yaml:"model" mapstructure:"model"`

	// Mode controls whether a validated change set is applied immediately
	// ("automatic") or held for confirmation ("preview").
	// Default: "preview"
	Mode string `yaml:"mode" mapstructure:"mode"`

	// UndoWindowMinutes is how long an applied action stays reversible.
	// Clamped to 1-1440 at validation time.
	// Default: 30
	UndoWindowMinutes int `yaml:"undo_window_minutes" mapstructure:"undo_window_minutes"`

	// CustomEndpoint is the base URL of an OpenAI-compatible backend.
	// Required and validated when Provider is "custom"; ignored otherwise.
	CustomEndpoint string `yaml:"custom_endpoint,omitempty" mapstructure:"custom_endpoint"`

	// Timeout bounds a single provider round trip.
	// Default: 120s
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// APIKey resolves the provider API key from the configured environment variable.
// Returns an empty string when the variable is unset.
func (c *AssistConfig) APIKey() string {
	if c.APIKeyEnvVar == "" {
		return ""
	}
	return os.Getenv(c.APIKeyEnvVar)
}

// HistoryConfig contains settings for the encrypted action history.
type HistoryConfig struct {
	// SecretEnvVar names the environment variable holding the secret that
	// keys the history encryption. The secret never lives in the config file.
	// Default: "PLANWISE_HISTORY_SECRET"
	SecretEnvVar string `yaml:"secret_env_var" mapstructure:"secret_env_var"`

	// MaxEntries caps the persisted history. Oldest entries are dropped first.
	// Default: 50
	MaxEntries int `yaml:"max_entries" mapstructure:"max_entries"`
}

// Secret resolves the history encryption secret from the configured
// environment variable. Returns an empty string when the variable is unset.
func (c *HistoryConfig) Secret() string {
	if c.SecretEnvVar == "" {
		return ""
	}
	return os.Getenv(c.SecretEnvVar)
}
