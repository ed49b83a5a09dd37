package config

import (
	"github.com/planwise/planwise/internal/constants"
)

// DefaultConfig returns a new Config with sensible default values.
// These defaults are used as the base layer that can be overridden by
// config files, environment variables, and CLI flags.
func DefaultConfig() *Config {
	return &Config{
		Assist: AssistConfig{
			// Enabled: the assist pipeline is on out of the box. The
			// provider still refuses to run without an API key.
			Enabled: true,

			// Provider: "openai" is the JSON-native default backend.
			Provider: ProviderOpenAI,

			// APIKeyEnvVar: a single Planwise-scoped variable regardless
			// of provider, so switching backends never leaks a stale key.
			APIKeyEnvVar: "PLANWISE_API_KEY",

			// Model: empty means the provider's own default is used.
			Model: "",

			// Mode: preview is the safe default. Automatic application
			// is opt-in because it relies on the undo window for recovery.
			Mode: ModePreview,

			// UndoWindowMinutes: 30 minutes balances safety against
			// keeping stale snapshots reversible.
			UndoWindowMinutes: constants.DefaultUndoWindowMinutes,

			// Timeout: generous enough for large scoped contexts.
			Timeout: constants.DefaultRequestTimeout,
		},
		History: HistoryConfig{
			SecretEnvVar: "PLANWISE_HISTORY_SECRET",
			MaxEntries:   constants.MaxHistoryEntries,
		},
	}
}
