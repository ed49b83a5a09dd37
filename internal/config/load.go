package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/planwise/planwise/internal/errors"
)

// newViperInstance creates a new Viper instance with standard Planwise
// configuration: environment variable prefix (PLANWISE_), key replacer,
// and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("PLANWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not
// found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence.
// Configuration is loaded in the following order (highest precedence first):
//  1. Environment variables (PLANWISE_* prefix)
//  2. Global config (~/.planwise/config.yaml)
//  3. Built-in defaults
//
// For CLI flag overrides, use LoadWithOverrides instead.
//
// The function returns an error only for actual configuration problems,
// not for a missing config file (which is expected on first run).
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("assist.provider", cfg.Assist.Provider).
		Str("assist.mode", cfg.Assist.Mode).
		Int("assist.undo_window_minutes", cfg.Assist.UndoWindowMinutes).
		Msg("configuration loaded and unmarshaled")

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &cfg, nil
}

// loadGlobalConfig attempts to load the global config file (~/.planwise/config.yaml).
// Returns nil if the file doesn't exist or home directory cannot be determined.
func loadGlobalConfig(v *viper.Viper) error {
	globalConfigPath, ok := getGlobalConfigPathIfExists()
	if !ok {
		return nil
	}

	v.SetConfigFile(globalConfigPath)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// getGlobalConfigPathIfExists returns the global config path if it exists.
func getGlobalConfigPathIfExists() (string, bool) {
	path, err := GlobalConfigPath()
	if err != nil {
		return "", false
	}
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// The overrides parameter contains values from CLI flags which have the
// highest precedence in the configuration hierarchy.
//
// Only non-zero values in overrides are applied. Zero values are ignored
// to allow partial overrides. Enabled is a bool and cannot be overridden
// to false here; disabling assist is a configuration decision, not a
// per-run flag.
func LoadWithOverrides(ctx context.Context, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}

	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path for testing.
func LoadFromPath(_ context.Context, configPath string) (*Config, error) {
	v := newViperInstance()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read config: %s", configPath)
		}
	}

	return unmarshalAndValidate(v)
}

// setDefaults configures all default values on the Viper instance.
// These defaults match the values from DefaultConfig().
// IMPORTANT: Keys must match the YAML tag names exactly for proper mapping.
func setDefaults(v *viper.Viper) {
	// Assist defaults
	v.SetDefault("assist.enabled", true)
	v.SetDefault("assist.provider", ProviderOpenAI)
	v.SetDefault("assist.api_key_env_var", "PLANWISE_API_KEY")
	v.SetDefault("assist.model", "")
	v.SetDefault("assist.mode", ModePreview)
	v.SetDefault("assist.undo_window_minutes", 30)
	v.SetDefault("assist.timeout", "120s")

	// History defaults
	v.SetDefault("history.secret_env_var", "PLANWISE_HISTORY_SECRET")
	v.SetDefault("history.max_entries", 50)
}

// applyOverrides merges non-zero override values into the config.
func applyOverrides(cfg, overrides *Config) {
	if overrides.Assist.Provider != "" {
		cfg.Assist.Provider = overrides.Assist.Provider
	}
	if overrides.Assist.APIKeyEnvVar != "" {
		cfg.Assist.APIKeyEnvVar = overrides.Assist.APIKeyEnvVar
	}
	if overrides.Assist.Model != "" {
		cfg.Assist.Model = overrides.Assist.Model
	}
	if overrides.Assist.Mode != "" {
		cfg.Assist.Mode = overrides.Assist.Mode
	}
	if overrides.Assist.UndoWindowMinutes != 0 {
		cfg.Assist.UndoWindowMinutes = overrides.Assist.UndoWindowMinutes
	}
	if overrides.Assist.CustomEndpoint != "" {
		cfg.Assist.CustomEndpoint = overrides.Assist.CustomEndpoint
	}
	if overrides.Assist.Timeout != 0 {
		cfg.Assist.Timeout = overrides.Assist.Timeout
	}
	if overrides.History.SecretEnvVar != "" {
		cfg.History.SecretEnvVar = overrides.History.SecretEnvVar
	}
	if overrides.History.MaxEntries != 0 {
		cfg.History.MaxEntries = overrides.History.MaxEntries
	}
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
// This configures mapstructure to handle time.Duration conversion from strings.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}
