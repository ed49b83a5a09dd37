package config

import (
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/planwise/planwise/internal/constants"
	"github.com/planwise/planwise/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values and
// normalizes the ones with a documented clamp. It returns an error describing
// the first validation failure found.
//
// Validation rules:
//   - assist.provider must be one of openai, anthropic, custom
//   - assist.mode must be preview or automatic
//   - assist.undo_window_minutes is clamped to 1-1440
//   - assist.custom_endpoint must be a valid absolute URL when provider is custom
//   - assist.timeout must be positive
//   - history.max_entries must be positive
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateAssistConfig(&cfg.Assist); err != nil {
		return err
	}

	if cfg.History.MaxEntries <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"history.max_entries must be positive, got %d", cfg.History.MaxEntries)
	}

	return nil
}

// validateAssistConfig checks assist-specific configuration values.
// UndoWindowMinutes is clamped rather than rejected so a too-large window
// degrades to the maximum instead of breaking the pipeline.
func validateAssistConfig(cfg *AssistConfig) error {
	if cfg.UndoWindowMinutes < constants.MinUndoWindowMinutes {
		cfg.UndoWindowMinutes = constants.MinUndoWindowMinutes
	}
	if cfg.UndoWindowMinutes > constants.MaxUndoWindowMinutes {
		cfg.UndoWindowMinutes = constants.MaxUndoWindowMinutes
	}

	if err := validation.ValidateStruct(cfg,
		validation.Field(&cfg.Provider, validation.Required,
			validation.In(ProviderOpenAI, ProviderAnthropic, ProviderCustom)),
		validation.Field(&cfg.Mode, validation.Required,
			validation.In(ModePreview, ModeAutomatic)),
	); err != nil {
		return errors.Wrap(errors.ErrConfigInvalid, err.Error())
	}

	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"assist.timeout must be positive, got %s", cfg.Timeout)
	}

	if cfg.Provider == ProviderCustom {
		if cfg.CustomEndpoint == "" {
			return errors.Wrap(errors.ErrConfigInvalid,
				"assist.custom_endpoint is required when assist.provider is custom")
		}
		u, err := url.Parse(cfg.CustomEndpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.Wrapf(errors.ErrConfigInvalid,
				"assist.custom_endpoint must be an absolute URL, got %q", cfg.CustomEndpoint)
		}
	}

	return nil
}
