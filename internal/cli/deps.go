package cli

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/planwise/planwise/internal/ai"
	"github.com/planwise/planwise/internal/assist"
	"github.com/planwise/planwise/internal/clock"
	"github.com/planwise/planwise/internal/config"
	"github.com/planwise/planwise/internal/crypto"
	"github.com/planwise/planwise/internal/engine"
	"github.com/planwise/planwise/internal/errors"
	"github.com/planwise/planwise/internal/history"
	"github.com/planwise/planwise/internal/scope"
)

// newHistoryLog builds the encrypted history log from configuration.
// Returns nil (and no error) when no history secret is configured; in that
// case applied actions are not persisted and cannot be undone across runs.
func newHistoryLog(cfg *config.Config, logger zerolog.Logger) (*history.Log, error) {
	secret := cfg.History.Secret()
	if secret == "" {
		logger.Warn().
			Str("env_var", cfg.History.SecretEnvVar).
			Msg("no history secret configured, actions will not be recorded")
		return nil, nil
	}

	path, err := config.HistoryPath()
	if err != nil {
		return nil, errors.Wrap(err, "resolving history path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, errors.Wrap(err, "creating planwise home directory")
	}

	store := history.NewFileStore(path, crypto.NewAESGCM(secret))
	return history.NewLog(store, clock.RealClock{}, logger, cfg.History.MaxEntries), nil
}

// newPipeline assembles the assist pipeline with production collaborators.
func newPipeline(cfg *config.Config, log *history.Log, logger zerolog.Logger) *assist.Pipeline {
	clk := clock.RealClock{}
	return assist.New(cfg, ai.NewRegistry(), scope.New(clk), engine.New(logger), log, logger)
}
