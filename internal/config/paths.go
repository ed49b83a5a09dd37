package config

import (
	"os"
	"path/filepath"

	"github.com/planwise/planwise/internal/constants"
	"github.com/planwise/planwise/internal/errors"
)

// GlobalConfigDir returns the path to the global Planwise configuration
// directory, typically ~/.planwise on Unix systems. The PLANWISE_HOME
// environment variable overrides the default location.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigDir() (string, error) {
	if custom := os.Getenv("PLANWISE_HOME"); custom != "" {
		return custom, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.PlanwiseHome), nil
}

// GlobalConfigPath returns the full path to the global configuration file,
// typically ~/.planwise/config.yaml on Unix systems.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.ConfigFileName), nil
}

// HistoryPath returns the full path to the encrypted history blob,
// typically ~/.planwise/history.enc.
func HistoryPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.HistoryFileName), nil
}

// LogsDir returns the directory where Planwise writes rotating log files,
// typically ~/.planwise/logs.
func LogsDir() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.LogsDir), nil
}
