package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/planwise/planwise/internal/config"
	"github.com/planwise/planwise/internal/logging"
)

// newConfigCmd creates the 'config' parent command.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect planwise configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}

	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

// AddConfigCommand adds the config command to the root command.
func AddConfigCommand(root *cobra.Command) {
	root.AddCommand(newConfigCmd())
}

// ConfigShowFlags holds flags specific to the config show command.
type ConfigShowFlags struct {
	// OutputFormat specifies the output format (yaml or json).
	OutputFormat string
}

// newConfigShowCmd creates the 'config show' subcommand.
func newConfigShowCmd() *cobra.Command {
	flags := &ConfigShowFlags{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective Planwise configuration.

Values are merged from built-in defaults, ~/.planwise/config.yaml, and
PLANWISE_* environment variables. The API key and history secret are
resolved from their environment variables and shown redacted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.Context(), cmd.OutOrStdout(), flags)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&flags.OutputFormat, "format", "yaml", "output format (yaml or json)")

	return cmd
}

// shownConfig is the display shape of the effective configuration. Secrets
// are replaced by a redaction marker or a "(not set)" hint.
type shownConfig struct {
	Assist struct {
		Enabled           bool   `json:"enabled" yaml:"enabled"`
		Provider          string `json:"provider" yaml:"provider"`
		APIKeyEnvVar      string `json:"api_key_env_var" yaml:"api_key_env_var"`
		APIKey            string `json:"api_key" yaml:"api_key"`
		Model             string `json:"model" yaml:"model"`
		Mode              string `json:"mode" yaml:"mode"`
		UndoWindowMinutes int    `json:"undo_window_minutes" yaml:"undo_window_minutes"`
		CustomEndpoint    string `json:"custom_endpoint,omitempty" yaml:"custom_endpoint,omitempty"`
		Timeout           string `json:"timeout" yaml:"timeout"`
	} `json:"assist" yaml:"assist"`
	History struct {
		SecretEnvVar string `json:"secret_env_var" yaml:"secret_env_var"`
		Secret       string `json:"secret" yaml:"secret"`
		MaxEntries   int    `json:"max_entries" yaml:"max_entries"`
	} `json:"history" yaml:"history"`
}

// redactPresence renders a secret as present-but-redacted or absent.
func redactPresence(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	return logging.RedactedValue
}

// runConfigShow executes the config show command.
func runConfigShow(ctx context.Context, w io.Writer, flags *ConfigShowFlags) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	var shown shownConfig
	shown.Assist.Enabled = cfg.Assist.Enabled
	shown.Assist.Provider = cfg.Assist.Provider
	shown.Assist.APIKeyEnvVar = cfg.Assist.APIKeyEnvVar
	shown.Assist.APIKey = redactPresence(cfg.Assist.APIKey())
	shown.Assist.Model = cfg.Assist.Model
	shown.Assist.Mode = cfg.Assist.Mode
	shown.Assist.UndoWindowMinutes = cfg.Assist.UndoWindowMinutes
	shown.Assist.CustomEndpoint = cfg.Assist.CustomEndpoint
	shown.Assist.Timeout = cfg.Assist.Timeout.String()
	shown.History.SecretEnvVar = cfg.History.SecretEnvVar
	shown.History.Secret = redactPresence(cfg.History.Secret())
	shown.History.MaxEntries = cfg.History.MaxEntries

	switch flags.OutputFormat {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(&shown); err != nil {
			return err
		}
	case "yaml":
		data, err := yaml.Marshal(&shown)
		if err != nil {
			return err
		}
		_, _ = w.Write(data)
	default:
		return fmt.Errorf("unsupported format %q (use yaml or json)", flags.OutputFormat)
	}

	if path, err := config.GlobalConfigPath(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			_, _ = fmt.Fprintf(w, "\n# config file: %s\n", path)
		} else {
			_, _ = fmt.Fprintf(w, "\n# config file: %s (not found)\n", path)
		}
	}
	if path, err := LogFilePath(); err == nil {
		_, _ = fmt.Fprintf(w, "# log file: %s\n", path)
	}

	return nil
}
