package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/planwise/planwise/internal/clock"
	"github.com/planwise/planwise/internal/config"
	"github.com/planwise/planwise/internal/domain"
	"github.com/planwise/planwise/internal/history"
)

// newHistoryCmd creates the 'history' command.
func newHistoryCmd(global *GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded assist actions",
		Long: `List recorded assist actions, newest first.

Each entry shows whether it was applied, undone, or has fallen outside the
configured undo window and is no longer reversible.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistoryList(cmd.Context(), cmd.OutOrStdout(), global)
		},
		SilenceUsage: true,
	}

	cmd.AddCommand(newHistoryClearCmd())

	return cmd
}

// newHistoryClearCmd creates the 'history clear' subcommand.
func newHistoryClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistoryClear(cmd.Context(), cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}
}

// AddHistoryCommand adds the history command to the root command.
func AddHistoryCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newHistoryCmd(global))
}

// entryStatus describes an entry's standing against the undo window.
type entryStatus string

const (
	statusReversible entryStatus = "reversible"
	statusUndone     entryStatus = "undone"
	statusExpired    entryStatus = "expired"
)

// statusOf classifies a history entry at the given time.
func statusOf(entry *domain.ActionHistoryEntry, now time.Time, windowMinutes int) entryStatus {
	switch {
	case entry.UndoneAt != nil:
		return statusUndone
	case entry.Undoable(now, windowMinutes):
		return statusReversible
	default:
		return statusExpired
	}
}

// runHistoryList executes the history command.
func runHistoryList(ctx context.Context, w io.Writer, global *GlobalFlags) error {
	logger := GetLogger()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log, err := newHistoryLog(cfg, logger)
	if err != nil {
		return err
	}
	if log == nil {
		_, _ = fmt.Fprintln(w, "History is disabled: no history secret configured.")
		return nil
	}

	entries, err := log.Entries(ctx)
	if err != nil {
		return err
	}

	now := clock.RealClock{}.Now()
	window := cfg.Assist.UndoWindowMinutes

	if global.Output == OutputJSON {
		return renderHistoryJSON(w, entries, now, window)
	}
	renderHistoryText(w, entries, now, window)
	return nil
}

// runHistoryClear executes the history clear command.
func runHistoryClear(ctx context.Context, w io.Writer) error {
	logger := GetLogger()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log, err := newHistoryLog(cfg, logger)
	if err != nil {
		return err
	}
	if log == nil {
		_, _ = fmt.Fprintln(w, "History is disabled: no history secret configured.")
		return nil
	}

	if err := log.Clear(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w, "History cleared.")
	return nil
}

// renderHistoryText writes the entries as a human-readable list, newest first.
func renderHistoryText(w io.Writer, entries []domain.ActionHistoryEntry, now time.Time, window int) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(w, "No recorded actions.")
		return
	}

	for i := len(entries) - 1; i >= 0; i-- {
		entry := &entries[i]
		_, _ = fmt.Fprintf(w, "%s  %s  [%s]  %q  (%d change(s))\n",
			shortID(entry.ID),
			entry.AppliedAt.Format("2006-01-02 15:04"),
			statusOf(entry, now, window),
			entry.Prompt,
			len(entry.Changes))
	}
}

// renderHistoryJSON writes the entries as JSON, newest first.
func renderHistoryJSON(w io.Writer, entries []domain.ActionHistoryEntry, now time.Time, window int) error {
	type jsonEntry struct {
		ID        string    `json:"id"`
		AppliedAt time.Time `json:"applied_at"`
		Status    string    `json:"status"`
		Prompt    string    `json:"prompt"`
		Changes   int       `json:"changes"`
	}

	out := make([]jsonEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		entry := &entries[i]
		out = append(out, jsonEntry{
			ID:        entry.ID,
			AppliedAt: entry.AppliedAt,
			Status:    string(statusOf(entry, now, window)),
			Prompt:    entry.Prompt,
			Changes:   len(entry.Changes),
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// mostRecentReversible returns the newest entry that can still be undone.
func mostRecentReversible(entries []domain.ActionHistoryEntry, now time.Time, window int) *domain.ActionHistoryEntry {
	for i := len(entries) - 1; i >= 0; i-- {
		if statusOf(&entries[i], now, window) == statusReversible {
			return &entries[i]
		}
	}
	return nil
}

// findEntry returns the entry whose id matches, accepting the short prefix
// form shown by the history listing.
func findEntry(ctx context.Context, log *history.Log, entries []domain.ActionHistoryEntry, id string) (*domain.ActionHistoryEntry, error) {
	for i := range entries {
		if entries[i].ID == id || shortID(entries[i].ID) == id {
			return &entries[i], nil
		}
	}
	// Fall through to the log for the canonical not-found error.
	return log.Find(ctx, id)
}
