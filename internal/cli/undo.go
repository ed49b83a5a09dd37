package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/planwise/planwise/internal/clock"
	"github.com/planwise/planwise/internal/config"
	"github.com/planwise/planwise/internal/domain"
	"github.com/planwise/planwise/internal/errors"
)

// newUndoCmd creates the 'undo' command.
func newUndoCmd(global *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "undo [entry-id]",
		Short: "Reverse the most recent applied action",
		Long: `Reverse an applied action by restoring the workspace snapshot taken
before it ran.

Without an argument, the most recent reversible action is undone. The
restore replaces the whole workspace: edits made after the action are
lost with it. Actions outside the configured undo window can no longer
be reversed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return runUndo(cmd.Context(), cmd.OutOrStdout(), global, id)
		},
		SilenceUsage: true,
	}
}

// AddUndoCommand adds the undo command to the root command.
func AddUndoCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newUndoCmd(global))
}

// runUndo executes the undo command.
func runUndo(ctx context.Context, w io.Writer, global *GlobalFlags, id string) error {
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
		return errors.Wrap(errors.ErrEntryNotFound,
			"history is disabled, nothing to undo")
	}

	entries, err := log.Entries(ctx)
	if err != nil {
		return err
	}

	now := clock.RealClock{}.Now()
	window := cfg.Assist.UndoWindowMinutes

	var entry *domain.ActionHistoryEntry
	if id != "" {
		entry, err = findEntry(ctx, log, entries, id)
		if err != nil {
			return err
		}
	} else {
		entry = mostRecentReversible(entries, now, window)
		if entry == nil {
			return errors.Wrap(errors.ErrEntryNotFound, "no reversible action")
		}
	}

	restored, err := log.Undo(ctx, entry, window)
	if err != nil {
		return fmt.Errorf("undo failed: %w", err)
	}

	if err := SaveWorkspaceFile(global.Workspace, restored); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "Undid %s %q; workspace restored.\n", shortID(entry.ID), entry.Prompt)
	return nil
}
