package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/planwise/planwise/internal/assist"
	"github.com/planwise/planwise/internal/config"
	"github.com/planwise/planwise/internal/scope"
)

// AssistFlags holds flags specific to the assist command.
type AssistFlags struct {
	// Apply confirms application of the proposed changes even in preview mode.
	Apply bool
	// Tables restricts the provider-facing context to the listed table ids.
	Tables []string
	// Group narrows tasks to the given group.
	Group string
	// From and To bound day tables to an inclusive YYYY-MM-DD range.
	From string
	To   string
	// Provider and Model override the configured backend for this run.
	Provider string
	Model    string
}

// newAssistCmd creates the 'assist' command.
func newAssistCmd(global *GlobalFlags, flags *AssistFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assist <instruction>",
		Short: "Run a natural-language instruction against the workspace",
		Long: `Run a natural-language instruction against the workspace.

Questions ("how many tasks do I have on Friday?") return insights without
touching the workspace. Actions ("move my tasks to tomorrow") propose a
change set that is previewed, or applied when --apply is set or the
configured mode is automatic. Applied actions are recorded and can be
reversed with 'planwise undo' inside the configured window.

Examples:
  planwise assist "how many tasks are left this week?"
  planwise assist "move everything from Monday to Tuesday" --apply
  planwise assist "clear my work tasks" --group work`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssist(cmd.Context(), cmd.OutOrStdout(), global, flags, args[0])
		},
		SilenceUsage: true,
	}

	cmd.Flags().BoolVar(&flags.Apply, "apply", false, "apply the proposed changes without a separate confirmation")
	cmd.Flags().StringSliceVar(&flags.Tables, "tables", nil, "restrict context to these table ids")
	cmd.Flags().StringVar(&flags.Group, "group", "", "narrow tasks to this group")
	cmd.Flags().StringVar(&flags.From, "from", "", "start of the date range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.To, "to", "", "end of the date range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.Provider, "provider", "", "override the configured provider for this run")
	cmd.Flags().StringVar(&flags.Model, "model", "", "override the configured model for this run")

	return cmd
}

// AddAssistCommand adds the assist command to the root command.
func AddAssistCommand(root *cobra.Command, global *GlobalFlags) {
	flags := &AssistFlags{}
	root.AddCommand(newAssistCmd(global, flags))
}

// runAssist executes the assist command.
func runAssist(ctx context.Context, w io.Writer, global *GlobalFlags, flags *AssistFlags, utterance string) error {
	logger := GetLogger()

	overrides := &config.Config{}
	overrides.Assist.Provider = flags.Provider
	overrides.Assist.Model = flags.Model
	cfg, err := config.LoadWithOverrides(ctx, overrides)
	if err != nil {
		return err
	}

	workspace, err := LoadWorkspaceFile(global.Workspace)
	if err != nil {
		return err
	}

	log, err := newHistoryLog(cfg, logger)
	if err != nil {
		return err
	}

	req := scope.Request{TableIDs: flags.Tables, TaskGroup: flags.Group}
	if flags.From != "" || flags.To != "" {
		req.DateRange = &scope.DateRange{From: flags.From, To: flags.To}
	}

	pipeline := newPipeline(cfg, log, logger)
	outcome, err := pipeline.Run(ctx, workspace, utterance, req, flags.Apply)
	if err != nil {
		return fmt.Errorf("assist failed: %w", err)
	}

	if outcome.Apply != nil && outcome.Apply.AppliedCount > 0 {
		if err := SaveWorkspaceFile(global.Workspace, outcome.Apply.UpdatedWorkspace); err != nil {
			return err
		}
	}

	if global.Output == OutputJSON {
		return renderAssistJSON(w, outcome)
	}
	renderAssistText(w, outcome)
	return nil
}

// renderAssistText writes the human-readable outcome.
func renderAssistText(w io.Writer, outcome *assist.Outcome) {
	result := outcome.Result

	if len(result.Insights) > 0 {
		for _, insight := range result.Insights {
			_, _ = fmt.Fprintf(w, "  • %s\n", insight)
		}
		_, _ = fmt.Fprintf(w, "\n%s\n", result.Summary)
		return
	}

	_, _ = fmt.Fprintln(w, result.Summary)
	for _, desc := range outcome.Descriptions {
		_, _ = fmt.Fprintf(w, "  - %s\n", desc)
	}
	// Apply errors cover the same changes once the batch runs, so the
	// validation findings are only shown while the preview is held.
	if outcome.Held() {
		for _, problem := range outcome.Problems {
			_, _ = fmt.Fprintf(w, "  ! %s\n", problem)
		}
	}

	switch {
	case outcome.Held():
		_, _ = fmt.Fprintln(w, "\nRun again with --apply to apply these changes.")
	case outcome.Apply != nil && outcome.Apply.Success:
		_, _ = fmt.Fprintf(w, "\nApplied %d change(s).\n", outcome.Apply.AppliedCount)
	case outcome.Apply != nil:
		_, _ = fmt.Fprintf(w, "\nApplied %d change(s), %d failed:\n",
			outcome.Apply.AppliedCount, len(outcome.Apply.Errors))
		for _, msg := range outcome.Apply.Errors {
			_, _ = fmt.Fprintf(w, "  ! %s\n", msg)
		}
	}

	if outcome.Entry != nil {
		_, _ = fmt.Fprintf(w, "Recorded as %s (undo with 'planwise undo').\n", shortID(outcome.Entry.ID))
	}
}

// renderAssistJSON writes the machine-readable outcome.
func renderAssistJSON(w io.Writer, outcome *assist.Outcome) error {
	payload := map[string]any{
		"mode":    string(outcome.Mode),
		"summary": outcome.Result.Summary,
	}
	if len(outcome.Result.Insights) > 0 {
		payload["insights"] = outcome.Result.Insights
	}
	if len(outcome.Descriptions) > 0 {
		payload["changes"] = outcome.Descriptions
	}
	if len(outcome.Problems) > 0 {
		payload["problems"] = outcome.Problems
	}
	payload["held"] = outcome.Held()
	if outcome.Apply != nil {
		payload["applied"] = outcome.Apply.AppliedCount
		payload["errors"] = outcome.Apply.Errors
	}
	if outcome.Entry != nil {
		payload["entry_id"] = outcome.Entry.ID
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

// shortID abbreviates a UUID for display.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
