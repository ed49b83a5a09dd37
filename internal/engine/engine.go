// Package engine applies sanitized change batches to a cloned workspace.
//
// The engine never mutates the caller's workspace: every Apply call clones the
// input, applies changes sequentially and best-effort, and returns the clone
// alongside per-change error accounting. The caller decides whether to adopt
// the result. This clone-then-mutate discipline is the core's only consistency
// mechanism; a partially-failed batch can never corrupt the canonical copy.
//
// IMPORTANT: This package may import internal/constants, internal/errors,
// and internal/domain. It MUST NOT import internal/ai, internal/history,
// or internal/cli.
package engine

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/planwise/planwise/internal/domain"
)

// Engine applies change batches. The "tomorrow" inference in the target-table
// fallback chain is relative to the source table's date, not the wall clock,
// so the engine needs no clock.
type Engine struct {
	logger zerolog.Logger
}

// New creates an Engine.
func New(logger zerolog.Logger) *Engine {
	return &Engine{logger: logger}
}

// Apply applies the changes to a deep clone of w, sequentially and
// independently. A failed change is recorded and the loop continues: this is
// a deliberate partial-failure policy, not a transaction. Success is true
// only when Errors is empty; UpdatedWorkspace reflects every change that did
// succeed either way.
func (e *Engine) Apply(w *domain.Workspace, changes []domain.Change) *domain.ApplyResult {
	updated := w.Clone()

	result := &domain.ApplyResult{UpdatedWorkspace: updated}
	for i, c := range changes {
		if err := e.applyChange(updated, c); err != nil {
			msg := fmt.Sprintf("change %d (%s): %v", i, c.Action, err)
			result.Errors = append(result.Errors, msg)
			e.logger.Warn().Str("action", string(c.Action)).Int("index", i).Err(err).
				Msg("change failed to apply")
			continue
		}
		result.AppliedCount++
	}

	result.Success = len(result.Errors) == 0
	return result
}

func (e *Engine) applyChange(w *domain.Workspace, c domain.Change) error {
	switch c.Action {
	case domain.ActionMoveTasks:
		return e.applyMoveTasks(w, c)
	case domain.ActionUpdateTask:
		return applyUpdateTask(w, c)
	case domain.ActionCreateTask:
		return applyCreateTask(w, c)
	case domain.ActionDeleteTask:
		return applyDeleteTask(w, c)
	case domain.ActionCreateTable:
		return applyCreateTable(w, c)
	case domain.ActionUpdateTable:
		return applyUpdateTable(w, c)
	case domain.ActionReorderTasks:
		return applyReorderTasks(w, c)
	default:
		return fmt.Errorf("unrecognized action %q", c.Action)
	}
}
