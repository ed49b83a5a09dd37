package ai

import (
	"fmt"

	"github.com/planwise/planwise/internal/domain"
)

// ValidateChanges checks every change in a batch against its required-field
// set and, where the change must reference existing entities, against the
// current workspace. Problems are collected as strings rather than returned
// on first failure so one bad change does not mask the rest of the batch.
//
// move_tasks target tables are exempt from the referential check: the engine
// resolves missing targets through its fallback chain at apply time.
func ValidateChanges(w *domain.Workspace, changes []domain.Change) []string {
	var problems []string

	report := func(i int, format string, args ...any) {
		problems = append(problems, fmt.Sprintf("change %d: %s", i, fmt.Sprintf(format, args...)))
	}

	for i, c := range changes {
		switch c.Action {
		case domain.ActionMoveTasks:
			if c.FromTableID == "" {
				report(i, "move_tasks missing from_table_id")
				continue
			}
			if c.ToTableID == "" {
				report(i, "move_tasks missing to_table_id")
				continue
			}
			if len(c.TaskIDs) == 0 {
				report(i, "move_tasks missing task_ids")
				continue
			}
			src := w.FindTable(c.FromTableID)
			if src == nil {
				report(i, "source table %q not found", c.FromTableID)
				continue
			}
			for _, id := range c.TaskIDs {
				if src.FindTask(id) == nil {
					report(i, "task %q not found in table %q", id, c.FromTableID)
				}
			}

		case domain.ActionUpdateTask:
			if c.TableID == "" || c.TaskID == "" {
				report(i, "update_task missing table_id or task_id")
				continue
			}
			if c.Updates == nil {
				report(i, "update_task missing updates object")
				continue
			}
			tbl := w.FindTable(c.TableID)
			if tbl == nil {
				report(i, "table %q not found", c.TableID)
				continue
			}
			if tbl.FindTask(c.TaskID) == nil {
				report(i, "task %q not found in table %q", c.TaskID, c.TableID)
			}

		case domain.ActionCreateTask:
			if c.TableID == "" {
				report(i, "create_task missing table_id")
				continue
			}
			if c.Task == nil {
				report(i, "create_task missing task object")
				continue
			}
			if id, _ := c.Task["id"].(string); id == "" {
				report(i, "create_task task object missing id")
			}
			if w.FindTable(c.TableID) == nil {
				report(i, "table %q not found", c.TableID)
			}

		case domain.ActionDeleteTask:
			if c.TableID == "" || c.TaskID == "" {
				report(i, "delete_task missing table_id or task_id")
				continue
			}
			tbl := w.FindTable(c.TableID)
			if tbl == nil {
				report(i, "table %q not found", c.TableID)
				continue
			}
			if tbl.FindTask(c.TaskID) == nil {
				report(i, "task %q not found in table %q", c.TaskID, c.TableID)
			}

		case domain.ActionCreateTable:
			if c.Table == nil {
				report(i, "create_table missing table object")
			}

		case domain.ActionUpdateTable:
			if c.TableID == "" {
				report(i, "update_table missing table_id")
				continue
			}
			if c.Updates == nil {
				report(i, "update_table missing updates object")
				continue
			}
			if w.FindTable(c.TableID) == nil {
				report(i, "table %q not found", c.TableID)
			}

		case domain.ActionReorderTasks:
			if c.TableID == "" {
				report(i, "reorder_tasks missing table_id")
				continue
			}
			if c.TaskIDs == nil {
				report(i, "reorder_tasks missing task_ids array")
				continue
			}
			if w.FindTable(c.TableID) == nil {
				report(i, "table %q not found", c.TableID)
			}

		default:
			report(i, "unrecognized action %q", c.Action)
		}
	}

	return problems
}
