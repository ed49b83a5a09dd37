package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/planwise/planwise/internal/domain"
)

// Describe renders a change as a one-line, human-readable preview summary.
// Titles are resolved against the workspace where possible; raw ids appear
// only when the referenced entity does not exist (yet). The strings feed the
// preview surface directly, so they assume sanitized input.
func Describe(c domain.Change, w *domain.Workspace) string {
	switch c.Action {
	case domain.ActionMoveTasks:
		return fmt.Sprintf("Move %s from %q to %q",
			taskPhrase(w, c.FromTableID, c.TaskIDs),
			tableTitle(w, c.FromTableID),
			tableTitle(w, c.ToTableID))

	case domain.ActionUpdateTask:
		return fmt.Sprintf("Update %q in %q (%s)",
			taskTitle(w, c.TableID, c.TaskID),
			tableTitle(w, c.TableID),
			updatedFields(c.Updates))

	case domain.ActionCreateTask:
		title, _ := c.Task["title"].(string)
		if title == "" {
			title, _ = c.Task["id"].(string)
		}
		return fmt.Sprintf("Create task %q in %q", title, tableTitle(w, c.TableID))

	case domain.ActionDeleteTask:
		return fmt.Sprintf("Delete %q from %q",
			taskTitle(w, c.TableID, c.TaskID),
			tableTitle(w, c.TableID))

	case domain.ActionCreateTable:
		title, _ := c.Table["title"].(string)
		return fmt.Sprintf("Create table %q", title)

	case domain.ActionUpdateTable:
		return fmt.Sprintf("Update table %q (%s)",
			tableTitle(w, c.TableID),
			updatedFields(c.Updates))

	case domain.ActionReorderTasks:
		return fmt.Sprintf("Reorder %d tasks in %q", len(c.TaskIDs), tableTitle(w, c.TableID))

	default:
		return fmt.Sprintf("Unknown action %q", c.Action)
	}
}

// DescribeAll renders one line per change, in batch order.
func DescribeAll(changes []domain.Change, w *domain.Workspace) []string {
	out := make([]string, len(changes))
	for i, c := range changes {
		out[i] = Describe(c, w)
	}
	return out
}

func tableTitle(w *domain.Workspace, id string) string {
	if tbl := w.FindTable(id); tbl != nil && tbl.Title != "" {
		return tbl.Title
	}
	return id
}

func taskTitle(w *domain.Workspace, tableID, taskID string) string {
	if tbl := w.FindTable(tableID); tbl != nil {
		if task := tbl.FindTask(taskID); task != nil && task.Title != "" {
			return task.Title
		}
	}
	return taskID
}

// taskPhrase names one moved task by title, or counts several.
func taskPhrase(w *domain.Workspace, tableID string, taskIDs []string) string {
	if len(taskIDs) == 1 {
		return fmt.Sprintf("%q", taskTitle(w, tableID, taskIDs[0]))
	}
	return fmt.Sprintf("%d tasks", len(taskIDs))
}

func updatedFields(updates map[string]any) string {
	if len(updates) == 0 {
		return "no fields"
	}
	fields := make([]string, 0, len(updates))
	for k := range updates {
		fields = append(fields, k)
	}
	// Stable output for previews and tests.
	sort.Strings(fields)
	return strings.Join(fields, ", ")
}
