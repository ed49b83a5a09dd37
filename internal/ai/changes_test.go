package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/planwise/internal/domain"
)

func changesWorkspace() *domain.Workspace {
	return &domain.Workspace{
		Tables: []domain.Table{
			{
				ID: "A", Type: domain.TableTypeDay, Title: "Tuesday", Date: "2026-01-27",
				Tasks: []domain.Task{{ID: "t1", Title: "One", Duration: 30}, {ID: "t2", Title: "Two", Duration: 15}},
			},
		},
	}
}

func TestValidateChangesCollectsAllProblems(t *testing.T) {
	w := changesWorkspace()
	changes := []domain.Change{
		{Action: domain.ActionMoveTasks, ToTableID: "B", TaskIDs: []string{"t1"}}, // missing from
		{Action: domain.ActionDeleteTask, TableID: "A", TaskID: "nope"},           // missing task
		{Action: "explode"},                                                       // unknown action
		{Action: domain.ActionUpdateTask, TableID: "A", TaskID: "t1", Updates: map[string]any{"title": "x"}}, // fine
	}

	problems := ValidateChanges(w, changes)

	require.Len(t, problems, 3, "one bad change must not mask the others")
	assert.Contains(t, problems[0], "missing from_table_id")
	assert.Contains(t, problems[1], `task "nope" not found`)
	assert.Contains(t, problems[2], `unrecognized action "explode"`)
}

func TestValidateChangesPerAction(t *testing.T) {
	w := changesWorkspace()

	tests := []struct {
		name    string
		change  domain.Change
		wantOK  bool
		wantSub string
	}{
		{
			name:   "move_tasks valid with nonexistent target",
			change: domain.Change{Action: domain.ActionMoveTasks, FromTableID: "A", ToTableID: "tomorrow-2026-01-28", TaskIDs: []string{"t1"}},
			wantOK: true,
		},
		{
			name:    "move_tasks empty task ids",
			change:  domain.Change{Action: domain.ActionMoveTasks, FromTableID: "A", ToTableID: "B"},
			wantSub: "missing task_ids",
		},
		{
			name:    "move_tasks unknown source table",
			change:  domain.Change{Action: domain.ActionMoveTasks, FromTableID: "Z", ToTableID: "A", TaskIDs: []string{"t1"}},
			wantSub: `source table "Z" not found`,
		},
		{
			name:    "update_task missing updates",
			change:  domain.Change{Action: domain.ActionUpdateTask, TableID: "A", TaskID: "t1"},
			wantSub: "missing updates object",
		},
		{
			name:   "create_task valid",
			change: domain.Change{Action: domain.ActionCreateTask, TableID: "A", Task: map[string]any{"id": "t3", "title": "New"}},
			wantOK: true,
		},
		{
			name:    "create_task without id",
			change:  domain.Change{Action: domain.ActionCreateTask, TableID: "A", Task: map[string]any{"title": "New"}},
			wantSub: "task object missing id",
		},
		{
			name:    "create_table missing object",
			change:  domain.Change{Action: domain.ActionCreateTable},
			wantSub: "missing table object",
		},
		{
			name:   "update_table valid",
			change: domain.Change{Action: domain.ActionUpdateTable, TableID: "A", Updates: map[string]any{"title": "Renamed"}},
			wantOK: true,
		},
		{
			name:    "reorder missing task_ids",
			change:  domain.Change{Action: domain.ActionReorderTasks, TableID: "A"},
			wantSub: "missing task_ids array",
		},
		{
			name:   "reorder with id list is structurally valid",
			change: domain.Change{Action: domain.ActionReorderTasks, TableID: "A", TaskIDs: []string{"t2", "t1"}},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := ValidateChanges(w, []domain.Change{tt.change})
			if tt.wantOK {
				assert.Empty(t, problems)
				return
			}
			require.Len(t, problems, 1)
			assert.Contains(t, problems[0], tt.wantSub)
		})
	}
}
