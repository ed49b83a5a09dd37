package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWorkspace() *Workspace {
	return &Workspace{
		Settings: Settings{DateFormat: "weekday", DefaultStartTime: "09:00"},
		Tables: []Table{
			{
				ID:    "A",
				Type:  TableTypeDay,
				Title: "Tuesday, Jan 27",
				Date:  "2026-01-27",
				Tasks: []Task{
					{ID: "t1", Title: "Write report", Duration: 60},
					{ID: "t2", Title: "Review PRs", Duration: 30, Selected: true},
				},
			},
			{ID: "B", Type: TableTypeList, Title: "Backlog", Tasks: []Task{}},
		},
	}
}

func TestWorkspaceClone(t *testing.T) {
	t.Run("clone is deep", func(t *testing.T) {
		w := sampleWorkspace()
		c := w.Clone()
		require.NotSame(t, w, c)

		c.Tables[0].Tasks[0].Title = "mutated"
		c.Tables[0].Tasks = append(c.Tables[0].Tasks, Task{ID: "t3"})

		assert.Equal(t, "Write report", w.Tables[0].Tasks[0].Title)
		assert.Len(t, w.Tables[0].Tasks, 2)
	})

	t.Run("clone is deep-equal to source", func(t *testing.T) {
		w := sampleWorkspace()
		assert.Equal(t, w, w.Clone())
	})

	t.Run("nil workspace clones to nil", func(t *testing.T) {
		var w *Workspace
		assert.Nil(t, w.Clone())
	})
}

func TestWorkspaceLookups(t *testing.T) {
	w := sampleWorkspace()

	t.Run("find table by id", func(t *testing.T) {
		tbl := w.FindTable("B")
		require.NotNil(t, tbl)
		assert.Equal(t, "Backlog", tbl.Title)
		assert.Nil(t, w.FindTable("missing"))
	})

	t.Run("find day table by date", func(t *testing.T) {
		tbl := w.FindDayTable("2026-01-27")
		require.NotNil(t, tbl)
		assert.Equal(t, "A", tbl.ID)
		assert.Nil(t, w.FindDayTable("2026-02-01"))
	})

	t.Run("lookup returns live pointer", func(t *testing.T) {
		w.FindTable("A").Title = "renamed"
		assert.Equal(t, "renamed", w.Tables[0].Title)
	})

	t.Run("find task", func(t *testing.T) {
		tbl := w.FindTable("A")
		require.NotNil(t, tbl.FindTask("t2"))
		assert.Nil(t, tbl.FindTask("t9"))
	})
}

func TestUndoable(t *testing.T) {
	t0 := time.Date(2026, 1, 27, 12, 0, 0, 0, time.UTC)
	entry := &ActionHistoryEntry{AppliedAt: t0}

	t.Run("inside window", func(t *testing.T) {
		now := t0.Add(30*time.Minute - time.Millisecond)
		assert.True(t, entry.Undoable(now, 30))
	})

	t.Run("exactly at window", func(t *testing.T) {
		assert.True(t, entry.Undoable(t0.Add(30*time.Minute), 30))
	})

	t.Run("past window", func(t *testing.T) {
		now := t0.Add(30*time.Minute + time.Millisecond)
		assert.False(t, entry.Undoable(now, 30))
	})

	t.Run("already undone", func(t *testing.T) {
		undone := t0.Add(time.Minute)
		e := &ActionHistoryEntry{AppliedAt: t0, UndoneAt: &undone}
		assert.False(t, e.Undoable(t0.Add(2*time.Minute), 30))
	})
}
