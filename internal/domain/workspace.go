// Package domain provides shared domain types for the Planwise assist pipeline.
//
// IMPORTANT: This package may import internal/constants only. It MUST NOT
// import internal/ai, internal/engine, or internal/history.
package domain

// TableType distinguishes day-schedule tables from free-form list tables.
type TableType string

// Supported table types.
const (
	// TableTypeDay is a table bound to a calendar date.
	TableTypeDay TableType = "day"

	// TableTypeList is a free-form list with no date.
	TableTypeList TableType = "list"
)

// Workspace is the root aggregate: an ordered list of tables plus ancillary
// settings. The host application owns the canonical copy; this core only ever
// operates on clones obtained via Clone.
//
// Example JSON representation:
//
//	{
//	    "tables": [...],
//	    "settings": {"dateFormat": "weekday", "defaultStartTime": "09:00"}
//	}
type Workspace struct {
	// Tables is the ordered list of tables in the workspace.
	Tables []Table `json:"tables"`

	// Settings holds workspace-wide presentation defaults consulted when the
	// engine synthesizes new tables.
	Settings Settings `json:"settings"`
}

// Settings holds workspace-wide defaults.
type Settings struct {
	// DateFormat controls how auto-created day-table titles are rendered
	// (constants.DateFormatISO or constants.DateFormatWeekday).
	DateFormat string `json:"dateFormat,omitempty"`

	// DefaultStartTime is the start time given to auto-created day tables,
	// in HH:MM form.
	DefaultStartTime string `json:"defaultStartTime,omitempty"`
}

// Table is a day-schedule or list container of tasks.
//
// Invariant: ID is unique within a workspace. A day table's Date should be
// unique per day; the engine's find-or-create logic assumes it but does not
// enforce it.
type Table struct {
	// ID uniquely identifies the table within the workspace.
	ID string `json:"id"`

	// Type is "day" or "list".
	Type TableType `json:"type"`

	// Title is the display name of the table.
	Title string `json:"title"`

	// Date is the calendar date in YYYY-MM-DD form. Semantically required
	// for day tables, absent for list tables.
	Date string `json:"date,omitempty"`

	// StartTime is the first slot of a day table, in HH:MM form.
	StartTime string `json:"startTime,omitempty"`

	// SpaceID optionally groups the table into a host-application space.
	SpaceID string `json:"spaceId,omitempty"`

	// Position is where the host UI places the table.
	Position Position `json:"position"`

	// Tasks is the ordered task list.
	Tasks []Task `json:"tasks"`
}

// Position is a table's placement in the host UI canvas. Auto-created tables
// get a staggered position so they do not overlap existing ones.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Task is a single scheduled item. Task IDs are unique within their owning
// table, not globally; ownership transfers between tables via move_tasks.
type Task struct {
	// ID identifies the task within its table.
	ID string `json:"id"`

	// Title is the display text.
	Title string `json:"title"`

	// Duration is the task length in minutes. Positive.
	Duration int `json:"duration"`

	// Selected marks the task as highlighted in the host UI.
	Selected bool `json:"selected"`

	// Group optionally tags the task with a user-defined group.
	Group string `json:"group,omitempty"`

	// Notebook optionally links the task to a notebook page.
	Notebook string `json:"notebook,omitempty"`
}

// Clone returns a deep copy of the workspace. The apply engine operates on
// clones exclusively so a failed or partial application can never corrupt the
// caller's canonical copy.
func (w *Workspace) Clone() *Workspace {
	if w == nil {
		return nil
	}
	out := &Workspace{
		Settings: w.Settings,
		Tables:   make([]Table, len(w.Tables)),
	}
	for i := range w.Tables {
		out.Tables[i] = w.Tables[i].Clone()
	}
	return out
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := t
	out.Tasks = make([]Task, len(t.Tasks))
	copy(out.Tasks, t.Tasks)
	return out
}

// FindTable returns a pointer to the table with the given id, or nil.
func (w *Workspace) FindTable(id string) *Table {
	for i := range w.Tables {
		if w.Tables[i].ID == id {
			return &w.Tables[i]
		}
	}
	return nil
}

// FindDayTable returns a pointer to the first day table with the given
// YYYY-MM-DD date, or nil.
func (w *Workspace) FindDayTable(date string) *Table {
	for i := range w.Tables {
		if w.Tables[i].Type == TableTypeDay && w.Tables[i].Date == date {
			return &w.Tables[i]
		}
	}
	return nil
}

// FindTask returns a pointer to the first task with the given id, or nil.
func (t *Table) FindTask(id string) *Task {
	for i := range t.Tasks {
		if t.Tasks[i].ID == id {
			return &t.Tasks[i]
		}
	}
	return nil
}
