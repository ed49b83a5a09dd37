package domain

// ChangeAction identifies one of the seven supported mutation kinds.
type ChangeAction string

// Supported change actions.
const (
	ActionMoveTasks    ChangeAction = "move_tasks"
	ActionUpdateTask   ChangeAction = "update_task"
	ActionCreateTask   ChangeAction = "create_task"
	ActionDeleteTask   ChangeAction = "delete_task"
	ActionCreateTable  ChangeAction = "create_table"
	ActionUpdateTable  ChangeAction = "update_table"
	ActionReorderTasks ChangeAction = "reorder_tasks"
)

// KnownActions lists every action the engine can apply, in a stable order.
func KnownActions() []ChangeAction {
	return []ChangeAction{
		ActionMoveTasks,
		ActionUpdateTask,
		ActionCreateTask,
		ActionDeleteTask,
		ActionCreateTable,
		ActionUpdateTable,
		ActionReorderTasks,
	}
}

// Change is one tagged mutation instruction proposed by the model. Only the
// fields relevant to its Action are populated; the rest stay zero. A Change is
// immutable once validated.
//
// Untrusted payload fields (Updates, Task, Table, Position) stay loosely typed
// because the model frequently sends extra or mistyped keys; they are coerced
// at application time.
type Change struct {
	// Action selects which mutation to perform.
	Action ChangeAction `json:"action"`

	// FromTableID is the source table for move_tasks.
	FromTableID string `json:"from_table_id,omitempty"`

	// ToTableID is the target table for move_tasks. It may reference a table
	// that does not exist yet; see the engine's resolution fallback chain.
	ToTableID string `json:"to_table_id,omitempty"`

	// TableID targets a table for update_task, create_task, delete_task,
	// update_table, and reorder_tasks.
	TableID string `json:"table_id,omitempty"`

	// TaskID targets a task for update_task and delete_task.
	TaskID string `json:"task_id,omitempty"`

	// TaskIDs lists tasks to move (move_tasks) or the full new order
	// (reorder_tasks).
	TaskIDs []string `json:"task_ids,omitempty"`

	// Updates carries the fields to shallow-merge for update_task and
	// update_table.
	Updates map[string]any `json:"updates,omitempty"`

	// Task is the task object for create_task.
	Task map[string]any `json:"task,omitempty"`

	// Table is the table object for create_table.
	Table map[string]any `json:"table,omitempty"`

	// Position is the insertion point for create_task: "start", "end"
	// (default), or a numeric index. The model sends either form.
	Position any `json:"position,omitempty"`
}

// AIResult is the parsed, validated outcome of one provider request: either an
// analysis answer or a proposed change set. Produced once per request and
// consumed once.
type AIResult struct {
	// Type is "analysis" or "action".
	Type string `json:"type"`

	// Insights holds the bullet answers of an analysis result.
	Insights []string `json:"insights,omitempty"`

	// Summary is the human-readable one-paragraph summary. Always present.
	Summary string `json:"summary"`

	// Reasoning explains why the model proposed this change set. Present on
	// action results only.
	Reasoning string `json:"reasoning,omitempty"`

	// Changes is the ordered mutation list of an action result.
	Changes []Change `json:"changes,omitempty"`
}

// Result type tags for AIResult.Type.
const (
	// ResultTypeAnalysis marks an insights/summary reply.
	ResultTypeAnalysis = "analysis"

	// ResultTypeAction marks a changes/summary/reasoning reply.
	ResultTypeAction = "action"
)

// ApplyResult reports the outcome of applying a change batch to a cloned
// workspace. Application is sequential and best-effort: Errors collects the
// failures, AppliedCount the successes, and UpdatedWorkspace reflects every
// change that did succeed even when Success is false.
type ApplyResult struct {
	// Success is true only when every change applied cleanly.
	Success bool `json:"success"`

	// AppliedCount is the number of changes that applied.
	AppliedCount int `json:"applied_count"`

	// Errors lists one message per failed change.
	Errors []string `json:"errors,omitempty"`

	// UpdatedWorkspace is the cloned workspace with all successful changes
	// applied. The caller decides whether to adopt it.
	UpdatedWorkspace *Workspace `json:"updated_workspace"`
}
