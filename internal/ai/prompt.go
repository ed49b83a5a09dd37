package ai

import (
	"encoding/json"
	"fmt"

	"github.com/planwise/planwise/internal/intent"
	"github.com/planwise/planwise/internal/scope"
)

// actionSystemPrompt instructs the model to reply with the changes shape.
const actionSystemPrompt = `You are a scheduling assistant for a personal task workspace.
The user message contains the workspace as JSON (tables of tasks, the current date, and the timezone) followed by an instruction.
Reply with a single JSON object and nothing else:
{"changes": [...], "summary": "...", "reasoning": "..."}
Each change has an "action" field: one of move_tasks, update_task, create_task, delete_task, create_table, update_table, reorder_tasks.
move_tasks: from_table_id, to_table_id, task_ids. update_task: table_id, task_id, updates. create_task: table_id, task. delete_task: table_id, task_id. create_table: table. update_table: table_id, updates. reorder_tasks: table_id, task_ids.
Reference tables and tasks by their ids. Day tables are dated YYYY-MM-DD.`

// analysisSystemPrompt instructs the model to reply with the analysis shape.
const analysisSystemPrompt = `You are a scheduling assistant for a personal task workspace.
The user message contains the workspace as JSON (tables of tasks, the current date, and the timezone) followed by a question.
Reply with a single JSON object and nothing else:
{"insights": ["..."], "summary": "..."}
Answer only from the provided workspace data.`

// BuildMessages assembles the provider request for one utterance: a
// mode-specific system message plus a user message carrying the scoped
// workspace context and the instruction.
func BuildMessages(mode intent.Mode, ctx scope.Context, utterance string) ([]Message, error) {
	payload, err := json.Marshal(ctx)
	if err != nil {
		return nil, fmt.Errorf("marshaling workspace context: %w", err)
	}

	system := actionSystemPrompt
	if mode == intent.ModeAnalysis {
		system = analysisSystemPrompt
	}

	user := fmt.Sprintf("Workspace:\n%s\n\nInstruction: %s", payload, utterance)

	return []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: user},
	}, nil
}
