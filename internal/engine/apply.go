package engine

import (
	"fmt"
	"strconv"

	"github.com/go-viper/mapstructure/v2"

	"github.com/planwise/planwise/internal/domain"
	pwerrors "github.com/planwise/planwise/internal/errors"
)

// decodeLoose decodes a loosely-typed model payload onto a typed target.
// Absent keys leave existing field values untouched, which gives
// update_task/update_table their shallow-merge semantics. Weak typing
// tolerates the model sending "30" where 30 is meant.
func decodeLoose(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

// protectedTaskKeys never merge through update_task: identity is immutable.
var protectedTaskKeys = []string{"id"}

// protectedTableKeys never merge through update_table: identity and the task
// list have dedicated actions.
var protectedTableKeys = []string{"id", "tasks"}

func stripKeys(in map[string]any, keys []string) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

func (e *Engine) applyMoveTasks(w *domain.Workspace, c domain.Change) error {
	src := w.FindTable(c.FromTableID)
	if src == nil {
		return fmt.Errorf("%w: source table %q", pwerrors.ErrTableNotFound, c.FromTableID)
	}

	// Verify every listed task exists before touching anything: a move with
	// one bad id fails whole, not half.
	for _, id := range c.TaskIDs {
		if src.FindTask(id) == nil {
			return fmt.Errorf("%w: %q in table %q", pwerrors.ErrTaskNotFound, id, c.FromTableID)
		}
	}

	// Resolving the target may append a new table, which can reallocate the
	// table slice; work with ids and re-find afterwards.
	targetID, err := e.resolveTargetTable(w, c.ToTableID, src)
	if err != nil {
		return err
	}
	src = w.FindTable(c.FromTableID)

	moved := make([]domain.Task, 0, len(c.TaskIDs))
	for _, id := range c.TaskIDs {
		kept := src.Tasks[:0]
		for _, task := range src.Tasks {
			if task.ID == id {
				moved = append(moved, task)
				continue
			}
			kept = append(kept, task)
		}
		src.Tasks = kept
	}

	target := w.FindTable(targetID)
	target.Tasks = append(target.Tasks, moved...)
	return nil
}

func applyUpdateTask(w *domain.Workspace, c domain.Change) error {
	tbl := w.FindTable(c.TableID)
	if tbl == nil {
		return fmt.Errorf("%w: %q", pwerrors.ErrTableNotFound, c.TableID)
	}
	task := tbl.FindTask(c.TaskID)
	if task == nil {
		return fmt.Errorf("%w: %q in table %q", pwerrors.ErrTaskNotFound, c.TaskID, c.TableID)
	}
	if err := decodeLoose(stripKeys(c.Updates, protectedTaskKeys), task); err != nil {
		return pwerrors.Wrap(err, "merging task updates")
	}
	return nil
}

func applyCreateTask(w *domain.Workspace, c domain.Change) error {
	tbl := w.FindTable(c.TableID)
	if tbl == nil {
		return fmt.Errorf("%w: %q", pwerrors.ErrTableNotFound, c.TableID)
	}

	var task domain.Task
	if err := decodeLoose(c.Task, &task); err != nil {
		return pwerrors.Wrap(err, "decoding task object")
	}
	if task.ID == "" {
		return fmt.Errorf("%w: task object missing id", pwerrors.ErrInvalidChange)
	}

	idx := insertionIndex(c.Position, len(tbl.Tasks))
	tbl.Tasks = append(tbl.Tasks, domain.Task{})
	copy(tbl.Tasks[idx+1:], tbl.Tasks[idx:])
	tbl.Tasks[idx] = task
	return nil
}

// insertionIndex turns a loosely-typed position ("start", "end", a number,
// or a numeric string) into a clamped slice index. The default is end.
func insertionIndex(position any, length int) int {
	switch p := position.(type) {
	case string:
		switch p {
		case "start":
			return 0
		case "end", "":
			return length
		default:
			if n, err := strconv.Atoi(p); err == nil {
				return clampIndex(n, length)
			}
			return length
		}
	case float64:
		return clampIndex(int(p), length)
	case int:
		return clampIndex(p, length)
	default:
		return length
	}
}

func clampIndex(n, length int) int {
	if n < 0 {
		return 0
	}
	if n > length {
		return length
	}
	return n
}

func applyDeleteTask(w *domain.Workspace, c domain.Change) error {
	tbl := w.FindTable(c.TableID)
	if tbl == nil {
		return fmt.Errorf("%w: %q", pwerrors.ErrTableNotFound, c.TableID)
	}
	for i, task := range tbl.Tasks {
		if task.ID == c.TaskID {
			tbl.Tasks = append(tbl.Tasks[:i], tbl.Tasks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q in table %q", pwerrors.ErrTaskNotFound, c.TaskID, c.TableID)
}

func applyCreateTable(w *domain.Workspace, c domain.Change) error {
	payload := stripKeys(c.Table, []string{"tasks", "position"})

	var tbl domain.Table
	if err := decodeLoose(payload, &tbl); err != nil {
		return pwerrors.Wrap(err, "decoding table object")
	}
	if tbl.ID == "" || tbl.Type == "" || tbl.Title == "" {
		return fmt.Errorf("%w: create_table requires id, type, and title", pwerrors.ErrInvalidChange)
	}

	// Tasks and position come from the raw payload when well-formed,
	// defaulting otherwise: tasks to empty, position to the same staggered
	// formula used for auto-created day tables.
	tbl.Tasks = decodeTasks(c.Table["tasks"])
	tbl.Position = decodePosition(c.Table["position"], len(w.Tables))

	w.Tables = append(w.Tables, tbl)
	return nil
}

func decodeTasks(raw any) []domain.Task {
	list, ok := raw.([]any)
	if !ok {
		return []domain.Task{}
	}
	tasks := make([]domain.Task, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		var task domain.Task
		if err := decodeLoose(m, &task); err != nil || task.ID == "" {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks
}

func decodePosition(raw any, tableCount int) domain.Position {
	m, ok := raw.(map[string]any)
	if !ok {
		return staggeredPosition(tableCount)
	}
	var pos domain.Position
	if err := decodeLoose(m, &pos); err != nil {
		return staggeredPosition(tableCount)
	}
	return pos
}

func applyUpdateTable(w *domain.Workspace, c domain.Change) error {
	tbl := w.FindTable(c.TableID)
	if tbl == nil {
		return fmt.Errorf("%w: %q", pwerrors.ErrTableNotFound, c.TableID)
	}
	if err := decodeLoose(stripKeys(c.Updates, protectedTableKeys), tbl); err != nil {
		return pwerrors.Wrap(err, "merging table updates")
	}
	return nil
}

func applyReorderTasks(w *domain.Workspace, c domain.Change) error {
	tbl := w.FindTable(c.TableID)
	if tbl == nil {
		return fmt.Errorf("%w: %q", pwerrors.ErrTableNotFound, c.TableID)
	}

	// The supplied list must be exactly the set of existing task ids:
	// anything extra or missing leaves the current order untouched.
	if len(c.TaskIDs) != len(tbl.Tasks) {
		return fmt.Errorf("%w: got %d ids, table %q has %d tasks",
			pwerrors.ErrReorderMismatch, len(c.TaskIDs), c.TableID, len(tbl.Tasks))
	}

	byID := make(map[string]domain.Task, len(tbl.Tasks))
	for _, task := range tbl.Tasks {
		byID[task.ID] = task
	}

	reordered := make([]domain.Task, 0, len(c.TaskIDs))
	for _, id := range c.TaskIDs {
		task, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: task %q not found for reorder in table %q",
				pwerrors.ErrReorderMismatch, id, c.TableID)
		}
		delete(byID, id)
		reordered = append(reordered, task)
	}

	tbl.Tasks = reordered
	return nil
}
