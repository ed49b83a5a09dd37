package domain

import "time"

// ActionHistoryEntry is a persisted record of one applied change batch plus
// the full pre-change workspace snapshot that makes it reversible.
//
// Entries are created at apply time, mutated only to set UndoneAt, and never
// deleted individually: the bounded-history policy drops the oldest entries
// when the cap is exceeded.
type ActionHistoryEntry struct {
	// ID uniquely identifies the entry.
	ID string `json:"id"`

	// Timestamp is when the entry was created.
	Timestamp time.Time `json:"timestamp"`

	// Prompt is the user utterance that produced the change set.
	Prompt string `json:"prompt"`

	// Changes is the batch that was applied.
	Changes []Change `json:"changes"`

	// Snapshot is the whole workspace as it was before application. Undo
	// restores this snapshot wholesale.
	Snapshot *Workspace `json:"snapshot"`

	// Applied records whether the batch was applied (always true for
	// persisted entries; kept for forward compatibility with held previews).
	Applied bool `json:"applied"`

	// AppliedAt is when the batch was applied. The undo window is measured
	// from this instant.
	AppliedAt time.Time `json:"applied_at"`

	// UndoneAt is set when the entry has been reversed. Best-effort: a
	// failed history write after a successful restore leaves it unset.
	UndoneAt *time.Time `json:"undone_at,omitempty"`
}

// Undoable reports whether the entry can still be reversed at now, given the
// configured undo window in minutes. Already-undone entries are not undoable.
func (e *ActionHistoryEntry) Undoable(now time.Time, windowMinutes int) bool {
	if e.UndoneAt != nil {
		return false
	}
	window := time.Duration(windowMinutes) * time.Minute
	return now.Sub(e.AppliedAt) <= window
}
