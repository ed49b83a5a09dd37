package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/planwise/planwise/internal/clock"
	"github.com/planwise/planwise/internal/constants"
	"github.com/planwise/planwise/internal/ctxutil"
	"github.com/planwise/planwise/internal/domain"
	pwerrors "github.com/planwise/planwise/internal/errors"
)

// Log is the bounded action-history log. It trims to the most recent
// MaxHistoryEntries on every record and keeps a session-only pointer to the
// last applied entry for fast undo.
type Log struct {
	store      Store
	clock      clock.Clock
	logger     zerolog.Logger
	maxEntries int

	lastApplied *domain.ActionHistoryEntry
}

// NewLog creates a history log over the given store. maxEntries bounds the
// persisted log; a non-positive value falls back to the default cap.
func NewLog(store Store, clk clock.Clock, logger zerolog.Logger, maxEntries int) *Log {
	if maxEntries <= 0 {
		maxEntries = constants.MaxHistoryEntries
	}
	return &Log{
		store:      store,
		clock:      clk,
		logger:     logger,
		maxEntries: maxEntries,
	}
}

// Record persists a new entry for an applied batch. The snapshot is the
// whole workspace as it was before application; it is cloned defensively.
//
// A persistence failure is logged and swallowed: the batch has already been
// applied and a history write must not fail the apply operation. The entry
// is still retained in session memory for undo either way.
func (l *Log) Record(ctx context.Context, prompt string, changes []domain.Change, snapshot *domain.Workspace) *domain.ActionHistoryEntry {
	now := l.clock.Now()
	entry := domain.ActionHistoryEntry{
		ID:        uuid.NewString(),
		Timestamp: now,
		Prompt:    prompt,
		Changes:   changes,
		Snapshot:  snapshot.Clone(),
		Applied:   true,
		AppliedAt: now,
	}

	entries, err := l.store.Load(ctx)
	if err != nil {
		l.logger.Warn().Err(err).Msg("loading history before record failed, starting fresh")
		entries = nil
	}

	entries = append(entries, entry)
	if len(entries) > l.maxEntries {
		entries = entries[len(entries)-l.maxEntries:]
	}

	if err := l.store.Save(ctx, entries); err != nil {
		l.logger.Warn().Err(err).Str("entry_id", entry.ID).
			Msg("persisting history entry failed, entry kept in session only")
	}

	l.lastApplied = &entry
	return &entry
}

// Entries returns the persisted history, oldest first.
func (l *Log) Entries(ctx context.Context) ([]domain.ActionHistoryEntry, error) {
	return l.store.Load(ctx)
}

// LastApplied returns the session-local pointer to the most recent applied
// entry, or nil when nothing was applied this session.
func (l *Log) LastApplied() *domain.ActionHistoryEntry {
	return l.lastApplied
}

// Find returns the persisted entry with the given id.
func (l *Log) Find(ctx context.Context, id string) (*domain.ActionHistoryEntry, error) {
	entries, err := l.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].ID == id {
			return &entries[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", pwerrors.ErrEntryNotFound, id)
}

// Undo reverses an applied entry by restoring its whole-workspace snapshot.
// The restore is not selective: independent edits made after the entry are
// lost with it, which is the documented contract.
//
// Eligibility is the undo window measured from AppliedAt. Outside the window
// the entry stays visible in history as non-reversible.
//
// Marking the entry undone is best-effort and decoupled from the restore: if
// the store write fails, the restore still succeeds and is not rolled back.
func (l *Log) Undo(ctx context.Context, entry *domain.ActionHistoryEntry, windowMinutes int) (*domain.Workspace, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if entry == nil || entry.Snapshot == nil {
		return nil, pwerrors.Wrap(pwerrors.ErrEntryNotFound, "undo")
	}
	if entry.UndoneAt != nil {
		return nil, fmt.Errorf("%w: %s", pwerrors.ErrAlreadyUndone, entry.ID)
	}

	now := l.clock.Now()
	if !entry.Undoable(now, windowMinutes) {
		return nil, fmt.Errorf("%w: applied %s ago, window is %d minutes",
			pwerrors.ErrUndoWindowExpired, now.Sub(entry.AppliedAt).Round(0), windowMinutes)
	}

	restored := entry.Snapshot.Clone()

	undoneAt := now
	entry.UndoneAt = &undoneAt
	if l.lastApplied != nil && l.lastApplied.ID == entry.ID {
		l.lastApplied.UndoneAt = &undoneAt
	}

	if err := l.markUndone(ctx, entry.ID, undoneAt); err != nil {
		l.logger.Warn().Err(err).Str("entry_id", entry.ID).
			Msg("marking history entry undone failed, restore stands")
	}

	return restored, nil
}

// Clear drops the whole persisted history.
func (l *Log) Clear(ctx context.Context) error {
	l.lastApplied = nil
	return l.store.Save(ctx, []domain.ActionHistoryEntry{})
}

func (l *Log) markUndone(ctx context.Context, id string, undoneAt time.Time) error {
	entries, err := l.store.Load(ctx)
	if err != nil {
		return err
	}
	for i := range entries {
		if entries[i].ID == id {
			entries[i].UndoneAt = &undoneAt
			return l.store.Save(ctx, entries)
		}
	}
	return fmt.Errorf("%w: %s", pwerrors.ErrEntryNotFound, id)
}
