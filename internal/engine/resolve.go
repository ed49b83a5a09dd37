package engine

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/planwise/planwise/internal/constants"
	"github.com/planwise/planwise/internal/domain"
	pwerrors "github.com/planwise/planwise/internal/errors"
)

// datePattern extracts a YYYY-MM-DD substring from a hallucinated table id
// like "tomorrow-2026-01-28" or "day_2026-02-01".
var datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// resolveTargetTable resolves a move target through the fallback chain. The
// upstream model frequently references tables that do not exist yet, so an
// exact id match is only the first attempt:
//
//  1. exact id match;
//  2. a YYYY-MM-DD substring in the target id names a day: find or create
//     that day table;
//  3. no extractable date, but the source is a day table: infer "tomorrow"
//     as source date + 1 and find or create it;
//  4. otherwise the target is unresolvable.
//
// Returns the resolved table's id; the table exists in w on return.
func (e *Engine) resolveTargetTable(w *domain.Workspace, targetID string, src *domain.Table) (string, error) {
	if tbl := w.FindTable(targetID); tbl != nil {
		return tbl.ID, nil
	}

	if date := datePattern.FindString(targetID); date != "" {
		if _, err := time.Parse("2006-01-02", date); err == nil {
			resolved := e.findOrCreateDayTable(w, date)
			e.logger.Debug().Str("target", targetID).Str("date", date).Str("resolved", resolved).
				Msg("resolved move target from embedded date")
			return resolved, nil
		}
	}

	if src.Type == domain.TableTypeDay && src.Date != "" {
		if srcDate, err := time.Parse("2006-01-02", src.Date); err == nil {
			tomorrow := srcDate.AddDate(0, 0, 1).Format("2006-01-02")
			resolved := e.findOrCreateDayTable(w, tomorrow)
			e.logger.Debug().Str("target", targetID).Str("resolved", resolved).
				Msg("resolved move target as day after source")
			return resolved, nil
		}
	}

	return "", fmt.Errorf("%w: target %q", pwerrors.ErrTableNotFound, targetID)
}

// findOrCreateDayTable returns the id of the day table for the given date,
// synthesizing one when none exists. Existing tables are matched by exact
// date, which assumes day dates are unique per workspace.
func (e *Engine) findOrCreateDayTable(w *domain.Workspace, date string) string {
	if tbl := w.FindDayTable(date); tbl != nil {
		return tbl.ID
	}

	tbl := domain.Table{
		ID:        "day-" + uuid.NewString(),
		Type:      domain.TableTypeDay,
		Title:     dayTitle(date, w.Settings.DateFormat),
		Date:      date,
		StartTime: defaultStartTime(w.Settings),
		Position:  staggeredPosition(len(w.Tables)),
		Tasks:     []domain.Task{},
	}
	w.Tables = append(w.Tables, tbl)
	return tbl.ID
}

// dayTitle renders a day-table title per the workspace date-format setting.
func dayTitle(date, format string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	if format == constants.DateFormatISO {
		return date
	}
	return t.Format("Monday, Jan 2")
}

func defaultStartTime(s domain.Settings) string {
	if s.DefaultStartTime != "" {
		return s.DefaultStartTime
	}
	return constants.DefaultTableStartTime
}

// staggeredPosition offsets a new table by the current table count so
// auto-created tables do not visually overlap in the host UI.
func staggeredPosition(tableCount int) domain.Position {
	offset := tableCount * constants.TablePositionStep
	return domain.Position{X: offset, Y: offset}
}
