// Package scope reduces a full workspace to the provider-facing view for one
// request: a subset of tables and tasks plus the caller's current date and
// timezone. Scoping is a total function with no error conditions.
package scope

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/planwise/planwise/internal/clock"
	"github.com/planwise/planwise/internal/domain"
)

// DateRange is an inclusive YYYY-MM-DD range filter.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Request carries the optional filters for one scoping pass.
type Request struct {
	// Utterance is the raw user instruction, consulted only by the day-name
	// heuristic.
	Utterance string

	// TableIDs restricts the context to the listed tables when non-empty.
	TableIDs []string

	// DateRange restricts day tables to the given range when set.
	DateRange *DateRange

	// TaskGroup narrows tasks (not tables) to the given group when set. A
	// table survives the filter with a possibly-empty task list.
	TaskGroup string
}

// Context is the reduced, provider-facing view of a workspace.
type Context struct {
	// Tables is the filtered table list.
	Tables []domain.Table `json:"tables"`

	// CurrentDate is the caller's current date in YYYY-MM-DD form.
	CurrentDate string `json:"currentDate"`

	// Timezone is the caller's IANA timezone string.
	Timezone string `json:"timezone"`
}

// weekdayNames is the day-name detector vocabulary, lowercase.
var weekdayNames = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// Scoper builds provider-facing workspace contexts.
type Scoper struct {
	clock clock.Clock
}

// New creates a Scoper using the given clock for "today"/"tomorrow"
// resolution.
func New(clk clock.Clock) *Scoper {
	return &Scoper{clock: clk}
}

// Scope applies the request's filters in order: explicit table ids, explicit
// date range, task group, then the day-name heuristic. The heuristic only
// fires when no explicit date range was supplied.
func (s *Scoper) Scope(w *domain.Workspace, req Request) Context {
	now := s.clock.Now()

	tables := cloneTables(w.Tables)

	if len(req.TableIDs) > 0 {
		tables = filterByID(tables, req.TableIDs)
	}
	if req.DateRange != nil {
		tables = filterByDateRange(tables, *req.DateRange)
	}
	if req.TaskGroup != "" {
		tables = filterTasksByGroup(tables, req.TaskGroup)
	}
	if req.DateRange == nil {
		tables = applyDayNameHeuristic(tables, req.Utterance, now)
	}

	return Context{
		Tables:      tables,
		CurrentDate: now.Format("2006-01-02"),
		Timezone:    timezoneName(now),
	}
}

// timezoneName resolves the IANA zone name for the caller's location.
// time.Location reports the process default as "Local", which is not a zone
// name a provider can interpret, so $TZ and the /etc/localtime symlink are
// consulted before giving up and reporting UTC.
func timezoneName(now time.Time) string {
	if name := now.Location().String(); name != "" && name != "Local" {
		return name
	}
	if tz := os.Getenv("TZ"); tz != "" {
		if _, err := time.LoadLocation(tz); err == nil {
			return tz
		}
	}
	if link, err := os.Readlink("/etc/localtime"); err == nil {
		if i := strings.Index(link, "zoneinfo/"); i >= 0 {
			return link[i+len("zoneinfo/"):]
		}
	}
	return "UTC"
}

// EstimateTokens returns an advisory token estimate for a context: the JSON
// payload length divided by four. Callers budgeting context size may consult
// it; nothing enforces it.
func EstimateTokens(ctx Context) int {
	payload, err := json.Marshal(ctx)
	if err != nil {
		return 0
	}
	return len(payload) / 4
}

func cloneTables(tables []domain.Table) []domain.Table {
	out := make([]domain.Table, len(tables))
	for i := range tables {
		out[i] = tables[i].Clone()
	}
	return out
}

func filterByID(tables []domain.Table, ids []string) []domain.Table {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	out := tables[:0]
	for _, t := range tables {
		if _, ok := wanted[t.ID]; ok {
			out = append(out, t)
		}
	}
	return out
}

// filterByDateRange keeps list tables untouched and day tables whose date
// falls inside the range. Lexicographic comparison is exact for YYYY-MM-DD.
func filterByDateRange(tables []domain.Table, r DateRange) []domain.Table {
	out := tables[:0]
	for _, t := range tables {
		if t.Type != domain.TableTypeDay {
			out = append(out, t)
			continue
		}
		if (r.From == "" || t.Date >= r.From) && (r.To == "" || t.Date <= r.To) {
			out = append(out, t)
		}
	}
	return out
}

func filterTasksByGroup(tables []domain.Table, group string) []domain.Table {
	for i := range tables {
		kept := tables[i].Tasks[:0]
		for _, task := range tables[i].Tasks {
			if task.Group == group {
				kept = append(kept, task)
			}
		}
		tables[i].Tasks = kept
	}
	return tables
}

// applyDayNameHeuristic narrows the context when the utterance names a day.
// "today" and "tomorrow" resolve against the current date exactly; bare
// weekday names fall back to a substring match against table titles, which is
// approximate: a title like "Friday errands" matches regardless of the
// table's actual computed weekday.
func applyDayNameHeuristic(tables []domain.Table, utterance string, now time.Time) []domain.Table {
	lower := strings.ToLower(utterance)

	if strings.Contains(lower, "today") {
		return filterByDateRange(tables, exactDate(now.Format("2006-01-02")))
	}
	if strings.Contains(lower, "tomorrow") {
		return filterByDateRange(tables, exactDate(now.AddDate(0, 0, 1).Format("2006-01-02")))
	}

	for _, day := range weekdayNames {
		if !strings.Contains(lower, day) {
			continue
		}
		out := tables[:0]
		for _, t := range tables {
			if t.Type != domain.TableTypeDay || strings.Contains(strings.ToLower(t.Title), day) {
				out = append(out, t)
			}
		}
		return out
	}
	return tables
}

func exactDate(date string) DateRange {
	return DateRange{From: date, To: date}
}
