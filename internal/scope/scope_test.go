package scope

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/planwise/internal/clock"
	"github.com/planwise/planwise/internal/domain"
)

func testWorkspace() *domain.Workspace {
	return &domain.Workspace{
		Tables: []domain.Table{
			{
				ID: "mon", Type: domain.TableTypeDay, Title: "Monday, Jan 26", Date: "2026-01-26",
				Tasks: []domain.Task{{ID: "m1", Title: "Standup", Duration: 15, Group: "work"}},
			},
			{
				ID: "tue", Type: domain.TableTypeDay, Title: "Tuesday, Jan 27", Date: "2026-01-27",
				Tasks: []domain.Task{
					{ID: "t1", Title: "Write report", Duration: 60, Group: "work"},
					{ID: "t2", Title: "Gym", Duration: 45, Group: "personal"},
				},
			},
			{
				ID: "backlog", Type: domain.TableTypeList, Title: "Backlog",
				Tasks: []domain.Task{{ID: "b1", Title: "Read paper", Duration: 90}},
			},
		},
	}
}

func newTestScoper(t *testing.T) *Scoper {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	return New(clock.Fixed(time.Date(2026, 1, 27, 10, 0, 0, 0, loc)))
}

func TestScopeCurrentDateAndTimezone(t *testing.T) {
	ctx := newTestScoper(t).Scope(testWorkspace(), Request{})

	assert.Equal(t, "2026-01-27", ctx.CurrentDate)
	assert.Equal(t, "Europe/Berlin", ctx.Timezone)
	assert.Len(t, ctx.Tables, 3)
}

func TestTimezoneName(t *testing.T) {
	t.Run("named location passes through", func(t *testing.T) {
		loc, err := time.LoadLocation("Europe/Berlin")
		require.NoError(t, err)
		assert.Equal(t, "Europe/Berlin", timezoneName(time.Date(2026, 1, 27, 10, 0, 0, 0, loc)))
	})

	t.Run("TZ resolves an unnamed local location", func(t *testing.T) {
		t.Setenv("TZ", "America/New_York")
		now := time.Date(2026, 1, 27, 10, 0, 0, 0, time.FixedZone("Local", 3600))
		assert.Equal(t, "America/New_York", timezoneName(now))
	})

	t.Run("real clock never reports Local", func(t *testing.T) {
		t.Setenv("TZ", "")
		name := timezoneName(clock.RealClock{}.Now())
		assert.NotEmpty(t, name)
		assert.NotEqual(t, "Local", name)
	})
}

func TestScopeTableIDFilter(t *testing.T) {
	ctx := newTestScoper(t).Scope(testWorkspace(), Request{TableIDs: []string{"backlog", "mon"}})

	require.Len(t, ctx.Tables, 2)
	assert.Equal(t, "mon", ctx.Tables[0].ID)
	assert.Equal(t, "backlog", ctx.Tables[1].ID)
}

func TestScopeDateRangeFilter(t *testing.T) {
	ctx := newTestScoper(t).Scope(testWorkspace(), Request{
		DateRange: &DateRange{From: "2026-01-27", To: "2026-01-31"},
	})

	require.Len(t, ctx.Tables, 2)
	assert.Equal(t, "tue", ctx.Tables[0].ID)
	assert.Equal(t, "backlog", ctx.Tables[1].ID, "list tables survive date filtering")
}

func TestScopeGroupFilterNarrowsTasksNotTables(t *testing.T) {
	ctx := newTestScoper(t).Scope(testWorkspace(), Request{TaskGroup: "work"})

	require.Len(t, ctx.Tables, 3)
	assert.Len(t, ctx.Tables[0].Tasks, 1)
	assert.Len(t, ctx.Tables[1].Tasks, 1)
	assert.Equal(t, "t1", ctx.Tables[1].Tasks[0].ID)
	assert.Empty(t, ctx.Tables[2].Tasks, "table survives with empty task list")
}

func TestScopeDayNameHeuristic(t *testing.T) {
	t.Run("today resolves against the clock", func(t *testing.T) {
		ctx := newTestScoper(t).Scope(testWorkspace(), Request{Utterance: "what about today"})
		require.Len(t, ctx.Tables, 2)
		assert.Equal(t, "tue", ctx.Tables[0].ID)
	})

	t.Run("tomorrow is current date plus one", func(t *testing.T) {
		ctx := newTestScoper(t).Scope(testWorkspace(), Request{Utterance: "move it to tomorrow"})
		require.Len(t, ctx.Tables, 1, "no day table for 2026-01-28, only the list survives")
		assert.Equal(t, "backlog", ctx.Tables[0].ID)
	})

	// Weekday names match table titles, not computed weekdays. Approximate:
	// any title containing the word matches.
	t.Run("weekday name matches titles", func(t *testing.T) {
		ctx := newTestScoper(t).Scope(testWorkspace(), Request{Utterance: "clear monday morning"})
		require.Len(t, ctx.Tables, 2)
		assert.Equal(t, "mon", ctx.Tables[0].ID)
		assert.Equal(t, "backlog", ctx.Tables[1].ID)
	})

	t.Run("explicit date range suppresses the heuristic", func(t *testing.T) {
		ctx := newTestScoper(t).Scope(testWorkspace(), Request{
			Utterance: "monday",
			DateRange: &DateRange{From: "2026-01-27", To: "2026-01-27"},
		})
		require.Len(t, ctx.Tables, 2)
		assert.Equal(t, "tue", ctx.Tables[0].ID)
	})
}

func TestScopeDoesNotMutateWorkspace(t *testing.T) {
	w := testWorkspace()
	before := w.Clone()

	_ = newTestScoper(t).Scope(w, Request{TaskGroup: "work", TableIDs: []string{"tue"}})

	assert.Equal(t, before, w)
}

func TestEstimateTokens(t *testing.T) {
	ctx := newTestScoper(t).Scope(testWorkspace(), Request{})
	est := EstimateTokens(ctx)
	assert.Positive(t, est)

	smaller := newTestScoper(t).Scope(testWorkspace(), Request{TableIDs: []string{"mon"}})
	assert.Less(t, EstimateTokens(smaller), est)
}
