package assist

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/planwise/internal/ai"
	"github.com/planwise/planwise/internal/clock"
	"github.com/planwise/planwise/internal/config"
	"github.com/planwise/planwise/internal/domain"
	"github.com/planwise/planwise/internal/engine"
	pwerrors "github.com/planwise/planwise/internal/errors"
	"github.com/planwise/planwise/internal/history"
	"github.com/planwise/planwise/internal/intent"
	"github.com/planwise/planwise/internal/scope"
)

// cannedClient returns a fixed completion for every call.
type cannedClient struct {
	content string
	err     error
	calls   int
}

func (c *cannedClient) Complete(_ context.Context, _ []ai.Message) (*ai.Completion, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &ai.Completion{Content: c.content, Model: "canned-1"}, nil
}

func (c *cannedClient) Provider() string { return "canned" }

type memStore struct {
	entries []domain.ActionHistoryEntry
}

func (m *memStore) Load(_ context.Context) ([]domain.ActionHistoryEntry, error) {
	return append([]domain.ActionHistoryEntry(nil), m.entries...), nil
}

func (m *memStore) Save(_ context.Context, entries []domain.ActionHistoryEntry) error {
	m.entries = append([]domain.ActionHistoryEntry(nil), entries...)
	return nil
}

func pipelineWorkspace() *domain.Workspace {
	return &domain.Workspace{
		Tables: []domain.Table{
			{ID: "A", Type: domain.TableTypeDay, Title: "Tuesday", Date: "2026-01-27",
				Tasks: []domain.Task{
					{ID: "t1", Title: "Write report", Duration: 60},
					{ID: "t2", Title: "Review notes", Duration: 30},
				}},
		},
	}
}

// newTestPipeline builds a pipeline whose "openai" provider is replaced by
// the canned client.
func newTestPipeline(t *testing.T, cfg *config.Config, client ai.Client, store history.Store) *Pipeline {
	t.Helper()
	t.Setenv("PLANWISE_TEST_API_KEY", "test-key")
	cfg.Assist.APIKeyEnvVar = "PLANWISE_TEST_API_KEY"

	registry := ai.NewRegistry()
	registry.Register(config.ProviderOpenAI, func(ai.Credentials) ai.Client { return client })

	clk := clock.Fixed(time.Date(2026, 1, 27, 12, 0, 0, 0, time.UTC))
	var log *history.Log
	if store != nil {
		log = history.NewLog(store, clk, zerolog.Nop(), 0)
	}

	return New(cfg, registry, scope.New(clk), engine.New(zerolog.Nop()), log, zerolog.Nop())
}

const deleteTaskResponse = `{
	"changes": [{"action": "delete_task", "table_id": "A", "task_id": "t1"}],
	"summary": "Removed the report task",
	"reasoning": "The user asked to delete it"
}`

func TestRunGuards(t *testing.T) {
	t.Run("disabled assist refuses to run", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Assist.Enabled = false
		p := newTestPipeline(t, cfg, &cannedClient{}, nil)

		_, err := p.Run(context.Background(), pipelineWorkspace(), "delete the report", scope.Request{}, false)
		assert.ErrorIs(t, err, pwerrors.ErrAssistDisabled)
	})

	t.Run("blank utterance", func(t *testing.T) {
		p := newTestPipeline(t, config.DefaultConfig(), &cannedClient{}, nil)

		_, err := p.Run(context.Background(), pipelineWorkspace(), "   ", scope.Request{}, false)
		assert.ErrorIs(t, err, pwerrors.ErrEmptyValue)
	})

	t.Run("missing api key", func(t *testing.T) {
		cfg := config.DefaultConfig()
		client := &cannedClient{content: deleteTaskResponse}
		p := newTestPipeline(t, cfg, client, nil)
		cfg.Assist.APIKeyEnvVar = "PLANWISE_TEST_API_KEY_UNSET"

		_, err := p.Run(context.Background(), pipelineWorkspace(), "delete the report", scope.Request{}, false)
		assert.ErrorIs(t, err, pwerrors.ErrEmptyValue)
		assert.Zero(t, client.calls, "provider must not be called without a key")
	})
}

func TestRunAnalysis(t *testing.T) {
	client := &cannedClient{content: `{"insights": ["2 tasks on Tuesday"], "summary": "A light day"}`}
	p := newTestPipeline(t, config.DefaultConfig(), client, nil)

	outcome, err := p.Run(context.Background(), pipelineWorkspace(), "how many tasks do I have?", scope.Request{}, false)

	require.NoError(t, err)
	assert.Equal(t, intent.ModeAnalysis, outcome.Mode)
	require.NotNil(t, outcome.Result)
	assert.Equal(t, []string{"2 tasks on Tuesday"}, outcome.Result.Insights)
	assert.Nil(t, outcome.Apply)
	assert.Empty(t, outcome.Descriptions)
}

func TestRunPreviewHoldsChanges(t *testing.T) {
	w := pipelineWorkspace()
	client := &cannedClient{content: deleteTaskResponse}
	store := &memStore{}
	cfg := config.DefaultConfig() // preview mode by default
	p := newTestPipeline(t, cfg, client, store)

	outcome, err := p.Run(context.Background(), w, "delete the report task", scope.Request{}, false)

	require.NoError(t, err)
	assert.Equal(t, intent.ModeAction, outcome.Mode)
	assert.True(t, outcome.Held())
	require.Len(t, outcome.Descriptions, 1)
	assert.Contains(t, outcome.Descriptions[0], "Write report")
	assert.Nil(t, outcome.Apply)
	assert.Nil(t, outcome.Entry)
	assert.Empty(t, store.entries, "held changes are not recorded")
	assert.Len(t, w.Tables[0].Tasks, 2, "workspace untouched")
}

func TestRunAppliesOnConfirm(t *testing.T) {
	w := pipelineWorkspace()
	client := &cannedClient{content: deleteTaskResponse}
	store := &memStore{}
	p := newTestPipeline(t, config.DefaultConfig(), client, store)

	outcome, err := p.Run(context.Background(), w, "delete the report task", scope.Request{}, true)

	require.NoError(t, err)
	require.NotNil(t, outcome.Apply)
	assert.True(t, outcome.Apply.Success)
	assert.Equal(t, 1, outcome.Apply.AppliedCount)
	assert.Len(t, outcome.Apply.UpdatedWorkspace.Tables[0].Tasks, 1)
	assert.Len(t, w.Tables[0].Tasks, 2, "caller workspace never mutated")

	require.NotNil(t, outcome.Entry)
	assert.Equal(t, "delete the report task", outcome.Entry.Prompt)
	require.Len(t, store.entries, 1)
	// The snapshot is the pre-change workspace.
	assert.Len(t, outcome.Entry.Snapshot.Tables[0].Tasks, 2)
}

func TestRunAutomaticModeAppliesWithoutConfirm(t *testing.T) {
	w := pipelineWorkspace()
	cfg := config.DefaultConfig()
	cfg.Assist.Mode = config.ModeAutomatic
	store := &memStore{}
	p := newTestPipeline(t, cfg, &cannedClient{content: deleteTaskResponse}, store)

	outcome, err := p.Run(context.Background(), w, "delete the report task", scope.Request{}, false)

	require.NoError(t, err)
	require.NotNil(t, outcome.Apply)
	assert.False(t, outcome.Held())
	require.Len(t, store.entries, 1)
}

func TestRunCollectsInvalidChanges(t *testing.T) {
	mixedBatch := `{
		"changes": [
			{"action": "delete_task", "table_id": "A", "task_id": "t1"},
			{"action": "delete_task", "table_id": "missing", "task_id": "t9"}
		],
		"summary": "s", "reasoning": "r"
	}`

	t.Run("valid remainder still applies", func(t *testing.T) {
		w := pipelineWorkspace()
		store := &memStore{}
		p := newTestPipeline(t, config.DefaultConfig(), &cannedClient{content: mixedBatch}, store)

		outcome, err := p.Run(context.Background(), w, "delete the report task", scope.Request{}, true)

		require.NoError(t, err)
		require.NotNil(t, outcome.Apply)
		assert.False(t, outcome.Apply.Success)
		assert.Equal(t, 1, outcome.Apply.AppliedCount)
		require.Len(t, outcome.Apply.Errors, 1)
		assert.Contains(t, outcome.Apply.Errors[0], "missing")
		require.Len(t, outcome.Problems, 1)
		assert.Contains(t, outcome.Problems[0], "change 1")

		assert.Len(t, outcome.Apply.UpdatedWorkspace.Tables[0].Tasks, 1)
		assert.Len(t, w.Tables[0].Tasks, 2)
		require.Len(t, store.entries, 1)
	})

	t.Run("held preview carries the problems", func(t *testing.T) {
		store := &memStore{}
		p := newTestPipeline(t, config.DefaultConfig(), &cannedClient{content: mixedBatch}, store)

		outcome, err := p.Run(context.Background(), pipelineWorkspace(), "delete the report task", scope.Request{}, false)

		require.NoError(t, err)
		assert.True(t, outcome.Held())
		require.Len(t, outcome.Problems, 1)
		assert.Len(t, outcome.Descriptions, 2)
		assert.Empty(t, store.entries)
	})

	t.Run("fully invalid batch applies and records nothing", func(t *testing.T) {
		w := pipelineWorkspace()
		client := &cannedClient{content: `{
			"changes": [{"action": "delete_task", "table_id": "nope", "task_id": "t1"}],
			"summary": "s", "reasoning": "r"
		}`}
		store := &memStore{}
		p := newTestPipeline(t, config.DefaultConfig(), client, store)

		outcome, err := p.Run(context.Background(), w, "delete the report task", scope.Request{}, true)

		require.NoError(t, err)
		require.NotNil(t, outcome.Apply)
		assert.Zero(t, outcome.Apply.AppliedCount)
		require.Len(t, outcome.Problems, 1)
		assert.Empty(t, store.entries)
		assert.Len(t, w.Tables[0].Tasks, 2)
	})
}

func TestRunSanitizesProviderOutput(t *testing.T) {
	client := &cannedClient{content: `{
		"changes": [{"action": "update_task", "table_id": "A", "task_id": "t1",
			"updates": {"title": "Safe<script>alert(1)</script> title"}}],
		"summary": "Renamed the task",
		"reasoning": "r"
	}`}
	p := newTestPipeline(t, config.DefaultConfig(), client, nil)

	outcome, err := p.Run(context.Background(), pipelineWorkspace(), "update the report title", scope.Request{}, false)

	require.NoError(t, err)
	title := outcome.Result.Changes[0].Updates["title"]
	assert.Equal(t, "Safe title", title)
}

func TestRunProviderErrorPropagates(t *testing.T) {
	client := &cannedClient{err: ai.NewProviderError("canned", 401, "bad key")}
	p := newTestPipeline(t, config.DefaultConfig(), client, nil)

	_, err := p.Run(context.Background(), pipelineWorkspace(), "delete the report", scope.Request{}, false)

	assert.ErrorIs(t, err, pwerrors.ErrProviderAuth)
	assert.Equal(t, 1, client.calls, "auth failures are not retried")
}
