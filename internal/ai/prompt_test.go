package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/planwise/internal/intent"
	"github.com/planwise/planwise/internal/scope"
)

func TestBuildMessages(t *testing.T) {
	ctx := scope.Context{CurrentDate: "2026-01-27", Timezone: "UTC"}

	t.Run("action mode", func(t *testing.T) {
		msgs, err := BuildMessages(intent.ModeAction, ctx, "move t1 to tomorrow")
		require.NoError(t, err)
		require.Len(t, msgs, 2)

		assert.Equal(t, RoleSystem, msgs[0].Role)
		assert.Contains(t, msgs[0].Content, "move_tasks")
		assert.Equal(t, RoleUser, msgs[1].Role)
		assert.Contains(t, msgs[1].Content, "2026-01-27")
		assert.Contains(t, msgs[1].Content, "move t1 to tomorrow")
	})

	t.Run("analysis mode", func(t *testing.T) {
		msgs, err := BuildMessages(intent.ModeAnalysis, ctx, "how many tasks")
		require.NoError(t, err)
		assert.Contains(t, msgs[0].Content, "insights")
	})
}
