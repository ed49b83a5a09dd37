package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/planwise/internal/domain"
)

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "script tag and contents removed",
			in:   `Review <script>alert(1)</script>notes`,
			want: "Review notes",
		},
		{
			name: "script with attributes",
			in:   `<script src="http://evil.example/x.js"></script>title`,
			want: "title",
		},
		{
			name: "unterminated script tag",
			in:   `<script>alert(1)`,
			want: "alert(1)",
		},
		{
			name: "iframe removed",
			in:   `a<iframe src="x">inner</iframe>b`,
			want: "ab",
		},
		{
			name: "javascript uri prefix stripped",
			in:   `javascript:alert(1)`,
			want: "alert(1)",
		},
		{
			name: "event handler attribute stripped",
			in:   `<img onerror=alert(1)>`,
			want: "<img alert(1)>",
		},
		{
			name: "case insensitive",
			in:   `<SCRIPT>x</SCRIPT>ok JAVASCRIPT:y`,
			want: "ok y",
		},
		{
			name: "benign text untouched",
			in:   "Buy groceries at 5pm <3",
			want: "Buy groceries at 5pm <3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeString(tt.in)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "<script")
		})
	}
}

func TestSanitizeValueIsStructurePreserving(t *testing.T) {
	in := map[string]any{
		"title":    "<script>alert(1)</script>Plan",
		"duration": float64(30),
		"selected": true,
		"nested": map[string]any{
			"note": "javascript:void(0)",
			"tags": []any{"a", float64(1), nil},
		},
		"empty": nil,
	}

	got, ok := SanitizeValue(in).(map[string]any)
	require.True(t, ok)

	assert.Equal(t, "Plan", got["title"])
	assert.Equal(t, float64(30), got["duration"])
	assert.Equal(t, true, got["selected"])
	assert.Nil(t, got["empty"])

	nested := got["nested"].(map[string]any)
	assert.Equal(t, "void(0)", nested["note"])
	assert.Equal(t, []any{"a", float64(1), nil}, nested["tags"])
}

func TestSanitizeValueNonStringLeavesUnchanged(t *testing.T) {
	in := map[string]any{"n": float64(7), "b": false, "arr": []any{float64(1), float64(2)}}
	assert.Equal(t, in, SanitizeValue(in))
}

func TestSanitizeResult(t *testing.T) {
	in := &domain.AIResult{
		Type:      domain.ResultTypeAction,
		Summary:   `Moved tasks <script>steal()</script>`,
		Reasoning: "because <iframe src=x></iframe>",
		Changes: []domain.Change{
			{
				Action:      domain.ActionMoveTasks,
				FromTableID: "A",
				ToTableID:   `B<script>x</script>`,
				TaskIDs:     []string{"t1", `t2<script>y</script>`},
			},
			{
				Action:  domain.ActionUpdateTask,
				TableID: "A",
				TaskID:  "t1",
				Updates: map[string]any{"title": "javascript:run()", "duration": float64(45)},
			},
		},
	}
	before := *in

	got := SanitizeResult(in)

	assert.Equal(t, "Moved tasks ", got.Summary)
	assert.Equal(t, "because ", got.Reasoning)
	assert.Equal(t, "B", got.Changes[0].ToTableID)
	assert.Equal(t, []string{"t1", "t2"}, got.Changes[0].TaskIDs)
	assert.Equal(t, "run()", got.Changes[1].Updates["title"])
	assert.Equal(t, float64(45), got.Changes[1].Updates["duration"])

	// Input is not mutated.
	assert.Equal(t, before.Summary, in.Summary)
	assert.Equal(t, `B<script>x</script>`, in.Changes[0].ToTableID)
}

func TestSanitizeResultNil(t *testing.T) {
	assert.Nil(t, SanitizeResult(nil))
}
