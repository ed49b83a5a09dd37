package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		want      Mode
	}{
		{
			name:      "explicit move is action",
			utterance: "move the report task to tomorrow",
			want:      ModeAction,
		},
		{
			name:      "create is action",
			utterance: "create a task for groceries on Friday",
			want:      ModeAction,
		},
		{
			name:      "how many is analysis",
			utterance: "how many tasks do I have this week",
			want:      ModeAnalysis,
		},
		{
			name:      "question word wins over action keyword",
			utterance: "what should I move to tomorrow?",
			want:      ModeAnalysis,
		},
		{
			name:      "show is analysis",
			utterance: "show me the busiest day",
			want:      ModeAnalysis,
		},
		{
			name:      "no keyword defaults to action",
			utterance: "groceries tomorrow please",
			want:      ModeAction,
		},
		{
			name:      "case insensitive",
			utterance: "DELETE the standup task",
			want:      ModeAction,
		},
		{
			name:      "empty utterance defaults to action",
			utterance: "",
			want:      ModeAction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.utterance))
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	const u = "schedule a review for Monday"
	first := Classify(u)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(u))
	}
}
