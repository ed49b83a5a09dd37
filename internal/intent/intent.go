// Package intent classifies a raw user utterance as an action request (mutate
// the workspace) or an analysis request (answer a question) without a model
// call. Classification is deterministic and pattern-based; the provider prompt
// is built differently for each mode.
package intent

import "strings"

// Mode is the classified request mode.
type Mode string

// Classification outcomes.
const (
	// ModeAction requests a workspace mutation.
	ModeAction Mode = "action"

	// ModeAnalysis requests an answer about the workspace.
	ModeAnalysis Mode = "analysis"
)

// analysisKeywords mark informational requests. Checked before action
// keywords so "show me what to move" still reads as a question.
var analysisKeywords = []string{
	"how many",
	"count",
	"list",
	"show",
	"analyze",
	"analyse",
	"summary",
	"summarize",
	"pattern",
	"insight",
	"what",
	"which",
	"when",
	"where",
	"why",
	"who",
}

// actionKeywords mark mutation requests.
var actionKeywords = []string{
	"move",
	"create",
	"add",
	"delete",
	"update",
	"change",
	"set",
	"remove",
	"reorder",
	"schedule",
}

// Classify tags an utterance as action or analysis. Pure function: the same
// input always yields the same mode.
//
// When neither keyword set matches, the default is ModeAction: offering a
// mutation preview beats silently doing nothing.
func Classify(utterance string) Mode {
	lower := strings.ToLower(utterance)

	for _, kw := range analysisKeywords {
		if strings.Contains(lower, kw) {
			return ModeAnalysis
		}
	}
	for _, kw := range actionKeywords {
		if strings.Contains(lower, kw) {
			return ModeAction
		}
	}
	return ModeAction
}
