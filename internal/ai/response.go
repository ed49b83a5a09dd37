package ai

import (
	"encoding/json"
	"strings"

	"github.com/planwise/planwise/internal/domain"
	pwerrors "github.com/planwise/planwise/internal/errors"
	"github.com/planwise/planwise/internal/intent"
)

// ParseResult parses and structurally validates a provider completion against
// the expected shape for the request mode. The raw reply is untrusted: it may
// be fenced, truncated, or missing required members. Validation failures are
// terminal (never retried) and wrap ErrInvalidResponse.
func ParseResult(content string, mode intent.Mode) (*domain.AIResult, error) {
	payload := stripCodeFences(content)

	var result domain.AIResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, pwerrors.Wrap(pwerrors.ErrInvalidResponse, "reply is not valid JSON")
	}

	switch mode {
	case intent.ModeAnalysis:
		if err := validateAnalysis(&result); err != nil {
			return nil, err
		}
		result.Type = domain.ResultTypeAnalysis
	default:
		if err := validateAction(&result); err != nil {
			return nil, err
		}
		result.Type = domain.ResultTypeAction
	}

	return &result, nil
}

// validateAnalysis enforces the analysis shape: an insights array plus a
// non-empty summary.
func validateAnalysis(r *domain.AIResult) error {
	if r.Insights == nil {
		return pwerrors.Wrap(pwerrors.ErrInvalidResponse, "analysis reply missing insights array")
	}
	if strings.TrimSpace(r.Summary) == "" {
		return pwerrors.Wrap(pwerrors.ErrInvalidResponse, "analysis reply missing summary")
	}
	return nil
}

// validateAction enforces the action shape: a changes array plus non-empty
// summary and reasoning.
func validateAction(r *domain.AIResult) error {
	if r.Changes == nil {
		return pwerrors.Wrap(pwerrors.ErrInvalidResponse, "action reply missing changes array")
	}
	if strings.TrimSpace(r.Summary) == "" {
		return pwerrors.Wrap(pwerrors.ErrInvalidResponse, "action reply missing summary")
	}
	if strings.TrimSpace(r.Reasoning) == "" {
		return pwerrors.Wrap(pwerrors.ErrInvalidResponse, "action reply missing reasoning")
	}
	return nil
}

// stripCodeFences removes a surrounding markdown code fence, with or without
// a language tag. Models wrap JSON replies in fences often enough that
// tolerating them is cheaper than re-prompting.
func stripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop the language tag line (e.g. "json").
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
