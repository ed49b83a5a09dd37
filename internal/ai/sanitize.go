package ai

import (
	"regexp"

	"github.com/planwise/planwise/internal/domain"
)

// Model output is untrusted and is later rendered as preview text and
// interpolated into the data model. This file is the system's only XSS
// boundary: every string leaf of a validated result passes through it before
// anything downstream sees it.
//
// Sanitization is structure-preserving: object and array shape, nils, and
// non-string scalars pass through unchanged; only string content is rewritten.

var (
	// Paired tags and their contents go first, then any stray open/close
	// tags that survived (unterminated or orphaned).
	scriptBlockPattern = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	scriptTagPattern   = regexp.MustCompile(`(?i)</?script\b[^>]*>`)
	iframeBlockPattern = regexp.MustCompile(`(?is)<iframe\b[^>]*>.*?</iframe>`)
	iframeTagPattern   = regexp.MustCompile(`(?i)</?iframe\b[^>]*>`)

	// javascript: URI prefixes, tolerant of whitespace inside the scheme.
	jsURIPattern = regexp.MustCompile(`(?i)javascript\s*:`)

	// Inline event-handler attributes (onclick=, onerror=, ...).
	eventHandlerPattern = regexp.MustCompile(`(?i)\bon\w+\s*=`)
)

// SanitizeString strips executable and markup content from one string.
func SanitizeString(s string) string {
	s = scriptBlockPattern.ReplaceAllString(s, "")
	s = scriptTagPattern.ReplaceAllString(s, "")
	s = iframeBlockPattern.ReplaceAllString(s, "")
	s = iframeTagPattern.ReplaceAllString(s, "")
	s = jsURIPattern.ReplaceAllString(s, "")
	s = eventHandlerPattern.ReplaceAllString(s, "")
	return s
}

// SanitizeValue walks an arbitrary JSON-shaped value, rewriting every string
// leaf and preserving everything else.
func SanitizeValue(v any) any {
	switch val := v.(type) {
	case string:
		return SanitizeString(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = SanitizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = SanitizeValue(inner)
		}
		return out
	default:
		return v
	}
}

// SanitizeResult returns a sanitized copy of a validated result. The input is
// not mutated.
func SanitizeResult(r *domain.AIResult) *domain.AIResult {
	if r == nil {
		return nil
	}

	out := &domain.AIResult{
		Type:      r.Type,
		Summary:   SanitizeString(r.Summary),
		Reasoning: SanitizeString(r.Reasoning),
	}

	if r.Insights != nil {
		out.Insights = make([]string, len(r.Insights))
		for i, insight := range r.Insights {
			out.Insights[i] = SanitizeString(insight)
		}
	}

	if r.Changes != nil {
		out.Changes = make([]domain.Change, len(r.Changes))
		for i := range r.Changes {
			out.Changes[i] = sanitizeChange(r.Changes[i])
		}
	}

	return out
}

func sanitizeChange(c domain.Change) domain.Change {
	out := c
	out.FromTableID = SanitizeString(c.FromTableID)
	out.ToTableID = SanitizeString(c.ToTableID)
	out.TableID = SanitizeString(c.TableID)
	out.TaskID = SanitizeString(c.TaskID)

	if c.TaskIDs != nil {
		out.TaskIDs = make([]string, len(c.TaskIDs))
		for i, id := range c.TaskIDs {
			out.TaskIDs[i] = SanitizeString(id)
		}
	}
	if c.Updates != nil {
		out.Updates = SanitizeValue(c.Updates).(map[string]any)
	}
	if c.Task != nil {
		out.Task = SanitizeValue(c.Task).(map[string]any)
	}
	if c.Table != nil {
		out.Table = SanitizeValue(c.Table).(map[string]any)
	}
	out.Position = SanitizeValue(c.Position)

	return out
}
