// Package assist wires the full mutation pipeline: intent classification,
// context scoping, the provider exchange with retry, response validation and
// sanitization, change application, and history recording.
//
// The pipeline never mutates the caller's workspace. Applied changes come
// back on ApplyResult.UpdatedWorkspace; the pre-change snapshot goes into
// the history entry.
package assist

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/planwise/planwise/internal/ai"
	"github.com/planwise/planwise/internal/config"
	"github.com/planwise/planwise/internal/ctxutil"
	"github.com/planwise/planwise/internal/domain"
	"github.com/planwise/planwise/internal/engine"
	"github.com/planwise/planwise/internal/errors"
	"github.com/planwise/planwise/internal/history"
	"github.com/planwise/planwise/internal/intent"
	"github.com/planwise/planwise/internal/scope"
)

// Pipeline runs one utterance end to end against a workspace.
type Pipeline struct {
	cfg      *config.Config
	registry *ai.Registry
	retrier  *ai.Retrier
	scoper   *scope.Scoper
	engine   *engine.Engine
	log      *history.Log
	logger   zerolog.Logger
}

// New assembles a Pipeline from its collaborators. The history log may be
// nil, in which case applied actions are not recorded and cannot be undone.
func New(cfg *config.Config, registry *ai.Registry, scoper *scope.Scoper, eng *engine.Engine, log *history.Log, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		registry: registry,
		retrier:  ai.NewRetrier(logger),
		scoper:   scoper,
		engine:   eng,
		log:      log,
		logger:   logger,
	}
}

// Outcome is the result of one pipeline run.
type Outcome struct {
	// Mode is the classified intent of the utterance.
	Mode intent.Mode

	// Result is the validated, sanitized provider response.
	Result *domain.AIResult

	// Descriptions holds one human-readable preview line per proposed
	// change. Empty for analysis runs.
	Descriptions []string

	// Problems lists per-change validation findings for the proposed
	// batch, in "change N" form. Problems never block the batch; the
	// engine fails the affected changes individually at apply time and
	// the valid remainder still applies.
	Problems []string

	// Apply is the application outcome. Nil when the run was analysis-only
	// or the change set is being held for preview confirmation.
	Apply *domain.ApplyResult

	// Entry is the recorded history entry for an applied change set. Nil
	// when nothing was applied or no history log is configured.
	Entry *domain.ActionHistoryEntry
}

// Held reports whether the run produced changes that await confirmation.
func (o *Outcome) Held() bool {
	return o.Mode == intent.ModeAction && o.Apply == nil
}

// Run executes the pipeline for one utterance.
//
// In preview mode, changes are applied only when confirm is true; the first
// unconfirmed run returns the descriptions so the caller can surface them.
// In automatic mode, changes are applied immediately.
func (p *Pipeline) Run(ctx context.Context, w *domain.Workspace, utterance string, req scope.Request, confirm bool) (*Outcome, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if !p.cfg.Assist.Enabled {
		return nil, errors.ErrAssistDisabled
	}
	if strings.TrimSpace(utterance) == "" {
		return nil, errors.Wrap(errors.ErrEmptyValue, "utterance")
	}

	mode := intent.Classify(utterance)
	req.Utterance = utterance
	scoped := p.scoper.Scope(w, req)

	p.logger.Debug().
		Str("mode", string(mode)).
		Int("tables", len(scoped.Tables)).
		Int("token_estimate", scope.EstimateTokens(scoped)).
		Msg("scoped workspace context")

	result, err := p.complete(ctx, mode, scoped, utterance)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{Mode: mode, Result: result}
	if mode == intent.ModeAnalysis {
		return outcome, nil
	}

	// Validation problems are collected per change, never terminal for the
	// batch: the engine applies the valid remainder and accounts for the
	// failures individually.
	outcome.Problems = ai.ValidateChanges(w, result.Changes)
	outcome.Descriptions = engine.DescribeAll(result.Changes, w)

	if p.cfg.Assist.Mode == config.ModePreview && !confirm {
		return outcome, nil
	}

	outcome.Apply = p.engine.Apply(w, result.Changes)
	if outcome.Apply.AppliedCount > 0 && p.log != nil {
		outcome.Entry = p.log.Record(ctx, utterance, result.Changes, w)
	}

	return outcome, nil
}

// complete performs the provider exchange: message assembly, the retried
// call, and response parsing plus sanitization.
func (p *Pipeline) complete(ctx context.Context, mode intent.Mode, scoped scope.Context, utterance string) (*domain.AIResult, error) {
	apiKey := p.cfg.Assist.APIKey()
	if apiKey == "" {
		return nil, errors.Wrapf(errors.ErrEmptyValue,
			"no API key in $%s", p.cfg.Assist.APIKeyEnvVar)
	}

	messages, err := ai.BuildMessages(mode, scoped, utterance)
	if err != nil {
		return nil, err
	}

	client, err := p.registry.Client(p.cfg.Assist.Provider, ai.Credentials{
		APIKey:   apiKey,
		Model:    p.cfg.Assist.Model,
		Endpoint: p.cfg.Assist.CustomEndpoint,
	})
	if err != nil {
		return nil, err
	}

	// The timeout bounds the whole exchange including retry backoff.
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Assist.Timeout)
	defer cancel()

	completion, err := p.retrier.Complete(ctx, client, messages)
	if err != nil {
		return nil, err
	}

	p.logger.Debug().
		Str("provider", client.Provider()).
		Str("model", completion.Model).
		Msg("provider completion received")

	result, err := ai.ParseResult(completion.Content, mode)
	if err != nil {
		return nil, err
	}
	return ai.SanitizeResult(result), nil
}
