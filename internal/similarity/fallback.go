package similarity

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonathan/skill-validator/internal/types"
)

// DefaultTimeout bounds one primary scorer call
const DefaultTimeout = 5 * time.Second

// FallbackScorer tries a primary scorer under a timeout and falls back to a
// secondary scorer when it fails. A failing backend therefore never turns a
// real match into a zero score.
type FallbackScorer struct {
	Primary  Scorer
	Fallback Scorer
	Timeout  time.Duration
	Logger   *slog.Logger
}

// NewFallbackScorer wraps primary with the lexical scorer as fallback
func NewFallbackScorer(primary Scorer, logger *slog.Logger) *FallbackScorer {
	return &FallbackScorer{
		Primary:  primary,
		Fallback: NewLexicalScorer(),
		Timeout:  DefaultTimeout,
		Logger:   logger,
	}
}

// Name implements Scorer
func (f *FallbackScorer) Name() string {
	return f.Primary.Name() + "+" + f.Fallback.Name()
}

// Score implements Scorer
func (f *FallbackScorer) Score(ctx context.Context, skill types.Skill, passage types.EvidencePassage) (float64, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	score, err := f.Primary.Score(callCtx, skill, passage)
	cancel()
	if err == nil {
		return score, nil
	}

	// The caller gave up; no point in scoring further
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	if f.Logger != nil {
		f.Logger.Warn("similarity backend failed, using fallback",
			"scorer", f.Primary.Name(),
			"fallback", f.Fallback.Name(),
			"skill", skill.Name,
			"error", err)
	}
	return f.Fallback.Score(ctx, skill, passage)
}
