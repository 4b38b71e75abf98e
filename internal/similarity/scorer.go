// Package similarity scores how closely an evidence passage matches a skill.
// Scorers are interchangeable: an embedding scorer backed by a remote model,
// a lexical scorer that needs nothing, and a fallback wrapper combining them.
package similarity

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jonathan/skill-validator/internal/parsing"
	"github.com/jonathan/skill-validator/internal/types"
)

// Scorer computes a similarity in [0,1] between a skill and a passage
type Scorer interface {
	// Name identifies the scorer in logs
	Name() string
	// Score returns the similarity of skill and passage
	Score(ctx context.Context, skill types.Skill, passage types.EvidencePassage) (float64, error)
}

// ErrBackendUnavailable marks failures of a remote similarity backend
var ErrBackendUnavailable = errors.New("similarity backend unavailable")

// BackendError wraps a failed backend call
type BackendError struct {
	Message string
	Cause   error
}

func (e *BackendError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("similarity backend error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("similarity backend error: %s", e.Message)
}

func (e *BackendError) Unwrap() error {
	return e.Cause
}

// Is makes every BackendError match ErrBackendUnavailable
func (e *BackendError) Is(target error) bool {
	return target == ErrBackendUnavailable
}

// ContainsSkill reports whether the skill name or a synonym occurs in text as a whole word
func ContainsSkill(skill types.Skill, text string) bool {
	return parsing.FirstMatch(text, skill.Terms()) >= 0
}

// ApplyContainmentFloor raises score to at least floor when the passage
// contains the skill verbatim, so exact mentions are never rejected.
func ApplyContainmentFloor(score float64, skill types.Skill, passage types.EvidencePassage, floor float64) float64 {
	score = clamp01(score)
	if score < floor && ContainsSkill(skill, passage.Text) {
		return floor
	}
	return score
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
