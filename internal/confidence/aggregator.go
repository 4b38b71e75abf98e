// Package confidence combines per-passage scores into a skill status.
package confidence

import (
	"fmt"
	"math"

	"github.com/jonathan/skill-validator/internal/types"
)

// DefaultDampingFactor discounts passages without action verbs
const DefaultDampingFactor = 0.7

// Aggregator turns the scored evidence of one skill into a SkillResult
type Aggregator struct {
	DampingFactor float64
}

// NewAggregator returns an Aggregator with the default damping factor
func NewAggregator() *Aggregator {
	return &Aggregator{DampingFactor: DefaultDampingFactor}
}

// Contribution is the weight one passage lends to a skill
func (a *Aggregator) Contribution(passage types.EvidencePassage, semantic, recency float64) float64 {
	factor := 1.0
	if !passage.HasActionVerbs() {
		factor = a.DampingFactor
	}
	return clamp01(clamp01(semantic) * clamp01(recency) * factor)
}

// Aggregate scores a skill by its single strongest passage and classifies it.
// semantic and weights are indexed like evidence.
func (a *Aggregator) Aggregate(skill types.Skill, evidence []types.EvidencePassage, semantic, weights []float64, cfg types.ValidationConfig) types.SkillResult {
	result := types.SkillResult{
		Skill:    skill.Name,
		Evidence: evidence,
	}
	if result.Evidence == nil {
		result.Evidence = []types.EvidencePassage{}
	}

	if len(evidence) == 0 {
		result.Status = types.StatusMissing
		result.RelevanceScore = 0
		result.Reasoning = "Not found anywhere in the resume"
		return result
	}

	best := -1
	bestScore := 0.0
	for i, p := range evidence {
		c := a.Contribution(p, at(semantic, i), at(weights, i))
		if best < 0 || c > bestScore {
			best, bestScore = i, c
		}
	}
	result.RelevanceScore = bestScore
	top := evidence[best]
	topSemantic := clamp01(at(semantic, best))

	switch {
	case allListOnly(evidence):
		result.Status = types.StatusIgnored
		result.Reasoning = fmt.Sprintf("Found only in skills list without supporting project context; confidence %.2f", bestScore)
	case bestScore >= cfg.MinConfidenceScore && topSemantic >= cfg.MinSemanticScore:
		result.Status = types.StatusValidated
		result.Reasoning = matchedReason(top, bestScore)
	default:
		result.Status = types.StatusWeak
		result.Reasoning = weakReason(top, bestScore, topSemantic, cfg)
	}
	return result
}

func matchedReason(p types.EvidencePassage, score float64) string {
	if p.HasActionVerbs() {
		return fmt.Sprintf("Matched in %s context with action verb '%s'; confidence %.2f", p.ContextType, p.ActionVerbs[0], score)
	}
	return fmt.Sprintf("Matched in %s context; confidence %.2f", p.ContextType, score)
}

func weakReason(p types.EvidencePassage, score, semantic float64, cfg types.ValidationConfig) string {
	if semantic < cfg.MinSemanticScore {
		return fmt.Sprintf("Best evidence in %s context is only loosely related (semantic %.2f < %.2f); confidence %.2f",
			p.ContextType, semantic, cfg.MinSemanticScore, score)
	}
	if !p.HasActionVerbs() {
		return fmt.Sprintf("Mentioned in %s context without an action verb; confidence %.2f below %.2f",
			p.ContextType, score, cfg.MinConfidenceScore)
	}
	return fmt.Sprintf("Evidence in %s context with action verb '%s' is not strong or recent enough; confidence %.2f below %.2f",
		p.ContextType, p.ActionVerbs[0], score, cfg.MinConfidenceScore)
}

// FailureResult is the result of a skill whose pipeline failed
func FailureResult(skill types.Skill, err error) types.SkillResult {
	return types.SkillResult{
		Skill:          skill.Name,
		Status:         types.StatusWeak,
		RelevanceScore: 0,
		Reasoning:      fmt.Sprintf("Evaluation failed: %v", err),
		Evidence:       []types.EvidencePassage{},
	}
}

func allListOnly(evidence []types.EvidencePassage) bool {
	for _, p := range evidence {
		if !p.IsListOnly() {
			return false
		}
	}
	return true
}

func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
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
