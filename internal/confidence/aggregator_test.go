package confidence

import (
	"errors"
	"testing"

	"github.com/jonathan/skill-validator/internal/types"
	"github.com/stretchr/testify/assert"
)

func project(verbs ...string) types.EvidencePassage {
	if verbs == nil {
		verbs = []string{}
	}
	return types.EvidencePassage{Text: "project text", ContextType: types.ContextProject, ActionVerbs: verbs}
}

func listOnly() types.EvidencePassage {
	return types.EvidencePassage{Text: "Skills: Python", ContextType: types.ContextSkillsList, ActionVerbs: []string{}}
}

func TestAggregate_Missing(t *testing.T) {
	got := NewAggregator().Aggregate(types.NewSkill("Rust"), nil, nil, nil, types.DefaultValidationConfig())

	assert.Equal(t, types.StatusMissing, got.Status)
	assert.Equal(t, 0.0, got.RelevanceScore)
	assert.NotNil(t, got.Evidence)
	assert.Empty(t, got.Evidence)
	assert.Equal(t, "Rust", got.Skill)
}

func TestAggregate_StatusTable(t *testing.T) {
	cfg := types.DefaultValidationConfig()

	tests := []struct {
		name      string
		evidence  []types.EvidencePassage
		semantic  []float64
		weights   []float64
		status    types.Status
		score     float64
		reasoning string
	}{
		{
			name:      "strong project evidence",
			evidence:  []types.EvidencePassage{project("implemented")},
			semantic:  []float64{0.81},
			weights:   []float64{1},
			status:    types.StatusValidated,
			score:     0.81,
			reasoning: "Matched in project context with action verb 'implemented'; confidence 0.81",
		},
		{
			name:      "list only even with perfect semantic score",
			evidence:  []types.EvidencePassage{listOnly(), listOnly()},
			semantic:  []float64{1, 1},
			weights:   []float64{1, 1},
			status:    types.StatusIgnored,
			score:     0.7,
			reasoning: "Found only in skills list without supporting project context; confidence 0.70",
		},
		{
			name:      "project dominates list",
			evidence:  []types.EvidencePassage{listOnly(), project("led")},
			semantic:  []float64{1, 0.9},
			weights:   []float64{1, 1},
			status:    types.StatusValidated,
			score:     0.9,
			reasoning: "Matched in project context with action verb 'led'; confidence 0.90",
		},
		{
			name:     "damped mention is weak",
			evidence: []types.EvidencePassage{project()},
			semantic: []float64{0.8},
			weights:  []float64{1},
			status:   types.StatusWeak,
			score:    0.8 * 0.7,
		},
		{
			name:     "old evidence is weak",
			evidence: []types.EvidencePassage{project("built")},
			semantic: []float64{0.9},
			weights:  []float64{0.5},
			status:   types.StatusWeak,
			score:    0.45,
		},
		{
			name:     "confidence high but semantic below floor",
			evidence: []types.EvidencePassage{project("built")},
			semantic: []float64{0.62},
			weights:  []float64{1},
			status:   types.StatusWeak,
			score:    0.62,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewAggregator().Aggregate(types.NewSkill("Python"), tt.evidence, tt.semantic, tt.weights, cfg)
			assert.Equal(t, tt.status, got.Status)
			assert.InDelta(t, tt.score, got.RelevanceScore, 1e-9)
			if tt.reasoning != "" {
				assert.Equal(t, tt.reasoning, got.Reasoning)
			}
			assert.Equal(t, tt.evidence, got.Evidence)
		})
	}
}

func TestAggregate_FirstMaxWins(t *testing.T) {
	evidence := []types.EvidencePassage{project("built"), project("led")}
	got := NewAggregator().Aggregate(types.NewSkill("Go"), evidence, []float64{0.9, 0.9}, []float64{1, 1}, types.DefaultValidationConfig())
	assert.Contains(t, got.Reasoning, "'built'")
}

func TestAggregate_WeakReasons(t *testing.T) {
	cfg := types.DefaultValidationConfig()
	a := NewAggregator()

	loose := a.Aggregate(types.NewSkill("Go"), []types.EvidencePassage{project("built")}, []float64{0.3}, []float64{1}, cfg)
	assert.Contains(t, loose.Reasoning, "loosely related")

	noVerb := a.Aggregate(types.NewSkill("Go"), []types.EvidencePassage{project()}, []float64{0.8}, []float64{1}, cfg)
	assert.Contains(t, noVerb.Reasoning, "without an action verb")

	old := a.Aggregate(types.NewSkill("Go"), []types.EvidencePassage{project("built")}, []float64{0.9}, []float64{0.3}, cfg)
	assert.Contains(t, old.Reasoning, "not strong or recent enough")
}

func TestAggregate_MonotonicInMinConfidence(t *testing.T) {
	evidence := []types.EvidencePassage{project("built")}
	a := NewAggregator()

	prevValidated := true
	for _, minConf := range []float64{0, 0.2, 0.5, 0.7, 0.8, 0.95, 1} {
		cfg := types.DefaultValidationConfig()
		cfg.MinConfidenceScore = minConf
		got := a.Aggregate(types.NewSkill("Go"), evidence, []float64{0.75}, []float64{1}, cfg)
		validated := got.Status == types.StatusValidated
		if !prevValidated {
			assert.False(t, validated)
		}
		prevValidated = validated
	}
}

func TestContribution(t *testing.T) {
	a := NewAggregator()
	assert.InDelta(t, 0.6, a.Contribution(project("led"), 0.8, 0.75), 1e-9)
	assert.InDelta(t, 0.42, a.Contribution(project(), 0.8, 0.75), 1e-9)
	assert.Equal(t, 1.0, a.Contribution(project("led"), 3, 2))
}

func TestFailureResult(t *testing.T) {
	got := FailureResult(types.NewSkill("Go"), errors.New("boom"))
	assert.Equal(t, types.StatusWeak, got.Status)
	assert.Equal(t, "Evaluation failed: boom", got.Reasoning)
	assert.Empty(t, got.Evidence)
}
