// Package types provides type definitions for structured data used throughout the skill-validator system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Status is the per-skill outcome classification.
type Status string

const (
	StatusValidated Status = "validated"
	StatusWeak      Status = "weak"
	StatusIgnored   Status = "ignored"
	StatusMissing   Status = "missing"
)

// SkillResult is the outcome for one requested skill.
type SkillResult struct {
	Skill          string            `json:"skill"`
	Status         Status            `json:"status"`
	RelevanceScore float64           `json:"relevance_score"`
	Reasoning      string            `json:"reasoning"`
	Evidence       []EvidencePassage `json:"evidence"`
}

// ValidationReport is the output of one analysis call.
type ValidationReport struct {
	OverallRelevanceScore float64       `json:"overall_relevance_score"`
	Validated             []SkillResult `json:"validated"`
	Weak                  []SkillResult `json:"weak"`
	Ignored               []SkillResult `json:"ignored"`
	Missing               []SkillResult `json:"missing"`
	Recommendations       []string      `json:"recommendations"`
}

// NewValidationReport returns a report with empty, non-nil partitions.
func NewValidationReport() *ValidationReport {
	return &ValidationReport{
		Validated:       []SkillResult{},
		Weak:            []SkillResult{},
		Ignored:         []SkillResult{},
		Missing:         []SkillResult{},
		Recommendations: []string{},
	}
}

// Add places a result into the partition matching its status.
func (r *ValidationReport) Add(result SkillResult) {
	switch result.Status {
	case StatusValidated:
		r.Validated = append(r.Validated, result)
	case StatusIgnored:
		r.Ignored = append(r.Ignored, result)
	case StatusMissing:
		r.Missing = append(r.Missing, result)
	default:
		r.Weak = append(r.Weak, result)
	}
}

// Results returns every result: validated, weak, ignored, then missing.
func (r *ValidationReport) Results() []SkillResult {
	all := make([]SkillResult, 0, r.Total())
	all = append(all, r.Validated...)
	all = append(all, r.Weak...)
	all = append(all, r.Ignored...)
	return append(all, r.Missing...)
}

// Total returns the number of skills in the report.
func (r *ValidationReport) Total() int {
	return len(r.Validated) + len(r.Weak) + len(r.Ignored) + len(r.Missing)
}

// Find returns the result for a skill key or name.
func (r *ValidationReport) Find(skill string) (SkillResult, bool) {
	key := SkillKey(skill)
	for _, res := range r.Results() {
		if SkillKey(res.Skill) == key {
			return res, true
		}
	}
	return SkillResult{}, false
}
