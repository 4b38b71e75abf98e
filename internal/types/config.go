// Package types provides type definitions for structured data used throughout the skill-validator system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"math"

	"github.com/go-playground/validator/v10"
)

// Default threshold values.
const (
	DefaultMinSemanticScore   = 0.65
	DefaultMinConfidenceScore = 0.60
	DefaultRecencyWeight      = 0.3
)

// ValidationConfig holds the run-scoped tunables. It is never mutated mid-run.
type ValidationConfig struct {
	MinSemanticScore   float64 `json:"min_semantic_score" validate:"gte=0,lte=1"`
	MinConfidenceScore float64 `json:"min_confidence_score" validate:"gte=0,lte=1"`
	// RecencyWeight is 0 to ignore recency and 1 to fully prioritize recent evidence.
	RecencyWeight float64 `json:"recency_weight" validate:"gte=0,lte=1"`
}

// DefaultValidationConfig returns the default thresholds.
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		MinSemanticScore:   DefaultMinSemanticScore,
		MinConfidenceScore: DefaultMinConfidenceScore,
		RecencyWeight:      DefaultRecencyWeight,
	}
}

// Validate checks that every tunable lies in [0,1].
func (c ValidationConfig) Validate() error {
	// validator's range tags let NaN through
	for _, v := range []float64{c.MinSemanticScore, c.MinConfidenceScore, c.RecencyWeight} {
		if math.IsNaN(v) {
			return &FieldError{Field: "config", Message: "threshold must be a number"}
		}
	}
	return validate.Struct(c)
}

// AnalysisRequest is the input of one analysis call.
// ResumeText is a pointer so that an absent resume can be told apart from an empty one.
type AnalysisRequest struct {
	ResumeText     *string          `json:"resume_text"`
	Skills         []string         `json:"skills,omitempty"`
	JobDescription string           `json:"job_description,omitempty"`
	Config         ValidationConfig `json:"config"`
}

// FieldError describes an invalid field in a request.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

var validate = validator.New()

// ThresholdOverrides carries optional threshold values from files and requests.
// A nil field keeps the base value, so an explicit 0 is honoured.
type ThresholdOverrides struct {
	MinSemanticScore   *float64 `json:"min_semantic_score,omitempty" validate:"omitempty,gte=0,lte=1"`
	MinConfidenceScore *float64 `json:"min_confidence_score,omitempty" validate:"omitempty,gte=0,lte=1"`
	RecencyWeight      *float64 `json:"recency_weight,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// Apply returns base with every non-nil override applied.
func (o ThresholdOverrides) Apply(base ValidationConfig) ValidationConfig {
	if o.MinSemanticScore != nil {
		base.MinSemanticScore = *o.MinSemanticScore
	}
	if o.MinConfidenceScore != nil {
		base.MinConfidenceScore = *o.MinConfidenceScore
	}
	if o.RecencyWeight != nil {
		base.RecencyWeight = *o.RecencyWeight
	}
	return base
}
