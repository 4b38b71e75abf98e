// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/skill-validator/internal/types"
)

// Scorer names accepted in configuration
const (
	ScorerLexical   = "lexical"
	ScorerEmbedding = "embedding"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	Resume   string   `json:"resume,omitempty"`    // Path to resume file (txt, pdf, docx)
	Resumes  []string `json:"resumes,omitempty"`   // Further resumes checked against the same skills
	Skills   []string `json:"skills,omitempty"`    // Required skills
	Job      string   `json:"job,omitempty"`       // Path to job description file
	JobURL   string   `json:"job_url,omitempty"`   // URL to fetch job description from
	Output   string   `json:"output,omitempty"`    // Path to write the report JSON
	Workers  int      `json:"workers,omitempty"`   // Parallel skill evaluations
	Scorer   string   `json:"scorer,omitempty"`    // lexical or embedding
	RedisURL string   `json:"redis_url,omitempty"` // Embedding and page cache

	// Thresholds; nil keeps the default so an explicit 0 is honoured
	Thresholds types.ThresholdOverrides `json:"thresholds,omitempty"`

	// Behavior
	APIKey         string `json:"api_key,omitempty"`         // Gemini API key
	UseBrowser     bool   `json:"use_browser,omitempty"`     // Use headless browser for script-rendered postings
	Verbose        bool   `json:"verbose,omitempty"`         // Print detailed debug information
	ScorerTimeout  string `json:"scorer_timeout,omitempty"`  // Embedding call timeout, e.g. "5s"
	EmbeddingModel string `json:"embedding_model,omitempty"` // Overrides the default embedding model
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Job != "" && c.JobURL != "" {
		return fmt.Errorf("config error: 'job' and 'job_url' are mutually exclusive")
	}

	if c.Workers < 0 {
		return fmt.Errorf("config error: 'workers' must be non-negative")
	}

	switch c.Scorer {
	case "", ScorerLexical, ScorerEmbedding:
	default:
		return fmt.Errorf("config error: unknown scorer %q (want %q or %q)", c.Scorer, ScorerLexical, ScorerEmbedding)
	}

	if c.ScorerTimeout != "" {
		if d, err := time.ParseDuration(c.ScorerTimeout); err != nil || d <= 0 {
			return fmt.Errorf("config error: invalid 'scorer_timeout' %q", c.ScorerTimeout)
		}
	}

	if err := c.ValidationConfig(types.DefaultValidationConfig()).Validate(); err != nil {
		return fmt.Errorf("config error: thresholds must lie in [0,1]: %w", err)
	}

	for _, resume := range c.ResumePaths() {
		if _, err := os.Stat(resume); os.IsNotExist(err) {
			return fmt.Errorf("config error: resume file not found: %s", resume)
		}
	}
	if c.Job != "" {
		if _, err := os.Stat(c.Job); os.IsNotExist(err) {
			return fmt.Errorf("config error: job file not found: %s", c.Job)
		}
	}

	return nil
}

// ResumePaths returns Resume followed by Resumes, without blanks or repeats
func (c *Config) ResumePaths() []string {
	seen := make(map[string]bool)
	var paths []string
	for _, p := range append([]string{c.Resume}, c.Resumes...) {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		paths = append(paths, p)
	}
	return paths
}

// ValidationConfig applies the configured thresholds to base
func (c *Config) ValidationConfig(base types.ValidationConfig) types.ValidationConfig {
	return c.Thresholds.Apply(base)
}

// Timeout returns the parsed scorer timeout, or zero when unset or invalid
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.ScorerTimeout)
	if err != nil {
		return 0
	}
	return d
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	// Resumes come from one source as a set
	if result.Resume == "" && len(result.Resumes) == 0 {
		result.Resume = defaults.Resume
		result.Resumes = defaults.Resumes
	}
	if result.Job == "" {
		result.Job = defaults.Job
	}
	if result.JobURL == "" {
		result.JobURL = defaults.JobURL
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.Scorer == "" {
		result.Scorer = defaults.Scorer
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.ScorerTimeout == "" {
		result.ScorerTimeout = defaults.ScorerTimeout
	}
	if result.EmbeddingModel == "" {
		result.EmbeddingModel = defaults.EmbeddingModel
	}

	if len(result.Skills) == 0 {
		result.Skills = defaults.Skills
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}

	// Thresholds: pointer fields distinguish unset from zero
	if result.Thresholds.MinSemanticScore == nil {
		result.Thresholds.MinSemanticScore = defaults.Thresholds.MinSemanticScore
	}
	if result.Thresholds.MinConfidenceScore == nil {
		result.Thresholds.MinConfidenceScore = defaults.Thresholds.MinConfidenceScore
	}
	if result.Thresholds.RecencyWeight == nil {
		result.Thresholds.RecencyWeight = defaults.Thresholds.RecencyWeight
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
