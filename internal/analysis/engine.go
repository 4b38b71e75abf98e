// Package analysis runs the skill validation pipeline: for each required
// skill it extracts resume evidence, scores and weights each passage, and
// aggregates the result into a ValidationReport.
package analysis

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/skill-validator/internal/confidence"
	"github.com/jonathan/skill-validator/internal/evidence"
	"github.com/jonathan/skill-validator/internal/parsing"
	"github.com/jonathan/skill-validator/internal/recency"
	"github.com/jonathan/skill-validator/internal/similarity"
	"github.com/jonathan/skill-validator/internal/types"
)

// DefaultWorkers bounds the number of skills evaluated at once
const DefaultWorkers = 4

// SkillDiscoverer identifies required skills in a job description
type SkillDiscoverer interface {
	DiscoverSkills(ctx context.Context, jobText string) ([]string, error)
}

// ResultFunc receives each skill result as soon as it is computed. Calls are
// serialized but arrive in completion order.
type ResultFunc func(index int, result types.SkillResult)

// Engine validates resume skills. It holds no per-request state and is safe
// for concurrent use.
type Engine struct {
	extractor  *evidence.Extractor
	scorer     similarity.Scorer
	weighter   *recency.Weighter
	aggregator *confidence.Aggregator
	discoverer SkillDiscoverer
	workers    int
	logger     *slog.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithScorer sets the semantic scorer
func WithScorer(s similarity.Scorer) Option {
	return func(e *Engine) { e.scorer = s }
}

// WithExtractor sets the evidence extractor
func WithExtractor(x *evidence.Extractor) Option {
	return func(e *Engine) { e.extractor = x }
}

// WithWeighter sets the recency weighter
func WithWeighter(w *recency.Weighter) Option {
	return func(e *Engine) { e.weighter = w }
}

// WithAggregator sets the confidence aggregator
func WithAggregator(a *confidence.Aggregator) Option {
	return func(e *Engine) { e.aggregator = a }
}

// WithDiscoverer sets how skills are found in job descriptions
func WithDiscoverer(d SkillDiscoverer) Option {
	return func(e *Engine) { e.discoverer = d }
}

// WithWorkers bounds parallel skill evaluation
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Engine. Without options it scores lexically and discovers
// skills from a fixed vocabulary.
func New(opts ...Option) *Engine {
	e := &Engine{
		extractor:  evidence.NewExtractor(),
		scorer:     similarity.NewLexicalScorer(),
		weighter:   recency.NewWeighter(),
		aggregator: confidence.NewAggregator(),
		discoverer: parsing.NewVocabularyDiscoverer(),
		workers:    DefaultWorkers,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Scorer returns the engine's semantic scorer
func (e *Engine) Scorer() similarity.Scorer {
	return e.scorer
}

// Analyze validates every requested skill against the resume. An empty skill
// list yields an empty report, not an error.
func (e *Engine) Analyze(ctx context.Context, req types.AnalysisRequest) (*types.ValidationReport, error) {
	return e.AnalyzeStream(ctx, req, nil)
}

// AnalyzeStream is Analyze with a callback per finished skill
func (e *Engine) AnalyzeStream(ctx context.Context, req types.AnalysisRequest, onResult ResultFunc) (*types.ValidationReport, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}
	resume := *req.ResumeText
	cfg := req.Config

	names, err := e.requestedSkills(ctx, req)
	if err != nil {
		return nil, err
	}
	skills := parsing.NormalizeSkills(names)

	e.logger.Debug("analysis started", "skills", len(skills), "scorer", e.scorer.Name())

	results := make([]types.SkillResult, len(skills))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, skill := range skills {
		g.Go(func() error {
			res, err := e.evaluate(ctx, resume, skill, cfg)
			if err != nil {
				e.logger.Warn("skill evaluation failed", "skill", skill.Name, "error", err)
				res = confidence.FailureResult(skill, err)
			}
			results[i] = res

			if onResult != nil {
				mu.Lock()
				onResult(i, res)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	report := types.NewValidationReport()
	total := 0.0
	for _, res := range results {
		report.Add(res)
		total += res.RelevanceScore
	}
	if len(results) > 0 {
		report.OverallRelevanceScore = total / float64(len(results))
	}
	report.Recommendations = Recommendations(report)

	e.logger.Debug("analysis finished",
		"validated", len(report.Validated),
		"weak", len(report.Weak),
		"ignored", len(report.Ignored),
		"missing", len(report.Missing))

	return report, nil
}

// DiscoverSkills lists the required skills of a job description with the
// configured discoverer.
func (e *Engine) DiscoverSkills(ctx context.Context, jobText string) ([]string, error) {
	if strings.TrimSpace(jobText) == "" {
		return nil, &InvalidInputError{Field: "job_description", Message: "job description is empty"}
	}
	if e.discoverer == nil {
		return nil, nil
	}
	return e.discoverer.DiscoverSkills(ctx, jobText)
}

// requestedSkills returns the explicit skill list, or skills discovered in the job description
func (e *Engine) requestedSkills(ctx context.Context, req types.AnalysisRequest) ([]string, error) {
	if len(req.Skills) > 0 || strings.TrimSpace(req.JobDescription) == "" {
		return req.Skills, nil
	}
	if e.discoverer == nil {
		return nil, nil
	}
	names, err := e.discoverer.DiscoverSkills(ctx, req.JobDescription)
	if err != nil {
		return nil, fmt.Errorf("failed to discover skills: %w", err)
	}
	return names, nil
}

// evaluate runs the per-skill pipeline. Panics become errors so one skill
// cannot take down the batch.
func (e *Engine) evaluate(ctx context.Context, resume string, skill types.Skill, cfg types.ValidationConfig) (res types.SkillResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("panic evaluating skill", "skill", skill.Name, "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return types.SkillResult{}, err
	}

	passages := e.extractor.Extract(resume, skill)
	if len(passages) == 0 {
		return e.aggregator.Aggregate(skill, passages, nil, nil, cfg), nil
	}

	semantic := make([]float64, len(passages))
	weights := make([]float64, len(passages))
	for i, p := range passages {
		score, err := e.scorer.Score(ctx, skill, p)
		if err != nil {
			return types.SkillResult{}, fmt.Errorf("failed to score passage: %w", err)
		}
		semantic[i] = similarity.ApplyContainmentFloor(score, skill, p, cfg.MinSemanticScore)
		weights[i] = e.weighter.Weight(p, cfg.RecencyWeight)
	}

	return e.aggregator.Aggregate(skill, passages, semantic, weights, cfg), nil
}

// ValidateRequest rejects requests that cannot be analyzed at all. Analyze
// runs it before any work starts.
func ValidateRequest(req types.AnalysisRequest) error {
	if req.ResumeText == nil {
		return &InvalidInputError{Field: "resume_text", Message: "resume text is required"}
	}
	if !utf8.ValidString(*req.ResumeText) {
		return &InvalidInputError{Field: "resume_text", Message: "resume text must be valid UTF-8"}
	}
	if err := req.Config.Validate(); err != nil {
		return &InvalidInputError{Field: "config", Message: "thresholds must be numbers between 0 and 1", Cause: err}
	}
	return nil
}
