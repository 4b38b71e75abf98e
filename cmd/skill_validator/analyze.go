package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jonathan/skill-validator/internal/config"
	"github.com/jonathan/skill-validator/internal/ingestion"
	"github.com/jonathan/skill-validator/internal/observability"
	"github.com/jonathan/skill-validator/internal/parsing"
	"github.com/jonathan/skill-validator/internal/schemas"
	"github.com/jonathan/skill-validator/internal/types"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Validate required skills against a resume",
	Long: `Validate a list of required skills against the evidence in a resume.
Skills come from --skills, or are discovered from a job description given as a
file (--job) or a URL (--job-url). The report is written as JSON.

Repeat --resume to check several resumes against the same skills. The job is
loaded once and the output is a JSON array with one entry per resume.`,
	RunE: runAnalyzeCmd,
}

var (
	analyzeResumes    []string
	analyzeSkills     string
	analyzeJob        string
	analyzeJobURL     string
	analyzeOutput     string
	analyzeWorkers    int
	analyzeScorer     string
	analyzeUseBrowser bool
	analyzeSummary    bool

	analyzeMinSemantic   float64
	analyzeMinConfidence float64
	analyzeRecencyWeight float64
)

func init() {
	analyzeCmd.Flags().StringArrayVarP(&analyzeResumes, "resume", "r", nil, "Path to resume file (txt, pdf, docx); repeat for several")
	analyzeCmd.Flags().StringVarP(&analyzeSkills, "skills", "s", "", "Comma-separated required skills")
	analyzeCmd.Flags().StringVarP(&analyzeJob, "job", "j", "", "Path to job description file")
	analyzeCmd.Flags().StringVarP(&analyzeJobURL, "job-url", "u", "", "URL to fetch the job description from")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "Write the report JSON to this file instead of stdout")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "Skills evaluated in parallel (default 4)")
	analyzeCmd.Flags().StringVar(&analyzeScorer, "scorer", "", "Similarity scorer: lexical or embedding (default: embedding when an API key is set)")
	analyzeCmd.Flags().BoolVar(&analyzeUseBrowser, "use-browser", false, "Render script-heavy job pages with a headless browser")
	analyzeCmd.Flags().BoolVar(&analyzeSummary, "summary", false, "Print a human-readable summary")

	analyzeCmd.Flags().Float64Var(&analyzeMinSemantic, "min-semantic-score", 0, "Minimum passage similarity counted as evidence")
	analyzeCmd.Flags().Float64Var(&analyzeMinConfidence, "min-confidence", 0, "Minimum confidence for a skill to be validated")
	analyzeCmd.Flags().Float64Var(&analyzeRecencyWeight, "recency-weight", 0, "How strongly recency affects confidence (0 disables)")

	analyzeCmd.MarkFlagsMutuallyExclusive("job", "job-url")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyzeCmd(cmd *cobra.Command, _ []string) error {
	flags := config.Config{
		Resumes:    analyzeResumes,
		Skills:     parsing.ParseSkillList(analyzeSkills),
		Job:        analyzeJob,
		JobURL:     analyzeJobURL,
		Output:     analyzeOutput,
		Workers:    analyzeWorkers,
		Scorer:     analyzeScorer,
		UseBrowser: analyzeUseBrowser,
		Verbose:    verbose,
	}
	if cmd.Flags().Changed("min-semantic-score") {
		flags.Thresholds.MinSemanticScore = &analyzeMinSemantic
	}
	if cmd.Flags().Changed("min-confidence") {
		flags.Thresholds.MinConfidenceScore = &analyzeMinConfidence
	}
	if cmd.Flags().Changed("recency-weight") {
		flags.Thresholds.RecencyWeight = &analyzeRecencyWeight
	}

	cfg, err := resolveConfig(flags)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
	d, err := buildDeps(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()

	return runAnalyze(cmd.Context(), cfg, d, cmd.OutOrStdout(), analyzeSummary, logger)
}

// resumeReport is one resume's entry when several resumes are analyzed
type resumeReport struct {
	Name           string                  `json:"name"`
	ContactPhone   string                  `json:"contact_phone"`
	SkillsInResume []string                `json:"skills_in_resume"`
	Report         *types.ValidationReport `json:"report"`
}

// runAnalyze reads the inputs named by cfg, runs the engine and writes the report.
// With several resumes it writes a JSON array of resumeReport instead.
func runAnalyze(ctx context.Context, cfg config.Config, d *deps, out io.Writer, summary bool, logger *slog.Logger) error {
	paths := cfg.ResumePaths()
	if len(paths) == 0 {
		return fmt.Errorf("--resume is required")
	}
	if len(cfg.Skills) == 0 && cfg.Job == "" && cfg.JobURL == "" {
		return fmt.Errorf("one of --skills, --job or --job-url must be provided")
	}

	resumes := make([]string, len(paths))
	for i, path := range paths {
		text, meta, err := ingestion.ReadDocument(path)
		if err != nil {
			return fmt.Errorf("failed to read resume %s: %w", path, err)
		}
		logger.Debug("resume loaded", "source", meta.Source, "chars", meta.Chars)
		resumes[i] = text
	}

	req := types.AnalysisRequest{
		Skills: cfg.Skills,
		Config: cfg.ValidationConfig(types.DefaultValidationConfig()),
	}

	if len(cfg.Skills) == 0 {
		var jobMeta *ingestion.Metadata
		var err error
		if cfg.Job != "" {
			req.JobDescription, jobMeta, err = ingestion.ReadDocument(cfg.Job)
		} else {
			req.JobDescription, jobMeta, err = ingestion.IngestFromURL(ctx, d.fetcher, cfg.JobURL)
		}
		if err != nil {
			return fmt.Errorf("failed to load job description: %w", err)
		}
		logger.Debug("job description loaded", "source", jobMeta.Source, "url", jobMeta.URL, "chars", jobMeta.Chars)

		if len(resumes) > 1 {
			skills, err := d.engine.DiscoverSkills(ctx, req.JobDescription)
			if err != nil {
				return fmt.Errorf("failed to discover skills: %w", err)
			}
			logger.Debug("skills discovered", "count", len(skills))
			req.Skills, req.JobDescription = skills, ""
		}
	}

	reports := make([]*types.ValidationReport, len(resumes))
	for i := range resumes {
		one := req
		one.ResumeText = &resumes[i]
		report, err := d.engine.Analyze(ctx, one)
		if err != nil {
			if len(resumes) > 1 {
				return fmt.Errorf("analysis of %s failed: %w", paths[i], err)
			}
			return fmt.Errorf("analysis failed: %w", err)
		}
		if err := validateReport(report, logger); err != nil {
			return err
		}
		reports[i] = report
	}

	var payload any = reports[0]
	if len(resumes) > 1 {
		batch := make([]resumeReport, len(resumes))
		for i, report := range reports {
			batch[i] = newResumeReport(paths[i], resumes[i], report)
		}
		payload = batch
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	summaryOut := out
	if cfg.Output != "" {
		if err := os.WriteFile(cfg.Output, append(data, '\n'), 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		logger.Info("report written", "path", cfg.Output)
	} else {
		if _, err := fmt.Fprintln(out, string(data)); err != nil {
			return err
		}
		summaryOut = os.Stderr
	}

	if summary {
		printer := observability.NewPrinter(summaryOut, cfg.Verbose)
		for i, report := range reports {
			if len(reports) > 1 {
				_, _ = fmt.Fprintf(summaryOut, "\n%s\n", filepath.Base(paths[i]))
			}
			printer.PrintReport(report)
		}
	}
	return nil
}

// validateReport checks report against the JSON schema when the schema file is available
func validateReport(report *types.ValidationReport, logger *slog.Logger) error {
	schemaPath := schemas.ResolveSchemaPath(schemas.ValidationReportSchema)
	if schemaPath == "" {
		logger.Debug("report schema not found, skipping validation")
		return nil
	}
	if err := schemas.ValidateValue(schemaPath, report); err != nil {
		return fmt.Errorf("report failed schema validation: %w", err)
	}
	return nil
}

func newResumeReport(path, resume string, report *types.ValidationReport) resumeReport {
	results := report.Results()
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Skill)
	}
	return resumeReport{
		Name:           filepath.Base(path),
		ContactPhone:   parsing.ExtractPhone(resume),
		SkillsInResume: parsing.MatchSkills(resume, names),
		Report:         report,
	}
}
