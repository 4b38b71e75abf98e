package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jonathan/skill-validator/internal/config"
	"github.com/jonathan/skill-validator/internal/ingestion"
	"github.com/spf13/cobra"
)

var extractSkillsCmd = &cobra.Command{
	Use:   "extract-skills",
	Short: "List the required skills of a job description",
	Long: `Discover the required skills of a job description given as a file or URL.
Gemini is asked when GEMINI_API_KEY is set; otherwise the built-in skill
vocabulary is scanned.`,
	RunE: runExtractSkillsCmd,
}

var (
	skillsJob        string
	skillsJobURL     string
	skillsUseBrowser bool
)

func init() {
	extractSkillsCmd.Flags().StringVarP(&skillsJob, "job", "j", "", "Path to job description file")
	extractSkillsCmd.Flags().StringVarP(&skillsJobURL, "job-url", "u", "", "URL to fetch the job description from")
	extractSkillsCmd.Flags().BoolVar(&skillsUseBrowser, "use-browser", false, "Render script-heavy job pages with a headless browser")

	extractSkillsCmd.MarkFlagsMutuallyExclusive("job", "job-url")
	extractSkillsCmd.MarkFlagsOneRequired("job", "job-url")

	rootCmd.AddCommand(extractSkillsCmd)
}

func runExtractSkillsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(config.Config{
		Job:        skillsJob,
		JobURL:     skillsJobURL,
		UseBrowser: skillsUseBrowser,
		Verbose:    verbose,
	})
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
	d, err := buildDeps(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()

	return runExtractSkills(cmd.Context(), cfg, d, cmd.OutOrStdout())
}

func runExtractSkills(ctx context.Context, cfg config.Config, d *deps, out io.Writer) error {
	var (
		jobText string
		err     error
	)
	if cfg.Job != "" {
		jobText, _, err = ingestion.ReadDocument(cfg.Job)
	} else {
		jobText, _, err = ingestion.IngestFromURL(ctx, d.fetcher, cfg.JobURL)
	}
	if err != nil {
		return fmt.Errorf("failed to load job description: %w", err)
	}

	skills, err := d.engine.DiscoverSkills(ctx, jobText)
	if err != nil {
		return fmt.Errorf("failed to discover skills: %w", err)
	}

	data, err := json.MarshalIndent(map[string][]string{"skills": skills}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal skills: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
