// Package toolserver exposes skill validation as an MCP tool over stdio.
package toolserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jonathan/skill-validator/internal/parsing"
	"github.com/jonathan/skill-validator/internal/types"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolName is the name clients call.
const ToolName = "validate_skills"

// Analyzer runs skill validation. *analysis.Engine satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, req types.AnalysisRequest) (*types.ValidationReport, error)
}

// ValidateSkillsInput is the tool's argument object.
type ValidateSkillsInput struct {
	ResumeText         string   `json:"resume_text" jsonschema:"plain text of the resume"`
	Skills             []string `json:"skills,omitempty" jsonschema:"required skills; omit to discover them from job_description"`
	JobDescription     string   `json:"job_description,omitempty" jsonschema:"job description used when skills is empty"`
	MinSemanticScore   *float64 `json:"min_semantic_score,omitempty" jsonschema:"minimum passage similarity in [0,1]"`
	MinConfidenceScore *float64 `json:"min_confidence_score,omitempty" jsonschema:"confidence needed to validate a skill in [0,1]"`
	RecencyWeight      *float64 `json:"recency_weight,omitempty" jsonschema:"how strongly old experience is discounted in [0,1]"`
}

// ValidateSkillsOutput is the JSON text returned to the client.
type ValidateSkillsOutput struct {
	Report         *types.ValidationReport `json:"report"`
	SkillsInResume []string                `json:"skills_in_resume"`
}

// NewServer creates an MCP server with the validate_skills tool registered.
func NewServer(analyzer Analyzer, version string, logger *slog.Logger) *mcp.Server {
	if logger == nil {
		logger = slog.Default()
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "skill_validator",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolName,
		Description: "Check which required skills a resume demonstrates. Each skill is validated, weak, ignored (only listed in a skills section) or missing, with a confidence score, the supporting resume passages and recommendations.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ValidateSkillsInput) (*mcp.CallToolResult, any, error) {
		req := types.AnalysisRequest{
			ResumeText:     &input.ResumeText,
			Skills:         input.Skills,
			JobDescription: input.JobDescription,
			Config: types.ThresholdOverrides{
				MinSemanticScore:   input.MinSemanticScore,
				MinConfidenceScore: input.MinConfidenceScore,
				RecencyWeight:      input.RecencyWeight,
			}.Apply(types.DefaultValidationConfig()),
		}

		report, err := analyzer.Analyze(ctx, req)
		if err != nil {
			logger.Warn("validate_skills failed", "error", err)
			return nil, nil, err
		}

		names := make([]string, 0, report.Total())
		for _, r := range report.Results() {
			names = append(names, r.Skill)
		}
		data, err := json.Marshal(ValidateSkillsOutput{
			Report:         report,
			SkillsInResume: parsing.MatchSkills(input.ResumeText, names),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode report: %w", err)
		}

		logger.Debug("validate_skills finished", "skills", report.Total(), "overall", report.OverallRelevanceScore)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil, nil
	})

	return server
}

// Run serves MCP over stdin/stdout until ctx is cancelled or the client disconnects.
func Run(ctx context.Context, server *mcp.Server) error {
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
