package toolserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/jonathan/skill-validator/internal/analysis"
	"github.com/jonathan/skill-validator/internal/types"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resume = `Experience
Senior Engineer, Acme Corp  Jan 2021 - Present
- Led migration of billing services to Python and Docker
Skills: Python, Kubernetes, SQL`

// MockAnalyzer is a test double for Analyzer
type MockAnalyzer struct {
	AnalyzeFunc func(ctx context.Context, req types.AnalysisRequest) (*types.ValidationReport, error)
}

func (m *MockAnalyzer) Analyze(ctx context.Context, req types.AnalysisRequest) (*types.ValidationReport, error) {
	return m.AnalyzeFunc(ctx, req)
}

func connect(t *testing.T, analyzer Analyzer) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	_, err := NewServer(analyzer, "test", logger).Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestListTools(t *testing.T) {
	session := connect(t, analysis.New())

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, res.Tools, 1)
	assert.Equal(t, ToolName, res.Tools[0].Name)
	assert.NotNil(t, res.Tools[0].InputSchema)
}

func TestValidateSkills(t *testing.T) {
	session := connect(t, analysis.New())

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: ToolName,
		Arguments: map[string]any{
			"resume_text": resume,
			"skills":      []string{"Python", "Kubernetes", "Rust"},
		},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)

	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)

	var out ValidateSkillsOutput
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	require.NotNil(t, out.Report)
	assert.Equal(t, 3, out.Report.Total())
	assert.Len(t, out.Report.Validated, 1)
	assert.Len(t, out.Report.Ignored, 1)
	assert.Len(t, out.Report.Missing, 1)
	assert.ElementsMatch(t, []string{"Python", "Kubernetes"}, out.SkillsInResume)
}

func TestValidateSkills_PassesThresholds(t *testing.T) {
	var got types.AnalysisRequest
	session := connect(t, &MockAnalyzer{
		AnalyzeFunc: func(_ context.Context, req types.AnalysisRequest) (*types.ValidationReport, error) {
			got = req
			return types.NewValidationReport(), nil
		},
	})

	_, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: ToolName,
		Arguments: map[string]any{
			"resume_text":    "Go",
			"skills":         []string{"Go"},
			"recency_weight": 0,
		},
	})
	require.NoError(t, err)

	require.NotNil(t, got.ResumeText)
	assert.Equal(t, "Go", *got.ResumeText)
	assert.Equal(t, 0.0, got.Config.RecencyWeight)
	assert.Equal(t, types.DefaultMinConfidenceScore, got.Config.MinConfidenceScore)
}

func TestValidateSkills_InvalidThresholdIsToolError(t *testing.T) {
	session := connect(t, analysis.New())

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: ToolName,
		Arguments: map[string]any{
			"resume_text":        "Go",
			"skills":             []string{"Go"},
			"min_semantic_score": 1.5,
		},
	})
	if err == nil {
		assert.True(t, res.IsError)
	}
}
