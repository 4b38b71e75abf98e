package schemas

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/skill-validator/internal/analysis"
	"github.com/jonathan/skill-validator/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJSON_ValidJSON(t *testing.T) {
	err := ValidateJSON(filepath.Join("testdata", "valid_schema.json"), filepath.Join("testdata", "valid_json.json"))
	assert.NoError(t, err)
}

func TestValidateJSON_InvalidDocuments(t *testing.T) {
	for _, name := range []string{"invalid_json.json", "type_mismatch.json"} {
		t.Run(name, func(t *testing.T) {
			err := ValidateJSON(filepath.Join("testdata", "valid_schema.json"), filepath.Join("testdata", name))
			require.Error(t, err)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidateJSON_NonExistentFiles(t *testing.T) {
	err := ValidateJSON("testdata/nonexistent_schema.json", filepath.Join("testdata", "valid_json.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = ValidateJSON(filepath.Join("testdata", "valid_schema.json"), "testdata/nonexistent_json.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_MalformedJSON(t *testing.T) {
	malformed := filepath.Join(t.TempDir(), "malformed.json")
	require.NoError(t, os.WriteFile(malformed, []byte("{ invalid json }"), 0644))

	assert.Error(t, ValidateJSON(filepath.Join("testdata", "valid_schema.json"), malformed))
}

func TestValidateJSONString(t *testing.T) {
	schema, err := os.ReadFile(filepath.Join("testdata", "valid_schema.json"))
	require.NoError(t, err)

	assert.NoError(t, ValidateJSONString(string(schema), `{"skill": "SQL", "score": 1}`))

	err = ValidateJSONString(string(schema), `{"skill": "SQL", "score": 2}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "score", validationErr.Errors[0].Field)

	err = ValidateJSONString(`{"type": 12}`, `{}`)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{{Field: "(root)", Message: "skill is required"}}}
	assert.Equal(t, "validation failed:\n  1. (root): skill is required\n", err.Error())
}

func TestValidateValue_EngineReportMatchesSchema(t *testing.T) {
	schemaPath := ResolveSchemaPath(ValidationReportSchema)
	require.NotEmpty(t, schemaPath, "report schema should be found from the package directory")

	resume := `Experience
Platform Engineer, Acme  Mar 2020 - Present
- Built Go services deployed on Kubernetes

Certifications
AWS Certified Solutions Architect 2019

Skills: Go, Kubernetes, Terraform`

	report, err := analysis.New().Analyze(context.Background(), types.AnalysisRequest{
		ResumeText: &resume,
		Skills:     []string{"Go", "Kubernetes", "Terraform", "AWS", "Rust"},
		Config:     types.DefaultValidationConfig(),
	})
	require.NoError(t, err)

	assert.NoError(t, ValidateValue(schemaPath, report))
}

func TestValidateValue_RejectsOutOfRangeScore(t *testing.T) {
	schemaPath := ResolveSchemaPath(ValidationReportSchema)
	require.NotEmpty(t, schemaPath)

	report := types.NewValidationReport()
	report.OverallRelevanceScore = 1.5

	err := ValidateValue(schemaPath, report)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestValidateValue_AnalysisRequest(t *testing.T) {
	schemaPath := ResolveSchemaPath(AnalysisRequestSchema)
	require.NotEmpty(t, schemaPath)

	var req map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"resume_text": "Built APIs in Go", "skills": ["Go"], "config": {"recency_weight": 0}}`), &req))
	assert.NoError(t, ValidateValue(schemaPath, req))

	delete(req, "resume_text")
	assert.Error(t, ValidateValue(schemaPath, req))
}
