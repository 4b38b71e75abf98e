package observability

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jonathan/skill-validator/internal/types"
	"github.com/stretchr/testify/assert"
)

func sampleReport() *types.ValidationReport {
	report := types.NewValidationReport()
	report.Add(types.SkillResult{
		Skill:          "Python",
		Status:         types.StatusValidated,
		RelevanceScore: 0.81,
		Reasoning:      "Matched in project context with action verb 'led'; confidence 0.81",
		Evidence: []types.EvidencePassage{
			{Text: "Led migration of services using Python", ContextType: types.ContextProject, ActionVerbs: []string{"led"}},
			{Text: "Python, Kubernetes", ContextType: types.ContextSkillsList, ActionVerbs: []string{}},
			{Text: "Built Python tooling", ContextType: types.ContextProject, ActionVerbs: []string{"built"}},
		},
	})
	report.Add(types.SkillResult{
		Skill:     "Rust",
		Status:    types.StatusMissing,
		Reasoning: "Not found anywhere in the resume",
		Evidence:  []types.EvidencePassage{},
	})
	report.OverallRelevanceScore = 0.4
	report.Recommendations = []string{"1 required skill not found anywhere in the resume: Rust"}
	return report
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false).PrintReport(sampleReport())
	output := buf.String()

	assert.Contains(t, output, "SKILL VALIDATION REPORT")
	assert.Contains(t, output, "Overall relevance: 40%")
	assert.Contains(t, output, "Validated 1 · Weak 0 · Ignored 0 · Missing 1")
	assert.Contains(t, output, "Python")
	assert.Contains(t, output, "81%")
	assert.Contains(t, output, "Missing:")
	assert.Contains(t, output, "Recommendations:")
	assert.NotContains(t, output, "Weak:")
	assert.NotContains(t, output, "[project]")
}

func TestPrintReport_VerboseListsEvidence(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, true).PrintReport(sampleReport())
	output := buf.String()

	assert.Contains(t, output, "[project]")
	assert.Contains(t, output, "[skills-list-only]")
	assert.Contains(t, output, "... and 1 more")
}

func TestPrintReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false).PrintReport(nil)
	assert.Empty(t, buf.String())
}

func TestPrintReport_BoxLinesHaveEqualWidth(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, true).PrintReport(sampleReport())

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
}

func TestPrintDocument(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false).PrintDocument("resume.pdf", "pdf", "line one\nline two")
	output := buf.String()

	assert.Contains(t, output, "EXTRACTED TEXT")
	assert.Contains(t, output, "resume.pdf")
	assert.Contains(t, output, "Chars:  17")
	assert.Contains(t, output, "Lines:  2")
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"one two", "three"}, wrap("one two three", 8))
	assert.Nil(t, wrap("   ", 10))
	assert.Equal(t, []string{"supercalifragilistic"}, wrap("supercalifragilistic", 5))
}

func TestPad(t *testing.T) {
	assert.Equal(t, "ab  ", pad("ab", 4))
	assert.Equal(t, "abcdefg...", pad("abcdefghijklmnop", 10))
	assert.Equal(t, "é   ", pad("é", 4))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "0%", FormatPercent(0))
	assert.Equal(t, "65%", FormatPercent(0.65))
	assert.Equal(t, "100%", FormatPercent(1))
}
