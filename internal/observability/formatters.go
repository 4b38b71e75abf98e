// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/skill-validator/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 64
	// maxEvidenceToShow is the number of passages listed per skill in verbose mode
	maxEvidenceToShow = 2
)

// Printer handles formatted output for the CLI
type Printer struct {
	out     io.Writer
	verbose bool
}

// NewPrinter creates a new Printer that writes to the given writer.
// Verbose printers also list evidence passages.
func NewPrinter(out io.Writer, verbose bool) *Printer {
	return &Printer{out: out, verbose: verbose}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads s to width runes
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		return string([]rune(s)[:width-3]) + "..."
	}
	return s + strings.Repeat(" ", width-n)
}

// PrintReport outputs the overall score, every skill grouped by status and the recommendations.
func (p *Printer) PrintReport(report *types.ValidationReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Overall relevance: %s\n", FormatPercent(report.OverallRelevanceScore))
	fmt.Fprintf(&sb, "Validated %d · Weak %d · Ignored %d · Missing %d\n",
		len(report.Validated), len(report.Weak), len(report.Ignored), len(report.Missing))

	groups := []struct {
		label   string
		results []types.SkillResult
	}{
		{"Validated", report.Validated},
		{"Weak", report.Weak},
		{"Ignored", report.Ignored},
		{"Missing", report.Missing},
	}
	for _, g := range groups {
		if len(g.results) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n%s:\n", g.label)
		for _, r := range g.results {
			p.writeResult(&sb, r)
		}
	}

	if len(report.Recommendations) > 0 {
		sb.WriteString("\nRecommendations:\n")
		for _, rec := range report.Recommendations {
			for i, line := range wrap(rec, boxWidth-8) {
				if i == 0 {
					fmt.Fprintf(&sb, "  • %s\n", line)
				} else {
					fmt.Fprintf(&sb, "    %s\n", line)
				}
			}
		}
	}

	p.printBox("SKILL VALIDATION REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

func (p *Printer) writeResult(sb *strings.Builder, r types.SkillResult) {
	fmt.Fprintf(sb, "  %-20s %s\n", r.Skill, FormatPercent(r.RelevanceScore))
	for _, line := range wrap(r.Reasoning, boxWidth-10) {
		fmt.Fprintf(sb, "      %s\n", line)
	}
	if !p.verbose {
		return
	}
	count := min(len(r.Evidence), maxEvidenceToShow)
	for i := 0; i < count; i++ {
		e := r.Evidence[i]
		fmt.Fprintf(sb, "      [%s] %q\n", e.ContextType, e.Text)
	}
	if len(r.Evidence) > maxEvidenceToShow {
		fmt.Fprintf(sb, "      ... and %d more\n", len(r.Evidence)-maxEvidenceToShow)
	}
}

// PrintDocument outputs a short summary of extracted document text.
func (p *Printer) PrintDocument(source, docType string, text string) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Source: %s\n", source)
	fmt.Fprintf(&sb, "Type:   %s\n", docType)
	fmt.Fprintf(&sb, "Chars:  %d\n", utf8.RuneCountInString(text))
	fmt.Fprintf(&sb, "Lines:  %d", strings.Count(text, "\n")+1)
	p.printBox("EXTRACTED TEXT", sb.String())
}

// FormatPercent formats a [0,1] score as a percentage
func FormatPercent(score float64) string {
	return fmt.Sprintf("%.0f%%", score*100)
}

// wrap splits text into lines of at most width runes at word boundaries
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if utf8.RuneCountInString(line)+1+utf8.RuneCountInString(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}
