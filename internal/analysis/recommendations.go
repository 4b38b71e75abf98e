package analysis

import (
	"fmt"
	"strings"

	"github.com/jonathan/skill-validator/internal/types"
)

// Recommendations derives advice from the partition sizes of a report:
// missing skills first, then list-only skills, then weak ones.
func Recommendations(report *types.ValidationReport) []string {
	recs := []string{}
	if report.Total() == 0 {
		return recs
	}

	if n := len(report.Missing); n > 0 {
		recs = append(recs, fmt.Sprintf("%d required %s not found anywhere in the resume: %s",
			n, plural(n, "skill", "skills"), names(report.Missing)))
	}
	if n := len(report.Ignored); n > 0 {
		recs = append(recs, fmt.Sprintf("%d %s found only in your skills list; add project descriptions demonstrating hands-on use: %s",
			n, plural(n, "skill", "skills"), names(report.Ignored)))
	}
	if n := len(report.Weak); n > 0 {
		recs = append(recs, fmt.Sprintf("%d %s weak evidence; describe recent work using them with concrete action verbs: %s",
			n, plural(n, "skill has", "skills have"), names(report.Weak)))
	}
	if len(report.Validated) == report.Total() {
		recs = append(recs, fmt.Sprintf("All %d required %s backed by supporting evidence",
			report.Total(), plural(report.Total(), "skill is", "skills are")))
	}
	return recs
}

func names(results []types.SkillResult) string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Skill
	}
	return strings.Join(out, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
