package evidence

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/skill-validator/internal/types"
)

// sectionKind is the resume region a line belongs to
type sectionKind int

const (
	sectionNone sectionKind = iota
	sectionSummary
	sectionExperience
	sectionProjects
	sectionSkills
	sectionCertifications
	sectionEducation
	sectionOther
)

// sectionHeaders maps lowercase header text to the region it opens
var sectionHeaders = map[string]sectionKind{
	"summary":                   sectionSummary,
	"professional summary":      sectionSummary,
	"profile":                   sectionSummary,
	"objective":                 sectionSummary,
	"about":                     sectionSummary,
	"about me":                  sectionSummary,
	"experience":                sectionExperience,
	"work experience":           sectionExperience,
	"professional experience":   sectionExperience,
	"relevant experience":       sectionExperience,
	"employment":                sectionExperience,
	"employment history":        sectionExperience,
	"work history":              sectionExperience,
	"career history":            sectionExperience,
	"projects":                  sectionProjects,
	"personal projects":         sectionProjects,
	"key projects":              sectionProjects,
	"selected projects":         sectionProjects,
	"academic projects":         sectionProjects,
	"skills":                    sectionSkills,
	"technical skills":          sectionSkills,
	"key skills":                sectionSkills,
	"core skills":               sectionSkills,
	"core competencies":         sectionSkills,
	"competencies":              sectionSkills,
	"technologies":              sectionSkills,
	"tools":                     sectionSkills,
	"tech stack":                sectionSkills,
	"technical proficiencies":   sectionSkills,
	"languages":                 sectionSkills,
	"skills & tools":            sectionSkills,
	"skills and tools":          sectionSkills,
	"certifications":            sectionCertifications,
	"certificates":              sectionCertifications,
	"certification":             sectionCertifications,
	"licenses":                  sectionCertifications,
	"licenses & certifications": sectionCertifications,
	"certifications & licenses": sectionCertifications,
	"education":                 sectionEducation,
	"academic background":       sectionEducation,
	"education & training":      sectionEducation,
	"awards":                    sectionOther,
	"publications":              sectionOther,
	"interests":                 sectionOther,
	"volunteering":              sectionOther,
	"contact":                   sectionOther,
}

// inlineHeaders are labels that introduce a list on the same line ("Tech stack: Go, gRPC")
var inlineHeaders = map[string]sectionKind{
	"tech":              sectionSkills,
	"stack":             sectionSkills,
	"tools used":        sectionSkills,
	"environment":       sectionSkills,
	"technologies used": sectionSkills,
}

var (
	bulletRe     = regexp.MustCompile(`^\s*(?:[-*•●▪◦‣·>]|\d{1,2}[.)])\s+`)
	headerTrimRe = regexp.MustCompile(`^[#*=_\s]+|[#*=_:\s]+$`)
	inlineRe     = regexp.MustCompile(`^\s*([\p{L} &/]{2,40}):\s*(.+)$`)
	sentenceRe   = regexp.MustCompile(`[.!?]\s+`)
	listSepRe    = regexp.MustCompile(`\s*(?:[,|;•·]|\s/\s)\s*`)
)

// segment is one sentence of resume text with its structural position
type segment struct {
	text    string // display text
	body    string // text used for classification, without an inline label
	section sectionKind
	inline  bool
	entry   *entry
}

// entry is a block of lines describing one role, project or credential
type entry struct {
	rank      int
	dateRange *types.DateRange
	single    *types.DateRange
}

// anchorRange returns the entry's explicit range, else its single date
func (e *entry) anchorRange() *types.DateRange {
	if e.dateRange != nil {
		return e.dateRange
	}
	return e.single
}

// parseHeader reports whether line is a section header and which region it opens
func parseHeader(line string) (sectionKind, bool) {
	trimmed := strings.ToLower(headerTrimRe.ReplaceAllString(line, ""))
	if trimmed == "" || len(strings.Fields(trimmed)) > 4 {
		return sectionNone, false
	}
	kind, ok := sectionHeaders[strings.Join(strings.Fields(trimmed), " ")]
	return kind, ok
}

// parseInline splits a "Label: items" line when the label is a known header
func parseInline(line string) (sectionKind, string, bool) {
	m := inlineRe.FindStringSubmatch(line)
	if m == nil {
		return sectionNone, "", false
	}
	label := strings.ToLower(strings.Join(strings.Fields(m[1]), " "))
	if kind, ok := sectionHeaders[label]; ok {
		return kind, m[2], true
	}
	if kind, ok := inlineHeaders[label]; ok {
		return kind, m[2], true
	}
	return sectionNone, "", false
}

// segmentResume splits resume text into sentences tagged with section and entry
func segmentResume(text string) []segment {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var segments []segment
	section := sectionNone
	rank := 0
	var current *entry
	entryHasContent := false

	newEntry := func() {
		if current != nil && entryHasContent {
			rank++
		}
		current = &entry{rank: rank}
		entryHasContent = false
	}
	newEntry()

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			if entryHasContent {
				newEntry()
			}
			continue
		}

		if kind, ok := parseHeader(line); ok {
			section = kind
			rank = 0
			current = &entry{rank: rank}
			entryHasContent = false
			continue
		}

		if r, ok := findRange(line); ok {
			if current.dateRange != nil {
				newEntry()
			}
			current.dateRange = r
		} else if current.single == nil {
			if r, ok := findSingleDate(line); ok {
				current.single = r
			}
		}
		entryHasContent = true

		lineSection := section
		body := bulletRe.ReplaceAllString(line, "")
		display := body
		inline := false
		if kind, rest, ok := parseInline(body); ok {
			lineSection, body, inline = kind, rest, true
		}

		// Wrapped bullets continue the previous sentence
		if !inline && !bulletRe.MatchString(line) && startsLower(body) && len(segments) > 0 {
			last := &segments[len(segments)-1]
			if last.entry == current && !last.inline {
				last.text += " " + body
				last.body += " " + body
				continue
			}
		}

		if inline {
			segments = append(segments, segment{text: display, body: body, section: lineSection, inline: true, entry: current})
			continue
		}
		for _, sentence := range splitSentences(body) {
			segments = append(segments, segment{text: sentence, body: sentence, section: lineSection, entry: current})
		}
	}

	return segments
}

// splitSentences splits on sentence punctuation followed by whitespace
func splitSentences(text string) []string {
	var out []string
	last := 0
	for _, loc := range sentenceRe.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[last : loc[0]+1]); s != "" {
			out = append(out, s)
		}
		last = loc[1]
	}
	if s := strings.TrimSpace(text[last:]); s != "" {
		out = append(out, s)
	}
	return out
}

func startsLower(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLower(r)
}

// listItems splits a segment into separator delimited items
func listItems(text string) []string {
	text = strings.TrimRight(strings.TrimSpace(text), ".")
	parts := listSepRe.Split(text, -1)
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}

// isTokenList reports whether items read as a bare list of short tokens
func isTokenList(items []string) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if len(strings.Fields(item)) > 4 {
			return false
		}
	}
	return len(items) >= 2 || len(strings.Fields(items[0])) <= 3
}
