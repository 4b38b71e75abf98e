// Package evidence finds the passages of a resume that mention a skill and
// tags each with where it appeared, the action verbs around it and a
// temporal anchor.
package evidence

import (
	"regexp"
	"strings"

	"github.com/jonathan/skill-validator/internal/parsing"
	"github.com/jonathan/skill-validator/internal/types"
)

// Extractor scans resume text for skill evidence. It is safe for concurrent use.
type Extractor struct {
	verbs map[string]bool
}

// Option configures an Extractor
type Option func(*Extractor)

// WithActionVerbs replaces the action verb vocabulary
func WithActionVerbs(verbs []string) Option {
	return func(e *Extractor) {
		e.verbs = verbSet(verbs)
	}
}

// NewExtractor creates an Extractor using DefaultActionVerbs unless overridden
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{verbs: verbSet(DefaultActionVerbs)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var tokenRe = regexp.MustCompile(`[\p{L}]+(?:['’][\p{L}]+)*`)

// Extract returns the passages of resumeText that mention skill or one of its
// synonyms as a whole word, in document order. Empty text or no mention
// yields an empty slice.
func (e *Extractor) Extract(resumeText string, skill types.Skill) []types.EvidencePassage {
	passages := []types.EvidencePassage{}
	terms := skill.Terms()
	if strings.TrimSpace(resumeText) == "" || len(terms) == 0 {
		return passages
	}

	reference := latestDate(resumeText)
	seen := make(map[string]bool)

	for _, seg := range segmentResume(resumeText) {
		mention := parsing.FirstMatch(seg.body, terms)
		if mention < 0 {
			continue
		}

		verbs := e.actionVerbs(seg.body, mention)
		items := listItems(seg.body)
		listLike := isTokenList(items) && !e.hasVerbPhrase(items)
		if listLike {
			verbs = []string{}
		}

		p := types.EvidencePassage{
			Text:        truncate(seg.text, mention+len(seg.text)-len(seg.body), types.MaxPassageLength),
			ContextType: classify(seg.section, listLike, len(verbs) > 0),
			ActionVerbs: verbs,
			Anchor:      anchorFor(seg.entry, reference),
		}

		key := string(p.ContextType) + "|" + p.Text
		if seen[key] {
			continue
		}
		seen[key] = true
		passages = append(passages, p)
	}

	return passages
}

// classify maps a segment's region and shape to a context type
func classify(section sectionKind, listLike, hasVerbs bool) types.ContextType {
	switch section {
	case sectionCertifications:
		return types.ContextCertification
	case sectionEducation:
		return types.ContextEducation
	case sectionSkills:
		if !hasVerbs {
			return types.ContextSkillsList
		}
		return types.ContextProject
	}

	if listLike && !hasVerbs {
		return types.ContextSkillsList
	}

	switch section {
	case sectionExperience:
		return types.ContextResponsibility
	case sectionProjects:
		return types.ContextProject
	}
	if hasVerbs {
		return types.ContextProject
	}
	return types.ContextResponsibility
}

// actionVerbs returns vocabulary verbs among the first three tokens or before
// the skill mention, in order of appearance and without repeats.
func (e *Extractor) actionVerbs(text string, mention int) []string {
	verbs := []string{}
	seen := make(map[string]bool)
	for i, loc := range tokenRe.FindAllStringIndex(text, -1) {
		if i >= 3 && loc[0] >= mention {
			break
		}
		word := strings.ToLower(text[loc[0]:loc[1]])
		if e.verbs[word] && !seen[word] {
			seen[word] = true
			verbs = append(verbs, word)
		}
	}
	return verbs
}

// hasVerbPhrase reports whether any multi-word item carries an action verb
// ("Built APIs"). A single word like "Design" in a list is a noun.
func (e *Extractor) hasVerbPhrase(items []string) bool {
	for _, item := range items {
		words := tokenRe.FindAllString(item, -1)
		if len(words) < 2 {
			continue
		}
		for _, w := range words {
			if e.verbs[strings.ToLower(w)] {
				return true
			}
		}
	}
	return false
}

// anchorFor builds the temporal anchor of an entry against the resume reference date
func anchorFor(ent *entry, reference *types.YearMonth) types.TemporalAnchor {
	anchor := types.TemporalAnchor{Rank: ent.rank}
	if reference != nil {
		ref := *reference
		anchor.Reference = &ref
	}

	if r := ent.anchorRange(); r != nil {
		dr := *r
		if dr.Current && reference != nil && dr.End.Before(*reference) {
			dr.End = *reference
		}
		anchor.Range = &dr
	}
	return anchor
}

// truncate bounds text to limit runes, keeping the byte offset at in view
func truncate(text string, at, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	if at < 0 {
		at = 0
	}
	if at > len(text) {
		at = len(text)
	}
	atRune := len([]rune(text[:at]))

	start := atRune - limit/3
	if start > len(runes)-limit {
		start = len(runes) - limit
	}
	if start < 0 {
		start = 0
	}
	return strings.TrimSpace(string(runes[start : start+limit]))
}
