// Package parsing turns user supplied skill lists and job descriptions into
// normalized skills, and provides the whole-word matching shared by the
// evidence pipeline.
package parsing

import "strings"

// NotAvailable is reported when no value could be extracted
const NotAvailable = "N/A"

// ParseSkillList splits a comma, semicolon or newline separated skill list,
// dropping empty entries.
func ParseSkillList(input string) []string {
	parts := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r'
	})

	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			skills = append(skills, p)
		}
	}
	return skills
}

// MatchSkills returns the skills that literally occur in text as whole words,
// in the order given.
func MatchSkills(text string, skills []string) []string {
	found := make([]string, 0, len(skills))
	if strings.TrimSpace(text) == "" {
		return found
	}
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill != "" && ContainsTerm(text, skill) {
			found = append(found, skill)
		}
	}
	return found
}

// FormatSkillList joins skills for display, or returns NotAvailable when empty.
func FormatSkillList(skills []string) string {
	if len(skills) == 0 {
		return NotAvailable
	}
	return strings.Join(skills, ", ")
}
