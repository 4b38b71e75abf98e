package types

import "strings"

// Skill is a required skill with the alternative spellings that count as a
// mention of it.
type Skill struct {
	Name     string   `json:"name"`               // Display name as requested
	Key      string   `json:"key"`                // Case-folded name used for lookups
	Synonyms []string `json:"synonyms,omitempty"` // Other spellings, never the name itself
}

// SkillKey returns the lookup key of a skill name: trimmed and case-folded.
func SkillKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NewSkill builds a Skill. Synonyms are trimmed and deduplicated by key, and
// any that match the name are dropped. Synonyms is nil when none remain.
func NewSkill(name string, synonyms ...string) Skill {
	name = strings.TrimSpace(name)
	skill := Skill{Name: name, Key: SkillKey(name)}

	seen := map[string]bool{skill.Key: true}
	for _, s := range synonyms {
		s = strings.TrimSpace(s)
		key := SkillKey(s)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		skill.Synonyms = append(skill.Synonyms, s)
	}
	return skill
}

// Terms returns the name followed by the synonyms, the strings searched for
// when matching the skill in text.
func (s Skill) Terms() []string {
	terms := make([]string, 0, len(s.Synonyms)+1)
	terms = append(terms, s.Name)
	return append(terms, s.Synonyms...)
}
