package parsing

import (
	"strings"

	"github.com/jonathan/skill-validator/internal/types"
)

// skillAliases maps canonical skill names to the variants seen in resumes and postings
var skillAliases = map[string][]string{
	"Go":                          {"golang", "go lang"},
	"JavaScript":                  {"js", "ecmascript"},
	"TypeScript":                  {"ts"},
	"Kubernetes":                  {"k8s", "kube"},
	"React":                       {"react.js", "reactjs"},
	"Vue":                         {"vue.js", "vuejs"},
	"Node.js":                     {"nodejs"},
	"PostgreSQL":                  {"postgres", "psql"},
	"AWS":                         {"amazon web services"},
	"GCP":                         {"google cloud", "google cloud platform"},
	"Azure":                       {"microsoft azure"},
	"C#":                          {"csharp", "c sharp"},
	"C++":                         {"cpp"},
	"CI/CD":                       {"continuous integration", "continuous delivery"},
	"Machine Learning":            {"ml"},
	"Natural Language Processing": {"nlp"},
	"Scikit-learn":                {"sklearn", "scikit learn"},
	"Elasticsearch":               {"elastic search"},
	"MongoDB":                     {"mongo"},
	"SQL":                         {},
	"Python":                      {},
	"Docker":                      {},
	"Terraform":                   {},
	"Kafka":                       {"apache kafka"},
	"Spark":                       {"apache spark", "pyspark"},
	"GraphQL":                     {},
	"gRPC":                        {},
	"REST":                        {"restful"},
	"Power BI":                    {"powerbi"},
}

// skillNormalizations maps lowercase variants (and canonical names) to canonical names
var skillNormalizations = buildNormalizations(skillAliases)

func buildNormalizations(aliases map[string][]string) map[string]string {
	m := make(map[string]string)
	for canonical, variants := range aliases {
		m[strings.ToLower(canonical)] = canonical
		for _, v := range variants {
			m[strings.ToLower(v)] = canonical
		}
	}
	return m
}

// NormalizeSkillName normalizes a skill name to its canonical form
func NormalizeSkillName(skillName string) string {
	normalized := strings.Join(strings.Fields(skillName), " ")
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}

	// All-caps single words that aren't known acronyms get a leading capital only
	if normalized == strings.ToUpper(normalized) && normalized != lower {
		if !strings.Contains(lower, " ") && len(normalized) > 4 {
			return strings.ToUpper(normalized[:1]) + lower[1:]
		}
		return normalized
	}

	// Mixed case is kept as written
	if normalized != lower {
		return normalized
	}

	if !strings.Contains(normalized, " ") {
		return strings.ToUpper(normalized[:1]) + normalized[1:]
	}

	return normalized
}

// SynonymsFor returns the known variants of a skill, including its canonical
// name when it differs from the one given.
func SynonymsFor(skillName string) []string {
	canonical := NormalizeSkillName(skillName)
	variants, ok := skillAliases[canonical]
	if !ok {
		return nil
	}

	syns := make([]string, 0, len(variants)+1)
	if types.SkillKey(canonical) != types.SkillKey(skillName) {
		syns = append(syns, canonical)
	}
	return append(syns, variants...)
}

// NormalizeSkills turns raw skill names into Skills, merging entries that share
// a canonical name. The first spelling seen is kept as the display name and
// input order is preserved.
func NormalizeSkills(names []string) []types.Skill {
	if len(names) == 0 {
		return []types.Skill{}
	}

	skills := make([]types.Skill, 0, len(names))
	seen := make(map[string]int) // canonical key -> index in skills

	for _, name := range names {
		canonical := NormalizeSkillName(name)
		if canonical == "" {
			continue
		}
		key := types.SkillKey(canonical)

		if idx, exists := seen[key]; exists {
			merged := append(skills[idx].Synonyms, strings.TrimSpace(name))
			skills[idx] = types.NewSkill(skills[idx].Name, merged...)
			continue
		}

		skills = append(skills, types.NewSkill(name, SynonymsFor(name)...))
		seen[key] = len(skills) - 1
	}

	return skills
}
