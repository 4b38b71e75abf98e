package parsing

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/skill-validator/internal/llm"
	"github.com/jonathan/skill-validator/internal/prompts"
)

// DefaultMaxSkills caps the number of skills discovered from one posting
const DefaultMaxSkills = 25

// DefaultVocabulary is the list of skills recognized in job descriptions
// without a model. Entries with aliases in skillAliases also match their variants.
var DefaultVocabulary = []string{
	"Go", "Python", "Java", "JavaScript", "TypeScript", "Rust", "C++", "C#", "Ruby", "PHP",
	"Scala", "Kotlin", "Swift", "SQL", "PostgreSQL", "MySQL", "MongoDB", "Redis", "Kafka",
	"RabbitMQ", "Docker", "Kubernetes", "Terraform", "Ansible", "AWS", "GCP", "Azure",
	"Linux", "Git", "React", "Angular", "Vue", "Node.js", "Django", "Flask", "Spring",
	"GraphQL", "REST", "gRPC", "Spark", "Hadoop", "Airflow", "Snowflake", "Tableau",
	"Power BI", "Excel", "Machine Learning", "Deep Learning", "Natural Language Processing",
	"TensorFlow", "PyTorch", "Pandas", "NumPy", "Scikit-learn", "CI/CD", "Jenkins",
	"Microservices", "Agile", "Scrum", "Selenium", "Elasticsearch", "Prometheus", "Grafana",
	"HTML", "CSS", "LangChain",
}

// Discoverer identifies the required skills of a job description
type Discoverer interface {
	DiscoverSkills(ctx context.Context, jobText string) ([]string, error)
}

// VocabularyDiscoverer finds skills in a job description by scanning for a
// fixed vocabulary.
type VocabularyDiscoverer struct {
	Vocabulary []string
}

// NewVocabularyDiscoverer returns a discoverer over DefaultVocabulary
func NewVocabularyDiscoverer() *VocabularyDiscoverer {
	return &VocabularyDiscoverer{Vocabulary: DefaultVocabulary}
}

// DiscoverSkills returns vocabulary skills in the order they first appear in jobText.
func (d *VocabularyDiscoverer) DiscoverSkills(_ context.Context, jobText string) ([]string, error) {
	type hit struct {
		skill string
		pos   int
	}

	hits := make([]hit, 0)
	for _, skill := range d.Vocabulary {
		terms := append([]string{skill}, skillAliases[NormalizeSkillName(skill)]...)
		if pos := FirstMatch(jobText, terms); pos >= 0 {
			hits = append(hits, hit{skill: skill, pos: pos})
		}
	}

	// Vocabulary order breaks ties
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	skills := make([]string, len(hits))
	for i, h := range hits {
		skills[i] = h.skill
	}
	return skills, nil
}

// LLMDiscoverer asks a model for the required skills of a posting and falls
// back to another discoverer when the model is unavailable or answers badly.
type LLMDiscoverer struct {
	Client    llm.Client
	Fallback  Discoverer
	Logger    *slog.Logger
	MaxSkills int
}

// DiscoverSkills returns the skills the model lists, or the fallback's answer.
func (d *LLMDiscoverer) DiscoverSkills(ctx context.Context, jobText string) ([]string, error) {
	if d.Client != nil {
		skills, err := ExtractRequiredSkills(ctx, d.Client, jobText, d.MaxSkills)
		if err == nil && len(skills) > 0 {
			return skills, nil
		}
		if d.Logger != nil {
			d.Logger.Warn("model skill discovery failed, using vocabulary", "error", err)
		}
	}
	if d.Fallback == nil {
		return NewVocabularyDiscoverer().DiscoverSkills(ctx, jobText)
	}
	return d.Fallback.DiscoverSkills(ctx, jobText)
}

// requiredSkillsResponse is the JSON shape the skills prompt asks for
type requiredSkillsResponse struct {
	Skills []string `json:"skills"`
}

// ExtractRequiredSkills asks the model for the skills required by a job description
func ExtractRequiredSkills(ctx context.Context, client llm.Client, jobText string, maxSkills int) ([]string, error) {
	if strings.TrimSpace(jobText) == "" {
		return nil, &ValidationError{Field: "job_description", Message: "job description is empty"}
	}
	if maxSkills <= 0 {
		maxSkills = DefaultMaxSkills
	}

	prompt, err := prompts.Render(prompts.ExtractRequiredSkills, map[string]string{
		"JobText":   jobText,
		"MaxSkills": strconv.Itoa(maxSkills),
	})
	if err != nil {
		return nil, err
	}

	responseText, err := client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, &APICallError{
			Message: "failed to extract required skills",
			Cause:   err,
		}
	}

	return parseSkillsResponse(responseText, maxSkills)
}

// parseSkillsResponse decodes a skills response, normalizing and de-duplicating names
func parseSkillsResponse(responseText string, maxSkills int) ([]string, error) {
	var resp requiredSkillsResponse
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(responseText)), &resp); err != nil {
		return nil, &ParseError{
			Message: "failed to parse skills JSON",
			Cause:   err,
		}
	}

	normalized := NormalizeSkills(resp.Skills)
	if len(normalized) > maxSkills {
		normalized = normalized[:maxSkills]
	}

	names := make([]string, len(normalized))
	for i, s := range normalized {
		names[i] = s.Name
	}
	return names, nil
}
