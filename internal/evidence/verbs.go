package evidence

import "strings"

// DefaultActionVerbs are the past and present tense action verbs that mark a
// resume line as hands-on work.
var DefaultActionVerbs = []string{
	"achieved", "achieve", "administered", "administer", "analyzed", "analyze",
	"architected", "architect", "automated", "automate", "built", "build",
	"collaborated", "collaborate", "configured", "configure", "contributed", "contribute",
	"coordinated", "coordinate", "created", "create", "debugged", "debug",
	"defined", "define", "delivered", "deliver", "deployed", "deploy",
	"designed", "design", "developed", "develop", "drove", "drive",
	"engineered", "engineer", "established", "establish", "executed", "execute",
	"improved", "improve", "increased", "increase", "implemented", "implement",
	"integrated", "integrate", "introduced", "introduce", "launched", "launch",
	"led", "lead", "maintained", "maintain", "managed", "manage",
	"mentored", "mentor", "migrated", "migrate", "modeled", "model",
	"monitored", "monitor", "optimized", "optimize", "orchestrated", "orchestrate",
	"owned", "own", "performed", "perform", "programmed", "program",
	"refactored", "refactor", "reduced", "reduce", "researched", "research",
	"resolved", "resolve", "scaled", "scale", "shipped", "ship",
	"spearheaded", "spearhead", "streamlined", "streamline", "supported", "support",
	"tested", "test", "trained", "train", "transformed", "transform",
	"troubleshot", "troubleshoot", "used", "use", "utilized", "utilize",
	"wrote", "write",
}

// verbSet builds a lowercase lookup from a verb list
func verbSet(verbs []string) map[string]bool {
	set := make(map[string]bool, len(verbs))
	for _, v := range verbs {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			set[v] = true
		}
	}
	return set
}
