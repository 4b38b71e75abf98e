package similarity

import (
	"context"
	"regexp"
	"strings"

	"github.com/jonathan/skill-validator/internal/types"
)

var lexTokenRe = regexp.MustCompile(`[\p{L}\p{N}]+(?:[.+#][\p{L}\p{N}+#]*)*|[+#]+`)

// LexicalScorer scores by token overlap, allowing near spellings through an
// edit-distance ratio. It needs no backend and never fails.
type LexicalScorer struct{}

// NewLexicalScorer creates a LexicalScorer
func NewLexicalScorer() *LexicalScorer {
	return &LexicalScorer{}
}

// Name implements Scorer
func (*LexicalScorer) Name() string { return "lexical" }

// Score returns the best term score over the skill name and synonyms. A term
// scores the mean, over its tokens, of the best edit-distance ratio against
// any passage token.
func (*LexicalScorer) Score(_ context.Context, skill types.Skill, passage types.EvidencePassage) (float64, error) {
	passageTokens := lexTokens(passage.Text)
	if len(passageTokens) == 0 {
		return 0, nil
	}

	best := 0.0
	for _, term := range skill.Terms() {
		if s := termScore(lexTokens(term), passageTokens); s > best {
			best = s
		}
	}
	return clamp01(best), nil
}

func termScore(termTokens, passageTokens []string) float64 {
	if len(termTokens) == 0 {
		return 0
	}
	total := 0.0
	for _, tt := range termTokens {
		bestToken := 0.0
		for _, pt := range passageTokens {
			if r := levenshteinRatio(tt, pt); r > bestToken {
				bestToken = r
				if r == 1 {
					break
				}
			}
		}
		total += bestToken
	}
	return total / float64(len(termTokens))
}

func lexTokens(text string) []string {
	raw := lexTokenRe.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if tok = strings.TrimRight(tok, "."); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// levenshteinRatio returns 1 - distance/maxLen over runes
func levenshteinRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(maxLen)
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
