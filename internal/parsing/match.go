package parsing

import (
	"regexp"
	"strings"
	"sync"
)

const nonWord = `[^\p{L}\p{N}_]`

var termPatterns sync.Map // lowercase term -> *regexp.Regexp

// termPattern compiles a case-insensitive whole-word pattern for term. Inner
// whitespace matches any run of whitespace.
func termPattern(term string) *regexp.Regexp {
	fields := strings.Fields(strings.ToLower(term))
	if len(fields) == 0 {
		return nil
	}
	key := strings.Join(fields, " ")
	if re, ok := termPatterns.Load(key); ok {
		return re.(*regexp.Regexp)
	}

	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = regexp.QuoteMeta(f)
	}
	re := regexp.MustCompile(`(?i)(?:^|` + nonWord + `)(` + strings.Join(quoted, `\s+`) + `)(?:$|` + nonWord + `)`)
	actual, _ := termPatterns.LoadOrStore(key, re)
	return actual.(*regexp.Regexp)
}

// TermIndex returns the byte offset of the first whole-word, case-insensitive
// occurrence of term in text, or -1.
func TermIndex(text, term string) int {
	re := termPattern(term)
	if re == nil {
		return -1
	}
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return -1
	}
	return loc[2]
}

// ContainsTerm reports whether term occurs in text as a whole word.
func ContainsTerm(text, term string) bool {
	return TermIndex(text, term) >= 0
}

// FirstMatch returns the earliest offset at which any of terms occurs in text,
// or -1 if none does.
func FirstMatch(text string, terms []string) int {
	first := -1
	for _, term := range terms {
		if idx := TermIndex(text, term); idx >= 0 && (first < 0 || idx < first) {
			first = idx
		}
	}
	return first
}
