package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsTerm(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		term     string
		expected bool
	}{
		{"exact word", "Built services in Go", "Go", true},
		{"case insensitive", "worked with PYTHON daily", "python", true},
		{"not inside a word", "Managed Google projects", "Go", false},
		{"punctuation boundary", "Skills: Python, SQL.", "SQL", true},
		{"symbol term", "Wrote C++ and C# tooling", "C++", true},
		{"symbol term boundary", "Wrote C# tooling", "C", true},
		{"multi-word term", "applied machine\nlearning models", "Machine Learning", true},
		{"dotted term", "APIs on Node.js", "node.js", true},
		{"start of text", "Kubernetes operator", "kubernetes", true},
		{"empty term", "anything", "  ", false},
		{"absent", "Led migration of services", "Rust", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ContainsTerm(tt.text, tt.term))
		})
	}
}

func TestTermIndex(t *testing.T) {
	assert.Equal(t, 4, TermIndex("Led Python work", "python"))
	assert.Equal(t, 0, TermIndex("Python first", "Python"))
	assert.Equal(t, -1, TermIndex("Pythonic code", "Python"))
}

func TestFirstMatch(t *testing.T) {
	text := "Deployed on k8s using Kubernetes operators"
	assert.Equal(t, 12, FirstMatch(text, []string{"Kubernetes", "k8s"}))
	assert.Equal(t, -1, FirstMatch(text, []string{"Rust"}))
	assert.Equal(t, -1, FirstMatch(text, nil))
}
