package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/skill-validator/internal/analysis"
	"github.com/jonathan/skill-validator/internal/cache"
	"github.com/jonathan/skill-validator/internal/fetch"
)

const sampleResume = `Jane Doe
(555) 123-4567

Experience
Senior Engineer, Acme Corp  Jan 2021 - Present
- Led migration of services using Python and Docker
- Implemented REST APIs in Go

Skills: Python, Kubernetes, SQL
`

// writeFile writes content under the test's temp dir and returns the path
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// testDeps returns offline dependencies: lexical scoring, vocabulary discovery
// and an in-memory page cache.
func testDeps() *deps {
	logger := discardLogger()
	return &deps{
		engine:  analysis.New(analysis.WithLogger(logger)),
		fetcher: fetch.NewJobFetcher(nil, cache.NewMemoryStore(), logger),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// isolateEnv clears the variables resolveConfig reads so a local .env does not leak in
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("REDIS_URL", "")
}
