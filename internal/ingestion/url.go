package ingestion

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/skill-validator/internal/fetch"
)

var (
	// ErrHTTPRequestFailed is returned when the posting cannot be fetched
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrNoContent is returned when a fetched page yields no text
	ErrNoContent = errors.New("no job description text found")
)

// IngestFromURL fetches a job posting and returns its cleaned text with metadata.
// Platform detection, browser fallback and caching are handled by fetcher.
func IngestFromURL(ctx context.Context, fetcher *fetch.JobFetcher, urlStr string) (string, *Metadata, error) {
	if fetcher == nil {
		fetcher = fetch.NewJobFetcher(nil, nil, nil)
	}

	page, err := fetcher.Fetch(ctx, urlStr)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}

	text := CleanText(page.Text)
	if text == "" {
		return "", nil, fmt.Errorf("%w: %s", ErrNoContent, urlStr)
	}

	metadata := NewMetadata(text, urlStr)
	metadata.Type = "html"
	metadata.Platform = string(page.Platform)
	return text, metadata, nil
}
