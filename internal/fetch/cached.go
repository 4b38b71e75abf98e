package fetch

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonathan/skill-validator/internal/cache"
)

// DefaultPageCacheTTL keeps fetched postings for a day.
const DefaultPageCacheTTL = 24 * time.Hour

// JobPage is the text of a job posting fetched from the web.
type JobPage struct {
	URL       string
	Platform  Platform
	Text      string
	Rendered  bool // text came from the headless browser
	FromCache bool
}

// JobFetcher fetches job postings, falling back to a headless browser for
// script-rendered pages and caching extracted text.
type JobFetcher struct {
	Options  *Options
	Renderer Renderer
	Store    cache.Store
	CacheTTL time.Duration
	Logger   *slog.Logger
}

// NewJobFetcher creates a fetcher. renderer and store may be nil.
func NewJobFetcher(renderer Renderer, store cache.Store, logger *slog.Logger) *JobFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobFetcher{
		Options:  DefaultOptions(),
		Renderer: renderer,
		Store:    store,
		CacheTTL: DefaultPageCacheTTL,
		Logger:   logger,
	}
}

// Fetch returns the posting text at urlStr.
func (f *JobFetcher) Fetch(ctx context.Context, urlStr string) (*JobPage, error) {
	if err := ValidateURL(urlStr); err != nil {
		return nil, err
	}

	platform := DetectPlatform(urlStr)
	key := cache.Key("jobpage", urlStr)
	page := &JobPage{URL: urlStr, Platform: platform}

	if f.Store != nil {
		if text, ok, err := f.Store.Get(ctx, key); err == nil && ok {
			page.Text = string(text)
			page.FromCache = true
			return page, nil
		}
	}

	result, err := URL(ctx, urlStr, f.Options)
	if err != nil {
		return nil, err
	}

	content := PlatformContentSelectors(platform)
	noise := PlatformNoiseSelectors(platform)
	text, err := ExtractMainText(result.HTML, content, noise...)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "content extraction failed", Cause: err}
	}
	f.Logger.Debug("fetched job posting", "url", urlStr, "platform", platform, "chars", len(text))

	if f.Renderer != nil && ShouldUseBrowser(text) {
		f.Logger.Debug("posting text too short, rendering in browser", "chars", len(text), "min", MinContentLength)
		if html, err := f.Renderer.Render(ctx, urlStr); err != nil {
			f.Logger.Warn("browser rendering failed, using HTTP content", "url", urlStr, "error", err)
		} else if rendered, err := ExtractMainText(html, content, noise...); err == nil && len(rendered) > len(text) {
			text = rendered
			page.Rendered = true
		}
	}

	page.Text = text
	if f.Store != nil && text != "" {
		_ = f.Store.Set(ctx, key, []byte(text), f.CacheTTL)
	}
	return page, nil
}
