package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jonathan/skill-validator/internal/analysis"
	"github.com/jonathan/skill-validator/internal/cache"
	"github.com/jonathan/skill-validator/internal/config"
	"github.com/jonathan/skill-validator/internal/fetch"
	"github.com/jonathan/skill-validator/internal/llm"
	"github.com/jonathan/skill-validator/internal/parsing"
	"github.com/jonathan/skill-validator/internal/similarity"
)

// cachePrefix namespaces every key this tool writes to Redis
const cachePrefix = "skill-validator:"

// resolveConfig merges flags over the --config file and the environment, then validates.
func resolveConfig(flags config.Config) (config.Config, error) {
	cfg := flags
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = flags.MergeWithDefaults(*fileCfg)
		cfg.Verbose = flags.Verbose || fileCfg.Verbose
		cfg.UseBrowser = flags.UseBrowser || fileCfg.UseBrowser
	}

	cfg = cfg.MergeWithDefaults(config.Config{
		APIKey:   os.Getenv("GEMINI_API_KEY"),
		RedisURL: os.Getenv("REDIS_URL"),
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger writes text logs to w, at debug level when verbose
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// deps holds the long-lived collaborators built from configuration
type deps struct {
	engine  *analysis.Engine
	fetcher *fetch.JobFetcher
	client  llm.Client
	redis   *cache.RedisStore
}

// Close releases the model client and the Redis connection
func (d *deps) Close() error {
	var errs []error
	if d.client != nil {
		errs = append(errs, d.client.Close())
	}
	if d.redis != nil {
		errs = append(errs, d.redis.Close())
	}
	return errors.Join(errs...)
}

// buildDeps wires the analysis engine, its caches and the job fetcher.
// Without an API key the lexical scorer and vocabulary discovery are used.
func buildDeps(ctx context.Context, cfg config.Config, logger *slog.Logger) (*deps, error) {
	d := &deps{}

	var store cache.Store = cache.NewMemoryStore()
	if cfg.RedisURL != "" {
		redisStore, err := cache.NewRedisStore(ctx, cfg.RedisURL, cachePrefix, logger)
		if err != nil {
			return nil, err
		}
		d.redis = redisStore
		store = redisStore
	}

	opts := []analysis.Option{analysis.WithLogger(logger)}
	if cfg.Workers > 0 {
		opts = append(opts, analysis.WithWorkers(cfg.Workers))
	}

	switch {
	case cfg.APIKey != "":
		llmConfig := llm.DefaultConfig()
		if cfg.EmbeddingModel != "" {
			llmConfig.EmbeddingModel = cfg.EmbeddingModel
		}
		client, err := llm.NewClient(ctx, llmConfig, cfg.APIKey)
		if err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		d.client = client

		opts = append(opts, analysis.WithDiscoverer(&parsing.LLMDiscoverer{
			Client:    client,
			Fallback:  parsing.NewVocabularyDiscoverer(),
			Logger:    logger,
			MaxSkills: parsing.DefaultMaxSkills,
		}))

		if cfg.Scorer != config.ScorerLexical {
			embedding := similarity.NewEmbeddingScorer(client,
				similarity.WithCache(store, cache.TTLFromEnv()),
				similarity.WithNamespace(llmConfig.GetEmbeddingModel()))
			scorer := similarity.NewFallbackScorer(embedding, logger)
			if t := cfg.Timeout(); t > 0 {
				scorer.Timeout = t
			}
			opts = append(opts, analysis.WithScorer(scorer))
		}
	case cfg.Scorer == config.ScorerEmbedding:
		_ = d.Close()
		return nil, fmt.Errorf("the embedding scorer requires GEMINI_API_KEY or 'api_key' in the config file")
	default:
		logger.Debug("no API key set, using lexical scoring and vocabulary discovery")
	}

	var renderer fetch.Renderer
	if cfg.UseBrowser {
		renderer = fetch.NewBrowserRenderer(logger)
	}
	d.fetcher = fetch.NewJobFetcher(renderer, store, logger)
	d.engine = analysis.New(opts...)

	logger.Debug("engine ready", "scorer", d.engine.Scorer().Name(), "redis", d.redis != nil)
	return d, nil
}
