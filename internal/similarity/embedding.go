package similarity

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jonathan/skill-validator/internal/cache"
	"github.com/jonathan/skill-validator/internal/types"
)

// Embedder turns text into a vector. *llm.GeminiClient implements it.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingScorer scores by cosine similarity of embeddings. Negative
// similarities clamp to 0.
type EmbeddingScorer struct {
	embedder  Embedder
	store     cache.Store
	ttl       time.Duration
	namespace string
}

// EmbeddingOption configures an EmbeddingScorer
type EmbeddingOption func(*EmbeddingScorer)

// WithCache caches embeddings in store for ttl
func WithCache(store cache.Store, ttl time.Duration) EmbeddingOption {
	return func(s *EmbeddingScorer) {
		s.store = store
		s.ttl = ttl
	}
}

// WithNamespace separates cached vectors of different embedding models
func WithNamespace(namespace string) EmbeddingOption {
	return func(s *EmbeddingScorer) {
		s.namespace = namespace
	}
}

// NewEmbeddingScorer creates an EmbeddingScorer over embedder
func NewEmbeddingScorer(embedder Embedder, opts ...EmbeddingOption) *EmbeddingScorer {
	s := &EmbeddingScorer{embedder: embedder, namespace: "embedding"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Scorer
func (*EmbeddingScorer) Name() string { return "embedding" }

// Score embeds "name, synonym, ..." and the passage text and returns their cosine similarity
func (s *EmbeddingScorer) Score(ctx context.Context, skill types.Skill, passage types.EvidencePassage) (float64, error) {
	skillVec, err := s.embed(ctx, strings.Join(skill.Terms(), ", "))
	if err != nil {
		return 0, err
	}
	passageVec, err := s.embed(ctx, passage.Text)
	if err != nil {
		return 0, err
	}

	sim, err := Cosine(skillVec, passageVec)
	if err != nil {
		return 0, &BackendError{Message: "unusable embedding", Cause: err}
	}
	return clamp01(sim), nil
}

func (s *EmbeddingScorer) embed(ctx context.Context, text string) ([]float32, error) {
	if s.embedder == nil {
		return nil, &BackendError{Message: "no embedder configured"}
	}

	raw, err := cache.GetOrCompute(ctx, s.store, cache.Key(s.namespace, text), s.ttl, func(ctx context.Context) ([]byte, error) {
		vec, err := s.embedder.Embed(ctx, text)
		if err != nil {
			return nil, &BackendError{Message: "embedding request failed", Cause: err}
		}
		return json.Marshal(vec)
	})
	if err != nil {
		return nil, err
	}

	var vec []float32
	if err := json.Unmarshal(raw, &vec); err != nil {
		return nil, &BackendError{Message: "corrupt cached embedding", Cause: err}
	}
	return vec, nil
}

// Cosine returns the cosine similarity of two equal-length vectors
func Cosine(a, b []float32) (float64, error) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, fmt.Errorf("vector length mismatch: %d vs %d", len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}
