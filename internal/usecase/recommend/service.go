package recommend

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/shelfsage/shelfsage/internal/domain"
	"github.com/shelfsage/shelfsage/internal/logger"
	"github.com/shelfsage/shelfsage/internal/metrics"
	"github.com/shelfsage/shelfsage/internal/query"
)

const (
	minQueryLen = 3
	maxQueryLen = 200

	prewarmQuery = "bestselling fiction books worth reading"
)

// Result is one served recommendation response.
type Result struct {
	Books        []domain.Book
	SemanticTags []string
}

// Config holds service tuning.
type Config struct {
	Dimensions    int
	DefaultTopK   int
	MaxTopK       int
	FuzzyMatch    bool
	SearchTimeout time.Duration
	EmbedTimeout  time.Duration
	CacheTTL      time.Duration
	CacheEntries  int
}

// Service is the recommendation façade: validate, consult the cache,
// classify, pick a strategy, execute the hybrid search, rank, record history.
type Service struct {
	classifier *query.Classifier
	exec       *executor
	cache      *responseCache
	history    HistoryRecorder

	defaultTopK int
	maxTopK     int

	prewarmed atomic.Bool
}

// NewService wires the recommendation service. history may be nil to disable
// query recording.
func NewService(
	index VectorIndex,
	embedder domain.Embedder,
	classifier *query.Classifier,
	history HistoryRecorder,
	cfg Config,
) *Service {
	return &Service{
		classifier: classifier,
		exec: &executor{
			index:         index,
			embedder:      embedder,
			dimensions:    cfg.Dimensions,
			fuzzyMatch:    cfg.FuzzyMatch,
			searchTimeout: cfg.SearchTimeout,
			embedTimeout:  cfg.EmbedTimeout,
		},
		cache:       newResponseCache(cfg.CacheEntries, cfg.CacheTTL),
		history:     history,
		defaultTopK: cfg.DefaultTopK,
		maxTopK:     cfg.MaxTopK,
	}
}

// Recommend serves one free-text query. An empty book list is a valid
// outcome, not an error.
func (s *Service) Recommend(ctx context.Context, rawQuery string, topK int) (Result, error) {
	q := strings.TrimSpace(rawQuery)
	if q == "" {
		return Result{}, fmt.Errorf("query is required: %w", domain.ErrInvalidQuery)
	}
	if len(q) < minQueryLen || len(q) > maxQueryLen {
		return Result{}, fmt.Errorf("query length must be between %d and %d characters: %w",
			minQueryLen, maxQueryLen, domain.ErrInvalidQuery)
	}
	if topK == 0 {
		topK = s.defaultTopK
	}
	if topK < 1 || topK > s.maxTopK {
		return Result{}, fmt.Errorf("top_k must be between 1 and %d: %w", s.maxTopK, domain.ErrInvalidQuery)
	}

	key := cacheKey(q, topK)
	if cached, ok := s.cache.get(key); ok {
		metrics.ResponseCacheTotal.WithLabelValues("hit").Inc()
		return Result{Books: cached.Books, SemanticTags: cached.SemanticTags}, nil
	}
	metrics.ResponseCacheTotal.WithLabelValues("miss").Inc()

	intent := s.classifier.Classify(q)
	strategy := query.StrategyFor(intent)

	start := time.Now()

	candidates, err := s.exec.execute(ctx, intent, strategy, topK)
	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues(string(intent.Kind), "error").Inc()
		return Result{}, err
	}

	ranked := rank(candidates, intent, topK)

	books := make([]domain.Book, 0, len(ranked))
	for _, c := range ranked {
		books = append(books, c.Book)
	}

	result := Result{
		Books:        books,
		SemanticTags: query.Tags(q),
	}

	metrics.RecommendationsTotal.WithLabelValues(string(intent.Kind), "success").Inc()
	metrics.RecommendationDuration.WithLabelValues(string(intent.Kind)).Observe(time.Since(start).Seconds())

	s.cache.put(key, cachedResponse{Books: result.Books, SemanticTags: result.SemanticTags})
	s.recordHistory(ctx, q, topK, len(books))

	return result, nil
}

// recordHistory is best-effort: a failing history write never fails the
// recommendation that produced it.
func (s *Service) recordHistory(ctx context.Context, q string, topK, resultCount int) {
	if s.history == nil {
		return
	}
	entry := domain.HistoryEntry{
		Query:       q,
		TopK:        topK,
		ResultCount: resultCount,
		At:          time.Now().UTC(),
	}
	if err := s.history.Record(ctx, entry); err != nil {
		logger.FromContext(ctx).Warn("Failed to record search history", zap.Error(err))
	}
}

// Prewarm primes the embedding provider and the search index with one
// representative query. Repeat calls are no-ops; a failed warm-up clears the
// flag so the next call retries.
func (s *Service) Prewarm(ctx context.Context) (bool, error) {
	if !s.prewarmed.CompareAndSwap(false, true) {
		return false, nil
	}

	result, err := s.exec.embedder.Embed(ctx, prewarmQuery)
	if err != nil {
		s.prewarmed.Store(false)
		return false, fmt.Errorf("prewarm embed: %w", err)
	}
	if len(result.Embedding) != s.exec.dimensions {
		s.prewarmed.Store(false)
		return false, domain.NewDimensionMismatch(s.exec.dimensions, len(result.Embedding))
	}

	if _, err := s.exec.index.SemanticSearch(ctx, result.Embedding, 1); err != nil {
		s.prewarmed.Store(false)
		return false, fmt.Errorf("prewarm search: %w: %w", err, domain.ErrUpstreamUnavailable)
	}

	return true, nil
}
