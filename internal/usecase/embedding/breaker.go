package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/shelfsage/shelfsage/internal/domain"
)

// BreakerConfig holds circuit breaker tuning for the embedding provider.
type BreakerConfig struct {
	MaxFailures int           // consecutive failures before the breaker opens
	OpenTimeout time.Duration // how long the breaker stays open before probing
}

// BreakerEmbedder wraps an embedder with a circuit breaker so a dead provider
// fails fast instead of holding every request for the full client timeout.
type BreakerEmbedder struct {
	inner domain.Embedder
	cb    *gobreaker.CircuitBreaker[domain.EmbeddingResult]
}

// NewBreakerEmbedder creates a circuit breaker decorator around inner.
func NewBreakerEmbedder(inner domain.Embedder, cfg BreakerConfig, logger *zap.Logger) *BreakerEmbedder {
	maxFailures := cfg.MaxFailures
	if maxFailures <= 0 {
		maxFailures = 5
	}
	openTimeout := cfg.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[domain.EmbeddingResult](gobreaker.Settings{
		Name:    "embedding-provider",
		Timeout: openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(maxFailures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Embedding breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &BreakerEmbedder{inner: inner, cb: cb}
}

// Embed delegates to the inner embedder under breaker protection. An open
// breaker surfaces as domain.ErrUpstreamUnavailable so callers treat it the
// same as a provider outage.
func (b *BreakerEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	result, err := b.cb.Execute(func() (domain.EmbeddingResult, error) {
		return b.inner.Embed(ctx, text)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return domain.EmbeddingResult{}, fmt.Errorf("embedding breaker open: %w", domain.ErrUpstreamUnavailable)
		}
		return domain.EmbeddingResult{}, err
	}
	return result, nil
}
