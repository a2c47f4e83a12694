package embedding

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/shelfsage/shelfsage/internal/domain"
)

type stubEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	s.calls++
	return s.result, s.err
}

func TestBreakerEmbedder_PassThrough(t *testing.T) {
	inner := &stubEmbedder{result: domain.EmbeddingResult{
		Embedding:   []float32{0.1, 0.2},
		TotalTokens: 7,
	}}
	be := NewBreakerEmbedder(inner, BreakerConfig{MaxFailures: 3, OpenTimeout: time.Minute}, zap.NewNop())

	result, err := be.Embed(context.Background(), "space opera")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 2 || result.TotalTokens != 7 {
		t.Errorf("unexpected result: %+v", result)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
}

func TestBreakerEmbedder_PropagatesInnerError(t *testing.T) {
	innerErr := errors.New("connection refused")
	inner := &stubEmbedder{err: innerErr}
	be := NewBreakerEmbedder(inner, BreakerConfig{MaxFailures: 3, OpenTimeout: time.Minute}, zap.NewNop())

	_, err := be.Embed(context.Background(), "space opera")
	if !errors.Is(err, innerErr) {
		t.Fatalf("expected inner error, got %v", err)
	}
}

func TestBreakerEmbedder_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &stubEmbedder{err: errors.New("connection refused")}
	be := NewBreakerEmbedder(inner, BreakerConfig{MaxFailures: 2, OpenTimeout: time.Minute}, zap.NewNop())
	ctx := context.Background()

	// Two failures trip the breaker.
	_, _ = be.Embed(ctx, "q")
	_, _ = be.Embed(ctx, "q")

	callsBefore := inner.calls
	_, err := be.Embed(ctx, "q")
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable from open breaker, got %v", err)
	}
	if inner.calls != callsBefore {
		t.Error("open breaker must not hit the inner embedder")
	}
}

func TestBreakerEmbedder_SuccessResetsFailureCount(t *testing.T) {
	inner := &stubEmbedder{err: errors.New("flaky")}
	be := NewBreakerEmbedder(inner, BreakerConfig{MaxFailures: 3, OpenTimeout: time.Minute}, zap.NewNop())
	ctx := context.Background()

	_, _ = be.Embed(ctx, "q")
	_, _ = be.Embed(ctx, "q")

	// A success clears the consecutive failure streak.
	inner.err = nil
	inner.result = domain.EmbeddingResult{Embedding: []float32{0.5}}
	if _, err := be.Embed(ctx, "q"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inner.err = errors.New("flaky")
	_, err := be.Embed(ctx, "q")
	if errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatal("breaker should still be closed after a success reset")
	}
}
