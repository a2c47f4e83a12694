package recommend

import (
	"context"

	"github.com/shelfsage/shelfsage/internal/domain"
)

// mockIndex implements VectorIndex for tests.
type mockIndex struct {
	metadataFn    func(ctx context.Context, field, value string, exact bool, limit int) ([]domain.Candidate, error)
	semanticFn    func(ctx context.Context, vector []float32, limit int) ([]domain.Candidate, error)
	metadataCalls int
	semanticCalls int
}

func (m *mockIndex) MetadataSearch(ctx context.Context, field, value string, exact bool, limit int) ([]domain.Candidate, error) {
	m.metadataCalls++
	if m.metadataFn != nil {
		return m.metadataFn(ctx, field, value, exact, limit)
	}
	return nil, nil
}

func (m *mockIndex) SemanticSearch(ctx context.Context, vector []float32, limit int) ([]domain.Candidate, error) {
	m.semanticCalls++
	if m.semanticFn != nil {
		return m.semanticFn(ctx, vector, limit)
	}
	return nil, nil
}

// mockEmbedder implements domain.Embedder for tests.
type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	return m.result, m.err
}

// mockHistory implements HistoryRecorder for tests.
type mockHistory struct {
	entries []domain.HistoryEntry
	err     error
}

func (m *mockHistory) Record(_ context.Context, entry domain.HistoryEntry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

func candidate(id, title, author string, score float64, categories ...string) domain.Candidate {
	return domain.Candidate{
		ID:    id,
		Score: score,
		Book: domain.Book{
			Title:      title,
			Author:     author,
			Categories: categories,
		},
	}
}

func vectorOfDim(n int) []float32 {
	v := make([]float32, n)
	for i := range v {
		v[i] = 0.1
	}
	return v
}
