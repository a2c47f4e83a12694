package recommend

import (
	"context"

	"github.com/shelfsage/shelfsage/internal/domain"
)

// VectorIndex is the consumer interface for the book search index (ISP).
type VectorIndex interface {
	MetadataSearch(ctx context.Context, field, value string, exact bool, limit int) ([]domain.Candidate, error)
	SemanticSearch(ctx context.Context, vector []float32, limit int) ([]domain.Candidate, error)
}

// HistoryRecorder records served queries; failures are absorbed by the caller.
type HistoryRecorder interface {
	Record(ctx context.Context, entry domain.HistoryEntry) error
}
