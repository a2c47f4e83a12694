package recommend

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shelfsage/shelfsage/internal/domain"
	"github.com/shelfsage/shelfsage/internal/logger"
	"github.com/shelfsage/shelfsage/internal/metrics"
	"github.com/shelfsage/shelfsage/internal/query"
)

// anchorScore is assigned to metadata-origin candidates, which carry no
// native similarity score. It keeps them at the top of the score range so a
// direct metadata hit never loses to a weighted semantic match on score alone.
const anchorScore = 1.0

// executor walks the retrieval paths for one query: exact metadata, then
// fuzzy metadata, then semantic KNN, stopping as soon as enough candidates
// have accumulated. Metadata path failures are absorbed; embedding and
// semantic failures abort the call.
type executor struct {
	index         VectorIndex
	embedder      domain.Embedder
	dimensions    int
	fuzzyMatch    bool
	searchTimeout time.Duration
	embedTimeout  time.Duration
}

func (e *executor) execute(ctx context.Context, intent query.Intent, s query.Strategy, topK int) ([]domain.Candidate, error) {
	fetch := 2 * topK

	var merged []domain.Candidate
	seen := make(map[string]bool)

	if s.UseMetadataFilter {
		exact := e.metadataPath(ctx, "exact", s.MetadataField, s.MetadataValue, true, fetch)
		merged = mergeCandidates(merged, seen, exact)

		if len(merged) < topK && e.fuzzyMatch {
			fuzzy := e.metadataPath(ctx, "fuzzy", s.MetadataField, s.MetadataValue, false, fetch)
			merged = mergeCandidates(merged, seen, fuzzy)
		}
	}

	// The semantic step is skipped once the metadata paths alone already
	// cover topK: it is the expensive, rate-limited leg of the walk.
	if len(merged) >= topK {
		return merged, nil
	}

	semantic, err := e.semanticPath(ctx, intent.OriginalQuery, s, fetch)
	if err != nil {
		return nil, err
	}
	merged = mergeCandidates(merged, seen, semantic)

	return merged, nil
}

// metadataPath runs one tag sub-query. Errors are logged and counted, never
// surfaced: the engine degrades to whatever the remaining paths produce.
func (e *executor) metadataPath(ctx context.Context, path, field, value string, exact bool, limit int) []domain.Candidate {
	qctx, cancel := context.WithTimeout(ctx, e.searchTimeout)
	defer cancel()

	candidates, err := e.index.MetadataSearch(qctx, field, value, exact, limit)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		logger.FromContext(ctx).Warn("Metadata search path failed",
			zap.String("path", path),
			zap.String("field", field),
			zap.Error(err),
		)
		metrics.SearchPathFailuresTotal.WithLabelValues(path).Inc()
		return nil
	}

	for i := range candidates {
		if candidates[i].Score == 0 {
			candidates[i].Score = anchorScore
		}
	}
	return candidates
}

// semanticPath embeds the query and runs the KNN search. The vector length is
// validated before any search request goes out: a wrong length means the
// index and the embedding model disagree, and every semantic query would
// return garbage.
func (e *executor) semanticPath(ctx context.Context, text string, s query.Strategy, limit int) ([]domain.Candidate, error) {
	ectx, cancel := context.WithTimeout(ctx, e.embedTimeout)
	result, err := e.embedder.Embed(ectx, text)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	if len(result.Embedding) != e.dimensions {
		return nil, domain.NewDimensionMismatch(e.dimensions, len(result.Embedding))
	}

	qctx, cancel := context.WithTimeout(ctx, e.searchTimeout)
	defer cancel()

	candidates, err := e.index.SemanticSearch(qctx, result.Embedding, limit)
	if err != nil {
		metrics.SearchPathFailuresTotal.WithLabelValues("semantic").Inc()
		return nil, fmt.Errorf("semantic search: %w: %w", err, domain.ErrUpstreamUnavailable)
	}

	if s.HybridSearch {
		for i := range candidates {
			candidates[i].Score *= s.SemanticWeight
		}
	}
	return candidates, nil
}

// mergeCandidates appends unseen candidates, keeping first-path-wins order.
func mergeCandidates(dst []domain.Candidate, seen map[string]bool, src []domain.Candidate) []domain.Candidate {
	for _, c := range src {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		dst = append(dst, c)
	}
	return dst
}
