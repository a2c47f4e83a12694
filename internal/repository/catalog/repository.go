package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/shelfsage/shelfsage/internal/db"
	"github.com/shelfsage/shelfsage/internal/domain"
)

// returnFields lists the hash fields fetched for every match.
var returnFields = []string{
	domain.FieldTitle,
	domain.FieldAuthor,
	domain.FieldDescription,
	domain.FieldCategories,
	domain.FieldRating,
	domain.FieldRatingsCount,
	domain.FieldThumbnail,
	domain.FieldPublishedYear,
}

// Repository reads book candidates from the search index.
type Repository struct {
	store     db.Searcher
	indexName string
	keyPrefix string
}

// New creates a catalog repository over the given search index.
func New(store db.Searcher, indexName, keyPrefix string) *Repository {
	return &Repository{
		store:     store,
		indexName: indexName,
		keyPrefix: keyPrefix,
	}
}

// MetadataSearch finds books by an exact or widened tag match on a metadata
// field. Returned candidates carry no score; the caller assigns one.
func (r *Repository) MetadataSearch(ctx context.Context, field, value string, exact bool, limit int) ([]domain.Candidate, error) {
	result, err := r.store.SearchTag(ctx, &db.TagQuery{
		IndexName:    r.indexName,
		Field:        field,
		Value:        value,
		Fuzzy:        !exact,
		Limit:        limit,
		ReturnFields: returnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("metadata search %s=%q: %w", field, value, err)
	}
	return r.toCandidates(result), nil
}

// SemanticSearch finds the nearest books to the query vector. Candidate
// scores are cosine similarities in [0, 1].
func (r *Repository) SemanticSearch(ctx context.Context, vector []float32, limit int) ([]domain.Candidate, error) {
	result, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.indexName,
		Vector:       vector,
		K:            limit,
		ReturnFields: returnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}
	return r.toCandidates(result), nil
}

func (r *Repository) toCandidates(result *db.SearchResult) []domain.Candidate {
	candidates := make([]domain.Candidate, 0, len(result.Entries))
	for _, e := range result.Entries {
		candidates = append(candidates, domain.Candidate{
			ID:    strings.TrimPrefix(e.Key, r.keyPrefix),
			Score: e.Score,
			Book:  domain.BookFromFields(e.Fields),
		})
	}
	return candidates
}
