package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shelfsage/shelfsage/internal/db"
)

// mockSearcher implements db.Searcher for tests.
type mockSearcher struct {
	knnFn func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	tagFn func(ctx context.Context, q *db.TagQuery) (*db.SearchResult, error)
}

func (m *mockSearcher) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	return m.knnFn(ctx, q)
}

func (m *mockSearcher) SearchTag(ctx context.Context, q *db.TagQuery) (*db.SearchResult, error) {
	return m.tagFn(ctx, q)
}

func TestMetadataSearch_Exact(t *testing.T) {
	var gotQuery *db.TagQuery
	ms := &mockSearcher{
		tagFn: func(_ context.Context, q *db.TagQuery) (*db.SearchResult, error) {
			gotQuery = q
			return &db.SearchResult{
				Total: 1,
				Entries: []db.SearchEntry{
					{
						Key: "book:42",
						Fields: map[string]string{
							"title":      "The Shining",
							"author":     "Stephen King",
							"rating":     "4.2",
							"categories": "horror, thriller",
						},
					},
				},
			}, nil
		},
	}

	repo := New(ms, "books:idx", "book:")
	candidates, err := repo.MetadataSearch(context.Background(), "author", "Stephen King", true, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery.Fuzzy {
		t.Error("exact search must not be fuzzy")
	}
	if gotQuery.IndexName != "books:idx" || gotQuery.Field != "author" || gotQuery.Limit != 10 {
		t.Errorf("unexpected query: %+v", gotQuery)
	}

	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	c := candidates[0]
	if c.ID != "42" {
		t.Errorf("expected key prefix stripped, got ID %q", c.ID)
	}
	if c.Score != 0 {
		t.Errorf("metadata candidates carry no score, got %f", c.Score)
	}
	if c.Book.Title != "The Shining" || c.Book.Rating != 4.2 {
		t.Errorf("unexpected book: %+v", c.Book)
	}
	if len(c.Book.Categories) != 2 {
		t.Errorf("unexpected categories: %v", c.Book.Categories)
	}
}

func TestMetadataSearch_Fuzzy(t *testing.T) {
	var gotQuery *db.TagQuery
	ms := &mockSearcher{
		tagFn: func(_ context.Context, q *db.TagQuery) (*db.SearchResult, error) {
			gotQuery = q
			return &db.SearchResult{}, nil
		},
	}

	repo := New(ms, "books:idx", "book:")
	if _, err := repo.MetadataSearch(context.Background(), "author", "King", false, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gotQuery.Fuzzy {
		t.Error("widened search must set fuzzy")
	}
}

func TestMetadataSearch_Error(t *testing.T) {
	ms := &mockSearcher{
		tagFn: func(_ context.Context, _ *db.TagQuery) (*db.SearchResult, error) {
			return nil, errors.New("index unavailable")
		},
	}

	repo := New(ms, "books:idx", "book:")
	_, err := repo.MetadataSearch(context.Background(), "author", "King", true, 10)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestSemanticSearch(t *testing.T) {
	var gotQuery *db.KNNQuery
	ms := &mockSearcher{
		knnFn: func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
			gotQuery = q
			return &db.SearchResult{
				Total: 2,
				Entries: []db.SearchEntry{
					{Key: "book:1", Score: 0.93, Fields: map[string]string{"title": "Dune"}},
					{Key: "book:2", Score: 0.81, Fields: map[string]string{"title": "Hyperion"}},
				},
			}, nil
		},
	}

	repo := New(ms, "books:idx", "book:")
	candidates, err := repo.SemanticSearch(context.Background(), []float32{0.1, 0.2}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery.K != 10 || len(gotQuery.Vector) != 2 {
		t.Errorf("unexpected query: %+v", gotQuery)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].ID != "1" || candidates[0].Score != 0.93 {
		t.Errorf("unexpected candidate: %+v", candidates[0])
	}
	if candidates[1].Book.Title != "Hyperion" {
		t.Errorf("unexpected book: %+v", candidates[1].Book)
	}
}

func TestSemanticSearch_Error(t *testing.T) {
	ms := &mockSearcher{
		knnFn: func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
			return nil, errors.New("index unavailable")
		},
	}

	repo := New(ms, "books:idx", "book:")
	_, err := repo.SemanticSearch(context.Background(), []float32{0.1}, 10)
	if err == nil {
		t.Fatal("expected error")
	}
}
