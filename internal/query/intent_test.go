package query

import (
	"reflect"
	"testing"
)

func classify(t *testing.T, q string) Intent {
	t.Helper()
	return NewClassifier(nil).Classify(q)
}

func TestClassify_AuthorPatterns(t *testing.T) {
	cases := []struct {
		query string
		value string
	}{
		{"books by Stephen King", "Stephen King"},
		{"by J.R.R. Tolkien", "J.R.R. Tolkien"},
		{"written by Ursula K. Le Guin", "Ursula K. Le Guin"},
		{"works of Jane Austen", "Jane Austen"},
		{"Agatha Christie's novels", "Agatha Christie"},
		{"author: Octavia Butler", "Octavia Butler"},
		{"books   by   Stephen    King", "Stephen King"},
	}
	for _, tc := range cases {
		intent := classify(t, tc.query)
		if intent.Kind != KindAuthor {
			t.Errorf("%q: expected author intent, got %s", tc.query, intent.Kind)
			continue
		}
		if intent.Value != tc.value {
			t.Errorf("%q: expected value %q, got %q", tc.query, tc.value, intent.Value)
		}
		if intent.OriginalQuery != tc.query {
			t.Errorf("%q: original query not preserved", tc.query)
		}
	}
}

func TestClassify_GenrePatterns(t *testing.T) {
	cases := []struct {
		query string
		value string
	}{
		{"fantasy books with dragons", "fantasy"},
		{"mystery novels", "mystery"},
		{"science fiction books", "science fiction"},
		{"historical fiction", "historical fiction"},
	}
	for _, tc := range cases {
		intent := classify(t, tc.query)
		if intent.Kind != KindGenre {
			t.Errorf("%q: expected genre intent, got %s", tc.query, intent.Kind)
			continue
		}
		if intent.Value != tc.value {
			t.Errorf("%q: expected value %q, got %q", tc.query, tc.value, intent.Value)
		}
	}
}

func TestClassify_GenreVocabularyGate(t *testing.T) {
	// "good" is not a genre; without the vocabulary check this would be
	// misread as a genre lookup.
	intent := classify(t, "good books")
	if intent.Kind != KindGeneral {
		t.Errorf("expected general intent for %q, got %s", "good books", intent.Kind)
	}
}

func TestClassify_SimilarToPatterns(t *testing.T) {
	cases := []struct {
		query string
		value string
	}{
		{"books like The Hobbit", "The Hobbit"},
		{"similar to Dune", "Dune"},
		{"more books like Project Hail Mary", "Project Hail Mary"},
		{"in the style of Raymond Chandler", "Raymond Chandler"},
	}
	for _, tc := range cases {
		intent := classify(t, tc.query)
		if intent.Kind != KindSimilarTo {
			t.Errorf("%q: expected similar-to intent, got %s", tc.query, intent.Kind)
			continue
		}
		if intent.Value != tc.value {
			t.Errorf("%q: expected value %q, got %q", tc.query, tc.value, intent.Value)
		}
	}
}

func TestClassify_GeneralFallback(t *testing.T) {
	q := "something uplifting about friendship"
	intent := classify(t, q)
	if intent.Kind != KindGeneral {
		t.Fatalf("expected general intent, got %s", intent.Kind)
	}
	if intent.Value != q {
		t.Errorf("general value must be the unmodified query, got %q", intent.Value)
	}
}

func TestClassify_AuthorWinsOverGenre(t *testing.T) {
	// Matches both an author and a genre pattern; author is declared first.
	intent := classify(t, "fantasy books by Brandon Sanderson")
	if intent.Kind != KindAuthor {
		t.Fatalf("expected author intent, got %s", intent.Kind)
	}
	if intent.Value != "Brandon Sanderson" {
		t.Errorf("expected Brandon Sanderson, got %q", intent.Value)
	}
}

func TestClassify_GenreWinsOverSimilarTo(t *testing.T) {
	intent := classify(t, "fantasy books similar to The Name of the Wind")
	if intent.Kind != KindGenre {
		t.Fatalf("expected genre intent, got %s", intent.Kind)
	}
}

func TestClassify_CustomVocabulary(t *testing.T) {
	c := NewClassifier([]string{"solarpunk"})
	intent := c.Classify("solarpunk novels")
	if intent.Kind != KindGenre || intent.Value != "solarpunk" {
		t.Errorf("expected genre solarpunk, got %s %q", intent.Kind, intent.Value)
	}

	// The custom vocabulary replaces the default one.
	if got := c.Classify("fantasy books"); got.Kind != KindGeneral {
		t.Errorf("expected general with custom vocabulary, got %s", got.Kind)
	}
}

func TestStrategyFor_Table(t *testing.T) {
	cases := []struct {
		name   string
		intent Intent
		want   Strategy
	}{
		{
			"author",
			Intent{Kind: KindAuthor, Value: "Stephen King"},
			Strategy{UseMetadataFilter: true, MetadataField: "author", MetadataValue: "Stephen King", SemanticWeight: 0.3, HybridSearch: true},
		},
		{
			"genre",
			Intent{Kind: KindGenre, Value: "fantasy"},
			Strategy{UseMetadataFilter: true, MetadataField: "categories", MetadataValue: "fantasy", SemanticWeight: 0.7, HybridSearch: true},
		},
		{
			"similar_to",
			Intent{Kind: KindSimilarTo, Value: "Dune"},
			Strategy{SemanticWeight: 1.0},
		},
		{
			"general",
			Intent{Kind: KindGeneral, Value: "space opera"},
			Strategy{SemanticWeight: 1.0},
		},
	}
	for _, tc := range cases {
		if got := StrategyFor(tc.intent); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: got %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestTags(t *testing.T) {
	got := Tags("recommend some good books about space exploration")
	want := []string{"space", "exploration"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTags_LimitAndShortWords(t *testing.T) {
	got := Tags("alpha beta gammaray deltaforce epsilonic zetetical ethereal omega cat")
	if len(got) != 5 {
		t.Fatalf("expected 5 tags, got %d: %v", len(got), got)
	}
	for _, tag := range got {
		if len(tag) <= 3 {
			t.Errorf("tag %q too short", tag)
		}
	}
}
