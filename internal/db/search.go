package db

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Vector       []float32
	K            int
	ReturnFields []string
}

// TagQuery is the input for a metadata-only tag search. Fuzzy switches from
// exact tag equality to case-insensitive infix matching.
type TagQuery struct {
	IndexName    string
	Field        string
	Value        string
	Fuzzy        bool
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search. Tag-only queries carry
// no similarity score; Score stays zero and callers assign an anchor.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
