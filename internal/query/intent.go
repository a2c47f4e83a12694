// Package query turns raw user text into a typed retrieval intent and the
// search strategy derived from it.
package query

import (
	"regexp"
	"strings"
)

// Kind identifies the inferred purpose of a free-text query.
type Kind string

const (
	// KindAuthor is a lookup for a specific author's books.
	KindAuthor Kind = "author"
	// KindGenre is a lookup within a known genre.
	KindGenre Kind = "genre"
	// KindSimilarTo asks for books like a referenced title or description.
	KindSimilarTo Kind = "similar_to"
	// KindGeneral is an open-ended topic query.
	KindGeneral Kind = "general"
)

// Intent is the classified form of one query. Derived once per request,
// immutable after creation.
type Intent struct {
	Kind          Kind
	Value         string
	OriginalQuery string
}

// extractor pulls the intent value out of a query, reporting whether the
// pattern applied at all.
type extractor func(c *Classifier, query string) (value string, ok bool)

// rule pairs a matcher with the intent kind it constructs. Rules are tried
// in declaration order and the first match wins, so author patterns shadow
// genre patterns which shadow similar-to patterns.
type rule struct {
	kind    Kind
	extract extractor
}

var rules = []rule{
	{KindAuthor, (*Classifier).extractAuthor},
	{KindGenre, (*Classifier).extractGenre},
	{KindSimilarTo, (*Classifier).extractSimilarTo},
}

// Classifier infers intents from raw query text. The zero value is not
// usable; construct with NewClassifier.
type Classifier struct {
	genres []string
}

// NewClassifier creates a classifier. An empty genres list falls back to the
// built-in vocabulary.
func NewClassifier(genres []string) *Classifier {
	if len(genres) == 0 {
		genres = defaultGenres
	}
	lowered := make([]string, len(genres))
	for i, g := range genres {
		lowered[i] = strings.ToLower(strings.TrimSpace(g))
	}
	return &Classifier{genres: lowered}
}

// Classify parses query text into a typed intent. It never fails: when no
// pattern matches the query is a General intent with the text unmodified.
// Empty input is the caller's problem; the classifier does not validate.
func (c *Classifier) Classify(query string) Intent {
	for _, r := range rules {
		if value, ok := r.extract(c, query); ok {
			return Intent{Kind: r.kind, Value: value, OriginalQuery: query}
		}
	}
	return Intent{Kind: KindGeneral, Value: query, OriginalQuery: query}
}

var authorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:books?\s+)?(?:written\s+)?\bby\s+([a-zA-Z .'\-]+?)(?:\s+books?|\s+novels?|\s*$)`),
	regexp.MustCompile(`(?i)\bworks?\s+(?:of|from)\s+([a-zA-Z .'\-]+?)(?:\s+books?|\s+novels?|\s*$)`),
	regexp.MustCompile(`(?i)([a-zA-Z .'\-]+?)'s\s+(?:books?|novels?|works?|writings?)`),
	regexp.MustCompile(`(?i)\bauthor:?\s+([a-zA-Z .'\-]+)$`),
}

func (c *Classifier) extractAuthor(query string) (string, bool) {
	for _, p := range authorPatterns {
		m := p.FindStringSubmatch(query)
		if m == nil {
			continue
		}
		name := collapseSpace(m[1])
		if len(name) > 2 {
			return name, true
		}
	}
	return "", false
}

var genrePatterns = []*regexp.Regexp{
	// "<phrase> books/novels" — phrase captured, whole-phrase vocabulary gated.
	regexp.MustCompile(`(?i)\b([a-z][a-z \-]*?)\s+(?:books?|novels?)\b`),
	// "<genre> fiction" — the value keeps the trailing "fiction".
	regexp.MustCompile(`(?i)\b([a-z\-]+(?:\s+[a-z\-]+)?\s+fiction)\b`),
}

func (c *Classifier) extractGenre(query string) (string, bool) {
	for _, p := range genrePatterns {
		m := p.FindStringSubmatch(query)
		if m == nil {
			continue
		}
		phrase := strings.ToLower(collapseSpace(m[1]))
		if c.isKnownGenre(phrase) {
			return phrase, true
		}
	}
	return "", false
}

// isKnownGenre accepts a phrase only when it overlaps the genre vocabulary as
// a substring in either direction. This keeps "good books" from being read
// as a genre lookup.
func (c *Classifier) isKnownGenre(phrase string) bool {
	if phrase == "" {
		return false
	}
	for _, g := range c.genres {
		if strings.Contains(phrase, g) || strings.Contains(g, phrase) {
			return true
		}
	}
	return false
}

var similarPattern = regexp.MustCompile(
	`(?i)(?:books?\s+like|similar\s+to|reminds?\s+me\s+of|in\s+the\s+style\s+of)\s+(.+)$`)

func (c *Classifier) extractSimilarTo(query string) (string, bool) {
	m := similarPattern.FindStringSubmatch(query)
	if m == nil {
		return "", false
	}
	value := collapseSpace(m[1])
	if value == "" {
		return "", false
	}
	return value, true
}

var spaceRun = regexp.MustCompile(`\s+`)

func collapseSpace(s string) string {
	return spaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// defaultGenres is the built-in genre vocabulary. Overridable through
// configuration; matching is substring in either direction.
var defaultGenres = []string{
	"fiction",
	"nonfiction",
	"mystery",
	"romance",
	"fantasy",
	"science fiction",
	"sci-fi",
	"biography",
	"memoir",
	"history",
	"historical",
	"thriller",
	"horror",
	"poetry",
	"young adult",
	"young-adult",
	"children",
	"crime",
	"true crime",
	"adventure",
	"self-help",
	"philosophy",
	"dystopian",
	"classic",
	"western",
	"humor",
	"comedy",
	"graphic novel",
	"cooking",
	"travel",
	"religion",
	"spirituality",
	"business",
	"psychology",
	"suspense",
	"paranormal",
	"contemporary",
	"literary",
	"drama",
	"short stories",
}
