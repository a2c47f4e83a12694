package query

import "strings"

const maxTags = 5

// Tags extracts up to five display keywords from a query: lowercased words
// longer than three characters that are not stop words. Used for the
// semantic_tags response field.
func Tags(query string) []string {
	tags := make([]string, 0, maxTags)
	words := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '-' && r != '\''
	})
	for _, w := range words {
		if len(w) <= 3 || stopWords[w] {
			continue
		}
		tags = append(tags, w)
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}

// stopWords are filtered out of tag extraction: articles, prepositions,
// generic search vocabulary, question words and pronouns.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "about": true, "as": true,
	"into": true, "through": true, "during": true,

	"books": true, "book": true, "novel": true, "novels": true,
	"story": true, "stories": true, "read": true, "reading": true,
	"recommend": true, "suggestion": true, "find": true, "looking": true,
	"want": true, "need": true, "please": true, "give": true, "show": true,
	"tell": true, "help": true, "any": true, "some": true,
	"good": true, "best": true, "great": true,

	"what": true, "where": true, "when": true, "who": true, "which": true,
	"how": true, "why": true,

	"i": true, "me": true, "my": true, "you": true, "your": true,
	"it": true, "its": true, "that": true, "this": true,
	"these": true, "those": true,
}
