package recommend

import (
	"sort"
	"strings"

	"github.com/shelfsage/shelfsage/internal/domain"
	"github.com/shelfsage/shelfsage/internal/query"
)

// rank orders candidates by intent-specific keys, drops (title, author)
// duplicates keeping the higher-ranked occurrence, and truncates to topK.
// Truncation happens after dedup so duplicates never shrink the result below
// the requested count while unique candidates remain.
func rank(candidates []domain.Candidate, intent query.Intent, topK int) []domain.Candidate {
	match := matcherFor(intent)

	sort.SliceStable(candidates, func(i, j int) bool {
		if match != nil {
			mi, mj := match(candidates[i].Book), match(candidates[j].Book)
			if mi != mj {
				return mi
			}
		}
		return candidates[i].Score > candidates[j].Score
	})

	seen := make(map[string]bool, len(candidates))
	out := make([]domain.Candidate, 0, min(len(candidates), topK))
	for _, c := range candidates {
		key := c.Book.DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
		if len(out) == topK {
			break
		}
	}
	return out
}

// matcherFor returns the primary ranking predicate for the intent, or nil
// when raw score is the only key.
func matcherFor(intent query.Intent) func(domain.Book) bool {
	target := strings.ToLower(intent.Value)

	switch intent.Kind {
	case query.KindAuthor:
		return func(b domain.Book) bool {
			return strings.Contains(strings.ToLower(b.Author), target)
		}
	case query.KindGenre:
		return func(b domain.Book) bool {
			for _, cat := range b.Categories {
				if strings.Contains(strings.ToLower(cat), target) {
					return true
				}
			}
			return false
		}
	default:
		return nil
	}
}
