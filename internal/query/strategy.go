package query

import "github.com/shelfsage/shelfsage/internal/domain"

// Strategy is the retrieval plan derived from an intent. It is a pure
// function of the intent kind: stateless, recomputed per call, never mutated.
type Strategy struct {
	UseMetadataFilter bool
	MetadataField     string
	MetadataValue     string
	SemanticWeight    float64
	HybridSearch      bool
}

// StrategyFor maps an intent to its retrieval plan.
//
// Author and genre queries get an exact-or-fuzzy metadata anchor with
// semantic search only supplementing the result count; similarity and
// free-text queries have no reliable metadata anchor and rely entirely on
// the embedding (implicit weight 1.0, no adjustment).
func StrategyFor(intent Intent) Strategy {
	switch intent.Kind {
	case KindAuthor:
		return Strategy{
			UseMetadataFilter: true,
			MetadataField:     domain.FieldAuthor,
			MetadataValue:     intent.Value,
			SemanticWeight:    0.3,
			HybridSearch:      true,
		}
	case KindGenre:
		return Strategy{
			UseMetadataFilter: true,
			MetadataField:     domain.FieldCategories,
			MetadataValue:     intent.Value,
			SemanticWeight:    0.7,
			HybridSearch:      true,
		}
	default:
		return Strategy{SemanticWeight: 1.0}
	}
}
