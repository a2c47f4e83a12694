package recommend

import (
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/shelfsage/shelfsage/internal/domain"
)

// cachedResponse is a fully computed recommendation payload.
type cachedResponse struct {
	Books        []domain.Book
	SemanticTags []string
}

// responseCache is a TTL-bounded LRU of served responses. Entries are pure
// functions of the key, so concurrent writers racing on the same key are
// harmless (last writer wins).
type responseCache struct {
	lru *expirable.LRU[string, cachedResponse]
}

func newResponseCache(maxEntries int, ttl time.Duration) *responseCache {
	return &responseCache{
		lru: expirable.NewLRU[string, cachedResponse](maxEntries, nil, ttl),
	}
}

func (c *responseCache) get(key string) (cachedResponse, bool) {
	return c.lru.Get(key)
}

func (c *responseCache) put(key string, resp cachedResponse) {
	c.lru.Add(key, resp)
}

// cacheKey normalizes the query so trivially different spellings of the same
// request share an entry.
func cacheKey(q string, topK int) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(q)), " ")
	return normalized + "|" + strconv.Itoa(topK)
}
