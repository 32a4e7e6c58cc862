package match

import (
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ppiankov/peptidemine/internal/cache"
	"github.com/ppiankov/peptidemine/internal/model"
)

// CachedMatcher memoizes results per (reference digest, sequence).
// A result depends only on those two inputs, so cached and fresh results agree.
type CachedMatcher struct {
	inner  SequenceMatcher
	cache  cache.Cache
	digest string
	ttl    time.Duration
	logger *log.Logger
}

// NewCachedMatcher wraps inner with c. digest must identify the reference content.
func NewCachedMatcher(inner SequenceMatcher, c cache.Cache, digest string, ttl time.Duration, logger *log.Logger) *CachedMatcher {
	return &CachedMatcher{
		inner:  inner,
		cache:  c,
		digest: digest,
		ttl:    ttl,
		logger: logger,
	}
}

// Match returns a cached result when present, otherwise matches and stores.
// Cache failures fall back to matching.
func (m *CachedMatcher) Match(sequence string) model.ReferenceMatchResult {
	key := cache.MatchKey(m.digest, sequence)

	if data, ok := m.cache.Get(key); ok {
		var res model.ReferenceMatchResult
		if err := json.Unmarshal(data, &res); err == nil && res.Sequence == sequence {
			return res
		}
		m.logger.Debug("discarding unreadable cache entry", "sequence", sequence)
	}

	res := m.inner.Match(sequence)

	data, err := json.Marshal(res)
	if err != nil {
		m.logger.Debug("cache encode failed", "sequence", sequence, "err", err)
		return res
	}
	if err := m.cache.Set(key, data, m.ttl); err != nil {
		m.logger.Debug("cache write failed", "sequence", sequence, "err", err)
	}
	return res
}
