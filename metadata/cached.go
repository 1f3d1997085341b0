package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ryanm101/gamemeta/cache"
	"github.com/ryanm101/gamemeta/logging"
	"github.com/ryanm101/gamemeta/metrics"
)

// CachedProvider wraps a Provider, caching Search and GetByID responses.
// Identification operations are not cached directly; they resolve through
// Search/GetByID internally on most providers, and hash lookups are cached
// separately when the wrapped provider supports them.
//
// Cache failures degrade to live calls and are never surfaced. Only
// successful non-empty responses are stored; misses always go to the
// provider, so a game published after a miss shows up without waiting out
// a negative-result TTL.
type CachedProvider struct {
	Provider
	store cache.Cache
	ttl   time.Duration
}

// NewCachedProvider wraps p with response caching. When p supports hash
// lookups the returned provider does too. A nil or Null cache returns p
// unwrapped.
func NewCachedProvider(p Provider, store cache.Cache, ttl time.Duration) Provider {
	if store == nil {
		return p
	}
	if _, isNull := store.(cache.Null); isNull {
		return p
	}

	cached := &CachedProvider{Provider: p, store: store, ttl: ttl}
	if lookuper, ok := p.(HashLookuper); ok {
		return &cachedHashProvider{CachedProvider: cached, lookuper: lookuper}
	}
	return cached
}

func (c *CachedProvider) Search(ctx context.Context, query string, platformID, limit int) ([]SearchResult, error) {
	key := fmt.Sprintf("%s:search:%s:%d:%d", c.Name(), query, platformID, limit)

	var results []SearchResult
	if c.load(ctx, key, &results) {
		return results, nil
	}

	results, err := c.Provider.Search(ctx, query, platformID, limit)
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		c.save(ctx, key, results)
	}
	return results, nil
}

func (c *CachedProvider) GetByID(ctx context.Context, gameID int) (*GameResult, error) {
	key := fmt.Sprintf("%s:game:%d", c.Name(), gameID)

	var result GameResult
	if c.load(ctx, key, &result) {
		return &result, nil
	}

	game, err := c.Provider.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game != nil {
		c.save(ctx, key, game)
	}
	return game, nil
}

// load reads and decodes a cached value, reporting whether it was usable.
func (c *CachedProvider) load(ctx context.Context, key string, out any) bool {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		logging.Debug("cache read failed", "key", key, "error", err)
	}
	if data == nil {
		metrics.CacheHits.WithLabelValues("miss").Inc()
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		logging.Debug("cache entry undecodable", "key", key, "error", err)
		metrics.CacheHits.WithLabelValues("miss").Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues("hit").Inc()
	return true
}

func (c *CachedProvider) save(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		logging.Debug("cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		logging.Debug("cache write failed", "key", key, "error", err)
	}
}

type cachedHashProvider struct {
	*CachedProvider
	lookuper HashLookuper
}

func (c *cachedHashProvider) LookupByHash(ctx context.Context, req HashLookup) (*GameResult, error) {
	key := fmt.Sprintf("%s:hash:%d:%s:%s:%s:%d", c.Name(),
		req.PlatformID, req.Hashes.MD5, req.Hashes.SHA1, req.Hashes.CRC32, req.Hashes.Size)

	var result GameResult
	if c.load(ctx, key, &result) {
		return &result, nil
	}

	game, err := c.lookuper.LookupByHash(ctx, req)
	if err != nil {
		return nil, err
	}
	if game != nil {
		c.save(ctx, key, game)
	}
	return game, nil
}
