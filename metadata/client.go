package metadata

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ryanm101/gamemeta/hashing"
	"github.com/ryanm101/gamemeta/logging"
	"github.com/ryanm101/gamemeta/match"
	"github.com/ryanm101/gamemeta/metrics"
	"github.com/ryanm101/gamemeta/platforms"
	"github.com/ryanm101/gamemeta/tracing"
)

const (
	// hashNameMinSimilarity is the filename similarity above which a hash
	// match is upgraded to the hash+filename confidence tier.
	hashNameMinSimilarity = 0.6
	// bestMatchMinSimilarity is the minimum similarity the top search
	// result needs before an ambiguous result set can be accepted.
	bestMatchMinSimilarity = 0.8
	// bestMatchMinGap is the minimum similarity separation between the top
	// two search results before the top one is accepted.
	bestMatchMinGap = 0.2
	// smartSearchLimit bounds the per-provider result count during smart
	// filename identification.
	smartSearchLimit = 5
)

// hashCapableProviders are tried by IdentifyByHash, in priority order.
var hashCapableProviders = []string{"screenscraper", "retroachievements", "playmatch", "hasheous"}

var (
	trailingExtension = regexp.MustCompile(`\.[^.]+$`)
	bracketedTag      = regexp.MustCompile(`\s*[(\[][^)\]]*[)\]]`)
)

// Client coordinates identification across an ordered set of providers.
//
// All identification operations are total with respect to provider errors:
// a failing provider is logged and skipped, never surfaced to the caller.
// "No match" and "every provider failed" are both reported as a nil result;
// auditing the difference requires reading the logs.
type Client struct {
	providers map[string]Provider
	order     []string
}

// NewClient creates a Client trying providers in the given order (first
// provider wins on equal outcomes). Nil providers are ignored.
func NewClient(providers ...Provider) *Client {
	c := &Client{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		if p == nil {
			continue
		}
		if _, exists := c.providers[p.Name()]; exists {
			continue
		}
		c.providers[p.Name()] = p
		c.order = append(c.order, p.Name())
	}
	return c
}

// Providers returns the names of registered providers in priority order.
func (c *Client) Providers() []string {
	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

// IdentifyOptions adjusts identification behavior. The zero value requests
// the default behavior: all registered providers, unique-match gating.
type IdentifyOptions struct {
	// Providers restricts the attempt to a subset of provider names.
	Providers []string
	// FirstMatch makes IdentifySmart fall back to the greedy first-match
	// strategy instead of requiring an unambiguous search result.
	FirstMatch bool
}

// candidates resolves the provider names to try, preserving priority order
// and silently skipping names that are not registered or not enabled.
func (c *Client) candidates(requested []string) []string {
	names := requested
	if names == nil {
		names = c.order
	}

	var out []string
	for _, name := range names {
		p, ok := c.providers[name]
		if !ok {
			logging.Debug("provider not available", "provider", name)
			continue
		}
		if !p.IsEnabled() {
			logging.Debug("provider not enabled", "provider", name)
			continue
		}
		out = append(out, name)
	}
	return out
}

// Search queries providers for games matching the query, aggregating
// results in provider priority order. Provider failures are logged and
// skipped; the returned slice may be empty but the call never fails.
func (c *Client) Search(ctx context.Context, query, platform string, providerNames []string, limit int) []SearchResult {
	ctx, span := tracing.StartSpan(ctx, "metadata.Search",
		trace.WithAttributes(attribute.String("query", query), attribute.String("platform", platform)))
	defer span.End()

	var all []SearchResult
	for _, name := range c.candidates(providerNames) {
		provider := c.providers[name]
		platformID, _ := platforms.ID(name, platform)

		start := time.Now()
		results, err := provider.Search(ctx, query, platformID, limit)
		if err != nil {
			metrics.RecordProviderRequest(name, "search", "error", start)
			logging.Debug("search failed", "provider", name, "error", err)
			continue
		}
		metrics.RecordProviderRequest(name, "search", "ok", start)
		logging.Debug("search results", "provider", name, "count", len(results))
		all = append(all, results...)
	}
	return all
}

// Identify identifies a game from a ROM filename using the greedy strategy:
// the first provider (in priority order) returning a match wins. Providers
// with no platform-ID mapping for the given platform are skipped. Returns
// nil when no provider yields a match.
func (c *Client) Identify(ctx context.Context, filename, platform string, providerNames []string) *GameResult {
	ctx, span := tracing.StartSpan(ctx, "metadata.Identify",
		trace.WithAttributes(attribute.String("filename", filename), attribute.String("platform", platform)))
	defer span.End()

	for _, name := range c.candidates(providerNames) {
		platformID, ok := platforms.ID(name, platform)
		if !ok {
			logging.Debug("no platform mapping", "provider", name, "platform", platform)
			continue
		}

		start := time.Now()
		result, err := c.providers[name].Identify(ctx, filename, platformID)
		if err != nil {
			metrics.RecordProviderRequest(name, "identify", "error", start)
			logging.Debug("identify failed", "provider", name, "error", err)
			continue
		}
		if result == nil {
			metrics.RecordProviderRequest(name, "identify", "miss", start)
			logging.Debug("no match", "provider", name)
			continue
		}
		metrics.RecordProviderRequest(name, "identify", "ok", start)
		logging.Debug("identified", "provider", name, "name", result.Name, "id", result.ProviderID)
		return result
	}

	logging.Debug("no identification match", "filename", filename)
	return nil
}

// HashRequest carries the inputs for IdentifyByHash.
type HashRequest struct {
	Platform  string
	Hashes    hashing.FileHashes
	Filename  string
	Providers []string
}

// IdentifyByHash identifies a game by content hash, trying the hash-capable
// providers in order. Each provider receives the hash subset its API
// accepts and is skipped when a required input is absent. Providers without
// a platform-ID mapping for the given platform are skipped, unless they
// identify by content alone. Returns nil when every eligible provider
// misses or fails.
func (c *Client) IdentifyByHash(ctx context.Context, req HashRequest) *GameResult {
	ctx, span := tracing.StartSpan(ctx, "metadata.IdentifyByHash",
		trace.WithAttributes(attribute.String("platform", req.Platform)))
	defer span.End()

	names := c.hashCandidates(req.Providers)
	if len(names) == 0 {
		logging.Debug("no hash-capable providers available")
		return nil
	}

	for _, name := range names {
		lookuper, ok := c.providers[name].(HashLookuper)
		if !ok {
			continue
		}

		// Providers without a platform table (Hasheous, Playmatch) identify
		// by content alone and take no platform filter.
		platformID, mapped := platforms.ID(name, req.Platform)
		if !mapped && platforms.Slugs(name) != nil {
			logging.Debug("no platform mapping", "provider", name, "platform", req.Platform)
			continue
		}

		if !hashInputsPresent(name, req) {
			logging.Debug("required hash inputs absent", "provider", name)
			continue
		}

		start := time.Now()
		result, err := lookuper.LookupByHash(ctx, HashLookup{
			PlatformID: platformID,
			Hashes:     req.Hashes,
			Filename:   req.Filename,
		})
		if err != nil {
			metrics.RecordProviderRequest(name, "hash_lookup", "error", start)
			logging.Debug("hash lookup failed", "provider", name, "error", err)
			continue
		}

		// Playmatch resolves to an IGDB cross-reference; the full record
		// comes from a secondary IGDB fetch.
		if result != nil && name == "playmatch" {
			result = c.resolveCrossReference(ctx, result)
		}

		if result == nil {
			metrics.RecordProviderRequest(name, "hash_lookup", "miss", start)
			logging.Debug("no hash match", "provider", name)
			continue
		}
		metrics.RecordProviderRequest(name, "hash_lookup", "ok", start)
		logging.Debug("hash match", "provider", name, "name", result.Name, "id", result.ProviderID)
		return result
	}

	logging.Debug("no hash match found")
	return nil
}

// hashCandidates restricts the candidate providers to the hash-capable set.
// A nil request means the full set in the fixed hash-priority order; a
// non-nil request keeps the caller's order and may resolve to no providers
// at all, including when it is empty.
func (c *Client) hashCandidates(requested []string) []string {
	allowed := hashCapableProviders
	if requested != nil {
		allowed = make([]string, 0, len(requested))
		for _, name := range requested {
			for _, capable := range hashCapableProviders {
				if name == capable {
					allowed = append(allowed, name)
					break
				}
			}
		}
		if len(allowed) == 0 {
			return nil
		}
	}
	return c.candidates(allowed)
}

// hashInputsPresent reports whether the inputs a provider's hash API
// requires were supplied.
func hashInputsPresent(provider string, req HashRequest) bool {
	switch provider {
	case "retroachievements":
		return req.Hashes.MD5 != ""
	case "playmatch":
		return req.Filename != "" && req.Hashes.Size > 0
	default:
		return !req.Hashes.Empty()
	}
}

// resolveCrossReference exchanges a cross-referencing result (one carrying
// only a foreign provider ID) for the full record from that provider.
// Returns nil when the referenced provider is unavailable or misses.
func (c *Client) resolveCrossReference(ctx context.Context, ref *GameResult) *GameResult {
	igdbID, ok := ref.ProviderIDs["igdb"]
	if !ok || igdbID == 0 {
		return nil
	}

	igdbProvider, ok := c.providers["igdb"]
	if !ok || !igdbProvider.IsEnabled() {
		logging.Debug("cross-reference unresolvable, igdb provider unavailable", "igdb_id", igdbID)
		return nil
	}

	full, err := igdbProvider.GetByID(ctx, igdbID)
	if err != nil {
		logging.Debug("cross-reference fetch failed", "igdb_id", igdbID, "error", err)
		return nil
	}
	return full
}

// IdentifySmart identifies a game using confidence-tiered heuristics, from
// most to least confident:
//
//  1. hash+filename: a hash match whose name also resembles the filename
//  2. hash: any hash match. A hash match is trusted unconditionally: even
//     when the filename similarity is below the threshold the result is
//     returned (tagged "hash"), because content-hash identity is considered
//     authoritative for renamed or mislabeled files.
//  3. filename: fuzzy filename matching, either requiring an unambiguous
//     result (default) or greedily taking the first match (opts.FirstMatch).
//
// The returned GameResult always carries a non-empty MatchType. Returns nil
// when no strategy produces a qualifying match.
func (c *Client) IdentifySmart(ctx context.Context, filename, platform string, hashes hashing.FileHashes, opts IdentifyOptions) *GameResult {
	ctx, span := tracing.StartSpan(ctx, "metadata.IdentifySmart",
		trace.WithAttributes(attribute.String("filename", filename), attribute.String("platform", platform)))
	defer span.End()

	cleanName := cleanNameForMatch(filename)

	if !hashes.Empty() {
		hashResult := c.IdentifyByHash(ctx, HashRequest{
			Platform:  platform,
			Hashes:    hashes,
			Filename:  filename,
			Providers: opts.Providers,
		})

		if hashResult != nil {
			resultCleanName := cleanNameForMatch(hashResult.Name)
			similarity := match.Similarity(cleanName, resultCleanName)

			if similarity >= hashNameMinSimilarity {
				logging.Debug("hash+filename match", "name", resultCleanName, "similarity", similarity)
				hashResult.MatchType = MatchHashFilename
			} else {
				logging.Debug("hash match only, filename mismatch",
					"clean_name", cleanName, "result_name", resultCleanName, "similarity", similarity)
				hashResult.MatchType = MatchHash
			}
			metrics.RecordIdentification(hashResult.MatchType)
			return hashResult
		}
	}

	logging.Debug("falling back to filename identification", "filename", filename)

	if opts.FirstMatch {
		result := c.Identify(ctx, filename, platform, opts.Providers)
		if result != nil {
			result.MatchType = MatchFilename
		}
		metrics.RecordIdentification(matchTypeOf(result))
		return result
	}

	results := c.Search(ctx, cleanName, platform, opts.Providers, smartSearchLimit)
	if len(results) == 0 {
		logging.Debug("no search results for filename", "clean_name", cleanName)
		metrics.RecordIdentification("")
		return nil
	}

	if len(results) == 1 {
		logging.Debug("unique filename match",
			"name", results[0].Name, "provider", results[0].Provider, "id", results[0].ProviderID)
		game := c.fetchDetails(ctx, results[0])
		if game != nil {
			game.MatchType = MatchFilenameUnique
		}
		metrics.RecordIdentification(matchTypeOf(game))
		return game
	}

	// Multiple results: accept the top one only when it is individually
	// confident and clearly separated from the runner-up.
	firstSim := match.Similarity(cleanName, results[0].Name)
	secondSim := match.Similarity(cleanName, results[1].Name)

	if firstSim >= bestMatchMinSimilarity && firstSim-secondSim >= bestMatchMinGap {
		logging.Debug("best filename match",
			"name", results[0].Name, "similarity", firstSim, "gap", firstSim-secondSim)
		game := c.fetchDetails(ctx, results[0])
		if game != nil {
			game.MatchType = MatchFilenameBest
		}
		metrics.RecordIdentification(matchTypeOf(game))
		return game
	}

	logging.Debug("ambiguous results rejected", "count", len(results),
		"first_similarity", firstSim, "second_similarity", secondSim)
	metrics.RecordIdentification("")
	return nil
}

// fetchDetails exchanges a search hit for the full game record, swallowing
// provider errors per the orchestrator failure policy.
func (c *Client) fetchDetails(ctx context.Context, hit SearchResult) *GameResult {
	game, err := c.GetByID(ctx, hit.Provider, hit.ProviderID)
	if err != nil {
		logging.Debug("detail fetch failed", "provider", hit.Provider, "id", hit.ProviderID, "error", err)
		return nil
	}
	return game
}

// GetByID fetches full game details from a named provider. Unlike the
// identification operations this surfaces errors, since the caller
// explicitly named the provider.
func (c *Client) GetByID(ctx context.Context, provider string, gameID int) (*GameResult, error) {
	p, ok := c.providers[provider]
	if !ok {
		return nil, fmt.Errorf("provider %q not registered", provider)
	}

	ctx, span := tracing.StartSpan(ctx, "metadata.GetByID",
		trace.WithAttributes(attribute.String("provider", provider), attribute.Int("game_id", gameID)))
	defer span.End()

	start := time.Now()
	result, err := p.GetByID(ctx, gameID)
	if err != nil {
		metrics.RecordProviderRequest(provider, "get_by_id", "error", start)
		return nil, err
	}
	if result == nil {
		metrics.RecordProviderRequest(provider, "get_by_id", "miss", start)
		return nil, nil
	}
	metrics.RecordProviderRequest(provider, "get_by_id", "ok", start)
	return result, nil
}

// Heartbeat checks connectivity to every registered provider.
func (c *Client) Heartbeat(ctx context.Context) map[string]bool {
	status := make(map[string]bool, len(c.order))
	for _, name := range c.order {
		status[name] = c.providers[name].Heartbeat(ctx) == nil
	}
	return status
}

// Close closes all providers, keeping the first error.
func (c *Client) Close() error {
	var firstErr error
	for _, name := range c.order {
		if err := c.providers[name].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func matchTypeOf(g *GameResult) string {
	if g == nil {
		return ""
	}
	return g.MatchType
}

// cleanNameForMatch prepares a filename for similarity comparison: the
// extension and every bracketed tag are removed, whitespace is collapsed,
// and the result is lowercased.
func cleanNameForMatch(filename string) string {
	name := trailingExtension.ReplaceAllString(filename, "")
	name = bracketedTag.ReplaceAllString(name, "")
	name = strings.Join(strings.Fields(name), " ")
	return strings.ToLower(strings.TrimSpace(name))
}
