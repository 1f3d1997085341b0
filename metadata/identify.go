package metadata

import (
	"context"

	"github.com/ryanm101/gamemeta/match"
)

// identifyBySearch implements the shared search-then-match identification
// strategy used by providers without a dedicated identify endpoint: clean
// the filename, search the provider, pick the best fuzzy name match above
// the default threshold, and fetch the full record.
func identifyBySearch(ctx context.Context, p Provider, filename string, platformID int) (*GameResult, error) {
	term := cleanNameForMatch(filename)

	results, err := p.Search(ctx, term, platformID, 10)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}

	byName := make(map[string]SearchResult, len(results))
	names := make([]string, 0, len(results))
	for _, r := range results {
		if _, seen := byName[r.Name]; seen {
			continue
		}
		byName[r.Name] = r
		names = append(names, r.Name)
	}

	best, score := match.FindBestMatchSimple(term, names)
	if best == "" {
		return nil, nil
	}

	full, err := p.GetByID(ctx, byName[best].ProviderID)
	if err != nil {
		return nil, err
	}
	if full != nil {
		full.MatchScore = score
	}
	return full, nil
}
