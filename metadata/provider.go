package metadata

import (
	"context"

	"github.com/ryanm101/gamemeta/hashing"
)

// Provider is the interface every metadata source implements. All network
// operations take a context and honor its cancellation.
type Provider interface {
	// Name returns the provider name (e.g., "igdb", "mobygames").
	Name() string

	// IsEnabled reports whether the provider is configured and usable.
	IsEnabled() bool

	// Search finds games matching the query. platformID filters by a
	// provider-specific platform when non-zero.
	Search(ctx context.Context, query string, platformID, limit int) ([]SearchResult, error)

	// GetByID fetches full details for a provider-specific game ID.
	// A missing game returns (nil, nil).
	GetByID(ctx context.Context, gameID int) (*GameResult, error)

	// Identify identifies a game from a ROM filename.
	// No match returns (nil, nil).
	Identify(ctx context.Context, filename string, platformID int) (*GameResult, error)

	// Heartbeat checks whether the provider API is reachable.
	Heartbeat(ctx context.Context) error

	// Close releases provider resources.
	Close() error
}

// HashLookup carries the inputs for a hash-based lookup. Providers consume
// whatever subset of fields their API accepts.
type HashLookup struct {
	PlatformID int
	Hashes     hashing.FileHashes
	Filename   string
}

// HashLookuper is the optional interface implemented by providers that
// support content-hash identification.
type HashLookuper interface {
	Provider

	// LookupByHash identifies a game by its file hashes.
	// No match returns (nil, nil).
	LookupByHash(ctx context.Context, req HashLookup) (*GameResult, error)
}
