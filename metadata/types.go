// Package metadata identifies games and aggregates their metadata across
// multiple third-party provider APIs.
package metadata

// Match types describe which identification strategy produced a GameResult,
// ordered from most to least confident.
const (
	MatchHashFilename   = "hash+filename"
	MatchHash           = "hash"
	MatchFilename       = "filename"
	MatchFilenameUnique = "filename_unique"
	MatchFilenameBest   = "filename_best"
)

// SearchResult is a lightweight search hit, used for display and for
// identification decisions before fetching full details. It is never
// mutated after construction.
type SearchResult struct {
	Name        string   `json:"name"`
	Provider    string   `json:"provider"`
	ProviderID  int      `json:"provider_id"`
	Slug        string   `json:"slug,omitempty"`
	CoverURL    string   `json:"cover_url,omitempty"`
	Platforms   []string `json:"platforms,omitempty"`
	ReleaseYear int      `json:"release_year,omitempty"`
	MatchScore  float64  `json:"match_score,omitempty"`
}

// Artwork contains game artwork URLs.
type Artwork struct {
	CoverURL       string   `json:"cover_url,omitempty"`
	ScreenshotURLs []string `json:"screenshot_urls,omitempty"`
	BannerURL      string   `json:"banner_url,omitempty"`
	IconURL        string   `json:"icon_url,omitempty"`
	LogoURL        string   `json:"logo_url,omitempty"`
	BackgroundURL  string   `json:"background_url,omitempty"`
}

// AgeRating is a single age rating from a rating system like ESRB or PEGI.
type AgeRating struct {
	Rating   string `json:"rating"`
	Category string `json:"category"`
	CoverURL string `json:"cover_url,omitempty"`
}

// RelatedGame references a related game (DLC, expansion, remake, port...).
type RelatedGame struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug,omitempty"`
	RelationType string `json:"relation_type,omitempty"`
	CoverURL     string `json:"cover_url,omitempty"`
	Provider     string `json:"provider,omitempty"`
}

// GameMetadata contains the extended metadata a provider attaches to a
// GameResult before returning it.
type GameMetadata struct {
	TotalRating      float64       `json:"total_rating,omitempty"`
	AggregatedRating float64       `json:"aggregated_rating,omitempty"`
	FirstReleaseDate int64         `json:"first_release_date,omitempty"`
	ReleaseYear      int           `json:"release_year,omitempty"`
	Genres           []string      `json:"genres,omitempty"`
	Franchises       []string      `json:"franchises,omitempty"`
	AlternativeNames []string      `json:"alternative_names,omitempty"`
	Companies        []string      `json:"companies,omitempty"`
	Developer        string        `json:"developer,omitempty"`
	Publisher        string        `json:"publisher,omitempty"`
	GameModes        []string      `json:"game_modes,omitempty"`
	AgeRatings       []AgeRating   `json:"age_ratings,omitempty"`
	PlayerCount      string        `json:"player_count,omitempty"`
	Expansions       []RelatedGame `json:"expansions,omitempty"`
	DLCs             []RelatedGame `json:"dlcs,omitempty"`
	Remakes          []RelatedGame `json:"remakes,omitempty"`
	Ports            []RelatedGame `json:"ports,omitempty"`
	SimilarGames     []RelatedGame `json:"similar_games,omitempty"`
}

// GameResult is a canonical identified game. The orchestrator constructs it
// once per successful identification and treats it as immutable apart from
// tagging MatchType; providers attach richer metadata before returning it.
//
// A GameResult returned by the Client's identification operations always
// carries a non-empty MatchType, and MatchScore is always in [0, 1].
type GameResult struct {
	Name        string         `json:"name"`
	Summary     string         `json:"summary,omitempty"`
	Provider    string         `json:"provider,omitempty"`
	ProviderID  int            `json:"provider_id,omitempty"`
	ProviderIDs map[string]int `json:"provider_ids,omitempty"`
	Slug        string         `json:"slug,omitempty"`
	Artwork     Artwork        `json:"artwork"`
	Metadata    GameMetadata   `json:"metadata"`
	MatchScore  float64        `json:"match_score,omitempty"`
	MatchType   string         `json:"match_type,omitempty"`
}

// CoverURL returns the cover URL for convenience.
func (g *GameResult) CoverURL() string {
	return g.Artwork.CoverURL
}
