package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"
)

const (
	hasheousProductionURL = "https://hasheous.org/api/v1"
	hasheousBetaURL       = "https://beta.hasheous.org/api/v1"

	// Public client keys published by the Hasheous project.
	hasheousProductionKey = "JNoFBA-jEh4HbxuxEHM6MVzydKoAXs9eCcp2dvcg5LRCnpp312voiWmjuaIssSzS"
	hasheousDevKey        = "UUvh9ef_CddMM4xXO1iqxl9FqEt764v33LU-UiGFc0P34odXjMP9M6MTeE4JZRxZ"
)

// Hasheous ID tags embedded in filenames, like (hasheous-12345).
var hasheousTagPattern = regexp.MustCompile(`(?i)\(hasheous-(\d+)\)`)

// HasheousProvider implements Provider and HashLookuper for Hasheous, a
// service matching ROM hashes against signature databases (No-Intro,
// TOSEC, Redump and others). No user credentials are required.
type HasheousProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	enabled bool
}

// NewHasheousProvider creates a new Hasheous provider. devMode targets the
// beta instance.
func NewHasheousProvider(devMode bool, timeout time.Duration) *HasheousProvider {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	p := &HasheousProvider{
		baseURL: hasheousProductionURL,
		apiKey:  hasheousProductionKey,
		client:  &http.Client{Timeout: timeout},
		enabled: true,
	}
	if devMode {
		p.baseURL = hasheousBetaURL
		p.apiKey = hasheousDevKey
	}
	return p
}

func (p *HasheousProvider) Name() string {
	return "hasheous"
}

func (p *HasheousProvider) IsEnabled() bool {
	return p != nil && p.enabled
}

type hasheousListedGame struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	CoverURL  string   `json:"cover_url"`
	Platforms []string `json:"platforms"`
}

type hasheousGame struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Overview    string   `json:"overview"`
	CoverURL    string   `json:"cover_url"`
	Boxart      string   `json:"boxart"`
	Screenshots []string `json:"screenshots"`
	Genres      []string `json:"genres"`
	Developer   string   `json:"developer"`
	Publisher   string   `json:"publisher"`
	Players     int      `json:"players"`
	ReleaseDate string   `json:"release_date"`
	Year        int      `json:"year"`
}

// hasheousLookup is the /Lookup/ByHash response in its romm-compatible
// shape: the matched signature databases plus per-source metadata refs.
type hasheousLookup struct {
	ID         int                   `json:"id"`
	Name       string                `json:"name"`
	Signatures map[string]any        `json:"signatures"`
	Metadata   []hasheousMetadataRef `json:"metadata"`
	Attributes []map[string]any      `json:"attributes"`
}

type hasheousMetadataRef struct {
	Source      string `json:"source"`
	ImmutableID string `json:"immutableId"`
}

// SignatureMatches reports which signature databases matched a lookup,
// keyed by database name (TOSEC, NoIntros, Redump, MAMEArcade, MAMEMess,
// WHDLoad, RetroAchievements, FBNeo, PureDOS).
type SignatureMatches map[string]bool

func (p *HasheousProvider) header() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	h.Set("X-Client-API-Key", p.apiKey)
	return h
}

func (p *HasheousProvider) Search(ctx context.Context, query string, platformID, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	params := url.Values{}
	params.Set("q", query)
	if platformID != 0 {
		params.Set("platform", strconv.Itoa(platformID))
	}

	var games []hasheousListedGame
	err := p.getJSON(ctx, p.baseURL+"/search", params, &games)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if len(games) > limit {
		games = games[:limit]
	}
	results := make([]SearchResult, 0, len(games))
	for _, g := range games {
		if g.ID == 0 {
			continue
		}
		results = append(results, SearchResult{
			Name:       g.Name,
			Provider:   p.Name(),
			ProviderID: g.ID,
			CoverURL:   g.CoverURL,
			Platforms:  g.Platforms,
		})
	}
	return results, nil
}

func (p *HasheousProvider) GetByID(ctx context.Context, gameID int) (*GameResult, error) {
	var game hasheousGame
	err := p.getJSON(ctx, fmt.Sprintf("%s/games/%d", p.baseURL, gameID), nil, &game)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if game.ID == 0 {
		return nil, nil
	}
	return p.buildGameResult(game), nil
}

// LookupByHash identifies a ROM by MD5, SHA1 or CRC32. The result carries
// cross-provider IDs (IGDB, RetroAchievements) extracted from the matched
// signature metadata, so callers can fetch richer records elsewhere.
func (p *HasheousProvider) LookupByHash(ctx context.Context, req HashLookup) (*GameResult, error) {
	if req.Hashes.Empty() {
		return nil, nil
	}

	body := map[string]string{}
	if req.Hashes.MD5 != "" {
		body["mD5"] = req.Hashes.MD5
	}
	if req.Hashes.SHA1 != "" {
		body["shA1"] = req.Hashes.SHA1
	}
	if req.Hashes.CRC32 != "" {
		body["crc"] = req.Hashes.CRC32
	}

	params := url.Values{}
	params.Set("returnAllSources", "true")
	params.Set("returnFields", "Signatures, Metadata, Attributes")

	var lookup hasheousLookup
	err := p.postJSON(ctx, p.baseURL+"/Lookup/ByHash", params, body, &lookup)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if lookup.ID == 0 && lookup.Name == "" {
		return nil, nil
	}

	result := &GameResult{
		Name:        lookup.Name,
		Provider:    p.Name(),
		ProviderID:  lookup.ID,
		ProviderIDs: map[string]int{p.Name(): lookup.ID},
	}
	for _, ref := range lookup.Metadata {
		id, err := strconv.Atoi(ref.ImmutableID)
		if err != nil {
			// Some sources reference slugs instead of numeric IDs.
			continue
		}
		switch ref.Source {
		case "IGDB":
			result.ProviderIDs["igdb"] = id
		case "RetroAchievements":
			result.ProviderIDs["retroachievements"] = id
		}
	}
	return result, nil
}

// LookupSignatures reports which signature databases matched the given
// hashes.
func (p *HasheousProvider) LookupSignatures(ctx context.Context, req HashLookup) (SignatureMatches, error) {
	if req.Hashes.Empty() {
		return nil, nil
	}

	body := map[string]string{}
	if req.Hashes.MD5 != "" {
		body["mD5"] = req.Hashes.MD5
	}
	if req.Hashes.SHA1 != "" {
		body["shA1"] = req.Hashes.SHA1
	}
	if req.Hashes.CRC32 != "" {
		body["crc"] = req.Hashes.CRC32
	}

	params := url.Values{}
	params.Set("returnAllSources", "true")
	params.Set("returnFields", "Signatures")

	var lookup hasheousLookup
	err := p.postJSON(ctx, p.baseURL+"/Lookup/ByHash", params, body, &lookup)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	matches := make(SignatureMatches, len(lookup.Signatures))
	for db := range lookup.Signatures {
		matches[db] = true
	}
	return matches, nil
}

// Identify resolves a ROM filename to a game. Hash lookups are the
// provider's strength; name search exists as a fallback. Filenames
// carrying an explicit (hasheous-12345) tag skip the search entirely.
func (p *HasheousProvider) Identify(ctx context.Context, filename string, platformID int) (*GameResult, error) {
	if m := hasheousTagPattern.FindStringSubmatch(filename); m != nil {
		if id, err := strconv.Atoi(m[1]); err == nil {
			result, err := p.GetByID(ctx, id)
			if err == nil && result != nil {
				return result, nil
			}
		}
	}
	return identifyBySearch(ctx, p, filename, platformID)
}

func (p *HasheousProvider) Heartbeat(ctx context.Context) error {
	params := url.Values{}
	params.Set("q", "mario")
	var games []hasheousListedGame
	err := p.getJSON(ctx, p.baseURL+"/search", params, &games)
	if err == errNotFound {
		return nil
	}
	return err
}

func (p *HasheousProvider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

func (p *HasheousProvider) getJSON(ctx context.Context, rawURL string, params url.Values, out any) error {
	return getJSONWithHeader(ctx, p.client, rawURL, params, p.header(), out)
}

func (p *HasheousProvider) postJSON(ctx context.Context, rawURL string, params url.Values, body, out any) error {
	return postJSONWithHeader(ctx, p.client, rawURL, params, body, p.header(), out)
}

func (p *HasheousProvider) buildGameResult(g hasheousGame) *GameResult {
	name := g.Name
	if name == "" {
		name = g.Title
	}
	summary := g.Description
	if summary == "" {
		summary = g.Overview
	}
	cover := g.CoverURL
	if cover == "" {
		cover = g.Boxart
	}

	result := &GameResult{
		Name:        name,
		Summary:     summary,
		Provider:    p.Name(),
		ProviderID:  g.ID,
		ProviderIDs: map[string]int{p.Name(): g.ID},
	}
	result.Artwork.CoverURL = cover
	result.Artwork.ScreenshotURLs = g.Screenshots

	result.Metadata.Genres = g.Genres
	result.Metadata.Developer = g.Developer
	result.Metadata.Publisher = g.Publisher
	if g.Publisher != "" {
		result.Metadata.Companies = append(result.Metadata.Companies, g.Publisher)
	}
	if g.Developer != "" && g.Developer != g.Publisher {
		result.Metadata.Companies = append(result.Metadata.Companies, g.Developer)
	}

	players := g.Players
	if players == 0 {
		players = 1
	}
	result.Metadata.PlayerCount = strconv.Itoa(players)

	switch {
	case g.Year != 0:
		result.Metadata.ReleaseYear = g.Year
	case len(g.ReleaseDate) >= 4:
		if year, err := strconv.Atoi(g.ReleaseDate[:4]); err == nil {
			result.Metadata.ReleaseYear = year
		}
	}

	return result
}
