package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ryanm101/gamemeta/logging"
	"github.com/ryanm101/gamemeta/match"
	"github.com/ryanm101/gamemeta/normalize"
)

const mobygamesBaseURL = "https://api.mobygames.com/v1"

// MobyGames platform IDs with dedicated filename formats.
const (
	mobyPlatformPS1    = 6
	mobyPlatformPS2    = 7
	mobyPlatformPSP    = 46
	mobyPlatformArcade = 143
	mobyPlatformSwitch = 203
)

var (
	// Sony serial codes like SLUS-12345 or SCUS_97328.
	sonySerialPattern = regexp.MustCompile(`(?i)([A-Z]{4})[_-](\d{5})`)

	// PS2 OPL naming, SLUS_123.45.
	ps2OPLPattern = regexp.MustCompile(`(?i)([A-Z]{4})_(\d{3})\.(\d{2})`)

	// Switch 16-char hex title IDs and LA-H-AAAAA product IDs.
	switchTitleIDPattern   = regexp.MustCompile(`([0-9A-Fa-f]{16})`)
	switchProductIDPattern = regexp.MustCompile(`(?i)[A-Z]{2}-[A-Z]-([A-Z0-9]{5})`)

	// MAME ROM names are short lowercase alphanumeric identifiers.
	mameNamePattern = regexp.MustCompile(`(?i)^[a-z0-9_]+$`)
)

// MobyGamesProvider implements the Provider interface for MobyGames.
// It requires an api_key credential.
type MobyGamesProvider struct {
	apiKey    string
	userAgent string
	client    *http.Client
	enabled   bool
}

// NewMobyGamesProvider creates a new MobyGames provider.
func NewMobyGamesProvider(apiKey, userAgent string, timeout time.Duration) (*MobyGamesProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("MobyGames API key is required")
	}
	if userAgent == "" {
		userAgent = "gamemeta/1.0"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &MobyGamesProvider{
		apiKey:    apiKey,
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
		enabled:   true,
	}, nil
}

func (p *MobyGamesProvider) Name() string {
	return "mobygames"
}

func (p *MobyGamesProvider) IsEnabled() bool {
	return p != nil && p.enabled
}

type mobyGame struct {
	GameID      int    `json:"game_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	MobyScore   any    `json:"moby_score"`
	SampleCover *struct {
		Image string `json:"image"`
	} `json:"sample_cover"`
	SampleScreenshots []struct {
		Image string `json:"image"`
	} `json:"sample_screenshots"`
	Platforms []struct {
		PlatformID       int    `json:"platform_id"`
		PlatformName     string `json:"platform_name"`
		FirstReleaseDate string `json:"first_release_date"`
	} `json:"platforms"`
	Genres []struct {
		GenreName string `json:"genre_name"`
	} `json:"genres"`
	AlternateTitles []struct {
		Title string `json:"title"`
	} `json:"alternate_titles"`
}

type mobyGamesResponse struct {
	Games []mobyGame `json:"games"`
}

func (p *MobyGamesProvider) Search(ctx context.Context, query string, platformID, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{}
	params.Set("title", query)
	params.Set("limit", strconv.Itoa(limit))
	if platformID != 0 {
		params.Set("platform", strconv.Itoa(platformID))
	}

	games, err := p.listGames(ctx, params)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(games))
	for _, g := range games {
		sr := SearchResult{
			Name:       g.Title,
			Provider:   p.Name(),
			ProviderID: g.GameID,
		}
		if g.SampleCover != nil {
			sr.CoverURL = g.SampleCover.Image
		}
		for _, plat := range g.Platforms {
			sr.Platforms = append(sr.Platforms, plat.PlatformName)
		}
		if len(g.Platforms) > 0 && len(g.Platforms[0].FirstReleaseDate) >= 4 {
			if year, err := strconv.Atoi(g.Platforms[0].FirstReleaseDate[:4]); err == nil {
				sr.ReleaseYear = year
			}
		}
		results = append(results, sr)
	}
	return results, nil
}

func (p *MobyGamesProvider) GetByID(ctx context.Context, gameID int) (*GameResult, error) {
	var game mobyGame
	params := url.Values{}
	params.Set("api_key", p.apiKey)

	err := getJSON(ctx, p.client, fmt.Sprintf("%s/games/%d", mobygamesBaseURL, gameID), params, &game)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if game.GameID == 0 {
		return nil, nil
	}
	return p.buildGameResult(game), nil
}

// Identify resolves a ROM filename to a game. Beyond the standard cleaned
// name search it recognizes Sony serial codes (SLUS-12345, OPL SLUS_123.45),
// Nintendo Switch title and product IDs, and bare MAME ROM names, and uses
// those as search terms on the matching platforms.
func (p *MobyGamesProvider) Identify(ctx context.Context, filename string, platformID int) (*GameResult, error) {
	if platformID == 0 {
		return nil, nil
	}

	term := ""

	switch platformID {
	case mobyPlatformPS1, mobyPlatformPS2, mobyPlatformPSP:
		term = extractSonySerial(filename)
		if term != "" {
			logging.Debug("mobygames identify via serial code", "serial", term)
		}
	case mobyPlatformSwitch:
		term = extractSwitchID(filename)
		if term != "" {
			logging.Debug("mobygames identify via switch id", "id", term)
		}
	case mobyPlatformArcade:
		name := trailingExtension.ReplaceAllString(filename, "")
		if len(name) <= 20 && mameNamePattern.MatchString(name) {
			term = name
			logging.Debug("mobygames identify via mame name", "name", term)
		}
	}

	if term == "" {
		term = cleanNameForMatch(filename)
	}

	params := url.Values{}
	params.Set("title", term)
	params.Set("platform", strconv.Itoa(platformID))

	games, err := p.listGames(ctx, params)
	if err != nil {
		return nil, err
	}

	if len(games) == 0 {
		// Retry with the last segment of titles like "Legend of Zelda: ...".
		parts := normalize.SplitSearchTerm(term)
		if len(parts) > 1 {
			params.Set("title", parts[len(parts)-1])
			games, err = p.listGames(ctx, params)
			if err != nil {
				return nil, err
			}
		}
	}
	if len(games) == 0 {
		return nil, nil
	}

	byName := make(map[string]mobyGame, len(games))
	names := make([]string, 0, len(games))
	for _, g := range games {
		if _, seen := byName[g.Title]; seen {
			continue
		}
		byName[g.Title] = g
		names = append(names, g.Title)
	}

	best, score := match.FindBestMatchSimple(term, names)
	if best == "" {
		return nil, nil
	}

	result := p.buildGameResult(byName[best])
	result.MatchScore = score
	return result, nil
}

func (p *MobyGamesProvider) Heartbeat(ctx context.Context) error {
	params := url.Values{}
	params.Set("title", "mario")
	params.Set("limit", "1")
	_, err := p.listGames(ctx, params)
	return err
}

func (p *MobyGamesProvider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

func (p *MobyGamesProvider) listGames(ctx context.Context, params url.Values) ([]mobyGame, error) {
	params.Set("api_key", p.apiKey)

	var resp mobyGamesResponse
	err := getJSON(ctx, p.client, mobygamesBaseURL+"/games", params, &resp)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return resp.Games, nil
}

func (p *MobyGamesProvider) buildGameResult(g mobyGame) *GameResult {
	result := &GameResult{
		Name:        g.Title,
		Summary:     g.Description,
		Provider:    p.Name(),
		ProviderID:  g.GameID,
		ProviderIDs: map[string]int{p.Name(): g.GameID},
	}

	if g.SampleCover != nil {
		result.Artwork.CoverURL = g.SampleCover.Image
	}
	for _, s := range g.SampleScreenshots {
		if s.Image != "" {
			result.Artwork.ScreenshotURLs = append(result.Artwork.ScreenshotURLs, s.Image)
		}
	}

	for _, genre := range g.Genres {
		if genre.GenreName != "" {
			result.Metadata.Genres = append(result.Metadata.Genres, genre.GenreName)
		}
	}
	for _, alt := range g.AlternateTitles {
		if alt.Title != "" {
			result.Metadata.AlternativeNames = append(result.Metadata.AlternativeNames, alt.Title)
		}
	}

	// Moby scores run 0-10; normalize to the 0-100 scale used elsewhere.
	switch score := g.MobyScore.(type) {
	case float64:
		result.Metadata.TotalRating = score * 10
	case string:
		if f, err := strconv.ParseFloat(score, 64); err == nil {
			result.Metadata.TotalRating = f * 10
		}
	}

	return result
}

// extractSonySerial pulls a PS1/PS2/PSP serial code out of a filename,
// normalized to the SLUS-12345 form.
func extractSonySerial(filename string) string {
	if m := ps2OPLPattern.FindStringSubmatch(filename); m != nil {
		return fmt.Sprintf("%s-%s%s", strings.ToUpper(m[1]), m[2], m[3])
	}
	if m := sonySerialPattern.FindStringSubmatch(filename); m != nil {
		return fmt.Sprintf("%s-%s", strings.ToUpper(m[1]), m[2])
	}
	return ""
}

// extractSwitchID pulls a Switch product ID or title ID out of a filename.
// Product IDs take priority because they are less likely to false-positive.
func extractSwitchID(filename string) string {
	if m := switchProductIDPattern.FindStringSubmatch(filename); m != nil {
		return strings.ToUpper(m[1])
	}
	if m := switchTitleIDPattern.FindStringSubmatch(filename); m != nil {
		return strings.ToUpper(m[1])
	}
	return ""
}
