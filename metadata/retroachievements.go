package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ryanm101/gamemeta/match"
)

const (
	retroachievementsBaseURL = "https://retroachievements.org/API"
	raMediaURL               = "https://media.retroachievements.org"
	raBadgeURL               = "https://media.retroachievements.org/Badge"
)

// RetroAchievements ID tags embedded in filenames, like (ra-12345).
var raTagPattern = regexp.MustCompile(`(?i)\(ra-(\d+)\)`)

// RetroAchievementsProvider implements Provider and HashLookuper for
// RetroAchievements. It requires an api_key credential and a username.
type RetroAchievementsProvider struct {
	username string
	apiKey   string
	client   *http.Client
	enabled  bool
}

// NewRetroAchievementsProvider creates a new RetroAchievements provider.
func NewRetroAchievementsProvider(username, apiKey string, timeout time.Duration) (*RetroAchievementsProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("RetroAchievements API key is required")
	}
	if username == "" {
		username = "gamemeta"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RetroAchievementsProvider{
		username: username,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		enabled:  true,
	}, nil
}

func (p *RetroAchievementsProvider) Name() string {
	return "retroachievements"
}

func (p *RetroAchievementsProvider) IsEnabled() bool {
	return p != nil && p.enabled
}

type raListedGame struct {
	ID          int      `json:"ID"`
	Title       string   `json:"Title"`
	ConsoleName string   `json:"ConsoleName"`
	ImageIcon   string   `json:"ImageIcon"`
	Hashes      []string `json:"Hashes"`
}

type raAchievement struct {
	ID                 int    `json:"ID"`
	Title              string `json:"Title"`
	Description        string `json:"Description"`
	Points             int    `json:"Points"`
	BadgeName          string `json:"BadgeName"`
	Type               string `json:"type"`
	NumAwarded         int    `json:"NumAwarded"`
	NumAwardedHardcore int    `json:"NumAwardedHardcore"`
	DisplayOrder       int    `json:"DisplayOrder"`
}

type raGame struct {
	ID           int                      `json:"ID"`
	Title        string                   `json:"Title"`
	ConsoleID    int                      `json:"ConsoleID"`
	ConsoleName  string                   `json:"ConsoleName"`
	Genre        string                   `json:"Genre"`
	Developer    string                   `json:"Developer"`
	Publisher    string                   `json:"Publisher"`
	Released     string                   `json:"Released"`
	ImageIcon    string                   `json:"ImageIcon"`
	ImageTitle   string                   `json:"ImageTitle"`
	ImageIngame  string                   `json:"ImageIngame"`
	ImageBoxArt  string                   `json:"ImageBoxArt"`
	Achievements map[string]raAchievement `json:"Achievements"`
}

// Achievement is a single RetroAchievements achievement with resolved
// badge URLs.
type Achievement struct {
	ID                 int    `json:"id"`
	Title              string `json:"title"`
	Description        string `json:"description,omitempty"`
	Points             int    `json:"points,omitempty"`
	BadgeURL           string `json:"badge_url,omitempty"`
	BadgeURLLocked     string `json:"badge_url_locked,omitempty"`
	Type               string `json:"type,omitempty"`
	NumAwarded         int    `json:"num_awarded,omitempty"`
	NumAwardedHardcore int    `json:"num_awarded_hardcore,omitempty"`
	DisplayOrder       int    `json:"display_order,omitempty"`
}

func (p *RetroAchievementsProvider) authParams() url.Values {
	params := url.Values{}
	params.Set("z", p.username)
	params.Set("y", p.apiKey)
	return params
}

// Search finds games matching the query. RetroAchievements has no search
// endpoint, so the platform's game list is fetched and filtered locally.
// Queries without a platform return no results.
func (p *RetroAchievementsProvider) Search(ctx context.Context, query string, platformID, limit int) ([]SearchResult, error) {
	if platformID == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 25
	}

	games, err := p.gameList(ctx, platformID, false)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	results := make([]SearchResult, 0, limit)
	for _, g := range games {
		if !strings.Contains(strings.ToLower(g.Title), query) {
			continue
		}
		sr := SearchResult{
			Name:       g.Title,
			Provider:   p.Name(),
			ProviderID: g.ID,
		}
		if g.ImageIcon != "" {
			sr.CoverURL = raMediaURL + g.ImageIcon
		}
		if g.ConsoleName != "" {
			sr.Platforms = []string{g.ConsoleName}
		}
		results = append(results, sr)
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

func (p *RetroAchievementsProvider) GetByID(ctx context.Context, gameID int) (*GameResult, error) {
	game, err := p.gameExtended(ctx, gameID)
	if err != nil || game == nil {
		return nil, err
	}
	return p.buildGameResult(*game), nil
}

// GetAchievements returns a game's achievements in display order.
func (p *RetroAchievementsProvider) GetAchievements(ctx context.Context, gameID int) ([]Achievement, error) {
	game, err := p.gameExtended(ctx, gameID)
	if err != nil || game == nil {
		return nil, err
	}

	achievements := make([]Achievement, 0, len(game.Achievements))
	for _, a := range game.Achievements {
		ach := Achievement{
			ID:                 a.ID,
			Title:              a.Title,
			Description:        a.Description,
			Points:             a.Points,
			Type:               a.Type,
			NumAwarded:         a.NumAwarded,
			NumAwardedHardcore: a.NumAwardedHardcore,
			DisplayOrder:       a.DisplayOrder,
		}
		if a.BadgeName != "" {
			ach.BadgeURL = fmt.Sprintf("%s/%s.png", raBadgeURL, a.BadgeName)
			ach.BadgeURLLocked = fmt.Sprintf("%s/%s_lock.png", raBadgeURL, a.BadgeName)
		}
		achievements = append(achievements, ach)
	}

	sort.Slice(achievements, func(i, j int) bool {
		return achievements[i].DisplayOrder < achievements[j].DisplayOrder
	})
	return achievements, nil
}

// LookupByHash identifies a ROM by MD5. The platform's game list is
// fetched with hashes and scanned for a match.
func (p *RetroAchievementsProvider) LookupByHash(ctx context.Context, req HashLookup) (*GameResult, error) {
	if req.Hashes.MD5 == "" {
		return nil, nil
	}

	games, err := p.gameList(ctx, req.PlatformID, true)
	if err != nil {
		return nil, err
	}

	md5 := strings.ToLower(req.Hashes.MD5)
	for _, g := range games {
		for _, h := range g.Hashes {
			if strings.ToLower(h) == md5 {
				return p.GetByID(ctx, g.ID)
			}
		}
	}
	return nil, nil
}

// Identify resolves a ROM filename to a game. Filenames carrying an
// explicit (ra-12345) tag skip the search entirely.
func (p *RetroAchievementsProvider) Identify(ctx context.Context, filename string, platformID int) (*GameResult, error) {
	if m := raTagPattern.FindStringSubmatch(filename); m != nil {
		if id, err := strconv.Atoi(m[1]); err == nil {
			result, err := p.GetByID(ctx, id)
			if err == nil && result != nil {
				return result, nil
			}
		}
	}

	if platformID == 0 {
		return nil, nil
	}

	term := cleanNameForMatch(filename)

	games, err := p.gameList(ctx, platformID, false)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, nil
	}

	byName := make(map[string]raListedGame, len(games))
	names := make([]string, 0, len(games))
	for _, g := range games {
		if g.Title == "" {
			continue
		}
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

	result, err := p.GetByID(ctx, byName[best].ID)
	if err != nil {
		return nil, err
	}
	if result != nil {
		result.MatchScore = score
	}
	return result, nil
}

func (p *RetroAchievementsProvider) Heartbeat(ctx context.Context) error {
	// NES console list, the cheapest authenticated call.
	_, err := p.gameList(ctx, 7, false)
	return err
}

func (p *RetroAchievementsProvider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

func (p *RetroAchievementsProvider) gameList(ctx context.Context, platformID int, withHashes bool) ([]raListedGame, error) {
	params := p.authParams()
	params.Set("i", strconv.Itoa(platformID))
	params.Set("f", "1")
	if withHashes {
		params.Set("h", "1")
	} else {
		params.Set("h", "0")
	}

	var games []raListedGame
	err := getJSON(ctx, p.client, retroachievementsBaseURL+"/API_GetGameList.php", params, &games)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return games, nil
}

func (p *RetroAchievementsProvider) gameExtended(ctx context.Context, gameID int) (*raGame, error) {
	params := p.authParams()
	params.Set("i", strconv.Itoa(gameID))

	var game raGame
	err := getJSON(ctx, p.client, retroachievementsBaseURL+"/API_GetGameExtended.php", params, &game)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if game.ID == 0 {
		return nil, nil
	}
	return &game, nil
}

func (p *RetroAchievementsProvider) buildGameResult(g raGame) *GameResult {
	result := &GameResult{
		Name:        g.Title,
		Provider:    p.Name(),
		ProviderID:  g.ID,
		ProviderIDs: map[string]int{p.Name(): g.ID},
	}

	if g.ImageBoxArt != "" {
		result.Artwork.CoverURL = raMediaURL + g.ImageBoxArt
	} else if g.ImageTitle != "" {
		result.Artwork.CoverURL = raMediaURL + g.ImageTitle
	}
	if g.ImageIngame != "" {
		result.Artwork.ScreenshotURLs = append(result.Artwork.ScreenshotURLs, raMediaURL+g.ImageIngame)
	}
	if g.ImageTitle != "" && g.ImageTitle != g.ImageBoxArt {
		result.Artwork.ScreenshotURLs = append(result.Artwork.ScreenshotURLs, raMediaURL+g.ImageTitle)
	}
	if g.ImageIcon != "" {
		result.Artwork.IconURL = raMediaURL + g.ImageIcon
	}

	if g.Genre != "" {
		result.Metadata.Genres = []string{g.Genre}
	}
	result.Metadata.Developer = g.Developer
	result.Metadata.Publisher = g.Publisher
	if g.Publisher != "" {
		result.Metadata.Companies = append(result.Metadata.Companies, g.Publisher)
	}
	if g.Developer != "" && g.Developer != g.Publisher {
		result.Metadata.Companies = append(result.Metadata.Companies, g.Developer)
	}

	// Released fields sometimes trail extra text after the date.
	if fields := strings.Fields(g.Released); len(fields) > 0 {
		if release, err := time.Parse("2006-01-02", fields[0]); err == nil {
			result.Metadata.FirstReleaseDate = release.Unix()
			result.Metadata.ReleaseYear = release.Year()
		}
	}

	return result
}
