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

	"github.com/ryanm101/gamemeta/match"
	"github.com/ryanm101/gamemeta/normalize"
)

const screenscraperBaseURL = "https://api.screenscraper.fr/api2"

// ScreenScraper ID tags embedded in filenames, like (ssfr-12345).
var ssTagPattern = regexp.MustCompile(`(?i)\(ssfr-(\d+)\)`)

var (
	defaultRegionPriority   = []string{"us", "wor", "ss", "eu", "jp", "unk"}
	defaultLanguagePriority = []string{"en", "fr"}
)

// ScreenScraperProvider implements Provider and HashLookuper for
// ScreenScraper. It requires user credentials (ssid/sspassword) and
// optionally developer credentials (devid/devpassword).
type ScreenScraperProvider struct {
	username    string
	password    string
	devID       string
	devPassword string
	regions     []string
	languages   []string
	client      *http.Client
	enabled     bool
}

// ScreenScraperOptions configures optional ScreenScraper settings.
type ScreenScraperOptions struct {
	DevID            string
	DevPassword      string
	RegionPriority   []string
	LanguagePriority []string
	Timeout          time.Duration
}

// NewScreenScraperProvider creates a new ScreenScraper provider.
func NewScreenScraperProvider(username, password string, opts ScreenScraperOptions) (*ScreenScraperProvider, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("ScreenScraper username and password are required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	regions := opts.RegionPriority
	if len(regions) == 0 {
		regions = defaultRegionPriority
	}
	languages := opts.LanguagePriority
	if len(languages) == 0 {
		languages = defaultLanguagePriority
	}
	return &ScreenScraperProvider{
		username:    username,
		password:    password,
		devID:       opts.DevID,
		devPassword: opts.DevPassword,
		regions:     regions,
		languages:   languages,
		client:      &http.Client{Timeout: opts.Timeout},
		enabled:     true,
	}, nil
}

func (p *ScreenScraperProvider) Name() string {
	return "screenscraper"
}

func (p *ScreenScraperProvider) IsEnabled() bool {
	return p != nil && p.enabled
}

// ScreenScraper localizes most fields as {region|langue, text} lists.
type ssRegionText struct {
	Region string `json:"region"`
	Langue string `json:"langue"`
	Text   string `json:"text"`
}

type ssMedia struct {
	Type   string `json:"type"`
	Region string `json:"region"`
	Parent string `json:"parent"`
	URL    string `json:"url"`
}

type ssGame struct {
	// IDs arrive as JSON strings, not numbers.
	ID   string         `json:"id"`
	Noms []ssRegionText `json:"noms"`

	Synopsis []ssRegionText `json:"synopsis"`
	Dates    []ssRegionText `json:"dates"`
	Medias   []ssMedia      `json:"medias"`
	Systeme  struct {
		Text string `json:"text"`
	} `json:"systeme"`
	Genres []struct {
		Noms []ssRegionText `json:"noms"`
	} `json:"genres"`
	Familles []struct {
		Noms []ssRegionText `json:"noms"`
	} `json:"familles"`
	Modes []struct {
		Noms []ssRegionText `json:"noms"`
	} `json:"modes"`
	Editeur struct {
		Text string `json:"text"`
	} `json:"editeur"`
	Developpeur struct {
		Text string `json:"text"`
	} `json:"developpeur"`
	Note struct {
		Text string `json:"text"`
	} `json:"note"`
	Joueurs struct {
		Text string `json:"text"`
	} `json:"joueurs"`
}

type ssSearchResponse struct {
	Response struct {
		Jeux []ssGame `json:"jeux"`
	} `json:"response"`
}

type ssGameResponse struct {
	Response struct {
		Jeu ssGame `json:"jeu"`
	} `json:"response"`
}

func (p *ScreenScraperProvider) authParams() url.Values {
	params := url.Values{}
	params.Set("output", "json")
	params.Set("softname", "gamemeta")
	params.Set("ssid", p.username)
	params.Set("sspassword", p.password)
	if p.devID != "" {
		params.Set("devid", p.devID)
	}
	if p.devPassword != "" {
		params.Set("devpassword", p.devPassword)
	}
	return params
}

func (p *ScreenScraperProvider) Search(ctx context.Context, query string, platformID, limit int) ([]SearchResult, error) {
	if limit <= 0 || limit > 30 {
		// The jeuRecherche endpoint caps result sets at 30.
		limit = 30
	}

	params := p.authParams()
	params.Set("recherche", query)
	if platformID != 0 {
		params.Set("systemeid", strconv.Itoa(platformID))
	}

	games, err := p.searchGames(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(games) > limit {
		games = games[:limit]
	}

	results := make([]SearchResult, 0, len(games))
	for _, g := range games {
		id, err := strconv.Atoi(g.ID)
		if err != nil {
			continue
		}
		sr := SearchResult{
			Name:       normalizeColonSpacing(p.preferredName(g.Noms)),
			Provider:   p.Name(),
			ProviderID: id,
			CoverURL:   p.mediaURL(g.Medias, "box-2D"),
		}
		if g.Systeme.Text != "" {
			sr.Platforms = []string{g.Systeme.Text}
		}
		if len(g.Dates) > 0 && len(g.Dates[0].Text) >= 4 {
			if year, err := strconv.Atoi(g.Dates[0].Text[:4]); err == nil {
				sr.ReleaseYear = year
			}
		}
		results = append(results, sr)
	}
	return results, nil
}

func (p *ScreenScraperProvider) GetByID(ctx context.Context, gameID int) (*GameResult, error) {
	params := p.authParams()
	params.Set("gameid", strconv.Itoa(gameID))
	return p.fetchGame(ctx, params)
}

// LookupByHash identifies a ROM by its MD5, SHA1 or CRC32 via jeuInfos.
func (p *ScreenScraperProvider) LookupByHash(ctx context.Context, req HashLookup) (*GameResult, error) {
	if req.Hashes.Empty() {
		return nil, nil
	}

	params := p.authParams()
	params.Set("systemeid", strconv.Itoa(req.PlatformID))
	if req.Hashes.MD5 != "" {
		params.Set("md5", req.Hashes.MD5)
	}
	if req.Hashes.SHA1 != "" {
		params.Set("sha1", req.Hashes.SHA1)
	}
	if req.Hashes.CRC32 != "" {
		params.Set("crc", req.Hashes.CRC32)
	}
	if req.Hashes.Size > 0 {
		params.Set("romtaille", strconv.FormatInt(req.Hashes.Size, 10))
	}

	return p.fetchGame(ctx, params)
}

// Identify resolves a ROM filename to a game. Filenames carrying an
// explicit (ssfr-12345) tag skip the search entirely.
func (p *ScreenScraperProvider) Identify(ctx context.Context, filename string, platformID int) (*GameResult, error) {
	if m := ssTagPattern.FindStringSubmatch(filename); m != nil {
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

	params := p.authParams()
	params.Set("recherche", term)
	params.Set("systemeid", strconv.Itoa(platformID))

	games, err := p.searchGames(ctx, params)
	if err != nil {
		return nil, err
	}

	if len(games) == 0 {
		parts := normalize.SplitSearchTerm(term)
		if len(parts) > 1 {
			params.Set("recherche", parts[len(parts)-1])
			games, err = p.searchGames(ctx, params)
			if err != nil {
				return nil, err
			}
		}
	}
	if len(games) == 0 {
		return nil, nil
	}

	// Index every localized name. On collisions the lowest game ID wins,
	// which favors the original release over rereleases.
	byName := make(map[string]ssGame)
	names := make([]string, 0, len(games))
	for _, g := range games {
		id, err := strconv.Atoi(g.ID)
		if err != nil {
			continue
		}
		for _, nom := range g.Noms {
			if nom.Text == "" {
				continue
			}
			existing, seen := byName[nom.Text]
			if seen {
				existingID, _ := strconv.Atoi(existing.ID)
				if id >= existingID {
					continue
				}
			} else {
				names = append(names, nom.Text)
			}
			byName[nom.Text] = g
		}
	}

	best, score := match.FindBestMatchSimple(term, names)
	if best == "" {
		return nil, nil
	}

	result := p.buildGameResult(byName[best])
	result.MatchScore = score
	return result, nil
}

func (p *ScreenScraperProvider) Heartbeat(ctx context.Context) error {
	params := p.authParams()
	params.Set("recherche", "mario")
	_, err := p.searchGames(ctx, params)
	return err
}

func (p *ScreenScraperProvider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

func (p *ScreenScraperProvider) searchGames(ctx context.Context, params url.Values) ([]ssGame, error) {
	var resp ssSearchResponse
	err := getJSON(ctx, p.client, screenscraperBaseURL+"/jeuRecherche.php", params, &resp)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	games := resp.Response.Jeux
	// An empty result set arrives as a single empty object.
	if len(games) == 1 && games[0].ID == "" {
		return nil, nil
	}
	return games, nil
}

func (p *ScreenScraperProvider) fetchGame(ctx context.Context, params url.Values) (*GameResult, error) {
	var resp ssGameResponse
	err := getJSON(ctx, p.client, screenscraperBaseURL+"/jeuInfos.php", params, &resp)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if resp.Response.Jeu.ID == "" {
		return nil, nil
	}
	return p.buildGameResult(resp.Response.Jeu), nil
}

// preferredName picks a name by region priority, falling back to the first.
func (p *ScreenScraperProvider) preferredName(noms []ssRegionText) string {
	for _, region := range p.regions {
		for _, nom := range noms {
			r := nom.Region
			if r == "" {
				r = "unk"
			}
			if r == region {
				return nom.Text
			}
		}
	}
	if len(noms) > 0 {
		return noms[0].Text
	}
	return ""
}

// preferredText picks localized text by language priority.
func (p *ScreenScraperProvider) preferredText(items []ssRegionText) string {
	for _, lang := range p.languages {
		for _, item := range items {
			if item.Langue == lang {
				return item.Text
			}
		}
	}
	if len(items) > 0 {
		return items[0].Text
	}
	return ""
}

// mediaURL picks a game-level media URL of the given type by region
// priority. Credentials embedded in media URLs are stripped.
func (p *ScreenScraperProvider) mediaURL(medias []ssMedia, mediaType string) string {
	for _, region := range p.regions {
		for _, m := range medias {
			r := m.Region
			if r == "" {
				r = "unk"
			}
			if m.Type == mediaType && m.Parent == "jeu" && r == region {
				return normalize.StripSensitiveParams(m.URL)
			}
		}
	}
	for _, m := range medias {
		if m.Type == mediaType && m.Parent == "jeu" {
			return normalize.StripSensitiveParams(m.URL)
		}
	}
	return ""
}

func (p *ScreenScraperProvider) buildGameResult(g ssGame) *GameResult {
	id, _ := strconv.Atoi(g.ID)

	result := &GameResult{
		Name:        normalizeColonSpacing(p.preferredName(g.Noms)),
		Summary:     p.preferredText(g.Synopsis),
		Provider:    p.Name(),
		ProviderID:  id,
		ProviderIDs: map[string]int{p.Name(): id},
	}

	result.Artwork.CoverURL = p.mediaURL(g.Medias, "box-2D")
	for _, mediaType := range []string{"ss", "sstitle", "fanart"} {
		if u := p.mediaURL(g.Medias, mediaType); u != "" {
			result.Artwork.ScreenshotURLs = append(result.Artwork.ScreenshotURLs, u)
		}
	}
	if logo := p.mediaURL(g.Medias, "wheel-hd"); logo != "" {
		result.Artwork.LogoURL = logo
	} else {
		result.Artwork.LogoURL = p.mediaURL(g.Medias, "wheel")
	}
	result.Artwork.BannerURL = p.mediaURL(g.Medias, "screenmarquee")

	result.Metadata = p.extractMetadata(g)
	return result
}

func (p *ScreenScraperProvider) extractMetadata(g ssGame) GameMetadata {
	md := GameMetadata{}

	for _, genre := range g.Genres {
		for _, nom := range genre.Noms {
			if nom.Langue == "en" && nom.Text != "" {
				md.Genres = append(md.Genres, nom.Text)
				break
			}
		}
	}
	for _, famille := range g.Familles {
		if text := p.preferredText(famille.Noms); text != "" {
			md.Franchises = append(md.Franchises, text)
		}
	}
	for _, mode := range g.Modes {
		if text := p.preferredText(mode.Noms); text != "" {
			md.GameModes = append(md.GameModes, text)
		}
	}
	for _, nom := range g.Noms {
		if nom.Text != "" {
			md.AlternativeNames = append(md.AlternativeNames, nom.Text)
		}
	}

	if g.Editeur.Text != "" {
		md.Publisher = g.Editeur.Text
		md.Companies = append(md.Companies, g.Editeur.Text)
	}
	if g.Developpeur.Text != "" && g.Developpeur.Text != g.Editeur.Text {
		md.Developer = g.Developpeur.Text
		md.Companies = append(md.Companies, g.Developpeur.Text)
	}

	if earliest := earliestDate(g.Dates); earliest != "" {
		var release time.Time
		var err error
		switch len(earliest) {
		case 10:
			release, err = time.Parse("2006-01-02", earliest)
		case 4:
			release, err = time.Parse("2006", earliest)
		default:
			err = fmt.Errorf("unrecognized date: %s", earliest)
		}
		if err == nil {
			md.FirstReleaseDate = release.Unix()
			md.ReleaseYear = release.Year()
		}
	}

	// Notes run 0-20; normalize to the 0-100 scale used elsewhere.
	if g.Note.Text != "" {
		if f, err := strconv.ParseFloat(g.Note.Text, 64); err == nil {
			md.TotalRating = f * 5
		}
	}

	players := strings.ToLower(g.Joueurs.Text)
	if players == "" || players == "null" || players == "none" {
		md.PlayerCount = "1"
	} else {
		md.PlayerCount = g.Joueurs.Text
	}

	return md
}

func earliestDate(dates []ssRegionText) string {
	earliest := ""
	for _, d := range dates {
		if d.Text == "" {
			continue
		}
		if earliest == "" || d.Text < earliest {
			earliest = d.Text
		}
	}
	return earliest
}

// normalizeColonSpacing rewrites the French-style " : " separator that
// ScreenScraper uses in game names to the conventional ": ".
func normalizeColonSpacing(name string) string {
	return strings.ReplaceAll(name, " : ", ": ")
}
