package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Henry-Sarabia/igdb/v2"
)

// IGDBProvider implements the Provider interface for IGDB.
type IGDBProvider struct {
	client  *igdb.Client
	enabled bool
}

// NewIGDBProvider creates a new IGDB provider.
// It automatically fetches an access token using the provided Client ID and Secret.
func NewIGDBProvider(clientID, clientSecret string) (*IGDBProvider, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("IGDB Client ID and Secret are required")
	}

	token, err := getTwitchToken(clientID, clientSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with Twitch: %w", err)
	}

	client := igdb.NewClient(clientID, token, nil)
	return &IGDBProvider{client: client, enabled: true}, nil
}

func (p *IGDBProvider) Name() string {
	return "igdb"
}

func (p *IGDBProvider) IsEnabled() bool {
	return p != nil && p.enabled
}

func (p *IGDBProvider) Search(_ context.Context, query string, platformID, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}

	opts := []igdb.Option{
		igdb.SetFields("id", "name", "slug", "summary", "first_release_date", "total_rating", "cover.url"),
		igdb.SetLimit(limit),
	}
	if platformID != 0 {
		opts = append(opts, igdb.SetFilter("platforms", igdb.OpEquals, strconv.Itoa(platformID)))
	}

	games, err := p.client.Games.Search(query, opts...)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(games))
	for _, g := range games {
		sr := SearchResult{
			Name:       g.Name,
			Provider:   p.Name(),
			ProviderID: g.ID,
			Slug:       g.Slug,
		}
		if g.FirstReleaseDate != 0 {
			sr.ReleaseYear = time.Unix(int64(g.FirstReleaseDate), 0).UTC().Year()
		}
		results = append(results, sr)
	}
	return results, nil
}

func (p *IGDBProvider) GetByID(_ context.Context, gameID int) (*GameResult, error) {
	game, err := p.client.Games.Get(
		gameID,
		igdb.SetFields("id", "name", "slug", "summary", "first_release_date", "total_rating", "aggregated_rating"),
	)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, nil
	}
	return p.convertGame(game), nil
}

func (p *IGDBProvider) Identify(ctx context.Context, filename string, platformID int) (*GameResult, error) {
	return identifyBySearch(ctx, p, filename, platformID)
}

func (p *IGDBProvider) Heartbeat(_ context.Context) error {
	_, err := p.client.Games.Search("mario", igdb.SetFields("id"), igdb.SetLimit(1))
	return err
}

func (p *IGDBProvider) Close() error {
	return nil
}

func (p *IGDBProvider) convertGame(g *igdb.Game) *GameResult {
	result := &GameResult{
		Name:        g.Name,
		Summary:     g.Summary,
		Provider:    p.Name(),
		ProviderID:  g.ID,
		ProviderIDs: map[string]int{p.Name(): g.ID},
		Slug:        g.Slug,
		Metadata: GameMetadata{
			TotalRating:      g.TotalRating,
			AggregatedRating: g.AggregatedRating,
		},
	}

	if g.FirstReleaseDate != 0 {
		release := time.Unix(int64(g.FirstReleaseDate), 0).UTC()
		result.Metadata.FirstReleaseDate = release.Unix()
		result.Metadata.ReleaseYear = release.Year()
	}

	// Cover and company records hang off separate ID-keyed endpoints in the
	// v2 API; fetching them per game costs extra requests, so they are left
	// to callers that need artwork.

	return result
}

// getTwitchToken fetches an App Access Token from Twitch.
func getTwitchToken(clientID, clientSecret string) (string, error) {
	u := "https://id.twitch.tv/oauth2/token"
	vals := url.Values{}
	vals.Set("client_id", clientID)
	vals.Set("client_secret", clientSecret)
	vals.Set("grant_type", "client_credentials")

	resp, err := http.PostForm(u, vals)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	return result.AccessToken, nil
}
