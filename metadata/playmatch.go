package metadata

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const playmatchBaseURL = "https://playmatch.retrorealm.dev/api"

// Playmatch match types, strongest first.
const (
	playmatchMatchSHA256      = "SHA256"
	playmatchMatchSHA1        = "SHA1"
	playmatchMatchMD5         = "MD5"
	playmatchMatchNameAndSize = "FileNameAndSize"
	playmatchNoMatch          = "NoMatch"
)

// PlaymatchProvider implements Provider and HashLookuper for Playmatch,
// a hash-matching service that resolves ROMs to external provider IDs
// (primarily IGDB) rather than full metadata. No credentials are required.
//
// Search, GetByID and Identify are unsupported and return empty results;
// only hash lookups do anything.
type PlaymatchProvider struct {
	baseURL string
	client  *http.Client
	enabled bool
}

// NewPlaymatchProvider creates a new Playmatch provider.
func NewPlaymatchProvider(timeout time.Duration) *PlaymatchProvider {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PlaymatchProvider{
		baseURL: playmatchBaseURL,
		client:  &http.Client{Timeout: timeout},
		enabled: true,
	}
}

func (p *PlaymatchProvider) Name() string {
	return "playmatch"
}

func (p *PlaymatchProvider) IsEnabled() bool {
	return p != nil && p.enabled
}

func (p *PlaymatchProvider) Search(_ context.Context, _ string, _, _ int) ([]SearchResult, error) {
	return nil, nil
}

func (p *PlaymatchProvider) GetByID(_ context.Context, _ int) (*GameResult, error) {
	return nil, nil
}

func (p *PlaymatchProvider) Identify(_ context.Context, _ string, _ int) (*GameResult, error) {
	return nil, nil
}

type playmatchIdentifyResponse struct {
	GameMatchType    string `json:"gameMatchType"`
	ExternalMetadata []struct {
		ProviderName string `json:"providerName"`
		ProviderID   string `json:"providerId"`
	} `json:"externalMetadata"`
}

// LookupByHash resolves a ROM to external provider IDs by filename, size
// and hashes. The result is a cross-reference carrying only ProviderIDs;
// the caller fetches the full record from the referenced provider.
func (p *PlaymatchProvider) LookupByHash(ctx context.Context, req HashLookup) (*GameResult, error) {
	if req.Filename == "" || req.Hashes.Size <= 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Set("fileName", req.Filename)
	params.Set("fileSize", strconv.FormatInt(req.Hashes.Size, 10))
	if req.Hashes.MD5 != "" {
		params.Set("md5", req.Hashes.MD5)
	}
	if req.Hashes.SHA1 != "" {
		params.Set("sha1", req.Hashes.SHA1)
	}

	var resp playmatchIdentifyResponse
	err := getJSON(ctx, p.client, p.baseURL+"/identify/ids", params, &resp)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if resp.GameMatchType == "" || resp.GameMatchType == playmatchNoMatch {
		return nil, nil
	}
	if len(resp.ExternalMetadata) == 0 {
		return nil, nil
	}

	result := &GameResult{
		Provider:    p.Name(),
		ProviderIDs: map[string]int{},
	}

	// Content-hash matches are exact; a filename+size match carries less
	// certainty and stays unscored.
	switch resp.GameMatchType {
	case playmatchMatchSHA256, playmatchMatchSHA1, playmatchMatchMD5:
		result.MatchScore = 1.0
	case playmatchMatchNameAndSize:
	}
	for _, meta := range resp.ExternalMetadata {
		if meta.ProviderName != "IGDB" {
			continue
		}
		if id, err := strconv.Atoi(meta.ProviderID); err == nil {
			result.ProviderIDs["igdb"] = id
		}
		break
	}
	if len(result.ProviderIDs) == 0 {
		return nil, nil
	}
	return result, nil
}

func (p *PlaymatchProvider) Heartbeat(ctx context.Context) error {
	var out map[string]any
	return getJSON(ctx, p.client, p.baseURL+"/health", nil, &out)
}

func (p *PlaymatchProvider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}
