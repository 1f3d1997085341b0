package metadata

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ryanm101/gamemeta/hashing"
)

type mockProvider struct {
	mock.Mock
	name     string
	disabled bool
	closeErr error
}

func newMockProvider(name string) *mockProvider {
	return &mockProvider{name: name}
}

func (m *mockProvider) Name() string    { return m.name }
func (m *mockProvider) IsEnabled() bool { return !m.disabled }

func (m *mockProvider) Search(_ context.Context, query string, platformID, limit int) ([]SearchResult, error) {
	args := m.Called(query, platformID, limit)
	results, _ := args.Get(0).([]SearchResult)
	return results, args.Error(1)
}

func (m *mockProvider) GetByID(_ context.Context, gameID int) (*GameResult, error) {
	args := m.Called(gameID)
	result, _ := args.Get(0).(*GameResult)
	return result, args.Error(1)
}

func (m *mockProvider) Identify(_ context.Context, filename string, platformID int) (*GameResult, error) {
	args := m.Called(filename, platformID)
	result, _ := args.Get(0).(*GameResult)
	return result, args.Error(1)
}

func (m *mockProvider) Heartbeat(context.Context) error {
	return m.Called().Error(0)
}

func (m *mockProvider) Close() error { return m.closeErr }

type mockHashProvider struct {
	mockProvider
}

func newMockHashProvider(name string) *mockHashProvider {
	return &mockHashProvider{mockProvider{name: name}}
}

func (m *mockHashProvider) LookupByHash(_ context.Context, req HashLookup) (*GameResult, error) {
	args := m.Called(req)
	result, _ := args.Get(0).(*GameResult)
	return result, args.Error(1)
}

func TestNewClient_OrderAndDeduplication(t *testing.T) {
	a := newMockProvider("igdb")
	b := newMockProvider("mobygames")
	dup := newMockProvider("igdb")

	c := NewClient(a, nil, b, dup)
	assert.Equal(t, []string{"igdb", "mobygames"}, c.Providers())
}

func TestSearch_AggregatesAcrossProviders(t *testing.T) {
	igdb := newMockProvider("igdb")
	igdb.On("Search", "mario", 19, 10).Return([]SearchResult{
		{Name: "Super Mario World", Provider: "igdb", ProviderID: 1},
	}, nil)

	moby := newMockProvider("mobygames")
	moby.On("Search", "mario", 15, 10).Return([]SearchResult{
		{Name: "Super Mario World", Provider: "mobygames", ProviderID: 2},
		{Name: "Mario Paint", Provider: "mobygames", ProviderID: 3},
	}, nil)

	c := NewClient(igdb, moby)
	results := c.Search(context.Background(), "mario", "snes", nil, 10)

	require.Len(t, results, 3)
	assert.Equal(t, "igdb", results[0].Provider, "priority order is preserved")
	assert.Equal(t, "mobygames", results[1].Provider)
}

func TestSearch_FailingProviderSkipped(t *testing.T) {
	igdb := newMockProvider("igdb")
	igdb.On("Search", "mario", 19, 10).Return(nil, fmt.Errorf("rate limited"))

	moby := newMockProvider("mobygames")
	moby.On("Search", "mario", 15, 10).Return([]SearchResult{
		{Name: "Mario Paint", Provider: "mobygames", ProviderID: 3},
	}, nil)

	c := NewClient(igdb, moby)
	results := c.Search(context.Background(), "mario", "snes", nil, 10)

	require.Len(t, results, 1)
	assert.Equal(t, "mobygames", results[0].Provider)
}

func TestIdentify_FirstProviderWins(t *testing.T) {
	igdb := newMockProvider("igdb")
	igdb.On("Identify", "Super Mario World (USA).sfc", 19).
		Return(&GameResult{Name: "Super Mario World", Provider: "igdb"}, nil)
	moby := newMockProvider("mobygames")

	c := NewClient(igdb, moby)
	result := c.Identify(context.Background(), "Super Mario World (USA).sfc", "snes", nil)

	require.NotNil(t, result)
	assert.Equal(t, "igdb", result.Provider)
	moby.AssertNotCalled(t, "Identify", mock.Anything, mock.Anything)
}

func TestIdentify_FailureAndMissFallThrough(t *testing.T) {
	igdb := newMockProvider("igdb")
	igdb.On("Identify", "game.sfc", 19).Return(nil, fmt.Errorf("boom"))
	ss := newMockHashProvider("screenscraper")
	ss.On("Identify", "game.sfc", 4).Return(nil, nil)
	moby := newMockProvider("mobygames")
	moby.On("Identify", "game.sfc", 15).
		Return(&GameResult{Name: "Game", Provider: "mobygames"}, nil)

	c := NewClient(igdb, ss, moby)
	result := c.Identify(context.Background(), "game.sfc", "snes", nil)

	require.NotNil(t, result)
	assert.Equal(t, "mobygames", result.Provider)
}

func TestIdentify_AllProvidersMiss(t *testing.T) {
	igdb := newMockProvider("igdb")
	igdb.On("Identify", "game.sfc", 19).Return(nil, nil)

	c := NewClient(igdb)
	assert.Nil(t, c.Identify(context.Background(), "game.sfc", "snes", nil))
}

func TestIdentify_UnmappedPlatformSkipped(t *testing.T) {
	igdb := newMockProvider("igdb")

	c := NewClient(igdb)
	result := c.Identify(context.Background(), "game.bin", "not-a-platform", nil)

	assert.Nil(t, result)
	igdb.AssertNotCalled(t, "Identify", mock.Anything, mock.Anything)
}

func TestIdentify_DisabledProviderSkipped(t *testing.T) {
	igdb := newMockProvider("igdb")
	igdb.disabled = true
	moby := newMockProvider("mobygames")
	moby.On("Identify", "game.sfc", 15).
		Return(&GameResult{Name: "Game", Provider: "mobygames"}, nil)

	c := NewClient(igdb, moby)
	result := c.Identify(context.Background(), "game.sfc", "snes", nil)

	require.NotNil(t, result)
	assert.Equal(t, "mobygames", result.Provider)
	igdb.AssertNotCalled(t, "Identify", mock.Anything, mock.Anything)
}

func TestIdentifyByHash_TriesProvidersInOrder(t *testing.T) {
	hashes := hashing.FileHashes{MD5: "abc", SHA1: "def", Size: 1024}

	ss := newMockHashProvider("screenscraper")
	ss.On("LookupByHash", HashLookup{PlatformID: 4, Hashes: hashes, Filename: "game.sfc"}).
		Return(nil, nil)
	ra := newMockHashProvider("retroachievements")
	ra.On("LookupByHash", HashLookup{PlatformID: 3, Hashes: hashes, Filename: "game.sfc"}).
		Return(&GameResult{Name: "Game", Provider: "retroachievements"}, nil)

	c := NewClient(ra, ss) // registration order does not matter for hash lookups
	result := c.IdentifyByHash(context.Background(), HashRequest{
		Platform: "snes",
		Hashes:   hashes,
		Filename: "game.sfc",
	})

	require.NotNil(t, result)
	assert.Equal(t, "retroachievements", result.Provider)
	ss.AssertExpectations(t)
}

func TestIdentifyByHash_RequiredInputsGate(t *testing.T) {
	// No MD5, so RetroAchievements cannot look anything up; no filename or
	// size, so neither can Playmatch.
	hashes := hashing.FileHashes{SHA1: "def"}

	ss := newMockHashProvider("screenscraper")
	ss.On("LookupByHash", HashLookup{PlatformID: 4, Hashes: hashes}).
		Return(&GameResult{Name: "Game", Provider: "screenscraper"}, nil)
	ra := newMockHashProvider("retroachievements")
	pm := newMockHashProvider("playmatch")

	c := NewClient(ss, ra, pm)
	result := c.IdentifyByHash(context.Background(), HashRequest{
		Platform: "snes",
		Hashes:   hashes,
	})

	require.NotNil(t, result)
	assert.Equal(t, "screenscraper", result.Provider)
	ra.AssertNotCalled(t, "LookupByHash", mock.Anything)
	pm.AssertNotCalled(t, "LookupByHash", mock.Anything)
}

func TestIdentifyByHash_EmptyProviderListMeansNone(t *testing.T) {
	ss := newMockHashProvider("screenscraper")

	c := NewClient(ss)
	result := c.IdentifyByHash(context.Background(), HashRequest{
		Platform:  "snes",
		Hashes:    hashing.FileHashes{MD5: "abc"},
		Providers: []string{},
	})

	assert.Nil(t, result)
	ss.AssertNotCalled(t, "LookupByHash", mock.Anything)
}

func TestIdentifyByHash_NonHashProvidersExcluded(t *testing.T) {
	igdb := newMockProvider("igdb")
	moby := newMockProvider("mobygames")

	c := NewClient(igdb, moby)
	result := c.IdentifyByHash(context.Background(), HashRequest{
		Platform: "snes",
		Hashes:   hashing.FileHashes{MD5: "abc"},
	})

	assert.Nil(t, result)
}

func TestIdentifyByHash_PlaymatchCrossReference(t *testing.T) {
	hashes := hashing.FileHashes{MD5: "abc", SHA1: "def", Size: 2048}

	pm := newMockHashProvider("playmatch")
	pm.On("LookupByHash", HashLookup{Hashes: hashes, Filename: "game.sfc"}).
		Return(&GameResult{Provider: "playmatch", ProviderIDs: map[string]int{"igdb": 555}}, nil)
	igdb := newMockProvider("igdb")
	igdb.On("GetByID", 555).
		Return(&GameResult{Name: "Super Mario World", Provider: "igdb", ProviderID: 555}, nil)

	c := NewClient(pm, igdb)
	result := c.IdentifyByHash(context.Background(), HashRequest{
		Platform: "snes",
		Hashes:   hashes,
		Filename: "game.sfc",
	})

	require.NotNil(t, result)
	assert.Equal(t, "igdb", result.Provider)
	assert.Equal(t, 555, result.ProviderID)
}

func TestIdentifyByHash_CrossReferenceWithoutIGDB(t *testing.T) {
	hashes := hashing.FileHashes{MD5: "abc", Size: 2048}

	pm := newMockHashProvider("playmatch")
	pm.On("LookupByHash", HashLookup{Hashes: hashes, Filename: "game.sfc"}).
		Return(&GameResult{Provider: "playmatch", ProviderIDs: map[string]int{"igdb": 555}}, nil)

	c := NewClient(pm)
	result := c.IdentifyByHash(context.Background(), HashRequest{
		Platform: "snes",
		Hashes:   hashes,
		Filename: "game.sfc",
	})

	assert.Nil(t, result, "an unresolvable cross-reference is a miss")
}

func TestIdentifySmart_HashFilenameTier(t *testing.T) {
	hashes := hashing.FileHashes{MD5: "abc"}

	ss := newMockHashProvider("screenscraper")
	ss.On("LookupByHash", mock.Anything).
		Return(&GameResult{Name: "Super Mario World", Provider: "screenscraper"}, nil)

	c := NewClient(ss)
	result := c.IdentifySmart(context.Background(),
		"Super Mario World (USA).sfc", "snes", hashes, IdentifyOptions{})

	require.NotNil(t, result)
	assert.Equal(t, MatchHashFilename, result.MatchType)
}

func TestIdentifySmart_HashOnlyTier(t *testing.T) {
	// The hash hit names a game that looks nothing like the filename; the
	// content match is still trusted, at the lower confidence tier.
	hashes := hashing.FileHashes{MD5: "abc"}

	ss := newMockHashProvider("screenscraper")
	ss.On("LookupByHash", mock.Anything).
		Return(&GameResult{Name: "Qix", Provider: "screenscraper"}, nil)

	c := NewClient(ss)
	result := c.IdentifySmart(context.Background(),
		"Super Mario World (USA).sfc", "snes", hashes, IdentifyOptions{})

	require.NotNil(t, result)
	assert.Equal(t, MatchHash, result.MatchType)
}

func TestIdentifySmart_FilenameUnique(t *testing.T) {
	igdb := newMockProvider("igdb")
	igdb.On("Search", "super mario world", 19, 5).Return([]SearchResult{
		{Name: "Super Mario World", Provider: "igdb", ProviderID: 42},
	}, nil)
	igdb.On("GetByID", 42).
		Return(&GameResult{Name: "Super Mario World", Provider: "igdb", ProviderID: 42}, nil)

	c := NewClient(igdb)
	result := c.IdentifySmart(context.Background(),
		"Super Mario World (USA).sfc", "snes", hashing.FileHashes{}, IdentifyOptions{})

	require.NotNil(t, result)
	assert.Equal(t, MatchFilenameUnique, result.MatchType)
	assert.Equal(t, 42, result.ProviderID)
}

func TestIdentifySmart_BestMatchAccepted(t *testing.T) {
	igdb := newMockProvider("igdb")
	igdb.On("Search", "super mario world", 19, 5).Return([]SearchResult{
		{Name: "super mario world", Provider: "igdb", ProviderID: 42},
		{Name: "doom eternal", Provider: "igdb", ProviderID: 43},
	}, nil)
	igdb.On("GetByID", 42).
		Return(&GameResult{Name: "Super Mario World", Provider: "igdb", ProviderID: 42}, nil)

	c := NewClient(igdb)
	result := c.IdentifySmart(context.Background(),
		"Super Mario World (USA).sfc", "snes", hashing.FileHashes{}, IdentifyOptions{})

	require.NotNil(t, result)
	assert.Equal(t, MatchFilenameBest, result.MatchType)
}

func TestIdentifySmart_AmbiguousResultsRejected(t *testing.T) {
	igdb := newMockProvider("igdb")
	igdb.On("Search", "super mario world", 19, 5).Return([]SearchResult{
		{Name: "super mario world", Provider: "igdb", ProviderID: 42},
		{Name: "super mario world 2", Provider: "igdb", ProviderID: 43},
	}, nil)

	c := NewClient(igdb)
	result := c.IdentifySmart(context.Background(),
		"Super Mario World (USA).sfc", "snes", hashing.FileHashes{}, IdentifyOptions{})

	assert.Nil(t, result, "a close runner-up makes the result ambiguous")
	igdb.AssertNotCalled(t, "GetByID", mock.Anything)
}

func TestIdentifySmart_NoSearchResults(t *testing.T) {
	igdb := newMockProvider("igdb")
	igdb.On("Search", "super mario world", 19, 5).Return(nil, nil)

	c := NewClient(igdb)
	result := c.IdentifySmart(context.Background(),
		"Super Mario World (USA).sfc", "snes", hashing.FileHashes{}, IdentifyOptions{})

	assert.Nil(t, result)
}

func TestIdentifySmart_FirstMatchFallback(t *testing.T) {
	igdb := newMockProvider("igdb")
	igdb.On("Identify", "Super Mario World (USA).sfc", 19).
		Return(&GameResult{Name: "Super Mario World", Provider: "igdb"}, nil)

	c := NewClient(igdb)
	result := c.IdentifySmart(context.Background(),
		"Super Mario World (USA).sfc", "snes", hashing.FileHashes{}, IdentifyOptions{FirstMatch: true})

	require.NotNil(t, result)
	assert.Equal(t, MatchFilename, result.MatchType)
	igdb.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestIdentifySmart_HashMissFallsBackToFilename(t *testing.T) {
	hashes := hashing.FileHashes{MD5: "abc"}

	ss := newMockHashProvider("screenscraper")
	ss.On("LookupByHash", mock.Anything).Return(nil, nil)
	ss.On("Search", "super mario world", 4, 5).Return([]SearchResult{
		{Name: "Super Mario World", Provider: "screenscraper", ProviderID: 9},
	}, nil)
	ss.On("GetByID", 9).
		Return(&GameResult{Name: "Super Mario World", Provider: "screenscraper", ProviderID: 9}, nil)

	c := NewClient(ss)
	result := c.IdentifySmart(context.Background(),
		"Super Mario World (USA).sfc", "snes", hashes, IdentifyOptions{})

	require.NotNil(t, result)
	assert.Equal(t, MatchFilenameUnique, result.MatchType)
}

func TestGetByID(t *testing.T) {
	igdb := newMockProvider("igdb")
	igdb.On("GetByID", 42).
		Return(&GameResult{Name: "Super Mario World", Provider: "igdb", ProviderID: 42}, nil)

	c := NewClient(igdb)
	result, err := c.GetByID(context.Background(), "igdb", 42)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "Super Mario World", result.Name)
}

func TestGetByID_UnknownProvider(t *testing.T) {
	c := NewClient()
	_, err := c.GetByID(context.Background(), "igdb", 42)
	assert.Error(t, err)
}

func TestGetByID_SurfacesProviderError(t *testing.T) {
	igdb := newMockProvider("igdb")
	igdb.On("GetByID", 42).Return(nil, fmt.Errorf("boom"))

	c := NewClient(igdb)
	_, err := c.GetByID(context.Background(), "igdb", 42)
	assert.Error(t, err)
}

func TestHeartbeat(t *testing.T) {
	igdb := newMockProvider("igdb")
	igdb.On("Heartbeat").Return(nil)
	moby := newMockProvider("mobygames")
	moby.On("Heartbeat").Return(fmt.Errorf("unreachable"))

	c := NewClient(igdb, moby)
	status := c.Heartbeat(context.Background())

	assert.Equal(t, map[string]bool{"igdb": true, "mobygames": false}, status)
}

func TestClose_KeepsFirstError(t *testing.T) {
	igdb := newMockProvider("igdb")
	igdb.closeErr = fmt.Errorf("first")
	moby := newMockProvider("mobygames")
	moby.closeErr = fmt.Errorf("second")

	c := NewClient(igdb, moby)
	err := c.Close()
	require.Error(t, err)
	assert.Equal(t, "first", err.Error())
}

func TestCleanNameForMatch(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"tags and extension", "Super Mario World (USA) [!].sfc", "super mario world"},
		{"no tags", "Chrono Trigger.sfc", "chrono trigger"},
		{"no extension", "Chrono Trigger", "chrono trigger"},
		{"whitespace collapsed", "Final   Fantasy  VI (Japan).sfc", "final fantasy vi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanNameForMatch(tt.filename))
		})
	}
}

func TestHashInputsPresent(t *testing.T) {
	md5Only := HashRequest{Hashes: hashing.FileHashes{MD5: "abc"}}
	sha1Only := HashRequest{Hashes: hashing.FileHashes{SHA1: "def"}}
	full := HashRequest{
		Hashes:   hashing.FileHashes{MD5: "abc", SHA1: "def", Size: 1024},
		Filename: "game.sfc",
	}

	assert.True(t, hashInputsPresent("retroachievements", md5Only))
	assert.False(t, hashInputsPresent("retroachievements", sha1Only))

	assert.False(t, hashInputsPresent("playmatch", md5Only))
	assert.True(t, hashInputsPresent("playmatch", full))

	assert.True(t, hashInputsPresent("screenscraper", sha1Only))
	assert.False(t, hashInputsPresent("screenscraper", HashRequest{}))
	assert.True(t, hashInputsPresent("hasheous", md5Only))
}
