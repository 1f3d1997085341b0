package metadata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanm101/gamemeta/cache"
	"github.com/ryanm101/gamemeta/hashing"
)

func TestCachedProvider_SearchServedFromCache(t *testing.T) {
	inner := newMockProvider("igdb")
	inner.On("Search", "mario", 19, 10).Return([]SearchResult{
		{Name: "Super Mario World", Provider: "igdb", ProviderID: 1},
	}, nil).Once()

	p := NewCachedProvider(inner, cache.NewMemory(10, time.Minute), time.Minute)
	ctx := context.Background()

	first, err := p.Search(ctx, "mario", 19, 10)
	require.NoError(t, err)
	second, err := p.Search(ctx, "mario", 19, 10)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	inner.AssertExpectations(t)
}

func TestCachedProvider_EmptyResultsNotCached(t *testing.T) {
	inner := newMockProvider("igdb")
	inner.On("Search", "nothing", 19, 10).Return(nil, nil).Twice()

	p := NewCachedProvider(inner, cache.NewMemory(10, time.Minute), time.Minute)
	ctx := context.Background()

	_, err := p.Search(ctx, "nothing", 19, 10)
	require.NoError(t, err)
	_, err = p.Search(ctx, "nothing", 19, 10)
	require.NoError(t, err)

	inner.AssertExpectations(t)
}

func TestCachedProvider_GetByIDServedFromCache(t *testing.T) {
	inner := newMockProvider("igdb")
	inner.On("GetByID", 42).
		Return(&GameResult{Name: "Super Mario World", Provider: "igdb", ProviderID: 42}, nil).Once()

	p := NewCachedProvider(inner, cache.NewMemory(10, time.Minute), time.Minute)
	ctx := context.Background()

	first, err := p.GetByID(ctx, 42)
	require.NoError(t, err)
	second, err := p.GetByID(ctx, 42)
	require.NoError(t, err)

	require.NotNil(t, second)
	assert.Equal(t, first.Name, second.Name)
	inner.AssertExpectations(t)
}

func TestCachedProvider_HashLookupServedFromCache(t *testing.T) {
	req := HashLookup{PlatformID: 4, Hashes: hashing.FileHashes{MD5: "abc", Size: 1024}}

	inner := newMockHashProvider("screenscraper")
	inner.On("LookupByHash", req).
		Return(&GameResult{Name: "Super Mario World", Provider: "screenscraper"}, nil).Once()

	p := NewCachedProvider(inner, cache.NewMemory(10, time.Minute), time.Minute)
	lookuper, ok := p.(HashLookuper)
	require.True(t, ok, "wrapping must preserve hash lookup support")

	ctx := context.Background()
	first, err := lookuper.LookupByHash(ctx, req)
	require.NoError(t, err)
	second, err := lookuper.LookupByHash(ctx, req)
	require.NoError(t, err)

	require.NotNil(t, second)
	assert.Equal(t, first.Name, second.Name)
	inner.AssertExpectations(t)
}

func TestCachedProvider_PlainProviderStaysPlain(t *testing.T) {
	inner := newMockProvider("igdb")
	p := NewCachedProvider(inner, cache.NewMemory(10, time.Minute), time.Minute)

	_, ok := p.(HashLookuper)
	assert.False(t, ok, "wrapping must not invent hash lookup support")
}

func TestNewCachedProvider_NullCacheUnwrapped(t *testing.T) {
	inner := newMockProvider("igdb")

	assert.Equal(t, Provider(inner), NewCachedProvider(inner, cache.Null{}, time.Minute))
	assert.Equal(t, Provider(inner), NewCachedProvider(inner, nil, time.Minute))
}
