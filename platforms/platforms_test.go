package platforms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestID(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		slug     string
		wantID   int
		wantOK   bool
	}{
		{"igdb snes", "igdb", "snes", 19, true},
		{"igdb psx", "igdb", "psx", 7, true},
		{"mobygames snes", "mobygames", "snes", 15, true},
		{"mobygames switch", "mobygames", "switch", 203, true},
		{"screenscraper snes", "screenscraper", "snes", 4, true},
		{"retroachievements snes", "retroachievements", "snes", 3, true},
		{"unknown slug", "igdb", "not-a-platform", 0, false},
		{"unknown provider", "hasheous", "snes", 0, false},
		{"empty provider", "", "snes", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ID(tt.provider, tt.slug)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestSlugs(t *testing.T) {
	slugs := Slugs("igdb")
	assert.NotEmpty(t, slugs)
	assert.Contains(t, slugs, "snes")
	assert.Contains(t, slugs, "psx")

	assert.Nil(t, Slugs("hasheous"))
	assert.Nil(t, Slugs(""))
}

func TestProvidersShareCoreSlugs(t *testing.T) {
	for _, provider := range []string{"igdb", "mobygames", "screenscraper", "retroachievements"} {
		for _, slug := range []string{"snes", "nes", "genesis", "gb"} {
			_, ok := ID(provider, slug)
			assert.True(t, ok, "%s should map %s", provider, slug)
		}
	}
}
