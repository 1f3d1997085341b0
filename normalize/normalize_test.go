package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchTerm(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "Super Mario World", "super mario world"},
		{"underscores", "super_mario_world", "super mario world"},
		{"leading article", "The Legend of Zelda", "legend of zelda"},
		{"leading a", "A Bug's Life", "bug s life"},
		{"trailing article", "Legend of Zelda, The", "legend of zelda"},
		{"trailing article before symbol", "Legend of Zelda, The: Ocarina of Time", "legend of zelda ocarina of time"},
		{"punctuation collapsed", "Sonic & Knuckles", "sonic knuckles"},
		{"hyphenated", "F-Zero", "f zero"},
		{"accents removed", "Pokémon", "pokemon"},
		{"multiple spaces collapsed", "Super  Mario   World", "super mario world"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SearchTermDefault(tt.input))
		})
	}
}

func TestSearchTerm_Idempotent(t *testing.T) {
	inputs := []string{
		"The Legend of Zelda",
		"Pokémon Stadium",
		"Sonic & Knuckles",
		"already normalized",
	}

	for _, input := range inputs {
		once := SearchTermDefault(input)
		twice := SearchTermDefault(once)
		assert.Equal(t, once, twice, "normalizing %q twice changed the result", input)
	}
}

func TestSearchTerm_KeepArticles(t *testing.T) {
	assert.Equal(t, "the legend of zelda", SearchTerm("The Legend of Zelda", false, true))
}

func TestSearchTerm_KeepPunctuation(t *testing.T) {
	assert.Equal(t, "sonic & knuckles", SearchTerm("Sonic & Knuckles", true, false))
}

func TestSearchTerm_Memoized(t *testing.T) {
	// Same input twice must return the identical result via the cache.
	first := SearchTermDefault("Chrono Trigger")
	second := SearchTermDefault("Chrono Trigger")
	assert.Equal(t, first, second)

	key := memoKey{"Chrono Trigger", true, true}
	cached, ok := memo.Load(key)
	assert.True(t, ok)
	assert.Equal(t, first, cached.(string))
}

func TestSplitSearchTerm(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"Legend of Zelda: Ocarina of Time", 2},
		{"F-Zero", 2},
		{"Sonic & Knuckles", 2},
		{"Plain Title", 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Len(t, SplitSearchTerm(tt.input), tt.expected)
		})
	}
}

func TestForAPI(t *testing.T) {
	assert.Equal(t, "Zelda: Ocarina", ForAPI("Zelda - Ocarina"))
	assert.Equal(t, "Zelda: Ocarina", ForAPI("Zelda : Ocarina"))
	assert.Equal(t, "F-Zero", ForAPI("F-Zero"))
}

func TestCoverURL(t *testing.T) {
	assert.Equal(t, "https://images.igdb.com/a.jpg", CoverURL("//images.igdb.com/a.jpg"))
	assert.Equal(t, "https://images.igdb.com/a.jpg", CoverURL("https://images.igdb.com/a.jpg"))
	assert.Equal(t, "", CoverURL(""))
}

func TestStripSensitiveParams(t *testing.T) {
	stripped := StripSensitiveParams("https://api.example.com/games?recherche=mario&ssid=user&sspassword=secret&devid=dev")
	assert.Contains(t, stripped, "recherche=mario")
	assert.NotContains(t, stripped, "secret")
	assert.NotContains(t, stripped, "ssid")
	assert.NotContains(t, stripped, "devid")
}

func TestMaskSensitiveValues(t *testing.T) {
	masked := MaskSensitiveValues(map[string]string{
		"Authorization": "Bearer abcdef123456",
		"api_key":       "topsecretkey",
		"softname":      "gamemeta",
	})

	assert.Equal(t, "Bearer ab***56", masked["Authorization"])
	assert.Equal(t, "to***ey", masked["api_key"])
	assert.Equal(t, "gamemeta", masked["softname"])
}
