package filename

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"simple", "game.sfc", "sfc"},
		{"uppercase", "GAME.SFC", "sfc"},
		{"with tags", "Super Mario World (USA).sfc", "sfc"},
		{"multiple dots", "game.v1.2.bin", "bin"},
		{"no extension", "game", ""},
		{"trailing dot", "game.", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extension(tt.filename))
		})
	}
}

func TestTags(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     []string
	}{
		{"parens and brackets", "Super Mario World (USA) [!].sfc", []string{"USA", "!"}},
		{"multiple parens", "Game (Europe) (Rev 1) (En,Fr).bin", []string{"Europe", "Rev 1", "En,Fr"}},
		{"no tags", "plain.sfc", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tags(tt.filename))
		})
	}
}

func TestRegion(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"usa", "Super Mario World (USA).sfc", "us"},
		{"single letter", "Super Mario World (U) [!].smc", "us"},
		{"combined tag", "Game (USA, Europe).sfc", "us"},
		{"europe", "Game (Europe).bin", "eu"},
		{"japan alias", "Game (Jpn).bin", "jp"},
		{"world", "Game (World).bin", "wor"},
		{"first matching tag wins", "Game (Rev 1) (Japan).bin", "jp"},
		{"unknown tag", "Game (Proto).bin", ""},
		{"no tags", "game.bin", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Region(tt.filename))
		})
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		removeExt bool
		want      string
	}{
		{"tags and extension", "Super Mario World (USA) [!].sfc", true, "Super Mario World"},
		{"keep extension", "Super Mario World (USA).sfc", false, "Super Mario World.sfc"},
		{"directory stripped", "/roms/snes/Super Mario World (USA).sfc", true, "Super Mario World"},
		{"whitespace collapsed", "Game  Name   (USA).bin", true, "Game Name"},
		{"no tags", "Chrono Trigger.sfc", true, "Chrono Trigger"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.filename, tt.removeExt))
		})
	}
}

func TestParseNoIntro(t *testing.T) {
	parsed := ParseNoIntro("Super Mario World (USA) (Rev 1).sfc")

	assert.Equal(t, "Super Mario World", parsed.Name)
	assert.Equal(t, "us", parsed.Region)
	assert.Equal(t, "Rev 1", parsed.Version)
	assert.Equal(t, "sfc", parsed.Extension)
	assert.Equal(t, []string{"USA", "Rev 1"}, parsed.Tags)
	assert.Empty(t, parsed.Languages)
}

func TestParseNoIntro_Languages(t *testing.T) {
	parsed := ParseNoIntro("Game (Europe) (En+Fr+De) (v1.1).bin")

	assert.Equal(t, "Game", parsed.Name)
	assert.Equal(t, "eu", parsed.Region)
	assert.Equal(t, "v1.1", parsed.Version)
	assert.Equal(t, []string{"En+Fr+De"}, parsed.Languages)
}

func TestParseNoIntro_SingleLanguageCode(t *testing.T) {
	parsed := ParseNoIntro("Game (Japan) (En).bin")
	assert.Equal(t, []string{"En"}, parsed.Languages)
}

func TestParseNoIntro_NoTags(t *testing.T) {
	parsed := ParseNoIntro("Chrono Trigger.sfc")

	assert.Equal(t, "Chrono Trigger", parsed.Name)
	assert.Equal(t, "", parsed.Region)
	assert.Equal(t, "", parsed.Version)
	assert.Empty(t, parsed.Tags)
}

func TestIsBIOS(t *testing.T) {
	assert.True(t, IsBIOS("[BIOS] PlayStation (USA).bin"))
	assert.True(t, IsBIOS("scph5501.bios"))
	assert.False(t, IsBIOS("Super Mario World (USA).sfc"))
}

func TestIsDemo(t *testing.T) {
	assert.True(t, IsDemo("Game (USA) (Demo).bin"))
	assert.True(t, IsDemo("Game (Japan) (Proto).bin"))
	assert.True(t, IsDemo("Game (Beta).bin"))
	assert.False(t, IsDemo("Game (USA).bin"))
	assert.False(t, IsDemo("Demolition Derby (USA).bin"), "demo must be a tag, not part of the title")
}

func TestIsUnlicensed(t *testing.T) {
	assert.True(t, IsUnlicensed("Game (USA) (Unl).bin"))
	assert.True(t, IsUnlicensed("Game (Pirate).bin"))
	assert.False(t, IsUnlicensed("Game (USA).bin"))
}
