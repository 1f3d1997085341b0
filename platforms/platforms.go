// Package platforms maps universal platform slugs to provider-specific IDs.
//
// Slugs are lowercase universal identifiers ("snes", "psx", "genesis").
// Only providers whose APIs filter by platform carry a table here; providers
// absent from the tables (for example Hasheous) identify by content alone.
package platforms

// igdbPlatformIDs maps universal slugs to IGDB platform IDs.
var igdbPlatformIDs = map[string]int{
	"3do":                  50,
	"3ds":                  37,
	"n64":                  4,
	"n64dd":                416,
	"arcade":               52,
	"atari2600":            59,
	"atari5200":            66,
	"atari7800":            60,
	"c64":                  15,
	"dc":                   23,
	"dos":                  13,
	"famicom":              99,
	"fds":                  51,
	"gb":                   33,
	"gba":                  24,
	"gbc":                  22,
	"genesis":              29,
	"gamegear":             35,
	"jaguar":               62,
	"lynx":                 61,
	"mac":                  14,
	"msx":                  27,
	"msx2":                 53,
	"nds":                  20,
	"neo-geo-cd":           136,
	"neo-geo-pocket":       119,
	"neo-geo-pocket-color": 120,
	"neogeoaes":            80,
	"neogeomvs":            79,
	"nes":                  18,
	"ngc":                  21,
	"pc-fx":                274,
	"ps2":                  8,
	"ps3":                  9,
	"ps4":                  48,
	"ps5":                  167,
	"psp":                  38,
	"psvita":               46,
	"psx":                  7,
	"saturn":               32,
	"sega32":               30,
	"segacd":               78,
	"sfam":                 58,
	"sg1000":               84,
	"sms":                  64,
	"snes":                 19,
	"supergrafx":           128,
	"switch":               130,
	"tg16":                 86,
	"turbografx-cd":        150,
	"vectrex":              70,
	"virtualboy":           87,
	"wii":                  5,
	"wiiu":                 41,
	"win":                  6,
	"wonderswan":           57,
	"wonderswan-color":     123,
	"xbox":                 11,
	"xbox360":              12,
	"xboxone":              49,
	"zxs":                  26,
}

// mobygamesPlatformIDs maps universal slugs to MobyGames platform IDs.
var mobygamesPlatformIDs = map[string]int{
	"3do":                  35,
	"3ds":                  101,
	"n64":                  9,
	"arcade":               143,
	"atari2600":            28,
	"atari5200":            33,
	"atari7800":            34,
	"c64":                  27,
	"dc":                   8,
	"dos":                  2,
	"famicom":              22,
	"gb":                   10,
	"gba":                  12,
	"gbc":                  11,
	"genesis":              16,
	"gamegear":             25,
	"jaguar":               17,
	"lynx":                 18,
	"mac":                  74,
	"msx":                  57,
	"nds":                  44,
	"neo-geo-cd":           54,
	"neo-geo-pocket":       52,
	"neo-geo-pocket-color": 53,
	"neogeoaes":            36,
	"nes":                  22,
	"ngc":                  14,
	"pc-fx":                59,
	"ps2":                  7,
	"ps3":                  81,
	"ps4":                  141,
	"ps5":                  288,
	"psp":                  46,
	"psvita":               105,
	"psx":                  6,
	"saturn":               23,
	"sega32":               21,
	"segacd":               20,
	"sfam":                 15,
	"sg1000":               114,
	"sms":                  26,
	"snes":                 15,
	"supergrafx":           127,
	"switch":               203,
	"tg16":                 40,
	"turbografx-cd":        45,
	"vectrex":              37,
	"virtualboy":           38,
	"wii":                  82,
	"wiiu":                 132,
	"win":                  3,
	"wonderswan":           48,
	"wonderswan-color":     49,
	"xbox":                 13,
	"xbox360":              69,
	"xboxone":              142,
	"zxs":                  41,
}

// screenscraperPlatformIDs maps universal slugs to ScreenScraper system IDs.
var screenscraperPlatformIDs = map[string]int{
	"3do":                  29,
	"3ds":                  17,
	"n64":                  14,
	"arcade":               75,
	"atari2600":            26,
	"atari5200":            40,
	"atari7800":            41,
	"c64":                  66,
	"dc":                   23,
	"dos":                  135,
	"famicom":              3,
	"fds":                  106,
	"gb":                   9,
	"gba":                  12,
	"gbc":                  10,
	"genesis":              1,
	"gamegear":             21,
	"jaguar":               27,
	"lynx":                 28,
	"msx":                  113,
	"msx2":                 116,
	"nds":                  15,
	"neo-geo-cd":           70,
	"neo-geo-pocket":       25,
	"neo-geo-pocket-color": 82,
	"neogeoaes":            142,
	"nes":                  3,
	"ngc":                  13,
	"pc-fx":                72,
	"ps2":                  58,
	"ps3":                  59,
	"psp":                  61,
	"psvita":               62,
	"psx":                  57,
	"saturn":               22,
	"sega32":               19,
	"segacd":               20,
	"sfam":                 4,
	"sg1000":               109,
	"sms":                  2,
	"snes":                 4,
	"supergrafx":           105,
	"switch":               225,
	"tg16":                 31,
	"turbografx-cd":        114,
	"vectrex":              102,
	"virtualboy":           11,
	"wii":                  16,
	"wiiu":                 18,
	"wonderswan":           45,
	"wonderswan-color":     46,
	"xbox":                 32,
	"xbox360":              33,
	"zxs":                  76,
}

// retroachievementsPlatformIDs maps universal slugs to RA console IDs.
var retroachievementsPlatformIDs = map[string]int{
	"3do":            43,
	"n64":            2,
	"arcade":         27,
	"atari2600":      25,
	"atari7800":      51,
	"dc":             40,
	"famicom":        7,
	"gb":             4,
	"gba":            5,
	"gbc":            6,
	"genesis":        1,
	"gamegear":       15,
	"jaguar":         17,
	"lynx":           13,
	"msx":            29,
	"nds":            18,
	"neo-geo-pocket": 14,
	"neogeoaes":      27,
	"nes":            7,
	"ngc":            16,
	"pc-fx":          49,
	"ps2":            21,
	"psp":            41,
	"psx":            12,
	"saturn":         39,
	"sega32":         10,
	"segacd":         9,
	"sfam":           3,
	"sg1000":         33,
	"sms":            11,
	"snes":           3,
	"supergrafx":     8,
	"tg16":           8,
	"vectrex":        46,
	"virtualboy":     28,
	"wonderswan":     53,
}

var providerPlatformIDs = map[string]map[string]int{
	"igdb":              igdbPlatformIDs,
	"mobygames":         mobygamesPlatformIDs,
	"screenscraper":     screenscraperPlatformIDs,
	"retroachievements": retroachievementsPlatformIDs,
}

// ID returns the provider-specific platform ID for a universal slug. The
// second return value is false when the provider has no mapping table or the
// slug is unknown to it.
func ID(provider, slug string) (int, bool) {
	table, ok := providerPlatformIDs[provider]
	if !ok {
		return 0, false
	}
	id, ok := table[slug]
	return id, ok
}

// Slugs returns the universal slugs a provider has mappings for.
func Slugs(provider string) []string {
	table, ok := providerPlatformIDs[provider]
	if !ok {
		return nil
	}
	slugs := make([]string, 0, len(table))
	for slug := range table {
		slugs = append(slugs, slug)
	}
	return slugs
}
