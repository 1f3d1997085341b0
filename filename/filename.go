// Package filename parses ROM filenames following common naming conventions.
package filename

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// tagPattern matches bracketed or parenthesized tags, non-greedy per pair.
	tagPattern = regexp.MustCompile(`[(\[]([^)\]]+)[)\]]`)
	// extensionPattern matches a trailing dot-separated extension.
	extensionPattern = regexp.MustCompile(`\.([a-zA-Z0-9]+)$`)
)

// regionTags maps region aliases found in filename tags to normalized codes.
var regionTags = map[string]string{
	"usa":         "us",
	"u":           "us",
	"us":          "us",
	"america":     "us",
	"world":       "wor",
	"w":           "wor",
	"wor":         "wor",
	"europe":      "eu",
	"e":           "eu",
	"eu":          "eu",
	"eur":         "eu",
	"japan":       "jp",
	"j":           "jp",
	"jp":          "jp",
	"jpn":         "jp",
	"jap":         "jp",
	"korea":       "kr",
	"k":           "kr",
	"kr":          "kr",
	"kor":         "kr",
	"china":       "cn",
	"ch":          "cn",
	"cn":          "cn",
	"chn":         "cn",
	"taiwan":      "tw",
	"tw":          "tw",
	"asia":        "as",
	"as":          "as",
	"australia":   "au",
	"au":          "au",
	"brazil":      "br",
	"br":          "br",
	"france":      "fr",
	"fr":          "fr",
	"germany":     "de",
	"de":          "de",
	"ger":         "de",
	"italy":       "it",
	"it":          "it",
	"spain":       "es",
	"es":          "es",
	"spa":         "es",
	"netherlands": "nl",
	"nl":          "nl",
	"sweden":      "se",
	"se":          "se",
	"russia":      "ru",
	"ru":          "ru",
}

// languageCodes are the two-letter codes recognized as language tags.
var languageCodes = map[string]struct{}{
	"en": {}, "ja": {}, "de": {}, "fr": {}, "es": {}, "it": {},
	"nl": {}, "pt": {}, "sv": {}, "ko": {}, "zh": {},
}

// Extension returns the lowercase file extension without the dot, or an
// empty string if the filename has none.
func Extension(filename string) string {
	m := extensionPattern.FindStringSubmatch(filename)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// Tags extracts the contents of every parenthesized or bracketed tag, in
// left-to-right order.
//
//	Tags("Super Mario World (USA) [!].sfc") // ["USA", "!"]
func Tags(filename string) []string {
	matches := tagPattern.FindAllStringSubmatch(filename, -1)
	if matches == nil {
		return nil
	}
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return tags
}

// Region returns the normalized region code ("us", "eu", "jp", ...) for the
// first tag piece matching a known alias, or an empty string if none match.
// Comma-separated tags like "USA, Europe" are checked left to right.
func Region(filename string) string {
	for _, tag := range Tags(filename) {
		tagLower := strings.ToLower(strings.TrimSpace(tag))
		for _, part := range strings.Split(tagLower, ",") {
			if code, ok := regionTags[strings.TrimSpace(part)]; ok {
				return code
			}
		}
	}
	return ""
}

// Clean strips the directory path, all bracketed tags, and optionally the
// extension from a filename, collapsing whitespace.
//
//	Clean("Super Mario World (USA) [!].sfc", true) // "Super Mario World"
func Clean(filename string, removeExtension bool) string {
	name := filepath.Base(filename)

	ext := ""
	if !removeExtension {
		if m := extensionPattern.FindString(name); m != "" {
			ext = m
		}
	}
	name = extensionPattern.ReplaceAllString(name, "")
	name = tagPattern.ReplaceAllString(name, "")
	name = strings.Join(strings.Fields(name), " ")

	if ext != "" {
		name += ext
	}
	return strings.TrimSpace(name)
}

// NoIntroName holds the parsed components of a No-Intro convention filename:
// "Title (Region) (Language) (Version) (Other Tags)".
type NoIntroName struct {
	Name      string
	Region    string
	Version   string
	Languages []string
	Extension string
	Tags      []string
}

// ParseNoIntro parses a No-Intro convention filename into its components.
func ParseNoIntro(filename string) NoIntroName {
	parsed := NoIntroName{
		Name:      Clean(filename, true),
		Region:    Region(filename),
		Extension: Extension(filename),
		Tags:      Tags(filename),
	}

	for _, tag := range parsed.Tags {
		lower := strings.ToLower(tag)
		if strings.HasPrefix(lower, "rev ") || strings.HasPrefix(lower, "v") ||
			strings.HasPrefix(lower, "version") {
			parsed.Version = tag
			break
		}
	}

	for _, tag := range parsed.Tags {
		lower := strings.ToLower(tag)
		_, isCode := languageCodes[lower]
		if isCode || strings.Contains(lower, "+") {
			parsed.Languages = append(parsed.Languages, tag)
		}
	}

	return parsed
}

// IsBIOS reports whether the filename looks like a BIOS image.
func IsBIOS(filename string) bool {
	lower := strings.ToLower(filename)
	for _, indicator := range []string{"bios", "[bios]", "(bios)"} {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// demoTags mark pre-release or demonstration dumps.
var demoTags = map[string]struct{}{
	"demo": {}, "sample": {}, "trial": {}, "preview": {},
	"proto": {}, "prototype": {}, "beta": {}, "alpha": {},
}

// IsDemo reports whether any tag marks the file as a demo or pre-release.
func IsDemo(filename string) bool {
	for _, tag := range Tags(filename) {
		if _, ok := demoTags[strings.ToLower(tag)]; ok {
			return true
		}
	}
	return false
}

// unlicensedTags mark unlicensed, pirated or hacked dumps.
var unlicensedTags = map[string]struct{}{
	"unl": {}, "unlicensed": {}, "pirate": {}, "hack": {},
}

// IsUnlicensed reports whether any tag marks the file as unlicensed.
func IsUnlicensed(filename string) bool {
	for _, tag := range Tags(filename) {
		if _, ok := unlicensedTags[strings.ToLower(tag)]; ok {
			return true
		}
	}
	return false
}
