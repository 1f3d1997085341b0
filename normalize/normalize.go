// Package normalize canonicalizes game titles and search terms for matching.
package normalize

import (
	"net/url"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	leadingArticlePattern  = regexp.MustCompile(`(?i)^(a|an|the)\b`)
	commaArticleTailOnly   = regexp.MustCompile(`(?i),\s(a|an|the)\b$`)
	commaArticleBeforeSym  = regexp.MustCompile(`(?i),\s(a|an|the)\b(\s*[^\w\s])`)
	nonWordSpacePattern    = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	multipleSpacePattern   = regexp.MustCompile(`\s+`)
	searchTermSplitPattern = regexp.MustCompile(`[:\-/&]`)
	apiTermPattern         = regexp.MustCompile(`\s*[:\-]\s+`)
)

type memoKey struct {
	name           string
	removeArticles bool
	removePunct    bool
}

// memo caches normalized terms for the process lifetime. Normalization is
// pure, so entries are add-only and never invalidated.
var memo sync.Map

// SearchTerm normalizes a game name or search term for comparison.
//
// The name is lowercased, underscores become spaces, leading and trailing
// articles are optionally stripped ("The Legend of Zelda" and
// "Legend of Zelda, The" both normalize to "legend of zelda"), punctuation
// is optionally collapsed to spaces, and accents are decomposed and removed.
func SearchTerm(name string, removeArticles, removePunctuation bool) string {
	key := memoKey{name, removeArticles, removePunctuation}
	if cached, ok := memo.Load(key); ok {
		return cached.(string)
	}

	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, "_", " ")

	if removeArticles {
		s = leadingArticlePattern.ReplaceAllString(s, "")
		s = commaArticleBeforeSym.ReplaceAllString(s, "$2")
		s = commaArticleTailOnly.ReplaceAllString(s, "")
	}

	if removePunctuation {
		s = nonWordSpacePattern.ReplaceAllString(s, " ")
		s = multipleSpacePattern.ReplaceAllString(s, " ")
	}

	if !isASCII(s) {
		s = stripCombining(norm.NFD.String(s))
	}

	s = strings.TrimSpace(s)
	memo.Store(key, s)
	return s
}

// SearchTermDefault normalizes with articles and punctuation removal enabled.
func SearchTermDefault(name string) string {
	return SearchTerm(name, true, true)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func stripCombining(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SplitSearchTerm splits a game name on subtitle delimiters (colon, dash,
// slash, ampersand). Useful for titles like "Game: Subtitle".
func SplitSearchTerm(name string) []string {
	return searchTermSplitPattern.Split(name, -1)
}

// ForAPI rewrites subtitle punctuation into the "Title: Subtitle" form most
// provider search endpoints expect.
func ForAPI(searchTerm string) string {
	return apiTermPattern.ReplaceAllString(searchTerm, ": ")
}

// CoverURL ensures a provider cover URL carries an https scheme. Several
// providers return protocol-relative URLs like "//images.igdb.com/...".
func CoverURL(u string) string {
	if u == "" {
		return u
	}
	return "https:" + strings.ReplaceAll(u, "https:", "")
}

// sensitiveKeys are query parameter and header names that must never reach
// the logs. The short names come from the ScreenScraper API.
var sensitiveKeys = map[string]struct{}{
	"authorization": {},
	"client-id":     {},
	"client-secret": {},
	"client_id":     {},
	"client_secret": {},
	"api_key":       {},
	"ssid":          {},
	"sspassword":    {},
	"devid":         {},
	"devpassword":   {},
	"y":             {},
}

// StripSensitiveParams removes credential query parameters from a URL so it
// can be logged. The original URL is returned unchanged if it does not parse.
func StripSensitiveParams(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	q := parsed.Query()
	for key := range q {
		if _, ok := sensitiveKeys[strings.ToLower(key)]; ok {
			q.Del(key)
		}
	}
	parsed.RawQuery = q.Encode()
	return parsed.String()
}

// MaskSensitiveValues masks credential values for logging, leaving the first
// and last two characters of longer tokens visible.
func MaskSensitiveValues(values map[string]string) map[string]string {
	masked := make(map[string]string, len(values))
	for key, val := range values {
		switch {
		case key == "Authorization" && strings.HasPrefix(val, "Bearer "):
			token := strings.TrimPrefix(val, "Bearer ")
			masked[key] = "Bearer " + maskToken(token)
		default:
			if _, ok := sensitiveKeys[strings.ToLower(key)]; ok {
				masked[key] = maskToken(val)
			} else {
				masked[key] = val
			}
		}
	}
	return masked
}

func maskToken(token string) string {
	if len(token) > 4 {
		return token[:2] + "***" + token[len(token)-2:]
	}
	return "***"
}
