// Package match provides game name matching using Jaro-Winkler similarity.
package match

import (
	"regexp"
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/ryanm101/gamemeta/normalize"
)

// DefaultMinSimilarity is the default minimum similarity score for a match.
const DefaultMinSimilarity = 0.75

// jaroWinkler is a reusable metric instance. Standard boost threshold and
// prefix weighting (prefix length 4, scaling factor 0.1).
var jaroWinkler = metrics.NewJaroWinkler()

// subtitlePattern splits candidate names on subtitle delimiters. Unlike the
// normalization splitter this excludes "&": "Game & Other" is one title,
// not a title with a subtitle.
var subtitlePattern = regexp.MustCompile(`[:\-/]`)

// Similarity calculates the Jaro-Winkler similarity between two strings.
// The comparison is case-sensitive; callers are expected to normalize case
// beforehand. Identical strings (including two empty strings) score 1.0,
// exactly one empty string scores 0.0.
func Similarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}
	if s1 == "" || s2 == "" {
		return 0.0
	}
	return strutil.Similarity(s1, s2, jaroWinkler)
}

// Options configures FindBestMatch.
type Options struct {
	// MinScore is the minimum similarity score to consider a match.
	MinScore float64
	// SplitCandidateName matches against the last delimiter-separated part
	// of candidate names containing subtitles ("Game: Subtitle").
	SplitCandidateName bool
	// Normalize runs both sides through normalize.SearchTermDefault before
	// comparison. When false only lowercasing and trimming is applied.
	Normalize bool
	// FirstNOnly limits matching to the first N candidates (0 = no limit).
	FirstNOnly int
}

// DefaultOptions returns the options used by FindBestMatchSimple.
func DefaultOptions() Options {
	return Options{
		MinScore:  DefaultMinSimilarity,
		Normalize: true,
	}
}

// FindBestMatch finds the best matching name from a list of candidates.
//
// Candidates are scanned in input order; the first candidate keeps a tied
// score, and a perfect score stops the scan early. It returns the original
// (non-normalized) candidate string and its score, or ("", 0.0) when no
// candidate reaches MinScore. Note that a rejection reports 0.0 rather than
// the best sub-threshold score found; callers cannot distinguish "nothing
// similar at all" from "best candidate just missed the threshold".
func FindBestMatch(searchTerm string, candidates []string, opts Options) (string, float64) {
	if len(candidates) == 0 {
		return "", 0.0
	}

	termNormalized := normalizeSide(searchTerm, opts.Normalize)

	toCheck := candidates
	if opts.FirstNOnly > 0 && opts.FirstNOnly < len(candidates) {
		toCheck = candidates[:opts.FirstNOnly]
	}

	var bestMatch string
	var bestScore float64

	for _, candidate := range toCheck {
		candidateNormalized := normalizeSide(candidate, opts.Normalize)

		if opts.SplitCandidateName {
			if parts := subtitlePattern.Split(candidate, -1); len(parts) > 1 {
				candidateNormalized = normalizeSide(parts[len(parts)-1], opts.Normalize)
			}
		}

		score := Similarity(termNormalized, candidateNormalized)
		if score > bestScore {
			bestScore = score
			bestMatch = candidate

			if score == 1.0 {
				break
			}
		}
	}

	if bestScore >= opts.MinScore {
		return bestMatch, bestScore
	}
	return "", 0.0
}

// FindBestMatchSimple finds the best match using default options.
func FindBestMatchSimple(searchTerm string, candidates []string) (string, float64) {
	return FindBestMatch(searchTerm, candidates, DefaultOptions())
}

// Result is a candidate name paired with its similarity score.
type Result struct {
	Name  string
	Score float64
}

// FindAllMatches returns every candidate scoring at or above minScore,
// sorted by descending score and truncated to maxResults (0 = no limit).
func FindAllMatches(searchTerm string, candidates []string, minScore float64, maxResults int) []Result {
	if len(candidates) == 0 {
		return nil
	}

	termNormalized := normalize.SearchTermDefault(searchTerm)

	var matches []Result
	for _, candidate := range candidates {
		score := Similarity(termNormalized, normalize.SearchTermDefault(candidate))
		if score >= minScore {
			matches = append(matches, Result{Name: candidate, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if maxResults > 0 && len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches
}

// IsExactMatch reports whether two names are identical after normalization.
func IsExactMatch(s1, s2 string, normalizeFirst bool) bool {
	return normalizeSide(s1, normalizeFirst) == normalizeSide(s2, normalizeFirst)
}

// Confidence buckets a match into a human-readable confidence level:
// "exact", "high", "medium", "low" or "none".
func Confidence(searchTerm, matchedName string, normalizeFirst bool) string {
	s1 := normalizeSide(searchTerm, normalizeFirst)
	s2 := normalizeSide(matchedName, normalizeFirst)

	if s1 == s2 {
		return "exact"
	}

	switch score := Similarity(s1, s2); {
	case score >= 0.95:
		return "high"
	case score >= 0.85:
		return "medium"
	case score >= 0.75:
		return "low"
	default:
		return "none"
	}
}

func normalizeSide(s string, full bool) string {
	if full {
		return normalize.SearchTermDefault(s)
	}
	return strings.ToLower(strings.TrimSpace(s))
}
