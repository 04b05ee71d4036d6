// Package fuzzy scores approximate name similarity and groups likely duplicate player names.
//
// All scorers first normalise their inputs with Process and return an integer in [0, 100].
// Ratio is the LCS-based similarity 2*LCS/(len(a)+len(b)); the token variants compare
// sorted words or word sets, and WRatio picks the best weighted combination.
package fuzzy

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Scorer compares two strings and returns a similarity in [0, 100].
type Scorer func(a, b string) int

const (
	unbaseScale       = 0.95
	partialScale      = 0.9
	longPartialScale  = 0.6
	partialLenRatio   = 1.5
	longPartialCutoff = 8.0
)

// Process lowercases s, turns every non-alphanumeric rune into a space and trims the ends.
func Process(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.TrimSpace(b.String())
}

// Ratio is the normalised LCS similarity of the processed strings.
func Ratio(a, b string) int {
	return score(ratio, a, b)
}

// PartialRatio is the best Ratio of the shorter string against any same-length window
// of the longer one.
func PartialRatio(a, b string) int {
	return score(partialRatio, a, b)
}

// TokenSortRatio compares the strings after sorting their words, so word order is ignored.
func TokenSortRatio(a, b string) int {
	return score(tokenSortRatio, a, b)
}

// TokenSetRatio compares the shared words against each side's leftovers.
func TokenSetRatio(a, b string) int {
	return score(tokenSetRatio, a, b)
}

// WRatio combines the other scorers, weighting partial and token matches below a
// straight Ratio so that exact spellings still win.
func WRatio(a, b string) int {
	return score(wRatio, a, b)
}

func score(fn func(a, b string) float64, a, b string) int {
	pa, pb := Process(a), Process(b)
	if pa == "" || pb == "" {
		return 0
	}
	return int(math.RoundToEven(fn(pa, pb)))
}

// ---- float scorers over already-processed input ----

func ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 0
	}
	return 200 * float64(lcs(ra, rb)) / float64(total)
}

// lcs returns the length of the longest common subsequence using two rolling rows.
func lcs(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for j := 1; j <= len(b); j++ {
		for i := 1; i <= len(a); i++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[i] = prev[i-1] + 1
			case prev[i] >= curr[i-1]:
				curr[i] = prev[i]
			default:
				curr[i] = curr[i-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(a)]
}

func partialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	m, n := len(short), len(long)
	if m == 0 {
		return 0
	}
	s := string(short)
	best := 0.0
	try := func(window []rune) bool {
		if r := ratio(s, string(window)); r > best {
			best = r
		}
		return best >= 100
	}
	for i := 0; i+m <= n; i++ {
		if try(long[i : i+m]) {
			return 100
		}
	}
	// Windows hanging off either end of the longer string.
	for k := 1; k < m && k <= n; k++ {
		if try(long[:k]) || try(long[n-k:]) {
			return 100
		}
	}
	return best
}

func tokens(s string) []string {
	return strings.Fields(s)
}

func sortedTokens(s string) string {
	t := tokens(s)
	sort.Strings(t)
	return strings.Join(t, " ")
}

func tokenSortRatio(a, b string) float64 {
	return ratio(sortedTokens(a), sortedTokens(b))
}

func partialTokenSortRatio(a, b string) float64 {
	return partialRatio(sortedTokens(a), sortedTokens(b))
}

// tokenSets splits both strings into word sets and returns the sorted intersection and
// the sorted words unique to each side.
func tokenSets(a, b string) (sect, onlyA, onlyB []string) {
	setA := make(map[string]struct{})
	for _, t := range tokens(a) {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{})
	for _, t := range tokens(b) {
		setB[t] = struct{}{}
	}
	for t := range setA {
		if _, ok := setB[t]; ok {
			sect = append(sect, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range setB {
		if _, ok := setA[t]; !ok {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(sect)
	sort.Strings(onlyA)
	sort.Strings(onlyB)
	return sect, onlyA, onlyB
}

func tokenSetRatio(a, b string) float64 {
	sect, onlyA, onlyB := tokenSets(a, b)
	if len(sect) > 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}
	base := strings.Join(sect, " ")
	withA := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	withB := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	best := ratio(withA, withB)
	if base != "" {
		best = math.Max(best, ratio(base, withA))
		best = math.Max(best, ratio(base, withB))
	}
	return best
}

func partialTokenSetRatio(a, b string) float64 {
	sect, onlyA, onlyB := tokenSets(a, b)
	if len(sect) > 0 {
		return 100
	}
	return partialRatio(strings.Join(onlyA, " "), strings.Join(onlyB, " "))
}

func wRatio(a, b string) float64 {
	la, lb := float64(len([]rune(a))), float64(len([]rune(b)))
	lenRatio := math.Max(la, lb) / math.Min(la, lb)

	best := ratio(a, b)
	if lenRatio < partialLenRatio {
		best = math.Max(best, tokenSortRatio(a, b)*unbaseScale)
		best = math.Max(best, tokenSetRatio(a, b)*unbaseScale)
		return best
	}

	scale := partialScale
	if lenRatio > longPartialCutoff {
		scale = longPartialScale
	}
	best = math.Max(best, partialRatio(a, b)*scale)
	best = math.Max(best, partialTokenSortRatio(a, b)*unbaseScale*scale)
	best = math.Max(best, partialTokenSetRatio(a, b)*unbaseScale*scale)
	return best
}

// ExtractOne returns the choice that scores highest against query. The first choice wins
// ties. ok is false when choices is empty.
func ExtractOne(query string, choices []string, scorer Scorer) (best string, bestScore int, ok bool) {
	bestScore = -1
	for _, c := range choices {
		if s := scorer(query, c); s > bestScore {
			best, bestScore, ok = c, s, true
		}
	}
	if !ok {
		return "", 0, false
	}
	return best, bestScore, true
}
