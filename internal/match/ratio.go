package match

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// MaxScore is the score of two identical non-empty strings.
const MaxScore = 100

// Weights used by WRatio.
const (
	unbaseScale       = 0.95
	partialScale      = 0.90
	longPartialScale  = 0.60
	partialLenRatio   = 1.5
	longPartialLenCut = 8.0
)

// Ratio scores two strings in [0, 100] from their indel distance:
// 100 * (len(a)+len(b)-Indel(a,b)) / (len(a)+len(b)).
// An empty input scores 0.
func Ratio(a, b string) int {
	return score(ratio(a, b))
}

// PartialRatio scores the shorter string against every equally long window
// of the longer one and keeps the best window.
func PartialRatio(a, b string) int {
	return score(partialRatio(a, b))
}

// TokenSortRatio compares the two strings after splitting them into tokens
// and sorting the tokens, so word order does not matter.
func TokenSortRatio(a, b string) int {
	pa, pb := process(a), process(b)
	if pa == "" || pb == "" {
		return 0
	}

	return Ratio(sortedTokens(pa), sortedTokens(pb))
}

// TokenSetRatio compares the shared tokens against each side's full token
// set and keeps the best of the three pairwise ratios.
func TokenSetRatio(a, b string) int {
	pa, pb := process(a), process(b)
	if pa == "" || pb == "" {
		return 0
	}

	return score(tokenSet(pa, pb, ratio))
}

// WRatio is the weighted blend of Ratio, the token ratios and, when the
// lengths differ enough, the partial ratios.
func WRatio(a, b string) int {
	pa, pb := process(a), process(b)
	if pa == "" || pb == "" {
		return 0
	}

	base := float64(Ratio(pa, pb))

	la, lb := float64(len([]rune(pa))), float64(len([]rune(pb)))
	lenRatio := max(la, lb) / min(la, lb)

	if lenRatio < partialLenRatio {
		tsor := float64(Ratio(sortedTokens(pa), sortedTokens(pb))) * unbaseScale
		tser := float64(score(tokenSet(pa, pb, ratio))) * unbaseScale

		return score(max(base, tsor, tser) / MaxScore)
	}

	scale := partialScale
	if lenRatio > longPartialLenCut {
		scale = longPartialScale
	}

	partial := float64(PartialRatio(pa, pb)) * scale
	ptsor := float64(PartialRatio(sortedTokens(pa), sortedTokens(pb))) * unbaseScale * scale
	ptser := float64(score(tokenSet(pa, pb, partialRatio))) * unbaseScale * scale

	return score(max(base, partial, ptsor, ptser) / MaxScore)
}

// LevenshteinRatio is the token-sorted LevenshteinNormalized similarity on the 0-100 scale.
func LevenshteinRatio(a, b string) int {
	pa, pb := process(a), process(b)
	if pa == "" || pb == "" {
		return 0
	}

	return score(LevenshteinNormalized(sortedTokens(pa), sortedTokens(pb)))
}

func ratio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}

	total := la + lb

	return float64(total-Indel(a, b)) / float64(total)
}

func partialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}

	if len(short) == 0 {
		return 0
	}

	s := string(short)
	best := 0.0

	for i := 0; i+len(short) <= len(long); i++ {
		r := ratio(s, string(long[i:i+len(short)]))
		if r > best {
			best = r
		}

		if best == 1 {
			break
		}
	}

	return best
}

// tokenSet builds the intersection / difference strings of two token sets
// and returns the best pairwise similarity under fn.
func tokenSet(a, b string, fn func(string, string) float64) float64 {
	ta, tb := tokenSetOf(a), tokenSetOf(b)

	var shared, onlyA, onlyB []string

	for tok := range ta {
		if _, ok := tb[tok]; ok {
			shared = append(shared, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}

	for tok := range tb {
		if _, ok := ta[tok]; !ok {
			onlyB = append(onlyB, tok)
		}
	}

	sort.Strings(shared)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	sect := strings.Join(shared, " ")
	combinedA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	return max(fn(sect, combinedA), fn(sect, combinedB), fn(combinedA, combinedB))
}

func tokenSetOf(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}

	return set
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)

	return strings.Join(tokens, " ")
}

// process lowercases s, turns every rune that is not a letter or digit into
// a space and trims the result.
func process(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	return strings.TrimSpace(b.String())
}

// score maps a [0, 1] similarity to an integer in [0, 100], rounding half to even.
func score(r float64) int {
	return int(math.RoundToEven(r * MaxScore))
}
