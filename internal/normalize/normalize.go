package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	parenthetical = regexp.MustCompile(`\(.*?\)`)
	disallowed    = regexp.MustCompile(`[^a-z0-9 ]`)
	article       = regexp.MustCompile(`\bthe\b`)
)

// Func maps raw text to a matching key.
type Func func(string) string

// Options tunes the pipeline.
type Options struct {
	// FoldDiacritics strips combining marks after lowercasing so that
	// "côte d'ivoire" keeps its "o" instead of losing the whole letter
	// in the ASCII filter.
	FoldDiacritics bool
}

// Normalize applies the default pipeline to s.
func Normalize(s string) string {
	return run(s, false)
}

// New returns a Func for the given options.
func New(opts Options) Func {
	if !opts.FoldDiacritics {
		return Normalize
	}

	return func(s string) string {
		return run(s, true)
	}
}

func run(s string, fold bool) string {
	s = strings.ToLower(s)
	if fold {
		s = foldDiacritics(s)
	}

	s = strings.TrimSpace(s)
	s = parenthetical.ReplaceAllString(s, "")
	s = disallowed.ReplaceAllString(s, "")
	s = article.ReplaceAllString(s, "")

	return strings.TrimSpace(s)
}

func foldDiacritics(s string) string {
	// transform.Chain is stateful, so each call builds its own.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}

	return out
}
