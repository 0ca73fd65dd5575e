package match

import (
	"errors"
	"fmt"
	"sort"
)

// Scorer returns the similarity of two keys in [0, 100].
type Scorer func(a, b string) int

// Scorer names accepted by ScorerByName.
const (
	ScorerTokenSort   = "token_sort"
	ScorerTokenSet    = "token_set"
	ScorerWeighted    = "wratio"
	ScorerRatio       = "ratio"
	ScorerLevenshtein = "levenshtein"

	// DefaultScorer is the token-order-insensitive ratio.
	DefaultScorer = ScorerTokenSort
)

// ErrUnknownScorer is returned for names not in the registry.
var ErrUnknownScorer = errors.New("unknown scorer")

var scorers = map[string]Scorer{
	ScorerTokenSort:   TokenSortRatio,
	ScorerTokenSet:    TokenSetRatio,
	ScorerWeighted:    WRatio,
	ScorerRatio:       Ratio,
	ScorerLevenshtein: LevenshteinRatio,
}

// ScorerByName resolves a scorer; the empty name selects DefaultScorer.
func ScorerByName(name string) (Scorer, error) {
	if name == "" {
		name = DefaultScorer
	}

	s, ok := scorers[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %v)", ErrUnknownScorer, name, ScorerNames())
	}

	return s, nil
}

// ScorerNames lists the registered scorer names in sorted order.
func ScorerNames() []string {
	names := make([]string, 0, len(scorers))
	for name := range scorers {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
