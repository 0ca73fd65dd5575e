package linker

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"country-linker/internal/match"
)

// DefaultThreshold is the lowest accepted similarity score.
const DefaultThreshold = 90

// ErrInvalidPolicy is returned by Policy.Validate.
var ErrInvalidPolicy = errors.New("invalid policy")

// Policy holds the tunable parts of matching.
type Policy struct {
	// SimilarityThreshold is inclusive: a best score equal to it resolves.
	SimilarityThreshold int
	// Overrides maps a normalized key straight to an ISO3 code, bypassing scoring.
	Overrides map[string]string
	// Scorer compares keys; nil selects match.TokenSortRatio.
	Scorer match.Scorer
}

// DefaultOverrides returns the built-in override table.
func DefaultOverrides() map[string]string {
	return map[string]string{
		"czechia": "CZE",
	}
}

// DefaultPolicy returns the default matching policy.
func DefaultPolicy() Policy {
	return Policy{
		SimilarityThreshold: DefaultThreshold,
		Overrides:           DefaultOverrides(),
		Scorer:              match.TokenSortRatio,
	}
}

// Validate reports the first problem with p.
func (p Policy) Validate() error {
	if p.SimilarityThreshold < 0 || p.SimilarityThreshold > match.MaxScore {
		return fmt.Errorf("%w: threshold %d outside [0, %d]", ErrInvalidPolicy, p.SimilarityThreshold, match.MaxScore)
	}

	for key, code := range p.Overrides {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("%w: override with empty key", ErrInvalidPolicy)
		}

		if strings.TrimSpace(code) == "" {
			return fmt.Errorf("%w: override %q has no ISO3 code", ErrInvalidPolicy, key)
		}
	}

	return nil
}

// Clone returns a deep copy of p.
func (p Policy) Clone() Policy {
	p.Overrides = maps.Clone(p.Overrides)

	return p
}
