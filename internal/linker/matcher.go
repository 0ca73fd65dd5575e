package linker

import (
	"errors"
	"fmt"
	"strings"

	"country-linker/internal/match"
	"country-linker/internal/reference"
)

// Decision is the full trace of one match. Only Result is part of the
// matching contract; the rest feeds logs and the unresolved report.
type Decision struct {
	Result Result
	Reason Reason
	// Key is the normalized area name.
	Key string
	// Candidate is the best-scoring reference key, empty if scoring was skipped.
	Candidate string
	Score     int
	// Ties counts candidates sharing the best score (1 when the winner is unique).
	Ties int
	// Codes lists every ISO3 code behind an ambiguous candidate.
	Codes []string
	// Top holds the leading candidates when requested through ExplainTop.
	Top match.CandidateList
}

// Matcher resolves raw names against an immutable index.
type Matcher struct {
	index     *reference.Index
	pool      []string
	threshold int
	overrides map[string]string
	scorer    match.Scorer
}

// NewMatcher validates policy and binds it to index.
// Override keys are normalized with the index's normalizer.
func NewMatcher(index *reference.Index, policy Policy) (*Matcher, error) {
	if index == nil {
		return nil, errors.New("nil reference index")
	}

	if err := policy.Validate(); err != nil {
		return nil, err
	}

	overrides := make(map[string]string, len(policy.Overrides))

	for raw, code := range policy.Overrides {
		key := index.Normalize(raw)
		if key == "" {
			return nil, fmt.Errorf("%w: override %q normalizes to an empty key", ErrInvalidPolicy, raw)
		}

		code = strings.TrimSpace(code)
		if prev, ok := overrides[key]; ok && prev != code {
			return nil, fmt.Errorf("%w: overrides for %q disagree (%s vs %s)", ErrInvalidPolicy, key, prev, code)
		}

		overrides[key] = code
	}

	scorer := policy.Scorer
	if scorer == nil {
		scorer = match.TokenSortRatio
	}

	return &Matcher{
		index:     index,
		pool:      index.Keys(),
		threshold: policy.SimilarityThreshold,
		overrides: overrides,
		scorer:    scorer,
	}, nil
}

// Match returns the result for raw.
func (m *Matcher) Match(raw string) Result {
	return m.decide(raw, 0).Result
}

// Explain returns the decision trace for raw.
func (m *Matcher) Explain(raw string) Decision {
	return m.decide(raw, 0)
}

// ExplainTop is Explain plus the top n scored candidates.
func (m *Matcher) ExplainTop(raw string, n int) Decision {
	return m.decide(raw, n)
}

// Threshold returns the inclusive acceptance score.
func (m *Matcher) Threshold() int {
	return m.threshold
}

func (m *Matcher) decide(raw string, top int) Decision {
	key := m.index.Normalize(raw)

	if code, ok := m.overrides[key]; ok {
		return Decision{Result: Resolved(code), Reason: ReasonOverride, Key: key}
	}

	if key == "" {
		return Decision{Result: Unresolved(), Reason: ReasonEmptyName}
	}

	ranked := match.Rank(key, m.pool, m.scorer)

	best := ranked.Best()
	if best == nil {
		return Decision{Result: Unresolved(), Reason: ReasonNoCandidates, Key: key}
	}

	d := Decision{
		Key:       key,
		Candidate: best.Key,
		Score:     best.Score,
		Ties:      len(ranked.Ties()),
	}

	if top > 0 {
		d.Top = ranked.Top(top)
	}

	if best.Score < m.threshold {
		d.Result, d.Reason = Unresolved(), ReasonBelowThreshold
		return d
	}

	entry, ok := m.index.Lookup(best.Key)
	rec, hasRecord := entry.Primary()

	if !ok || !hasRecord {
		d.Result, d.Reason = Unresolved(), ReasonMissingEntry
		return d
	}

	d.Result = Resolved(rec.ISO3)
	d.Reason = ReasonMatched

	if entry.Kind() == reference.EntryAmbiguous {
		d.Reason = ReasonAmbiguous
		d.Codes = entry.Codes()
	}

	return d
}
