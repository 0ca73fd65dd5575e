package linker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"country-linker/internal/match"
	"country-linker/internal/reference"
)

func referenceIndex() *reference.Index {
	return reference.Build([]reference.CountryRecord{
		{LongName: "United States of America", ShortName: "United States", ISO3: "USA", Row: 1},
		{LongName: "Republic of Korea", ShortName: "Korea, Rep.", ISO3: "KOR", Row: 2},
		{LongName: "French Republic", ShortName: "France", ISO3: "FRA", Row: 3},
		{LongName: "Plurinational State of Bolivia", ShortName: "Bolivia", ISO3: "BOL", Row: 4},
	}, nil)
}

func newMatcher(t *testing.T, ix *reference.Index, policy Policy) *Matcher {
	t.Helper()

	m, err := NewMatcher(ix, policy)
	require.NoError(t, err)

	return m
}

func TestMatcher_Scenarios(t *testing.T) {
	m := newMatcher(t, referenceIndex(), DefaultPolicy())

	tests := []struct {
		name   string
		area   string
		result Result
		reason Reason
	}{
		{"exact short name", "United States", Resolved("USA"), ReasonMatched},
		{"no confident match", "Kosovo", Unresolved(), ReasonBelowThreshold},
		{"override without reference entry", "Czechia", Resolved("CZE"), ReasonOverride},
		{"parenthetical stripped", "Republic of Korea (South)", Resolved("KOR"), ReasonMatched},
		{"token order ignored", "Bolivia, Plurinational State of", Resolved("BOL"), ReasonMatched},
		{"article and case ignored", "THE FRENCH REPUBLIC", Resolved("FRA"), ReasonMatched},
		{"blank area", "   ", Unresolved(), ReasonEmptyName},
		{"only parenthetical", "(not classified)", Unresolved(), ReasonEmptyName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := m.Explain(tt.area)
			assert.Equal(t, tt.result, d.Result)
			assert.Equal(t, tt.reason, d.Reason)
			assert.Equal(t, tt.result, m.Match(tt.area))
		})
	}
}

func TestMatcher_OverrideWinsOverAnyIndex(t *testing.T) {
	for _, ix := range []*reference.Index{
		reference.Build(nil, nil),
		referenceIndex(),
		reference.Build([]reference.CountryRecord{{LongName: "Czechia", ISO3: "XCZ", Row: 1}}, nil),
	} {
		m := newMatcher(t, ix, DefaultPolicy())
		assert.Equal(t, Resolved("CZE"), m.Match("Czechia"))
		assert.Equal(t, Resolved("CZE"), m.Match("  CZECHIA (Czech Republic)"))
	}
}

func TestMatcher_OverrideKeysAreNormalized(t *testing.T) {
	policy := DefaultPolicy()
	policy.Overrides = map[string]string{"Kosovo (UNSCR 1244)": " XKX "}

	m := newMatcher(t, referenceIndex(), policy)

	assert.Equal(t, Resolved("XKX"), m.Match("kosovo"))
	assert.False(t, m.Match("Czechia").IsResolved(), "replacing the table drops the default entry")
}

func TestMatcher_ThresholdBoundary(t *testing.T) {
	ix := referenceIndex()

	scoreOf := func(s int) match.Scorer {
		return func(_, b string) int {
			if b == "france" {
				return s
			}

			return 0
		}
	}

	tests := []struct {
		score  int
		result Result
	}{
		{100, Resolved("FRA")},
		{90, Resolved("FRA")},
		{89, Unresolved()},
		{0, Unresolved()},
	}

	for _, tt := range tests {
		policy := DefaultPolicy()
		policy.Scorer = scoreOf(tt.score)

		d := newMatcher(t, ix, policy).Explain("somewhere")
		assert.Equal(t, tt.result, d.Result, "score %d", tt.score)
		assert.Equal(t, tt.score, d.Score)
	}
}

func TestMatcher_CustomThreshold(t *testing.T) {
	policy := DefaultPolicy()
	policy.SimilarityThreshold = 60

	// "united states" vs "united states of america" scores 70 with token sort.
	m := newMatcher(t, reference.Build([]reference.CountryRecord{
		{LongName: "United States of America", ISO3: "USA", Row: 1},
	}, nil), policy)

	d := m.Explain("United States")
	assert.Equal(t, Resolved("USA"), d.Result)
	assert.Equal(t, 70, d.Score)
	assert.Equal(t, 60, m.Threshold())
}

func TestMatcher_TieBreakIsLexicographic(t *testing.T) {
	ix := reference.Build([]reference.CountryRecord{
		{LongName: "Zambia", ISO3: "ZMB", Row: 1},
		{LongName: "Gambia", ISO3: "GMB", Row: 2},
	}, nil)

	policy := DefaultPolicy()
	policy.Scorer = func(_, _ string) int { return 95 }

	d := newMatcher(t, ix, policy).Explain("ambia")
	assert.Equal(t, Resolved("GMB"), d.Result)
	assert.Equal(t, "gambia", d.Candidate)
	assert.Equal(t, 2, d.Ties)
}

func TestMatcher_AmbiguousEntry(t *testing.T) {
	ix := reference.Build([]reference.CountryRecord{
		{LongName: "Republic of the Congo", ShortName: "Congo", ISO3: "COG", Row: 1},
		{LongName: "Democratic Republic of the Congo", ShortName: "Congo", ISO3: "COD", Row: 2},
	}, nil)

	d := newMatcher(t, ix, DefaultPolicy()).Explain("Congo")
	assert.Equal(t, Resolved("COG"), d.Result)
	assert.Equal(t, ReasonAmbiguous, d.Reason)
	assert.Equal(t, []string{"COG", "COD"}, d.Codes)
}

func TestMatcher_NoCandidates(t *testing.T) {
	d := newMatcher(t, reference.Build(nil, nil), DefaultPolicy()).Explain("France")
	assert.Equal(t, Unresolved(), d.Result)
	assert.Equal(t, ReasonNoCandidates, d.Reason)
	assert.Equal(t, "france", d.Key)
}

func TestMatcher_Deterministic(t *testing.T) {
	m := newMatcher(t, referenceIndex(), DefaultPolicy())

	first := m.Explain("Korea")
	for range 20 {
		assert.Equal(t, first, m.Explain("Korea"))
	}
}

func TestMatcher_ExplainTop(t *testing.T) {
	m := newMatcher(t, referenceIndex(), DefaultPolicy())

	d := m.ExplainTop("France", 3)
	require.Len(t, d.Top, 3)
	assert.Equal(t, "france", d.Top[0].Key)
	assert.Equal(t, 100, d.Top[0].Score)

	assert.Empty(t, m.Explain("France").Top)
}

func TestNewMatcher_Errors(t *testing.T) {
	_, err := NewMatcher(nil, DefaultPolicy())
	assert.Error(t, err)

	policy := DefaultPolicy()
	policy.SimilarityThreshold = 101
	_, err = NewMatcher(referenceIndex(), policy)
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	policy = DefaultPolicy()
	policy.Overrides = map[string]string{"(void)": "XXX"}
	_, err = NewMatcher(referenceIndex(), policy)
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	policy = DefaultPolicy()
	policy.Overrides = map[string]string{"Czechia": "CZE", "CZECHIA": "CSK"}
	_, err = NewMatcher(referenceIndex(), policy)
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestPolicy_Validate(t *testing.T) {
	assert.NoError(t, DefaultPolicy().Validate())

	tests := []struct {
		name   string
		policy Policy
	}{
		{"negative threshold", Policy{SimilarityThreshold: -1}},
		{"threshold above max", Policy{SimilarityThreshold: 150}},
		{"empty override key", Policy{SimilarityThreshold: 90, Overrides: map[string]string{" ": "CZE"}}},
		{"empty override code", Policy{SimilarityThreshold: 90, Overrides: map[string]string{"czechia": ""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.policy.Validate(), ErrInvalidPolicy)
		})
	}
}

func TestPolicy_Clone(t *testing.T) {
	p := DefaultPolicy()
	c := p.Clone()
	c.Overrides["kosovo"] = "XKX"

	assert.NotContains(t, p.Overrides, "kosovo")
}

func TestResult(t *testing.T) {
	code, ok := Resolved("USA").ISO3()
	assert.True(t, ok)
	assert.Equal(t, "USA", code)
	assert.Equal(t, "Resolved(USA)", Resolved("USA").String())

	code, ok = Unresolved().ISO3()
	assert.False(t, ok)
	assert.Empty(t, code)
	assert.Equal(t, "Unresolved", Result{}.String())
	assert.Equal(t, Unresolved(), Result{})
}

func TestReason_ZeroValue(t *testing.T) {
	var d Decision

	assert.Equal(t, ReasonUnknown, d.Reason)
	assert.Equal(t, "unknown", d.Reason.String())
	assert.False(t, d.Reason.Resolves())
	assert.NotEqual(t, ReasonOverride, d.Reason)
}

func TestReason(t *testing.T) {
	assert.Equal(t, "below_threshold", ReasonBelowThreshold.String())
	assert.Equal(t, "Reason(42)", Reason(42).String())

	assert.True(t, ReasonOverride.Resolves())
	assert.True(t, ReasonAmbiguous.Resolves())
	assert.False(t, ReasonEmptyName.Resolves())

	b, err := ReasonMatched.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "matched", string(b))
}
