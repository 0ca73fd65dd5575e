package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"country-linker/internal/diagnostic"
	"country-linker/internal/normalize"
)

func sampleRecords() []CountryRecord {
	return []CountryRecord{
		{LongName: "United States of America", ShortName: "United States", ISO3: "USA", Row: 1},
		{LongName: "Republic of Korea", ShortName: "Korea (Republic of)", ISO3: "KOR", Row: 2},
		{LongName: "French Republic", ShortName: "France", ISO3: "FRA", Row: 3},
		{LongName: "Gambia", ShortName: "The Gambia", ISO3: "GMB", Row: 4},
	}
}

func TestBuild(t *testing.T) {
	ix := Build(sampleRecords(), nil)

	assert.Equal(t, []string{
		"france",
		"french republic",
		"gambia",
		"korea",
		"republic of korea",
		"united states",
		"united states of america",
	}, ix.Keys())
	assert.Equal(t, 7, ix.Len())

	entry, ok := ix.Lookup("united states")
	require.True(t, ok)
	assert.Equal(t, EntryUnique, entry.Kind())
	rec, ok := entry.Primary()
	require.True(t, ok)
	assert.Equal(t, "USA", rec.ISO3)

	// Long and short name share a key: the record is kept once.
	entry, ok = ix.Lookup("gambia")
	require.True(t, ok)
	assert.Len(t, entry.Records, 1)

	_, ok = ix.Lookup("kosovo")
	assert.False(t, ok)

	assert.Empty(t, ix.Collisions())
	assert.Empty(t, ix.Diagnostics().Errors)
}

func TestBuild_KeysAreSorted(t *testing.T) {
	keys := Build(sampleRecords(), nil).Keys()
	assert.IsIncreasing(t, keys)
}

func TestBuild_KeysReturnsCopy(t *testing.T) {
	ix := Build(sampleRecords(), nil)

	keys := ix.Keys()
	keys[0] = "mutated"

	assert.NotEqual(t, "mutated", ix.Keys()[0])
}

func TestBuild_AmbiguousCollision(t *testing.T) {
	records := []CountryRecord{
		{LongName: "Republic of the Congo", ShortName: "Congo", ISO3: "COG", Row: 1},
		{LongName: "Democratic Republic of the Congo", ShortName: "Congo", ISO3: "COD", Row: 2},
	}

	ix := Build(records, nil)

	entry, ok := ix.Lookup("congo")
	require.True(t, ok)
	assert.Equal(t, EntryAmbiguous, entry.Kind())
	assert.Equal(t, []string{"COG", "COD"}, entry.Codes())

	rec, _ := entry.Primary()
	assert.Equal(t, "COG", rec.ISO3, "first inserted record wins")

	collisions := ix.Collisions()
	require.Len(t, collisions, 1)
	assert.Equal(t, "congo", collisions[0].Key)

	diags := ix.Diagnostics()
	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, diagnostic.CodeAmbiguousReference, diags.Warnings[0].Code)
	assert.Equal(t, "countries:1,2", diags.Warnings[0].Location)
	assert.Equal(t, []string{"COG", "COD"}, diags.Warnings[0].Suggestions)
}

func TestBuild_CollisionWithoutRowNumbers(t *testing.T) {
	records := []CountryRecord{
		{LongName: "Republic of the Congo", ShortName: "Congo", ISO3: "COG"},
		{LongName: "Democratic Republic of the Congo", ShortName: "Congo", ISO3: "COD"},
		{LongName: "Gambia", ShortName: "The Gambia", ISO3: "GMB"},
	}

	ix := Build(records, nil)

	entry, ok := ix.Lookup("congo")
	require.True(t, ok)
	assert.Len(t, entry.Records, 2)
	assert.Equal(t, EntryAmbiguous, entry.Kind())
	assert.Equal(t, []string{"COG", "COD"}, entry.Codes())
	assert.Len(t, ix.Collisions(), 1)
	assert.Equal(t, 1, ix.Diagnostics().Count(diagnostic.CodeAmbiguousReference))

	entry, ok = ix.Lookup("gambia")
	require.True(t, ok)
	assert.Len(t, entry.Records, 1)
}

func TestBuild_DuplicateSameCode(t *testing.T) {
	records := []CountryRecord{
		{LongName: "France", ShortName: "France", ISO3: "FRA", Row: 1},
		{LongName: "French Republic", ShortName: "France", ISO3: "FRA", Row: 2},
	}

	ix := Build(records, nil)

	entry, ok := ix.Lookup("france")
	require.True(t, ok)
	assert.Len(t, entry.Records, 2)
	assert.Equal(t, EntryUnique, entry.Kind())
	assert.Equal(t, 1, ix.Diagnostics().Count(diagnostic.CodeDuplicateReference))
}

func TestBuild_SkipsUnusableRows(t *testing.T) {
	records := []CountryRecord{
		{LongName: "Nowhere", ShortName: "", ISO3: "  ", Row: 1},
		{LongName: "(n/a)", ShortName: "", ISO3: "XXX", Row: 2},
		{LongName: "Spain", ShortName: "", ISO3: "esp", Row: 3},
	}

	ix := Build(records, nil)

	_, ok := ix.Lookup("nowhere")
	assert.False(t, ok, "record without ISO3 is skipped")

	entry, ok := ix.Lookup("spain")
	require.True(t, ok, "lowercase code is indexed but flagged")
	assert.Equal(t, "esp", entry.Records[0].ISO3)
	assert.Equal(t, 1, ix.Len())

	diags := ix.Diagnostics()
	assert.Equal(t, 1, diags.Count(diagnostic.CodeMissingISO3))
	assert.Equal(t, 1, diags.Count(diagnostic.CodeInvalidISO3))
	assert.Equal(t, 1, diags.Count(diagnostic.CodeEmptyReferenceName))
}

func TestBuild_CustomNormalizer(t *testing.T) {
	records := []CountryRecord{{LongName: "Côte d'Ivoire", ISO3: "CIV", Row: 1}}

	plain := Build(records, nil)
	_, ok := plain.Lookup("cte divoire")
	assert.True(t, ok)

	folded := Build(records, normalize.New(normalize.Options{FoldDiacritics: true}))
	_, ok = folded.Lookup("cote divoire")
	assert.True(t, ok)
	assert.Equal(t, "cote divoire", folded.Normalize("Côte d'Ivoire"))
}

func TestEntryKind_String(t *testing.T) {
	assert.Equal(t, "unique", EntryUnique.String())
	assert.Equal(t, "ambiguous", EntryAmbiguous.String())
}
