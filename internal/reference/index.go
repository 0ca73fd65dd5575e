// Package reference builds the read-only lookup of normalized country names
// to the country records they came from.
package reference

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"country-linker/internal/common"
	"country-linker/internal/diagnostic"
	"country-linker/internal/normalize"
)

var iso3Pattern = regexp.MustCompile(`^[A-Z]{3}$`)

// CountryRecord is one row of the country reference table.
type CountryRecord struct {
	LongName  string
	ShortName string
	ISO3      string
	// Row is the 1-based data row in the source table (header excluded).
	Row int
}

// EntryKind tells whether a key identifies a single country.
type EntryKind int

const (
	// EntryUnique means every record under the key carries the same ISO3 code.
	EntryUnique EntryKind = iota
	// EntryAmbiguous means the key collides across distinct ISO3 codes.
	EntryAmbiguous
)

// String returns the kind name.
func (k EntryKind) String() string {
	if k == EntryAmbiguous {
		return "ambiguous"
	}

	return "unique"
}

// Entry is every record that normalizes to Key, in table order.
type Entry struct {
	Key     string
	Records []CountryRecord
}

// Codes returns the distinct ISO3 codes of the entry in insertion order.
func (e Entry) Codes() []string {
	return common.DistinctBy(e.Records, func(r CountryRecord) string { return r.ISO3 })
}

// Kind classifies the entry.
func (e Entry) Kind() EntryKind {
	if len(e.Codes()) > 1 {
		return EntryAmbiguous
	}

	return EntryUnique
}

// Primary returns the first inserted record, the deterministic pick for
// ambiguous entries.
func (e Entry) Primary() (CountryRecord, bool) {
	return common.First(e.Records)
}

// Index maps normalized names to reference entries. It is immutable after
// Build and safe for concurrent readers.
type Index struct {
	entries     map[string]*Entry
	keys        []string
	normalize   normalize.Func
	diagnostics diagnostic.Diagnostics
}

// Build indexes the long and short name of every record under fn.
// A nil fn selects normalize.Normalize.
func Build(records []CountryRecord, fn normalize.Func) *Index {
	if fn == nil {
		fn = normalize.Normalize
	}

	ix := &Index{
		entries:   make(map[string]*Entry),
		normalize: fn,
	}

	var order []string

	for _, rec := range records {
		loc := fmt.Sprintf("countries:%d", rec.Row)

		rec.ISO3 = strings.TrimSpace(rec.ISO3)
		if rec.ISO3 == "" {
			ix.diagnostics.AddWarning(diagnostic.CodeMissingISO3,
				"reference row has no ISO3 code and was skipped", rec.LongName, loc)

			continue
		}

		if !iso3Pattern.MatchString(rec.ISO3) {
			ix.diagnostics.AddWarning(diagnostic.CodeInvalidISO3,
				fmt.Sprintf("ISO3 code %q is not three uppercase letters", rec.ISO3), rec.LongName, loc)
		}

		var longKey string

		for i, name := range []string{rec.LongName, rec.ShortName} {
			if strings.TrimSpace(name) == "" {
				continue
			}

			key := fn(name)
			if key == "" {
				ix.diagnostics.AddInfo(diagnostic.CodeEmptyReferenceName,
					"name normalizes to an empty key and was not indexed", name, loc)

				continue
			}

			// Long and short name of one record often share a key.
			if i == 1 && key == longKey {
				continue
			}

			if i == 0 {
				longKey = key
			}

			entry, ok := ix.entries[key]
			if !ok {
				entry = &Entry{Key: key}
				ix.entries[key] = entry
				order = append(order, key)
			}

			entry.Records = append(entry.Records, rec)
		}
	}

	for _, key := range order {
		entry := ix.entries[key]

		switch {
		case entry.Kind() == EntryAmbiguous:
			d := diagnostic.Diagnostic{
				Severity:    diagnostic.SeverityWarning,
				Code:        diagnostic.CodeAmbiguousReference,
				Message:     fmt.Sprintf("key is shared by %d distinct ISO3 codes; %s wins", len(entry.Codes()), entry.Records[0].ISO3),
				Subject:     key,
				Location:    rowList(entry.Records),
				Suggestions: entry.Codes(),
			}
			ix.diagnostics.Add(d)
		case len(entry.Records) > 1:
			ix.diagnostics.AddInfo(diagnostic.CodeDuplicateReference,
				fmt.Sprintf("key appears in %d rows with the same ISO3 code", len(entry.Records)), key, rowList(entry.Records))
		}
	}

	ix.keys = order
	slices.Sort(ix.keys)

	return ix
}

// Keys returns the deduplicated candidate pool in sorted order.
func (ix *Index) Keys() []string {
	return slices.Clone(ix.keys)
}

// Len returns the number of distinct keys.
func (ix *Index) Len() int {
	return len(ix.keys)
}

// Lookup returns the entry for key.
func (ix *Index) Lookup(key string) (Entry, bool) {
	entry, ok := ix.entries[key]
	if !ok {
		return Entry{}, false
	}

	return *entry, true
}

// Collisions returns the ambiguous entries sorted by key.
func (ix *Index) Collisions() []Entry {
	var out []Entry

	for _, key := range ix.keys {
		if entry := ix.entries[key]; entry.Kind() == EntryAmbiguous {
			out = append(out, *entry)
		}
	}

	return out
}

// Normalize applies the index's normalizer, so queries and keys always agree.
func (ix *Index) Normalize(s string) string {
	return ix.normalize(s)
}

// Diagnostics returns what Build noticed about the reference data.
func (ix *Index) Diagnostics() diagnostic.Diagnostics {
	return ix.diagnostics
}

func rowList(records []CountryRecord) string {
	rows := make([]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, fmt.Sprint(r.Row))
	}

	return "countries:" + strings.Join(rows, ",")
}
