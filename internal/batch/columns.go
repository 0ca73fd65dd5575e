package batch

import (
	"errors"

	"country-linker/internal/reference"
	"country-linker/internal/table"
)

// Table names used in InputError and diagnostics.
const (
	TableAreas     = "areas"
	TableCountries = "countries"
)

var errNilTable = errors.New("table is missing")

// Columns names the columns the pipeline reads and writes.
type Columns struct {
	Area      string
	LongName  string
	ShortName string
	ISO3      string
	// Output receives the resolved codes; replaced when already present.
	Output string
}

// DefaultColumns returns the column names of the ILO and reference exports.
func DefaultColumns() Columns {
	return Columns{
		Area:      "Area",
		LongName:  "longName_EN",
		ShortName: "shortName_EN",
		ISO3:      "ISO3Code",
		Output:    "ISO3Code",
	}
}

func (c Columns) withDefaults() Columns {
	def := DefaultColumns()

	if c.Area == "" {
		c.Area = def.Area
	}

	if c.LongName == "" {
		c.LongName = def.LongName
	}

	if c.ShortName == "" {
		c.ShortName = def.ShortName
	}

	if c.ISO3 == "" {
		c.ISO3 = def.ISO3
	}

	if c.Output == "" {
		c.Output = def.Output
	}

	return c
}

// column resolves name in t or returns an *InputError.
func column(t *table.Table, tableName, name string) (int, error) {
	if t == nil {
		return -1, &InputError{Table: tableName, Err: errNilTable}
	}

	col, err := t.Column(name)
	if err != nil {
		return -1, &InputError{Table: tableName, Column: name, Err: err}
	}

	return col, nil
}

// Records converts the countries table into reference records. Empty column
// names fall back to DefaultColumns.
func Records(t *table.Table, cols Columns) ([]reference.CountryRecord, error) {
	cols = cols.withDefaults()

	long, err := column(t, TableCountries, cols.LongName)
	if err != nil {
		return nil, err
	}

	short, err := column(t, TableCountries, cols.ShortName)
	if err != nil {
		return nil, err
	}

	iso3, err := column(t, TableCountries, cols.ISO3)
	if err != nil {
		return nil, err
	}

	longs, shorts, codes := t.Values(long), t.Values(short), t.Values(iso3)

	records := make([]reference.CountryRecord, len(t.Rows))
	for i := range t.Rows {
		records[i] = reference.CountryRecord{
			LongName:  longs[i],
			ShortName: shorts[i],
			ISO3:      codes[i],
			Row:       i + 1,
		}
	}

	return records, nil
}
