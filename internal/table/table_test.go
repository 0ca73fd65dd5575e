package table

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_PadsShortRows(t *testing.T) {
	tbl := New([]string{"\ufeffArea", "Year", "Value"}, [][]string{
		{"France", "2020", "8.0"},
		{"Kosovo"},
	})

	assert.Equal(t, []string{"Area", "Year", "Value"}, tbl.Header)
	assert.Equal(t, []string{"Kosovo", "", ""}, tbl.Rows[1])
	assert.Equal(t, 2, tbl.Len())
}

func TestTable_Column(t *testing.T) {
	tbl := New([]string{"Area", " ISO3Code "}, nil)

	col, err := tbl.Column("ISO3Code")
	require.NoError(t, err)
	assert.Equal(t, 1, col)

	_, err = tbl.Column("longName_EN")
	require.ErrorIs(t, err, ErrMissingColumn)

	var ce *ColumnError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "longName_EN", ce.Column)
	assert.Contains(t, err.Error(), `"Area"`)
}

func TestTable_Values(t *testing.T) {
	tbl := New([]string{"Area", "Year"}, [][]string{{"France", "2020"}, {"Chad", "2021"}})
	assert.Equal(t, []string{"2020", "2021"}, tbl.Values(1))
}

func TestTable_WithColumn(t *testing.T) {
	tbl := New([]string{"Area"}, [][]string{{"France"}, {"Kosovo"}})

	appended, err := tbl.WithColumn("ISO3Code", []string{"FRA", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"Area", "ISO3Code"}, appended.Header)
	assert.Equal(t, [][]string{{"France", "FRA"}, {"Kosovo", ""}}, appended.Rows)

	// The receiver is untouched.
	assert.Equal(t, []string{"Area"}, tbl.Header)

	replaced, err := appended.WithColumn("ISO3Code", []string{"XXX", "YYY"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Area", "ISO3Code"}, replaced.Header)
	assert.Equal(t, "YYY", replaced.Rows[1][1])

	_, err = tbl.WithColumn("ISO3Code", []string{"FRA"})
	assert.Error(t, err)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
	}{
		{"id=24.xlsx", FormatXLSX},
		{"data/country.CSV", FormatCSV},
		{"export.tsv", FormatTSV},
		{"export.tab", FormatTSV},
		{"navicat.html", FormatHTML},
		{"navicat.htm", FormatHTML},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := DetectFormat("country.xls")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadDelimited(t *testing.T) {
	data := "Area,Year\n\"Korea, Republic of\",2020\nFrance,2021,extra\n"

	tbl, err := Read(strings.NewReader(data), ReadOptions{Format: FormatCSV})
	require.NoError(t, err)

	assert.Equal(t, []string{"Area", "Year"}, tbl.Header)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "Korea, Republic of", tbl.Rows[0][0])
	assert.Equal(t, []string{"France", "2021", "extra"}, tbl.Rows[1])

	tbl, err = Read(strings.NewReader("Area\tYear\nChad\t2020\n"), ReadOptions{Format: FormatTSV})
	require.NoError(t, err)
	assert.Equal(t, "Chad", tbl.Rows[0][0])
}

func TestReadDelimited_Empty(t *testing.T) {
	tbl, err := Read(strings.NewReader(""), ReadOptions{Format: FormatCSV})
	require.NoError(t, err)
	assert.Empty(t, tbl.Header)
	assert.Zero(t, tbl.Len())
}

func TestReadHTML(t *testing.T) {
	page := `<html><body>
<p>exported by a database client</p>
<table id="countries">
  <thead><tr><th>longName_EN</th><th>shortName_EN</th><th>ISO3Code</th></tr></thead>
  <tbody>
    <tr><td>United States of
        America</td><td>United States</td><td>USA</td></tr>
    <tr><td>French Republic</td><td>France</td><td> FRA </td></tr>
  </tbody>
</table>
<table><tr><td>other</td></tr></table>
</body></html>`

	tbl, err := Read(strings.NewReader(page), ReadOptions{Format: FormatHTML})
	require.NoError(t, err)

	assert.Equal(t, []string{"longName_EN", "shortName_EN", "ISO3Code"}, tbl.Header)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "United States of America", tbl.Rows[0][0])
	assert.Equal(t, "FRA", tbl.Rows[1][2])

	tbl, err = Read(strings.NewReader(page), ReadOptions{Format: FormatHTML, Sheet: "table:not(#countries)"})
	require.NoError(t, err)
	assert.Equal(t, []string{"other"}, tbl.Header)

	_, err = Read(strings.NewReader("<p>no tables</p>"), ReadOptions{Format: FormatHTML})
	assert.Error(t, err)
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()

	tbl := New([]string{"Area", "Year", "ISO3Code"}, [][]string{
		{"France", "2020", "FRA"},
		{"Kosovo", "2021", ""},
		{"Code 004", "004", "AFG"},
	})

	for _, name := range []string{"out.csv", "out.tsv", "nested/out.xlsx"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, WriteFile(path, tbl, WriteOptions{}))

			got, err := ReadFile(path, ReadOptions{})
			require.NoError(t, err)
			assert.Equal(t, tbl.Header, got.Header)
			assert.Equal(t, tbl.Rows, got.Rows)
		})
	}
}

func TestWriteXLSX_NamedSheet(t *testing.T) {
	tbl := New([]string{"Area"}, [][]string{{"Chad"}})

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tbl, WriteOptions{Format: FormatXLSX, Sheet: "unresolved"}))

	got, err := Read(&buf, ReadOptions{Format: FormatXLSX, Sheet: "unresolved"})
	require.NoError(t, err)
	assert.Equal(t, "Chad", got.Rows[0][0])
}

func TestReadXLSX_MissingSheet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, New([]string{"Area"}, nil), WriteOptions{Format: FormatXLSX}))

	_, err := Read(&buf, ReadOptions{Format: FormatXLSX, Sheet: "nope"})
	assert.Error(t, err)
}

func TestWriteFile_RejectsHTML(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "out.html"), New(nil, nil), WriteOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.csv"), ReadOptions{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCellValue(t *testing.T) {
	assert.Equal(t, 2020.0, cellValue("2020"))
	assert.Equal(t, 5.25, cellValue("5.25"))
	assert.Equal(t, "004", cellValue("004"))
	assert.Equal(t, "1e3", cellValue("1e3"))
	assert.Equal(t, "NaN", cellValue("NaN"))
	assert.Equal(t, "", cellValue(""))
	assert.Equal(t, "FRA", cellValue("FRA"))
}
