package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const defaultSelector = "table"

// readHTML reads the first table matched by selector. The first row, in
// <thead> or not, is the header.
func readHTML(r io.Reader, selector string) (*Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	if selector == "" {
		selector = defaultSelector
	}

	tbl := doc.Find(selector).First()
	if tbl.Length() == 0 {
		return nil, fmt.Errorf("no element matches %q", selector)
	}

	var records [][]string

	tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var rec []string

		tr.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
			rec = append(rec, strings.Join(strings.Fields(cell.Text()), " "))
		})

		records = append(records, rec)
	})

	if len(records) == 0 {
		return New(nil, nil), nil
	}

	return New(records[0], records[1:]), nil
}
