package parsers

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/Nydauron/skatescore/grid"
	"golang.org/x/net/html"
)

var whitespaceRegex = regexp.MustCompile(`[ \t\r\n\f]+`)

// ParseHTML returns one grid per top-level <table>. Cell text keeps <br>
// line breaks as "\n", and a colspan pads the row with empty cells so that
// columns stay aligned. Tables nested in a cell contribute their text to
// that cell.
func ParseHTML(r io.Reader, name string) ([]*grid.Grid, error) {
	z := html.NewTokenizer(r)
	grids := []*grid.Grid{}

	tableDepth := 0
	isTableRow := false
	isTableCell := false
	colspan := 1
	var rows [][]string
	var row []string
	var cell strings.Builder

	endCell := func() {
		if !isTableCell {
			return
		}
		row = append(row, cleanCell(cell.String()))
		for range colspan - 1 {
			row = append(row, "")
		}
		cell.Reset()
		isTableCell = false
	}
	endRow := func() {
		if !isTableRow {
			return
		}
		endCell()
		rows = append(rows, row)
		row = nil
		isTableRow = false
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, err
			}
			if len(grids) == 0 {
				return nil, fmt.Errorf("no tables found in %s", name)
			}
			return grids, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			t := z.Token()
			switch t.Data {
			case "table":
				tableDepth++
				if tableDepth == 1 {
					rows = nil
				}
			case "tr":
				if tableDepth == 1 {
					endRow()
					isTableRow = true
				}
			case "td", "th":
				if tableDepth == 1 && isTableRow {
					endCell()
					isTableCell = true
					colspan = spanOf(t)
				}
			case "br":
				if isTableCell {
					cell.WriteString("\n")
				}
			}
		case html.TextToken:
			if isTableCell {
				cell.WriteString(whitespaceRegex.ReplaceAllString(string(z.Text()), " "))
			}
		case html.EndTagToken:
			t := z.Token()
			switch t.Data {
			case "td", "th":
				if tableDepth == 1 {
					endCell()
				}
			case "tr":
				if tableDepth == 1 {
					endRow()
				}
			case "table":
				if tableDepth == 1 {
					endRow()
					grids = append(grids, grid.FromStrings(fmt.Sprintf("%s#%d", name, len(grids)+1), rows))
				}
				tableDepth = max(tableDepth-1, 0)
			}
		}
	}
}

func spanOf(t html.Token) int {
	for _, attr := range t.Attr {
		if attr.Key != "colspan" {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(attr.Val)); err == nil && n > 1 {
			return n
		}
	}
	return 1
}

func cleanCell(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}
