package parsers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/Nydauron/skatescore/grid"
)

// ParseCSV reads a single-sheet export. Records may have any number of
// fields. encoding/csv drops blank lines.
func ParseCSV(r io.Reader, name string) ([]*grid.Grid, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}
		rows = append(rows, record)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s is empty", name)
	}
	return []*grid.Grid{grid.FromStrings(name, rows)}, nil
}
