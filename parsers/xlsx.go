package parsers

import (
	"fmt"
	"io"

	"github.com/Nydauron/skatescore/grid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// ParseXLSX returns one grid per worksheet, in workbook order.
func ParseXLSX(r io.Reader, name string) ([]*grid.Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in %s", name)
	}

	grids := make([]*grid.Grid, 0, len(sheets))
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}
		log.Debug().Str("file", name).Str("sheet", sheet).Int("rows", len(rows)).Msg("read sheet")
		grids = append(grids, grid.FromStrings(sheet, rows))
	}
	return grids, nil
}
