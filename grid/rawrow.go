package grid

import (
	"fmt"
	"strings"
)

type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "grid: " + e.Reason
}

// RawRow is the dense, left to right run of populated cells of one grid row.
type RawRow struct {
	Row    int
	Col    int
	Values []string
}

// Read collects the populated cells of row from colMin onward. Rows past the
// end of the grid read as empty.
func Read(g *Grid, row, colMin int) (RawRow, error) {
	if g == nil {
		return RawRow{}, &ConfigurationError{Reason: "no grid to read from"}
	}
	if row < 0 || colMin < 0 {
		return RawRow{}, &ConfigurationError{Reason: fmt.Sprintf("invalid anchor (%d, %d)", row, colMin)}
	}
	r := RawRow{Row: row, Col: colMin}
	for col := colMin; col < g.Cols(); col++ {
		cell := g.At(row, col)
		if IsEmpty(cell) {
			continue
		}
		r.Values = append(r.Values, Format(cell))
	}
	return r, nil
}

// FromValues wraps cells that were already collected, e.g. several deduction
// rows joined together.
func FromValues(values []string) (RawRow, error) {
	if len(values) == 0 {
		return RawRow{}, &ConfigurationError{Reason: "no values and no grid position"}
	}
	return RawRow{Row: -1, Col: -1, Values: values}, nil
}

func (r RawRow) Len() int {
	return len(r.Values)
}

// Joined concatenates the values with single spaces.
func (r RawRow) Joined() string {
	return strings.Join(r.Values, " ")
}

func (r RawRow) Contains(substr string) bool {
	return strings.Contains(r.Joined(), substr)
}
