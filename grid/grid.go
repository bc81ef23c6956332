package grid

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Cell holds whatever a spreadsheet reader produced for one position:
// nil, a string, a number or a date.
type Cell = any

// Grid is one sheet of a converted protocol document.
type Grid struct {
	Name  string
	cells [][]Cell
	cols  int
}

func New(name string, rows [][]Cell) *Grid {
	g := &Grid{Name: name, cells: rows}
	for _, r := range rows {
		g.cols = max(g.cols, len(r))
	}
	return g
}

// FromStrings builds a grid where empty strings are empty cells.
func FromStrings(name string, rows [][]string) *Grid {
	cells := make([][]Cell, len(rows))
	for i, r := range rows {
		cells[i] = make([]Cell, len(r))
		for j, v := range r {
			if v != "" {
				cells[i][j] = v
			}
		}
	}
	return New(name, cells)
}

func (g *Grid) Rows() int {
	return len(g.cells)
}

func (g *Grid) Cols() int {
	return g.cols
}

// At returns nil outside the grid.
func (g *Grid) At(row, col int) Cell {
	if row < 0 || row >= len(g.cells) || col < 0 || col >= len(g.cells[row]) {
		return nil
	}
	return g.cells[row][col]
}

// Text renders the cell at (row, col), "" when empty.
func (g *Grid) Text(row, col int) string {
	return Format(g.At(row, col))
}

func (g *Grid) IsEmpty(row, col int) bool {
	return IsEmpty(g.At(row, col))
}

// IsEmpty reports null, NaN and blank cells.
func IsEmpty(c Cell) bool {
	switch v := c.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case float64:
		return math.IsNaN(v)
	case float32:
		return math.IsNaN(float64(v))
	}
	return false
}

func Format(c Cell) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case time.Time:
		return v.Format(time.DateOnly)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(c)
}

// Values lists the populated cells row by row, trimmed.
func (g *Grid) Values() []string {
	var out []string
	for i := range g.cells {
		for _, c := range g.cells[i] {
			if IsEmpty(c) {
				continue
			}
			out = append(out, strings.TrimSpace(Format(c)))
		}
	}
	return out
}
