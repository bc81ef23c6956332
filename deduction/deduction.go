package deduction

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/Nydauron/skatescore/grid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var (
	typeRegex        = regexp.MustCompile(`[A-Z][^:\-0-9.]*`)
	pointRegex       = regexp.MustCompile(`^-*\d(?:\.00|\.0)*`)
	totalRegex       = regexp.MustCompile(`(\d(?:\.0|\.00)*) {1,2}-*\d+(?:\.0)*0*`)
	notSplitRegex    = regexp.MustCompile(`^Deductions [A-Z]`)
	fallCountRegex   = regexp.MustCompile(`\(\d+\)`)
	undeductedRegex  = regexp.MustCompile(`(?:\b|\n)[A-Z][a-z ]+: \(([1-3] of 7|[1-4] of 8|[1-4] of 9|[1-5] of 10)\)`)
	truncatedVoteRgx = regexp.MustCompile(`\n\(([1-3] of 7|[1-4] of 8|[1-4] of 9|[1-5] of 10)\)`)
)

const totalType = "total"

// Aliases maps spellings seen over the years to one deduction type.
var Aliases = map[string]string{
	"fall":                         "falls",
	"late start":                   "time violation",
	"illegal element":              "illegal element/movement",
	"costume violation":            "costume/prop violation",
	"costume & prop violation":     "costume/prop violation",
	"extra element by verif":       "extra element",
	"illegal element / movement":   "illegal element/movement",
	"music restriction violation":  "music violation",
	"music requirements violation": "music violation",
	"music requirements":           "music violation",
	"extended lift":                "extended lifts",
}

// KnownTypes lists every deduction type accepted once Aliases is applied.
var KnownTypes = []string{
	"total", "falls", "time violation", "costume failure", "late start", "music violation",
	"interruption in excess", "costume & prop violation", "illegal element/movement",
	"extended lifts", "extra element", "illegal element", "costume violation",
	"extra element by verif", "illegal element / movement", "music restriction violation",
	"music tempo", "violation of choreography restrictions", "music requirements violation",
	"costume/prop violation", "music requirements", "extended lift",
}

type UnknownTypeError struct {
	Type string
	Raw  []string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unexpected deduction %q in %q", e.Type, e.Raw)
}

// MismatchError is returned when deduction types and point values cannot
// be paired up.
type MismatchError struct {
	Types  []string
	Points []string
	Raw    []string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("deduction types %q do not pair with points %q in %q", e.Types, e.Points, e.Raw)
}

// Parse recovers the deduction type to points mapping of a deductions
// block. Points are always negative and zero entries are dropped.
func Parse(raw grid.RawRow) (map[string]int, error) {
	if raw.Len() == 0 {
		return map[string]int{}, nil
	}
	log.Debug().Strs("raw", raw.Values).Msg("parsing deductions")

	cells := slices.Clone(raw.Values)
	if notSplitRegex.MatchString(cells[0]) {
		cells[0] = strings.Replace(cells[0], "Deductions ", "Deductions: ", 1)
	}
	cells = removeUndeductedVotes(cells)

	split, err := splitOnNewline(splitOnColon(cells), raw)
	if err != nil {
		return nil, err
	}
	for i, c := range split {
		split[i] = fallCountRegex.ReplaceAllString(c, "")
	}
	text := totalRegex.ReplaceAllString(strings.Join(split, " "), "$1")
	log.Debug().Str("text", text).Msg("deduction text")

	words := typeRegex.FindAllString(text, -1)
	points := scanPoints(text)

	types := make([]string, 0, len(words))
	for _, w := range words {
		t := strings.ToLower(strings.TrimSpace(w))
		if alias, ok := Aliases[t]; ok {
			t = alias
		}
		if !slices.Contains(KnownTypes, t) {
			return nil, &UnknownTypeError{Type: t, Raw: raw.Values}
		}
		types = append(types, t)
	}
	if len(types) != len(points) {
		return nil, &MismatchError{Types: types, Points: points, Raw: raw.Values}
	}

	out := map[string]int{}
	for i, t := range types {
		p, err := decimal.NewFromString(points[i])
		if err != nil {
			return nil, &MismatchError{Types: types, Points: points, Raw: raw.Values}
		}
		v := int(p.IntPart())
		if v > 0 {
			v = -v
		}
		if v == 0 || t == totalType {
			continue
		}
		out[t] += v
	}
	return out, nil
}

// Sum adds up the points of a deduction mapping.
func Sum(d map[string]int) int {
	total := 0
	for _, v := range d {
		total += v
	}
	return total
}

// removeUndeductedVotes drops violations that only a minority of judges
// voted for, "Costume: (2 of 9)". A vote cut onto the next cell also
// removes the last line of the cell before it.
func removeUndeductedVotes(cells []string) []string {
	for i := range cells {
		cells[i] = undeductedRegex.ReplaceAllString(cells[i], "")
	}
	for i := 1; i < len(cells); i++ {
		if truncatedVoteRgx.MatchString(cells[i]) {
			cells[i] = truncatedVoteRgx.ReplaceAllString(cells[i], "")
			if j := strings.LastIndex(cells[i-1], "\n"); j >= 0 {
				cells[i-1] = cells[i-1][:j]
			} else {
				cells[i-1] = ""
			}
		}
	}
	return cells
}

// splitOnColon separates a type and its value sharing a cell: "Falls: -2".
func splitOnColon(cells []string) []string {
	out := []string{}
	for _, c := range cells {
		parts := strings.Split(c, ": ")
		if len(parts) > 1 && parts[1] != "" {
			out = append(out, parts...)
			continue
		}
		out = append(out, c)
	}
	return out
}

func isTypeString(s string) bool {
	lower := strings.ToLower(s)
	return !strings.Contains(lower, "deductions") && !strings.Contains(lower, "score")
}

// splitOnNewline untangles cells holding several lines. A text cell next to
// a numeric cell with the same number of lines is zipped with it;
// otherwise only lines that look like a type or a point value are kept.
func splitOnNewline(cells []string, raw grid.RawRow) ([]string, error) {
	out := []string{}
	for i := 0; i < len(cells); {
		cell := cells[i]
		if !strings.Contains(cell, "\n") {
			if isTypeString(cell) {
				out = append(out, cell)
			}
			i++
			continue
		}

		lines := strings.Split(cell, "\n")
		if i+1 < len(cells) && grid.IsTextLike(cell) && grid.IsDigitLike(cells[i+1]) && strings.Contains(cells[i+1], "\n") {
			next := strings.Split(cells[i+1], "\n")
			if len(lines) != len(next) {
				lines = slices.DeleteFunc(lines, func(l string) bool { return !isTypeString(l) })
				next = slices.DeleteFunc(next, func(l string) bool { return !grid.IsSmallInt(l) })
			}
			if len(lines) != len(next) {
				return nil, &MismatchError{Types: lines, Points: next, Raw: raw.Values}
			}
			for k := range lines {
				out = append(out, lines[k], next[k])
			}
			i += 2
			continue
		}

		for _, l := range lines {
			if (grid.IsDigitLike(l) && grid.IsSmallInt(l)) || (grid.IsTextLike(l) && isTypeString(l)) {
				out = append(out, l)
			}
		}
		i++
	}
	return out, nil
}

// scanPoints finds point values that do not continue another number.
func scanPoints(text string) []string {
	out := []string{}
	for i := 0; i < len(text); {
		if i > 0 && text[i-1] >= '0' && text[i-1] <= '9' {
			i++
			continue
		}
		if loc := pointRegex.FindStringIndex(text[i:]); loc != nil {
			out = append(out, text[i:i+loc[1]])
			i += loc[1]
			continue
		}
		i++
	}
	return out
}
