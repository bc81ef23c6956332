package scorerow

import (
	"errors"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/Nydauron/skatescore/grid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// A bonus marker stuck to the total, "10.10x".
var mergedBonusRegex = regexp.MustCompile(`^([\d., ]+) ?x$`)

// PCSRow is one program component line: label, factor, the judges' marks
// and the trimmed average.
type PCSRow struct {
	Label   string
	Factor  decimal.Decimal
	Scores  []decimal.NullDecimal
	Average decimal.Decimal
	Case    Case
	Raw     grid.RawRow
}

// GOERow is one executed element line.
type GOERow struct {
	No          int
	Label       string
	BaseValue   decimal.Decimal
	FactoredGOE decimal.Decimal
	// Grades is nil when no judge scored the element; single entries are
	// nil for judges that did not score it.
	Grades []*int
	Total  decimal.Decimal
	Case   Case
	Raw    grid.RawRow
}

// splitLabel returns the tokens and the index of the first numeric token at
// or after labelAt. The token at labelAt must not itself be numeric.
func splitLabel(kind string, raw grid.RawRow, tokens []string, labelAt int) ([]string, int, error) {
	if len(tokens) <= labelAt || grid.IsDigitLike(tokens[labelAt]) {
		return nil, 0, &RowShapeError{Kind: kind, Reason: "label is missing or numeric", Raw: raw.Values}
	}
	tokens = splitMergedBonus(tokens)
	for i := labelAt; i < len(tokens); i++ {
		if grid.IsDigitLike(tokens[i]) {
			return tokens, i, nil
		}
	}
	return nil, 0, &RowShapeError{Kind: kind, Reason: "no numeric values", Raw: raw.Values}
}

func splitMergedBonus(tokens []string) []string {
	out := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		if m := mergedBonusRegex.FindStringSubmatch(t); m != nil {
			out = append(out, m[1], "x")
			continue
		}
		out = append(out, t)
	}
	return out
}

func parseDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(grid.Delocalize(s))
}

// ParsePCS reads a program component row. With judges <= 0 every value
// between the factor and the average is taken as a judge's mark.
func ParsePCS(raw grid.RawRow, judges int, hint Case) (PCSRow, error) {
	tokens, start, err := splitLabel("pcs", raw, grid.Values(grid.Tokenize(raw)), 0)
	if err != nil {
		return PCSRow{}, err
	}

	values, c, err := Reconcile(PCS, tokens[start:], judges, hint)
	if err != nil {
		var ambiguous *AmbiguousColumnCountError
		if errors.As(err, &ambiguous) {
			ambiguous.Raw = raw.Values
		}
		return PCSRow{}, err
	}
	if len(values) < PCS.Offset() {
		return PCSRow{}, &RowShapeError{Kind: "pcs", Reason: "too few values", Raw: raw.Values}
	}

	row := PCSRow{Label: strings.Join(tokens[:start], " "), Case: c, Raw: raw}
	if row.Factor, err = parseDecimal(values[0]); err != nil {
		return PCSRow{}, &RowShapeError{Kind: "pcs", Reason: "factor is not a number", Raw: raw.Values}
	}
	if row.Average, err = parseDecimal(values[len(values)-1]); err != nil {
		return PCSRow{}, &RowShapeError{Kind: "pcs", Reason: "average is not a number", Raw: raw.Values}
	}
	for _, v := range values[1 : len(values)-1] {
		if v == NotScored {
			row.Scores = append(row.Scores, decimal.NullDecimal{})
			continue
		}
		d, err := parseDecimal(v)
		if err != nil {
			return PCSRow{}, &RowShapeError{Kind: "pcs", Reason: "judge mark " + strconv.Quote(v) + " is not a number", Raw: raw.Values}
		}
		row.Scores = append(row.Scores, decimal.NewNullDecimal(d))
	}
	log.Debug().Str("label", row.Label).Int("scores", len(row.Scores)).Msg("parsed pcs row")
	return row, nil
}

// CountJudges counts the marks of a component row read without knowing the
// panel size.
func CountJudges(raw grid.RawRow) (int, error) {
	row, err := ParsePCS(raw, 0, NoCase)
	if err != nil {
		return 0, err
	}
	return len(row.Scores), nil
}

// ParseGOE reads an element row: number, element label, base value,
// factored GOE, the judges' grades and the total.
func ParseGOE(raw grid.RawRow, judges int, hint Case) (GOERow, error) {
	return parseGOETokens(raw, grid.Values(grid.Tokenize(raw)), judges, hint)
}

// ParseGOEWithCarry retries a row that failed to reconcile using the row
// above it: converters sometimes move a single value of the element line
// onto a row of its own.
func ParseGOEWithCarry(raw, above grid.RawRow, judges int, hint Case) (GOERow, error) {
	row, err := ParseGOE(raw, judges, hint)
	var ambiguous *AmbiguousColumnCountError
	if err == nil || !errors.As(err, &ambiguous) || above.Len() != 1 {
		return row, err
	}

	tokens := grid.Values(grid.Tokenize(raw))
	if len(tokens) < 3 {
		return row, err
	}
	tokens = slices.Insert(tokens, 3, strings.TrimSpace(above.Values[0]))
	log.Debug().Int("row", raw.Row).Str("carried", above.Values[0]).Msg("retrying element row with value from row above")
	return parseGOETokens(raw, tokens, judges, hint)
}

func parseGOETokens(raw grid.RawRow, tokens []string, judges int, hint Case) (GOERow, error) {
	if len(tokens) == 0 {
		return GOERow{}, &RowShapeError{Kind: "goe", Reason: "empty row", Raw: raw.Values}
	}
	no, err := strconv.Atoi(tokens[0])
	if err != nil {
		return GOERow{}, &RowShapeError{Kind: "goe", Reason: "element number is not an integer", Raw: raw.Values}
	}
	tokens, start, err := splitLabel("goe", raw, tokens, 1)
	if err != nil {
		return GOERow{}, err
	}

	row := GOERow{No: no, Label: strings.Join(tokens[1:start], " "), Raw: raw}
	tail := slices.Clone(tokens[start:])
	for _, marker := range []string{"x", "X"} {
		if i := slices.Index(tail, marker); i >= 0 {
			row.Label += " x"
			tail = slices.Delete(tail, i, i+1)
			break
		}
	}

	values, c, err := Reconcile(GOE, tail, judges, hint)
	if err != nil {
		var ambiguous *AmbiguousColumnCountError
		if errors.As(err, &ambiguous) {
			ambiguous.Raw = raw.Values
		}
		return GOERow{}, err
	}
	if len(values) < GOE.Offset() {
		return GOERow{}, &RowShapeError{Kind: "goe", Reason: "too few values", Raw: raw.Values}
	}
	row.Case = c

	if row.BaseValue, err = parseDecimal(values[0]); err != nil {
		return GOERow{}, &RowShapeError{Kind: "goe", Reason: "base value is not a number", Raw: raw.Values}
	}
	if row.FactoredGOE, err = parseDecimal(values[1]); err != nil {
		return GOERow{}, &RowShapeError{Kind: "goe", Reason: "factored GOE is not a number", Raw: raw.Values}
	}
	if row.Total, err = parseDecimal(values[len(values)-1]); err != nil {
		return GOERow{}, &RowShapeError{Kind: "goe", Reason: "total is not a number", Raw: raw.Values}
	}

	scored := false
	grades := make([]*int, 0, len(values)-3)
	for _, v := range values[2 : len(values)-1] {
		if v == NotScored {
			grades = append(grades, nil)
			continue
		}
		d, err := parseDecimal(v)
		if err != nil {
			return GOERow{}, &RowShapeError{Kind: "goe", Reason: "grade " + strconv.Quote(v) + " is not a number", Raw: raw.Values}
		}
		g := int(d.IntPart())
		grades = append(grades, &g)
		scored = true
	}
	if scored {
		row.Grades = grades
	}
	return row, nil
}
