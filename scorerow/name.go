package scorerow

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Nydauron/skatescore/grid"
	"github.com/shopspring/decimal"
)

type NameMode int

const (
	// SingleLine rows hold one value per cell.
	SingleLine NameMode = iota
	// Multiline rows repeat the header in each cell: "Name\nYuzuru HANYU".
	Multiline
)

var (
	numberAndNameRegex = regexp.MustCompile(`^\d+\s+\D+`)
	nationRegex        = regexp.MustCompile(`^[A-Z]{3}$`)
)

// NameRow holds the values of a skater's header line in protocol order.
type NameRow struct {
	Values []string
	Raw    grid.RawRow
}

func ParseName(raw grid.RawRow, mode NameMode) (NameRow, error) {
	if raw.Len() == 0 {
		return NameRow{}, &RowShapeError{Kind: "name", Reason: "empty row", Raw: raw.Values}
	}
	values := make([]string, 0, raw.Len()+1)
	for _, v := range raw.Values {
		switch mode {
		case Multiline:
			if i := strings.LastIndex(v, "\n"); i >= 0 {
				v = v[i+1:]
			}
		case SingleLine:
		default:
			return NameRow{}, fmt.Errorf("unknown name row mode %d", mode)
		}
		values = append(values, strings.TrimSpace(v))
	}

	if numberAndNameRegex.MatchString(values[0]) {
		rank, name, _ := strings.Cut(values[0], " ")
		values = append([]string{rank, strings.TrimSpace(name)}, values[1:]...)
	}
	return NameRow{Values: values, Raw: raw}, nil
}

// NameFields are the typed values of a name row.
type NameFields struct {
	Rank           int
	Name           string
	Nation         string
	StartingNumber *int
	TSS            decimal.Decimal
	TES            decimal.Decimal
	PCS            decimal.Decimal
}

// Fields interprets the row. Layouts with a starting number have seven
// fields, older ones six. A row one field short whose name ends in a nation
// code gets the code split off first.
func (n NameRow) Fields(hasStartingNumber bool) (NameFields, error) {
	want := 6
	if hasStartingNumber {
		want = 7
	}
	values := n.Values
	if len(values) == want-1 && len(values) > 1 {
		if i := strings.LastIndex(values[1], " "); i > 0 && nationRegex.MatchString(values[1][i+1:]) {
			values = append([]string{values[0], values[1][:i], values[1][i+1:]}, values[2:]...)
		}
	}
	if len(values) < want {
		return NameFields{}, &RowShapeError{Kind: "name", Reason: fmt.Sprintf("expected %d fields, got %d", want, len(values)), Raw: n.Raw.Values}
	}

	var f NameFields
	var err error
	if f.Rank, err = strconv.Atoi(values[0]); err != nil {
		return NameFields{}, &RowShapeError{Kind: "name", Reason: "rank is not an integer", Raw: n.Raw.Values}
	}
	f.Name = values[1]
	f.Nation = values[2]
	scores := values[3:]
	if hasStartingNumber {
		no, err := strconv.Atoi(values[3])
		if err != nil {
			return NameFields{}, &RowShapeError{Kind: "name", Reason: "starting number is not an integer", Raw: n.Raw.Values}
		}
		f.StartingNumber = &no
		scores = values[4:]
	}
	for i, dst := range []*decimal.Decimal{&f.TSS, &f.TES, &f.PCS} {
		if *dst, err = parseDecimal(scores[i]); err != nil {
			return NameFields{}, &RowShapeError{Kind: "name", Reason: fmt.Sprintf("score %q is not a number", scores[i]), Raw: n.Raw.Values}
		}
	}
	return f, nil
}
