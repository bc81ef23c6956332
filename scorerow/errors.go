package scorerow

import (
	"fmt"
	"strings"
)

// AmbiguousColumnCountError is returned when no dash interpretation yields
// the expected number of judge columns.
type AmbiguousColumnCountError struct {
	Mode   Mode
	Judges int
	Tokens []string
	Raw    []string
}

func (e *AmbiguousColumnCountError) Error() string {
	return fmt.Sprintf("%s row does not have %d columns for %d judges: [%s]",
		e.Mode, e.Mode.Offset()+e.Judges, e.Judges, strings.Join(e.Tokens, " "))
}

// RowShapeError reports a row whose labels and values are not where a
// score row keeps them.
type RowShapeError struct {
	Kind   string
	Reason string
	Raw    []string
}

func (e *RowShapeError) Error() string {
	return fmt.Sprintf("%s row: %s: %q", e.Kind, e.Reason, e.Raw)
}
