package scorerow

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
)

// Mode decides how many non-judge fields surround the judges' columns.
type Mode int

const (
	PCS Mode = iota
	GOE
)

func (m Mode) String() string {
	switch m {
	case PCS:
		return "pcs"
	case GOE:
		return "goe"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Offset is the count of fields that are not judge scores: factor and
// average for PCS rows, base value, factored GOE and total for GOE rows.
func (m Mode) Offset() int {
	if m == GOE {
		return 3
	}
	return 2
}

// Case records which dash interpretation produced the expected width.
// Zero means no reconciliation took place.
type Case int

const (
	NoCase Case = iota
	DropDashes
	DashesNotScored
	TrailingRunOfOne
	TrailingRunOfTwo
	TrailingRunOfThree
)

// NotScored stands in for a judge that did not score the element.
const NotScored = "NS"

const dash = "-"

type strategy func(tokens []string, want int) ([]string, bool)

var strategies = map[Case]strategy{
	DropDashes: func(tokens []string, want int) ([]string, bool) {
		out := slices.DeleteFunc(slices.Clone(tokens), func(s string) bool { return s == dash })
		return out, len(out) == want
	},
	DashesNotScored: func(tokens []string, want int) ([]string, bool) {
		out := notScored(tokens)
		return out, len(out) == want
	},
	TrailingRunOfOne:   trailingRun(1),
	TrailingRunOfTwo:   trailingRun(2),
	TrailingRunOfThree: trailingRun(3),
}

var order = []Case{DropDashes, DashesNotScored, TrailingRunOfOne, TrailingRunOfTwo, TrailingRunOfThree}

func notScored(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		if t == dash {
			out[i] = NotScored
		} else {
			out[i] = t
		}
	}
	return out
}

// trailingRun removes a run of n placeholder columns sitting right before
// the last value, which is where converters put stray dash columns.
func trailingRun(n int) strategy {
	return func(tokens []string, want int) ([]string, bool) {
		out := notScored(tokens)
		if len(out)-want != n || len(out) < n+1 {
			return nil, false
		}
		run := out[len(out)-1-n : len(out)-1]
		for _, t := range run {
			if t != NotScored {
				return nil, false
			}
		}
		return slices.Delete(out, len(out)-1-n, len(out)-1), true
	}
}

// Reconcile interprets the dashes of a numeric tail so that it ends up with
// exactly Offset()+judges values. The hint, usually the case that worked on
// the previous row of the same protocol, is tried first; it never overrides
// the width check. With judges <= 0 dashes are simply dropped.
func Reconcile(mode Mode, tokens []string, judges int, hint Case) ([]string, Case, error) {
	if judges <= 0 {
		out, _ := strategies[DropDashes](tokens, 0)
		return out, NoCase, nil
	}

	want := mode.Offset() + judges
	attempts := order
	if _, ok := strategies[hint]; ok {
		attempts = append([]Case{hint}, slices.DeleteFunc(slices.Clone(order), func(c Case) bool { return c == hint })...)
	}
	for _, c := range attempts {
		if out, ok := strategies[c](tokens, want); ok {
			log.Debug().
				Str("mode", mode.String()).
				Int("judges", judges).
				Int("case", int(c)).
				Int("hint", int(hint)).
				Msg("reconciled judge columns")
			return out, c, nil
		}
	}
	return nil, NoCase, &AmbiguousColumnCountError{Mode: mode, Judges: judges, Tokens: slices.Clone(tokens)}
}
