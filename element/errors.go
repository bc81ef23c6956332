package element

import (
	"fmt"
	"strings"

	"github.com/Nydauron/skatescore/isu"
)

type UnrecognizedElementError struct {
	Discipline isu.Discipline
	Text       string
}

func (e *UnrecognizedElementError) Error() string {
	return fmt.Sprintf("no %s element pattern matches %q", e.Discipline, e.Text)
}

// AmbiguousElementError means two patterns of one discipline overlap.
type AmbiguousElementError struct {
	Discipline isu.Discipline
	Text       string
	Patterns   []string
}

func (e *AmbiguousElementError) Error() string {
	return fmt.Sprintf("%s element %q matches several patterns: %s", e.Discipline, e.Text, strings.Join(e.Patterns, ", "))
}

type UnclassifiedElementError struct {
	Discipline isu.Discipline
	Name       string
}

func (e *UnclassifiedElementError) Error() string {
	return fmt.Sprintf("could not find %s element type for %q", e.Discipline, e.Name)
}

// ImputationError reports a call written apart from the element name that
// cannot be attached to exactly one jump.
type ImputationError struct {
	Name   string
	Calls  string
	Reason string
}

func (e *ImputationError) Error() string {
	return fmt.Sprintf("cannot impute calls %q on %q: %s", e.Calls, e.Name, e.Reason)
}

// ValidationError is returned when base value and GOE do not add up to the
// element total.
type ValidationError struct {
	No     int
	Name   string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("element %d %q: %s", e.No, e.Name, e.Detail)
}
