package protocol

import (
	"errors"
	"fmt"
)

// ErrNoComponents is returned when a protocol's element list is not followed
// by a program components table.
var ErrNoComponents = errors.New("no program components table after the elements")

// SectionError locates a failure inside a protocol: the section being read,
// the grid row and the raw cells of that row.
type SectionError struct {
	Section string
	Row     int
	Raw     []string
	Err     error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("%s, row %d %q: %v", e.Section, e.Row, e.Raw, e.Err)
}

func (e *SectionError) Unwrap() error {
	return e.Err
}

// DeductionTotalError is returned when no reading of the deductions block
// sums to the deductions implied by the protocol totals. Failed holds the
// readings that did not parse at all.
type DeductionTotalError struct {
	Want     int
	Attempts []map[string]int
	Failed   []error
	Raw      []string
}

func (e *DeductionTotalError) Error() string {
	if len(e.Failed) > 0 {
		return fmt.Sprintf("deductions %v in %q do not sum to %d (%d readings failed: %v)", e.Attempts, e.Raw, e.Want, len(e.Failed), errors.Join(e.Failed...))
	}
	return fmt.Sprintf("deductions %v in %q do not sum to %d", e.Attempts, e.Raw, e.Want)
}

func (e *DeductionTotalError) Unwrap() []error {
	return e.Failed
}
