package protocol

import (
	"maps"
	"slices"
	"strings"

	"github.com/Nydauron/skatescore/element"
	"github.com/Nydauron/skatescore/identity"
	"github.com/Nydauron/skatescore/scorerow"
	"github.com/Nydauron/skatescore/segment"
	"github.com/shopspring/decimal"
)

// Span is the range of grid rows holding one protocol, from the name header
// to the deductions line.
type Span struct {
	Start int
	End   int
}

// Component is one program component of a protocol.
type Component struct {
	ID         int
	ProtocolID int
	Name       string
	Factor     decimal.Decimal
	Average    decimal.Decimal
	Scores     []decimal.NullDecimal
	Case       scorerow.Case
}

func (c Component) Flatten() map[string]any {
	return map[string]any{
		"id":               c.ID,
		"protocol_id":      c.ProtocolID,
		"component":        c.Name,
		"component_factor": c.Factor,
		"trimmed_av_cs":    c.Average,
	}
}

// ScoreRows melts the judges' marks into one row per scoring judge.
func (c Component) ScoreRows() []map[string]any {
	rows := []map[string]any{}
	for i, s := range c.Scores {
		if !s.Valid {
			continue
		}
		rows = append(rows, map[string]any{
			"pcs_avg_id": c.ID,
			"judge_no":   element.JudgeKey(i + 1),
			"pcs_score":  s.Decimal,
		})
	}
	return rows
}

// Protocol is one competitor's scoring record for one segment.
type Protocol struct {
	ID             int
	SegmentID      int
	Competitor     identity.Resolution
	Nation         string
	Rank           int
	StartingNumber *int
	TSS            decimal.Decimal
	TES            decimal.Decimal
	PCS            decimal.Decimal
	// Deductions is TSS - TES - PCS.
	Deductions decimal.Decimal
	Judges     int
	Components []Component
	Elements   []element.Element
	// DeductionDetail maps deduction types to (negative) points.
	DeductionDetail map[string]int
	Span            Span
}

func (p Protocol) Flatten() map[string]any {
	row := map[string]any{
		"id":               p.ID,
		"segment_id":       p.SegmentID,
		"competitor_id":    p.Competitor.ID,
		"rank":             p.Rank,
		"tes":              p.TES,
		"pcs":              p.PCS,
		"tss":              p.TSS,
		"ded":              p.Deductions,
		"starting_number":  nil,
		"number_of_judges": p.Judges,
	}
	if p.StartingNumber != nil {
		row["starting_number"] = *p.StartingNumber
	}
	return row
}

// DeductionRows melts the deduction detail into one row per type, sorted by
// type.
func (p Protocol) DeductionRows() []map[string]any {
	rows := []map[string]any{}
	for _, t := range slices.Sorted(maps.Keys(p.DeductionDetail)) {
		rows = append(rows, map[string]any{
			"protocol_id":      p.ID,
			"deduction_type":   t,
			"deductions_score": p.DeductionDetail[t],
		})
	}
	return rows
}

// Failure records a protocol that could not be read, with enough context to
// fix the source document by hand.
type Failure struct {
	Segment    string
	Source     string
	Competitor string
	Span       Span
	Section    string
	Raw        []string
	Err        error
}

func (f Failure) Flatten() map[string]any {
	return map[string]any{
		"segment":    f.Segment,
		"source":     f.Source,
		"competitor": f.Competitor,
		"first_row":  f.Span.Start,
		"last_row":   f.Span.End,
		"section":    f.Section,
		"raw":        strings.Join(f.Raw, " | "),
		"error":      f.Err.Error(),
	}
}

// SegmentProtocols is a segment with the protocols read from its sheets.
type SegmentProtocols struct {
	Segment   segment.Segment
	Protocols []Protocol
	Failures  []Failure
}
