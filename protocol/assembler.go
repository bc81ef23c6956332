package protocol

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Nydauron/skatescore/deduction"
	"github.com/Nydauron/skatescore/element"
	"github.com/Nydauron/skatescore/grid"
	"github.com/Nydauron/skatescore/identity"
	"github.com/Nydauron/skatescore/isu"
	"github.com/Nydauron/skatescore/scorerow"
	"github.com/Nydauron/skatescore/segment"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	nameHeader       = "Name"
	skillsHeader     = "Skating Skills"
	elementsHeader   = "Elements"
	deductionsHeader = "Deductions"
	componentsFooter = "Program Components"

	// Headers are only looked for in the first few columns.
	nameHeaderCols      = 6
	deductionHeaderCols = 4
	// The single line name row sits at most this many rows below the header.
	nameSweepRows = 4
	nameSweepCols = 4
)

var nameLikeRegex = regexp.MustCompile(`[A-Z]{2,}`)

type Options struct {
	// Judges overrides the panel size read from the first component row.
	Judges int
	// FailFast stops at the first protocol that cannot be read.
	FailFast bool
}

// Assembler reads protocols off sheets. It shares the identity registry and
// the id sequences of the run.
type Assembler struct {
	registry *identity.Registry
	seq      *Sequences
	opts     Options
}

func NewAssembler(registry *identity.Registry, seq *Sequences, opts Options) *Assembler {
	return &Assembler{registry: registry, seq: seq, opts: opts}
}

// Locate pairs every name header with the next deductions line.
func Locate(g *grid.Grid) []Span {
	var starts, ends []int
	for i := 0; i < g.Rows(); i++ {
		if rowContains(g, i, nameHeaderCols, nameHeader) {
			starts = append(starts, i)
		}
		if rowContains(g, i, deductionHeaderCols, deductionsHeader) {
			ends = append(ends, i)
		}
	}
	spans := make([]Span, 0, min(len(starts), len(ends)))
	for k := 0; k < len(starts) && k < len(ends); k++ {
		spans = append(spans, Span{Start: starts[k], End: ends[k]})
	}
	return spans
}

func rowContains(g *grid.Grid, row, cols int, substr string) bool {
	for j := 0; j < cols; j++ {
		if strings.Contains(g.Text(row, j), substr) {
			return true
		}
	}
	return false
}

// Assemble reads every protocol of the segment's sheets. A protocol that
// cannot be read is logged and recorded as a failure; reading goes on with
// the next one unless FailFast is set.
func (a *Assembler) Assemble(seg segment.Segment, sheets ...*grid.Grid) (SegmentProtocols, error) {
	if seg.ID == 0 {
		seg.ID = a.seq.NextSegment()
	}
	out := SegmentProtocols{Segment: seg}
	for _, g := range sheets {
		spans := Locate(g)
		log.Debug().Str("sheet", g.Name).Int("protocols", len(spans)).Msg("located protocols")
		for _, span := range spans {
			p, err := a.AssembleOne(g, seg, span)
			if err == nil {
				out.Protocols = append(out.Protocols, p)
				continue
			}

			f := Failure{
				Segment:    seg.String(),
				Source:     seg.Source,
				Competitor: p.Competitor.Name,
				Span:       span,
				Err:        err,
			}
			var section *SectionError
			if errors.As(err, &section) {
				f.Section = section.Section
				f.Raw = section.Raw
			}
			log.Error().
				Err(err).
				Str("segment", f.Segment).
				Str("source", f.Source).
				Str("sheet", g.Name).
				Str("competitor", f.Competitor).
				Int("first_row", span.Start).
				Strs("raw", f.Raw).
				Msg("skipping protocol")
			out.Failures = append(out.Failures, f)
			if a.opts.FailFast {
				return out, fmt.Errorf("protocol of %q in %s: %w", f.Competitor, f.Segment, err)
			}
		}
	}
	return out, nil
}

// AssembleOne reads the protocol in span. On error the returned protocol
// holds whatever was read before the failure.
func (a *Assembler) AssembleOne(g *grid.Grid, seg segment.Segment, span Span) (Protocol, error) {
	p := Protocol{SegmentID: seg.ID, Span: span}

	nameRow, err := findNameRow(g, span.Start)
	if err != nil {
		return p, err
	}
	fields, err := nameRow.Fields(isu.HasStartingNumber(seg.Season, seg.Event))
	if err != nil {
		return p, &SectionError{Section: "name", Row: nameRow.Raw.Row, Raw: nameRow.Raw.Values, Err: err}
	}
	competitors, err := identity.CompetitorParserFor(seg.Discipline)
	if err != nil {
		return p, err
	}
	if p.Competitor, err = competitors.Resolve(a.registry, fields.Name, fields.Nation, seg.Season); err != nil {
		p.Competitor.Name = fields.Name
		return p, &SectionError{Section: "name", Row: nameRow.Raw.Row, Raw: nameRow.Raw.Values, Err: err}
	}

	p.ID = a.seq.NextProtocol()
	p.Nation = fields.Nation
	p.Rank = fields.Rank
	p.StartingNumber = fields.StartingNumber
	p.TSS, p.TES, p.PCS = fields.TSS, fields.TES, fields.PCS
	p.Deductions = p.TSS.Sub(p.TES).Sub(p.PCS)
	log.Debug().
		Int("id", p.ID).
		Str("competitor", p.Competitor.Name).
		Stringer("tss", p.TSS).
		Stringer("tes", p.TES).
		Stringer("pcs", p.PCS).
		Msg("reading protocol")

	if p.Judges = a.opts.Judges; p.Judges <= 0 {
		if p.Judges, err = countJudges(g, span, isu.ComponentCount(seg.Discipline, seg.Season)); err != nil {
			return p, err
		}
	}

	hint := scorerow.NoCase
	var seenSkills, seenElements, seenDeductions bool
	for i := span.Start; i <= span.End; i++ {
		for j := 0; j < g.Cols(); j++ {
			text := g.Text(i, j)
			switch {
			case !seenSkills && strings.Contains(text, skillsHeader):
				seenSkills = true
				if p.Components, hint, err = a.parseComponents(g, seg, p.ID, i, j, p.Judges, hint); err != nil {
					return p, err
				}
			case !seenElements && strings.Contains(text, elementsHeader):
				seenElements = true
				if p.Elements, hint, err = a.parseElements(g, seg, span, p.ID, i, j, p.Judges, hint); err != nil {
					return p, err
				}
			case !seenDeductions && j < deductionHeaderCols && strings.Contains(text, deductionsHeader):
				seenDeductions = true
				if p.DeductionDetail, err = parseDeductions(g, seg, p.Deductions, i, j); err != nil {
					return p, err
				}
			}
		}
	}
	if p.DeductionDetail == nil {
		p.DeductionDetail = map[string]int{}
	}

	tes := decimal.Zero
	for _, e := range p.Elements {
		tes = tes.Add(e.Total)
	}
	if !tes.Equal(p.TES) {
		log.Warn().Int("id", p.ID).Stringer("elements", tes).Stringer("tes", p.TES).Msg("element totals do not add up to the technical score")
	}
	return p, nil
}

// findNameRow looks for the competitor's line: either the header cells
// carry the values on a second line, or the values sit in a row shortly
// below the header.
func findNameRow(g *grid.Grid, anchor int) (scorerow.NameRow, error) {
	raw, err := grid.Read(g, anchor, 0)
	if err != nil {
		return scorerow.NameRow{}, err
	}
	for _, v := range raw.Values {
		if strings.Contains(v, nameHeader+"\n") {
			return parseNameRow(raw, scorerow.Multiline)
		}
	}

	for r := anchor + 1; r <= anchor+nameSweepRows; r++ {
		for c := 0; c < nameSweepCols; c++ {
			if !nameLikeRegex.MatchString(g.Text(r, c)) {
				continue
			}
			raw, err := grid.Read(g, r, 0)
			if err != nil {
				return scorerow.NameRow{}, err
			}
			return parseNameRow(raw, scorerow.SingleLine)
		}
	}
	return scorerow.NameRow{}, &SectionError{Section: "name", Row: anchor, Raw: raw.Values, Err: errors.New("no name row below the header")}
}

func parseNameRow(raw grid.RawRow, mode scorerow.NameMode) (scorerow.NameRow, error) {
	row, err := scorerow.ParseName(raw, mode)
	if err != nil {
		return row, &SectionError{Section: "name", Row: raw.Row, Raw: raw.Values, Err: err}
	}
	return row, nil
}

// countJudges reads the panel size off the component rows, scanning columns
// first since the label sits near the left edge. A dash drops a mark from
// its row, so the widest row wins.
func countJudges(g *grid.Grid, span Span, components int) (int, error) {
	for j := 0; j < g.Cols(); j++ {
		for i := span.Start; i <= span.End; i++ {
			if !strings.Contains(g.Text(i, j), skillsHeader) {
				continue
			}
			judges := 0
			for k := i; k < i+components && k <= span.End; k++ {
				raw, err := grid.Read(g, k, j)
				if err != nil {
					return 0, err
				}
				n, err := scorerow.CountJudges(raw)
				if err != nil {
					if k == i {
						return 0, &SectionError{Section: "judges", Row: k, Raw: raw.Values, Err: err}
					}
					log.Debug().Err(err).Int("row", k).Msg("skipping component row while counting judges")
					continue
				}
				judges = max(judges, n)
			}
			log.Debug().Int("judges", judges).Int("row", i).Msg("counted judges")
			return judges, nil
		}
	}
	return 0, &SectionError{Section: "judges", Row: span.Start, Err: errors.New("no component rows to count judges on")}
}

func (a *Assembler) parseComponents(g *grid.Grid, seg segment.Segment, protocolID, i, j, judges int, hint scorerow.Case) ([]Component, scorerow.Case, error) {
	n := isu.ComponentCount(seg.Discipline, seg.Season)
	components := make([]Component, 0, n)
	for k := i; k < i+n; k++ {
		raw, err := grid.Read(g, k, j)
		if err != nil {
			return nil, hint, err
		}
		row, err := scorerow.ParsePCS(raw, judges, hint)
		if err != nil {
			return nil, hint, &SectionError{Section: "components", Row: k, Raw: raw.Values, Err: err}
		}
		hint = row.Case
		components = append(components, Component{
			ID:         a.seq.NextComponent(),
			ProtocolID: protocolID,
			Name:       row.Label,
			Factor:     row.Factor,
			Average:    row.Average,
			Scores:     row.Scores,
			Case:       row.Case,
		})
	}
	return components, hint, nil
}

// elementRows returns the rows of the element list below the header at
// (i, j): it starts one row down, or two when the header spans two rows,
// and ends before the technical total that precedes the components table.
// The components table must sit inside the protocol's span.
func elementRows(g *grid.Grid, span Span, i, j int) (int, int, error) {
	first := i + 2
	if !g.IsEmpty(i+1, j) || (j > 0 && !g.IsEmpty(i+1, j-1)) {
		first = i + 1
	}
	for r := first; r <= span.End; r++ {
		raw, err := grid.Read(g, r, 0)
		if err != nil {
			return 0, 0, err
		}
		if raw.Contains(componentsFooter) {
			return first, r - 1, nil
		}
	}
	return 0, 0, ErrNoComponents
}

func (a *Assembler) parseElements(g *grid.Grid, seg segment.Segment, span Span, protocolID, i, j, judges int, hint scorerow.Case) ([]element.Element, scorerow.Case, error) {
	parser, err := element.ParserFor(seg.Discipline)
	if err != nil {
		return nil, hint, err
	}
	first, end, err := elementRows(g, span, i, j)
	if err != nil {
		return nil, hint, &SectionError{Section: "elements", Row: i, Err: err}
	}
	log.Debug().Int("first", first).Int("end", end).Msg("element rows")

	var elements []element.Element
	for k := first; k < end; k++ {
		raw, err := grid.Read(g, k, 0)
		if err != nil {
			return nil, hint, err
		}
		// A lone value belongs to the element line below it.
		if raw.Len() <= 1 {
			continue
		}
		above, err := grid.Read(g, k-1, 0)
		if err != nil {
			return nil, hint, err
		}
		row, err := scorerow.ParseGOEWithCarry(raw, above, judges, hint)
		if err != nil {
			return nil, hint, &SectionError{Section: "elements", Row: k, Raw: raw.Values, Err: err}
		}
		hint = row.Case
		e, err := parser.Parse(row, seg.Season, protocolID, a.seq.NextElement())
		if err != nil {
			return nil, hint, &SectionError{Section: "elements", Row: k, Raw: raw.Values, Err: err}
		}
		elements = append(elements, e)
	}
	return elements, hint, nil
}

// parseDeductions reads the deductions block at (i, j). Nothing is read
// when the totals leave no deduction. Older layouts spread the block over
// up to three rows, which are tried in turn until one sums to the target.
func parseDeductions(g *grid.Grid, seg segment.Segment, total decimal.Decimal, i, j int) (map[string]int, error) {
	if total.IsZero() {
		return map[string]int{}, nil
	}
	want := int(total.IntPart())

	maxRows := 1
	if isu.SpreadsDeductions(seg.StartDate.Year(), seg.Event) {
		maxRows = 3
	}

	var values []string
	var attempts []map[string]int
	var failed []error
	for n := 0; n < maxRows; n++ {
		raw, err := grid.Read(g, i+n, j)
		if err != nil {
			return nil, err
		}
		values = append(values, raw.Values...)
		joined, err := grid.FromValues(values)
		if err != nil {
			return nil, &SectionError{Section: "deductions", Row: i, Err: err}
		}
		got, err := deduction.Parse(joined)
		if err != nil {
			log.Debug().Err(err).Int("rows", n+1).Msg("deductions did not parse")
			failed = append(failed, err)
			continue
		}
		if deduction.Sum(got) == want {
			log.Debug().Int("rows", n+1).Interface("deductions", got).Msg("matched deductions")
			return got, nil
		}
		attempts = append(attempts, got)
	}
	if len(attempts) == 0 {
		return nil, &SectionError{Section: "deductions", Row: i, Raw: values, Err: errors.Join(failed...)}
	}
	return nil, &SectionError{
		Section: "deductions",
		Row:     i,
		Raw:     values,
		Err:     &DeductionTotalError{Want: want, Attempts: attempts, Failed: failed, Raw: values},
	}
}
