package records

import (
	"cmp"
	"maps"
	"slices"
	"time"

	"github.com/Nydauron/skatescore/element"
	"github.com/Nydauron/skatescore/identity"
	"github.com/Nydauron/skatescore/protocol"
	"github.com/shopspring/decimal"
)

func Build(results []protocol.SegmentProtocols, r *identity.Registry, panels []identity.Panel) Dump {
	dump := Dump{
		Segments:    make([]Segment, 0, len(results)),
		Competitors: []Competitor{},
	}
	for _, res := range results {
		s := res.Segment
		seg := Segment{
			ID:         s.ID,
			Event:      s.Event,
			StartDate:  s.StartDate.Format(time.DateOnly),
			Season:     s.Season.String(),
			Category:   s.Category,
			Class:      string(s.Class),
			Discipline: s.Discipline.String(),
			Code:       s.Code,
			SubEvent:   s.SubEvent,
			Challenger: !s.IsAComp(),
			Source:     s.Source,
			Protocols:  make([]Protocol, 0, len(res.Protocols)),
		}
		for _, p := range res.Protocols {
			seg.Protocols = append(seg.Protocols, buildProtocol(p))
		}
		dump.Segments = append(dump.Segments, seg)

		for _, f := range res.Failures {
			dump.Failures = append(dump.Failures, Failure{
				Segment:    f.Segment,
				Source:     f.Source,
				Competitor: f.Competitor,
				FirstRow:   f.Span.Start,
				LastRow:    f.Span.End,
				Section:    f.Section,
				Raw:        f.Raw,
				Error:      f.Err.Error(),
			})
		}
	}

	for _, c := range r.Competitors() {
		dump.Competitors = append(dump.Competitors, Competitor{
			ID:          c.ID,
			Type:        string(c.Type),
			Name:        c.DisplayName(),
			LadyID:      c.LadyID,
			ManID:       c.ManID,
			Federations: federations(c.Federations),
		})
	}
	for _, o := range r.Officials() {
		dump.Officials = append(dump.Officials, Official{
			ID:          o.ID,
			Name:        o.Name.Full(),
			Federations: federations(o.Federations),
		})
	}
	for _, p := range panels {
		dump.Panels = append(dump.Panels, Panel{Segment: p.SegmentID, Roles: p.Roles})
	}
	return dump
}

func buildProtocol(p protocol.Protocol) Protocol {
	out := Protocol{
		ID:             p.ID,
		Competitor:     p.Competitor.ID,
		Name:           p.Competitor.Name,
		Nation:         p.Nation,
		Rank:           p.Rank,
		StartingNumber: p.StartingNumber,
		TSS:            fixed(p.TSS),
		TES:            fixed(p.TES),
		PCS:            fixed(p.PCS),
		Deductions:     fixed(p.Deductions),
		Judges:         p.Judges,
		DeductionTypes: p.DeductionDetail,
		Elements:       make([]Element, 0, len(p.Elements)),
		Components:     make([]Component, 0, len(p.Components)),
	}
	for _, e := range p.Elements {
		el := Element{
			No:        e.No,
			Name:      e.Name,
			Type:      e.Type,
			Level:     e.Detail.Level,
			BaseValue: fixed(e.BaseValue),
			GOE:       fixed(e.FactoredGOE),
			Total:     fixed(e.Total),
			Grades:    e.Grades,
			Invalid:   e.Invalid,
			Bonus:     e.Detail.Bonus,
			Calls:     callNames(e.Flags),
		}
		for _, j := range e.Detail.Jumps {
			el.Jumps = append(el.Jumps, j.Name)
		}
		out.Elements = append(out.Elements, el)
	}
	for _, c := range p.Components {
		comp := Component{
			Name:    c.Name,
			Factor:  fixed(c.Factor),
			Average: fixed(c.Average),
			Scores:  make([]*string, len(c.Scores)),
		}
		for i, s := range c.Scores {
			if s.Valid {
				v := fixed(s.Decimal)
				comp.Scores[i] = &v
			}
		}
		out.Components = append(out.Components, comp)
	}
	return out
}

func fixed(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func callNames(c element.Calls) []string {
	var names []string
	if c.UnderRotated {
		names = append(names, "under-rotated")
	}
	if c.Downgraded {
		names = append(names, "downgraded")
	}
	if c.SevereEdge {
		names = append(names, "wrong edge")
	}
	if c.UnclearEdge {
		names = append(names, "unclear edge")
	}
	return names
}

func federations(f identity.Federations) map[string]string {
	if len(f) == 0 {
		return nil
	}
	out := make(map[string]string, len(f))
	for season, fed := range f {
		out[season.String()] = fed
	}
	return out
}

// Table names of the flattened export, in load order.
const (
	SegmentsTable    = "segments"
	CompetitorsTable = "competitors"
	OfficialsTable   = "officials"
	ProtocolsTable   = "protocols"
	PCSAveragesTable = "pcs_averages"
	PCSDetailTable   = "pcs_detail"
	ElementsTable    = "elements"
	GOEDetailTable   = "goe_detail"
	DeductionsTable  = "deductions_detail"
	PanelsTable      = "panels"
	FailuresTable    = "failures"
)

var TableNames = []string{
	SegmentsTable,
	CompetitorsTable,
	OfficialsTable,
	ProtocolsTable,
	PCSAveragesTable,
	PCSDetailTable,
	ElementsTable,
	GOEDetailTable,
	DeductionsTable,
	PanelsTable,
	FailuresTable,
}

// Tables holds one list of column -> value rows per table name.
type Tables map[string][]map[string]any

// Flatten renders a run as relational rows. Per-judge marks are melted to
// one row per judge, and marks of judges who did not score are dropped.
func Flatten(results []protocol.SegmentProtocols, r *identity.Registry, panels []identity.Panel) Tables {
	t := Tables{}
	for _, name := range TableNames {
		t[name] = []map[string]any{}
	}
	for _, res := range results {
		t.add(SegmentsTable, res.Segment.Flatten())
		for _, p := range res.Protocols {
			t.add(ProtocolsTable, p.Flatten())
			t.add(DeductionsTable, p.DeductionRows()...)
			for _, c := range p.Components {
				t.add(PCSAveragesTable, c.Flatten())
				t.add(PCSDetailTable, c.ScoreRows()...)
			}
			for _, e := range p.Elements {
				t.add(ElementsTable, e.Flatten())
				t.add(GOEDetailTable, e.GradeRows()...)
			}
		}
		for _, f := range res.Failures {
			t.add(FailuresTable, f.Flatten())
		}
	}
	for _, c := range r.Competitors() {
		t.add(CompetitorsTable, c.Flatten())
	}
	for _, o := range r.Officials() {
		t.add(OfficialsTable, o.Flatten())
	}
	for _, p := range slices.SortedFunc(slices.Values(panels), func(a, b identity.Panel) int {
		return cmp.Compare(a.SegmentID, b.SegmentID)
	}) {
		t.add(PanelsTable, p.Flatten())
	}
	return t
}

func (t Tables) add(table string, rows ...map[string]any) {
	t[table] = append(t[table], rows...)
}

// Columns is the sorted union of the columns used by a table's rows.
func (t Tables) Columns(table string) []string {
	seen := map[string]struct{}{}
	for _, row := range t[table] {
		for k := range row {
			seen[k] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}
