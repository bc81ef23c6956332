package records

import (
	"errors"
	"testing"
	"time"

	"github.com/Nydauron/skatescore/element"
	"github.com/Nydauron/skatescore/identity"
	"github.com/Nydauron/skatescore/isu"
	"github.com/Nydauron/skatescore/protocol"
	"github.com/Nydauron/skatescore/segment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func run(t *testing.T) ([]protocol.SegmentProtocols, *identity.Registry, []identity.Panel) {
	t.Helper()
	r := identity.NewRegistry()
	skater := r.ResolvePerson("Yuzuru HANYU", "JPN", 2017)
	referee := r.ResolveOfficial("Mr. Jon DOE", "USA", 2017)

	seg := segment.Segment{
		ID:         1,
		Event:      "LOM",
		StartDate:  time.Date(2017, time.September, 14, 0, 0, 0, 0, time.UTC),
		Season:     2017,
		Category:   "Sr",
		Class:      isu.Men,
		Discipline: isu.Singles,
		Code:       "SP",
		Source:     "170914_LOM_Men SP Scores.xlsx",
	}
	p := protocol.Protocol{
		ID:             1,
		SegmentID:      1,
		Competitor:     identity.Resolution{ID: skater, Name: "Yuzuru HANYU"},
		Nation:         "JPN",
		Rank:           1,
		StartingNumber: intp(24),
		TSS:            dec("22.90"),
		TES:            dec("12.90"),
		PCS:            dec("11.00"),
		Deductions:     dec("-1.00"),
		Judges:         3,
		Components: []protocol.Component{{
			ID:         1,
			ProtocolID: 1,
			Name:       "Skating Skills",
			Factor:     dec("1.00"),
			Average:    dec("9.00"),
			Scores:     []decimal.NullDecimal{{Decimal: dec("9.25"), Valid: true}, {}, {Decimal: dec("8.75"), Valid: true}},
		}},
		Elements: []element.Element{{
			ID:          1,
			ProtocolID:  1,
			No:          1,
			Name:        "4S",
			Type:        "jump",
			BaseValue:   dec("10.50"),
			FactoredGOE: dec("2.40"),
			Total:       dec("12.90"),
			Grades:      []*int{intp(2), nil, intp(2)},
			Detail:      element.Detail{Name: "4S", Jumps: []element.Jump{{Name: "4S", Calls: "<"}}},
			JumpCalls:   []element.Calls{{UnderRotated: true}},
			Flags:       element.Calls{UnderRotated: true},
		}},
		DeductionDetail: map[string]int{"falls": -1},
	}
	results := []protocol.SegmentProtocols{{
		Segment:   seg,
		Protocols: []protocol.Protocol{p},
		Failures: []protocol.Failure{{
			Segment:    seg.String(),
			Source:     seg.Source,
			Competitor: "Shoma UNO",
			Span:       protocol.Span{Start: 16, End: 31},
			Section:    "elements",
			Raw:        []string{"1", "XX9"},
			Err:        errors.New("unrecognized element"),
		}},
	}}
	panels := []identity.Panel{{SegmentID: 1, Roles: map[string]int{"Referee": referee}}}
	return results, r, panels
}

func TestBuild(t *testing.T) {
	dump := Build(run(t))

	require.Len(t, dump.Segments, 1)
	s := dump.Segments[0]
	assert.Equal(t, "SB2017", s.Season)
	assert.Equal(t, "2017-09-14", s.StartDate)
	assert.True(t, s.Challenger)

	require.Len(t, s.Protocols, 1)
	p := s.Protocols[0]
	assert.Equal(t, "22.90", p.TSS)
	assert.Equal(t, "-1.00", p.Deductions)
	assert.Equal(t, map[string]int{"falls": -1}, p.DeductionTypes)

	require.Len(t, p.Elements, 1)
	e := p.Elements[0]
	assert.Equal(t, "12.90", e.Total)
	assert.Equal(t, []string{"4S"}, e.Jumps)
	assert.Equal(t, []string{"under-rotated"}, e.Calls)

	require.Len(t, p.Components, 1)
	scores := p.Components[0].Scores
	require.Len(t, scores, 3)
	assert.Nil(t, scores[1])
	assert.Equal(t, "9.25", *scores[0])

	require.Len(t, dump.Competitors, 1)
	assert.Equal(t, map[string]string{"SB2017": "JPN"}, dump.Competitors[0].Federations)
	require.Len(t, dump.Officials, 1)
	assert.Equal(t, "Jon DOE", dump.Officials[0].Name)
	require.Len(t, dump.Panels, 1)

	require.Len(t, dump.Failures, 1)
	assert.Equal(t, "unrecognized element", dump.Failures[0].Error)
	assert.Equal(t, 16, dump.Failures[0].FirstRow)
}

func TestFlatten(t *testing.T) {
	tables := Flatten(run(t))

	for _, name := range TableNames {
		assert.Contains(t, tables, name)
	}
	assert.Len(t, tables[SegmentsTable], 1)
	assert.Len(t, tables[ProtocolsTable], 1)
	assert.Len(t, tables[ElementsTable], 1)
	assert.Len(t, tables[PCSAveragesTable], 1)
	assert.Len(t, tables[DeductionsTable], 1)
	assert.Len(t, tables[FailuresTable], 1)

	// unscored judges are dropped when melting
	assert.Len(t, tables[GOEDetailTable], 2)
	assert.Len(t, tables[PCSDetailTable], 2)

	assert.Equal(t, "CS", tables[SegmentsTable][0]["cs_flag"])
	assert.Equal(t, 1, tables[PanelsTable][0]["Referee"])
	assert.Equal(t, "JPN", tables[CompetitorsTable][0]["sb2017_fed"])
}

func TestColumns(t *testing.T) {
	tables := Tables{"t": {
		{"b": 1, "a": 2},
		{"c": 3},
	}}
	assert.Equal(t, []string{"a", "b", "c"}, tables.Columns("t"))
	assert.Empty(t, tables.Columns("missing"))
}
