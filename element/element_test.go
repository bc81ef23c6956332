package element

import (
	"errors"
	"testing"

	"github.com/Nydauron/skatescore/isu"
	"github.com/Nydauron/skatescore/scorerow"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func goeRow(label, bv, goe, total string) scorerow.GOERow {
	g1, g2 := 1, 0
	return scorerow.GOERow{
		No:          1,
		Label:       label,
		BaseValue:   decimal.RequireFromString(bv),
		FactoredGOE: decimal.RequireFromString(goe),
		Total:       decimal.RequireFromString(total),
		Grades:      []*int{&g1, nil, &g2},
		Case:        scorerow.DropDashes,
	}
}

func mustParse(t *testing.T, d isu.Discipline, label string, season isu.Season) Element {
	t.Helper()
	p, err := ParserFor(d)
	require.NoError(t, err)
	e, err := p.Parse(goeRow(label, "5.00", "0.50", "5.50"), season, 7, 42)
	require.NoError(t, err, label)
	return e
}

func TestSinglesCombinationWithCalls(t *testing.T) {
	e := mustParse(t, isu.Singles, "2Lz+2T<e", 2017)

	assert.Equal(t, "2Lz+2T", e.Name)
	assert.Equal(t, "jump", e.Type)
	assert.Equal(t, []Jump{{Name: "2Lz"}, {Name: "2T", Calls: "<e"}}, e.Detail.Jumps)
	assert.True(t, e.Detail.Combo)
	assert.False(t, e.JumpCalls[0].UnderRotated)
	assert.True(t, e.JumpCalls[1].UnderRotated)
	assert.True(t, e.JumpCalls[1].SevereEdge)
	assert.True(t, e.Flags.UnderRotated)

	row := e.Flatten()
	assert.Equal(t, "2T", row["jump_2"])
	assert.Equal(t, true, row["jump_2_ur"])
	assert.Equal(t, true, row["jump_2_sev_edge"])
	assert.Equal(t, false, row["jump_1_ur"])
	assert.Equal(t, true, row["combo_flag"])
	assert.Equal(t, 7, row["protocol_id"])
}

func TestSpinAndLevelledElements(t *testing.T) {
	spin := mustParse(t, isu.Singles, "CCoSp4V2", 2017)
	assert.Equal(t, "CCoSp", spin.Name)
	assert.Equal(t, "spin", spin.Type)
	assert.Equal(t, "4", spin.Detail.Level)
	assert.True(t, spin.Detail.FailedSpin)
	require.NotNil(t, spin.Detail.MissedReqs)
	assert.Equal(t, 2, *spin.Detail.MissedReqs)

	steps := mustParse(t, isu.Singles, "StSq3*", 2017)
	assert.Equal(t, "StSq", steps.Name)
	assert.Equal(t, "steps", steps.Type)
	assert.Equal(t, "3", steps.Detail.Level)
	assert.True(t, steps.Invalid)

	spiral := mustParse(t, isu.Singles, "ChSp1", 2008)
	assert.Equal(t, "spiral", spiral.Type)
}

func TestDisciplineGrammars(t *testing.T) {
	tests := []struct {
		discipline isu.Discipline
		label      string
		name       string
		kind       string
	}{
		{isu.Singles, "3A+SEQ", "3A", "jump"},
		{isu.Singles, "A+2T", "1A+2T", "jump"},
		{isu.Singles, "ChSq1", "ChSq", "choreo"},
		{isu.Pairs, "3Tw3", "3Tw", "throw twist"},
		{isu.Pairs, "3LzTh", "3LzTh", "throw jump"},
		{isu.Pairs, "5ALi4", "5ALi", "lift"},
		{isu.Pairs, "BoDs4", "BoDs", "death spiral"},
		{isu.Pairs, "3S+2T", "3S+2T", "jump"},
		{isu.Pairs, "PCoSp4", "PCoSp", "spin"},
		{isu.IceDance, "SyTwW4+SyTwM3", "SyTw", "twizzles"},
		{isu.IceDance, "CuLi4+RoLi4", "CuLi+RoLi", "lift"},
		{isu.IceDance, "1RH4+kpYYNY", "1RH", "pattern dance"},
		{isu.IceDance, "StaLi4", "StaLi", "lift"},
		{isu.IceDance, "MiSt3", "MiSt", "steps"},
		{isu.IceDance, "CoSp4", "CoSp", "spin"},
		{isu.IceDance, "GW1Sq2+kpYNY", "GW1Sq", "pattern dance"},
	}
	for _, tt := range tests {
		t.Run(tt.discipline.String()+" "+tt.label, func(t *testing.T) {
			e := mustParse(t, tt.discipline, tt.label, 2012)
			assert.Equal(t, tt.name, e.Name)
			assert.Equal(t, tt.kind, e.Type)
		})
	}
}

func TestIceDanceDetails(t *testing.T) {
	e := mustParse(t, isu.IceDance, "SyTwW4+SyTwM3", 2015)
	assert.Equal(t, "4", e.Detail.LevelLady)
	assert.Equal(t, "3", e.Detail.LevelMan)

	e = mustParse(t, isu.IceDance, "CuLi4+RoLi4*", 2015)
	require.Len(t, e.Detail.Parts, 2)
	assert.Equal(t, Part{Name: "RoLi", Level: "4", Invalid: true}, e.Detail.Parts[1])
	assert.True(t, e.Invalid)

	e = mustParse(t, isu.IceDance, "1RH4+kpYYNY", 2015)
	assert.Equal(t, "YYNY", e.Detail.Keypoints)
}

func TestRotationCallsDependOnSeason(t *testing.T) {
	before := mustParse(t, isu.Singles, "3A<<", 2010)
	assert.True(t, before.Flags.UnderRotated)
	assert.False(t, before.Flags.Downgraded)

	after := mustParse(t, isu.Singles, "3A<<", 2011)
	assert.False(t, after.Flags.UnderRotated)
	assert.True(t, after.Flags.Downgraded)
}

func TestImputation(t *testing.T) {
	e := mustParse(t, isu.Singles, "3Lz+3T e", 2014)
	assert.Equal(t, "e", e.Detail.Jumps[0].Calls)
	assert.True(t, e.JumpCalls[0].SevereEdge)
	assert.False(t, e.JumpCalls[1].SevereEdge)

	e = mustParse(t, isu.Singles, "3F <", 2014)
	assert.True(t, e.JumpCalls[0].UnderRotated)

	e = mustParse(t, isu.Singles, "3Lz+3T * x", 2014)
	assert.True(t, e.Invalid)
	assert.True(t, e.Detail.Bonus)

	p, err := ParserFor(isu.Singles)
	require.NoError(t, err)
	var impErr *ImputationError
	_, err = p.Parse(goeRow("3F+3Lz e", "5.00", "0.50", "5.50"), 2014, 1, 1)
	require.True(t, errors.As(err, &impErr))
	_, err = p.Parse(goeRow("3T+3Lo e", "5.00", "0.50", "5.50"), 2014, 1, 1)
	require.True(t, errors.As(err, &impErr))
	_, err = p.Parse(goeRow("3Lz+3T e!", "5.00", "0.50", "5.50"), 2014, 1, 1)
	require.True(t, errors.As(err, &impErr))
}

func TestElementErrors(t *testing.T) {
	p, err := GrammarFor(isu.Singles)
	require.NoError(t, err)

	var valErr *ValidationError
	_, err = p.Parse(goeRow("3A", "8.50", "1.00", "9.00"), 2017, 1, 1)
	require.True(t, errors.As(err, &valErr))

	var unrecognized *UnrecognizedElementError
	_, err = p.Parse(goeRow("XX12", "1.00", "0.00", "1.00"), 2017, 1, 1)
	require.True(t, errors.As(err, &unrecognized))

	overlapping := Grammar{
		Discipline: isu.Singles,
		patterns:   []pattern{leveledPattern, {name: "copy", match: leveledPattern.match}},
		types:      singlesTypes,
	}
	var ambiguous *AmbiguousElementError
	_, err = overlapping.ParseLabel("StSq3")
	require.True(t, errors.As(err, &ambiguous))
	require.Equal(t, []string{"leveled", "copy"}, ambiguous.Patterns)

	var unclassified *UnclassifiedElementError
	_, err = p.Classify(Detail{Name: "ZzYy"})
	require.True(t, errors.As(err, &unclassified))
}

func TestGradeRowsSkipUnscoredJudges(t *testing.T) {
	e := mustParse(t, isu.Singles, "3A", 2017)
	rows := e.GradeRows()
	require.Len(t, rows, 2)
	assert.Equal(t, "J01", rows[0]["judge_no"])
	assert.Equal(t, "J03", rows[1]["judge_no"])
	assert.Equal(t, 42, rows[1]["element_id"])
}
