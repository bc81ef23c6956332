package scorerow

import (
	"errors"
	"strings"
	"testing"

	"github.com/Nydauron/skatescore/grid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func raw(values ...string) grid.RawRow {
	return grid.RawRow{Values: values}
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name   string
		mode   Mode
		tokens string
		judges int
		want   string
		c      Case
	}{
		{"spurious dash columns are dropped", GOE, "3.30 0.70 1 1 - 2 1 1 - 4.00", 5, "3.30 0.70 1 1 2 1 1 4.00", DropDashes},
		{"dashes mark unscored judges", GOE, "3.30 0.70 1 - 2 1 1 4.00", 5, "3.30 0.70 1 NS 2 1 1 4.00", DashesNotScored},
		{"one stray column before the total", GOE, "3.30 0.70 1 - 2 1 1 - 4.00", 5, "3.30 0.70 1 NS 2 1 1 4.00", TrailingRunOfOne},
		{"two stray columns before the total", PCS, "1.00 8.00 - 8.25 - - 8.10", 3, "1.00 8.00 NS 8.25 8.10", TrailingRunOfTwo},
		{"dash columns between marks and average", PCS, "1.00 8.00 8.25 - - - 8.10", 2, "1.00 8.00 8.25 8.10", DropDashes},
		{"unknown panel size is a pass-through", PCS, "1.00 8.00 - 8.25 8.10", 0, "1.00 8.00 8.25 8.10", NoCase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, c, err := Reconcile(tt.mode, strings.Fields(tt.tokens), tt.judges, NoCase)
			require.NoError(t, err)
			require.Equal(t, strings.Fields(tt.want), got)
			require.Equal(t, tt.c, c)
			if tt.judges > 0 {
				require.Len(t, got, tt.mode.Offset()+tt.judges)
			}
		})
	}
}

func TestReconcileTrailingRunOfThree(t *testing.T) {
	// dashes inside the judges' columns rule out DropDashes
	tokens := strings.Fields("1.00 - 8.25 - - - 8.10")
	got, c, err := Reconcile(PCS, tokens, 2, NoCase)
	require.NoError(t, err)
	require.Equal(t, TrailingRunOfThree, c)
	require.Equal(t, strings.Fields("1.00 NS 8.25 8.10"), got)
}

func TestReconcileWidthsFromShortToExact(t *testing.T) {
	const judges = 4
	want := GOE.Offset() + judges
	for extra := 0; extra <= 3; extra++ {
		tokens := strings.Fields("5.00 1.00 1 - 2 2")
		for i := 0; i < extra; i++ {
			tokens = append(tokens, "-")
		}
		tokens = append(tokens, "6.00")
		got, _, err := Reconcile(GOE, tokens, judges, NoCase)
		require.NoError(t, err, "extra=%d", extra)
		require.Len(t, got, want)
	}
}

func TestReconcileRejectsMalformedRows(t *testing.T) {
	_, _, err := Reconcile(GOE, strings.Fields("3.30 0.70 1 1 2 4.00"), 5, NoCase)
	var ambiguous *AmbiguousColumnCountError
	require.True(t, errors.As(err, &ambiguous))
	require.Equal(t, 5, ambiguous.Judges)

	// a run of dashes that is not made only of placeholders is not removed
	_, _, err = Reconcile(GOE, strings.Fields("3.30 0.70 1 1 2 1 1 1 - 4.00"), 5, NoCase)
	require.Error(t, err)
}

func TestReconcileHintIsOnlyAFirstAttempt(t *testing.T) {
	tokens := strings.Fields("3.30 0.70 1 - 2 1 1 4.00")
	got, c, err := Reconcile(GOE, tokens, 5, TrailingRunOfTwo)
	require.NoError(t, err)
	require.Equal(t, DashesNotScored, c)
	require.Len(t, got, 8)

	got, c, err = Reconcile(GOE, tokens, 5, DashesNotScored)
	require.NoError(t, err)
	require.Equal(t, DashesNotScored, c)
	require.Equal(t, "NS", got[3])
}

func TestParsePCS(t *testing.T) {
	row, err := ParsePCS(raw("Skating Skills", "1,00", "8,25 8,50", "-", "8,00", "8.25"), 3, NoCase)
	require.NoError(t, err)
	require.Equal(t, "Skating Skills", row.Label)
	require.True(t, decimal.RequireFromString("1").Equal(row.Factor))
	require.True(t, decimal.RequireFromString("8.25").Equal(row.Average))
	require.Len(t, row.Scores, 3)
	require.True(t, row.Scores[2].Valid)
	require.True(t, decimal.RequireFromString("8").Equal(row.Scores[2].Decimal))

	n, err := CountJudges(raw("Skating Skills", "1.00", "8.25", "8.50", "8.00", "8.25"))
	require.NoError(t, err)
	require.Equal(t, 3, n)

	_, err = ParsePCS(raw("8.00", "Skating Skills"), 3, NoCase)
	var shape *RowShapeError
	require.True(t, errors.As(err, &shape))
}

func TestParseGOE(t *testing.T) {
	row, err := ParseGOE(raw("1", "3Lz+3T", "<", "10.10x", "-0.70", "-1 -1 0", "-", "9.40"), 3, NoCase)
	require.NoError(t, err)
	require.Equal(t, 1, row.No)
	require.Equal(t, "3Lz+3T < x", row.Label)
	require.True(t, decimal.RequireFromString("10.10").Equal(row.BaseValue))
	require.True(t, decimal.RequireFromString("-0.70").Equal(row.FactoredGOE))
	require.True(t, decimal.RequireFromString("9.40").Equal(row.Total))
	require.Len(t, row.Grades, 3)
	require.Equal(t, -1, *row.Grades[0])
	require.Equal(t, DropDashes, row.Case)

	row, err = ParseGOE(raw("2", "ChSq1", "2.00", "0.50", "- - -", "2.50"), 3, NoCase)
	require.NoError(t, err)
	require.Nil(t, row.Grades)
	require.Equal(t, DashesNotScored, row.Case)
}

func TestParseGOEWithCarry(t *testing.T) {
	above := raw("0.70")
	r := raw("3", "3A", "8.50", "2 2 1", "9.20")

	_, err := ParseGOE(r, 3, NoCase)
	require.Error(t, err)

	row, err := ParseGOEWithCarry(r, above, 3, NoCase)
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("0.70").Equal(row.FactoredGOE))
	require.True(t, decimal.RequireFromString("9.20").Equal(row.Total))

	_, err = ParseGOEWithCarry(r, raw("0.70", "1"), 3, NoCase)
	require.Error(t, err)
}

func TestParseName(t *testing.T) {
	n, err := ParseName(raw("1 Yuzuru HANYU", "JPN", "21", "112.72", "63.18", "49.54"), SingleLine)
	require.NoError(t, err)
	require.Equal(t, []string{"1", "Yuzuru HANYU", "JPN", "21", "112.72", "63.18", "49.54"}, n.Values)

	f, err := n.Fields(true)
	require.NoError(t, err)
	require.Equal(t, 1, f.Rank)
	require.Equal(t, 21, *f.StartingNumber)
	require.True(t, decimal.RequireFromString("112.72").Equal(f.TSS))

	n, err = ParseName(raw("Rank\n2", "Name\nAlina ZAGITOVA OAR", "Total\nSegment\nScore\n82.92", "TES\n47.10", "PCS\n35.82"), Multiline)
	require.NoError(t, err)
	f, err = n.Fields(false)
	require.NoError(t, err)
	require.Equal(t, "Alina ZAGITOVA", f.Name)
	require.Equal(t, "OAR", f.Nation)
	require.Nil(t, f.StartingNumber)
	require.True(t, decimal.RequireFromString("35.82").Equal(f.PCS))

	_, err = ParseName(grid.RawRow{}, SingleLine)
	require.Error(t, err)
}
