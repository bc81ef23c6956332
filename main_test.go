package main

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Nydauron/skatescore/config"
	"github.com/Nydauron/skatescore/isu"
	"github.com/Nydauron/skatescore/prompts"
	"github.com/Nydauron/skatescore/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var protocolSheet = [][]string{
	{"Rank", "Name", "Nation", "Starting Number", "Total Segment Score", "Total Element Score", "Total Program Component Score (factored)", "Total Deductions"},
	{"1", "Yuzuru HANYU", "JPN", "24", "74.11", "30.11", "45.00", ""},
	{"#", "Executed Elements", "Info", "Base Value", "GOE", "J1", "J2", "J3"},
	{"1", "4S", "10.50", "2.40", "2", "3", "2", "12.90"},
	{"2", "3A", "8.50", "1.71", "1", "1", "2", "10.21"},
	{"3", "CCoSp4", "3.50", "0.70", "1", "2", "1", "4.20"},
	{"4", "StSq3", "3.30", "-0.50", "-1", "-1", "0", "2.80"},
	{"", "", "", "25.80", "", "", "", "30.11"},
	{"", "Program Components", "", "Factor"},
	{"", "Skating Skills", "1.00", "9.00", "9.25", "8.75", "9.00"},
	{"", "Transitions", "1.00", "9.00", "9.00", "9.00", "9.00"},
	{"", "Performance", "1.00", "9.00", "9.00", "9.00", "9.00"},
	{"", "Composition", "1.00", "9.00", "9.00", "9.00", "9.00"},
	{"", "Interpretation of the Music", "1.00", "9.00", "9.00", "9.00", "9.00"},
	{"", "Judges Total Program Component Score (factored)", "", "", "", "", "", "45.00"},
	{"Deductions:", "Falls:", "-1.00"},
}

func writeCSV(t *testing.T, path string, rows [][]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	w := csv.NewWriter(f)
	require.NoError(t, w.WriteAll(rows))
	require.NoError(t, f.Close())
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.xlsx", "notes.txt", "c.html"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0o755))
	single := filepath.Join(t.TempDir(), "x.csv")
	require.NoError(t, os.WriteFile(single, nil, 0o644))

	files, err := expandInputs([]string{single, dir})
	require.NoError(t, err)
	assert.Equal(t, []string{
		single,
		filepath.Join(dir, "a.xlsx"),
		filepath.Join(dir, "b.csv"),
		filepath.Join(dir, "c.html"),
	}, files)

	_, err = expandInputs([]string{filepath.Join(dir, "missing.csv")})
	assert.Error(t, err)
	_, err = expandInputs([]string{t.TempDir()})
	assert.Error(t, err)
}

func TestWithDate(t *testing.T) {
	date := time.Date(2017, time.November, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "171110_NHK_Men FS Scores", withDate("NHK_Men FS Scores", date))
	assert.Equal(t, "171110_NHK_Men FS Scores", withDate("17x110_NHK_Men FS Scores", date))
}

func TestSegmentForPrompts(t *testing.T) {
	p := prompts.New(strings.NewReader("2017-11-10\nm\n"), io.Discard)
	seg, err := segmentFor("in/NHK_FS.csv", config.ParseConfig{}, p)
	require.NoError(t, err)
	assert.Equal(t, "NHK", seg.Event)
	assert.Equal(t, isu.Men, seg.Class)
	assert.Equal(t, "FS", seg.Code)
	assert.Equal(t, "NHK_FS.csv", seg.Source)

	_, err = segmentFor("in/NHK_FS.csv", config.ParseConfig{}, nil)
	assert.ErrorIs(t, err, segment.ErrNoDate)
}

func TestSegmentForForcedSeason(t *testing.T) {
	seg, err := segmentFor("171110_NHK_Men FS Scores.csv", config.ParseConfig{Season: 2016}, nil)
	require.NoError(t, err)
	assert.Equal(t, isu.Season(2016), seg.Season)
}

func TestRunYAML(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, filepath.Join(dir, "171110_NHK_Men FS Scores.csv"), protocolSheet)
	writeCSV(t, filepath.Join(dir, "officials.csv"), [][]string{
		{"Function", "Name", "Nation"},
		{"Referee", "Mr. Jon DOE", "USA"},
		{"Technical Controller", "Ms. Ann SMITH", "GBR"},
		{"Judge No.1", "Akiko SUZUKI", "JPN"},
	})
	out := filepath.Join(dir, "out.yaml")

	err := run(context.Background(), job{
		inputs: []string{filepath.Join(dir, "171110_NHK_Men FS Scores.csv")},
		output: out,
		panel:  filepath.Join(dir, "officials.csv"),
		cfg:    &config.Config{Output: config.OutputConfig{Format: "yaml"}},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	doc := string(data)
	assert.Contains(t, doc, "Yuzuru HANYU")
	assert.Contains(t, doc, "Akiko SUZUKI")
	assert.Contains(t, doc, "Panels:")
	assert.NotContains(t, doc, "Failures:")
}

func TestRunSQLiteKeepsRosterIDs(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "171110_NHK_Men FS Scores.csv")
	writeCSV(t, input, protocolSheet)
	cfg := &config.Config{Output: config.OutputConfig{Format: "sqlite", Roster: filepath.Join(dir, "roster.db")}}

	for i := range 2 {
		err := run(context.Background(), job{
			inputs: []string{dir},
			output: filepath.Join(dir, "out.db"),
			cfg:    cfg,
		})
		require.NoError(t, err, "run %d", i)
	}
	_, err := os.Stat(filepath.Join(dir, "out.db"))
	require.NoError(t, err)
}

func TestRunPanelNeedsOneInput(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, filepath.Join(dir, "171110_NHK_Men FS Scores.csv"), protocolSheet)
	writeCSV(t, filepath.Join(dir, "171111_NHK_Men SP Scores.csv"), protocolSheet)

	err := run(context.Background(), job{
		inputs: []string{dir},
		output: "-",
		panel:  filepath.Join(dir, "officials.html"),
		cfg:    &config.Config{Output: config.OutputConfig{Format: "yaml"}},
	})
	assert.Error(t, err)
}
