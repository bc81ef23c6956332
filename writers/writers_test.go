package writers

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
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
	"gopkg.in/yaml.v3"
)

func intp(v int) *int { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testRun(jumps ...string) Run {
	r := identity.NewRegistry()
	id := r.ResolvePerson("Yuzuru HANYU", "JPN", 2017)
	r.ResolveOfficial("Mr. Jon DOE", "USA", 2017)

	detail := element.Detail{Name: "4S"}
	var calls []element.Calls
	for _, j := range jumps {
		detail.Jumps = append(detail.Jumps, element.Jump{Name: j})
		calls = append(calls, element.Calls{})
	}
	p := protocol.Protocol{
		ID:         1,
		SegmentID:  1,
		Competitor: identity.Resolution{ID: id, Name: "Yuzuru HANYU"},
		Rank:       1,
		TSS:        dec("12.90"),
		TES:        dec("12.90"),
		PCS:        decimal.Zero,
		Judges:     2,
		Elements: []element.Element{{
			ID:          1,
			ProtocolID:  1,
			No:          1,
			Name:        "4S",
			Type:        "jump",
			BaseValue:   dec("10.50"),
			FactoredGOE: dec("2.40"),
			Total:       dec("12.90"),
			Grades:      []*int{intp(2), intp(3)},
			Detail:      detail,
			JumpCalls:   calls,
		}},
		DeductionDetail: map[string]int{},
	}
	return Run{
		Results: []protocol.SegmentProtocols{{
			Segment: segment.Segment{
				ID:         1,
				Event:      "NHK",
				StartDate:  time.Date(2017, time.November, 10, 0, 0, 0, 0, time.UTC),
				Season:     2017,
				Category:   "Sr",
				Class:      isu.Men,
				Discipline: isu.Singles,
				Code:       "FS",
			},
			Protocols: []protocol.Protocol{p},
		}},
		Registry: r,
		Panels:   []identity.Panel{{SegmentID: 1, Roles: map[string]int{"Referee": 1}}},
	}
}

func TestLazyOutputOnlyCreatesOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, os.WriteFile(path, []byte("previous contents that are longer"), 0644))

	w := OpenOutput(path)
	require.NoError(t, w.Close())
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous contents that are longer", string(got))

	w = OpenOutput(path)
	_, err = w.Write([]byte("new"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

type bufferCloser struct {
	bytes.Buffer
}

func (*bufferCloser) Close() error { return nil }

func TestYAMLWriter(t *testing.T) {
	var buf bufferCloser
	w := NewYAMLWriter(&buf)
	require.NoError(t, w.WriteRun(context.Background(), testRun("4S")))
	require.NoError(t, w.Close())

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Contains(t, doc, "Segments")
	assert.Contains(t, doc, "Competitors")
	assert.Contains(t, doc, "Officials")
	assert.NotContains(t, doc, "Failures")
	assert.Contains(t, buf.String(), "total segment score: \"12.90\"")
}

func count(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+quote(table)).Scan(&n))
	return n
}

func TestSQLiteWriter(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out", "protocols.db")

	w, err := New(FormatSQLite, path)
	require.NoError(t, err)
	s := w.(*SQLiteWriter)
	defer s.Close()

	require.NoError(t, s.WriteRun(ctx, testRun("4S")))
	assert.Equal(t, 1, count(t, s.db, "segments"))
	assert.Equal(t, 1, count(t, s.db, "elements"))
	assert.Equal(t, 2, count(t, s.db, "goe_detail"))
	assert.Equal(t, 1, count(t, s.db, "panels"))

	var bv float64
	require.NoError(t, s.db.QueryRow(`SELECT "bv" FROM "elements"`).Scan(&bv))
	assert.InDelta(t, 10.5, bv, 1e-9)

	// a combination brings a jump_2 column the first run did not have
	require.NoError(t, s.WriteRun(ctx, testRun("4S", "3T")))
	assert.Equal(t, 2, count(t, s.db, "elements"))
	var second sql.NullString
	require.NoError(t, s.db.QueryRow(`SELECT "jump_2" FROM "elements" ORDER BY rowid DESC LIMIT 1`).Scan(&second))
	assert.Equal(t, "3T", second.String)
}

func TestNewRejectsBadOutput(t *testing.T) {
	_, err := New(FormatSQLite, StdoutName)
	assert.Error(t, err)
	_, err = New("xml", "out.xml")
	assert.Error(t, err)
}

func TestRosterStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "roster.db")

	first := identity.NewRegistry()
	hanyu := first.ResolvePerson("Yuzuru HANYU", "JPN", 2017)
	team, err := first.ResolveTeam("Tessa VIRTUE / Scott MOIR", "CAN", 2017)
	require.NoError(t, err)
	first.ResolveOfficial("Mrs. Akiko SUZUKI", "JPN", 2017)

	store, err := OpenRoster(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Close())

	store, err = OpenRoster(path)
	require.NoError(t, err)
	defer store.Close()

	second := identity.NewRegistry()
	require.NoError(t, store.Load(ctx, second))
	assert.Equal(t, first.Competitors(), second.Competitors())
	assert.Equal(t, first.Officials(), second.Officials())

	assert.Equal(t, hanyu, second.ResolvePerson("Yuzuru HANYU", "JPN", 2018))
	again, err := second.ResolveTeam("Tessa VIRTUE / Scott MOIR", "CAN", 2018)
	require.NoError(t, err)
	assert.Equal(t, team.ID, again.ID)

	newcomer := second.ResolvePerson("Nathan CHEN", "USA", 2018)
	assert.Equal(t, len(first.Competitors())+1, newcomer)
}
