package element

import (
	"fmt"

	"github.com/Nydauron/skatescore/isu"
	"github.com/Nydauron/skatescore/scorerow"
	"github.com/shopspring/decimal"
)

// Element is one executed element of a protocol. It is only built when
// base value and factored GOE add up to the total.
type Element struct {
	ID          int
	ProtocolID  int
	No          int
	Name        string
	Type        string
	BaseValue   decimal.Decimal
	FactoredGOE decimal.Decimal
	Total       decimal.Decimal
	Grades      []*int
	Invalid     bool
	Detail      Detail
	// JumpCalls holds the calls of each jump in Detail.Jumps.
	JumpCalls []Calls
	// Flags aggregates the calls over the whole element.
	Flags Calls
	Case  scorerow.Case
}

// Parser builds elements from reconciled element rows.
type Parser interface {
	Parse(row scorerow.GOERow, season isu.Season, protocolID, id int) (Element, error)
}

func ParserFor(d isu.Discipline) (Parser, error) {
	g, err := GrammarFor(d)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (g Grammar) Parse(row scorerow.GOERow, season isu.Season, protocolID, id int) (Element, error) {
	if !row.BaseValue.Add(row.FactoredGOE).Round(2).Equal(row.Total.Round(2)) {
		return Element{}, &ValidationError{
			No:     row.No,
			Name:   row.Label,
			Detail: fmt.Sprintf("base value %s and GOE %s do not sum to total %s", row.BaseValue, row.FactoredGOE, row.Total),
		}
	}

	parsed, err := g.ParseLabel(row.Label)
	if err != nil {
		return Element{}, err
	}
	d := parsed.Detail
	if err := impute(&d, parsed.Pending); err != nil {
		return Element{}, err
	}
	kind, err := g.Classify(d)
	if err != nil {
		return Element{}, err
	}

	e := Element{
		ID:          id,
		ProtocolID:  protocolID,
		No:          row.No,
		Name:        d.Name,
		Type:        kind,
		BaseValue:   row.BaseValue,
		FactoredGOE: row.FactoredGOE,
		Total:       row.Total,
		Grades:      row.Grades,
		Invalid:     d.Invalid,
		Detail:      d,
		Case:        row.Case,
	}
	for _, j := range d.Jumps {
		c := ConvertCalls(j.Calls, season)
		e.JumpCalls = append(e.JumpCalls, c)
		e.Flags = e.Flags.Or(c)
	}
	if d.Calls != "" {
		e.Flags = e.Flags.Or(ConvertCalls(d.Calls, season))
	}
	return e, nil
}

// Flatten renders the element as one export row. Judges' grades are not
// included; see GradeRows.
func (e Element) Flatten() map[string]any {
	d := e.Detail
	row := map[string]any{
		"id":               e.ID,
		"protocol_id":      e.ProtocolID,
		"element_no":       e.No,
		"element_name":     e.Name,
		"element_type":     e.Type,
		"bv":               e.BaseValue,
		"sov_goe":          e.FactoredGOE,
		"total":            e.Total,
		"invalid_flag":     e.Invalid,
		"h2_flag":          d.Bonus,
		"elt_level":        nullable(d.Level),
		"no_positions":     nullable(d.Positions),
		"failed_spin_flag": d.FailedSpin,
		"missed_reqs":      nil,
		"combo_flag":       d.Combo,
		"seq_flag":         d.Sequence,
		"rep_flag":         d.Repeat,
		"elt_kps":          nullable(d.Keypoints),
		"elt_level_lady":   nullable(d.LevelLady),
		"elt_level_man":    nullable(d.LevelMan),
		"unplaced_calls":   nullable(d.Unplaced),
		"ur_flag":          e.Flags.UnderRotated,
		"downgrade_flag":   e.Flags.Downgraded,
		"sev_edge_flag":    e.Flags.SevereEdge,
		"unc_edge_flag":    e.Flags.UnclearEdge,
	}
	if d.MissedReqs != nil {
		row["missed_reqs"] = *d.MissedReqs
	}
	for i, p := range d.Parts {
		prefix := fmt.Sprintf("elt_%d_", i+1)
		row[prefix+"name"] = p.Name
		row[prefix+"level"] = nullable(p.Level)
		row[prefix+"invalid"] = p.Invalid
	}
	for i, j := range d.Jumps {
		prefix := fmt.Sprintf("jump_%d", i+1)
		row[prefix] = j.Name
		c := e.JumpCalls[i]
		row[prefix+"_ur"] = c.UnderRotated
		row[prefix+"_downgrade"] = c.Downgraded
		row[prefix+"_sev_edge"] = c.SevereEdge
		row[prefix+"_unc_edge"] = c.UnclearEdge
	}
	return row
}

// GradeRows melts the judges' grades into one row per scored judge.
func (e Element) GradeRows() []map[string]any {
	rows := []map[string]any{}
	for i, g := range e.Grades {
		if g == nil {
			continue
		}
		rows = append(rows, map[string]any{
			"element_id": e.ID,
			"judge_no":   JudgeKey(i + 1),
			"goe_score":  *g,
		})
	}
	return rows
}

// JudgeKey is the column name protocols and panels use for judge n: "J01".
func JudgeKey(n int) string {
	return fmt.Sprintf("J%02d", n)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
