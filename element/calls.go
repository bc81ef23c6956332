package element

import (
	"strings"

	"github.com/Nydauron/skatescore/isu"
	"github.com/rs/zerolog/log"
)

// Calls are the technical panel's flags on one jump, read for a season.
type Calls struct {
	UnderRotated bool
	Downgraded   bool
	SevereEdge   bool
	UnclearEdge  bool
}

func (c Calls) Or(other Calls) Calls {
	return Calls{
		UnderRotated: c.UnderRotated || other.UnderRotated,
		Downgraded:   c.Downgraded || other.Downgraded,
		SevereEdge:   c.SevereEdge || other.SevereEdge,
		UnclearEdge:  c.UnclearEdge || other.UnclearEdge,
	}
}

// ConvertCalls reads call markers. "q" counts as an under-rotation; "<<"
// only means a downgrade from the season rotation calls were split.
func ConvertCalls(markers string, season isu.Season) Calls {
	c := Calls{
		SevereEdge:  strings.Contains(markers, "e"),
		UnclearEdge: strings.Contains(markers, "!"),
	}
	switch {
	case !isu.SplitsDowngrade(season):
		c.UnderRotated = strings.Contains(markers, "<") || strings.Contains(markers, "q")
	case strings.Contains(markers, "<<"):
		c.Downgraded = true
	default:
		c.UnderRotated = strings.Contains(markers, "<") || strings.Contains(markers, "q")
	}
	return c
}

var edgeJumps = []string{"F", "Lz", "LZ"}

// impute places calls that were written apart from the element name. On a
// single jump they all go to that jump. On a combination only an edge call
// can be placed, on the one jump that takes off from an edge.
func impute(d *Detail, pending string) error {
	pending, invalid := stripInvalid(pending)
	d.Invalid = d.Invalid || invalid
	if pending == "" {
		return nil
	}

	if len(d.Jumps) == 0 {
		d.Calls += pending
		return nil
	}
	if !d.Combo && !d.Sequence {
		d.Jumps[0].Calls += pending
		return nil
	}

	var edgeCalls []string
	for _, ec := range []string{"e", "!"} {
		if strings.Contains(pending, ec) {
			edgeCalls = append(edgeCalls, ec)
		}
	}
	if len(edgeCalls) > 1 {
		return &ImputationError{Name: d.Name, Calls: pending, Reason: "more than one kind of edge call"}
	}
	if len(edgeCalls) == 1 {
		eligible := []int{}
		for i, j := range d.Jumps {
			for _, e := range edgeJumps {
				if strings.Contains(j.Name, e) {
					eligible = append(eligible, i)
					break
				}
			}
		}
		switch len(eligible) {
		case 0:
			return &ImputationError{Name: d.Name, Calls: pending, Reason: "no jump takes an edge call"}
		case 1:
			d.Jumps[eligible[0]].Calls += edgeCalls[0]
			pending = strings.ReplaceAll(pending, edgeCalls[0], "")
		default:
			return &ImputationError{Name: d.Name, Calls: pending, Reason: "several jumps take an edge call"}
		}
	}
	if pending != "" {
		log.Warn().Str("element", d.Name).Str("calls", pending).Msg("calls on a combination cannot be placed on a jump")
		d.Unplaced = pending
	}
	return nil
}
