package identity

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Nydauron/skatescore/isu"
	"github.com/rs/zerolog/log"
)

var panelAnchors = []string{"Referee", "Technical Controller", "Technical Specialist"}

// Panel maps each role of a segment's officials ("Referee", "J01", ...) to
// an official id.
type Panel struct {
	SegmentID int
	Roles     map[string]int
}

// ParsePanel reads an officials listing flattened to one run of cells:
// role, name and nation, sometimes with the nation repeated. Judges are
// renamed after their column in the score tables, "Judge No.3" to "J03".
func ParsePanel(r *Registry, cells []string, season isu.Season) (Panel, error) {
	p := Panel{Roles: map[string]int{}}
	first := -1
	for _, anchor := range panelAnchors {
		if i := slices.Index(cells, anchor); i >= 0 && (first < 0 || i < first) {
			first = i
		}
	}
	if first < 0 {
		return p, fmt.Errorf("identity: no referee or technical panel in officials listing")
	}
	step := 3
	if first+3 < len(cells) && cells[first+2] == cells[first+3] {
		step = 4
	}
	log.Debug().Int("first", first).Int("step", step).Int("cells", len(cells)).Msg("reading panel")

	for i := first; i+2 < len(cells); i += step {
		role := cells[i]
		if strings.Contains(role, "Judge") || strings.Contains(role, "No.") {
			_, n, _ := strings.Cut(role, "No.")
			role = judgeRole(strings.TrimSpace(n))
		}
		p.Roles[role] = r.ResolveOfficial(cells[i+1], cells[i+2], season)
	}
	return p, nil
}

func judgeRole(n string) string {
	for len(n) < 2 {
		n = "0" + n
	}
	return "J" + n
}

// Flatten renders the panel as one row keyed by role.
func (p Panel) Flatten() map[string]any {
	row := map[string]any{"segment_id": p.SegmentID}
	for role, id := range p.Roles {
		row[role] = id
	}
	return row
}
