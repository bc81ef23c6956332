package element

import "strings"

// Jump is one jump of a jump element with the call markers written after
// it, e.g. {"3F", "<e"}.
type Jump struct {
	Name  string
	Calls string
}

// Part is one half of a combined non-jump ice dance element.
type Part struct {
	Name    string
	Level   string
	Invalid bool
}

// Detail is what the grammar extracts from an element name.
type Detail struct {
	Name  string
	Level string

	Jumps    []Jump
	Combo    bool
	Sequence bool
	Repeat   bool

	Positions  string
	FailedSpin bool
	MissedReqs *int

	// Calls written on non-jump elements, as on old twists and lifts.
	Calls string

	Keypoints  string
	Parts      []Part
	LevelLady  string
	LevelMan   string
	Invalid    bool
	Bonus      bool
	Unplaced   string
	isJumpKind bool
}

func (d *Detail) rebuildJumpName() {
	names := make([]string, len(d.Jumps))
	for i, j := range d.Jumps {
		names[i] = j.Name
	}
	d.Name = strings.Join(names, "+")
}

// stripInvalid removes the "*" marker and reports whether it was there.
func stripInvalid(calls string) (string, bool) {
	if !strings.Contains(calls, "*") {
		return calls, false
	}
	return strings.ReplaceAll(calls, "*", ""), true
}
