package element

import (
	"regexp"
	"strconv"
	"strings"
)

// pattern recognizes one family of element names and extracts its detail.
type pattern struct {
	name  string
	match func(text string) (Detail, bool)
}

var (
	jumpPartRegex   = regexp.MustCompile(`^([1-4]?(?:Eu|T|S|Lo|F|Lz|A|LZ|LO))([e<*!q]{0,4})$`)
	rotationRegex   = regexp.MustCompile(`^[1-4]`)
	spinRegex       = regexp.MustCompile(`^([A-Za-z]*Sp)(([1-4])p)?([B1-4])?(V([1-5])|V)?(\*?)$`)
	throwJumpRegex  = regexp.MustCompile(`^([1-4]?(?:Eu|T|S|Lo|F|Lz|A|LZ|LO)Th)([!e<*q]{0,3})$`)
	oldLiftRegex    = regexp.MustCompile(`^([1-5]?(?:Eu|T|S|Lo|F|Lz|A|LZ|LO)Li)([B1-4])?([!e<*]{0,3})$`)
	oldTwistRegex   = regexp.MustCompile(`^([1-4]?(?:Eu|T|S|Lo|F|Lz|A|LZ|LO)Tw)([B1-4])?([!e<*]{0,3})$`)
	pairsNameRegex  = regexp.MustCompile(`^[1-5][A-Za-z]{2,3}$`)
	letterNameRegex = regexp.MustCompile(`^[A-Za-z]{2,}$`)

	individualRegex  = regexp.MustCompile(`(?i)^([A-Z]{2,})[LW]([B1-4])\+[A-Z]{2,}M([B1-4])$`)
	comboNonJumpRgx  = regexp.MustCompile(`(?i)^([A-Z]{2,}?)([B1-4])?(\*)?\+([A-Z]{2,}?)([B1-4])?(\*)?$`)
	patternDanceRgx  = regexp.MustCompile(`^([12][A-Z]{2})([B1-4])?\+kp([YTN]{1,4})(\*?)$`)
	oldPatternRegex  = regexp.MustCompile(`(?i)^([1-4]S[1-4])([B1-4])?(\*?)$`)
	oldKeypointRegex = regexp.MustCompile(`(?i)^((?:GW|VW|R|CC)[1-2]S(?:e|q))([B1-4])?(?:\+kp([YTN]{3,4}))?(\*?)$`)
)

// Suffixes that belong to spins, throws or jumps rather than to a levelled
// element.
var leveledRejects = []string{"sp", "th", "eu", "lz", "lo", "spb", "spv", "spbv"}

var pairsRejects = []string{
	"Th", "Eu", "Lz", "LZ", "LO", "Lo", "Fe", "T", "S", "F", "A",
	"TTw", "STw", "FTw", "ATw", "ALi", "TLi", "FLi", "SLi", "Lze", "LZe", "LOe", "Loe",
}

var jumpsPattern = pattern{name: "jumps", match: func(text string) (Detail, bool) {
	d := Detail{isJumpKind: true}
	for _, part := range strings.Split(text, "+") {
		switch part {
		case "":
			continue
		case "COMBO":
			d.Combo = true
			continue
		case "SEQ":
			d.Sequence = true
			continue
		case "REP":
			d.Repeat = true
			continue
		}
		m := jumpPartRegex.FindStringSubmatch(part)
		if m == nil {
			return Detail{}, false
		}
		calls, invalid := stripInvalid(m[2])
		d.Invalid = d.Invalid || invalid
		name := m[1]
		if !rotationRegex.MatchString(name) {
			name = "1" + name
		}
		d.Jumps = append(d.Jumps, Jump{Name: name, Calls: calls})
	}
	if len(d.Jumps) == 0 {
		return Detail{}, false
	}
	d.rebuildJumpName()
	d.Combo = d.Combo || len(d.Jumps) > 1
	return d, true
}}

var spinsPattern = pattern{name: "spins", match: func(text string) (Detail, bool) {
	m := spinRegex.FindStringSubmatch(text)
	if m == nil {
		return Detail{}, false
	}
	d := Detail{Name: m[1], Positions: m[3], Level: m[4], FailedSpin: m[5] != "", Invalid: m[7] == "*"}
	if m[6] != "" {
		n, _ := strconv.Atoi(m[6])
		d.MissedReqs = &n
	}
	return d, true
}}

type nameLevel struct {
	name  string
	level string
}

// splitLevel lists the ways a trailing level can be read off core: with the
// last character as level first, then with no level.
func splitLevel(core string, levelChars string) []nameLevel {
	var out []nameLevel
	if n := len(core); n > 1 && strings.ContainsRune(levelChars, rune(core[n-1])) {
		out = append(out, nameLevel{name: core[:n-1], level: strings.ToUpper(core[n-1:])})
	}
	return append(out, nameLevel{name: core})
}

func hasSuffix(s string, suffixes []string, fold bool) bool {
	if fold {
		s = strings.ToLower(s)
	}
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

var leveledPattern = pattern{name: "leveled", match: func(text string) (Detail, bool) {
	core, invalid := strings.CutSuffix(text, "*")
	for _, c := range splitLevel(core, "B1234b") {
		if !letterNameRegex.MatchString(c.name) || hasSuffix(c.name, leveledRejects, true) {
			continue
		}
		return Detail{Name: c.name, Level: c.level, Invalid: invalid}, true
	}
	return Detail{}, false
}}

var pairsLeveledPattern = pattern{name: "pairs leveled", match: func(text string) (Detail, bool) {
	core, invalid := strings.CutSuffix(text, "*")
	for _, c := range splitLevel(core, "B1234") {
		if !pairsNameRegex.MatchString(c.name) || hasSuffix(c.name, pairsRejects, false) {
			continue
		}
		return Detail{Name: c.name, Level: c.level, Invalid: invalid}, true
	}
	return Detail{}, false
}}

var throwJumpsPattern = pattern{name: "throw jumps", match: func(text string) (Detail, bool) {
	m := throwJumpRegex.FindStringSubmatch(text)
	if m == nil {
		return Detail{}, false
	}
	calls, invalid := stripInvalid(m[2])
	return Detail{Name: m[1], Jumps: []Jump{{Name: m[1], Calls: calls}}, Invalid: invalid}, true
}}

var oldLiftsPattern = pattern{name: "old lifts", match: func(text string) (Detail, bool) {
	m := oldLiftRegex.FindStringSubmatch(text)
	if m == nil {
		return Detail{}, false
	}
	calls, invalid := stripInvalid(m[3])
	return Detail{Name: m[1], Level: m[2], Calls: calls, Invalid: invalid}, true
}}

var oldTwistsPattern = pattern{name: "old twists", match: func(text string) (Detail, bool) {
	m := oldTwistRegex.FindStringSubmatch(text)
	if m == nil {
		return Detail{}, false
	}
	calls, invalid := stripInvalid(m[3])
	return Detail{Name: m[1], Level: m[2], Calls: calls, Invalid: invalid}, true
}}

var individualPattern = pattern{name: "individually levelled", match: func(text string) (Detail, bool) {
	m := individualRegex.FindStringSubmatch(text)
	if m == nil {
		return Detail{}, false
	}
	return Detail{Name: m[1], LevelLady: strings.ToUpper(m[2]), LevelMan: strings.ToUpper(m[3])}, true
}}

var comboNonJumpPattern = pattern{name: "combined non-jump", match: func(text string) (Detail, bool) {
	if individualRegex.MatchString(text) {
		return Detail{}, false
	}
	m := comboNonJumpRgx.FindStringSubmatch(text)
	if m == nil {
		return Detail{}, false
	}
	first := Part{Name: m[1], Level: strings.ToUpper(m[2]), Invalid: m[3] == "*"}
	second := Part{Name: m[4], Level: strings.ToUpper(m[5]), Invalid: m[6] == "*"}
	return Detail{
		Name:    first.Name + "+" + second.Name,
		Parts:   []Part{first, second},
		Invalid: first.Invalid || second.Invalid,
	}, true
}}

var patternDancePattern = pattern{name: "pattern dance", match: func(text string) (Detail, bool) {
	m := patternDanceRgx.FindStringSubmatch(text)
	if m == nil {
		return Detail{}, false
	}
	return Detail{Name: m[1], Level: m[2], Keypoints: m[3], Invalid: m[4] == "*"}, true
}}

var oldPatternDancePattern = pattern{name: "old pattern dance", match: func(text string) (Detail, bool) {
	m := oldPatternRegex.FindStringSubmatch(text)
	if m == nil {
		return Detail{}, false
	}
	return Detail{Name: m[1], Level: strings.ToUpper(m[2]), Invalid: m[3] == "*"}, true
}}

var oldKeypointDancePattern = pattern{name: "old keypoint pattern dance", match: func(text string) (Detail, bool) {
	m := oldKeypointRegex.FindStringSubmatch(text)
	if m == nil {
		return Detail{}, false
	}
	return Detail{Name: m[1], Level: strings.ToUpper(m[2]), Keypoints: strings.ToUpper(m[3]), Invalid: m[4] == "*"}, true
}}
