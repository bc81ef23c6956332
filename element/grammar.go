package element

import (
	"fmt"
	"strings"

	"github.com/Nydauron/skatescore/isu"
	"github.com/rs/zerolog/log"
)

type typeRule struct {
	substr string
	kind   string
}

// Grammar holds the element patterns and type table of one discipline.
type Grammar struct {
	Discipline isu.Discipline
	patterns   []pattern
	types      []typeRule
}

var singlesTypes = []typeRule{
	{"St", "steps"},
	{"SpSq", "spiral"},
	{"ChSq", "choreo"},
	{"ChSp", "spiral"},
	{"Sp", "spin"},
}

var pairsTypes = []typeRule{
	{"Tw", "throw twist"},
	{"Th", "throw jump"},
	{"Li", "lift"},
	{"Sp", "spin"},
	{"Ds", "death spiral"},
	{"St", "steps"},
	{"ChSq", "choreo"},
}

// Lifts come before steps so that stationary lifts ("StaLi") are lifts.
var iceDanceTypes = []typeRule{
	{"Tw", "twizzles"},
	{"Li", "lift"},
	{"St", "steps"},
	{"Sp", "spin"},
	{"PiF", "pivot"},
	{"ChSl", "slide"},
	{"RH", "pattern dance"},
	{"FS", "pattern dance"},
	{"1S", "pattern dance"},
	{"2S", "pattern dance"},
	{"3S", "pattern dance"},
	{"4S", "pattern dance"},
	{"GW", "pattern dance"},
	{"VW", "pattern dance"},
	{"PD", "pattern dance"},
	{"CC", "pattern dance"},
	{"YP", "pattern dance"},
	{"BL", "pattern dance"},
	{"QS", "pattern dance"},
	{"RW", "pattern dance"},
	{"MB", "pattern dance"},
	{"R1S", "pattern dance"},
	{"R2S", "pattern dance"},
}

// GrammarFor returns the grammar of a discipline.
func GrammarFor(d isu.Discipline) (Grammar, error) {
	switch d {
	case isu.Singles:
		return Grammar{
			Discipline: d,
			patterns:   []pattern{jumpsPattern, spinsPattern, leveledPattern},
			types:      singlesTypes,
		}, nil
	case isu.Pairs:
		return Grammar{
			Discipline: d,
			patterns: []pattern{
				throwJumpsPattern, jumpsPattern, spinsPattern, oldTwistsPattern,
				pairsLeveledPattern, leveledPattern, oldLiftsPattern,
			},
			types: pairsTypes,
		}, nil
	case isu.IceDance:
		return Grammar{
			Discipline: d,
			patterns: []pattern{
				individualPattern, comboNonJumpPattern, spinsPattern, patternDancePattern,
				leveledPattern, oldPatternDancePattern, oldKeypointDancePattern,
			},
			types: iceDanceTypes,
		}, nil
	}
	return Grammar{}, fmt.Errorf("element: no grammar for %s", d)
}

// Parsed is the result of reading an element label: the detail and the
// calls written apart from the name that still have to be placed.
type Parsed struct {
	Detail  Detail
	Pending string
}

// ParseLabel reads an element label as produced by the GOE row parser,
// e.g. "3Lz+3T < x". Exactly one pattern has to match the name.
func (g Grammar) ParseLabel(label string) (Parsed, error) {
	text := strings.TrimSpace(label)
	bonus := false
	if strings.HasSuffix(text, " x") {
		bonus = true
		text = strings.TrimSpace(strings.TrimSuffix(text, " x"))
	}
	var pending string
	if name, rest, found := strings.Cut(text, " "); found {
		text = name
		pending = strings.Join(strings.Fields(rest), "")
	}

	var matched []string
	var detail Detail
	for _, p := range g.patterns {
		d, ok := p.match(text)
		if !ok {
			continue
		}
		matched = append(matched, p.name)
		detail = d
	}
	switch len(matched) {
	case 0:
		return Parsed{}, &UnrecognizedElementError{Discipline: g.Discipline, Text: text}
	case 1:
	default:
		return Parsed{}, &AmbiguousElementError{Discipline: g.Discipline, Text: text, Patterns: matched}
	}
	detail.Bonus = bonus
	log.Debug().Str("label", label).Str("pattern", matched[0]).Str("name", detail.Name).Msg("parsed element name")
	return Parsed{Detail: detail, Pending: pending}, nil
}

// Classify maps an element name to its type. The type table is consulted
// first; names read by the jump pattern fall back to "jump".
func (g Grammar) Classify(d Detail) (string, error) {
	for _, rule := range g.types {
		if strings.Contains(d.Name, rule.substr) {
			return rule.kind, nil
		}
	}
	if d.isJumpKind {
		return "jump", nil
	}
	return "", &UnclassifiedElementError{Discipline: g.Discipline, Name: d.Name}
}
