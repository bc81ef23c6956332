package isu

import (
	"fmt"
	"strings"
)

// Discipline selects the element grammar and the competitor shape.
type Discipline int

const (
	Singles Discipline = iota
	Pairs
	IceDance
)

func (d Discipline) String() string {
	switch d {
	case Singles:
		return "Singles"
	case Pairs:
		return "Pairs"
	case IceDance:
		return "IceDance"
	}
	return fmt.Sprintf("Discipline(%d)", int(d))
}

// IsTeam reports whether competitors of the discipline skate as a couple.
func (d Discipline) IsTeam() bool {
	switch d {
	case Pairs, IceDance:
		return true
	case Singles:
		return false
	}
	return false
}

// Class is the competition class a segment belongs to.
type Class string

const (
	Men           Class = "Men"
	Ladies        Class = "Ladies"
	PairsClass    Class = "Pairs"
	IceDanceClass Class = "IceDance"
)

var classes = []Class{Men, Ladies, PairsClass, IceDanceClass}

func (c Class) Discipline() (Discipline, error) {
	switch c {
	case Men, Ladies:
		return Singles, nil
	case PairsClass:
		return Pairs, nil
	case IceDanceClass:
		return IceDance, nil
	}
	return 0, fmt.Errorf("unknown class %q", string(c))
}

// ParseClass accepts the canonical names plus a few spellings seen on the
// command line ("dance", "women").
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "men":
		return Men, nil
	case "ladies", "women", "lady":
		return Ladies, nil
	case "pairs":
		return PairsClass, nil
	case "icedance", "ice dance", "dance":
		return IceDanceClass, nil
	}
	return "", fmt.Errorf("unknown class %q (expected one of %v)", s, classes)
}
