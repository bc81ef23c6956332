package prompts

import (
	"maps"
	"slices"

	"github.com/Nydauron/skatescore/isu"
)

var classMapping = map[string]isu.Class{
	"M": isu.Men,
	"L": isu.Ladies,
	"P": isu.PairsClass,
	"D": isu.IceDanceClass,
}

var classAbbreviations = func() []string {
	return slices.Sorted(maps.Keys(classMapping))
}()
