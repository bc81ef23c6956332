package identity

import (
	"fmt"

	"github.com/Nydauron/skatescore/isu"
)

// CompetitorParser resolves the competitor named on a protocol's name row.
type CompetitorParser interface {
	Resolve(r *Registry, name, fed string, season isu.Season) (Resolution, error)
}

type skaterParser struct{}

func (skaterParser) Resolve(r *Registry, name, fed string, season isu.Season) (Resolution, error) {
	id := r.ResolvePerson(name, fed, season)
	return Resolution{ID: id, Name: SplitName(name).Full()}, nil
}

type teamParser struct{}

func (teamParser) Resolve(r *Registry, name, fed string, season isu.Season) (Resolution, error) {
	return r.ResolveTeam(name, fed, season)
}

func CompetitorParserFor(d isu.Discipline) (CompetitorParser, error) {
	switch d {
	case isu.Singles:
		return skaterParser{}, nil
	case isu.Pairs, isu.IceDance:
		return teamParser{}, nil
	}
	return nil, fmt.Errorf("identity: no competitor parser for %s", d)
}
