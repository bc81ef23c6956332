package identity

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/Nydauron/skatescore/isu"
	"github.com/rs/zerolog/log"
)

// PlaceholderFederation is listed for people skating under the ISU flag.
// It is replaced as soon as a concrete federation is seen for the season.
const PlaceholderFederation = "ISU"

var (
	teamSplitRegex = regexp.MustCompile(` / | - `)
	titleRegex     = regexp.MustCompile(`^M(rs|r|s)\.? `)
)

type CompetitorType string

const (
	PersonCompetitor CompetitorType = "person"
	TeamCompetitor   CompetitorType = "team"
)

// Federations records the federation observed for each season.
type Federations map[isu.Season]string

// merge records fed for season unless a concrete value is already known.
func (f Federations) merge(season isu.Season, fed string) {
	existing, ok := f[season]
	if !ok || existing == "" || (existing == PlaceholderFederation && fed != PlaceholderFederation) {
		f[season] = fed
	}
}

func (f Federations) flatten(row map[string]any) {
	for season, fed := range f {
		row[season.Key()+"_fed"] = fed
	}
}

// Competitor is a skater or a team. Teams carry the ids of both partners.
type Competitor struct {
	ID          int
	Type        CompetitorType
	Name        Name
	TeamName    string
	LadyID      int
	ManID       int
	Federations Federations
}

// DisplayName is the full name of a person or the name of a team.
func (c Competitor) DisplayName() string {
	if c.Type == TeamCompetitor {
		return c.TeamName
	}
	return c.Name.Full()
}

func (c Competitor) Flatten() map[string]any {
	row := map[string]any{
		"id":              c.ID,
		"competitor_name": c.DisplayName(),
		"competitor_type": string(c.Type),
	}
	if c.Type == TeamCompetitor {
		row["lady_id"] = c.LadyID
		row["man_id"] = c.ManID
	} else {
		row["spaced_first_name"] = c.Name.First
		row["spaced_last_name"] = c.Name.Last
		row["tight_full_name"] = c.Name.Key()
		row["tight_first_name"] = c.Name.TightFirst
		row["tight_last_name"] = c.Name.TightLast
	}
	c.Federations.flatten(row)
	return row
}

// Official is a judge, referee or technical panel member.
type Official struct {
	ID          int
	Name        Name
	Federations Federations
}

func (o Official) Flatten() map[string]any {
	row := map[string]any{
		"id":               o.ID,
		"official_name":    o.Name.Full(),
		"tight_full_name":  o.Name.Key(),
		"tight_first_name": o.Name.TightFirst,
		"tight_last_name":  o.Name.TightLast,
	}
	o.Federations.flatten(row)
	return row
}

// Resolution is the outcome of resolving a competitor. Partner ids are only
// set for teams.
type Resolution struct {
	ID     int
	Name   string
	LadyID *int
	ManID  *int
}

// Registry is the roster of one run. Ids are handed out sequentially on
// first sighting and reused afterwards. Competitors and officials have
// separate sequences.
type Registry struct {
	competitors    []*Competitor
	officials      []*Official
	nextCompetitor int
	nextOfficial   int
}

func NewRegistry() *Registry {
	return &Registry{nextCompetitor: 1, nextOfficial: 1}
}

func normalizeFederation(fed string) string {
	fed = strings.TrimSpace(fed)
	if fed == "OAR" {
		return "RUS"
	}
	return fed
}

// ResolvePerson returns the id of the skater called name, adding them to
// the roster when first seen.
func (r *Registry) ResolvePerson(name, fed string, season isu.Season) int {
	n := SplitName(name)
	fed = normalizeFederation(fed)
	for _, c := range r.competitors {
		if c.Type == PersonCompetitor && c.Name.Key() == n.Key() {
			c.Federations.merge(season, fed)
			return c.ID
		}
	}
	c := &Competitor{
		ID:          r.nextCompetitor,
		Type:        PersonCompetitor,
		Name:        n,
		Federations: Federations{season: fed},
	}
	r.nextCompetitor++
	r.competitors = append(r.competitors, c)
	log.Debug().Int("id", c.ID).Str("name", n.Full()).Str("fed", fed).Msg("new competitor")
	return c.ID
}

// ResolveTeam resolves both partners of "Lady NAME / Man NAME", then the
// team itself by the partners' last names.
func (r *Registry) ResolveTeam(names, fed string, season isu.Season) (Resolution, error) {
	parts := teamSplitRegex.Split(names, -1)
	if len(parts) < 2 {
		return Resolution{}, fmt.Errorf("identity: cannot split team %q into two partners", names)
	}
	ladyID := r.ResolvePerson(parts[0], fed, season)
	manID := r.ResolvePerson(parts[1], fed, season)
	teamName := SplitName(parts[0]).TightLast + "/" + SplitName(parts[1]).TightLast
	fed = normalizeFederation(fed)

	for _, c := range r.competitors {
		if c.Type == TeamCompetitor && c.TeamName == teamName {
			c.Federations.merge(season, fed)
			return Resolution{ID: c.ID, Name: teamName, LadyID: &ladyID, ManID: &manID}, nil
		}
	}
	c := &Competitor{
		ID:          r.nextCompetitor,
		Type:        TeamCompetitor,
		TeamName:    teamName,
		LadyID:      ladyID,
		ManID:       manID,
		Federations: Federations{season: fed},
	}
	r.nextCompetitor++
	r.competitors = append(r.competitors, c)
	log.Debug().Int("id", c.ID).Str("team", teamName).Int("lady_id", ladyID).Int("man_id", manID).Msg("new team")
	return Resolution{ID: c.ID, Name: teamName, LadyID: &ladyID, ManID: &manID}, nil
}

// ResolveOfficial strips titles ("Mrs. ", "Mr ") before resolving an
// official.
func (r *Registry) ResolveOfficial(name, fed string, season isu.Season) int {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\u00a0", " "))
	n := SplitName(titleRegex.ReplaceAllString(name, ""))
	fed = normalizeFederation(fed)
	for _, o := range r.officials {
		if o.Name.Key() == n.Key() {
			o.Federations.merge(season, fed)
			return o.ID
		}
	}
	o := &Official{ID: r.nextOfficial, Name: n, Federations: Federations{season: fed}}
	r.nextOfficial++
	r.officials = append(r.officials, o)
	log.Debug().Int("id", o.ID).Str("name", n.Full()).Str("fed", fed).Msg("new official")
	return o.ID
}

// Competitors returns a copy of the competitor roster in id order.
func (r *Registry) Competitors() []Competitor {
	out := make([]Competitor, 0, len(r.competitors))
	for _, c := range r.competitors {
		cp := *c
		cp.Federations = maps.Clone(c.Federations)
		out = append(out, cp)
	}
	return out
}

// Officials returns a copy of the officials roster in id order.
func (r *Registry) Officials() []Official {
	out := make([]Official, 0, len(r.officials))
	for _, o := range r.officials {
		cp := *o
		cp.Federations = maps.Clone(o.Federations)
		out = append(out, cp)
	}
	return out
}

// Restore seeds an empty registry with a roster saved by an earlier run.
// New ids continue after the largest restored id.
func (r *Registry) Restore(competitors []Competitor, officials []Official) error {
	if len(r.competitors) > 0 || len(r.officials) > 0 {
		return fmt.Errorf("identity: restore into a registry already in use")
	}
	for _, c := range slices.SortedFunc(slices.Values(competitors), func(a, b Competitor) int { return a.ID - b.ID }) {
		cp := c
		if cp.Federations == nil {
			cp.Federations = Federations{}
		}
		r.competitors = append(r.competitors, &cp)
		r.nextCompetitor = max(r.nextCompetitor, c.ID+1)
	}
	for _, o := range slices.SortedFunc(slices.Values(officials), func(a, b Official) int { return a.ID - b.ID }) {
		cp := o
		if cp.Federations == nil {
			cp.Federations = Federations{}
		}
		r.officials = append(r.officials, &cp)
		r.nextOfficial = max(r.nextOfficial, o.ID+1)
	}
	return nil
}
