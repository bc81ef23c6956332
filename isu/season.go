package isu

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Season is identified by the calendar year it starts in, so SB2017 runs
// from summer 2017 to spring 2018.
type Season int

// Events held in the second half of a season, i.e. the calendar year after
// the season started.
var H2Events = []string{"WC", "WTT", "4CC", "OWG", "EC"}

// Grand prix and championship events. Anything else counts as a challenger
// series competition.
var AComps = []string{"NHK", "TDF", "SC", "COR", "SA", "COC", "GPF", "WC", "4CC", "OWG", "WTT", "EC"}

const (
	// From this season "<<" marks a downgrade and "<" an under-rotation.
	// Before it any "<" is read as an under-rotation.
	DowngradeSplitSeason Season = 2011
	// First season whose name rows carry a starting number.
	StartingNumberSeason Season = 2009
	// Ice dance judged four program components before this season.
	FiveComponentDanceSeason Season = 2010
)

func (s Season) String() string {
	return "SB" + strconv.Itoa(int(s))
}

// Key is the lower-case form used to label per-season federation values.
func (s Season) Key() string {
	return "sb" + strconv.Itoa(int(s))
}

// ParseSeason accepts "SB2017", "sb2017" or "2017".
func ParseSeason(raw string) (Season, error) {
	trimmed := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(raw)), "sb")
	year, err := strconv.Atoi(trimmed)
	if err != nil || year < 1900 || year > 2999 {
		return 0, fmt.Errorf("invalid season %q", raw)
	}
	return Season(year), nil
}

func IsH2Event(event string) bool {
	return slices.Contains(H2Events, event)
}

func IsAComp(event string) bool {
	return slices.Contains(AComps, event)
}

// SeasonOf returns the season an event held in the given calendar year
// belongs to.
func SeasonOf(event string, year int) Season {
	if IsH2Event(event) {
		return Season(year - 1)
	}
	return Season(year)
}

// HasStartingNumber reports whether name rows of the event carry the
// starting number column.
func HasStartingNumber(season Season, event string) bool {
	if season >= StartingNumberSeason {
		return true
	}
	return season == StartingNumberSeason-1 && (event == "WTT" || event == "WC")
}

// SpreadsDeductions reports whether deductions of the event may be listed
// over several rows, one per deduction type.
func SpreadsDeductions(year int, event string) bool {
	return year < 2005 || (year == 2005 && IsH2Event(event)) || (year == 2006 && event == "OWG")
}

// ComponentCount is the number of program component rows per protocol.
func ComponentCount(d Discipline, season Season) int {
	switch d {
	case IceDance:
		if season < FiveComponentDanceSeason {
			return 4
		}
		return 5
	case Singles, Pairs:
		return 5
	}
	return 5
}

// SplitsDowngrade reports whether "<<" and "<" are distinct calls.
func SplitsDowngrade(season Season) bool {
	return season >= DowngradeSplitSeason
}
