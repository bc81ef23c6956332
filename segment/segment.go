package segment

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Nydauron/skatescore/isu"
	"github.com/rs/zerolog/log"
)

var (
	ladiesRegex     = regexp.MustCompile(`(?i)(lad(y|ies)|women).*score`)
	pairsRegex      = regexp.MustCompile(`(?i)pairs.*score`)
	danceRegex      = regexp.MustCompile(`(?i)danc.*score`)
	dataCodeRegex   = regexp.MustCompile(`data0([1-4])0[35]`)
	dataSegRegex    = regexp.MustCompile(`data[0-9]{2}([0-9]{2})`)
	segmentCodes    = []string{"SP", "FS", "SD", "FP", "FD", "OD", "CD", "RD", "QA", "QB", "Prelim"}
	codeCorrections = map[string]string{"Prelim": "QA", "FP": "FS"}
	dataClasses     = map[string]isu.Class{"1": isu.Men, "2": isu.Ladies, "3": isu.PairsClass, "4": isu.IceDanceClass}
)

var subEvents = []struct {
	marker string
	name   string
}{
	{"Team", "team"},
	{"Preliminary", "qual"},
	{"QA", "qual_1"},
	{"QB", "qual_2"},
}

const dateLayout = "060102"

var (
	// ErrNoDate and ErrNoClass mark names that lack metadata the caller
	// may supply some other way.
	ErrNoDate  = errors.New("no start date")
	ErrNoClass = errors.New("no class")
)

type ParseError struct {
	Name   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("segment: %s: %s", e.Name, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Segment is one program of one class at one competition, e.g. the junior
// ladies free skating at the 2013 Four Continents.
type Segment struct {
	ID         int
	Event      string
	StartDate  time.Time
	Season     isu.Season
	Category   string
	Class      isu.Class
	Discipline isu.Discipline
	Code       string
	SubEvent   string
	Source     string
}

// Parse reads a segment from a file name of the form
// "130418_4CC_LadiesJrFS.xlsx". When class is empty it is inferred from the
// name.
func Parse(filename string, class isu.Class) (Segment, error) {
	base := filepath.Base(filename)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	datePart, rest, ok := strings.Cut(name, "_")
	if !ok {
		return Segment{}, &ParseError{Name: name, Reason: "expected <yymmdd>_<event>_...", Err: ErrNoDate}
	}
	start, err := time.Parse(dateLayout, datePart)
	if err != nil {
		return Segment{}, &ParseError{Name: name, Reason: fmt.Sprintf("bad start date %q", datePart), Err: ErrNoDate}
	}
	event, _, _ := strings.Cut(rest, "_")
	if event == "" {
		return Segment{}, &ParseError{Name: name, Reason: "missing event code"}
	}

	if class == "" {
		if class, err = ClassOf(name); err != nil {
			return Segment{}, err
		}
	}
	discipline, err := class.Discipline()
	if err != nil {
		return Segment{}, &ParseError{Name: name, Reason: err.Error()}
	}
	code, err := codeOf(name, discipline)
	if err != nil {
		return Segment{}, err
	}

	s := Segment{
		Event:      event,
		StartDate:  start,
		Season:     isu.SeasonOf(event, start.Year()),
		Category:   categoryOf(name),
		Class:      class,
		Discipline: discipline,
		Code:       code,
		SubEvent:   subEventOf(name),
		Source:     base,
	}
	log.Info().
		Str("event", s.Event).
		Str("sub_event", s.SubEvent).
		Stringer("season", s.Season).
		Str("category", s.Category).
		Str("class", string(s.Class)).
		Str("segment", s.Code).
		Msg("parsed segment")
	return s, nil
}

// ClassOf infers the competition class from a file name. Novice files are
// rejected.
func ClassOf(name string) (isu.Class, error) {
	if strings.Contains(strings.ToLower(name), "novice") {
		return "", &ParseError{Name: name, Reason: "novice events are not supported"}
	}
	switch {
	case ladiesRegex.MatchString(name):
		return isu.Ladies, nil
	case isMen(name):
		return isu.Men, nil
	case pairsRegex.MatchString(name):
		return isu.PairsClass, nil
	case danceRegex.MatchString(name):
		return isu.IceDanceClass, nil
	}
	if m := dataCodeRegex.FindStringSubmatch(name); m != nil {
		return dataClasses[m[1]], nil
	}
	return "", &ParseError{Name: name, Reason: "cannot find the class", Err: ErrNoClass}
}

// isMen looks for "men" followed by "score", not as part of "women".
func isMen(name string) bool {
	lower := strings.ToLower(name)
	for i := 0; ; {
		j := strings.Index(lower[i:], "men")
		if j < 0 {
			return false
		}
		at := i + j
		if !(at >= 2 && lower[at-2:at] == "wo") && strings.Contains(lower[at+3:], "score") {
			return true
		}
		i = at + 1
	}
}

func categoryOf(name string) string {
	if strings.Contains(name, "Junior") || strings.Contains(name, "Jr") {
		return "Jr"
	}
	return "Sr"
}

func subEventOf(name string) string {
	var found []string
	for _, s := range subEvents {
		if strings.Contains(name, s.marker) {
			found = append(found, s.name)
		}
	}
	if len(found) == 0 {
		return ""
	}
	if len(found) > 1 {
		log.Warn().Str("name", name).Strs("found", found).Msg("several sub-events in name, using the first")
	}
	return found[0]
}

func codeOf(name string, d isu.Discipline) (string, error) {
	if m := dataSegRegex.FindStringSubmatch(name); m != nil {
		short := m[1] == "03"
		switch {
		case d == isu.IceDance && short:
			return "SD", nil
		case d == isu.IceDance:
			return "FD", nil
		case short:
			return "SP", nil
		}
		return "FS", nil
	}

	var found []string
	for _, c := range segmentCodes {
		if strings.Contains(name, c) {
			found = append(found, c)
		}
	}
	switch {
	case len(found) == 0:
		return "", &ParseError{Name: name, Reason: "cannot find the segment code"}
	case len(found) > 1 && strings.Contains(name, "Prelim"):
		found = []string{"Prelim"}
	case len(found) > 1:
		log.Warn().Str("name", name).Strs("found", found).Msg("several segment codes in name, using the first")
	}
	if corrected, ok := codeCorrections[found[0]]; ok {
		return corrected, nil
	}
	return found[0], nil
}

// IsAComp reports whether the segment belongs to a grand prix or
// championship event.
func (s Segment) IsAComp() bool {
	return isu.IsAComp(s.Event)
}

func (s Segment) String() string {
	return fmt.Sprintf("%s %s %s %s %s", s.Season, s.Event, s.Class, s.Category, s.Code)
}

func (s Segment) Flatten() map[string]any {
	row := map[string]any{
		"id":          s.ID,
		"name":        s.Event,
		"year":        s.StartDate.Year(),
		"start_date":  s.StartDate.Format(time.DateOnly),
		"season":      s.Season.Key(),
		"is_a_comp":   s.IsAComp(),
		"is_h2_event": isu.IsH2Event(s.Event),
		"cs_flag":     nil,
		"category":    s.Category,
		"discipline":  string(s.Class),
		"segment":     s.Code,
		"sub_event":   nil,
	}
	if !s.IsAComp() {
		row["cs_flag"] = "CS"
	}
	if s.SubEvent != "" {
		row["sub_event"] = s.SubEvent
	}
	return row
}
