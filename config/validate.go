package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Nydauron/skatescore/isu"
)

var outputFormats = []string{"yaml", "sqlite"}

// Validate checks the loaded values and fills the parsed parse settings.
// Load calls it; callers that change fields afterwards call it again.
func (c *Config) Validate() error {
	if _, ok := logLevels[strings.ToLower(c.Log.Level)]; c.Log.Level != "" && !ok {
		return fmt.Errorf("log.level %q is not one of %v", c.Log.Level, slices.Sorted(maps.Keys(logLevels)))
	}
	if !slices.Contains(outputFormats, c.Output.Format) {
		return fmt.Errorf("output.format %q is not one of %v", c.Output.Format, outputFormats)
	}
	if err := c.Parse.validate(); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	return nil
}

func (p *ParseConfig) validate() error {
	if p.Judges < 0 || p.Judges > 12 {
		return fmt.Errorf("judges must be between 0 and 12 (got %d)", p.Judges)
	}

	p.Class = ""
	if p.Discipline != "" {
		class, err := isu.ParseClass(p.Discipline)
		if err != nil {
			return fmt.Errorf("discipline: %w", err)
		}
		p.Class = class
	}

	p.Season = 0
	if p.SeasonRaw != "" {
		season, err := isu.ParseSeason(p.SeasonRaw)
		if err != nil {
			return fmt.Errorf("season: %w", err)
		}
		p.Season = season
	}
	return nil
}
