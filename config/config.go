package config

import (
	"github.com/Nydauron/skatescore/isu"
)

// Config is the root application configuration.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Parse  ParseConfig  `yaml:"parse"`
	Output OutputConfig `yaml:"output"`
}

// LogConfig selects the zerolog output. Env "production" logs JSON with unix
// timestamps, anything else a console writer.
type LogConfig struct {
	Env   string `yaml:"env"   env:"ENV"`
	Level string `yaml:"level" env:"LOGLEVEL"`
}

type ParseConfig struct {
	FailFast    bool   `yaml:"fail_fast"   env:"PARSE_FAIL_FAST"   env-default:"false"`
	Interactive bool   `yaml:"interactive" env:"PARSE_INTERACTIVE" env-default:"false"`
	Discipline  string `yaml:"discipline"  env:"PARSE_DISCIPLINE"`
	SeasonRaw   string `yaml:"season"      env:"PARSE_SEASON"`
	Judges      int    `yaml:"judges"      env:"PARSE_JUDGES"      env-default:"0"`

	// Class and Season are parsed from Discipline and SeasonRaw by Validate.
	Class  isu.Class  `yaml:"-"`
	Season isu.Season `yaml:"-"`
}

type OutputConfig struct {
	Format string `yaml:"format" env:"OUTPUT_FORMAT" env-default:"yaml"`
	Roster string `yaml:"roster" env:"ROSTER_PATH"`
}
