package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var logLevels = map[string]zerolog.Level{
	"debug":    zerolog.DebugLevel,
	"info":     zerolog.InfoLevel,
	"warn":     zerolog.WarnLevel,
	"warning":  zerolog.WarnLevel,
	"error":    zerolog.ErrorLevel,
	"fatal":    zerolog.FatalLevel,
	"panic":    zerolog.PanicLevel,
	"disabled": zerolog.Disabled,
}

// LoadDotEnv loads a .env file from the working directory if there is one,
// without overriding variables already set. It reports whether a file was
// read.
func LoadDotEnv() bool {
	return godotenv.Load() == nil
}

// SetupLogging configures the global zerolog logger.
func SetupLogging(c LogConfig, dotenvLoaded bool) {
	if c.Env == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	// Validate has already rejected level names missing from logLevels.
	level, ok := logLevels[strings.ToLower(c.Level)]
	if !ok {
		level = zerolog.InfoLevel
		if c.Env == "production" {
			level = zerolog.WarnLevel
		}
	}
	zerolog.SetGlobalLevel(level)

	if dotenvLoaded {
		log.Debug().Msg("Loaded environment variables from .env file.")
	}
}
