package pubcontent

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog logger for conf writing to stderr.
func NewLogger(conf LogConfig) zerolog.Logger {
	return newLogger(conf, os.Stderr)
}

func newLogger(conf LogConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(conf.Level)
	if err != nil || conf.Level == "" {
		level = zerolog.InfoLevel
	}

	if conf.Format == "json" {
		return zerolog.New(out).Level(level).With().Timestamp().Logger()
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}).
		Level(level).With().Timestamp().Logger()
}
