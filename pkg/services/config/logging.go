package config

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger builds the root logger. An unknown level falls back to info.
func (l LogConfig) Logger(w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	if l.Pretty {
		w = zerolog.ConsoleWriter{Out: w}
	}

	level, err := zerolog.ParseLevel(l.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
