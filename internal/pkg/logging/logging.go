package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds the service logger. Level falls back to info when the
// configured value doesn't parse.
func New(service, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).
		Level(lvl).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}
