package config

import (
	"os"

	"github.com/rs/zerolog"
)

// NewLogger builds the root logger at the configured level. Unknown levels
// fall back to info rather than failing startup.
func NewLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
