package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog Logger tagged with the service name.
// APP_ENV=dev (or development) uses a human-friendly console writer at debug
// level; APP_ENV=test discards output; anything else logs JSON at info.
func NewLogger(env string) zerolog.Logger {
	var w io.Writer = os.Stdout
	level := zerolog.InfoLevel
	switch env {
	case "dev", "development":
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		level = zerolog.DebugLevel
	case "test":
		w = io.Discard
	}
	return zerolog.New(w).Level(level).With().Timestamp().Str("service", "hotel-directory").Logger()
}
