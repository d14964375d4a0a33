// Package logger configures the process-wide zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ServiceName is stamped on every log line.
const ServiceName = "catering-service"

var output io.Writer = os.Stderr

// Init sets the global level and output format. Unknown or empty levels
// resolve to info. Pretty selects the human-readable console writer.
func Init(level string, pretty bool) {
	zerolog.SetGlobalLevel(ParseLevel(level))
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.DurationFieldUnit = time.Millisecond

	w := output
	if pretty {
		w = zerolog.ConsoleWriter{Out: output, TimeFormat: "15:04:05.000"}
	}
	log.Logger = zerolog.New(w).With().
		Timestamp().
		Str("service", ServiceName).
		Logger()
}

// ParseLevel maps a configured level name to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel || lvl > zerolog.ErrorLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Logger returns the global logger.
func Logger() zerolog.Logger {
	return log.Logger
}

// WithContext returns the global logger carrying the given fields.
func WithContext(fields map[string]any) zerolog.Logger {
	return log.Logger.With().Fields(fields).Logger()
}
