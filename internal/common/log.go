package common

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// LoggingEnabled controls whether Logf and LogDuration produce output.
var LoggingEnabled = true

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
	Level(zerolog.InfoLevel).
	With().Timestamp().Logger()

// Logger returns the package-wide logger used by filters and binaries.
func Logger() *zerolog.Logger {
	return &logger
}

// SetLogger replaces the package-wide logger.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// Logf logs a formatted message at info level if logging is enabled.
func Logf(format string, args ...interface{}) {
	if LoggingEnabled {
		logger.Info().Msgf(format, args...)
	}
}

// formatDuration formats a duration with 2 decimal places.
// Returns a string like "1.23 ms" (no padding).
func formatDuration(d time.Duration) string {
	ms := float64(d) / float64(time.Millisecond)

	if ms >= 1000 {
		sec := ms / 1000
		return fmt.Sprintf("%.2f s", sec)
	} else if ms < 0.01 {
		us := ms * 1000
		return fmt.Sprintf("%.2f us", us)
	}
	return fmt.Sprintf("%.2f ms", ms)
}

// LogDuration logs a message with the elapsed time since start attached.
func LogDuration(start time.Time, format string, args ...interface{}) {
	if !LoggingEnabled {
		return
	}
	logger.Info().
		Str("elapsed", formatDuration(time.Since(start))).
		Msgf(format, args...)
}
