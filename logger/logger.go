// Package logger provides the shared leveled logger used across the
// framedump application. All operational diagnostics flow through it so
// that every line carries a level tag and an HH:MM:SS timestamp.
package logger

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Public variables (alphabetical)

// Log is the shared logger instance. It defaults to info level with a
// compact timestamped text format.
var Log = newLogger()

// Private functions (alphabetical)

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
	log.SetLevel(logrus.InfoLevel)
	return log
}

// Public functions (alphabetical)

// SetLevel adjusts the shared logger's level from its textual name
// ("debug", "info", "warn", ...). Unknown names leave the level unchanged
// and return an error.
func SetLevel(level string) error {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("unknown log level %q: %w", level, err)
	}
	Log.SetLevel(parsed)
	return nil
}
