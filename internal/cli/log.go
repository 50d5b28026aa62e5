package cli

import (
	"io"

	"github.com/charmbracelet/log"
)

// newLogger creates the run logger. It writes to w (stderr in production, so
// stdout stays clean for structured output) and filters at the given level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}
