package app

import (
	"fmt"
	"io"
	"time"

	charmLog "github.com/charmbracelet/log"
)

// newLogger builds the process logger. --verbose forces debug level.
func newLogger(w io.Writer, level string, verbose bool) (*charmLog.Logger, error) {
	lvl, err := charmLog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	if verbose {
		lvl = charmLog.DebugLevel
	}
	if w == nil {
		w = io.Discard
	}
	return charmLog.NewWithOptions(w, charmLog.Options{
		Level:           lvl,
		Prefix:          "toolthinker",
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.TextFormatter,
	}), nil
}

// newFileLogger builds an unstyled logfmt logger for the daemon log file.
func newFileLogger(w io.Writer, level string, verbose bool) (*charmLog.Logger, error) {
	l, err := newLogger(w, level, verbose)
	if err != nil {
		return nil, err
	}
	l.SetFormatter(charmLog.LogfmtFormatter)
	return l, nil
}
