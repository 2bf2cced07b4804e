// Package logging builds the slog handler installed by the command line.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"nixos-type-generator/internal/errs"
)

const (
	FormatText   = "text"
	FormatLogfmt = "logfmt"
	FormatJSON   = "json"
)

// Formats lists the accepted log formats.
var Formats = []string{FormatText, FormatLogfmt, FormatJSON}

// CreateHandler creates a [slog.Handler] writing to w from level and format
// names. Unknown levels fall back to info; unknown formats are an error.
func CreateHandler(w io.Writer, level, format string) (slog.Handler, error) {
	formatter, err := GetFormatter(format)
	if err != nil {
		return nil, err
	}

	return log.NewWithOptions(w, log.Options{
		Level:           GetLevel(level),
		Formatter:       formatter,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	}), nil
}

// GetLevel parses a level name leniently.
func GetLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "panic", "fatal", "error":
		return log.ErrorLevel
	case "warn", "warning":
		return log.WarnLevel
	case "info":
		return log.InfoLevel
	case "debug", "trace":
		return log.DebugLevel
	default:
		return log.InfoLevel
	}
}

// GetFormatter maps a format name to a formatter. The empty string selects
// text.
func GetFormatter(format string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatText, "":
		return log.TextFormatter, nil
	case FormatLogfmt:
		return log.LogfmtFormatter, nil
	case FormatJSON:
		return log.JSONFormatter, nil
	default:
		return log.TextFormatter, fmt.Errorf("%w: unknown log format %q, expected one of %s",
			errs.ErrInvalidArguments, format, strings.Join(Formats, ", "))
	}
}
