// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"

	charmlog "github.com/charmbracelet/log"

	"github.com/fyralabs/anda/internal/config"
)

// newLogger builds the process logger. Text output goes through
// charmbracelet/log; json uses the standard JSON handler.
func newLogger(w io.Writer, format config.LogFormat, level slog.Level) *slog.Logger {
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}

	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.Level(level),
		ReportTimestamp: level <= slog.LevelDebug,
	})
	return slog.New(handler)
}
