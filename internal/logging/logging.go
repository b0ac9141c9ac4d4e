// Package logging builds the process-wide slog.Logger shared by the API
// server and the tripctl CLI.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for LOG_FILE output.
const (
	maxSizeMB  = 50
	maxBackups = 5
	maxAgeDays = 28
)

// New returns a JSON slog.Logger at the given level ("debug", "info", "warn",
// "error"; anything else means info). When file is empty logs go to stdout;
// otherwise they go to a size-rotated file. The returned io.Closer flushes and
// closes the file and is a no-op for stdout.
func New(level, file string) (*slog.Logger, io.Closer) {
	var out io.WriteCloser = nopCloser{os.Stdout}
	if file != "" {
		out = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}
	}
	return NewWithWriter(level, out), out
}

// NewWithWriter returns a JSON slog.Logger writing to w.
func NewWithWriter(level string, w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// ParseLevel maps a LOG_LEVEL value onto a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
