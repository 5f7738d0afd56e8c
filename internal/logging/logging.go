// Package logging builds the zerolog loggers used by the command line.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel maps a level name onto a zerolog level. Unknown names fall
// back to info.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "OFF", "DISABLED":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// New returns a console logger writing to w.
func New(w io.Writer, level zerolog.Level, noColor bool) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// LogFilePath names a session log inside logsDir.
func LogFilePath(logsDir, name string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", name, sessionStart.Format("20060102_150405")),
	)
}

// OpenFile creates logsDir if needed and returns a logger writing to a new
// session file there, plus the file to close when done. Interactive views
// own the terminal, so they log here instead of to stderr.
func OpenFile(logsDir, name string, level zerolog.Level) (zerolog.Logger, *os.File, error) {
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return zerolog.Nop(), nil, err
	}
	f, err := os.Create(LogFilePath(logsDir, name, time.Now()))
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	return New(f, level, true), f, nil
}

// Tee writes console output to stderr and a colorless copy to file.
func Tee(file io.Writer, level zerolog.Level) zerolog.Logger {
	mlw := zerolog.MultiLevelWriter(
		zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339},
		zerolog.ConsoleWriter{Out: file, TimeFormat: time.RFC3339, NoColor: true},
	)
	return zerolog.New(mlw).Level(level).With().Timestamp().Logger()
}
