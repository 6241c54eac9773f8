package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

var std = newLogger(os.Stderr)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Options configures the process-wide logger.
type Options struct {
	Level  string
	Format string
	File   string
	// Discard drops output when no file is set (the TUI owns the terminal).
	Discard bool
}

// Setup applies opts to the shared logger. The returned closer is nil unless
// a log file was opened.
func Setup(opts Options) (io.Closer, error) {
	lvl, err := logrus.ParseLevel(strings.ToLower(coalesce(opts.Level, "info")))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	std.SetLevel(lvl)
	if strings.EqualFold(opts.Format, "text") {
		std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		std.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	}
	switch {
	case opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("log dir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("log file: %w", err)
		}
		std.SetOutput(f)
		return f, nil
	case opts.Discard:
		std.SetOutput(io.Discard)
	default:
		std.SetOutput(os.Stderr)
	}
	return nil, nil
}

// SetOutput redirects the shared logger; tests use it to capture lines.
func SetOutput(w io.Writer) { std.SetOutput(w) }

func Log(level, msg string, fields map[string]any) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	std.WithFields(logrus.Fields(fields)).Log(lvl, msg)
}

func Debug(msg string, fields map[string]any) { Log("debug", msg, fields) }
func Info(msg string, fields map[string]any)  { Log("info", msg, fields) }
func Warn(msg string, fields map[string]any)  { Log("warn", msg, fields) }
func Error(msg string, fields map[string]any) { Log("error", msg, fields) }

func coalesce(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
