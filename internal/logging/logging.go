// Package logging builds the charmbracelet loggers used across webtop.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"charm.land/log/v2"
	"github.com/adrg/xdg"
)

// Options selects where and how logs are written.
type Options struct {
	// Level is debug, info, warn or error. Empty means info.
	Level string
	// Format is "text" or "json".
	Format string
	// File receives logs. Empty writes to Writer.
	File string
	// Writer is used when File is empty. Nil means stderr.
	Writer io.Writer
	// Prefix tags every line, e.g. "ssh" or "web".
	Prefix string
	// Debug forces the debug level.
	Debug bool
}

// New returns a logger for opts and a function releasing its file, if any.
func New(opts Options) (*log.Logger, func() error, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
		level = parsed
	}
	if opts.Debug {
		level = log.DebugLevel
	}

	w := opts.Writer
	closeFn := func() error { return nil }
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closeFn = f, f.Close
	}
	if w == nil {
		w = os.Stderr
	}

	lo := log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          opts.Prefix,
	}
	if opts.Format == "json" {
		lo.Formatter = log.JSONFormatter
	}
	return log.NewWithOptions(w, lo), closeFn, nil
}

// DefaultFile returns the log file under the XDG state directory.
func DefaultFile() (string, error) {
	path, err := xdg.StateFile(filepath.Join("webtop", "webtop.log"))
	if err != nil {
		return "", fmt.Errorf("resolve log path: %w", err)
	}
	return path, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
