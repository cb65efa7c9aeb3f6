package modhook

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Diagnostics is the plugin's diagnostic context. It is created once during
// Load and handed to every component that logs, instead of living in a
// package-level variable.
type Diagnostics struct {
	logger Logger
	closer io.Closer
	once   sync.Once
}

// NewDiagnostics builds a slog-backed diagnostics context from cfg. With an
// empty log directory records go to stderr.
func NewDiagnostics(name string, cfg LogConfig) (*Diagnostics, error) {
	level, err := ParseLogLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer
	)
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(cfg.Dir, name+".log"), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &Diagnostics{
		logger: slog.New(handler).With("plugin", name),
		closer: closer,
	}, nil
}

// DiagnosticsFromLogger wraps an existing logger, typically in tests.
func DiagnosticsFromLogger(logger Logger) *Diagnostics {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Diagnostics{logger: logger}
}

// Logger returns the diagnostics logger.
func (d *Diagnostics) Logger() Logger {
	if d == nil {
		return nopLogger{}
	}
	return d.logger
}

// Close releases the log file, if any. Safe to call more than once.
func (d *Diagnostics) Close() error {
	if d == nil || d.closer == nil {
		return nil
	}
	var err error
	d.once.Do(func() { err = d.closer.Close() })
	return err
}
