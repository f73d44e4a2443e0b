// Package logging wires the slog-based logging used across scopemark:
// console plus optional file and Graylog sinks behind one fan-out
// handler, and a zerolog adapter for components that take the
// dispatcher's Logger interface.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
)

// Manager owns the configured slog.Logger.
type Manager struct {
	logger *slog.Logger
}

// NewManager creates an unconfigured logging manager. Call Setup before
// use; Logger falls back to slog.Default until then.
func NewManager() *Manager {
	return &Manager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup initializes logging. file may be nil to skip the file sink;
// graylogAddr may be empty to skip the GELF sink. A GELF connection
// failure is reported on the console sink rather than failing setup:
// losing remote logging must not take the tool down.
func (m *Manager) Setup(file io.Writer, level, graylogAddr string) {
	lvl := parseLevel(level)

	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler
	handlers = append(handlers, slog.NewTextHandler(os.Stdout, handlerOpts))
	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, handlerOpts))
	}

	var gelfErr error
	if graylogAddr != "" {
		w, err := gelf.NewWriter(graylogAddr)
		if err != nil {
			gelfErr = err
		} else {
			handlers = append(handlers, slog.NewJSONHandler(w, handlerOpts))
		}
	}

	m.logger = slog.New(NewFanoutHandler(handlers...))
	m.logger.Info("Logging initialized", "level", level)
	if gelfErr != nil {
		m.logger.Warn("Graylog sink unavailable", "address", graylogAddr, "error", gelfErr)
	}
}

// Logger returns the configured slog.Logger.
func (m *Manager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}
