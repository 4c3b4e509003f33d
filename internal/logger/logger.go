// Package logger provides structured diagnostics for rosterx.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Log formats accepted by Options.Format.
const (
	FormatText = "text"
	FormatJSON = "json"
)

var (
	current *slog.Logger
	mu      sync.RWMutex
)

func init() {
	current = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// Options configures the logger.
type Options struct {
	Debug  bool      // Enable debug level logging
	Quiet  bool      // Only show errors; wins over Debug
	Format string    // "text" (default) or "json"
	Output io.Writer // Output destination (default: stderr)

	// OmitTime drops the time attribute so diagnostics are reproducible.
	OmitTime bool
}

// Level returns the minimum level implied by the options.
func (o Options) Level() slog.Level {
	switch {
	case o.Quiet:
		return slog.LevelError
	case o.Debug:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// Init replaces the package logger.
func Init(opts Options) {
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level()}
	if opts.OmitTime {
		handlerOpts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		}
	}

	var handler slog.Handler
	if opts.Format == FormatJSON {
		handler = slog.NewJSONHandler(output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(output, handlerOpts)
	}

	SetLogger(slog.New(handler))
}

// SetLogger installs a caller-provided slog.Logger.
func SetLogger(l *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	current = l
}

func get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Debug logs a debug message.
func Debug(msg string, args ...any) { get().Debug(msg, args...) }

// Info logs an info message.
func Info(msg string, args ...any) { get().Info(msg, args...) }

// Warn logs a warning message.
func Warn(msg string, args ...any) { get().Warn(msg, args...) }

// Error logs an error message.
func Error(msg string, args ...any) { get().Error(msg, args...) }
