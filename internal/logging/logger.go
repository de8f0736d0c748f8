// Package logging configures structured logging for tmux-persist.
//
// Logs go to stderr by default. When a log file is configured they go to a
// size-rotated file instead, so scheduled captures (cron, tmux hooks) leave
// a bounded trail.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Component names used as the "component" attribute.
const (
	CompPersist = "persist"
	CompResolve = "resolve"
	CompStore   = "store"
	CompUI      = "ui"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum level: "debug", "info", "warn", "error".
	Level string
	// Format is "text" (default) or "json".
	Format string
	// File, when set, receives logs through a rotating writer.
	File string
	// MaxSizeMB is the size in MB before rotation (default: 5).
	MaxSizeMB int
	// MaxBackups is the number of rotated files kept (default: 3).
	MaxBackups int
	// Writer overrides the destination when File is empty (default: stderr).
	Writer io.Writer
}

var (
	globalLogger *slog.Logger
	globalMu     sync.RWMutex
	rotator      *lumberjack.Logger
)

// Init configures the global logger and returns it.
func Init(cfg Config) *slog.Logger {
	globalMu.Lock()
	defer globalMu.Unlock()

	if rotator != nil {
		_ = rotator.Close()
		rotator = nil
	}

	var out io.Writer = os.Stderr
	if cfg.Writer != nil {
		out = cfg.Writer
	}
	if cfg.File != "" {
		if cfg.MaxSizeMB <= 0 {
			cfg.MaxSizeMB = 5
		}
		if cfg.MaxBackups <= 0 {
			cfg.MaxBackups = 3
		}
		rotator = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		out = rotator
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	globalLogger = slog.New(handler)
	return globalLogger
}

// ParseLevel maps a level name to a slog.Level. Unknown names mean info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger returns the global logger. Safe to call before Init (discards).
func Logger() *slog.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLogger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return globalLogger
}

// ForComponent returns a logger tagged with the component name. It resolves
// the global handler at log time, so it may be created before Init.
func ForComponent(name string) *slog.Logger {
	return slog.New(&dynamicHandler{component: name})
}

// Shutdown closes the rotating file, if any, and resets the global logger.
func Shutdown() {
	globalMu.Lock()
	defer globalMu.Unlock()
	if rotator != nil {
		_ = rotator.Close()
		rotator = nil
	}
	globalLogger = nil
}

// dynamicHandler resolves the global handler on every record and replays
// the WithAttrs/WithGroup calls made on it, in call order.
type dynamicHandler struct {
	component string
	ops       []handlerOp
}

// handlerOp is one WithAttrs (attrs set) or WithGroup (group set) call.
type handlerOp struct {
	attrs []slog.Attr
	group string
}

func (h *dynamicHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return Logger().Handler().Enabled(ctx, level)
}

func (h *dynamicHandler) Handle(ctx context.Context, r slog.Record) error {
	handler := Logger().Handler().WithAttrs([]slog.Attr{slog.String("component", h.component)})
	for _, op := range h.ops {
		if op.group != "" {
			handler = handler.WithGroup(op.group)
			continue
		}
		handler = handler.WithAttrs(op.attrs)
	}
	return handler.Handle(ctx, r)
}

func (h *dynamicHandler) with(op handlerOp) *dynamicHandler {
	ops := make([]handlerOp, 0, len(h.ops)+1)
	ops = append(ops, h.ops...)
	return &dynamicHandler{component: h.component, ops: append(ops, op)}
}

func (h *dynamicHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return h.with(handlerOp{attrs: attrs})
}

func (h *dynamicHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return h.with(handlerOp{group: name})
}
