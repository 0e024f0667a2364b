// Package logging sets up the process-wide structured logger. The TUI owns the
// terminal, so logs go to a rotating file, never to stdout.
package logging

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Component constants for structured logging.
const (
	CompManifest = "manifest"
	CompIndex    = "index"
	CompPreview  = "preview"
	CompUI       = "ui"
	CompBus      = "bus"
	CompConfig   = "config"
	CompState    = "pagestate"
)

// Config holds logging configuration.
type Config struct {
	// LogDir is the directory for log files. Empty discards all output.
	LogDir string

	// Level is the minimum log level: "debug", "info", "warn", "error"
	Level string

	// MaxSizeMB is the max size in MB before rotation (default: 10)
	MaxSizeMB int

	// MaxBackups is rotated files to keep (default: 3)
	MaxBackups int
}

var (
	globalMu     sync.RWMutex
	globalLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	fileWriter   *lumberjack.Logger
)

// Init initializes the global logging system.
func Init(cfg Config) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if cfg.LogDir == "" {
		globalLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
		return
	}

	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 3
	}

	fileWriter = &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, "siteseek.log"),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   true,
	}

	globalLogger = slog.New(slog.NewTextHandler(fileWriter, &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}))
}

// Logger returns a component-tagged logger.
func Logger(component string) *slog.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger.With("comp", component)
}

// Close flushes and closes the underlying log file, if any.
func Close() {
	globalMu.Lock()
	defer globalMu.Unlock()
	if fileWriter != nil {
		_ = fileWriter.Close()
		fileWriter = nil
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
