package cache

import (
	"log/slog"
	"os"
	"sync/atomic"
)

// defaultLogger writes warnings and errors to stderr.
var defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

var discardLogger = slog.New(slog.DiscardHandler)

var (
	logger               atomic.Pointer[slog.Logger]
	progressBarsDisabled atomic.Bool
)

func init() {
	logger.Store(defaultLogger)
}

// Logger returns the process-wide logger used by cache lookups.
func Logger() *slog.Logger {
	return logger.Load()
}

// SetLogger replaces the process-wide logger. A nil logger discards everything.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = discardLogger
	}
	logger.Store(l)
}

// DisableDefaultHandler silences the built-in stderr logger. A logger
// installed with SetLogger is left alone. Safe to call more than once.
func DisableDefaultHandler() {
	logger.CompareAndSwap(defaultLogger, discardLogger)
}

// EnableDefaultHandler restores the built-in stderr logger if it was disabled.
func EnableDefaultHandler() {
	logger.CompareAndSwap(discardLogger, defaultLogger)
}

// DisableProgressBars turns off transfer progress reporting process-wide.
func DisableProgressBars() {
	progressBarsDisabled.Store(true)
}

// EnableProgressBars turns transfer progress reporting back on.
func EnableProgressBars() {
	progressBarsDisabled.Store(false)
}

// ProgressBarsDisabled reports whether progress reporting is off.
func ProgressBarsDisabled() bool {
	return progressBarsDisabled.Load()
}
