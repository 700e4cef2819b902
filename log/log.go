// Package log is the package-level logger of tuikit. Messages are formatted
// printf style and handed to a slog.Logger, which discards everything until
// SetLogger is called.
package log

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"golang.org/x/exp/slog"
)

// LevelTrace is below slog.LevelDebug and is used for per-byte and
// per-sequence chatter
const LevelTrace = slog.LevelDebug - 4

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// SetLogger installs l as the destination of all log output. A nil logger
// discards output
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger.Store(l)
}

// Logger returns the installed logger
func Logger() *slog.Logger {
	return logger.Load()
}

func output(level slog.Level, format string, args ...any) {
	l := logger.Load()
	ctx := context.Background()
	if !l.Enabled(ctx, level) {
		return
	}
	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}
	l.Log(ctx, level, message)
}

func Trace(format string, args ...any) {
	output(LevelTrace, format, args...)
}

func Debug(format string, args ...any) {
	output(slog.LevelDebug, format, args...)
}

func Info(format string, args ...any) {
	output(slog.LevelInfo, format, args...)
}

func Warn(format string, args ...any) {
	output(slog.LevelWarn, format, args...)
}

func Error(format string, args ...any) {
	output(slog.LevelError, format, args...)
}
