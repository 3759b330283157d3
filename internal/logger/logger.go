package logger

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log levels accepted in configuration.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Logger wraps zap's SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
}

// New returns a console logger writing to stderr at the given level.
// Unknown levels fall back to info.
func New(level string) *Logger {
	return NewWithWriter(level, os.Stderr)
}

// NewWithWriter returns a console logger writing to w. The terminal frontend
// uses it to keep log lines off the screen it draws.
func NewWithWriter(level string, w io.Writer) *Logger {
	core := newConsoleCore(toZapLevel(strings.ToLower(strings.TrimSpace(level))), zapcore.AddSync(w))
	return &Logger{SugaredLogger: zap.New(core).Sugar()}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// Named returns a child logger tagged with a component name.
func (log *Logger) Named(component string) *Logger {
	if log == nil {
		return Nop()
	}
	return &Logger{SugaredLogger: log.SugaredLogger.Named(component)}
}
