// Package logging provides a leveled logger and the fallback-event sink the
// precision dispatch layer reports to.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a log level string, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "info", "INFO":
		return LevelInfo
	case "warn", "WARN", "warning", "WARNING":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// FallbackEvent records a high-precision calculation failing over to the
// standard path.
type FallbackEvent struct {
	Component string // e.g. "sidereal", "sun", "moon"
	Err       error
	At        time.Time
}

// Sink receives fallback events. The engine only requires this capability,
// not a full logging framework; tests substitute a recording sink.
type Sink interface {
	Fallback(ev FallbackEvent)
}

// Logger is a leveled logger that also implements Sink.
type Logger struct {
	mu            sync.Mutex
	level         Level
	output        io.Writer
	fallbackCount int
}

// New creates a logger writing to stderr.
func New(level Level) *Logger {
	return &Logger{level: level, output: os.Stderr}
}

// Discard returns a logger that drops all output.
func Discard() *Logger {
	return &Logger{level: LevelError + 1, output: io.Discard}
}

// SetOutput sets the log destination.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
}

// SetLevel sets the minimum level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	timestamp := time.Now().Format("15:04:05.000")
	msg := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("%s [%s] %s\n", timestamp, level.String(), msg)

	_, _ = l.output.Write([]byte(line))
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

// Fallback implements Sink: each event is a warning, since results remain
// valid at reduced accuracy.
func (l *Logger) Fallback(ev FallbackEvent) {
	l.mu.Lock()
	l.fallbackCount++
	l.mu.Unlock()
	l.Warn("high-precision %s failed, using standard path: %v", ev.Component, ev.Err)
}

// FallbackCount returns how many fallback events this logger has seen.
func (l *Logger) FallbackCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fallbackCount
}
