// Package logger provides the diagnostic console logger used by every
// command.
//
// Diagnostics (warnings, errors, verbose traces) go to a writer, normally
// os.Stderr, so that the results printed by find on stdout stay pipeable.
// Every line is prefixed with the program name and a level word; the level
// is colored when the writer is a terminal.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// Color modes accepted by NewConsoleLogger.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

const prefix = "important"

// ConsoleLogger writes leveled diagnostic lines to a writer.
// Format: "important: <level>: <message>". Debug and trace lines also carry
// the run id so output of overlapping invocations can be told apart.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
	runID       string
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive); anything
// else falls back to "info". colorMode is one of ColorAuto, ColorAlways or
// ColorNever; auto enables color only for terminals.
func NewConsoleLogger(writer io.Writer, logLevel string, colorMode string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: UseColor(writer, colorMode),
		runID:       uuid.New().String()[:8],
	}
}

// UseColor decides whether output to w should be colored under colorMode.
func UseColor(w io.Writer, colorMode string) bool {
	switch colorMode {
	case ColorAlways:
		return w != nil
	case ColorNever:
		return false
	default:
		return isTerminal(w)
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
// NO_COLOR disables color regardless of the terminal.
func isTerminal(w io.Writer) bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	if IsValidLevel(normalized) {
		return normalized
	}
	return "info"
}

// IsValidLevel reports whether level names a known log level.
func IsValidLevel(level string) bool {
	switch level {
	case "trace", "debug", "info", "warn", "error":
		return true
	}
	return false
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// SetLevel changes the minimum level. Invalid levels are ignored.
func (cl *ConsoleLogger) SetLevel(level string) {
	normalized := strings.ToLower(strings.TrimSpace(level))
	if !IsValidLevel(normalized) {
		return
	}
	cl.mutex.Lock()
	cl.logLevel = normalized
	cl.mutex.Unlock()
}

// Level returns the current minimum level.
func (cl *ConsoleLogger) Level() string {
	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	return cl.logLevel
}

// LogTrace logs a trace-level message (most verbose).
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("trace", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("debug", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("info", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("warn", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("error", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	if logLevelToInt(level) < logLevelToInt(cl.logLevel) {
		return
	}

	label := levelLabel(level)
	if cl.colorOutput {
		label = colorFor(level).Sprint(label)
	}

	var formatted string
	if logLevelToInt(level) <= levelDebug {
		formatted = fmt.Sprintf("%s: %s: [%s] %s\n", prefix, label, cl.runID, message)
	} else {
		formatted = fmt.Sprintf("%s: %s: %s\n", prefix, label, message)
	}

	cl.writer.Write([]byte(formatted))
}

// levelLabel returns the word printed for a level.
func levelLabel(level string) string {
	if level == "warn" {
		return "warning"
	}
	return level
}

// colorFor returns a color that is forced on; the caller already decided
// whether the destination supports it.
func colorFor(level string) *color.Color {
	var c *color.Color
	switch level {
	case "trace":
		c = color.New(color.FgHiBlack)
	case "debug":
		c = color.New(color.FgCyan)
	case "info":
		c = color.New(color.FgBlue)
	case "warn":
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgRed, color.Bold)
	}
	c.EnableColor()
	return c
}

// NoOpLogger discards all log messages. Useful in tests.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// LogTrace is a no-op implementation.
func (n *NoOpLogger) LogTrace(message string) {}

// LogDebug is a no-op implementation.
func (n *NoOpLogger) LogDebug(message string) {}

// LogInfo is a no-op implementation.
func (n *NoOpLogger) LogInfo(message string) {}

// LogWarn is a no-op implementation.
func (n *NoOpLogger) LogWarn(message string) {}

// LogError is a no-op implementation.
func (n *NoOpLogger) LogError(message string) {}
