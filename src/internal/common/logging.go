package common

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
	LogError
)

var logLevelNames = map[LogLevel]string{
	LogDebug: "DEBUG",
	LogInfo:  "INFO",
	LogWarn:  "WARN",
	LogError: "ERROR",
}

// DebugEnvVar turns on debug logging for every logger created afterwards
const DebugEnvVar = "DCD_COMPLETE_DEBUG"

// SafeLogger provides STDIO-safe logging that only writes to stderr.
// stdout carries completion output and the serve protocol, so nothing else may touch it.
type SafeLogger struct {
	prefix string
	level  LogLevel
	out    io.Writer
}

// NewSafeLogger creates a new safe logger with the given prefix
func NewSafeLogger(prefix string) *SafeLogger {
	level := LogInfo
	if os.Getenv(DebugEnvVar) == trueStr {
		level = LogDebug
	}
	return &SafeLogger{
		prefix: prefix,
		level:  level,
	}
}

// SetLevel sets the minimum log level
func (l *SafeLogger) SetLevel(level LogLevel) {
	l.level = level
}

// SetOutput redirects the logger; nil restores stderr
func (l *SafeLogger) SetOutput(w io.Writer) {
	l.out = w
}

// ParseLogLevel maps a config value to a LogLevel
func ParseLogLevel(name string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LogDebug, nil
	case "", "info":
		return LogInfo, nil
	case "warn", "warning":
		return LogWarn, nil
	case "error":
		return LogError, nil
	default:
		return LogInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// SetGlobalLevel applies level to all package-level loggers
func SetGlobalLevel(level LogLevel) {
	for _, l := range []*SafeLogger{SourceLogger, BackendLogger, ServeLogger, CLILogger} {
		l.SetLevel(level)
	}
}

func (l *SafeLogger) log(level LogLevel, format string, args ...interface{}) {
	if level < l.level {
		return
	}

	timestamp := time.Now().Format("2006/01/02 15:04:05")
	levelName := logLevelNames[level]
	message := fmt.Sprintf(format, args...)

	out := l.out
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintf(out, "%s [%s] %s: %s\n", timestamp, levelName, l.prefix, message)
}

// Debug logs a debug message
func (l *SafeLogger) Debug(format string, args ...interface{}) {
	l.log(LogDebug, format, args...)
}

// Info logs an info message
func (l *SafeLogger) Info(format string, args ...interface{}) {
	l.log(LogInfo, format, args...)
}

// Warn logs a warning message
func (l *SafeLogger) Warn(format string, args ...interface{}) {
	l.log(LogWarn, format, args...)
}

// Error logs an error message
func (l *SafeLogger) Error(format string, args ...interface{}) {
	l.log(LogError, format, args...)
}

// Global logger instances for convenience
var (
	SourceLogger  = NewSafeLogger("Source")
	BackendLogger = NewSafeLogger("Backend")
	ServeLogger   = NewSafeLogger("Serve")
	CLILogger     = NewSafeLogger("CLI")
)

const maxLoggedErrorLen = 200

// SanitizeErrorForLogging flattens backend output into a single bounded log line
func SanitizeErrorForLogging(v interface{}) string {
	if v == nil {
		return ""
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case []byte:
		s = string(t)
	case error:
		s = t.Error()
	default:
		s = fmt.Sprintf("%v", t)
	}
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxLoggedErrorLen {
		s = s[:maxLoggedErrorLen] + "..."
	}
	return s
}
