// Package utils provides the leveled logger and path-safety helpers shared
// across the thumbnail cache.
package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// LogLevel represents the logging level
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a string log level
func ParseLogLevel(level string) (LogLevel, error) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("invalid log level: %s", level)
	}
}

// Logger represents a configurable leveled logger. A nil Logger is valid
// and discards everything, so components can treat logging as optional.
type Logger struct {
	level     LogLevel
	output    io.Writer
	component string
	now       func() time.Time
}

// NewLogger creates a new logger with the specified level and output
func NewLogger(level LogLevel, output io.Writer) *Logger {
	return &Logger{
		level:  level,
		output: output,
		now:    time.Now,
	}
}

// WithComponent returns a copy of the logger that prefixes every message
// with the given component name.
func (l *Logger) WithComponent(component string) *Logger {
	if l == nil {
		return nil
	}
	clone := *l
	clone.component = component
	return &clone
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l != nil && l.level <= DEBUG {
		l.log("DEBUG", format, args...)
	}
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	if l != nil && l.level <= INFO {
		l.log("INFO", format, args...)
	}
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	if l != nil && l.level <= WARN {
		l.log("WARN", format, args...)
	}
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	if l != nil && l.level <= ERROR {
		l.log("ERROR", format, args...)
	}
}

// log writes a log message
func (l *Logger) log(level, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	stamp := l.now().Format(time.RFC3339)
	if l.component != "" {
		fmt.Fprintf(l.output, "%s [%s] %s: %s\n", stamp, level, l.component, message)
		return
	}
	fmt.Fprintf(l.output, "%s [%s] %s\n", stamp, level, message)
}

// SetupLogger builds a logger from a level string and an optional log file
// path. An empty path logs to stdout.
func SetupLogger(levelStr, logFile string) (*Logger, error) {
	level, err := ParseLogLevel(levelStr)
	if err != nil {
		return nil, err
	}

	var output io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
	}

	return NewLogger(level, output), nil
}
