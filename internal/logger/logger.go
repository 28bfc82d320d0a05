// Package logger provides structured JSON logging and in-process
// metrics for import runs.
//
// Logs carry a level, a timestamp, and arbitrary structured fields.
// Metrics are process-local counters and timings, snapshotted at the
// end of a run for the import report.
//
//	logger.Info("source fetched", logger.Fields{
//	    "source": "club-feed",
//	    "events": 12,
//	})
//
//	logger.IncrCounter("import.accepted")
//	logger.RecordTiming("import.fetch.club-feed", duration)
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents log severity.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// Fields represents structured log fields.
type Fields map[string]interface{}

// LogEntry is one emitted log line.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Fields    Fields `json:"fields,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Logger writes JSON log entries at or above a minimum level.
type Logger struct {
	mu       sync.Mutex
	minLevel Level
	output   io.Writer
}

var defaultLogger = New(LevelInfo, os.Stderr)

// New creates a logger. Messages below level are discarded.
func New(level Level, output io.Writer) *Logger {
	return &Logger{minLevel: level, output: output}
}

// SetDefault replaces the package-level logger used by the
// convenience functions.
func SetDefault(l *Logger) {
	defaultLogger = l
}

func (l *Logger) shouldLog(level Level) bool {
	return levelRank[level] >= levelRank[l.minLevel]
}

func (l *Logger) log(level Level, message string, fields Fields, err error) {
	if !l.shouldLog(level) {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     string(level),
		Message:   message,
		Fields:    fields,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	data, marshalErr := json.Marshal(entry)
	l.mu.Lock()
	defer l.mu.Unlock()
	if marshalErr != nil {
		fmt.Fprintf(l.output, "[%s] %s: %s (marshal error: %v)\n",
			entry.Timestamp, entry.Level, entry.Message, marshalErr)
		return
	}
	l.output.Write(append(data, '\n'))
}

// Debug logs at DEBUG level.
func (l *Logger) Debug(message string, fields Fields) { l.log(LevelDebug, message, fields, nil) }

// Info logs at INFO level.
func (l *Logger) Info(message string, fields Fields) { l.log(LevelInfo, message, fields, nil) }

// Warn logs at WARN level.
func (l *Logger) Warn(message string, fields Fields) { l.log(LevelWarn, message, fields, nil) }

// Error logs at ERROR level with an attached error.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

// Debug logs at DEBUG level on the default logger.
func Debug(message string, fields Fields) { defaultLogger.Debug(message, fields) }

// Info logs at INFO level on the default logger.
func Info(message string, fields Fields) { defaultLogger.Info(message, fields) }

// Warn logs at WARN level on the default logger.
func Warn(message string, fields Fields) { defaultLogger.Warn(message, fields) }

// Error logs at ERROR level on the default logger.
func Error(message string, fields Fields, err error) { defaultLogger.Error(message, fields, err) }
