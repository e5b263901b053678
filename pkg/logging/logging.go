// Package logging provides structured logging for custodia.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents a log level.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

var severity = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ParseLevel converts a config string into a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch Level(strings.ToLower(s)) {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return Level(strings.ToLower(s))
	}
	return LevelInfo
}

// Logger writes structured entries as JSONL or human-readable text.
type Logger struct {
	mu     sync.Mutex
	level  Level
	format string // "json" or "text"
	output io.Writer
	fields map[string]any
}

type entry struct {
	Timestamp string         `json:"timestamp"`
	Level     Level          `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// New creates a logger writing to stderr.
func New(level Level, format string) *Logger {
	if format != "json" {
		format = "text"
	}
	return &Logger{
		level:  level,
		format: format,
		output: os.Stderr,
		fields: make(map[string]any),
	}
}

// WithFields returns a logger that includes fields on every entry.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{level: l.level, format: l.format, output: l.output, fields: merged}
}

// SetOutput redirects log output (used by tests).
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
}

func (l *Logger) Debug(msg string, fields ...map[string]any) { l.log(LevelDebug, msg, fields...) }
func (l *Logger) Info(msg string, fields ...map[string]any)  { l.log(LevelInfo, msg, fields...) }
func (l *Logger) Warn(msg string, fields ...map[string]any)  { l.log(LevelWarn, msg, fields...) }
func (l *Logger) Error(msg string, fields ...map[string]any) { l.log(LevelError, msg, fields...) }

// ErrorErr logs an error message with the error value attached.
func (l *Logger) ErrorErr(msg string, err error, fields ...map[string]any) {
	combined := map[string]any{"error": err.Error()}
	for _, f := range fields {
		for k, v := range f {
			combined[k] = v
		}
	}
	l.log(LevelError, msg, combined)
}

func (l *Logger) log(level Level, msg string, fields ...map[string]any) {
	if severity[level] < severity[l.level] {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e := entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Message:   msg,
	}
	merged := make(map[string]any, len(l.fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for _, f := range fields {
		for k, v := range f {
			merged[k] = v
		}
	}
	if len(merged) > 0 {
		e.Fields = merged
	}

	if l.format == "json" {
		data, err := json.Marshal(e)
		if err != nil {
			fmt.Fprintln(l.output, `{"level":"error","message":"failed to marshal log entry"}`)
			return
		}
		l.output.Write(append(data, '\n'))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %-5s %s", e.Timestamp, strings.ToUpper(string(level)), msg)
	if len(merged) > 0 {
		keys := make([]string, 0, len(merged))
		for k := range merged {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, merged[k])
		}
	}
	fmt.Fprintln(l.output, b.String())
}

var global = New(LevelInfo, "text")

// SetGlobal replaces the process-wide logger.
func SetGlobal(l *Logger) {
	global = l
}

// WithFields derives a logger from the global logger with fields attached.
func WithFields(fields map[string]any) *Logger { return global.WithFields(fields) }

// Debug logs to the global logger.
func Debug(msg string, fields ...map[string]any) { global.Debug(msg, fields...) }

// Info logs to the global logger.
func Info(msg string, fields ...map[string]any) { global.Info(msg, fields...) }

// Warn logs to the global logger.
func Warn(msg string, fields ...map[string]any) { global.Warn(msg, fields...) }

// Error logs to the global logger.
func Error(msg string, fields ...map[string]any) { global.Error(msg, fields...) }

// ErrorErr logs to the global logger with an error value.
func ErrorErr(msg string, err error, fields ...map[string]any) { global.ErrorErr(msg, err, fields...) }
