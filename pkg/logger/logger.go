// Package logger is a small structured leveled logger used throughout
// this module. It keeps the Config/Logger/Field shape so call sites read
// the same whether they run on the RT path or not, but the RT-facing
// process callback never calls into it directly: it pushes a LogRecord
// onto a ring.Ring and a consumer goroutine drains the ring and calls
// into this package, keeping the log output syscalls off the audio thread
// (spec §6, §8 invariant 6). Message formatting is not kept off it: see
// LogRecord.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Level represents log level
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// Config holds logger configuration
type Config struct {
	Level  string
	Format string
	Output io.Writer
}

// Logger represents a structured logger
type Logger struct {
	level  Level
	format string
	logger *log.Logger
}

// Field represents a structured logging field
type Field struct {
	Key   string
	Value interface{}
}

// New creates a new logger
func New(cfg Config) *Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	level := parseLevel(cfg.Level)

	return &Logger{
		level:  level,
		format: cfg.Format,
		logger: log.New(output, "", log.LstdFlags),
	}
}

// WithComponent creates a child logger with a component prefix
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		level:  l.level,
		format: l.format,
		logger: log.New(l.logger.Writer(), fmt.Sprintf("[%s] ", component), log.LstdFlags),
	}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...Field) {
	if l.level <= DebugLevel {
		l.log("DEBUG", msg, fields...)
	}
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...Field) {
	if l.level <= InfoLevel {
		l.log("INFO", msg, fields...)
	}
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...Field) {
	if l.level <= WarnLevel {
		l.log("WARN", msg, fields...)
	}
}

// Error logs an error message
func (l *Logger) Error(msg string, fields ...Field) {
	if l.level <= ErrorLevel {
		l.log("ERROR", msg, fields...)
	}
}

func (l *Logger) log(level, msg string, fields ...Field) {
	if len(fields) == 0 {
		l.logger.Printf("[%s] %s", level, msg)
		return
	}

	var fieldStrs []string
	for _, f := range fields {
		fieldStrs = append(fieldStrs, fmt.Sprintf("%s=%v", f.Key, f.Value))
	}

	l.logger.Printf("[%s] %s %s", level, msg, strings.Join(fieldStrs, " "))
}

func parseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Field constructors

// String creates a string field
func String(key, val string) Field {
	return Field{Key: key, Value: val}
}

// Int creates an int field
func Int(key string, val int) Field {
	return Field{Key: key, Value: val}
}

// Int64 creates an int64 field
func Int64(key string, val int64) Field {
	return Field{Key: key, Value: val}
}

// Bool creates a bool field
func Bool(key string, val bool) Field {
	return Field{Key: key, Value: val}
}

// Error creates an error field
func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: "nil"}
	}
	return Field{Key: "error", Value: err.Error()}
}

// RecordLevel is the level of a queued LogRecord, mirroring Level without
// importing this package from the RT-safe ring producer side.
type RecordLevel int

const (
	RecordDebug RecordLevel = iota
	RecordInfo
	RecordWarn
	RecordError
)

// LogRecord is what the RT process callback pushes onto its ring.Ring
// instead of calling Logger directly (spec §6). Message is already
// formatted when the record is pushed: RingSink runs fmt.Sprintf on the
// caller's thread whenever arguments are given, so a push from the RT
// callback can allocate. The consumer side only adds the sample field and
// writes the line.
type LogRecord struct {
	Level   RecordLevel
	Message string
	Sample  int64
}

// Drain calls l with the level and message from every record, in order.
// It is meant to run on a single non-RT consumer goroutine pulled off a
// ring.Ring[LogRecord].
func Drain(l *Logger, records []LogRecord) {
	for _, r := range records {
		fields := []Field{Int64("sample", r.Sample)}
		switch r.Level {
		case RecordDebug:
			l.Debug(r.Message, fields...)
		case RecordInfo:
			l.Info(r.Message, fields...)
		case RecordWarn:
			l.Warn(r.Message, fields...)
		case RecordError:
			l.Error(r.Message, fields...)
		}
	}
}
