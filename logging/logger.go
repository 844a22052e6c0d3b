// Package logging 提供带级别、类别与结构化字段的日志接口。
package logging

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// LogLevel 日志级别
type LogLevel int

const (
	LogLevelTrace LogLevel = iota
	LogLevelDebug
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelNone
)

// String 返回日志级别的字符串表示
func (l LogLevel) String() string {
	switch l {
	case LogLevelTrace:
		return "TRACE"
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelNone:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel 解析级别名称（不区分大小写），如 "debug"、"WARN"
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LogLevelTrace, nil
	case "DEBUG":
		return LogLevelDebug, nil
	case "INFO", "":
		return LogLevelInfo, nil
	case "WARN", "WARNING":
		return LogLevelWarn, nil
	case "ERROR":
		return LogLevelError, nil
	case "NONE", "OFF":
		return LogLevelNone, nil
	default:
		return LogLevelInfo, fmt.Errorf("logging: unknown level %q", s)
	}
}

// Field 日志字段
type Field struct {
	Key   string
	Value any
}

// Logger 日志接口
type Logger interface {
	Trace(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Log(level LogLevel, msg string, fields ...Field)
	WithFields(fields ...Field) Logger
	WithCategory(category string) Logger
}

// LoggerFactory 日志工厂接口
type LoggerFactory interface {
	CreateLogger(category string) Logger
	SetMinimumLevel(level LogLevel)
}

// LoggerProvider 日志提供者：把一条日志写到某个目的地
type LoggerProvider interface {
	Write(entry *LogEntry)
}

// loggerFactory 把同一条日志分发给所有提供者
type loggerFactory struct {
	providers []LoggerProvider
	mu        sync.RWMutex
	level     LogLevel
}

func (f *loggerFactory) CreateLogger(category string) Logger {
	return &logger{factory: f, category: category}
}

func (f *loggerFactory) SetMinimumLevel(level LogLevel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.level = level
}

func (f *loggerFactory) minimumLevel() LogLevel {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.level
}

func (f *loggerFactory) dispatch(entry *LogEntry) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, p := range f.providers {
		p.Write(entry)
	}
}

// logger 是工厂创建的日志记录器，级别在每次写入时读取，工厂调整级别后立即生效
type logger struct {
	factory  *loggerFactory
	category string
	fields   []Field
}

func (l *logger) Trace(msg string, fields ...Field) { l.Log(LogLevelTrace, msg, fields...) }
func (l *logger) Debug(msg string, fields ...Field) { l.Log(LogLevelDebug, msg, fields...) }
func (l *logger) Info(msg string, fields ...Field) { l.Log(LogLevelInfo, msg, fields...) }
func (l *logger) Warn(msg string, fields ...Field) { l.Log(LogLevelWarn, msg, fields...) }
func (l *logger) Error(msg string, fields ...Field) { l.Log(LogLevelError, msg, fields...) }

func (l *logger) Log(level LogLevel, msg string, fields ...Field) {
	if level < l.factory.minimumLevel() || level >= LogLevelNone {
		return
	}

	all := make([]Field, 0, len(l.fields)+len(fields))
	all = append(all, l.fields...)
	all = append(all, fields...)

	l.factory.dispatch(&LogEntry{
		Time:     time.Now(),
		Level:    level,
		Category: l.category,
		Message:  msg,
		Fields:   all,
	})
}

func (l *logger) WithFields(fields ...Field) Logger {
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &logger{factory: l.factory, category: l.category, fields: merged}
}

func (l *logger) WithCategory(category string) Logger {
	return &logger{factory: l.factory, category: category, fields: l.fields}
}

// nopLogger 丢弃所有日志
type nopLogger struct{}

// Nop 返回丢弃所有日志的 Logger
func Nop() Logger { return nopLogger{} }

func (nopLogger) Trace(string, ...Field) {}
func (nopLogger) Debug(string, ...Field) {}
func (nopLogger) Info(string, ...Field) {}
func (nopLogger) Warn(string, ...Field) {}
func (nopLogger) Error(string, ...Field) {}
func (nopLogger) Log(LogLevel, string, ...Field) {}
func (n nopLogger) WithFields(...Field) Logger { return n }
func (n nopLogger) WithCategory(string) Logger { return n }
