package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// WriterProvider 把格式化后的日志写到 io.Writer
type WriterProvider struct {
	out       io.Writer
	formatter Formatter
	mu        sync.Mutex
}

// NewWriterProvider 创建写入 out 的提供者
func NewWriterProvider(out io.Writer, formatter Formatter) *WriterProvider {
	if out == nil {
		out = os.Stdout
	}
	if formatter == nil {
		formatter = NewTextFormatter()
	}
	return &WriterProvider{out: out, formatter: formatter}
}

// Write 格式化并写入一条日志
func (p *WriterProvider) Write(entry *LogEntry) {
	data, err := p.formatter.Format(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: format failed: %v\n", err)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.out.Write(data)
}

// Options 日志配置，可从配置文件的某个节绑定
//
//	logging:
//	  level: debug
//	  format: json
type Options struct {
	Level  string `json:"level"`
	Format string `json:"format"`
	Color  bool   `json:"color"`
}

// LoggingBuilder 日志构建器
type LoggingBuilder struct {
	providers    []LoggerProvider
	minimumLevel LogLevel
	mu           sync.Mutex
}

// NewLoggingBuilder 创建日志构建器，默认级别为 Info
func NewLoggingBuilder() *LoggingBuilder {
	return &LoggingBuilder{
		minimumLevel: LogLevelInfo,
	}
}

// SetMinimumLevel 设置最小日志级别
func (b *LoggingBuilder) SetMinimumLevel(level LogLevel) *LoggingBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.minimumLevel = level
	return b
}

// AddProvider 添加日志提供者
func (b *LoggingBuilder) AddProvider(provider LoggerProvider) *LoggingBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.providers = append(b.providers, provider)
	return b
}

// AddConsole 添加彩色文本控制台输出
func (b *LoggingBuilder) AddConsole() *LoggingBuilder {
	f := NewTextFormatter()
	f.ColorOutput = true
	return b.AddProvider(NewWriterProvider(os.Stdout, f))
}

// AddWriter 添加写入 w 的输出
func (b *LoggingBuilder) AddWriter(w io.Writer, formatter Formatter) *LoggingBuilder {
	return b.AddProvider(NewWriterProvider(w, formatter))
}

// Configure 按 Options 设置级别，并添加一个写入 w 的输出
func (b *LoggingBuilder) Configure(opts Options, w io.Writer) (*LoggingBuilder, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return b, err
	}
	b.SetMinimumLevel(level)

	var formatter Formatter
	switch strings.ToLower(opts.Format) {
	case "", "text":
		tf := NewTextFormatter()
		tf.ColorOutput = opts.Color
		formatter = tf
	case "json":
		formatter = NewJsonFormatter()
	default:
		return b, fmt.Errorf("logging: unknown format %q", opts.Format)
	}
	return b.AddWriter(w, formatter), nil
}

// Build 构建日志工厂
func (b *LoggingBuilder) Build() LoggerFactory {
	b.mu.Lock()
	defer b.mu.Unlock()

	providers := make([]LoggerProvider, len(b.providers))
	copy(providers, b.providers)
	return &loggerFactory{
		providers: providers,
		level:     b.minimumLevel,
	}
}

// NewLogger 创建一个默认的控制台 Logger
func NewLogger() Logger {
	return NewLoggingBuilder().AddConsole().Build().CreateLogger("default")
}
