// Package logger wraps logrus with the project's plain line format and
// per-component entries.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger/LogEntry 暴露底层类型，避免调用方直接依赖 logrus 包。
type Logger = logrus.Logger
type LogEntry = logrus.Entry

// DefaultLogPath 默认日志文件路径。
const DefaultLogPath = "logs/termcanvas.log"

// 以标签形式输出在消息之前的字段。
const (
	FieldComponent = "component"
	FieldWidget    = "widget"
)

var rootLogger = logrus.StandardLogger()

// Configure 设置全局日志格式与 caller 输出。
func Configure() {
	rootLogger.SetReportCaller(true)
	rootLogger.SetFormatter(PlainFormatter{})
}

// SetLevel 按名称设置全局日志级别（debug/info/warn/error）。空字符串保持不变。
func SetLevel(level string) error {
	level = strings.TrimSpace(level)
	if level == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	rootLogger.SetLevel(lvl)
	return nil
}

// SetupFile 将全局日志输出重定向到 logPath（空值为 DefaultLogPath），返回文件 closer 与实际路径。
func SetupFile(logPath string) (io.Closer, string, error) {
	f, resolved, err := openLogFile(logPath)
	if err != nil {
		return nil, "", err
	}
	rootLogger.SetOutput(f)
	return f, resolved, nil
}

// SetupComponentFile 创建写入独立文件的 logger，级别跟随全局 logger。
func SetupComponentFile(component, logPath string) (*LogEntry, io.Closer, string, error) {
	f, resolved, err := openLogFile(logPath)
	if err != nil {
		return nil, nil, "", err
	}
	l := logrus.New()
	l.SetReportCaller(true)
	l.SetFormatter(PlainFormatter{})
	l.SetLevel(rootLogger.GetLevel())
	l.SetOutput(f)
	return withComponent(logrus.NewEntry(l), component), f, resolved, nil
}

// Root 返回全局共享的 logger。
func Root() *Logger {
	return rootLogger
}

// Named 为指定组件创建入口。
func Named(component string) *LogEntry {
	return withComponent(logrus.NewEntry(rootLogger), component)
}

func withComponent(entry *LogEntry, component string) *LogEntry {
	if component == "" {
		return entry
	}
	return entry.WithField(FieldComponent, component)
}

// PlainFormatter 输出 `caller [timestamp] [LEVEL] [component] [widget=id] message k=v...`。
type PlainFormatter struct{}

var tags = []struct {
	key    string
	format string
}{
	{FieldComponent, "[%s]"},
	{FieldWidget, "[widget=%s]"},
}

// Format 实现 logrus Formatter。
func (PlainFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if entry == nil {
		return []byte{}, nil
	}
	var b strings.Builder
	if caller := formatCaller(entry); caller != "" {
		b.WriteString(caller)
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "[%s] [%s]", entry.Time.UTC().Format(time.RFC3339Nano), strings.ToUpper(entry.Level.String()))
	for _, tag := range tags {
		if val, ok := entry.Data[tag.key].(string); ok && val != "" {
			b.WriteByte(' ')
			fmt.Fprintf(&b, tag.format, val)
		}
	}
	b.WriteByte(' ')
	b.WriteString(entry.Message)
	if fields := formatFields(entry.Data); fields != "" {
		b.WriteByte(' ')
		b.WriteString(fields)
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func formatCaller(entry *logrus.Entry) string {
	if entry.HasCaller() && entry.Caller != nil {
		return fmt.Sprintf("%s:%d", shortenFilePath(entry.Caller.File), entry.Caller.Line)
	}
	if caller, ok := entry.Data["caller"].(string); ok {
		return caller
	}
	return ""
}

func isTag(key string) bool {
	if key == "caller" {
		return true
	}
	for _, tag := range tags {
		if tag.key == key {
			return true
		}
	}
	return false
}

func formatFields(fields logrus.Fields) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if !isTag(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, " ")
}

// shortenFilePath 保留 internal/ 或 cmd/ 起的相对路径，其余只保留文件名。
func shortenFilePath(file string) string {
	file = filepath.ToSlash(file)
	for _, marker := range []string{"/internal/", "/cmd/"} {
		if idx := strings.Index(file, marker); idx != -1 {
			return file[idx+1:]
		}
	}
	return filepath.Base(file)
}

func openLogFile(logPath string) (*os.File, string, error) {
	if logPath == "" {
		logPath = DefaultLogPath
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, "", err
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, "", err
	}
	return f, logPath, nil
}
