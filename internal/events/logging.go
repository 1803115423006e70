package events

import (
	"encoding/json"
	"io"

	"termcanvas/internal/logger"
)

// DefaultEventLogPath 是通知日志的默认路径。
const DefaultEventLogPath = "logs/events.log"

var log = logger.Named("events")

// Logged 在转发前把每个通知写入日志。
type Logged struct {
	next  Notifier
	entry *logger.LogEntry
}

// WithLogging 包装 next；entry 为 nil 时使用 events 组件日志。
func WithLogging(next Notifier, entry *logger.LogEntry) *Logged {
	if entry == nil {
		entry = log
	}
	return &Logged{next: next, entry: entry}
}

func (l *Logged) Notify(evt Event) {
	l.entry.WithField("type", evt.Type).
		WithField("widget", evt.WidgetID).
		WithField("payload", encodePayload(evt.Payload)).
		Debug("notify")
	if l.next != nil {
		l.next.Notify(evt)
	}
}

// NewFileLogger 为通知创建独立的日志文件；失败时回退到全局日志。
func NewFileLogger(path string) (*logger.LogEntry, io.Closer) {
	if path == "" {
		return log, nil
	}
	entry, closer, _, err := logger.SetupComponentFile("events", path)
	if err != nil {
		log.Warnf("failed to set up events log file (%s): %v", path, err)
		return log, nil
	}
	entry.Logger.SetLevel(logger.Root().GetLevel())
	return entry, closer
}

func encodePayload(payload any) string {
	if payload == nil {
		return ""
	}
	if s, ok := payload.(string); ok {
		return s
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(data)
}
