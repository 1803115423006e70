package events

import "time"

// Type 描述通知类型。
type Type string

const (
	// TypeSize 在构造时发出一次，携带 header/content/footer 区域。
	TypeSize Type = "size"
	// TypeScroll 在窗口推导结果变化时发出。
	TypeScroll Type = "scroll"
	// TypeCursor 在光标可见性或位置变化时发出。
	TypeCursor Type = "cursor"
	// TypePaint 请求宿主把表面内容呈现出来。
	TypePaint Type = "paint"
)

// Extent 是宿主坐标下的矩形区域。
type Extent struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Size 描述三个布局区域。
type Size struct {
	Header  Extent `json:"header"`
	Content Extent `json:"content"`
	Footer  Extent `json:"footer"`
}

// Scroll 描述可滚动总高度与当前偏移，均不小于 0。
type Scroll struct {
	ScrollHeight float64 `json:"scroll_height"`
	ScrollTop    float64 `json:"scroll_top"`
}

// Cursor 描述光标位置；Visible 为 false 时 Left/Top 无意义。
type Cursor struct {
	Left    float64 `json:"left"`
	Top     float64 `json:"top"`
	Visible bool    `json:"visible"`
}

// Paint 请求重绘呈现；CursorOnly 表示仅光标区域发生变化。
type Paint struct {
	CursorOnly bool `json:"cursor_only"`
}

// Event 是发给宿主的唯一消息格式，Payload 的具体结构由 Type 决定。
type Event struct {
	Type      Type
	WidgetID  string
	Timestamp time.Time
	Payload   any
}

// Notifier 接收通知。实现可以在 Notify 内回调发出通知的组件。
type Notifier interface {
	Notify(Event)
}

// NotifierFunc 让函数实现 Notifier（同步调用）。
type NotifierFunc func(Event)

func (f NotifierFunc) Notify(evt Event) {
	if f != nil {
		f(evt)
	}
}

// Multi 将通知依次转发给多个 Notifier。
type Multi []Notifier

func (m Multi) Notify(evt Event) {
	for _, n := range m {
		if n != nil {
			n.Notify(evt)
		}
	}
}
