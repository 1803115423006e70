// Package console is the widget facade: it owns the log cache, derives the
// render window, drives the composition pipeline and the caret blinker, and
// reports size/scroll/cursor changes to the host.
package console

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"termcanvas/internal/compose"
	"termcanvas/internal/cursor"
	"termcanvas/internal/events"
	"termcanvas/internal/layout"
	"termcanvas/internal/logcache"
	"termcanvas/internal/logger"
	"termcanvas/internal/segment"

	"github.com/google/uuid"
)

var log = logger.Named("console")

// Options 为构造 Console 所需的宿主协作方。
type Options struct {
	Layout layout.Config
	Theme  compose.Theme
	Title  string
	// Prompt 为输入行前缀，视为可信标记。
	Prompt  string
	Surface compose.Surface
	// Notifier 接收 size/scroll/cursor/paint 通知；为 nil 时丢弃。
	Notifier events.Notifier
	// Focused 查询宿主焦点；为 nil 时视为始终有焦点。
	Focused func() bool

	BlinkInterval time.Duration
	// DisableBlink 不启动闪烁任务，光标保持常亮；用于离屏渲染。
	DisableBlink bool
	// NewTicker 用于测试注入闪烁定时器。
	NewTicker func(time.Duration) cursor.Ticker
	// Context 控制闪烁任务的生命周期；默认 context.Background()。
	Context context.Context
	// ID 为空时自动生成。
	ID string
}

// Console 串行化所有操作；通知在释放锁之后才派发，
// 因此 Notifier 可以在 Notify 中回调 Append/Clear/ScrollTo。
type Console struct {
	mu sync.Mutex

	id       string
	metrics  layout.Metrics
	engine   *segment.Engine
	cache    *logcache.Cache
	pipeline *compose.Pipeline
	surface  compose.Surface
	notifier events.Notifier
	focused  func() bool
	blinker  *cursor.Blinker
	log      *logger.LogEntry

	following bool
	scrollTop float64
	window    logcache.Window
	caret     *cursor.Position

	lastScroll events.Scroll
	scrollSent bool
	lastCursor events.Cursor

	closed      bool
	pending     []events.Event
	dispatching bool
}

// New 计算布局，发出一次 size 通知，绘制初始帧并启动光标闪烁。
func New(opts Options) (*Console, error) {
	if opts.Surface == nil {
		return nil, errors.New("console: surface is required")
	}
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	metrics := layout.Compute(opts.Layout)
	focused := opts.Focused
	if focused == nil {
		focused = func() bool { return true }
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = events.NotifierFunc(nil)
	}

	c := &Console{
		id:      id,
		metrics: metrics,
		engine: segment.New(opts.Surface, segment.Layout{
			Left:   metrics.Content.X,
			Width:  metrics.Content.W,
			Prompt: opts.Prompt,
		}),
		cache:     logcache.New(),
		pipeline:  compose.NewPipeline(metrics, opts.Theme, opts.Title),
		surface:   opts.Surface,
		notifier:  notifier,
		focused:   focused,
		log:       log.WithField(logger.FieldWidget, id),
		following: true,
	}
	c.blinker = cursor.NewBlinker(cursor.Options{
		Interval:  opts.BlinkInterval,
		OnToggle:  c.onBlink,
		NewTicker: opts.NewTicker,
	})

	c.mu.Lock()
	c.queue(events.TypeSize, events.Size{
		Header:  c.extent(metrics.Header),
		Content: c.extent(metrics.Content),
		Footer:  c.extent(metrics.Footer),
	})
	c.render()
	c.mu.Unlock()

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if !opts.DisableBlink {
		c.blinker.Start(ctx)
	}
	c.log.WithField("max_visible_lines", metrics.MaxVisibleLines).Debug("console created")
	c.flush()
	return c, nil
}

// ID 返回部件标识，出现在每条通知中。
func (c *Console) ID() string {
	return c.id
}

// Metrics 返回构造时计算出的布局。
func (c *Console) Metrics() layout.Metrics {
	return c.metrics
}

// MaxVisibleLines 返回窗口最多容纳的行数。
func (c *Console) MaxVisibleLines() int {
	return c.metrics.MaxVisibleLines
}

// Len 返回缓存中的行组数。
func (c *Console) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}

// Window 返回当前窗口的副本。
func (c *Console) Window() logcache.Window {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := logcache.Window{Start: c.window.Start, Groups: make([]segment.LineGroup, len(c.window.Groups))}
	for i, g := range c.window.Groups {
		out.Groups[i] = segment.LineGroup{Kind: g.Kind, Segments: append([]segment.Segment(nil), g.Segments...)}
	}
	return out
}

// Scroll 返回最近一次通知的滚动状态。
func (c *Console) Scroll() events.Scroll {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastScroll
}

// CursorEligible 报告上一次绘制时光标是否可见。
func (c *Console) CursorEligible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.caret != nil
}

// Append 分段并写入一条条目，随后切回贴底视图并重绘。
// 校验失败时返回 *ValidationError，缓存保持不变。
func (c *Console) Append(entry segment.Entry) error {
	if err := Validate(entry); err != nil {
		return err
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	groups := c.engine.Segment(entry)
	if entry.Replace {
		c.cache.ReplaceLast(groups...)
	} else {
		c.cache.Append(groups...)
	}
	c.following = true
	c.render()
	c.mu.Unlock()
	c.flush()
	return nil
}

// Clear 清空缓存与窗口，重绘为空白内容区。重复调用效果相同。
func (c *Console) Clear() {
	c.run(func() {
		c.cache.Clear()
		c.following = true
		c.scrollTop = 0
	})
}

// ScrollTo 按宿主坐标下的偏移重新推导窗口并重绘，不修改缓存。
func (c *Console) ScrollTo(top float64) {
	c.run(func() {
		if math.IsNaN(top) || top < 0 {
			top = 0
		}
		c.following = false
		c.scrollTop = top
	})
}

// ScrollToBottom 回到贴底视图。
func (c *Console) ScrollToBottom() {
	c.run(func() {
		c.following = true
		c.scrollTop = 0
	})
}

// Refresh 在焦点等外部状态变化后重绘。
func (c *Console) Refresh() {
	c.run(nil)
}

// Close 停止光标闪烁；之后的定时回调被丢弃，操作变为空操作。
func (c *Console) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()
	c.blinker.Stop()
	c.log.Debug("console closed")
}

func (c *Console) run(mutate func()) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if mutate != nil {
		mutate()
	}
	c.render()
	c.mu.Unlock()
	c.flush()
}

// render derives the window, recomposes the surface and queues the
// resulting notifications. Caller holds c.mu.
func (c *Console) render() {
	limit := c.metrics.MaxVisibleLines
	if c.following {
		c.window = logcache.FromTail(c.cache, limit)
	} else {
		c.window = logcache.FromScrollTop(c.cache, c.scrollTop, c.metrics.HostRowHeight(), limit)
	}

	if last, ok := c.cache.Last(); ok && last.Kind == segment.KindInput {
		c.blinker.Reset()
	}
	c.caret = nil
	if cursor.Eligible(c.focused(), c.cache, c.window) {
		pos := cursor.Locate(c.metrics, c.window)
		c.caret = &pos
	}

	c.pipeline.Draw(c.surface, compose.Frame{
		Window:   c.window.Groups,
		Cursor:   c.caret,
		CursorOn: c.blinker.State() == cursor.On,
	})
	c.queue(events.TypePaint, events.Paint{})
	c.queueScroll()
	c.queueCursor()
}

func (c *Console) queueScroll() {
	row := c.metrics.HostRowHeight()
	scroll := events.Scroll{ScrollHeight: float64(c.cache.Len()) * row}
	if c.following {
		scroll.ScrollTop = float64(c.window.Start) * row
	} else {
		scroll.ScrollTop = c.scrollTop
	}
	scroll.ScrollHeight = math.Max(0, scroll.ScrollHeight)
	scroll.ScrollTop = math.Max(0, scroll.ScrollTop)
	if c.scrollSent && scroll == c.lastScroll {
		return
	}
	c.lastScroll = scroll
	c.scrollSent = true
	c.queue(events.TypeScroll, scroll)
}

func (c *Console) queueCursor() {
	var evt events.Cursor
	if c.caret != nil {
		evt = events.Cursor{
			Left:    c.metrics.ToHost(c.caret.Left),
			Top:     c.metrics.ToHost(c.caret.Top),
			Visible: true,
		}
	}
	if evt == c.lastCursor {
		return
	}
	c.lastCursor = evt
	c.queue(events.TypeCursor, evt)
}

// onBlink repaints only the caret. The blinker's current state is used rather
// than the toggled one so that a Reset racing with a tick leaves the caret on.
func (c *Console) onBlink(cursor.State) {
	c.mu.Lock()
	if c.closed || c.caret == nil {
		c.mu.Unlock()
		return
	}
	c.pipeline.DrawCursor(c.surface, *c.caret, c.blinker.State() == cursor.On)
	c.queue(events.TypePaint, events.Paint{CursorOnly: true})
	c.mu.Unlock()
	c.flush()
}

func (c *Console) extent(r layout.Rect) events.Extent {
	return events.Extent{
		Left:   c.metrics.ToHost(r.X),
		Top:    c.metrics.ToHost(r.Y),
		Width:  c.metrics.ToHost(r.W),
		Height: c.metrics.ToHost(r.H),
	}
}

func (c *Console) queue(typ events.Type, payload any) {
	c.pending = append(c.pending, events.Event{
		Type:      typ,
		WidgetID:  c.id,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

// flush delivers queued notifications in the order they were queued. Only
// the outermost caller drains the queue: an operation invoked from inside
// Notify just appends its events, which are delivered after the ones already
// pending, so the last event of each type reflects the latest render.
func (c *Console) flush() {
	c.mu.Lock()
	if c.dispatching {
		c.mu.Unlock()
		return
	}
	c.dispatching = true
	for len(c.pending) > 0 {
		evt := c.pending[0]
		c.pending = c.pending[1:]
		c.mu.Unlock()
		c.notifier.Notify(evt)
		c.mu.Lock()
	}
	c.pending = nil
	c.dispatching = false
	c.mu.Unlock()
}
