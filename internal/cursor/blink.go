// Package cursor implements the caret blink state machine and the rules that
// decide whether the caret may be drawn at all.
package cursor

import (
	"context"
	"sync"
	"time"

	"termcanvas/internal/logger"
)

var log = logger.Named("cursor")

// DefaultInterval 是默认闪烁周期。
const DefaultInterval = 500 * time.Millisecond

// State 为光标闪烁状态。
type State int

const (
	Off State = iota
	On
)

func (s State) String() string {
	if s == On {
		return "on"
	}
	return "off"
}

// Ticker 抽象 time.Ticker，便于测试注入。
type Ticker interface {
	C() <-chan time.Time
	Reset(d time.Duration)
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time   { return t.t.C }
func (t timeTicker) Reset(d time.Duration) { t.t.Reset(d) }
func (t timeTicker) Stop()                 { t.t.Stop() }

// NewTimeTicker 返回基于 time.Ticker 的实现。
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Options 控制 Blinker 的构造。
type Options struct {
	Interval time.Duration
	// OnToggle 在每次定时切换后调用（在 blink goroutine 中执行）。
	OnToggle func(State)
	// NewTicker 用于测试替换定时器。
	NewTicker func(time.Duration) Ticker
}

// Blinker 周期性地在 On/Off 间切换，初始为 Off，直到 Stop 为止。
type Blinker struct {
	mu       sync.Mutex
	state    State
	interval time.Duration
	onToggle func(State)
	newTick  func(time.Duration) Ticker

	cancel context.CancelFunc
	reset  chan struct{}
	done   chan struct{}
}

// NewBlinker 创建处于 Off 状态、尚未启动的 Blinker。
func NewBlinker(opts Options) *Blinker {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	newTick := opts.NewTicker
	if newTick == nil {
		newTick = NewTimeTicker
	}
	return &Blinker{
		interval: interval,
		onToggle: opts.OnToggle,
		newTick:  newTick,
		reset:    make(chan struct{}, 1),
	}
}

// Start 启动周期任务；重复调用无效果。ctx 取消等同于 Stop。
func (b *Blinker) Start(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.done = make(chan struct{})
	ticker := b.newTick(b.interval)
	go b.run(runCtx, ticker, b.done)
}

func (b *Blinker) run(ctx context.Context, ticker Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.reset:
			ticker.Reset(b.interval)
		case <-ticker.C():
			if ctx.Err() != nil {
				return
			}
			state := b.Toggle()
			if b.onToggle != nil {
				b.onToggle(state)
			}
		}
	}
}

// Stop 取消周期任务。可重复调用，也可在 OnToggle 回调内调用；不会等待回调结束。
func (b *Blinker) Stop() {
	b.mu.Lock()
	cancel := b.cancel
	b.mu.Unlock()
	if cancel != nil {
		cancel()
		log.Debug("blink task cancelled")
	}
}

// Done 返回在周期任务退出后关闭的 channel；未启动时返回 nil。
func (b *Blinker) Done() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.done
}

// State 返回当前状态。
func (b *Blinker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Toggle 切换状态并返回新状态。
func (b *Blinker) Toggle() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == On {
		b.state = Off
	} else {
		b.state = On
	}
	return b.state
}

// Reset 将状态置为 On 并重新开始计时，使光标在输入变化后立即可见。
func (b *Blinker) Reset() {
	b.mu.Lock()
	b.state = On
	b.mu.Unlock()
	select {
	case b.reset <- struct{}{}:
	default:
	}
}
