package events

import "sync"

// Bus 是非阻塞的广播：慢订阅者会丢事件，发布方永远不会被阻塞。
type Bus struct {
	mu      sync.Mutex
	subs    []chan Event
	closed  bool
	dropped int
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe 返回缓冲为 buffer 的订阅通道，Close 时关闭。
func (b *Bus) Subscribe(buffer int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}
	if buffer <= 0 {
		buffer = 32
	}
	ch := make(chan Event, buffer)
	b.subs = append(b.subs, ch)
	return ch
}

// Notify implements Notifier.
func (b *Bus) Notify(evt Event) {
	b.Publish(evt)
}

func (b *Bus) Publish(evt Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
			b.dropped++
		}
	}
}

// Dropped 返回因订阅者缓冲已满而丢弃的事件数。
func (b *Bus) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
	b.closed = true
}
