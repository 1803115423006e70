// Package logcache stores the full history of line groups and derives the
// bounded render window drawn on each frame.
package logcache

import "termcanvas/internal/segment"

// span 指向 arena 中一个行组的 [start, end) 区间。
type span struct {
	start int
	end   int
	kind  segment.Kind
}

// Cache 是只追加的行组历史（支持移除最后一个）。
// 所有 Segment 存放在同一个 arena 中，index 记录每个行组的区间。
type Cache struct {
	arena []segment.Segment
	index []span
}

// New 创建空缓存。
func New() *Cache {
	return &Cache{}
}

// Len 返回行组数量。
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.index)
}

// Append 按顺序追加行组。
func (c *Cache) Append(groups ...segment.LineGroup) {
	for _, g := range groups {
		start := len(c.arena)
		c.arena = append(c.arena, g.Segments...)
		c.index = append(c.index, span{start: start, end: len(c.arena), kind: g.Kind})
	}
}

// RemoveLast 移除最后一个行组；缓存为空时返回 false。
func (c *Cache) RemoveLast() bool {
	if c.Len() == 0 {
		return false
	}
	last := c.index[len(c.index)-1]
	clear(c.arena[last.start:last.end])
	c.arena = c.arena[:last.start]
	c.index = c.index[:len(c.index)-1]
	return true
}

// ReplaceLast 先移除最后一个行组，再追加新的行组。
func (c *Cache) ReplaceLast(groups ...segment.LineGroup) {
	c.RemoveLast()
	c.Append(groups...)
}

// Clear 清空缓存，保留底层容量。
func (c *Cache) Clear() {
	if c == nil {
		return
	}
	clear(c.arena)
	c.arena = c.arena[:0]
	c.index = c.index[:0]
}

// At 返回第 i 个行组。返回的 Segments 与 arena 共享存储，调用方不得修改。
func (c *Cache) At(i int) segment.LineGroup {
	sp := c.index[i]
	return segment.LineGroup{
		Kind:     sp.kind,
		Segments: c.arena[sp.start:sp.end:sp.end],
	}
}

// Last 返回最后一个行组。
func (c *Cache) Last() (segment.LineGroup, bool) {
	if c.Len() == 0 {
		return segment.LineGroup{}, false
	}
	return c.At(c.Len() - 1), true
}

// Slice 返回 [start, end) 范围内的行组，越界部分自然截断为空。
func (c *Cache) Slice(start, end int) []segment.LineGroup {
	n := c.Len()
	start = clamp(start, 0, n)
	end = clamp(end, start, n)
	if start == end {
		return nil
	}
	out := make([]segment.LineGroup, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, c.At(i))
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
