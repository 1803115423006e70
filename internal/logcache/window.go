package logcache

import (
	"math"

	"termcanvas/internal/segment"
)

// Window 是 Cache 的一个连续只读视图，Start 为首行在缓存中的下标。
type Window struct {
	Start  int
	Groups []segment.LineGroup
}

// Len 返回窗口内的行数。
func (w Window) Len() int {
	return len(w.Groups)
}

// Contains 报告缓存下标 i 是否落在窗口内。
func (w Window) Contains(i int) bool {
	return i >= w.Start && i < w.Start+len(w.Groups)
}

// FromTail 返回最后 limit 个行组（贴底视图）。
func FromTail(c *Cache, limit int) Window {
	n := c.Len()
	if limit < 0 {
		limit = 0
	}
	start := n - limit
	if start < 0 {
		start = 0
	}
	return Window{Start: start, Groups: c.Slice(start, n)}
}

// StartIndex 将滚动偏移换算为首行下标：ceil(top / rowHeight)，负值截为 0。
func StartIndex(top, rowHeight float64) int {
	if rowHeight <= 0 || top <= 0 || math.IsNaN(top) {
		return 0
	}
	idx := math.Ceil(top / rowHeight)
	if idx > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(idx)
}

// FromScrollTop 按滚动偏移（宿主坐标）取窗口 [start, start+limit)。
func FromScrollTop(c *Cache, top, rowHeight float64, limit int) Window {
	if limit < 0 {
		limit = 0
	}
	start := StartIndex(top, rowHeight)
	groups := c.Slice(start, start+limit)
	if len(groups) == 0 {
		start = clamp(start, 0, c.Len())
	}
	return Window{Start: start, Groups: groups}
}
