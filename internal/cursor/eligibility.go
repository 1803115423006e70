package cursor

import (
	"termcanvas/internal/layout"
	"termcanvas/internal/logcache"
	"termcanvas/internal/segment"
)

// Gap 是光标与最后一个字形之间的水平间距（宿主坐标）。
const Gap = 2

// Position 为光标矩形在设备像素下的左上角。
type Position struct {
	Left float64
	Top  float64
}

// Eligible 判断光标是否可以绘制：已获得焦点、最后一个缓存行组来自输入、
// 且该行组位于当前窗口内。
func Eligible(focused bool, cache *logcache.Cache, win logcache.Window) bool {
	if !focused {
		return false
	}
	last, ok := cache.Last()
	if !ok || last.Kind != segment.KindInput {
		return false
	}
	return win.Contains(cache.Len() - 1)
}

// Locate 计算光标位置：最后一段右侧加间距，纵向为窗口最后一行的顶部。
// 调用方需先确认 Eligible。
func Locate(m layout.Metrics, win logcache.Window) Position {
	row := win.Len() - 1
	if row < 0 {
		row = 0
	}
	left := m.Content.X
	if row < win.Len() {
		if seg, ok := win.Groups[row].Last(); ok {
			left = seg.Right()
		}
	}
	return Position{Left: left + Gap*m.Scale, Top: m.RowTop(row)}
}
