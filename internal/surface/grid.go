package surface

import (
	"image/color"
	"math"
	"strings"
	"sync"

	"termcanvas/internal/layout"
	"termcanvas/internal/palette"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Cell 是网格中的一个字符单元；宽字符的后继单元 Rune 为 0。
type Cell struct {
	Rune rune
	Fg   color.Color
	Bg   color.Color
}

// Grid 是以字符单元为“像素”的表面：1 个单元 = 1 个坐标单位，
// 文本宽度按 go-runewidth 计算。用于在终端中承载控件。
// 绘制与读取可以来自不同 goroutine。
type Grid struct {
	mu    sync.RWMutex
	cols  int
	rows  int
	cells []Cell
}

// NewGrid 创建 cols x rows 的空白网格。
func NewGrid(cols, rows int) *Grid {
	cols = max(cols, 0)
	rows = max(rows, 0)
	g := &Grid{cols: cols, rows: rows, cells: make([]Cell, cols*rows)}
	for i := range g.cells {
		g.cells[i].Rune = ' '
	}
	return g
}

// Size 返回列数与行数。
func (g *Grid) Size() (int, int) {
	return g.cols, g.rows
}

// At 返回 (x, y) 处的单元；越界返回零值。
func (g *Grid) At(x, y int) Cell {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if x < 0 || y < 0 || x >= g.cols || y >= g.rows {
		return Cell{}
	}
	return g.cells[y*g.cols+x]
}

func (g *Grid) cell(x, y int) *Cell {
	if x < 0 || y < 0 || x >= g.cols || y >= g.rows {
		return nil
	}
	return &g.cells[y*g.cols+x]
}

// FillRect 将区域内单元背景设为 c，并清空字符。
func (g *Grid) FillRect(r layout.Rect, c color.Color) {
	g.mu.Lock()
	defer g.mu.Unlock()
	x0, y0 := int(math.Round(r.X)), int(math.Round(r.Y))
	x1, y1 := int(math.Round(r.Right())), int(math.Round(r.Bottom()))
	if x1 == x0 && r.W > 0 {
		x1 = x0 + 1
	}
	if y1 == y0 && r.H > 0 {
		y1 = y0 + 1
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if cell := g.cell(x, y); cell != nil {
				*cell = Cell{Rune: ' ', Bg: c}
			}
		}
	}
}

// FillText 从 (x, y) 开始写入文本，保留已有背景。
func (g *Grid) FillText(text string, x, y float64, c color.Color) {
	g.mu.Lock()
	defer g.mu.Unlock()
	col, row := int(math.Round(x)), int(math.Round(y))
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if cell := g.cell(col, row); cell != nil {
			cell.Rune = r
			cell.Fg = c
			if w == 2 {
				if next := g.cell(col+1, row); next != nil {
					next.Rune = 0
					next.Bg = cell.Bg
				}
			}
		}
		col += w
	}
}

// FillCircle 在圆心所在单元画一个实心圆点。
func (g *Grid) FillCircle(cx, cy, _ float64, c color.Color) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if cell := g.cell(int(math.Floor(cx)), int(math.Floor(cy))); cell != nil {
		cell.Rune = '●'
		cell.Fg = c
	}
}

// MeasureText 返回文本占用的单元数。
func (g *Grid) MeasureText(text string) float64 {
	return float64(runewidth.StringWidth(text))
}

// Plain 返回不带样式的逐行文本（去除行尾空白），便于测试与复制。
func (g *Grid) Plain() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, g.rows)
	for y := 0; y < g.rows; y++ {
		var b strings.Builder
		for x := 0; x < g.cols; x++ {
			if r := g.cells[y*g.cols+x].Rune; r != 0 {
				b.WriteRune(r)
			}
		}
		out = append(out, strings.TrimRight(b.String(), " "))
	}
	return out
}

// Lines 使用 lipgloss 将每行渲染为带样式的字符串，相邻同样式单元合并输出。
func (g *Grid) Lines() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, g.rows)
	for y := 0; y < g.rows; y++ {
		var (
			line  strings.Builder
			run   strings.Builder
			style lipgloss.Style
			key   string
		)
		flush := func() {
			if run.Len() > 0 {
				line.WriteString(style.Render(run.String()))
				run.Reset()
			}
		}
		for x := 0; x < g.cols; x++ {
			cell := g.cells[y*g.cols+x]
			if cell.Rune == 0 {
				continue
			}
			k := palette.Hex(cell.Fg) + "/" + palette.Hex(cell.Bg)
			if k != key {
				flush()
				key = k
				style = cellStyle(cell)
			}
			run.WriteRune(cell.Rune)
		}
		flush()
		out = append(out, line.String())
	}
	return out
}

func cellStyle(c Cell) lipgloss.Style {
	s := lipgloss.NewStyle()
	if c.Fg != nil {
		s = s.Foreground(lipgloss.Color(palette.Hex(c.Fg)))
	}
	if c.Bg != nil {
		s = s.Background(lipgloss.Color(palette.Hex(c.Bg)))
	}
	return s
}
