// Package layout derives pixel geometry (content box, row pitch, visible row
// count) from host-unit configuration.
package layout

import "math"

// Padding 描述内容区的固定内边距（宿主坐标单位）。
type Padding struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Config 为宿主坐标单位下的布局参数；Scale 将其换算为设备像素。
type Config struct {
	Width        float64
	Height       float64
	Scale        float64
	FontSize     float64
	LineGap      float64
	Padding      Padding
	HeaderHeight float64
	FooterHeight float64
}

// Rect 是设备像素下的矩形。
type Rect struct {
	X, Y, W, H float64
}

// Right 返回矩形右边界。
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom 返回矩形下边界。
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Metrics 为一次构造时计算出的不可变几何信息，全部以设备像素表示。
type Metrics struct {
	Scale      float64
	LineHeight float64
	LineGap    float64
	Surface    Rect
	Header     Rect
	Content    Rect
	Footer     Rect
	// MaxVisibleLines = floor(Content.H / RowHeight())。
	MaxVisibleLines int
}

// Compute 根据配置计算 Metrics。非正的缩放与字号回退为 1。
func Compute(cfg Config) Metrics {
	scale := cfg.Scale
	if scale <= 0 {
		scale = 1
	}
	fontSize := cfg.FontSize
	if fontSize <= 0 {
		fontSize = 1
	}
	px := func(v float64) float64 { return math.Max(0, v) * scale }

	surface := Rect{W: px(cfg.Width), H: px(cfg.Height)}
	header := Rect{W: surface.W, H: math.Min(px(cfg.HeaderHeight), surface.H)}
	footerH := math.Min(px(cfg.FooterHeight), surface.H-header.H)
	footer := Rect{Y: surface.H - footerH, W: surface.W, H: footerH}

	content := Rect{
		X: px(cfg.Padding.Left),
		Y: header.Bottom() + px(cfg.Padding.Top),
	}
	content.W = math.Max(0, surface.W-content.X-px(cfg.Padding.Right))
	content.H = math.Max(0, footer.Y-px(cfg.Padding.Bottom)-content.Y)

	m := Metrics{
		Scale:      scale,
		LineHeight: fontSize * scale,
		LineGap:    px(cfg.LineGap),
		Surface:    surface,
		Header:     header,
		Content:    content,
		Footer:     footer,
	}
	m.MaxVisibleLines = int(math.Floor(content.H / m.RowHeight()))
	return m
}

// RowHeight 返回一行占用的像素高度（行高 + 行距）。
func (m Metrics) RowHeight() float64 {
	return m.LineHeight + m.LineGap
}

// RowTop 返回窗口内第 i 行的顶部像素坐标。
func (m Metrics) RowTop(i int) float64 {
	return m.Content.Y + float64(i)*m.RowHeight()
}

// HostRowHeight 返回宿主坐标下的行距，用于滚动偏移换算。
func (m Metrics) HostRowHeight() float64 {
	return m.ToHost(m.RowHeight())
}

// ToHost 将像素换算为宿主坐标。
func (m Metrics) ToHost(px float64) float64 {
	if m.Scale <= 0 {
		return px
	}
	return px / m.Scale
}
