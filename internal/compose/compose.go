// Package compose draws a frame onto a drawing surface in a fixed order:
// background, chrome, content, then the cursor.
package compose

import (
	"image/color"

	"termcanvas/internal/cursor"
	"termcanvas/internal/layout"
	"termcanvas/internal/segment"
)

// Surface is the drawing handle shared by every draw call within a frame.
// Coordinates are device pixels; FillText's y is the top of the text row.
type Surface interface {
	FillRect(r layout.Rect, c color.Color)
	FillText(text string, x, y float64, c color.Color)
	FillCircle(cx, cy, radius float64, c color.Color)
	MeasureText(text string) float64
}

// Theme holds the colors used by the pipeline.
type Theme struct {
	Background color.Color
	Font       color.Color
	Cursor     color.Color
	Title      color.Color
	Indicators []color.Color
}

// Frame is everything one full recomposition needs.
type Frame struct {
	Window []segment.LineGroup
	// Cursor is nil when the cursor is not eligible.
	Cursor   *cursor.Position
	CursorOn bool
}

// Pipeline draws frames for fixed metrics.
type Pipeline struct {
	metrics layout.Metrics
	theme   Theme
	title   string
}

func NewPipeline(m layout.Metrics, theme Theme, title string) *Pipeline {
	return &Pipeline{metrics: m, theme: theme, title: title}
}

// Draw recomposes the whole surface.
func (p *Pipeline) Draw(s Surface, f Frame) {
	s.FillRect(p.metrics.Surface, p.theme.Background)
	p.drawChrome(s)
	for row, g := range f.Window {
		top := p.metrics.RowTop(row)
		for _, seg := range g.Segments {
			if seg.Background != nil {
				s.FillRect(layout.Rect{X: seg.Left, Y: top, W: seg.Width, H: p.metrics.RowHeight()}, seg.Background)
			}
			fg := seg.Color
			if fg == nil {
				fg = p.theme.Font
			}
			s.FillText(seg.Text, seg.Left, top, fg)
		}
	}
	if f.Cursor != nil && f.CursorOn {
		s.FillRect(p.CursorRect(*f.Cursor), p.theme.Cursor)
	}
}

// DrawCursor repaints only the cursor rectangle: cursor color when on,
// background when off.
func (p *Pipeline) DrawCursor(s Surface, pos cursor.Position, on bool) {
	c := p.theme.Background
	if on {
		c = p.theme.Cursor
	}
	s.FillRect(p.CursorRect(pos), c)
}

// CursorRect returns the caret rectangle: half a glyph wide, one line tall.
func (p *Pipeline) CursorRect(pos cursor.Position) layout.Rect {
	return layout.Rect{X: pos.Left, Y: pos.Top, W: p.metrics.LineHeight / 2, H: p.metrics.LineHeight}
}

func (p *Pipeline) drawChrome(s Surface) {
	h := p.metrics.Header
	if h.H <= 0 {
		return
	}
	if p.title != "" {
		w := s.MeasureText(p.title)
		x := h.X + (h.W-w)/2
		y := h.Y + (h.H-p.metrics.LineHeight)/2
		s.FillText(p.title, x, y, p.theme.Title)
	}
	if len(p.theme.Indicators) == 0 {
		return
	}
	radius := h.H / 4
	cy := h.Y + h.H/2
	cx := h.X + h.H/2
	for _, c := range p.theme.Indicators {
		s.FillCircle(cx, cy, radius, c)
		cx += radius * 3
	}
}
