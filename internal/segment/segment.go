// Package segment turns raw entries into positioned, styled line groups using
// greedy word wrapping with a grapheme-level fallback.
package segment

import (
	"regexp"
	"strings"

	"termcanvas/internal/logger"

	"github.com/rivo/uniseg"
)

var log = logger.Named("segment")

var lineBreak = regexp.MustCompile(`\r?\n`)

// Measurer 返回字符串在当前字体下的像素宽度。
type Measurer interface {
	MeasureText(text string) float64
}

// MeasureFunc 让函数实现 Measurer。
type MeasureFunc func(text string) float64

func (f MeasureFunc) MeasureText(text string) float64 { return f(text) }

// Layout 为分段所需的水平布局参数：Left 是内容区左侧内边距，Width 是内容区宽度（像素）。
type Layout struct {
	Left   float64
	Width  float64
	Prompt string
}

// Engine 将 Entry 转换为 LineGroup 序列。
type Engine struct {
	measure Measurer
	layout  Layout
}

// New 创建分段引擎。
func New(measure Measurer, layout Layout) *Engine {
	return &Engine{measure: measure, layout: layout}
}

// Layout 返回引擎使用的布局参数。
func (e *Engine) Layout() Layout {
	return e.layout
}

// Segment 将一条 Entry 切分为按显示顺序排列的行组。
// 每个原始行至少产生一个行组；超出内容宽度的行被折成多个行组。
func (e *Engine) Segment(entry Entry) []LineGroup {
	text := entry.Text
	if entry.Kind == KindInput {
		text = e.layout.Prompt + Escape(text)
	}
	var groups []LineGroup
	for _, raw := range lineBreak.Split(text, -1) {
		tokens := Tokenize(StripScripts(raw))
		groups = append(groups, e.wrap(tokens, entry.Kind)...)
	}
	log.WithField("kind", entry.Kind).WithField("groups", len(groups)).Debug("segmented entry")
	return groups
}

// wrap lays one raw line out. Tokens are placed whole when they fit; otherwise
// they are split between grapheme clusters, filling the current row first.
func (e *Engine) wrap(tokens []Token, kind Kind) []LineGroup {
	start := e.layout.Left
	limit := e.layout.Left + e.layout.Width

	var groups []LineGroup
	cur := LineGroup{Kind: kind}
	left := start
	newRow := func() {
		groups = append(groups, cur)
		cur = LineGroup{Kind: kind}
		left = start
	}
	place := func(tok Token, text string, width float64) {
		cur.Segments = append(cur.Segments, Segment{
			Text:       text,
			Width:      width,
			Left:       left,
			Color:      tok.Color,
			Background: tok.Background,
			Kind:       kind,
		})
		left += width
	}

	for _, tok := range tokens {
		if tok.Text == "" {
			continue
		}
		width := e.measure.MeasureText(tok.Text)
		if left+width <= limit {
			place(tok, tok.Text, width)
			continue
		}

		// runWidth 按簇累加；只有累加值越界时才整体重测当前片段。
		var run strings.Builder
		runWidth := 0.0
		flush := func() {
			text := run.String()
			place(tok, text, e.measure.MeasureText(text))
			run.Reset()
			runWidth = 0
		}
		g := uniseg.NewGraphemes(tok.Text)
		for g.Next() {
			cluster := g.Str()
			cw := e.measure.MeasureText(cluster)
			w := runWidth + cw
			if left+w > limit && run.Len() > 0 {
				w = e.measure.MeasureText(run.String() + cluster)
			}
			if left+w > limit {
				switch {
				case run.Len() > 0:
					flush()
					newRow()
				case left > start:
					newRow()
				}
				// A cluster wider than the whole row is still placed at the row start.
				w = cw
			}
			run.WriteString(cluster)
			runWidth = w
		}
		if run.Len() > 0 {
			flush()
		}
	}
	groups = append(groups, cur)
	return groups
}
