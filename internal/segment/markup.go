package segment

import (
	"image/color"
	"regexp"
	"strings"

	"termcanvas/internal/palette"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Token 是换行算法的最小单位：一个顶层文本节点或一个顶层元素。
type Token struct {
	Text       string
	Color      color.Color
	Background color.Color
}

var scriptBlock = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)

// StripScripts 删除成对的 <script>…</script> 块。
func StripScripts(line string) string {
	if !strings.Contains(strings.ToLower(line), "<script") {
		return line
	}
	return scriptBlock.ReplaceAllString(line, "")
}

// Escape 转义具有标记含义的字符，使用户输入按字面显示。
func Escape(text string) string {
	return html.EscapeString(text)
}

// Tokenize 将一行内联标记拆成扁平的 token 序列。
// 顶层元素整体成为一个 token，取其 color/background 属性，文本为全部后代文本；
// script 内容、注释、void 元素与孤立的结束标签被忽略。
func Tokenize(line string) []Token {
	if line == "" {
		return nil
	}
	z := html.NewTokenizer(strings.NewReader(line))
	var (
		out    []Token
		cur    Token
		text   strings.Builder
		depth  int
		script int
	)
	flush := func() {
		cur.Text = text.String()
		if cur.Text != "" {
			out = append(out, cur)
		}
		cur = Token{}
		text.Reset()
	}
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if depth > 0 {
				flush()
			}
			return out
		case html.TextToken:
			if script > 0 {
				continue
			}
			if depth == 0 {
				if t := string(z.Text()); t != "" {
					out = append(out, Token{Text: t})
				}
				continue
			}
			text.Write(z.Text())
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			a := atom.Lookup(name)
			if a == atom.Script {
				script++
				continue
			}
			if isVoid(a) {
				continue
			}
			if depth == 0 && hasAttr {
				cur.Color, cur.Background = styleAttrs(z)
			}
			depth++
		case html.EndTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.Script {
				if script > 0 {
					script--
				}
				continue
			}
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				flush()
			}
		}
	}
}

func styleAttrs(z *html.Tokenizer) (fg, bg color.Color) {
	for {
		key, val, more := z.TagAttr()
		switch string(key) {
		case "color":
			fg = parseColor(string(val))
		case "background":
			bg = parseColor(string(val))
		}
		if !more {
			return fg, bg
		}
	}
}

func parseColor(v string) color.Color {
	c, err := palette.Parse(v)
	if err != nil {
		log.WithField("value", v).Debug("ignoring invalid color attribute")
		return nil
	}
	return c
}

func isVoid(a atom.Atom) bool {
	switch a {
	case atom.Br, atom.Img, atom.Hr, atom.Input, atom.Meta, atom.Link, atom.Wbr, atom.Area, atom.Base, atom.Col, atom.Embed, atom.Source, atom.Track:
		return true
	}
	return false
}
