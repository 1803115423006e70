package segment

import "image/color"

// Kind 标识条目来源：用户输入或程序输出。
type Kind string

const (
	KindInput  Kind = "input"
	KindOutput Kind = "output"
)

// Valid 报告 Kind 是否为可识别的取值。
func (k Kind) Valid() bool {
	return k == KindInput || k == KindOutput
}

// Entry 是宿主提交的一条逻辑文本。Replace 表示先丢弃最后一个已缓存的行组。
type Entry struct {
	Kind    Kind
	Text    string
	Replace bool
}

// Segment 是行内一段样式一致、已定位的文本。Left 与 Width 均为设备像素。
// Color/Background 为 nil 表示未设置。
type Segment struct {
	Text       string
	Width      float64
	Left       float64
	Color      color.Color
	Background color.Color
	Kind       Kind
}

// Right 返回该段的右边界。
func (s Segment) Right() float64 {
	return s.Left + s.Width
}

// LineGroup 是一行可视文本，由若干 Segment 组成；Kind 记录其来源条目类型。
type LineGroup struct {
	Kind     Kind
	Segments []Segment
}

// Text 拼接所有段的文本。
func (g LineGroup) Text() string {
	switch len(g.Segments) {
	case 0:
		return ""
	case 1:
		return g.Segments[0].Text
	}
	n := 0
	for _, s := range g.Segments {
		n += len(s.Text)
	}
	buf := make([]byte, 0, n)
	for _, s := range g.Segments {
		buf = append(buf, s.Text...)
	}
	return string(buf)
}

// Last 返回最后一个段；空行返回 false。
func (g LineGroup) Last() (Segment, bool) {
	if len(g.Segments) == 0 {
		return Segment{}, false
	}
	return g.Segments[len(g.Segments)-1], true
}
