package tui

import "strings"

// maxHistory 为保留的已提交命令条数。
const maxHistory = 500

// history 记录已提交的命令行，支持上下方向键浏览。
// pos == len(lines) 表示未在浏览，draft 保存浏览前正在编辑的内容。
type history struct {
	lines []string
	pos   int
	draft string
}

// Push 记录一条命令；空白行与紧邻的重复行被忽略。
func (h *history) Push(line string) {
	defer h.rewind()
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	if n := len(h.lines); n > 0 && h.lines[n-1] == line {
		return
	}
	h.lines = append(h.lines, line)
	if len(h.lines) > maxHistory {
		h.lines = h.lines[len(h.lines)-maxHistory:]
	}
}

func (h *history) rewind() {
	h.pos = len(h.lines)
	h.draft = ""
}

// Older 返回上一条命令；首次调用时保存 current 作为草稿。
func (h *history) Older(current string) (string, bool) {
	if len(h.lines) == 0 {
		return "", false
	}
	if h.pos == len(h.lines) {
		h.draft = current
	}
	if h.pos > 0 {
		h.pos--
	}
	return h.lines[h.pos], true
}

// Newer 返回下一条命令；越过最新一条时恢复草稿。
func (h *history) Newer() (string, bool) {
	if h.pos >= len(h.lines) {
		return "", false
	}
	h.pos++
	if h.pos == len(h.lines) {
		draft := h.draft
		h.draft = ""
		return draft, true
	}
	return h.lines[h.pos], true
}
