package tui

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"testing"

	"termcanvas/internal/config"
	"termcanvas/internal/segment"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

func newTestModel(t *testing.T) (*Model, *string) {
	t.Helper()
	copied := new(string)
	m := New(Options{
		Config: config.Default(),
		Copy: func(s string) error {
			*copied = s
			return nil
		},
	})
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 12})
	if m.Console() == nil {
		t.Fatalf("console not created: %v", m.err)
	}
	return m, copied
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func press(m *Model, key tea.KeyType) {
	m.Update(tea.KeyMsg{Type: key})
}

func lastTexts(m *Model, n int) []string {
	win := m.Console().Window()
	groups := win.Groups
	if len(groups) > n {
		groups = groups[len(groups)-n:]
	}
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Text())
	}
	return out
}

func TestTypingReplacesInputLine(t *testing.T) {
	m, _ := newTestModel(t)
	typeText(m, "hi")

	if got := m.Console().Len(); got != 1 {
		t.Fatalf("Len = %d, want 1 (single live line)", got)
	}
	if got := lastTexts(m, 1)[0]; got != "$ hi" {
		t.Fatalf("live line = %q, want %q", got, "$ hi")
	}
	if !m.Console().CursorEligible() {
		t.Fatalf("cursor should be eligible while typing")
	}
}

func TestEchoBuiltinAppendsMarkup(t *testing.T) {
	m, _ := newTestModel(t)
	typeText(m, `:echo <b color="red">hi</b>`)
	press(m, tea.KeyEnter)

	got := lastTexts(m, 3)
	want := []string{`$ :echo <b color="red">hi</b>`, "hi", "$ "}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("window tail = %q, want %q", got, want)
	}
	win := m.Console().Window()
	seg := win.Groups[len(win.Groups)-2].Segments[0]
	if seg.Color != (color.RGBA{0xff, 0, 0, 0xff}) || seg.Kind != segment.KindOutput {
		t.Fatalf("echo segment = %+v", seg)
	}
}

func TestClearBuiltinEmptiesHistoryView(t *testing.T) {
	m, _ := newTestModel(t)
	typeText(m, ":echo one")
	press(m, tea.KeyEnter)
	typeText(m, ":clear")
	press(m, tea.KeyEnter)

	if got := m.Console().Len(); got != 1 {
		t.Fatalf("Len after :clear = %d, want 1", got)
	}
	if len(m.entries) != 0 {
		t.Fatalf("entries after :clear = %d, want 0", len(m.entries))
	}
}

func TestResizeReplaysEntries(t *testing.T) {
	m, _ := newTestModel(t)
	typeText(m, ":echo one")
	press(m, tea.KeyEnter)
	typeText(m, "draft")
	before := m.Console().Len()

	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if got := m.Console().Len(); got != before {
		t.Fatalf("Len after resize = %d, want %d", got, before)
	}
	if got := lastTexts(m, 1)[0]; got != "$ draft" {
		t.Fatalf("live line after resize = %q", got)
	}
}

func TestHistoryRecall(t *testing.T) {
	m, _ := newTestModel(t)
	typeText(m, ":echo a")
	press(m, tea.KeyEnter)
	typeText(m, "wip")

	press(m, tea.KeyUp)
	if got := lastTexts(m, 1)[0]; got != "$ :echo a" {
		t.Fatalf("after up = %q", got)
	}
	press(m, tea.KeyDown)
	if got := lastTexts(m, 1)[0]; got != "$ wip" {
		t.Fatalf("after down = %q, want draft restored", got)
	}
}

func TestScrollKeys(t *testing.T) {
	m, _ := newTestModel(t)
	for i := 0; i < 30; i++ {
		m.appendOutput(fmt.Sprintf("l%d", i))
	}
	m.showInput(false)

	press(m, tea.KeyHome)
	if start := m.Console().Window().Start; start != 0 {
		t.Fatalf("Home: start = %d, want 0", start)
	}
	press(m, tea.KeyPgDown)
	if start := m.Console().Window().Start; start != m.Console().MaxVisibleLines() {
		t.Fatalf("PgDn: start = %d, want %d", start, m.Console().MaxVisibleLines())
	}
	press(m, tea.KeyEnd)
	if !m.Console().CursorEligible() {
		t.Fatalf("End should return to the live input line")
	}
}

func TestCopyWindow(t *testing.T) {
	m, copied := newTestModel(t)
	m.appendOutput("alpha")
	m.showInput(false)
	press(m, tea.KeyCtrlY)

	if *copied != "$ \nalpha\n$ " {
		t.Fatalf("copied = %q", *copied)
	}
	if m.status != "copied 3 lines" {
		t.Fatalf("status = %q", m.status)
	}

	m.copyFn = func(string) error { return errors.New("no clipboard") }
	press(m, tea.KeyCtrlY)
	if m.status != "copy failed: no clipboard" {
		t.Fatalf("status = %q", m.status)
	}
}

func TestBlurHidesCursor(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(tea.BlurMsg{})
	if m.Console().CursorEligible() {
		t.Fatalf("cursor should be hidden without focus")
	}
	m.Update(tea.FocusMsg{})
	if !m.Console().CursorEligible() {
		t.Fatalf("cursor should return with focus")
	}
}

func TestHistoryPushSkipsBlankAndDuplicates(t *testing.T) {
	var h history
	h.Push("ls")
	h.Push("ls")
	h.Push("  ")
	h.Push("pwd")
	if len(h.lines) != 2 {
		t.Fatalf("lines = %q", h.lines)
	}
	if line, _ := h.Older("draft"); line != "pwd" {
		t.Fatalf("Older = %q", line)
	}
	if line, _ := h.Older(""); line != "ls" {
		t.Fatalf("Older = %q", line)
	}
	if line, _ := h.Older(""); line != "ls" {
		t.Fatalf("Older at oldest = %q", line)
	}
	h.Newer()
	if line, _ := h.Newer(); line != "draft" {
		t.Fatalf("Newer past end = %q, want draft", line)
	}
	if _, ok := h.Newer(); ok {
		t.Fatalf("Newer while not browsing should report false")
	}
}

func TestWideInputStaysOnOneRow(t *testing.T) {
	m, _ := newTestModel(t)
	typeText(m, strings.Repeat("你好", 11))

	if got := m.Console().Len(); got != 1 {
		t.Fatalf("Len = %d, want a single live line; window %q", got, lastTexts(m, 4))
	}
	line := lastTexts(m, 1)[0]
	width := m.Console().Metrics().Content.W
	if w := runewidth.StringWidth(line); float64(w) > width {
		t.Fatalf("live line %q is %d cells, content is %v", line, w, width)
	}
	if w := runewidth.StringWidth(m.input.Value()); w > m.inputCells {
		t.Fatalf("input %q exceeds %d cells", m.input.Value(), m.inputCells)
	}
}

func TestHistoryRecallIsTruncatedToRow(t *testing.T) {
	m, _ := newTestModel(t)
	m.history.Push(":echo " + strings.Repeat("宽", 40))
	press(m, tea.KeyUp)

	if got := m.Console().Len(); got != 1 {
		t.Fatalf("Len = %d, want 1", got)
	}
	if w := runewidth.StringWidth(m.input.Value()); w > m.inputCells {
		t.Fatalf("recalled input is %d cells, limit %d", w, m.inputCells)
	}
}

func TestShrinkingTruncatesLiveLine(t *testing.T) {
	m, _ := newTestModel(t)
	typeText(m, strings.Repeat("ab", 15))
	m.Update(tea.WindowSizeMsg{Width: 20, Height: 12})

	if got := m.Console().Len(); got != 1 {
		t.Fatalf("Len = %d, want 1 after shrinking", got)
	}
	if w := runewidth.StringWidth(m.input.Value()); w > m.inputCells {
		t.Fatalf("input is %d cells after shrink, limit %d", w, m.inputCells)
	}
}
