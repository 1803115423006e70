// Package tui hosts a console widget in a terminal: the widget draws into a
// character grid and bubbletea presents it.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"termcanvas/internal/config"
	"termcanvas/internal/console"
	"termcanvas/internal/cursor"
	"termcanvas/internal/events"
	"termcanvas/internal/logger"
	"termcanvas/internal/segment"
	"termcanvas/internal/shell"
	"termcanvas/internal/surface"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

var log = logger.Named("tui")

type Options struct {
	Config  config.Config
	Workdir string
	// Events 为通知总线；为 nil 时内部创建。
	Events *events.Bus
	// EventLog 非 nil 时所有通知先写入该日志。
	EventLog *logger.LogEntry
	Context  context.Context
	// Copy 替换剪贴板写入，便于测试。
	Copy func(string) error
}

type widgetEventMsg struct {
	Event events.Event
}

type shellLineMsg struct {
	Line string
}

type shellDoneMsg struct {
	Err error
}

type shellEvent struct {
	line string
	done bool
	err  error
}

type Model struct {
	cfg      config.Config
	ctx      context.Context
	cancel   context.CancelFunc
	bus      *events.Bus
	notifier events.Notifier
	eventsCh <-chan events.Event
	runner   shell.Runner
	copyFn   func(string) error
	ownsBus  bool

	console *console.Console
	grid    *surface.Grid
	input   textinput.Model
	spin    spinner.Model
	history history
	focused atomic.Bool

	// entries 为已提交的条目，终端尺寸变化时重放。
	entries []segment.Entry
	shellCh chan shellEvent
	running string
	status  string
	err     error
	width   int
	height  int

	// inputCells 为输入内容可占用的最大单元数，保证输入行不折行。
	inputCells int
}

func New(opts Options) *Model {
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	bus := opts.Events
	if bus == nil {
		bus = events.NewBus()
	}
	var notifier events.Notifier = bus
	if opts.EventLog != nil {
		notifier = events.WithLogging(bus, opts.EventLog)
	}
	copyFn := opts.Copy
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	m := &Model{
		cfg:      opts.Config,
		ctx:      ctx,
		cancel:   cancel,
		bus:      bus,
		notifier: notifier,
		eventsCh: bus.Subscribe(256),
		runner:   shell.Runner{Shell: opts.Config.Shell, Workdir: opts.Workdir},
		copyFn:   copyFn,
		ownsBus:  opts.Events == nil,
		input:    ti,
		spin:     spin,
	}
	m.focused.Store(true)
	return m
}

func (m *Model) Init() tea.Cmd {
	return m.listenEvents()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.FocusMsg:
		m.setFocus(true)
	case tea.BlurMsg:
		m.setFocus(false)
	case widgetEventMsg:
		cmds = append(cmds, m.listenEvents())
	case shellLineMsg:
		m.appendOutput(segment.Escape(ansi.Strip(msg.Line)))
		cmds = append(cmds, m.listenShell())
	case shellDoneMsg:
		m.finishShell(msg.Err)
	case spinner.TickMsg:
		if m.running != "" {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			cmds = append(cmds, cmd)
		}
	case tea.KeyMsg:
		cmd, quit := m.handleKey(msg)
		if quit {
			return m, tea.Quit
		}
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) View() string {
	if m.console == nil {
		return "starting…"
	}
	lines := m.grid.Lines()
	lines = append(lines, m.statusLine())
	return strings.Join(lines, "\n")
}

// Close 释放控件与后台命令。
func (m *Model) Close() {
	if m.console != nil {
		m.console.Close()
	}
	m.cancel()
	if m.ownsBus {
		m.bus.Close()
	}
}

// Console 返回当前控件；首次收到窗口尺寸前为 nil。
func (m *Model) Console() *console.Console {
	return m.console
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		m.Close()
		return nil, true
	}
	if m.console == nil {
		return nil, false
	}
	m.status = ""
	switch msg.Type {
	case tea.KeyPgUp, tea.KeyPgDown, tea.KeyHome, tea.KeyEnd:
		m.scroll(msg.Type)
		return nil, false
	case tea.KeyCtrlY:
		m.copyWindow()
		return nil, false
	}
	if m.running != "" {
		return nil, false
	}
	switch msg.Type {
	case tea.KeyEnter:
		return m.commit(), false
	case tea.KeyUp:
		if line, ok := m.history.Older(m.input.Value()); ok {
			m.setInput(line)
		}
		return nil, false
	case tea.KeyDown:
		if line, ok := m.history.Newer(); ok {
			m.setInput(line)
		}
		return nil, false
	}

	before, pos := m.input.Value(), m.input.Position()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return cmd, false
	}
	if runewidth.StringWidth(m.input.Value()) > m.inputCells {
		m.input.SetValue(before)
		m.input.SetCursor(pos)
		return cmd, false
	}
	m.showInput(true)
	return cmd, false
}

func (m *Model) setInput(line string) {
	m.input.SetValue(runewidth.Truncate(line, m.inputCells, ""))
	m.input.CursorEnd()
	m.showInput(true)
}

// showInput renders the in-progress line; replace swaps out the previous rendering.
func (m *Model) showInput(replace bool) {
	err := m.console.Append(segment.Entry{Kind: segment.KindInput, Text: m.input.Value(), Replace: replace})
	if err != nil {
		log.Warnf("render input line: %v", err)
	}
}

func (m *Model) appendOutput(markup string) {
	entry := segment.Entry{Kind: segment.KindOutput, Text: markup}
	if err := m.console.Append(entry); err != nil {
		log.Warnf("append output: %v", err)
		return
	}
	m.entries = append(m.entries, entry)
}

func (m *Model) commit() tea.Cmd {
	line := m.input.Value()
	m.input.Reset()
	m.history.Push(line)
	m.entries = append(m.entries, segment.Entry{Kind: segment.KindInput, Text: line})

	command := strings.TrimSpace(line)
	switch {
	case command == "":
	case command == ":clear":
		m.console.Clear()
		m.entries = nil
	case command == ":echo" || strings.HasPrefix(command, ":echo "):
		m.appendOutput(strings.TrimSpace(strings.TrimPrefix(command, ":echo")))
	default:
		m.running = command
		return tea.Batch(m.startShell(command), m.spin.Tick)
	}
	m.showInput(false)
	return nil
}

func (m *Model) startShell(command string) tea.Cmd {
	ch := make(chan shellEvent, 64)
	m.shellCh = ch
	runner, ctx := m.runner, m.ctx
	go func() {
		defer close(ch)
		w := shell.NewLineWriter(func(line string) { ch <- shellEvent{line: line} })
		err := runner.Run(ctx, command, w)
		_ = w.Close()
		ch <- shellEvent{done: true, err: err}
	}()
	return m.listenShell()
}

func (m *Model) listenShell() tea.Cmd {
	ch := m.shellCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		if ev.done {
			return shellDoneMsg{Err: ev.err}
		}
		return shellLineMsg{Line: ev.line}
	}
}

func (m *Model) finishShell(err error) {
	if err != nil {
		m.appendOutput(fmt.Sprintf(`<span color="red">%s</span>`, segment.Escape(err.Error())))
	}
	m.running = ""
	m.shellCh = nil
	m.showInput(false)
}

func (m *Model) listenEvents() tea.Cmd {
	if m.eventsCh == nil {
		return nil
	}
	ch := m.eventsCh
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return nil
		}
		return widgetEventMsg{Event: evt}
	}
}

func (m *Model) scroll(key tea.KeyType) {
	state := m.console.Scroll()
	page := float64(m.console.MaxVisibleLines()) * m.console.Metrics().HostRowHeight()
	switch key {
	case tea.KeyPgUp:
		m.console.ScrollTo(max(0, state.ScrollTop-page))
	case tea.KeyPgDown:
		top := state.ScrollTop + page
		if top+page >= state.ScrollHeight {
			m.console.ScrollToBottom()
			return
		}
		m.console.ScrollTo(top)
	case tea.KeyHome:
		m.console.ScrollTo(0)
	case tea.KeyEnd:
		m.console.ScrollToBottom()
	}
}

func (m *Model) copyWindow() {
	win := m.console.Window()
	lines := make([]string, 0, win.Len())
	for _, g := range win.Groups {
		lines = append(lines, g.Text())
	}
	if err := m.copyFn(strings.Join(lines, "\n")); err != nil {
		m.status = fmt.Sprintf("copy failed: %v", err)
		return
	}
	m.status = fmt.Sprintf("copied %d lines", len(lines))
}

func (m *Model) setFocus(focused bool) {
	m.focused.Store(focused)
	if m.console != nil {
		m.console.Refresh()
	}
}

// resize rebuilds the widget for the new terminal size and replays every
// committed entry followed by the in-progress line.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	cols := max(width, 8)
	rows := max(height-1, 3)

	cfg := m.cfg.GridPreset(cols, rows)
	theme, err := cfg.Theme()
	if err != nil {
		m.err = err
		log.Warnf("invalid theme, using defaults: %v", err)
		theme, _ = config.Default().Theme()
	}
	if m.console != nil {
		m.console.Close()
	}
	grid := surface.NewGrid(cols, rows)
	c, err := console.New(console.Options{
		Layout:        cfg.Layout(),
		Theme:         theme,
		Title:         cfg.Title,
		Prompt:        cfg.Prompt,
		Surface:       grid,
		Notifier:      m.notifier,
		Focused:       m.focused.Load,
		BlinkInterval: cfg.BlinkInterval(),
		Context:       m.ctx,
	})
	if err != nil {
		m.err = err
		return
	}
	m.grid, m.console = grid, c
	for _, entry := range m.entries {
		if err := c.Append(entry); err != nil {
			log.Warnf("replay entry: %v", err)
		}
	}
	// The in-progress line must stay on one row so that replacing it pops exactly one group.
	m.inputCells = max(1, int(c.Metrics().Content.W)-promptCells(cfg.Prompt)-cursor.Gap)
	if runewidth.StringWidth(m.input.Value()) > m.inputCells {
		m.input.SetValue(runewidth.Truncate(m.input.Value(), m.inputCells, ""))
	}
	if m.running == "" {
		m.showInput(false)
	}
}

// promptCells 返回提示符去掉标记后占用的单元数。
func promptCells(prompt string) int {
	n := 0
	for _, tok := range segment.Tokenize(segment.StripScripts(prompt)) {
		n += runewidth.StringWidth(tok.Text)
	}
	return n
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D7A85"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F56"))
)

func (m *Model) statusLine() string {
	switch {
	case m.running != "":
		return m.spin.View() + statusStyle.Render(" running "+m.running)
	case m.err != nil:
		return errorStyle.Render(m.err.Error())
	case m.status != "":
		return statusStyle.Render(m.status)
	}
	return statusStyle.Render("enter run · :echo <markup> · :clear · pgup/pgdn scroll · ctrl+y copy · ctrl+c quit")
}
