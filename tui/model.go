// SPDX-License-Identifier: EPL-2.0

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ik5/audtrim/frame"
	"github.com/ik5/audtrim/region"
	"github.com/ik5/audtrim/session"
	"github.com/ik5/audtrim/trim"
)

// headerRows is the number of lines above the waveform.
const headerRows = 2

// DefaultStep is how far the cursor moves per key press, in seconds.
const DefaultStep = 0.1

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#88C0D0"))
	waveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4C566A"))
	selStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A3BE8C"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EBCB8B"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#81A1C1"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#BF616A"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4C566A"))
)

var barRunes = []rune("▁▂▃▄▅▆▇█")

// Options for the editor.
type Options struct {
	// FPS drives the frame queue. Zero selects frame.DefaultFPS.
	FPS int
	// Step is the cursor step in seconds. Zero selects DefaultStep.
	Step float64
	// OnConfirm receives the export. An error keeps the editor open.
	OnConfirm func(*trim.Result) error
}

type frameMsg struct{}

type readyMsg struct{ err error }

type confirmedMsg struct {
	res *trim.Result
	err error
}

// spectrum is written by the live loop and read by View.
type spectrum struct {
	mu   sync.Mutex
	bars []float64
}

func (s *spectrum) set(bars []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bars = append(s.bars[:0], bars...)

	return nil
}

func (s *spectrum) get() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]float64(nil), s.bars...)
}

// Model is the bubbletea region editor for one session. The session's
// surface must be canvas and its scheduler queue; the model resizes the
// one and flushes the other.
type Model struct {
	session *session.Session
	canvas  *frame.Canvas
	queue   *frame.Queue
	opts    Options
	bars    *spectrum

	width  int
	height int
	cursor float64
	ready  bool
	err    error
	status string
	result *trim.Result
}

func NewModel(s *session.Session, canvas *frame.Canvas, queue *frame.Queue, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = frame.DefaultFPS
	}

	if opts.Step <= 0 {
		opts.Step = DefaultStep
	}

	return Model{
		session: s,
		canvas:  canvas,
		queue:   queue,
		opts:    opts,
		bars:    &spectrum{},
	}
}

// Result is the confirmed export, if any.
func (m Model) Result() *trim.Result { return m.result }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.waitReady())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(time.Time) tea.Msg { return frameMsg{} })
}

func (m Model) waitReady() tea.Cmd {
	s := m.session

	return func() tea.Msg {
		return readyMsg{err: s.WaitReady(context.Background())}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg), nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.canvas.Resize(m.waveSize())
	case frameMsg:
		m.queue.Flush()
		return m, m.tick()
	case readyMsg:
		m.ready = msg.err == nil
		m.err = msg.err
		if m.ready {
			m.status = "ready"
		}
	case confirmedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.result = msg.res
		m.status = fmt.Sprintf("saved %s (%d bytes)", msg.res.Name, len(msg.res.Bytes))
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) waveSize() frame.Size {
	return frame.Size{Width: m.width, Height: max(m.height-headerRows-4, 0)}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.session.Pause()
		return m, tea.Quit
	}

	if !m.ready {
		return m, nil
	}

	m.err = nil

	switch msg.String() {
	case "left", "h":
		m.moveCursor(-m.opts.Step)
	case "right", "l":
		m.moveCursor(m.opts.Step)
	case "shift+left", "H":
		m.moveCursor(-10 * m.opts.Step)
	case "shift+right", "L":
		m.moveCursor(10 * m.opts.Step)
	case "[":
		m.setEdge(region.StartEdge)
	case "]":
		m.setEdge(region.EndEdge)
	case "<", ",":
		m.shiftRegion(-m.opts.Step)
	case ">", ".":
		m.shiftRegion(m.opts.Step)
	case " ", "space":
		m.togglePlay()
	case "p":
		m.err = m.session.PlayFull()
		m.startSpectrum()
	case "enter":
		return m, m.confirm()
	}

	return m, nil
}

func (m *Model) moveCursor(d float64) {
	dur := m.session.Editor().Duration()
	m.cursor = min(max(m.cursor+d, 0), dur)
}

func (m *Model) setEdge(edge region.Edge) {
	r, err := m.session.Region()
	if err != nil && !errors.Is(err, region.ErrNoRegion) {
		m.err = err
		return
	}

	start, end := r.Start, r.End
	if edge == region.StartEdge {
		start = m.cursor
	} else {
		end = m.cursor
	}

	if _, err := m.session.SetRegion(start, end); err != nil {
		m.err = err
	}
}

// shiftRegion moves the region by d seconds, keeping its length.
func (m *Model) shiftRegion(d float64) {
	r, err := m.session.Region()
	if err != nil {
		m.err = err
		return
	}

	dur := m.session.Editor().Duration()
	start := min(max(r.Start+d, 0), dur-r.Length())

	if _, err := m.session.SetRegion(start, start+r.Length()); err != nil {
		m.err = err
	}
}

func (m *Model) togglePlay() {
	if m.session.Playing() {
		m.session.Pause()
		return
	}

	m.err = m.session.PlayRegion()
	m.startSpectrum()
}

func (m *Model) startSpectrum() {
	if m.err != nil {
		return
	}

	if err := m.session.StartSpectrum(m.bars.set); err != nil && !errors.Is(err, session.ErrNoPlayback) {
		m.err = err
	}
}

func (m Model) confirm() tea.Cmd {
	s, onConfirm := m.session, m.opts.OnConfirm

	return func() tea.Msg {
		res, err := s.Confirm(context.Background())
		if err == nil && onConfirm != nil {
			err = onConfirm(res)
		}

		return confirmedMsg{res: res, err: err}
	}
}

// timeAt maps a terminal column to seconds.
func (m Model) timeAt(x int) (float64, bool) {
	sum := m.session.Summary()
	if sum == nil || sum.Width == 0 {
		return 0, false
	}

	return (float64(x) + 0.5) / float64(sum.Width) * sum.Duration, true
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if !m.ready {
		return m
	}

	wave := m.waveSize()
	if msg.Action == tea.MouseActionPress && (msg.Y < headerRows || msg.Y >= headerRows+wave.Height) {
		return m
	}

	t, ok := m.timeAt(msg.X)
	if !ok {
		return m
	}

	ed := m.session.Editor()
	var err error

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m
		}
		m.cursor = t
		ed.PointerDown(t)
	case tea.MouseActionMotion:
		_, err = ed.PointerMove(t)
	case tea.MouseActionRelease:
		_, err = ed.PointerUp(t)
	}

	if err != nil && !errors.Is(err, region.ErrNoRegion) && !errors.Is(err, region.ErrEmptyRegion) {
		m.err = err
	}

	return m
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("audtrim"))
	b.WriteString("  " + m.session.State().String() + "\n\n")

	switch {
	case m.err != nil && !m.ready:
		var lerr *session.LoadError
		if errors.As(m.err, &lerr) {
			b.WriteString(errStyle.Render(lerr.UserMessage()) + "\n")
		} else {
			b.WriteString(errStyle.Render(m.err.Error()) + "\n")
		}
	case !m.ready:
		b.WriteString("Decoding...\n")
	default:
		b.WriteString(m.renderWave())
		b.WriteString(m.renderInfo())
		b.WriteString(m.renderSpectrum())
	}

	if m.err != nil && m.ready {
		b.WriteString(errStyle.Render(m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString(m.status + "\n")
	}

	b.WriteString(helpStyle.Render("←/→ cursor  [ ] set start/end  < > move  space play region  p play all  enter save  q quit"))

	return b.String()
}

func (m Model) renderWave() string {
	sum := m.session.Summary()
	height := m.waveSize().Height
	if sum == nil {
		return helpStyle.Render("waveform unavailable") + "\n"
	}

	if height == 0 {
		return ""
	}

	r, hasRegion := m.session.Editor().Region()
	levels := sum.Mixed()
	cursorCol := sum.Column(m.cursor)
	half := float32(height) / 2

	var b strings.Builder
	for row := range height {
		// Distance of this row from the centre line, in [0, 1].
		dist := (float32(row) + 0.5 - half) / half
		dist = max(dist, -dist)

		var line strings.Builder
		for col, level := range levels {
			ch := " "
			if level >= dist {
				ch = "█"
			}

			t := sum.Time(col) + sum.Duration/float64(2*sum.Width)

			switch {
			case col == cursorCol:
				line.WriteString(cursorStyle.Render("│"))
			case hasRegion && t >= r.Start && t < r.End:
				line.WriteString(selStyle.Render(ch))
			default:
				line.WriteString(waveStyle.Render(ch))
			}
		}

		b.WriteString(line.String() + "\n")
	}

	return b.String()
}

func (m Model) renderInfo() string {
	r, err := m.session.Region()
	if err != nil {
		return fmt.Sprintf("cursor %.2fs  no region\n", m.cursor)
	}

	return fmt.Sprintf("cursor %.2fs  region %s  length %.2fs\n", m.cursor, r, r.Length())
}

func (m Model) renderSpectrum() string {
	bars := m.bars.get()
	if len(bars) == 0 || !m.session.Playing() {
		return "\n"
	}

	var b strings.Builder
	for _, v := range bars {
		i := int(v * float64(len(barRunes)-1))
		b.WriteRune(barRunes[min(max(i, 0), len(barRunes)-1)])
	}

	return barStyle.Render(b.String()) + "\n"
}
