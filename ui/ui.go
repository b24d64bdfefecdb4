// Package ui renders the timer display in the terminal. It is a thin
// presentation layer: every tick arrives as a snapshot published by the
// update scheduler, and user intents are forwarded to the engine.
package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ultratimer/config"
	"ultratimer/timer"
)

const (
	padding  = 2
	maxWidth = 60
)

// SnapshotMsg delivers a scheduler tick to the model.
type SnapshotMsg timer.Snapshot

var modeCycle = []timer.Mode{
	timer.ModeClock,
	timer.ModeTimer,
	timer.ModeCountdown,
	timer.ModeStopwatch,
	timer.ModePomodoro,
}

type keymap struct {
	togglePlay key.Binding
	reset      key.Binding
	mode       key.Binding
	quit       key.Binding
}

var defaultKeymap = keymap{
	togglePlay: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "start/pause"),
	),
	reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	mode: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "switch mode"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type styles struct {
	base      lipgloss.Style
	display   lipgloss.Style
	warning   lipgloss.Style
	critical  lipgloss.Style
	secondary lipgloss.Style
	hint      lipgloss.Style
}

func newStyles(theme config.Theme) styles {
	return styles{
		base: lipgloss.NewStyle().Padding(1, padding),
		display: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(theme.Foreground)),
		warning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffff00")),
		critical: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff0000")),
		secondary: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Accent)),
		hint: lipgloss.NewStyle().Faint(true),
	}
}

// Model is the bubbletea model for the timer display.
type Model struct {
	engine     *timer.Engine
	styles     styles
	progress   progress.Model
	help       help.Model
	snap       timer.Snapshot
	remoteAddr string
	modeIndex  int
}

// New creates the presentation model.
func New(engine *timer.Engine, theme config.Theme, remoteAddr string) *Model {
	m := &Model{
		engine: engine,
		styles: newStyles(theme),
		progress: progress.New(
			progress.WithSolidFill(theme.Accent),
		),
		help:       help.New(),
		remoteAddr: remoteAddr,
	}

	mode := engine.Mode()
	for i, v := range modeCycle {
		if v == mode {
			m.modeIndex = i
		}
	}

	m.snap = engine.Snapshot()

	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotMsg:
		m.snap = timer.Snapshot(msg)

		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, defaultKeymap.togglePlay):
			m.engine.Toggle()

		case key.Matches(msg, defaultKeymap.reset):
			m.engine.Reset()

		case key.Matches(msg, defaultKeymap.mode):
			m.modeIndex = (m.modeIndex + 1) % len(modeCycle)
			m.engine.SwitchMode(modeCycle[m.modeIndex])

		case key.Matches(msg, defaultKeymap.quit):
			return m, tea.Batch(tea.ClearScreen, tea.Quit)
		}

		// quick durations, mirroring the desktop shortcuts
		switch msg.String() {
		case "1":
			_ = m.engine.SetDuration(1 * time.Minute)
		case "5":
			_ = m.engine.SetDuration(5 * time.Minute)
		case "0":
			_ = m.engine.SetDuration(10 * time.Minute)
		}

		m.snap = m.engine.Snapshot()

		return m, nil

	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - padding*2 - 4
		if m.progress.Width > maxWidth {
			m.progress.Width = maxWidth
		}

		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress, _ = progressModel.(progress.Model)

		return m, cmd
	}

	return m, nil
}

// displayStyle picks the display color: the theme foreground normally,
// yellow once remaining falls to the warning threshold, red at critical.
func (m *Model) displayStyle() lipgloss.Style {
	snap := m.snap

	if snap.Mode == timer.ModeClock || snap.Mode == timer.ModeStopwatch {
		return m.styles.display
	}

	if snap.State == timer.StateStopped {
		return m.styles.display
	}

	switch {
	case snap.Critical > 0 && snap.Remaining <= snap.Critical:
		return m.styles.critical
	case snap.Warning > 0 && snap.Remaining <= snap.Warning:
		return m.styles.warning
	default:
		return m.styles.display
	}
}

func (m *Model) View() string {
	var s strings.Builder

	snap := m.snap

	header := "[" + titleCase(string(snap.Mode)) + "] " + snap.State.String()
	s.WriteString(m.styles.secondary.Render(header))
	s.WriteString("\n\n")

	s.WriteString(m.displayStyle().Render(snap.Display))
	s.WriteString("\n")

	if snap.Mode == timer.ModeClock {
		s.WriteString(m.styles.hint.Render(snap.Date))
		s.WriteString("\n")
	}

	if snap.Mode != timer.ModeClock && snap.Mode != timer.ModeStopwatch &&
		snap.Duration > 0 {
		percent := 1 - snap.Remaining.Seconds()/snap.Duration.Seconds()

		s.WriteString("\n")
		s.WriteString(m.progress.ViewAs(percent))
		s.WriteString("\n")
	}

	if snap.Finished {
		s.WriteString("\n")
		s.WriteString(m.styles.secondary.Render("Timer finished!"))
		s.WriteString("\n")
	}

	if m.remoteAddr != "" {
		s.WriteString("\n")
		s.WriteString(m.styles.hint.Render("remote: " + m.remoteAddr))
		s.WriteString("\n")
	}

	s.WriteString("\n" + m.help.ShortHelpView([]key.Binding{
		defaultKeymap.togglePlay,
		defaultKeymap.reset,
		defaultKeymap.mode,
		defaultKeymap.quit,
	}))

	return m.styles.base.Render(s.String())
}

func titleCase(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
