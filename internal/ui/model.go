// ABOUTME: Bubbletea model for the playback TUI
// ABOUTME: Tracks the clip queue, current clip format and playback progress
package ui

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
)

// tickInterval is the progress refresh period
const tickInterval = 100 * time.Millisecond

// Playback states shown in the header
const (
	StateLoading  = "loading"
	StatePlaying  = "playing"
	StateFinished = "finished"
	StateFailed   = "failed"
)

// Model represents the TUI state
type Model struct {
	// Queue
	index int
	total int

	// Clip
	path       string
	format     string
	sampleRate int
	channels   int
	duration   time.Duration
	size       int

	// Playback
	state   string
	started time.Time
	elapsed time.Duration
	lastErr string

	// Details toggle
	showDetails bool

	control *Control

	// Dimensions
	width  int
	height int
}

// StatusMsg updates TUI state
type StatusMsg struct {
	Index      int
	Total      int
	Path       string
	Format     string
	SampleRate int
	Channels   int
	Duration   time.Duration
	Size       int
	State      string
	Err        error
}

// TickMsg refreshes playback progress
type TickMsg time.Time

// DoneMsg tells the TUI that every clip has been handled
type DoneMsg struct{}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg, time.Now())
	case TickMsg:
		if m.state == StatePlaying {
			m.elapsed = time.Time(msg).Sub(m.started)
			if m.elapsed > m.duration {
				m.elapsed = m.duration
			}
		}
		return m, tick()
	case DoneMsg:
		return m, tea.Quit
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderClipInfo()
	s += m.renderProgress()

	if m.showDetails {
		s += m.renderDetails()
	}

	s += m.renderHelp()

	return s
}

// renderHeader renders queue position and state
func (m Model) renderHeader() string {
	status := "Idle"
	if m.total > 0 {
		status = fmt.Sprintf("Clip %d of %d (%s)", m.index, m.total, m.state)
	}

	return fmt.Sprintf(`┌─ Chime Player ───────────────────────────────────────┐
│ Status: %-45s │
├──────────────────────────────────────────────────────┤
`, truncate(status, 45))
}

// renderClipInfo renders the current clip and its format
func (m Model) renderClipInfo() string {
	if m.path == "" {
		return "│ No clip                                              │\n"
	}

	s := fmt.Sprintf("│ File:   %-45s │\n", truncate(filepath.Base(m.path), 45))
	if m.format != "" {
		info := fmt.Sprintf("%s %dHz %s", m.format, m.sampleRate, channelName(m.channels))
		s += fmt.Sprintf("│ Format: %-45s │\n", truncate(info, 45))
	}
	if m.lastErr != "" {
		s += fmt.Sprintf("│ Error:  %-45s │\n", truncate(m.lastErr, 45))
	}
	return s
}

// renderProgress renders the playback position
func (m Model) renderProgress() string {
	bar := renderBar(int(m.elapsed/time.Millisecond), int(m.duration/time.Millisecond), 30)
	pos := fmt.Sprintf("%s / %s", formatDuration(m.elapsed), formatDuration(m.duration))

	return fmt.Sprintf("│                                                      │\n"+
		"│ [%s] %-19s │\n", bar, pos)
}

// renderDetails renders clip buffer details
func (m Model) renderDetails() string {
	return fmt.Sprintf(`├──────────────────────────────────────────────────────┤
│ Path:   %-45s │
│ Buffer: %-45s │
`, truncate(m.path, 45), humanize.Bytes(uint64(m.size)))
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `│ d:Details  q:Quit                                    │
└──────────────────────────────────────────────────────┘
`
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.control != nil {
			m.control.requestQuit()
		}
		return m, tea.Quit
	case "d":
		m.showDetails = !m.showDetails
	}

	return m, nil
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg, now time.Time) {
	if msg.Total != 0 {
		m.index = msg.Index
		m.total = msg.Total
	}
	if msg.Path != "" && msg.Path != m.path {
		m.path = msg.Path
		m.format = ""
		m.sampleRate = 0
		m.channels = 0
		m.duration = 0
		m.size = 0
		m.elapsed = 0
		m.lastErr = ""
	}
	if msg.Format != "" {
		m.format = msg.Format
		m.sampleRate = msg.SampleRate
		m.channels = msg.Channels
		m.duration = msg.Duration
		m.size = msg.Size
	}
	if msg.State != "" {
		m.state = msg.State
		switch msg.State {
		case StatePlaying:
			m.started = now
			m.elapsed = 0
		case StateFinished:
			m.elapsed = m.duration
		}
	}
	if msg.Err != nil {
		m.lastErr = msg.Err.Error()
	}
}

// Utility functions
func renderBar(value, max, width int) string {
	filled := 0
	if max > 0 {
		filled = (value * width) / max
	}
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func channelName(channels int) string {
	if channels == 1 {
		return "Mono"
	}
	return "Stereo"
}

func formatDuration(d time.Duration) string {
	d = d.Round(100 * time.Millisecond)
	minutes := int(d / time.Minute)
	seconds := (d % time.Minute).Seconds()
	return fmt.Sprintf("%d:%04.1f", minutes, seconds)
}
