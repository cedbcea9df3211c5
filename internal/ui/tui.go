// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program for the clip player UI
package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Control carries requests from the TUI back to the player
type Control struct {
	// Quit is closed when the user asks to stop playback
	Quit chan struct{}

	once sync.Once
}

// NewControl creates a new control handler
func NewControl() *Control {
	return &Control{
		Quit: make(chan struct{}),
	}
}

func (c *Control) requestQuit() {
	c.once.Do(func() { close(c.Quit) })
}

// NewModel creates a new TUI model
func NewModel(ctrl *Control) Model {
	return Model{
		state:   StateLoading,
		control: ctrl,
	}
}

// Run creates the TUI program; the caller starts it with Run on the program
func Run(ctrl *Control) *tea.Program {
	return tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())
}
