// Package tui provides the primary terminal user interface implementation.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/librarium-app/librarium/notes"
	"github.com/librarium-app/librarium/session"
)

// Options encapsulates the runtime collaborators of the terminal user interface.
type Options struct {
	Controller *session.Controller
	Pad        *notes.Pad
}

// Run initializes and executes the primary Bubble Tea application loop. It
// returns when the user quits; deciding what to do about unsaved notes (and
// whether to resume the loop on cancel) is the caller's responsibility.
func Run(options *Options) error {
	bubble := newBubble(options)

	if err := bubble.loadLibrary(); err != nil {
		return err
	}
	bubble.setState(libraryState)

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}
