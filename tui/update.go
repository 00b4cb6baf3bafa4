// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"time"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/librarium-app/librarium/key"
	"github.com/librarium-app/librarium/library"
	"github.com/librarium-app/librarium/log"
	"github.com/librarium-app/librarium/open"
	"github.com/librarium-app/librarium/query"
	"github.com/librarium-app/librarium/where"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// seekStepMs is the transport skip applied by the arrow keys.
const seekStepMs = 10000

// refreshMsg drives the periodic presentation refresh.
type refreshMsg time.Time

// selectionDoneMsg reports a finished selection transition.
type selectionDoneMsg struct {
	resource library.Resource
	err      error
}

func scheduleRefresh() tea.Cmd {
	return tea.Tick(refreshInterval(), func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

// Init starts the presentation refresh loop.
func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, scheduleRefresh())
}

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case error:
		b.raiseError(msg)
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case refreshMsg:
		b.refreshSnapshot()
		return b, scheduleRefresh()
	case selectionDoneMsg:
		b.opening = false
		if msg.err != nil {
			b.raiseError(msg.err)
			return b, nil
		}

		b.refreshSnapshot()
		b.rateIdx = defaultRateIdx(b.controller.Rates())
		if msg.resource.Kind.AudioVisual() {
			b.newState(playerState)
		} else {
			b.newState(documentState)
		}
		return b, nil
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
	}

	switch b.state {
	case libraryState:
		return b.updateLibrary(msg)
	case searchState:
		return b.updateSearch(msg)
	case playerState:
		return b.updatePlayer(msg)
	case documentState:
		return b.updateDocument(msg)
	case notesState:
		return b.updateNotes(msg)
	case errorState:
		return b.updateError(msg)
	}

	return b, cmd
}

func (b *statefulBubble) updateLibrary(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			res, ok := b.selectedResource()
			if !ok || b.opening {
				return b, nil
			}
			b.opening = true
			return b, b.selectResource(res)
		case bubblesKey.Matches(msg, b.keymap.search):
			b.inputC.SetValue("")
			b.inputC.Focus()
			b.searchSuggestion = b.suggest("")
			b.newState(searchState)
			return b, textinput.Blink
		case bubblesKey.Matches(msg, b.keymap.notes):
			b.notesC.SetValue(b.pad.Content())
			b.notesC.Focus()
			b.newState(notesState)
			return b, textarea.Blink
		case bubblesKey.Matches(msg, b.keymap.openExternal):
			if res, ok := b.selectedResource(); ok {
				if err := open.Start(res.Path); err != nil {
					log.Warnf("open externally: %s", err)
				}
			}
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.back):
			// Back on a filtered library restores the full listing.
			b.setLibraryItems(b.resources)
			b.libraryC.ResetSelected()
			return b, nil
		}
	}

	b.libraryC, cmd = b.libraryC.Update(msg)
	return b, cmd
}

// selectResource opens the resource off the update loop so a slow engine open
// never freezes the interface. The result arrives as a selectionDoneMsg.
func (b *statefulBubble) selectResource(res library.Resource) tea.Cmd {
	return func() tea.Msg {
		return selectionDoneMsg{resource: res, err: b.controller.Select(res)}
	}
}

func defaultRateIdx(rates []float64) int {
	for i, rate := range rates {
		if rate == 1.0 {
			return i
		}
	}
	return 0
}

func (b *statefulBubble) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.inputC.SetValue("")
			b.inputC.Blur()
			b.previousState()
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.acceptSearchSuggestion):
			if suggestion, ok := b.searchSuggestion.Get(); ok {
				b.inputC.SetValue(suggestion)
				b.inputC.CursorEnd()
			}
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.confirm):
			q := b.inputC.Value()
			if q != "" {
				if err := query.Remember(q, 1); err != nil {
					log.Warnf("remember query: %s", err)
				}
			}
			b.setLibraryItems(library.Filter(b.resources, q))
			b.libraryC.ResetSelected()
			b.inputC.Blur()
			b.previousState()
			return b, nil
		}
	}

	b.inputC, cmd = b.inputC.Update(msg)
	b.searchSuggestion = b.suggest(b.inputC.Value())
	return b, cmd
}

func (b *statefulBubble) suggest(q string) mo.Option[string] {
	return query.Suggest(q)
}

func (b *statefulBubble) updatePlayer(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.playPause):
			if err := b.controller.TogglePlayPause(); err != nil {
				b.statusMessage = err.Error()
			}
		case bubblesKey.Matches(msg, b.keymap.seekForward):
			if err := b.controller.SkipBy(seekStepMs); err != nil {
				b.statusMessage = err.Error()
			}
		case bubblesKey.Matches(msg, b.keymap.seekBack):
			if err := b.controller.SkipBy(-seekStepMs); err != nil {
				b.statusMessage = err.Error()
			}
		case bubblesKey.Matches(msg, b.keymap.rateUp):
			b.changeRate(+1)
		case bubblesKey.Matches(msg, b.keymap.rateDown):
			b.changeRate(-1)
		case bubblesKey.Matches(msg, b.keymap.back):
			// Playback continues in the background; the list reflects flushed progress.
			b.previousState()
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		}
		b.refreshSnapshot()
	}
	return b, nil
}

// changeRate steps through the configured rate table. A rejected change keeps
// both the engine rate and the displayed index where they were.
func (b *statefulBubble) changeRate(delta int) {
	rates := b.controller.Rates()
	if len(rates) == 0 {
		return
	}

	idx := b.rateIdx + delta
	if idx < 0 || idx >= len(rates) {
		return
	}

	if err := b.controller.SetRate(rates[idx]); err != nil {
		b.statusMessage = err.Error()
		return
	}
	b.rateIdx = idx
	b.statusMessage = ""
}

func (b *statefulBubble) updateDocument(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.nextPage):
			if err := b.controller.NextPage(); err != nil {
				b.statusMessage = err.Error()
			}
		case bubblesKey.Matches(msg, b.keymap.prevPage):
			if err := b.controller.PreviousPage(); err != nil {
				b.statusMessage = err.Error()
			}
		case bubblesKey.Matches(msg, b.keymap.zoomIn):
			if err := b.controller.ZoomIn(); err != nil {
				b.statusMessage = err.Error()
			}
		case bubblesKey.Matches(msg, b.keymap.zoomOut):
			if err := b.controller.ZoomOut(); err != nil {
				b.statusMessage = err.Error()
			}
		case bubblesKey.Matches(msg, b.keymap.openExternal):
			if res := b.snapshot.Resource; res.Path != "" {
				if err := open.Start(res.Path); err != nil {
					log.Warnf("open externally: %s", err)
				}
			}
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		}
		b.refreshSnapshot()
	}
	return b, nil
}

func (b *statefulBubble) updateNotes(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.saveNote):
			if err := b.saveNote(); err != nil {
				b.statusMessage = err.Error()
			} else {
				b.statusMessage = "saved " + b.pad.Title()
			}
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.back):
			b.notesC.Blur()
			b.previousState()
			return b, nil
		}
	}

	b.notesC, cmd = b.notesC.Update(msg)
	b.pad.SetContent(b.notesC.Value())
	return b, cmd
}

// saveNote writes the pad, binding an untitled pad to the default note file in the library root.
func (b *statefulBubble) saveNote() error {
	return b.pad.SaveDefault(where.Notes(viper.GetString(key.LibraryPath)))
}

func (b *statefulBubble) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.lastError = nil
			b.previousState()
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		}
	}
	return b, nil
}
