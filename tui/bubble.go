// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/librarium-app/librarium/constant"
	"github.com/librarium-app/librarium/key"
	"github.com/librarium-app/librarium/library"
	"github.com/librarium-app/librarium/notes"
	"github.com/librarium-app/librarium/session"
	"github.com/librarium-app/librarium/style"
	"github.com/librarium-app/librarium/timestamp"
	"github.com/librarium-app/librarium/util"
	"github.com/librarium-app/librarium/view"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// statefulBubble encapsulates the comprehensive application state, including component models and workflow tracking.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]

	keymap *statefulKeymap

	// components
	libraryC  list.Model
	inputC    textinput.Model
	notesC    textarea.Model
	progressC progress.Model
	helpC     help.Model

	controller *session.Controller
	pad        *notes.Pad

	resources []library.Resource
	snapshot  session.Snapshot
	projected view.View
	rateIdx   int
	opening   bool

	searchSuggestion mo.Option[string]
	statusMessage    string
	lastError        error

	width, height int

	options *Options
}

// raiseError dispatches a terminal error and transitions the application to the failure view.
func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

// setState performs a synchronous transition of both the application workflow and its associated keymap.
func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState facilitates an idempotent transition to a target state, recording the previous state in the navigation history.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}
	b.statesHistory.Push(b.state)
	b.setState(s)
}

// previousState restores the application to its immediate predecessor in the navigation stack.
func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		b.setState(b.statesHistory.Pop())
	}
}

// resize propagates terminal dimension changes to all child component models.
func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	b.libraryC.SetSize(width-xx, height-yy)
	b.libraryC.Help.Width = width - xx

	b.progressC.Width = width - x
	b.notesC.SetWidth(width - x)
	b.notesC.SetHeight(height - y - 6)

	b.width = width - x
	b.height = height - y
	b.helpC.Width = width - x
}

// refreshInterval is the presentation refresh cadence for the transport and document views.
func refreshInterval() time.Duration {
	ms := viper.GetInt(key.PlayerRefreshInterval)
	if ms <= 0 {
		ms = 500
	}
	return time.Duration(ms) * time.Millisecond
}

// loadLibrary scans the configured root and fills the library list.
func (b *statefulBubble) loadLibrary() error {
	resources, err := library.Scan(viper.GetString(key.LibraryPath))
	if err != nil {
		return err
	}

	b.resources = resources
	b.setLibraryItems(resources)
	return nil
}

// setLibraryItems rebuilds list items, pairing each resource with its stored progress.
func (b *statefulBubble) setLibraryItems(resources []library.Resource) {
	items := make([]list.Item, 0, len(resources))
	for _, res := range resources {
		progress := mo.None[timestamp.Record]()
		if rec, ok := b.controller.Progress(res.Path); ok {
			progress = mo.Some(rec)
		}
		items = append(items, &listItem{resource: res, progress: progress})
	}
	b.libraryC.SetItems(items)
}

// refreshSnapshot pulls the session state and projects it for rendering.
func (b *statefulBubble) refreshSnapshot() {
	b.snapshot = b.controller.Snapshot()
	b.projected = view.Project(b.snapshot)
}

// selectedResource returns the resource under the cursor.
func (b *statefulBubble) selectedResource() (library.Resource, bool) {
	item, ok := b.libraryC.SelectedItem().(*listItem)
	if !ok {
		return library.Resource{}, false
	}
	return item.resource, true
}

// newBubble performs a complete initialization of the application's primary UI model.
func newBubble(options *Options) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        keymap,
		controller:    options.Controller,
		pad:           options.Pad,
		options:       options,
	}

	makeList := func(title string, description bool, titleStyle mo.Option[lipgloss.Style]) list.Model {
		delegate := list.NewDefaultDelegate()
		delegate.ShowDescription = description
		delegate.SetHeight(3)
		delegate.Styles.SelectedTitle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(style.AccentColor).
			Foreground(style.AccentColor).
			Padding(0, 0, 0, 1)
		delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
		delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

		listC := list.New([]list.Item{}, delegate, 0, 0)
		listC.KeyMap = bubble.keymap.forList()
		listC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
		listC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
			return bubble.keymap.FullHelp()[0]
		}
		listC.Title = title
		listC.Styles.NoItems = paddingStyle
		if ts, ok := titleStyle.Get(); ok {
			listC.Styles.Title = ts
		}
		listC.SetShowPagination(false)
		listC.SetShowStatusBar(false)

		return listC
	}

	bubble.helpC = help.New()

	bubble.inputC = textinput.New()
	bubble.inputC.Placeholder = fmt.Sprintf("Search Library (v%s)", constant.Version)
	bubble.inputC.CharLimit = 60
	bubble.inputC.Prompt = viper.GetString(key.TUISearchPromptString)

	bubble.notesC = textarea.New()
	bubble.notesC.Placeholder = "Write a note..."
	bubble.notesC.CharLimit = 0

	bubble.progressC = progress.New(progress.WithDefaultGradient())

	bubble.libraryC = makeList("Library", true, mo.Some(
		lipgloss.NewStyle().Foreground(style.Base).Background(style.AccentColor).Padding(0, 1),
	))
	bubble.libraryC.SetStatusBarItemName("item", "items")

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return &bubble
}
