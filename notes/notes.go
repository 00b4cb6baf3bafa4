// Package notes models the free-form note pad: one UTF-8 text file at a time,
// with dirty tracking and the save/discard/cancel decision shutdown depends on.
package notes

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/librarium-app/librarium/filesystem"
	"github.com/librarium-app/librarium/log"
)

// UntitledName is the display title of a pad that has never been saved.
const UntitledName = "Untitled"

// Decision is the user's answer to the unsaved-changes prompt.
type Decision int

const (
	// DecisionSave writes the pad before proceeding.
	DecisionSave Decision = iota
	// DecisionDiscard drops the unsaved changes and proceeds.
	DecisionDiscard
	// DecisionCancel aborts the operation that raised the prompt.
	DecisionCancel
)

// Pad is the editable note buffer. A pad without a path is untitled and needs
// SaveAs before Save can succeed.
type Pad struct {
	mu      sync.Mutex
	path    string
	content string
	dirty   bool
}

// NewPad returns an empty untitled pad.
func NewPad() *Pad {
	return &Pad{}
}

// Open loads a text file into the pad, replacing its content and clearing the
// dirty flag. Confirming the loss of unsaved changes is the caller's job.
func (p *Pad) Open(path string) error {
	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return fmt.Errorf("open note %s: %w", path, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.path = path
	p.content = string(data)
	p.dirty = false

	log.Infof("opened note %s", filepath.Base(path))
	return nil
}

// Clear resets the pad to an empty untitled note.
func (p *Pad) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.path = ""
	p.content = ""
	p.dirty = false
}

// SetContent replaces the buffer, marking the pad dirty when the text changed.
func (p *Pad) SetContent(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if text == p.content {
		return
	}
	p.content = text
	p.dirty = true
}

// Content returns the current buffer.
func (p *Pad) Content() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.content
}

// Path returns the backing file, empty for an untitled pad.
func (p *Pad) Path() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.path
}

// Dirty reports whether the buffer differs from the file.
func (p *Pad) Dirty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dirty
}

// Title is the display name, with an asterisk while changes are unsaved.
func (p *Pad) Title() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	title := UntitledName
	if p.path != "" {
		title = filepath.Base(p.path)
	}
	if p.dirty {
		title += "*"
	}
	return title
}

// Save writes the buffer to the pad's file. An untitled pad cannot Save; the
// caller must pick a path with SaveAs first.
func (p *Pad) Save() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.path == "" {
		return fmt.Errorf("note has no file yet")
	}
	return p.saveLocked()
}

// SaveAs binds the pad to a path and writes it.
func (p *Pad) SaveAs(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.path = path
	return p.saveLocked()
}

// SaveDefault writes the pad, first binding an untitled pad to the given
// fallback path. A titled pad keeps its own file.
func (p *Pad) SaveDefault(fallback string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.path == "" {
		p.path = fallback
	}
	return p.saveLocked()
}

func (p *Pad) saveLocked() error {
	if err := filesystem.API().WriteFile(p.path, []byte(p.content), 0644); err != nil {
		return fmt.Errorf("save note %s: %w", p.path, err)
	}
	p.dirty = false
	log.Infof("saved note %s", filepath.Base(p.path))
	return nil
}

// Resolve applies an unsaved-changes decision. It reports whether the pending
// operation may proceed: cancel stops it, discard drops the changes, and save
// proceeds only when the write succeeds. A clean pad always proceeds.
func (p *Pad) Resolve(decision Decision) (bool, error) {
	if !p.Dirty() {
		return true, nil
	}

	switch decision {
	case DecisionSave:
		if err := p.Save(); err != nil {
			return false, err
		}
		return true, nil
	case DecisionDiscard:
		p.mu.Lock()
		p.dirty = false
		p.mu.Unlock()
		return true, nil
	default:
		return false, nil
	}
}
