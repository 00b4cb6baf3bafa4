// Package enginetest provides scripted in-memory engines for exercising the
// session controller and progress synchronizer without real subprocesses.
package enginetest

import (
	"fmt"
	"image"
	"sync"

	"github.com/librarium-app/librarium/engine"
)

// Media is a scripted media engine. Durations are configured per path;
// handles advance their position only when the test tells them to.
type Media struct {
	mu sync.Mutex

	// Durations maps a path to the duration its handle reports. A missing
	// entry means the handle reports an unknown (zero) duration.
	Durations map[string]int64

	// DurationAfterPolls delays duration availability: the handle reports 0
	// until Position/Duration have been queried this many times.
	DurationAfterPolls int

	// FailOpen makes Open return an error for the given paths.
	FailOpen map[string]bool

	// Opened and Released count handle lifecycle events in order.
	Opened   []string
	Released []string

	live map[string]*MediaHandle
}

// NewMedia returns an empty scripted media engine.
func NewMedia() *Media {
	return &Media{
		Durations: make(map[string]int64),
		FailOpen:  make(map[string]bool),
		live:      make(map[string]*MediaHandle),
	}
}

// Open acquires a fake handle, tracking it for the single-handle invariant.
func (m *Media) Open(path string) (engine.MediaHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailOpen[path] {
		return nil, fmt.Errorf("open %s: unsupported media", path)
	}
	if len(m.live) > 0 {
		return nil, fmt.Errorf("open %s: a handle is already open", path)
	}

	h := &MediaHandle{
		parent:    m,
		path:      path,
		duration:  m.Durations[path],
		pollDelay: m.DurationAfterPolls,
		seekable:  true,
	}
	m.live[path] = h
	m.Opened = append(m.Opened, path)
	return h, nil
}

// LiveHandles returns the number of currently open handles.
func (m *Media) LiveHandles() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// Handle returns the live handle for a path, or nil.
func (m *Media) Handle(path string) *MediaHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live[path]
}

// MediaHandle is the scripted playback binding produced by Media.
type MediaHandle struct {
	mu        sync.Mutex
	parent    *Media
	path      string
	position  int64
	duration  int64
	pollDelay int
	state     engine.State
	rate      float64
	seekable  bool
	released  bool

	// RejectRate makes SetRate fail, mimicking an engine that refuses the change.
	RejectRate bool
}

func (h *MediaHandle) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == engine.StateEnded {
		h.position = 0
	}
	h.state = engine.StatePlaying
	return nil
}

func (h *MediaHandle) Pause() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = engine.StatePaused
	return nil
}

func (h *MediaHandle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = engine.StateStopped
}

func (h *MediaHandle) Seek(ms int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.seekable {
		return fmt.Errorf("seek %s: not seekable", h.path)
	}
	h.position = ms
	return nil
}

func (h *MediaHandle) SetRate(multiplier float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.RejectRate {
		return fmt.Errorf("set rate %s: rejected", h.path)
	}
	h.rate = multiplier
	return nil
}

func (h *MediaHandle) Position() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tickPoll()
	return h.position
}

func (h *MediaHandle) Duration() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tickPoll()
	if h.pollDelay > 0 {
		return 0
	}
	return h.duration
}

func (h *MediaHandle) State() engine.State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *MediaHandle) Seekable() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.seekable
}

func (h *MediaHandle) Release() {
	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return
	}
	h.released = true
	h.state = engine.StateStopped
	h.mu.Unlock()

	h.parent.mu.Lock()
	delete(h.parent.live, h.path)
	h.parent.Released = append(h.parent.Released, h.path)
	h.parent.mu.Unlock()
}

// Rate returns the last accepted playback rate.
func (h *MediaHandle) Rate() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rate
}

// IsReleased reports whether the handle has been released.
func (h *MediaHandle) IsReleased() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// AdvanceTo moves the playhead, simulating elapsed playback.
func (h *MediaHandle) AdvanceTo(ms int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.position = ms
}

// FinishPlayback drives the handle into the engine's ended state.
func (h *MediaHandle) FinishPlayback() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.position = h.duration
	h.state = engine.StateEnded
}

func (h *MediaHandle) tickPoll() {
	if h.pollDelay > 0 {
		h.pollDelay--
	}
}

// Document is a scripted document engine with configured page counts.
type Document struct {
	mu sync.Mutex

	Pages    map[string]int
	FailOpen map[string]bool

	Opened []string
	Closed []string

	live map[string]*DocumentHandle
}

// NewDocument returns an empty scripted document engine.
func NewDocument() *Document {
	return &Document{
		Pages:    make(map[string]int),
		FailOpen: make(map[string]bool),
		live:     make(map[string]*DocumentHandle),
	}
}

// Open acquires a fake document handle.
func (d *Document) Open(path string) (engine.DocumentHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.FailOpen[path] {
		return nil, fmt.Errorf("open %s: corrupt document", path)
	}
	if len(d.live) > 0 {
		return nil, fmt.Errorf("open %s: a handle is already open", path)
	}

	h := &DocumentHandle{parent: d, path: path, pages: d.Pages[path]}
	d.live[path] = h
	d.Opened = append(d.Opened, path)
	return h, nil
}

// LiveHandles returns the number of currently open handles.
func (d *Document) LiveHandles() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.live)
}

// Handle returns the live handle for a path, or nil.
func (d *Document) Handle(path string) *DocumentHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.live[path]
}

// DocumentHandle is the scripted document binding produced by Document.
type DocumentHandle struct {
	mu     sync.Mutex
	parent *Document
	path   string
	pages  int
	closed bool

	// Renders records every (page, zoom) render request in order.
	Renders []Render
}

// Render is a single recorded render request.
type Render struct {
	Page int
	Zoom float64
}

func (h *DocumentHandle) PageCount() int {
	return h.pages
}

func (h *DocumentHandle) RenderPage(index int, zoom float64) (image.Image, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, fmt.Errorf("render %s: document closed", h.path)
	}
	if index < 0 || index >= h.pages {
		return nil, fmt.Errorf("render %s: page %d out of range", h.path, index)
	}
	h.Renders = append(h.Renders, Render{Page: index, Zoom: zoom})
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

func (h *DocumentHandle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()

	h.parent.mu.Lock()
	delete(h.parent.live, h.path)
	h.parent.Closed = append(h.parent.Closed, h.path)
	h.parent.mu.Unlock()
	return nil
}

// LastRender returns the most recent render request, or a zero Render.
func (h *DocumentHandle) LastRender() Render {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.Renders) == 0 {
		return Render{}
	}
	return h.Renders[len(h.Renders)-1]
}
