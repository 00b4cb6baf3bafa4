// Package session implements the active session state machine: at most one
// resource is open at a time, selection transitions are atomic, and progress
// is flushed into the timestamp store before any handle is released.
package session

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/librarium-app/librarium/engine"
	"github.com/librarium-app/librarium/library"
	"github.com/librarium-app/librarium/log"
	"github.com/librarium-app/librarium/timestamp"
)

// Mode is the controller's top-level state.
type Mode int

const (
	ModeIdle Mode = iota
	ModeAudioVisual
	ModePagedDocument
)

func (m Mode) String() string {
	switch m {
	case ModeAudioVisual:
		return "audio-visual"
	case ModePagedDocument:
		return "paged-document"
	default:
		return "idle"
	}
}

// durationWait bounds the post-open wait for the engine to report a usable
// duration before position restore proceeds without it.
var (
	durationWaitRetries = 30
	durationWaitDelay   = 100 * time.Millisecond
)

// seekTailGuard keeps seek targets short of end-of-media so a seek never
// lands exactly on the end.
const seekTailGuard = 100

// Options carries the tunables the controller reads once at construction.
type Options struct {
	// TrailingMargin is the finished-window in milliseconds: positions within
	// this distance of a known end normalize to position 0, finished true.
	TrailingMargin int64

	// ZoomSteps is the ascending table of supported document zoom multipliers.
	ZoomSteps []float64

	// Rates is the table of playback rate multipliers offered to the user.
	Rates []float64
}

// Controller owns the single active session. Every operation takes the one
// mutex, so transitions, transport commands and synchronizer flushes are
// serialized against each other.
type Controller struct {
	mu sync.Mutex

	media engine.Media
	docs  engine.Document
	store *timestamp.Store
	opts  Options

	records map[string]*timestamp.Record

	mode     Mode
	resource library.Resource
	handle   engine.MediaHandle
	doc      engine.DocumentHandle
	rate     float64

	page      int
	pageCount int
	zoomIdx   int
	rendered  image.Image

	lastErr   string
	selecting bool
	closed    bool
}

// New loads the store and returns an idle controller. A missing or degraded
// engine (nil) disables the corresponding resource kind but not the session.
// A malformed store is recoverable: it logs and starts empty.
func New(media engine.Media, docs engine.Document, store *timestamp.Store, opts Options) *Controller {
	records, err := store.Load()
	if err != nil {
		log.Warnf("timestamp store unreadable, starting empty: %s", err)
	}

	if opts.TrailingMargin <= 0 {
		opts.TrailingMargin = 2000
	}
	if len(opts.ZoomSteps) == 0 {
		opts.ZoomSteps = []float64{1.0}
	}

	return &Controller{
		media:   media,
		docs:    docs,
		store:   store,
		opts:    opts,
		records: records,
		rate:    1.0,
	}
}

// Select atomically switches the session to the given resource: the previous
// session is flushed and released first, then the target is opened, its stored
// progress restored, and playback or rendering begins. The engine open and the
// bounded duration wait run outside the lock so snapshots and flushes stay
// responsive during a slow open. Any failure after the old session is gone
// leaves the controller idle; prior progress is already durable by then.
func (c *Controller) Select(res library.Resource) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("session is shut down")
	}
	if c.selecting {
		c.mu.Unlock()
		return fmt.Errorf("another selection is in progress")
	}
	c.selecting = true
	c.flushLocked()
	c.releaseLocked()
	rec := c.recordCopyLocked(res.Path)
	c.mu.Unlock()

	var (
		o   opening
		err error
	)
	switch {
	case res.Kind.AudioVisual():
		o.handle, err = c.openMedia(res, rec)
	case res.Kind == library.KindDocument:
		err = c.openDocument(res, rec, &o)
	default:
		err = fmt.Errorf("unsupported resource %q", res.Name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.selecting = false

	if err != nil {
		c.lastErr = err.Error()
		return err
	}
	if c.closed {
		// Shutdown won the race; the freshly opened session never goes live.
		o.discard()
		return fmt.Errorf("session is shut down")
	}

	c.resource = res
	if o.handle != nil {
		c.mode = ModeAudioVisual
		c.handle = o.handle
		c.rate = 1.0
	} else {
		c.mode = ModePagedDocument
		c.doc = o.doc
		c.page = o.page
		c.pageCount = o.pageCount
		c.zoomIdx = o.zoomIdx
		c.rendered = o.rendered
	}
	c.lastErr = ""
	return nil
}

// opening carries the result of an engine open performed outside the lock.
type opening struct {
	handle engine.MediaHandle

	doc       engine.DocumentHandle
	page      int
	pageCount int
	zoomIdx   int
	rendered  image.Image
}

// discard releases engine resources that never became the active session.
func (o *opening) discard() {
	if o.handle != nil {
		o.handle.Release()
	}
	if o.doc != nil {
		_ = o.doc.Close()
	}
}

// recordCopyLocked returns a copy of the stored record, or nil.
func (c *Controller) recordCopyLocked(path string) *timestamp.Record {
	rec, ok := c.records[path]
	if !ok {
		return nil
	}
	copied := *rec
	return &copied
}

func (c *Controller) openMedia(res library.Resource, rec *timestamp.Record) (engine.MediaHandle, error) {
	if c.media == nil {
		return nil, fmt.Errorf("playback unavailable: no media engine")
	}

	handle, err := c.media.Open(res.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", res.Name, err)
	}

	if rec.Resumable() {
		if waitForDuration(handle) {
			if err := handle.Seek(rec.Position); err != nil {
				log.Warnf("restore position for %s: %s", res.Name, err)
			}
		} else {
			log.Warnf("duration for %s never became available, starting from the beginning", res.Name)
		}
	}

	if err := handle.Play(); err != nil {
		handle.Release()
		return nil, fmt.Errorf("start playback of %s: %w", res.Name, err)
	}
	return handle, nil
}

func (c *Controller) openDocument(res library.Resource, rec *timestamp.Record, o *opening) error {
	if c.docs == nil {
		return fmt.Errorf("document viewing unavailable: no document engine")
	}

	doc, err := c.docs.Open(res.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", res.Name, err)
	}

	pageCount := doc.PageCount()
	if pageCount <= 0 {
		_ = doc.Close()
		return fmt.Errorf("open %s: document has no pages", res.Name)
	}

	page := 0
	zoomIdx := nearestStep(c.opts.ZoomSteps, 1.0)
	if rec != nil {
		page = clampPage(rec.Page, pageCount)
		if rec.Zoom > 0 {
			zoomIdx = nearestStep(c.opts.ZoomSteps, rec.Zoom)
		}
	}

	img, err := doc.RenderPage(page, c.opts.ZoomSteps[zoomIdx])
	if err != nil {
		_ = doc.Close()
		return fmt.Errorf("render %s: %w", res.Name, err)
	}

	o.doc = doc
	o.page = page
	o.pageCount = pageCount
	o.zoomIdx = zoomIdx
	o.rendered = img
	return nil
}

// waitForDuration polls the handle until it reports a known duration, giving
// up after a bounded number of attempts rather than blocking indefinitely.
func waitForDuration(handle engine.MediaHandle) bool {
	for i := 0; i < durationWaitRetries; i++ {
		if handle.Duration() > 0 {
			return true
		}
		time.Sleep(durationWaitDelay)
	}
	return handle.Duration() > 0
}

// TogglePlayPause flips the transport. Pausing flushes immediately so a pause
// point survives a crash; playing after end-of-media restarts from the stored
// position (which normalization has reset to the beginning).
func (c *Controller) TogglePlayPause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModeAudioVisual {
		return fmt.Errorf("no audio-visual session")
	}

	switch c.handle.State() {
	case engine.StatePlaying:
		if err := c.handle.Pause(); err != nil {
			return fmt.Errorf("pause: %w", err)
		}
		c.flushLocked()
		return nil
	case engine.StateEnded:
		if rec := c.records[c.resource.Path]; rec.Resumable() {
			if err := c.handle.Seek(rec.Position); err != nil {
				log.Warnf("restore position for %s: %s", c.resource.Name, err)
			}
		}
		return c.handle.Play()
	default:
		return c.handle.Play()
	}
}

// SeekTo moves playback to an absolute position, clamped so the target never
// lands on or past end-of-media. A seek is flushed immediately.
func (c *Controller) SeekTo(ms int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModeAudioVisual {
		return fmt.Errorf("no audio-visual session")
	}

	if ms < 0 {
		ms = 0
	}
	if duration := c.handle.Duration(); duration > 0 && ms > duration-seekTailGuard {
		ms = duration - seekTailGuard
		if ms < 0 {
			ms = 0
		}
	}

	if err := c.handle.Seek(ms); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	c.flushLocked()
	return nil
}

// SkipBy seeks relative to the current position.
func (c *Controller) SkipBy(deltaMs int64) error {
	c.mu.Lock()
	target := int64(0)
	if c.mode == ModeAudioVisual {
		target = c.handle.Position() + deltaMs
	}
	c.mu.Unlock()
	return c.SeekTo(target)
}

// SetRate changes the playback rate. It is accepted only while the engine
// reports a playing or paused state; a rejected change leaves the previously
// selected rate in place.
func (c *Controller) SetRate(multiplier float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModeAudioVisual {
		return fmt.Errorf("no audio-visual session")
	}
	if !c.handle.State().Active() {
		return fmt.Errorf("rate change rejected: transport is %s", c.handle.State())
	}
	if err := c.handle.SetRate(multiplier); err != nil {
		return fmt.Errorf("set rate: %w", err)
	}
	c.rate = multiplier
	return nil
}

// NextPage advances one page, a no-op at the last page.
func (c *Controller) NextPage() error {
	return c.setPage(+1)
}

// PreviousPage steps back one page, a no-op at the first page.
func (c *Controller) PreviousPage() error {
	return c.setPage(-1)
}

func (c *Controller) setPage(delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModePagedDocument {
		return fmt.Errorf("no document session")
	}

	page := clampPage(c.page+delta, c.pageCount)
	if page == c.page {
		return nil
	}
	return c.rerenderLocked(page, c.zoomIdx)
}

// ZoomIn steps up the zoom table, clamping at the largest step.
func (c *Controller) ZoomIn() error {
	return c.setZoom(+1)
}

// ZoomOut steps down the zoom table, clamping at the smallest step.
func (c *Controller) ZoomOut() error {
	return c.setZoom(-1)
}

func (c *Controller) setZoom(delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModePagedDocument {
		return fmt.Errorf("no document session")
	}

	idx := c.zoomIdx + delta
	if idx < 0 || idx >= len(c.opts.ZoomSteps) {
		return nil
	}
	return c.rerenderLocked(c.page, idx)
}

// rerenderLocked applies a page/zoom change: the new frame is rendered before
// the session state moves, so a failed render leaves the old view intact.
func (c *Controller) rerenderLocked(page, zoomIdx int) error {
	img, err := c.doc.RenderPage(page, c.opts.ZoomSteps[zoomIdx])
	if err != nil {
		c.lastErr = err.Error()
		return fmt.Errorf("render page %d: %w", page+1, err)
	}
	c.page = page
	c.zoomIdx = zoomIdx
	c.rendered = img
	return nil
}

// Flush synchronously persists the active session's progress. It reports
// whether anything was written; an unchanged record skips the disk write.
func (c *Controller) Flush() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flushLocked()
}

func (c *Controller) flushLocked() (bool, error) {
	rec := c.currentRecordLocked()
	if rec == nil {
		return false, nil
	}

	prev := c.records[c.resource.Path]
	if prev != nil && sameProgress(prev, rec) {
		return false, nil
	}

	c.records[c.resource.Path] = rec
	if err := c.store.Save(c.records); err != nil {
		// Roll the map back to the last persisted state so the next flush
		// retries instead of deduplicating against an unsaved record.
		if prev != nil {
			c.records[c.resource.Path] = prev
		} else {
			delete(c.records, c.resource.Path)
		}
		log.Errorf("flush progress for %s: %s", c.resource.Name, err)
		return false, err
	}
	return true, nil
}

// currentRecordLocked reads the session into a fresh Record, applying the
// trailing-window normalization for audio-visual progress. Audio-visual
// progress is captured only while the engine is in a state worth trusting:
// playing, paused, or ended, with a known duration. Anything else (stopped,
// errored, or a duration that never became known so no restore happened)
// yields nil and the stored record survives untouched.
func (c *Controller) currentRecordLocked() *timestamp.Record {
	now := time.Now()

	switch c.mode {
	case ModeAudioVisual:
		state := c.handle.State()
		if !state.Active() && state != engine.StateEnded {
			return nil
		}
		position, duration := c.handle.Position(), c.handle.Duration()
		if duration <= 0 {
			return nil
		}
		normalized, finished := timestamp.Normalize(position, duration, c.opts.TrailingMargin)
		return &timestamp.Record{
			Position:   normalized,
			Duration:   duration,
			Finished:   finished,
			LastPlayed: now,
			Filename:   c.resource.Name,
		}
	case ModePagedDocument:
		return &timestamp.Record{
			Page:       c.page,
			Zoom:       c.opts.ZoomSteps[c.zoomIdx],
			LastOpened: now,
			Filename:   c.resource.Name,
		}
	default:
		return nil
	}
}

// sameProgress ignores the last-played/last-opened clocks: a flush whose only
// change is the wall time is not worth a disk write.
func sameProgress(a, b *timestamp.Record) bool {
	return a.Position == b.Position &&
		a.Duration == b.Duration &&
		a.Finished == b.Finished &&
		a.Page == b.Page &&
		a.Zoom == b.Zoom &&
		a.Filename == b.Filename
}

func (c *Controller) releaseLocked() {
	if c.handle != nil {
		c.handle.Release()
		c.handle = nil
	}
	if c.doc != nil {
		if err := c.doc.Close(); err != nil {
			log.Warnf("close document: %s", err)
		}
		c.doc = nil
	}
	c.mode = ModeIdle
	c.resource = library.Resource{}
	c.rendered = nil
	c.page = 0
	c.pageCount = 0
	c.rate = 1.0
}

// Shutdown flushes and releases the active session, then persists the store
// synchronously. The controller refuses further transitions afterwards.
// Offering save/discard/cancel for unsaved notes is the caller's job and must
// happen before Shutdown; cancel means never calling it.
func (c *Controller) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	_, flushErr := c.flushLocked()
	c.releaseLocked()
	c.closed = true

	if err := c.store.Save(c.records); err != nil {
		return fmt.Errorf("persist timestamp store: %w", err)
	}
	return flushErr
}

// Progress returns a copy of the stored record for a resource identity.
func (c *Controller) Progress(path string) (timestamp.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.records[path]
	if !ok {
		return timestamp.Record{}, false
	}
	return *rec, true
}

// RenderedPage returns the most recent document render, or nil.
func (c *Controller) RenderedPage() image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rendered
}

// Rates returns the playback rate table the controller was configured with.
func (c *Controller) Rates() []float64 {
	return c.opts.Rates
}

// Snapshot is a point-in-time copy of the observable session state.
type Snapshot struct {
	Mode     Mode
	Resource library.Resource

	// Audio-visual fields.
	State    engine.State
	Playing  bool
	Position int64
	Duration int64
	Rate     float64

	// Paged-document fields.
	Page      int
	PageCount int
	Zoom      float64

	// Err is the last transition error, for the status line.
	Err string
}

// Snapshot reads the observable session state under the lock.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Mode:     c.mode,
		Resource: c.resource,
		Err:      c.lastErr,
	}

	switch c.mode {
	case ModeAudioVisual:
		state := c.handle.State()
		snap.State = state
		snap.Playing = state == engine.StatePlaying
		snap.Position = c.handle.Position()
		snap.Duration = c.handle.Duration()
		snap.Rate = c.rate
	case ModePagedDocument:
		snap.Page = c.page
		snap.PageCount = c.pageCount
		snap.Zoom = c.opts.ZoomSteps[c.zoomIdx]
	}
	return snap
}

func clampPage(page, pageCount int) int {
	if page < 0 {
		return 0
	}
	if page >= pageCount {
		return pageCount - 1
	}
	return page
}

// nearestStep returns the index of the step closest to the wanted value.
func nearestStep(steps []float64, want float64) int {
	best := 0
	for i, step := range steps {
		if diff := step - want; diff*diff < (steps[best]-want)*(steps[best]-want) {
			best = i
		}
	}
	return best
}
