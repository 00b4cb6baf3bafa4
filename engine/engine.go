// Package engine defines the contracts between the session controller and the
// external playback and rendering subsystems.
//
// Engines are black boxes: the media engine decodes and plays audio-visual
// files, the document engine rasterizes paged documents. The controller only
// depends on these interfaces, so real subprocess-backed engines and scripted
// test fakes are interchangeable.
package engine

import "image"

// State is the transport state reported by a media handle.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
	StateEnded
	StateBuffering
	StateError
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	case StateBuffering:
		return "buffering"
	case StateError:
		return "error"
	default:
		return "stopped"
	}
}

// Active reports whether the handle is in a state that accepts rate changes
// and is worth persisting progress for.
func (s State) Active() bool {
	return s == StatePlaying || s == StatePaused
}

// Media acquires playback handles for audio-visual resources.
type Media interface {
	Open(path string) (MediaHandle, error)
}

// MediaHandle is an exclusively-owned live playback binding.
// All positions and durations are in milliseconds; a zero duration means unknown.
type MediaHandle interface {
	Play() error
	Pause() error
	Stop()

	Seek(ms int64) error
	SetRate(multiplier float64) error

	Position() int64
	Duration() int64
	State() State
	Seekable() bool

	// Release stops playback and frees the underlying engine resources.
	// It is idempotent.
	Release()
}

// Document acquires rendering handles for paged-document resources.
type Document interface {
	Open(path string) (DocumentHandle, error)
}

// DocumentHandle is an exclusively-owned open document.
type DocumentHandle interface {
	PageCount() int
	RenderPage(index int, zoom float64) (image.Image, error)
	Close() error
}
