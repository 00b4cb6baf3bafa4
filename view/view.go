// Package view projects session state into the shapes the presentation
// surface renders. Projection is a pure function so presentation logic is
// testable without an engine or a display.
package view

import (
	"fmt"

	"github.com/librarium-app/librarium/session"
	"github.com/librarium-app/librarium/util"
)

// Kind discriminates the projected view variants.
type Kind int

const (
	None Kind = iota
	AudioVisual
	PagedDocument
)

// View is the renderable projection of one session snapshot.
type View struct {
	Kind Kind

	// Status is the last session error, empty when healthy.
	Status string

	AudioVisual   *AudioVisualView
	PagedDocument *PagedDocumentView
}

// AudioVisualView carries the transport indicators for a playing or paused resource.
type AudioVisualView struct {
	Title    string
	State    string
	Playing  bool
	Elapsed  string
	Total    string
	Fraction float64
	Rate     string
}

// PagedDocumentView carries the navigation indicators for an open document.
type PagedDocumentView struct {
	Title     string
	Page      int
	PageCount int
	PageLabel string
	ZoomLabel string
}

// Project maps a snapshot to its view. It never mutates the snapshot and has
// no side effects.
func Project(snap session.Snapshot) View {
	v := View{Status: snap.Err}

	switch snap.Mode {
	case session.ModeAudioVisual:
		v.Kind = AudioVisual
		fraction := 0.0
		if snap.Duration > 0 {
			fraction = float64(snap.Position) / float64(snap.Duration)
			if fraction > 1 {
				fraction = 1
			}
		}
		v.AudioVisual = &AudioVisualView{
			Title:    snap.Resource.Name,
			State:    snap.State.String(),
			Playing:  snap.Playing,
			Elapsed:  util.FormatClock(snap.Position),
			Total:    util.FormatClock(snap.Duration),
			Fraction: fraction,
			Rate:     formatRate(snap.Rate),
		}
	case session.ModePagedDocument:
		v.Kind = PagedDocument
		v.PagedDocument = &PagedDocumentView{
			Title:     snap.Resource.Name,
			Page:      snap.Page,
			PageCount: snap.PageCount,
			PageLabel: fmt.Sprintf("%d / %d", snap.Page+1, snap.PageCount),
			ZoomLabel: fmt.Sprintf("%d%%", int(snap.Zoom*100+0.5)),
		}
	}
	return v
}

func formatRate(rate float64) string {
	if rate == 0 {
		rate = 1
	}
	return fmt.Sprintf("%gx", rate)
}
