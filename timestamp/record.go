// Package timestamp provides the durable per-resource progress store backing resume-on-reopen.
package timestamp

import "time"

// Record is the persisted resume metadata for one resource.
//
// A single record type carries both variants; which fields are meaningful is
// inferred from the resource kind at the call site and never stored. Field
// names mirror the on-disk store schema so existing stores round-trip intact.
type Record struct {
	// Audio-visual fields.
	Position   int64     `json:"position,omitempty"`
	Duration   int64     `json:"duration,omitempty"`
	LastPlayed time.Time `json:"last_played"`
	Finished   bool      `json:"finished,omitempty"`

	// Paged-document fields.
	LastOpened time.Time `json:"last_opened"`
	Page       int       `json:"pdf_page,omitempty"`
	Zoom       float64   `json:"pdf_zoom,omitempty"`

	// Filename is the display name, kept for listing without touching the filesystem.
	Filename string `json:"filename,omitempty"`
}

// Normalize applies the trailing-window rule: a position within margin of a
// known end is rewritten as position 0 with the finished flag set, so a
// completed item restarts rather than resumes. Positions are never allowed to
// reach the duration.
func Normalize(position, duration, margin int64) (int64, bool) {
	if position < 0 {
		position = 0
	}
	if duration > 0 && position >= duration-margin {
		return 0, true
	}
	return position, false
}

// Resumable reports whether the record holds a position worth restoring:
// strictly between zero and a known duration.
func (r *Record) Resumable() bool {
	if r == nil {
		return false
	}
	return r.Duration > 0 && r.Position > 0 && r.Position < r.Duration
}

// Fraction returns playback completion in [0, 1], or 0 when the duration is unknown.
func (r *Record) Fraction() float64 {
	if r == nil || r.Duration <= 0 {
		return 0
	}
	f := float64(r.Position) / float64(r.Duration)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
