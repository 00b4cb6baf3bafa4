// Package syncer runs the periodic progress flush and the faster presentation
// refresh. Durable writes and visual updates are decoupled cadences: the store
// is only touched by the flush ticker, never by the refresh one.
package syncer

import (
	"context"
	"time"

	"github.com/librarium-app/librarium/log"
	"github.com/librarium-app/librarium/session"
)

// Syncer drives a session controller on two independent tickers.
type Syncer struct {
	ctrl         *session.Controller
	flushEvery   time.Duration
	refreshEvery time.Duration
	onRefresh    func(session.Snapshot)
}

// New returns a syncer flushing and refreshing at the given intervals.
// onRefresh may be nil when no presentation surface is attached.
func New(ctrl *session.Controller, flushEvery, refreshEvery time.Duration, onRefresh func(session.Snapshot)) *Syncer {
	if flushEvery <= 0 {
		flushEvery = 5 * time.Second
	}
	if refreshEvery <= 0 {
		refreshEvery = 500 * time.Millisecond
	}
	return &Syncer{
		ctrl:         ctrl,
		flushEvery:   flushEvery,
		refreshEvery: refreshEvery,
		onRefresh:    onRefresh,
	}
}

// Run blocks until the context is cancelled. Flush failures are logged and
// retried on the next tick; they never stop the loop.
func (s *Syncer) Run(ctx context.Context) {
	flush := time.NewTicker(s.flushEvery)
	defer flush.Stop()

	refresh := time.NewTicker(s.refreshEvery)
	defer refresh.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-flush.C:
			s.flushOnce()
		case <-refresh.C:
			if s.onRefresh != nil {
				s.onRefresh(s.ctrl.Snapshot())
			}
		}
	}
}

// flushOnce persists the active session when it is worth persisting: an
// audio-visual session only while playing, a document session on every tick.
// The controller skips the disk write when nothing changed.
func (s *Syncer) flushOnce() {
	snap := s.ctrl.Snapshot()

	switch snap.Mode {
	case session.ModeAudioVisual:
		if !snap.Playing {
			return
		}
	case session.ModePagedDocument:
	default:
		return
	}

	if _, err := s.ctrl.Flush(); err != nil {
		log.Warnf("periodic flush failed: %s", err)
	}
}
