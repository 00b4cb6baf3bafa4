package syncer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/librarium-app/librarium/engine/enginetest"
	"github.com/librarium-app/librarium/filesystem"
	"github.com/librarium-app/librarium/library"
	"github.com/librarium-app/librarium/session"
	"github.com/librarium-app/librarium/timestamp"
	. "github.com/smartystreets/goconvey/convey"
)

func newSession(t *testing.T, media *enginetest.Media, docs *enginetest.Document) (*session.Controller, *timestamp.Store) {
	t.Helper()
	filesystem.SetMemMapFs()

	store := timestamp.New("/library/timestamps.json")
	ctrl := session.New(media, docs, store, session.Options{
		TrailingMargin: 2000,
		ZoomSteps:      []float64{0.5, 1.0, 2.0},
	})
	return ctrl, store
}

func TestPeriodicFlush(t *testing.T) {
	Convey("The flush ticker", t, func() {
		media := enginetest.NewMedia()
		media.Durations["/library/track.mp3"] = 120000

		Convey("persists a playing session", func() {
			ctrl, store := newSession(t, media, nil)
			So(ctrl.Select(library.NewResource("/library/track.mp3")), ShouldBeNil)
			media.Handle("/library/track.mp3").AdvanceTo(30000)

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				New(ctrl, 10*time.Millisecond, time.Hour, nil).Run(ctx)
				close(done)
			}()

			time.Sleep(60 * time.Millisecond)
			cancel()
			<-done

			records, err := store.Load()
			So(err, ShouldBeNil)
			So(records["/library/track.mp3"].Position, ShouldEqual, 30000)
		})

		Convey("skips a paused session", func() {
			ctrl, store := newSession(t, media, nil)
			So(ctrl.Select(library.NewResource("/library/track.mp3")), ShouldBeNil)

			// Pause flushes once at 10000 on its own.
			media.Handle("/library/track.mp3").AdvanceTo(10000)
			So(ctrl.TogglePlayPause(), ShouldBeNil)
			media.Handle("/library/track.mp3").AdvanceTo(20000)

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				New(ctrl, 10*time.Millisecond, time.Hour, nil).Run(ctx)
				close(done)
			}()

			time.Sleep(60 * time.Millisecond)
			cancel()
			<-done

			records, err := store.Load()
			So(err, ShouldBeNil)
			So(records["/library/track.mp3"].Position, ShouldEqual, 10000)
		})

		Convey("persists document page and zoom without a playing gate", func() {
			docs := enginetest.NewDocument()
			docs.Pages["/library/book.pdf"] = 5
			ctrl, store := newSession(t, nil, docs)
			So(ctrl.Select(library.NewResource("/library/book.pdf")), ShouldBeNil)
			So(ctrl.NextPage(), ShouldBeNil)

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				New(ctrl, 10*time.Millisecond, time.Hour, nil).Run(ctx)
				close(done)
			}()

			time.Sleep(60 * time.Millisecond)
			cancel()
			<-done

			records, err := store.Load()
			So(err, ShouldBeNil)
			So(records["/library/book.pdf"].Page, ShouldEqual, 1)
			So(records["/library/book.pdf"].LastOpened.IsZero(), ShouldBeFalse)
		})
	})
}

func TestRefreshTicker(t *testing.T) {
	Convey("The refresh ticker pushes snapshots without touching the store", t, func() {
		media := enginetest.NewMedia()
		media.Durations["/library/track.mp3"] = 120000
		ctrl, store := newSession(t, media, nil)
		So(ctrl.Select(library.NewResource("/library/track.mp3")), ShouldBeNil)
		media.Handle("/library/track.mp3").AdvanceTo(15000)

		var refreshes atomic.Int64
		var last atomic.Value

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			New(ctrl, time.Hour, 5*time.Millisecond, func(snap session.Snapshot) {
				refreshes.Add(1)
				last.Store(snap)
			}).Run(ctx)
			close(done)
		}()

		time.Sleep(60 * time.Millisecond)
		cancel()
		<-done

		So(refreshes.Load(), ShouldBeGreaterThan, 1)
		snap := last.Load().(session.Snapshot)
		So(snap.Position, ShouldEqual, 15000)

		records, err := store.Load()
		So(err, ShouldBeNil)
		So(records, ShouldBeEmpty)
	})
}

func TestRunStopsAfterShutdown(t *testing.T) {
	Convey("Tickers no-op safely against a shut-down session", t, func() {
		media := enginetest.NewMedia()
		media.Durations["/library/track.mp3"] = 120000
		ctrl, _ := newSession(t, media, nil)
		So(ctrl.Select(library.NewResource("/library/track.mp3")), ShouldBeNil)
		So(ctrl.Shutdown(), ShouldBeNil)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			New(ctrl, 5*time.Millisecond, 5*time.Millisecond, func(session.Snapshot) {}).Run(ctx)
			close(done)
		}()

		time.Sleep(30 * time.Millisecond)
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("syncer did not stop")
		}
	})
}
