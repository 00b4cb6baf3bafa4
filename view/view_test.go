package view

import (
	"testing"

	"github.com/librarium-app/librarium/engine"
	"github.com/librarium-app/librarium/library"
	"github.com/librarium-app/librarium/session"
	. "github.com/smartystreets/goconvey/convey"
)

func TestProject(t *testing.T) {
	Convey("Projecting session snapshots", t, func() {
		Convey("an idle session projects to None", func() {
			v := Project(session.Snapshot{Mode: session.ModeIdle})
			So(v.Kind, ShouldEqual, None)
			So(v.AudioVisual, ShouldBeNil)
			So(v.PagedDocument, ShouldBeNil)
		})

		Convey("an audio-visual session projects transport indicators", func() {
			v := Project(session.Snapshot{
				Mode:     session.ModeAudioVisual,
				Resource: library.Resource{Name: "track.mp3"},
				State:    engine.StatePlaying,
				Playing:  true,
				Position: 62000,
				Duration: 124000,
				Rate:     1.5,
			})

			So(v.Kind, ShouldEqual, AudioVisual)
			So(v.AudioVisual.Title, ShouldEqual, "track.mp3")
			So(v.AudioVisual.Playing, ShouldBeTrue)
			So(v.AudioVisual.Elapsed, ShouldEqual, "1:02")
			So(v.AudioVisual.Total, ShouldEqual, "2:04")
			So(v.AudioVisual.Fraction, ShouldEqual, 0.5)
			So(v.AudioVisual.Rate, ShouldEqual, "1.5x")
		})

		Convey("an unknown duration yields a zero fraction", func() {
			v := Project(session.Snapshot{
				Mode:     session.ModeAudioVisual,
				Resource: library.Resource{Name: "stream.mp3"},
				Position: 5000,
			})
			So(v.AudioVisual.Fraction, ShouldEqual, 0)
			So(v.AudioVisual.Rate, ShouldEqual, "1x")
		})

		Convey("a document session projects one-based page and percent zoom", func() {
			v := Project(session.Snapshot{
				Mode:      session.ModePagedDocument,
				Resource:  library.Resource{Name: "book.pdf"},
				Page:      2,
				PageCount: 5,
				Zoom:      1.25,
			})

			So(v.Kind, ShouldEqual, PagedDocument)
			So(v.PagedDocument.PageLabel, ShouldEqual, "3 / 5")
			So(v.PagedDocument.ZoomLabel, ShouldEqual, "125%")
		})

		Convey("session errors surface as the status line", func() {
			v := Project(session.Snapshot{Mode: session.ModeIdle, Err: "open book.pdf: corrupt document"})
			So(v.Status, ShouldEqual, "open book.pdf: corrupt document")
		})
	})
}
