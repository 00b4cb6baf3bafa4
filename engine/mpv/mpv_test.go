package mpv

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMpvArgs(t *testing.T) {
	Convey("The mpv command line", t, func() {
		args := mpvArgs("/tmp/librarium-x.sock", "/library/track.mp3")

		Convey("keeps the file loaded at end-of-media", func() {
			So(args, ShouldContain, "--keep-open=yes")
		})

		Convey("starts paused so the position restore runs first", func() {
			So(args, ShouldContain, "--pause=yes")
		})

		Convey("binds the IPC socket", func() {
			So(args, ShouldContain, "--input-ipc-server=/tmp/librarium-x.sock")
		})

		Convey("passes the media path last so it never reads as a flag", func() {
			So(args[len(args)-1], ShouldEqual, "/library/track.mp3")
		})
	})
}

func TestSanitizeMediaTarget(t *testing.T) {
	Convey("Sanitizing a media target", t, func() {
		Convey("rejects an empty path", func() {
			_, err := sanitizeMediaTarget("   ")
			So(err, ShouldNotBeNil)
		})

		Convey("rejects a flag-shaped path", func() {
			_, err := sanitizeMediaTarget("--script=evil.lua")
			So(err, ShouldNotBeNil)
		})

		Convey("rejects control characters", func() {
			_, err := sanitizeMediaTarget("/library/a\nb.mp3")
			So(err, ShouldNotBeNil)
		})

		Convey("cleans a normal path", func() {
			p, err := sanitizeMediaTarget("/library//audio/../track.mp3")
			So(err, ShouldBeNil)
			So(p, ShouldEqual, "/library/track.mp3")
		})
	})
}
