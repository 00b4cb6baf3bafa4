package util

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFileStem(t *testing.T) {
	Convey("FileStem", t, func() {
		So(FileStem("path/to/lecture.mp4"), ShouldEqual, "lecture")
		So(FileStem("notes"), ShouldEqual, "notes")
	})
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "file", "files"), ShouldEqual, "1 file")
		So(Quantify(2, "file", "files"), ShouldEqual, "2 files")
	})
}

func TestFormatClock(t *testing.T) {
	Convey("FormatClock", t, func() {
		So(FormatClock(0), ShouldEqual, "0:00")
		So(FormatClock(-5), ShouldEqual, "0:00")
		So(FormatClock(61_000), ShouldEqual, "1:01")
		So(FormatClock(3_725_000), ShouldEqual, "1:02:05")
	})
}

func TestFormatRelative(t *testing.T) {
	Convey("FormatRelative", t, func() {
		now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

		So(FormatRelative(now.Add(-30*time.Second), now), ShouldEqual, "just now")
		So(FormatRelative(now.Add(-5*time.Minute), now), ShouldEqual, "5 mins ago")
		So(FormatRelative(now.Add(-3*time.Hour), now), ShouldEqual, "3 hours ago")
		So(FormatRelative(now.Add(-50*time.Hour), now), ShouldEqual, "2 days ago")
		So(FormatRelative(now.Add(-30*24*time.Hour), now), ShouldEqual, "2025-05-16")
	})
}

func TestMaxMin(t *testing.T) {
	Convey("Max/Min", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Min(1, 5, 2), ShouldEqual, 1)
	})
}
