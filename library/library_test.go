package library

import (
	"testing"

	"github.com/librarium-app/librarium/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func seed(paths ...string) {
	fs := filesystem.API()
	for _, p := range paths {
		So(fs.WriteFile(p, []byte("x"), 0644), ShouldBeNil)
	}
}

func names(resources []Resource) []string {
	out := make([]string, len(resources))
	for i, r := range resources {
		out[i] = r.Name
	}
	return out
}

func TestKindOf(t *testing.T) {
	Convey("KindOf", t, func() {
		So(KindOf("/lib/a.mp4"), ShouldEqual, KindVideo)
		So(KindOf("/lib/a.MKV"), ShouldEqual, KindVideo)
		So(KindOf("/lib/a.flac"), ShouldEqual, KindAudio)
		So(KindOf("/lib/a.pdf"), ShouldEqual, KindDocument)
		So(KindOf("/lib/a.txt"), ShouldEqual, KindUnknown)
		So(KindVideo.AudioVisual(), ShouldBeTrue)
		So(KindDocument.AudioVisual(), ShouldBeFalse)
	})
}

func TestScan(t *testing.T) {
	Convey("Given a library tree", t, func() {
		filesystem.SetMemMapFs()
		seed(
			"/lib/Zebra.mp4",
			"/lib/album/track.mp3",
			"/lib/book.pdf",
			"/lib/readme.txt",
			"/lib/apple.wav",
		)

		Convey("Scan returns recognized files sorted case-insensitively by name", func() {
			resources, err := Scan("/lib")
			So(err, ShouldBeNil)
			So(names(resources), ShouldResemble, []string{"apple.wav", "book.pdf", "track.mp3", "Zebra.mp4"})
		})

		Convey("Scan fails on a missing root", func() {
			resources, err := Scan("/nowhere")
			So(err, ShouldNotBeNil)
			So(resources, ShouldBeEmpty)
		})
	})
}

func TestFilter(t *testing.T) {
	Convey("Given scanned resources", t, func() {
		filesystem.SetMemMapFs()
		seed("/lib/Calculus Lecture.mp4", "/lib/biology.pdf", "/lib/chemistry notes.mp3")
		resources, err := Scan("/lib")
		So(err, ShouldBeNil)

		Convey("Filter matches case-insensitive substrings and preserves order", func() {
			So(names(Filter(resources, "LECT")), ShouldResemble, []string{"Calculus Lecture.mp4"})
			So(names(Filter(resources, "o")), ShouldResemble, []string{"biology.pdf", "chemistry notes.mp3"})
		})

		Convey("An empty substring is no filter at all", func() {
			So(Filter(resources, ""), ShouldResemble, resources)
			So(Filter(resources, "   "), ShouldResemble, resources)
		})

		Convey("A non-matching substring yields an empty result", func() {
			So(Filter(resources, "zzz"), ShouldBeEmpty)
		})
	})
}
