package notes

import (
	"testing"

	"github.com/librarium-app/librarium/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPad(t *testing.T) {
	Convey("The note pad", t, func() {
		filesystem.SetMemMapFs()
		pad := NewPad()

		Convey("starts empty and untitled", func() {
			So(pad.Title(), ShouldEqual, "Untitled")
			So(pad.Dirty(), ShouldBeFalse)
			So(pad.Content(), ShouldBeEmpty)
		})

		Convey("editing marks it dirty and flags the title", func() {
			pad.SetContent("chapter 3 is the good part")
			So(pad.Dirty(), ShouldBeTrue)
			So(pad.Title(), ShouldEqual, "Untitled*")

			Convey("but setting identical content does not", func() {
				clean := NewPad()
				clean.SetContent("")
				So(clean.Dirty(), ShouldBeFalse)
			})
		})

		Convey("an untitled pad refuses Save but accepts SaveAs", func() {
			pad.SetContent("remember this")
			So(pad.Save(), ShouldNotBeNil)

			So(pad.SaveAs("/library/notes.txt"), ShouldBeNil)
			So(pad.Dirty(), ShouldBeFalse)
			So(pad.Title(), ShouldEqual, "notes.txt")

			data, err := filesystem.API().ReadFile("/library/notes.txt")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "remember this")
		})

		Convey("SaveDefault binds an untitled pad to the fallback path", func() {
			pad.SetContent("exit prompt save")
			So(pad.SaveDefault("/library/notes.txt"), ShouldBeNil)
			So(pad.Path(), ShouldEqual, "/library/notes.txt")
			So(pad.Dirty(), ShouldBeFalse)

			data, err := filesystem.API().ReadFile("/library/notes.txt")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "exit prompt save")
		})

		Convey("SaveDefault keeps a titled pad on its own file", func() {
			So(pad.SaveAs("/library/mine.txt"), ShouldBeNil)
			pad.SetContent("stays put")

			So(pad.SaveDefault("/library/notes.txt"), ShouldBeNil)
			So(pad.Path(), ShouldEqual, "/library/mine.txt")

			data, err := filesystem.API().ReadFile("/library/mine.txt")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "stays put")

			exists, err := filesystem.API().Exists("/library/notes.txt")
			So(err, ShouldBeNil)
			So(exists, ShouldBeFalse)
		})

		Convey("opening a file replaces the buffer and clears dirty", func() {
			So(filesystem.API().WriteFile("/library/old.txt", []byte("earlier thoughts"), 0644), ShouldBeNil)

			pad.SetContent("scratch")
			So(pad.Open("/library/old.txt"), ShouldBeNil)
			So(pad.Content(), ShouldEqual, "earlier thoughts")
			So(pad.Dirty(), ShouldBeFalse)
			So(pad.Title(), ShouldEqual, "old.txt")
		})

		Convey("opening a missing file fails and leaves the pad alone", func() {
			pad.SetContent("keep me")
			So(pad.Open("/library/missing.txt"), ShouldNotBeNil)
			So(pad.Content(), ShouldEqual, "keep me")
		})

		Convey("Clear resets to an untitled pad", func() {
			pad.SetContent("gone soon")
			pad.Clear()
			So(pad.Content(), ShouldBeEmpty)
			So(pad.Dirty(), ShouldBeFalse)
			So(pad.Title(), ShouldEqual, "Untitled")
		})
	})
}

func TestResolve(t *testing.T) {
	Convey("Resolving the unsaved-changes prompt", t, func() {
		filesystem.SetMemMapFs()

		Convey("a clean pad proceeds without asking", func() {
			pad := NewPad()
			proceed, err := pad.Resolve(DecisionCancel)
			So(err, ShouldBeNil)
			So(proceed, ShouldBeTrue)
		})

		Convey("save proceeds when the write succeeds", func() {
			pad := NewPad()
			So(pad.SaveAs("/library/notes.txt"), ShouldBeNil)
			pad.SetContent("updated")

			proceed, err := pad.Resolve(DecisionSave)
			So(err, ShouldBeNil)
			So(proceed, ShouldBeTrue)

			data, err := filesystem.API().ReadFile("/library/notes.txt")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "updated")
		})

		Convey("save on an untitled pad fails and blocks the operation", func() {
			pad := NewPad()
			pad.SetContent("unsaved")

			proceed, err := pad.Resolve(DecisionSave)
			So(err, ShouldNotBeNil)
			So(proceed, ShouldBeFalse)
		})

		Convey("discard proceeds and drops the dirty flag", func() {
			pad := NewPad()
			pad.SetContent("unsaved")

			proceed, err := pad.Resolve(DecisionDiscard)
			So(err, ShouldBeNil)
			So(proceed, ShouldBeTrue)
			So(pad.Dirty(), ShouldBeFalse)
		})

		Convey("cancel blocks the operation", func() {
			pad := NewPad()
			pad.SetContent("unsaved")

			proceed, err := pad.Resolve(DecisionCancel)
			So(err, ShouldBeNil)
			So(proceed, ShouldBeFalse)
			So(pad.Dirty(), ShouldBeTrue)
		})
	})
}
