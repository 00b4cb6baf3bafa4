package config

import (
	"testing"

	"github.com/librarium-app/librarium/filesystem"
	"github.com/librarium-app/librarium/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	t.Setenv("LIBRARIUM_CONFIG_PATH", t.TempDir())

	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			So(Setup(), ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			So(EnvKeyReplacer.Replace("library.appearance_mode"), ShouldEqual, "library_appearance_mode")
		})
	})
}

func TestValidation(t *testing.T) {
	t.Setenv("LIBRARIUM_CONFIG_PATH", t.TempDir())

	Convey("Settings validation", t, func() {
		So(Setup(), ShouldBeNil)

		Convey("Should normalize appearance mode casing", func() {
			viper.Set(key.AppearanceMode, "dark")
			So(validate(), ShouldBeNil)
			So(viper.GetString(key.AppearanceMode), ShouldEqual, AppearanceDark)
		})

		Convey("Should reset an unknown appearance mode to System", func() {
			viper.Set(key.AppearanceMode, "Sepia")
			So(validate(), ShouldBeNil)
			So(viper.GetString(key.AppearanceMode), ShouldEqual, AppearanceSystem)
		})

		Convey("Should clamp out-of-range notes font size to the default", func() {
			viper.Set(key.NotesFontSize, 300)
			So(validate(), ShouldBeNil)
			So(viper.GetInt(key.NotesFontSize), ShouldEqual, 12)
		})

		Convey("Should fall back to the default library when the path is not a directory", func() {
			viper.Set(key.LibraryPath, "/definitely/not/a/real/root")
			So(validate(), ShouldBeNil)
			isDir, err := filesystem.API().IsDir(viper.GetString(key.LibraryPath))
			So(err, ShouldBeNil)
			So(isDir, ShouldBeTrue)
		})
	})
}

func TestFloatSlices(t *testing.T) {
	t.Setenv("LIBRARIUM_CONFIG_PATH", t.TempDir())

	Convey("Zoom steps and rates", t, func() {
		So(Setup(), ShouldBeNil)

		Convey("Should parse the registered defaults", func() {
			steps := ZoomSteps()
			So(steps, ShouldNotBeEmpty)
			So(steps[0], ShouldEqual, 0.5)
			So(steps[len(steps)-1], ShouldEqual, 4.0)

			rates := Rates()
			So(rates, ShouldContain, 1.0)
		})

		Convey("Should recover from malformed entries", func() {
			viper.Set(key.ViewerZoomSteps, []string{"potato"})
			So(ZoomSteps(), ShouldResemble, []float64{0.5, 0.75, 1.0, 1.25, 1.5, 1.75, 2.0, 2.5, 3.0, 4.0})
			viper.Set(key.ViewerZoomSteps, Default[key.ViewerZoomSteps].Value)
		})
	})
}
