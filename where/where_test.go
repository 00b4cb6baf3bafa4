package where

import (
	"path/filepath"
	"testing"

	"github.com/librarium-app/librarium/constant"
	"github.com/librarium-app/librarium/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestWhere(t *testing.T) {
	Convey("Path resolution", t, func() {
		Convey("Timestamps should live inside the library root", func() {
			So(Timestamps("/media/books"), ShouldEqual, filepath.Join("/media/books", constant.TimestampsFilename))
		})

		Convey("Config should honor the environment override", func() {
			t.Setenv(EnvConfigPath, "/tmp/librarium-test-config")
			So(Config(), ShouldEqual, "/tmp/librarium-test-config")
		})

		Convey("DefaultLibrary should end with the canonical directory name", func() {
			So(filepath.Base(DefaultLibrary()), ShouldEqual, constant.DefaultLibraryDirName)
		})
	})
}
