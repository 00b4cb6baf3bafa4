package query

import (
	"testing"

	"github.com/librarium-app/librarium/filesystem"
	"github.com/librarium-app/librarium/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.SearchShowQuerySuggestions, true)
}

func TestQuery(t *testing.T) {
	Convey("Given search history", t, func() {
		Convey("When remembering searches", func() {
			So(Remember("dune", 1), ShouldBeNil)
			So(Remember("dubliners", 10), ShouldBeNil)

			Convey("Then suggestions are sorted by rank", func() {
				suggestionCache = make(map[string][]*queryRecord)
				viper.Set(key.SearchShowQuerySuggestions, true)

				s := SuggestMany("du")
				So(len(s), ShouldBeGreaterThanOrEqualTo, 2)
				So(s[0], ShouldEqual, "dubliners")
			})

			Convey("And the single best suggestion is exposed as an option", func() {
				suggestionCache = make(map[string][]*queryRecord)

				So(Suggest("dub").IsPresent(), ShouldBeTrue)
				So(Suggest("dub").MustGet(), ShouldEqual, "dubliners")
				So(Suggest("zzzz").IsPresent(), ShouldBeFalse)
			})

			Convey("It sanitizes input", func() {
				So(sanitize("  DUNE  "), ShouldEqual, "dune")
			})
		})

		Convey("When suggestions are disabled they stay silent", func() {
			viper.Set(key.SearchShowQuerySuggestions, false)
			defer viper.Set(key.SearchShowQuerySuggestions, true)

			So(SuggestMany("du"), ShouldBeEmpty)
		})
	})
}
