package query

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vodhub/vodhub/filesystem"
	"github.com/vodhub/vodhub/key"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.SearchShowQuerySuggestions, true)
	viper.Set(key.HistoryRecordQueries, true)
}

func TestQuery(t *testing.T) {
	Convey("Given query history", t, func() {
		So(Clear(), ShouldBeNil)

		Convey("When remembering queries", func() {
			So(Remember("example show", 1), ShouldBeNil)
			So(Remember("example movie", 10), ShouldBeNil)

			Convey("Then suggestions are sorted by rank", func() {
				s := SuggestMany("exa")
				So(s, ShouldResemble, []string{"example movie", "example show"})
				So(Suggest("exa").MustGet(), ShouldEqual, "example movie")
			})

			Convey("Then equal ranks prefer the closer query", func() {
				So(Remember("example show", 9), ShouldBeNil)
				So(SuggestMany("example"), ShouldResemble, []string{"example show", "example movie"})
			})

			Convey("Then clear forgets them", func() {
				So(Clear(), ShouldBeNil)
				So(Suggest("exa").IsAbsent(), ShouldBeTrue)
			})
		})

		Convey("Record honours the history switch", func() {
			viper.Set(key.HistoryRecordQueries, false)
			So(Record("hidden"), ShouldBeNil)
			So(SuggestMany("hidden"), ShouldBeEmpty)

			viper.Set(key.HistoryRecordQueries, true)
			So(Record("shown"), ShouldBeNil)
			So(SuggestMany("shown"), ShouldResemble, []string{"shown"})
		})

		Convey("It sanitizes input", func() {
			So(sanitize("  EXAMPLE  "), ShouldEqual, "example")
		})
	})
}
