package api

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func group(prefix string, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = prefix + "EP$https://cdn.example/" + prefix + "/" + string(rune('a'+i)) + ".m3u8"
	}
	return strings.Join(parts, "#")
}

func TestParsePlaylist(t *testing.T) {
	Convey("Given groups of 3, 7 and 5 episodes", t, func() {
		raw := strings.Join([]string{group("x", 3), group("y", 7), group("z", 5)}, "$$$")

		Convey("The 7 episode group is selected", func() {
			episodes := ParsePlaylist(raw)
			So(episodes, ShouldHaveLength, 7)
			So(episodes[0].URL, ShouldEqual, "https://cdn.example/y/a.m3u8")
		})
	})

	Convey("Given two groups of the same size", t, func() {
		raw := group("first", 2) + "$$$" + group("second", 2)

		Convey("The first one wins", func() {
			episodes := ParsePlaylist(raw)
			So(episodes, ShouldHaveLength, 2)
			So(episodes[0].Title, ShouldEqual, "firstEP")
		})
	})

	Convey("Bare segments are titled by position", t, func() {
		episodes := ParsePlaylist("https://a/1.m3u8#https://a/2.m3u8")
		So(episodes, ShouldResemble, []Episode{
			{Title: "1", URL: "https://a/1.m3u8"},
			{Title: "2", URL: "https://a/2.m3u8"},
		})
	})

	Convey("Entries without an URL are skipped", t, func() {
		episodes := ParsePlaylist("E1$#E2$https://a/2.m3u8##")
		So(episodes, ShouldResemble, []Episode{{Title: "E2", URL: "https://a/2.m3u8"}})
	})

	Convey("An empty playlist yields nothing", t, func() {
		So(ParsePlaylist(""), ShouldBeEmpty)
	})
}
