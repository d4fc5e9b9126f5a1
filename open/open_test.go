package open

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCommand(t *testing.T) {
	Convey("Given a url", t, func() {
		const target = "https://vod.example/v/1"

		Convey("Known platforms should pass it as the last argument", func() {
			for _, goos := range []string{"windows", "darwin", "android", "linux", "freebsd"} {
				cmd, ok := command(goos, target)
				So(ok, ShouldBeTrue)
				So(cmd.Args[len(cmd.Args)-1], ShouldEqual, target)
			}
		})

		Convey("Linux should use xdg-open", func() {
			cmd, _ := command("linux", target)
			So(cmd.Args[0], ShouldEqual, "xdg-open")
		})

		Convey("Unknown platforms should be rejected", func() {
			_, ok := command("plan9", target)
			So(ok, ShouldBeFalse)
		})
	})
}
