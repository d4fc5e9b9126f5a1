package filesystem

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBackend(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should switch between backends", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")

			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")
		})

		Convey("ReadIfExists", func() {
			SetMemMapFs()

			Convey("Should return nil for a missing file", func() {
				data, err := ReadIfExists("/nope/providers.yaml")
				So(err, ShouldBeNil)
				So(data, ShouldBeNil)
			})

			Convey("Should return the contents of an existing file", func() {
				So(API().WriteFile("/cfg/providers.yaml", []byte("providers: []"), 0o644), ShouldBeNil)
				data, err := ReadIfExists("/cfg/providers.yaml")
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, "providers: []")
			})
		})
	})
}
