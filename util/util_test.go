package util

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vodhub/vodhub/filesystem"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "provider", "providers"), ShouldEqual, "1 provider")
		So(Quantify(3, "provider", "providers"), ShouldEqual, "3 providers")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("queries history"), ShouldEqual, "Queries history")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestIgnore(t *testing.T) {
	Convey("Ignore should call the function", t, func() {
		called := false
		Ignore(func() error {
			called = true
			return errors.New("discarded")
		})
		So(called, ShouldBeTrue)
	})
}

func TestDelete(t *testing.T) {
	Convey("Delete", t, func() {
		filesystem.SetMemMapFs()
		So(filesystem.API().WriteFile("/d/file.json", []byte("{}"), 0o644), ShouldBeNil)

		So(Delete("/d"), ShouldBeNil)
		exists, _ := filesystem.API().Exists("/d/file.json")
		So(exists, ShouldBeFalse)

		So(Delete("/missing"), ShouldNotBeNil)
	})
}
