package where

import (
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vodhub/vodhub/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config() honors the override", func() {
			t.Setenv(EnvConfigPath, "/tmp/vodhub-test")
			So(Config(), ShouldEqual, "/tmp/vodhub-test")
			So(lo.Must(filesystem.API().IsDir(Config())), ShouldBeTrue)
		})

		Convey("Logs() is created", func() {
			path := Logs()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Providers() lives in the config dir", func() {
			So(filepath.Dir(Providers()), ShouldEqual, Config())
			So(filepath.Base(Providers()), ShouldEqual, "providers.yaml")
		})

		Convey("Queries() lives in the cache dir", func() {
			So(filepath.Dir(Queries()), ShouldEqual, Cache())
		})
	})
}
