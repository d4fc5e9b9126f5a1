package log

import (
	"strings"
	"testing"

	logrus "github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vodhub/vodhub/filesystem"
	"github.com/vodhub/vodhub/key"
	"github.com/vodhub/vodhub/where"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given logging is disabled", t, func() {
		viper.Set(key.LogsWrite, false)
		So(Setup(), ShouldBeNil)

		Convey("Emissions are discarded", func() {
			So(func() { Info("ignored") }, ShouldNotPanic)
			So(func() { WithFields(logrus.Fields{"provider": "alpha"}).Warn("ignored") }, ShouldNotPanic)
		})
	})

	Convey("Given logging is enabled", t, func() {
		viper.Set(key.LogsWrite, true)
		viper.Set(key.LogsLevel, "debug")
		defer viper.Set(key.LogsWrite, false)

		So(Setup(), ShouldBeNil)
		Info("dispatch started")

		Convey("A dated log file is written", func() {
			files, err := filesystem.API().ReadDir(where.Logs())
			So(err, ShouldBeNil)
			So(len(files), ShouldBeGreaterThan, 0)
			So(strings.HasSuffix(files[0].Name(), ".log"), ShouldBeTrue)
			So(logrus.GetLevel(), ShouldEqual, logrus.DebugLevel)
		})
	})
}
