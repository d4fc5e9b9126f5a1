package icon

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vodhub/vodhub/key"
)

func TestGet(t *testing.T) {
	Convey("Given a registered icon", t, func() {
		Convey("It renders for each variant", func() {
			for _, variant := range AvailableVariants() {
				viper.Set(key.IconsVariant, variant)
				So(Get(Success), ShouldNotBeEmpty)
				So(Get(Fail), ShouldNotBeEmpty)
			}
		})

		Convey("It returns empty for an unknown variant", func() {
			viper.Set(key.IconsVariant, "nerd")
			So(Get(Success), ShouldBeEmpty)
		})
	})
}
