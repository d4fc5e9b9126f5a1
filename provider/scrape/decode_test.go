package scrape

import (
	"encoding/base64"
	"net/url"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDecoder(t *testing.T) {
	const target = "https://cdn.example/v/index.m3u8?t=1"

	Convey("Each flag selects its decoder", t, func() {
		So(DecoderFor(0), ShouldHaveSameTypeAs, Plain{})
		So(DecoderFor(1), ShouldHaveSameTypeAs, PercentEncoded{})
		So(DecoderFor(2), ShouldHaveSameTypeAs, Base64ThenPercentEncoded{})
		So(DecoderFor(9), ShouldHaveSameTypeAs, Plain{})
	})

	Convey("Decoders recover the URL", t, func() {
		plain, err := Plain{}.Decode(target)
		So(err, ShouldBeNil)
		So(plain, ShouldEqual, target)

		percent, err := PercentEncoded{}.Decode(url.QueryEscape(target))
		So(err, ShouldBeNil)
		So(percent, ShouldEqual, target)

		encoded := base64.StdEncoding.EncodeToString([]byte(url.QueryEscape(target)))
		b64, err := Base64ThenPercentEncoded{}.Decode(encoded)
		So(err, ShouldBeNil)
		So(b64, ShouldEqual, target)
	})

	Convey("Garbage base64 is an error", t, func() {
		_, err := Base64ThenPercentEncoded{}.Decode("%%%")
		So(err, ShouldNotBeNil)
	})

	Convey("Only absolute http URLs are usable", t, func() {
		So(usable(target), ShouldBeTrue)
		So(usable("/relative.m3u8"), ShouldBeFalse)
		So(usable("javascript:alert(1)"), ShouldBeFalse)
		So(usable(""), ShouldBeFalse)
	})
}
