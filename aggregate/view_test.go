package aggregate

import (
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vodhub/vodhub/source"
)

func ids(results []*source.Result) []string {
	return lo.Map(results, func(r *source.Result, _ int) string { return r.ID })
}

func TestViews(t *testing.T) {
	results := []*source.Result{
		record("a", "1", "Example Sequel", "2021", 1),
		record("b", "2", "Example", source.UnknownYear, 1),
		record("a", "3", "Example", "2019", 1),
		record("c", "4", "Unrelated", "2023", 1),
		record("b", "5", "Another Example", "2020", 1),
	}

	Convey("Without an order the flat view keeps arrival order", t, func() {
		So(ids(Flat(results, Filter{})), ShouldResemble, []string{"1", "2", "3", "4", "5"})
	})

	Convey("Exact title matches sort ahead of the year", t, func() {
		asc := Flat(results, Filter{Order: Ascending, Query: "example"})
		So(ids(asc), ShouldResemble, []string{"3", "2", "5", "1", "4"})

		desc := Flat(results, Filter{Order: Descending, Query: "example"})
		So(ids(desc), ShouldResemble, []string{"3", "2", "4", "1", "5"})
	})

	Convey("Unknown years sort last in both directions", t, func() {
		asc := Flat(results, Filter{Order: Ascending})
		So(asc[len(asc)-1].ID, ShouldEqual, "2")

		desc := Flat(results, Filter{Order: Descending})
		So(desc[len(desc)-1].ID, ShouldEqual, "2")
		So(desc[0].ID, ShouldEqual, "4")
	})

	Convey("Filters apply before sorting", t, func() {
		So(ids(Flat(results, Filter{Provider: "a"})), ShouldResemble, []string{"1", "3"})
		So(ids(Flat(results, Filter{Provider: "label b"})), ShouldResemble, []string{"2", "5"})
		So(ids(Flat(results, Filter{Year: "2023"})), ShouldResemble, []string{"4"})
		So(ids(Flat(results, Filter{Title: "sequel"})), ShouldResemble, []string{"1"})
		So(ids(Flat(results, Filter{Title: "exmpl", Order: Descending})), ShouldResemble, []string{"1", "5", "3", "2"})
	})

	Convey("The grouped view sorts by each group's first member", t, func() {
		groups := Grouped(results, Filter{Order: Descending, Query: "Example"})
		keys := lo.Map(groups, func(g *Group, _ int) string { return g.Key })
		So(keys, ShouldResemble, []string{"example-2019", "unrelated-2023", "examplesequel-2021", "anotherexample-2020"})
	})

	Convey("Orders are parsed leniently", t, func() {
		o, err := ParseOrder(" DESC ")
		So(err, ShouldBeNil)
		So(o, ShouldEqual, Descending)

		_, err = ParseOrder("sideways")
		So(err, ShouldNotBeNil)
	})
}
