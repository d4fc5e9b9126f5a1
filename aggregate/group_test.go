package aggregate

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vodhub/vodhub/source"
)

func record(provider, id, title, year string, episodes int) *source.Result {
	return &source.Result{
		ID:            id,
		Title:         title,
		Year:          year,
		Episodes:      make([]string, episodes),
		ProviderKey:   provider,
		ProviderLabel: "Label " + provider,
	}
}

type canonical struct {
	Members      []string
	EpisodeCount int
	SourceNames  []string
	ExternalID   int64
}

func canonicalize(groups []*Group) map[string]canonical {
	out := make(map[string]canonical, len(groups))
	for _, g := range groups {
		var ids []string
		for _, m := range g.Members {
			ids = append(ids, m.ProviderKey+"/"+m.ID)
		}
		sort.Strings(ids)

		names := append([]string{}, g.SourceNames...)
		sort.Strings(names)

		out[g.Key] = canonical{Members: ids, EpisodeCount: g.EpisodeCount, SourceNames: names, ExternalID: g.ExternalID}
	}
	return out
}

func TestNormalizeTitle(t *testing.T) {
	Convey("Titles differing only in case, width, spacing and punctuation normalize alike", t, func() {
		So(NormalizeTitle("Example Show: Part 1"), ShouldEqual, "exampleshowpart1")
		So(NormalizeTitle("ＥＸＡＭＰＬＥ show：part１"), ShouldEqual, "exampleshowpart1")
		So(NormalizeTitle("《流浪地球》"), ShouldEqual, "流浪地球")
		So(NormalizeTitle("Straße"), ShouldEqual, NormalizeTitle("STRASSE"))
	})
}

func TestGroupResults(t *testing.T) {
	Convey("Given one known year and one unknown year", t, func() {
		groups := GroupResults([]*source.Result{
			record("a", "1", "Example", "2020", 10),
			record("b", "2", "example", source.UnknownYear, 10),
		})

		Convey("They fold into the known year", func() {
			So(groups, ShouldHaveLength, 1)
			So(groups[0].Key, ShouldEqual, "example-2020")
			So(groups[0].Members, ShouldHaveLength, 2)
		})
	})

	Convey("Given two known years and one unknown year", t, func() {
		groups := GroupResults([]*source.Result{
			record("a", "1", "Example", "2020", 10),
			record("c", "3", "Example", "2021", 10),
			record("b", "2", "Example", source.UnknownYear, 10),
		})

		Convey("The unknown year stays on its own", func() {
			So(groups, ShouldHaveLength, 3)
			So(groups[0].Key, ShouldEqual, "example-2020")
			So(groups[1].Key, ShouldEqual, "example-2021")
			So(groups[2].Key, ShouldEqual, "example-unknown")
			So(groups[2].Members[0].ID, ShouldEqual, "2")
		})
	})

	Convey("Only unknown years form a single unknown group", t, func() {
		groups := GroupResults([]*source.Result{
			record("a", "1", "Example", source.UnknownYear, 1),
			record("b", "2", "Example", "", 1),
		})
		So(groups, ShouldHaveLength, 1)
		So(groups[0].Key, ShouldEqual, "example-unknown")
	})

	Convey("Every member normalizes to its group title", t, func() {
		groups := GroupResults([]*source.Result{
			record("a", "1", "The Show!", "2020", 1),
			record("b", "2", "the show", "2020", 1),
			record("c", "3", "Other", "2020", 1),
		})
		So(groups, ShouldHaveLength, 2)
		for _, g := range groups {
			for _, m := range g.Members {
				So(g.Key, ShouldStartWith, NormalizeTitle(m.Title)+"-")
			}
		}
	})

	Convey("Stats are decided by majority", t, func() {
		a := record("a", "1", "Example", "2020", 12)
		a.ExternalID = 99
		b := record("b", "2", "Example", "2020", 12)
		b.ExternalID = 42
		c := record("c", "3", "Example", "2020", 10)
		c.ExternalID = 42
		d := record("d", "4", "Example", "2020", 10)
		d.Pending = true

		g := GroupResults([]*source.Result{a, b, c, d})[0]

		Convey("Ties in episode count go to the larger count", func() {
			So(g.EpisodeCount, ShouldEqual, 12)
		})

		Convey("The most common external id wins", func() {
			So(g.ExternalID, ShouldEqual, int64(42))
		})

		Convey("Source names skip members that are not playable", func() {
			So(g.SourceNames, ShouldResemble, []string{"Label a", "Label b", "Label c"})
		})
	})

	Convey("Regrouping is independent of arrival order", t, func() {
		input := []*source.Result{
			record("a", "1", "Example", "2020", 12),
			record("b", "2", "Example", source.UnknownYear, 10),
			record("c", "3", "Other Show", "2019", 3),
			record("d", "4", "other show", "2021", 3),
			record("e", "5", "Other-Show", source.UnknownYear, 4),
			record("f", "6", "Example", "2020", 10),
		}

		reversed := make([]*source.Result, len(input))
		for i, r := range input {
			reversed[len(input)-1-i] = r
		}
		rotated := append(append([]*source.Result{}, input[3:]...), input[:3]...)

		want := canonicalize(GroupResults(input))
		So(cmp.Diff(want, canonicalize(GroupResults(reversed))), ShouldBeEmpty)
		So(cmp.Diff(want, canonicalize(GroupResults(rotated))), ShouldBeEmpty)
		So(want, ShouldHaveLength, 4)
	})
}
