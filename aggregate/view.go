package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/vodhub/vodhub/source"
)

// Order is the year order of a view. The zero value keeps arrival order.
type Order string

const (
	Arrival    Order = ""
	Ascending  Order = "asc"
	Descending Order = "desc"
)

// ParseOrder accepts "", "asc" and "desc".
func ParseOrder(s string) (Order, error) {
	switch o := Order(strings.ToLower(strings.TrimSpace(s))); o {
	case Arrival, Ascending, Descending:
		return o, nil
	default:
		return Arrival, fmt.Errorf("unknown order %q, expected asc or desc", s)
	}
}

// Filter selects and orders a view. Empty fields match everything.
type Filter struct {
	Provider string `json:"provider,omitempty"`
	Title    string `json:"title,omitempty"`
	Year     string `json:"year,omitempty"`
	Order    Order  `json:"order,omitempty"`
	// Query is the dispatched query. Results whose title matches it exactly sort first.
	Query string `json:"query,omitempty"`
}

// Match reports whether a result passes the filter.
func (f Filter) Match(r *source.Result) bool {
	if f.Provider != "" && !strings.EqualFold(f.Provider, r.ProviderKey) && !strings.EqualFold(f.Provider, r.ProviderLabel) {
		return false
	}
	if f.Title != "" && !fuzzy.MatchNormalizedFold(f.Title, r.Title) {
		return false
	}
	if f.Year != "" && f.Year != r.Year {
		return false
	}
	return true
}

// Flat filters and sorts results. The input is not modified.
func Flat(results []*source.Result, f Filter) []*source.Result {
	kept := lo.Filter(results, func(r *source.Result, _ int) bool {
		return f.Match(r)
	})

	if f.Order != Arrival {
		exact := NormalizeTitle(f.Query)
		sort.SliceStable(kept, func(i, j int) bool {
			return f.less(exact, kept[i], kept[j])
		})
	}

	return kept
}

// Grouped filters results, groups them and sorts the groups by their first member.
func Grouped(results []*source.Result, f Filter) []*Group {
	groups := GroupResults(lo.Filter(results, func(r *source.Result, _ int) bool {
		return f.Match(r)
	}))

	if f.Order != Arrival {
		exact := NormalizeTitle(f.Query)
		sort.SliceStable(groups, func(i, j int) bool {
			return f.less(exact, groups[i].First(), groups[j].First())
		})
	}

	return groups
}

func (f Filter) less(exact string, a, b *source.Result) bool {
	if exact != "" {
		aExact, bExact := NormalizeTitle(a.Title) == exact, NormalizeTitle(b.Title) == exact
		if aExact != bExact {
			return aExact
		}
	}

	aUnknown, bUnknown := a.Year == source.UnknownYear || a.Year == "", b.Year == source.UnknownYear || b.Year == ""
	switch {
	case aUnknown || bUnknown:
		return !aUnknown && bUnknown
	case f.Order == Descending:
		return a.Year > b.Year
	default:
		return a.Year < b.Year
	}
}
