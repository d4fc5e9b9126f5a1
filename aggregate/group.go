package aggregate

import (
	"github.com/samber/lo"
	"github.com/vodhub/vodhub/source"
)

// Group is one logical title offered by one or more providers.
type Group struct {
	// Key is the normalized title and the resolved year joined by "-".
	Key     string           `json:"key"`
	Title   string           `json:"title"`
	Year    string           `json:"year"`
	Members []*source.Result `json:"members"`
	// EpisodeCount is the most common episode count of the members.
	EpisodeCount int `json:"episodeCount"`
	// SourceNames are the labels of the members that can be played directly.
	SourceNames []string `json:"sourceNames"`
	// ExternalID is the most common non-zero external id of the members.
	ExternalID int64 `json:"externalId,omitempty"`
}

// First returns the representative member.
func (g *Group) First() *source.Result {
	return g.Members[0]
}

type titleBucket struct {
	years  []string
	byYear map[string][]*source.Result
}

// GroupResults clusters results by normalized title and year.
//
// Unknown-year results join the known-year group of their title only when
// that title has exactly one known year; otherwise they form their own
// "<title>-unknown" group. Groups and members keep first-seen order.
func GroupResults(results []*source.Result) []*Group {
	var titles []string
	buckets := make(map[string]*titleBucket)

	for _, r := range results {
		title := NormalizeTitle(r.Title)
		year := lo.Ternary(r.Year == "", source.UnknownYear, r.Year)

		bucket, ok := buckets[title]
		if !ok {
			bucket = &titleBucket{byYear: make(map[string][]*source.Result)}
			buckets[title] = bucket
			titles = append(titles, title)
		}

		if _, ok := bucket.byYear[year]; !ok {
			bucket.years = append(bucket.years, year)
		}
		bucket.byYear[year] = append(bucket.byYear[year], r)
	}

	var groups []*Group
	for _, title := range titles {
		bucket := buckets[title]

		known := lo.Without(bucket.years, source.UnknownYear)
		unknown, hasUnknown := bucket.byYear[source.UnknownYear]
		if len(known) == 1 && hasUnknown {
			bucket.byYear[known[0]] = append(bucket.byYear[known[0]], unknown...)
			delete(bucket.byYear, source.UnknownYear)
			bucket.years = known
		}

		for _, year := range bucket.years {
			groups = append(groups, newGroup(title, year, bucket.byYear[year]))
		}
	}

	return groups
}

func newGroup(title, year string, members []*source.Result) *Group {
	return &Group{
		Key:          title + "-" + year,
		Title:        members[0].Title,
		Year:         year,
		Members:      members,
		EpisodeCount: majorityEpisodes(members),
		SourceNames:  sourceNames(members),
		ExternalID:   majorityExternalID(members),
	}
}

// majorityEpisodes picks the most frequent episode count; ties go to the larger count.
func majorityEpisodes(members []*source.Result) int {
	votes := lo.CountValuesBy(members, func(r *source.Result) int {
		return r.EpisodeCount()
	})

	best, bestVotes := 0, 0
	for count, n := range votes {
		if n > bestVotes || (n == bestVotes && count > best) {
			best, bestVotes = count, n
		}
	}
	return best
}

// majorityExternalID picks the most frequent non-zero id; ties go to the smaller id.
func majorityExternalID(members []*source.Result) int64 {
	ids := lo.FilterMap(members, func(r *source.Result, _ int) (int64, bool) {
		return r.ExternalID, r.ExternalID != 0
	})

	var best int64
	bestVotes := 0
	for id, n := range lo.CountValues(ids) {
		if n > bestVotes || (n == bestVotes && id < best) {
			best, bestVotes = id, n
		}
	}
	return best
}

func sourceNames(members []*source.Result) []string {
	playable := lo.Filter(members, func(r *source.Result, _ int) bool {
		return r.Playable()
	})

	return lo.Uniq(lo.Map(playable, func(r *source.Result, _ int) string {
		return r.ProviderLabel
	}))
}
