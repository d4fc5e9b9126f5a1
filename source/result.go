package source

import (
	"fmt"
	"regexp"
)

// UnknownYear is the year of a result whose provider gave no usable year.
const UnknownYear = "unknown"

// Result is one title offered by one provider.
type Result struct {
	// ID is provider-local.
	ID     string `json:"id"`
	Title  string `json:"title"`
	Poster string `json:"poster"`
	// Episodes holds playable URLs in order, or episode page links when Pending is set.
	Episodes []string `json:"episodes"`
	// EpisodeTitles has the same length as Episodes, or is empty.
	EpisodeTitles []string `json:"episodeTitles"`
	ProviderKey   string   `json:"providerKey"`
	ProviderLabel string   `json:"providerLabel"`
	// Year is a 4-digit year or UnknownYear.
	Year        string `json:"year"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	// ExternalID cross-references an external catalog. Zero when absent.
	ExternalID int64 `json:"externalId,omitempty"`
	// Pending marks results whose episodes still need Detail to become playable.
	Pending bool `json:"pending,omitempty"`
}

func (r *Result) String() string {
	return fmt.Sprintf("%s (%s) [%s]", r.Title, r.Year, r.ProviderLabel)
}

// EpisodeCount returns the number of episodes.
func (r *Result) EpisodeCount() int {
	return len(r.Episodes)
}

// Playable reports whether the result can be handed to a player as is.
func (r *Result) Playable() bool {
	return len(r.Episodes) > 0 && !r.Pending
}

// Keep drops results without episodes and clears episode titles that do not
// line up with the episode list.
func Keep(results []*Result) []*Result {
	kept := make([]*Result, 0, len(results))
	for _, r := range results {
		if r == nil || len(r.Episodes) == 0 {
			continue
		}
		if len(r.EpisodeTitles) != 0 && len(r.EpisodeTitles) != len(r.Episodes) {
			r.EpisodeTitles = nil
		}
		if r.Year == "" {
			r.Year = UnknownYear
		}
		kept = append(kept, r)
	}
	return kept
}

var yearPattern = regexp.MustCompile(`(19|20)\d{2}`)

// NormalizeYear extracts a 4-digit year from raw, or returns UnknownYear.
func NormalizeYear(raw string) string {
	if match := yearPattern.FindString(raw); match != "" {
		return match
	}
	return UnknownYear
}
