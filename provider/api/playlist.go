package api

import (
	"strconv"
	"strings"
)

const (
	groupSeparator   = "$$$"
	episodeSeparator = "#"
	pairSeparator    = "$"
)

// Episode is one entry of a playlist group.
type Episode struct {
	Title string
	URL   string
}

// ParsePlaylist splits a "title$url#title$url$$$..." playlist into groups and
// returns the group with the most episodes. Ties go to the first group.
func ParsePlaylist(raw string) []Episode {
	var best []Episode

	for _, group := range strings.Split(raw, groupSeparator) {
		episodes := parseGroup(group)
		if len(episodes) > len(best) {
			best = episodes
		}
	}

	return best
}

func parseGroup(group string) []Episode {
	var episodes []Episode

	for _, segment := range strings.Split(group, episodeSeparator) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		title, url, found := strings.Cut(segment, pairSeparator)
		if !found {
			title, url = "", segment
		}

		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}

		title = strings.TrimSpace(title)
		if title == "" {
			title = strconv.Itoa(len(episodes) + 1)
		}

		episodes = append(episodes, Episode{Title: title, URL: url})
	}

	return episodes
}
