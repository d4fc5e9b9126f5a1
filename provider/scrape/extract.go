package scrape

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/vodhub/vodhub/source"
)

type hit struct {
	Path        string
	Title       string
	Poster      string
	Year        string
	Category    string
	Description string
}

type link struct {
	Title string
	URL   string
}

type page struct {
	Title       string
	Poster      string
	Description string
	Year        string
	Category    string
	Episodes    []link
}

func document(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", source.ErrMalformed, err)
	}
	return doc, nil
}

func text(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.First().Text()), " ")
}

func image(s *goquery.Selection) string {
	img := s.First()
	if src, ok := img.Attr("data-src"); ok && strings.TrimSpace(src) != "" {
		return strings.TrimSpace(src)
	}
	return strings.TrimSpace(img.AttrOr("src", ""))
}

func parseSearch(body []byte) ([]hit, error) {
	doc, err := document(body)
	if err != nil {
		return nil, err
	}

	var hits []hit
	doc.Find(".search-item").Each(func(_ int, item *goquery.Selection) {
		path := strings.TrimSpace(item.Find("a.item-link").First().AttrOr("href", ""))
		title := text(item.Find(".item-title"))
		if path == "" || title == "" {
			return
		}

		hits = append(hits, hit{
			Path:        path,
			Title:       title,
			Poster:      image(item.Find("img")),
			Year:        text(item.Find(".item-year")),
			Category:    text(item.Find(".item-category")),
			Description: text(item.Find(".item-desc")),
		})
	})

	return hits, nil
}

func parseDetail(body []byte) (*page, error) {
	doc, err := document(body)
	if err != nil {
		return nil, err
	}

	p := &page{
		Title:       text(doc.Find(".detail-title")),
		Poster:      image(doc.Find(".detail-poster img")),
		Description: text(doc.Find(".detail-desc")),
		Year:        text(doc.Find(".detail-year")),
		Category:    text(doc.Find(".detail-category")),
	}
	if p.Title == "" {
		p.Title = text(doc.Find("h1"))
	}

	seen := make(map[string]struct{})
	doc.Find(".episode-list a[href]").Each(func(i int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			return
		}
		if _, ok := seen[href]; ok {
			return
		}
		seen[href] = struct{}{}

		title := text(a)
		if title == "" {
			title = strconv.Itoa(len(p.Episodes) + 1)
		}
		p.Episodes = append(p.Episodes, link{Title: title, URL: href})
	})

	return p, nil
}

var playerPattern = regexp.MustCompile(`player_[A-Za-z0-9_]+\s*=\s*`)

type player struct {
	URL     string          `json:"url"`
	Encrypt json.RawMessage `json:"encrypt"`
}

func (p player) flag() int {
	raw := strings.Trim(string(p.Encrypt), `" `)
	n, _ := strconv.Atoi(raw)
	return n
}

// parsePlayer extracts and decodes the playable URL embedded in an episode page.
func parsePlayer(body []byte) (string, error) {
	loc := playerPattern.FindIndex(body)
	if loc == nil {
		return "", fmt.Errorf("no player data: %w", source.ErrMalformed)
	}

	var data player
	if err := json.NewDecoder(bytes.NewReader(body[loc[1]:])).Decode(&data); err != nil {
		return "", fmt.Errorf("player data: %w: %s", source.ErrMalformed, err)
	}

	decoded, err := DecoderFor(data.flag()).Decode(data.URL)
	if err != nil {
		return "", fmt.Errorf("player url: %w: %s", source.ErrMalformed, err)
	}

	decoded = strings.TrimSpace(decoded)
	if !usable(decoded) {
		return "", fmt.Errorf("player url %q: %w", decoded, source.ErrMalformed)
	}

	return decoded, nil
}

func resolve(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(r).String()
}
