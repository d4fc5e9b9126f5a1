// Package api adapts structured JSON video catalogs.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/vodhub/vodhub/network"
	"github.com/vodhub/vodhub/source"
)

// DefaultSearchPath is appended to the base URL before the escaped query.
const DefaultSearchPath = "?ac=videolist&wd="

const detailPath = "?ac=videolist&ids="

// Options configure a catalog adapter.
type Options struct {
	Key           string
	Label         string
	BaseURL       string
	DetailBaseURL string
	SearchPath    string
	Headers       map[string]string
	Client        network.Doer
	SearchTimeout time.Duration
	DetailTimeout time.Duration
}

// Source is a JSON catalog provider.
type Source struct {
	opts Options
}

// New creates an adapter.
func New(opts Options) *Source {
	if opts.SearchPath == "" {
		opts.SearchPath = DefaultSearchPath
	}
	if opts.DetailBaseURL == "" {
		opts.DetailBaseURL = opts.BaseURL
	}
	if opts.Client == nil {
		opts.Client = network.Client
	}
	return &Source{opts: opts}
}

func (s *Source) Key() string {
	return s.opts.Key
}

func (s *Source) Label() string {
	return s.opts.Label
}

// SearchURL builds the request URL of a result page.
func (s *Source) SearchURL(query string, page int) string {
	u := s.opts.BaseURL + s.opts.SearchPath + url.QueryEscape(query)
	if page > 1 {
		u += "&pg=" + strconv.Itoa(page)
	}
	return u
}

// SearchPage implements source.Source.
func (s *Source) SearchPage(ctx context.Context, query string, page int) (*source.Page, error) {
	resp, err := s.get(ctx, s.SearchURL(query, page), s.opts.SearchTimeout)
	if err != nil {
		return nil, err
	}

	results := lo.FilterMap(resp.List, func(it item, _ int) (*source.Result, bool) {
		r := s.result(it)
		return r, r.EpisodeCount() > 0
	})

	return &source.Page{
		Results:   results,
		PageCount: max(resp.PageCount.Int(), 1),
	}, nil
}

// Detail implements source.Source.
func (s *Source) Detail(ctx context.Context, id string) (*source.Detail, error) {
	pageURL := s.opts.DetailBaseURL + detailPath + url.QueryEscape(id)

	resp, err := s.get(ctx, pageURL, s.opts.DetailTimeout)
	if err != nil {
		return nil, err
	}

	if len(resp.List) == 0 {
		return nil, fmt.Errorf("%s: no item %s: %w", s.opts.Key, id, source.ErrDetailResolution)
	}

	r := s.result(resp.List[0])
	if r.EpisodeCount() == 0 {
		return nil, fmt.Errorf("%s: item %s has no episodes: %w", s.opts.Key, id, source.ErrDetailResolution)
	}

	return &source.Detail{Result: *r, PageURL: pageURL}, nil
}

func (s *Source) get(ctx context.Context, rawURL string, timeout time.Duration) (*response, error) {
	res, err := network.Get(ctx, s.opts.Client, rawURL, s.opts.Headers, timeout)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.opts.Key, err)
	}
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", s.opts.Key, err)
	}

	var resp response
	if err := json.Unmarshal(res.Body, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", s.opts.Key, source.ErrMalformed, err)
	}

	if resp.Code.Int() != 1 {
		return nil, fmt.Errorf("%s: code %q: %w", s.opts.Key, resp.Code, source.ErrMalformed)
	}

	return &resp, nil
}

func (s *Source) result(it item) *source.Result {
	episodes := ParsePlaylist(it.PlayURL)

	return &source.Result{
		ID:            string(it.ID),
		Title:         strings.TrimSpace(it.Name),
		Poster:        absolute(s.opts.BaseURL, it.Pic),
		Episodes:      lo.Map(episodes, func(e Episode, _ int) string { return e.URL }),
		EpisodeTitles: lo.Map(episodes, func(e Episode, _ int) string { return e.Title }),
		ProviderKey:   s.opts.Key,
		ProviderLabel: s.opts.Label,
		Year:          source.NormalizeYear(string(it.Year)),
		Description:   strings.TrimSpace(it.Content),
		Category:      strings.TrimSpace(it.TypeName),
		ExternalID:    it.DoubanID.Int64(),
	}
}

func absolute(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if r.IsAbs() {
		return ref
	}

	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
