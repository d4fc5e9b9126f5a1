// Package scrape adapts HTML video sites.
//
// Search results carry the episode page links of each title and are marked
// pending; Detail visits every episode page to recover the playable URLs.
package scrape

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/vodhub/vodhub/log"
	"github.com/vodhub/vodhub/network"
	"github.com/vodhub/vodhub/source"
	"golang.org/x/sync/errgroup"
)

// DefaultSearchPath is appended to the base URL before the escaped query.
const DefaultSearchPath = "/search?wd="

// DefaultWorkers bounds concurrent page fetches per request.
const DefaultWorkers = 4

// Options configure a site adapter.
type Options struct {
	Key              string
	Label            string
	BaseURL          string
	DetailBaseURL    string
	SearchPath       string
	Headers          map[string]string
	Client           network.Doer
	SearchTimeout    time.Duration
	DetailTimeout    time.Duration
	ChallengeBackoff time.Duration
	Workers          int
}

// Source is an HTML site provider.
type Source struct {
	opts    Options
	base    *url.URL
	detail  *url.URL
	headers map[string]string
}

// New creates an adapter.
func New(opts Options) *Source {
	if opts.SearchPath == "" {
		opts.SearchPath = DefaultSearchPath
	}
	if opts.DetailBaseURL == "" {
		opts.DetailBaseURL = opts.BaseURL
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Client == nil {
		opts.Client = network.BrowserClient
	}

	headers := lo.Assign(network.BrowserHeaders, opts.Headers)

	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		base = &url.URL{}
	}
	detail, err := url.Parse(opts.DetailBaseURL)
	if err != nil {
		detail = base
	}

	return &Source{
		opts:    opts,
		base:    base,
		detail:  detail,
		headers: headers,
	}
}

func (s *Source) Key() string {
	return s.opts.Key
}

func (s *Source) Label() string {
	return s.opts.Label
}

// SearchPage implements source.Source. Sites expose a single page.
func (s *Source) SearchPage(ctx context.Context, query string, pageNumber int) (*source.Page, error) {
	if pageNumber > 1 {
		return &source.Page{PageCount: 1}, nil
	}

	body, err := s.fetch(ctx, s.opts.BaseURL+s.opts.SearchPath+url.QueryEscape(query), s.opts.SearchTimeout)
	if err != nil {
		return nil, err
	}

	hits, err := parseSearch(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.opts.Key, err)
	}

	results := make([]*source.Result, len(hits))

	var g errgroup.Group
	g.SetLimit(s.opts.Workers)
	for i, h := range hits {
		g.Go(func() error {
			p, err := s.page(ctx, h.Path, s.opts.SearchTimeout)
			if err != nil {
				log.Debugf("%s: dropping %q: %s", s.opts.Key, h.Title, err)
				return nil
			}
			results[i] = s.result(h, p)
			return nil
		})
	}
	_ = g.Wait()

	return &source.Page{
		Results:   source.Keep(results),
		PageCount: 1,
	}, nil
}

// Detail implements source.Source. The id is the site path of a title page.
func (s *Source) Detail(ctx context.Context, id string) (*source.Detail, error) {
	pageURL := resolve(s.detail, id)

	p, err := s.page(ctx, id, s.opts.DetailTimeout)
	if err != nil {
		return nil, err
	}
	if len(p.Episodes) == 0 {
		return nil, fmt.Errorf("%s: %s has no episode pages: %w", s.opts.Key, pageURL, source.ErrDetailResolution)
	}

	urls := make([]string, len(p.Episodes))

	var g errgroup.Group
	g.SetLimit(s.opts.Workers)
	for i, ep := range p.Episodes {
		g.Go(func() error {
			u, err := s.episode(ctx, ep.URL)
			if err != nil {
				log.Debugf("%s: episode %s: %s", s.opts.Key, ep.URL, err)
				return nil
			}
			urls[i] = u
			return nil
		})
	}
	_ = g.Wait()

	var (
		episodes []string
		titles   []string
	)
	for i, u := range urls {
		if u == "" {
			continue
		}
		episodes = append(episodes, u)
		titles = append(titles, p.Episodes[i].Title)
	}

	if len(episodes) == 0 {
		return nil, fmt.Errorf("%s: no playable episode on %s: %w", s.opts.Key, pageURL, source.ErrDetailResolution)
	}

	return &source.Detail{
		Result: source.Result{
			ID:            id,
			Title:         p.Title,
			Poster:        resolve(s.detail, p.Poster),
			Episodes:      episodes,
			EpisodeTitles: titles,
			ProviderKey:   s.opts.Key,
			ProviderLabel: s.opts.Label,
			Year:          source.NormalizeYear(p.Year),
			Description:   p.Description,
			Category:      p.Category,
		},
		PageURL: pageURL,
	}, nil
}

func (s *Source) page(ctx context.Context, path string, timeout time.Duration) (*page, error) {
	body, err := s.fetch(ctx, resolve(s.detail, path), timeout)
	if err != nil {
		return nil, err
	}

	p, err := parseDetail(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.opts.Key, err)
	}
	return p, nil
}

func (s *Source) episode(ctx context.Context, ref string) (string, error) {
	body, err := s.fetch(ctx, resolve(s.detail, ref), s.opts.DetailTimeout)
	if err != nil {
		return "", err
	}
	return parsePlayer(body)
}

func (s *Source) result(h hit, p *page) *source.Result {
	if len(p.Episodes) == 0 {
		return nil
	}

	return &source.Result{
		ID:            h.Path,
		Title:         h.Title,
		Poster:        resolve(s.base, lo.Ternary(h.Poster != "", h.Poster, p.Poster)),
		Episodes:      lo.Map(p.Episodes, func(l link, _ int) string { return resolve(s.detail, l.URL) }),
		EpisodeTitles: lo.Map(p.Episodes, func(l link, _ int) string { return l.Title }),
		ProviderKey:   s.opts.Key,
		ProviderLabel: s.opts.Label,
		Year:          source.NormalizeYear(lo.Ternary(h.Year != "", h.Year, p.Year)),
		Description:   lo.Ternary(h.Description != "", h.Description, p.Description),
		Category:      strings.TrimSpace(lo.Ternary(h.Category != "", h.Category, p.Category)),
		Pending:       true,
	}
}
