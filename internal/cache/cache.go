// Package cache memoizes provider result pages and resolved details for the lifetime of the process.
package cache

import (
	"errors"
	"fmt"
	"time"

	csmap "github.com/mhmtszr/concurrent-swiss-map"
	"github.com/samber/mo"
	"github.com/vodhub/vodhub/source"
)

// Status is the outcome recorded for a page.
type Status string

const (
	StatusOK        Status = "ok"
	StatusForbidden Status = "forbidden"
	StatusTimeout   Status = "timeout"
)

// Entry is a cached page outcome.
type Entry struct {
	Status  Status           `json:"status"`
	Results []*source.Result `json:"results"`
	// PageCount is only meaningful on page 1.
	PageCount int       `json:"pageCount"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Err returns the failure a negative entry stands for, or nil for StatusOK.
func (e Entry) Err() error {
	switch e.Status {
	case StatusForbidden:
		return fmt.Errorf("cached: %w", source.ErrForbidden)
	case StatusTimeout:
		return fmt.Errorf("cached: %w", source.ErrNetworkTimeout)
	default:
		return nil
	}
}

// StatusOf maps a provider error onto the negative status it is cached under.
// Errors that are not worth remembering report false.
func StatusOf(err error) (Status, bool) {
	switch {
	case errors.Is(err, source.ErrForbidden):
		return StatusForbidden, true
	case errors.Is(err, source.ErrNetworkTimeout):
		return StatusTimeout, true
	default:
		return "", false
	}
}

// Store is the page cache consumed by searches.
type Store interface {
	Get(provider, query string, page int) mo.Option[Entry]
	Put(provider, query string, page int, status Status, results []*source.Result, pageCount int) bool
}

// Clock reports the current time.
type Clock func() time.Time

// Option configures a Paged cache.
type Option func(*Paged)

// WithClock replaces the wall clock.
func WithClock(now Clock) Option {
	return func(p *Paged) {
		p.now = now
	}
}

// Paged is a concurrency-safe Store keyed by provider, verbatim query and page number.
// Expired entries are dropped lazily on read.
type Paged struct {
	ttl     time.Duration
	now     Clock
	entries *csmap.CsMap[string, Entry]
}

// New creates a cache whose entries live for ttl from the moment they are written.
func New(ttl time.Duration, options ...Option) *Paged {
	p := &Paged{
		ttl:     ttl,
		now:     time.Now,
		entries: csmap.Create[string, Entry](),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// queries are used verbatim, providers may be case-sensitive.
func pageKey(provider, query string, page int) string {
	return fmt.Sprintf("%s\x00%d\x00%s", provider, page, query)
}

// Get returns the live entry for the key, if any.
func (p *Paged) Get(provider, query string, page int) mo.Option[Entry] {
	k := pageKey(provider, query, page)
	entry, ok := p.entries.Load(k)
	if !ok {
		return mo.None[Entry]()
	}

	if !p.now().Before(entry.ExpiresAt) {
		p.entries.Delete(k)
		return mo.None[Entry]()
	}

	entry.Results = append([]*source.Result(nil), entry.Results...)
	return mo.Some(entry)
}

// Put records an outcome. Successful pages without results are never stored,
// since they would be indistinguishable from a page that was never fetched.
func (p *Paged) Put(provider, query string, page int, status Status, results []*source.Result, pageCount int) bool {
	if status == StatusOK && len(results) == 0 {
		return false
	}
	if status != StatusOK {
		results = nil
	}

	stored := make([]*source.Result, len(results))
	copy(stored, results)

	p.entries.Store(pageKey(provider, query, page), Entry{
		Status:    status,
		Results:   stored,
		PageCount: pageCount,
		ExpiresAt: p.now().Add(p.ttl),
	})
	return true
}

// Len returns the number of stored entries, expired ones included.
func (p *Paged) Len() int {
	return p.entries.Count()
}

// Clear drops every entry.
func (p *Paged) Clear() {
	var keys []string
	p.entries.Range(func(k string, _ Entry) bool {
		keys = append(keys, k)
		return false
	})
	for _, k := range keys {
		p.entries.Delete(k)
	}
}
