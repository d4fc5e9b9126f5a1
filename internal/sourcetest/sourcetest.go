// Package sourcetest provides a scripted source.Source for tests.
package sourcetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vodhub/vodhub/source"
)

// Reply scripts the answer to one page request.
type Reply struct {
	Results   []*source.Result
	PageCount int
	Err       error
	Delay     time.Duration
	// Wait, when set, blocks the reply until it is closed.
	Wait <-chan struct{}
}

// Source answers page requests from a script. Unscripted pages fail with source.ErrEmpty.
type Source struct {
	ID      string
	Name    string
	Pages   map[int]Reply
	Details map[string]*source.Detail

	mu    sync.Mutex
	calls map[int]int
}

// New creates a source with the given key and label.
func New(key, label string) *Source {
	return &Source{
		ID:      key,
		Name:    label,
		Pages:   make(map[int]Reply),
		Details: make(map[string]*source.Detail),
	}
}

// Page scripts a page and returns the source for chaining.
func (s *Source) Page(n int, reply Reply) *Source {
	s.Pages[n] = reply
	return s
}

func (s *Source) Key() string   { return s.ID }
func (s *Source) Label() string { return s.Name }

// Calls returns how many times a page was requested.
func (s *Source) Calls(page int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[page]
}

func (s *Source) SearchPage(ctx context.Context, _ string, page int) (*source.Page, error) {
	s.mu.Lock()
	if s.calls == nil {
		s.calls = make(map[int]int)
	}
	s.calls[page]++
	s.mu.Unlock()

	reply, ok := s.Pages[page]
	if !ok {
		return nil, fmt.Errorf("%s page %d: %w", s.ID, page, source.ErrEmpty)
	}

	if reply.Wait != nil {
		select {
		case <-reply.Wait:
		case <-ctx.Done():
			return nil, source.Transport(ctx.Err())
		}
	}

	if reply.Delay > 0 {
		select {
		case <-time.After(reply.Delay):
		case <-ctx.Done():
			return nil, source.Transport(ctx.Err())
		}
	}

	if reply.Err != nil {
		return nil, reply.Err
	}

	return &source.Page{Results: reply.Results, PageCount: reply.PageCount}, nil
}

func (s *Source) Detail(_ context.Context, id string) (*source.Detail, error) {
	if d, ok := s.Details[id]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%s %s: %w", s.ID, id, source.ErrDetailResolution)
}

// Result builds a playable record of this source.
func (s *Source) Result(id, title, year string, episodes int) *source.Result {
	urls := make([]string, episodes)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://cdn.%s/%s/%d.m3u8", s.ID, id, i+1)
	}

	return &source.Result{
		ID:            id,
		Title:         title,
		Episodes:      urls,
		ProviderKey:   s.ID,
		ProviderLabel: s.Name,
		Year:          year,
	}
}
