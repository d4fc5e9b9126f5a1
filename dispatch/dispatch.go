// Package dispatch fans a query out to every enabled provider and streams
// each provider's outcome as soon as it is known.
package dispatch

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/vodhub/vodhub/internal/cache"
	"github.com/vodhub/vodhub/log"
	"github.com/vodhub/vodhub/provider"
	"github.com/vodhub/vodhub/source"
)

// Sources resolves the providers of one dispatch.
type Sources func() ([]source.Source, error)

// FromRegistry resolves providers from a registry on every dispatch.
func FromRegistry(r provider.Registry, tuning func() provider.Tuning) Sources {
	return func() ([]source.Source, error) {
		return provider.Sources(r, tuning())
	}
}

// Static always resolves the same providers.
func Static(sources ...source.Source) Sources {
	return func() ([]source.Source, error) {
		return sources, nil
	}
}

// Recorder persists a dispatched query.
type Recorder func(query string) error

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMaxPages sets the page ceiling, read once per dispatch.
func WithMaxPages(maxPages func() int) Option {
	return func(d *Dispatcher) {
		d.maxPages = maxPages
	}
}

// WithRecorder records every dispatched query in the background.
func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) {
		d.record = r
	}
}

// Dispatcher runs queries against providers.
type Dispatcher struct {
	sources  Sources
	store    cache.Store
	maxPages func() int
	record   Recorder
}

// New creates a dispatcher. A nil store disables page caching.
func New(sources Sources, store cache.Store, options ...Option) *Dispatcher {
	d := &Dispatcher{
		sources:  sources,
		store:    store,
		maxPages: func() int { return 1 },
	}
	for _, option := range options {
		option(d)
	}
	return d
}

// Dispatch starts a query and returns its event stream: a start event, one
// terminal event per provider in completion order, then complete. The channel
// is closed after complete. It is buffered for the whole dispatch, so a
// consumer may stop reading at any point without blocking provider tasks.
func (d *Dispatcher) Dispatch(ctx context.Context, query string) (<-chan Event, error) {
	sources, err := d.sources()
	if err != nil {
		return nil, fmt.Errorf("resolve providers: %w", err)
	}

	id := uuid.NewString()
	maxPages := max(d.maxPages(), 1)
	events := make(chan Event, len(sources)+2)

	log.Infof("dispatch %s: %q to %d providers, %d pages max", id, query, len(sources), maxPages)
	events <- Event{
		Type:           TypeStart,
		Dispatch:       id,
		Query:          query,
		TotalProviders: len(sources),
	}

	if d.record != nil {
		go func() {
			if err := d.record(query); err != nil {
				log.Warnf("record query %q: %s", query, err)
			}
		}()
	}

	var wg sync.WaitGroup
	wg.Add(len(sources))
	for _, src := range sources {
		go func() {
			defer wg.Done()
			events <- d.run(ctx, id, src, query, maxPages)
		}()
	}

	go func() {
		wg.Wait()
		log.Infof("dispatch %s: complete", id)
		events <- Event{
			Type:               TypeComplete,
			Dispatch:           id,
			CompletedProviders: len(sources),
		}
		close(events)
	}()

	return events, nil
}

func (d *Dispatcher) run(ctx context.Context, id string, src source.Source, query string, maxPages int) Event {
	results, err := provider.Search(ctx, src, d.store, query, maxPages)
	if err != nil {
		log.Warnf("dispatch %s: %s failed: %s", id, src.Key(), err)
		return Event{
			Type:          TypeError,
			Dispatch:      id,
			Provider:      src.Key(),
			ProviderLabel: src.Label(),
			Reason:        source.Reason(err),
			Message:       err.Error(),
		}
	}

	log.Infof("dispatch %s: %s returned %d results", id, src.Key(), len(results))
	return Event{
		Type:          TypeResult,
		Dispatch:      id,
		Provider:      src.Key(),
		ProviderLabel: src.Label(),
		Records:       results,
	}
}

// Collection is the materialized outcome of a dispatch.
type Collection struct {
	Dispatch string           `json:"dispatch"`
	Query    string           `json:"query"`
	Total    int              `json:"totalProviders"`
	Results  []*source.Result `json:"results"`
	Failures []Event          `json:"failures"`
}

// Collect dispatches a query and waits for every provider.
func (d *Dispatcher) Collect(ctx context.Context, query string) (*Collection, error) {
	events, err := d.Dispatch(ctx, query)
	if err != nil {
		return nil, err
	}

	collection := &Collection{
		Query:    query,
		Results:  []*source.Result{},
		Failures: []Event{},
	}

	for {
		select {
		case <-ctx.Done():
			return collection, ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return collection, nil
			}

			switch ev.Type {
			case TypeStart:
				collection.Dispatch = ev.Dispatch
				collection.Total = ev.TotalProviders
			case TypeResult:
				collection.Results = append(collection.Results, ev.Records...)
			case TypeError:
				collection.Failures = append(collection.Failures, ev)
			}
		}
	}
}
