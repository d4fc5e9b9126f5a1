// Package aggregate merges a dispatch stream into a flat result list and a
// title-grouped view, batching bursts of provider results.
package aggregate

import (
	"sync"
	"time"

	"github.com/vodhub/vodhub/dispatch"
	"github.com/vodhub/vodhub/log"
	"github.com/vodhub/vodhub/source"
)

// DefaultFlushDelay is how long results wait in the buffer after the last push.
const DefaultFlushDelay = 80 * time.Millisecond

// Progress counts provider tasks of the current dispatch.
type Progress struct {
	Total     int  `json:"total"`
	Completed int  `json:"completed"`
	Failed    int  `json:"failed"`
	Done      bool `json:"done"`
}

// Failure is a provider that ended with an error.
type Failure struct {
	Provider      string `json:"provider"`
	ProviderLabel string `json:"providerLabel"`
	Reason        string `json:"reason"`
	Message       string `json:"message"`
}

// Snapshot is the merged state at one flush.
type Snapshot struct {
	Dispatch string           `json:"dispatch"`
	Query    string           `json:"query"`
	Results  []*source.Result `json:"results"`
	Progress Progress         `json:"progress"`
	Failures []Failure        `json:"failures"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithFlushDelay sets the batching delay. A delay of zero merges every result immediately.
func WithFlushDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.delay = d
	}
}

// WithOnFlush registers a callback invoked after every merge, outside the engine lock.
func WithOnFlush(fn func(Snapshot)) Option {
	return func(e *Engine) {
		e.onFlush = fn
	}
}

// Engine accumulates the results of the current dispatch.
// Events of any other dispatch are discarded.
type Engine struct {
	delay   time.Duration
	onFlush func(Snapshot)

	mu       sync.Mutex
	current  string
	query    string
	pending  []*source.Result
	results  []*source.Result
	progress Progress
	failures []Failure
	timer    *time.Timer
}

// New creates an engine.
func New(options ...Option) *Engine {
	e := &Engine{delay: DefaultFlushDelay}
	for _, option := range options {
		option(e)
	}
	return e
}

// Begin makes a dispatch current and resets all state.
func (e *Engine) Begin(dispatchID, query string, total int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopTimer()
	e.current = dispatchID
	e.query = query
	e.pending = nil
	e.results = nil
	e.failures = nil
	e.progress = Progress{Total: total}
}

// Current returns the current dispatch id.
func (e *Engine) Current() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Apply merges one event. It reports false when the event was discarded as stale.
func (e *Engine) Apply(ev dispatch.Event) bool {
	e.mu.Lock()

	if ev.Dispatch != e.current {
		e.mu.Unlock()
		log.Debugf("aggregate: dropping %s of stale dispatch %s", ev.Type, ev.Dispatch)
		return false
	}

	switch ev.Type {
	case dispatch.TypeStart:
		e.progress.Total = ev.TotalProviders
		e.mu.Unlock()
	case dispatch.TypeResult:
		e.progress.Completed++
		e.pending = append(e.pending, ev.Records...)
		if e.delay > 0 {
			e.schedule()
			e.mu.Unlock()
			break
		}
		e.mu.Unlock()
		e.flush(false)
	case dispatch.TypeError:
		e.progress.Completed++
		e.progress.Failed++
		e.failures = append(e.failures, Failure{
			Provider:      ev.Provider,
			ProviderLabel: ev.ProviderLabel,
			Reason:        ev.Reason,
			Message:       ev.Message,
		})
		e.mu.Unlock()
	case dispatch.TypeComplete:
		e.progress.Done = true
		e.mu.Unlock()
		e.flush(true)
	default:
		e.mu.Unlock()
	}

	return true
}

// schedule restarts the flush timer. Callers hold the lock.
func (e *Engine) schedule() {
	if e.timer != nil {
		e.timer.Reset(e.delay)
		return
	}
	e.timer = time.AfterFunc(e.delay, e.Flush)
}

func (e *Engine) stopTimer() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// Flush merges buffered results into the flat list now.
func (e *Engine) Flush() {
	e.flush(false)
}

func (e *Engine) flush(force bool) {
	e.mu.Lock()
	e.stopTimer()

	if len(e.pending) == 0 && !force {
		e.mu.Unlock()
		return
	}

	e.results = append(e.results, e.pending...)
	e.pending = nil
	snapshot := e.snapshot()
	e.mu.Unlock()

	if e.onFlush != nil {
		e.onFlush(snapshot)
	}
}

func (e *Engine) snapshot() Snapshot {
	return Snapshot{
		Dispatch: e.current,
		Query:    e.query,
		Results:  append([]*source.Result{}, e.results...),
		Progress: e.progress,
		Failures: append([]Failure{}, e.failures...),
	}
}

// Snapshot returns the merged state. Buffered results are not included until flushed.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// Progress returns provider task counts.
func (e *Engine) Progress() Progress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.progress
}

// Flat returns the filtered, sorted flat view.
func (e *Engine) Flat(f Filter) []*source.Result {
	s := e.Snapshot()
	if f.Query == "" {
		f.Query = s.Query
	}
	return Flat(s.Results, f)
}

// Groups returns the filtered, sorted grouped view, recomputed from the flat list.
func (e *Engine) Groups(f Filter) []*Group {
	s := e.Snapshot()
	if f.Query == "" {
		f.Query = s.Query
	}
	return Grouped(s.Results, f)
}

// Watch makes the stream current and merges the rest of it in the background.
// The first event must be the start event of the stream. The returned channel
// is closed once the stream is drained.
func (e *Engine) Watch(events <-chan dispatch.Event) <-chan struct{} {
	done := make(chan struct{})

	start, ok := <-events
	if !ok {
		close(done)
		return done
	}
	e.Begin(start.Dispatch, start.Query, start.TotalProviders)

	go func() {
		defer close(done)
		for ev := range events {
			e.Apply(ev)
		}
	}()

	return done
}

// Drain merges a whole stream and returns the final state.
func (e *Engine) Drain(events <-chan dispatch.Event) Snapshot {
	<-e.Watch(events)
	return e.Snapshot()
}
