package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vodhub/vodhub/source"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func results(ids ...string) []*source.Result {
	out := make([]*source.Result, len(ids))
	for i, id := range ids {
		out[i] = &source.Result{ID: id, Title: "Example Show", Episodes: []string{"u"}}
	}
	return out
}

func TestPaged(t *testing.T) {
	Convey("Given a fresh paged cache", t, func() {
		clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
		c := New(time.Minute, WithClock(clock.Now))

		Convey("A missing key is a miss", func() {
			So(c.Get("alpha", "Example", 1).IsAbsent(), ShouldBeTrue)
		})

		Convey("When a successful page is stored", func() {
			So(c.Put("alpha", "Example", 1, StatusOK, results("1", "2"), 3), ShouldBeTrue)

			Convey("Two reads within the TTL are identical", func() {
				first := c.Get("alpha", "Example", 1).MustGet()
				second := c.Get("alpha", "Example", 1).MustGet()
				So(first, ShouldResemble, second)
				So(first.Status, ShouldEqual, StatusOK)
				So(first.PageCount, ShouldEqual, 3)
				So(len(first.Results), ShouldEqual, 2)
			})

			Convey("Mutating a read does not change the stored entry", func() {
				first := c.Get("alpha", "Example", 1).MustGet()
				first.Results[0] = nil
				So(c.Get("alpha", "Example", 1).MustGet().Results[0], ShouldNotBeNil)
			})

			Convey("The query is matched case-sensitively", func() {
				So(c.Get("alpha", "example", 1).IsAbsent(), ShouldBeTrue)
			})

			Convey("Other pages and providers are separate keys", func() {
				So(c.Get("alpha", "Example", 2).IsAbsent(), ShouldBeTrue)
				So(c.Get("beta", "Example", 1).IsAbsent(), ShouldBeTrue)
			})

			Convey("After the TTL the entry behaves as a miss", func() {
				clock.Advance(time.Minute)
				So(c.Get("alpha", "Example", 1).IsAbsent(), ShouldBeTrue)
				So(c.Len(), ShouldEqual, 0)
			})
		})

		Convey("An empty success is never stored", func() {
			So(c.Put("alpha", "Example", 1, StatusOK, nil, 1), ShouldBeFalse)
			So(c.Get("alpha", "Example", 1).IsAbsent(), ShouldBeTrue)
		})

		Convey("Negative outcomes are stored without records", func() {
			So(c.Put("beta", "Example", 2, StatusTimeout, results("x"), 0), ShouldBeTrue)
			entry := c.Get("beta", "Example", 2).MustGet()
			So(entry.Status, ShouldEqual, StatusTimeout)
			So(entry.Results, ShouldBeEmpty)
			So(errors.Is(entry.Err(), source.ErrNetworkTimeout), ShouldBeTrue)

			So(c.Put("beta", "Example", 1, StatusForbidden, nil, 0), ShouldBeTrue)
			So(errors.Is(c.Get("beta", "Example", 1).MustGet().Err(), source.ErrForbidden), ShouldBeTrue)
		})

		Convey("Clear drops everything", func() {
			c.Put("alpha", "Example", 1, StatusOK, results("1"), 1)
			c.Put("alpha", "Example", 2, StatusTimeout, nil, 0)
			c.Clear()
			So(c.Len(), ShouldEqual, 0)
		})

		Convey("Concurrent writers to the same key are safe", func() {
			var wg sync.WaitGroup
			for i := 0; i < 32; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					c.Put("alpha", "Example", 1, StatusOK, results("1"), 1)
					_ = c.Get("alpha", "Example", 1)
				}()
			}
			wg.Wait()
			So(c.Get("alpha", "Example", 1).IsPresent(), ShouldBeTrue)
		})
	})
}

func TestStatusOf(t *testing.T) {
	Convey("StatusOf", t, func() {
		status, ok := StatusOf(fmt.Errorf("page 1: %w", source.ErrForbidden))
		So(ok, ShouldBeTrue)
		So(status, ShouldEqual, StatusForbidden)

		status, ok = StatusOf(source.Transport(context.DeadlineExceeded))
		So(ok, ShouldBeTrue)
		So(status, ShouldEqual, StatusTimeout)

		_, ok = StatusOf(source.ErrEmpty)
		So(ok, ShouldBeFalse)

		_, ok = StatusOf(source.ErrChallenge)
		So(ok, ShouldBeFalse)
	})
}

func TestDetails(t *testing.T) {
	Convey("Details memo", t, func() {
		d := NewDetails(time.Minute)
		So(d.Get("alpha", "1").IsAbsent(), ShouldBeTrue)

		detail := &source.Detail{Result: source.Result{ID: "1", Title: "Example Show"}}
		d.Set("alpha", "1", detail)
		So(d.Get("alpha", "1").MustGet(), ShouldEqual, detail)
		So(d.Get("beta", "1").IsAbsent(), ShouldBeTrue)

		Convey("A disabled memo never remembers", func() {
			var none *Details = NewDetails(0)
			none.Set("alpha", "1", detail)
			So(none.Get("alpha", "1").IsAbsent(), ShouldBeTrue)
		})
	})
}
