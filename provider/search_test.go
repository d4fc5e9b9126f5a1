package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vodhub/vodhub/internal/cache"
	"github.com/vodhub/vodhub/internal/sourcetest"
	"github.com/vodhub/vodhub/source"
)

func TestSearch(t *testing.T) {
	Convey("Given a provider behind the page cache", t, func() {
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		store := cache.New(time.Minute, cache.WithClock(func() time.Time { return now }))
		ctx := context.Background()

		src := sourcetest.New("alpha", "Alpha")

		Convey("A forbidden page is served from the cache without calling upstream", func() {
			src.Page(1, sourcetest.Reply{Err: fmt.Errorf("alpha: %w", source.ErrForbidden)})

			_, err := Search(ctx, src, store, "example", 1)
			So(errors.Is(err, source.ErrForbidden), ShouldBeTrue)

			_, err = Search(ctx, src, store, "example", 1)
			So(errors.Is(err, source.ErrForbidden), ShouldBeTrue)
			So(src.Calls(1), ShouldEqual, 1)

			entry, ok := store.Get("alpha", "example", 1).Get()
			So(ok, ShouldBeTrue)
			So(entry.Status, ShouldEqual, cache.StatusForbidden)

			Convey("Until the entry expires", func() {
				now = now.Add(time.Minute)
				_, err := Search(ctx, src, store, "example", 1)
				So(errors.Is(err, source.ErrForbidden), ShouldBeTrue)
				So(src.Calls(1), ShouldEqual, 2)
			})
		})

		Convey("A timed out page is cached as a timeout", func() {
			src.Page(1, sourcetest.Reply{Err: source.Transport(context.DeadlineExceeded)})

			_, _ = Search(ctx, src, store, "example", 1)
			_, err := Search(ctx, src, store, "example", 1)
			So(errors.Is(err, source.ErrNetworkTimeout), ShouldBeTrue)
			So(src.Calls(1), ShouldEqual, 1)
		})

		Convey("A challenge is never cached", func() {
			src.Page(1, sourcetest.Reply{Err: fmt.Errorf("alpha: %w", source.ErrChallenge)})

			_, _ = Search(ctx, src, store, "example", 1)
			_, err := Search(ctx, src, store, "example", 1)
			So(errors.Is(err, source.ErrChallenge), ShouldBeTrue)
			So(src.Calls(1), ShouldEqual, 2)
			So(store.Get("alpha", "example", 1).IsPresent(), ShouldBeFalse)
		})

		Convey("An empty success fails as empty and is not cached", func() {
			src.Page(1, sourcetest.Reply{PageCount: 1, Results: []*source.Result{{ID: "no-episodes", Title: "Example"}}})

			_, err := Search(ctx, src, store, "example", 1)
			So(errors.Is(err, source.ErrEmpty), ShouldBeTrue)
			So(store.Get("alpha", "example", 1).IsPresent(), ShouldBeFalse)
			So(store.Len(), ShouldEqual, 0)

			_, _ = Search(ctx, src, store, "example", 1)
			So(src.Calls(1), ShouldEqual, 2)
		})

		Convey("A successful page is served from the cache", func() {
			src.Page(1, sourcetest.Reply{PageCount: 1, Results: []*source.Result{src.Result("1", "Example", "2020", 3)}})

			first, err := Search(ctx, src, store, "example", 1)
			So(err, ShouldBeNil)
			second, err := Search(ctx, src, store, "example", 1)
			So(err, ShouldBeNil)
			So(second, ShouldHaveLength, 1)
			So(second[0].ID, ShouldEqual, first[0].ID)
			So(src.Calls(1), ShouldEqual, 1)
		})

		Convey("A failing later page keeps the records already gathered", func() {
			src.Page(1, sourcetest.Reply{PageCount: 3, Results: []*source.Result{
				src.Result("1", "Example", "2020", 3),
				src.Result("2", "Example Sequel", "2022", 8),
			}})
			src.Page(2, sourcetest.Reply{Err: source.Transport(context.DeadlineExceeded)})
			src.Page(3, sourcetest.Reply{PageCount: 3, Results: []*source.Result{src.Result("3", "Example", "", 1)}})

			results, err := Search(ctx, src, store, "example", 3)
			So(err, ShouldBeNil)
			So(results, ShouldHaveLength, 2)
			So(results[0].ID, ShouldEqual, "1")
			So(results[1].ID, ShouldEqual, "2")
			So(src.Calls(3), ShouldEqual, 0)

			entry, ok := store.Get("alpha", "example", 2).Get()
			So(ok, ShouldBeTrue)
			So(entry.Status, ShouldEqual, cache.StatusTimeout)
		})

		Convey("Pages stop at the page count page 1 reported", func() {
			src.Page(1, sourcetest.Reply{PageCount: 2, Results: []*source.Result{src.Result("1", "Example", "2020", 3)}})
			src.Page(2, sourcetest.Reply{PageCount: 2, Results: []*source.Result{src.Result("2", "Example", "2020", 3)}})

			results, err := Search(ctx, src, store, "example", 5)
			So(err, ShouldBeNil)
			So(results, ShouldHaveLength, 2)
			So(src.Calls(3), ShouldEqual, 0)
		})

		Convey("A nil store fetches every time", func() {
			src.Page(1, sourcetest.Reply{PageCount: 1, Results: []*source.Result{src.Result("1", "Example", "2020", 3)}})

			_, _ = Search(ctx, src, nil, "example", 1)
			_, err := Search(ctx, src, nil, "example", 1)
			So(err, ShouldBeNil)
			So(src.Calls(1), ShouldEqual, 2)
		})
	})
}

func TestDetail(t *testing.T) {
	Convey("Given a provider with one resolvable title", t, func() {
		src := sourcetest.New("alpha", "Alpha")
		src.Details["1"] = &source.Detail{Result: *src.Result("1", "Example", "2020", 2)}
		memo := cache.NewDetails(time.Minute)

		Convey("A resolved detail is memoized", func() {
			detail, err := Detail(context.Background(), src, memo, "1")
			So(err, ShouldBeNil)
			So(detail.Episodes, ShouldHaveLength, 2)

			delete(src.Details, "1")
			again, err := Detail(context.Background(), src, memo, "1")
			So(err, ShouldBeNil)
			So(again, ShouldPointTo, detail)
		})

		Convey("Failures are not memoized", func() {
			_, err := Detail(context.Background(), src, memo, "2")
			So(errors.Is(err, source.ErrDetailResolution), ShouldBeTrue)
			So(memo.Get("alpha", "2").IsPresent(), ShouldBeFalse)
		})

		Convey("A nil memo resolves every time", func() {
			_, err := Detail(context.Background(), src, nil, "1")
			So(err, ShouldBeNil)
		})
	})
}
