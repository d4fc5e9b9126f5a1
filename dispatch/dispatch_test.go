package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vodhub/vodhub/internal/cache"
	"github.com/vodhub/vodhub/internal/sourcetest"
	"github.com/vodhub/vodhub/source"
)

func drain(events <-chan Event) []Event {
	var all []Event
	for ev := range events {
		all = append(all, ev)
	}
	return all
}

func TestDispatch(t *testing.T) {
	Convey("Given providers that answer at different speeds", t, func() {
		slow := sourcetest.New("slow", "Slow")
		slow.Page(1, sourcetest.Reply{Results: []*source.Result{slow.Result("1", "Example", "2019", 3)}, Delay: 60 * time.Millisecond})

		fast := sourcetest.New("fast", "Fast")
		fast.Page(1, sourcetest.Reply{Results: []*source.Result{fast.Result("1", "Example", "2019", 3)}})

		broken := sourcetest.New("broken", "Broken")
		broken.Page(1, sourcetest.Reply{Err: fmt.Errorf("boom: %w", source.ErrForbidden), Delay: 20 * time.Millisecond})

		d := New(Static(slow, fast, broken), cache.New(time.Minute))

		Convey("Every provider ends with exactly one terminal event before complete", func() {
			events, err := d.Dispatch(context.Background(), "Example")
			So(err, ShouldBeNil)

			all := drain(events)
			So(all, ShouldHaveLength, 5)
			So(all[0].Type, ShouldEqual, TypeStart)
			So(all[0].TotalProviders, ShouldEqual, 3)
			So(all[4].Type, ShouldEqual, TypeComplete)
			So(all[4].CompletedProviders, ShouldEqual, 3)

			terminal := map[string]int{}
			for _, ev := range all[1:4] {
				So(ev.Terminal(), ShouldBeTrue)
				So(ev.Dispatch, ShouldEqual, all[0].Dispatch)
				terminal[ev.Provider]++
			}
			So(terminal, ShouldResemble, map[string]int{"slow": 1, "fast": 1, "broken": 1})

			Convey("In completion order", func() {
				So(all[1].Provider, ShouldEqual, "fast")
				So(all[2].Provider, ShouldEqual, "broken")
				So(all[2].Type, ShouldEqual, TypeError)
				So(all[2].Reason, ShouldEqual, "forbidden")
				So(all[3].Provider, ShouldEqual, "slow")
			})
		})

		Convey("Each dispatch gets its own identifier", func() {
			a, _ := d.Dispatch(context.Background(), "Example")
			b, _ := d.Dispatch(context.Background(), "Example")
			So((<-a).Dispatch, ShouldNotEqual, (<-b).Dispatch)
		})
	})

	Convey("Given no providers", t, func() {
		d := New(Static(), nil)
		events, err := d.Dispatch(context.Background(), "anything")
		So(err, ShouldBeNil)

		all := drain(events)
		So(all, ShouldHaveLength, 2)
		So(all[1].CompletedProviders, ShouldEqual, 0)
	})

	Convey("Given a failing provider resolution", t, func() {
		d := New(func() ([]source.Source, error) { return nil, errors.New("bad registry") }, nil)
		_, err := d.Dispatch(context.Background(), "x")
		So(err, ShouldNotBeNil)
	})

	Convey("Given a multi page provider", t, func() {
		src := sourcetest.New("paged", "Paged")
		src.Page(1, sourcetest.Reply{Results: []*source.Result{src.Result("1", "A", "2020", 1)}, PageCount: 4})
		src.Page(2, sourcetest.Reply{Results: []*source.Result{src.Result("2", "B", "2020", 1)}})
		src.Page(3, sourcetest.Reply{Results: []*source.Result{src.Result("3", "C", "2020", 1)}})

		store := cache.New(time.Minute)
		d := New(Static(src), store, WithMaxPages(func() int { return 3 }))

		Convey("Pages are merged in order up to the ceiling", func() {
			c, err := d.Collect(context.Background(), "q")
			So(err, ShouldBeNil)
			So(c.Total, ShouldEqual, 1)
			So(c.Failures, ShouldBeEmpty)
			So(len(c.Results), ShouldEqual, 3)
			So(c.Results[0].ID, ShouldEqual, "1")
			So(c.Results[2].ID, ShouldEqual, "3")
			So(src.Calls(4), ShouldEqual, 0)

			Convey("And served from the cache the second time", func() {
				_, err := d.Collect(context.Background(), "q")
				So(err, ShouldBeNil)
				So(src.Calls(1), ShouldEqual, 1)
				So(src.Calls(3), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a recorder that fails", t, func() {
		var recorded atomic.Int32
		done := make(chan struct{})
		d := New(Static(), nil, WithRecorder(func(string) error {
			recorded.Add(1)
			close(done)
			return errors.New("disk full")
		}))

		Convey("The stream is unaffected", func() {
			events, err := d.Dispatch(context.Background(), "q")
			So(err, ShouldBeNil)
			So(drain(events), ShouldHaveLength, 2)

			select {
			case <-done:
			case <-time.After(time.Second):
			}
			So(recorded.Load(), ShouldEqual, int32(1))
		})
	})
}

func TestEventJSON(t *testing.T) {
	Convey("Events only carry the fields of their type", t, func() {
		raw, err := json.Marshal(Event{Type: TypeStart, Dispatch: "d", Query: "q"})
		So(err, ShouldBeNil)
		So(string(raw), ShouldEqual, `{"type":"start","dispatch":"d","query":"q","totalProviders":0}`)

		raw, err = json.Marshal(Event{Type: TypeError, Dispatch: "d", Provider: "b", ProviderLabel: "B", Reason: "timeout", Message: "m"})
		So(err, ShouldBeNil)
		So(string(raw), ShouldEqual, `{"type":"source_error","dispatch":"d","provider":"b","providerLabel":"B","reason":"timeout","message":"m"}`)

		raw, err = json.Marshal(Event{Type: TypeComplete, Dispatch: "d", CompletedProviders: 2})
		So(err, ShouldBeNil)
		So(string(raw), ShouldEqual, `{"type":"complete","dispatch":"d","completedProviders":2}`)
	})
}
