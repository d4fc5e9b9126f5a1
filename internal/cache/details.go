package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/samber/mo"
	"github.com/vodhub/vodhub/source"
)

// Details memoizes resolved titles per provider and id.
// A nil *Details is a valid, always-empty memo.
type Details struct {
	c *gocache.Cache
}

// NewDetails returns a memo with the given lifetime, or nil when ttl is not positive.
func NewDetails(ttl time.Duration) *Details {
	if ttl <= 0 {
		return nil
	}
	return &Details{c: gocache.New(ttl, 2*ttl)}
}

func detailKey(provider, id string) string {
	return provider + "\x00" + id
}

// Get returns the memoized detail, if still live.
func (d *Details) Get(provider, id string) mo.Option[*source.Detail] {
	if d == nil {
		return mo.None[*source.Detail]()
	}

	cached, found := d.c.Get(detailKey(provider, id))
	if !found {
		return mo.None[*source.Detail]()
	}

	detail, ok := cached.(*source.Detail)
	if !ok {
		return mo.None[*source.Detail]()
	}
	return mo.Some(detail)
}

// Set memoizes a resolved detail.
func (d *Details) Set(provider, id string, detail *source.Detail) {
	if d == nil || detail == nil {
		return
	}
	d.c.Set(detailKey(provider, id), detail, gocache.DefaultExpiration)
}
