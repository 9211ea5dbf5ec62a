package core

import (
	"context"
	"time"

	"github.com/encodeous/weft/rdb"
	"github.com/jellydator/ttlcache/v3"
)

// LinkAging expires links that have not been observed within their age.
type LinkAging struct {
	cache   *ttlcache.Cache[rdb.RouterId, time.Time]
	release func()
}

// NewLinkAging calls expire with the router id of every link whose age ran
// out. expire may be called from another goroutine.
func NewLinkAging(defaultAge time.Duration, expire func(id rdb.RouterId)) *LinkAging {
	cache := ttlcache.New[rdb.RouterId, time.Time](
		ttlcache.WithTTL[rdb.RouterId, time.Time](defaultAge),
		ttlcache.WithDisableTouchOnHit[rdb.RouterId, time.Time](),
	)
	release := cache.OnEviction(func(ctx context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[rdb.RouterId, time.Time]) {
		if reason == ttlcache.EvictionReasonExpired {
			expire(item.Key())
		}
	})
	return &LinkAging{cache: cache, release: release}
}

// Touch restarts the timer of the link to id. A zero age uses the default.
func (a *LinkAging) Touch(id rdb.RouterId, age time.Duration) {
	if age <= 0 {
		age = ttlcache.DefaultTTL
	}
	a.cache.Set(id, time.Now(), age)
}

// Forget stops tracking id without reporting it as expired.
func (a *LinkAging) Forget(id rdb.RouterId) {
	a.cache.Delete(id)
}

// LastSeen returns when the link to id was last touched.
func (a *LinkAging) LastSeen(id rdb.RouterId) (time.Time, bool) {
	item := a.cache.Get(id)
	if item == nil {
		return time.Time{}, false
	}
	return item.Value(), true
}

// Expire reports every link whose age ran out.
func (a *LinkAging) Expire() {
	a.cache.DeleteExpired()
}

// Reset forgets every link.
func (a *LinkAging) Reset() {
	a.cache.DeleteAll()
}

func (a *LinkAging) Close() {
	a.release()
	a.cache.DeleteAll()
}
