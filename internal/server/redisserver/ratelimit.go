package redisserver

import (
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/miniredis-go/pkg/cmap"
)

// rateLimiter applies a token bucket per client IP.
type rateLimiter struct {
	buckets *cmap.Map[*bucket]
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// newRateLimiter allows perSecond commands per second per IP, with a
// burst of the same size. It returns nil when perSecond <= 0.
func newRateLimiter(perSecond int) *rateLimiter {
	if perSecond <= 0 {
		return nil
	}
	return &rateLimiter{
		buckets: cmap.New[*bucket](),
		limit:   rate.Limit(perSecond),
		burst:   perSecond,
		now:     time.Now,
	}
}

// allow reports whether a command from ip may proceed.
func (rl *rateLimiter) allow(ip string) bool {
	if rl == nil {
		return true
	}
	now := rl.now()
	b := rl.buckets.GetOrCreate(ip, func() *bucket {
		return &bucket{lim: rate.NewLimiter(rl.limit, rl.burst)}
	})
	b.lastSeen.Store(now.UnixNano())
	return b.lim.AllowN(now, 1)
}

// prune drops buckets idle for longer than idle and returns how many were
// removed.
func (rl *rateLimiter) prune(idle time.Duration) int {
	if rl == nil {
		return 0
	}
	cutoff := rl.now().Add(-idle).UnixNano()
	return rl.buckets.DeleteIf(func(_ string, b *bucket) bool {
		return b.lastSeen.Load() < cutoff
	})
}
