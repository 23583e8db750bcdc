// Package ratelimit throttles RPC verbs per caller.
package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"fish/internal/app"
	"fish/internal/config"
	"fish/internal/ports"
)

const (
	// DefaultCacheSize bounds how many (caller, verb) limiters are kept.
	DefaultCacheSize = 16384
	// DefaultIdleTTL evicts limiters that have not been used for a while.
	DefaultIdleTTL = 10 * time.Minute
)

type limiterKey struct {
	userID string
	action string
}

// Gate holds one token bucket per caller and verb.
type Gate struct {
	limits   map[string]config.RateLimit
	mu       sync.Mutex
	limiters *expirable.LRU[limiterKey, *rate.Limiter]
	now      func() time.Time
}

var _ ports.RateGate = (*Gate)(nil)

// NewGate builds a gate from the verb table.
func NewGate(limits map[string]config.RateLimit) *Gate {
	return &Gate{
		limits:   limits,
		limiters: expirable.NewLRU[limiterKey, *rate.Limiter](DefaultCacheSize, nil, DefaultIdleTTL),
		now:      time.Now,
	}
}

func (g *Gate) limiter(key limiterKey, rl config.RateLimit) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()
	if l, ok := g.limiters.Get(key); ok {
		return l
	}
	l := rate.NewLimiter(rate.Every(rl.Window()/time.Duration(rl.MaxRequests)), rl.MaxRequests)
	g.limiters.Add(key, l)
	return l
}

// Allow consumes one token for (userID, action).
func (g *Gate) Allow(_ context.Context, userID, action string) error {
	rl, ok := g.limits[action]
	if !ok || rl.MaxRequests <= 0 || rl.WindowSeconds <= 0 {
		return nil
	}
	l := g.limiter(limiterKey{userID: userID, action: action}, rl)
	now := g.now()
	r := l.ReserveN(now, 1)
	if !r.OK() {
		return errorsmod.Wrapf(app.ErrRateLimited, "%s is disabled", action)
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		secs := int(math.Ceil(delay.Seconds()))
		return errorsmod.Wrapf(app.ErrRateLimited, "retry after %d seconds", secs)
	}
	return nil
}
