// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"codeberg.org/cruisetracker/cruisetracker/config"
)

// Every refresh sends the following page views of all users to the
// upstream API, so refreshes get a bucket of their own that fills slowly.
const (
	RefreshRate  = 1.0 / 60 // tokens per second
	RefreshBurst = 3
)

const (
	// LimiterExpiryDuration is how long an idle bucket is kept.
	LimiterExpiryDuration = time.Hour

	// CleanupInterval is the minimum time between two sweeps.
	CleanupInterval = 5 * time.Minute
)

const refreshKeySuffix = ":refresh"

var (
	// limiters maps a bucket key to its *limiterWrapper. Keys are network
	// prefixes such as "192.0.2.0/24", with refreshKeySuffix for refresh buckets.
	limiters sync.Map

	timeNow = time.Now
)

// limiterWrapper is one token bucket and the time it was last used.
type limiterWrapper struct {
	mu         sync.Mutex
	limiter    *rate.Limiter
	network    string
	lastAccess time.Time
}

func newLimiterWrapper(perSecond float64, burst int, key string) *limiterWrapper {
	return &limiterWrapper{
		limiter:    rate.NewLimiter(rate.Limit(perSecond), burst),
		network:    key,
		lastAccess: timeNow(),
	}
}

// getOrCreateLimiter returns the page view bucket of network.
func getOrCreateLimiter(network string) *limiterWrapper {
	return loadOrStoreLimiter(network, config.Global.Limiter.Rate, config.Global.Limiter.Burst)
}

// getOrCreateRefreshLimiter returns the refresh bucket of network.
func getOrCreateRefreshLimiter(network string) *limiterWrapper {
	return loadOrStoreLimiter(network+refreshKeySuffix, RefreshRate, RefreshBurst)
}

func loadOrStoreLimiter(key string, perSecond float64, burst int) *limiterWrapper {
	if lw, ok := loadLimiterFromMemory(key); ok {
		return lw
	}

	value, _ := limiters.LoadOrStore(key, newLimiterWrapper(perSecond, burst, key))

	return value.(*limiterWrapper) //nolint:forcetypeassert
}

// loadLimiterFromMemory returns the bucket stored under key and marks it used.
func loadLimiterFromMemory(key string) (*limiterWrapper, bool) {
	value, ok := limiters.Load(key)
	if !ok {
		return nil, false
	}

	lw, ok := value.(*limiterWrapper)
	if !ok {
		return nil, false
	}

	lw.mu.Lock()
	lw.lastAccess = timeNow()
	lw.mu.Unlock()

	return lw, true
}

// checkRateLimit takes one token from lw. It returns the reason the request
// is refused, or "" when it may proceed.
func checkRateLimit(lw *limiterWrapper, key string) string {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	now := timeNow()
	lw.lastAccess = now

	if lw.limiter.AllowN(now, 1) {
		return ""
	}

	log.Debug().Str("bucket", key).Msg("Rate limit exceeded")

	return "Rate limit exceeded"
}

// cleanupExpiredLimiters drops buckets idle for longer than LimiterExpiryDuration.
func cleanupExpiredLimiters() {
	cutoff := timeNow().Add(-LimiterExpiryDuration)
	removed := 0

	// Deleting while ranging over a sync.Map is allowed.
	limiters.Range(func(key, value any) bool {
		lw, ok := value.(*limiterWrapper)
		if ok {
			lw.mu.Lock()
			ok = !lw.lastAccess.Before(cutoff)
			lw.mu.Unlock()
		}

		if !ok {
			limiters.Delete(key)

			removed++
		}

		return true
	})

	if removed > 0 {
		log.Info().Int("count", removed).Msg("Cleaned up expired limiters")
	}
}
