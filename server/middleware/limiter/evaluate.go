// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/cruisetracker/cruisetracker/server/routes"
)

// RateLimit response headers, following
// https://www.ietf.org/archive/id/draft-polli-ratelimit-headers-02.html
const (
	HeaderRateLimitLimit     = "RateLimit-Limit"
	HeaderRateLimitRemaining = "RateLimit-Remaining"
	HeaderRateLimitReset     = "RateLimit-Reset"
)

// RefreshPath is the route that drops the upstream response cache.
const RefreshPath = "/refresh"

const apiPathPrefix = "/api/"

// excludedPaths never touch the upstream API, so they are not limited.
var excludedPaths = []string{
	"/about",
	"/css/",
	"/js/",
	"/robots.txt",
}

// Evaluate lets a request through unless its client is block-listed or has
// run out of tokens.
//
// Pass-listed clients and excluded paths skip the buckets. Refreshes are
// charged to a separate, smaller bucket than page views.
func Evaluate(w http.ResponseWriter, r *http.Request, next http.Handler) {
	defer DoCleanup()

	client, err := newClientInfo(r)
	if err != nil {
		log.Warn().Err(err).Str("remote_addr", r.RemoteAddr).Msg("Request blocked, unknown client")
		block(w, r, "Could not determine client address", http.StatusBadRequest)

		return
	}

	if isExcludedPath(r.URL.Path) {
		next.ServeHTTP(w, r)

		return
	}

	logger := log.With().
		Str("ip", client.ip.String()).
		Str("network", client.network.String()).
		Str("path", r.URL.Path).
		Logger()

	switch verdict := client.listed(); verdict {
	case passListed:
		logger.Debug().Stringer("list", verdict).Msg("Request allowed")
		next.ServeHTTP(w, r)

		return
	case blockListed:
		logger.Warn().Stringer("list", verdict).Msg("Request blocked")
		block(w, r, "IP in block-list", http.StatusForbidden)

		return
	case unlisted:
	}

	key := client.bucketKey()
	if r.URL.Path == RefreshPath {
		client.limiter = getOrCreateRefreshLimiter(key)
	} else {
		client.limiter = getOrCreateLimiter(key)
	}

	reason := checkRateLimit(client.limiter, key)

	addRateLimitHeaders(w, client)

	if reason != "" {
		logger.Warn().Str("reason", reason).Msg("Request blocked, exceeded rate limit")
		block(w, r, reason, http.StatusTooManyRequests)

		return
	}

	next.ServeHTTP(w, r)
}

// block answers API clients with a JSON error and browsers with the block page.
func block(w http.ResponseWriter, r *http.Request, reason string, status int) {
	if !strings.HasPrefix(r.URL.Path, apiPathPrefix) {
		routes.BlockPage(w, r, reason, status)

		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(map[string]string{"error": reason}); err != nil {
		log.Err(err).Msg("Failed to write rate limit response")
	}
}

// addRateLimitHeaders describes the client's bucket. Retry-After is added
// once the bucket is empty.
func addRateLimitHeaders(w http.ResponseWriter, client *ClientInfo) {
	if client == nil || client.limiter == nil {
		return
	}

	limit, remaining, reset := client.limiter.state()

	w.Header().Set(HeaderRateLimitLimit, strconv.Itoa(limit))
	w.Header().Set(HeaderRateLimitRemaining, strconv.Itoa(remaining))
	w.Header().Set(HeaderRateLimitReset, strconv.Itoa(reset))

	if remaining == 0 {
		w.Header().Set("Retry-After", strconv.Itoa(reset))
	}
}

// state returns the bucket size, the whole tokens left and the seconds
// until the bucket is full again.
func (lw *limiterWrapper) state() (int, int, int) {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	burst := lw.limiter.Burst()
	tokens := min(lw.limiter.TokensAt(timeNow()), float64(burst))

	reset := 0
	if rate := float64(lw.limiter.Limit()); tokens < float64(burst) && rate > 0 {
		reset = int(math.Ceil((float64(burst) - tokens) / rate))
	}

	return burst, max(int(tokens), 0), reset
}
