// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	cleanupMu     sync.Mutex
	lastCleanupAt time.Time
)

// DoCleanup sweeps expired limiters at most once per CleanupInterval.
//
// It is called after every evaluated request; the sweep itself runs in the background.
func DoCleanup() {
	now := timeNow()

	cleanupMu.Lock()

	if lastCleanupAt.IsZero() {
		lastCleanupAt = now
	}

	due := now.Sub(lastCleanupAt) >= CleanupInterval
	if due {
		lastCleanupAt = now
	}

	cleanupMu.Unlock()

	if !due {
		return
	}

	go func() {
		cleanupExpiredLimiters()

		log.Info().Time("start", now).Dur("dur", time.Since(now)).Msg("limiter cleanup")
	}()
}
