// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"

	servertiming "github.com/mitchellh/go-server-timing"

	"codeberg.org/cruisetracker/cruisetracker/config"
)

// WithServerTiming reports the audit spans of a request, upstream fetches
// included, in its Server-Timing header.
//
// Static files record no spans and are passed straight through.
func WithServerTiming(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if config.Global.ShouldSkipServerLogging(r.URL.Path) {
		next.ServeHTTP(w, r)

		return
	}

	servertiming.Middleware(next, nil).ServeHTTP(w, r)
}
