// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"codeberg.org/cruisetracker/cruisetracker/config"
	"codeberg.org/cruisetracker/cruisetracker/server/middleware"
	"codeberg.org/cruisetracker/cruisetracker/server/middleware/limiter"
	"codeberg.org/cruisetracker/cruisetracker/server/middleware/set_request_context"
)

// RegisterMiddleware installs the chain, outermost first.
//
// Server-Timing must wrap everything that records a span, and the request
// context must exist before the headers and limiter log against it.
func (router *Router) RegisterMiddleware() {
	chain := []middleware.Middleware{
		middleware.WithServerTiming,
		middleware.NormalizeURL,
		set_request_context.WithRequestContext,
		middleware.SetResponseHeaders,
	}

	if config.Global.Limiter.Enabled {
		limiter.Init()

		chain = append(chain, limiter.Evaluate)
	}

	for _, m := range chain {
		router.Use(m)
	}
}
