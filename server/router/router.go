// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"io/fs"
	"net/http"
	"sync"

	"codeberg.org/cruisetracker/cruisetracker/server/middleware"
)

// Router is an http.ServeMux behind a chain of middleware.
//
// The chain is assembled on the first request; Use has no effect afterwards.
type Router struct {
	*http.ServeMux

	// static holds the files served under /css/, /js/ and /robots.txt.
	static fs.FS

	middlewares []middleware.Middleware
	chain       http.Handler
	build       sync.Once
}

// NewRouter returns an empty Router that serves static files from static.
func NewRouter(static fs.FS) *Router {
	return &Router{
		ServeMux: http.NewServeMux(),
		static:   static,
	}
}

// Use appends m to the chain. Middleware run in the order they were added.
func (router *Router) Use(m middleware.Middleware) {
	router.middlewares = append(router.middlewares, m)
}

// Mount hands every request under prefix to h, leaving the path intact.
func (router *Router) Mount(prefix string, h http.Handler) {
	router.Handle(prefix+"/", h)
}

func (router *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	router.build.Do(func() {
		var h http.Handler = router.ServeMux
		for i := len(router.middlewares) - 1; i >= 0; i-- {
			h = middleware.Wrap(router.middlewares[i], h)
		}

		router.chain = h
	})

	router.chain.ServeHTTP(w, r)
}
