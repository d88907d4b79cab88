// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"
	"net/http/pprof"
	"runtime/trace"
	"time"

	"codeberg.org/cruisetracker/cruisetracker/config"
	"codeberg.org/cruisetracker/cruisetracker/server/api"
	"codeberg.org/cruisetracker/cruisetracker/server/middleware"
	"codeberg.org/cruisetracker/cruisetracker/server/middleware/limiter"
	"codeberg.org/cruisetracker/cruisetracker/server/routes"
)

// DefineRoutes registers every page, the JSON API and the static files.
// Middleware is added separately by RegisterMiddleware.
func (router *Router) DefineRoutes() {
	static := router.fileServer()

	router.Handle("GET /robots.txt", static)
	router.Handle("GET /css/", static)
	router.Handle("GET /js/", static)

	// About routes
	router.HandleFunc("GET /about", middleware.CatchError(routes.AboutPage))
	router.HandleFunc("POST "+limiter.RefreshPath, middleware.CatchError(routes.RefreshPOST))

	// Cruise routes
	router.HandleFunc("GET /cruises", redirectWithQueryParam("/cruises/", "line", "/?show=1"))
	router.HandleFunc("GET /cruises/{line}", middleware.CatchError(routes.CruisesPage))
	router.HandleFunc("GET /cruises/{line}/{code}", middleware.CatchError(routes.CruisePage))

	// Price graph routes
	router.HandleFunc("GET /graph", middleware.CatchError(routes.GraphPage))
	router.HandleFunc("GET "+middleware.ChartPath, middleware.CatchError(routes.ChartPage))
	router.HandleFunc("GET /graph/export.csv", middleware.CatchError(routes.ExportCSV))

	// JSON API routes
	router.Mount(api.Prefix, api.NewEngine())

	// Index page routes
	// /{$} matches only the root path
	router.HandleFunc("GET /{$}", middleware.CatchError(routes.IndexPage))

	// Anything else gets the themed 404 page
	router.HandleFunc("/", middleware.CatchError(notFound))

	if config.Global.Development.InDevelopment {
		registerDebugRoutes(router)
	}
}

func notFound(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(http.StatusNotFound)

	return nil
}

// fileServer serves router.static.
//
// The files are compiled into the binary, so they only change between
// instances and the per-instance cache ID is a valid strong ETag
// (RFC 9110, section 8.8.1).
func (router *Router) fileServer() http.Handler {
	files := http.FileServerFS(router.static)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"`+config.Global.Instance.FileServerCacheID+`"`)
		files.ServeHTTP(w, r)
	})
}

var flightRecorder = trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: time.Minute})

func registerDebugRoutes(router *Router) {
	err := flightRecorder.Start()
	if err != nil {
		panic(err)
	}

	router.HandleFunc("GET /debug/pprof/", pprof.Index)
	router.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	router.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	router.HandleFunc("GET /debug/flight", func(w http.ResponseWriter, r *http.Request) {
		_, _ = flightRecorder.WriteTo(w)
	})
}
