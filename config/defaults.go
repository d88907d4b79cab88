// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "time"

const (
	// DefaultUpstream is the public deployment of the cruise price API.
	DefaultUpstream = "https://cruise-price-tracking-webapp.onrender.com"

	// DefaultChartAssetsHost serves echarts.min.js and its themes.
	DefaultChartAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

	// The upstream refreshes prices once a day, so a short cache is plenty.
	defaultCacheTTLMinutes = 10

	defaultHTTPCacheMaxAgeSeconds               = 30
	defaultHTTPCacheStaleWhileRevalidateSeconds = 60

	// The upstream runs on a free tier that can take a while to wake up.
	defaultRequestTimeoutSeconds = 30
)

// SetDefaults populates the configuration with default values.
func (cfg *ServerConfig) SetDefaults() {
	cfg.Basic.Host = "localhost"
	cfg.Basic.Port = "8282"

	cfg.Upstream.RawBaseURL = DefaultUpstream
	cfg.Upstream.AllPath = "/cruises"
	cfg.Upstream.RawLines = []string{
		"po:P&O Cruises:/cruises/po",
		"princess:Princess Cruises:/cruises/princess",
	}

	cfg.Request.Timeout = defaultRequestTimeoutSeconds * time.Second
	cfg.Request.UserAgent = "CruiseTracker/" + BuildVersion

	cfg.Cache.Enabled = true
	cfg.Cache.Size = 64
	cfg.Cache.TTL = defaultCacheTTLMinutes * time.Minute
	cfg.Cache.Compress = true

	cfg.HTTPCache.MaxAge = defaultHTTPCacheMaxAgeSeconds * time.Second
	cfg.HTTPCache.StaleWhileRevalidate = defaultHTTPCacheStaleWhileRevalidateSeconds * time.Second

	cfg.Chart.AssetsHost = DefaultChartAssetsHost
	cfg.Chart.Width = "100%"
	cfg.Chart.Height = "400px"

	cfg.Instance.RepoURL = "https://codeberg.org/cruisetracker/cruisetracker"

	cfg.Development.SaveResponses = false
	cfg.Development.ResponseSaveLocation = "/tmp/cruisetracker/responses"

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"

	cfg.Limiter.Enabled = false
	cfg.Limiter.Rate = 2
	cfg.Limiter.Burst = 60
	cfg.Limiter.IPv4Prefix = 24
	cfg.Limiter.IPv6Prefix = 48
}
