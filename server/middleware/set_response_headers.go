// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"codeberg.org/cruisetracker/cruisetracker/config"
	"codeberg.org/cruisetracker/cruisetracker/server/utils"
)

// ChartPath is the document embedded by the price graph page.
const ChartPath = "/graph/chart"

const hstsMaxAge = 365 * 24 * time.Hour

// securityHeaders are sent with every response.
var securityHeaders = map[string]string{
	"Referrer-Policy":        "no-referrer",
	"X-Content-Type-Options": "nosniff",
	"Permissions-Policy": strings.Join([]string{
		"accelerometer=()",
		"camera=()",
		"display-capture=()",
		"geolocation=()",
		"gyroscope=()",
		"magnetometer=()",
		"microphone=()",
		"payment=()",
		"usb=()",
	}, ", "),
}

// cspBase is shared by pages and the chart.
var cspBase = []string{
	"base-uri 'self'",
	"default-src 'self'",
	"style-src 'self' 'unsafe-inline'",
	"img-src 'self' data:",
	"font-src 'self'",
	"connect-src 'self'",
	"form-action 'self'",
	"frame-src 'self'",
}

// framing is how a response may be embedded and which scripts it may run.
type framing struct {
	frameOptions   string
	frameAncestors string
	scriptSrc      string
}

// framingFor allows only the chart to be framed, and only by this origin.
// It also runs go-echarts' inline bootstrap script, possibly loading
// ECharts from a CDN.
func framingFor(path string) framing {
	if path != ChartPath {
		return framing{frameOptions: "DENY", frameAncestors: "'none'", scriptSrc: "'self'"}
	}

	scriptSrc := "'self' 'unsafe-inline'"
	if origin := chartAssetsOrigin(); origin != "" {
		scriptSrc += " " + origin
	}

	return framing{frameOptions: "SAMEORIGIN", frameAncestors: "'self'", scriptSrc: scriptSrc}
}

func (f framing) csp() string {
	var b strings.Builder

	for _, directive := range cspBase {
		b.WriteString(directive + "; ")
	}

	b.WriteString("frame-ancestors " + f.frameAncestors + "; ")
	b.WriteString("script-src " + f.scriptSrc + ";")

	return b.String()
}

// SetResponseHeaders adds security, caching and version headers to every response.
func SetResponseHeaders(w http.ResponseWriter, r *http.Request, next http.Handler) {
	headers := w.Header()

	for name, value := range securityHeaders {
		headers.Set(name, value)
	}

	if config.Global.Development.InDevelopment {
		clearSiteCacheOnce(headers)
	}

	setCacheControl(headers, r.URL.Path)

	headers.Set("Cruisetracker-Version", config.BuildVersion)
	headers.Set("Cruisetracker-Revision", config.Global.Build.Revision())

	if utils.IsConnectionSecure(r) {
		headers.Set("Strict-Transport-Security", "max-age="+strconv.Itoa(int(hstsMaxAge.Seconds())))
	}

	f := framingFor(r.URL.Path)
	headers.Set("X-Frame-Options", f.frameOptions)
	headers.Set("Content-Security-Policy", f.csp())

	next.ServeHTTP(w, r)
}

var devCacheCleared sync.Once

// clearSiteCacheOnce tells the first browser after a restart in development
// to drop what it cached from the previous build.
func clearSiteCacheOnce(headers http.Header) {
	devCacheCleared.Do(func() {
		headers.Set("Clear-Site-Data", `"cache"`)
	})
}

// cacheRules are tried in order; pages fall through to revalidating on
// every load and may override it in their handler.
var cacheRules = []struct {
	match        func(path string) bool
	cacheControl string
}{
	{func(p string) bool { return strings.HasPrefix(p, "/js/") || strings.HasPrefix(p, "/css/") }, "max-age=604800"},
	{func(p string) bool { return strings.HasSuffix(p, ".txt") }, "max-age=86400"},
}

func setCacheControl(headers http.Header, path string) {
	for _, rule := range cacheRules {
		if rule.match(path) {
			headers.Set("Cache-Control", rule.cacheControl)

			return
		}
	}

	headers.Set("Cache-Control", "private, no-cache")
}

// chartAssetsOrigin is the origin of the ECharts asset host, or "" when
// the assets are served by this instance.
func chartAssetsOrigin() string {
	parsed, err := url.Parse(config.Global.Chart.AssetsHost)
	if err != nil {
		return ""
	}

	return utils.GetOriginFromURL(*parsed)
}
