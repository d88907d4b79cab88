// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"strings"
)

// NormalizeURL is a middleware that redirects URLs with a trailing slash
// (except root) to their canonical form.
//
// The JSON API is left alone; gin applies its own trailing slash rules.
func NormalizeURL(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if hasTrailingSlash(r) && !strings.HasPrefix(r.URL.Path, "/api/") {
		removeTrailingSlash(w, r)

		return
	}

	next.ServeHTTP(w, r)
}

// hasTrailingSlash checks if a request path has a trailing slash (except root).
func hasTrailingSlash(r *http.Request) bool {
	return r.URL.Path != "/" && strings.HasSuffix(r.URL.Path, "/")
}

// removeTrailingSlash redirects to the path without its trailing slashes,
// keeping the query string.
func removeTrailingSlash(w http.ResponseWriter, r *http.Request) {
	target := *r.URL

	// Leading slashes are collapsed too; "//host" would be a scheme-relative
	// location pointing off site.
	target.Path = "/" + strings.Trim(target.Path, "/")
	target.RawPath = ""
	target.Scheme, target.Host = "", ""

	http.Redirect(w, r, target.RequestURI(), http.StatusPermanentRedirect)
}
