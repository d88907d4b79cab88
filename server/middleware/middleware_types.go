// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import "net/http"

// Middleware runs before next and decides whether, and with which request, to call it.
type Middleware func(w http.ResponseWriter, r *http.Request, next http.Handler)

// Wrap turns a Middleware and the handler it guards into a single handler.
func Wrap(m Middleware, next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m(w, r, next)
	}
}
