// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package set_request_context

import (
	"net/http"

	"codeberg.org/cruisetracker/cruisetracker/server/request_context"
	"codeberg.org/cruisetracker/cruisetracker/server/utils"
)

// RequestIDHeader carries the request ID to and from reverse proxies.
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLength = 64

// WithRequestContext attaches a RequestContext to the request and returns
// its ID in the response headers.
//
// An ID assigned by a trusted reverse proxy is kept so that its logs and
// ours can be joined.
func WithRequestContext(w http.ResponseWriter, r *http.Request, next http.Handler) {
	ctx := request_context.WithRequestContext(r.Context(), r)
	rc := request_context.FromContext(ctx)

	if id := forwardedRequestID(r); id != "" {
		rc.RequestID = id
	}

	w.Header().Set(RequestIDHeader, rc.RequestID)

	next.ServeHTTP(w, r.WithContext(ctx))
}

func forwardedRequestID(r *http.Request) string {
	id := r.Header.Get(RequestIDHeader)
	if id == "" || len(id) > maxRequestIDLength {
		return ""
	}

	if peer, ok := utils.PeerAddr(r); !ok || !utils.IsTrustedPeer(peer) {
		return ""
	}

	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
		default:
			return ""
		}
	}

	return id
}
