// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils

import (
	"net"
	"net/http"
	"net/netip"
)

// PeerAddr returns the address of the immediate peer of r, which is the
// reverse proxy when one is deployed in front of the server.
func PeerAddr(r *http.Request) (netip.Addr, bool) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}

	return addr.Unmap(), true
}

// IsTrustedPeer reports whether forwarding headers from addr are believed.
//
// Reverse proxies are expected on loopback or a private network. A last
// proxy with a public address is not supported.
func IsTrustedPeer(addr netip.Addr) bool {
	return addr.IsLoopback() || addr.IsPrivate()
}

// IsConnectionSecure reports whether the browser reached us over TLS,
// either directly or through a trusted proxy setting X-Forwarded-Proto.
func IsConnectionSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}

	addr, ok := PeerAddr(r)

	return ok && IsTrustedPeer(addr) && r.Header.Get("X-Forwarded-Proto") == "https"
}
